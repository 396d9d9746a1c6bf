package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MenuCategory string

const (
	MenuCategoryMeal  MenuCategory = "meal"
	MenuCategorySnack MenuCategory = "snack"
)

// カテゴリが定義済みかどうか
func (c MenuCategory) Valid() bool {
	switch c {
	case MenuCategoryMeal, MenuCategorySnack:
		return true
	default:
		return false
	}
}

// メニュー品目。削除はソフトデリート（削除後はどこからも見えない扱い）。
type MenuItem struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    MenuCategory    `gorm:"type:varchar(20);not null;index" json:"category"`
	Stock       int64           `gorm:"not null" json:"stock"`
	ImageURL    string          `gorm:"type:text" json:"image_url"`
	ImageAlt    string          `gorm:"type:varchar(255)" json:"image_alt"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
