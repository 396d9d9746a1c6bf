package model

import "time"

// カートの明細。価格は保存しない。
// 表示・合計は常にメニューの現在価格で解決する（価格改定が即反映される）。
type CartItem struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID     int64     `gorm:"not null;index" json:"cart_id"`
	MenuItemID int64     `gorm:"not null;index" json:"menu_item_id"`
	Quantity   int64     `gorm:"not null" json:"quantity"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
