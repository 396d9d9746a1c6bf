package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。名前と価格は注文時点のスナップショット（以後のメニュー編集の影響を受けない）。
type OrderItem struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID           int64           `gorm:"not null;index" json:"order_id"`
	MenuItemID        int64           `gorm:"not null;index" json:"menu_item_id"`
	ItemNameSnapshot  string          `gorm:"type:varchar(255);not null" json:"name"`
	UnitPriceSnapshot decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity          int64           `gorm:"not null" json:"quantity"`
	CreatedAt         time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
