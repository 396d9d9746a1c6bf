package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusPreparing OrderStatus = "Preparing"
	OrderStatusReady     OrderStatus = "Ready"
	OrderStatusCompleted OrderStatus = "Completed"
)

// 前進のみの順序。Completedが終端。
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusPreparing: 1,
	OrderStatusReady:     2,
	OrderStatusCompleted: 3,
}

// ステータスが定義済みかどうか
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusRank[s]
	return ok
}

// 進行順の位置。未定義は-1。
func (s OrderStatus) Rank() int {
	r, ok := orderStatusRank[s]
	if !ok {
		return -1
	}
	return r
}

// 注文。作成後はstatus以外は不変。
type Order struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64           `gorm:"not null;index" json:"user_id"`
	Status         OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	ConvenienceFee decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"convenience_fee"`
	OrderDate      time.Time       `gorm:"not null" json:"order_date"`
	IdempotencyKey string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	UpdatedAt      time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
