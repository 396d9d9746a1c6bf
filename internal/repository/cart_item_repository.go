package repository

import (
	"context"

	"canteen/internal/domain/model"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	FindByCartAndMenuItem(ctx context.Context, cartID int64, menuItemID int64) (model.CartItem, error)
	// 同一品目は数量加算
	UpsertByCartAndMenuItem(ctx context.Context, cartID int64, menuItemID int64, addQty int64) error
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	// 品目指定の削除。存在しなくてもエラーにしない。
	DeleteByCartAndMenuItem(ctx context.Context, cartID int64, menuItemID int64) error
}
