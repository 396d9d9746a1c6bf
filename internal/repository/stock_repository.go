package repository

import "context"

// 在庫操作の約束。減算は条件付き（足りるときだけ）で行う。
type StockRepository interface {
	// 在庫の現在値を設定
	SetStock(ctx context.Context, menuItemID int64, newStock int64) error

	// 在庫が足りるときだけ減算。足りなければfalse。
	DecreaseStockIfEnough(ctx context.Context, menuItemID int64, qty int64) (bool, error)
}
