package repository

import (
	"context"

	"canteen/internal/domain/model"
	repo "canteen/internal/repository"

	"gorm.io/gorm"
)

type StockGormRepository struct {
	db *gorm.DB
}

func NewStockGormRepository(db *gorm.DB) *StockGormRepository {
	return &StockGormRepository{db: db}
}

// 在庫の現在値を設定
func (r *StockGormRepository) SetStock(ctx context.Context, menuItemID int64, newStock int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.MenuItem{}).
		Where("id = ?", menuItemID).
		Update("stock", newStock)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 在庫が足りるときだけ減らす。
// WHERE句の stock >= qty が売り越し防止の本体（同時チェックアウトの競合はここで落とす）。
func (r *StockGormRepository) DecreaseStockIfEnough(ctx context.Context, menuItemID int64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.MenuItem{}).
		Where("id = ? AND stock >= ?", menuItemID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}
