package usecase_test

import (
	"context"
	"testing"

	"canteen/internal/domain/model"
	repo "canteen/internal/repository"
	"canteen/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func price(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// Test: 合計は常に現在価格から再計算。手数料は小計>0のとき1.00固定。
func TestComputeTotals(t *testing.T) {
	lines := []usecase.CartLineView{
		{MenuItemID: 1, Price: price("150"), Quantity: 2},
		{MenuItemID: 2, Price: price("25"), Quantity: 1},
	}

	totals := usecase.ComputeTotals(lines)

	assert.True(t, totals.Subtotal.Equal(price("325")), "subtotal=%s", totals.Subtotal)
	assert.True(t, totals.ConvenienceFee.Equal(price("1.00")), "fee=%s", totals.ConvenienceFee)
	assert.True(t, totals.Total.Equal(price("326.00")), "total=%s", totals.Total)
}

// Test: 空カートは手数料も0
func TestComputeTotals_Empty(t *testing.T) {
	totals := usecase.ComputeTotals(nil)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.ConvenienceFee.IsZero())
	assert.True(t, totals.Total.IsZero())
}

// Test: カート取得。メニューから消えた行は表示から外れる。
func TestCartUsecase_GetCart_SkipsDeletedItems(t *testing.T) {
	ctx := context.Background()

	cartRepo := new(CartRepoMock)
	itemRepo := new(CartItemRepoMock)
	menuRepo := new(MenuItemRepoMock)
	uc := usecase.NewCartUsecase(cartRepo, itemRepo, menuRepo)

	cartRepo.On("GetOrCreateActiveByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 10, UserID: 7, Status: model.CartStatusActive}, nil)
	itemRepo.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{
		{ID: 1, CartID: 10, MenuItemID: 100, Quantity: 2},
		{ID: 2, CartID: 10, MenuItemID: 200, Quantity: 1},
	}, nil)
	menuRepo.On("FindByID", mock.Anything, int64(100)).Return(model.MenuItem{ID: 100, Name: "カレー", Price: price("150"), Stock: 5}, nil)
	//200はメニューから削除済み
	menuRepo.On("FindByID", mock.Anything, int64(200)).Return(model.MenuItem{}, repo.ErrNotFound)

	out, err := uc.GetCart(ctx, 7)
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(100), out.Items[0].MenuItemID)
	assert.True(t, out.Subtotal.Equal(price("300")))
	assert.True(t, out.Total.Equal(price("301.00")))
}

// Test: 追加は1個ずつ。同一品目は加算でupsertされる。
func TestCartUsecase_AddItem_Success(t *testing.T) {
	ctx := context.Background()

	cartRepo := new(CartRepoMock)
	itemRepo := new(CartItemRepoMock)
	menuRepo := new(MenuItemRepoMock)
	uc := usecase.NewCartUsecase(cartRepo, itemRepo, menuRepo)

	cartRepo.On("GetOrCreateActiveByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 10}, nil)
	menuRepo.On("FindByID", mock.Anything, int64(100)).Return(model.MenuItem{ID: 100, Name: "カレー", Price: price("150"), Stock: 2}, nil)
	itemRepo.On("FindByCartAndMenuItem", mock.Anything, int64(10), int64(100)).Return(model.CartItem{ID: 1, CartID: 10, MenuItemID: 100, Quantity: 1}, nil).Once()
	itemRepo.On("UpsertByCartAndMenuItem", mock.Anything, int64(10), int64(100), int64(1)).Return(nil)
	itemRepo.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{
		{ID: 1, CartID: 10, MenuItemID: 100, Quantity: 2},
	}, nil)

	out, err := uc.AddItem(ctx, 7, 100)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), out.Items[0].Quantity)

	itemRepo.AssertExpectations(t)
}

// Test: カート内の数量が在庫に達していたら追加できない
func TestCartUsecase_AddItem_StockCeiling(t *testing.T) {
	ctx := context.Background()

	cartRepo := new(CartRepoMock)
	itemRepo := new(CartItemRepoMock)
	menuRepo := new(MenuItemRepoMock)
	uc := usecase.NewCartUsecase(cartRepo, itemRepo, menuRepo)

	cartRepo.On("GetOrCreateActiveByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 10}, nil)
	menuRepo.On("FindByID", mock.Anything, int64(100)).Return(model.MenuItem{ID: 100, Stock: 2}, nil)
	itemRepo.On("FindByCartAndMenuItem", mock.Anything, int64(10), int64(100)).Return(model.CartItem{ID: 1, Quantity: 2}, nil)

	_, err := uc.AddItem(ctx, 7, 100)
	assertErrContains(t, err, "stock exceeded")

	itemRepo.AssertNotCalled(t, "UpsertByCartAndMenuItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Test: 存在しない品目の追加は404
func TestCartUsecase_AddItem_MenuItemNotFound(t *testing.T) {
	ctx := context.Background()

	cartRepo := new(CartRepoMock)
	itemRepo := new(CartItemRepoMock)
	menuRepo := new(MenuItemRepoMock)
	uc := usecase.NewCartUsecase(cartRepo, itemRepo, menuRepo)

	cartRepo.On("GetOrCreateActiveByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 10}, nil)
	menuRepo.On("FindByID", mock.Anything, int64(999)).Return(model.MenuItem{}, repo.ErrNotFound)

	_, err := uc.AddItem(ctx, 7, 999)
	assertErrContains(t, err, "menu item not found")
}

// Test: 数量変更で0以下になったら行ごと削除
func TestCartUsecase_ChangeQuantity_DropsLineAtZero(t *testing.T) {
	ctx := context.Background()

	cartRepo := new(CartRepoMock)
	itemRepo := new(CartItemRepoMock)
	menuRepo := new(MenuItemRepoMock)
	uc := usecase.NewCartUsecase(cartRepo, itemRepo, menuRepo)

	cartRepo.On("FindActiveByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 10}, nil)
	itemRepo.On("FindByCartAndMenuItem", mock.Anything, int64(10), int64(100)).Return(model.CartItem{ID: 1, Quantity: 1}, nil)
	menuRepo.On("FindByID", mock.Anything, int64(100)).Return(model.MenuItem{ID: 100, Stock: 5}, nil)
	itemRepo.On("DeleteByCartAndMenuItem", mock.Anything, int64(10), int64(100)).Return(nil)
	itemRepo.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{}, nil)

	out, err := uc.ChangeQuantity(ctx, 7, 100, -1)
	assert.NoError(t, err)
	assert.Empty(t, out.Items)

	itemRepo.AssertCalled(t, "DeleteByCartAndMenuItem", mock.Anything, int64(10), int64(100))
}

// Test: メニューから消えた品目への数量変更は行を黙って消す（エラーにしない）
func TestCartUsecase_ChangeQuantity_RemovedFromMenu(t *testing.T) {
	ctx := context.Background()

	cartRepo := new(CartRepoMock)
	itemRepo := new(CartItemRepoMock)
	menuRepo := new(MenuItemRepoMock)
	uc := usecase.NewCartUsecase(cartRepo, itemRepo, menuRepo)

	cartRepo.On("FindActiveByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 10}, nil)
	itemRepo.On("FindByCartAndMenuItem", mock.Anything, int64(10), int64(100)).Return(model.CartItem{ID: 1, Quantity: 2}, nil)
	menuRepo.On("FindByID", mock.Anything, int64(100)).Return(model.MenuItem{}, repo.ErrNotFound)
	itemRepo.On("DeleteByCartAndMenuItem", mock.Anything, int64(10), int64(100)).Return(nil)
	itemRepo.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{}, nil)

	out, err := uc.ChangeQuantity(ctx, 7, 100, 1)
	assert.NoError(t, err)
	assert.Empty(t, out.Items)
}

// Test: 増やす方向は在庫を再チェック。超えるなら状態は変わらない。
func TestCartUsecase_ChangeQuantity_IncreaseBeyondStock(t *testing.T) {
	ctx := context.Background()

	cartRepo := new(CartRepoMock)
	itemRepo := new(CartItemRepoMock)
	menuRepo := new(MenuItemRepoMock)
	uc := usecase.NewCartUsecase(cartRepo, itemRepo, menuRepo)

	cartRepo.On("FindActiveByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 10}, nil)
	itemRepo.On("FindByCartAndMenuItem", mock.Anything, int64(10), int64(100)).Return(model.CartItem{ID: 1, Quantity: 2}, nil)
	menuRepo.On("FindByID", mock.Anything, int64(100)).Return(model.MenuItem{ID: 100, Stock: 2}, nil)

	_, err := uc.ChangeQuantity(ctx, 7, 100, 1)
	assertErrContains(t, err, "stock exceeded")

	itemRepo.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
}

// Test: 削除は無条件。カートが無い場合も空のカートが返るだけ。
func TestCartUsecase_RemoveItem_NoCart(t *testing.T) {
	ctx := context.Background()

	cartRepo := new(CartRepoMock)
	itemRepo := new(CartItemRepoMock)
	menuRepo := new(MenuItemRepoMock)
	uc := usecase.NewCartUsecase(cartRepo, itemRepo, menuRepo)

	cartRepo.On("FindActiveByUserID", mock.Anything, int64(7)).Return(model.Cart{}, repo.ErrNotFound)

	out, err := uc.RemoveItem(ctx, 7, 100)
	assert.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.True(t, out.Total.IsZero())
}
