package usecase

import (
	"context"
	"net/http"

	repo "canteen/internal/repository"

	"github.com/shopspring/decimal"
)

// 手数料。小計が0より大きい注文に1回だけ課す固定額。
var convenienceFeeAmount = decimal.NewFromFloat(1.00)

// 小計から手数料を決める。小計0なら手数料も0。
func feeFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(decimal.Zero) {
		return convenienceFeeAmount
	}
	return decimal.Zero
}

// CartUsecase は /cart の業務ロジックです。
// 明細は品目IDと数量だけを持ち、名前・価格・画像は常にメニューの現在値で解決します。
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	menuRepo     repo.MenuItemRepository
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	menuRepo repo.MenuItemRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		menuRepo:     menuRepo,
	}
}

// カート1行の表示用。priceはメニューの現在価格。
type CartLineView struct {
	MenuItemID int64           `json:"menu_item_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	ImageURL   string          `json:"image_url"`
	ImageAlt   string          `json:"image_alt"`
	Quantity   int64           `json:"quantity"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

type CartTotals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	ConvenienceFee decimal.Decimal `json:"convenience_fee"`
	Total          decimal.Decimal `json:"total"`
}

type CartResponse struct {
	Items []CartLineView `json:"items"`
	CartTotals
}

// ComputeTotals は純関数。キャッシュせず、呼ばれるたびに現在の行から計算する。
func ComputeTotals(lines []CartLineView) CartTotals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Price.Mul(decimal.NewFromInt(l.Quantity)))
	}
	fee := feeFor(subtotal)
	return CartTotals{
		Subtotal:       subtotal,
		ConvenienceFee: fee,
		Total:          subtotal.Add(fee),
	}
}

// GetCart はカート取得（無ければACTIVEを作って空を返す）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.GetOrCreateActiveByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// AddItem は品目を1個追加（同一品目は数量加算）。
// カート内の数量が現在在庫に達していたら追加できない。
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, menuItemID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if menuItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid menu_item_id")
	}

	// ACTIVEカート取得（無ければ作成）
	cart, err := u.cartRepo.GetOrCreateActiveByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// 品目チェック（削除済みは見えない）
	m, err := u.menuRepo.FindByID(ctx, menuItemID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "menu item not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// 既存数量を調べて在庫の上限を超えないようにする
	var existingQty int64 = 0
	item, err := u.cartItemRepo.FindByCartAndMenuItem(ctx, cart.ID, menuItemID)
	if err == nil {
		existingQty = item.Quantity
	} else if err != repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if existingQty >= m.Stock {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "stock exceeded")
	}

	// Upsert（同一品目は加算）
	if err := u.cartItemRepo.UpsertByCartAndMenuItem(ctx, cart.ID, menuItemID, 1); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// ChangeQuantity は符号付きの数量変更。
// 結果が0以下なら行を削除。増やす方向だけ在庫を再チェックする。
// 品目がメニューから消えていたら行ごと暗黙に削除する（エラーにしない）。
func (u *CartUsecase) ChangeQuantity(ctx context.Context, userID int64, menuItemID int64, change int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if menuItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid menu_item_id")
	}
	if change == 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid change")
	}

	cart, err := u.cartRepo.FindActiveByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	item, err := u.cartItemRepo.FindByCartAndMenuItem(ctx, cart.ID, menuItemID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	m, err := u.menuRepo.FindByID(ctx, menuItemID)
	if err == repo.ErrNotFound {
		// メニューから消えた品目は行ごと消す
		if err := u.cartItemRepo.DeleteByCartAndMenuItem(ctx, cart.ID, menuItemID); err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return u.buildCartResponse(ctx, cart.ID)
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	newQty := item.Quantity + change

	if newQty <= 0 {
		if err := u.cartItemRepo.DeleteByCartAndMenuItem(ctx, cart.ID, menuItemID); err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return u.buildCartResponse(ctx, cart.ID)
	}

	//増やすときだけ在庫を再チェック。超えるなら状態は変えない。
	if change > 0 && newQty > m.Stock {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "stock exceeded")
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, item.ID, newQty); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// RemoveItem は無条件削除。エラーケースは無い（無ければ何もしない）。
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, menuItemID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if menuItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid menu_item_id")
	}

	cart, err := u.cartRepo.FindActiveByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		//カートが無ければ削除する物も無い
		return CartResponse{Items: []CartLineView{}, CartTotals: ComputeTotals(nil)}, nil
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartItemRepo.DeleteByCartAndMenuItem(ctx, cart.ID, menuItemID); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// cartIDの明細をまとめてCartResponseを作る。
// メニューから消えた品目の行は表示から外す（落とさない）。
func (u *CartUsecase) buildCartResponse(ctx context.Context, cartID int64) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	lines := make([]CartLineView, 0, len(items))

	for _, it := range items {
		m, err := u.menuRepo.FindByID(ctx, it.MenuItemID)
		if err != nil {
			continue
		}

		lines = append(lines, CartLineView{
			MenuItemID: it.MenuItemID,
			Name:       m.Name,
			Price:      m.Price,
			ImageURL:   m.ImageURL,
			ImageAlt:   m.ImageAlt,
			Quantity:   it.Quantity,
			LineTotal:  m.Price.Mul(decimal.NewFromInt(it.Quantity)),
		})
	}

	return CartResponse{Items: lines, CartTotals: ComputeTotals(lines)}, nil
}
