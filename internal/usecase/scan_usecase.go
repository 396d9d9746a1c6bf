package usecase

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"canteen/internal/domain/model"
	repo "canteen/internal/repository"
)

// スキャン結果の分類。
type ScanOutcome string

const (
	//該当注文なし。状態は変えない。
	ScanOutcomeNotFound ScanOutcome = "not_found"
	//すでにCompleted。二重の受け渡しを黙って通さないための表示。
	ScanOutcomeAlreadyServed ScanOutcome = "already_served"
	//注文詳細を提示してオペレーターの確認を待つ。
	ScanOutcomeReadyToServe ScanOutcome = "ready_to_serve"
)

type ScanResult struct {
	Outcome ScanOutcome  `json:"outcome"`
	Order   *OrderOutput `json:"order,omitempty"`
}

// ScanUsecase はQRから復号した文字列を注文に解決する。
// 完了への遷移自体はここでは行わず、オペレーター確認後のステータス更新に任せる。
// 二重サーブの本当のガードはCompletedの冪等性であって、この判定は表示用。
type ScanUsecase struct {
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
}

func NewScanUsecase(orderRepo repo.OrderRepository, orderItemRepo repo.OrderItemRepository) *ScanUsecase {
	return &ScanUsecase{orderRepo: orderRepo, orderItemRepo: orderItemRepo}
}

// HandleScan はQRのペイロード（注文IDそのまま）を解決する。
// 解決できないことはエラーではなく結果のひとつ。
func (u *ScanUsecase) HandleScan(ctx context.Context, rawPayload string) (ScanResult, error) {
	payload := strings.TrimSpace(rawPayload)

	//ペイロードは注文IDの素の文字列
	orderID, err := strconv.ParseInt(payload, 10, 64)
	if err != nil || orderID <= 0 {
		return ScanResult{Outcome: ScanOutcomeNotFound}, nil
	}

	o, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return ScanResult{Outcome: ScanOutcomeNotFound}, nil
	}
	if err != nil {
		return ScanResult{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if o.Status == model.OrderStatusCompleted {
		return ScanResult{Outcome: ScanOutcomeAlreadyServed}, nil
	}

	items, err := u.orderItemRepo.ListByOrderID(ctx, o.ID)
	if err != nil {
		return ScanResult{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := toOrderOutput(o, items)
	return ScanResult{Outcome: ScanOutcomeReadyToServe, Order: &out}, nil
}
