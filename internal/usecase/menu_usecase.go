package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"canteen/internal/domain/model"
	repo "canteen/internal/repository"

	"github.com/shopspring/decimal"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

type MenuUsecase struct {
	menuRepo  repo.MenuItemRepository
	stockRepo repo.StockRepository
	auditRepo repo.AuditLogRepository
}

// DI
func NewMenuUsecase(
	menuRepo repo.MenuItemRepository,
	stockRepo repo.StockRepository,
	auditRepo repo.AuditLogRepository,
) *MenuUsecase {
	return &MenuUsecase{
		menuRepo:  menuRepo,
		stockRepo: stockRepo,
		auditRepo: auditRepo,
	}
}

// GET /menuの入力DTO
type ListMenuInput struct {
	Page     int
	Limit    int
	Q        string
	Category string
	Sort     string
}

type MenuListOutput struct {
	Items []model.MenuItem `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func (u *MenuUsecase) ListMenu(ctx context.Context, in ListMenuInput) (MenuListOutput, error) {
	if in.Page < 1 {
		return MenuListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return MenuListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return MenuListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if in.Category != "" && !model.MenuCategory(in.Category).Valid() {
		return MenuListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc":
	default:
		return MenuListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, total, err := u.menuRepo.List(ctx, repo.MenuItemListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        strings.TrimSpace(in.Q),
		Category: in.Category,
		Sort:     in.Sort,
	})
	if err != nil {
		return MenuListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return MenuListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *MenuUsecase) GetMenuItemDetail(ctx context.Context, menuItemID int64) (model.MenuItem, error) {
	if menuItemID <= 0 {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "invalid menu item id")
	}

	m, err := u.menuRepo.FindByID(ctx, menuItemID)
	if err == repo.ErrNotFound {
		return model.MenuItem{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return m, nil
}

type StaffMenuItemInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Stock       int64
	ImageURL    string
	ImageAlt    string
}

// 入力の共通チェック。販売する品目の価格は0より大きい必要がある。
func validateMenuItemInput(in StaffMenuItemInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if !in.Price.GreaterThan(decimal.Zero) {
		return NewHTTPError(http.StatusBadRequest, "price must be > 0")
	}
	if !model.MenuCategory(in.Category).Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	return nil
}

func (u *MenuUsecase) StaffCreateMenuItem(ctx context.Context, staffUserID int64, in StaffMenuItemInput) (int64, error) {
	if staffUserID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateMenuItemInput(in); err != nil {
		return 0, err
	}

	now := time.Now()
	m, err := u.menuRepo.Create(ctx, model.MenuItem{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Category:    model.MenuCategory(in.Category),
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
		ImageAlt:    in.ImageAlt,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	afterJSON := fmt.Sprintf(`{"name":%q,"price":"%s","stock":%d}`, m.Name, m.Price.String(), m.Stock)
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  staffUserID,
		Action:       model.AuditActionCreateMenuItem,
		ResourceType: model.AuditResourceMenuItem,
		ResourceID:   m.ID,
		AfterJSON:    afterJSON,
		CreatedAt:    time.Now(),
	}); err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return m.ID, nil
}

func (u *MenuUsecase) StaffUpdateMenuItem(ctx context.Context, staffUserID int64, menuItemID int64, in StaffMenuItemInput) error {
	if staffUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if menuItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid menu item id")
	}
	if err := validateMenuItemInput(in); err != nil {
		return err
	}

	//変更前（before）
	before, err := u.menuRepo.FindByID(ctx, menuItemID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	err = u.menuRepo.Update(ctx, model.MenuItem{
		ID:          menuItemID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Category:    model.MenuCategory(in.Category),
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
		ImageAlt:    in.ImageAlt,
		UpdatedAt:   time.Now(),
	})
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	beforeJSON := fmt.Sprintf(`{"name":%q,"price":"%s","stock":%d}`, before.Name, before.Price.String(), before.Stock)
	afterJSON := fmt.Sprintf(`{"name":%q,"price":"%s","stock":%d}`, strings.TrimSpace(in.Name), in.Price.String(), in.Stock)
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  staffUserID,
		Action:       model.AuditActionUpdateMenuItem,
		ResourceType: model.AuditResourceMenuItem,
		ResourceID:   menuItemID,
		BeforeJSON:   beforeJSON,
		AfterJSON:    afterJSON,
		CreatedAt:    time.Now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}

// 削除はソフトデリート。カートや過去の注文に残る参照は参照側で許容される。
func (u *MenuUsecase) StaffDeleteMenuItem(ctx context.Context, staffUserID int64, menuItemID int64) error {
	if staffUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if menuItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid menu item id")
	}

	before, err := u.menuRepo.FindByID(ctx, menuItemID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	err = u.menuRepo.SoftDelete(ctx, menuItemID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	beforeJSON := fmt.Sprintf(`{"name":%q}`, before.Name)
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  staffUserID,
		Action:       model.AuditActionDeleteMenuItem,
		ResourceType: model.AuditResourceMenuItem,
		ResourceID:   menuItemID,
		BeforeJSON:   beforeJSON,
		CreatedAt:    time.Now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}

// 在庫の絶対値を設定する（棚卸し・補充）。
func (u *MenuUsecase) StaffSetStock(ctx context.Context, staffUserID int64, menuItemID int64, newStock int64, reason string) error {
	if staffUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if menuItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid menu item id")
	}
	if newStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	if strings.TrimSpace(reason) == "" {
		return NewHTTPError(http.StatusBadRequest, "reason required")
	}

	//変更前の在庫（before）
	m, err := u.menuRepo.FindByID(ctx, menuItemID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	beforeJSON := fmt.Sprintf(`{"stock":%d}`, m.Stock)
	afterJSON := fmt.Sprintf(`{"stock":%d,"reason":%q}`, newStock, strings.TrimSpace(reason))

	//在庫の現在値を更新
	if err := u.stockRepo.SetStock(ctx, menuItemID, newStock); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//監査ログを作成（在庫更新）
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  staffUserID,
		Action:       model.AuditActionUpdateStock,
		ResourceType: model.AuditResourceMenuItem,
		ResourceID:   menuItemID,
		BeforeJSON:   beforeJSON,
		AfterJSON:    afterJSON,
		CreatedAt:    time.Now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}
