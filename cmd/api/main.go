package main

import (
	"log"

	"canteen/internal/config"
	"canteen/internal/domain/model"
	"canteen/internal/handler"
	"canteen/internal/infra/db"
	infraRepo "canteen/internal/infra/repository"
	"canteen/internal/server"
	"canteen/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.MenuItem{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.AuditLog{},
	); err != nil {
		log.Fatal(err)
	}

	//Repository（GORM実装）生成
	menuRepo := infraRepo.NewMenuItemGormRepository(gormDB)
	stockRepo := infraRepo.NewStockGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	menuUC := usecase.NewMenuUsecase(menuRepo, stockRepo, auditRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartRepo, menuRepo)
	orderUC := usecase.NewOrderUsecase(txManager)
	staffOrderUC := usecase.NewStaffOrderUsecase(txManager, auditRepo)
	scanUC := usecase.NewScanUsecase(orderRepo, orderItemRepo)
	authUC := usecase.NewAuthUsecase(cfg, userRepo)

	//Handler生成
	menuH := handler.NewMenuHandler(menuUC)
	adminMenuH := handler.NewAdminMenuHandler(menuUC)
	cartH := handler.NewCartHandler(cartUC)
	orderH := handler.NewOrderHandler(orderUC)
	staffOrderH := handler.NewStaffOrderHandler(staffOrderUC, scanUC)
	adminAuditH := handler.NewAdminAuditHandler(staffOrderUC)
	authH := handler.NewAuthHandler(authUC)

	//ルート登録
	e := server.New()
	menuH.RegisterRoutes(e)
	authH.RegisterRoutes(e)
	cartH.RegisterRoutes(e, cfg)
	orderH.RegisterRoutes(e, cfg)
	adminMenuH.RegisterRoutes(e, cfg)
	staffOrderH.RegisterRoutes(e, cfg)
	adminAuditH.RegisterRoutes(e, cfg)

	//Server起動
	if err := server.Start(e, cfg.Port); err != nil {
		log.Fatal(err)
	}
}
