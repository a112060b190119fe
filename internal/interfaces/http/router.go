package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"haneul/internal/application/reconciliation/usecases"
	"haneul/internal/infrastructure/cache"
	"haneul/internal/infrastructure/config"
	"haneul/internal/infrastructure/repository"
	"haneul/internal/interfaces/http/handlers"
	"haneul/internal/interfaces/http/middleware"
	"haneul/internal/shared/db"
	"haneul/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	engine                *gin.Engine
	cfg                   *config.Config
	reconciliationHandler *handlers.ReconciliationHandler
	entitlementHandler    *handlers.EntitlementHandler
	catalogHandler        *handlers.CatalogHandler
	memoHandler           *handlers.MemoHandler
}

// NewRouter creates a new HTTP router with all dependencies wired together.
// redisClient may be nil; the catalog cache then degrades to direct reads.
func NewRouter(gdb *gorm.DB, cfg *config.Config, redisClient *redis.Client, log logger.Interface) *Router {
	engine := gin.New()

	entitlementRepo := repository.NewEntitlementRepository(gdb, log)
	ledgerRepo := repository.NewUsageLedgerRepository(gdb, log)
	memoRepo := repository.NewReceiptMemoRepository(gdb, log)
	catalogRepo := repository.NewCatalogTypeRepository(gdb, log)

	txMgr := db.NewTransactionManager(gdb)

	catalogTTL := time.Duration(cfg.Redis.CatalogTTLSeconds) * time.Second
	catalogSource := cache.NewCatalogCache(redisClient, catalogRepo, catalogTTL, log)

	deductUC := usecases.NewDeductUseCase(entitlementRepo, ledgerRepo, memoRepo, txMgr, log)
	createEntitlementUC := usecases.NewCreateEntitlementUseCase(entitlementRepo, ledgerRepo, memoRepo, txMgr, log)
	linkUnlinkedUC := usecases.NewLinkUnlinkedUseCase(entitlementRepo, ledgerRepo, memoRepo, txMgr, log)
	recordNoteUC := usecases.NewRecordNoteUseCase(ledgerRepo, memoRepo, txMgr, log)
	reverseUC := usecases.NewReverseUseCase(entitlementRepo, ledgerRepo, memoRepo, txMgr, log)
	getResolutionUC := usecases.NewGetResolutionUseCase(ledgerRepo, log)
	listLedgerUC := usecases.NewListLedgerUseCase(ledgerRepo, log)
	listEntitlementsUC := usecases.NewListEntitlementsUseCase(entitlementRepo, log)
	getEntitlementUC := usecases.NewGetEntitlementUseCase(entitlementRepo, log)
	listCatalogUC := usecases.NewListCatalogUseCase(catalogRepo, log)
	classifyItemsUC := usecases.NewClassifyItemsUseCase(catalogSource, log)
	addMemoUC := usecases.NewAddReceiptMemoUseCase(memoRepo, log)
	listMemosUC := usecases.NewListReceiptMemosUseCase(memoRepo, log)
	listLineMemosUC := usecases.NewListBillingLineMemosUseCase(memoRepo, log)
	deleteMemoUC := usecases.NewDeleteReceiptMemoUseCase(memoRepo, log)

	reconciliationHandler := handlers.NewReconciliationHandler(
		deductUC, createEntitlementUC, linkUnlinkedUC, recordNoteUC,
		reverseUC, getResolutionUC, listLedgerUC, log,
	)
	entitlementHandler := handlers.NewEntitlementHandler(listEntitlementsUC, getEntitlementUC, log)
	catalogHandler := handlers.NewCatalogHandler(listCatalogUC, classifyItemsUC, log)
	memoHandler := handlers.NewMemoHandler(addMemoUC, listMemosUC, listLineMemosUC, deleteMemoUC, log)

	return &Router{
		engine:                engine,
		cfg:                   cfg,
		reconciliationHandler: reconciliationHandler,
		entitlementHandler:    entitlementHandler,
		catalogHandler:        catalogHandler,
		memoHandler:           memoHandler,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(logger.NewLogger()))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.engine.Group("/api/v1")
	{
		lines := v1.Group("/billing-lines")
		{
			lines.POST("/:line_id/deduct", r.reconciliationHandler.Deduct)
			lines.POST("/:line_id/entitlements", r.reconciliationHandler.CreateEntitlement)
			lines.POST("/:line_id/link", r.reconciliationHandler.LinkUnlinked)
			lines.POST("/:line_id/note", r.reconciliationHandler.RecordNote)
			lines.GET("/:line_id/resolution", r.reconciliationHandler.GetResolution)
			lines.DELETE("/:line_id/resolution", r.reconciliationHandler.Reverse)
		}

		v1.GET("/ledger", r.reconciliationHandler.ListLedger)

		v1.GET("/patients/:patient_id/entitlements", r.entitlementHandler.ListPatientEntitlements)
		v1.GET("/entitlements/:entitlement_id", r.entitlementHandler.GetEntitlement)

		catalog := v1.Group("/catalog")
		{
			catalog.GET("/types", r.catalogHandler.ListCatalog)
			catalog.POST("/classify", r.catalogHandler.ClassifyItems)
		}

		receipts := v1.Group("/receipts")
		{
			receipts.POST("/:receipt_id/memos", r.memoHandler.AddMemo)
			receipts.GET("/:receipt_id/memos", r.memoHandler.ListMemos)
		}

		memos := v1.Group("/memos")
		{
			memos.GET("", r.memoHandler.ListBillingLineMemos)
			memos.DELETE("/:memo_id", r.memoHandler.DeleteMemo)
		}
	}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
