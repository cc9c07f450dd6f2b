package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tenderhub/tender-backend/internal/ai"
	"github.com/tenderhub/tender-backend/internal/attestation"
	"github.com/tenderhub/tender-backend/internal/config"
	"github.com/tenderhub/tender-backend/internal/db"
	"github.com/tenderhub/tender-backend/internal/goroutine"
	httpRouter "github.com/tenderhub/tender-backend/internal/http/router"
	infraai "github.com/tenderhub/tender-backend/internal/infrastructure/ai"
	"github.com/tenderhub/tender-backend/internal/infrastructure/persistence"
	"github.com/tenderhub/tender-backend/internal/interface/http/handler"
	"github.com/tenderhub/tender-backend/internal/logger"
	"github.com/tenderhub/tender-backend/internal/service"
	"github.com/tenderhub/tender-backend/internal/translate"
	"github.com/tenderhub/tender-backend/internal/usecase/editor"
	"github.com/tenderhub/tender-backend/internal/usecase/proposal"
	"github.com/tenderhub/tender-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret)
	seedService := service.NewSeedService(dbConn)

	// Репозитории.
	proposalRepo := persistence.NewProposalRepositoryAdapter(dbConn)
	versionRepo := persistence.NewVersionRepositoryAdapter(dbConn)
	tenderRepo := persistence.NewTenderRepositoryAdapter(dbConn)
	companyRepo := persistence.NewCompanyRepositoryAdapter(dbConn)

	// Внешние сервисы.
	aiAdapter := infraai.NewAIServiceAdapter(ai.NewClient(cfg.AIBaseURL, cfg.AIModel, cfg.AIMaxInputChars))
	translationAdapter := infraai.NewTranslationAdapter(translate.NewClient(cfg.TranslateBaseURL, ""))
	attestor := attestation.NewClient(cfg.AttestationBaseURL, cfg.AttestationMock)

	// Менеджер сессий редактирования.
	editorManager := editor.NewManager(editor.Deps{
		Proposals:  proposalRepo,
		Versions:   versionRepo,
		Tenders:    tenderRepo,
		Companies:  companyRepo,
		AIService:  aiAdapter,
		Translator: translationAdapter,
		Attestor:   attestor,
	}, cfg.EditorSessionTTL)
	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		editorManager.RunEviction(ctx, 5*time.Minute)
	})

	// Use cases.
	createProposalUC := proposal.NewCreateProposalUseCase(proposalRepo, tenderRepo, companyRepo, aiAdapter)
	getProposalUC := proposal.NewGetProposalUseCase(proposalRepo)
	listMyProposalsUC := proposal.NewListMyProposalsUseCase(proposalRepo)
	deleteProposalUC := proposal.NewDeleteProposalUseCase(proposalRepo)
	listVersionsUC := proposal.NewListVersionsUseCase(proposalRepo, versionRepo)
	getVersionUC := proposal.NewGetVersionUseCase(proposalRepo, versionRepo)

	// HTTP хэндлеры.
	healthHandler := handler.NewHealthHandler(dbConn)
	tenderHandler := handler.NewTenderHandler(tenderRepo)
	proposalHandler := handler.NewProposalHandler(
		createProposalUC, getProposalUC, listMyProposalsUC,
		deleteProposalUC, listVersionsUC, getVersionUC,
	)
	editorHandler := handler.NewEditorHandler(editorManager)
	streamHandler := ws.NewStreamHandler(editorManager, tenderRepo, companyRepo, aiAdapter, tokenManager, cfg.AllowedOrigins)

	var seedHandler *handler.SeedHandler
	if cfg.Env == "development" {
		seedHandler = handler.NewSeedHandler(seedService)
	}

	// Роутер.
	engine := httpRouter.SetupRouter(
		cfg, healthHandler, tenderHandler, proposalHandler,
		editorHandler, streamHandler, seedHandler, tokenManager, companyRepo,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
