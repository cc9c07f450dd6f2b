package router

import (
	"github.com/gin-gonic/gin"

	"github.com/tenderhub/tender-backend/internal/config"
	"github.com/tenderhub/tender-backend/internal/domain/repository"
	"github.com/tenderhub/tender-backend/internal/http/middleware"
	"github.com/tenderhub/tender-backend/internal/interface/http/handler"
	"github.com/tenderhub/tender-backend/internal/service"
	"github.com/tenderhub/tender-backend/internal/ws"
)

func SetupRouter(
	cfg *config.Config,
	healthHandler *handler.HealthHandler,
	tenderHandler *handler.TenderHandler,
	proposalHandler *handler.ProposalHandler,
	editorHandler *handler.EditorHandler,
	streamHandler *ws.StreamHandler,
	seedHandler *handler.SeedHandler,
	tokenManager *service.TokenManager,
	companies repository.CompanyRepository,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	if seedHandler != nil && cfg.Env == "development" {
		api.POST("/seed", seedHandler.Seed)
		api.GET("/seed", seedHandler.Seed)
	}

	// Публичные маршруты
	api.GET("/tenders", tenderHandler.ListTenders)
	api.GET("/tenders/:id", middleware.UUIDValidator("id"), tenderHandler.GetTender)

	// WebSocket стрим AI переписывания: токен в query, авторизация внутри.
	api.GET("/ws/proposals/:id/transform", middleware.UUIDValidator("id"), streamHandler.Handle)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager, companies))
	{
		protected.POST("/proposals", proposalHandler.CreateProposal)
		protected.GET("/proposals/my", proposalHandler.ListMyProposals)
		protected.GET("/proposals/:id", middleware.UUIDValidator("id"), proposalHandler.GetProposal)
		protected.DELETE("/proposals/:id", middleware.UUIDValidator("id"), proposalHandler.DeleteProposal)
		protected.GET("/proposals/:id/versions", middleware.UUIDValidator("id"), proposalHandler.ListVersions)
		protected.GET("/proposals/:id/versions/:n", middleware.UUIDValidator("id"), proposalHandler.GetVersion)

		// Операции сессии редактирования
		protected.GET("/proposals/:id/buffer", middleware.UUIDValidator("id"), editorHandler.GetBuffer)
		protected.POST("/proposals/:id/edit", middleware.UUIDValidator("id"), editorHandler.Edit)
		protected.POST("/proposals/:id/translation/adopt", middleware.UUIDValidator("id"), editorHandler.AdoptTranslation)
		protected.POST("/proposals/:id/restore", middleware.UUIDValidator("id"), editorHandler.Restore)
		protected.POST("/proposals/:id/save", middleware.UUIDValidator("id"), editorHandler.Save)
		protected.POST("/proposals/:id/submit", middleware.UUIDValidator("id"), editorHandler.Submit)
		protected.POST("/proposals/:id/close", middleware.UUIDValidator("id"), editorHandler.Close)

		// AI операции с rate limit: дорогие вызовы внешнего сервиса.
		aiRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
		protected.POST("/proposals/:id/transform", middleware.UUIDValidator("id"), aiRateLimit, editorHandler.Transform)
		protected.POST("/proposals/:id/translate", middleware.UUIDValidator("id"), aiRateLimit, editorHandler.Translate)
	}

	return r
}
