package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/ignatzorin/classifieds-moderation/internal/config"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/http/handlers"
	"github.com/ignatzorin/classifieds-moderation/internal/http/middleware"
	"github.com/ignatzorin/classifieds-moderation/internal/interface/http/handler"
	"github.com/ignatzorin/classifieds-moderation/internal/metrics"
)

// Handlers - всё, что подключается к маршрутам.
type Handlers struct {
	Health     *handlers.HealthHandler
	WS         *handlers.WSHandler
	Categories *handler.CategoryHandler
	Listings   *handler.ListingHandler
	Moderation *handler.ModerationHandler
	Reports    *handler.ReportHandler
}

func SetupRouter(
	cfg *config.Config,
	h Handlers,
	tokens middleware.TokenParser,
	limiterStore limiter.Store,
	m *metrics.Metrics,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	if m != nil {
		r.Use(m.Middleware())
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(limiterStore, cfg.RateLimitLimit, cfg.RateLimitPeriod, middleware.ByClientIP))

	// Публичные маршруты
	api.GET("/categories", h.Categories.List)
	api.GET("/categories/:slug", h.Categories.Get)
	api.GET("/listings", h.Listings.ListPublic)
	api.GET("/listings/:id", middleware.IDValidator("id"), h.Listings.GetPublic)
	if h.WS != nil {
		api.GET("/ws", h.WS.Owner)
		api.GET("/admin/ws", h.WS.Admin)
	}

	// Владелец
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokens))
	{
		protected.POST("/listings", h.Listings.Submit)
		protected.PATCH("/listings/:id", middleware.IDValidator("id"), h.Listings.Update)
		protected.PATCH("/listings/:id/reopen", middleware.IDValidator("id"), h.Listings.Reopen)
		protected.POST("/listings/:id/reports",
			middleware.IDValidator("id"),
			middleware.RateLimitMiddleware(limiterStore, cfg.ReportRateLimit, cfg.RateLimitPeriod, middleware.ByActor("report")),
			h.Reports.File,
		)

		protected.GET("/my/listings", h.Listings.ListMine)
		protected.GET("/my/listings/:id", middleware.IDValidator("id"), h.Listings.GetMine)
	}

	// Администратор
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokens), middleware.RequireRole(valueobject.RoleAdmin))
	{
		admin.GET("/listings", h.Moderation.List)
		admin.GET("/listings/:id", middleware.IDValidator("id"), h.Moderation.Get)
		admin.GET("/listings/:id/history", middleware.IDValidator("id"), h.Moderation.History)
		admin.PATCH("/listings/:id/approve", middleware.IDValidator("id"), h.Moderation.Approve)
		admin.PATCH("/listings/:id/reject", middleware.IDValidator("id"), h.Moderation.Reject)
		admin.PATCH("/listings/:id/reopen", middleware.IDValidator("id"), h.Moderation.Reopen)
		admin.PATCH("/listings/:id/expire", middleware.IDValidator("id"), h.Moderation.Expire)

		admin.GET("/reports", h.Reports.List)
		admin.GET("/reports/:id", middleware.IDValidator("id"), h.Reports.Get)
		admin.GET("/reports/:id/history", middleware.IDValidator("id"), h.Reports.History)
		admin.PATCH("/reports/:id/accept", middleware.IDValidator("id"), h.Reports.Accept)
		admin.PATCH("/reports/:id/dismiss", middleware.IDValidator("id"), h.Reports.Dismiss)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "маршрут не найден", "code": "NOT_FOUND"})
	})

	return r
}
