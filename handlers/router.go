package handlers

import (
	"net/http"
	"time"

	"resume-penelitian/access"
	"resume-penelitian/config"
	"resume-penelitian/helper"
	"resume-penelitian/metrics"
	"resume-penelitian/middleware"
	"resume-penelitian/services"
	"resume-penelitian/sessions"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// RouterDeps are the handles the HTTP layer is built from.
type RouterDeps struct {
	AuthService     services.AuthService
	ResearchService services.ResearchService
	ReportService   services.ReportService
	Sessions        *sessions.Service
	Policy          *access.Policy
	RateLimit       config.RateLimitConfig
	// Redis switches rate limiting to the shared fixed window; nil keeps it in process.
	Redis *redis.Client
	// Registry serves /metrics; a fresh one is created when nil.
	Registry *prometheus.Registry
}

func NewRouter(d RouterDeps) *gin.Engine {
	h := helper.NewHTTPHelper()
	if d.Policy == nil {
		d.Policy = access.Default()
	}
	if d.Registry == nil {
		d.Registry = prometheus.NewRegistry()
		metrics.RegisterCollectors(d.Registry)
	}

	authHandler := NewAuthHandler(d.AuthService, h)
	sessionHandler := NewSessionHandler(d.Sessions, d.Policy, h)
	researchHandler := NewResearchHandler(d.ResearchService, d.Sessions, h)
	reportHandler := NewReportHandler(d.ReportService, d.Sessions, h)

	page := func(name string) gin.HandlerFunc {
		return middleware.RequirePage(d.Policy, d.Sessions, h, name)
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	{
		// login is limited per client IP, everything behind auth per username
		v1.POST("/auth/login", append(rateLimiter(d), authHandler.Login)...)

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware(d.AuthService, d.Sessions, h))
		protected.Use(rateLimiter(d)...)
		{
			protected.POST("/auth/logout", authHandler.Logout)
			protected.GET("/profile", page(access.PageProfile), authHandler.GetProfile)

			protected.GET("/session", sessionHandler.GetSession)
			protected.PUT("/session/page", sessionHandler.Navigate)
			protected.PUT("/session/selection", sessionHandler.Select)

			protected.GET("/dashboard", page(access.PageDashboard), researchHandler.Dashboard)
			protected.GET("/analysis", page(access.PageAnalysis), researchHandler.Analysis)

			research := protected.Group("/research")
			{
				research.GET("", page(access.PageResearchList), researchHandler.ListResearch)
				research.POST("", page(access.PageResearchInput), researchHandler.CreateResearch)
				research.GET("/:id", page(access.PageResearchDetail), researchHandler.GetResearch)
				research.POST("/import", page(access.PageSettings), researchHandler.Import)
			}

			export := protected.Group("/export", page(access.PageExport))
			{
				export.GET("/research.json", researchHandler.ExportJSON)
				export.GET("/research.csv", researchHandler.ExportCSV)
				export.GET("/reports.csv", reportHandler.ExportCSV)
			}

			reports := protected.Group("/reports")
			{
				reports.GET("", page(access.PageReports), reportHandler.GetReports)
				reports.POST("", page(access.PageReportCreate), reportHandler.CreateReport)
				reports.GET("/stats", page(access.PageReports), reportHandler.Stats)
				reports.GET("/:id", page(access.PageReportDetail), reportHandler.GetReport)
				reports.PUT("/:id", page(access.PageReportEdit), reportHandler.UpdateReport)
				reports.PUT("/:id/status", page(access.PageReportStatus), reportHandler.UpdateStatus)
				reports.GET("/:id/revisions", page(access.PageReportHistory), reportHandler.GetRevisions)
				reports.GET("/:id/collaborators", page(access.PageReportDetail), reportHandler.GetCollaborators)
				reports.POST("/:id/collaborators", page(access.PageReportTeam), reportHandler.AddCollaborator)
			}

			users := protected.Group("/users", page(access.PageUsers))
			{
				users.GET("", authHandler.ListUsers)
				users.POST("", authHandler.Register)
			}
		}
	}

	return router
}

// rateLimiter returns a fresh limiter instance, or nothing when disabled.
func rateLimiter(d RouterDeps) []gin.HandlerFunc {
	if !d.RateLimit.Enabled {
		return nil
	}
	if d.Redis != nil {
		return []gin.HandlerFunc{middleware.RedisRateLimitMiddleware(d.Redis, d.RateLimit.RPS, d.RateLimit.Burst, time.Second)}
	}
	return []gin.HandlerFunc{middleware.RateLimitMiddleware(d.RateLimit.RPS, d.RateLimit.Burst)}
}
