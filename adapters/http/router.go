package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/career-studio/pkg/apperror"
	"github.com/khoahotran/career-studio/pkg/auth"
	"github.com/khoahotran/career-studio/pkg/logger"
	"github.com/khoahotran/career-studio/pkg/metrics"
)

type RouterDeps struct {
	AuthHandler      *AuthHandler
	StudioHandler    *StudioHandler
	PortfolioHandler *PortfolioHandler
	JWTService       *auth.JWTService
	Metrics          *metrics.Metrics
	Logger           logger.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(deps.Logger))
	if deps.Metrics != nil {
		router.Use(MetricsMiddleware(deps.Metrics))
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	router.Use(ErrorMiddleware(deps.Logger))

	router.NoRoute(func(c *gin.Context) {
		appErr := apperror.NewNotFound("route", c.Request.URL.Path)
		c.JSON(http.StatusNotFound, appErr.ToJSON())
	})

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		admin := api.Group("/admin")
		admin.POST("/auth/login", deps.AuthHandler.Login)

		studio := api.Group("/studio")
		studio.Use(AuthMiddleware(deps.JWTService, deps.Logger))
		{
			studio.GET("/schemas", deps.StudioHandler.ListSchemas)

			session := studio.Group("/session")
			session.POST("", deps.StudioHandler.StartSession)
			session.GET("", deps.StudioHandler.GetSession)
			session.DELETE("", deps.StudioHandler.DiscardSession)
			session.GET("/review", deps.StudioHandler.Review)
			session.POST("/save", deps.StudioHandler.Save)
			session.PATCH("/personal", deps.StudioHandler.UpdatePersonal)
			session.PUT("/theme", deps.StudioHandler.SelectTheme)
			session.PUT("/publishing", deps.StudioHandler.UpdatePublishing)

			sections := session.Group("/sections/:section")
			sections.GET("", deps.StudioHandler.GetSection)
			sections.POST("/entries", deps.StudioHandler.AddEntry)
			sections.PATCH("/entries/:id", deps.StudioHandler.UpdateEntry)
			sections.DELETE("/entries/:id", deps.StudioHandler.RemoveEntry)
			sections.POST("/entries/:id/toggle", deps.StudioHandler.ToggleEntry)
		}

		public := api.Group("/portfolios")
		public.GET("", deps.PortfolioHandler.ListPublic)
		public.GET("/:slug", deps.PortfolioHandler.GetPublic)
		public.GET("/:slug/feed", deps.PortfolioHandler.Feed)
	}

	return router
}
