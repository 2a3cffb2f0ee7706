package api

import (
	"time"

	"github.com/Marga-Ghale/ora-projects/internal/api/handlers"
	"github.com/Marga-Ghale/ora-projects/internal/api/middleware"
	"github.com/Marga-Ghale/ora-projects/internal/config"
	"github.com/Marga-Ghale/ora-projects/internal/metrics"
	"github.com/Marga-Ghale/ora-projects/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	Config   *config.Config
	Services *service.Services
	Health   *handlers.HealthHandler
	Metrics  *metrics.Metrics
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	if deps.Config.IsProduction() {
		r.Use(middleware.RequestLogger())
	} else {
		r.Use(gin.Logger())
	}
	r.Use(middleware.Metrics(deps.Metrics))

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h := handlers.NewHandlers(deps.Services, deps.Health)
	authRequired := middleware.AuthMiddleware(deps.Services.Auth)

	h.Health.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
			auth.POST("/logout", middleware.OptionalAuthMiddleware(deps.Services.Auth), h.Auth.Logout)
			auth.POST("/logout-all", authRequired, h.Auth.LogoutAll)
		}

		users := api.Group("/users", authRequired)
		{
			users.GET("/me", h.User.GetCurrentUser)
			users.PUT("/me", h.User.UpdateCurrentUser)
		}

		projects := api.Group("/projects", authRequired)
		{
			projects.GET("", h.Project.List)
			projects.GET("/archive", h.Project.ListArchived)
			projects.GET("/new", h.Project.NewForm)
			projects.POST("", h.Project.Create)
			projects.GET("/:id", h.Project.Get)
			projects.GET("/:id/edit", h.Project.EditForm)
			projects.PUT("/:id", h.Project.Update)
			projects.DELETE("/:id", h.Project.Delete)
		}
	}

	return r
}
