package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go.ngs.io/praytimes/internal/metrics"
	"go.ngs.io/praytimes/internal/usecase"
)

// RouterConfig carries the dependencies of the HTTP API.
type RouterConfig struct {
	Calculation *usecase.CalculationUseCase
	// Profiles is optional; profile routes are only mounted when set.
	Profiles *usecase.ProfileUseCase

	// DefaultMethod is used when a query does not name a method.
	DefaultMethod string
	// JWTSecret guards profile writes when non-empty.
	JWTSecret string
	// AllowedOrigins lists CORS origins; empty allows all.
	AllowedOrigins []string
}

// SetupRouter creates and configures the Gin router.
func SetupRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(), metrics.Middleware())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowHeaders("Authorization")
	router.Use(cors.New(corsConfig))

	handler := NewHandler(cfg.Calculation, cfg.Profiles, cfg.DefaultMethod)

	v1 := router.Group("/v1")
	v1.POST("/calculate", handler.Calculate)
	v1.GET("/times", handler.GetTimes)
	v1.GET("/next", handler.GetNext)
	v1.GET("/methods", handler.GetMethods)

	if cfg.Profiles != nil {
		profiles := v1.Group("/profiles")
		profiles.GET("", handler.ListProfiles)
		profiles.GET("/:name", handler.GetProfile)
		profiles.GET("/:name/times", handler.GetProfileTimes)

		writes := profiles.Group("")
		if cfg.JWTSecret != "" {
			writes.Use(JWTMiddleware(cfg.JWTSecret))
		}
		writes.PUT("/:name", handler.PutProfile)
		writes.DELETE("/:name", handler.DeleteProfile)
	}

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	return router
}
