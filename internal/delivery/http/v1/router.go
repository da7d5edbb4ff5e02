package v1

import (
	"net/http"

	"softacc-backend/config"
	"softacc-backend/internal/delivery/http/middleware"
	"softacc-backend/internal/delivery/http/response"
	"softacc-backend/internal/domain"
	"softacc-backend/internal/usecase"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC domain.ContactUsecase
	HealthUC  usecase.HealthUsecase
	Config    *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.AllowedOrigins, deps.Config.GinMode == gin.ReleaseMode)) // CORS must be first!
	r.Use(middleware.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Nicht gefunden", nil)
	})

	contactLimit := middleware.RateLimitMiddleware(
		middleware.ContactRateLimitConfig(deps.Config.ContactRateLimit, deps.Config.ContactRateWindow),
	)

	v1 := r.Group("/v1")

	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", deps.HealthUC.Check(c.Request.Context()))
	})

	// Public routes
	NewContactHandler(v1, deps.ContactUC, contactLimit)

	// Path the website's form has always posted to
	NewContactHandler(r.Group("/api"), deps.ContactUC, contactLimit)

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
