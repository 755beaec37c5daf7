package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"account-service/internal/adapter/gin/handler"
	"account-service/internal/adapter/gin/middleware"
	"account-service/internal/config"
	redisclient "account-service/pkg/redis"
	"account-service/pkg/security"
)

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	accountHandler *handler.AccountHandler,
	tokens *security.TokenManager,
	rateLimitCfg config.RateLimitConfig,
	redisClient *redisclient.Client,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	if redisClient != nil {
		router.Use(middleware.RateLimiter(rateLimitCfg, redisClient.Client))
	}
	router.Use(middleware.Authentication(tokens))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "account-service",
		})
	})

	// Swagger UI backed by the static OpenAPI document
	router.GET("/swagger/account.swagger.json", func(c *gin.Context) {
		c.File("./api/swagger/account.swagger.json")
	})
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
		httpSwagger.URL("/swagger/account.swagger.json"),
	)))

	// Account management routes
	api := router.Group("/api")
	{
		api.POST("/register", accountHandler.RegisterAccount)
		api.GET("/activate", accountHandler.ActivateAccount)
		api.POST("/authenticate", accountHandler.Login)
		api.GET("/authenticate", accountHandler.IsAuthenticated)

		acc := api.Group("/account")
		{
			acc.GET("", accountHandler.GetAccount)
			acc.POST("", accountHandler.SaveAccount)
			acc.POST("/change-password", accountHandler.ChangePassword)
			acc.POST("/reset-password/init", accountHandler.RequestPasswordReset)
			acc.POST("/reset-password/finish", accountHandler.FinishPasswordReset)
		}
	}

	return router
}
