package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpHandler "social-publisher/interfaces/http"
	"social-publisher/interfaces/middleware"
)

func InitiateRouter(
	authHandler httpHandler.IAuthHandler,
	contentHandler httpHandler.IContentHandler,
	publishHandler httpHandler.IPublishHandler,
	tiktokAuthHandler httpHandler.ITikTokAuthHandler,
	mediaHandler httpHandler.IMediaHandler,
	mediaDir string,
	secretKey string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/login", authHandler.Login)

	// OAuth routes stay outside the JWT guard: the provider's browser
	// redirect carries no bearer token.
	router.GET("/auth/tiktok", tiktokAuthHandler.Authorize)
	router.GET("/auth/tiktok/callback", tiktokAuthHandler.Callback)

	// Uploaded media is served publicly so the platforms can fetch it.
	router.Static("/media", mediaDir)

	api := router.Group("api")
	api.Use(middleware.Auth(secretKey))

	api.POST("/contents", contentHandler.Adapt)
	api.GET("/contents", contentHandler.List)
	api.GET("/contents/:id", contentHandler.Get)
	api.DELETE("/contents/:id", contentHandler.Delete)

	api.POST("/variants/:id/publish", publishHandler.Publish)

	api.POST("/media", mediaHandler.Upload)

	api.GET("/tiktok/token", tiktokAuthHandler.Token)

	return router
}
