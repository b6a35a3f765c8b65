package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"douyin-manager/domain/repository"
	"douyin-manager/infrastructure/realtime"
	httpHandler "douyin-manager/interfaces/http"
	"douyin-manager/interfaces/middleware"
)

func InitiateRouter(
	userHandler httpHandler.IUserHandler,
	videoHandler httpHandler.IVideoHandler,
	douyinHandler httpHandler.IDouyinHandler,
	aiHandler httpHandler.IAIHandler,
	publishHub *realtime.Hub,
	userRepository repository.IUser,
	allowOrigins []string,
	uploadDir string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/login", userHandler.Login)
	router.POST("/register", userHandler.Register)
	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Generated media (AI images, thumbnails) is served statically.
	router.Static("/uploads", uploadDir)

	api := router.Group("api")
	api.Use(middleware.Auth(userRepository))

	api.GET("/users/me", userHandler.Me)

	videos := api.Group("/videos")
	{
		videos.POST("/upload", videoHandler.Upload)
		videos.GET("", videoHandler.List)
		videos.GET("/:id", videoHandler.Get)
		videos.PATCH("/:id", videoHandler.Update)
		videos.DELETE("/:id", videoHandler.Delete)
	}

	douyin := api.Group("/douyin")
	{
		douyin.GET("/auth-url", douyinHandler.AuthURL)
		douyin.POST("/callback", douyinHandler.Callback)
		douyin.GET("/status", douyinHandler.ConnectionStatus)
		douyin.DELETE("/connection", douyinHandler.Disconnect)
		douyin.GET("/videos", douyinHandler.ListVideos)
		douyin.POST("/publish", douyinHandler.Publish)
		douyin.GET("/publish/:taskId/status", douyinHandler.PublishStatus)
		douyin.GET("/publish/events", publishHub.Serve)
	}

	ai := api.Group("/ai")
	{
		ai.POST("/text", aiHandler.GenerateText)
		ai.POST("/title", aiHandler.GenerateTitle)
		ai.POST("/description", aiHandler.GenerateDescription)
		ai.POST("/script", aiHandler.GenerateScript)
		ai.POST("/image", aiHandler.GenerateImage)
		ai.GET("/history", aiHandler.History)
	}

	return router
}
