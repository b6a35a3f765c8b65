package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"douyin-manager/infrastructure/cache"
	aiclient "douyin-manager/infrastructure/clients/ai"
	douyinclient "douyin-manager/infrastructure/clients/douyin"
	"douyin-manager/infrastructure/configuration"
	"douyin-manager/infrastructure/logger"
	"douyin-manager/infrastructure/persistence"
	"douyin-manager/infrastructure/realtime"
	httpHandler "douyin-manager/interfaces/http"
	"douyin-manager/server"
	"douyin-manager/usecase"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	psqlDb, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Database initialization failed")
		os.Exit(1)
	}
	if err := persistence.EnsureSchema(psqlDb); err != nil {
		logger.GetLogger().WithField("error", err).Error("Schema bootstrap failed")
		os.Exit(1)
	}
	logger.GetLogger().Info("Database connected.")

	redisClient, _ := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)

	userRepository := persistence.NewUserRepository(psqlDb)
	credentialRepository := persistence.NewCredentialRepository(psqlDb)
	videoRepository := persistence.NewVideoRepository(psqlDb)
	taskRepository := persistence.NewPublishTaskRepository(psqlDb)
	generationRepository := persistence.NewAIGenerationRepository(psqlDb)

	douyinClient := douyinclient.NewClient(douyinclient.Config{
		ClientKey:    configuration.C.Douyin.ClientKey,
		ClientSecret: configuration.C.Douyin.ClientSecret,
		RedirectURI:  configuration.C.Douyin.RedirectURI,
		BaseURL:      configuration.C.Douyin.BaseURL,
	})
	openAIClient := aiclient.NewOpenAIClient(configuration.C.AI.OpenAIKey, configuration.C.Upload.Dir)
	stabilityClient := aiclient.NewStabilityClient(configuration.C.AI.StabilityKey, configuration.C.Upload.Dir)

	videoListCache := cache.NewVideoListCache(redisClient)
	publishHub := realtime.NewPublishHub()

	tokenManager := usecase.NewTokenManager(credentialRepository, douyinClient)
	userUsecase := usecase.NewUserUsecase(userRepository)
	videoUsecase := usecase.NewVideoUsecase(videoRepository)
	aiUsecase := usecase.NewAIUsecase(openAIClient, stabilityClient, generationRepository)
	douyinUsecase := usecase.NewDouyinUsecase(
		douyinClient,
		tokenManager,
		credentialRepository,
		videoRepository,
		taskRepository,
		videoListCache,
		publishHub,
	)

	userHandler := httpHandler.NewUserHandler(userUsecase)
	videoHandler := httpHandler.NewVideoHandler(videoUsecase)
	aiHandler := httpHandler.NewAIHandler(aiUsecase)
	douyinHandler := httpHandler.NewDouyinHandler(douyinUsecase)

	allowOrigins := configuration.C.Cors.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	router := server.InitiateRouter(
		userHandler,
		videoHandler,
		douyinHandler,
		aiHandler,
		publishHub,
		userRepository,
		allowOrigins,
		configuration.C.Upload.Dir,
	)

	logger.GetLogger().WithField("port", app.Port).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", app.Port),
			Handler: router,
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	_ = psqlDb.Close()

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
	}
}
