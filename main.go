package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"social-publisher/domain/model"
	"social-publisher/domain/repository"
	"social-publisher/infrastructure/cache"
	"social-publisher/infrastructure/clients/gemini"
	"social-publisher/infrastructure/clients/social"
	"social-publisher/infrastructure/configuration"
	"social-publisher/infrastructure/logger"
	"social-publisher/infrastructure/media"
	"social-publisher/infrastructure/notifier"
	"social-publisher/infrastructure/persistence"
	httpHandler "social-publisher/interfaces/http"
	"social-publisher/server"
	"social-publisher/usecase"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	db, err := InitiateDatabase()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Database initialization failed")
		os.Exit(1)
	}
	logger.GetLogger().WithField("ping", db.Ping()).Info("Database connected.")

	useMSSQL := isProduction()
	if useMSSQL {
		err = persistence.EnsurePublishSchemaMSSQL(db)
	} else {
		err = persistence.EnsurePublishSchema(db)
	}
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed ensuring publish schema")
		os.Exit(1)
	}

	var contentRepository repository.IContent
	var variantRepository repository.IVariant
	var credentialRepository repository.ICredential
	if useMSSQL {
		contentRepository = persistence.NewContentRepositoryMSSQL(db)
		variantRepository = persistence.NewVariantRepositoryMSSQL(db)
		credentialRepository = persistence.NewCredentialRepositoryMSSQL(db)
	} else {
		contentRepository = persistence.NewContentRepository(db)
		variantRepository = persistence.NewVariantRepository(db)
		credentialRepository = persistence.NewCredentialRepository(db)
	}

	// Redis backs the PKCE verifier store when available; otherwise the
	// in-memory store carries single-instance deployments.
	var verifierStore usecase.IVerifierStore
	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - using in-memory verifier store")
		verifierStore = cache.NewMemoryVerifierStore()
	} else {
		logger.GetLogger().Info("Redis client initialized successfully.")
		verifierStore = cache.NewRedisVerifierStore(redisClient)
	}

	mediaBaseURL := configuration.C.Media.BaseURL
	if mediaBaseURL == "" {
		mediaBaseURL = fmt.Sprintf("http://localhost:%d", app.Port)
	}
	mediaStorage, err := media.NewLocalStorage(configuration.C.Media.Dir, mediaBaseURL)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed initializing media storage")
		os.Exit(1)
	}

	logNotifier := notifier.NewLogNotifier()
	platforms := configuration.C.Platforms

	adapters := map[model.Platform]repository.IPublisher{
		model.PlatformFacebook:  social.NewFacebookClient(platforms.Facebook, logNotifier, mediaStorage),
		model.PlatformInstagram: social.NewInstagramClient(platforms.Instagram, logNotifier),
		model.PlatformLinkedIn:  social.NewLinkedInClient(platforms.LinkedIn, logNotifier),
		model.PlatformWhatsApp:  social.NewWhatsAppClient(platforms.WhatsApp, logNotifier),
		model.PlatformTikTok:    social.NewTikTokClient(credentialRepository, logNotifier),
	}

	geminiClient := gemini.NewClient(configuration.C.Gemini)
	tiktokOAuth := social.NewTikTokOAuthClient(platforms.TikTok)

	contentUsecase := usecase.NewContentUsecase(contentRepository, variantRepository, geminiClient)
	publishUsecase := usecase.NewPublishUsecase(
		variantRepository,
		adapters,
		usecase.PoliciesFromConfig(platforms),
		usecase.NewRetrier(),
		logNotifier,
	)
	tiktokAuthUsecase := usecase.NewTikTokAuthUsecase(
		tiktokOAuth,
		verifierStore,
		credentialRepository,
		social.GeneratePKCEPair,
		social.GenerateStateToken,
	)

	router := server.InitiateRouter(
		httpHandler.NewAuthHandler(app),
		httpHandler.NewContentHandler(contentUsecase),
		httpHandler.NewPublishHandler(publishUsecase),
		httpHandler.NewTikTokAuthHandler(tiktokAuthUsecase),
		httpHandler.NewMediaHandler(mediaStorage),
		mediaStorage.Dir(),
		app.SecretKey,
	)

	port := app.Port
	logger.GetLogger().WithField("port", port).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
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

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

func isProduction() bool {
	if v := os.Getenv("DB_VENDOR"); v == "mssql" {
		return true
	}
	env := os.Getenv("ENV")
	return env == "production" || env == "prod"
}

func InitiateDatabase() (*sql.DB, error) {
	if isProduction() {
		db, err := persistence.NewMSSQLDB()
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Cannot connect to MSSQL")
			return nil, err
		}
		return db, nil
	}

	db, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to PostgreSQL")
		return nil, err
	}
	return db, nil
}
