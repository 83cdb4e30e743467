package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/media-vault/adapters/event"
	httpAdapter "github.com/khoahotran/media-vault/adapters/http"
	"github.com/khoahotran/media-vault/adapters/media_storage"
	"github.com/khoahotran/media-vault/adapters/persistence"
	authUC "github.com/khoahotran/media-vault/internal/application/usecase/auth"
	mediaUC "github.com/khoahotran/media-vault/internal/application/usecase/media"
	"github.com/khoahotran/media-vault/internal/config"
	"github.com/khoahotran/media-vault/internal/domain/media"
	"github.com/khoahotran/media-vault/pkg/auth"
	"github.com/khoahotran/media-vault/pkg/logger"
	"github.com/khoahotran/media-vault/pkg/tracing"
)

func main() {
	fmt.Println("Start Media Vault API Server...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	if cfg.Tracing.OTLPEndpoint != "" {
		tp, err := tracing.NewTracerProvider(cfg, appLogger, "media-vault-api")
		if err != nil {
			appLogger.Fatal("cannot init tracer", err)
		}
		defer tp.Shutdown(context.Background())
	}

	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg)
	if err != nil {
		appLogger.Fatal("cannot init Kafka", err)
	}
	defer kafkaClient.Close()

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool)
	mediaRepo := persistence.NewPostgresMediaRepo(dbPool, appLogger)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	uploadMediaUseCase := mediaUC.NewUploadMediaUseCase(mediaRepo, uploader, kafkaClient, cfg.Cloudinary.UploadTimeout, appLogger)
	listMediaUseCase := mediaUC.NewListMediaUseCase(mediaRepo)
	getMediaUseCase := mediaUC.NewGetMediaUseCase(mediaRepo)
	deleteMediaUseCase := mediaUC.NewDeleteMediaUseCase(mediaRepo, uploader, kafkaClient, appLogger)

	// HTTP Handlers
	authHandler := httpAdapter.NewAuthHandler(loginUseCase)
	mediaHandler := httpAdapter.NewMediaHandler(
		uploadMediaUseCase,
		listMediaUseCase,
		getMediaUseCase,
		deleteMediaUseCase,
		appLogger,
	)

	// Middleware
	authMiddleware := httpAdapter.AuthMiddleware(jwtSvc)
	errorMiddleware := httpAdapter.ErrorMiddleware(appLogger)
	uploadRateLimit := httpAdapter.UploadRateLimitMiddleware(redisClient, cfg.RateLimit.UploadsPerMinute, appLogger)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(errorMiddleware)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
		api.POST("/auth/login", authHandler.Login)

		mediaGroup := api.Group("/media")
		mediaGroup.Use(authMiddleware)
		{
			for _, kind := range []media.Kind{media.KindVideo, media.KindImage} {
				group := mediaGroup.Group("/" + kind.Plural())
				group.POST("", uploadRateLimit, mediaHandler.UploadMedia(kind))
				group.GET("", mediaHandler.ListMedia(kind))
				group.GET("/:id", mediaHandler.GetMedia(kind))
				group.DELETE("/:id", mediaHandler.DeleteMedia(kind))
			}
		}
	}

	appLogger.Info("Server running on port " + cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		appLogger.Fatal("Cannot run server", err)
	}
}
