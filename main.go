package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Bill-Pill/sunglasses-io/config"
	"github.com/Bill-Pill/sunglasses-io/database"
	"github.com/Bill-Pill/sunglasses-io/events"
	"github.com/Bill-Pill/sunglasses-io/logger"
	"github.com/Bill-Pill/sunglasses-io/middleware"
	awspkg "github.com/Bill-Pill/sunglasses-io/pkg/aws"
	"github.com/Bill-Pill/sunglasses-io/repository"
	"github.com/Bill-Pill/sunglasses-io/routes"
	"github.com/Bill-Pill/sunglasses-io/seed"
	"github.com/Bill-Pill/sunglasses-io/services"
	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Initialize("development")
		logger.Log.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var awsCfg sdkaws.Config
	needAWS := cfg.UsesAWS() || awspkg.CloudWatchEnabled()
	if needAWS {
		awsCfg, err = awspkg.LoadAWSConfig(ctx)
		if err != nil {
			logger.Initialize(cfg.Env)
			logger.Log.Fatal("Failed to load AWS config", zap.Error(err))
		}
	}

	var metrics *awspkg.MetricsClient
	if awspkg.CloudWatchEnabled() {
		cwLogs, err := awspkg.NewCloudWatchLogsClient(ctx, awsCfg, "sunglasses-io")
		if err != nil {
			logger.Initialize(cfg.Env)
			logger.Log.Warn("CloudWatch Logs unavailable, logging to console only", zap.Error(err))
		} else {
			logger.InitializeWithWriter(cfg.Env, cwLogs)
		}
		metrics = awspkg.NewMetricsClient(awsCfg)
	} else {
		logger.Initialize(cfg.Env)
	}
	log := logger.Log
	defer func() { _ = log.Sync() }()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var searchCache services.SearchCache
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("Redis unavailable, search cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			searchCache = services.NewCacheManager(redisClient, cfg.SearchCacheTTL, metrics, log)
		}
	}

	publisher := newPublisher(cfg, awsCfg, log)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("Failed to close event publisher", zap.Error(err))
		}
	}()

	catalogRepo := repository.NewInMemoryCatalogRepository()
	userRepo := repository.NewInMemoryUserRepository()
	cartRepo := repository.NewInMemoryCartRepository()
	tokenRepo := repository.NewInMemoryTokenRepository()

	catalog := services.NewCatalogService(catalogRepo, searchCache, log)
	sessions := services.NewSessionService(tokenRepo, cfg.TokenValidity, log, services.WithUserDirectory(userRepo))
	auth := services.NewAuthService(userRepo, sessions, metrics, log)
	carts := services.NewCartService(sessions, cartRepo, publisher, metrics, log)

	gate := middleware.NewGate()
	router := routes.NewRouter(routes.Dependencies{
		Catalog:        catalog,
		Auth:           auth,
		Carts:          carts,
		Gate:           gate,
		RateLimiter:    middleware.NewRateLimiter(ctx, middleware.PerMinute(cfg.RateLimitPerMinute), cfg.RateLimitBurst, 5*time.Minute),
		Metrics:        metrics,
		Logger:         log,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout,
	}

	go func() {
		log.Info("Server listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	loader := seed.NewLoader(newSeedSource(cfg, awsCfg), newSecrets(cfg, awsCfg), cfg.SeedUsersSecret, log)
	dataset, err := loader.Load(ctx)
	if err != nil {
		log.Fatal("Failed to load seed data", zap.Error(err))
	}
	seed.Apply(ctx, dataset, catalog, userRepo, cartRepo)
	gate.MarkReady()
	log.Info("Service ready")

	<-ctx.Done()

	log.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown error", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Server shutdown complete")
}

func newSeedSource(cfg config.Config, awsCfg sdkaws.Config) seed.Source {
	if cfg.SeedSource == config.SeedSourceS3 {
		return seed.S3Source{
			Client: awspkg.NewS3Client(awsCfg),
			Bucket: cfg.SeedS3Bucket,
			Prefix: cfg.SeedS3Prefix,
		}
	}
	return seed.DirSource{Dir: cfg.SeedDir}
}

func newSecrets(cfg config.Config, awsCfg sdkaws.Config) seed.SecretGetter {
	if cfg.SeedUsersSecret == "" {
		return nil
	}
	return awspkg.NewSecretsClient(awsCfg)
}

func newPublisher(cfg config.Config, awsCfg sdkaws.Config, log *zap.Logger) events.Publisher {
	switch cfg.EventsBackend {
	case config.EventsSNS:
		log.Info("Publishing cart events to SNS", zap.String("topic_arn", cfg.CartSNSTopicARN))
		return events.NewSNSPublisher(awspkg.NewSNSClient(awsCfg), cfg.CartSNSTopicARN)
	case config.EventsKafka:
		log.Info("Publishing cart events to Kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	default:
		return events.Nop{}
	}
}
