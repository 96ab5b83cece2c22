package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"soundfy-core-shopify-layer/internal/application"
	"soundfy-core-shopify-layer/internal/application/jobs"
	syncstep "soundfy-core-shopify-layer/internal/application/sync"
	apiinfra "soundfy-core-shopify-layer/internal/infrastructure/api"
	"soundfy-core-shopify-layer/internal/infrastructure/cursor"
	"soundfy-core-shopify-layer/internal/infrastructure/encryption"
	"soundfy-core-shopify-layer/internal/infrastructure/queue"
	"soundfy-core-shopify-layer/internal/infrastructure/repository"
	shopifyinfra "soundfy-core-shopify-layer/internal/infrastructure/shopify"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	// Get configuration from environment
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:8080"
	}
	apiKey := os.Getenv("SHOPIFY_API_KEY")
	apiSecret := os.Getenv("SHOPIFY_API_SECRET")
	if apiKey == "" || apiSecret == "" {
		logger.Fatal().Msg("SHOPIFY_API_KEY and SHOPIFY_API_SECRET environment variables are required")
	}
	encryptionKey := os.Getenv("ENCRYPTION_KEY")
	if encryptionKey == "" {
		logger.Fatal().Msg("ENCRYPTION_KEY environment variable is required")
	}

	// Connect to MongoDB
	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(context.Background())

	db := mongoClient.Database(os.Getenv("MONGODB_DATABASE"))

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer redisClient.Close()

	// Initialize infrastructure (implementations)
	encryptionService, err := encryption.NewService(encryptionKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}

	// Initialize repositories
	shopRepo := repository.NewMongoShopRepository(db, encryptionService)
	productRepo := repository.NewMongoProductRepository(db)
	variantRepo := repository.NewMongoVariantRepository(db)
	collectionRepo := repository.NewMongoCollectionRepository(db)

	// Initialize the Shopify GraphQL client and catalog streams
	registry := prometheus.NewRegistry()
	metrics := shopifyinfra.NewMetrics(registry)
	graphqlClient := shopifyinfra.NewClientWithOptions(shopifyinfra.DefaultAPIVersion, nil, metrics, logger)
	catalog := shopifyinfra.NewCatalog(graphqlClient)

	cursorStore := cursor.NewRedisCursorStore(redisClient)
	jobQueue := queue.NewRedisQueue(redisClient, logger)

	shopifyApp := goshopify.App{
		ApiKey:    apiKey,
		ApiSecret: apiSecret,
	}

	// Initialize application services
	scope := application.NewShopScope(shopRepo, logger)
	stepRunner := syncstep.NewStepRunner(cursorStore, logger)
	productImporter := application.NewProductImporter(productRepo, variantRepo, logger)
	collectionImporter := application.NewCollectionImporter(collectionRepo)
	webhookInstaller := application.NewWebhookInstaller(catalog, appURL, logger)
	installService := application.NewInstallService(shopifyApp, shopRepo, jobQueue, logger)

	// Register job handlers
	jobQueue.Register(jobs.NewProductsCreateJob(scope, productRepo, variantRepo, logger))
	jobQueue.Register(jobs.NewProductsUpdateJob(scope, productRepo, variantRepo, logger))
	jobQueue.Register(jobs.NewProductsDeleteJob(scope, productRepo, logger))
	jobQueue.Register(jobs.NewCollectionsCreateJob(scope, collectionRepo, logger))
	jobQueue.Register(jobs.NewCollectionsUpdateJob(scope, collectionRepo, logger))
	jobQueue.Register(jobs.NewCollectionsDeleteJob(scope, collectionRepo, logger))
	jobQueue.Register(jobs.NewAppUninstalledJob(scope, shopRepo, logger))
	jobQueue.Register(jobs.NewCustomersDataRequestJob(scope, logger))
	jobQueue.Register(jobs.NewCustomersRedactJob(scope, logger))
	jobQueue.Register(jobs.NewAfterAuthenticateJob(scope, webhookInstaller, jobQueue, logger))
	jobQueue.Register(jobs.NewSyncProductsJob(scope, stepRunner, catalog, productImporter, logger))
	jobQueue.Register(jobs.NewSyncCollectionsJob(scope, stepRunner, catalog, collectionImporter, logger))

	// Setup router
	server := apiinfra.NewServer(shopifyApp, jobQueue, installService, logger)
	router := server.Router()
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	httpServer := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The worker loop shares the process with the HTTP server.
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if err := jobQueue.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Queue worker stopped")
		}
	}()

	go func() {
		logger.Info().Str("port", port).Msg("Starting API server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}
	<-workerDone
}
