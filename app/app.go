package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"embroidery-backoffice/app/controller"
	"embroidery-backoffice/app/router"
	"embroidery-backoffice/config"
	"embroidery-backoffice/db"
	"embroidery-backoffice/repository"
	"embroidery-backoffice/service"
)

// App holds the initialized HTTP handler and the resources to release on shutdown
type App struct {
	Handler http.Handler
	redis   *redis.Client
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database connection
	if err := db.InitDB(ctx, cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.ApplyMigrations(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	redisClient := newRedisClient(ctx, cfg.RedisURL)
	driveService := newDriveService(ctx, cfg)

	// Initialize repositories
	pricingDocumentRepo := repository.NewPricingDocumentRepository()
	orderRepo := repository.NewOrderRepository()
	paymentRepo := repository.NewPaymentRepository()

	// Catalog sources in priority order; the bundled default is used when all of them fail
	sources := []service.CatalogSource{
		service.NewDocumentCatalogSource(pricingDocumentRepo, cfg.PricingDocumentKey),
	}
	if driveService != nil && cfg.PricingDriveFileID != "" {
		sources = append(sources, service.NewDriveCatalogSource(driveService, cfg.PricingDriveFileID))
	}
	if cfg.PricingConfigPath != "" {
		sources = append(sources, service.NewFileCatalogSource(cfg.PricingConfigPath))
	}

	// Initialize services
	catalogService := service.NewPricingCatalogService(
		service.NewCatalogCache(redisClient, cfg.PricingCacheTTL),
		pricingDocumentRepo,
		cfg.PricingDocumentKey,
		sources...,
	)
	invoiceService := service.NewInvoiceService(catalogService, orderRepo, paymentRepo)

	var archive service.DriveServiceInterface
	if driveService != nil {
		archive = driveService
	}
	documentService := service.NewInvoiceDocumentService(
		invoiceService,
		archive,
		cfg.InvoiceDriveFolderID,
		cfg.PublicBaseURL,
		cfg.ChromePath,
	)

	// Create controllers
	validate := controller.NewValidator()
	controllers := &router.Controllers{
		Invoice: controller.NewInvoiceController(invoiceService, documentService, validate),
		Payment: controller.NewPaymentController(invoiceService, validate),
		Pricing: controller.NewPricingController(catalogService),
	}

	return &App{
		Handler: router.NewRouter(controllers),
		redis:   redisClient,
	}, nil
}

// Close releases the database and cache connections
func (a *App) Close() error {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️ Failed to close redis client")
		}
	}
	return db.CloseDB()
}

// newRedisClient connects to the catalog cache. The app runs without a cache when Redis is not usable.
func newRedisClient(ctx context.Context, redisURL string) *redis.Client {
	if redisURL == "" {
		log.Info().Msg("REDIS_URL not set, pricing catalog cache disabled")
		return nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Invalid REDIS_URL, pricing catalog cache disabled")
		return nil
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("⚠️ Redis unreachable, pricing catalog cache disabled")
		client.Close()
		return nil
	}
	log.Info().Msg("✓ Redis connection established successfully")
	return client
}

// newDriveService creates the Drive client when credentials are configured
func newDriveService(ctx context.Context, cfg *config.Config) *service.DriveService {
	if !cfg.DriveEnabled() {
		log.Info().Msg("Google Drive credentials not set, Drive catalog and invoice archive disabled")
		return nil
	}
	driveService, err := service.NewDriveService(ctx, cfg.GoogleCredentialsPath, cfg.GoogleCredentialsJSON)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Google Drive unavailable")
		return nil
	}
	return driveService
}
