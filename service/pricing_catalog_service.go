package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"embroidery-backoffice/pricing"
	"embroidery-backoffice/repository"
)

// Catalog source names reported alongside the active catalog
const (
	SourceCache    = "cache"
	SourceDocument = "document"
	SourceDrive    = "drive"
	SourceFile     = "file"
	SourceDefault  = "default"
)

// CatalogSource loads a pricing catalog from one external location
type CatalogSource interface {
	Name() string
	Load(ctx context.Context) (*pricing.PricingConfig, error)
}

// CatalogProvider hands out a pricing engine for the active catalog
type CatalogProvider interface {
	Engine(ctx context.Context) (*pricing.Engine, error)
}

// DocumentCatalogSource reads the catalog document stored in Postgres
type DocumentCatalogSource struct {
	repo repository.PricingDocumentRepositoryInterface
	key  string
}

// NewDocumentCatalogSource creates a source for the pricing document stored under key
func NewDocumentCatalogSource(repo repository.PricingDocumentRepositoryInterface, key string) *DocumentCatalogSource {
	return &DocumentCatalogSource{repo: repo, key: key}
}

func (s *DocumentCatalogSource) Name() string { return SourceDocument }

func (s *DocumentCatalogSource) Load(ctx context.Context) (*pricing.PricingConfig, error) {
	raw, err := s.repo.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	return pricing.ParseConfig(raw)
}

// DriveCatalogSource reads a catalog JSON file kept in Google Drive
type DriveCatalogSource struct {
	drive  DriveServiceInterface
	fileID string
}

// NewDriveCatalogSource creates a source for a Drive-hosted catalog file
func NewDriveCatalogSource(drive DriveServiceInterface, fileID string) *DriveCatalogSource {
	return &DriveCatalogSource{drive: drive, fileID: fileID}
}

func (s *DriveCatalogSource) Name() string { return SourceDrive }

func (s *DriveCatalogSource) Load(ctx context.Context) (*pricing.PricingConfig, error) {
	raw, err := s.drive.DownloadFile(ctx, s.fileID)
	if err != nil {
		return nil, err
	}
	return pricing.ParseConfig(raw)
}

// FileCatalogSource reads a catalog JSON file from disk
type FileCatalogSource struct {
	path string
}

// NewFileCatalogSource creates a source for a catalog file on disk
func NewFileCatalogSource(path string) *FileCatalogSource {
	return &FileCatalogSource{path: path}
}

func (s *FileCatalogSource) Name() string { return SourceFile }

func (s *FileCatalogSource) Load(ctx context.Context) (*pricing.PricingConfig, error) {
	return pricing.LoadConfigFile(s.path)
}

// PricingCatalogService resolves the active pricing catalog.
// Sources are tried in order; the bundled default catalog is the last resort, so loading never fails.
type PricingCatalogService struct {
	cache       *CatalogCache
	documents   repository.PricingDocumentRepositoryInterface
	documentKey string
	sources     []CatalogSource
}

// Ensure PricingCatalogService implements CatalogProvider
var _ CatalogProvider = (*PricingCatalogService)(nil)

// NewPricingCatalogService creates a new PricingCatalogService
func NewPricingCatalogService(
	cache *CatalogCache,
	documents repository.PricingDocumentRepositoryInterface,
	documentKey string,
	sources ...CatalogSource,
) *PricingCatalogService {
	return &PricingCatalogService{
		cache:       cache,
		documents:   documents,
		documentKey: documentKey,
		sources:     sources,
	}
}

func (s *PricingCatalogService) cacheKey() string {
	return "pricing:catalog:" + s.documentKey
}

// Current returns the active catalog and the name of the source it came from
func (s *PricingCatalogService) Current(ctx context.Context) (*pricing.PricingConfig, string) {
	var cached pricing.PricingConfig
	found, err := s.cache.GetJSON(ctx, s.cacheKey(), &cached)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Pricing catalog: cache read failed")
	}
	if found {
		if err := cached.Validate(); err == nil {
			return &cached, SourceCache
		}
		log.Warn().Msg("⚠️ Pricing catalog: cached catalog is invalid, reloading")
	}

	for _, source := range s.sources {
		config, err := source.Load(ctx)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				log.Info().Str("source", source.Name()).Msg("Pricing catalog: no catalog in source")
			} else {
				log.Warn().Err(err).Str("source", source.Name()).Msg("⚠️ Pricing catalog: source unavailable, trying next")
			}
			continue
		}
		s.store(ctx, config)
		log.Info().Str("source", source.Name()).Msg("✅ Pricing catalog loaded")
		return config, source.Name()
	}

	log.Warn().Msg("⚠️ Pricing catalog: using bundled default catalog")
	return pricing.DefaultConfig(), SourceDefault
}

// Engine returns a pricing engine for the active catalog
func (s *PricingCatalogService) Engine(ctx context.Context) (*pricing.Engine, error) {
	config, _ := s.Current(ctx)
	return pricing.NewEngine(config)
}

// Save validates a catalog document, stores it and drops the cached copy
func (s *PricingCatalogService) Save(ctx context.Context, raw []byte) (*pricing.PricingConfig, error) {
	config, err := pricing.ParseConfig(raw)
	if err != nil {
		return nil, err
	}
	if s.documents == nil {
		return nil, fmt.Errorf("pricing document storage is not configured")
	}
	if err := s.documents.Upsert(ctx, s.documentKey, raw); err != nil {
		return nil, err
	}
	s.Invalidate(ctx)
	return config, nil
}

// Invalidate drops the cached catalog so the next request reloads it
func (s *PricingCatalogService) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, s.cacheKey()); err != nil {
		log.Warn().Err(err).Msg("⚠️ Pricing catalog: cache invalidation failed")
	}
}

func (s *PricingCatalogService) store(ctx context.Context, config *pricing.PricingConfig) {
	if err := s.cache.SetJSON(ctx, s.cacheKey(), config); err != nil {
		log.Warn().Err(err).Msg("⚠️ Pricing catalog: cache write failed")
	}
}
