package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"embroidery-backoffice/db"
)

// PricingDocumentRepository handles database operations for pricing catalog documents
type PricingDocumentRepository struct{}

// NewPricingDocumentRepository creates a new PricingDocumentRepository
func NewPricingDocumentRepository() *PricingDocumentRepository {
	return &PricingDocumentRepository{}
}

// Ensure PricingDocumentRepository implements PricingDocumentRepositoryInterface
var _ PricingDocumentRepositoryInterface = (*PricingDocumentRepository)(nil)

// Get returns the raw JSON document stored under key
func (r *PricingDocumentRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var document []byte
	err := db.DB.QueryRowContext(ctx, `SELECT document FROM pricing_documents WHERE key = $1`, key).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pricing document %s: %w", key, err)
	}
	return document, nil
}

// Upsert stores document under key, replacing any previous version
func (r *PricingDocumentRepository) Upsert(ctx context.Context, key string, document []byte) error {
	query := `
		INSERT INTO pricing_documents (key, document, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET document = EXCLUDED.document, updated_at = NOW()
	`
	if _, err := db.DB.ExecContext(ctx, query, key, document); err != nil {
		log.Error().Err(err).Str("key", key).Msg("❌ UpsertPricingDocument: failed")
		return fmt.Errorf("failed to upsert pricing document %s: %w", key, err)
	}
	log.Info().Str("key", key).Msg("✅ UpsertPricingDocument: saved")
	return nil
}
