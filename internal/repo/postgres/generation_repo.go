package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/model"
)

// GenerationRepo persists one audit row per generation attempt. The table
// never stores prompt text or photo bytes, only keys and outcomes.
type GenerationRepo struct {
	pool *pgxpool.Pool
}

func NewGenerationRepo(pool *pgxpool.Pool) *GenerationRepo {
	return &GenerationRepo{pool: pool}
}

func (r *GenerationRepo) Insert(ctx context.Context, record model.GenerationRecord) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if record.RequestID == "" || !record.Category.Valid() {
		return fmt.Errorf("invalid generation record")
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	_, err := r.pool.Exec(ctx, `
INSERT INTO generations (id, request_id, category, status, object_key, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`, record.ID, record.RequestID, string(record.Category), string(record.Status), record.ObjectKey, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert generation record: %w", err)
	}

	return nil
}

func (r *GenerationRepo) CountByCategory(ctx context.Context, category string) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var count int64
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*) FROM generations WHERE category = $1 AND status = 'completed'
`, category).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count generations: %w", err)
	}

	return count, nil
}
