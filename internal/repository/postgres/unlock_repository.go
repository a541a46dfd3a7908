package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkgate/paywall/internal/domain/unlock"
)

// UnlockRepository implements unlock.Repository using PostgreSQL.
//
// The unlocked_articles table carries a UNIQUE (user_id, article_id)
// constraint and the insert is conflict-tolerant, so redelivered webhook
// events settle into exactly one row per pair.
type UnlockRepository struct {
	pool *pgxpool.Pool
}

// NewUnlockRepository creates a new UnlockRepository.
func NewUnlockRepository(pool *pgxpool.Pool) *UnlockRepository {
	return &UnlockRepository{pool: pool}
}

// Insert records an unlock, no-oping on an existing (user_id, article_id) pair.
func (r *UnlockRepository) Insert(ctx context.Context, rec *unlock.Record) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO unlocked_articles (user_id, article_id, created_at)
		 VALUES ($1,$2,$3)
		 ON CONFLICT (user_id, article_id) DO NOTHING`,
		rec.UserID, rec.ArticleID, rec.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert unlock: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Exists reports whether the user has unlocked the article.
func (r *UnlockRepository) Exists(ctx context.Context, userID, articleID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM unlocked_articles WHERE user_id = $1 AND article_id = $2)`,
		userID, articleID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check unlock: %w", err)
	}
	return exists, nil
}

// ListByUser retrieves a user's unlock records, newest first.
func (r *UnlockRepository) ListByUser(ctx context.Context, userID string) ([]*unlock.Record, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, article_id, created_at
		 FROM unlocked_articles WHERE user_id = $1 ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list unlocks: %w", err)
	}
	defer rows.Close()

	var records []*unlock.Record
	for rows.Next() {
		rec := &unlock.Record{}
		if err := rows.Scan(&rec.UserID, &rec.ArticleID, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan unlock: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
