package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkgate/paywall/internal/domain/article"
)

// ArticleRepository implements article.Repository using PostgreSQL.
type ArticleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository creates a new ArticleRepository.
func NewArticleRepository(pool *pgxpool.Pool) *ArticleRepository {
	return &ArticleRepository{pool: pool}
}

// Create inserts a new article.
func (r *ArticleRepository) Create(ctx context.Context, a *article.Article) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO articles (id, title, content, is_premium, price_cents, author_id, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.Title, a.Content, a.IsPremium, a.PriceCents, a.AuthorID, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

// GetByID retrieves an article by its ID. Returns (nil, nil) when absent.
func (r *ArticleRepository) GetByID(ctx context.Context, id uuid.UUID) (*article.Article, error) {
	a := &article.Article{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, content, is_premium, price_cents, author_id, created_at
		 FROM articles WHERE id = $1`, id,
	).Scan(&a.ID, &a.Title, &a.Content, &a.IsPremium, &a.PriceCents, &a.AuthorID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	return a, nil
}

// List retrieves articles, newest first.
func (r *ArticleRepository) List(ctx context.Context, limit, offset int) ([]*article.Article, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, content, is_premium, price_cents, author_id, created_at
		 FROM articles ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var articles []*article.Article
	for rows.Next() {
		a := &article.Article{}
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.IsPremium, &a.PriceCents, &a.AuthorID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}
