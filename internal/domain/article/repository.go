package article

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for article persistence
type Repository interface {
	// Create creates a new article
	Create(ctx context.Context, a *Article) error

	// GetByID retrieves an article by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Article, error)

	// List retrieves articles, newest first
	List(ctx context.Context, limit, offset int) ([]*Article, error)
}
