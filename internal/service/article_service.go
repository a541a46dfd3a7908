package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/inkgate/paywall/internal/domain/article"
	domainErrors "github.com/inkgate/paywall/internal/domain/errors"
	"github.com/inkgate/paywall/internal/domain/unlock"
)

// ArticleService serves the article catalog and gates premium content behind
// unlock records.
type ArticleService struct {
	articles article.Repository
	unlocks  unlock.Repository
	logger   zerolog.Logger
}

// NewArticleService creates a new ArticleService.
func NewArticleService(articles article.Repository, unlocks unlock.Repository, logger zerolog.Logger) *ArticleService {
	return &ArticleService{
		articles: articles,
		unlocks:  unlocks,
		logger:   logger,
	}
}

// ListArticles returns articles newest first.
func (s *ArticleService) ListArticles(ctx context.Context, limit, offset int) ([]*article.Article, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.articles.List(ctx, limit, offset)
}

// GetArticle returns the article and whether its content is locked for the
// given user. userID may be empty for anonymous readers. An unreachable
// unlock store fails closed: the article is reported locked.
func (s *ArticleService) GetArticle(ctx context.Context, id uuid.UUID, userID string) (*article.Article, bool, error) {
	a, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if a == nil {
		return nil, false, domainErrors.ErrArticleNotFound
	}

	if !a.IsPremium {
		return a, false, nil
	}
	if userID == "" {
		return a, true, nil
	}

	unlocked, err := s.unlocks.Exists(ctx, userID, a.ID.String())
	if err != nil {
		s.logger.Error().Err(err).
			Str("article_id", a.ID.String()).
			Str("user_id", userID).
			Msg("unlock lookup failed, treating article as locked")
		return a, true, nil
	}
	return a, !unlocked, nil
}

// CreateArticleRequest holds the input for publishing an article.
// Price is in major currency units.
type CreateArticleRequest struct {
	Title     string
	Content   string
	IsPremium bool
	Price     float64
	AuthorID  uuid.UUID
}

// CreateArticle publishes a new article.
func (s *ArticleService) CreateArticle(ctx context.Context, req CreateArticleRequest) (*article.Article, error) {
	priceCents := int64(req.Price * 100)
	a, err := article.NewArticle(req.Title, req.Content, req.IsPremium, priceCents, &req.AuthorID)
	if err != nil {
		return nil, err
	}
	if err := s.articles.Create(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info().Str("article_id", a.ID.String()).Bool("premium", a.IsPremium).Msg("article published")
	return a, nil
}

// ListUnlocks returns the user's unlock records, newest first.
func (s *ArticleService) ListUnlocks(ctx context.Context, userID string) ([]*unlock.Record, error) {
	return s.unlocks.ListByUser(ctx, userID)
}
