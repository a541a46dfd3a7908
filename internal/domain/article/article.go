package article

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/inkgate/paywall/internal/domain/errors"
)

// previewRunes is how much of a premium article is visible before unlocking.
const previewRunes = 280

// Article is a piece of content, optionally premium (paid).
type Article struct {
	ID         uuid.UUID
	Title      string
	Content    string
	IsPremium  bool
	PriceCents int64 // unlock price in minor units
	AuthorID   *uuid.UUID
	CreatedAt  time.Time
}

// NewArticle creates a new article. Premium articles must carry a positive price;
// free articles must not carry one.
func NewArticle(title, content string, isPremium bool, priceCents int64, authorID *uuid.UUID) (*Article, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.NewValidationError("title", "cannot be empty")
	}
	if strings.TrimSpace(content) == "" {
		return nil, errors.NewValidationError("content", "cannot be empty")
	}
	if isPremium && priceCents <= 0 {
		return nil, errors.NewValidationError("price", "premium articles require a positive price")
	}
	if !isPremium && priceCents != 0 {
		return nil, errors.NewValidationError("price", "free articles cannot have a price")
	}

	return &Article{
		ID:         uuid.New(),
		Title:      title,
		Content:    content,
		IsPremium:  isPremium,
		PriceCents: priceCents,
		AuthorID:   authorID,
		CreatedAt:  time.Now(),
	}, nil
}

// Preview returns the freely visible portion of the content.
func (a *Article) Preview() string {
	if !a.IsPremium {
		return a.Content
	}
	if utf8.RuneCountInString(a.Content) <= previewRunes {
		return a.Content
	}
	runes := []rune(a.Content)
	return strings.TrimSpace(string(runes[:previewRunes])) + "…"
}
