package unlock

import (
	"time"

	"github.com/inkgate/paywall/internal/domain/errors"
)

// Record is the durable fact that a user has paid for access to an article.
// IDs are kept as opaque strings: they round-trip through the payment
// provider's session metadata and are not re-interpreted on the way back.
type Record struct {
	UserID    string
	ArticleID string
	CreatedAt time.Time
}

// NewRecord creates an unlock record for the given user and article.
func NewRecord(userID, articleID string) (*Record, error) {
	if userID == "" {
		return nil, errors.NewValidationError("user_id", "cannot be empty")
	}
	if articleID == "" {
		return nil, errors.NewValidationError("article_id", "cannot be empty")
	}
	return &Record{
		UserID:    userID,
		ArticleID: articleID,
		CreatedAt: time.Now(),
	}, nil
}
