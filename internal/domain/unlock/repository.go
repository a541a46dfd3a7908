package unlock

import "context"

// Repository defines the interface for unlock record persistence
type Repository interface {
	// Insert durably records an unlock. The insert is conditional on the
	// (user_id, article_id) pair: a redelivered record is a no-op, reported
	// through the inserted flag rather than an error.
	Insert(ctx context.Context, rec *Record) (inserted bool, err error)

	// Exists reports whether the user has unlocked the article
	Exists(ctx context.Context, userID, articleID string) (bool, error)

	// ListByUser retrieves all unlock records for a user, newest first
	ListByUser(ctx context.Context, userID string) ([]*Record, error)
}
