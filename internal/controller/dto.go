package controller

import (
	"time"

	"github.com/inkgate/paywall/internal/domain/article"
	"github.com/inkgate/paywall/internal/domain/unlock"
	"github.com/inkgate/paywall/internal/domain/user"
)

// --- Request DTOs ---
// These DTOs handle HTTP/JSON concerns (float64 for money, string for IDs,
// validation tags). Controllers convert these to service layer DTOs before
// calling business logic.
//
// The checkout payload uses camelCase keys: that is the wire format the
// payment client speaks and the session metadata keys derive from it.

// CreateCheckoutSessionRequest holds the input for opening a checkout session.
type CreateCheckoutSessionRequest struct {
	ArticleID  string  `json:"articleId" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	SuccessURL string  `json:"successUrl" validate:"required,url"`
	CancelURL  string  `json:"cancelUrl" validate:"required,url"`
	UserID     string  `json:"userId" validate:"required"`
}

// RegisterRequest holds the input for creating a user.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest holds the input for signing in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateArticleRequest holds the input for publishing an article.
type CreateArticleRequest struct {
	Title     string  `json:"title" validate:"required"`
	Content   string  `json:"content" validate:"required"`
	IsPremium bool    `json:"is_premium"`
	Price     float64 `json:"price" validate:"gte=0"`
}

// --- Response DTOs ---

// CheckoutSessionResponse carries the id of a freshly opened checkout session.
type CheckoutSessionResponse struct {
	SessionID string `json:"sessionId"`
}

// WebhookAckResponse acknowledges a delivered webhook event.
type WebhookAckResponse struct {
	Received bool `json:"received"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse carries a session token and its user.
type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// ArticleResponse represents an article in API responses. Content is omitted
// while the article is locked for the requesting user.
type ArticleResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Preview   string    `json:"preview"`
	Content   string    `json:"content,omitempty"`
	IsPremium bool      `json:"is_premium"`
	Price     float64   `json:"price"`
	Locked    bool      `json:"locked"`
	AuthorID  *string   `json:"author_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UnlockResponse represents an unlock record in API responses.
type UnlockResponse struct {
	ArticleID string    `json:"article_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// --- Conversion helpers ---

// FromUser converts a domain user to API response.
func FromUser(u *user.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// FromArticle converts a domain article to API response, redacting content
// while locked.
func FromArticle(a *article.Article, locked bool) *ArticleResponse {
	resp := &ArticleResponse{
		ID:        a.ID.String(),
		Title:     a.Title,
		Preview:   a.Preview(),
		IsPremium: a.IsPremium,
		Price:     centsToFloat(a.PriceCents),
		Locked:    locked,
		CreatedAt: a.CreatedAt,
	}
	if !locked {
		resp.Content = a.Content
	}
	if a.AuthorID != nil {
		aid := a.AuthorID.String()
		resp.AuthorID = &aid
	}
	return resp
}

// FromUnlock converts an unlock record to API response.
func FromUnlock(rec *unlock.Record) *UnlockResponse {
	return &UnlockResponse{
		ArticleID: rec.ArticleID,
		CreatedAt: rec.CreatedAt,
	}
}

// centsToFloat converts minor units to a float major-unit amount.
func centsToFloat(cents int64) float64 {
	return float64(cents) / 100.0
}
