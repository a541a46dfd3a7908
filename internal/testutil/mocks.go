package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkgate/paywall/internal/domain/article"
	domainErrors "github.com/inkgate/paywall/internal/domain/errors"
	"github.com/inkgate/paywall/internal/domain/unlock"
	"github.com/inkgate/paywall/internal/domain/user"
	"github.com/inkgate/paywall/internal/service"
)

// --- Payment Gateway Mock ---

// MockPaymentGateway is a mock implementation of service.PaymentGateway.
// It records every checkout session it is asked to create.
type MockPaymentGateway struct {
	mu       sync.Mutex
	sessions []service.CheckoutSessionParams

	CreateCheckoutSessionFunc func(ctx context.Context, params service.CheckoutSessionParams) (string, error)
	VerifyEventFunc           func(payload []byte, signature string) (*service.PaymentEvent, error)
}

func NewMockPaymentGateway() *MockPaymentGateway {
	return &MockPaymentGateway{}
}

func (m *MockPaymentGateway) CreateCheckoutSession(ctx context.Context, params service.CheckoutSessionParams) (string, error) {
	m.mu.Lock()
	m.sessions = append(m.sessions, params)
	m.mu.Unlock()
	if m.CreateCheckoutSessionFunc != nil {
		return m.CreateCheckoutSessionFunc(ctx, params)
	}
	return "cs_test_" + uuid.New().String(), nil
}

func (m *MockPaymentGateway) VerifyEvent(payload []byte, signature string) (*service.PaymentEvent, error) {
	if m.VerifyEventFunc != nil {
		return m.VerifyEventFunc(payload, signature)
	}
	return &service.PaymentEvent{ID: "evt_test", Type: "checkout.session.completed"}, nil
}

// Sessions returns a copy of the recorded session params.
func (m *MockPaymentGateway) Sessions() []service.CheckoutSessionParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]service.CheckoutSessionParams, len(m.sessions))
	copy(out, m.sessions)
	return out
}

// --- Unlock Repository Mock ---

// MockUnlockRepository is a mock implementation of unlock.Repository backed
// by an in-memory set keyed on (user, article). It counts insert attempts so
// tests can assert redelivery behavior.
type MockUnlockRepository struct {
	mu      sync.Mutex
	records map[string]*unlock.Record
	order   []string
	inserts int

	InsertFunc     func(ctx context.Context, rec *unlock.Record) (bool, error)
	ExistsFunc     func(ctx context.Context, userID, articleID string) (bool, error)
	ListByUserFunc func(ctx context.Context, userID string) ([]*unlock.Record, error)
}

func NewMockUnlockRepository() *MockUnlockRepository {
	return &MockUnlockRepository{records: make(map[string]*unlock.Record)}
}

func unlockKey(userID, articleID string) string {
	return userID + "\x00" + articleID
}

func (m *MockUnlockRepository) Insert(ctx context.Context, rec *unlock.Record) (bool, error) {
	m.mu.Lock()
	m.inserts++
	m.mu.Unlock()
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := unlockKey(rec.UserID, rec.ArticleID)
	if _, ok := m.records[key]; ok {
		return false, nil
	}
	m.records[key] = rec
	m.order = append(m.order, key)
	return true, nil
}

func (m *MockUnlockRepository) Exists(ctx context.Context, userID, articleID string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, userID, articleID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[unlockKey(userID, articleID)]
	return ok, nil
}

func (m *MockUnlockRepository) ListByUser(ctx context.Context, userID string) ([]*unlock.Record, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*unlock.Record
	for i := len(m.order) - 1; i >= 0; i-- {
		rec := m.records[m.order[i]]
		if rec != nil && rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// InsertAttempts returns how many times Insert has been called.
func (m *MockUnlockRepository) InsertAttempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inserts
}

// AddRecord pre-populates the mock with an unlock.
func (m *MockUnlockRepository) AddRecord(userID, articleID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := unlockKey(userID, articleID)
	m.records[key] = &unlock.Record{UserID: userID, ArticleID: articleID, CreatedAt: time.Now()}
	m.order = append(m.order, key)
}

// --- Article Repository Mock ---

// MockArticleRepository is a mock implementation of article.Repository.
type MockArticleRepository struct {
	mu       sync.Mutex
	articles map[uuid.UUID]*article.Article
	order    []uuid.UUID

	CreateFunc  func(ctx context.Context, a *article.Article) error
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*article.Article, error)
	ListFunc    func(ctx context.Context, limit, offset int) ([]*article.Article, error)
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{articles: make(map[uuid.UUID]*article.Article)}
}

// AddArticle pre-populates the mock with an article.
func (m *MockArticleRepository) AddArticle(a *article.Article) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.articles[a.ID] = a
	m.order = append(m.order, a.ID)
}

func (m *MockArticleRepository) Create(ctx context.Context, a *article.Article) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.articles[a.ID] = a
	m.order = append(m.order, a.ID)
	return nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id uuid.UUID) (*article.Article, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.articles[id]
	if !ok {
		return nil, nil
	}
	return a, nil
}

func (m *MockArticleRepository) List(ctx context.Context, limit, offset int) ([]*article.Article, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*article.Article
	for i := len(m.order) - 1; i >= 0; i-- {
		out = append(out, m.articles[m.order[i]])
	}
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

// --- User Repository Mock ---

// MockUserRepository is a mock implementation of user.Repository.
type MockUserRepository struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*user.User
	byEmail map[string]*user.User

	CreateFunc     func(ctx context.Context, u *user.User) error
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*user.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:   make(map[uuid.UUID]*user.User),
		byEmail: make(map[string]*user.User),
	}
}

// AddUser pre-populates the mock with a user.
func (m *MockUserRepository) AddUser(u *user.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	m.byEmail[u.Email] = u
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[u.Email]; ok {
		return domainErrors.ErrEmailTaken
	}
	m.users[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domainErrors.ErrUserNotFound
	}
	return u, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domainErrors.ErrUserNotFound
	}
	return u, nil
}

// --- Event Log Mock ---

// MockEventLog is a mock implementation of service.EventLog.
type MockEventLog struct {
	mu   sync.Mutex
	seen map[string]bool

	FirstSeenFunc func(ctx context.Context, eventID string) (bool, error)
}

func NewMockEventLog() *MockEventLog {
	return &MockEventLog{seen: make(map[string]bool)}
}

func (m *MockEventLog) FirstSeen(ctx context.Context, eventID string) (bool, error) {
	if m.FirstSeenFunc != nil {
		return m.FirstSeenFunc(ctx, eventID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[eventID] {
		return false, nil
	}
	m.seen[eventID] = true
	return true, nil
}

// --- Token Denylist Mock ---

// MockTokenDenylist is a mock implementation of service.TokenDenylist.
type MockTokenDenylist struct {
	mu      sync.Mutex
	revoked map[string]bool

	RevokeFunc    func(ctx context.Context, jti string, ttl time.Duration) error
	IsRevokedFunc func(ctx context.Context, jti string) (bool, error)
}

func NewMockTokenDenylist() *MockTokenDenylist {
	return &MockTokenDenylist{revoked: make(map[string]bool)}
}

func (m *MockTokenDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, jti, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = true
	return nil
}

func (m *MockTokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if m.IsRevokedFunc != nil {
		return m.IsRevokedFunc(ctx, jti)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[jti], nil
}
