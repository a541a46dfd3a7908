package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/inkgate/paywall/internal/middleware"
	"github.com/inkgate/paywall/internal/service"
	"github.com/inkgate/paywall/internal/testutil"
)

func newArticleRouter(articles *testutil.MockArticleRepository, unlocks *testutil.MockUnlockRepository) *chi.Mux {
	svc := service.NewArticleService(articles, unlocks, testutil.NewTestLogger())
	handler := NewArticleController(svc)

	r := chi.NewRouter()
	r.Get("/articles", handler.List)
	r.Get("/articles/{id}", handler.Get)
	return r
}

func TestArticleController_Get_PremiumLockedForAnonymous(t *testing.T) {
	articles := testutil.NewMockArticleRepository()
	a := testutil.NewTestArticle("Premium", true, 499)
	articles.AddArticle(a)
	router := newArticleRouter(articles, testutil.NewMockUnlockRepository())

	req := httptest.NewRequest(http.MethodGet, "/articles/"+a.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp ArticleResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Locked {
		t.Error("expected locked article for anonymous reader")
	}
	if resp.Content != "" {
		t.Error("locked response must not carry content")
	}
}

func TestArticleController_Get_UnlockedForPayingUser(t *testing.T) {
	articles := testutil.NewMockArticleRepository()
	a := testutil.NewTestArticle("Premium", true, 499)
	articles.AddArticle(a)
	unlocks := testutil.NewMockUnlockRepository()

	svc := service.NewArticleService(articles, unlocks, testutil.NewTestLogger())
	handler := NewArticleController(svc)
	unlocks.AddRecord("U1", a.ID.String())

	r := chi.NewRouter()
	r.Get("/articles/{id}", func(w http.ResponseWriter, req *http.Request) {
		// Simulate what OptionalAuth does for an authenticated request.
		ctx := context.WithValue(req.Context(), middleware.UserIDKey, "U1")
		handler.Get(w, req.WithContext(ctx))
	})

	req := httptest.NewRequest(http.MethodGet, "/articles/"+a.ID.String(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp ArticleResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Locked {
		t.Error("expected unlocked article for paying user")
	}
	if resp.Content == "" {
		t.Error("unlocked response must carry content")
	}
}

func TestArticleController_Get_InvalidID(t *testing.T) {
	router := newArticleRouter(testutil.NewMockArticleRepository(), testutil.NewMockUnlockRepository())

	req := httptest.NewRequest(http.MethodGet, "/articles/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestArticleController_Get_NotFound(t *testing.T) {
	router := newArticleRouter(testutil.NewMockArticleRepository(), testutil.NewMockUnlockRepository())

	req := httptest.NewRequest(http.MethodGet, "/articles/3f9e7d80-6f6f-4f49-8b8f-000000000000", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestArticleController_List_PremiumAlwaysPreviewed(t *testing.T) {
	articles := testutil.NewMockArticleRepository()
	articles.AddArticle(testutil.NewTestArticle("Free", false, 0))
	articles.AddArticle(testutil.NewTestArticle("Premium", true, 499))
	router := newArticleRouter(articles, testutil.NewMockUnlockRepository())

	req := httptest.NewRequest(http.MethodGet, "/articles", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp []*ArticleResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(resp))
	}
	for _, a := range resp {
		if a.IsPremium && a.Content != "" {
			t.Errorf("listing leaked premium content for %q", a.Title)
		}
		if !a.IsPremium && a.Content == "" {
			t.Errorf("free article %q should include content", a.Title)
		}
	}
}
