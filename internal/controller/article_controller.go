package controller

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/inkgate/paywall/internal/middleware"
	"github.com/inkgate/paywall/internal/service"
)

// ArticleController handles article catalog requests.
type ArticleController struct {
	articleService *service.ArticleService
}

// NewArticleController creates a new ArticleController.
func NewArticleController(articleService *service.ArticleService) *ArticleController {
	return &ArticleController{articleService: articleService}
}

// List handles GET /api/v1/articles
func (h *ArticleController) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	articles, err := h.articleService.ListArticles(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]*ArticleResponse, 0, len(articles))
	for _, a := range articles {
		// Listings never include premium content, unlocked or not.
		resp = append(resp, FromArticle(a, a.IsPremium))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/articles/{id}
func (h *ArticleController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid article id", Code: "invalid_id"})
		return
	}

	userID, _ := middleware.GetUserID(r.Context())

	a, locked, err := h.articleService.GetArticle(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FromArticle(a, locked))
}

// Create handles POST /api/v1/articles
func (h *ArticleController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateArticleRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required", Code: "auth_required"})
		return
	}
	authorID, err := uuid.Parse(userID)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "invalid user identity", Code: "auth_invalid"})
		return
	}

	a, err := h.articleService.CreateArticle(r.Context(), service.CreateArticleRequest{
		Title:     req.Title,
		Content:   req.Content,
		IsPremium: req.IsPremium,
		Price:     req.Price,
		AuthorID:  authorID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, FromArticle(a, false))
}

// ListMyUnlocks handles GET /api/v1/me/unlocks
func (h *ArticleController) ListMyUnlocks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required", Code: "auth_required"})
		return
	}

	records, err := h.articleService.ListUnlocks(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]*UnlockResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, FromUnlock(rec))
	}
	writeJSON(w, http.StatusOK, resp)
}
