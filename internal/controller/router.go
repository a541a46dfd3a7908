package controller

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/inkgate/paywall/internal/infrastructure/config"
	"github.com/inkgate/paywall/internal/infrastructure/observability"
	customMW "github.com/inkgate/paywall/internal/middleware"
	"github.com/inkgate/paywall/internal/service"
)

type RouterDeps struct {
	Pool            *pgxpool.Pool
	RedisClient     *redis.Client
	CheckoutService *service.CheckoutService
	WebhookService  *service.WebhookService
	ArticleService  *service.ArticleService
	AuthService     *service.AuthService
	Metrics         *observability.Metrics
	CORSConfig      config.CORSConfig
	RateLimitPerMin int
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(customMW.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(customMW.SecurityHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSConfig.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: deps.CORSConfig.AllowCredentials,
		MaxAge:           300,
	}))
	r.Use(customMW.Metrics(deps.Metrics))

	healthH := NewHealthController(deps.Pool, deps.RedisClient)
	checkoutH := NewCheckoutController(deps.CheckoutService)
	webhookH := NewWebhookController(deps.WebhookService)
	articleH := NewArticleController(deps.ArticleService)
	authH := NewAuthController(deps.AuthService)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// The webhook sits outside the per-IP rate limiter: the payment
		// provider retries until it sees a 2xx and must never be throttled.
		r.Post("/webhooks/stripe", webhookH.HandleStripeEvent)

		r.Group(func(r chi.Router) {
			r.Use(customMW.RateLimit(deps.RateLimitPerMin))

			requireAuth := customMW.RequireAuth(deps.AuthService)
			optionalAuth := customMW.OptionalAuth(deps.AuthService)

			// Checkout
			r.Post("/checkout/session", checkoutH.CreateSession)

			// Auth
			r.Route("/auth", func(r chi.Router) {
				r.Post("/register", authH.Register)
				r.Post("/login", authH.Login)
				r.Post("/logout", authH.Logout)
				r.With(requireAuth).Get("/session", authH.Session)
			})

			// Articles
			r.Route("/articles", func(r chi.Router) {
				r.Get("/", articleH.List)
				r.With(optionalAuth).Get("/{id}", articleH.Get)
				r.With(requireAuth).Post("/", articleH.Create)
			})

			// Unlocks
			r.With(requireAuth).Get("/me/unlocks", articleH.ListMyUnlocks)
		})
	})

	return r
}
