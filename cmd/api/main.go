package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/inkgate/paywall/internal/bootstrap"
	"github.com/inkgate/paywall/internal/controller"
	infraRedis "github.com/inkgate/paywall/internal/infrastructure/redis"
	infraStripe "github.com/inkgate/paywall/internal/infrastructure/stripe"
	"github.com/inkgate/paywall/internal/repository/postgres"
	"github.com/inkgate/paywall/internal/service"
	"github.com/inkgate/paywall/pkg/retry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, "paywall-api", "paywall")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Repositories ---
	articleRepo := postgres.NewArticleRepository(app.Pool)
	unlockRepo := postgres.NewUnlockRepository(app.Pool)
	userRepo := postgres.NewUserRepository(app.Pool)

	// --- Collaborators ---
	gateway := infraStripe.NewGateway(&app.Config.Stripe)
	eventLog := infraRedis.NewEventLog(app.Redis, app.Config.Webhook.EventLogTTL)
	denylist := infraRedis.NewTokenDenylist(app.Redis)

	// --- Services ---
	insertRetry := retry.Config{
		MaxAttempts:  app.Config.Webhook.InsertRetries,
		InitialDelay: app.Config.Webhook.InsertRetryDelay,
		MaxDelay:     app.Config.Webhook.InsertRetryDelay * 10,
	}
	checkoutSvc := service.NewCheckoutService(gateway, app.Config.Stripe.Currency, app.Logger, app.Metrics)
	webhookSvc := service.NewWebhookService(gateway, unlockRepo, eventLog, insertRetry, app.Logger, app.Metrics)
	articleSvc := service.NewArticleService(articleRepo, unlockRepo, app.Logger)
	authSvc := service.NewAuthService(userRepo, denylist, app.Config.Auth.JWTSecret, app.Config.Auth.JWTExpiry, app.Logger)

	// --- Build router ---
	router := controller.NewRouter(controller.RouterDeps{
		Pool:            app.Pool,
		RedisClient:     app.Redis,
		CheckoutService: checkoutSvc,
		WebhookService:  webhookSvc,
		ArticleService:  articleSvc,
		AuthService:     authSvc,
		Metrics:         app.Metrics,
		CORSConfig:      app.Config.Server.CORS,
		RateLimitPerMin: app.Config.Server.RateLimitPerMin,
	})

	// --- HTTP server ---
	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		select {
		case <-gCtx.Done():
			return gCtx.Err()
		case <-quit:
			app.Logger.Info().Msg("Shutting down server...")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				app.Logger.Error().Err(err).Msg("Server forced to shutdown")
			}
			cancel()
			return nil
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		app.Logger.Fatal().Err(err).Msg("Server exited with error")
	}
	app.Logger.Info().Msg("Server exited")
}
