package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "test",
			Password: "test",
			Database: "test_db",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		Stripe: StripeConfig{
			SecretKey:     "sk_test_123",
			WebhookSecret: "whsec_test_123",
			Currency:      "usd",
		},
		Webhook: WebhookConfig{
			InsertRetries:    3,
			InsertRetryDelay: 100 * time.Millisecond,
			EventLogTTL:      72 * time.Hour,
		},
	}
}

func TestConfig_Validate_Success(t *testing.T) {
	err := validConfig().Validate()
	assert.NoError(t, err)
}

func TestConfig_Validate_InvalidServerPort(t *testing.T) {
	tests := []struct {
		name string
		port int
	}{
		{"port too low", 0},
		{"port negative", -1},
		{"port too high", 99999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.Port = tt.port

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "server.port")
		})
	}
}

func TestConfig_Validate_MissingStripeSecretKey(t *testing.T) {
	cfg := validConfig()
	cfg.Stripe.SecretKey = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "stripe.secret_key")
}

func TestConfig_Validate_MissingWebhookSecret(t *testing.T) {
	// The webhook signing secret is the only authentication on the
	// unlock-write path: starting without it must be impossible.
	cfg := validConfig()
	cfg.Stripe.WebhookSecret = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "stripe.webhook_secret")
}

func TestConfig_Validate_InvalidCurrency(t *testing.T) {
	for _, currency := range []string{"", "us", "dollars"} {
		cfg := validConfig()
		cfg.Stripe.Currency = currency

		err := cfg.Validate()
		assert.Error(t, err, "currency %q", currency)
		assert.Contains(t, err.Error(), "stripe.currency")
	}
}

func TestConfig_Validate_ZeroInsertRetries(t *testing.T) {
	cfg := validConfig()
	cfg.Webhook.InsertRetries = 0

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "webhook.insert_retries")
}

func TestConfig_Validate_ShortJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = "too-short"

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "auth.jwt_secret")
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Database.Host = ""
	cfg.Stripe.WebhookSecret = ""

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "server.port")
	assert.Contains(t, errStr, "database.host")
	assert.Contains(t, errStr, "stripe.webhook_secret")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.example.com",
		Port:     5432,
		User:     "app_user",
		Password: "secret",
		Database: "paywall_db",
		SSLMode:  "require",
	}

	dsn := cfg.DatabaseDSN()
	assert.Contains(t, dsn, "host=db.example.com")
	assert.Contains(t, dsn, "port=5432")
	assert.Contains(t, dsn, "dbname=paywall_db")
	assert.Contains(t, dsn, "sslmode=require")
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "redis.example.com", Port: 6379}
	assert.Equal(t, "redis.example.com:6379", cfg.RedisAddr())
}
