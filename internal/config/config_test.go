package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "garage-pos-api", cfg.App.Name)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
		assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
		assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORS.AllowedOrigins)
		assert.False(t, cfg.Sales.StrictStock)
		assert.Equal(t, 5, cfg.Inventory.LowStockThreshold)
		assert.False(t, cfg.Redis.Enabled())
		assert.Equal(t, "none", cfg.Printer.Kind)
		assert.Equal(t, 32, cfg.Printer.Width)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("APP_PORT", "9000")
		t.Setenv("DB_DRIVER", "SQLite")
		t.Setenv("SALES_STRICT_STOCK", "true")
		t.Setenv("REDIS_ADDR", "localhost:6379")
		t.Setenv("INVENTORY_LOW_STOCK_THRESHOLD", "2")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.True(t, cfg.Sales.StrictStock)
		assert.True(t, cfg.Redis.Enabled())
		assert.Equal(t, 2, cfg.Inventory.LowStockThreshold)
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("DB_DRIVER", "mongo")

		_, err := Load()
		assert.ErrorContains(t, err, "unsupported DB_DRIVER")
	})

	t.Run("rejects unknown printer kind", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("PRINTER_KIND", "bluetooth")

		_, err := Load()
		assert.ErrorContains(t, err, "unsupported PRINTER_KIND")
	})

	t.Run("rejects default secret in production", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("APP_ENV", "production")

		_, err := Load()
		assert.ErrorContains(t, err, "must be changed in production")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: "5432", Name: "garage", User: "shop",
		Password: "secret", SSLMode: "disable", Timezone: "UTC",
	}

	assert.Equal(t, "host=db user=shop password=secret dbname=garage port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}
