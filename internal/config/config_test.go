package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("FLASH_SALE_NOTIFY_LEAD", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 15*time.Minute, cfg.FlashSale.NotifyLead)
	assert.Equal(t, "order-events", cfg.Kafka.OrderTopic)
	assert.Equal(t, 15*time.Minute, cfg.VNPay.PaymentExpiry)
}

func TestLoad_OverridesFromEnv(t *testing.T) {
	t.Setenv("FLASH_SALE_NOTIFY_LEAD", "2m")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("DB_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.FlashSale.NotifyLead)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, 5432, cfg.Database.Port, "invalid ints fall back to default")
}

func TestValidate_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadDatabaseConfig_InvalidDuration(t *testing.T) {
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_RETRY_DELAY", "soon")

	_, err := LoadDatabaseConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_RETRY_DELAY")
}

func TestValidate_RecoveryCron(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("FLASH_SALE_RECOVERY_CRON", "every minute please")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FLASH_SALE_RECOVERY_CRON")
}

func TestValidate_WorkerConcurrency(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("WORKER_CONCURRENCY", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WORKER_CONCURRENCY")
}
