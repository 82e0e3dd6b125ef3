package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnvs sets the settings without which Load refuses to start.
func setRequiredEnvs(t *testing.T) {
	t.Helper()
	t.Setenv("SESSION_TOKEN_SECRET", "test-secret")
	t.Setenv("ADMIN_ALLOWED_EMAILS", "ops@bay-admin.dev")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnvs(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "localhost", cfg.RedisHost)
	assert.Equal(t, 6379, cfg.RedisPort)
	assert.Equal(t, "bay", cfg.RecordNamespace)
	assert.Equal(t, "bay-admin", cfg.MinioBucket)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoad_MissingSessionSecret(t *testing.T) {
	t.Setenv("ADMIN_ALLOWED_EMAILS", "ops@bay-admin.dev")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_TOKEN_SECRET")
}

func TestLoad_MissingAdminEmails(t *testing.T) {
	t.Setenv("SESSION_TOKEN_SECRET", "test-secret")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_ALLOWED_EMAILS")
}

func TestLoad_AdminEmailList(t *testing.T) {
	setRequiredEnvs(t)
	t.Setenv("ADMIN_ALLOWED_EMAILS", "ops@bay-admin.dev,second@bay-admin.dev")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"ops@bay-admin.dev", "second@bay-admin.dev"}, cfg.AdminAllowedEmails)
}

func TestLoad_InvalidHTTPPort(t *testing.T) {
	setRequiredEnvs(t)
	t.Setenv("ADMIN_HTTP_PORT", "99999")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestLoad_MinioWithoutCredentials(t *testing.T) {
	setRequiredEnvs(t)
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MINIO_ACCESS_KEY")
}

func TestRedis_BuildsConnectionSettings(t *testing.T) {
	setRequiredEnvs(t)
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_PASSWORD", "hunter2")

	cfg, err := Load()
	require.NoError(t, err)

	rc := cfg.Redis()
	assert.Equal(t, "cache.internal:6380", rc.Addr())
	assert.Equal(t, "hunter2", rc.Password)
}
