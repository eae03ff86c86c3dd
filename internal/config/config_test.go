package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "localhost"
user = "parking"
dbname = "parking"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 60, cfg.Sweeper.IntervalSeconds)
	assert.Equal(t, "parking/gates/+/scan", cfg.MQTT.ScanTopic)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "localhost"
dbname = "parking"
password = "from-file"

[notifications]
smtp_password = "from-file"
`)
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("SMTP_PASSWORD", "smtp-secret")
	t.Setenv("REDIS_PASSWORD", "redis-secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "smtp-secret", cfg.Notifications.SMTPPassword)
	assert.Equal(t, "redis-secret", cfg.ScanGuard.RedisPassword)
	assert.Contains(t, cfg.Database.DSN(), "password=secret")
}

func TestLoad_MemoryDriverNeedsNoDatabase(t *testing.T) {
	path := writeConfig(t, `
[storage]
driver = "memory"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
}

func TestLoad_RateLimitBurstDefault(t *testing.T) {
	tests := []struct {
		perSecond float64
		want      int
	}{
		{0.5, 1},
		{0.2, 1},
		{1.5, 3},
		{10, 20},
	}

	for _, tt := range tests {
		path := writeConfig(t, fmt.Sprintf("[storage]\ndriver = \"memory\"\n[rate_limit]\nper_second = %.1f\n", tt.perSecond))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, cfg.RateLimit.Burst, "per_second=%v", tt.perSecond)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "unknown driver",
			content: "[storage]\ndriver = \"mongo\"\n",
		},
		{
			name:    "postgres without host",
			content: "[database]\ndbname = \"parking\"\n",
		},
		{
			name:    "mqtt without broker",
			content: "[storage]\ndriver = \"memory\"\n[mqtt]\nenabled = true\n",
		},
		{
			name:    "negative rate limit",
			content: "[storage]\ndriver = \"memory\"\n[rate_limit]\nper_second = -1.0\n",
		},
		{
			name:    "notifications without smtp host",
			content: "[storage]\ndriver = \"memory\"\n[notifications]\nenabled = true\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, ErrReadConfig)
}
