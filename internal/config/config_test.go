package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"CONFIG_FILE", "SERVER_PORT", "TIMEZONE", "HORIZON_DAYS"} {
		t.Setenv(key, "")
	}
	// registers the restore, then unsets so LookupEnv sees nothing
	for _, key := range []string{"HORIZON_REFRESH_CRON", "REMINDER_CRON"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "Europe/Zurich", cfg.Timezone)
	assert.Equal(t, 365, cfg.HorizonDays)
	assert.Equal(t, "0 3 * * *", cfg.HorizonRefreshCron)
	assert.Equal(t, "0 18 * * *", cfg.ReminderCron)
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "salon.yaml")
	body := []byte("server_port: \"9000\"\nredis_addr: redis:6379\nsmtp:\n  host: mail.local\n  port: 2525\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("HORIZON_REFRESH_CRON", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.Addr())
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, "mail.local", cfg.SMTP.Host)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Empty(t, cfg.HorizonRefreshCron)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("smtp: [unterminated"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("TIMEZONE", "Mars/Olympus_Mons")

	_, err := Load()
	assert.ErrorContains(t, err, "TIMEZONE")
}

func TestLoad_CORSOriginsFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("CORS_ORIGINS", " https://schnittwerk.ch, ,https://admin.schnittwerk.ch ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://schnittwerk.ch", "https://admin.schnittwerk.ch"}, cfg.CORSOrigins)
}

func TestMailEnabled(t *testing.T) {
	cfg := &Config{SMTP: SMTPConfig{Host: "smtp.example.com"}}
	assert.True(t, cfg.MailEnabled())

	cfg.DevMode = true
	assert.False(t, cfg.MailEnabled())

	cfg = &Config{}
	assert.False(t, cfg.MailEnabled())
}
