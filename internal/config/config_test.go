package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"APP_PORT", "LOG_LEVEL", "MONGODB_URI", "MONGODB_DB_NAME",
	"ANTHROPIC_API_KEY", "ANTHROPIC_MODEL", "EXTRACTION_TIMEOUT",
	"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID",
	"WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "WHATSAPP_BASE_URL", "WHATSAPP_API_VERSION", "WHATSAPP_REPORT_RECIPIENT",
	"REPORT_CRON_SCHEDULE", "TIMEZONE",
	"RATE_LANTABUR", "RATE_TAQWA", "WATER_PER_KG", "CO2_PER_KG", "DAILY_TARGET_KG", "SHIFT_TARGET_KG",
}

// clearEnv blanks every key for the duration of the test. Load treats empty
// values as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "lantabur", cfg.MongoDB.DBName)
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout)
	assert.False(t, cfg.AI.Enabled())
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.WhatsApp.Enabled())
	assert.Equal(t, 1.25, cfg.Reporting.RateLantabur)
	assert.Equal(t, 60000.0, cfg.Reporting.DailyTarget)
	assert.Equal(t, "0 20 * * *", cfg.Reporting.CronSchedule)
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	for _, key := range configKeys {
		// godotenv does not override variables that are already set
		require.NoError(t, os.Unsetenv(key))
	}
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"MONGODB_URI=mongodb://db:27017\n"+
			"ANTHROPIC_API_KEY=sk-test\n"+
			"EXTRACTION_TIMEOUT=90s\n"+
			"RATE_TAQWA=1.3\n"+
			"WHATSAPP_TOKEN=token\nWHATSAPP_PHONE_NUMBER_ID=123\nWHATSAPP_REPORT_RECIPIENT=8801700000000\n",
	), 0o600))
	t.Cleanup(func() {
		for _, key := range configKeys {
			_ = os.Unsetenv(key)
		}
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mongodb://db:27017", cfg.MongoDB.URI)
	assert.True(t, cfg.AI.Enabled())
	assert.Equal(t, 90*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 1.3, cfg.Reporting.RateTaqwa)
	assert.True(t, cfg.WhatsApp.Enabled())
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"missing uri":      {"MONGODB_URI", ""},
		"bad rate":         {"RATE_LANTABUR", "abc"},
		"bad timeout":      {"EXTRACTION_TIMEOUT", "soon"},
		"bad timezone":     {"TIMEZONE", "Mars/Olympus"},
		"zero target":      {"DAILY_TARGET_KG", "0"},
		"half sheets conf": {"GOOGLE_SHEET_DATABASE_ID", "sheet-id"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
			t.Setenv(kv[0], kv[1])

			_, err := Load(missingEnvFile(t))
			assert.Error(t, err)
		})
	}
}

func TestValidateNil(t *testing.T) {
	var cfg *Config
	assert.Error(t, cfg.Validate())
}
