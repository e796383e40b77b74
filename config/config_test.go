package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ConfigFromEnvironment_Defaults(t *testing.T) {
	// when
	cfg, err := ConfigFromEnvironment()

	// then
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.CatalogBackend)
	assert.Equal(t, "productos.json", cfg.CatalogFile)
	assert.Equal(t, "€", cfg.CurrencySymbol)
	assert.Equal(t, "local", cfg.LockBackend)
	assert.False(t, cfg.TelemetryEnabled)
	assert.Equal(t, "https://api.telegram.org/bot%s/%s", cfg.TelegramAPIEndpoint)
}

func Test_ConfigFromEnvironment_Overrides(t *testing.T) {
	// given
	t.Setenv("CBOT_TELEGRAM_BOT_TOKEN", "token-1")
	t.Setenv("CBOT_TELEGRAM_ADMIN_ID", "42")
	t.Setenv("CBOT_CATALOG_BACKEND", "sqlite")
	t.Setenv("CBOT_LOG_LEVEL", "debug")

	// when
	cfg, err := ConfigFromEnvironment()

	// then
	require.NoError(t, err)
	assert.Equal(t, "token-1", cfg.TelegramBotToken)
	assert.Equal(t, int64(42), cfg.TelegramAdminID)
	assert.Equal(t, "sqlite", cfg.CatalogBackend)
	assert.Equal(t, slog.LevelDebug, cfg.GetSlogLevel())
	assert.NoError(t, cfg.Validate())
}

func Test_ConfigFromEnvironment_LegacyNames(t *testing.T) {
	// given
	t.Setenv("BOT_TOKEN", "legacy-token")
	t.Setenv("OWNER_ID", "7")

	// when
	cfg, err := ConfigFromEnvironment()

	// then
	require.NoError(t, err)
	assert.Equal(t, "legacy-token", cfg.TelegramBotToken)
	assert.Equal(t, int64(7), cfg.TelegramAdminID)
}

func Test_ConfigFromFile(t *testing.T) {
	// given
	path := filepath.Join(t.TempDir(), "bot.env")
	content := "CBOT_TELEGRAM_BOT_TOKEN=file-token\nCBOT_TELEGRAM_ADMIN_ID=99\nCBOT_CURRENCY_SYMBOL=USD\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CBOT_TELEGRAM_ADMIN_ID", "100")

	// when
	cfg, err := ConfigFromFile(path)

	// then
	require.NoError(t, err)
	assert.Equal(t, "file-token", cfg.TelegramBotToken)
	assert.Equal(t, int64(100), cfg.TelegramAdminID, "environment wins over the file")
	assert.Equal(t, "USD", cfg.CurrencySymbol)
}

func Test_Config_Validate(t *testing.T) {
	valid := DefaultConfig()
	valid.TelegramBotToken = "token"
	valid.TelegramAdminID = 1

	testCases := []struct {
		name      string
		mutate    func(c *Config)
		expectErr string
	}{
		{
			name:   "Success - minimal config",
			mutate: func(c *Config) {},
		},
		{
			name:      "Error - missing token",
			mutate:    func(c *Config) { c.TelegramBotToken = "" },
			expectErr: "CBOT_TELEGRAM_BOT_TOKEN must be set",
		},
		{
			name:      "Error - missing admin",
			mutate:    func(c *Config) { c.TelegramAdminID = 0 },
			expectErr: "CBOT_TELEGRAM_ADMIN_ID must be set",
		},
		{
			name:      "Error - unknown backend",
			mutate:    func(c *Config) { c.CatalogBackend = "mongo" },
			expectErr: "CBOT_CATALOG_BACKEND must be one of",
		},
		{
			name:      "Error - sqlite without path",
			mutate:    func(c *Config) { c.CatalogBackend = "sqlite"; c.CatalogSQLitePath = "" },
			expectErr: "CBOT_CATALOG_SQLITE_PATH must be set",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			cfg := valid
			tc.mutate(&cfg)

			// when
			err := cfg.Validate()

			// then
			if tc.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
