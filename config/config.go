package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

type Config struct {
	Environment       string `mapstructure:"CBOT_ENVIRONMENT"`
	ServerAddress     string `mapstructure:"CBOT_SERVER_BIND_ADDR"`
	ServerReadTimeout int16  `mapstructure:"CBOT_SERVER_READ_TIMEOUT" validate:"gte=0"`
	LogFormat         string `mapstructure:"CBOT_LOG_FORMAT" validate:"oneof=text json"` // text or json
	LogLevel          string `mapstructure:"CBOT_LOG_LEVEL"`                              // debug, info, warn, error

	// Telegram Bot Configuration
	TelegramBotToken string `mapstructure:"CBOT_TELEGRAM_BOT_TOKEN" validate:"required"`
	TelegramAdminID  int64  `mapstructure:"CBOT_TELEGRAM_ADMIN_ID" validate:"required,gt=0"`
	TelegramDebug    bool   `mapstructure:"CBOT_TELEGRAM_DEBUG"`

	// Bot API URL pattern (token, method); points at a self-hosted Bot API server when set
	TelegramAPIEndpoint string `mapstructure:"CBOT_TELEGRAM_API_ENDPOINT" validate:"required"`

	// Catalog
	CatalogBackend    string `mapstructure:"CBOT_CATALOG_BACKEND" validate:"oneof=json sqlite"`
	CatalogFile       string `mapstructure:"CBOT_CATALOG_FILE" validate:"required_if=CatalogBackend json"`
	CatalogSQLitePath string `mapstructure:"CBOT_CATALOG_SQLITE_PATH" validate:"required_if=CatalogBackend sqlite"`
	CurrencySymbol    string `mapstructure:"CBOT_CURRENCY_SYMBOL"`
	DefaultLocale     string `mapstructure:"CBOT_DEFAULT_LOCALE" validate:"oneof=en es"`

	// Catalog lock
	LockBackend  string `mapstructure:"CBOT_LOCK_BACKEND" validate:"oneof=local redis"`
	RedisHost    string `mapstructure:"CBOT_REDIS_HOST"`
	RedisPort    int    `mapstructure:"CBOT_REDIS_PORT"`
	RedisDb      int    `mapstructure:"CBOT_REDIS_DB"`
	RedisUser    string `mapstructure:"CBOT_REDIS_USER"`
	RedisPass    string `mapstructure:"CBOT_REDIS_PASS"`
	RedisLockKey string `mapstructure:"CBOT_REDIS_LOCK_KEY"`
	RedisLockTTL int    `mapstructure:"CBOT_REDIS_LOCK_TTL" validate:"gt=0"`

	TelemetryEnabled bool   `mapstructure:"CBOT_TELEMETRY_ENABLED"`
	OtlpEndpoint     string `mapstructure:"CBOT_OTLP_ENDPOINT"`
	JaegerEndpoint   string `mapstructure:"CBOT_JAEGER_ENDPOINT"`
}

// legacyEnv maps config keys to the environment variable names the first
// release of the bot read. The CBOT_ name wins when both are set.
var legacyEnv = map[string]string{
	"CBOT_TELEGRAM_BOT_TOKEN": "BOT_TOKEN",
	"CBOT_TELEGRAM_ADMIN_ID":  "OWNER_ID",
}

// DefaultConfig generates a config with sane defaults.
func DefaultConfig() Config {
	return Config{
		Environment:       "local",
		ServerAddress:     "0.0.0.0:3001",
		ServerReadTimeout: 60,
		LogFormat:         "text",
		LogLevel:          "info",

		TelegramBotToken: "",
		TelegramAdminID:  0,
		TelegramDebug:    false,

		TelegramAPIEndpoint: "https://api.telegram.org/bot%s/%s",

		CatalogBackend:    "json",
		CatalogFile:       "productos.json",
		CatalogSQLitePath: "catalog.db",
		CurrencySymbol:    "€",
		DefaultLocale:     "es",

		LockBackend:  "local",
		RedisHost:    "localhost",
		RedisPort:    6379,
		RedisDb:      0,
		RedisUser:    "",
		RedisPass:    "",
		RedisLockKey: "catalog-bot:catalog-lock",
		RedisLockTTL: 10,

		TelemetryEnabled: false,
		OtlpEndpoint:     "localhost:4317",
		JaegerEndpoint:   "http://localhost:14268/api/traces",
	}
}

// LoadConfig will attempt to load a configuration from the default file location and fallback to environment variables.
// The result is validated; a missing bot token or administrator id is an error.
func LoadConfig() (Config, error) {
	envFile := os.Getenv("CBOT_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}

	var cfg Config
	var err error

	if _, err = os.Stat(envFile); errors.Is(err, os.ErrNotExist) {
		cfg, err = ConfigFromEnvironment()
	} else {
		cfg, err = ConfigFromFile(envFile)
	}
	if err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func newViper(config Config) *viper.Viper {
	v := viper.New()
	v.SetDefault("CBOT_ENVIRONMENT", config.Environment)
	v.SetDefault("CBOT_SERVER_BIND_ADDR", config.ServerAddress)
	v.SetDefault("CBOT_SERVER_READ_TIMEOUT", config.ServerReadTimeout)
	v.SetDefault("CBOT_LOG_LEVEL", config.LogLevel)
	v.SetDefault("CBOT_LOG_FORMAT", config.LogFormat)
	v.SetDefault("CBOT_TELEGRAM_BOT_TOKEN", config.TelegramBotToken)
	v.SetDefault("CBOT_TELEGRAM_ADMIN_ID", config.TelegramAdminID)
	v.SetDefault("CBOT_TELEGRAM_DEBUG", config.TelegramDebug)
	v.SetDefault("CBOT_TELEGRAM_API_ENDPOINT", config.TelegramAPIEndpoint)
	v.SetDefault("CBOT_CATALOG_BACKEND", config.CatalogBackend)
	v.SetDefault("CBOT_CATALOG_FILE", config.CatalogFile)
	v.SetDefault("CBOT_CATALOG_SQLITE_PATH", config.CatalogSQLitePath)
	v.SetDefault("CBOT_CURRENCY_SYMBOL", config.CurrencySymbol)
	v.SetDefault("CBOT_DEFAULT_LOCALE", config.DefaultLocale)
	v.SetDefault("CBOT_LOCK_BACKEND", config.LockBackend)
	v.SetDefault("CBOT_REDIS_HOST", config.RedisHost)
	v.SetDefault("CBOT_REDIS_PORT", config.RedisPort)
	v.SetDefault("CBOT_REDIS_DB", config.RedisDb)
	v.SetDefault("CBOT_REDIS_USER", config.RedisUser)
	v.SetDefault("CBOT_REDIS_PASS", config.RedisPass)
	v.SetDefault("CBOT_REDIS_LOCK_KEY", config.RedisLockKey)
	v.SetDefault("CBOT_REDIS_LOCK_TTL", config.RedisLockTTL)
	v.SetDefault("CBOT_TELEMETRY_ENABLED", config.TelemetryEnabled)
	v.SetDefault("CBOT_OTLP_ENDPOINT", config.OtlpEndpoint)
	v.SetDefault("CBOT_JAEGER_ENDPOINT", config.JaegerEndpoint)

	for key, legacy := range legacyEnv {
		_ = v.BindEnv(key, key, legacy)
	}

	// Override config values with environment variables
	v.AutomaticEnv()
	return v
}

// ConfigFromEnvironment will look for the specified configuration from environment variables.
func ConfigFromEnvironment() (config Config, err error) {
	config = DefaultConfig()
	v := newViper(config)
	err = v.Unmarshal(&config)
	return
}

// ConfigFromFile will look for the specified configuration file and initialize a Config from it.
// Values provided by environment variables will override ones found in the file.
func ConfigFromFile(f string) (config Config, err error) {
	config = DefaultConfig()
	v := newViper(config)

	v.SetConfigFile(f)
	v.SetConfigType("env")

	if err = v.ReadInConfig(); err != nil {
		return
	}

	err = v.Unmarshal(&config)
	return
}

// Validate checks the loaded values and reports every offending variable by its environment name.
func (c Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("mapstructure")
	})

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	problems := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		switch fe.Tag() {
		case "required", "required_if":
			problems = append(problems, fmt.Sprintf("%s must be set", fe.Field()))
		case "oneof":
			problems = append(problems, fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value()))
		default:
			problems = append(problems, fmt.Sprintf("%s is invalid (%s=%s)", fe.Field(), fe.Tag(), fe.Param()))
		}
	}

	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}

// Fiber initializes and returns a Fiber config based on server config values.
func (c Config) Fiber() fiber.Config {
	return fiber.Config{
		ReadTimeout:           time.Second * time.Duration(c.ServerReadTimeout),
		DisableStartupMessage: true,
	}
}

// RedisAddr returns the host:port pair used by the catalog lock.
func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// RedisLockTimeout converts the configured lock TTL to a duration.
func (c Config) RedisLockTimeout() time.Duration {
	return time.Duration(c.RedisLockTTL) * time.Second
}

// GetSlogLevel converts the string log level to slog.Level.
func (c Config) GetSlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo // default fallback
	}
}
