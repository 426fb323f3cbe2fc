package main

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Env is a structure that holds all the environment variables that are used in the app.
type Env struct {
	OutputPath        string        `mapstructure:"OUTPUT_PATH" validate:"required"`
	ReferenceDataPath string        `mapstructure:"REFERENCE_DATA_PATH"`
	ThemesKey         string        `mapstructure:"THEMES_KEY" validate:"oneof=stock_themes korea_themes"`
	CountriesURL      string        `mapstructure:"COUNTRIES_URL" validate:"omitempty,url"`
	IndicesURL        string        `mapstructure:"INDICES_URL" validate:"omitempty,url"`
	StockThemesURL    string        `mapstructure:"STOCK_THEMES_URL" validate:"omitempty,url"`
	RealEstateURL     string        `mapstructure:"REAL_ESTATE_URL" validate:"omitempty,url"`
	GICIURL           string        `mapstructure:"GICI_URL" validate:"omitempty,url"`
	CryptoProvider    string        `mapstructure:"CRYPTO_PROVIDER" validate:"oneof=coingecko coinmarketcap"`
	CryptoURL         string        `mapstructure:"CRYPTO_URL" validate:"omitempty,url"`
	AlphaVantageKey   string        `mapstructure:"ALPHA_VANTAGE_KEY"`
	AlphaVantageURL   string        `mapstructure:"ALPHA_VANTAGE_URL" validate:"omitempty,url"`
	HTTPTimeout       time.Duration `mapstructure:"HTTP_TIMEOUT" validate:"gt=0"`
	RequestsPerSecond int           `mapstructure:"REQUESTS_PER_SECOND" validate:"gte=0"`
	SanitizeStrings   bool          `mapstructure:"SANITIZE_STRINGS"`
	Schedule          string        `mapstructure:"SCHEDULE"`
	SentryDSN         string        `mapstructure:"SENTRY_DSN" validate:"omitempty,url"`
	LogLevel          string        `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
}

// envDefaults lists every variable with its default. viper only unmarshals keys it knows about,
// so optional variables are registered with an empty default.
var envDefaults = map[string]any{
	"OUTPUT_PATH":         "data/dashboard_data.json",
	"REFERENCE_DATA_PATH": "",
	"THEMES_KEY":          "stock_themes",
	"COUNTRIES_URL":       "",
	"INDICES_URL":         "",
	"STOCK_THEMES_URL":    "",
	"REAL_ESTATE_URL":     "",
	"GICI_URL":            "",
	"CRYPTO_PROVIDER":     "coingecko",
	"CRYPTO_URL":          "",
	"ALPHA_VANTAGE_KEY":   "",
	"ALPHA_VANTAGE_URL":   "",
	"HTTP_TIMEOUT":        "10s",
	"REQUESTS_PER_SECOND": 2,
	"SANITIZE_STRINGS":    true,
	"SCHEDULE":            "",
	"SENTRY_DSN":          "",
	"LOG_LEVEL":           "info",
}

// loadEnv reads the environment through v and validates the result.
func loadEnv(v *viper.Viper) (*Env, error) {
	for key, value := range envDefaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var env Env
	if err := v.Unmarshal(&env); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(&env); err != nil {
		return nil, err
	}

	return &env, nil
}

type Config struct {
	env                *Env          // Holds all the environment variables that are used in the app
	jobTimeout         time.Duration // Upper bound of a single snapshot run
	sentryFlushTimeout time.Duration // How long to wait for Sentry events on exit
}

// NewConfig creates a new Config object with the given Env and default values from DefaultConfig.
func NewConfig(env *Env) *Config {
	c := DefaultConfig()
	c.env = env
	return c
}

// DefaultConfig creates a new Config object with default values.
func DefaultConfig() *Config {
	return &Config{
		env:                &Env{},
		jobTimeout:         2 * time.Minute,
		sentryFlushTimeout: 2 * time.Second,
	}
}
