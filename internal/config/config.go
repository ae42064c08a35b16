package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/promptmeter/internal/observability"
	"github.com/davidbz/promptmeter/internal/provider/echo"
	"github.com/davidbz/promptmeter/internal/provider/openai"
)

// Supported completion providers.
const (
	ProviderOpenAI = "openai"
	ProviderEcho   = "echo"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig
	CORS     CORSConfig
	Provider ProviderConfig
	Pricing  PricingConfig
	Log      observability.LogConfig
	OpenAI   openai.Config
	Echo     echo.Config
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"90"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// ProviderConfig selects the completion provider.
type ProviderConfig struct {
	Name string `env:"PROVIDER" envDefault:"openai"`
}

// PricingConfig points at an optional pricing override file.
type PricingConfig struct {
	File string `env:"PRICING_FILE"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out

	Server   *ServerConfig
	CORS     *CORSConfig
	Provider *ProviderConfig
	Pricing  *PricingConfig
	Log      *observability.LogConfig
	OpenAI   *openai.Config
	Echo     *echo.Config
}

// Load loads environment files, parses configuration and validates it.
// It fails when the selected provider is missing its credentials.
func Load() (*Config, error) {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks settings that cannot be fixed at call time.
func (c *Config) Validate() error {
	switch c.Provider.Name {
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return errors.New("OPENAI_API_KEY is required when PROVIDER=openai")
		}
	case ProviderEcho:
	default:
		return fmt.Errorf("unsupported provider %q", c.Provider.Name)
	}

	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}

	return nil
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		Out:      dig.Out{},
		Server:   &cfg.Server,
		CORS:     &cfg.CORS,
		Provider: &cfg.Provider,
		Pricing:  &cfg.Pricing,
		Log:      &cfg.Log,
		OpenAI:   &cfg.OpenAI,
		Echo:     &cfg.Echo,
	}
}
