// Package config reads the storefront configuration from the environment and
// command-line flags. Non-empty environment values win over flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"snatchx.shop/storefront/pkg/store"
)

const (
	defaultRunAddress   = ":8000"
	defaultRedisAddress = "localhost:6379"
	defaultCatalogURL   = "https://fakestoreapi.com"
)

type Config struct {
	RunAddress string `env:"RUN_ADDRESS"`
	Env        string `env:"ENV" envDefault:"development"`

	MongoURI      string `env:"MONGODB_URI"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"snatchx"`

	RedisAddress   string `env:"REDIS_ADDRESS"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisNamespace string `env:"REDIS_NAMESPACE" envDefault:"snatchx:"`

	CatalogURL      string        `env:"CATALOG_URL"`
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"24h"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"72h"`

	// Location decides where a calendar day starts for daily discounts
	Location    string   `env:"TZ_LOCATION" envDefault:"Local"`
	CartHandoff string   `env:"CART_HANDOFF" envDefault:"replace"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

	LogMode string `env:"LOG_MODE" envDefault:"development"`
	LogFile string `env:"LOG_FILE"`

	AzureOpenAIEndpoint   string `env:"AZURE_OPENAI_ENDPOINT"`
	AzureOpenAIAPIKey     string `env:"AZURE_OPENAI_API_KEY"`
	AzureOpenAIDeployment string `env:"AZURE_OPENAI_DEPLOYMENT_NAME"`
}

// Parse reads the environment, then flags, then validates the result
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envMongoURI := cfg.MongoURI
	envRedisAddress := cfg.RedisAddress
	envCatalogURL := cfg.CatalogURL

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.MongoURI, "m", "", "MongoDB connection URI")
	flag.StringVar(&cfg.RedisAddress, "r", defaultRedisAddress, "Redis address")
	flag.StringVar(&cfg.CatalogURL, "c", defaultCatalogURL, "product catalog base URL")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envMongoURI != "" {
		cfg.MongoURI = envMongoURI
	}
	if envRedisAddress != "" {
		cfg.RedisAddress = envRedisAddress
	}
	if envCatalogURL != "" {
		cfg.CatalogURL = envCatalogURL
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return errors.New("MONGODB_URI is not set")
	}
	if _, err := store.ParseHandoff(c.CartHandoff); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Location); err != nil {
		return fmt.Errorf("TZ_LOCATION: %w", err)
	}
	return nil
}

// Handoff returns the guest to user cart policy; Validate has already
// rejected unknown values
func (c *Config) Handoff() store.Handoff {
	policy, _ := store.ParseHandoff(c.CartHandoff)
	return policy
}

// Zone returns the location used for calendar-day boundaries
func (c *Config) Zone() *time.Location {
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
