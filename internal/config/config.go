package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	AuthJWT   = "jwt"
	AuthClerk = "clerk"
)

type Config struct {
	Env      string `mapstructure:"APP_ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	Port     string `mapstructure:"PORT"`

	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"`
	MongoURI       string `mapstructure:"MONGODB_URI"`
	MongoDatabase  string `mapstructure:"MONGODB_DATABASE"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`

	AuthProvider   string `mapstructure:"AUTH_PROVIDER"`
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	ClerkSecretKey string `mapstructure:"CLERK_SECRET_KEY"`

	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	CORSOrigins    []string      `mapstructure:"CORS_ORIGINS"`

	MetricsUser string `mapstructure:"METRICS_USER"`
	MetricsPass string `mapstructure:"METRICS_PASS"`

	FCMCredentialsFile    string `mapstructure:"FCM_CREDENTIALS_FILE"`
	FCMServiceAccountJSON string `mapstructure:"FCM_SERVICE_ACCOUNT_JSON"`
	NotificationWorkers   int    `mapstructure:"NOTIFICATION_WORKERS"`

	CatalogCacheSize int  `mapstructure:"CATALOG_CACHE_SIZE"`
	SeedCatalog      bool `mapstructure:"SEED_CATALOG"`
}

var defaults = map[string]any{
	"APP_ENV":   "development",
	"LOG_LEVEL": "info",
	"PORT":      "5000",

	"DATABASE_DRIVER":  DriverMongo,
	"MONGODB_URI":      "mongodb://localhost:27017",
	"MONGODB_DATABASE": "Daily-Motivator-Web-DataBase",
	"DATABASE_URL":     "",

	"AUTH_PROVIDER":    AuthJWT,
	"JWT_SECRET":       "",
	"CLERK_SECRET_KEY": "",

	"RATE_LIMIT_RPS":   5.0,
	"RATE_LIMIT_BURST": 30,
	"REQUEST_TIMEOUT":  "5s",
	"CORS_ORIGINS":     []string{"*"},

	"METRICS_USER": "",
	"METRICS_PASS": "",

	"FCM_CREDENTIALS_FILE":     "./serviceAccountKey.json",
	"FCM_SERVICE_ACCOUNT_JSON": "",
	"NOTIFICATION_WORKERS":     5,

	"CATALOG_CACHE_SIZE": 512,
	"SEED_CATALOG":       true,
}

// Load reads an optional .env file into the environment and decodes it into a Config.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	c.DatabaseDriver = strings.ToLower(strings.TrimSpace(c.DatabaseDriver))
	c.AuthProvider = strings.ToLower(strings.TrimSpace(c.AuthProvider))

	switch c.DatabaseDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI environment variable is not set")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	switch c.AuthProvider {
	case AuthJWT:
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET environment variable is not set")
		}
	case AuthClerk:
		if c.ClerkSecretKey == "" {
			return fmt.Errorf("CLERK_SECRET_KEY environment variable is not set")
		}
	default:
		return fmt.Errorf("unsupported AUTH_PROVIDER %q", c.AuthProvider)
	}

	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 5 * time.Second
	}
	if c.NotificationWorkers <= 0 {
		c.NotificationWorkers = 1
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
