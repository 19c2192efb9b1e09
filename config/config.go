package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const VERSION = "1.4"

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	Session     SessionConfig
	Onboarding  OnboardingConfig
	Tracing     TracingConfig
	Environment string
	LogLevel    string
	Version     string
}

type ServerConfig struct {
	Port int
	Host string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AuthConfig struct {
	// HMAC secret the identity provider signs access tokens with
	JWTSecret string
	// Standard Webhooks secret ("whsec_...") for identity-provider events
	WebhookSecret string
}

type SessionConfig struct {
	// Ceiling after which a pending profile resolution stops blocking callers
	ResolveTimeout time.Duration
	// Sessions not used for this long are dropped from memory
	IdleTTL time.Duration
}

type OnboardingConfig struct {
	SaveTimeout time.Duration
	WizardTTL   time.Duration
	// Write transitions allowed per user per minute
	RateLimit int
	// Where the client is sent after a successful activation
	ActivationRedirect string
}

type TracingConfig struct {
	Enabled             bool
	ServiceName         string
	SamplingProbability float64
}

// LoadOptions contains options for loading configuration
type LoadOptions struct {
	EnvFile string // Optional environment file to load (e.g., ".env", ".env.test")
}

// Load loads the configuration with default options
func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{EnvFile: ".env"})
}

// LoadWithOptions loads the configuration with the specified options
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "careops")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("VERSION", VERSION)

	v.SetDefault("SESSION_RESOLVE_TIMEOUT", "5s")
	v.SetDefault("SESSION_IDLE_TTL", "2h")

	v.SetDefault("ONBOARDING_SAVE_TIMEOUT", "10s")
	v.SetDefault("ONBOARDING_WIZARD_TTL", "30m")
	v.SetDefault("ONBOARDING_RATE_LIMIT", 60)
	v.SetDefault("ONBOARDING_ACTIVATION_REDIRECT", "/bookings")

	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_SERVICE_NAME", "careops-api")
	v.SetDefault("TRACING_SAMPLING_PROBABILITY", 0.1)

	if opts.EnvFile != "" {
		v.SetConfigName(opts.EnvFile)
		v.SetConfigType("env")

		currentPath, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error getting current directory: %w", err)
		}

		v.AddConfigPath(currentPath)

		if err := v.ReadInConfig(); err != nil {
			// It's okay if config file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	jwtSecret := v.GetString("AUTH_JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is required")
	}

	config := &Config{
		Server: ServerConfig{
			Port: v.GetInt("SERVER_PORT"),
			Host: v.GetString("SERVER_HOST"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Auth: AuthConfig{
			JWTSecret:     jwtSecret,
			WebhookSecret: v.GetString("AUTH_WEBHOOK_SECRET"),
		},
		Session: SessionConfig{
			ResolveTimeout: v.GetDuration("SESSION_RESOLVE_TIMEOUT"),
			IdleTTL:        v.GetDuration("SESSION_IDLE_TTL"),
		},
		Onboarding: OnboardingConfig{
			SaveTimeout:        v.GetDuration("ONBOARDING_SAVE_TIMEOUT"),
			WizardTTL:          v.GetDuration("ONBOARDING_WIZARD_TTL"),
			RateLimit:          v.GetInt("ONBOARDING_RATE_LIMIT"),
			ActivationRedirect: v.GetString("ONBOARDING_ACTIVATION_REDIRECT"),
		},
		Tracing: TracingConfig{
			Enabled:             v.GetBool("TRACING_ENABLED"),
			ServiceName:         v.GetString("TRACING_SERVICE_NAME"),
			SamplingProbability: v.GetFloat64("TRACING_SAMPLING_PROBABILITY"),
		},
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Version:     v.GetString("VERSION"),
	}

	if config.Session.ResolveTimeout <= 0 {
		return nil, fmt.Errorf("SESSION_RESOLVE_TIMEOUT must be positive")
	}
	if config.Session.IdleTTL <= 0 {
		return nil, fmt.Errorf("SESSION_IDLE_TTL must be positive")
	}
	if config.Onboarding.SaveTimeout <= 0 {
		return nil, fmt.Errorf("ONBOARDING_SAVE_TIMEOUT must be positive")
	}
	if config.Onboarding.WizardTTL <= 0 {
		return nil, fmt.Errorf("ONBOARDING_WIZARD_TTL must be positive")
	}
	if config.Onboarding.RateLimit <= 0 {
		return nil, fmt.Errorf("ONBOARDING_RATE_LIMIT must be positive")
	}

	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
