package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// DefaultSourceURL is the NYTimes per-state cumulative case dataset.
const DefaultSourceURL = "https://raw.githubusercontent.com/nytimes/covid-19-data/master/us-states.csv"

// Config holds all tool settings, populated from environment variables.
type Config struct {
	SourceURL     string        `env:"SOURCE_URL" validate:"required,url"`
	SourceTimeout time.Duration `env:"SOURCE_TIMEOUT" validate:"gt=0"`
	RegionField   string        `env:"REGION_FIELD" validate:"required"`
	CountField    string        `env:"COUNT_FIELD" validate:"required,nefield=RegionField"`

	LogLevel  string `env:"LOG_LEVEL" validate:"oneof=debug info warn warning error"`
	LogFormat string `env:"LOG_FORMAT" validate:"oneof=json text"`

	// HTTPAddr enables the /healthz, /readyz and /metrics server when set.
	HTTPAddr        string        `env:"HTTP_ADDR" validate:"omitempty,hostname_port"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	// Report publishing configuration.
	KafkaEnabled bool     `env:"KAFKA_ENABLED"`
	KafkaBrokers []string `env:"KAFKA_BROKERS"`
	KafkaTopic   string   `env:"KAFKA_TOPIC" validate:"required_if=KafkaEnabled true"`
}

// Load reads configuration from environment variables, applying defaults where
// unset. Variables from the file named by ENV_FILE (default .env) are loaded
// first without overriding the real environment; a missing file is ignored.
func Load() (*Config, error) {
	envFile := sharedcfg.EnvOrDefault("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	sourceTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("SOURCE_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SOURCE_TIMEOUT: %w", err)
	}
	if sourceTimeout <= 0 {
		return nil, fmt.Errorf("invalid SOURCE_TIMEOUT: must be positive, got %s", sourceTimeout)
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		SourceURL:       sharedcfg.EnvOrDefault("SOURCE_URL", DefaultSourceURL),
		SourceTimeout:   sourceTimeout,
		RegionField:     sharedcfg.EnvOrDefault("REGION_FIELD", "state"),
		CountField:      sharedcfg.EnvOrDefault("COUNT_FIELD", "cases"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "warn"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		ShutdownTimeout: shutdownTimeout,
		KafkaEnabled:    kafkaEnabled,
		KafkaBrokers:    brokers,
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "covid-seven-day-averages"),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

var validate = newValidator()

func newValidator() func(*Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report failures by environment variable rather than Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("env")
	})

	return func(cfg *Config) error {
		err := v.Struct(cfg)
		if err == nil {
			return nil
		}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s: failed %q check", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("validate config: %w", err)
	}
}
