// Package config loads censuswatch settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/luciancaetano/censusstream"
)

// Config controls the censuswatch command.
type Config struct {
	ServiceID   string   `env:"CENSUS_SERVICE_ID,required"`
	Environment string   `env:"CENSUS_ENVIRONMENT"  envDefault:"ps2:v2"`
	Endpoint    string   `env:"CENSUS_ENDPOINT"`
	Worlds      []int    `env:"CENSUS_WORLDS"       envDefault:"1,10,13,17,19,40" envSeparator:","`
	Events      []string `env:"CENSUS_EVENTS"       envDefault:"PlayerLogin,PlayerLogout" envSeparator:","`
	Characters  []string `env:"CENSUS_CHARACTERS"   envSeparator:","`
	LogicalAnd  bool     `env:"CENSUS_LOGICAL_AND"  envDefault:"false"`

	HandshakeTimeout time.Duration `env:"CENSUS_HANDSHAKE_TIMEOUT" envDefault:"0s"`
	RateLimit        float64       `env:"CENSUS_RATE_LIMIT"        envDefault:"10"`
	RateBurst        int           `env:"CENSUS_RATE_BURST"        envDefault:"20"`

	LogLevel    string `env:"CENSUS_LOG_LEVEL"    envDefault:"info"`
	LogFormat   string `env:"CENSUS_LOG_FORMAT"   envDefault:"text"`
	MetricsAddr string `env:"CENSUS_METRICS_ADDR"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env parsing cannot.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.ServiceID) == "" {
		errs = append(errs, errors.New("CENSUS_SERVICE_ID is empty"))
	}
	if !c.Namespace().Valid() {
		errs = append(errs, fmt.Errorf("CENSUS_ENVIRONMENT %q is not a known environment", c.Environment))
	}
	if len(c.Events) == 0 {
		errs = append(errs, errors.New("CENSUS_EVENTS lists no events"))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("CENSUS_LOG_FORMAT %q must be text or json", c.LogFormat))
	}
	return errors.Join(errs...)
}

// Namespace returns the environment as a census namespace.
func (c Config) Namespace() censusstream.Namespace {
	return censusstream.Namespace(c.Environment)
}

// Level returns the configured log level.
func (c Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("CENSUS_LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}
