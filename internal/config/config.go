// Package config loads the source and target connection settings.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"db-diff/internal/dialect"

	"github.com/spf13/viper"
)

// ErrConfiguration is wrapped by every error caused by invalid or missing
// configuration.
var ErrConfiguration = errors.New("configuration error")

// PasswordPlaceholder is replaced in a URL by the password read from the
// environment.
const PasswordPlaceholder = "${password}"

const (
	SourcePasswordEnv = "RDBMS_DIFF_SOURCE_DB_PASSWORD"
	TargetPasswordEnv = "RDBMS_DIFF_TARGET_DB_PASSWORD"
)

const DefaultQueryTimeout = 5 * time.Minute

type DatabaseProperties struct {
	URL      string `mapstructure:"url"`
	Schema   string `mapstructure:"schema"`
	Driver   string `mapstructure:"driver"`
	Password string `mapstructure:"password"`
}

// URLWithPassword returns the URL with the placeholder substituted.
func (p DatabaseProperties) URLWithPassword() string {
	return strings.ReplaceAll(p.URL, PasswordPlaceholder, p.Password)
}

// DriverName returns the configured driver or the one detected from the URL.
func (p DatabaseProperties) DriverName() string {
	if p.Driver != "" {
		return p.Driver
	}
	return dialect.DetectDriver(p.URL)
}

func (p DatabaseProperties) needsPassword() bool {
	return strings.Contains(p.URL, PasswordPlaceholder)
}

type Settings struct {
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

type Configuration struct {
	Source   DatabaseProperties `mapstructure:"source"`
	Target   DatabaseProperties `mapstructure:"target"`
	Settings Settings           `mapstructure:"settings"`
}

// Load unmarshals and validates the configuration held by v. Passwords are
// bound to their environment variables here.
func Load(v *viper.Viper) (*Configuration, error) {
	v.SetDefault("settings.query_timeout", DefaultQueryTimeout)
	if err := v.BindEnv("source.password", SourcePasswordEnv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if err := v.BindEnv("target.password", TargetPasswordEnv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse configuration: %v", ErrConfiguration, err)
	}

	if err := validate("source", cfg.Source, SourcePasswordEnv); err != nil {
		return nil, err
	}
	if err := validate("target", cfg.Target, TargetPasswordEnv); err != nil {
		return nil, err
	}
	if cfg.Settings.QueryTimeout <= 0 {
		return nil, fmt.Errorf("%w: settings.query_timeout must be positive", ErrConfiguration)
	}
	return &cfg, nil
}

func validate(side string, p DatabaseProperties, passwordEnv string) error {
	if p.URL == "" {
		return fmt.Errorf("%w: %s.url is required", ErrConfiguration, side)
	}
	if p.Schema == "" {
		return fmt.Errorf("%w: %s.schema is required", ErrConfiguration, side)
	}
	if p.needsPassword() && p.Password == "" {
		return fmt.Errorf("%w: cannot read %s password from environment variable %s (variable not set or empty)",
			ErrConfiguration, side, passwordEnv)
	}
	return nil
}
