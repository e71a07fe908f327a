// Package config loads bbweaver process settings from the environment,
// optionally seeded from .env files.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/grahms/bbweaver"
)

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into Config
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrInvalidLogLevel is returned for an unknown BBWEAVER_LOG_LEVEL
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrInvalidConfig is returned when a parsed value is out of range
	ErrInvalidConfig = errors.New("invalid configuration value")
)

// Config holds everything the CLI and the HTTP server need.
type Config struct {
	Addr            string        `env:"BBWEAVER_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"BBWEAVER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	MaxBodyBytes    int64         `env:"BBWEAVER_MAX_BODY_BYTES" envDefault:"1048576"`

	TagsFile     string   `env:"BBWEAVER_TAGS_FILE"`
	BareTags     bool     `env:"BBWEAVER_BARE_TAGS" envDefault:"false"`
	EscapeMarker string   `env:"BBWEAVER_ESCAPE_MARKER" envDefault:"\\"`
	EscapeAttrs  bool     `env:"BBWEAVER_ESCAPE_ATTRS" envDefault:"false"`
	URLSchemes   []string `env:"BBWEAVER_URL_SCHEMES" envSeparator:","`

	CacheSize int `env:"BBWEAVER_CACHE_SIZE" envDefault:"1024"`

	LogLevel  string `env:"BBWEAVER_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"BBWEAVER_LOG_FORMAT" envDefault:"text"`
}

// Load reads the given .env files, if any, then parses the environment.
// Variables already set in the process take precedence over the files.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return Config{}, fmt.Errorf("loading env files: %w", err)
		}
	} else {
		// The default .env file is optional.
		_ = godotenv.Load()
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("BBWEAVER_SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("BBWEAVER_MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes))
	}
	if c.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("BBWEAVER_CACHE_SIZE must be positive, got %d", c.CacheSize))
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
}

// Logger builds the process logger described by LogLevel and LogFormat.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, errors.Join(ErrInvalidLogLevel, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// TagSet returns the definitions from TagsFile, or the built-in default
// set when no file is configured.
func (c Config) TagSet() ([]*bbweaver.TagDefinition, error) {
	if c.TagsFile == "" {
		return bbweaver.DefaultTagSet(), nil
	}
	return bbweaver.LoadTagSetFile(c.TagsFile)
}

// EngineOptions translates the rendering settings into engine options.
// URL attributes (href, src, cite) are checked against URLSchemes when
// it is set.
func (c Config) EngineOptions(logger *slog.Logger) []bbweaver.Option {
	opts := []bbweaver.Option{
		bbweaver.WithEscapeMarker(c.EscapeMarker),
		bbweaver.WithLogger(logger),
	}
	if c.BareTags {
		opts = append(opts, bbweaver.WithBareTags())
	}
	if c.EscapeAttrs {
		opts = append(opts, bbweaver.WithAttributeEscaping())
	}
	if len(c.URLSchemes) > 0 {
		reg := bbweaver.NewValidatorRegistry()
		for _, attr := range []string{"href", "src", "cite"} {
			reg.RegisterSchemes("*", attr, c.URLSchemes...)
		}
		opts = append(opts, bbweaver.WithValidators(reg))
	}
	return opts
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad(envFiles ...string) Config {
	cfg, err := Load(envFiles...)
	if err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
	return cfg
}
