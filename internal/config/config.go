// Package config loads the YAML configuration used by `schemaform-cli serve`.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root of the serve configuration file.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Schema   SchemaConfig   `yaml:"schema"`
	Renderer RendererConfig `yaml:"renderer"`
	CSRF     CSRFConfig     `yaml:"csrf"`
	Theme    ThemeConfig    `yaml:"theme"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ReadTimeout     string `yaml:"read_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64  `yaml:"max_body_bytes"`
	SuccessRedirect string `yaml:"success_redirect"`
}

// SchemaConfig says where the served schema comes from.
type SchemaConfig struct {
	Source      string `yaml:"source"`
	Format      string `yaml:"format"`
	OperationID string `yaml:"operation_id"`
	Preset      string `yaml:"preset"`
	Watch       bool   `yaml:"watch"`
}

// RendererConfig selects the output renderer and page chrome.
type RendererConfig struct {
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Lang        string `yaml:"lang"`
	Intro       string `yaml:"intro"`
	SubmitLabel string `yaml:"submit_label"`
	Templates   string `yaml:"templates"`
}

// CSRFConfig enables the hidden token field. An empty Token disables it.
type CSRFConfig struct {
	Field string `yaml:"field"`
	Token string `yaml:"token"`
}

// ThemeConfig describes an inline theme applied to the page renderer.
type ThemeConfig struct {
	Name        string            `yaml:"name"`
	Variant     string            `yaml:"variant"`
	Tokens      map[string]string `yaml:"tokens"`
	AssetPrefix string            `yaml:"asset_prefix"`
	Assets      map[string]string `yaml:"assets"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Environment overrides applied after the file is read.
const (
	EnvAddr      = "SCHEMAFORM_ADDR"
	EnvCSRFToken = "SCHEMAFORM_CSRF_TOKEN"
	EnvLogLevel  = "SCHEMAFORM_LOG_LEVEL"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     "10s",
			ShutdownTimeout: "5s",
			MaxBodyBytes:    1 << 20,
		},
		Renderer: RendererConfig{
			Name:        "page",
			Title:       "Form",
			Lang:        "en",
			SubmitLabel: "Submit",
		},
		CSRF: CSRFConfig{
			Field: "_csrf",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// Relative schema, preset and template paths are resolved against the
// directory holding the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := DefaultConfig()
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// Decode parses YAML from r over the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Validate reports every problem found in the configuration.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if strings.TrimSpace(c.Schema.Source) == "" {
		errs = append(errs, errors.New("schema.source is required"))
	}
	switch strings.ToLower(c.Schema.Format) {
	case "", "json", "yaml", "openapi":
	default:
		errs = append(errs, fmt.Errorf("schema.format %q is not one of json, yaml, openapi", c.Schema.Format))
	}
	if c.Schema.Watch && isURL(c.Schema.Source) {
		errs = append(errs, errors.New("schema.watch needs a file source"))
	}
	switch c.Renderer.Name {
	case "html", "page":
	default:
		errs = append(errs, fmt.Errorf("renderer.name %q is not one of html, page", c.Renderer.Name))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("server.max_body_bytes must be positive"))
	}
	for key, value := range map[string]string{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	if c.CSRF.Token != "" && strings.TrimSpace(c.CSRF.Field) == "" {
		errs = append(errs, errors.New("csrf.field is required when csrf.token is set"))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q is not one of console, json", c.Logging.Format))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// ReadTimeout returns server.read_timeout, or 10s when unparsable.
func (c *Config) ReadTimeout() time.Duration {
	return parseDuration(c.Server.ReadTimeout, 10*time.Second)
}

// ShutdownTimeout returns server.shutdown_timeout, or 5s when unparsable.
func (c *Config) ShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 5*time.Second)
}

func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv(EnvAddr); addr != "" {
		c.Server.Addr = addr
	}
	if token := os.Getenv(EnvCSRFToken); token != "" {
		c.CSRF.Token = token
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}
}

func (c *Config) resolvePaths(dir string) {
	resolve := func(path string) string {
		if path == "" || isURL(path) || filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(dir, path)
	}
	c.Schema.Source = resolve(c.Schema.Source)
	c.Schema.Preset = resolve(c.Schema.Preset)
	c.Renderer.Templates = resolve(c.Renderer.Templates)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
