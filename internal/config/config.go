// Package config provides configuration types and defaults for acro.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjrosen/acro/internal/log"
)

// Config holds all configuration options for acro.
type Config struct {
	Glossary GlossaryConfig `mapstructure:"glossary"`
	Watcher  WatcherConfig  `mapstructure:"watcher"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Server   ServerConfig   `mapstructure:"server"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Render   RenderConfig   `mapstructure:"render"`
}

// GlossaryConfig points at the acronym database.
type GlossaryConfig struct {
	Path  string `mapstructure:"path"`  // YAML file with an "acronyms" root key
	Watch bool   `mapstructure:"watch"` // reload when the file changes
}

// WatcherConfig tunes change detection.
type WatcherConfig struct {
	Debounce     time.Duration `mapstructure:"debounce"`      // quiet period after the last write
	PollInterval time.Duration `mapstructure:"poll_interval"` // size re-check interval while a write is in flight
	AtomicWindow time.Duration `mapstructure:"atomic_window"` // remove+create within this window is a save
}

// CacheConfig controls the resolution memo.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// ServerConfig holds the HTTP query boundary settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	// Enabled controls whether spans are recorded at all.
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for the "file" exporter.
	// Default: ~/.config/acro/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for the "otlp" exporter.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`
}

// RenderConfig controls how resolved acronyms are written out.
type RenderConfig struct {
	Style string `mapstructure:"style"` // "ansi" (default) or "plain"
}

// DefaultGlossaryPath returns ~/acronyms.yaml, or acronyms.yaml when the
// home directory is unknown.
func DefaultGlossaryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "acronyms.yaml"
	}
	return filepath.Join(home, "acronyms.yaml")
}

// DefaultTracesFilePath returns ~/.config/acro/traces/traces.jsonl or empty
// string if the home directory is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "acro", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Glossary: GlossaryConfig{
			Path:  DefaultGlossaryPath(),
			Watch: true,
		},
		Watcher: WatcherConfig{
			Debounce:     1 * time.Second,
			PollInterval: 100 * time.Millisecond,
			AtomicWindow: 100 * time.Millisecond,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
		Server: ServerConfig{
			Addr: "localhost:19998",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Render: RenderConfig{
			Style: "ansi",
		},
	}
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// GlossaryPath returns the configured glossary path with "~" expanded.
func (c Config) GlossaryPath() string {
	return ExpandPath(c.Glossary.Path)
}

// Validate checks the configuration for errors.
func Validate(c Config) error {
	if strings.TrimSpace(c.Glossary.Path) == "" {
		return fmt.Errorf("glossary.path is required")
	}
	if err := ValidateWatcher(c.Watcher); err != nil {
		return err
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when the cache is enabled, got %s", c.Cache.TTL)
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		return err
	}
	switch c.Render.Style {
	case "", "ansi", "plain":
	default:
		return fmt.Errorf("render.style must be \"ansi\" or \"plain\", got %q", c.Render.Style)
	}
	return nil
}

// ValidateWatcher checks the watcher timings.
func ValidateWatcher(w WatcherConfig) error {
	if w.Debounce <= 0 {
		return fmt.Errorf("watcher.debounce must be positive, got %s", w.Debounce)
	}
	if w.PollInterval < 0 {
		return fmt.Errorf("watcher.poll_interval must not be negative, got %s", w.PollInterval)
	}
	if w.AtomicWindow < 0 {
		return fmt.Errorf("watcher.atomic_window must not be negative, got %s", w.AtomicWindow)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Path requirements only matter once tracing is on.
	if tracing.Enabled && tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# acro configuration

# The acronym database
glossary:
  path: ~/acronyms.yaml   # YAML file whose root key is "acronyms"
  watch: true             # reload automatically when the file changes

# Change detection for the glossary file
watcher:
  debounce: 1s            # quiet period after the last write before reloading
  poll_interval: 100ms    # re-check interval while the file size is still changing
  atomic_window: 100ms    # a remove followed by a create within this window is a save

# Memo for resolved acronyms (flushed on every reload)
cache:
  enabled: true
  ttl: 10m

# Query API served by 'acro serve'
server:
  addr: localhost:19998

# Rendering of resolved acronyms: "ansi" (underlined, unknown in red) or "plain"
render:
  style: ansi

# Distributed tracing
# tracing:
#   enabled: false                 # default: false
#   exporter: file                 # none, file, stdout, otlp (default: file)
#   file_path: ~/.config/acro/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0

# Glossary file format:
#
# acronyms:
#   options:
#     capitalize: true
#   endings:
#     pl: { long: s, short: s }
#   plos:
#     long: Public Library of Science
#     short: PLOS
#     long-pl: " journals"      # appended instead of the pl ending
#     short-pl-form: PLOSes     # replaces the short form outright
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
