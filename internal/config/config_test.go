package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.True(t, cfg.Glossary.Watch)
	require.True(t, strings.HasSuffix(cfg.Glossary.Path, "acronyms.yaml"))
	require.Equal(t, time.Second, cfg.Watcher.Debounce)
	require.Equal(t, 100*time.Millisecond, cfg.Watcher.PollInterval)
	require.True(t, cfg.Cache.Enabled)
	require.Equal(t, "localhost:19998", cfg.Server.Addr)
	require.Equal(t, "ansi", cfg.Render.Style)
	require.NoError(t, Validate(cfg))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty glossary path", func(c *Config) { c.Glossary.Path = "  " }, "glossary.path is required"},
		{"zero debounce", func(c *Config) { c.Watcher.Debounce = 0 }, "watcher.debounce"},
		{"negative poll", func(c *Config) { c.Watcher.PollInterval = -time.Second }, "watcher.poll_interval"},
		{"negative atomic window", func(c *Config) { c.Watcher.AtomicWindow = -1 }, "watcher.atomic_window"},
		{"cache without ttl", func(c *Config) { c.Cache.TTL = 0 }, "cache.ttl"},
		{"bad style", func(c *Config) { c.Render.Style = "html" }, "render.style"},
		{"bad exporter", func(c *Config) { c.Tracing.Exporter = "jaeger" }, "tracing.exporter"},
		{"bad sample rate", func(c *Config) { c.Tracing.SampleRate = 1.5 }, "tracing.sample_rate"},
		{"otlp without endpoint", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "otlp"
			c.Tracing.OTLPEndpoint = ""
		}, "tracing.otlp_endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := Validate(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_DisabledCacheIgnoresTTL(t *testing.T) {
	cfg := Defaults()
	cfg.Cache.Enabled = false
	cfg.Cache.TTL = 0
	require.NoError(t, Validate(cfg))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	require.Equal(t, filepath.Join(home, "acronyms.yaml"), ExpandPath("~/acronyms.yaml"))
	require.Equal(t, home, ExpandPath("~"))
	require.Equal(t, "/abs/acronyms.yaml", ExpandPath("/abs/acronyms.yaml"))
	require.Equal(t, "~other/x", ExpandPath("~other/x"))
}

func TestDefaultConfigTemplate_RoundTripsThroughViper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	require.Equal(t, "~/acronyms.yaml", cfg.Glossary.Path)
	require.True(t, cfg.Glossary.Watch)
	require.Equal(t, time.Second, cfg.Watcher.Debounce)
	require.Equal(t, 100*time.Millisecond, cfg.Watcher.AtomicWindow)
	require.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	require.Equal(t, "localhost:19998", cfg.Server.Addr)
	require.Equal(t, "ansi", cfg.Render.Style)
}

func TestWriteDefaultConfig_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".acro", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}
