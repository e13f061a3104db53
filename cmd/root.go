package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/acro/internal/config"
	"github.com/zjrosen/acro/internal/glossary"
	"github.com/zjrosen/acro/internal/log"
	"github.com/zjrosen/acro/internal/provider"
	"github.com/zjrosen/acro/internal/query"
	"github.com/zjrosen/acro/internal/tracing"
	"github.com/zjrosen/acro/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const localConfigPath = ".acro/config.yaml"

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "acro",
	Short: "Acronym glossary with live reload",
	Long: `acro keeps a YAML glossary of acronyms loaded, reloads it when the file
changes, and resolves references such as [+plos]{.short.pl} or +NATO in
documents. It can serve the glossary over HTTP, complete references as
you type, and render documents in a live preview.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .acro/config.yaml, then ~/.config/acro/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug logs (path from ACRO_LOG, default debug.log)")
	rootCmd.PersistentFlags().StringP("glossary", "g", "",
		"path to the acronyms YAML file")

	_ = viper.BindPFlag("glossary.path", rootCmd.PersistentFlags().Lookup("glossary"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("glossary.path", defaults.Glossary.Path)
	viper.SetDefault("glossary.watch", defaults.Glossary.Watch)
	viper.SetDefault("watcher.debounce", defaults.Watcher.Debounce)
	viper.SetDefault("watcher.poll_interval", defaults.Watcher.PollInterval)
	viper.SetDefault("watcher.atomic_window", defaults.Watcher.AtomicWindow)
	viper.SetDefault("cache.enabled", defaults.Cache.Enabled)
	viper.SetDefault("cache.ttl", defaults.Cache.TTL)
	viper.SetDefault("server.addr", defaults.Server.Addr)
	viper.SetDefault("render.style", defaults.Render.Style)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	viper.SetEnvPrefix("ACRO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .acro/config.yaml (current directory)
		// 2. ~/.config/acro/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "acro"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if path := userConfigPath(); path != "" {
				if writeErr := config.WriteDefaultConfig(path); writeErr == nil {
					viper.SetConfigFile(path)
					_ = viper.ReadInConfig()
				}
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// userConfigPath is where a default config is created on first run.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "acro", "config.yaml")
}

// configFilePath is the file that "acro use" edits.
func configFilePath() string {
	if p := viper.ConfigFileUsed(); p != "" {
		return p
	}
	if p := userConfigPath(); p != "" {
		return p
	}
	return localConfigPath
}

// initLogging enables file logging when --debug or ACRO_DEBUG is set.
// Interactive commands route Bubble Tea's logger to the same file.
func initLogging(prefix string, tui bool) (func(), error) {
	if os.Getenv("ACRO_DEBUG") == "" && !debugFlag {
		log.SetEnabled(false)
		return func() {}, nil
	}
	logPath := os.Getenv("ACRO_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}
	var (
		cleanup func()
		err     error
	)
	if tui {
		cleanup, err = log.InitWithTeaLog(logPath, prefix)
	} else {
		cleanup, err = log.Init(logPath)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	if lvl := os.Getenv("ACRO_LOG_LEVEL"); lvl != "" {
		log.SetMinLevel(log.ParseLevel(lvl))
	}
	log.Info(log.CatConfig, "acro starting", "command", prefix, "debug", true, "logPath", logPath)
	return cleanup, nil
}

func tracingConfig(c config.TracingConfig) tracing.Config {
	tc := tracing.DefaultConfig()
	tc.Enabled = c.Enabled
	if c.Exporter != "" {
		tc.Exporter = c.Exporter
	}
	tc.FilePath = config.ExpandPath(c.FilePath)
	if tc.FilePath == "" {
		tc.FilePath = config.DefaultTracesFilePath()
	}
	if c.OTLPEndpoint != "" {
		tc.OTLPEndpoint = c.OTLPEndpoint
	}
	tc.SampleRate = c.SampleRate
	return tc
}

// bootProvider loads the configured glossary into a fresh store. When watch
// is set the provider keeps reloading it until Shutdown.
func bootProvider(ctx context.Context, watch bool, opts ...glossary.StoreOption) (*provider.Provider, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	path := cfg.GlossaryPath()
	p, err := provider.New(glossary.NewStore(opts...), provider.Config{
		Path:  path,
		Watch: watch,
		Watcher: watcher.Config{
			Debounce:     cfg.Watcher.Debounce,
			PollInterval: cfg.Watcher.PollInterval,
			AtomicWindow: cfg.Watcher.AtomicWindow,
		},
	})
	if err != nil {
		return nil, err
	}
	if err := p.Boot(ctx); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return p, nil
}

// openQuerier returns the glossary to answer queries from: the local file,
// or a running "acro serve" when remote is set.
func openQuerier(ctx context.Context, remote string) (query.Querier, func(), error) {
	if remote != "" {
		return query.NewClient(remote), func() {}, nil
	}
	p, err := bootProvider(ctx, false)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = p.Shutdown(context.Background()) }
	return query.NewInMemoryCached(p.Store(), cfg.Cache.TTL, cfg.Cache.Enabled), cleanup, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
