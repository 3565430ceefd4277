// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-graph CLI and server.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-graph/internal/secrets"
	"github.com/pdiddy/paper-graph/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultUserAgent = "paper-graph/0.1"

var (
	// appConfig is the effective configuration, resolved before each command.
	appConfig types.AppConfig

	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets secrets.Set

	logger zerolog.Logger
)

// rootCmd is the base command for the paper-graph CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-graph",
	Short: "Conversational arXiv citation and concept graph",
	Long: `paper-graph keeps a local collection of arXiv papers and the connections
between them. Papers are linked when one cites the other or when they share
key concepts.

Talk to it with "chat", run the HTTP API with "serve", or manage the
collection directly with the paper, edge, graph and history subcommands.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		appConfig = cfg
		logger = newLogger(cfg.LogLevel)

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if names := s.Names(); len(names) > 0 {
			logger.Debug().Strs("keys", names).Msg("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-graph.yaml or ~/.config/paper-graph/paper-graph.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding the database, PDF cache and exports (default data)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default info)")

	viper.BindPFlag("store.data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("log_level", "info")

	viper.SetDefault("store.data_dir", "data")

	viper.SetDefault("server.addr", ":8000")
	viper.SetDefault("server.allowed_origins", "*")

	viper.SetDefault("index.timeout", 30*time.Second)
	viper.SetDefault("index.user_agent", defaultUserAgent)
	viper.SetDefault("index.request_interval", 3*time.Second)
	viper.SetDefault("index.max_retries", 3)
	viper.SetDefault("index.retry_step", 5*time.Second)

	viper.SetDefault("ai.timeout", 120*time.Second)
	viper.SetDefault("ai.user_agent", defaultUserAgent)
	viper.SetDefault("ai.model", "")
	viper.SetDefault("ai.api_key", "")
	viper.SetDefault("ai.max_retries", 5)

	viper.SetDefault("web.timeout", 60*time.Second)
	viper.SetDefault("web.user_agent", defaultUserAgent)
	viper.SetDefault("web.api_key", "")
	viper.SetDefault("web.max_retries", 5)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-graph")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-graph"))
		}
	}

	viper.SetEnvPrefix("PAPER_GRAPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the viper state into an AppConfig.
func loadConfig() (types.AppConfig, error) {
	var cfg types.AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.AppConfig{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// newLogger returns a console logger on stderr at the named level. Unknown
// levels fall back to info.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().Timestamp().Logger()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
