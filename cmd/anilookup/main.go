// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the anilookup CLI: AniList lookups,
// title searches and recommendations, paged in the terminal or served to
// websocket conversations.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/anilookup/internal/logging"
	"github.com/pdiddy/anilookup/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// appConfig is loaded before any subcommand runs.
var appConfig types.Config

// rootCmd is the base command for the anilookup CLI.
var rootCmd = &cobra.Command{
	Use:   "anilookup",
	Short: "Look up anime and manga on AniList and find recommendations",
	Long: `anilookup queries the AniList GraphQL API. It looks up media by id,
searches by title, and expands search results or ids into the media AniList
users recommend alongside them.

Results are shown one card at a time in a terminal pager, or printed in full
with --all. The serve subcommand offers the same commands to websocket
clients, one conversation per connection.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		appConfig = cfg
		logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
		if f := viper.ConfigFileUsed(); f != "" {
			logging.Debug().Str("file", f).Msg("using config file")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./anilookup.yaml or ~/.config/anilookup/anilookup.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error, off")
	rootCmd.PersistentFlags().String("media-type", "", "media type to look up: ANIME or MANGA")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("anilist.media_type", rootCmd.PersistentFlags().Lookup("media-type"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("anilookup")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "anilookup"))
		}
	}

	viper.SetEnvPrefix("ANILOOKUP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(types.DefaultConfig())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
		}
	}
}

// setDefaults registers every key so environment overrides apply even when
// no config file sets them.
func setDefaults(d types.Config) {
	viper.SetDefault("anilist.endpoint", d.AniList.Endpoint)
	viper.SetDefault("anilist.timeout", d.AniList.Timeout)
	viper.SetDefault("anilist.user_agent", d.AniList.UserAgent)
	viper.SetDefault("anilist.media_type", string(d.AniList.MediaType))
	viper.SetDefault("anilist.rate_per_minute", d.AniList.RatePerMinute)
	viper.SetDefault("anilist.burst", d.AniList.Burst)
	viper.SetDefault("anilist.max_retries", d.AniList.MaxRetries)
	viper.SetDefault("recommend.concurrency", d.Recommend.Concurrency)
	viper.SetDefault("paginate.idle_timeout", d.Paginate.IdleTimeout)
	viper.SetDefault("render.issue_tracker_url", d.Render.IssueTrackerURL)
	viper.SetDefault("server.addr", d.Server.Addr)
	viper.SetDefault("log.level", d.Log.Level)
	// log.format has no default: an unset format means console for the CLI
	// and json for serve.
	_ = viper.BindEnv("log.format")
}

func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	cfg.AniList.MediaType = types.MediaKind(strings.ToUpper(string(cfg.AniList.MediaType)))
	if !cfg.AniList.MediaType.Valid() {
		return types.Config{}, fmt.Errorf("anilist.media_type must be ANIME or MANGA, got %q", cfg.AniList.MediaType)
	}
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
