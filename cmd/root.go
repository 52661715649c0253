// Package cmd holds the github-trending command line, built with cobra.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/internal/model"
	"github.com/thep200/github-trending/pkg/db"
	"github.com/thep200/github-trending/pkg/log"
)

var rootCmd = &cobra.Command{
	Use:   "github-trending",
	Short: "Collect, clean and store trending GitHub repositories.",
	Long: `github-trending pulls trending repositories from GitHub (search API or
the trending page), normalizes every record into a fixed shape and hands the
result to a CSV file, a relational store and Kafka.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML config file (default cfg/yaml/mode.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}

// setup loads the config and builds the logger for a subcommand. With watch
// set, edits to the config file are picked up while the command runs.
func setup(cmd *cobra.Command, watch bool) (*cfg.Config, log.Logger, error) {
	configFile, _ := cmd.Flags().GetString("config")

	loader, err := cfg.NewViperLoader(configFile, watch)
	if err != nil {
		return nil, nil, err
	}
	return configure(cmd, loader)
}

// configure loads through loader. When loader is a cfg.Watcher, every reload
// re-applies log.level unless --verbose pinned it to debug.
func configure(cmd *cobra.Command, loader cfg.Loader) (*cfg.Config, log.Logger, error) {
	config, err := loader.Load()
	if err != nil {
		return nil, nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		config.Log.Level = "debug"
	}

	base, _ := log.NewCslLogger()
	csl := base.WithOutput(cmd.ErrOrStderr()).WithLevel(config.Log.Level)

	if watcher, ok := loader.(cfg.Watcher); ok && !verbose {
		watcher.RegisterConfigChangeCallback(func(next *cfg.Config) {
			if log.ParseLevel(next.Log.Level) == csl.Level() {
				return
			}
			csl.SetLevel(next.Log.Level)
			csl.Notice(context.Background(), "Log level changed to %s", next.Log.Level)
		})
	}

	logger, _ := log.NewLogger(csl)
	return config, logger, nil
}

// openStore connects to the configured database and migrates the schema.
func openStore(config *cfg.Config, logger log.Logger) (*db.Database, *model.Repo, error) {
	database, err := db.NewDatabase(config)
	if err != nil {
		return nil, nil, err
	}
	repoMd, _ := model.NewRepo(config, logger, database)
	if err := database.Migrate(repoMd); err != nil {
		database.Close()
		return nil, nil, err
	}
	return database, repoMd, nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
