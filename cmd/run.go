package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/internal/crawler"
	"github.com/thep200/github-trending/pkg/db"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Crawl trending repositories once or on a schedule.",
	Long: `run fetches repositories from the chosen source, normalizes them and
writes the result to every enabled sink. With --every it keeps crawling on
that interval until interrupted.`,
	Example: `  github-trending run --source trending
  github-trending run --source search --every 6h --kafka`,
	RunE: runCrawl,
}

func init() {
	rootCmd.AddCommand(runCmd)
	registerRunFlags(runCmd)
}

func registerRunFlags(c *cobra.Command) {
	c.Flags().String("source", crawler.SourceTrending, "Where to crawl from: search or trending")
	c.Flags().Duration("every", 0, "Crawl again on this interval (overrides schedule.interval)")
	c.Flags().Bool("no-csv", false, "Skip the CSV export")
	c.Flags().Bool("no-upload", false, "Skip writing to the database")
	c.Flags().Bool("kafka", false, "Publish cleaned records to Kafka")
	c.Flags().Bool("mine-assets", false, "Extract links and images from descriptions")
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	// Only an explicit one-shot run skips watching the config file.
	every, _ := cmd.Flags().GetDuration("every")
	watch := !cmd.Flags().Changed("every") || every > 0

	config, logger, err := setup(cmd, watch)
	if err != nil {
		return err
	}

	every, err = applyRunFlags(cmd, config)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	var database *db.Database
	if config.Upload.Enabled {
		database, _, err = openStore(config, logger)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer database.Close()
	}

	source, _ := cmd.Flags().GetString("source")
	pipeline, err := crawler.FactoryCrawler(source, logger, config, database)
	if err != nil {
		return err
	}
	defer func() {
		if err := pipeline.Close(); err != nil {
			logger.Error(ctx, "Failed to close sinks: %v", err)
		}
	}()

	logger.Info(ctx, "Starting github trending crawler (source=%s)", source)
	return crawler.Schedule(ctx, logger, pipeline, every)
}

// applyRunFlags folds the command line switches into config and returns the
// crawl interval.
func applyRunFlags(cmd *cobra.Command, config *cfg.Config) (time.Duration, error) {
	flags := cmd.Flags()

	if noCSV, _ := flags.GetBool("no-csv"); noCSV {
		config.Export.Enabled = false
	}
	if noUpload, _ := flags.GetBool("no-upload"); noUpload {
		config.Upload.Enabled = false
	}
	if useKafka, _ := flags.GetBool("kafka"); useKafka {
		config.Kafka.Enabled = true
	}
	if mine, _ := flags.GetBool("mine-assets"); mine {
		config.Cleaner.MineAssets = true
	}

	if flags.Changed("every") {
		return flags.GetDuration("every")
	}
	if config.Schedule.Interval == "" {
		return 0, nil
	}
	every, err := time.ParseDuration(config.Schedule.Interval)
	if err != nil {
		return 0, fmt.Errorf("invalid schedule interval %q: %w", config.Schedule.Interval, err)
	}
	return every, nil
}
