package cmd

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/thep200/github-trending/internal/ingest"
	"github.com/thep200/github-trending/internal/model"
	"github.com/thep200/github-trending/pkg/kafka"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Store repository records published to Kafka.",
	RunE:  runConsume,
}

func init() {
	rootCmd.AddCommand(consumeCmd)
}

func runConsume(cmd *cobra.Command, _ []string) error {
	config, logger, err := setup(cmd, true)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	database, repoMd, err := openStore(config, logger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer database.Close()

	consumer, err := kafka.NewConsumer(config, logger, config.Kafka.Producer.TopicRepo, config.Kafka.Consumer.GroupID)
	if err != nil {
		return err
	}
	defer consumer.Close()

	ingester := ingest.NewIngester(logger, repoMd,
		config.Kafka.Consumer.BatchSize,
		time.Duration(config.Kafka.Consumer.BatchTimeoutSec)*time.Second)
	consumer.RegisterHandler(model.RepoMessageKey, ingester.Handle)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ingester.Run(ctx)
	}()

	logger.Info(ctx, "Repository consumer started")
	err = consumer.Start(ctx)
	stop()
	wg.Wait()
	logger.Info(ctx, "Repository consumer stopped")
	return err
}
