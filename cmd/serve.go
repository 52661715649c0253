package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/thep200/github-trending/internal/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored repositories over HTTP.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0, "Port to listen on (default ui.port)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	config, logger, err := setup(cmd, true)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	database, _, err := openStore(config, logger)
	if err != nil {
		return err
	}
	defer database.Close()

	port, _ := cmd.Flags().GetInt("port")
	server, err := ui.NewServer(logger, config, database, port)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(ctx, "Received shutdown signal, gracefully shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
