package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/internship-matcher/internal/db"
	"github.com/jonathan/internship-matcher/internal/queue"
	"github.com/jonathan/internship-matcher/internal/storage"
)

var workerCount int

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume match requests from RabbitMQ",
	Long: `Start a pool of workers that consume match requests from RabbitMQ, fetch the
resume from R2, S3 or a local directory, run the pipeline and publish status
updates to the topic exchange.`,
	RunE: runWorker,
}

func init() {
	workerCmd.Flags().IntVar(&workerCount, "workers", 0, "Number of concurrent workers (default queue.workers)")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	ctx, stop := withSignals(cmd.Context())
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Queue.URL == "" {
		return fmt.Errorf("queue URL is required (set RABBITMQ_URL or queue.url)")
	}
	if workerCount > 0 {
		cfg.Queue.Workers = workerCount
	}

	source, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return err
	}

	runner, client, err := newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		runner.Store = database
	}

	consumer := &queue.Consumer{
		URL:      cfg.Queue.URL,
		Queue:    cfg.Queue.Name,
		Exchange: cfg.Queue.Exchange,
		Workers:  cfg.Queue.Workers,
		Handler: &queue.Handler{
			Source:   source,
			Runner:   runner,
			TopK:     cfg.Analysis.TopK,
			MinScore: cfg.Scoring.MinMatchScore,
		},
	}
	return consumer.Run(ctx)
}
