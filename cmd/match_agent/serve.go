package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/internship-matcher/internal/db"
	"github.com/jonathan/internship-matcher/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the matching pipeline over REST. When
DATABASE_URL is set, matches are persisted and the match endpoints are enabled.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := withSignals(cmd.Context())
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	runner, client, err := newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	var store server.MatchStore
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		runner.Store = database
		store = database
	} else {
		log.Println("DATABASE_URL not set; matches will not be persisted")
	}

	srv := server.New(server.Config{
		Port:          cfg.Server.Port,
		RateLimit:     cfg.RateLimitOptions(),
		MinMatchScore: cfg.Scoring.MinMatchScore,
		TopK:          cfg.Analysis.TopK,
	}, runner, store)

	return srv.Start(ctx)
}

// withSignals cancels the command context on interrupt or SIGTERM.
func withSignals(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
