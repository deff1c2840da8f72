package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/internship-matcher/internal/queue"
	"github.com/jonathan/internship-matcher/internal/storage"
)

var enqueueCmd = &cobra.Command{
	Use:   "enqueue",
	Short: "Queue a match request for a stored resume",
	Long:  "Publish a match request for a resume object key to the worker queue and print the request ID.",
	RunE:  runEnqueue,
}

var (
	enqueueKey      string
	enqueueJobs     string
	enqueueResumeID string
	enqueueAnalyze  bool
)

func init() {
	enqueueCmd.Flags().StringVarP(&enqueueKey, "key", "k", "", "Object key of the resume in storage (required)")
	enqueueCmd.Flags().StringVarP(&enqueueJobs, "jobs", "j", "", "Path to a JSON array of job listings (required)")
	enqueueCmd.Flags().StringVar(&enqueueResumeID, "resume-id", "", "Resume ID recorded on matches")
	enqueueCmd.Flags().BoolVar(&enqueueAnalyze, "analyze", false, "Run skills-gap analysis on the best matches")
	_ = enqueueCmd.MarkFlagRequired("key")
	_ = enqueueCmd.MarkFlagRequired("jobs")

	rootCmd.AddCommand(enqueueCmd)
}

func runEnqueue(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Queue.URL == "" {
		return fmt.Errorf("queue URL is required (set RABBITMQ_URL or queue.url)")
	}
	jobs, err := readJobs(enqueueJobs)
	if err != nil {
		return err
	}

	req := &queue.MatchRequest{
		ID:        uuid.NewString(),
		ResumeID:  enqueueResumeID,
		ObjectKey: enqueueKey,
		MediaType: storage.MediaTypeFromKey(enqueueKey),
		Jobs:      jobs,
		Analyze:   enqueueAnalyze,
	}
	if err := queue.Enqueue(cfg.Queue.URL, cfg.Queue.Name, req); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Queued match request %s\n", req.ID)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updates: %s on exchange %s\n", queue.RoutingKey(req.ID), cfg.Queue.Exchange)
	return nil
}
