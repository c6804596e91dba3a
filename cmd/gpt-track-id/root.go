package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/spencermiles/gpt-track-id/internal/config"
	"github.com/spencermiles/gpt-track-id/internal/library"
	"github.com/spencermiles/gpt-track-id/internal/logging"
	"github.com/spencermiles/gpt-track-id/internal/pipeline"
)

func newRootCommand() *cobra.Command {
	var (
		configPath string
		apiKey     string
		model      string
		sinceFlag  string
		workers    int
		dryRun     bool
		fuzzyMatch bool
		logLevel   string
		logFormat  string
	)

	cmd := &cobra.Command{
		Use:   "gpt-track-id [flags] FILES...",
		Short: "AI-powered music metadata tagging",
		Long: `gpt-track-id reads artist/album/title tags from local audio files, asks a
language model to classify each track's genres, region, and era, and merges
the results into each file's genre field.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("api-key") {
				cfg.APIKey = apiKey
			}
			if flags.Changed("model") {
				cfg.Model = model
			}
			if flags.Changed("workers") {
				cfg.Workers = workers
			}
			if flags.Changed("fuzzy-match") {
				cfg.FuzzyMatch = fuzzyMatch
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("log-format") {
				cfg.LogFormat = logFormat
			}
			cfg.ApplyEnv()
			if err := cfg.Validate(); err != nil {
				return err
			}

			var since time.Time
			if sinceFlag != "" {
				since, err = library.ParseSince(sinceFlag, time.Now())
				if err != nil {
					return err
				}
			}

			logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
			if err != nil {
				return err
			}

			p := pipeline.New(cfg, logger)
			_, err = p.Run(cmd.Context(), pipeline.RunOptions{
				Roots:  args,
				Since:  since,
				DryRun: dryRun,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path (TOML)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "OpenAI API key (or set OPENAI_API_KEY)")
	cmd.Flags().StringVar(&model, "model", config.Default().Model, "Model used for classification")
	cmd.Flags().StringVar(&sinceFlag, "since", "", "Only process files created since this date/time (YYYY-MM-DD, 7d, or 24h)")
	cmd.Flags().IntVar(&workers, "workers", config.Default().Workers, "Number of parallel workers for processing batches")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without making changes")
	cmd.Flags().BoolVar(&fuzzyMatch, "fuzzy-match", false, "Reconcile model output using normalized and similarity-based key matching")
	cmd.Flags().StringVar(&logLevel, "log-level", config.Default().LogLevel, "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&logFormat, "log-format", config.Default().LogFormat, "Log format (console or json)")

	return cmd
}
