// Package cli provides the jobradar command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"jobradar/internal/config"
	"jobradar/internal/orchestrator"
	"jobradar/internal/pipeline"
	"jobradar/internal/publisher"
	"jobradar/internal/storage/postgres"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	configPath string

	cfg    *config.Config
	logger *slog.Logger
	db     *sqlx.DB
	events *publisher.RabbitMQ
)

var rootCmd = &cobra.Command{
	Use:   "jobradar",
	Short: "Job posting discovery and deduplication",
	Long: `Jobradar scrapes job postings from multiple source sites, cleans and
normalizes them, and reconciles duplicates into canonical job records.

Scraped postings land in Postgres as raw rows; the processing pipeline
turns them into canonical jobs and publishes created/matched events to
RabbitMQ.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger = setupLogger(cfg.LogLevel)

		db, err = sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		if err := db.Ping(); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}
		logger.Info("connected to database", "host", cfg.Database.Host, "dbname", cfg.Database.DBName)

		// Events are best-effort: a broker outage degrades to log-only.
		events, err = publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Warn("rabbitmq unavailable, job events disabled", "error", err)
			events = nil
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if events != nil {
			if err := events.Close(); err != nil {
				logger.Warn("failed to close rabbitmq connection", "error", err)
			}
		}
		if db != nil {
			db.Close()
		}
	},
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

func newProcessor() *pipeline.Processor {
	txManager := postgres.NewTransactionManager(db)
	matcher := pipeline.NewMatcher(cfg.Pipeline.SimilarityThreshold)

	var pub pipeline.Publisher
	if events != nil {
		pub = events
	}

	return pipeline.NewProcessor(
		postgres.NewRawPostingStore(db),
		postgres.NewCanonicalJobStore(db),
		postgres.NewJobMappingStore(db),
		txManager,
		pub,
		matcher,
		logger,
	)
}

func newOrchestrator(orchCfg config.OrchestrationConfig) *orchestrator.Orchestrator {
	return orchestrator.New(
		newScraperFactory(),
		newProcessor(),
		postgres.NewScrapingSessionStore(db),
		postgres.NewRawPostingStore(db),
		orchestrationConfig(orchCfg),
		logger,
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")

	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(serveCmd)
}
