package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"jobradar/internal/config"
	"jobradar/internal/domain"
)

var (
	scrapeMode        string
	scrapeTerms       []string
	scrapeSites       []string
	scrapeLocation    string
	scrapeMaxPostings int
	scrapeConcurrent  int
	scrapeDelay       time.Duration
	scrapeRetries     int
	scrapeImmediate   bool
	scrapeDryRun      bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Run a batch of scraping tasks",
	Long: `Scrape job postings for the configured search terms across source sites.

A task is one (site, search term) pair; tasks fan out over a bounded worker
pool and the processing pipeline drains the collected postings when the
batch finishes.

Modes preset the pacing knobs:
  daily         config defaults, pipeline after the batch
  urgent        more workers, shorter delays, pipeline after every task
  conservative  single worker, doubled delays
  custom        config defaults, tune via flags

Explicit flags override the mode preset in every mode.

Examples:
  jobradar scrape
  jobradar scrape --search-terms "golang developer" --sites linkedin
  jobradar scrape --mode urgent --location "New York"
  jobradar scrape --mode conservative --max-postings 50
  jobradar scrape --dry-run`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeMode, "mode", "m", "daily", "scraping mode: daily, urgent, conservative, custom")
	scrapeCmd.Flags().StringSliceVarP(&scrapeTerms, "search-terms", "t", nil, "search terms (default from config)")
	scrapeCmd.Flags().StringSliceVarP(&scrapeSites, "sites", "s", nil, "source sites (default from config)")
	scrapeCmd.Flags().StringVarP(&scrapeLocation, "location", "l", "", "location filter for all tasks")
	scrapeCmd.Flags().IntVarP(&scrapeMaxPostings, "max-postings", "n", 0, "max postings per task (default from config)")
	scrapeCmd.Flags().IntVar(&scrapeConcurrent, "max-concurrent", 0, "max concurrent tasks")
	scrapeCmd.Flags().DurationVar(&scrapeDelay, "delay", 0, "delay between tasks per worker")
	scrapeCmd.Flags().IntVar(&scrapeRetries, "max-retries", -1, "retries per task after the first attempt")
	scrapeCmd.Flags().BoolVar(&scrapeImmediate, "process-immediately", false, "run the pipeline after every task instead of once per batch")
	scrapeCmd.Flags().BoolVar(&scrapeDryRun, "dry-run", false, "print the task plan without scraping")
}

func runScrape(cmd *cobra.Command, args []string) error {
	orchCfg, err := modeConfig(scrapeMode)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("max-concurrent") {
		orchCfg.MaxConcurrentTasks = scrapeConcurrent
	}
	if cmd.Flags().Changed("delay") {
		orchCfg.DelayBetweenTasks = scrapeDelay
	}
	if cmd.Flags().Changed("max-retries") {
		orchCfg.MaxRetries = scrapeRetries
	}
	if cmd.Flags().Changed("process-immediately") {
		orchCfg.ProcessImmediately = scrapeImmediate
	}

	terms := scrapeTerms
	if len(terms) == 0 {
		terms = cfg.Schedule.SearchTerms
	}
	sites := scrapeSites
	if len(sites) == 0 {
		sites = cfg.Schedule.Sites
	}
	maxPostings := scrapeMaxPostings
	if maxPostings == 0 {
		maxPostings = cfg.Schedule.MaxPostings
	}

	tasks, err := buildTasks(terms, sites, scrapeLocation, maxPostings)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return fmt.Errorf("no tasks to run: need at least one search term and one site")
	}

	orch := newOrchestrator(orchCfg)

	if scrapeDryRun {
		fmt.Printf("Planned tasks (%d), estimated duration %s:\n\n", len(tasks), orch.EstimateDuration(tasks))
		for _, task := range orch.PlanTasks(tasks) {
			fmt.Printf("  %-10s %q", task.Site, task.SearchTerm)
			if task.Location != "" {
				fmt.Printf(" in %q", task.Location)
			}
			fmt.Printf("  (max %d postings)\n", task.MaxPostings)
		}
		return nil
	}

	result, err := orch.Run(cmd.Context(), tasks)
	if err != nil {
		return fmt.Errorf("orchestration run: %w", err)
	}

	printRunResult(result)
	return nil
}

// modeConfig maps a scraping mode onto orchestration tunables. Every mode
// starts from the config file; urgent and conservative shift the pacing.
func modeConfig(mode string) (config.OrchestrationConfig, error) {
	orchCfg := cfg.Orchestration
	switch mode {
	case "daily", "custom":
	case "urgent":
		orchCfg.MaxConcurrentTasks = orchCfg.MaxConcurrentTasks * 2
		orchCfg.DelayBetweenTasks = orchCfg.DelayBetweenTasks / 2
		orchCfg.RetryDelay = orchCfg.RetryDelay / 2
		orchCfg.ProcessImmediately = true
	case "conservative":
		orchCfg.MaxConcurrentTasks = 1
		orchCfg.DelayBetweenTasks = orchCfg.DelayBetweenTasks * 2
		orchCfg.RetryDelay = orchCfg.RetryDelay * 2
	default:
		return orchCfg, fmt.Errorf("unknown mode: %q (want daily, urgent, conservative or custom)", mode)
	}
	return orchCfg, nil
}

func printRunResult(result *domain.RunResult) {
	fmt.Printf("Run %s finished in %s\n\n", result.RunID, result.Duration.Round(time.Second))
	fmt.Printf("  Tasks completed: %d\n", result.TasksCompleted)
	fmt.Printf("  Tasks failed:    %d\n", result.TasksFailed)
	fmt.Printf("  New postings:    %d\n", result.TotalNew)
	fmt.Printf("  Already known:   %d\n", result.TotalExisting)

	if len(result.SiteStats) > 0 {
		fmt.Println("\n  Per site:")
		for _, site := range domain.AllSites {
			stats, ok := result.SiteStats[site]
			if !ok {
				continue
			}
			fmt.Printf("    %-10s searches=%d new=%d existing=%d failures=%d\n",
				site, stats.Searches, stats.NewPostings, stats.Existing, stats.Failures)
		}
	}

	if result.ProcessingStats != nil {
		printPipelineStats(result.ProcessingStats)
	}

	if len(result.Errors) > 0 {
		fmt.Println("\n  Task errors:")
		for _, taskErr := range result.Errors {
			fmt.Printf("    %-10s %q: %s\n", taskErr.Site, taskErr.SearchTerm, taskErr.Message)
		}
	}
}

func printPipelineStats(stats *domain.PipelineStats) {
	fmt.Println("\n  Pipeline:")
	fmt.Printf("    Processed:      %d\n", stats.Processed)
	fmt.Printf("    Failed:         %d\n", stats.Failed)
	fmt.Printf("    Duplicates:     %d\n", stats.DuplicatesFound)
	fmt.Printf("    New canonical:  %d\n", stats.NewCanonicalJobs)
}
