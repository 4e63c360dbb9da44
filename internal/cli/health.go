package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"jobradar/internal/domain"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Report scraping health over the last 24 hours",
	Long: `Aggregate the last 24 hours of scraping sessions per site and show the
processing backlog.

Per site: session count, success rate, the most recent successful session
and total postings scraped. Backlog: pending and failed raw postings.`,
	RunE: runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	report, err := newOrchestrator(cfg.Orchestration).Health(cmd.Context())
	if err != nil {
		return fmt.Errorf("collect health report: %w", err)
	}

	fmt.Printf("Health at %s\n\n", report.Timestamp.Format(time.RFC3339))
	fmt.Printf("  Pending processing: %d\n", report.PendingProcessing)
	fmt.Printf("  Failed processing:  %d\n", report.FailedProcessing)

	fmt.Println("\n  Sites (last 24h):")
	for _, site := range domain.AllSites {
		health, ok := report.Sites[site]
		if !ok {
			fmt.Printf("    %-10s no sessions\n", site)
			continue
		}
		last := "never"
		if health.LastSuccessful != nil {
			last = health.LastSuccessful.StartedAt.Format(time.RFC3339)
		}
		fmt.Printf("    %-10s sessions=%d success=%.1f%% scraped=%d last_successful=%s\n",
			site, health.Sessions, health.SuccessRate, health.TotalScraped, last)
	}

	return nil
}
