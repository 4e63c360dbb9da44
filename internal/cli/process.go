package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"jobradar/internal/domain"
)

var processReprocessFailed bool

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the processing pipeline over pending postings",
	Long: `Drain pending raw postings through the cleaning, normalization and
duplicate-detection pipeline.

Each posting either matches an existing canonical job (recording a mapping
and refreshing last-seen) or becomes a new canonical job. Postings that
fail cleaning are marked failed with the reason; --reprocess-failed resets
them to pending first.

Examples:
  jobradar process
  jobradar process --reprocess-failed`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().BoolVar(&processReprocessFailed, "reprocess-failed", false, "reset failed postings to pending before draining")
}

func runProcess(cmd *cobra.Command, args []string) error {
	proc := newProcessor()

	var (
		stats *domain.PipelineStats
		err   error
	)
	if processReprocessFailed {
		stats, err = proc.ReprocessFailed(cmd.Context())
	} else {
		stats, err = proc.Process(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	fmt.Println("Pipeline finished")
	printPipelineStats(stats)
	return nil
}
