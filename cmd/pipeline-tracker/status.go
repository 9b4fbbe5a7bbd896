package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cpi-si/agent-tracker/internal/display"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Render the pipeline's current progress",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	b, err := buildTracker()
	if err != nil {
		return err
	}
	doc := b.Tracker.Document()

	rows := display.DisplayMetadata(doc, b.Cfg)
	for _, row := range rows {
		line := fmt.Sprintf("%s %-18s %s", row.Glyph, row.Name, row.Status)
		if row.DurationSeconds != nil {
			line += fmt.Sprintf(" (%ds)", *row.DurationSeconds)
		}
		fmt.Println(line)
	}

	fmt.Printf("\nprogress: %d%%\n", display.ProgressPercent(doc))

	if avg, ok := display.AverageAgentDurationSeconds(doc); ok {
		fmt.Printf("average agent duration: %.1fs\n", avg)
		if remaining, ok := display.EstimatedRemainingSeconds(doc, time.Now().UTC()); ok {
			fmt.Printf("estimated remaining: %.1fs\n", remaining)
		}
	}

	if display.IsPipelineComplete(doc) {
		fmt.Println("pipeline: COMPLETE")
	} else {
		fmt.Println("pipeline: INCOMPLETE")
		if pending := display.PendingAgents(doc); len(pending) > 0 {
			fmt.Printf("pending: %v\n", pending)
		}
	}

	return nil
}
