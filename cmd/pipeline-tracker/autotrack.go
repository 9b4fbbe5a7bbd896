package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var autoTrackCmd = &cobra.Command{
	Use:   "auto-track",
	Short: "Register CLAUDE_AGENT_NAME from the environment, once per session",
	Args:  cobra.NoArgs,
	RunE:  runAutoTrack,
}

func init() {
	rootCmd.AddCommand(autoTrackCmd)
}

func runAutoTrack(cmd *cobra.Command, args []string) error {
	b, err := buildTracker()
	if err != nil {
		return err
	}

	tracked, err := b.Tracker.AutoTrackFromEnvironment("")
	if err != nil {
		return err
	}

	// Print only when an entry was actually registered; repeated hook
	// invocations that find the agent already tracked, or no
	// CLAUDE_AGENT_NAME set, stay silent.
	if tracked {
		fmt.Println("auto-tracked")
	}
	return nil
}
