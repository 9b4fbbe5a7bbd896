package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cpi-si/agent-tracker/internal/model"
)

var startCmd = &cobra.Command{
	Use:   "start <agent> <message...>",
	Short: "Record an agent's start transition",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	agent := args[0]
	message := strings.Join(args[1:], " ")

	if isUnknownAgentArg(agent) {
		return model.NewErrorWithValue(model.KindUnknownAgent, "agent is not in the canonical pipeline set", agent)
	}

	b, err := buildTracker()
	if err != nil {
		return err
	}

	if err := b.Tracker.Start(agent, message); err != nil {
		return err
	}

	fmt.Printf("started %s\n", agent)
	return nil
}
