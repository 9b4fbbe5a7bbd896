package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cpi-si/agent-tracker/internal/model"
)

var failCmd = &cobra.Command{
	Use:   "fail <agent> <message...>",
	Short: "Record an agent's failure (not idempotent -- repeats append)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFail,
}

func init() {
	rootCmd.AddCommand(failCmd)
}

func runFail(cmd *cobra.Command, args []string) error {
	agent := args[0]
	message := strings.Join(args[1:], " ")

	if isUnknownAgentArg(agent) {
		return model.NewErrorWithValue(model.KindUnknownAgent, "agent is not in the canonical pipeline set", agent)
	}

	b, err := buildTracker()
	if err != nil {
		return err
	}

	if err := b.Tracker.Fail(agent, message); err != nil {
		return err
	}

	fmt.Printf("failed %s\n", agent)
	return nil
}
