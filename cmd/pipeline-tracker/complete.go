package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cpi-si/agent-tracker/internal/model"
)

var completeToolsFlag string

var completeCmd = &cobra.Command{
	Use:   "complete <agent> <message...>",
	Short: "Record an agent's completion (idempotent)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runComplete,
}

func init() {
	completeCmd.Flags().StringVar(&completeToolsFlag, "tools", "", "comma-separated list of tool identifiers used")
	rootCmd.AddCommand(completeCmd)
}

func runComplete(cmd *cobra.Command, args []string) error {
	agent := args[0]
	message := strings.Join(args[1:], " ")

	if isUnknownAgentArg(agent) {
		return model.NewErrorWithValue(model.KindUnknownAgent, "agent is not in the canonical pipeline set", agent)
	}

	var tools []string
	if completeToolsFlag != "" {
		tools = strings.Split(completeToolsFlag, ",")
	}

	b, err := buildTracker()
	if err != nil {
		return err
	}

	if err := b.Tracker.Complete(agent, message, tools); err != nil {
		return err
	}

	fmt.Printf("completed %s\n", agent)
	return nil
}
