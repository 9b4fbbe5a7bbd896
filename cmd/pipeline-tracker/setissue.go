package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cpi-si/agent-tracker/internal/model"
)

var setGithubIssueCmd = &cobra.Command{
	Use:   "set-github-issue <n>",
	Short: "Record the GitHub issue number this session is tracking",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetGithubIssue,
}

func init() {
	rootCmd.AddCommand(setGithubIssueCmd)
}

func runSetGithubIssue(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return model.NewErrorWithValue(model.KindInvalidInput, "issue number must be an integer", args[0])
	}

	b, err := buildTracker()
	if err != nil {
		return err
	}

	if err := b.Tracker.SetGithubIssue(n); err != nil {
		return err
	}

	fmt.Printf("github issue set to %d\n", n)
	return nil
}
