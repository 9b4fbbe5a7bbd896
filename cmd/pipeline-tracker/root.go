package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cpi-si/agent-tracker/internal/audit"
	"github.com/cpi-si/agent-tracker/internal/config"
	"github.com/cpi-si/agent-tracker/internal/model"
	"github.com/cpi-si/agent-tracker/internal/store"
	"github.com/cpi-si/agent-tracker/internal/tracker"
	"github.com/cpi-si/agent-tracker/internal/validate"
)

var (
	sessionIDFlag   string
	projectRootFlag string
)

var rootCmd = &cobra.Command{
	Use:           "pipeline-tracker",
	Short:         "Track and verify a seven-agent pipeline's execution",
	Long:          "pipeline-tracker records agent start/complete/fail events for a pipeline session and verifies whether designated agent groups ran in parallel.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sessionIDFlag, "session-id", "", "session identifier (defaults to the most recent session under docs/sessions, or a freshly minted one)")
	rootCmd.PersistentFlags().StringVar(&projectRootFlag, "project-root", "", "override project root discovery (§6.2)")
}

// Execute runs the root command; main() simply calls this and maps the
// returned exit code (§6.6).
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if _, logical := err.(exitFailure); !logical {
			printDiagnostic(err)
		}
		return exitCodeFor(err)
	}
	return 0
}

func printDiagnostic(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
}

// exitCodeFor maps library errors to §6.6's exit code contract: 0
// success, 1 logical failure (unknown subcommand, missing args,
// verification returned false), non-zero for validation errors too --
// the spec does not distinguish beyond "non-zero", so every error path
// here returns 1.
func exitCodeFor(err error) int {
	return 1
}

// built bundles everything a subcommand needs after buildTracker wires
// up the library: the tracker itself, plus the resolved root/sessionID
// so verify subcommands can locate the companion narrative file.
type built struct {
	Tracker   *tracker.Tracker
	Cfg       *config.Config
	Root      string
	SessionID string
}

// buildTracker wires Config, Store, and Tracker together for a CLI
// invocation: discover the project root, resolve the session id and
// file path, load the config, and construct the tracker.
func buildTracker() (*built, error) {
	root := projectRootFlag
	if root == "" {
		r, err := validate.CurrentProjectRoot()
		if err != nil {
			return nil, err
		}
		root = r
	}

	sessionID := sessionIDFlag
	if sessionID == "" {
		sessionID = discoverLatestSession(root)
	}

	cfgPath := config.Path(root)
	cfg := config.Load(cfgPath, func(msg string) {
		fmt.Fprintln(os.Stderr, "config: "+msg)
	})

	auditPath, err := validate.Path(audit.ResolvePath(root), root)
	var logger *audit.Logger
	if err == nil {
		logger = audit.New(auditPath)
	} else {
		logger = audit.New("")
	}

	sessionPath, err := store.DefaultSessionPath(root, sessionID)
	if err != nil {
		return nil, err
	}

	st := store.New(sessionPath, "pipeline-tracker", logger)

	started := time.Now().UTC().Format(time.RFC3339)
	tr, err := tracker.New(st, cfg, logger, sessionID, started)
	if err != nil {
		return nil, err
	}
	return &built{Tracker: tr, Cfg: cfg, Root: root, SessionID: sessionID}, nil
}

// discoverLatestSession picks the lexicographically greatest
// "<id>-pipeline.json" under <root>/docs/sessions (YYYYMMDD-HHMMSS
// sorts correctly as a string), or mints a fresh id when none exist.
func discoverLatestSession(root string) string {
	dir := root + "/docs/sessions"
	entries, err := os.ReadDir(dir)
	if err != nil {
		return time.Now().UTC().Format("20060102-150405")
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, "-pipeline.json") {
			ids = append(ids, strings.TrimSuffix(name, "-pipeline.json"))
		}
	}
	if len(ids) == 0 {
		return time.Now().UTC().Format("20060102-150405")
	}
	sort.Strings(ids)
	return ids[len(ids)-1]
}

func sessionDateOf(sessionID string) string {
	if len(sessionID) >= 8 {
		return sessionID[:8]
	}
	return time.Now().UTC().Format("20060102")
}

func narrativePathFor(tr *tracker.Tracker, root, sessionID string) string {
	p, err := store.NarrativePath(root, sessionID)
	if err != nil {
		return ""
	}
	if _, statErr := os.Stat(p); statErr != nil {
		return ""
	}
	return p
}

// isUnknownAgentArg lets start/complete/fail reject an unrecognized agent
// name before buildTracker does any file I/O, rather than only catching it
// inside Tracker's own checkKnownAgent gate.
func isUnknownAgentArg(name string) bool {
	return !model.IsKnownAgent(name) && !validate.IsTestMode()
}
