// Package tracker implements the idempotent per-agent state machine
// (§4.C) and the environment-driven auto-tracker (§4.D).
package tracker

import (
	"os"
	"time"

	"github.com/cpi-si/agent-tracker/internal/audit"
	"github.com/cpi-si/agent-tracker/internal/config"
	"github.com/cpi-si/agent-tracker/internal/model"
	"github.com/cpi-si/agent-tracker/internal/store"
	"github.com/cpi-si/agent-tracker/internal/validate"
)

const timestampLayout = time.RFC3339

// Tracker owns one session's lifecycle operations. It caches the last
// document it loaded (§3.5) but every mutating operation performs a
// fresh load before modifying, per the concurrency model of §4.C.
type Tracker struct {
	Store *store.Store
	Cfg   *config.Config
	Audit *audit.Logger

	sessionID string
	started   string

	doc             *model.Document
	duplicateAgents []string
}

// New constructs a Tracker and performs the initial load.
func New(st *store.Store, cfg *config.Config, logger *audit.Logger, sessionID, started string) (*Tracker, error) {
	t := &Tracker{Store: st, Cfg: cfg, Audit: logger, sessionID: sessionID, started: started}
	doc, err := st.Load(sessionID, started)
	if err != nil {
		return nil, err
	}
	t.doc = doc
	return t, nil
}

// Document returns the tracker's cached in-memory document (§3.5).
func (t *Tracker) Document() *model.Document {
	return t.doc
}

// DuplicateAgents returns the names flagged by the evidence reconciler
// (or the phase verifier) as having more than one entry in some source.
func (t *Tracker) DuplicateAgents() []string {
	return t.duplicateAgents
}

// ResetDuplicateAgents clears the marker; called at the start of phase
// verification (§4.G step 1).
func (t *Tracker) ResetDuplicateAgents() {
	t.duplicateAgents = nil
}

// AddDuplicateAgent records name as having duplicate entries in some
// evidence source, without adding it twice.
func (t *Tracker) AddDuplicateAgent(name string) {
	for _, d := range t.duplicateAgents {
		if d == name {
			return
		}
	}
	t.duplicateAgents = append(t.duplicateAgents, name)
}

// Refresh force-reloads the document from the store (§4.G step 1, also
// used by phase verification before reconciling evidence).
func (t *Tracker) Refresh() error {
	doc, err := t.Store.Load(t.sessionID, t.started)
	if err != nil {
		return err
	}
	t.doc = doc
	return nil
}

func now() string {
	return time.Now().UTC().Format(timestampLayout)
}

func (t *Tracker) messageLimit() int {
	if t.Cfg != nil && t.Cfg.Limits.MessageMaxBytes > 0 {
		return t.Cfg.Limits.MessageMaxBytes
	}
	return validate.DefaultMessageMaxBytes
}

func (t *Tracker) checkKnownAgent(name string) error {
	if validate.IsTestMode() {
		return nil
	}
	if !model.IsKnownAgent(name) {
		return model.NewErrorWithValue(model.KindUnknownAgent, "agent is not in the canonical pipeline set", name)
	}
	return nil
}

func (t *Tracker) logTransition(result, op, agent string, extra map[string]interface{}) {
	if t.Audit == nil {
		return
	}
	ctx := map[string]interface{}{"agent": agent}
	for k, v := range extra {
		ctx[k] = v
	}
	t.Audit.Log(audit.EventAgentTransition, result, op, ctx)
}

// Start appends a new started entry for agent (§4.C start).
func (t *Tracker) Start(agentName, message string) error {
	name, err := validate.AgentName(agentName)
	if err != nil {
		return err
	}
	if err := t.checkKnownAgent(name); err != nil {
		t.logTransition(audit.ResultBlocked, "start", name, nil)
		return err
	}
	msg, err := validate.Message(message, t.messageLimit())
	if err != nil {
		return err
	}

	if err := t.Refresh(); err != nil {
		return err
	}

	entry := model.NewStartedEntry(name, msg, now())
	t.doc.Agents = append(t.doc.Agents, *entry)

	if err := t.Store.Save(t.doc); err != nil {
		return err
	}
	t.logTransition(audit.ResultSuccess, "start", name, nil)
	return nil
}

// Complete transitions agent to completed, idempotently (§4.C complete).
func (t *Tracker) Complete(agentName, message string, tools []string) error {
	name, err := validate.AgentName(agentName)
	if err != nil {
		return err
	}
	if err := t.checkKnownAgent(name); err != nil {
		t.logTransition(audit.ResultBlocked, "complete", name, nil)
		return err
	}
	msg, err := validate.Message(message, t.messageLimit())
	if err != nil {
		return err
	}
	toolsUsed, err := validate.ToolsUsed(tools)
	if err != nil {
		return err
	}

	if err := t.Refresh(); err != nil {
		return err
	}

	latest := t.doc.LatestEntry(name)
	switch {
	case latest != nil && latest.Status == model.StatusCompleted:
		t.logTransition(audit.ResultAllowed, "complete (duplicate, no-op)", name, nil)
		return nil
	case latest != nil && latest.Status == model.StatusStarted:
		completedAt := now()
		latest.Status = model.StatusCompleted
		latest.CompletedAt = completedAt
		latest.Message = msg
		if toolsUsed != nil {
			latest.ToolsUsed = toolsUsed
		}
		if d, ok := floorDurationSeconds(latest.StartedAt, completedAt); ok {
			latest.DurationSeconds = &d
		}
	default:
		entry := model.NewCompletedEntry(name, msg, now())
		entry.ToolsUsed = toolsUsed
		t.doc.Agents = append(t.doc.Agents, *entry)
	}

	if err := t.Store.Save(t.doc); err != nil {
		return err
	}
	t.logTransition(audit.ResultSuccess, "complete", name, nil)
	return nil
}

// Fail transitions agent to failed. Unlike Complete, a repeated Fail on
// an already-failed agent is NOT idempotent: it appends a new failed
// entry, per the documented asymmetry in spec §9/§4.C.
func (t *Tracker) Fail(agentName, message string) error {
	name, err := validate.AgentName(agentName)
	if err != nil {
		return err
	}
	if err := t.checkKnownAgent(name); err != nil {
		t.logTransition(audit.ResultBlocked, "fail", name, nil)
		return err
	}
	msg, err := validate.Message(message, t.messageLimit())
	if err != nil {
		return err
	}

	if err := t.Refresh(); err != nil {
		return err
	}

	latest := t.doc.LatestEntry(name)
	if latest != nil && latest.Status == model.StatusStarted {
		failedAt := now()
		latest.Status = model.StatusFailed
		latest.FailedAt = failedAt
		latest.Message = msg
		latest.Error = msg
		if d, ok := floorDurationSeconds(latest.StartedAt, failedAt); ok {
			latest.DurationSeconds = &d
		}
	} else {
		entry := model.NewFailedEntry(name, msg, now())
		t.doc.Agents = append(t.doc.Agents, *entry)
	}

	if err := t.Store.Save(t.doc); err != nil {
		return err
	}
	t.logTransition(audit.ResultSuccess, "fail", name, nil)
	return nil
}

// SetGithubIssue validates n and stores it at the document root.
func (t *Tracker) SetGithubIssue(n int) error {
	min, max := issueLimits(t.Cfg)
	valid, err := validate.IssueNumberRange(n, min, max)
	if err != nil {
		return err
	}

	if err := t.Refresh(); err != nil {
		return err
	}
	t.doc.GithubIssue = &valid

	if err := t.Store.Save(t.doc); err != nil {
		return err
	}
	t.logTransition(audit.ResultSuccess, "set_github_issue", "", map[string]interface{}{"issue": valid})
	return nil
}

func issueLimits(cfg *config.Config) (int, int) {
	if cfg == nil {
		return 1, 999999
	}
	min, max := cfg.Limits.IssueMin, cfg.Limits.IssueMax
	if min <= 0 {
		min = 1
	}
	if max <= 0 {
		max = 999999
	}
	return min, max
}

// IsTracked reports whether any entry (of any status) exists for agentName.
func (t *Tracker) IsTracked(agentName string) bool {
	return t.doc.HasAnyEntry(agentName)
}

// AutoTrackFromEnvironment implements §4.D: registers CLAUDE_AGENT_NAME
// as a started entry the first time it is observed for this session.
func (t *Tracker) AutoTrackFromEnvironment(defaultMessage string) (bool, error) {
	agentName := os.Getenv("CLAUDE_AGENT_NAME")
	if agentName == "" {
		t.logTransition(audit.ResultAllowed, "auto_track (no CLAUDE_AGENT_NAME)", "", nil)
		return false, nil
	}

	name, err := validate.AgentName(agentName)
	if err != nil {
		return false, err
	}

	msg := defaultMessage
	if msg == "" {
		msg = "auto-detected via CLAUDE_AGENT_NAME environment variable"
	}
	msg, err = validate.Message(msg, t.messageLimit())
	if err != nil {
		return false, err
	}

	if err := t.Refresh(); err != nil {
		return false, err
	}

	if t.IsTracked(name) {
		t.logTransition(audit.ResultAllowed, "auto_track (already tracked)", name, nil)
		return false, nil
	}

	entry := model.NewStartedEntry(name, msg, now())
	t.doc.Agents = append(t.doc.Agents, *entry)

	if err := t.Store.Save(t.doc); err != nil {
		return false, err
	}
	t.logTransition(audit.ResultSuccess, "auto_track", name, nil)
	return true, nil
}

// floorDurationSeconds computes floor(terminal - started) in seconds.
// Returns ok=false when startedAt is empty or either timestamp fails to
// parse, in which case callers must leave duration_seconds unset.
func floorDurationSeconds(startedAt, terminalAt string) (int64, bool) {
	if startedAt == "" {
		return 0, false
	}
	start, err := time.Parse(timestampLayout, startedAt)
	if err != nil {
		return 0, false
	}
	end, err := time.Parse(timestampLayout, terminalAt)
	if err != nil {
		return 0, false
	}
	d := end.Sub(start)
	if d < 0 {
		d = 0
	}
	return int64(d / time.Second), true
}
