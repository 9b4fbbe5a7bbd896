// Package reconcile implements the multi-source evidence reconciler
// (§4.E): memory, on-disk JSON, and narrative text, consulted in fixed
// priority with short-circuit evaluation.
package reconcile

import (
	"time"

	"github.com/cpi-si/agent-tracker/internal/model"
	"github.com/cpi-si/agent-tracker/internal/narrative"
)

// Tracker is the subset of *tracker.Tracker the reconciler depends on;
// declared as an interface so the reconciler can be tested against a
// fake without pulling in the full state machine.
type Tracker interface {
	Document() *model.Document
	AddDuplicateAgent(name string)
}

// Sources bundles the optional companion-text lookup, kept separate from
// the tracker so a session with no narrative file simply passes an empty
// path and gets a nil third source.
type Sources struct {
	NarrativePath       string
	SessionDateYYYYMMDD string
}

// FindAgent implements §4.E: try memory, then disk-only completed/failed
// entries, then the narrative parser, short-circuiting on the first
// structurally-valid hit.
func FindAgent(tr Tracker, name string, src Sources) *model.AgentEntry {
	if hit := findInEntries(tr, name, tr.Document().Agents, false); hit != nil {
		return hit
	}
	// This terminal-only pass scans the same tr.Document().Agents slice as
	// the memory-tier pass above and can only fire on the subset that pass
	// misses. In this single-process, short-lived-CLI build (Open Question
	// #5) memory and disk are always the same snapshot, so this call is
	// structurally vestigial; kept distinct so the priority ordering still
	// matches the evidence-source chain verbatim for a future long-lived
	// invocation.
	if hit := findInEntries(tr, name, tr.Document().Agents, true); hit != nil {
		return hit
	}
	if src.NarrativePath == "" {
		return nil
	}
	return narrative.DetectFromSessionText(name, src.NarrativePath, src.SessionDateYYYYMMDD)
}

// findInEntries scans entries for name, newest-last, marking duplicates
// on tr. When terminalOnly is true this models the "JSON store" source
// (§4.E item 2), which does not surface started-status entries.
func findInEntries(tr Tracker, name string, entries []model.AgentEntry, terminalOnly bool) *model.AgentEntry {
	var candidates []*model.AgentEntry
	for i := range entries {
		e := &entries[i]
		if e.Agent != name {
			continue
		}
		if terminalOnly && !e.IsTerminal() {
			continue
		}
		if !structurallyValid(e) {
			continue
		}
		candidates = append(candidates, e)
	}
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) > 1 {
		tr.AddDuplicateAgent(name)
	}
	return candidates[len(candidates)-1]
}

// structurallyValid checks required-field presence per §4.E: agent and
// status always required; started_at and the terminal timestamp are
// additionally required when status is terminal. This is a presence
// check only -- ISO-8601 parseability is validated later, as a hard
// error, by the phase verifier (§4.G step 4).
func structurallyValid(e *model.AgentEntry) bool {
	if e.Agent == "" {
		return false
	}
	switch e.Status {
	case model.StatusStarted:
		return e.StartedAt != ""
	case model.StatusCompleted, model.StatusFailed:
		return e.StartedAt != "" && e.TerminalAt() != ""
	default:
		return false
	}
}

// ParseTimestamp parses an ISO-8601/RFC3339 timestamp, used by the phase
// verifier's hard timestamp-validation step.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
