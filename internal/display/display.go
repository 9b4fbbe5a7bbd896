// Package display implements the Read API (§4.H): pure functions over
// the current in-memory document, with no store writes and no
// validation side effects.
package display

import (
	"time"

	"github.com/cpi-si/agent-tracker/internal/config"
	"github.com/cpi-si/agent-tracker/internal/model"
)

// ExpectedAgents returns the seven agent names in canonical pipeline order.
func ExpectedAgents() []string {
	out := make([]string, len(model.ExpectedAgents))
	copy(out, model.ExpectedAgents)
	return out
}

// ProgressPercent is the floor integer percent of expected agents whose
// latest entry is completed or failed.
func ProgressPercent(doc *model.Document) int {
	done := 0
	for _, name := range model.ExpectedAgents {
		if e := doc.LatestEntry(name); e != nil && e.IsTerminal() {
			done++
		}
	}
	return done * 100 / len(model.ExpectedAgents)
}

// PendingAgents is the expected set minus any agent with at least one entry.
func PendingAgents(doc *model.Document) []string {
	var pending []string
	for _, name := range model.ExpectedAgents {
		if !doc.HasAnyEntry(name) {
			pending = append(pending, name)
		}
	}
	return pending
}

// RunningAgent is the most recently appended agent whose latest entry is
// still started, or "" when none.
func RunningAgent(doc *model.Document) string {
	for i := len(doc.Agents) - 1; i >= 0; i-- {
		e := &doc.Agents[i]
		if e.Status != model.StatusStarted {
			continue
		}
		if latest := doc.LatestEntry(e.Agent); latest == e {
			return e.Agent
		}
	}
	return ""
}

// AverageAgentDurationSeconds is the mean duration_seconds over terminal
// entries, or (0, false) when none have a recorded duration.
func AverageAgentDurationSeconds(doc *model.Document) (float64, bool) {
	var sum int64
	var count int
	for i := range doc.Agents {
		e := &doc.Agents[i]
		if e.IsTerminal() && e.DurationSeconds != nil {
			sum += *e.DurationSeconds
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return float64(sum) / float64(count), true
}

// EstimatedRemainingSeconds is remaining_count * average_duration, minus
// the already-elapsed time of any running agent (floored at zero).
// Returns (0, false) when the average is unavailable.
func EstimatedRemainingSeconds(doc *model.Document, now time.Time) (float64, bool) {
	avg, ok := AverageAgentDurationSeconds(doc)
	if !ok {
		return 0, false
	}

	remainingCount := 0
	for _, name := range model.ExpectedAgents {
		e := doc.LatestEntry(name)
		if e == nil || !e.IsTerminal() {
			remainingCount++
		}
	}

	estimate := float64(remainingCount) * avg

	if running := RunningAgent(doc); running != "" {
		if e := doc.LatestEntry(running); e != nil && e.StartedAt != "" {
			if started, err := time.Parse(time.RFC3339, e.StartedAt); err == nil {
				elapsed := now.Sub(started).Seconds()
				estimate -= elapsed
			}
		}
	}

	if estimate < 0 {
		estimate = 0
	}
	return estimate, true
}

// IsPipelineComplete is true iff every expected agent has at least one
// terminal entry.
func IsPipelineComplete(doc *model.Document) bool {
	for _, name := range model.ExpectedAgents {
		terminal := false
		for i := range doc.Agents {
			if doc.Agents[i].Agent == name && doc.Agents[i].IsTerminal() {
				terminal = true
				break
			}
		}
		if !terminal {
			return false
		}
	}
	return true
}

// AgentDisplay is one row of display_metadata() (§4.H).
type AgentDisplay struct {
	Name            string
	Status          string
	Description     string
	Emoji           string
	Glyph           string
	DurationSeconds *int64
	ToolsUsed       []string
	StartedAt       string
	CompletedAt     string
	Message         string
}

// DisplayMetadata assembles one entry per expected agent, even agents not
// yet seen, using cfg for the static description/emoji table.
func DisplayMetadata(doc *model.Document, cfg *config.Config) []AgentDisplay {
	out := make([]AgentDisplay, 0, len(model.ExpectedAgents))
	for _, name := range model.ExpectedAgents {
		meta := cfg.Agents[name]
		row := AgentDisplay{
			Name:        name,
			Status:      "pending",
			Description: meta.Description,
			Emoji:       meta.Emoji,
			Glyph:       config.StatusGlyph(""),
		}

		if e := doc.LatestEntry(name); e != nil {
			row.Status = e.Status
			row.Glyph = config.StatusGlyph(e.Status)
			row.DurationSeconds = e.DurationSeconds
			row.ToolsUsed = e.ToolsUsed
			row.StartedAt = e.StartedAt
			row.Message = e.Message
			if e.Status == model.StatusFailed {
				row.CompletedAt = e.FailedAt
			} else {
				row.CompletedAt = e.CompletedAt
			}
		}

		out = append(out, row)
	}
	return out
}
