package model

// Document is the single JSON object persisted per session (§3.1). Every
// read through the store returns a fresh deserialization; every write
// goes through the store's atomic-replace path.
type Document struct {
	SessionID           string      `json:"session_id"`
	Started             string      `json:"started"`
	GithubIssue         *int        `json:"github_issue,omitempty"`
	Agents              []AgentEntry `json:"agents"`
	ParallelExploration *PhaseResult `json:"parallel_exploration,omitempty"`
	ParallelValidation  *PhaseResult `json:"parallel_validation,omitempty"`
}

// NewDocument builds a freshly initialized document for a new session,
// matching the zero-side-effect fallback of Store.Load when no file exists.
func NewDocument(sessionID, started string) *Document {
	return &Document{
		SessionID: sessionID,
		Started:   started,
		Agents:    []AgentEntry{},
	}
}

// LatestEntry returns the most recently appended entry for agent, or nil.
func (d *Document) LatestEntry(agent string) *AgentEntry {
	var found *AgentEntry
	for i := range d.Agents {
		if d.Agents[i].Agent == agent {
			found = &d.Agents[i]
		}
	}
	return found
}

// HasAnyEntry reports whether any entry (of any status) exists for agent.
func (d *Document) HasAnyEntry(agent string) bool {
	for i := range d.Agents {
		if d.Agents[i].Agent == agent {
			return true
		}
	}
	return false
}
