package model

// Phase status values (§3.4).
const (
	PhaseParallel   = "parallel"
	PhaseSequential = "sequential"
	PhaseIncomplete = "incomplete"
	PhaseFailed     = "failed"
)

// PhaseResult is the verifier's output for parallel_exploration or
// parallel_validation.
type PhaseResult struct {
	Status                string   `json:"status"`
	SequentialTimeSeconds  int64    `json:"sequential_time_seconds"`
	ParallelTimeSeconds    int64    `json:"parallel_time_seconds"`
	TimeSavedSeconds       int64    `json:"time_saved_seconds"`
	EfficiencyPercent      float64  `json:"efficiency_percent"`
	MissingAgents          []string `json:"missing_agents,omitempty"`
	FailedAgents           []string `json:"failed_agents,omitempty"`
	DuplicateAgents        []string `json:"duplicate_agents,omitempty"`
}
