// Package phase implements the parallel-phase verifier (§4.G): the
// shared algorithm behind verify_parallel_exploration and
// verify_parallel_validation, parameterized by the member agent set.
package phase

import (
	"math"
	"time"

	"github.com/cpi-si/agent-tracker/internal/audit"
	"github.com/cpi-si/agent-tracker/internal/model"
	"github.com/cpi-si/agent-tracker/internal/reconcile"
	"github.com/cpi-si/agent-tracker/internal/tracker"
)

// ResultKey identifies which document field a Verify call targets.
type ResultKey int

const (
	// KeyExploration targets document.parallel_exploration.
	KeyExploration ResultKey = iota
	// KeyValidation targets document.parallel_validation.
	KeyValidation
)

// parallelWindow is the strict upper bound (exclusive) on the maximum
// pairwise start-time difference for a phase to classify as parallel.
// Exactly 5.0s is sequential (§4.G step 5, boundary B1/B2).
const parallelWindow = 5 * time.Second

// Verify implements §4.G for the given member agent set, writing the
// result into the document and persisting it. Returns true when every
// member completed with valid timestamps, whether the phase classified
// as parallel or sequential; returns false for a failed or incomplete
// phase.
func Verify(tr *tracker.Tracker, members []string, key ResultKey, src reconcile.Sources) (bool, error) {
	if err := tr.Refresh(); err != nil {
		return false, err
	}
	tr.ResetDuplicateAgents()

	entries := make(map[string]*model.AgentEntry, len(members))
	for _, m := range members {
		entries[m] = reconcile.FindAgent(tr, m, src)
	}

	var missing, failedAgents, incomplete []string
	for _, m := range members {
		e := entries[m]
		switch {
		case e == nil:
			missing = append(missing, m)
		case e.Status == model.StatusFailed:
			failedAgents = append(failedAgents, m)
		case e.Status != model.StatusCompleted:
			incomplete = append(incomplete, m)
		}
	}

	if len(failedAgents) > 0 {
		return writeAndSave(tr, key, &model.PhaseResult{
			Status:          model.PhaseFailed,
			FailedAgents:    failedAgents,
			DuplicateAgents: tr.DuplicateAgents(),
		}, false)
	}

	if len(missing) > 0 || len(incomplete) > 0 {
		combined := append(append([]string{}, missing...), incomplete...)
		return writeAndSave(tr, key, &model.PhaseResult{
			Status:          model.PhaseIncomplete,
			MissingAgents:   combined,
			DuplicateAgents: tr.DuplicateAgents(),
		}, false)
	}

	startTimes := make([]time.Time, 0, len(members))
	for _, m := range members {
		e := entries[m]
		start, err := reconcile.ParseTimestamp(e.StartedAt)
		if err != nil {
			return false, model.WrapError(model.KindInvalidTimestamp, "agent "+m+" has an unparseable started_at", err)
		}
		if _, err := reconcile.ParseTimestamp(e.TerminalAt()); err != nil {
			return false, model.WrapError(model.KindInvalidTimestamp, "agent "+m+" has an unparseable completed_at", err)
		}
		startTimes = append(startTimes, start)
	}

	parallel := maxPairwiseDiff(startTimes) < parallelWindow

	var sequentialTime, parallelTime int64
	for _, m := range members {
		d := durationOf(entries[m])
		sequentialTime += d
		if d > parallelTime {
			parallelTime = d
		}
	}

	result := &model.PhaseResult{
		SequentialTimeSeconds: sequentialTime,
		ParallelTimeSeconds:   parallelTime,
		DuplicateAgents:       tr.DuplicateAgents(),
	}

	if parallel {
		result.Status = model.PhaseParallel
		result.TimeSavedSeconds = sequentialTime - parallelTime
		if sequentialTime > 0 {
			result.EfficiencyPercent = round2(100 * float64(result.TimeSavedSeconds) / float64(sequentialTime))
		}
	} else {
		result.Status = model.PhaseSequential
	}

	// Step 7 of §4.G returns true whenever every member completed with
	// valid timestamps, regardless of whether the classification came
	// out parallel or sequential; only the failed/incomplete branches
	// above return false.
	return writeAndSave(tr, key, result, true)
}

func writeAndSave(tr *tracker.Tracker, key ResultKey, result *model.PhaseResult, success bool) (bool, error) {
	doc := tr.Document()
	switch key {
	case KeyExploration:
		doc.ParallelExploration = result
	case KeyValidation:
		doc.ParallelValidation = result
	}

	if err := tr.Store.Save(doc); err != nil {
		return false, err
	}

	if tr.Audit != nil {
		tr.Audit.Log(audit.EventPhaseVerify, audit.ResultSuccess, "verify phase", map[string]interface{}{
			"status":              result.Status,
			"time_saved_seconds":  result.TimeSavedSeconds,
			"efficiency_percent":  result.EfficiencyPercent,
		})
	}

	return success, nil
}

func durationOf(e *model.AgentEntry) int64 {
	if e == nil || e.DurationSeconds == nil {
		return 0
	}
	return *e.DurationSeconds
}

func maxPairwiseDiff(times []time.Time) time.Duration {
	var max time.Duration
	for i := 0; i < len(times); i++ {
		for j := i + 1; j < len(times); j++ {
			d := times[i].Sub(times[j])
			if d < 0 {
				d = -d
			}
			if d > max {
				max = d
			}
		}
	}
	return max
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
