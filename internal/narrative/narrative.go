// Package narrative implements the §4.F narrative parser: a recovery
// mechanism that recovers agent completion events from a free-form
// companion markdown transcript when the tracker itself never saw them.
package narrative

import (
	"bufio"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cpi-si/agent-tracker/internal/model"
)

// lineMarker matches "HH:MM:SS - <agent>: <tail>" (§6.3). Go's regexp
// package compiles to RE2, which runs in time linear in input size with
// no backtracking, satisfying the O(n) design note of spec §9 with no
// custom parser required.
var lineMarker = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2})\s*-\s*([A-Za-z0-9_-]+):\s*(.*)$`)

type markerLine struct {
	timeOfDay string
	agent     string
	tail      string
}

func hasVerbPrefix(tail string, verbs ...string) bool {
	trimmed := strings.TrimSpace(tail)
	lower := strings.ToLower(trimmed)
	for _, v := range verbs {
		if strings.HasPrefix(lower, v) {
			return true
		}
	}
	return false
}

// DetectFromSessionText implements §4.F: scans sessionTextPath for the
// requested agent's start/completion markers and, if both are present
// and timestamps parse, returns a completed AgentEntry. It never
// returns an error for a malformed or missing file -- only nil.
func DetectFromSessionText(agentName, sessionTextPath, sessionDateYYYYMMDD string) *model.AgentEntry {
	f, err := os.Open(sessionTextPath)
	if err != nil {
		return nil
	}
	defer f.Close()

	var firstStart *markerLine
	var lastComplete *markerLine

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		m := lineMarker.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		ml := markerLine{timeOfDay: m[1], agent: m[2], tail: m[3]}
		if ml.agent != agentName {
			continue
		}

		if firstStart == nil && hasVerbPrefix(ml.tail, "starting") {
			copyML := ml
			firstStart = &copyML
		}
		if hasVerbPrefix(ml.tail, "completed", "complete") {
			copyML := ml
			lastComplete = &copyML
		}
	}
	if scanner.Err() != nil {
		return nil
	}

	if firstStart == nil || lastComplete == nil {
		return nil
	}

	startedAt, ok := promote(sessionDateYYYYMMDD, firstStart.timeOfDay)
	if !ok {
		return nil
	}
	completedAt, ok := promote(sessionDateYYYYMMDD, lastComplete.timeOfDay)
	if !ok {
		return nil
	}

	entry := model.NewCompletedEntry(agentName, lastComplete.tail, completedAt)
	entry.StartedAt = startedAt
	if d, ok := floorSeconds(startedAt, completedAt); ok {
		entry.DurationSeconds = &d
	}
	return entry
}

// promote combines a YYYYMMDD session date with an HH:MM:SS time-of-day
// into a full ISO-8601 timestamp.
func promote(sessionDateYYYYMMDD, timeOfDay string) (string, bool) {
	if len(sessionDateYYYYMMDD) < 8 {
		return "", false
	}
	year := sessionDateYYYYMMDD[0:4]
	month := sessionDateYYYYMMDD[4:6]
	day := sessionDateYYYYMMDD[6:8]

	parts := strings.Split(timeOfDay, ":")
	if len(parts) != 3 {
		return "", false
	}
	for _, p := range parts {
		if _, err := strconv.Atoi(p); err != nil {
			return "", false
		}
	}

	ts := year + "-" + month + "-" + day + "T" + timeOfDay + "Z"
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		return "", false
	}
	return ts, true
}

func floorSeconds(startedAt, terminalAt string) (int64, bool) {
	start, err := time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return 0, false
	}
	end, err := time.Parse(time.RFC3339, terminalAt)
	if err != nil {
		return 0, false
	}
	d := end.Sub(start)
	if d < 0 {
		d = 0
	}
	return int64(d / time.Second), true
}
