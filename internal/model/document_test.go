package model

import "testing"

func TestDocument_LatestEntry(t *testing.T) {
	d := NewDocument("20260101-000000", "2026-01-01T00:00:00Z")
	d.Agents = append(d.Agents,
		AgentEntry{Agent: "researcher", Status: StatusStarted},
		AgentEntry{Agent: "researcher", Status: StatusCompleted},
		AgentEntry{Agent: "planner", Status: StatusStarted},
	)

	latest := d.LatestEntry("researcher")
	if latest == nil || latest.Status != StatusCompleted {
		t.Fatalf("expected latest researcher entry to be completed, got %+v", latest)
	}

	if !d.HasAnyEntry("planner") {
		t.Fatal("expected planner to have an entry")
	}
	if d.HasAnyEntry("implementer") {
		t.Fatal("expected implementer to have no entry")
	}
	if d.LatestEntry("implementer") != nil {
		t.Fatal("expected nil for an agent with no entries")
	}
}
