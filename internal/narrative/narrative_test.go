package narrative

import (
	"os"
	"path/filepath"
	"testing"
)

func writeNarrative(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "session.md")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDetectFromSessionText_StartAndComplete(t *testing.T) {
	path := writeNarrative(t, ""+
		"## Notes\n"+
		"09:00:00 - researcher: Starting investigation\n"+
		"09:05:00 - planner: Starting plan\n"+
		"09:30:00 - researcher: Completed investigation, found 3 options\n")

	entry := DetectFromSessionText("researcher", path, "20260101")
	if entry == nil {
		t.Fatal("expected a hit for researcher")
	}
	if entry.StartedAt != "2026-01-01T09:00:00Z" {
		t.Fatalf("unexpected started_at: %s", entry.StartedAt)
	}
	if entry.CompletedAt != "2026-01-01T09:30:00Z" {
		t.Fatalf("unexpected completed_at: %s", entry.CompletedAt)
	}
	if entry.DurationSeconds == nil || *entry.DurationSeconds != 1800 {
		t.Fatalf("expected 1800s duration, got %+v", entry.DurationSeconds)
	}
}

func TestDetectFromSessionText_OnlyStartReturnsNil(t *testing.T) {
	path := writeNarrative(t, "09:00:00 - researcher: Starting investigation\n")
	if entry := DetectFromSessionText("researcher", path, "20260101"); entry != nil {
		t.Fatalf("expected nil when only a start marker exists, got %+v", entry)
	}
}

func TestDetectFromSessionText_NoMarkersReturnsNil(t *testing.T) {
	path := writeNarrative(t, "Just some prose with no markers at all.\n")
	if entry := DetectFromSessionText("researcher", path, "20260101"); entry != nil {
		t.Fatalf("expected nil, got %+v", entry)
	}
}

func TestDetectFromSessionText_MissingFileReturnsNil(t *testing.T) {
	if entry := DetectFromSessionText("researcher", "/nonexistent/path.md", "20260101"); entry != nil {
		t.Fatalf("expected nil for missing file, got %+v", entry)
	}
}

func TestDetectFromSessionText_MultiplePairsSpanFirstStartToLastCompletion(t *testing.T) {
	path := writeNarrative(t, ""+
		"08:00:00 - researcher: Starting first attempt\n"+
		"08:10:00 - researcher: Completed first attempt\n"+
		"09:00:00 - researcher: Starting second attempt\n"+
		"09:20:00 - researcher: Completed second attempt\n")

	entry := DetectFromSessionText("researcher", path, "20260101")
	if entry == nil {
		t.Fatal("expected a hit")
	}
	if entry.StartedAt != "2026-01-01T08:00:00Z" {
		t.Fatalf("unexpected started_at (first start expected): %s", entry.StartedAt)
	}
	if entry.CompletedAt != "2026-01-01T09:20:00Z" {
		t.Fatalf("unexpected completed_at (last completion expected): %s", entry.CompletedAt)
	}
}
