package reconcile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpi-si/agent-tracker/internal/model"
)

type fakeTracker struct {
	doc        *model.Document
	duplicates []string
}

func (f *fakeTracker) Document() *model.Document { return f.doc }
func (f *fakeTracker) AddDuplicateAgent(name string) {
	f.duplicates = append(f.duplicates, name)
}

func TestFindAgent_MemorySourceWins(t *testing.T) {
	doc := model.NewDocument("20260101-000000", "2026-01-01T00:00:00Z")
	doc.Agents = append(doc.Agents, model.AgentEntry{
		Agent:       "researcher",
		Status:      model.StatusCompleted,
		StartedAt:   "2026-01-01T00:00:00Z",
		CompletedAt: "2026-01-01T00:01:00Z",
	})
	ft := &fakeTracker{doc: doc}

	hit := FindAgent(ft, "researcher", Sources{})
	if hit == nil || hit.Status != model.StatusCompleted {
		t.Fatalf("expected a completed hit, got %+v", hit)
	}
}

func TestFindAgent_MemorySourceReturnsStartedEntry(t *testing.T) {
	doc := model.NewDocument("20260101-000000", "2026-01-01T00:00:00Z")
	doc.Agents = append(doc.Agents, model.AgentEntry{
		Agent:     "researcher",
		Status:    model.StatusStarted,
		StartedAt: "2026-01-01T00:00:00Z",
	})
	ft := &fakeTracker{doc: doc}

	hit := FindAgent(ft, "researcher", Sources{})
	if hit == nil || hit.Status != model.StatusStarted {
		t.Fatalf("expected the started entry to surface via memory, got %+v", hit)
	}
}

func TestFindAgent_MissingReturnsNil(t *testing.T) {
	doc := model.NewDocument("20260101-000000", "2026-01-01T00:00:00Z")
	ft := &fakeTracker{doc: doc}

	if hit := FindAgent(ft, "researcher", Sources{}); hit != nil {
		t.Fatalf("expected nil, got %+v", hit)
	}
}

func TestFindAgent_DuplicateEntriesMarkedAndLatestWins(t *testing.T) {
	doc := model.NewDocument("20260101-000000", "2026-01-01T00:00:00Z")
	doc.Agents = append(doc.Agents,
		model.AgentEntry{Agent: "researcher", Status: model.StatusCompleted, StartedAt: "2026-01-01T00:00:00Z", CompletedAt: "2026-01-01T00:01:00Z", Message: "first"},
		model.AgentEntry{Agent: "researcher", Status: model.StatusCompleted, StartedAt: "2026-01-01T00:02:00Z", CompletedAt: "2026-01-01T00:03:00Z", Message: "second"},
	)
	ft := &fakeTracker{doc: doc}

	hit := FindAgent(ft, "researcher", Sources{})
	if hit == nil || hit.Message != "second" {
		t.Fatalf("expected the latest entry to win, got %+v", hit)
	}
	if len(ft.duplicates) != 1 || ft.duplicates[0] != "researcher" {
		t.Fatalf("expected researcher flagged as duplicate, got %v", ft.duplicates)
	}
}

func TestFindAgent_FallsThroughToNarrative(t *testing.T) {
	doc := model.NewDocument("20260101-000000", "2026-01-01T00:00:00Z")
	ft := &fakeTracker{doc: doc}

	dir := t.TempDir()
	narrativePath := filepath.Join(dir, "session.md")
	content := "09:00:00 - researcher: Starting research\n09:10:00 - researcher: Completed research summary\n"
	if err := os.WriteFile(narrativePath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	hit := FindAgent(ft, "researcher", Sources{NarrativePath: narrativePath, SessionDateYYYYMMDD: "20260101"})
	if hit == nil {
		t.Fatal("expected narrative fallback to produce a hit")
	}
	if hit.Status != model.StatusCompleted {
		t.Fatalf("expected completed status, got %s", hit.Status)
	}
}

func TestStructurallyValid_RejectsCompletedWithoutStartedAt(t *testing.T) {
	e := &model.AgentEntry{Agent: "researcher", Status: model.StatusCompleted, CompletedAt: "2026-01-01T00:01:00Z"}
	if structurallyValid(e) {
		t.Fatal("expected completed entry lacking started_at to be structurally invalid")
	}
}
