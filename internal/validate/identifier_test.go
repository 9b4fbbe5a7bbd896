package validate

import (
	"strings"
	"testing"
)

func TestAgentName_BoundaryB5(t *testing.T) {
	if _, err := AgentName(""); err == nil {
		t.Fatal("expected empty agent name to be rejected")
	}
	if _, err := AgentName("a"); err != nil {
		t.Fatalf("expected single-char agent name accepted, got %v", err)
	}
	long256 := strings.Repeat("a", 256)
	if _, err := AgentName(long256); err == nil {
		t.Fatal("expected 256-character agent name to be rejected")
	}
	long255 := strings.Repeat("a", 255)
	if _, err := AgentName(long255); err != nil {
		t.Fatalf("expected 255-character agent name accepted, got %v", err)
	}
}

func TestAgentName_RejectsInvalidChars(t *testing.T) {
	for _, bad := range []string{"agent name", "agent/name", "agent\x00name", "agent.name"} {
		if _, err := AgentName(bad); err == nil {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestMessage_BoundaryB4(t *testing.T) {
	ok := strings.Repeat("x", 10000)
	if _, err := Message(ok, 0); err != nil {
		t.Fatalf("expected 10000-byte message accepted, got %v", err)
	}
	tooLong := strings.Repeat("x", 10001)
	if _, err := Message(tooLong, 0); err == nil {
		t.Fatal("expected 10001-byte message to be rejected")
	}
}

func TestMessage_RejectsControlCharacters(t *testing.T) {
	if _, err := Message("hello\x00world", 0); err == nil {
		t.Fatal("expected NUL byte to be rejected")
	}
	if _, err := Message("hello\x01world", 0); err == nil {
		t.Fatal("expected control character to be rejected")
	}
	if _, err := Message("hello\tworld\n", 0); err != nil {
		t.Fatalf("expected tab/newline to be accepted, got %v", err)
	}
}

func TestIssueNumber_BoundaryB3(t *testing.T) {
	if _, err := IssueNumber(0); err == nil {
		t.Fatal("expected 0 to be rejected")
	}
	if _, err := IssueNumber(1); err != nil {
		t.Fatalf("expected 1 accepted, got %v", err)
	}
	if _, err := IssueNumber(999999); err != nil {
		t.Fatalf("expected 999999 accepted, got %v", err)
	}
	if _, err := IssueNumber(1000000); err == nil {
		t.Fatal("expected 1000000 to be rejected")
	}
}
