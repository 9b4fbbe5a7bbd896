package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg := Load("/nonexistent/agent-tracker.toml", nil)
	if cfg.Limits.MessageMaxBytes != 10000 {
		t.Fatalf("expected default message_max_bytes, got %d", cfg.Limits.MessageMaxBytes)
	}
	if cfg.Agents["researcher"].Emoji == "" {
		t.Fatal("expected a default emoji for researcher")
	}
}

func TestLoad_MalformedFileFallsBackAndWarns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agent-tracker.toml")
	if err := os.WriteFile(path, []byte("this is not [valid toml"), 0644); err != nil {
		t.Fatal(err)
	}

	var warned string
	cfg := Load(path, func(msg string) { warned = msg })
	if cfg.Limits.MessageMaxBytes != 10000 {
		t.Fatalf("expected fallback to defaults, got %d", cfg.Limits.MessageMaxBytes)
	}
	if warned == "" {
		t.Fatal("expected warn callback to be invoked")
	}
}

func TestLoad_OverridesAgentDescriptionAndLimits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agent-tracker.toml")
	content := "" +
		"[agents.researcher]\n" +
		"description = \"Custom researcher description\"\n" +
		"emoji = \"🕵️\"\n" +
		"\n" +
		"[limits]\n" +
		"message_max_bytes = 500\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Load(path, nil)
	if cfg.Agents["researcher"].Description != "Custom researcher description" {
		t.Fatalf("expected overridden description, got %q", cfg.Agents["researcher"].Description)
	}
	if cfg.Limits.MessageMaxBytes != 500 {
		t.Fatalf("expected overridden message_max_bytes=500, got %d", cfg.Limits.MessageMaxBytes)
	}
	// Untouched agents still carry their hardcoded defaults.
	if cfg.Agents["planner"].Emoji == "" {
		t.Fatal("expected planner to retain its default emoji")
	}
	// Untouched limits fields still carry their hardcoded defaults.
	if cfg.Limits.IssueMax != 999999 {
		t.Fatalf("expected default issue_max to survive a partial [limits] override, got %d", cfg.Limits.IssueMax)
	}
}

func TestPath_EnvVarOverridesDefault(t *testing.T) {
	t.Setenv("AGENT_TRACKER_CONFIG", "/custom/path.toml")
	if got := Path("/some/root"); got != "/custom/path.toml" {
		t.Fatalf("expected env override, got %q", got)
	}
}

func TestPath_DefaultsUnderDotClaude(t *testing.T) {
	os.Unsetenv("AGENT_TRACKER_CONFIG")
	got := Path("/some/root")
	expected := filepath.Join("/some/root", ".claude", "agent-tracker.toml")
	if got != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}
}

func TestStatusGlyph(t *testing.T) {
	cases := map[string]string{
		"completed": "✅",
		"failed":    "❌",
		"started":   "⏳",
		"":          "⬜",
		"bogus":     "⬜",
	}
	for status, want := range cases {
		if got := StatusGlyph(status); got != want {
			t.Fatalf("status %q: expected %q, got %q", status, want, got)
		}
	}
}
