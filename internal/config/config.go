// Package config loads the tracker's optional TOML configuration —
// per-agent display metadata and validation thresholds — following the
// teacher's config-with-fallback convention: a missing or malformed file
// is never fatal, it just means the hardcoded defaults apply.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// AgentMeta is the static display information for one canonical agent.
type AgentMeta struct {
	Description string `toml:"description"`
	Emoji       string `toml:"emoji"`
}

// Limits holds operator-tunable validation thresholds (§4.J).
type Limits struct {
	MessageMaxBytes int `toml:"message_max_bytes"`
	IssueMin        int `toml:"issue_min"`
	IssueMax        int `toml:"issue_max"`
}

// Config is the fully-resolved configuration: defaults overlaid with
// whatever the TOML file (if any) supplied.
type Config struct {
	Agents map[string]AgentMeta `toml:"agents"`
	Limits Limits               `toml:"limits"`
}

type fileShape struct {
	Agents map[string]AgentMeta `toml:"agents"`
	Limits Limits               `toml:"limits"`
}

func defaults() *Config {
	return &Config{
		Agents: map[string]AgentMeta{
			"researcher":       {Description: "Explores the problem space and prior art", Emoji: "🔎"},
			"planner":          {Description: "Designs the approach and breaks down the work", Emoji: "🗺️"},
			"test-master":      {Description: "Authors the test suite ahead of implementation", Emoji: "🧪"},
			"implementer":      {Description: "Writes the production code", Emoji: "🛠️"},
			"reviewer":         {Description: "Reviews the implementation for correctness and style", Emoji: "👀"},
			"security-auditor": {Description: "Audits the change for security issues", Emoji: "🛡️"},
			"doc-master":       {Description: "Writes and updates documentation", Emoji: "📚"},
		},
		Limits: Limits{
			MessageMaxBytes: 10000,
			IssueMin:        1,
			IssueMax:        999999,
		},
	}
}

// StatusGlyph returns the display glyph for an agent status, independent
// of the config file (these are fixed, not operator-tunable).
func StatusGlyph(status string) string {
	switch status {
	case "completed":
		return "✅"
	case "failed":
		return "❌"
	case "started":
		return "⏳"
	default:
		return "⬜"
	}
}

// Path resolves the config file location: AGENT_TRACKER_CONFIG env var,
// else <project_root>/.claude/agent-tracker.toml.
func Path(projectRoot string) string {
	if p := os.Getenv("AGENT_TRACKER_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(projectRoot, ".claude", "agent-tracker.toml")
}

// Load reads the TOML file at path, overlaying it onto the hardcoded
// defaults. A missing or unreadable file falls back to defaults()
// without notice; a parse error also falls back to defaults(), and warn
// is invoked (if non-nil) with the reason, so the caller decides where
// the notice goes without config depending on the audit package.
func Load(path string, warn func(string)) *Config {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	var parsed fileShape
	if _, err := toml.Decode(string(data), &parsed); err != nil {
		if warn != nil {
			warn("malformed config at " + path + ", using defaults: " + err.Error())
		}
		return cfg
	}

	for name, meta := range parsed.Agents {
		cfg.Agents[name] = meta
	}
	if parsed.Limits.MessageMaxBytes > 0 {
		cfg.Limits.MessageMaxBytes = parsed.Limits.MessageMaxBytes
	}
	if parsed.Limits.IssueMin > 0 {
		cfg.Limits.IssueMin = parsed.Limits.IssueMin
	}
	if parsed.Limits.IssueMax > 0 {
		cfg.Limits.IssueMax = parsed.Limits.IssueMax
	}

	return cfg
}
