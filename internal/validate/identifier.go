package validate

import (
	"strings"
	"unicode/utf8"

	"github.com/cpi-si/agent-tracker/internal/model"
)

const (
	agentNameMaxCodePoints = 255
	// DefaultMessageMaxBytes is the fallback limit when no config override applies.
	DefaultMessageMaxBytes = 10000
	issueMin               = 1
	issueMax               = 999999
)

func isIdentifierRune(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z':
		return true
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	default:
		return false
	}
}

// AgentName validates syntax only (§4.A.2): non-empty, <= 255 code
// points, matches [A-Za-z0-9_-]+, no NUL. Set membership (§3.3) is a
// separate check left to the caller.
func AgentName(name string) (string, error) {
	if name == "" {
		return "", model.NewError(model.KindInvalidInput, "agent name must not be empty")
	}
	if utf8.RuneCountInString(name) > agentNameMaxCodePoints {
		return "", model.NewErrorWithValue(model.KindInvalidInput, "agent name exceeds 255 code points", name)
	}
	for _, r := range name {
		if !isIdentifierRune(r) {
			return "", model.NewErrorWithValue(model.KindInvalidInput, "agent name contains invalid character", name)
		}
	}
	return name, nil
}

// Message validates a free-form string against limit bytes (UTF-8
// encoded length) and rejects ASCII control characters other than
// tab/newline/CR (§4.A.3).
func Message(s string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultMessageMaxBytes
	}
	if len(s) > limit {
		return "", model.NewError(model.KindInvalidInput, "message exceeds maximum length")
	}
	for _, r := range s {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return "", model.NewError(model.KindInvalidInput, "message contains a disallowed control character")
		}
		if r == 0x7f {
			return "", model.NewError(model.KindInvalidInput, "message contains a disallowed control character")
		}
	}
	return s, nil
}

// IssueNumber validates n is within [1, 999_999] (§4.A.4).
func IssueNumber(n int) (int, error) {
	return IssueNumberRange(n, issueMin, issueMax)
}

// IssueNumberRange validates n against an operator-tunable range
// (§4.J limits.issue_min / issue_max).
func IssueNumberRange(n, min, max int) (int, error) {
	if n < min || n > max {
		return 0, model.NewError(model.KindInvalidInput, "issue number out of range")
	}
	return n, nil
}

// ToolsUsed validates each tool identifier as a short, control-character
// free string; empty slices and nil are both accepted as "none provided".
func ToolsUsed(tools []string) ([]string, error) {
	if len(tools) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(tools))
	for _, t := range tools {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, err := Message(t, 256); err != nil {
			return nil, model.NewErrorWithValue(model.KindInvalidInput, "invalid tool identifier", t)
		}
		out = append(out, t)
	}
	return out, nil
}
