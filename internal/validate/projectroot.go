package validate

import (
	"os"
	"path/filepath"

	"github.com/cpi-si/agent-tracker/internal/model"
)

// ProjectRoot walks upward from start looking for a ".git" or ".claude"
// marker directory, in the manner of the teacher's findProjectRoot
// ancestor walk, but failing loudly instead of degrading to start's own
// directory: §6.2 requires ErrNoProjectRoot when no marker is found.
// ".git" takes precedence over ".claude" when both occur at the same
// ancestor level.
func ProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", model.WrapError(model.KindNotFound, "resolve starting directory", err)
	}

	for {
		gitMarker := filepath.Join(dir, ".git")
		claudeMarker := filepath.Join(dir, ".claude")

		if info, statErr := os.Stat(gitMarker); statErr == nil && info.IsDir() {
			return dir, nil
		}
		if info, statErr := os.Stat(claudeMarker); statErr == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", model.NewErrorWithValue(model.KindNotFound, "no project root found (no .git or .claude ancestor)", start)
}

// CurrentProjectRoot discovers the project root from the process's
// current working directory.
func CurrentProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", model.WrapError(model.KindNotFound, "determine working directory", err)
	}
	return ProjectRoot(cwd)
}
