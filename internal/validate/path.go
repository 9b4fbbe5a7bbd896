package validate

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpi-si/agent-tracker/internal/model"
)

// systemBlocklist is rejected regardless of the test-mode bypass (§4.A.1).
// It never shrinks or grows based on test mode; only the *allowed* prefix
// set (projectRoot, plus os.TempDir() under test mode) ever widens.
var systemBlocklist = []string{
	"/etc", "/var/log", "/usr", "/bin", "/sbin",
	"/boot", "/sys", "/proc", "/dev", "/lib", "/lib64",
}

// IsTestMode reports whether PYTEST_CURRENT_TEST is set, the carried-over
// env var name specified by §6.4 for the test-mode path bypass.
func IsTestMode() bool {
	return os.Getenv("PYTEST_CURRENT_TEST") != ""
}

// Path resolves and validates a user-supplied path against the
// containment rules of §4.A.1, returning the canonical absolute path on
// success.
func Path(input, projectRoot string) (string, error) {
	if input == "" {
		return "", model.NewError(model.KindInvalidInput, "path must not be empty")
	}

	if containsDotDot(input) {
		return "", model.NewErrorWithValue(model.KindPathRejected, "path contains '..' component", input)
	}

	if decoded, err := url.QueryUnescape(input); err == nil && decoded != input {
		if containsDotDot(decoded) {
			return "", model.NewErrorWithValue(model.KindPathRejected, "percent-decoded path contains '..' component", input)
		}
		if filepath.IsAbs(decoded) && matchesBlocklist(filepath.Clean(decoded)) {
			return "", model.NewErrorWithValue(model.KindPathRejected, "percent-decoded path matches system-root blocklist", input)
		}
	}

	abs := input
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(projectRoot, abs)
	}
	abs = filepath.Clean(abs)

	resolved, err := resolveSymlinkSafe(abs)
	if err != nil {
		return "", err
	}

	if matchesBlocklist(resolved) {
		return "", model.NewErrorWithValue(model.KindPathRejected, "path matches system-root blocklist", resolved)
	}

	allowedRoots := []string{filepath.Clean(projectRoot)}
	if IsTestMode() {
		allowedRoots = append(allowedRoots, filepath.Clean(os.TempDir()))
	}

	if !underAnyRoot(resolved, allowedRoots) {
		return "", model.NewErrorWithValue(model.KindPathRejected, "path escapes project root", resolved)
	}

	return resolved, nil
}

func containsDotDot(p string) bool {
	for _, part := range strings.Split(filepath.ToSlash(p), "/") {
		if part == ".." {
			return true
		}
	}
	return false
}

// resolveSymlinkSafe walks every component of abs with Lstat and rejects
// the path outright if any existing component along the way is itself a
// symlink — §4.A.1 disallows all symlinks for session files, even ones
// that resolve back inside the project root. Since no symlink is ever
// followed, the cleaned abs is returned unchanged as the canonical path.
func resolveSymlinkSafe(abs string) (string, error) {
	components := strings.Split(filepath.ToSlash(abs), "/")

	cursor := "/"
	if len(components) > 0 && components[0] == "" {
		components = components[1:]
	}

	for _, c := range components {
		if c == "" {
			continue
		}
		next := filepath.Join(cursor, c)
		info, err := os.Lstat(next)
		if err != nil {
			if os.IsNotExist(err) {
				cursor = next
				continue
			}
			return "", model.WrapError(model.KindPathRejected, "stat path component", err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return "", model.NewErrorWithValue(model.KindPathRejected, "path contains a symlink component", next)
		}
		cursor = next
	}

	return cursor, nil
}

func matchesBlocklist(resolved string) bool {
	for _, root := range systemBlocklist {
		if underRoot(resolved, root) {
			return true
		}
	}
	return false
}

func underAnyRoot(resolved string, roots []string) bool {
	for _, root := range roots {
		if underRoot(resolved, root) {
			return true
		}
	}
	return false
}

func underRoot(resolved, root string) bool {
	resolved = filepath.Clean(resolved)
	root = filepath.Clean(root)
	if resolved == root {
		return true
	}
	return strings.HasPrefix(resolved, root+string(filepath.Separator))
}
