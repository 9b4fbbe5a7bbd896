// Package store implements the session document's atomic read-modify-write
// pattern (§4.B): every write lands through a same-directory temp file and
// an atomic rename, so readers never observe a partially-written document.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cpi-si/agent-tracker/internal/audit"
	"github.com/cpi-si/agent-tracker/internal/model"
	"github.com/cpi-si/agent-tracker/internal/validate"
)

// Store is the single source of truth for one session's JSON document.
// It is safe to construct many Store values against the same path from
// independent processes; the only promised coordination is last-writer-wins
// via atomic rename (§4.B crash/failure contract).
type Store struct {
	// Path is the canonicalized, already-validated session file path.
	Path string
	// Writer identifies this process/instance in the temp file name,
	// purely for diagnosability of orphaned temp files.
	Writer string
	audit  *audit.Logger
}

// New constructs a Store for an already-validated path.
func New(path, writer string, logger *audit.Logger) *Store {
	return &Store{Path: path, Writer: writer, audit: logger}
}

// Load reads the document if present; otherwise returns a freshly
// initialized, empty in-memory document with no side effect (§4.B load).
func (s *Store) Load(sessionID, started string) (*model.Document, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewDocument(sessionID, started), nil
		}
		return nil, model.WrapError(model.KindStoreWrite, "read session file", err)
	}

	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, model.WrapError(model.KindCorrupted, "parse session document", err)
	}
	return &doc, nil
}

// Save persists doc atomically to s.Path (§4.B save algorithm).
func (s *Store) Save(doc *model.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		s.logFailure("marshal document", err)
		return model.WrapError(model.KindStoreWrite, "marshal session document", err)
	}
	data = append(data, '\n')

	if err := s.atomicWrite(data); err != nil {
		s.logFailure("atomic write", err)
		return err
	}

	s.logAllowed()
	return nil
}

// atomicWrite implements steps 1-5 of §4.B's save algorithm: a
// same-directory temp file (owner-only permissions, writer-identifying
// prefix), one contiguous write, close, atomic rename, with cleanup of
// the temp file on any failure path.
func (s *Store) atomicWrite(data []byte) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return model.WrapError(model.KindStoreWrite, "create session directory", err)
	}

	prefix := fmt.Sprintf(".%s-", s.Writer)
	if s.Writer == "" {
		prefix = ".agent-tracker-"
	}

	tmp, err := os.CreateTemp(dir, prefix)
	if err != nil {
		return model.WrapError(model.KindStoreWrite, "create temp file", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		return model.WrapError(model.KindStoreWrite, "set temp file permissions", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return model.WrapError(model.KindStoreWrite, "write temp file", err)
	}

	if err := tmp.Close(); err != nil {
		return model.WrapError(model.KindStoreWrite, "close temp file", err)
	}

	if err := os.Rename(tmpPath, s.Path); err != nil {
		return model.WrapError(model.KindStoreWrite, "rename temp file onto target", err)
	}

	committed = true
	return nil
}

func (s *Store) logFailure(operation string, err error) {
	if s.audit == nil {
		return
	}
	s.audit.Log(audit.EventStoreWrite, audit.ResultFailure, operation, map[string]interface{}{
		"path":  s.Path,
		"error": err.Error(),
	})
}

func (s *Store) logAllowed() {
	if s.audit == nil {
		return
	}
	s.audit.Log(audit.EventStoreWrite, audit.ResultSuccess, "save session document", map[string]interface{}{
		"path": s.Path,
	})
}

// DefaultSessionPath builds the canonical session file location (§6.1)
// under projectRoot, validated via the containment layer.
func DefaultSessionPath(projectRoot, sessionID string) (string, error) {
	rel := filepath.Join("docs", "sessions", sessionID+"-pipeline.json")
	return validate.Path(rel, projectRoot)
}

// NarrativePath builds the path of the optional companion narrative file
// (§6.3), sharing the session directory with the JSON document.
func NarrativePath(projectRoot, sessionID string) (string, error) {
	rel := filepath.Join("docs", "sessions", sessionID+"-pipeline.md")
	return validate.Path(rel, projectRoot)
}
