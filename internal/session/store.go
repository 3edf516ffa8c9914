package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned by Get when no data exists for a session. Wrap
// messages distinguish a missing document from a missing key.
var ErrNotFound = errors.New("session data not found")

// Entry is the subset of the latest extraction kept per session.
type Entry struct {
	PatientName string `json:"patient_name"`
	Medication  string `json:"medication"`
	Doctor      string `json:"doctor"`
}

// FileStore keeps every session in a single JSON document mapping session id
// to Entry. Writes are whole-document: load, mutate, rewrite. The mutex
// serializes access within this process only; concurrent processes still
// race last-writer-wins.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Upsert sets or overwrites the entry for sessionID. Last write wins; no
// history is kept.
func (s *FileStore) Upsert(sessionID string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.loadUnlocked()
	if err != nil {
		return err
	}
	sessions[sessionID] = entry
	return s.saveUnlocked(sessions)
}

// Get returns the latest entry for sessionID.
func (s *FileStore) Get(sessionID string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return Entry{}, fmt.Errorf("no sessions recorded yet: %w", ErrNotFound)
	}
	sessions, err := s.loadUnlocked()
	if err != nil {
		return Entry{}, err
	}
	entry, ok := sessions[sessionID]
	if !ok {
		return Entry{}, fmt.Errorf("session %q: %w", sessionID, ErrNotFound)
	}
	return entry, nil
}

func (s *FileStore) loadUnlocked() (map[string]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Entry{}, nil
		}
		return nil, fmt.Errorf("read sessions file: %w", err)
	}
	if len(data) == 0 {
		return map[string]Entry{}, nil
	}
	var sessions map[string]Entry
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("parse sessions file: %w", err)
	}
	if sessions == nil {
		sessions = map[string]Entry{}
	}
	return sessions, nil
}

func (s *FileStore) saveUnlocked(sessions map[string]Entry) error {
	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sessions: %w", err)
	}
	// Write to temp file then rename so readers never see a half-written doc
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write sessions file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename sessions file: %w", err)
	}
	return nil
}
