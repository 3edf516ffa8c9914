package summary

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrInvalidKey is returned when an event id cannot be turned into a safe
// storage key.
var ErrInvalidKey = errors.New("invalid event id")

// Record is one stored conversation summary. Wire casing matches the
// consumer: eventId / summary / timestamp.
type Record struct {
	EventID   string `json:"eventId"`
	Summary   string `json:"summary"`
	Timestamp string `json:"timestamp"`
}

// FileStore writes one JSON document per event id inside dir. A second Put
// with the same id overwrites the document in place.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Put stores summaryText under eventID. The timestamp is stamped here from
// the store's own clock; caller-supplied timestamps are ignored.
func (s *FileStore) Put(eventID, summaryText string) (Record, error) {
	key, err := sanitizeKey(eventID)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		EventID:   eventID,
		Summary:   summaryText,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return Record{}, fmt.Errorf("marshal summary: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Record{}, fmt.Errorf("ensure summaries dir: %w", err)
	}

	target := filepath.Join(s.dir, key+".json")
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return Record{}, fmt.Errorf("write summary: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return Record{}, fmt.Errorf("rename summary: %w", err)
	}
	return rec, nil
}

// ListAll returns every readable summary document. Unparsable documents are
// logged and skipped; enumeration order follows the filesystem and is not
// guaranteed stable.
func (s *FileStore) ListAll() ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read summaries dir: %w", err)
	}

	var records []Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("failed to read summary %s: %v", entry.Name(), err)
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			log.Printf("skipping unparsable summary %s: %v", entry.Name(), err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// sanitizeKey reduces an event id to a filesystem-safe token. Anything that
// could escape the store directory is rejected outright; remaining
// characters are filtered to a conservative set. Ids that differ only in
// filtered characters ("a#b" and "ab") therefore share one storage key and
// the later write wins.
func sanitizeKey(eventID string) (string, error) {
	if strings.ContainsAny(eventID, "/\\") || strings.Contains(eventID, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, eventID)
	}
	var b strings.Builder
	for _, r := range eventID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		}
	}
	key := strings.Trim(b.String(), ".")
	if key == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, eventID)
	}
	return key, nil
}
