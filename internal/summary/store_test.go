package summary

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestPutThenListAll(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if _, err := s.Put("evt-1", "patient discussed dosage"); err != nil {
		t.Fatalf("put: %v", err)
	}

	records, err := s.ListAll()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].EventID != "evt-1" {
		t.Fatalf("unexpected event id: %q", records[0].EventID)
	}
	if records[0].Summary != "patient discussed dosage" {
		t.Fatalf("unexpected summary: %q", records[0].Summary)
	}
	if records[0].Timestamp == "" {
		t.Fatalf("timestamp must be stamped at write time")
	}
}

func TestPutSameIDOverwrites(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if _, err := s.Put("evt-1", "first"); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if _, err := s.Put("evt-1", "second"); err != nil {
		t.Fatalf("second put: %v", err)
	}

	records, err := s.ListAll()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("overwrite must not grow the store, got %d records", len(records))
	}
	if records[0].Summary != "second" {
		t.Fatalf("expected latest summary, got %q", records[0].Summary)
	}
}

func TestPutCollapsesFilteredCharacters(t *testing.T) {
	// "a#b" and "ab" reduce to the same storage key, so the second write
	// replaces the first.
	s := NewFileStore(t.TempDir())

	if _, err := s.Put("a#b", "first"); err != nil {
		t.Fatalf("put a#b: %v", err)
	}
	if _, err := s.Put("ab", "second"); err != nil {
		t.Fatalf("put ab: %v", err)
	}

	records, err := s.ListAll()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("ids sharing a key must share a document, got %d records", len(records))
	}
	if records[0].EventID != "ab" || records[0].Summary != "second" {
		t.Fatalf("expected the later write to win, got %+v", records[0])
	}
}

func TestPutRejectsUnsafeIDs(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	for _, id := range []string{"../../etc", "a/b", `a\b`, "###", "...", ""} {
		if _, err := s.Put(id, "text"); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("id %q: expected ErrInvalidKey, got %v", id, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("rejected ids must write nothing, found %d files", len(entries))
	}
}

func TestListAllMissingDir(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "never-created"))

	records, err := s.ListAll()
	if err != nil {
		t.Fatalf("missing dir must not fail: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestListAllSkipsUnparsableDocuments(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	if _, err := s.Put("evt-1", "good"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatalf("write broken doc: %v", err)
	}

	records, err := s.ListAll()
	if err != nil {
		t.Fatalf("list must not fail on a bad document: %v", err)
	}
	if len(records) != 1 || records[0].EventID != "evt-1" {
		t.Fatalf("expected only the good record, got %+v", records)
	}
}
