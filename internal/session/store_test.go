package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sessions.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s, path
}

func TestUpsertThenGet(t *testing.T) {
	s, _ := newTestStore(t)

	want := Entry{PatientName: "Jane Doe", Medication: "Amoxicillin 500mg", Doctor: "Dr. Smith"}
	if err := s.Upsert("s1", want); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.Get("s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestUpsertOverwritesWithoutMerge(t *testing.T) {
	s, _ := newTestStore(t)

	first := Entry{PatientName: "Jane Doe", Medication: "Amoxicillin 500mg", Doctor: "Dr. Smith"}
	second := Entry{PatientName: "John Roe", Medication: "Ibuprofen 200mg"}
	if err := s.Upsert("s1", first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := s.Upsert("s1", second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := s.Get("s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != second {
		t.Fatalf("expected only the latest write, got %+v", got)
	}
	if got.Doctor != "" {
		t.Fatalf("old doctor value must not survive the overwrite: %q", got.Doctor)
	}
}

func TestUpsertKeepsOtherSessions(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.Upsert("s1", Entry{PatientName: "Jane"}); err != nil {
		t.Fatalf("upsert s1: %v", err)
	}
	if err := s.Upsert("s2", Entry{PatientName: "John"}); err != nil {
		t.Fatalf("upsert s2: %v", err)
	}

	got, err := s.Get("s1")
	if err != nil {
		t.Fatalf("get s1: %v", err)
	}
	if got.PatientName != "Jane" {
		t.Fatalf("s1 clobbered by s2 write: %+v", got)
	}
}

func TestGetMissingDocument(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Get("s1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetMissingKey(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.Upsert("other", Entry{PatientName: "Jane"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	_, err := s.Get("s1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCorruptDocumentSurfacesError(t *testing.T) {
	s, path := newTestStore(t)

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	if err := s.Upsert("s1", Entry{}); err == nil {
		t.Fatalf("upsert against corrupt document must fail")
	}
	if _, err := s.Get("s1"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("parse failure must not masquerade as not-found")
	}
}
