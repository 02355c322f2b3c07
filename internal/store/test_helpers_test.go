package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/rtikit/internal/fom"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestModel writes a small model and returns its fingerprint.
func createTestModel(t *testing.T, s *Store, fingerprint string) {
	t.Helper()
	m := Model{
		Fingerprint: fingerprint,
		Declarations: &fom.Declarations{
			Module: "TestFOM",
			Basic:  []fom.BasicDecl{{Name: "Int8", Size: 8, Endian: "Big"}},
		},
	}
	if err := s.WriteModel(context.Background(), m); err != nil {
		t.Fatalf("WriteModel() failed: %v", err)
	}
}

// createTestFederation writes a federation backed by a fresh test model.
func createTestFederation(t *testing.T, s *Store, id, name string, seq int64) Federation {
	t.Helper()
	createTestModel(t, s, "fp-"+name)
	f := Federation{
		ID:                 id,
		Name:               name,
		TimeImplementation: "HLAfloat64Time",
		ModelFingerprint:   "fp-" + name,
		Seq:                seq,
	}
	inserted, err := s.WriteFederation(context.Background(), f)
	if err != nil {
		t.Fatalf("WriteFederation() failed: %v", err)
	}
	if !inserted {
		t.Fatalf("WriteFederation() inserted = false, want true")
	}
	return f
}
