package benchstore

import (
	"path/filepath"
	"testing"
	"time"
)

func sampleRun(started time.Time, mode string, rate float64) *Run {
	return &Run{
		Started:    started,
		Mode:       mode,
		Slots:      8192,
		Messages:   500_000_000,
		ProdCore:   2,
		ConsCore:   3,
		ProdNanos:  12_345_678_000,
		ConsNanos:  12_345_999_000,
		ProdMisses: 1041,
		ConsMisses: 887,
		MsgsPerSec: rate,
	}
}

// TestStoreRoundTrip confirms that recorded runs come back field-for-field
// and that RecentRuns orders newest first.
func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	base := time.Now()
	for i := 0; i < 3; i++ {
		r := sampleRun(base.Add(time.Duration(i)*time.Second), "int", float64(40_000_000+i))
		if err := s.RecordRun(r); err != nil {
			t.Fatalf("RecordRun %d: %v", i, err)
		}
		if r.ID == 0 {
			t.Fatalf("RecordRun %d: ID not assigned", i)
		}
	}

	runs, err := s.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("RecentRuns returned %d rows, want 2", len(runs))
	}
	if runs[0].ID <= runs[1].ID {
		t.Fatalf("rows not newest-first: ids %d, %d", runs[0].ID, runs[1].ID)
	}

	got := runs[0]
	if got.Mode != "int" || got.Slots != 8192 || got.Messages != 500_000_000 {
		t.Fatalf("geometry fields mangled: %+v", got)
	}
	if got.ProdCore != 2 || got.ConsCore != 3 {
		t.Fatalf("core fields mangled: %+v", got)
	}
	if got.ProdMisses != 1041 || got.ConsMisses != 887 {
		t.Fatalf("miss fields mangled: %+v", got)
	}
	if got.MsgsPerSec != 40_000_002 {
		t.Fatalf("MsgsPerSec = %f, want 40000002", got.MsgsPerSec)
	}
	if got.Started.UnixNano() != base.Add(2*time.Second).UnixNano() {
		t.Fatalf("Started timestamp mangled: %v", got.Started)
	}
}

// TestStorePersistsAcrossReopen confirms the history survives a close and
// reopen of the same file.
func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.RecordRun(sampleRun(time.Now(), "blob", 35_000_000)); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	runs, err := s2.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns after reopen: %v", err)
	}
	if len(runs) != 1 || runs[0].Mode != "blob" {
		t.Fatalf("history lost across reopen: %+v", runs)
	}
}

// TestRecentRunsEmptyAndClamped confirms the empty store and the
// limit-exceeds-rows cases come back clean.
func TestRecentRunsEmptyAndClamped(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	runs, err := s.RecentRuns(5)
	if err != nil {
		t.Fatalf("RecentRuns on empty store: %v", err)
	}
	if runs != nil {
		t.Fatalf("empty store returned %d rows", len(runs))
	}

	if runs, _ = s.RecentRuns(0); runs != nil {
		t.Fatal("limit 0 should return nothing")
	}

	if err := s.RecordRun(sampleRun(time.Now(), "int", 1)); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	runs, err = s.RecentRuns(100)
	if err != nil {
		t.Fatalf("RecentRuns with oversized limit: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("oversized limit returned %d rows, want 1", len(runs))
	}
}
