// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package audit

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RunRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	runID, err := s.BeginRun(ctx)
	if err != nil {
		t.Fatal(err)
	}

	results := []RecordResult{
		{Pseudonym: "S1A2B3C4", ReportPath: "reports/101_report.png", Analyzed: true, Rendered: true, Delivered: true},
		{Pseudonym: "SDEADBEEF", Analyzed: true},
	}
	for _, r := range results {
		if err := s.RecordResult(ctx, runID, r); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.FinishRun(ctx, runID, Summary{Processed: 2, Rendered: 1, Delivered: 1}); err != nil {
		t.Fatal(err)
	}

	got, err := s.RunResults(ctx, runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0] != results[0] {
		t.Errorf("first result = %+v, want %+v", got[0], results[0])
	}
	if got[1].Delivered {
		t.Error("second record was never delivered")
	}
}

func TestStore_SchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	first, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopening existing ledger: %v", err)
	}
	second.Close()
}

func TestSummary_Total(t *testing.T) {
	s := Summary{Processed: 3, Failed: 2}
	if s.Total() != 5 {
		t.Errorf("Total = %d, want 5", s.Total())
	}
}
