package store

import (
	"path/filepath"
	"testing"

	"github.com/exo9planet/SubWallet-Extension/internal/swap"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "processes.db"), filepath.Join(dir, "processes.lock"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testProcess() Process {
	req := &swap.Request{
		Pair:       swap.Pair{From: "hydradx-LOCAL-DOT", To: "hydradx-LOCAL-USDT"},
		FromAmount: "10000000000",
		Address:    "14E5nqKAp3oAJcmzgZhUD2RcptBeUBScxKHgJKU4HPNcKVf3",
	}
	quote := &swap.Quote{Pair: req.Pair, FromAmount: req.FromAmount, ToAmount: "5000000000", Provider: "hydradx"}
	path := swap.NewPath("hydradx")
	path.Append(swap.Step{Name: "Swap", Type: swap.StepTypeSubmit, Submit: &swap.SubmitMeta{Quote: quote}}, quote.Fee)
	return NewProcess(req, quote, path)
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	process := testProcess()

	if err := s.Save(process); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := s.Get(process.ProcessID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if loaded.Status != StatusPlanned {
		t.Fatalf("expected planned status, got %s", loaded.Status)
	}
	if loaded.Path == nil || len(loaded.Path.Steps) != 2 {
		t.Fatalf("path did not round-trip: %+v", loaded.Path)
	}
	if loaded.Request.FromAmount != "10000000000" {
		t.Fatalf("request did not round-trip: %+v", loaded.Request)
	}
}

func TestSaveUpserts(t *testing.T) {
	s := openTestStore(t)
	process := testProcess()

	if err := s.Save(process); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	process.Touch(StatusValidated)
	if err := s.Save(process); err != nil {
		t.Fatalf("second Save returned error: %v", err)
	}

	loaded, err := s.Get(process.ProcessID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if loaded.Status != StatusValidated {
		t.Fatalf("expected validated status after upsert, got %s", loaded.Status)
	}

	all, err := s.List("", 10)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("upsert must not duplicate rows, got %d", len(all))
	}
}

func TestSaveRejectsMissingID(t *testing.T) {
	s := openTestStore(t)
	process := testProcess()
	process.ProcessID = ""
	if err := s.Save(process); err == nil {
		t.Fatal("expected an error for a missing process id")
	}
}

func TestGetUnknownProcess(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get("proc_missing"); err == nil {
		t.Fatal("expected an error for an unknown process id")
	}
}

func TestListFiltersByStatus(t *testing.T) {
	s := openTestStore(t)

	first := testProcess()
	if err := s.Save(first); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	second := testProcess()
	second.Touch(StatusSubmitted)
	if err := s.Save(second); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	planned, err := s.List(StatusPlanned, 10)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(planned) != 1 || planned[0].ProcessID != first.ProcessID {
		t.Fatalf("unexpected planned processes: %+v", planned)
	}

	submitted, err := s.List(StatusSubmitted, 10)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(submitted) != 1 || submitted[0].ProcessID != second.ProcessID {
		t.Fatalf("unexpected submitted processes: %+v", submitted)
	}
}
