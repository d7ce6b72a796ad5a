package pipeline

import (
	"errors"
	"testing"
	"time"

	"parley/internal/casefile"
)

// fakeStore records every write-through so tests can assert persistence
// without a real database.
type fakeStore struct {
	saves   []casefile.Case
	cleared int
	failOn  error
}

func (f *fakeStore) Save(c casefile.Case) error {
	if f.failOn != nil {
		return f.failOn
	}
	f.saves = append(f.saves, c)
	return nil
}

func (f *fakeStore) Clear() error {
	if f.failOn != nil {
		return f.failOn
	}
	f.cleared++
	return nil
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *fakeStore) {
	t.Helper()
	fs := &fakeStore{}
	d := NewDispatcher(casefile.New(), fs, WithClock(func() time.Time { return t0 }))
	return d, fs
}

func TestDispatcherPersistsAfterEveryMutation(t *testing.T) {
	d, fs := newTestDispatcher(t)
	if err := d.SetRawContent("case text"); err != nil {
		t.Fatalf("set raw content: %v", err)
	}
	if err := d.SetParties(testParties()); err != nil {
		t.Fatalf("set parties: %v", err)
	}
	if err := d.CommitGeneratedAnalysis("map", "interests", "## Access\ndesc"); err != nil {
		t.Fatalf("commit analysis: %v", err)
	}
	if len(fs.saves) != 3 {
		t.Fatalf("expected a write-through per mutation, got %d", len(fs.saves))
	}
	last := fs.saves[len(fs.saves)-1]
	if last.Analysis == nil || len(last.Analysis.Issues) != 1 {
		t.Fatalf("persisted case should carry the committed analysis: %+v", last.Analysis)
	}
}

func TestDispatcherKeepsPriorStateOnPersistFailure(t *testing.T) {
	d, fs := newTestDispatcher(t)
	if err := d.SetRawContent("original"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	fs.failOn = errors.New("disk full")
	if err := d.SetRawContent("replacement"); err == nil {
		t.Fatalf("expected persist failure to surface")
	}
	if d.Case().RawContent != "original" {
		t.Fatalf("failed persist must leave the prior case in place, got %q", d.Case().RawContent)
	}
}

func TestDispatcherRejectedOpDoesNotPersist(t *testing.T) {
	d, fs := newTestDispatcher(t)
	if err := d.SetRawContent("case text"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	before := len(fs.saves)
	if err := d.SetRiskAssessment(casefile.RiskAssessment{ScenarioID: "ghost"}); !errors.Is(err, ErrUnknownScenario) {
		t.Fatalf("expected ErrUnknownScenario, got %v", err)
	}
	if len(fs.saves) != before {
		t.Fatalf("rejected operation must not write through")
	}
}

func TestDispatcherClearWipesCaseAndStore(t *testing.T) {
	d, fs := newTestDispatcher(t)
	if err := d.SetRawContent("case text"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := d.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if fs.cleared != 1 {
		t.Fatalf("clear must delete the persisted representation")
	}
	if d.Case().RawContent != "" {
		t.Fatalf("clear must wipe the in-memory case")
	}
}

func TestDispatcherCaseReturnsCopy(t *testing.T) {
	d, _ := newTestDispatcher(t)
	if err := d.SetRawContent("case text"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := d.SetParties(testParties()); err != nil {
		t.Fatalf("parties: %v", err)
	}
	got := d.Case()
	got.Parties[0].Name = "mutated"
	if d.Case().Parties[0].Name != "Ferry Co" {
		t.Fatalf("Case() must return a defensive copy")
	}
}
