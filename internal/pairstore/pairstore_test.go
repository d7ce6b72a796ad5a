package pairstore

import (
	"testing"

	"parley/internal/casefile"
)

const (
	keyA = casefile.PairKey("us|harbor")
	keyB = casefile.PairKey("us|council")
)

func seededCase() casefile.Case {
	c := casefile.New()
	c.Parties = []casefile.Party{
		{ID: "us", Name: "Ferry Co", IsPrimary: true, IsUserSide: true},
		{ID: "harbor", Name: "Harbor Authority", IsPrimary: true},
		{ID: "council", Name: "Town Council"},
	}
	c.ActivePair = keyA
	return c
}

func TestPairIsolationRoundTrip(t *testing.T) {
	c := seededCase()
	analysisX := &casefile.Analysis{ID: "ax", AgreementMap: "shared dock use"}
	c = SaveAnalysis(c, keyA, analysisX)

	c = Select(c, keyB)
	if c.Analysis != nil {
		t.Fatalf("first visit to a pair should present an empty slot, got %+v", c.Analysis)
	}
	if len(c.Parties) != 3 {
		t.Fatalf("pair switch truncated the party list: %d", len(c.Parties))
	}

	c = Select(c, keyA)
	if c.Analysis == nil || c.Analysis.ID != "ax" || c.Analysis.AgreementMap != "shared dock use" {
		t.Fatalf("saved analysis did not survive the pair round trip: %+v", c.Analysis)
	}
	if len(c.Parties) != 3 {
		t.Fatalf("party list must never shrink, got %d", len(c.Parties))
	}
}

func TestSelectSameKeyIsNoOp(t *testing.T) {
	c := seededCase()
	c.Analysis = &casefile.Analysis{ID: "live"}
	out := Select(c, keyA)
	if out.Analysis == nil || out.Analysis.ID != "live" {
		t.Fatalf("re-selecting the active pair must not swap content")
	}
}

func TestSelectDropsUnsavedEdits(t *testing.T) {
	c := seededCase()
	// Live edit without a save.
	c.Analysis = &casefile.Analysis{ID: "unsaved"}
	c = Select(c, keyB)
	c = Select(c, keyA)
	if c.Analysis != nil {
		t.Fatalf("switching away without save must not preserve in-flight edits, got %+v", c.Analysis)
	}
}

func TestSelectClearsScenarioSelection(t *testing.T) {
	c := seededCase()
	c = SaveScenarios(c, keyA, []casefile.Scenario{{ID: "i1-1", IssueID: "i1"}})
	c.SelectedScenarioID = "i1-1"
	c = Select(c, keyB)
	if c.SelectedScenarioID != "" {
		t.Fatalf("selection must not survive a pair switch")
	}
}

func TestSaveWritesThroughToLiveFields(t *testing.T) {
	c := seededCase()
	scenarios := []casefile.Scenario{{ID: "i1-1", IssueID: "i1", Kind: casefile.KindAgreementArea}}
	c = SaveScenarios(c, keyA, scenarios)
	if len(c.Scenarios) != 1 {
		t.Fatalf("save must update the live scenario list")
	}
	if len(c.PairContent[keyA].Scenarios) != 1 {
		t.Fatalf("save must update the keyed slot")
	}
	// The stored copy must not alias the caller's slice.
	scenarios[0].Description = "mutated"
	if c.Scenarios[0].Description != "" || c.PairContent[keyA].Scenarios[0].Description != "" {
		t.Fatalf("saved content aliases the caller's slice")
	}
}
