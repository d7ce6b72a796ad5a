// Package pairstore scopes the derived case content to the selected
// pair of primary parties. Each pair key owns its own analysis and
// scenario set, so the user can compare several counterpart framings of
// the same raw case without them overwriting each other.
package pairstore

import "parley/internal/casefile"

// Select makes pairKey the active pair and swaps the case's live
// analysis and scenarios to whatever that pair has stored, creating an
// empty slot on first visit. Selecting the already-active key only
// re-affirms it. There is no implicit flush: the previous pair's
// in-flight edits are preserved only if they were saved before the
// switch. The party list is never touched by a pair switch.
func Select(c casefile.Case, pairKey casefile.PairKey) casefile.Case {
	out := c.Clone()
	if pairKey == out.ActivePair {
		return out
	}
	if out.PairContent == nil {
		out.PairContent = make(map[casefile.PairKey]casefile.PairContent)
	}
	slot, ok := out.PairContent[pairKey]
	if !ok {
		slot = casefile.PairContent{}
		out.PairContent[pairKey] = slot
	}
	out.ActivePair = pairKey
	out.Analysis = slot.Analysis.Clone()
	out.Scenarios = casefile.CloneScenarios(slot.Scenarios)
	// The selection referenced the previous pair's scenario list.
	out.SelectedScenarioID = ""
	return out
}

// SaveAnalysis writes the analysis through to both the keyed slot and
// the live field. The current party list is carried through untouched.
func SaveAnalysis(c casefile.Case, pairKey casefile.PairKey, a *casefile.Analysis) casefile.Case {
	out := c.Clone()
	if out.PairContent == nil {
		out.PairContent = make(map[casefile.PairKey]casefile.PairContent)
	}
	slot := out.PairContent[pairKey]
	slot.Analysis = a.Clone()
	out.PairContent[pairKey] = slot
	out.Analysis = a.Clone()
	return out
}

// SaveScenarios writes the scenario list through to both the keyed slot
// and the live field.
func SaveScenarios(c casefile.Case, pairKey casefile.PairKey, scenarios []casefile.Scenario) casefile.Case {
	out := c.Clone()
	if out.PairContent == nil {
		out.PairContent = make(map[casefile.PairKey]casefile.PairContent)
	}
	slot := out.PairContent[pairKey]
	slot.Scenarios = casefile.CloneScenarios(scenarios)
	out.PairContent[pairKey] = slot
	out.Scenarios = casefile.CloneScenarios(scenarios)
	return out
}
