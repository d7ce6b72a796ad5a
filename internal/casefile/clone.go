package casefile

// Deep-copy helpers. Every pipeline operation is a pure function over
// the Case aggregate, so shared slice and map backing arrays between
// the input and output aggregates would break atomicity. Cloning is
// shallow for value fields and deep for anything reference-shaped.

// Clone returns a deep copy of the case.
func (c Case) Clone() Case {
	out := c
	out.Parties = cloneParties(c.Parties)
	out.PairContent = clonePairContent(c.PairContent)
	out.Analysis = c.Analysis.Clone()
	out.Scenarios = CloneScenarios(c.Scenarios)
	out.RiskAssessments = cloneAssessments(c.RiskAssessments)
	out.Original = c.Original.clone()
	return out
}

// Clone returns a deep copy of the analysis, or nil for nil.
func (a *Analysis) Clone() *Analysis {
	if a == nil {
		return nil
	}
	out := *a
	out.Issues = CloneIssues(a.Issues)
	return &out
}

// CloneIssues copies an issue list.
func CloneIssues(issues []Issue) []Issue {
	if issues == nil {
		return nil
	}
	out := make([]Issue, len(issues))
	copy(out, issues)
	return out
}

// CloneScenarios copies a scenario list.
func CloneScenarios(scenarios []Scenario) []Scenario {
	if scenarios == nil {
		return nil
	}
	out := make([]Scenario, len(scenarios))
	copy(out, scenarios)
	return out
}

func cloneParties(parties []Party) []Party {
	if parties == nil {
		return nil
	}
	out := make([]Party, len(parties))
	copy(out, parties)
	return out
}

func cloneAssessments(assessments []RiskAssessment) []RiskAssessment {
	if assessments == nil {
		return nil
	}
	out := make([]RiskAssessment, len(assessments))
	copy(out, assessments)
	return out
}

func clonePairContent(content map[PairKey]PairContent) map[PairKey]PairContent {
	if content == nil {
		return nil
	}
	out := make(map[PairKey]PairContent, len(content))
	for key, slot := range content {
		out[key] = PairContent{
			Analysis:  slot.Analysis.Clone(),
			Scenarios: CloneScenarios(slot.Scenarios),
		}
	}
	return out
}

func (o OriginalSnapshot) clone() OriginalSnapshot {
	out := OriginalSnapshot{Analysis: o.Analysis.Clone()}
	if o.Scenarios != nil {
		out.Scenarios = make(map[string][]Scenario, len(o.Scenarios))
		for id, set := range o.Scenarios {
			out.Scenarios[id] = CloneScenarios(set)
		}
	}
	return out
}
