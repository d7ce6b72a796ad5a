// internal/casefile/types.go
//
// Core data model for a negotiation case. A Case is the single mutable
// root the rest of the application reads and writes: the raw case text,
// the identified parties, and the derived pipeline artifacts (analysis,
// scenarios, risk assessments) scoped to the currently selected pair of
// primary parties.

package casefile

import (
	"time"

	"parley/internal/stage"
)

// Party is one negotiating party identified from the raw case text.
// Exactly two parties are primary; the primary at index 0 is the user's
// own side. Identity is by case-insensitive name.
type Party struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsPrimary   bool   `json:"is_primary"`
	IsUserSide  bool   `json:"is_user_side"`
}

// Issue is one negotiable component of the case. Name and description
// are rewritten freely by regeneration; the four boundary fields and
// the priority are hand-entered negotiation judgments and must survive
// any regeneration.
type Issue struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	RedlineA    string `json:"redline_a,omitempty"`
	BottomlineA string `json:"bottomline_a,omitempty"`
	RedlineB    string `json:"redline_b,omitempty"`
	BottomlineB string `json:"bottomline_b,omitempty"`
	Priority    int    `json:"priority"`
}

// ScenarioKind names one of the five canonical outcome bands for an
// issue, from party A's redline violated through the agreement zone to
// party B's redline violated.
type ScenarioKind string

const (
	KindRedlineViolatedA    ScenarioKind = "redline_violated_A"
	KindBottomlineViolatedA ScenarioKind = "bottomline_violated_A"
	KindAgreementArea       ScenarioKind = "agreement_area"
	KindBottomlineViolatedB ScenarioKind = "bottomline_violated_B"
	KindRedlineViolatedB    ScenarioKind = "redline_violated_B"
)

// KindOrder is the fixed vocabulary in its canonical order.
var KindOrder = [5]ScenarioKind{
	KindRedlineViolatedA,
	KindBottomlineViolatedA,
	KindAgreementArea,
	KindBottomlineViolatedB,
	KindRedlineViolatedB,
}

// Scenario is one outcome band for an issue. At steady state each issue
// has exactly five, one per kind, with deterministic ids
// "{issueID}-{1..5}" in input order.
type Scenario struct {
	ID          string       `json:"id"`
	IssueID     string       `json:"issue_id"`
	Kind        ScenarioKind `json:"kind"`
	Description string       `json:"description"`
}

// Analysis is the first derived artifact: the agreement map and
// interest map texts plus the negotiable issue list.
type Analysis struct {
	ID           string    `json:"id"`
	AgreementMap string    `json:"agreement_map"`
	InterestMap  string    `json:"interest_map"`
	Issues       []Issue   `json:"issues"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RiskAssessment is the current assessment for one scenario. Older
// assessments for the same scenario are replaced, never accumulated.
type RiskAssessment struct {
	ID                  string `json:"id"`
	ScenarioID          string `json:"scenario_id"`
	Category            string `json:"category"`
	ShortTermImpact     string `json:"short_term_impact"`
	ShortTermMitigation string `json:"short_term_mitigation"`
	ShortTermRiskAfter  string `json:"short_term_risk_after"`
	LongTermImpact      string `json:"long_term_impact"`
	LongTermMitigation  string `json:"long_term_mitigation"`
	LongTermRiskAfter   string `json:"long_term_risk_after"`
	OverallAssessment   string `json:"overall_assessment"`
}

// PairKey identifies an ordered pair of primary parties.
type PairKey string

// NewPairKey builds the key for the ordered primary pair.
func NewPairKey(party1ID, party2ID string) PairKey {
	return PairKey(party1ID + "|" + party2ID)
}

// PairContent is the per-pair slice of the case: the analysis and
// scenario set produced while that pair was selected.
type PairContent struct {
	Analysis  *Analysis  `json:"analysis,omitempty"`
	Scenarios []Scenario `json:"scenarios,omitempty"`
}

// OriginalSnapshot holds the first-captured copy of the analysis and of
// each issue's scenario set. It exists only for diff display against
// later edits and is never mutated after first write. Scenario
// snapshots are seeded per issue, so issues reconciled at different
// times each get their own baseline.
type OriginalSnapshot struct {
	Analysis  *Analysis             `json:"analysis,omitempty"`
	Scenarios map[string][]Scenario `json:"scenarios,omitempty"`
}

// Case is the root aggregate. Analysis and Scenarios are a projection
// of the active pair's stored content; RiskAssessments are case-wide.
type Case struct {
	RawContent         string                  `json:"raw_content"`
	Parties            []Party                 `json:"parties,omitempty"`
	ActivePair         PairKey                 `json:"active_pair,omitempty"`
	PairContent        map[PairKey]PairContent `json:"pair_content,omitempty"`
	Analysis           *Analysis               `json:"analysis,omitempty"`
	Scenarios          []Scenario              `json:"scenarios,omitempty"`
	SelectedScenarioID string                  `json:"selected_scenario_id,omitempty"`
	RiskAssessments    []RiskAssessment        `json:"risk_assessments,omitempty"`
	Recalculation      stage.Status            `json:"recalculation_status"`
	Original           OriginalSnapshot        `json:"original_snapshot"`
}

// New returns an empty case with an all-fresh freshness vector.
func New() Case {
	return Case{Recalculation: stage.NewStatus()}
}

// IssueByID returns the issue with the given id from the current
// analysis, if present.
func (c Case) IssueByID(id string) (Issue, bool) {
	if c.Analysis == nil {
		return Issue{}, false
	}
	for _, is := range c.Analysis.Issues {
		if is.ID == id {
			return is, true
		}
	}
	return Issue{}, false
}

// ScenarioByID returns the scenario with the given id, if present.
func (c Case) ScenarioByID(id string) (Scenario, bool) {
	for _, s := range c.Scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return Scenario{}, false
}

// AssessmentForScenario returns the current risk assessment for a
// scenario, if one exists.
func (c Case) AssessmentForScenario(scenarioID string) (RiskAssessment, bool) {
	for _, ra := range c.RiskAssessments {
		if ra.ScenarioID == scenarioID {
			return ra, true
		}
	}
	return RiskAssessment{}, false
}
