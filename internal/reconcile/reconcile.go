// Package reconcile merges generated scenario drafts into the case.
//
// The generator is trusted for kind assignment but not for id
// stability, so each reconciliation rebuilds one issue's scenario set
// with deterministic ids "{issueID}-{1..5}" and leaves every other
// issue's scenarios untouched. Each issue's data is independently
// owned: a bad reconcile call rejects that single operation and leaves
// the prior case intact.
package reconcile

import (
	"errors"
	"fmt"

	"parley/internal/casefile"
)

// ErrUnknownIssue reports a reconcile call against an issue the current
// analysis does not contain.
var ErrUnknownIssue = errors.New("reconcile: unknown issue")

// Draft is one generated scenario candidate before it gets a stable id.
type Draft struct {
	Kind        casefile.ScenarioKind
	Description string
}

// scenarioSetSize is the canonical scenario count per issue, one per
// kind in the fixed vocabulary.
const scenarioSetSize = len(casefile.KindOrder)

// Apply replaces issueID's scenario set with the drafts. At most five
// drafts are used (extras are truncated, not an error); fewer than five
// pad out with empty scenarios in canonical kind order so the
// five-per-issue invariant holds. The first reconciliation for an issue
// also seeds that issue's original-snapshot baseline.
//
// An empty draft list is the explicit clear path: it wipes every
// scenario in the case and clears the selection unconditionally.
//
// If the selected scenario belongs to the reconciled issue and its id
// is not in the new set, the selection is cleared rather than silently
// re-pointed.
func Apply(c casefile.Case, issueID string, drafts []Draft) (casefile.Case, error) {
	out := c.Clone()

	if len(drafts) == 0 {
		out.Scenarios = nil
		out.SelectedScenarioID = ""
		return out, nil
	}

	if _, ok := out.IssueByID(issueID); !ok {
		return c, fmt.Errorf("%w: %s", ErrUnknownIssue, issueID)
	}
	if len(drafts) > scenarioSetSize {
		drafts = drafts[:scenarioSetSize]
	}

	set := make([]casefile.Scenario, 0, scenarioSetSize)
	for pos := 0; pos < scenarioSetSize; pos++ {
		s := casefile.Scenario{
			ID:      fmt.Sprintf("%s-%d", issueID, pos+1),
			IssueID: issueID,
			Kind:    casefile.KindOrder[pos],
		}
		if pos < len(drafts) {
			if drafts[pos].Kind != "" {
				s.Kind = drafts[pos].Kind
			}
			s.Description = drafts[pos].Description
		}
		set = append(set, s)
	}

	kept := out.Scenarios[:0:0]
	for _, s := range out.Scenarios {
		if s.IssueID != issueID {
			kept = append(kept, s)
		}
	}
	out.Scenarios = append(kept, set...)

	if sel := out.SelectedScenarioID; sel != "" {
		if prior, ok := c.ScenarioByID(sel); ok && prior.IssueID == issueID {
			if _, still := findScenario(set, sel); !still {
				out.SelectedScenarioID = ""
			}
		}
	}

	if out.Original.Scenarios == nil {
		out.Original.Scenarios = make(map[string][]casefile.Scenario)
	}
	if _, seeded := out.Original.Scenarios[issueID]; !seeded {
		out.Original.Scenarios[issueID] = casefile.CloneScenarios(set)
	}
	return out, nil
}

func findScenario(set []casefile.Scenario, id string) (casefile.Scenario, bool) {
	for _, s := range set {
		if s.ID == id {
			return s, true
		}
	}
	return casefile.Scenario{}, false
}
