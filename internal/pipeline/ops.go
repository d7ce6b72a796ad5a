// internal/pipeline/ops.go
//
// Pure transition functions over the Case aggregate. Every mutating
// operation takes the case it operates on and returns a new one; no
// operation reads hidden globals, and no caller can observe a
// partially-updated case. Persistence is layered on top by the
// Dispatcher, which keeps these functions testable without a storage
// fake.

package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"parley/internal/casefile"
	"parley/internal/issuetext"
	"parley/internal/pairstore"
	"parley/internal/reconcile"
	"parley/internal/stage"
)

// ErrUnknownIssue reports an operation against an issue the current
// analysis does not contain.
var ErrUnknownIssue = errors.New("pipeline: unknown issue")

// ErrUnknownScenario reports an operation against a scenario the case
// does not contain.
var ErrUnknownScenario = errors.New("pipeline: unknown scenario")

// SetRawContent installs new raw case text. Changed text restarts the
// whole pipeline: parties, pair content, analysis, scenarios, risk
// assessments and snapshots are all derived from the raw text and are
// cleared with it.
func SetRawContent(c casefile.Case, text string, now time.Time) casefile.Case {
	if text == c.RawContent {
		return c.Clone()
	}
	out := casefile.New()
	out.RawContent = text
	out.Recalculation = out.Recalculation.Reset(now)
	return out
}

// SetParties installs a normalized party list. When the primary pair
// changes, the active pair content is switched with it; the stored
// content of other pairs is untouched.
func SetParties(c casefile.Case, parties []casefile.Party, now time.Time) (casefile.Case, error) {
	normalized, err := casefile.NormalizeParties(parties)
	if err != nil {
		return c, err
	}
	out := c.Clone()
	out.Parties = normalized
	key, ok := casefile.PrimaryPair(normalized)
	if ok && key != out.ActivePair {
		out = pairstore.Select(out, key)
	}
	return out, nil
}

// ApplyAnalysisText reconciles user-edited (or generated) issue text
// back into the structured issue list, carrying forward boundary
// fields and priorities through the codec. The analysis is created on
// first write; the original snapshot is seeded once and never moved.
func ApplyAnalysisText(c casefile.Case, codec *issuetext.Codec, text string, now time.Time) casefile.Case {
	out := c.Clone()
	var prev []casefile.Issue
	if out.Analysis != nil {
		prev = out.Analysis.Issues
	}
	issues := codec.Decode(text, prev)
	mutateAnalysis(&out, now, func(a *casefile.Analysis) {
		a.Issues = issues
	})
	return commitAnalysisWrite(out, now)
}

// CommitGeneratedAnalysis replaces the whole analysis with a settled
// generation result. Issue identity still resolves through the codec,
// so hand-entered boundaries survive the regeneration.
func CommitGeneratedAnalysis(c casefile.Case, codec *issuetext.Codec, agreementMap, interestMap, issuesText string, now time.Time) casefile.Case {
	out := c.Clone()
	var prev []casefile.Issue
	if out.Analysis != nil {
		prev = out.Analysis.Issues
	}
	issues := codec.Decode(issuesText, prev)
	mutateAnalysis(&out, now, func(a *casefile.Analysis) {
		a.AgreementMap = agreementMap
		a.InterestMap = interestMap
		a.Issues = issues
	})
	return commitAnalysisWrite(out, now)
}

// SetAgreementMap updates the agreement-map text.
func SetAgreementMap(c casefile.Case, text string, now time.Time) casefile.Case {
	out := c.Clone()
	mutateAnalysis(&out, now, func(a *casefile.Analysis) {
		a.AgreementMap = text
	})
	return commitAnalysisWrite(out, now)
}

// SetInterestMap updates the interest-map text.
func SetInterestMap(c casefile.Case, text string, now time.Time) casefile.Case {
	out := c.Clone()
	mutateAnalysis(&out, now, func(a *casefile.Analysis) {
		a.InterestMap = text
	})
	return commitAnalysisWrite(out, now)
}

// Boundaries carries the user-controlled negotiation judgments for one
// issue.
type Boundaries struct {
	RedlineA    string
	BottomlineA string
	RedlineB    string
	BottomlineB string
	Priority    int
}

// SetIssueBoundaries updates one issue's boundary fields and priority.
// Boundaries feed scenario generation, so this is an analysis-stage
// write and cascades staleness downstream.
func SetIssueBoundaries(c casefile.Case, issueID string, b Boundaries, now time.Time) (casefile.Case, error) {
	if _, ok := c.IssueByID(issueID); !ok {
		return c, fmt.Errorf("%w: %s", ErrUnknownIssue, issueID)
	}
	out := c.Clone()
	mutateAnalysis(&out, now, func(a *casefile.Analysis) {
		for i := range a.Issues {
			if a.Issues[i].ID == issueID {
				a.Issues[i].RedlineA = b.RedlineA
				a.Issues[i].BottomlineA = b.BottomlineA
				a.Issues[i].RedlineB = b.RedlineB
				a.Issues[i].BottomlineB = b.BottomlineB
				a.Issues[i].Priority = b.Priority
				return
			}
		}
	})
	return commitAnalysisWrite(out, now), nil
}

// ReconcileScenarios merges generated drafts for one issue and records
// the scenario-stage write.
func ReconcileScenarios(c casefile.Case, issueID string, drafts []reconcile.Draft, now time.Time) (casefile.Case, error) {
	out, err := reconcile.Apply(c, issueID, drafts)
	if err != nil {
		return c, err
	}
	out.Recalculation = out.Recalculation.OnWrite(stage.Scenarios, now)
	if out.ActivePair != "" {
		out = pairstore.SaveScenarios(out, out.ActivePair, out.Scenarios)
	}
	return out, nil
}

// SetScenarioDescription applies a user edit to one scenario's text.
func SetScenarioDescription(c casefile.Case, scenarioID, text string, now time.Time) (casefile.Case, error) {
	if _, ok := c.ScenarioByID(scenarioID); !ok {
		return c, fmt.Errorf("%w: %s", ErrUnknownScenario, scenarioID)
	}
	out := c.Clone()
	for i := range out.Scenarios {
		if out.Scenarios[i].ID == scenarioID {
			out.Scenarios[i].Description = text
			break
		}
	}
	out.Recalculation = out.Recalculation.OnWrite(stage.Scenarios, now)
	if out.ActivePair != "" {
		out = pairstore.SaveScenarios(out, out.ActivePair, out.Scenarios)
	}
	return out, nil
}

// SetRiskAssessment installs the current assessment for a scenario,
// replacing any older one for the same scenario.
func SetRiskAssessment(c casefile.Case, ra casefile.RiskAssessment, now time.Time) (casefile.Case, error) {
	if _, ok := c.ScenarioByID(ra.ScenarioID); !ok {
		return c, fmt.Errorf("%w: %s", ErrUnknownScenario, ra.ScenarioID)
	}
	out := c.Clone()
	if ra.ID == "" {
		ra.ID = uuid.NewString()
	}
	replaced := false
	for i := range out.RiskAssessments {
		if out.RiskAssessments[i].ScenarioID == ra.ScenarioID {
			out.RiskAssessments[i] = ra
			replaced = true
			break
		}
	}
	if !replaced {
		out.RiskAssessments = append(out.RiskAssessments, ra)
	}
	out.Recalculation = out.Recalculation.OnWrite(stage.RiskAssessments, now)
	return out, nil
}

// MarkRecalculated re-freshens a stage after a no-op regeneration
// confirmed its content is already current. Downstream stages still go
// stale.
func MarkRecalculated(c casefile.Case, s stage.Stage, now time.Time) casefile.Case {
	out := c.Clone()
	out.Recalculation = out.Recalculation.MarkRecalculated(s, now)
	return out
}

// SelectPair switches the active party pair.
func SelectPair(c casefile.Case, key casefile.PairKey) casefile.Case {
	return pairstore.Select(c, key)
}

// SelectScenario records the scenario the user is focused on.
func SelectScenario(c casefile.Case, scenarioID string) (casefile.Case, error) {
	if scenarioID != "" {
		if _, ok := c.ScenarioByID(scenarioID); !ok {
			return c, fmt.Errorf("%w: %s", ErrUnknownScenario, scenarioID)
		}
	}
	out := c.Clone()
	out.SelectedScenarioID = scenarioID
	return out, nil
}

// Clear wipes the whole case.
func Clear() casefile.Case {
	return casefile.New()
}

// mutateAnalysis applies fn to the analysis, creating it on first
// write, and stamps UpdatedAt.
func mutateAnalysis(c *casefile.Case, now time.Time, fn func(*casefile.Analysis)) {
	if c.Analysis == nil {
		c.Analysis = &casefile.Analysis{ID: uuid.NewString(), CreatedAt: now}
	}
	fn(c.Analysis)
	c.Analysis.UpdatedAt = now
}

// commitAnalysisWrite runs the shared tail of every analysis-stage
// write: snapshot seeding, the freshness cascade, and the write-through
// to the active pair's slot.
func commitAnalysisWrite(c casefile.Case, now time.Time) casefile.Case {
	if c.Original.Analysis == nil {
		c.Original.Analysis = c.Analysis.Clone()
	}
	c.Recalculation = c.Recalculation.OnWrite(stage.Analysis, now)
	if c.ActivePair != "" {
		c = pairstore.SaveAnalysis(c, c.ActivePair, c.Analysis)
	}
	return c
}
