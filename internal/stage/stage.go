// internal/stage/stage.go
//
// The pipeline has three derived stages, each computed from the one
// before it: the analysis, the per-issue scenarios, and the risk
// assessments. This package tracks which of them is fresh relative to
// its own upstream. Writing a stage re-freshens it and marks everything
// downstream stale; nothing ever goes stale from being read.

package stage

import "time"

// Stage identifies one derived pipeline stage, in dependency order.
type Stage int

const (
	Analysis Stage = iota
	Scenarios
	RiskAssessments
)

// Count is the number of pipeline stages.
const Count = 3

// String returns the display name used in logs and the TUI.
func (s Stage) String() string {
	switch s {
	case Analysis:
		return "analysis"
	case Scenarios:
		return "scenarios"
	case RiskAssessments:
		return "risk assessments"
	default:
		return "unknown"
	}
}

// Status is the freshness vector over the ordered stages. A brand-new
// case starts all-fresh: there is nothing for the stages to be stale
// relative to until the first write arrives.
type Status struct {
	AnalysisFresh        bool      `json:"analysis_fresh"`
	ScenariosFresh       bool      `json:"scenarios_fresh"`
	RiskAssessmentsFresh bool      `json:"risk_assessments_fresh"`
	LastTimestamp        time.Time `json:"last_timestamp"`
}

// NewStatus returns the all-fresh initial vector.
func NewStatus() Status {
	return Status{
		AnalysisFresh:        true,
		ScenariosFresh:       true,
		RiskAssessmentsFresh: true,
	}
}

// IsStale reports whether the stage's content no longer reflects its
// upstream input.
func (st Status) IsStale(s Stage) bool {
	switch s {
	case Analysis:
		return !st.AnalysisFresh
	case Scenarios:
		return !st.ScenariosFresh
	case RiskAssessments:
		return !st.RiskAssessmentsFresh
	default:
		return false
	}
}

// OnWrite records a content write to stage s: s becomes fresh, every
// stage after s becomes stale, and the timestamp is stamped. Freshness
// is a statement about a stage relative to its own upstream, so a
// re-freshened stage still invalidates everything downstream of it.
func (st Status) OnWrite(s Stage, now time.Time) Status {
	out := st
	out.LastTimestamp = now
	switch s {
	case Analysis:
		out.AnalysisFresh = true
		out.ScenariosFresh = false
		out.RiskAssessmentsFresh = false
	case Scenarios:
		out.ScenariosFresh = true
		out.RiskAssessmentsFresh = false
	case RiskAssessments:
		out.RiskAssessmentsFresh = true
	}
	return out
}

// MarkRecalculated re-freshens a stage without a content write, for the
// case where regeneration confirmed the existing content is already
// current. The downstream cascade still applies.
func (st Status) MarkRecalculated(s Stage, now time.Time) Status {
	return st.OnWrite(s, now)
}

// Reset returns the all-fresh vector, stamped with now.
func (st Status) Reset(now time.Time) Status {
	out := NewStatus()
	out.LastTimestamp = now
	return out
}
