package pipeline

import (
	"fmt"
	"time"

	"parley/internal/casefile"
	"parley/internal/issuetext"
	"parley/internal/reconcile"
	"parley/internal/stage"
)

// Store is the write side of case persistence. The dispatcher persists
// after every successful transition; loading the initial case is the
// caller's concern.
type Store interface {
	Save(casefile.Case) error
	Clear() error
}

// Logger is the minimal logging surface the dispatcher needs.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Dispatcher owns the current case and applies the pure transitions to
// it, writing the result through to the store after each one. A failed
// transition or a failed save leaves the prior case in place; callers
// never observe a half-applied operation.
type Dispatcher struct {
	cur   casefile.Case
	store Store
	codec *issuetext.Codec
	log   Logger
	now   func() time.Time
}

// DispatcherOption customizes a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithClock injects a deterministic clock (primarily for tests).
func WithClock(clock func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		if clock != nil {
			d.now = clock
		}
	}
}

// WithCodec overrides the issue codec.
func WithCodec(codec *issuetext.Codec) DispatcherOption {
	return func(d *Dispatcher) {
		if codec != nil {
			d.codec = codec
		}
	}
}

// WithLogger attaches a logger for operation failures.
func WithLogger(log Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDispatcher wires a dispatcher around an initial case (usually the
// stored one, or an empty case) and its store.
func NewDispatcher(initial casefile.Case, store Store, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		cur:   initial,
		store: store,
		codec: issuetext.New(),
		log:   nopLogger{},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Case returns a copy of the current aggregate.
func (d *Dispatcher) Case() casefile.Case {
	return d.cur.Clone()
}

// Codec exposes the codec so views can render the issue projection the
// same way edits are parsed.
func (d *Dispatcher) Codec() *issuetext.Codec {
	return d.codec
}

func (d *Dispatcher) commit(next casefile.Case) error {
	if err := d.store.Save(next); err != nil {
		d.log.Printf("persist case: %v", err)
		return fmt.Errorf("pipeline: persist case: %w", err)
	}
	d.cur = next
	return nil
}

// SetRawContent replaces the raw case text and restarts the pipeline.
func (d *Dispatcher) SetRawContent(text string) error {
	return d.commit(SetRawContent(d.cur, text, d.now()))
}

// SetParties installs an identified or edited party list.
func (d *Dispatcher) SetParties(parties []casefile.Party) error {
	next, err := SetParties(d.cur, parties, d.now())
	if err != nil {
		return err
	}
	return d.commit(next)
}

// ApplyAnalysisText commits edited issue text.
func (d *Dispatcher) ApplyAnalysisText(text string) error {
	return d.commit(ApplyAnalysisText(d.cur, d.codec, text, d.now()))
}

// CommitGeneratedAnalysis commits a settled analysis generation result.
func (d *Dispatcher) CommitGeneratedAnalysis(agreementMap, interestMap, issuesText string) error {
	return d.commit(CommitGeneratedAnalysis(d.cur, d.codec, agreementMap, interestMap, issuesText, d.now()))
}

// SetAgreementMap commits an agreement-map edit.
func (d *Dispatcher) SetAgreementMap(text string) error {
	return d.commit(SetAgreementMap(d.cur, text, d.now()))
}

// SetInterestMap commits an interest-map edit.
func (d *Dispatcher) SetInterestMap(text string) error {
	return d.commit(SetInterestMap(d.cur, text, d.now()))
}

// SetIssueBoundaries commits boundary edits for one issue.
func (d *Dispatcher) SetIssueBoundaries(issueID string, b Boundaries) error {
	next, err := SetIssueBoundaries(d.cur, issueID, b, d.now())
	if err != nil {
		return err
	}
	return d.commit(next)
}

// ReconcileScenarios commits a settled scenario generation result for
// one issue.
func (d *Dispatcher) ReconcileScenarios(issueID string, drafts []reconcile.Draft) error {
	next, err := ReconcileScenarios(d.cur, issueID, drafts, d.now())
	if err != nil {
		return err
	}
	return d.commit(next)
}

// SetScenarioDescription commits a scenario text edit.
func (d *Dispatcher) SetScenarioDescription(scenarioID, text string) error {
	next, err := SetScenarioDescription(d.cur, scenarioID, text, d.now())
	if err != nil {
		return err
	}
	return d.commit(next)
}

// SetRiskAssessment commits the current assessment for a scenario.
func (d *Dispatcher) SetRiskAssessment(ra casefile.RiskAssessment) error {
	next, err := SetRiskAssessment(d.cur, ra, d.now())
	if err != nil {
		return err
	}
	return d.commit(next)
}

// MarkRecalculated re-freshens a stage without writing content.
func (d *Dispatcher) MarkRecalculated(s stage.Stage) error {
	return d.commit(MarkRecalculated(d.cur, s, d.now()))
}

// SelectPair switches the active party pair.
func (d *Dispatcher) SelectPair(key casefile.PairKey) error {
	return d.commit(SelectPair(d.cur, key))
}

// SelectScenario records the focused scenario.
func (d *Dispatcher) SelectScenario(scenarioID string) error {
	next, err := SelectScenario(d.cur, scenarioID)
	if err != nil {
		return err
	}
	return d.commit(next)
}

// Clear wipes the case and its persisted representation.
func (d *Dispatcher) Clear() error {
	if err := d.store.Clear(); err != nil {
		d.log.Printf("clear stored case: %v", err)
		return fmt.Errorf("pipeline: clear stored case: %w", err)
	}
	d.cur = Clear()
	return nil
}
