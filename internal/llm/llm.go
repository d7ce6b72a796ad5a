// Package llm is the boundary to the text-generation collaborator. The
// pipeline core only ever consumes settled results from here: a parsed
// artifact, or a distinguished rate-limited outcome. Rate limiting is
// not an error; it leaves every freshness flag and artifact untouched
// and the caller decides when to retry.
package llm

import (
	"context"

	"parley/internal/casefile"
	"parley/internal/reconcile"
)

// PartiesResult is a settled party-identification call.
type PartiesResult struct {
	Parties     []casefile.Party
	RateLimited bool
}

// AnalysisRequest carries the upstream input for the analysis stage.
type AnalysisRequest struct {
	RawContent string
	Parties    []casefile.Party
}

// AnalysisResult is a settled analysis generation. IssuesText is the
// markdown projection and still has to pass through the codec so
// issue identity resolves against the previous list.
type AnalysisResult struct {
	AgreementMap string
	InterestMap  string
	IssuesText   string
	RateLimited  bool
}

// ScenariosRequest carries one issue and the primary pair.
type ScenariosRequest struct {
	Issue  casefile.Issue
	PartyA casefile.Party
	PartyB casefile.Party
}

// ScenariosResult is a settled scenario generation for one issue.
type ScenariosResult struct {
	Drafts      []reconcile.Draft
	RateLimited bool
}

// RiskRequest carries one scenario and its issue.
type RiskRequest struct {
	Scenario casefile.Scenario
	Issue    casefile.Issue
}

// RiskResult is a settled risk-assessment generation.
type RiskResult struct {
	Assessment  casefile.RiskAssessment
	RateLimited bool
}

// Generator is the generation collaborator contract. Implementations
// must never mutate case state; they produce candidates the pipeline
// commits or discards.
type Generator interface {
	IdentifyParties(ctx context.Context, rawContent string) (PartiesResult, error)
	GenerateAnalysis(ctx context.Context, req AnalysisRequest) (AnalysisResult, error)
	GenerateScenarios(ctx context.Context, req ScenariosRequest) (ScenariosResult, error)
	GenerateRiskAssessment(ctx context.Context, req RiskRequest) (RiskResult, error)
}
