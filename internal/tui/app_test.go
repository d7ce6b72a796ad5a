package tui

import (
	"os"
	"path/filepath"
	"testing"

	"parley/internal/casefile"
	"parley/internal/llm"
	"parley/internal/pipeline"
	"parley/internal/reconcile"
)

type memStore struct{}

func (memStore) Save(casefile.Case) error { return nil }
func (memStore) Clear() error             { return nil }

func newTestApp(t *testing.T) *App {
	t.Helper()
	d := pipeline.NewDispatcher(casefile.New(), memStore{})
	return NewApp(d, nil, nil)
}

func testParties() []casefile.Party {
	return []casefile.Party{
		{ID: "p-user", Name: "Ferry Co", IsPrimary: true, IsUserSide: true},
		{ID: "p-counter", Name: "Harbor Authority", IsPrimary: true},
		{ID: "p-aux", Name: "City Council"},
	}
}

func TestParseBoundariesRoundTrip(t *testing.T) {
	issue := casefile.Issue{
		ID:          "i1",
		Name:        "Access Route",
		RedlineA:    "no overnight closures",
		BottomlineA: "two lanes open",
		RedlineB:    "no toll waivers",
		BottomlineB: "cost recovery",
		Priority:    3,
	}
	parsed, err := parseBoundaries(boundariesTemplate(issue))
	if err != nil {
		t.Fatalf("parseBoundaries: %v", err)
	}
	if parsed.RedlineA != issue.RedlineA || parsed.BottomlineA != issue.BottomlineA {
		t.Fatalf("side A boundaries changed: %+v", parsed)
	}
	if parsed.RedlineB != issue.RedlineB || parsed.BottomlineB != issue.BottomlineB {
		t.Fatalf("side B boundaries changed: %+v", parsed)
	}
	if parsed.Priority != 3 {
		t.Fatalf("priority = %d, want 3", parsed.Priority)
	}
}

func TestParseBoundariesSkipsComments(t *testing.T) {
	text := "# Boundaries for: whatever\nRedline A: firm\n# Priority: 99\nPriority: 2\n"
	parsed, err := parseBoundaries(text)
	if err != nil {
		t.Fatalf("parseBoundaries: %v", err)
	}
	if parsed.RedlineA != "firm" {
		t.Fatalf("RedlineA = %q", parsed.RedlineA)
	}
	if parsed.Priority != 2 {
		t.Fatalf("priority = %d, want 2", parsed.Priority)
	}
}

func TestParseBoundariesRejectsBadInput(t *testing.T) {
	if _, err := parseBoundaries("Priority: high\n"); err == nil {
		t.Fatal("expected error for non-numeric priority")
	}
	if _, err := parseBoundaries("nothing labeled here\n"); err == nil {
		t.Fatal("expected error for empty form")
	}
}

func TestChoosePairSwitchesPrimaries(t *testing.T) {
	app := newTestApp(t)
	if err := app.dispatcher.SetParties(testParties()); err != nil {
		t.Fatalf("SetParties: %v", err)
	}

	options := app.pairOptions()
	if len(options) != 2 {
		t.Fatalf("pairOptions = %d entries, want 2", len(options))
	}

	var aux casefile.Party
	for _, p := range options {
		if p.ID == "p-aux" {
			aux = p
		}
	}
	app.choosePair(aux)

	c := app.dispatcher.Case()
	if c.ActivePair != casefile.NewPairKey("p-user", "p-aux") {
		t.Fatalf("ActivePair = %q", c.ActivePair)
	}
	if !c.Parties[0].IsUserSide || c.Parties[0].ID != "p-user" {
		t.Fatalf("user side not first: %+v", c.Parties[0])
	}
	if c.Parties[1].ID != "p-aux" || !c.Parties[1].IsPrimary {
		t.Fatalf("counterpart not promoted: %+v", c.Parties[1])
	}
}

func TestSortedIssuesOrdersByPriority(t *testing.T) {
	app := newTestApp(t)
	if err := app.dispatcher.ApplyAnalysisText("## Mooring Fees\nfees\n\n## Access Route\nroute\n"); err != nil {
		t.Fatalf("ApplyAnalysisText: %v", err)
	}
	if err := app.dispatcher.SetIssueBoundaries(issueIDByName(t, app, "Access Route"), pipeline.Boundaries{Priority: 1}); err != nil {
		t.Fatalf("SetIssueBoundaries: %v", err)
	}
	if err := app.dispatcher.SetIssueBoundaries(issueIDByName(t, app, "Mooring Fees"), pipeline.Boundaries{Priority: 2}); err != nil {
		t.Fatalf("SetIssueBoundaries: %v", err)
	}

	issues := app.sortedIssues()
	if len(issues) != 2 {
		t.Fatalf("issues = %d, want 2", len(issues))
	}
	if issues[0].Name != "Access Route" || issues[1].Name != "Mooring Fees" {
		t.Fatalf("wrong order: %q then %q", issues[0].Name, issues[1].Name)
	}
}

func issueIDByName(t *testing.T, app *App, name string) string {
	t.Helper()
	for _, is := range app.dispatcher.Case().Analysis.Issues {
		if is.Name == name {
			return is.ID
		}
	}
	t.Fatalf("no issue named %q", name)
	return ""
}

func TestHandleScenariosKeepsStateOnUnparseableReply(t *testing.T) {
	app := newTestApp(t)
	if err := app.dispatcher.ApplyAnalysisText("## Mooring Fees\nfees\n\n## Access Route\nroute\n"); err != nil {
		t.Fatalf("ApplyAnalysisText: %v", err)
	}
	feesID := issueIDByName(t, app, "Mooring Fees")
	routeID := issueIDByName(t, app, "Access Route")

	var drafts []reconcile.Draft
	for _, kind := range casefile.KindOrder {
		drafts = append(drafts, reconcile.Draft{Kind: kind, Description: "outcome"})
	}
	if err := app.dispatcher.ReconcileScenarios(feesID, drafts); err != nil {
		t.Fatalf("ReconcileScenarios: %v", err)
	}
	if n := len(app.dispatcher.Case().Scenarios); n != 5 {
		t.Fatalf("seeded %d scenarios, want 5", n)
	}

	reply := llm.ParseScenarios("An apologetic paragraph of prose with no headings at all.")
	app.handleScenarios(scenariosMsg{issueID: routeID, result: llm.ScenariosResult{Drafts: reply}})

	c := app.dispatcher.Case()
	if n := len(c.Scenarios); n != 5 {
		t.Fatalf("scenarios after unparseable reply = %d, want the seeded 5", n)
	}
	for _, s := range c.Scenarios {
		if s.IssueID != feesID {
			t.Fatalf("scenario %q no longer belongs to the seeded issue", s.ID)
		}
	}
	if app.statusMsg == "" {
		t.Fatal("no status message reported for the failed generation")
	}
}

func TestHandleEditorFinishedAppliesRawContent(t *testing.T) {
	app := newTestApp(t)
	path := filepath.Join(t.TempDir(), "edit.md")
	if err := os.WriteFile(path, []byte("The ferry dispute.\n"), 0o644); err != nil {
		t.Fatalf("write temp: %v", err)
	}

	app.handleEditorFinished(editorFinishedMsg{target: editRawContent, path: path})

	if got := app.dispatcher.Case().RawContent; got != "The ferry dispute.\n" {
		t.Fatalf("RawContent = %q", got)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("temp file not removed, stat err = %v", err)
	}
}

func TestScenarioKindLabels(t *testing.T) {
	for _, kind := range casefile.KindOrder {
		if label := scenarioKindLabel(kind); label == string(kind) {
			t.Fatalf("no display label for kind %q", kind)
		}
	}
	if label := scenarioKindLabel(casefile.ScenarioKind("custom")); label != "custom" {
		t.Fatalf("unknown kind label = %q", label)
	}
}

func TestClipText(t *testing.T) {
	if got := clipText("a\nb\n", 3); got != "a\nb" {
		t.Fatalf("short text clipped: %q", got)
	}
	clipped := clipText("a\nb\nc\nd\n", 2)
	if n := countLines(clipped); n != 3 {
		t.Fatalf("clipped to %d lines, want 2 plus marker", n)
	}
}

func countLines(s string) int {
	n := 1
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
		}
	}
	return n
}
