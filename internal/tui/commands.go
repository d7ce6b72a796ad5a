// internal/tui/commands.go
//
// tea.Cmd constructors for everything that leaves the UI thread: calls
// to the generation collaborator and round-trips through the user's
// $EDITOR. The UI only ever consumes settled results; a cancelled or
// failed call produces a message and never touches the case.

package tui

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"parley/internal/casefile"
	"parley/internal/llm"
)

const generationTimeout = 2 * time.Minute

// editTarget names what an editor round-trip is editing.
type editTarget int

const (
	editRawContent editTarget = iota
	editIssuesText
	editAgreementMap
	editInterestMap
	editScenarioText
	editBoundaries
)

// editorFinishedMsg reports a finished $EDITOR session.
type editorFinishedMsg struct {
	target   editTarget
	path     string
	targetID string // issue or scenario id, when the target needs one
	err      error
}

// partiesMsg is a settled party identification call.
type partiesMsg struct {
	result llm.PartiesResult
	err    error
}

// analysisMsg is a settled analysis generation call.
type analysisMsg struct {
	result llm.AnalysisResult
	err    error
}

// scenariosMsg is a settled scenario generation call for one issue.
type scenariosMsg struct {
	issueID string
	result  llm.ScenariosResult
	err     error
}

// riskMsg is a settled risk assessment call for one scenario.
type riskMsg struct {
	scenarioID string
	result     llm.RiskResult
	err        error
}

func (a *App) identifyPartiesCmd() tea.Cmd {
	raw := a.dispatcher.Case().RawContent
	gen := a.generator
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generationTimeout)
		defer cancel()
		result, err := gen.IdentifyParties(ctx, raw)
		return partiesMsg{result: result, err: err}
	}
}

func (a *App) generateAnalysisCmd() tea.Cmd {
	c := a.dispatcher.Case()
	req := llm.AnalysisRequest{RawContent: c.RawContent, Parties: c.Parties}
	gen := a.generator
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generationTimeout)
		defer cancel()
		result, err := gen.GenerateAnalysis(ctx, req)
		return analysisMsg{result: result, err: err}
	}
}

func (a *App) generateScenariosCmd(issue casefile.Issue) tea.Cmd {
	c := a.dispatcher.Case()
	req := llm.ScenariosRequest{Issue: issue}
	if len(c.Parties) > 1 {
		req.PartyA = c.Parties[0]
		req.PartyB = c.Parties[1]
	}
	gen := a.generator
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generationTimeout)
		defer cancel()
		result, err := gen.GenerateScenarios(ctx, req)
		return scenariosMsg{issueID: issue.ID, result: result, err: err}
	}
}

func (a *App) generateRiskCmd(scenario casefile.Scenario, issue casefile.Issue) tea.Cmd {
	gen := a.generator
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generationTimeout)
		defer cancel()
		result, err := gen.GenerateRiskAssessment(ctx, llm.RiskRequest{Scenario: scenario, Issue: issue})
		return riskMsg{scenarioID: scenario.ID, result: result, err: err}
	}
}

// editInEditor writes initial to a temp file, opens $EDITOR on it and
// reports back when the editor exits. The temp file is read and removed
// by the editorFinishedMsg handler.
func editInEditor(target editTarget, targetID, initial string) tea.Cmd {
	f, err := os.CreateTemp("", "parley-edit-*.md")
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{target: target, targetID: targetID, err: fmt.Errorf("tui: create temp file: %w", err)}
		}
	}
	path := f.Name()
	if _, err := f.WriteString(initial); err != nil {
		f.Close()
		os.Remove(path)
		return func() tea.Msg {
			return editorFinishedMsg{target: target, targetID: targetID, err: fmt.Errorf("tui: write temp file: %w", err)}
		}
	}
	f.Close()

	c := exec.Command(editorCommand(), path)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return editorFinishedMsg{target: target, targetID: targetID, path: path, err: err}
	})
}

func editorCommand() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	return "vi"
}
