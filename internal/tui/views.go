// internal/tui/views.go
//
// Rendering for every screen. View builds a header with the stage
// freshness board, the active screen body, and a footer of key hints.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"parley/internal/casefile"
	"parley/internal/stage"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	freshStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4CAF50")).
			Bold(true)
	staleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F7B801")).
			Bold(true)
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5B8DEF")).
			Bold(true)
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// View implements tea.Model.
func (a *App) View() string {
	var body string
	switch a.state {
	case stateMenu:
		body = a.mainMenu.View()
	case stateCaseText:
		body = a.renderCaseText()
	case stateParties:
		body = a.renderParties()
	case statePairs:
		body = a.renderPairs()
	case stateAnalysis:
		body = a.renderAnalysis()
	case stateIssues:
		body = a.renderIssues()
	case stateScenarios:
		body = a.renderScenarios()
	case stateRisk:
		body = a.renderRisk()
	}

	sections := []string{a.renderStageBoard(), body}
	if a.statusMsg != "" {
		style := dimStyle
		if strings.HasPrefix(a.statusMsg, "Error:") {
			style = errorStyle
		}
		sections = append(sections, style.Render(a.statusMsg))
	}
	sections = append(sections, dimStyle.Render(a.footerHints()))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStageBoard shows which pipeline stages are still trustworthy.
func (a *App) renderStageBoard() string {
	c := a.dispatcher.Case()
	parts := make([]string, 0, 3)
	for _, st := range []stage.Stage{stage.Analysis, stage.Scenarios, stage.RiskAssessments} {
		badge := freshStyle.Render("● " + st.String())
		if c.Recalculation.IsStale(st) {
			badge = staleStyle.Render("○ " + st.String() + " (stale)")
		}
		parts = append(parts, badge)
	}
	pair := "no pair"
	if c.ActivePair != "" {
		pair = string(c.ActivePair)
	}
	line := strings.Join(parts, "  ")
	return boxStyle.Render(titleStyle.Render("Parley") + "  " + line + "  " + dimStyle.Render(pair))
}

func (a *App) renderCaseText() string {
	c := a.dispatcher.Case()
	head := titleStyle.Render("Case Text")
	if strings.TrimSpace(c.RawContent) == "" {
		return head + "\n\n" + dimStyle.Render("No case text yet. Press e to open your editor and paste the case.")
	}
	return head + "\n\n" + clipText(c.RawContent, 24)
}

func (a *App) renderParties() string {
	c := a.dispatcher.Case()
	head := titleStyle.Render("Parties")
	if len(c.Parties) == 0 {
		return head + "\n\n" + dimStyle.Render("No parties identified. Press p on the Case Text screen.")
	}
	var b strings.Builder
	b.WriteString(head + "\n\n")
	for _, p := range c.Parties {
		marker := "  "
		if p.IsUserSide {
			marker = freshStyle.Render("▶ ")
		}
		role := "auxiliary"
		if p.IsPrimary {
			role = "primary"
		}
		fmt.Fprintf(&b, "%s%s %s\n", marker, p.Name, dimStyle.Render("("+role+")"))
		if p.Description != "" {
			fmt.Fprintf(&b, "    %s\n", dimStyle.Render(p.Description))
		}
	}
	return b.String()
}

func (a *App) renderPairs() string {
	c := a.dispatcher.Case()
	head := titleStyle.Render("Counterpart Pairs")
	options := a.pairOptions()
	if len(options) == 0 {
		return head + "\n\n" + dimStyle.Render("Identify at least two parties first.")
	}
	var b strings.Builder
	b.WriteString(head + "\n\n")
	fmt.Fprintf(&b, "Your side: %s\n\n", c.Parties[0].Name)
	for i, p := range options {
		cursor := "  "
		if i == a.pairCursor {
			cursor = cursorStyle.Render("> ")
		}
		active := ""
		if p.IsPrimary {
			active = freshStyle.Render(" [active]")
		}
		fmt.Fprintf(&b, "%s%s%s\n", cursor, p.Name, active)
	}
	return b.String()
}

func (a *App) renderAnalysis() string {
	c := a.dispatcher.Case()
	head := titleStyle.Render("Analysis")
	if c.Analysis == nil {
		return head + "\n\n" + dimStyle.Render("No analysis yet. Press g on the Parties screen, or r here.")
	}
	agreement := boxStyle.Render(titleStyle.Render("Agreement Map") + "\n" + clipText(c.Analysis.AgreementMap, 8))
	interest := boxStyle.Render(titleStyle.Render("Interest Map") + "\n" + clipText(c.Analysis.InterestMap, 8))
	issues := fmt.Sprintf("%d negotiable issues", len(c.Analysis.Issues))
	return head + "\n\n" + agreement + "\n" + interest + "\n" + dimStyle.Render(issues)
}

func (a *App) renderIssues() string {
	head := titleStyle.Render("Issues")
	issues := a.sortedIssues()
	if len(issues) == 0 {
		return head + "\n\n" + dimStyle.Render("No issues yet. Generate or edit the analysis first.")
	}
	c := a.dispatcher.Case()
	var b strings.Builder
	b.WriteString(head + "\n\n")
	for i, is := range issues {
		cursor := "  "
		if i == a.issueCursor {
			cursor = cursorStyle.Render("> ")
		}
		count := 0
		for _, s := range c.Scenarios {
			if s.IssueID == is.ID {
				count++
			}
		}
		note := dimStyle.Render(fmt.Sprintf("[P%d, %d scenarios]", is.Priority, count))
		fmt.Fprintf(&b, "%s%s %s\n", cursor, is.Name, note)
	}
	if a.issueCursor < len(issues) {
		b.WriteString("\n" + boxStyle.Render(renderBoundaries(issues[a.issueCursor])))
	}
	return b.String()
}

func renderBoundaries(is casefile.Issue) string {
	line := func(label, value string) string {
		if value == "" {
			value = dimStyle.Render("(unset)")
		}
		return fmt.Sprintf("%s %s", dimStyle.Render(label+":"), value)
	}
	return strings.Join([]string{
		titleStyle.Render(is.Name),
		line("Redline A", is.RedlineA),
		line("Bottomline A", is.BottomlineA),
		line("Redline B", is.RedlineB),
		line("Bottomline B", is.BottomlineB),
	}, "\n")
}

func (a *App) renderScenarios() string {
	c := a.dispatcher.Case()
	issue, _ := c.IssueByID(a.focusIssueID)
	head := titleStyle.Render("Scenarios: " + issue.Name)
	scenarios := a.focusScenarios()
	if len(scenarios) == 0 {
		return head + "\n\n" + dimStyle.Render("No scenarios yet. Press s on the Issues screen.")
	}
	var b strings.Builder
	b.WriteString(head + "\n\n")
	for i, s := range scenarios {
		cursor := "  "
		if i == a.scenarioCursor {
			cursor = cursorStyle.Render("> ")
		}
		selected := ""
		if s.ID == c.SelectedScenarioID {
			selected = freshStyle.Render(" [focused]")
		}
		fmt.Fprintf(&b, "%s%s%s\n", cursor, scenarioKindLabel(s.Kind), selected)
		if s.Description != "" {
			fmt.Fprintf(&b, "    %s\n", clipText(s.Description, 3))
		}
	}
	return b.String()
}

func (a *App) renderRisk() string {
	c := a.dispatcher.Case()
	head := titleStyle.Render("Risk Assessment")
	scenario, ok := c.ScenarioByID(c.SelectedScenarioID)
	if !ok {
		return head + "\n\n" + dimStyle.Render("No scenario focused. Pick one on the Scenarios screen.")
	}
	issue, _ := c.IssueByID(scenario.IssueID)
	context := fmt.Sprintf("%s / %s", issue.Name, scenarioKindLabel(scenario.Kind))
	assessment, ok := c.AssessmentForScenario(scenario.ID)
	if !ok {
		return head + "\n\n" + context + "\n\n" + dimStyle.Render("Not assessed yet. Press r to assess.")
	}
	rows := []struct {
		label string
		value string
	}{
		{"Category", assessment.Category},
		{"Short-term impact", assessment.ShortTermImpact},
		{"Short-term mitigation", assessment.ShortTermMitigation},
		{"Short-term risk after", assessment.ShortTermRiskAfter},
		{"Long-term impact", assessment.LongTermImpact},
		{"Long-term mitigation", assessment.LongTermMitigation},
		{"Long-term risk after", assessment.LongTermRiskAfter},
		{"Overall", assessment.OverallAssessment},
	}
	var b strings.Builder
	b.WriteString(head + "\n\n" + context + "\n\n")
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", dimStyle.Render(row.label+":"), row.value)
	}
	return b.String()
}

func (a *App) footerHints() string {
	switch a.state {
	case stateMenu:
		return "↑/↓ navigate • enter select • q quit"
	case stateCaseText:
		return "e edit case text • p identify parties • esc back"
	case stateParties:
		return "g generate analysis • esc back"
	case statePairs:
		return "↑/↓ navigate • enter choose counterpart • esc back"
	case stateAnalysis:
		return "e edit issues • a agreement map • i interest map • r regenerate • m mark current • esc back"
	case stateIssues:
		return "↑/↓ navigate • b boundaries • s generate scenarios • enter open • esc back"
	case stateScenarios:
		return "↑/↓ navigate • e edit description • enter focus • esc back"
	case stateRisk:
		return "r assess • esc back"
	}
	return "esc back"
}

// scenarioKindLabel turns a snake_case kind into a display label.
func scenarioKindLabel(kind casefile.ScenarioKind) string {
	switch kind {
	case casefile.KindRedlineViolatedA:
		return "Redline violated (your side)"
	case casefile.KindBottomlineViolatedA:
		return "Bottomline violated (your side)"
	case casefile.KindAgreementArea:
		return "Agreement area"
	case casefile.KindBottomlineViolatedB:
		return "Bottomline violated (counterpart)"
	case casefile.KindRedlineViolatedB:
		return "Redline violated (counterpart)"
	}
	return string(kind)
}

// clipText limits a block to n lines for the on-screen preview.
func clipText(text string, n int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) <= n {
		return strings.Join(lines, "\n")
	}
	clipped := append(lines[:n:n], dimStyle.Render(fmt.Sprintf("… %d more lines", len(lines)-n)))
	return strings.Join(clipped, "\n")
}
