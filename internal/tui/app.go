// internal/tui/app.go
//
// This is the main TUI for Parley. It uses bubbletea, which follows
// The Elm Architecture: the App struct holds all state, Update reacts
// to messages with a new state, View renders it. The pipeline core
// stays pure; every mutation goes through the dispatcher, and the only
// suspending operations (generation calls, $EDITOR sessions) run as
// tea.Cmds whose settled results come back as messages.

package tui

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"parley/internal/casefile"
	"parley/internal/llm"
	"parley/internal/logging"
	"parley/internal/pipeline"
	"parley/internal/stage"
)

// appState represents which "screen" we're on.
type appState int

const (
	stateMenu appState = iota
	stateCaseText
	stateParties
	statePairs
	stateAnalysis
	stateIssues
	stateScenarios
	stateRisk
)

// App is the main application model.
type App struct {
	state      appState
	dispatcher *pipeline.Dispatcher
	generator  llm.Generator
	logger     *logging.Logger

	mainMenu  list.Model
	statusMsg string

	// Cursor positions for the manual lists.
	issueCursor    int
	scenarioCursor int
	pairCursor     int

	// The issue whose scenarios are on screen.
	focusIssueID string

	generating bool

	width  int
	height int
}

// menuItem implements list.Item for the main menu.
type menuItem struct {
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp creates the application model around a dispatcher and a
// generator.
func NewApp(dispatcher *pipeline.Dispatcher, generator llm.Generator, logger *logging.Logger) *App {
	items := []list.Item{
		menuItem{title: "Case Text", desc: "Paste or edit the raw negotiation case"},
		menuItem{title: "Parties", desc: "Identify and review negotiating parties"},
		menuItem{title: "Counterpart Pairs", desc: "Switch which party pair the analysis targets"},
		menuItem{title: "Analysis", desc: "Agreement map, interest map and negotiable issues"},
		menuItem{title: "Issues & Scenarios", desc: "Boundaries and outcome scenarios per issue"},
		menuItem{title: "Risk Assessment", desc: "Assess the focused scenario"},
		menuItem{title: "Clear Case", desc: "Wipe the case and its stored copy"},
		menuItem{title: "Exit", desc: "Quit Parley"},
	}
	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "⚖ PARLEY"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)

	return &App{
		state:      stateMenu,
		dispatcher: dispatcher,
		generator:  generator,
		logger:     logger,
		mainMenu:   menu,
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.mainMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-10))
		return a, nil

	case partiesMsg:
		return a.handleParties(msg)

	case analysisMsg:
		return a.handleAnalysis(msg)

	case scenariosMsg:
		return a.handleScenarios(msg)

	case riskMsg:
		return a.handleRisk(msg)

	case editorFinishedMsg:
		return a.handleEditorFinished(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	if a.state == stateMenu {
		var cmd tea.Cmd
		a.mainMenu, cmd = a.mainMenu.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c":
		return a, tea.Quit
	case "q":
		if a.state == stateMenu {
			return a, tea.Quit
		}
	case "esc":
		switch a.state {
		case stateRisk:
			a.state = stateScenarios
		case stateScenarios:
			a.state = stateIssues
		case stateMenu:
		default:
			a.state = stateMenu
		}
		return a, nil
	}

	switch a.state {
	case stateMenu:
		if key == "enter" {
			return a.handleMenuSelection()
		}
		var cmd tea.Cmd
		a.mainMenu, cmd = a.mainMenu.Update(msg)
		return a, cmd
	case stateCaseText:
		return a.handleCaseTextKey(key)
	case stateParties:
		return a.handlePartiesKey(key)
	case statePairs:
		return a.handlePairsKey(key)
	case stateAnalysis:
		return a.handleAnalysisKey(key)
	case stateIssues:
		return a.handleIssuesKey(key)
	case stateScenarios:
		return a.handleScenariosKey(key)
	case stateRisk:
		return a.handleRiskKey(key)
	}
	return a, nil
}

func (a *App) handleMenuSelection() (tea.Model, tea.Cmd) {
	item, ok := a.mainMenu.SelectedItem().(menuItem)
	if !ok {
		return a, nil
	}
	a.statusMsg = ""
	switch item.title {
	case "Case Text":
		a.state = stateCaseText
	case "Parties":
		a.state = stateParties
	case "Counterpart Pairs":
		a.state = statePairs
		a.pairCursor = 0
	case "Analysis":
		a.state = stateAnalysis
	case "Issues & Scenarios":
		a.state = stateIssues
		a.issueCursor = 0
	case "Risk Assessment":
		a.state = stateRisk
	case "Clear Case":
		if err := a.dispatcher.Clear(); err != nil {
			a.setError("clear case", err)
		} else {
			a.statusMsg = "Case cleared."
			a.logf("case cleared")
		}
	case "Exit":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleCaseTextKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "e":
		return a, editInEditor(editRawContent, "", a.dispatcher.Case().RawContent)
	case "p":
		if a.generating {
			return a, nil
		}
		if strings.TrimSpace(a.dispatcher.Case().RawContent) == "" {
			a.statusMsg = "Add case text before identifying parties."
			return a, nil
		}
		a.generating = true
		a.statusMsg = "Identifying parties..."
		return a, a.identifyPartiesCmd()
	}
	return a, nil
}

func (a *App) handlePartiesKey(key string) (tea.Model, tea.Cmd) {
	if key == "g" {
		if a.generating {
			return a, nil
		}
		c := a.dispatcher.Case()
		if len(c.Parties) < 2 {
			a.statusMsg = "Identify parties before generating the analysis."
			return a, nil
		}
		a.generating = true
		a.statusMsg = "Generating analysis..."
		return a, a.generateAnalysisCmd()
	}
	return a, nil
}

func (a *App) handlePairsKey(key string) (tea.Model, tea.Cmd) {
	options := a.pairOptions()
	switch key {
	case "up", "k":
		if a.pairCursor > 0 {
			a.pairCursor--
		}
	case "down", "j":
		if a.pairCursor < len(options)-1 {
			a.pairCursor++
		}
	case "enter":
		if a.pairCursor < len(options) {
			a.choosePair(options[a.pairCursor])
		}
	}
	return a, nil
}

func (a *App) handleAnalysisKey(key string) (tea.Model, tea.Cmd) {
	c := a.dispatcher.Case()
	switch key {
	case "e":
		var text string
		if c.Analysis != nil {
			text = a.dispatcher.Codec().Encode(c.Analysis.Issues)
		}
		return a, editInEditor(editIssuesText, "", text)
	case "a":
		var text string
		if c.Analysis != nil {
			text = c.Analysis.AgreementMap
		}
		return a, editInEditor(editAgreementMap, "", text)
	case "i":
		var text string
		if c.Analysis != nil {
			text = c.Analysis.InterestMap
		}
		return a, editInEditor(editInterestMap, "", text)
	case "r":
		if a.generating {
			return a, nil
		}
		if len(c.Parties) < 2 {
			a.statusMsg = "Identify parties before generating the analysis."
			return a, nil
		}
		a.generating = true
		a.statusMsg = "Regenerating analysis..."
		return a, a.generateAnalysisCmd()
	case "m":
		if err := a.dispatcher.MarkRecalculated(stage.Analysis); err != nil {
			a.setError("mark analysis recalculated", err)
		} else {
			a.statusMsg = "Analysis marked current."
		}
	}
	return a, nil
}

func (a *App) handleIssuesKey(key string) (tea.Model, tea.Cmd) {
	issues := a.sortedIssues()
	switch key {
	case "up", "k":
		if a.issueCursor > 0 {
			a.issueCursor--
		}
	case "down", "j":
		if a.issueCursor < len(issues)-1 {
			a.issueCursor++
		}
	case "b":
		if a.issueCursor < len(issues) {
			is := issues[a.issueCursor]
			return a, editInEditor(editBoundaries, is.ID, boundariesTemplate(is))
		}
	case "s":
		if a.generating || a.issueCursor >= len(issues) {
			return a, nil
		}
		a.generating = true
		a.statusMsg = fmt.Sprintf("Generating scenarios for %q...", issues[a.issueCursor].Name)
		return a, a.generateScenariosCmd(issues[a.issueCursor])
	case "enter":
		if a.issueCursor < len(issues) {
			a.focusIssueID = issues[a.issueCursor].ID
			a.scenarioCursor = 0
			a.state = stateScenarios
		}
	}
	return a, nil
}

func (a *App) handleScenariosKey(key string) (tea.Model, tea.Cmd) {
	scenarios := a.focusScenarios()
	switch key {
	case "up", "k":
		if a.scenarioCursor > 0 {
			a.scenarioCursor--
		}
	case "down", "j":
		if a.scenarioCursor < len(scenarios)-1 {
			a.scenarioCursor++
		}
	case "e":
		if a.scenarioCursor < len(scenarios) {
			s := scenarios[a.scenarioCursor]
			return a, editInEditor(editScenarioText, s.ID, s.Description)
		}
	case "enter":
		if a.scenarioCursor < len(scenarios) {
			if err := a.dispatcher.SelectScenario(scenarios[a.scenarioCursor].ID); err != nil {
				a.setError("select scenario", err)
				return a, nil
			}
			a.state = stateRisk
		}
	}
	return a, nil
}

func (a *App) handleRiskKey(key string) (tea.Model, tea.Cmd) {
	if key == "r" {
		if a.generating {
			return a, nil
		}
		c := a.dispatcher.Case()
		scenario, ok := c.ScenarioByID(c.SelectedScenarioID)
		if !ok {
			a.statusMsg = "Focus a scenario first."
			return a, nil
		}
		issue, _ := c.IssueByID(scenario.IssueID)
		a.generating = true
		a.statusMsg = "Assessing risk..."
		return a, a.generateRiskCmd(scenario, issue)
	}
	return a, nil
}

func (a *App) handleParties(msg partiesMsg) (tea.Model, tea.Cmd) {
	a.generating = false
	if msg.err != nil {
		a.setError("identify parties", msg.err)
		return a, nil
	}
	if msg.result.RateLimited {
		a.statusMsg = rateLimitedNotice
		return a, nil
	}
	if err := a.dispatcher.SetParties(msg.result.Parties); err != nil {
		a.setError("set parties", err)
		return a, nil
	}
	a.statusMsg = fmt.Sprintf("Identified %d parties.", len(msg.result.Parties))
	a.state = stateParties
	return a, nil
}

func (a *App) handleAnalysis(msg analysisMsg) (tea.Model, tea.Cmd) {
	a.generating = false
	if msg.err != nil {
		a.setError("generate analysis", msg.err)
		return a, nil
	}
	if msg.result.RateLimited {
		a.statusMsg = rateLimitedNotice
		return a, nil
	}
	if err := a.dispatcher.CommitGeneratedAnalysis(msg.result.AgreementMap, msg.result.InterestMap, msg.result.IssuesText); err != nil {
		a.setError("commit analysis", err)
		return a, nil
	}
	a.statusMsg = "Analysis updated."
	a.state = stateAnalysis
	return a, nil
}

func (a *App) handleScenarios(msg scenariosMsg) (tea.Model, tea.Cmd) {
	a.generating = false
	if msg.err != nil {
		a.setError("generate scenarios", msg.err)
		return a, nil
	}
	if msg.result.RateLimited {
		a.statusMsg = rateLimitedNotice
		return a, nil
	}
	// An empty draft list through reconcile means "clear everything",
	// which is an explicit user action. A reply that parsed to nothing
	// is a failed generation instead.
	if len(msg.result.Drafts) == 0 {
		a.statusMsg = "The generation reply contained no usable scenarios; nothing was changed."
		a.logf("generate scenarios: reply for issue %s parsed to no drafts", msg.issueID)
		return a, nil
	}
	if err := a.dispatcher.ReconcileScenarios(msg.issueID, msg.result.Drafts); err != nil {
		a.setError("reconcile scenarios", err)
		return a, nil
	}
	a.statusMsg = "Scenarios updated."
	return a, nil
}

func (a *App) handleRisk(msg riskMsg) (tea.Model, tea.Cmd) {
	a.generating = false
	if msg.err != nil {
		a.setError("assess risk", msg.err)
		return a, nil
	}
	if msg.result.RateLimited {
		a.statusMsg = rateLimitedNotice
		return a, nil
	}
	assessment := msg.result.Assessment
	assessment.ScenarioID = msg.scenarioID
	if err := a.dispatcher.SetRiskAssessment(assessment); err != nil {
		a.setError("store risk assessment", err)
		return a, nil
	}
	a.statusMsg = "Risk assessment updated."
	return a, nil
}

func (a *App) handleEditorFinished(msg editorFinishedMsg) (tea.Model, tea.Cmd) {
	if msg.path != "" {
		defer os.Remove(msg.path)
	}
	if msg.err != nil {
		a.setError("editor", msg.err)
		return a, nil
	}
	data, err := os.ReadFile(msg.path)
	if err != nil {
		a.setError("read edit", err)
		return a, nil
	}
	text := string(data)

	switch msg.target {
	case editRawContent:
		err = a.dispatcher.SetRawContent(text)
	case editIssuesText:
		err = a.dispatcher.ApplyAnalysisText(text)
	case editAgreementMap:
		err = a.dispatcher.SetAgreementMap(strings.TrimRight(text, "\n"))
	case editInterestMap:
		err = a.dispatcher.SetInterestMap(strings.TrimRight(text, "\n"))
	case editScenarioText:
		err = a.dispatcher.SetScenarioDescription(msg.targetID, strings.TrimSpace(text))
	case editBoundaries:
		var b pipeline.Boundaries
		b, err = parseBoundaries(text)
		if err == nil {
			err = a.dispatcher.SetIssueBoundaries(msg.targetID, b)
		}
	}
	if err != nil {
		a.setError("apply edit", err)
		return a, nil
	}
	a.statusMsg = "Saved."
	return a, nil
}

// pairOptions lists every counterpart the user's side could face, one
// per stored or potential pair.
func (a *App) pairOptions() []casefile.Party {
	c := a.dispatcher.Case()
	if len(c.Parties) < 2 {
		return nil
	}
	return c.Parties[1:]
}

// choosePair re-marks the primaries so the chosen counterpart joins the
// user's side as the primary pair; the pipeline switches the pair
// content with it.
func (a *App) choosePair(counterpart casefile.Party) {
	c := a.dispatcher.Case()
	if len(c.Parties) == 0 {
		return
	}
	userID := c.Parties[0].ID
	parties := make([]casefile.Party, len(c.Parties))
	copy(parties, c.Parties)
	for i := range parties {
		parties[i].IsPrimary = parties[i].ID == userID || parties[i].ID == counterpart.ID
		parties[i].IsUserSide = parties[i].ID == userID
	}
	if err := a.dispatcher.SetParties(parties); err != nil {
		a.setError("switch pair", err)
		return
	}
	a.statusMsg = fmt.Sprintf("Now negotiating against %s.", counterpart.Name)
	a.logf("switched pair to counterpart %s", counterpart.Name)
}

// sortedIssues returns the current issues in priority order.
func (a *App) sortedIssues() []casefile.Issue {
	c := a.dispatcher.Case()
	if c.Analysis == nil {
		return nil
	}
	issues := casefile.CloneIssues(c.Analysis.Issues)
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Priority < issues[j].Priority
	})
	return issues
}

// focusScenarios returns the focused issue's scenarios in id order.
func (a *App) focusScenarios() []casefile.Scenario {
	c := a.dispatcher.Case()
	var out []casefile.Scenario
	for _, s := range c.Scenarios {
		if s.IssueID == a.focusIssueID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

const rateLimitedNotice = "The generation service is rate limited; nothing was changed. Try again shortly."

func (a *App) setError(op string, err error) {
	a.statusMsg = fmt.Sprintf("Error: %s: %v", op, err)
	if a.logger != nil {
		a.logger.Errorf("%s: %v", op, err)
	}
}

func (a *App) logf(format string, args ...any) {
	if a.logger != nil {
		a.logger.Printf(format, args...)
	}
}

// boundariesTemplate renders the labeled edit form for an issue's
// boundary fields.
func boundariesTemplate(is casefile.Issue) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Boundaries for: %s\n", is.Name)
	b.WriteString("# One value per label. Leave a value empty to clear it.\n\n")
	fmt.Fprintf(&b, "Redline A: %s\n", is.RedlineA)
	fmt.Fprintf(&b, "Bottomline A: %s\n", is.BottomlineA)
	fmt.Fprintf(&b, "Redline B: %s\n", is.RedlineB)
	fmt.Fprintf(&b, "Bottomline B: %s\n", is.BottomlineB)
	fmt.Fprintf(&b, "Priority: %d\n", is.Priority)
	return b.String()
}

// parseBoundaries reads the labeled form back.
func parseBoundaries(text string) (pipeline.Boundaries, error) {
	var b pipeline.Boundaries
	seen := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(label)) {
		case "redline a":
			b.RedlineA = value
			seen = true
		case "bottomline a":
			b.BottomlineA = value
			seen = true
		case "redline b":
			b.RedlineB = value
			seen = true
		case "bottomline b":
			b.BottomlineB = value
			seen = true
		case "priority":
			p, err := strconv.Atoi(value)
			if err != nil {
				return b, fmt.Errorf("tui: priority must be a number: %q", value)
			}
			b.Priority = p
			seen = true
		}
	}
	if !seen {
		return b, errors.New("tui: no boundary fields found in edit")
	}
	return b, nil
}
