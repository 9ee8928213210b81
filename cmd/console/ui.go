package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/cauldron/internal/config"
	"github.com/jwebster45206/cauldron/pkg/cooking"
	"github.com/jwebster45206/cauldron/pkg/session"
	"github.com/jwebster45206/cauldron/pkg/state"
	"github.com/jwebster45206/cauldron/pkg/storage"
	"github.com/muesli/reflow/wordwrap"
)

const pantryColumns = 3

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config    *config.Config
	store     storage.Storage
	publisher session.Publisher
	logger    *slog.Logger
	session   *session.Session

	transcript     viewport.Model
	metaViewport   viewport.Model
	transcriptText []string
	status         string
	ready          bool
	width          int
	height         int
	err            error

	// Scenario selection state
	showScenarioModal bool
	scenarios         []string
	scenarioMap       map[string]string
	selectedScenario  int
	loadingScenarios  bool
	starting          bool

	// Quit confirmation state
	showQuitModal bool
}

type scenariosLoadedMsg struct {
	scenarios   []string
	scenarioMap map[string]string
	err         error
}

type sessionStartedMsg struct {
	session *session.Session
	err     error
}

var (
	storyPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(3).
			PaddingRight(1)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	characterStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	dialogueBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1)

	ingredientStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Width(16).
			Align(lipgloss.Center)

	selectedIngredientStyle = ingredientStyle.
				BorderForeground(lipgloss.Color("205")).
				Bold(true)

	dishStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	intermissionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")). // yellow
				Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *config.Config, store storage.Storage, publisher session.Publisher, logger *slog.Logger) ConsoleUI {
	transcript := viewport.New(50, 10)
	transcript.MouseWheelEnabled = true

	return ConsoleUI{
		config:            cfg,
		store:             store,
		publisher:         publisher,
		logger:            logger,
		transcript:        transcript,
		metaViewport:      viewport.New(20, 20),
		showScenarioModal: true,
		loadingScenarios:  true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	if m.showScenarioModal {
		return m.loadScenarios()
	}
	return nil
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	if m.showScenarioModal {
		return m.updateScenarioModal(msg)
	}

	var vpCmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			m.advanceDialogue()
			return m, nil
		}
		m.transcript, vpCmd = m.transcript.Update(msg)
		return m, vpCmd

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.session.Phase() == session.PhaseMinigame {
				m.confirm()
			} else {
				m.advanceDialogue()
			}
			return m, nil
		case tea.KeySpace:
			m.advanceDialogue()
			return m, nil
		}

		switch key := msg.String(); key {
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			m.selectIngredient(cooking.IngredientID(key[0] - '0'))
			return m, nil
		case "r":
			m.session.Restart(context.Background())
			m.transcriptText = nil
			m.status = "The story starts over."
			m.appendFrame()
			return m, nil
		case "c":
			if err := clipboard.WriteAll(strings.Join(m.transcriptText, "\n")); err != nil {
				m.status = errorStyle.Render("Copy failed: " + err.Error())
			} else {
				m.status = "Transcript copied."
			}
			return m, nil
		}
	}

	m.transcript, vpCmd = m.transcript.Update(msg)
	return m, vpCmd
}

func (m *ConsoleUI) resize() {
	storyWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - storyWidth - 6
	m.transcript.Width = storyWidth - 4
	m.transcript.Height = max(m.height-22, 3)
	m.metaViewport.Width = max(metaWidth-2, 10)
	m.metaViewport.Height = m.height - 2
	m.ready = true
	m.refresh()
}

func (m *ConsoleUI) advanceDialogue() {
	step, err := m.session.AdvanceDialogue(context.Background())
	if err != nil {
		m.handleError(err)
		return
	}
	m.status = ""
	switch t := step.Transition.(type) {
	case state.EnterMinigame:
		m.status = "Time to cook. Pick two ingredients with 1-9, then press Enter."
	case state.EnterIntermission:
		m.appendLine(intermissionStyle.Render(t.Card))
	}
	if step.Phase == session.PhaseDialogue {
		m.appendFrame()
	}
	m.refresh()
}

func (m *ConsoleUI) selectIngredient(id cooking.IngredientID) {
	if err := m.session.SelectIngredient(context.Background(), id); err != nil {
		m.handleError(err)
		return
	}
	m.status = m.session.SelectionSummary()
	m.refresh()
}

func (m *ConsoleUI) confirm() {
	res, err := m.session.Confirm(context.Background())
	if err != nil {
		m.handleError(err)
		return
	}
	m.appendLine(dishStyle.Render("You serve: " + res.Description))
	m.status = ""
	m.appendFrame()
	m.refresh()
}

// handleError keeps misplaced input silent and surfaces anything else.
func (m *ConsoleUI) handleError(err error) {
	switch {
	case errors.Is(err, session.ErrWrongPhase):
		m.status = promptStyle.Render("Nothing happens.")
	case errors.Is(err, session.ErrUnknownIngredient):
		m.status = promptStyle.Render("That shelf is empty.")
	default:
		m.err = err
		m.logger.Error("Session input failed", "error", err)
	}
	m.refresh()
}

func (m *ConsoleUI) appendFrame() {
	v := m.session.View()
	line := v.Text
	if v.Speaker != "" {
		line = speakerStyle.Render(v.Speaker+":") + " " + v.Text
	}
	m.appendLine(line)
}

func (m *ConsoleUI) appendLine(line string) {
	m.transcriptText = append(m.transcriptText, line)
	m.refresh()
	m.transcript.GotoBottom()
}

func (m *ConsoleUI) refresh() {
	width := m.transcript.Width
	if width <= 0 {
		width = 50
	}
	var content strings.Builder
	for _, line := range m.transcriptText {
		content.WriteString(wordwrap.String(line, width) + "\n")
	}
	m.transcript.SetContent(content.String())
	if m.session != nil {
		m.metaViewport.SetContent(writeMetadata(m.session.View()))
	}
}

func writeMetadata(v session.View) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("SESSION") + "\n\n")

	content.WriteString("Session ID:\n")
	content.WriteString(v.SessionID[:8] + "...\n\n")

	content.WriteString("Scene:\n")
	content.WriteString(fmt.Sprintf("%d. %s\n", v.Scene, v.SceneTitle))
	content.WriteString(fmt.Sprintf("frame %d of %d\n\n", v.Frame+1, v.FrameCount+1))

	content.WriteString("Phase:\n")
	content.WriteString(string(v.Phase) + "\n\n")

	content.WriteString("Last dish:\n")
	if v.LastResult != nil {
		content.WriteString(path.Base(v.LastResult.Asset) + "\n")
		content.WriteString(fmt.Sprintf("• sweet: %d\n• savory: %d\n• spooky: %d\n\n", v.Traits.Sweet, v.Traits.Savory, v.Traits.Spooky))
	} else {
		content.WriteString("Nothing yet\n\n")
	}

	content.WriteString("Keys:\n")
	content.WriteString("• Enter/Space/Click: Next\n")
	content.WriteString("• 1-9: Pick ingredient\n")
	content.WriteString("• Enter: Serve dish\n")
	content.WriteString("• r: Restart\n")
	content.WriteString("• c: Copy transcript\n")
	content.WriteString("• Esc: Quit\n")

	return content.String()
}

func (m ConsoleUI) loadScenarios() tea.Cmd {
	return func() tea.Msg {
		names, scenarioMap, err := listScenarios(context.Background(), m.store, m.config.Scenario)
		return scenariosLoadedMsg{names, scenarioMap, err}
	}
}

func (m ConsoleUI) startScenario(filename string) tea.Cmd {
	return func() tea.Msg {
		s, err := startSession(context.Background(), m.store, filename, m.publisher, m.logger)
		return sessionStartedMsg{s, err}
	}
}

func (m ConsoleUI) updateScenarioModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case scenariosLoadedMsg:
		m.loadingScenarios = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.scenarios = msg.scenarios
			m.scenarioMap = msg.scenarioMap
		}

	case sessionStartedMsg:
		m.starting = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.session = msg.session
		m.showScenarioModal = false
		m.transcriptText = nil
		m.appendFrame()
		if m.width > 0 && m.height > 0 {
			m.resize()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if m.loadingScenarios {
				return m, tea.Quit
			}
			m.showQuitModal = true
			return m, nil
		}

		if m.loadingScenarios || m.starting || m.err != nil {
			return m, nil
		}

		switch msg.Type {
		case tea.KeyUp:
			if m.selectedScenario > 0 {
				m.selectedScenario--
			}
		case tea.KeyDown:
			if m.selectedScenario < len(m.scenarios)-1 {
				m.selectedScenario++
			}
		case tea.KeyEnter:
			if len(m.scenarios) > 0 {
				scenarioName := m.scenarios[m.selectedScenario]
				m.starting = true
				return m, m.startScenario(m.scenarioMap[scenarioName])
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Leave the Kitchen?"))
	content.WriteString("\n\n")
	content.WriteString("Nothing is saved. Are you sure you want to quit?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderScenarioModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	switch {
	case m.loadingScenarios:
		content.WriteString(modalTitleStyle.Render("Loading Scenarios..."))
	case m.err != nil:
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to load scenario: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	case m.starting:
		content.WriteString(modalTitleStyle.Render("Lighting the stove..."))
	default:
		content.WriteString(modalTitleStyle.Render("Select a Scenario"))
		content.WriteString("\n\n")

		for i, name := range m.scenarios {
			if i == m.selectedScenario {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", name)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", name)))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if m.showScenarioModal {
		return m.renderScenarioModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	storyWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - storyWidth - 6
	v := m.session.View()

	var body string
	switch v.Phase {
	case session.PhaseMinigame:
		body = m.renderKitchen(v, storyWidth-4)
	case session.PhaseIntermission:
		body = intermissionStyle.Render(wordwrap.String(v.Intermission, storyWidth-4)) + "\n\n" +
			promptStyle.Render("Press Enter to continue")
	default:
		body = renderStage(v, storyWidth-4)
	}

	footer := m.status
	if m.err != nil {
		footer = errorStyle.Render("Error: " + m.err.Error())
	}

	storyPanel := storyPanelStyle.Width(storyWidth).Height(m.height - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(strings.ToUpper(v.SceneTitle)),
			"",
			m.transcript.View(),
			separatorStyle.Render(strings.Repeat("─", max(storyWidth-4, 1))),
			body,
			"",
			footer,
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, storyPanel, metaPanel)
}

// renderStage draws both characters and the current line.
func renderStage(v session.View, width int) string {
	characters := lipgloss.JoinHorizontal(lipgloss.Top,
		characterStyle.Render(characterName(v.LeftCharacter)),
		strings.Repeat(" ", 4),
		characterStyle.Render(characterName(v.RightCharacter)),
	)

	line := wordwrap.String(v.Text, max(width-4, 10))
	if v.Speaker != "" {
		line = speakerStyle.Render(v.Speaker) + "\n" + line
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		characters,
		dialogueBoxStyle.Width(max(width-2, 10)).Render(line),
	)
}

// renderKitchen draws the pantry grid, the current picks and the dish they would make.
func (m ConsoleUI) renderKitchen(v session.View, width int) string {
	sel := m.session.Selection()
	pantry := m.session.Scenario().Pantry()

	var rows []string
	var row []string
	for _, id := range pantry.IDs() {
		style := ingredientStyle
		if id == sel.Current() || id == sel.Previous() {
			style = selectedIngredientStyle
		}
		row = append(row, style.Render(fmt.Sprintf("%d  %s", id, pantry.DisplayName(id))))
		if len(row) == pantryColumns {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	var dish string
	if v.Preview != nil && sel.Count() > 0 {
		dish = dishStyle.Render(characterName(v.Preview.Asset)) + "\n" +
			wordwrap.String(v.Preview.Description, max(width, 10))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		"",
		v.Selection,
		dish,
	)
}

// characterName turns an asset key like "characters/woman_blue.png" into "woman blue".
func characterName(asset string) string {
	name := strings.TrimSuffix(path.Base(asset), path.Ext(asset))
	return strings.ReplaceAll(name, "_", " ")
}
