package ui

import (
	"log"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"reposcout/internal/domain"
	"reposcout/internal/orchestrator"
	"reposcout/internal/ui/views"
)

// Model represents the UI state
type Model struct {
	orch    *orchestrator.Orchestrator
	updates <-chan orchestrator.State
	state   orchestrator.State

	queryInput  textinput.Model
	filterInput textinput.Model
	spin        spinner.Model
	renderer    *views.Renderer

	width         int
	height        int
	selectedIndex int
	offset        int
	statusMessage string
	filterFocused bool
}

// NewModel creates a new UI model over a started orchestrator.
func NewModel(orch *orchestrator.Orchestrator) *Model {
	query := textinput.New()
	query.Placeholder = "repository search"
	query.Prompt = ""
	query.Focus()

	filter := textinput.New()
	filter.Placeholder = "narrow cached results"
	filter.Prompt = ""

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		orch:        orch,
		updates:     orch.Updates(),
		state:       orch.Snapshot(),
		queryInput:  query,
		filterInput: filter,
		spin:        sp,
		renderer:    views.NewRenderer(),
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, waitForState(m.updates))
}

// waitForState forwards orchestrator snapshots into the program.
func waitForState(ch <-chan orchestrator.State) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ch)
	}
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case stateMsg:
		m.state = orchestrator.State(msg)
		m.clampSelection()
		return m, waitForState(m.updates)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case copiedMsg:
		if msg.err != nil {
			log.Printf("ui: clipboard copy failed: %v", msg.err)
			m.statusMessage = "Copy failed"
		} else {
			m.statusMessage = "Copied " + msg.url
		}
		return m, nil

	case openedMsg:
		if msg.err != nil {
			log.Printf("ui: browser open failed: %v", msg.err)
			m.statusMessage = "Could not open browser"
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.state.ErrorMessage != "" {
			m.orch.DismissError()
			return m, nil
		}
		if m.filterFocused {
			m.focusQuery()
			return m, nil
		}
		return m, tea.Quit

	case "tab":
		if m.filterFocused {
			m.focusQuery()
		} else {
			m.focusFilter()
		}
		return m, nil

	case "up":
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
		m.scrollToSelection()
		return m, nil

	case "down":
		if m.selectedIndex < len(m.state.FilteredResults)-1 {
			m.selectedIndex++
		}
		m.scrollToSelection()
		return m, nil

	case "enter":
		if repo, ok := m.selectedRepo(); ok {
			url := repo.URL
			return m, func() tea.Msg { return openedMsg{err: openURL(url)} }
		}
		return m, nil

	case "ctrl+y":
		if repo, ok := m.selectedRepo(); ok {
			url := repo.URL
			return m, func() tea.Msg { return copiedMsg{url: url, err: clipboard.WriteAll(url)} }
		}
		return m, nil
	}

	// Everything else edits the focused text input.
	m.statusMessage = ""
	var cmd tea.Cmd
	if m.filterFocused {
		before := m.filterInput.Value()
		m.filterInput, cmd = m.filterInput.Update(msg)
		if v := m.filterInput.Value(); v != before {
			m.orch.SetLocalFilter(v)
		}
	} else {
		before := m.queryInput.Value()
		m.queryInput, cmd = m.queryInput.Update(msg)
		if v := m.queryInput.Value(); v != before {
			m.orch.SetRemoteQuery(v)
			// A new remote query resets the local filter upstream.
			m.filterInput.SetValue("")
		}
	}
	return m, cmd
}

func (m *Model) focusQuery() {
	m.filterFocused = false
	m.filterInput.Blur()
	m.queryInput.Focus()
}

func (m *Model) focusFilter() {
	m.filterFocused = true
	m.queryInput.Blur()
	m.filterInput.Focus()
}

func (m *Model) selectedRepo() (repo domain.Repo, ok bool) {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.state.FilteredResults) {
		return repo, false
	}
	return m.state.FilteredResults[m.selectedIndex], true
}

func (m *Model) clampSelection() {
	if n := len(m.state.FilteredResults); m.selectedIndex >= n {
		m.selectedIndex = n - 1
	}
	if m.selectedIndex < 0 {
		m.selectedIndex = 0
	}
	m.scrollToSelection()
}

func (m *Model) scrollToSelection() {
	rows := views.VisibleRows(m.height)
	if m.selectedIndex < m.offset {
		m.offset = m.selectedIndex
	}
	if m.selectedIndex >= m.offset+rows {
		m.offset = m.selectedIndex - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View implements tea.Model
func (m *Model) View() string {
	return m.renderer.Render(views.ViewState{
		Width:         m.width,
		Height:        m.height,
		State:         m.state,
		QueryView:     m.queryInput.View(),
		FilterView:    m.filterInput.View(),
		FilterFocused: m.filterFocused,
		SelectedIndex: m.selectedIndex,
		Offset:        m.offset,
		Spinner:       m.spin.View(),
		StatusMessage: m.statusMessage,
	})
}
