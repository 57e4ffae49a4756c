package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/collide/internal/registry"
	"github.com/vovakirdan/collide/internal/storage"
)

// Runs table layout constants
const (
	minWidthForSidebar = 100 // Minimum width to show scenario sidebar
	sidebarWidth       = 20  // Width of scenario sidebar
	maxRuns            = 100 // Max runs to load
)

// RunsKeyMap defines the key bindings for the bench runs table.
type RunsKeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	Back         key.Binding
	Quit         key.Binding
	NextScenario key.Binding
	PrevScenario key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RunsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextScenario, k.PrevScenario, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k RunsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextScenario, k.PrevScenario},
		{k.Back, k.Quit},
	}
}

// DefaultRunsKeyMap returns default key bindings.
func DefaultRunsKeyMap() RunsKeyMap {
	return RunsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev scenario"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next scenario"),
		),
		NextScenario: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next scenario"),
		),
		PrevScenario: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev scenario"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RunsModel is the Bubble Tea model for the stored benchmark runs.
type RunsModel struct {
	scenarios   []registry.Info
	cursor      int
	store       *storage.Store
	runs        []storage.BenchRun
	stats       map[string]*storage.ScenarioStats
	loadErr     error
	table       table.Model
	help        help.Model
	keys        RunsKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewRunsModel creates a new runs model. The scenario with the given id is
// selected first when it is registered.
func NewRunsModel(store *storage.Store, scenario string, width, height int) RunsModel {
	h := help.New()
	h.ShowAll = false

	m := RunsModel{
		scenarios:   registry.List(),
		store:       store,
		keys:        DefaultRunsKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	for i, s := range m.scenarios {
		if s.ID == scenario {
			m.cursor = i
		}
	}

	m.table = m.createTable()
	if store != nil {
		m.stats, m.loadErr = store.AllScenarioStats()
	}
	if len(m.scenarios) > 0 {
		m.loadRuns(m.scenarios[m.cursor].ID)
	}

	return m
}

// createTable creates a new table with appropriate columns.
func (m *RunsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Seed", Width: 8},
		{Title: "Bodies", Width: 7},
		{Title: "ms/step", Width: 9},
		{Title: "Pairs", Width: 9},
		{Title: "Reinserts", Width: 10},
		{Title: "Height", Width: 7},
		{Title: "Date", Width: 13},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)), // Leave room for header, summary, help and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadRuns loads runs for the given scenario.
func (m *RunsModel) loadRuns(scenario string) {
	m.runs = nil
	if m.store != nil {
		runs, err := m.store.Runs(scenario, maxRuns)
		if err != nil {
			m.loadErr = err
		} else {
			m.runs = runs
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current runs.
func (m *RunsModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			fmt.Sprintf("%d", r.Seed),
			fmt.Sprintf("%d", r.Bodies),
			fmt.Sprintf("%.3f", float64(r.PerStep().Microseconds())/1000),
			fmt.Sprintf("%d", r.Pairs),
			fmt.Sprintf("%d", r.Reinserts),
			fmt.Sprintf("%d", r.TreeHeight),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the runs model.
func (m RunsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the runs table.
func (m RunsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextScenario), key.Matches(msg, m.keys.Right):
			if len(m.scenarios) > 0 {
				m.cursor = (m.cursor + 1) % len(m.scenarios)
				m.loadRuns(m.scenarios[m.cursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevScenario), key.Matches(msg, m.keys.Left):
			if len(m.scenarios) > 0 {
				m.cursor = (m.cursor - 1 + len(m.scenarios)) % len(m.scenarios)
				m.loadRuns(m.scenarios[m.cursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the runs table.
func (m RunsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "BENCH RUNS"
	if len(m.scenarios) > 0 {
		title = fmt.Sprintf("BENCH RUNS - %s", m.scenarios[m.cursor].Title)
	}
	b.WriteString(titleStyle.MarginBottom(1).Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(m.summary())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// summary describes the aggregated runs of the selected scenario.
func (m RunsModel) summary() string {
	if m.loadErr != nil {
		return pausedStyle.Render("error: " + m.loadErr.Error())
	}
	if len(m.scenarios) == 0 {
		return ""
	}
	st, ok := m.stats[m.scenarios[m.cursor].ID]
	if !ok {
		return ""
	}
	return statusStyle.Render(fmt.Sprintf("%d runs  best %v/step  avg %v/step  last %s",
		st.Runs, st.BestPerStep, st.AvgPerStep, st.LastRun.Format("Jan 02 15:04")))
}

// renderWideLayout renders the table with a sidebar for scenario selection.
func (m RunsModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Scenarios\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, s := range m.scenarios {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}

		name := s.Title
		maxLen := sidebarWidth - 6
		if len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ",
		tableStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout renders the table with scenario tabs above it.
func (m RunsModel) renderNarrowLayout() string {
	var b strings.Builder

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.scenarios))
	for i, s := range m.scenarios {
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(s.ID)
		} else {
			tabs[i] = tabStyle.Render(" " + s.ID + " ")
		}
	}

	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 && len(m.scenarios) > 0 {
		tabLine = fmt.Sprintf("< %s >", m.scenarios[m.cursor].ID)
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m RunsModel) renderTableContent() string {
	if len(m.runs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No runs recorded yet.\nRun `collide bench` to add some.")
	}

	return m.table.View()
}

// Runs returns the runs shown for the selected scenario.
func (m RunsModel) Runs() []storage.BenchRun {
	return m.runs
}

// IsGoingBack returns true if user wants to go back to the menu.
func (m RunsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m RunsModel) IsQuitting() bool {
	return m.quitting
}

// RunRuns runs the bench runs screen on its own.
func RunRuns(store *storage.Store, scenario string, width, height int) error {
	p := tea.NewProgram(
		NewRunsModel(store, scenario, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
