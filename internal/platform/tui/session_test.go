package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/collide/internal/canvas"
	"github.com/vovakirdan/collide/internal/config"
	_ "github.com/vovakirdan/collide/internal/scenarios"
	"github.com/vovakirdan/collide/internal/storage"
)

func updateMenu(t *testing.T, m MenuModel, msg tea.Msg) MenuModel {
	t.Helper()
	next, _ := m.Update(msg)
	got, ok := next.(MenuModel)
	require.True(t, ok)
	return got
}

func updateSession(t *testing.T, m SessionModel, msg tea.Msg) (SessionModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	got, ok := next.(SessionModel)
	require.True(t, ok)
	return got, cmd
}

func TestKeyMapBindings(t *testing.T) {
	keys := DefaultKeyMap()
	tests := []struct {
		msg     tea.KeyMsg
		binding key.Binding
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, keys.Up},
		{runes("w"), keys.Up},
		{runes("a"), keys.Left},
		{tea.KeyMsg{Type: tea.KeySpace}, keys.Pause},
		{runes("r"), keys.Ray},
		{runes("R"), keys.Restart},
		{tea.KeyMsg{Type: tea.KeyCtrlS}, keys.Save},
		{tea.KeyMsg{Type: tea.KeyEsc}, keys.Back},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, keys.Quit},
	}
	for _, tt := range tests {
		assert.True(t, key.Matches(tt.msg, tt.binding), tt.msg.String())
	}
	assert.False(t, key.Matches(runes("R"), keys.Ray))
}

func TestRenderScreen(t *testing.T) {
	s := canvas.NewScreen(3, 2)
	s.Set(0, 0, '#', canvas.ColorRed)
	s.Set(2, 1, 'o', canvas.ColorCyan)

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "#")
	assert.Contains(t, lines[1], "o")
}

func TestMenuNavigation(t *testing.T) {
	m := NewMenuModel(80, 24)
	require.GreaterOrEqual(t, len(m.items), 3)
	assert.Contains(t, m.View(), "Peg Grid")

	m = updateMenu(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)

	m = updateMenu(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = updateMenu(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, m.Selected())
	assert.Equal(t, "mixed", m.Selected().ID)
	assert.False(t, m.IsQuitting())

	m = updateMenu(t, NewMenuModel(80, 24), tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, m.WantsRuns())

	m = updateMenu(t, NewMenuModel(80, 24), runes("q"))
	assert.True(t, m.IsQuitting())
	assert.Empty(t, m.View())
}

func TestMenuStatus(t *testing.T) {
	m := NewMenuModel(80, 24).WithStatus("unknown scenario")
	assert.Contains(t, m.View(), "unknown scenario")
}

func testSessionOptions(start string) SessionOptions {
	return SessionOptions{Config: config.Default(), Start: start}
}

func TestSessionStartsScenario(t *testing.T) {
	m := NewSessionModel(testSessionOptions("rain"), 100, 40)
	require.True(t, m.InViewer())
	assert.NotNil(t, m.Init())
	assert.Contains(t, m.View(), "Rain")

	m, cmd := updateSession(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, m.InViewer())
	assert.Contains(t, m.View(), "Select a scenario")
}

func TestSessionUnknownScenario(t *testing.T) {
	m := NewSessionModel(testSessionOptions("nope"), 100, 40)
	assert.False(t, m.InViewer())
	assert.Contains(t, m.View(), `unknown scenario "nope"`)
}

func TestSessionMenuOpensViewer(t *testing.T) {
	m := NewSessionModel(testSessionOptions(""), 100, 40)
	m, cmd := updateSession(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.InViewer())
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Peg Grid")

	m, cmd = updateSession(t, m, runes("q"))
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestSessionRunsAndBack(t *testing.T) {
	m := NewSessionModel(testSessionOptions(""), 100, 40)
	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.True(t, m.InRuns())
	assert.Contains(t, m.View(), "No runs recorded yet.")

	m, cmd := updateSession(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, m.InRuns())
	assert.Contains(t, m.View(), "Select a scenario")
}

func TestRunsModel(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	for i, scenario := range []string{"rain", "rain", "grid"} {
		_, err := store.SaveRun(storage.BenchRun{
			Scenario:   scenario,
			Seed:       int64(i + 1),
			Bodies:     100,
			Steps:      10,
			Elapsed:    time.Duration(i+1) * time.Millisecond,
			TreeHeight: 7,
		})
		require.NoError(t, err)
	}

	m := NewRunsModel(store, "rain", 120, 40)
	assert.Len(t, m.Runs(), 2)
	view := m.View()
	assert.Contains(t, view, "BENCH RUNS - Rain")
	assert.Contains(t, view, "2 runs")

	// rain is last, so the next scenario wraps to grid.
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(RunsModel)
	require.Len(t, m.Runs(), 1)
	assert.Equal(t, "grid", m.Runs()[0].Scenario)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(RunsModel)
	assert.Len(t, m.Runs(), 2)

	next, cmd := m.Update(runes("b"))
	m = next.(RunsModel)
	assert.True(t, m.IsGoingBack())
	assert.NotNil(t, cmd)
}
