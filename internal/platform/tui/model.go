package tui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/collide/internal/canvas"
	"github.com/vovakirdan/collide/internal/collision"
	"github.com/vovakirdan/collide/internal/config"
	"github.com/vovakirdan/collide/internal/geom"
	"github.com/vovakirdan/collide/internal/metrics"
	"github.com/vovakirdan/collide/internal/registry"
	"github.com/vovakirdan/collide/internal/scene"
	"github.com/vovakirdan/collide/internal/sim"
	"github.com/vovakirdan/collide/internal/storage"
	"github.com/vovakirdan/collide/internal/world"
)

const (
	rayTurn        = math.Pi / 12
	probeGrowth    = 0.5
	minProbeRadius = 0.25
)

var (
	viewerGen   atomic.Int64
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	pausedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Source builds the scene a viewer shows. It is called again on restart.
type Source func() (*scene.Scene, error)

// ScenarioSource builds a registered scenario. Every restart uses the next
// seed.
func ScenarioSource(id string, cfg config.Sim) Source {
	seed := cfg.Seed
	return func() (*scene.Scene, error) {
		c := cfg
		c.Seed = seed
		seed++
		return registry.Build(id, c)
	}
}

// FileSource reloads a scene file on every restart.
func FileSource(path string) Source {
	return func() (*scene.Scene, error) {
		return scene.Load(path)
	}
}

// SceneSource restarts from copies of sc.
func SceneSource(sc *scene.Scene) Source {
	return func() (*scene.Scene, error) {
		return sc.Clone(), nil
	}
}

// Options configures a viewer.
type Options struct {
	Title    string
	Source   Source
	Config   config.Config
	Store    *storage.Store    // Optional; enables snapshot saving
	Recorder *metrics.Recorder // Optional
	Logger   *log.Logger
}

// Model is the Bubble Tea model of the live viewer. It steps a simulation on
// every tick and lets the user probe the world with a circle and a ray.
type Model struct {
	opts Options
	keys KeyMap
	help help.Model
	gen  int64

	sim    *sim.Sim
	field  *canvas.Screen
	view   canvas.Viewport
	width  int
	height int

	probe    *collision.Circle
	touching []collision.Shape
	rayOn    bool
	rayAngle float64
	rayHit   world.Hit
	rayOK    bool

	paused   bool
	status   string
	quitting bool
}

// NewModel builds the first scene from opts.Source. A zero width or height
// sizes the grid from the configured cell scale.
func NewModel(opts Options, width, height int) (Model, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Title == "" {
		opts.Title = "collide"
	}

	m := Model{
		opts:   opts,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		gen:    viewerGen.Add(1),
		width:  width,
		height: height,
	}
	m.help.Width = width

	if err := m.restart(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// restart rebuilds the scene and world and recenters the probe.
func (m *Model) restart() error {
	sc, err := m.opts.Source()
	if err != nil {
		return fmt.Errorf("tui: cannot build scene: %w", err)
	}

	w := world.New(m.opts.Config.World, world.WithLogger(m.opts.Logger))
	m.sim = sim.New(sc, w, m.opts.Config.Sim.Step(), sim.WithLogger(m.opts.Logger))

	radius := max(m.opts.Config.Viewer.ProbeRadius, minProbeRadius)
	m.probe = collision.NewCircleAt(sc.Arena.Center(), radius)

	m.layout()
	m.refresh()
	m.opts.Logger.Debug("scene built", "name", sc.Name, "bodies", len(sc.Bodies))
	return nil
}

// layout sizes the field to the terminal.
func (m *Model) layout() {
	chrome := 3 + m.helpRows()
	cols, rows := gridSize(m.sim.Scene().Arena, m.opts.Config.Viewer.CellScale, m.width, m.height, chrome)
	m.view = canvas.NewViewport(m.sim.Scene().Arena, cols, rows)
	if m.field == nil {
		m.field = canvas.NewScreen(cols, rows)
	} else {
		m.field.Resize(cols, rows)
	}
}

func (m *Model) helpRows() int {
	if !m.help.ShowAll {
		return 1
	}
	rows := 0
	for _, col := range m.keys.FullHelp() {
		rows = max(rows, len(col))
	}
	return rows
}

// gridSize returns the field size for arena. Terminal cells are about twice
// as tall as they are wide, so a cell covers cellScale by 2*cellScale units.
func gridSize(arena geom.AABB, cellScale float64, width, height, chromeRows int) (int, int) {
	if cellScale <= 0 {
		cellScale = 1
	}
	cols := int(math.Ceil(arena.Width() / cellScale))
	rows := int(math.Ceil(arena.Height() / (2 * cellScale)))
	if width > 0 {
		cols = min(cols, width-2)
	}
	if height > 0 {
		rows = min(rows, height-chromeRows)
	}
	return max(cols, 1), max(rows, 1)
}

// refresh re-runs the probe query and ray cast against the current world.
func (m *Model) refresh() {
	w := m.sim.World()
	m.touching = w.Query(m.probe)
	m.rayHit, m.rayOK = world.Hit{}, false
	if m.rayOn {
		m.rayHit, m.rayOK = w.CastRayClosest(m.probe.Center(), m.rayDir(), m.rayLength())
	}
}

func (m *Model) rayDir() geom.Vec {
	return geom.V(math.Cos(m.rayAngle), math.Sin(m.rayAngle))
}

func (m *Model) rayLength() float64 {
	if l := m.opts.Config.Viewer.RayLength; l > 0 {
		return l
	}
	return m.sim.Scene().Arena.Size().Len()
}

// step advances the simulation once and reports the world activity.
func (m *Model) step() {
	w := m.sim.World()
	before := w.Stats()
	start := time.Now()
	m.sim.Step()
	d := time.Since(start)
	m.refresh()
	m.opts.Recorder.ObserveStep(d, w.Stats().Since(before))
}

func (m *Model) moveProbe(dx, dy float64) {
	stepLen := m.opts.Config.Viewer.ProbeStep
	if stepLen <= 0 {
		stepLen = 1
	}
	arena := m.sim.Scene().Arena
	c := m.probe.Center().Add(geom.V(dx, dy).Mul(stepLen))
	m.probe.SetCenter(geom.Clamp(c, arena.Min, arena.Max))
	m.refresh()
}

func (m *Model) resizeProbe(delta float64) {
	m.probe.SetRadius(max(m.probe.Radius()+delta, minProbeRadius))
	m.refresh()
}

// saveSnapshot stores the current scene and returns a status message.
func (m *Model) saveSnapshot() string {
	if m.opts.Store == nil {
		return "no database, snapshot not saved"
	}
	snap := m.sim.Scene().Snapshot()
	snap.Name = fmt.Sprintf("%s@%d", snap.Name, m.sim.Tick())
	id, err := m.opts.Store.SaveScene(snap)
	if err != nil {
		m.opts.Logger.Error("cannot save snapshot", "error", err)
		return "snapshot failed"
	}
	return "saved scene " + id[:8]
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tickCmd(m.opts.Config.Sim.Step(), m.gen)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case TickMsg:
		// Ticks of a replaced viewer are dropped so only one loop runs.
		if msg.Gen != m.gen {
			return m, nil
		}
		if !m.paused {
			m.step()
		}
		return m, m.tick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
	case key.Matches(msg, m.keys.Up):
		m.moveProbe(0, 1)
	case key.Matches(msg, m.keys.Down):
		m.moveProbe(0, -1)
	case key.Matches(msg, m.keys.Left):
		m.moveProbe(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.moveProbe(1, 0)
	case key.Matches(msg, m.keys.Grow):
		m.resizeProbe(probeGrowth)
	case key.Matches(msg, m.keys.Shrink):
		m.resizeProbe(-probeGrowth)
	case key.Matches(msg, m.keys.Ray):
		m.rayOn = !m.rayOn
		m.refresh()
	case key.Matches(msg, m.keys.RotateLeft):
		m.rayAngle += rayTurn
		m.refresh()
	case key.Matches(msg, m.keys.RotateRight):
		m.rayAngle -= rayTurn
		m.refresh()
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
	case key.Matches(msg, m.keys.Step):
		if m.paused {
			m.step()
		}
	case key.Matches(msg, m.keys.Restart):
		m.status = "restarted"
		if err := m.restart(); err != nil {
			m.status = err.Error()
		}
	case key.Matches(msg, m.keys.Save):
		m.status = m.saveSnapshot()
	}
	return m, nil
}

// View renders the field, the status line and the help bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.draw()
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorStyles[canvas.ColorFrame].GetForeground())

	var b strings.Builder
	b.WriteString(frame.Render(RenderScreen(m.field)))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// draw rasterises the probe, the bodies and the ray into the field.
func (m *Model) draw() {
	m.field.Clear()

	contacts := make(map[collision.Shape]bool)
	for _, c := range m.sim.Contacts() {
		contacts[c.A] = true
		contacts[c.B] = true
	}
	touching := make(map[collision.Shape]bool, len(m.touching))
	for _, s := range m.touching {
		touching[s] = true
	}

	canvas.DrawShape(m.field, m.view, m.probe, '·', canvas.ColorProbe)
	for _, b := range m.sim.Scene().Bodies {
		color := bodyColor(b, contacts[b.Shape], touching[b.Shape])
		canvas.DrawShape(m.field, m.view, b.Shape, canvas.Glyph(b.Shape.Kind()), color)
	}

	origin := m.probe.Center()
	if m.rayOn {
		end := origin.Add(m.rayDir().Mul(m.rayLength()))
		if m.rayOK {
			end = m.rayHit.Contact
		}
		canvas.DrawSegment(m.field, m.view, origin, end, '.', canvas.ColorRay)
		if m.rayOK {
			canvas.DrawPoint(m.field, m.view, end, '*', canvas.ColorRayHit)
		}
	}
	canvas.DrawPoint(m.field, m.view, origin, '+', canvas.ColorProbe)
}

func bodyColor(b *scene.Body, inContact, touched bool) canvas.Color {
	switch {
	case touched:
		return canvas.ColorYellow
	case inContact:
		return canvas.ColorContact
	case b.Static:
		return canvas.ColorStatic
	}
	switch b.Shape.Kind() {
	case collision.KindBox:
		return canvas.ColorGreen
	case collision.KindCircle:
		return canvas.ColorCyan
	default:
		return canvas.ColorMagenta
	}
}

func (m Model) statusLine() string {
	parts := []string{
		titleStyle.Render(m.opts.Title),
		fmt.Sprintf("tick %d", m.sim.Tick()),
		fmt.Sprintf("bodies %d", m.sim.World().Len()),
		fmt.Sprintf("contacts %d", len(m.sim.Contacts())),
		fmt.Sprintf("probe %d", len(m.touching)),
	}
	if m.rayOn {
		if m.rayOK {
			parts = append(parts, fmt.Sprintf("ray %s @ %.1f", m.bodyID(m.rayHit.Shape), m.rayHit.Distance))
		} else {
			parts = append(parts, "ray miss")
		}
	}
	line := statusStyle.Render(strings.Join(parts, "  "))
	if m.paused {
		line += "  " + pausedStyle.Render("PAUSED")
	}
	if m.status != "" {
		line += "  " + m.status
	}
	return line
}

func (m Model) bodyID(s collision.Shape) string {
	if b := m.sim.Scene().Body(s); b != nil {
		return b.ID
	}
	return s.Kind().String()
}

// Sim returns the running simulation.
func (m Model) Sim() *sim.Sim { return m.sim }

// Probe returns the probe circle.
func (m Model) Probe() *collision.Circle { return m.probe }

// Touching returns the shapes overlapping the probe.
func (m Model) Touching() []collision.Shape { return m.touching }

// RayHit returns the closest ray hit, if the ray is on and hits.
func (m Model) RayHit() (world.Hit, bool) { return m.rayHit, m.rayOK }

// Paused reports whether stepping is paused.
func (m Model) Paused() bool { return m.paused }

// Status returns the last status message.
func (m Model) Status() string { return m.status }

// IsQuitting returns true if the user asked to leave the viewer.
func (m Model) IsQuitting() bool { return m.quitting }

// Run starts a standalone viewer program.
func Run(opts Options, width, height int) error {
	model, err := NewModel(opts, width, height)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
