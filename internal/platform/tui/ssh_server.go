package tui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/collide/internal/config"
	"github.com/vovakirdan/collide/internal/metrics"
	"github.com/vovakirdan/collide/internal/registry"
	"github.com/vovakirdan/collide/internal/storage"
)

// SSHServer wraps a Wish SSH server that gives every session its own world.
type SSHServer struct {
	config   config.Config
	server   *ssh.Server
	store    *storage.Store
	recorder *metrics.Recorder
	logger   *log.Logger
}

// NewSSHServer creates a new SSH server. store and rec may be nil.
func NewSSHServer(cfg config.Config, store *storage.Store, rec *metrics.Recorder, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "collide-ssh",
		})
	}

	srv := &SSHServer{
		config:   cfg,
		store:    store,
		recorder: rec,
		logger:   logger,
	}

	hostKeyPath, err := resolveHostKeyPath(cfg.Server.HostKeyPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	opts := []ssh.Option{
		wish.WithAddress(srv.Addr()),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}
	if cfg.Server.IdleTimeout > 0 {
		opts = append(opts, wish.WithIdleTimeout(cfg.Server.IdleTimeout))
	}
	if cfg.Server.MaxTimeout > 0 {
		opts = append(opts, wish.WithMaxTimeout(cfg.Server.MaxTimeout))
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// resolveHostKeyPath expands a leading ~ and defaults to ~/.collide/host_ed25519.
func resolveHostKeyPath(path string) (string, error) {
	if path != "" && path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot get home directory: %w", err)
	}
	if path == "" {
		return filepath.Join(home, ".collide", "host_ed25519"), nil
	}
	return filepath.Join(home, path[1:]), nil
}

// teaHandler creates a Bubble Tea program for each SSH session. A scenario
// id given as the SSH command opens that scenario directly.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	start := ""
	if args := sshSession.Command(); len(args) > 0 {
		start = args[0]
	}

	model := NewSessionModel(SessionOptions{
		Config:   s.config,
		Store:    s.store,
		Recorder: s.recorder,
		Logger:   s.logger.With("user", sshSession.User()),
		Start:    start,
	}, pty.Window.Width, pty.Window.Height)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		s.recorder.SessionStarted()
		next(sshSession)
		s.recorder.SessionEnded()
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until ctx is done or the
// server fails.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.Addr())

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return net.JoinHostPort(s.config.Server.Host, strconv.Itoa(s.config.Server.Port))
}

// SessionOptions configures a SessionModel.
type SessionOptions struct {
	Config   config.Config
	Store    *storage.Store
	Recorder *metrics.Recorder
	Logger   *log.Logger
	Start    string // Scenario to open immediately; empty shows the menu
}

// SessionModel manages the full session flow: menu -> viewer or runs -> menu.
// This is the top-level model used for SSH sessions and the local picker.
type SessionModel struct {
	opts     SessionOptions
	width    int
	height   int
	menu     MenuModel
	viewer   *Model
	runs     *RunsModel
	keys     KeyMap
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(opts SessionOptions, width, height int) SessionModel {
	m := SessionModel{
		opts:   opts,
		width:  width,
		height: height,
		menu:   NewMenuModel(width, height),
		keys:   DefaultKeyMap(),
	}
	if opts.Start != "" {
		if registry.Exists(opts.Start) {
			m.openViewer(opts.Start)
		} else {
			m.menu = m.menu.WithStatus(fmt.Sprintf("unknown scenario %q", opts.Start))
		}
	}
	return m
}

// openViewer replaces the menu with a viewer of the given scenario.
func (m *SessionModel) openViewer(id string) tea.Cmd {
	title := id
	for _, info := range registry.List() {
		if info.ID == id {
			title = info.Title
		}
	}

	viewer, err := NewModel(Options{
		Title:    title,
		Source:   ScenarioSource(id, m.opts.Config.Sim),
		Config:   m.opts.Config,
		Store:    m.opts.Store,
		Recorder: m.opts.Recorder,
		Logger:   m.opts.Logger,
	}, m.width, m.height)
	if err != nil {
		m.menu = NewMenuModel(m.width, m.height).WithStatus(err.Error())
		return nil
	}
	m.viewer = &viewer
	return viewer.Init()
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.viewer != nil {
		return m.viewer.Init()
	}
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch {
	case m.viewer != nil:
		return m.updateViewer(msg)
	case m.runs != nil:
		return m.updateRuns(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsRuns() {
		runs := NewRunsModel(m.opts.Store, "", m.width, m.height)
		m.runs = &runs
		m.menu = NewMenuModel(m.width, m.height)
		return m, nil
	}

	if selected := m.menu.Selected(); selected != nil {
		m.menu = NewMenuModel(m.width, m.height)
		return m, m.openViewer(selected.ID)
	}

	return m, cmd
}

// updateViewer handles updates when a viewer is open. Back returns to the
// menu instead of quitting.
func (m SessionModel) updateViewer(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, m.keys.Back) {
		m.viewer = nil
		return m, nil
	}

	newModel, cmd := m.viewer.Update(msg)
	if viewer, ok := newModel.(Model); ok {
		m.viewer = &viewer
	}

	if m.viewer.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateRuns handles updates when the runs table is open.
func (m SessionModel) updateRuns(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.runs.Update(msg)
	if runs, ok := newModel.(RunsModel); ok {
		m.runs = &runs
	}

	if m.runs.IsGoingBack() {
		m.runs = nil
		return m, nil
	}
	if m.runs.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch {
	case m.viewer != nil:
		return m.viewer.View()
	case m.runs != nil:
		return m.runs.View()
	}
	return m.menu.View()
}

// InViewer reports whether a viewer is open.
func (m SessionModel) InViewer() bool {
	return m.viewer != nil
}

// InRuns reports whether the runs table is open.
func (m SessionModel) InRuns() bool {
	return m.runs != nil
}

// RunSession starts the menu-driven session locally.
func RunSession(opts SessionOptions, width, height int) error {
	p := tea.NewProgram(
		NewSessionModel(opts, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
