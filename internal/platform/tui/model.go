package tui

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/raytris/internal/config"
	"github.com/vovakirdan/raytris/internal/core"
	"github.com/vovakirdan/raytris/internal/game"
	"github.com/vovakirdan/raytris/internal/storage"
)

// SessionTracker is told when a game starts and stops being played.
type SessionTracker interface {
	GameStarted()
	GameEnded()
}

// Options configures a game session.
type Options struct {
	// Context bounds every game loop of the model. A remote session
	// passes its connection context so a dropped client ends the game.
	Context  context.Context
	Game     config.GameConfig
	Runtime  core.RuntimeConfig
	Store    *storage.Store // optional; scores are not saved without it
	Observer game.Observer  // optional
	Tracker  SessionTracker // optional
	Logger   *log.Logger
}

// engineDoneMsg reports that the game loop of an engine has returned.
type engineDoneMsg struct {
	engine *game.Engine
	err    error
}

// session is the mutable part of a model shared across value copies.
type session struct {
	engine     *game.Engine
	cancel     context.CancelFunc
	id         string
	scoreSaved bool

	tracker SessionTracker // set once the game is reported as started
	ended   sync.Once
}

// untrack reports the end of a tracked game at most once. It is called
// from the game loop goroutine as well as from Update.
func (s *session) untrack() {
	if s.tracker != nil {
		s.ended.Do(s.tracker.GameEnded)
	}
}

// Model is the Bubble Tea model for one raytris player.
type Model struct {
	opts      Options
	screen    *core.Screen
	keys      KeyMap
	help      help.Model
	session   *session
	highScore int
	err       error
	quitting  bool
}

// NewModel creates a model and its first game. The game loop starts in Init.
func NewModel(opts Options) (Model, error) {
	if opts.Runtime.Seed == 0 {
		opts.Runtime.Seed = time.Now().UnixNano()
	}
	if opts.Runtime.FPS <= 0 {
		opts.Runtime.FPS = core.DefaultConfig().FPS
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	m := Model{
		opts:   opts,
		screen: core.NewScreen(opts.Runtime.ScreenW, boardRows(opts.Runtime.ScreenH)),
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
	if err := m.newSession(); err != nil {
		return Model{}, err
	}
	m.loadHighScore()
	return m, nil
}

func (m *Model) newSession() error {
	observers := game.Observers{game.LogObserver{Logger: m.opts.Logger}}
	if m.opts.Observer != nil {
		observers = append(observers, m.opts.Observer)
	}

	engine, err := game.New(game.Options{
		Config:   m.opts.Game,
		Seed:     m.opts.Runtime.Seed,
		Observer: observers,
	})
	if err != nil {
		return err
	}
	m.session = &session{engine: engine, id: storage.NewSessionID()}
	return nil
}

func (m *Model) loadHighScore() {
	if m.opts.Store == nil {
		return
	}
	high, err := m.opts.Store.HighScore(m.board())
	if err != nil {
		m.opts.Logger.Warn("could not read high score", "error", err)
		return
	}
	m.highScore = high
}

func (m Model) board() storage.Board {
	return storage.Board{Width: m.opts.Game.Playfield.Width, Height: m.opts.Game.Playfield.Height}
}

// runEngine starts the game loop of the current session on its own goroutine.
// The loop ends with the game, on stop, or when Options.Context is done,
// and the session stops being tracked in every case even if the program
// is already gone.
func (m Model) runEngine() tea.Cmd {
	s := m.session
	ctx, cancel := context.WithCancel(m.opts.Context)
	s.cancel = cancel
	if m.opts.Tracker != nil {
		m.opts.Tracker.GameStarted()
		s.tracker = m.opts.Tracker
	}
	m.opts.Logger.Debug("game started", "session", s.id, "seed", m.opts.Runtime.Seed)

	engine := s.engine
	logger := m.opts.Logger
	return func() tea.Msg {
		err := engine.Run(ctx)
		cancel()
		s.untrack()
		if err != nil {
			logger.Debug("game loop stopped", "session", s.id, "reason", err)
		}
		return engineDoneMsg{engine: engine, err: err}
	}
}

// Init starts the game loop and the redraw ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.runEngine(), tickCmd(m.opts.Runtime.FPS))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.opts.Runtime.ScreenW = msg.Width
		m.opts.Runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, boardRows(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		m.finishIfOver()
		return m, tickCmd(m.opts.Runtime.FPS)

	case engineDoneMsg:
		if msg.engine == m.session.engine {
			m.finishIfOver()
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input. Motion commands run as commands so
// a slow, time-sliced move never blocks the UI.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	action := m.keys.Action(msg)
	engine := m.session.engine

	switch {
	case action == core.ActionQuit:
		m.quitting = true
		m.stop()
		return m, tea.Quit

	case action == core.ActionRestart:
		if !engine.State().GameOver {
			return m, nil
		}
		m.finishIfOver()
		m.opts.Runtime.Seed = time.Now().UnixNano()
		if err := m.newSession(); err != nil {
			m.err = err
			return m, nil
		}
		m.loadHighScore()
		return m, m.runEngine()

	case action == core.ActionPause:
		engine.TogglePause()
		return m, nil

	case action.IsMotion():
		return m, func() tea.Msg {
			engine.Do(action)
			return nil
		}
	}

	return m, nil
}

// finishIfOver saves the score of a finished game once.
func (m *Model) finishIfOver() {
	s := m.session
	st := s.engine.State()
	if !st.GameOver || s.scoreSaved {
		return
	}
	s.scoreSaved = true
	s.untrack()

	if m.opts.Store == nil || st.Score == 0 {
		return
	}
	_, err := m.opts.Store.SaveScore(storage.ScoreEntry{
		SessionID: s.id,
		Board:     m.board(),
		Score:     st.Score,
		Lines:     st.Lines,
		Level:     st.Level,
	})
	if err != nil {
		m.opts.Logger.Warn("could not save score", "error", err)
		return
	}
	if st.Score > m.highScore {
		m.highScore = st.Score
	}
}

// stop cancels the game loop of the current session.
func (m *Model) stop() {
	if m.session.cancel != nil {
		m.session.cancel()
	}
	m.session.untrack()
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(m.err.Error())
	}

	engine := m.session.engine
	DrawBoard(m.screen, Board{
		Width:     engine.Width(),
		Height:    engine.Height(),
		Snapshot:  engine.Snapshot(),
		State:     engine.State(),
		HighScore: m.highScore,
	})

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// boardRows leaves the last terminal row for the help line.
func boardRows(height int) int {
	return max(height-1, 0)
}

// Run starts the Bubble Tea program for a local game.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.stop()
	}
	return err
}
