package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/raytris/internal/storage"
)

const (
	sidebarMinWidth = 80  // terminal width from which the board list is shown
	sidebarWidth    = 16  // width of the board list
	scoresLimit     = 100 // rows loaded per board
	chromeRows      = 9   // title, stats, borders and help around the table
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	statsStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Next     key.Binding
	Previous key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Previous, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Next, k.Previous}, {k.Back, k.Quit}}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Next:     key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "next board")),
		Previous: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab/←", "prev board")),
		Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel shows the leaderboard of one board size at a time.
type ScoreboardModel struct {
	store       *storage.Store
	boards      []storage.Board
	boardCursor int
	scores      []storage.ScoreEntry
	stats       *storage.BoardStats

	table  table.Model
	keys   ScoreboardKeyMap
	help   help.Model
	width  int
	height int

	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a scoreboard listing every board with scores.
// current is always listed and selected first.
func NewScoreboardModel(store *storage.Store, current storage.Board, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}

	if store != nil {
		//nolint:errcheck // An unreadable database shows as empty
		m.boards, _ = store.Boards()
	}
	m.boardCursor = -1
	for i, b := range m.boards {
		if b == current {
			m.boardCursor = i
		}
	}
	if m.boardCursor < 0 {
		m.boards = append([]storage.Board{current}, m.boards...)
		m.boardCursor = 0
	}

	m.table = m.newTable()
	m.load()
	return m
}

func (m ScoreboardModel) board() storage.Board {
	return m.boards[m.boardCursor]
}

func (m ScoreboardModel) withSidebar() bool {
	return m.width >= sidebarMinWidth
}

// newTable sizes the score table to the terminal.
func (m ScoreboardModel) newTable() table.Model {
	dateWidth := 12
	if free := m.width - 60; free > 0 {
		dateWidth += min(free, 8)
	}
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Score", Width: 10},
		{Title: "Lines", Width: 6},
		{Title: "Level", Width: 6},
		{Title: "Date", Width: dateWidth},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-chromeRows, 3)),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(styles)
	return t
}

// load reads the scores and stats of the selected board.
func (m *ScoreboardModel) load() {
	m.scores, m.stats = nil, nil
	if m.store != nil {
		if scores, err := m.store.TopScores(m.board(), scoresLimit); err == nil {
			m.scores = scores
		}
		if stats, err := m.store.Stats(m.board()); err == nil {
			m.stats = stats
		}
	}

	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		rows[i] = table.Row{
			strconv.Itoa(i + 1),
			strconv.Itoa(s.Score),
			strconv.Itoa(s.Lines),
			strconv.Itoa(s.Level),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// step moves the board selection by delta, wrapping around.
func (m *ScoreboardModel) step(delta int) {
	n := len(m.boards)
	m.boardCursor = ((m.boardCursor+delta)%n + n) % n
	m.load()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.step(1)
			return m, nil
		case key.Matches(msg, m.keys.Previous):
			m.step(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		m.load()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(centerText(fmt.Sprintf("HIGH SCORES - %s", m.board()), m.width)))
	b.WriteString("\n")
	b.WriteString(statsStyle.Render(centerText(m.statsLine(), m.width)))
	b.WriteString("\n\n")

	scores := panelStyle.Render(m.scoresView())
	if m.withSidebar() {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(m.boardList()), " ", scores))
	} else {
		b.WriteString(centerText(m.boardTabs(), m.width))
		b.WriteString("\n")
		b.WriteString(scores)
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m ScoreboardModel) statsLine() string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		return "no games yet"
	}
	return fmt.Sprintf("games %d · best %d · avg %.0f · lines %d",
		m.stats.GamesCount, m.stats.HighScore, m.stats.AvgScore, m.stats.TotalLines)
}

// boardList renders the vertical board selector of the wide layout.
func (m ScoreboardModel) boardList() string {
	var b strings.Builder
	b.WriteString("Boards\n")
	b.WriteString(strings.Repeat("─", sidebarWidth-4))
	for i, board := range m.boards {
		b.WriteString("\n")
		if i == m.boardCursor {
			b.WriteString(selectedStyle.Render("> " + board.String()))
		} else {
			b.WriteString("  " + board.String())
		}
	}
	return lipgloss.NewStyle().Width(sidebarWidth - 4).Render(b.String())
}

// boardTabs renders the one-line board selector of the narrow layout.
func (m ScoreboardModel) boardTabs() string {
	if len(m.boards) == 1 {
		return m.board().String()
	}
	return fmt.Sprintf("< %s >  (%d/%d)", m.board(), m.boardCursor+1, len(m.boards))
}

func (m ScoreboardModel) scoresView() string {
	if len(m.scores) == 0 {
		return dimStyle.Italic(true).Padding(1, 2).Render("No scores recorded yet.\nPlay a game on this board to set one!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user left with the back key.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user left with the back key, false if quitting.
func RunScoreboard(store *storage.Store, current storage.Board, width, height int) (goBack bool, err error) {
	final, err := tea.NewProgram(NewScoreboardModel(store, current, width, height), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	return ok && m.IsGoingBack(), nil
}

// centerText pads text on the left to center it within width.
func centerText(text string, width int) string {
	n := lipgloss.Width(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}
