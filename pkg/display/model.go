package display

import (
	"fmt"
	"strings"

	"fleaflip/pkg/report"
	"fleaflip/pkg/selection"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StateMsg carries a new selection snapshot into the UI
type StateMsg selection.State

// ErrMsg reports an error to show in the footer
type ErrMsg struct{ Err error }

// StatusMsg replaces the footer status line
type StatusMsg string

// chrome is the number of lines View draws around the rows
const chrome = 6

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f9e2af"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8")).Underline(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1e1e2e")).Background(lipgloss.Color("#b4befe"))
	rowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#94e2d5"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
)

// Options configures a Model
type Options struct {
	Title       string
	VisibleRows int
	Keys        KeyMap
	// Events receives selection events for focused key presses. Sends never
	// block; a press is dropped when the buffer is full.
	Events chan<- selection.Event
	// Refresh requests a rebuild and reports whether one was started
	Refresh func() bool
}

// Model renders the ranked list and forwards focused key presses. It never
// changes the selection itself; it only draws the snapshots it is sent.
type Model struct {
	opts   Options
	state  selection.State
	offset int
	height int
	status string
	err    error
}

// New creates a Model
func New(opts Options) Model {
	if opts.VisibleRows <= 0 {
		opts.VisibleRows = 30
	}
	return Model{
		opts:   opts,
		state:  selection.State{Parked: true},
		status: "Loading catalog...",
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle(m.opts.Title)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.offset = m.scroll(m.offset)

	case StateMsg:
		m.state = selection.State(msg)
		m.offset = m.scroll(m.offset)
		m.err = nil
		if !m.state.Parked {
			m.status = fmt.Sprintf("%d items", m.state.Catalog.Len())
		} else {
			m.status = "No items with a flea price"
		}

	case ErrMsg:
		m.err = msg.Err

	case StatusMsg:
		m.status = string(msg)
		m.err = nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.opts.Keys.Quit) {
		return m, tea.Quit
	}

	if key.Matches(msg, m.opts.Keys.Refresh) {
		if m.opts.Refresh == nil {
			return m, nil
		}
		if m.opts.Refresh() {
			m.status = "Refreshing..."
		} else {
			m.status = "Refresh requested too recently"
		}
		m.err = nil
		return m, nil
	}

	ev := m.opts.Keys.event(msg)
	if ev == selection.Unknown || m.opts.Events == nil {
		return m, nil
	}
	select {
	case m.opts.Events <- ev:
	default:
		m.status = "Busy, key press dropped"
	}
	return m, nil
}

// rows is how many list rows fit
func (m Model) rows() int {
	rows := m.opts.VisibleRows
	if m.height > 0 && m.height-chrome < rows {
		rows = m.height - chrome
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

// scroll returns the window offset that keeps the selection visible
func (m Model) scroll(offset int) int {
	rows := m.rows()
	total := m.state.Catalog.Len()
	if m.state.Index < offset {
		offset = m.state.Index
	}
	if m.state.Index >= offset+rows {
		offset = m.state.Index - rows + 1
	}
	if last := total - rows; offset > last {
		offset = last
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.opts.Title) + "\n")
	b.WriteString(headerStyle.Render(report.ColumnHeader) + "\n")

	if m.state.Parked {
		b.WriteString(rowStyle.Render("  (empty)") + "\n")
	} else {
		end := m.offset + m.rows()
		if end > m.state.Catalog.Len() {
			end = m.state.Catalog.Len()
		}
		for i := m.offset; i < end; i++ {
			label := m.state.Catalog.At(i).String()
			if i == m.state.Index {
				b.WriteString(selectedStyle.Render("> "+label) + "\n")
			} else {
				b.WriteString(rowStyle.Render("  "+label) + "\n")
			}
		}
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("error: "+m.err.Error()) + "\n")
	} else {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}
	b.WriteString(helpStyle.Render(m.helpLine()))

	return b.String()
}

func (m Model) helpLine() string {
	var parts []string
	for _, binding := range m.opts.Keys.ShortHelp() {
		h := binding.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
