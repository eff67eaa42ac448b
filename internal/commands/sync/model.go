package sync

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ilies38/Cityreport2/internal/app"
	"github.com/ilies38/Cityreport2/internal/sync"
)

// Model is the Bubble Tea model for the sync TUI
type Model struct {
	app      *app.App
	keymap   KeyMap
	help     help.Model
	spinner  spinner.Model
	progress progress.Model
	styles   Styles

	// UI state
	ready        bool
	loading      bool
	showHelp     bool
	error        string
	status       string
	width        int
	height       int
	pendingCount int
	result       *sync.SyncResult
	syncing      bool
}

// NewModel initializes and returns a new Model
func NewModel(a *app.App) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	p := progress.New(progress.WithDefaultGradient())

	return Model{
		app:      a,
		keymap:   DefaultKeyMap(),
		help:     help.New(),
		spinner:  s,
		progress: p,
		styles:   DefaultStyles(),
		loading:  true,
		ready:    false,
		showHelp: false,
		status:   "Initializing...",
	}
}

// Init initializes the model and returns the initial command
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, func() tea.Msg { return SyncStartMsg{} })
}
