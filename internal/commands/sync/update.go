package sync

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilies38/Cityreport2/internal/loggy"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = msg.Width - 10 // Adjust progress bar width
		m.ready = true                    // Consider ready once we have dimensions

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, m.keymap.Enter):
			if !m.syncing && m.ready && m.result == nil {
				m.syncing = true
				m.status = "Pushing reports..."
				cmds = append(cmds, m.startSync(), m.spinner.Tick)
			} else if m.result != nil || m.error != "" {
				// If sync is done or errored, enter quits
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		if m.loading || m.syncing {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)

	case SyncStartMsg:
		m.loading = false
		m.ready = true
		m.status = "Counting pending reports..."
		cmds = append(cmds, m.loadPendingCmd)

	case PendingCountMsg:
		if msg.Error != nil {
			m.error = msg.Error.Error()
			return m, nil
		}
		m.pendingCount = msg.Count
		if msg.Count == 0 {
			m.status = "Everything is already synced. Press q to quit."
		} else {
			m.status = fmt.Sprintf("Found %d report(s) to sync. Press Enter to start.", msg.Count)
		}
		loggy.Debug("Received PendingCountMsg", "pending", msg.Count)

	case SyncCompleteMsg:
		m.syncing = false
		m.result = msg.Result
		if msg.Error != nil {
			m.error = msg.Error.Error()
			m.status = "Sync failed."
			loggy.Error("Sync completed with error", "error", msg.Error)
		} else {
			m.status = "Sync complete! Press Enter or q to quit."
			cmd = m.progress.SetPercent(1.0)
			cmds = append(cmds, cmd)
		}

	default:
		// Handle spinner and progress updates even if no other match
		if m.loading || m.syncing {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}
