package sync

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilies38/Cityreport2/internal/loggy"
	"github.com/ilies38/Cityreport2/internal/sync"
)

// loadPendingCmd is a tea.Cmd that counts the reports awaiting sync
func (m Model) loadPendingCmd() tea.Msg {
	pending, err := m.app.Reports.PendingReports(context.Background())
	if err != nil {
		return PendingCountMsg{Error: err}
	}
	return PendingCountMsg{Count: len(pending)}
}

// startSync runs the push engine and reports the outcome
func (m Model) startSync() tea.Cmd {
	loggy.Debug("startSync called", "pending", m.pendingCount)
	return func() tea.Msg {
		result, err := m.app.Sync.SyncPending(context.Background(), sync.TriggerManual)
		return SyncCompleteMsg{Result: result, Error: err}
	}
}
