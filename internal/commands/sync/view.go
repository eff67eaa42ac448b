package sync

import (
	"fmt"
	"strings"
	"time"
)

// View renders the sync TUI.
func (m Model) View() string {
	if m.error != "" {
		return m.styles.Error.Render(fmt.Sprintf("Error: %s\n\nPress q to quit.", m.error))
	}

	if m.result != nil {
		var sb strings.Builder
		sb.WriteString(m.styles.Title.Render("Sync Complete"))
		sb.WriteString("\n\n")
		sb.WriteString(fmt.Sprintf("Reports pending: %d\n", m.result.TotalItems))
		sb.WriteString(m.styles.Success.Render(fmt.Sprintf("Newly synced:    %d\n", m.result.SuccessItems)))
		if m.result.FailedItems > 0 {
			sb.WriteString(m.styles.Warning.Render(fmt.Sprintf("Failed:          %d (%s)\n", m.result.FailedItems, m.result.ErrorType)))
		}
		sb.WriteString(fmt.Sprintf("Duration:        %s\n", m.result.Duration.Round(time.Millisecond)))
		sb.WriteString("\n\nPress q to quit.")
		return m.styles.Paragraph.Render(sb.String())
	}

	if !m.ready {
		return fmt.Sprintf("%s Initializing... %s", m.spinner.View(), m.status)
	}

	if m.syncing {
		var sb strings.Builder
		sb.WriteString(m.styles.Title.Render(fmt.Sprintf("%s Syncing reports...", m.spinner.View())))
		sb.WriteString("\n\n")
		sb.WriteString(fmt.Sprintf("Pushing %d pending report(s) to the city backend", m.pendingCount))
		sb.WriteString("\n")
		sb.WriteString(m.styles.StatusText.Render(m.status))
		sb.WriteString("\n\n")
		sb.WriteString(m.help.View(m.keymap))
		return sb.String()
	}

	// Ready state, show summary and prompt
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Ready to Sync"))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Pending reports: %d\n", m.pendingCount))
	sb.WriteString("\n")
	sb.WriteString(m.styles.StatusText.Render(m.status))
	sb.WriteString("\n\n")

	if m.showHelp {
		sb.WriteString(m.help.View(m.keymap))
	}

	return sb.String()
}
