package sync

import "github.com/ilies38/Cityreport2/internal/sync"

type (
	// SyncStartMsg is the initial message sent to the model
	SyncStartMsg struct{}

	// PendingCountMsg is sent after counting the reports awaiting sync
	PendingCountMsg struct {
		Count int
		Error error
	}

	// SyncCompleteMsg is sent when the sync run finishes
	SyncCompleteMsg struct {
		Result *sync.SyncResult
		Error  error
	}
)
