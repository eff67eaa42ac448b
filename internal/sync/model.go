// Package sync implements the push engine that moves pending citizen
// reports from the local store to the remote gateway
package sync

import (
	"time"
)

// TriggerType records what initiated a sync run
type TriggerType string

const (
	// TriggerManual represents a sync initiated by the user
	TriggerManual TriggerType = "manual"
	// TriggerScheduled represents a sync initiated by the background scheduler
	TriggerScheduled TriggerType = "scheduled"
)

// ErrorType classifies why a report failed to push
type ErrorType string

const (
	// ErrorTypeNetwork represents a transport-level failure
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeAuth represents an authentication or authorization failure
	ErrorTypeAuth ErrorType = "auth"
	// ErrorTypeServer represents a remote server failure
	ErrorTypeServer ErrorType = "server"
	// ErrorTypeClient represents a request the remote rejected
	ErrorTypeClient ErrorType = "client"
	// ErrorTypeStorage represents a local storage failure
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeUnknown represents an unclassified failure
	ErrorTypeUnknown ErrorType = "unknown"
)

// SyncLog records the outcome of one per-report push attempt
type SyncLog struct {
	ID           string      `json:"id"`
	ReportID     string      `json:"report_id"`
	Trigger      TriggerType `json:"trigger"`
	Success      bool        `json:"success"`
	ErrorType    ErrorType   `json:"error_type,omitempty"`
	ErrorMessage string      `json:"error_message,omitempty"`
	StartedAt    time.Time   `json:"started_at"`
	CompletedAt  time.Time   `json:"completed_at"`
}

// NewSyncLog creates a new sync log entry for one report
func NewSyncLog(trigger TriggerType, reportID string) *SyncLog {
	now := time.Now()
	return &SyncLog{
		ReportID:    reportID,
		Trigger:     trigger,
		Success:     false, // Default to false, set to true when successful
		StartedAt:   now,
		CompletedAt: now, // Will be updated when the attempt completes
	}
}

// MarkSuccessful marks the attempt as successful
func (l *SyncLog) MarkSuccessful() {
	l.Success = true
	l.CompletedAt = time.Now()
}

// MarkFailed marks the attempt as failed
func (l *SyncLog) MarkFailed(errorType ErrorType, errorMessage string) {
	l.Success = false
	l.ErrorType = errorType
	l.ErrorMessage = errorMessage
	l.CompletedAt = time.Now()
}

// SyncResult aggregates the outcome of one sync run.
// SuccessItems counts only reports newly moved to SYNCED during this run,
// so a run over an already-synced store reports zero.
type SyncResult struct {
	TotalItems   int
	SuccessItems int
	FailedItems  int
	Success      bool
	ErrorType    ErrorType
	ErrorMessage string
	Duration     time.Duration
}
