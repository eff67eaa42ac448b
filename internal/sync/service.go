package sync

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/ilies38/Cityreport2/internal/config"
	"github.com/ilies38/Cityreport2/internal/loggy"
	"github.com/ilies38/Cityreport2/internal/remote"
	"github.com/ilies38/Cityreport2/internal/report"
)

// ReportStore is the slice of the report service the engine needs: a
// snapshot of pending reports and a way to record per-report outcomes
type ReportStore interface {
	PendingReports(ctx context.Context) ([]*report.Report, error)
	MarkSyncStatus(ctx context.Context, id string, status report.SyncStatus) error
}

// Service pushes pending reports to the remote gateway. Each report is
// handled independently: one failed push never blocks the rest of the batch.
type Service struct {
	reports ReportStore
	gateway remote.Gateway
	logs    Repository
	config  *config.Config
	logger  *loggy.Logger
}

// NewService creates a new sync service
func NewService(reports ReportStore, gateway remote.Gateway, logs Repository, cfg *config.Config, logger *loggy.Logger) *Service {
	return &Service{
		reports: reports,
		gateway: gateway,
		logs:    logs,
		config:  cfg,
		logger:  logger,
	}
}

// IsConfigured reports whether the remote side is usable
func (s *Service) IsConfigured() bool {
	if s.gateway == nil || s.config == nil {
		return false
	}
	return s.config.Remote.Enabled && s.config.Remote.URL != ""
}

// SyncPending pushes every report currently pending to the remote.
//
// The pending set is read once as a snapshot; reports created or edited
// while the run is in flight wait for the next run. A failure reading the
// snapshot aborts the run. After that, every report is pushed in isolation:
// on success its status moves to SYNCED, on failure to FAILED, and the run
// continues either way. SuccessItems counts only reports newly synced by
// this run, so running against a clean store yields zero.
func (s *Service) SyncPending(ctx context.Context, trigger TriggerType) (*SyncResult, error) {
	started := time.Now()

	pending, err := s.reports.PendingReports(ctx)
	if err != nil {
		s.logger.Error("Failed to read pending reports", "error", err)
		return nil, err
	}

	result := &SyncResult{
		TotalItems: len(pending),
		Success:    true,
	}

	if len(pending) == 0 {
		result.Duration = time.Since(started)
		s.logger.Debug("No pending reports to sync", "trigger", trigger)
		return result, nil
	}

	s.logger.Info("Sync run started", "trigger", trigger, "pending", len(pending))

	for _, rep := range pending {
		s.syncOne(ctx, trigger, rep, result)
	}

	result.Success = result.FailedItems == 0
	result.Duration = time.Since(started)

	s.logger.Info("Sync run finished",
		"trigger", trigger,
		"total", result.TotalItems,
		"synced", result.SuccessItems,
		"failed", result.FailedItems,
		"duration", result.Duration,
	)

	return result, nil
}

// GetSyncLogs retrieves sync history, newest first
func (s *Service) GetSyncLogs(ctx context.Context, reportID string, limit, offset int) ([]*SyncLog, error) {
	return s.logs.GetSyncLogs(ctx, reportID, limit, offset)
}

// syncOne pushes a single report and records the outcome. Errors are
// absorbed into the result and the audit log; they never escape the run.
func (s *Service) syncOne(ctx context.Context, trigger TriggerType, rep *report.Report, result *SyncResult) {
	attempt := NewSyncLog(trigger, rep.ID)

	if err := s.gateway.UpsertDocument(ctx, rep); err != nil {
		errType := classifyError(err)
		attempt.MarkFailed(errType, err.Error())
		s.recordFailure(ctx, rep.ID, errType, err, result)
		s.saveLog(ctx, attempt)
		return
	}

	// The remote write stands even if the local status flip fails; the
	// report stays PENDING and the next run re-pushes the same document,
	// which the idempotent upsert absorbs.
	if err := s.reports.MarkSyncStatus(ctx, rep.ID, report.SyncStatusSynced); err != nil {
		attempt.MarkFailed(ErrorTypeStorage, err.Error())
		result.FailedItems++
		if result.ErrorType == "" {
			result.ErrorType = ErrorTypeStorage
			result.ErrorMessage = err.Error()
		}
		s.logger.Error("Failed to mark report synced", "report_id", rep.ID, "error", err)
		s.saveLog(ctx, attempt)
		return
	}

	attempt.MarkSuccessful()
	result.SuccessItems++
	s.logger.Debug("Report synced", "report_id", rep.ID)
	s.saveLog(ctx, attempt)
}

// recordFailure flips the report to FAILED and folds the error into the
// run result
func (s *Service) recordFailure(ctx context.Context, reportID string, errType ErrorType, cause error, result *SyncResult) {
	result.FailedItems++
	if result.ErrorType == "" {
		result.ErrorType = errType
		result.ErrorMessage = cause.Error()
	}

	s.logger.Warn("Report sync failed",
		"report_id", reportID,
		"error_type", errType,
		"error", cause,
	)

	if err := s.reports.MarkSyncStatus(ctx, reportID, report.SyncStatusFailed); err != nil {
		s.logger.Error("Failed to mark report failed", "report_id", reportID, "error", err)
	}
}

// saveLog persists an audit entry; audit failures are logged, not surfaced
func (s *Service) saveLog(ctx context.Context, log *SyncLog) {
	if s.logs == nil {
		return
	}
	if err := s.logs.CreateSyncLog(ctx, log); err != nil {
		s.logger.Warn("Failed to save sync log", "report_id", log.ReportID, "error", err)
	}
}

// classifyError buckets a push error for the audit trail
func classifyError(err error) ErrorType {
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
			return ErrorTypeAuth
		case apiErr.StatusCode >= 500:
			return ErrorTypeServer
		case apiErr.StatusCode >= 400:
			return ErrorTypeClient
		default:
			return ErrorTypeUnknown
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrorTypeNetwork
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrorTypeNetwork
	}

	return ErrorTypeUnknown
}
