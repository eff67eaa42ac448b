package report

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ilies38/Cityreport2/internal/loggy"
)

// PhotoUploader pushes a local photo reference to durable remote storage
// and returns its public URL. The remote gateway implements this.
type PhotoUploader interface {
	UploadBlob(ctx context.Context, localRef, reportID string) (string, error)
}

// CreateInput carries user-supplied content for a new report
type CreateInput struct {
	Title       string
	Description string
	Category    Category
	Latitude    float64
	Longitude   float64
	PhotoRef    string // local file path or URI, optional
}

// UpdateInput carries edited content for an existing report
type UpdateInput struct {
	ID          string
	Title       string
	Description string
	Category    Category
	Latitude    float64
	Longitude   float64
	PhotoRef    string // new photo reference, empty keeps the current one
}

// Service orchestrates report CRUD: validation, id and timestamp stamping,
// eager photo upload and change feed notification
type Service struct {
	repo     Repository
	uploader PhotoUploader
	feed     *Feed
	logger   *loggy.Logger
}

// NewService creates a new report service backed by a SQL repository
func NewService(db *sql.DB, uploader PhotoUploader, logger *loggy.Logger) *Service {
	return &Service{
		repo:     NewSQLRepository(db, logger),
		uploader: uploader,
		feed:     NewFeed(),
		logger:   logger,
	}
}

// NewServiceWithRepository creates a report service with a custom
// repository, mainly for testing
func NewServiceWithRepository(repo Repository, uploader PhotoUploader, logger *loggy.Logger) *Service {
	return &Service{
		repo:     repo,
		uploader: uploader,
		feed:     NewFeed(),
		logger:   logger,
	}
}

// GetRepository returns the underlying repository
func (s *Service) GetRepository() Repository {
	return s.repo
}

// Create validates and persists a new report. The record starts PENDING.
// A photo upload is attempted eagerly when a reference is supplied; if the
// upload fails the local reference is kept and creation still succeeds.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Report, error) {
	if err := ValidateInput(input.Title, input.Description, input.Latitude, input.Longitude); err != nil {
		return nil, err
	}

	if _, err := ParseCategory(string(input.Category)); err != nil {
		return nil, &ValidationError{Field: "category", Message: err.Error()}
	}

	report := NewReport(input.Title, input.Description, input.Category, input.Latitude, input.Longitude)

	if input.PhotoRef != "" {
		report.PhotoURL = s.uploadPhoto(ctx, input.PhotoRef, report.ID)
	}

	if err := s.repo.Upsert(ctx, report); err != nil {
		return nil, fmt.Errorf("creating report: %w", err)
	}

	s.logger.Info("Report created",
		"report_id", report.ID,
		"category", report.Category,
		"has_photo", report.HasPhoto(),
	)

	s.refreshFeed(ctx)
	return report, nil
}

// Update validates and persists edits to an existing report. The original
// creation timestamp is preserved and the record is re-queued as PENDING,
// whatever its previous status.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*Report, error) {
	if err := ValidateInput(input.Title, input.Description, input.Latitude, input.Longitude); err != nil {
		return nil, err
	}

	if _, err := ParseCategory(string(input.Category)); err != nil {
		return nil, &ValidationError{Field: "category", Message: err.Error()}
	}

	existing, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, fmt.Errorf("loading report for update: %w", err)
	}

	updated := &Report{
		ID:          existing.ID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		PhotoURL:    existing.PhotoURL,
		Timestamp:   existing.Timestamp,
		SyncStatus:  SyncStatusPending,
	}

	if input.PhotoRef != "" && input.PhotoRef != existing.PhotoURL {
		updated.PhotoURL = s.uploadPhoto(ctx, input.PhotoRef, updated.ID)
	}

	if err := s.repo.Upsert(ctx, updated); err != nil {
		return nil, fmt.Errorf("updating report: %w", err)
	}

	s.logger.Info("Report updated", "report_id", updated.ID, "previous_status", existing.SyncStatus)

	s.refreshFeed(ctx)
	return updated, nil
}

// Delete removes a report from local storage. Deletion never propagates to
// the remote; a previously synced document simply stops receiving updates.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}

	s.logger.Info("Report deleted", "report_id", id)

	s.refreshFeed(ctx)
	return nil
}

// Get retrieves a report by id
func (s *Service) Get(ctx context.Context, id string) (*Report, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves all reports, newest first
func (s *Service) List(ctx context.Context) ([]*Report, error) {
	return s.repo.ListAll(ctx)
}

// ListByCategory retrieves reports of one category, newest first
func (s *Service) ListByCategory(ctx context.Context, category Category) ([]*Report, error) {
	return s.repo.ListByCategory(ctx, category)
}

// PendingReports retrieves a snapshot of reports awaiting synchronization
func (s *Service) PendingReports(ctx context.Context) ([]*Report, error) {
	return s.repo.GetByStatus(ctx, SyncStatusPending)
}

// MarkSyncStatus records a sync outcome for one report and notifies
// watchers. The sync engine uses this so status flips show up on the feed.
func (s *Service) MarkSyncStatus(ctx context.Context, id string, status SyncStatus) error {
	if err := s.repo.UpdateSyncStatus(ctx, id, status); err != nil {
		return err
	}

	s.refreshFeed(ctx)
	return nil
}

// Watch returns a channel of report list snapshots. The current list is
// delivered immediately, then a fresh snapshot follows every mutation until
// ctx is cancelled.
func (s *Service) Watch(ctx context.Context) (<-chan []*Report, error) {
	snapshot, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading initial snapshot: %w", err)
	}

	return s.feed.Subscribe(ctx, snapshot), nil
}

// uploadPhoto attempts the remote blob upload and falls back to the local
// reference when the uploader is absent or fails
func (s *Service) uploadPhoto(ctx context.Context, localRef, reportID string) string {
	if s.uploader == nil {
		return localRef
	}

	url, err := s.uploader.UploadBlob(ctx, localRef, reportID)
	if err != nil {
		s.logger.Warn("Photo upload failed, keeping local reference",
			"report_id", reportID,
			"error", err,
		)
		return localRef
	}

	return url
}

// refreshFeed publishes the current report list to watchers. Feed delivery
// is best-effort: a read failure here is logged, not surfaced.
func (s *Service) refreshFeed(ctx context.Context) {
	reports, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Warn("Failed to refresh report feed", "error", err)
		return
	}
	s.feed.Publish(reports)
}
