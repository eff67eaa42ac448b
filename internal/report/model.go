// Package report implements the offline-first citizen report store: the
// domain model, SQLite-backed repository, change feed and orchestrating
// service.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilies38/Cityreport2/internal/ulid"
)

// Common errors returned by the report package
var (
	// ErrReportNotFound is returned when a report doesn't exist
	ErrReportNotFound = errors.New("report not found")
)

// Category classifies the kind of issue a citizen is reporting
type Category string

const (
	// CategoryCleanliness covers garbage, dumping and general filth
	CategoryCleanliness Category = "CLEANLINESS"
	// CategoryRoad covers potholes and damaged roadways
	CategoryRoad Category = "ROAD"
	// CategoryLighting covers broken or missing street lighting
	CategoryLighting Category = "LIGHTING"
	// CategorySafety covers hazards and dangerous situations
	CategorySafety Category = "SAFETY"
	// CategoryOther covers everything else
	CategoryOther Category = "OTHER"
)

// ParseCategory converts a stored name string back into a Category.
// Unknown names are rejected rather than silently coerced.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryCleanliness, CategoryRoad, CategoryLighting, CategorySafety, CategoryOther:
		return Category(s), nil
	default:
		return "", fmt.Errorf("unknown report category: %q", s)
	}
}

// Categories returns all valid categories in display order
func Categories() []Category {
	return []Category{
		CategoryCleanliness,
		CategoryRoad,
		CategoryLighting,
		CategorySafety,
		CategoryOther,
	}
}

// SyncStatus tracks a report's position in the local-to-remote push cycle
type SyncStatus string

const (
	// SyncStatusPending marks a report awaiting its first push, or re-queued
	// after an edit
	SyncStatusPending SyncStatus = "PENDING"
	// SyncStatusSynced marks a report whose current content reached the remote
	SyncStatusSynced SyncStatus = "SYNCED"
	// SyncStatusFailed marks a report whose last push attempt failed
	SyncStatusFailed SyncStatus = "FAILED"
)

// ParseSyncStatus converts a stored name string back into a SyncStatus
func ParseSyncStatus(s string) (SyncStatus, error) {
	switch SyncStatus(s) {
	case SyncStatusPending, SyncStatusSynced, SyncStatusFailed:
		return SyncStatus(s), nil
	default:
		return "", fmt.Errorf("unknown sync status: %q", s)
	}
}

// Report represents a citizen issue report. The id is stable for the
// record's lifetime; Timestamp is the creation time in milliseconds since
// the epoch and survives edits. SyncStatus is local bookkeeping and never
// leaves the device.
type Report struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    Category   `json:"category"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	Timestamp   int64      `json:"timestamp"`
	SyncStatus  SyncStatus `json:"sync_status"`
}

// NewReport creates a new pending report with a fresh id and the current
// creation timestamp
func NewReport(title, description string, category Category, latitude, longitude float64) *Report {
	return &Report{
		ID:          ulid.ReportID(),
		Title:       title,
		Description: description,
		Category:    category,
		Latitude:    latitude,
		Longitude:   longitude,
		Timestamp:   time.Now().UnixMilli(),
		SyncStatus:  SyncStatusPending,
	}
}

// HasPhoto reports whether a photo reference is attached
func (r *Report) HasPhoto() bool {
	return r.PhotoURL != ""
}

// IsPending reports whether the record still awaits a push to the remote
func (r *Report) IsPending() bool {
	return r.SyncStatus == SyncStatusPending
}

// MarkPending re-queues the report for synchronization. Every content edit
// goes through this, whatever the previous status was.
func (r *Report) MarkPending() {
	r.SyncStatus = SyncStatusPending
}

// CreatedAt returns the creation timestamp as a time.Time
func (r *Report) CreatedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}
