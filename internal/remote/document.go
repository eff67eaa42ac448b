package remote

import (
	"github.com/ilies38/Cityreport2/internal/report"
)

// ReportDocument is the wire form of a report sent to the document API.
// It carries the full report content and nothing else: sync status is
// local bookkeeping and never crosses the wire.
type ReportDocument struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	PhotoURL    *string `json:"photoUrl"`
	Timestamp   int64   `json:"timestamp"`
}

// NewReportDocument maps a local report to its wire form
func NewReportDocument(r *report.Report) *ReportDocument {
	doc := &ReportDocument{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Category:    string(r.Category),
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Timestamp:   r.Timestamp,
	}

	if r.PhotoURL != "" {
		photoURL := r.PhotoURL
		doc.PhotoURL = &photoURL
	}

	return doc
}
