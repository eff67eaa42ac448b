package remote

import (
	"context"

	"github.com/ilies38/Cityreport2/internal/config"
	"github.com/ilies38/Cityreport2/internal/loggy"
	"github.com/ilies38/Cityreport2/internal/report"
)

// Gateway is the remote side of the synchronization subsystem: idempotent
// document upserts keyed by report id, plus photo blob uploads
type Gateway interface {
	// UpsertDocument creates or fully replaces the remote document for a
	// report. The payload never includes local sync status.
	UpsertDocument(ctx context.Context, r *report.Report) error

	// UploadBlob uploads a local photo and returns its durable public URL
	UploadBlob(ctx context.Context, localRef, reportID string) (string, error)
}

// HTTPGateway implements Gateway over the document API client and the
// object store
type HTTPGateway struct {
	client *Client
	blobs  *BlobStore
	logger *loggy.Logger
}

// NewHTTPGateway creates a gateway from remote and storage configuration
func NewHTTPGateway(remoteCfg config.RemoteConfig, storageCfg config.StorageConfig, logger *loggy.Logger) (*HTTPGateway, error) {
	client := NewClient(ClientConfig{
		BaseURL:           remoteCfg.URL,
		Token:             remoteCfg.Token,
		Timeout:           remoteCfg.Timeout,
		MaxRetries:        remoteCfg.MaxRetries,
		RequestsPerMinute: remoteCfg.RequestsPerMinute,
		BurstLimit:        remoteCfg.BurstLimit,
	}, logger)

	blobs, err := NewBlobStore(storageCfg, logger)
	if err != nil {
		return nil, err
	}

	return &HTTPGateway{
		client: client,
		blobs:  blobs,
		logger: logger,
	}, nil
}

// NewHTTPGatewayWithParts assembles a gateway from prebuilt components,
// mainly for testing
func NewHTTPGatewayWithParts(client *Client, blobs *BlobStore, logger *loggy.Logger) *HTTPGateway {
	return &HTTPGateway{
		client: client,
		blobs:  blobs,
		logger: logger,
	}
}

// UpsertDocument creates or fully replaces the remote document for a report
func (g *HTTPGateway) UpsertDocument(ctx context.Context, r *report.Report) error {
	return g.client.UpsertReport(ctx, NewReportDocument(r))
}

// UploadBlob uploads a local photo and returns its durable public URL
func (g *HTTPGateway) UploadBlob(ctx context.Context, localRef, reportID string) (string, error) {
	return g.blobs.UploadBlob(ctx, localRef, reportID)
}

// Ping verifies connectivity to the document API
func (g *HTTPGateway) Ping(ctx context.Context) error {
	return g.client.Ping(ctx)
}
