// Package remote implements the gateway to the city's report backend: a
// JSON document API for report upserts and an S3-compatible object store
// for photo blobs.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/ilies38/Cityreport2/internal/loggy"
)

// ClientConfig holds the settings for the document API client
type ClientConfig struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	MaxRetries int

	// Rate limiting
	RequestsPerMinute int
	BurstLimit        int
}

// APIError represents an error response from the document API
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	ErrorCode  string `json:"error_code,omitempty"`
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("API error %d (%s): %s", e.StatusCode, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// Client is an HTTP client for the report document API
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	maxRetries int
	limiter    *rate.Limiter
	logger     *loggy.Logger
}

// NewClient creates a new document API client
func NewClient(cfg ClientConfig, logger *loggy.Logger) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 120
	}
	burst := cfg.BurstLimit
	if burst <= 0 {
		burst = 10
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		token:      cfg.Token,
		maxRetries: cfg.MaxRetries,
		limiter:    rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst),
		logger:     logger,
	}
}

// UpsertReport creates or replaces the report document keyed by its id.
// The operation is idempotent: pushing the same document twice is harmless.
func (c *Client) UpsertReport(ctx context.Context, doc *ReportDocument) error {
	path := fmt.Sprintf("/api/v1/reports/%s", doc.ID)

	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		err := c.sendRequest(ctx, http.MethodPut, path, doc)
		if err == nil {
			return nil
		}

		// Client errors won't heal on retry; hand them straight back
		if apiErr, ok := err.(*APIError); ok {
			if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
				return backoff.Permanent(err)
			}
		}

		c.logger.Debug("Retrying report upsert", "report_id", doc.ID, "error", err)
		return err
	}

	return backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)),
		ctx,
	))
}

// Ping verifies connectivity and credentials against the API health endpoint
func (c *Client) Ping(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	return c.sendRequest(ctx, http.MethodGet, "/api/v1/health", nil)
}

// sendRequest marshals the payload, performs the request and decodes error
// responses into APIError
func (c *Client) sendRequest(ctx context.Context, method, path string, payload interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshalling request payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}
