package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilies38/Cityreport2/internal/loggy"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:           server.URL,
		Token:             "test-token",
		Timeout:           5 * time.Second,
		MaxRetries:        3,
		RequestsPerMinute: 6000, // effectively unthrottled for tests
		BurstLimit:        100,
	}, loggy.NewNoopLogger())

	return client, server
}

func sampleDocument() *ReportDocument {
	photoURL := "https://cdn.example.com/reports/rep_1.jpg"
	return &ReportDocument{
		ID:          "rep_1",
		Title:       "Pothole",
		Description: "Deep hole on main street",
		Category:    "ROAD",
		Latitude:    48.8566,
		Longitude:   2.3522,
		PhotoURL:    &photoURL,
		Timestamp:   1700000000000,
	}
}

func TestUpsertReport(t *testing.T) {
	var gotMethod, gotPath, gotAuth string
	var gotBody map[string]interface{}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})

	err := client.UpsertReport(context.Background(), sampleDocument())
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/v1/reports/rep_1", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)

	assert.Equal(t, "Pothole", gotBody["title"])
	assert.Equal(t, "ROAD", gotBody["category"])
	assert.Contains(t, gotBody, "photoUrl")

	// Sync status is local bookkeeping and must never cross the wire
	assert.NotContains(t, gotBody, "syncStatus")
	assert.NotContains(t, gotBody, "sync_status")
}

func TestUpsertReportRetriesServerErrors(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	err := client.UpsertReport(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestUpsertReportDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid payload"})
	})

	err := client.UpsertReport(context.Background(), sampleDocument())
	require.Error(t, err)
	assert.Equal(t, 1, attempts)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "invalid payload", apiErr.Message)
}

func TestUpsertReportExhaustsRetries(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.UpsertReport(context.Background(), sampleDocument())
	require.Error(t, err)
	// Initial attempt plus MaxRetries
	assert.Equal(t, 4, attempts)
}

func TestUpsertReportIdempotent(t *testing.T) {
	paths := make(map[string]int)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths[r.URL.Path]++
		w.WriteHeader(http.StatusOK)
	})

	doc := sampleDocument()
	require.NoError(t, client.UpsertReport(context.Background(), doc))
	require.NoError(t, client.UpsertReport(context.Background(), doc))

	// Both pushes hit the same id-keyed resource
	assert.Equal(t, 2, paths["/api/v1/reports/rep_1"])
}

func TestPing(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, client.Ping(context.Background()))
}

func TestPingUnauthorized(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := client.Ping(context.Background())
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestAPIErrorString(t *testing.T) {
	err := &APIError{StatusCode: 404, Message: "not found"}
	assert.Equal(t, "API error 404: not found", err.Error())

	err = &APIError{StatusCode: 400, Message: "bad input", ErrorCode: "INVALID"}
	assert.Equal(t, "API error 400 (INVALID): bad input", err.Error())
}
