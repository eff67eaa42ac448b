package remote

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilies38/Cityreport2/internal/report"
)

func TestNewReportDocument(t *testing.T) {
	r := report.NewReport("Pothole", "Deep hole", report.CategoryRoad, 48.85, 2.35)
	r.PhotoURL = "https://cdn.example.com/reports/" + r.ID + ".jpg"

	doc := NewReportDocument(r)

	assert.Equal(t, r.ID, doc.ID)
	assert.Equal(t, "ROAD", doc.Category)
	assert.Equal(t, r.Timestamp, doc.Timestamp)
	require.NotNil(t, doc.PhotoURL)
	assert.Equal(t, r.PhotoURL, *doc.PhotoURL)
}

func TestReportDocumentJSON(t *testing.T) {
	r := report.NewReport("Pothole", "Deep hole", report.CategoryRoad, 48.85, 2.35)

	data, err := json.Marshal(NewReportDocument(r))
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))

	// A report without a photo serializes an explicit null
	assert.Contains(t, fields, "photoUrl")
	assert.Nil(t, fields["photoUrl"])

	// Local sync state never appears in the wire document
	for key := range fields {
		assert.NotContains(t, key, "sync")
		assert.NotContains(t, key, "Sync")
	}
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "reports/rep_01HQZX.jpg", ObjectKey("rep_01HQZX"))
}
