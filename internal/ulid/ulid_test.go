package ulid

import (
	"database/sql/driver"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	// Generate a new ULID
	id := Generate()

	// Verify it's not zero
	assert.False(t, id.IsZero(), "Generated ULID should not be zero")

	// Verify it contains a valid timestamp close to now
	now := time.Now()
	idTime := id.Time()
	timeDiff := now.Sub(idTime).Seconds()
	assert.True(t, timeDiff < 1.0, "ULID timestamp should be close to now")
}

func TestGenerateWithPrefix(t *testing.T) {
	// Generate ULIDs with different prefixes
	prefixes := []string{PrefixReport, PrefixSyncLog, PrefixSetting, "custom"}

	for _, prefix := range prefixes {
		id := GenerateWithPrefix(prefix)

		// Verify prefix is set
		assert.Equal(t, prefix, id.Prefix(), "Prefix should match the provided value")

		// Verify string representation contains the prefix
		assert.Contains(t, id.String(), prefix+PrefixSeparator,
			"String representation should contain the prefix")
	}
}

func TestParse(t *testing.T) {
	// Test parsing a raw ULID
	rawULID := Generate()
	parsedRaw, err := Parse(rawULID.String())
	require.NoError(t, err)
	assert.Equal(t, rawULID, parsedRaw)

	// Test parsing a prefixed ULID
	prefixedULID := GenerateWithPrefix(PrefixReport)
	parsedPrefixed, err := Parse(prefixedULID.String())
	require.NoError(t, err)
	assert.Equal(t, prefixedULID, parsedPrefixed)
	assert.Equal(t, PrefixReport, parsedPrefixed.Prefix())

	// Test parsing an invalid ULID
	_, err = Parse("invalid-ulid")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	// Test valid ULIDs
	id := Generate()
	assert.True(t, Validate(id.String()), "Valid ULID should be valid")

	prefixedID := GenerateWithPrefix(PrefixReport)
	assert.True(t, Validate(prefixedID.String()), "Valid prefixed ULID should be valid")

	// Test invalid ULIDs
	assert.False(t, Validate("invalid"), "Invalid ULID should be invalid")
	assert.False(t, Validate("rep-invalid"), "Invalid prefixed ULID should be invalid")
	assert.False(t, Validate(""), "Empty string should be invalid")
}

func TestCompare(t *testing.T) {
	// Create ULIDs with known timestamps
	time1 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	time2 := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)

	id1 := NewWithTime(time1)
	id2 := NewWithTime(time2)

	// Test comparison with different timestamps
	assert.Equal(t, -1, id1.Compare(id2), "Earlier ULID should be less than later ULID")
	assert.Equal(t, 1, id2.Compare(id1), "Later ULID should be greater than earlier ULID")
	assert.Equal(t, 0, id1.Compare(id1), "Same ULID should be equal")
}

func TestIsZero(t *testing.T) {
	// Test nil ULID
	assert.True(t, Nil.IsZero(), "Nil ULID should be zero")

	// Test non-nil ULID
	id := Generate()
	assert.False(t, id.IsZero(), "Generated ULID should not be zero")
}

func TestJSONMarshalUnmarshal(t *testing.T) {
	// Test marshaling/unmarshaling a raw ULID
	id := Generate()
	data, err := json.Marshal(id)
	require.NoError(t, err)

	var unmarshaled ULID
	err = json.Unmarshal(data, &unmarshaled)
	require.NoError(t, err)
	assert.Equal(t, id, unmarshaled)

	// Test marshaling/unmarshaling a prefixed ULID
	prefixedID := GenerateWithPrefix(PrefixReport)
	data, err = json.Marshal(prefixedID)
	require.NoError(t, err)

	var unmarshaledPrefixed ULID
	err = json.Unmarshal(data, &unmarshaledPrefixed)
	require.NoError(t, err)
	assert.Equal(t, prefixedID, unmarshaledPrefixed)
	assert.Equal(t, PrefixReport, unmarshaledPrefixed.Prefix())
}

func TestDatabaseSerialization(t *testing.T) {
	// Test Value (for database storage)
	id := GenerateWithPrefix(PrefixSyncLog)
	value, err := id.Value()
	require.NoError(t, err)

	// Check that the value is a string
	strValue, ok := value.(string)
	require.True(t, ok, "Value should return a string")

	// Test Scan (for database retrieval)
	var scanned ULID
	err = scanned.Scan(strValue)
	require.NoError(t, err)
	assert.Equal(t, id, scanned)

	// Test scanning from []byte
	var scannedFromBytes ULID
	err = scannedFromBytes.Scan([]byte(strValue))
	require.NoError(t, err)
	assert.Equal(t, id, scannedFromBytes)

	// Test scanning from nil
	var scannedFromNil ULID
	err = scannedFromNil.Scan(nil)
	require.NoError(t, err)
	assert.True(t, scannedFromNil.IsZero())

	// Test scanning from invalid type
	var scannedFromInvalid ULID
	err = scannedFromInvalid.Scan(123)
	assert.Error(t, err)
}

func TestDomainIDGeneration(t *testing.T) {
	// Test all domain-specific ID generation functions
	testCases := []struct {
		name       string
		idFunction func() string
		prefix     string
	}{
		{"ReportID", ReportID, PrefixReport},
		{"SyncLogID", SyncLogID, PrefixSyncLog},
		{"SettingID", SettingID, PrefixSetting},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id := tc.idFunction()
			assert.Contains(t, id, tc.prefix+PrefixSeparator)
			assert.True(t, Validate(id))

			parsed, err := Parse(id)
			require.NoError(t, err)
			assert.Equal(t, tc.prefix, parsed.Prefix())
		})
	}
}

func TestMustParse(t *testing.T) {
	// Test with valid ULID
	id := Generate()
	parsed := MustParse(id.String())
	assert.Equal(t, id, parsed)

	// Test with invalid ULID (should panic)
	assert.Panics(t, func() {
		MustParse("invalid-ulid")
	})
}

func TestTimeExtraction(t *testing.T) {
	// Create a ULID with a specific timestamp
	timestamp := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	id := NewWithTime(timestamp)

	// Extract the timestamp
	extractedTime := id.Time()

	// The extracted time should be close to the original timestamp
	// (there might be some precision loss due to the ULID timestamp format)
	timeDiff := timestamp.Sub(extractedTime).Milliseconds()
	assert.LessOrEqual(t, timeDiff, int64(1),
		"Extracted time should be close to the original timestamp")
}

func TestDriverValueConverter(t *testing.T) {
	// Test that ULID can be used with database/sql driver interface
	var v driver.Valuer = Generate()

	val, err := v.Value()
	require.NoError(t, err)
	assert.IsType(t, "", val, "Value should return a string")
}

func BenchmarkGenerate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Generate()
	}
}

func BenchmarkParse(b *testing.B) {
	id := Generate().String()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Parse(id)
	}
}
