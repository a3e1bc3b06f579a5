package api

import (
	"encoding/json/v2"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getFixturePath returns the path to the shared envelope fixtures. The
// storefront client embeds the same JSON strings, so both sides parse
// identical bytes.
func getFixturePath(t *testing.T) string {
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get caller info")

	// Navigate from internal/api to testdata/envelope at the repo root
	repoDir := filepath.Dir(filepath.Dir(filepath.Dir(filename)))
	return filepath.Join(repoDir, "testdata", "envelope")
}

func loadFixture(t *testing.T, name string) map[string]any {
	t.Helper()

	raw, err := os.ReadFile(filepath.Join(getFixturePath(t), name))
	require.NoError(t, err, "Failed to read fixture file - contract tests require shared fixtures")

	var fixture map[string]any
	require.NoError(t, json.Unmarshal(raw, &fixture))
	return fixture
}

func roundTrip(t *testing.T, v any) map[string]any {
	t.Helper()

	raw, err := json.Marshal(v)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

// TestEnvelopeContract_SuccessMatchesFixture verifies the server produces
// exactly the JSON structure defined in the shared fixture.
func TestEnvelopeContract_SuccessMatchesFixture(t *testing.T) {
	expected := loadFixture(t, "success.json")

	data := map[string]string{"id": "prod_abc123", "name": "400W Bifacial Panel"}
	result, err := EnvelopeTransformer(nil, "200", data)
	require.NoError(t, err)

	serverOutput := roundTrip(t, result)

	assert.Equal(t, expected["v"], serverOutput["v"], "Version field 'v' must match fixture")
	assert.Equal(t, expected["success"], serverOutput["success"], "Success field must match fixture")
	assert.Contains(t, serverOutput, "data", "Response must contain 'data' field")

	for key := range serverOutput {
		assert.Contains(t, expected, key, "Server output contains unexpected field: %s", key)
	}
}

// TestEnvelopeContract_SuccessNullDataMatchesFixture verifies success
// responses without data omit the data field entirely.
func TestEnvelopeContract_SuccessNullDataMatchesFixture(t *testing.T) {
	expected := loadFixture(t, "success_null_data.json")

	result, err := EnvelopeTransformer(nil, "204", nil)
	require.NoError(t, err)

	serverOutput := roundTrip(t, result)

	assert.Equal(t, expected["v"], serverOutput["v"], "Version field must match")
	assert.Equal(t, expected["success"], serverOutput["success"], "Success field must match")
	assert.NotContains(t, serverOutput, "error", "Success envelope must not carry an error")
}

// TestEnvelopeContract_ErrorMatchesFixture verifies error responses nest
// code and message under the error object, matching the fixture.
func TestEnvelopeContract_ErrorMatchesFixture(t *testing.T) {
	expected := loadFixture(t, "error.json")

	result, err := EnvelopeTransformer(nil, "404", &APIError{
		status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: "Product not found",
	})
	require.NoError(t, err)

	serverOutput := roundTrip(t, result)

	assert.Equal(t, expected["v"], serverOutput["v"], "Version field must match")
	assert.Equal(t, expected["success"], serverOutput["success"], "Success must be false")
	assert.NotContains(t, serverOutput, "data", "Error envelope must not carry data")

	errObj, ok := serverOutput["error"].(map[string]any)
	require.True(t, ok, "Error must be an object")
	assert.Equal(t, expected["error"], errObj, "Error object must match fixture")
}

// TestEnvelopeContract_PassthroughEnvelope verifies a pre-built envelope
// from a raw handler is not double wrapped.
func TestEnvelopeContract_PassthroughEnvelope(t *testing.T) {
	env := &Envelope{Version: envelopeVersion, Success: true, Data: "ok"}

	result, err := EnvelopeTransformer(nil, "200", env)
	require.NoError(t, err)
	assert.Same(t, env, result, "Existing envelope must pass through unchanged")
}

// TestEnvelopeContract_VersionFieldName verifies the version field is named
// exactly 'v'. Renaming it to 'version' breaks clients silently.
func TestEnvelopeContract_VersionFieldName(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "200", nil)
	require.NoError(t, err)

	serverOutput := roundTrip(t, result)

	assert.Contains(t, serverOutput, "v", "Must use 'v' as version field name")
	assert.NotContains(t, serverOutput, "version", "Must NOT use 'version' as field name")
	assert.NotContains(t, serverOutput, "Version", "Must NOT use 'Version' as field name")
}
