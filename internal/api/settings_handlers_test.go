package api

import (
	"bytes"
	"encoding/json/v2"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suncrest/suncrest-server/internal/domain"
)

// testPNG renders a small solid-color PNG for upload tests.
func testPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 0x25, G: 0x63, B: 0xeb, A: 0xff})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// settingsForm builds a multipart settings submission.
type settingsForm struct {
	t      *testing.T
	buf    bytes.Buffer
	writer *multipart.Writer
}

func newSettingsForm(t *testing.T) *settingsForm {
	f := &settingsForm{t: t}
	f.writer = multipart.NewWriter(&f.buf)
	return f
}

func (f *settingsForm) field(name, value string) *settingsForm {
	require.NoError(f.t, f.writer.WriteField(name, value))
	return f
}

func (f *settingsForm) file(name string, data []byte) *settingsForm {
	part, err := f.writer.CreateFormFile(name, name+".png")
	require.NoError(f.t, err)
	_, err = part.Write(data)
	require.NoError(f.t, err)
	return f
}

func (f *settingsForm) request(token string) *http.Request {
	require.NoError(f.t, f.writer.Close())
	req := httptest.NewRequest(http.MethodPut, "/api/site-settings", &f.buf)
	req.Header.Set("Content-Type", f.writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func (ts *testServer) saveSettings(t *testing.T, form *settingsForm, token string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, form.request(token))
	return rec
}

func TestGetSiteSettings_Defaults(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/site-settings")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[domain.SiteConfig]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "Solar", envelope.Data.AppName)
	assert.NotNil(t, envelope.Data.AppTheme)

	// An uncustomized site has no slider images; the sequence is
	// present and empty, never null, so consumers can fall back.
	assert.NotNil(t, envelope.Data.SliderImages)
	assert.Empty(t, envelope.Data.SliderImages)
}

func TestSaveSiteSettings_RequiresAdmin(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.saveSettings(t, newSettingsForm(t).field("appName", "Nope"), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	customerToken, _ := ts.createCustomer(t, "visitor@example.com")
	rec = ts.saveSettings(t, newSettingsForm(t).field("appName", "Nope"), customerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Neither attempt changed anything.
	resp := ts.api.Get("/api/site-settings")
	var envelope testEnvelope[domain.SiteConfig]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "Solar", envelope.Data.AppName)
}

func TestSaveSiteSettings_PartialUpdate(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.createAdmin(t, "admin@example.com")

	form := newSettingsForm(t).
		field("appName", "Suncrest Solar").
		field("heroText", `{"headline":"Power your home","description":"Line one\nLine two"}`).
		field("companyDetails", `{"name":"Suncrest","email":"hello@suncrest.example"}`)

	rec := ts.saveSettings(t, form, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope testEnvelope[domain.SiteConfig]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Suncrest Solar", envelope.Data.AppName)
	assert.Equal(t, "Power your home", envelope.Data.HeroText.Headline)
	assert.Equal(t, "Line one\nLine two", envelope.Data.HeroText.Description)
	assert.Equal(t, "Suncrest", envelope.Data.CompanyDetails.Name)

	// Fields not in the form kept their stored values.
	assert.NotNil(t, envelope.Data.AppTheme)

	// A second save without appName leaves the stored name alone.
	rec = ts.saveSettings(t, newSettingsForm(t).field("heroText", `{"headline":"New headline"}`), adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Suncrest Solar", envelope.Data.AppName)
	assert.Equal(t, "New headline", envelope.Data.HeroText.Headline)
}

func TestSaveSiteSettings_InvalidThemeJSON(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.createAdmin(t, "admin@example.com")

	rec := ts.saveSettings(t, newSettingsForm(t).field("appTheme", "{not json"), adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope testEnvelope[any]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION", envelope.Error.Code)
}

func TestSaveSiteSettings_SliderImagesReplaceWholesale(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.createAdmin(t, "admin@example.com")
	img := testPNG(t)

	form := newSettingsForm(t).
		file("sliderImages", img).
		file("sliderImages", img).
		file("sliderImages", img)
	rec := ts.saveSettings(t, form, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope testEnvelope[domain.SiteConfig]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.SliderImages, 3)

	// Two new uploads replace all three, no append.
	rec = ts.saveSettings(t, newSettingsForm(t).file("sliderImages", img).file("sliderImages", img), adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.SliderImages, 2)

	// A save with no slider parts leaves the stored sequence untouched.
	rec = ts.saveSettings(t, newSettingsForm(t).field("appName", "Still here"), adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.SliderImages, 2)
}

func TestSaveSiteSettings_LeaderImages(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.createAdmin(t, "admin@example.com")
	img := testPNG(t)

	// Fresh roster entries get IDs assigned; the positional key resolves
	// against submitted order.
	form := newSettingsForm(t).
		field("leadership", `[{"name":"Dana Obi","role":"CEO"},{"name":"Femi Ade","role":"CTO"}]`).
		file("leaderImage_1", img)
	rec := ts.saveSettings(t, form, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope testEnvelope[domain.SiteConfig]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Leadership, 2)
	assert.NotEmpty(t, envelope.Data.Leadership[0].ID)
	assert.NotEmpty(t, envelope.Data.Leadership[1].ID)
	assert.Empty(t, envelope.Data.Leadership[0].Image)
	assert.NotEmpty(t, envelope.Data.Leadership[1].Image)

	// Re-uploading by stable ID replaces that entry's portrait.
	leaderID := envelope.Data.Leadership[0].ID
	rec = ts.saveSettings(t, newSettingsForm(t).file(leaderImagePrefix+leaderID, img), adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.Leadership[0].Image)
}

func TestSaveSiteSettings_BrandingUploadServed(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.createAdmin(t, "admin@example.com")

	rec := ts.saveSettings(t, newSettingsForm(t).file("primaryLogo", testPNG(t)), adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope testEnvelope[domain.SiteConfig]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	logoPath := envelope.Data.AppLogo.Primary
	require.NotEmpty(t, logoPath)

	// The stored reference resolves through the uploads route.
	req := httptest.NewRequest(http.MethodGet, logoPath, nil)
	getRec := httptest.NewRecorder()
	ts.ServeHTTP(getRec, req)
	assert.Equal(t, http.StatusOK, getRec.Code)
	assert.Equal(t, "image/png", getRec.Header().Get("Content-Type"))
}

func TestResetSiteSettings(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.createAdmin(t, "admin@example.com")

	rec := ts.saveSettings(t, newSettingsForm(t).field("appName", "Customized"), adminToken)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := ts.api.Post("/api/site-settings/reset", authHeader(adminToken))
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[domain.SiteConfig]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "Solar", envelope.Data.AppName)
}

func TestThemeCSS_ETagRevalidation(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.createAdmin(t, "admin@example.com")

	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/theme.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	assert.Contains(t, rec.Body.String(), "--color-primary:")

	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	// Unchanged generation revalidates without a body.
	req := httptest.NewRequest(http.MethodGet, "/theme.css", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)

	// A save bumps the generation, so the old tag stops matching.
	saveRec := ts.saveSettings(t, newSettingsForm(t).field("appTheme", `{"primary":{"default":"#ff0000"}}`), adminToken)
	require.Equal(t, http.StatusOK, saveRec.Code)

	rec = httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, etag, rec.Header().Get("ETag"))
	assert.Contains(t, rec.Body.String(), "#ff0000")
}

func TestGetThemeVars(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/site-settings/theme-vars")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ThemeVarsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Vars)

	names := make(map[string]string, len(envelope.Data.Vars))
	for _, v := range envelope.Data.Vars {
		names[v.Name] = v.Value
	}
	assert.Equal(t, "#2563eb", names["--color-primary"])
	assert.Contains(t, names, "--btn-bg")
	assert.Contains(t, names, "--foreground")
}
