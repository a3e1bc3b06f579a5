package api

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/suncrest/suncrest-server/internal/domain"
	domainerrors "github.com/suncrest/suncrest-server/internal/errors"
	"github.com/suncrest/suncrest-server/internal/service"
)

// leaderImagePrefix marks multipart parts carrying a leadership photo. The
// suffix is the roster entry's stable ID (or a bare index from old clients).
const leaderImagePrefix = "leaderImage_"

func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSiteSettings",
		Method:      http.MethodGet,
		Path:        "/api/site-settings",
		Summary:     "Get site settings",
		Description: "Returns the configuration currently being served. Absent customization returns the defaults.",
		Tags:        []string{"Site Settings"},
	}, s.handleGetSiteSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "resetSiteSettings",
		Method:      http.MethodPost,
		Path:        "/api/site-settings/reset",
		Summary:     "Reset site settings",
		Description: "Discards all customization and restores the default configuration",
		Tags:        []string{"Site Settings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleResetSiteSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "getThemeVars",
		Method:      http.MethodGet,
		Path:        "/api/site-settings/theme-vars",
		Summary:     "Get theme variables",
		Description: "Returns the projected theme variables in definition order, for the admin live preview",
		Tags:        []string{"Site Settings"},
	}, s.handleGetThemeVars)
}

// === DTOs ===

// SiteConfigOutput wraps the site configuration for Huma. The body is the
// authoritative configuration after any save or reset.
type SiteConfigOutput struct {
	Body *domain.SiteConfig
}

// ThemeVarResponse is one projected style variable.
type ThemeVarResponse struct {
	Name  string `json:"name" doc:"CSS custom property name"`
	Value string `json:"value" doc:"Property value"`
}

// ThemeVarsResponse contains the full projection plus its generation.
type ThemeVarsResponse struct {
	Generation uint64             `json:"generation" doc:"Projection generation, increases with every replacement"`
	Vars       []ThemeVarResponse `json:"vars" doc:"Projected variables in definition order"`
}

// ThemeVarsOutput wraps the theme vars response for Huma.
type ThemeVarsOutput struct {
	Body ThemeVarsResponse
}

// AdminActionInput carries only the Authorization header.
type AdminActionInput struct {
	Authorization string `header:"Authorization"`
}

// === Handlers ===

func (s *Server) handleGetSiteSettings(ctx context.Context, _ *struct{}) (*SiteConfigOutput, error) {
	cfg, err := s.services.SiteConfig.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &SiteConfigOutput{Body: cfg}, nil
}

func (s *Server) handleResetSiteSettings(ctx context.Context, input *AdminActionInput) (*SiteConfigOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(input.Authorization); err != nil {
		return nil, err
	}

	cfg, err := s.services.SiteConfig.Reset(ctx)
	if err != nil {
		return nil, err
	}
	return &SiteConfigOutput{Body: cfg}, nil
}

func (s *Server) handleGetThemeVars(_ context.Context, _ *struct{}) (*ThemeVarsOutput, error) {
	vars := s.services.SiteConfig.ThemeVars()
	resp := ThemeVarsResponse{
		Generation: s.services.SiteConfig.Generation(),
		Vars:       make([]ThemeVarResponse, len(vars)),
	}
	for i, v := range vars {
		resp.Vars[i] = ThemeVarResponse{Name: v.Name, Value: v.Value}
	}
	return &ThemeVarsOutput{Body: resp}, nil
}

// handleThemeCSS serves the projected theme as a stylesheet. The ETag is
// the projection generation, so clients revalidate cheaply after a save.
func (s *Server) handleThemeCSS(w http.ResponseWriter, r *http.Request) {
	etag := fmt.Sprintf("%q", "g"+formatUint(s.services.SiteConfig.Generation()))
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("ETag", etag)
	if _, err := io.WriteString(w, s.services.SiteConfig.ThemeCSS()); err != nil {
		s.logger.Warn("Failed to write theme stylesheet", "error", err)
	}
}

// handleSaveSiteSettings decodes the multipart settings submission and
// replaces the stored configuration. Raw chi handler: huma's typed inputs
// don't fit a form with a variable set of named binary parts.
func (s *Server) handleSaveSiteSettings(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticateAndRequireAdmin(r.Header.Get("Authorization")); err != nil {
		s.writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.uploads.MaxFormBytes)
	if err := r.ParseMultipartForm(s.uploads.MaxFormBytes); err != nil {
		s.writeError(w, domainerrors.Validationf("invalid multipart form: %v", err))
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			s.logger.Warn("Failed to clean up multipart temp files", "error", err)
		}
	}()

	update, err := s.decodeSettingsForm(r.MultipartForm)
	if err != nil {
		s.writeError(w, err)
		return
	}

	cfg, err := s.services.SiteConfig.Save(r.Context(), update)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeEnvelope(w, http.StatusOK, cfg)
}

// decodeSettingsForm maps the multipart fields onto a SiteConfigUpdate.
// Absent fields stay nil and leave the stored value untouched.
func (s *Server) decodeSettingsForm(form *multipart.Form) (*service.SiteConfigUpdate, error) {
	update := &service.SiteConfigUpdate{}

	if values, ok := form.Value["appName"]; ok && len(values) > 0 {
		update.AppName = &values[0]
	}

	if raw, ok := formValue(form, "appTheme"); ok {
		theme := &domain.ThemeSpec{}
		if err := json.Unmarshal([]byte(raw), theme); err != nil {
			return nil, domainerrors.Validationf("appTheme is not valid JSON: %v", err)
		}
		update.AppTheme = theme
	}

	if raw, ok := formValue(form, "heroText"); ok {
		heroText := &domain.HeroText{}
		if err := json.Unmarshal([]byte(raw), heroText); err != nil {
			return nil, domainerrors.Validationf("heroText is not valid JSON: %v", err)
		}
		update.HeroText = heroText
	}

	if raw, ok := formValue(form, "companyDetails"); ok {
		details := &domain.CompanyDetails{}
		if err := json.Unmarshal([]byte(raw), details); err != nil {
			return nil, domainerrors.Validationf("companyDetails is not valid JSON: %v", err)
		}
		update.CompanyDetails = details
	}

	if raw, ok := formValue(form, "leadership"); ok {
		var leadership []domain.Leader
		if err := json.Unmarshal([]byte(raw), &leadership); err != nil {
			return nil, domainerrors.Validationf("leadership is not valid JSON: %v", err)
		}
		update.Leadership = leadership
		update.LeadershipSet = true
	}

	// Single-slot binary fields.
	for field, dst := range map[string]*[]byte{
		"primaryLogo":      &update.PrimaryLogo,
		"secondaryLogo":    &update.SecondaryLogo,
		"favicon":          &update.Favicon,
		"heroImage":        &update.HeroImage,
		"contactImage":     &update.ContactImage,
		"productPageImage": &update.ProductPageImage,
	} {
		data, err := s.readFormFile(form, field)
		if err != nil {
			return nil, err
		}
		*dst = data
	}

	// Repeated slider parts. Presence of any replaces the stored sequence.
	for _, header := range form.File["sliderImages"] {
		data, err := readFileHeader(header, s.uploads.MaxFileBytes)
		if err != nil {
			return nil, domainerrors.Validationf("sliderImages: %v", err)
		}
		update.SliderImages = append(update.SliderImages, data)
	}

	// Leadership photos, keyed by the part name suffix.
	for name, headers := range form.File {
		key, ok := strings.CutPrefix(name, leaderImagePrefix)
		if !ok || len(headers) == 0 {
			continue
		}
		data, err := readFileHeader(headers[0], s.uploads.MaxFileBytes)
		if err != nil {
			return nil, domainerrors.Validationf("%s: %v", name, err)
		}
		if update.LeaderImages == nil {
			update.LeaderImages = make(map[string][]byte)
		}
		update.LeaderImages[key] = data
	}

	return update, nil
}

// formValue returns the first value for a field, skipping empty strings.
func formValue(form *multipart.Form, field string) (string, bool) {
	values, ok := form.Value[field]
	if !ok || len(values) == 0 || values[0] == "" {
		return "", false
	}
	return values[0], true
}

// readFormFile reads a named single-slot file field, nil when absent.
func (s *Server) readFormFile(form *multipart.Form, field string) ([]byte, error) {
	headers, ok := form.File[field]
	if !ok || len(headers) == 0 {
		return nil, nil
	}
	data, err := readFileHeader(headers[0], s.uploads.MaxFileBytes)
	if err != nil {
		return nil, domainerrors.Validationf("%s: %v", field, err)
	}
	return data, nil
}

// readFileHeader reads one uploaded part, enforcing the per-file limit.
func readFileHeader(header *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	if header.Size > maxBytes {
		return nil, fmt.Errorf("file exceeds %d byte limit", maxBytes)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("file exceeds %d byte limit", maxBytes)
	}
	return data, nil
}
