package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/suncrest/suncrest-server/internal/domain"
	"github.com/suncrest/suncrest-server/internal/id"
	"github.com/suncrest/suncrest-server/internal/media/images"
	"github.com/suncrest/suncrest-server/internal/sse"
	"github.com/suncrest/suncrest-server/internal/store"
	"github.com/suncrest/suncrest-server/internal/theme"
)

// SiteConfigService owns the site configuration singleton: reads,
// wholesale replacement on save, reset to defaults, and the projected
// theme stylesheet served at /theme.css.
//
// Writes are serialized by a mutex. Every accepted replacement bumps a
// monotonic generation token, so clients (and tests) can tell which
// write produced the state they observe: the visible theme always
// reflects the last completed save or reset, never a mix of two.
type SiteConfigService struct {
	store  *store.Store
	images *images.Processor
	events store.EventEmitter
	logger *slog.Logger

	mu         sync.Mutex    // Serializes save/reset and projection
	generation atomic.Uint64 // Bumped on every accepted replacement
	css        atomic.Value  // Cached stylesheet, string
	merged     atomic.Value  // Last projected theme, theme.Merged
}

// NewSiteConfigService creates the service and projects the currently
// stored theme so /theme.css is servable before the first save.
func NewSiteConfigService(st *store.Store, processor *images.Processor, events store.EventEmitter, logger *slog.Logger) *SiteConfigService {
	s := &SiteConfigService{
		store:  st,
		images: processor,
		events: events,
		logger: logger,
	}

	// Reads fail open, so this only errors on a broken database. The
	// defaults still give us a coherent stylesheet in that case.
	cfg, err := st.GetSiteConfig(context.Background())
	if err != nil {
		logger.Warn("failed to load site config, projecting defaults", "error", err)
		cfg = domain.NewSiteConfig()
	}
	s.project(cfg)

	return s
}

// Get returns the current site configuration, or the defaults when
// nothing has been customized yet.
func (s *SiteConfigService) Get(ctx context.Context) (*domain.SiteConfig, error) {
	return s.store.GetSiteConfig(ctx)
}

// Generation returns the token of the last completed replacement.
func (s *SiteConfigService) Generation() uint64 {
	return s.generation.Load()
}

// ThemeCSS returns the stylesheet rendered from the last projected theme.
func (s *SiteConfigService) ThemeCSS() string {
	return s.css.Load().(string)
}

// ThemeVars returns the ordered variable list of the last projected theme.
func (s *SiteConfigService) ThemeVars() []theme.Var {
	return theme.Vars(s.merged.Load().(theme.Merged))
}

// ProjectTheme replays the last projected theme into the given sink.
func (s *SiteConfigService) ProjectTheme(sink theme.Sink) {
	theme.Project(s.merged.Load().(theme.Merged), sink)
}

// SiteConfigUpdate carries one parsed settings submission. Nil pointer
// fields were not submitted and leave the stored value untouched; binary
// fields are raw image bytes from the multipart form.
type SiteConfigUpdate struct {
	AppName        *string
	AppTheme       *domain.ThemeSpec
	HeroText       *domain.HeroText
	CompanyDetails *domain.CompanyDetails

	// Leadership is the full submitted roster. LeadershipSet
	// distinguishes "not submitted" from "submitted empty".
	Leadership    []domain.Leader
	LeadershipSet bool

	PrimaryLogo      []byte
	SecondaryLogo    []byte
	Favicon          []byte
	HeroImage        []byte
	ContactImage     []byte
	ProductPageImage []byte

	// SliderImages, when non-empty, replaces the entire stored sequence.
	// There is no append: three new uploads over five stored images
	// leaves exactly three.
	SliderImages [][]byte

	// LeaderImages is keyed by the roster entry's stable ID. Bare
	// numeric keys from older clients are resolved against the
	// submitted roster order.
	LeaderImages map[string][]byte
}

// Save applies a settings submission and replaces the stored
// configuration wholesale. Returns the configuration now being served.
func (s *SiteConfigService) Save(ctx context.Context, update *SiteConfigUpdate) (*domain.SiteConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.store.GetSiteConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load current config: %w", err)
	}

	if update.AppName != nil {
		cfg.AppName = *update.AppName
	}
	if update.AppTheme != nil {
		// Stored as submitted. Defaults are merged at projection
		// time, never into the persisted record.
		cfg.AppTheme = update.AppTheme
	}
	if update.HeroText != nil {
		cfg.HeroText = *update.HeroText
	}
	if update.CompanyDetails != nil {
		cfg.CompanyDetails = *update.CompanyDetails
	}
	if update.LeadershipSet {
		cfg.Leadership = update.Leadership
		if cfg.Leadership == nil {
			cfg.Leadership = []domain.Leader{}
		}
	}

	if err := s.applyBranding(cfg, update); err != nil {
		return nil, err
	}
	if err := s.applyLeaderImages(cfg, update.LeaderImages); err != nil {
		return nil, err
	}
	if err := s.applySliderImages(cfg, update.SliderImages); err != nil {
		return nil, err
	}

	if err := s.store.ReplaceSiteConfig(ctx, cfg); err != nil {
		return nil, fmt.Errorf("replace site config: %w", err)
	}

	s.completeReplacement(cfg, "saved")
	return cfg, nil
}

// Reset discards all customization and serves the defaults again.
// Already-uploaded files are left on disk; only the configuration
// record is replaced.
func (s *SiteConfigService) Reset(ctx context.Context) (*domain.SiteConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.store.ResetSiteConfig(ctx)
	if err != nil {
		return nil, err
	}

	s.completeReplacement(cfg, "reset")
	return cfg, nil
}

// completeReplacement bumps the generation, re-projects the theme, and
// announces the change. Callers must hold the mutex.
func (s *SiteConfigService) completeReplacement(cfg *domain.SiteConfig, action string) {
	gen := s.generation.Add(1)
	s.project(cfg)

	if s.events != nil {
		s.events.Emit(sse.NewConfigChangedEvent(gen))
	}

	s.logger.Info("site configuration "+action,
		"generation", gen,
		"app_name", cfg.AppName,
	)
}

func (s *SiteConfigService) project(cfg *domain.SiteConfig) {
	merged := theme.Merge(cfg.AppTheme)
	s.merged.Store(merged)
	s.css.Store(theme.CSS(merged))
}

// applyBranding stores the single-slot binary uploads and swaps the
// corresponding image references.
func (s *SiteConfigService) applyBranding(cfg *domain.SiteConfig, update *SiteConfigUpdate) error {
	slots := []struct {
		name string
		data []byte
		dest *string
	}{
		{"primaryLogo", update.PrimaryLogo, &cfg.AppLogo.Primary},
		{"secondaryLogo", update.SecondaryLogo, &cfg.AppLogo.Secondary},
		{"favicon", update.Favicon, &cfg.AppLogo.Favicon},
		{"heroImage", update.HeroImage, &cfg.HeroImage},
		{"contactImage", update.ContactImage, &cfg.ContactImage},
		{"productPageImage", update.ProductPageImage, &cfg.ProductPageImage},
	}

	for _, slot := range slots {
		if len(slot.data) == 0 {
			continue
		}

		path, err := s.images.SaveBranding(slot.data)
		if err != nil {
			return fmt.Errorf("save %s: %w", slot.name, err)
		}

		if old := *slot.dest; old != "" {
			if err := s.images.Remove(old); err != nil {
				s.logger.Warn("failed to remove replaced image", "path", old, "error", err)
			}
		}
		*slot.dest = path
	}

	return nil
}

// applyLeaderImages attaches uploaded portraits to roster entries.
// Keys are stable entry IDs; missing IDs on fresh entries are assigned
// here so the upload cannot be misattributed by a later roster edit.
func (s *SiteConfigService) applyLeaderImages(cfg *domain.SiteConfig, uploads map[string][]byte) error {
	for i := range cfg.Leadership {
		if cfg.Leadership[i].ID == "" {
			leaderID, err := id.Generate("leader")
			if err != nil {
				return fmt.Errorf("assign leader ID: %w", err)
			}
			cfg.Leadership[i].ID = leaderID
		}
	}

	for key, data := range uploads {
		if len(data) == 0 {
			continue
		}

		entry := resolveLeader(cfg.Leadership, key)
		if entry == nil {
			s.logger.Warn("leader image upload for unknown entry, dropping", "key", key)
			continue
		}

		path, err := s.images.SaveBranding(data)
		if err != nil {
			return fmt.Errorf("save leader image %s: %w", key, err)
		}

		if entry.Image != "" {
			if err := s.images.Remove(entry.Image); err != nil {
				s.logger.Warn("failed to remove replaced image", "path", entry.Image, "error", err)
			}
		}
		entry.Image = path
	}

	return nil
}

// resolveLeader finds the roster entry an upload key addresses: by
// stable ID first, then as a positional index for older clients.
func resolveLeader(roster []domain.Leader, key string) *domain.Leader {
	for i := range roster {
		if roster[i].ID == key {
			return &roster[i]
		}
	}

	if idx, err := strconv.Atoi(key); err == nil && idx >= 0 && idx < len(roster) {
		return &roster[idx]
	}
	return nil
}

// applySliderImages replaces the stored slider sequence when new
// uploads were submitted.
func (s *SiteConfigService) applySliderImages(cfg *domain.SiteConfig, uploads [][]byte) error {
	if len(uploads) == 0 {
		return nil
	}

	paths := make([]string, 0, len(uploads))
	for i, data := range uploads {
		path, err := s.images.SaveBranding(data)
		if err != nil {
			return fmt.Errorf("save slider image %d: %w", i, err)
		}
		paths = append(paths, path)
	}

	for _, old := range cfg.SliderImages {
		if err := s.images.Remove(old); err != nil {
			s.logger.Warn("failed to remove replaced image", "path", old, "error", err)
		}
	}

	cfg.SliderImages = paths
	return nil
}
