package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suncrest/suncrest-server/internal/domain"
)

func TestGetSiteConfig_DefaultsWhenUnset(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	cfg, err := s.GetSiteConfig(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Solar", cfg.AppName)
	require.NotNil(t, cfg.AppTheme)
	require.NotNil(t, cfg.AppTheme.Primary)
	assert.Equal(t, "#2563eb", cfg.AppTheme.Primary.Default)
	assert.Empty(t, cfg.SliderImages)
	assert.Empty(t, cfg.Leadership)
}

func TestReplaceSiteConfig_Wholesale(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	cfg, err := s.GetSiteConfig(ctx)
	require.NoError(t, err)

	cfg.AppName = "Helios Solar"
	cfg.SliderImages = []string{"/uploads/branding/slide-1.webp"}
	cfg.CompanyDetails.Email = "hello@helios.example"
	require.NoError(t, s.ReplaceSiteConfig(ctx, cfg))

	saved, err := s.GetSiteConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Helios Solar", saved.AppName)
	assert.Equal(t, []string{"/uploads/branding/slide-1.webp"}, saved.SliderImages)
	assert.Equal(t, "hello@helios.example", saved.CompanyDetails.Email)
	assert.False(t, saved.UpdatedAt.IsZero())

	// A second replace with a shorter slider list must not leave leftovers.
	saved.SliderImages = nil
	require.NoError(t, s.ReplaceSiteConfig(ctx, saved))

	again, err := s.GetSiteConfig(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.SliderImages)
}

func TestResetSiteConfig_RestoresDefaults(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	custom := domain.NewSiteConfig()
	custom.AppName = "Customized"
	custom.AppTheme.Header = &domain.SurfaceGroup{Background: "#111111"}
	require.NoError(t, s.ReplaceSiteConfig(ctx, custom))

	got, err := s.ResetSiteConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Solar", got.AppName)
	assert.Nil(t, got.AppTheme.Header)

	// Subsequent reads serve defaults again.
	after, err := s.GetSiteConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Solar", after.AppName)
}

func TestResetSiteConfig_IdempotentWhenUnset(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	got, err := s.ResetSiteConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Solar", got.AppName)
}
