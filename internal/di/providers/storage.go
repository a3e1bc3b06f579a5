package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/suncrest/suncrest-server/internal/config"
	"github.com/suncrest/suncrest-server/internal/logger"
	"github.com/suncrest/suncrest-server/internal/media/images"
)

// ProvideImageProcessor provides the image processor for uploaded site assets.
// Branding images and product photos both land under the uploads directory.
func ProvideImageProcessor(i do.Injector) (*images.Processor, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	uploadsPath := filepath.Join(cfg.Data.BasePath, "uploads")
	processor, err := images.NewProcessor(uploadsPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Image processor initialized", "path", uploadsPath)

	return processor, nil
}
