package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/suncrest/suncrest-server/internal/api"
	"github.com/suncrest/suncrest-server/internal/config"
	"github.com/suncrest/suncrest-server/internal/logger"
	"github.com/suncrest/suncrest-server/internal/media/images"
	"github.com/suncrest/suncrest-server/internal/service"
	"github.com/suncrest/suncrest-server/internal/sse"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	processor := do.MustInvoke[*images.Processor](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		SiteConfig:   do.MustInvoke[*service.SiteConfigService](i),
		Auth:         do.MustInvoke[*service.AuthService](i),
		Product:      do.MustInvoke[*service.ProductService](i),
		User:         do.MustInvoke[*service.UserService](i),
		Inquiry:      do.MustInvoke[*service.InquiryService](i),
		Notification: do.MustInvoke[*service.NotificationService](i),
		Chat:         do.MustInvoke[*service.ChatService](i),
	}

	sseHandler := sse.NewHandler(sseHandle.Manager, log.Logger)

	handler := api.NewServer(storeHandle.Store, services, processor, sseHandler, cfg.Uploads, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
