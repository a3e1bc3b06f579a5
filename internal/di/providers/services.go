package providers

import (
	"github.com/samber/do/v2"

	"github.com/suncrest/suncrest-server/internal/auth"
	"github.com/suncrest/suncrest-server/internal/logger"
	"github.com/suncrest/suncrest-server/internal/media/images"
	"github.com/suncrest/suncrest-server/internal/service"
)

// ProvideNotificationService provides the admin notification service.
// Most other services depend on it to raise dashboard notifications.
func ProvideNotificationService(i do.Injector) (*service.NotificationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNotificationService(storeHandle.Store, sseHandle.Manager, log.Logger), nil
}

// ProvideSiteConfigService provides the site configuration service.
func ProvideSiteConfigService(i do.Injector) (*service.SiteConfigService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	processor := do.MustInvoke[*images.Processor](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSiteConfigService(storeHandle.Store, processor, sseHandle.Manager, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	notifications := do.MustInvoke[*service.NotificationService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, notifications, log.Logger), nil
}

// ProvideProductService provides the product catalog service.
func ProvideProductService(i do.Injector) (*service.ProductService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	processor := do.MustInvoke[*images.Processor](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProductService(storeHandle.Store, processor, indexHandle.SearchIndex, log.Logger), nil
}

// ProvideUserService provides the customer account service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	processor := do.MustInvoke[*images.Processor](i)
	notifications := do.MustInvoke[*service.NotificationService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, processor, notifications, log.Logger), nil
}

// ProvideInquiryService provides the contact inquiry service.
func ProvideInquiryService(i do.Injector) (*service.InquiryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	notifications := do.MustInvoke[*service.NotificationService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewInquiryService(storeHandle.Store, notifications, log.Logger), nil
}

// ProvideChatService provides the customer chat service.
func ProvideChatService(i do.Injector) (*service.ChatService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	notifications := do.MustInvoke[*service.NotificationService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewChatService(storeHandle.Store, sseHandle.Manager, notifications, log.Logger), nil
}
