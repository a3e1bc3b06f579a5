package api

import (
	"github.com/suncrest/suncrest-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	SiteConfig   *service.SiteConfigService
	Auth         *service.AuthService
	Product      *service.ProductService
	User         *service.UserService
	Inquiry      *service.InquiryService
	Notification *service.NotificationService
	Chat         *service.ChatService
}
