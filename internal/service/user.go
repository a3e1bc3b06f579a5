package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/suncrest/suncrest-server/internal/domain"
	domainerrors "github.com/suncrest/suncrest-server/internal/errors"
	"github.com/suncrest/suncrest-server/internal/media/images"
	"github.com/suncrest/suncrest-server/internal/store"
)

// UserService handles customer profiles, admin user management and
// customer interest flags.
type UserService struct {
	store         *store.Store
	images        *images.Processor
	notifications *NotificationService
	logger        *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(st *store.Store, processor *images.Processor, notifications *NotificationService, logger *slog.Logger) *UserService {
	return &UserService{
		store:         st,
		images:        processor,
		notifications: notifications,
		logger:        logger,
	}
}

// ListCustomers returns one page of customer accounts, sanitized. Admin
// accounts are excluded; the console lists leads, not staff. A non-empty
// search query matches name, email and phone.
func (s *UserService) ListCustomers(ctx context.Context, params store.PaginationParams, search string) (*store.PaginatedResult[*domain.User], error) {
	params.Validate()
	result, err := s.store.ListCustomersPage(ctx, params, search)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	for i, u := range result.Items {
		result.Items[i] = sanitizeUser(u)
	}
	return result, nil
}

// Get returns a single sanitized account.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return sanitizeUser(user), nil
}

// Delete soft-deletes an account and revokes its sessions. The record stays
// in the store so the conversation key stays valid; lookups treat the
// account as gone and chat shows a placeholder.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return fmt.Errorf("get user: %w", err)
	}
	if user.IsAdmin() {
		return domainerrors.Forbidden("admin accounts cannot be deleted")
	}

	user.MarkDeleted()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if err := s.store.DeleteUserAuthSessions(ctx, userID); err != nil {
		s.logger.Warn("Failed to revoke sessions for deleted user",
			"user_id", userID,
			"error", err,
		)
	}

	s.logger.Info("User deleted", "user_id", userID, "email", user.Email)
	return nil
}

// UpdateProfileRequest carries the editable profile fields. Email is the
// login identifier and is not editable here.
type UpdateProfileRequest struct {
	Name    string          `json:"name" validate:"required,max=200"`
	Phone   string          `json:"phone" required:"false" validate:"omitempty,max=32"`
	Address *domain.Address `json:"address" required:"false"`

	// Image replaces the profile picture when non-empty.
	Image []byte `json:"-"`
}

// UpdateProfile updates the authenticated customer's own account: name,
// phone, delivery address and profile picture.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*domain.User, error) {
	if err := requestValidator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	user.Name = req.Name
	user.Phone = req.Phone
	if req.Address != nil {
		user.Address = req.Address
	}

	if len(req.Image) > 0 {
		path, err := s.images.SaveProfile(req.Image)
		if err != nil {
			return nil, domainerrors.Validationf("image: %v", err)
		}
		if user.Image != "" {
			if err := s.images.Remove(user.Image); err != nil {
				s.logger.Warn("Failed to remove replaced profile picture",
					"path", user.Image,
					"error", err,
				)
			}
		}
		user.Image = path
	}

	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.logger.Info("Profile updated", "user_id", userID)
	return sanitizeUser(user), nil
}

// InterestedProducts resolves the customer's flagged product IDs to
// product records for the dashboard. Products removed from the catalog
// since they were flagged are skipped.
func (s *UserService) InterestedProducts(ctx context.Context, userID string) ([]*domain.Product, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	products := make([]*domain.Product, 0, len(user.Interests))
	for _, productID := range user.Interests {
		product, err := s.store.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("resolve interest %s: %w", productID, err)
		}
		products = append(products, product)
	}

	return products, nil
}

// AddInterest flags a product for the authenticated customer and notifies
// the admin console. Flagging the same product twice is a no-op.
func (s *UserService) AddInterest(ctx context.Context, userID, productID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("product not found")
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	if !user.AddInterest(productID) {
		return sanitizeUser(user), nil
	}

	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save interest: %w", err)
	}

	s.notifications.Notify(ctx, domain.NotificationInterest,
		"Product interest", user.Name+" is interested in "+product.Name, productID)

	return sanitizeUser(user), nil
}
