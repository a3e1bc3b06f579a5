package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/suncrest/suncrest-server/internal/domain"
	domainerrors "github.com/suncrest/suncrest-server/internal/errors"
	"github.com/suncrest/suncrest-server/internal/id"
	"github.com/suncrest/suncrest-server/internal/store"
)

// InquiryService handles contact form submissions and the admin inbox.
type InquiryService struct {
	store         *store.Store
	notifications *NotificationService
	logger        *slog.Logger
}

// NewInquiryService creates a new inquiry service.
func NewInquiryService(st *store.Store, notifications *NotificationService, logger *slog.Logger) *InquiryService {
	return &InquiryService{
		store:         st,
		notifications: notifications,
		logger:        logger,
	}
}

// SubmitInquiryRequest is a contact form submission. No account is required.
type SubmitInquiryRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" required:"false" validate:"omitempty,max=32"`
	Message string `json:"message" validate:"required,max=10000"`
}

// Submit records a contact form submission and notifies the admin console.
func (s *InquiryService) Submit(ctx context.Context, req SubmitInquiryRequest) (*domain.Inquiry, error) {
	if err := requestValidator.Validate(req); err != nil {
		return nil, err
	}

	inquiryID, err := id.Generate("inq")
	if err != nil {
		return nil, fmt.Errorf("generate inquiry ID: %w", err)
	}

	inquiry := &domain.Inquiry{
		Syncable: domain.Syncable{
			ID: inquiryID,
		},
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
		Status:  domain.InquiryStatusNew,
	}
	inquiry.InitTimestamps()

	if err := s.store.CreateInquiry(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("create inquiry: %w", err)
	}

	s.notifications.Notify(ctx, domain.NotificationInquiry,
		"New inquiry", req.Name+": "+truncate(req.Message, 120), inquiryID)

	s.logger.Info("Inquiry submitted", "inquiry_id", inquiryID, "email", req.Email)
	return inquiry, nil
}

// List returns inquiries for the admin inbox. A non-empty search query
// narrows the page to submissions mentioning it.
func (s *InquiryService) List(ctx context.Context, params store.PaginationParams, search string) (*store.PaginatedResult[*domain.Inquiry], error) {
	params.Validate()
	result, err := s.store.ListInquiries(ctx, params, search)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	return result, nil
}

// Get retrieves one inquiry and marks it read.
func (s *InquiryService) Get(ctx context.Context, inquiryID string) (*domain.Inquiry, error) {
	inquiry, err := s.store.MarkInquiryRead(ctx, inquiryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("inquiry not found")
		}
		return nil, fmt.Errorf("get inquiry: %w", err)
	}
	return inquiry, nil
}

// Delete removes an inquiry. Deleting an unknown ID succeeds.
func (s *InquiryService) Delete(ctx context.Context, inquiryID string) error {
	if err := s.store.DeleteInquiry(ctx, inquiryID); err != nil {
		return fmt.Errorf("delete inquiry: %w", err)
	}
	return nil
}

// truncate shortens s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n] + "…"
}
