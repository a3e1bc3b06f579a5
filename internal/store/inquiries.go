package store

import (
	"context"
	"fmt"

	"github.com/suncrest/suncrest-server/internal/domain"
)

// Inquiry operations. Inquiries are contact-form submissions reviewed in
// the admin console.

// CreateInquiry stores a contact-form submission.
func (s *Store) CreateInquiry(ctx context.Context, inquiry *domain.Inquiry) error {
	if err := s.Inquiries.Create(ctx, inquiry.ID, inquiry); err != nil {
		return fmt.Errorf("create inquiry: %w", err)
	}
	return nil
}

// GetInquiry retrieves a single inquiry by ID.
func (s *Store) GetInquiry(ctx context.Context, id string) (*domain.Inquiry, error) {
	return s.Inquiries.Get(ctx, id)
}

// ListInquiries returns one page of inquiries in key order. A non-empty
// search query narrows the page to inquiries whose name, email, phone or
// message contains it.
func (s *Store) ListInquiries(ctx context.Context, params PaginationParams, search string) (*PaginatedResult[*domain.Inquiry], error) {
	if search == "" {
		return s.Inquiries.ListPaginated(ctx, params)
	}
	return s.Inquiries.ListPaginatedFiltered(ctx, params, func(inquiry *domain.Inquiry) bool {
		return matchesSearch(search, inquiry.Name, inquiry.Email, inquiry.Phone, inquiry.Message)
	})
}

// MarkInquiryRead marks an inquiry as reviewed. No-op when already read.
func (s *Store) MarkInquiryRead(ctx context.Context, id string) (*domain.Inquiry, error) {
	inquiry, err := s.Inquiries.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inquiry.Status == domain.InquiryStatusRead {
		return inquiry, nil
	}

	inquiry.Status = domain.InquiryStatusRead
	inquiry.Touch()
	if err := s.Inquiries.Update(ctx, id, inquiry); err != nil {
		return nil, fmt.Errorf("mark inquiry read: %w", err)
	}
	return inquiry, nil
}

// DeleteInquiry removes an inquiry. Idempotent.
func (s *Store) DeleteInquiry(ctx context.Context, id string) error {
	return s.Inquiries.Delete(ctx, id)
}
