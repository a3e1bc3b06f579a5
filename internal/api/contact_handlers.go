package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/suncrest/suncrest-server/internal/domain"
	"github.com/suncrest/suncrest-server/internal/service"
	"github.com/suncrest/suncrest-server/internal/store"
)

func (s *Server) registerContactRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "submitInquiry",
		Method:      http.MethodPost,
		Path:        "/api/contact",
		Summary:     "Submit inquiry",
		Description: "Records a contact form submission. No account required.",
		Tags:        []string{"Contact"},
	}, s.handleSubmitInquiry)

	huma.Register(s.api, huma.Operation{
		OperationID: "listInquiries",
		Method:      http.MethodGet,
		Path:        "/api/contact",
		Summary:     "List inquiries",
		Description: "Returns inquiries for the admin inbox, newest first",
		Tags:        []string{"Contact"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListInquiries)

	huma.Register(s.api, huma.Operation{
		OperationID: "getInquiry",
		Method:      http.MethodGet,
		Path:        "/api/contact/{id}",
		Summary:     "Get inquiry",
		Description: "Returns one inquiry and marks it read",
		Tags:        []string{"Contact"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetInquiry)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteInquiry",
		Method:      http.MethodDelete,
		Path:        "/api/contact/{id}",
		Summary:     "Delete inquiry",
		Description: "Removes an inquiry from the inbox",
		Tags:        []string{"Contact"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteInquiry)
}

// === DTOs ===

// InquiryResponse contains inquiry data in API responses.
type InquiryResponse struct {
	ID        string    `json:"id" doc:"Inquiry ID"`
	Name      string    `json:"name" doc:"Submitter name"`
	Email     string    `json:"email" doc:"Submitter email"`
	Phone     string    `json:"phone,omitempty" doc:"Submitter phone"`
	Message   string    `json:"message" doc:"Inquiry text"`
	Status    string    `json:"status" doc:"new or read"`
	CreatedAt time.Time `json:"created_at" doc:"Submission time"`
}

func inquiryToResponse(i *domain.Inquiry) InquiryResponse {
	return InquiryResponse{
		ID:        i.ID,
		Name:      i.Name,
		Email:     i.Email,
		Phone:     i.Phone,
		Message:   i.Message,
		Status:    string(i.Status),
		CreatedAt: i.CreatedAt,
	}
}

// SubmitInquiryInput wraps the contact form for Huma.
type SubmitInquiryInput struct {
	Body service.SubmitInquiryRequest
}

// InquiryOutput wraps a single inquiry for Huma.
type InquiryOutput struct {
	Body InquiryResponse
}

// ListInquiriesInput contains inbox paging and search parameters.
type ListInquiriesInput struct {
	Authorization string `header:"Authorization"`
	Limit         int    `query:"limit" default:"100" minimum:"1" maximum:"1000" doc:"Items per page"`
	Cursor        string `query:"cursor" doc:"Opaque cursor from a previous page"`
	Search        string `query:"search" doc:"Matches name, email, phone and message"`
}

// InquiryListResponse is one page of the admin inbox.
type InquiryListResponse struct {
	Inquiries  []InquiryResponse `json:"inquiries" doc:"Inquiries on this page"`
	NextCursor string            `json:"next_cursor,omitempty" doc:"Cursor for the next page"`
	HasMore    bool              `json:"has_more" doc:"Whether more pages exist"`
}

// InquiryListOutput wraps an inquiry page for Huma.
type InquiryListOutput struct {
	Body InquiryListResponse
}

// InquiryIDInput identifies one inquiry.
type InquiryIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Inquiry ID"`
}

// DeleteInquiryOutput confirms an inquiry deletion.
type DeleteInquiryOutput struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}

// === Handlers ===

func (s *Server) handleSubmitInquiry(ctx context.Context, input *SubmitInquiryInput) (*InquiryOutput, error) {
	inquiry, err := s.services.Inquiry.Submit(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &InquiryOutput{Body: inquiryToResponse(inquiry)}, nil
}

func (s *Server) handleListInquiries(ctx context.Context, input *ListInquiriesInput) (*InquiryListOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(input.Authorization); err != nil {
		return nil, err
	}

	result, err := s.services.Inquiry.List(ctx, store.PaginationParams{
		Limit:  input.Limit,
		Cursor: input.Cursor,
	}, input.Search)
	if err != nil {
		return nil, err
	}

	resp := InquiryListResponse{
		Inquiries:  make([]InquiryResponse, len(result.Items)),
		NextCursor: result.NextCursor,
		HasMore:    result.HasMore,
	}
	for i, inquiry := range result.Items {
		resp.Inquiries[i] = inquiryToResponse(inquiry)
	}
	return &InquiryListOutput{Body: resp}, nil
}

func (s *Server) handleGetInquiry(ctx context.Context, input *InquiryIDInput) (*InquiryOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(input.Authorization); err != nil {
		return nil, err
	}

	inquiry, err := s.services.Inquiry.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &InquiryOutput{Body: inquiryToResponse(inquiry)}, nil
}

func (s *Server) handleDeleteInquiry(ctx context.Context, input *InquiryIDInput) (*DeleteInquiryOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Inquiry.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	out := &DeleteInquiryOutput{}
	out.Body.Message = "Inquiry deleted"
	return out, nil
}
