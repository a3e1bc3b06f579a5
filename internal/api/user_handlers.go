package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/suncrest/suncrest-server/internal/domain"
	domainerrors "github.com/suncrest/suncrest-server/internal/errors"
	"github.com/suncrest/suncrest-server/internal/service"
	"github.com/suncrest/suncrest-server/internal/store"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        "/api/admin/users",
		Summary:     "List customers",
		Description: "Returns all customer accounts for the admin console",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        "/api/admin/users/{id}",
		Summary:     "Get user",
		Description: "Returns one account by ID",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteUser",
		Method:      http.MethodDelete,
		Path:        "/api/admin/users/{id}",
		Summary:     "Delete user",
		Description: "Soft-deletes an account and revokes its sessions",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "listChatUsers",
		Method:      http.MethodGet,
		Path:        "/api/admin/chat-users",
		Summary:     "List chat users",
		Description: "Returns customers with at least one chat message, for the conversation sidebar",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListChatUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "listInterestedProducts",
		Method:      http.MethodGet,
		Path:        "/api/users/interested-products",
		Summary:     "List interested products",
		Description: "Returns the products the authenticated customer flagged, for the dashboard",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleInterestedProducts)

	huma.Register(s.api, huma.Operation{
		OperationID: "addInterest",
		Method:      http.MethodPost,
		Path:        "/api/users/interest/{productID}",
		Summary:     "Flag product interest",
		Description: "Records the authenticated customer's interest in a product. Idempotent.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddInterest)
}

// === DTOs ===

// ListUsersInput contains the admin console's user list parameters.
type ListUsersInput struct {
	Authorization string `header:"Authorization"`
	Limit         int    `query:"limit" default:"100" minimum:"1" maximum:"1000" doc:"Items per page"`
	Cursor        string `query:"cursor" doc:"Opaque cursor from a previous page"`
	Search        string `query:"search" doc:"Matches name, email and phone"`
}

// UserListResponse contains a list of accounts. The cursor fields are
// only set on paginated listings.
type UserListResponse struct {
	Users      []UserResponse `json:"users" doc:"Accounts"`
	NextCursor string         `json:"next_cursor,omitempty" doc:"Cursor for the next page"`
	HasMore    bool           `json:"has_more,omitempty" doc:"Whether more pages exist"`
}

// InterestedProductsInput carries only the Authorization header.
type InterestedProductsInput struct {
	Authorization string `header:"Authorization"`
}

// InterestedProductsOutput wraps the customer's flagged products.
type InterestedProductsOutput struct {
	Body struct {
		Products []ProductResponse `json:"products" doc:"Flagged products still in the catalog"`
	}
}

// UserListOutput wraps a user list for Huma.
type UserListOutput struct {
	Body UserListResponse
}

// UserIDInput identifies one account.
type UserIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID"`
}

// DeleteUserOutput confirms an account deletion.
type DeleteUserOutput struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}

// AddInterestInput identifies the product to flag.
type AddInterestInput struct {
	Authorization string `header:"Authorization"`
	ProductID     string `path:"productID" doc:"Product ID"`
}

// === Handlers ===

func (s *Server) handleListUsers(ctx context.Context, input *ListUsersInput) (*UserListOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(input.Authorization); err != nil {
		return nil, err
	}

	result, err := s.services.User.ListCustomers(ctx, store.PaginationParams{
		Limit:  input.Limit,
		Cursor: input.Cursor,
	}, input.Search)
	if err != nil {
		return nil, err
	}

	resp := UserListResponse{
		Users:      make([]UserResponse, len(result.Items)),
		NextCursor: result.NextCursor,
		HasMore:    result.HasMore,
	}
	for i, u := range result.Items {
		resp.Users[i] = userToResponse(u)
	}
	return &UserListOutput{Body: resp}, nil
}

func (s *Server) handleGetUser(ctx context.Context, input *UserIDInput) (*UserOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(input.Authorization); err != nil {
		return nil, err
	}

	user, err := s.services.User.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: userToResponse(user)}, nil
}

func (s *Server) handleDeleteUser(ctx context.Context, input *UserIDInput) (*DeleteUserOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.User.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	out := &DeleteUserOutput{}
	out.Body.Message = "User deleted"
	return out, nil
}

func (s *Server) handleListChatUsers(ctx context.Context, input *AdminActionInput) (*UserListOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(input.Authorization); err != nil {
		return nil, err
	}

	users, err := s.services.Chat.ListChatUsers(ctx)
	if err != nil {
		return nil, err
	}

	resp := UserListResponse{Users: make([]UserResponse, len(users))}
	for i, u := range users {
		resp.Users[i] = userToResponse(u)
	}
	return &UserListOutput{Body: resp}, nil
}

func (s *Server) handleInterestedProducts(ctx context.Context, input *InterestedProductsInput) (*InterestedProductsOutput, error) {
	claims, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	products, err := s.services.User.InterestedProducts(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	out := &InterestedProductsOutput{}
	out.Body.Products = make([]ProductResponse, len(products))
	for i, p := range products {
		out.Body.Products[i] = productToResponse(p)
	}
	return out, nil
}

// handleUpdateProfile decodes the multipart profile form and updates the
// authenticated user's own account. Raw chi handler because of the
// optional binary image part.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, err := s.authenticateRequest(r.Header.Get("Authorization"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	form, cleanup, err := s.parseMultipartForm(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer cleanup()

	req := &service.UpdateProfileRequest{
		Name:  firstValue(form, "name"),
		Phone: firstValue(form, "phone"),
	}

	addr := domain.Address{
		Street:     firstValue(form, "street"),
		City:       firstValue(form, "city"),
		State:      firstValue(form, "state"),
		Country:    firstValue(form, "country"),
		PostalCode: firstValue(form, "postalCode"),
		Landmark:   firstValue(form, "landmark"),
	}
	if addr != (domain.Address{}) {
		req.Address = &addr
	}

	if headers := form.File["image"]; len(headers) > 0 {
		data, err := readFileHeader(headers[0], s.uploads.MaxFileBytes)
		if err != nil {
			s.writeError(w, domainerrors.Validationf("image: %v", err))
			return
		}
		req.Image = data
	}

	user, err := s.services.User.UpdateProfile(r.Context(), claims.UserID, req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeEnvelope(w, http.StatusOK, userToResponse(user))
}

func (s *Server) handleAddInterest(ctx context.Context, input *AddInterestInput) (*UserOutput, error) {
	claims, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.AddInterest(ctx, claims.UserID, input.ProductID)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: userToResponse(user)}, nil
}
