package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/suncrest/suncrest-server/internal/domain"
	"github.com/suncrest/suncrest-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "signup",
		Method:      http.MethodPost,
		Path:        "/api/auth/signup",
		Summary:     "Customer signup",
		Description: "Creates a customer account and returns access and refresh tokens",
		Tags:        []string{"Authentication"},
	}, s.handleSignup)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/auth/login",
		Summary:     "User login",
		Description: "Authenticates a user and returns access and refresh tokens",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "refresh",
		Method:      http.MethodPost,
		Path:        "/api/auth/refresh",
		Summary:     "Refresh tokens",
		Description: "Exchanges a refresh token for new tokens. The old token stops working.",
		Tags:        []string{"Authentication"},
	}, s.handleRefresh)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/auth/logout",
		Summary:     "Logout",
		Description: "Revokes the session holding the given refresh token",
		Tags:        []string{"Authentication"},
	}, s.handleLogout)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMe",
		Method:      http.MethodGet,
		Path:        "/api/auth/me",
		Summary:     "Current user",
		Description: "Returns the authenticated user's account",
		Tags:        []string{"Authentication"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMe)
}

// === DTOs ===

// UserResponse contains account data in API responses. The password hash
// never appears here.
type UserResponse struct {
	ID          string          `json:"id" doc:"User ID"`
	Email       string          `json:"email" doc:"Email address"`
	Name        string          `json:"name" doc:"Display name"`
	Phone       string          `json:"phone,omitempty" doc:"Phone number"`
	Image       string          `json:"image,omitempty" doc:"Served path of the profile picture"`
	Address     *domain.Address `json:"address,omitempty" doc:"Delivery address"`
	Role        string          `json:"role" doc:"Account role: admin or customer"`
	Interests   []string        `json:"interests,omitempty" doc:"Product IDs the customer flagged"`
	LastLoginAt time.Time       `json:"last_login_at,omitzero" doc:"Last login time"`
	CreatedAt   time.Time       `json:"created_at" doc:"Account creation time"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Phone:       u.Phone,
		Image:       u.Image,
		Address:     u.Address,
		Role:        string(u.Role),
		Interests:   u.Interests,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// AuthResponse contains tokens and the account they belong to.
type AuthResponse struct {
	User         UserResponse `json:"user" doc:"Authenticated account"`
	AccessToken  string       `json:"access_token" doc:"Short-lived PASETO access token"`
	RefreshToken string       `json:"refresh_token" doc:"Opaque refresh token, rotated on use"`
	ExpiresIn    int64        `json:"expires_in" doc:"Access token lifetime in seconds"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

func authToResponse(resp *service.AuthResponse) AuthResponse {
	return AuthResponse{
		User:         userToResponse(resp.User),
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}
}

// SignupInput wraps the signup request for Huma.
type SignupInput struct {
	Body service.SignupRequest
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body service.LoginRequest
}

// RefreshInput wraps the refresh request for Huma.
type RefreshInput struct {
	Body service.RefreshRequest
}

// LogoutInput wraps the logout request for Huma.
type LogoutInput struct {
	Body struct {
		RefreshToken string `json:"refresh_token" doc:"Refresh token of the session to revoke"`
	}
}

// LogoutOutput wraps the logout response for Huma.
type LogoutOutput struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}

// GetMeInput contains parameters for the current-user endpoint.
type GetMeInput struct {
	Authorization string `header:"Authorization"`
}

// UserOutput wraps a single user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// === Handlers ===

func (s *Server) handleSignup(ctx context.Context, input *SignupInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Signup(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Body: authToResponse(resp)}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	// Rate limit by submitted email so one target can't be brute forced
	// from many addresses.
	if !s.authRateLimiter.Allow(strings.ToLower(input.Body.Email)) {
		return nil, huma.Error429TooManyRequests("Too many login attempts. Please try again later.")
	}

	resp, err := s.services.Auth.Login(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Body: authToResponse(resp)}, nil
}

func (s *Server) handleRefresh(ctx context.Context, input *RefreshInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.RefreshTokens(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Body: authToResponse(resp)}, nil
}

func (s *Server) handleLogout(ctx context.Context, input *LogoutInput) (*LogoutOutput, error) {
	if err := s.services.Auth.Logout(ctx, input.Body.RefreshToken); err != nil {
		return nil, err
	}
	out := &LogoutOutput{}
	out.Body.Message = "Logged out"
	return out, nil
}

func (s *Server) handleGetMe(ctx context.Context, input *GetMeInput) (*UserOutput, error) {
	claims, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Auth.GetMe(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: userToResponse(user)}, nil
}
