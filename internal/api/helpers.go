package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/suncrest/suncrest-server/internal/auth"
	domainerrors "github.com/suncrest/suncrest-server/internal/errors"
)

// authenticateRequest validates the Authorization header and returns the
// token claims. The claims carry email and role, so authorization checks
// need no store lookup.
func (s *Server) authenticateRequest(authHeader string) (*auth.AccessClaims, error) {
	token, err := bearerToken(authHeader)
	if err != nil {
		return nil, err
	}
	return s.services.Auth.VerifyAccessToken(token)
}

// authenticateAndRequireAdmin validates the token and requires admin role.
func (s *Server) authenticateAndRequireAdmin(authHeader string) (*auth.AccessClaims, error) {
	claims, err := s.authenticateRequest(authHeader)
	if err != nil {
		return nil, err
	}
	if !claims.IsAdmin() {
		return nil, domainerrors.Forbidden("Admin access required")
	}
	return claims, nil
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", huma.Error401Unauthorized("Missing authorization header")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", huma.Error401Unauthorized("Invalid authorization header format")
	}
	return parts[1], nil
}
