package api

import (
	"context"
	"encoding/hex"
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suncrest/suncrest-server/internal/auth"
	"github.com/suncrest/suncrest-server/internal/config"
	"github.com/suncrest/suncrest-server/internal/domain"
	"github.com/suncrest/suncrest-server/internal/media/images"
	"github.com/suncrest/suncrest-server/internal/service"
	"github.com/suncrest/suncrest-server/internal/sse"
	"github.com/suncrest/suncrest-server/internal/store"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	Version int  `json:"v"`
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// testServer wraps the API server with test-only accessors.
type testServer struct {
	*Server
	api        humatest.TestAPI
	store      *store.Store
	tokens     *auth.TokenService
	sseManager *sse.Manager
}

// setupTestServer creates a fully wired server against a throwaway Badger
// database. Search is disabled; product listing falls back to in-memory
// filtering.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()

	st, err := store.New(filepath.Join(tmpDir, "data.db"), nil, store.NewNoopEmitter())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(hex.EncodeToString(authKey), 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	processor, err := images.NewProcessor(filepath.Join(tmpDir, "uploads"), logger)
	require.NoError(t, err)

	sseManager := sse.NewManager(logger)
	sseHandler := sse.NewHandler(sseManager, logger)

	notifications := service.NewNotificationService(st, sseManager, logger)
	services := &Services{
		SiteConfig:   service.NewSiteConfigService(st, processor, sseManager, logger),
		Auth:         service.NewAuthService(st, tokens, notifications, logger),
		Product:      service.NewProductService(st, processor, nil, logger),
		User:         service.NewUserService(st, processor, notifications, logger),
		Inquiry:      service.NewInquiryService(st, notifications, logger),
		Notification: notifications,
		Chat:         service.NewChatService(st, sseManager, notifications, logger),
	}

	uploads := config.UploadsConfig{
		MaxFileBytes: 10 << 20,
		MaxFormBytes: 64 << 20,
	}

	s := NewServer(st, services, processor, sseHandler, uploads, logger)

	return &testServer{
		Server:     s,
		api:        humatest.Wrap(t, s.api),
		store:      st,
		tokens:     tokens,
		sseManager: sseManager,
	}
}

// createCustomer signs up a customer through the API and returns the access
// token and user ID.
func (ts *testServer) createCustomer(t *testing.T, email string) (token string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/auth/signup", map[string]any{
		"email":    email,
		"password": "correct-horse-battery",
		"name":     "Test Customer",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Signup failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)

	return envelope.Data.AccessToken, envelope.Data.User.ID
}

// createAdmin seeds an admin account directly and mints an access token.
func (ts *testServer) createAdmin(t *testing.T, email string) (token string, userID string) {
	t.Helper()

	hash, err := auth.HashPassword("admin-password")
	require.NoError(t, err)

	admin := &domain.User{
		Syncable:     domain.Syncable{ID: "user_admin_" + email},
		Email:        email,
		PasswordHash: hash,
		Name:         "Test Admin",
		Role:         domain.RoleAdmin,
	}
	admin.InitTimestamps()
	require.NoError(t, ts.store.CreateUser(context.Background(), admin))

	tokenString, err := ts.tokens.GenerateAccessToken(admin)
	require.NoError(t, err)

	return tokenString, admin.ID
}

func authHeader(token string) string {
	return "Authorization: Bearer " + token
}

func TestHealthEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[HealthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "healthy", envelope.Data.Status)
}

func TestProtectedEndpointRequiresToken(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/auth/me")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var envelope testEnvelope[any]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
}

func TestAdminEndpointRejectsCustomer(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createCustomer(t, "customer@example.com")

	resp := ts.api.Get("/api/admin/users", authHeader(token))
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestAdminEndpointAcceptsAdmin(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createAdmin(t, "admin@example.com")

	resp := ts.api.Get("/api/admin/users", authHeader(token))
	assert.Equal(t, http.StatusOK, resp.Code)
}
