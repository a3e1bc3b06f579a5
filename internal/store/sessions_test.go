package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suncrest/suncrest-server/internal/domain"
	"github.com/suncrest/suncrest-server/internal/store"
)

func newTestAuthSession(id, userID, tokenHash string, expiresAt time.Time) *domain.AuthSession {
	now := time.Now()
	return &domain.AuthSession{
		ID:               id,
		UserID:           userID,
		RefreshTokenHash: tokenHash,
		ExpiresAt:        expiresAt,
		CreatedAt:        now,
		LastUsedAt:       now,
	}
}

func TestCreateAuthSession(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	session := newTestAuthSession("sess_1", "user_1", "hash_abc", time.Now().Add(24*time.Hour))
	require.NoError(t, st.CreateAuthSession(ctx, session))

	retrieved, err := st.GetAuthSession(ctx, "sess_1")
	require.NoError(t, err)
	assert.Equal(t, "user_1", retrieved.UserID)
	assert.Equal(t, "hash_abc", retrieved.RefreshTokenHash)
}

func TestGetAuthSession_NotFound(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := st.GetAuthSession(context.Background(), "sess_missing")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestGetAuthSession_Expired(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	session := newTestAuthSession("sess_old", "user_1", "hash_old", time.Now().Add(-time.Hour))
	require.NoError(t, st.CreateAuthSession(ctx, session))

	_, err := st.GetAuthSession(ctx, "sess_old")
	assert.ErrorIs(t, err, store.ErrSessionExpired)
}

func TestGetAuthSessionByTokenHash(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	session := newTestAuthSession("sess_tok", "user_1", "hash_lookup", time.Now().Add(24*time.Hour))
	require.NoError(t, st.CreateAuthSession(ctx, session))

	retrieved, err := st.GetAuthSessionByTokenHash(ctx, "hash_lookup")
	require.NoError(t, err)
	assert.Equal(t, "sess_tok", retrieved.ID)

	_, err = st.GetAuthSessionByTokenHash(ctx, "hash_unknown")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestGetAuthSessionByTokenHash_Expired(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	session := newTestAuthSession("sess_tok_exp", "user_1", "hash_expired", time.Now().Add(-time.Minute))
	require.NoError(t, st.CreateAuthSession(ctx, session))

	_, err := st.GetAuthSessionByTokenHash(ctx, "hash_expired")
	assert.ErrorIs(t, err, store.ErrSessionExpired)
}

func TestUpdateAuthSession_TokenRotation(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	session := newTestAuthSession("sess_rot", "user_1", "hash_before", time.Now().Add(24*time.Hour))
	require.NoError(t, st.CreateAuthSession(ctx, session))

	session.RefreshTokenHash = "hash_after"
	session.LastUsedAt = time.Now()
	require.NoError(t, st.UpdateAuthSession(ctx, session))

	// The old token hash must stop resolving once rotated.
	_, err := st.GetAuthSessionByTokenHash(ctx, "hash_before")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)

	rotated, err := st.GetAuthSessionByTokenHash(ctx, "hash_after")
	require.NoError(t, err)
	assert.Equal(t, "sess_rot", rotated.ID)
}

func TestDeleteAuthSession(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	session := newTestAuthSession("sess_del", "user_1", "hash_del", time.Now().Add(24*time.Hour))
	require.NoError(t, st.CreateAuthSession(ctx, session))

	require.NoError(t, st.DeleteAuthSession(ctx, "sess_del"))

	_, err := st.GetAuthSession(ctx, "sess_del")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, st.DeleteAuthSession(ctx, "sess_del"))
}

func TestDeleteUserAuthSessions(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	expiry := time.Now().Add(24 * time.Hour)
	require.NoError(t, st.CreateAuthSession(ctx, newTestAuthSession("sess_u1_a", "user_1", "h1", expiry)))
	require.NoError(t, st.CreateAuthSession(ctx, newTestAuthSession("sess_u1_b", "user_1", "h2", expiry)))
	require.NoError(t, st.CreateAuthSession(ctx, newTestAuthSession("sess_u2_a", "user_2", "h3", expiry)))

	require.NoError(t, st.DeleteUserAuthSessions(ctx, "user_1"))

	_, err := st.GetAuthSession(ctx, "sess_u1_a")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
	_, err = st.GetAuthSession(ctx, "sess_u1_b")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)

	// Other users keep their sessions.
	remaining, err := st.GetAuthSession(ctx, "sess_u2_a")
	require.NoError(t, err)
	assert.Equal(t, "user_2", remaining.UserID)
}

func TestDeleteExpiredAuthSessions(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, st.CreateAuthSession(ctx, newTestAuthSession("sess_live", "user_1", "h_live", time.Now().Add(time.Hour))))
	require.NoError(t, st.CreateAuthSession(ctx, newTestAuthSession("sess_dead", "user_1", "h_dead", time.Now().Add(-time.Hour))))

	count, err := st.DeleteExpiredAuthSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = st.GetAuthSession(ctx, "sess_live")
	require.NoError(t, err)
}
