package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/suncrest/suncrest-server/internal/domain"
)

// CreateAuthSession records a refresh token grant.
func (s *Store) CreateAuthSession(ctx context.Context, session *domain.AuthSession) error {
	if err := s.Sessions.Create(ctx, session.ID, session); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return fmt.Errorf("session %s: %w", session.ID, ErrAlreadyExists)
		}
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetAuthSession retrieves a session by ID.
// Expired sessions are reported as ErrSessionExpired, not returned.
func (s *Store) GetAuthSession(ctx context.Context, id string) (*domain.AuthSession, error) {
	session, err := s.Sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.IsExpired(time.Now()) {
		return nil, ErrSessionExpired
	}

	return session, nil
}

// GetAuthSessionByTokenHash retrieves a session by its refresh token hash.
// This is the lookup used during token refresh and logout.
func (s *Store) GetAuthSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.AuthSession, error) {
	session, err := s.Sessions.GetByIndex(ctx, "token", tokenHash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("lookup session by token: %w", err)
	}

	if session.IsExpired(time.Now()) {
		return nil, ErrSessionExpired
	}

	return session, nil
}

// UpdateAuthSession updates an existing session (token rotation, last used).
func (s *Store) UpdateAuthSession(ctx context.Context, session *domain.AuthSession) error {
	if err := s.Sessions.Update(ctx, session.ID, session); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// DeleteAuthSession deletes a session (logout). Idempotent.
func (s *Store) DeleteAuthSession(ctx context.Context, sessionID string) error {
	return s.Sessions.Delete(ctx, sessionID)
}

// DeleteUserAuthSessions removes all sessions for a user.
// Used when an account is deleted to force re-authentication everywhere.
func (s *Store) DeleteUserAuthSessions(ctx context.Context, userID string) error {
	var ids []string
	for session, err := range s.Sessions.List(ctx) {
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if session.UserID == userID {
			ids = append(ids, session.ID)
		}
	}

	for _, id := range ids {
		if err := s.Sessions.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete session %s: %w", id, err)
		}
	}

	return nil
}

// DeleteExpiredAuthSessions removes all expired sessions (startup cleanup).
func (s *Store) DeleteExpiredAuthSessions(ctx context.Context) (int, error) {
	now := time.Now()
	var expired []string

	for session, err := range s.Sessions.List(ctx) {
		if err != nil {
			return 0, fmt.Errorf("list sessions: %w", err)
		}
		if session.IsExpired(now) {
			expired = append(expired, session.ID)
		}
	}

	for _, id := range expired {
		if err := s.Sessions.Delete(ctx, id); err != nil {
			s.logger.Warn("failed to delete expired session", "session_id", id, "error", err)
		}
	}

	return len(expired), nil
}
