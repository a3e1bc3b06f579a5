package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/suncrest/suncrest-server/internal/domain"
)

var (
	// ErrUserNotFound is returned when a user cannot be found by ID or email.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when attempting to create a user with an existing ID.
	ErrUserExists = errors.New("user already exists")
	// ErrEmailExists is returned when attempting to create a user with an email that's already in use.
	ErrEmailExists = errors.New("email already in use")
	// ErrSessionNotFound is returned when an auth session cannot be found.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when attempting to redeem an expired refresh token.
	ErrSessionExpired = errors.New("session expired")
)

// CreateUser creates a new user account.
// Email uniqueness is enforced case-insensitively via the email index.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if _, err := s.Users.GetByIndex(ctx, "email", user.Email); err == nil {
		return ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("check email exists: %w", err)
	}

	if err := s.Users.Create(ctx, user.ID, user); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.Users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if user.IsDeleted() {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.Users.GetByIndex(ctx, "email", email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	if user.IsDeleted() {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// UpdateUser updates an existing user.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	user.Touch()

	if err := s.Users.Update(ctx, user.ID, user); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrUserNotFound
		}
		if errors.Is(err, ErrAlreadyExists) {
			// The only unique index on users is the email address.
			return ErrEmailExists
		}
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

// ListCustomersPage returns one page of non-deleted customer accounts
// matching the admin console's search box, in key order. The search query
// matches name, email and phone; empty matches everyone.
func (s *Store) ListCustomersPage(ctx context.Context, params PaginationParams, search string) (*PaginatedResult[*domain.User], error) {
	return s.Users.ListPaginatedFiltered(ctx, params, func(user *domain.User) bool {
		if user.IsDeleted() || user.IsAdmin() {
			return false
		}
		return matchesSearch(search, user.Name, user.Email, user.Phone)
	})
}
