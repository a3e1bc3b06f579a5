package store

import (
	"context"
	"fmt"

	"github.com/suncrest/suncrest-server/internal/domain"
)

// Notification operations. Notifications are the admin-facing activity
// feed; the notification service pushes them out over SSE after storing.

// CreateNotification stores a notification.
func (s *Store) CreateNotification(ctx context.Context, n *domain.Notification) error {
	if err := s.Notifications.Create(ctx, n.ID, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ListNotifications returns one page of notifications in key order. A
// non-empty search query narrows the page to notifications whose title,
// body or type contains it.
func (s *Store) ListNotifications(ctx context.Context, params PaginationParams, search string) (*PaginatedResult[*domain.Notification], error) {
	if search == "" {
		return s.Notifications.ListPaginated(ctx, params)
	}
	return s.Notifications.ListPaginatedFiltered(ctx, params, func(n *domain.Notification) bool {
		return matchesSearch(search, n.Title, n.Body, string(n.Type))
	})
}

// MarkNotificationRead marks a single notification as read.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) (*domain.Notification, error) {
	n, err := s.Notifications.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Read {
		return n, nil
	}

	n.Read = true
	n.Touch()
	if err := s.Notifications.Update(ctx, id, n); err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	return n, nil
}

// MarkAllNotificationsRead marks every unread notification as read and
// returns how many were updated.
func (s *Store) MarkAllNotificationsRead(ctx context.Context) (int, error) {
	var updated int
	for n, err := range s.Notifications.List(ctx) {
		if err != nil {
			return updated, fmt.Errorf("mark all notifications read: %w", err)
		}
		if n.Read {
			continue
		}
		n.Read = true
		n.Touch()
		if err := s.Notifications.Update(ctx, n.ID, n); err != nil {
			return updated, fmt.Errorf("mark notification %s read: %w", n.ID, err)
		}
		updated++
	}
	return updated, nil
}

// DeleteNotifications deletes the given notifications. Missing IDs are
// ignored; deletion is idempotent.
func (s *Store) DeleteNotifications(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := s.Notifications.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete notification %s: %w", id, err)
		}
	}
	return nil
}
