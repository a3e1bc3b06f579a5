package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/suncrest/suncrest-server/internal/domain"
	domainerrors "github.com/suncrest/suncrest-server/internal/errors"
	"github.com/suncrest/suncrest-server/internal/id"
	"github.com/suncrest/suncrest-server/internal/sse"
	"github.com/suncrest/suncrest-server/internal/store"
)

// NotificationService manages the admin console notification feed.
type NotificationService struct {
	store  *store.Store
	events store.EventEmitter
	logger *slog.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(st *store.Store, events store.EventEmitter, logger *slog.Logger) *NotificationService {
	if events == nil {
		events = store.NoopEmitter{}
	}
	return &NotificationService{
		store:  st,
		events: events,
		logger: logger,
	}
}

// Notify records a notification and pushes it to connected admins. Failures
// are logged and swallowed: a notification must never fail the operation
// that raised it.
func (s *NotificationService) Notify(ctx context.Context, typ domain.NotificationType, title, body, refID string) {
	n := &domain.Notification{
		Syncable: domain.Syncable{
			ID: id.MustGenerate("notif"),
		},
		Type:  typ,
		Title: title,
		Body:  body,
		RefID: refID,
	}
	n.InitTimestamps()

	if err := s.store.CreateNotification(ctx, n); err != nil {
		s.logger.Warn("Failed to record notification",
			"type", typ,
			"error", err,
		)
		return
	}

	s.events.Emit(sse.NewNotificationCreatedEvent(n))
}

// List returns notifications. A non-empty search query narrows the page
// to notifications mentioning it.
func (s *NotificationService) List(ctx context.Context, params store.PaginationParams, search string) (*store.PaginatedResult[*domain.Notification], error) {
	params.Validate()
	result, err := s.store.ListNotifications(ctx, params, search)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return result, nil
}

// MarkRead marks a single notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID string) (*domain.Notification, error) {
	n, err := s.store.MarkNotificationRead(ctx, notificationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("notification not found")
		}
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	return n, nil
}

// MarkAllRead marks every unread notification as read and returns the count.
func (s *NotificationService) MarkAllRead(ctx context.Context) (int, error) {
	count, err := s.store.MarkAllNotificationsRead(ctx)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return count, nil
}

// Delete removes the given notifications. Unknown IDs are ignored so the
// operation is safe to retry.
func (s *NotificationService) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return domainerrors.Validation("ids is required")
	}
	if err := s.store.DeleteNotifications(ctx, ids); err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}
	return nil
}
