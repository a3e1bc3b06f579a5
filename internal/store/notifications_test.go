package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suncrest/suncrest-server/internal/domain"
	"github.com/suncrest/suncrest-server/internal/store"
)

func newNotification(id string, typ domain.NotificationType) *domain.Notification {
	n := &domain.Notification{
		Type:  typ,
		Title: "New inquiry",
		Body:  "Someone asked about panels",
	}
	n.ID = id
	n.InitTimestamps()
	return n
}

func TestMarkNotificationRead(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.CreateNotification(ctx, newNotification("notif-1", domain.NotificationInquiry)))

	n, err := s.MarkNotificationRead(ctx, "notif-1")
	require.NoError(t, err)
	assert.True(t, n.Read)

	// Marking again is a no-op.
	n, err = s.MarkNotificationRead(ctx, "notif-1")
	require.NoError(t, err)
	assert.True(t, n.Read)

	_, err = s.MarkNotificationRead(ctx, "notif-missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		require.NoError(t, s.CreateNotification(ctx, newNotification(fmt.Sprintf("notif-%d", i), domain.NotificationSignup)))
	}
	_, err := s.MarkNotificationRead(ctx, "notif-2")
	require.NoError(t, err)

	updated, err := s.MarkAllNotificationsRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, updated)

	// All read now; a second pass touches nothing.
	updated, err = s.MarkAllNotificationsRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}

func TestDeleteNotifications(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, s.CreateNotification(ctx, newNotification(fmt.Sprintf("notif-%d", i), domain.NotificationInterest)))
	}

	// Includes an ID that doesn't exist; deletion stays idempotent.
	require.NoError(t, s.DeleteNotifications(ctx, []string{"notif-1", "notif-3", "notif-404"}))

	result, err := s.ListNotifications(ctx, store.PaginationParams{}, "")
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "notif-2", result.Items[0].ID)
}
