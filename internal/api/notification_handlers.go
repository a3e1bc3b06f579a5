package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/suncrest/suncrest-server/internal/domain"
	"github.com/suncrest/suncrest-server/internal/store"
)

func (s *Server) registerNotificationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listNotifications",
		Method:      http.MethodGet,
		Path:        "/api/notifications",
		Summary:     "List notifications",
		Description: "Returns admin notifications, newest first",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListNotifications)

	huma.Register(s.api, huma.Operation{
		OperationID: "markNotificationRead",
		Method:      http.MethodPut,
		Path:        "/api/notifications/{id}/read",
		Summary:     "Mark notification read",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMarkNotificationRead)

	huma.Register(s.api, huma.Operation{
		OperationID: "markAllNotificationsRead",
		Method:      http.MethodPut,
		Path:        "/api/notifications/read-all",
		Summary:     "Mark all notifications read",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMarkAllNotificationsRead)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteNotification",
		Method:      http.MethodDelete,
		Path:        "/api/notifications/{id}",
		Summary:     "Delete notification",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteNotification)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteNotifications",
		Method:      http.MethodPost,
		Path:        "/api/notifications/delete-multiple",
		Summary:     "Delete multiple notifications",
		Description: "Removes the given notifications. Unknown IDs are ignored.",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteNotifications)
}

// === DTOs ===

// NotificationResponse contains notification data in API responses.
type NotificationResponse struct {
	ID        string    `json:"id" doc:"Notification ID"`
	Type      string    `json:"type" doc:"inquiry, signup, interest or chat"`
	Title     string    `json:"title" doc:"Short headline"`
	Body      string    `json:"body,omitempty" doc:"Detail line"`
	RefID     string    `json:"ref_id,omitempty" doc:"ID of the entity that raised it"`
	Read      bool      `json:"read" doc:"Whether an admin has seen it"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

func notificationToResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Body:      n.Body,
		RefID:     n.RefID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// ListNotificationsInput contains notification paging and search parameters.
type ListNotificationsInput struct {
	Authorization string `header:"Authorization"`
	Limit         int    `query:"limit" default:"100" minimum:"1" maximum:"1000" doc:"Items per page"`
	Cursor        string `query:"cursor" doc:"Opaque cursor from a previous page"`
	Search        string `query:"search" doc:"Matches title, body and type"`
}

// NotificationListResponse is one page of notifications.
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications" doc:"Notifications on this page"`
	NextCursor    string                 `json:"next_cursor,omitempty" doc:"Cursor for the next page"`
	HasMore       bool                   `json:"has_more" doc:"Whether more pages exist"`
}

// NotificationListOutput wraps a notification page for Huma.
type NotificationListOutput struct {
	Body NotificationListResponse
}

// NotificationIDInput identifies one notification.
type NotificationIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Notification ID"`
}

// NotificationOutput wraps a single notification for Huma.
type NotificationOutput struct {
	Body NotificationResponse
}

// ReadAllOutput reports how many notifications were marked read.
type ReadAllOutput struct {
	Body struct {
		Updated int `json:"updated" doc:"Number of notifications marked read"`
	}
}

// DeleteNotificationsInput lists the notifications to remove.
type DeleteNotificationsInput struct {
	Authorization string `header:"Authorization"`
	Body          struct {
		IDs []string `json:"ids" doc:"Notification IDs to delete"`
	}
}

// DeleteNotificationsOutput confirms a batch deletion.
type DeleteNotificationsOutput struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}

// === Handlers ===

func (s *Server) handleListNotifications(ctx context.Context, input *ListNotificationsInput) (*NotificationListOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(input.Authorization); err != nil {
		return nil, err
	}

	result, err := s.services.Notification.List(ctx, store.PaginationParams{
		Limit:  input.Limit,
		Cursor: input.Cursor,
	}, input.Search)
	if err != nil {
		return nil, err
	}

	resp := NotificationListResponse{
		Notifications: make([]NotificationResponse, len(result.Items)),
		NextCursor:    result.NextCursor,
		HasMore:       result.HasMore,
	}
	for i, n := range result.Items {
		resp.Notifications[i] = notificationToResponse(n)
	}
	return &NotificationListOutput{Body: resp}, nil
}

func (s *Server) handleMarkNotificationRead(ctx context.Context, input *NotificationIDInput) (*NotificationOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(input.Authorization); err != nil {
		return nil, err
	}

	n, err := s.services.Notification.MarkRead(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &NotificationOutput{Body: notificationToResponse(n)}, nil
}

func (s *Server) handleMarkAllNotificationsRead(ctx context.Context, input *AdminActionInput) (*ReadAllOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(input.Authorization); err != nil {
		return nil, err
	}

	count, err := s.services.Notification.MarkAllRead(ctx)
	if err != nil {
		return nil, err
	}

	out := &ReadAllOutput{}
	out.Body.Updated = count
	return out, nil
}

func (s *Server) handleDeleteNotification(ctx context.Context, input *NotificationIDInput) (*DeleteNotificationsOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Notification.Delete(ctx, []string{input.ID}); err != nil {
		return nil, err
	}

	out := &DeleteNotificationsOutput{}
	out.Body.Message = "Notification deleted"
	return out, nil
}

func (s *Server) handleDeleteNotifications(ctx context.Context, input *DeleteNotificationsInput) (*DeleteNotificationsOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Notification.Delete(ctx, input.Body.IDs); err != nil {
		return nil, err
	}

	out := &DeleteNotificationsOutput{}
	out.Body.Message = "Notifications deleted"
	return out, nil
}
