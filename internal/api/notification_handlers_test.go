package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listNotifications(t *testing.T, ts *testServer, token string) NotificationListResponse {
	t.Helper()

	resp := ts.api.Get("/api/notifications", authHeader(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[NotificationListResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestNotifications_RaisedBySignupAndInquiry(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.createAdmin(t, "admin@example.com")

	ts.createCustomer(t, "newuser@example.com")
	submitInquiry(t, ts, "buyer@example.com")

	list := listNotifications(t, ts, adminToken)
	require.Len(t, list.Notifications, 2)

	types := map[string]bool{}
	for _, n := range list.Notifications {
		types[n.Type] = true
		assert.False(t, n.Read)
	}
	assert.True(t, types["signup"])
	assert.True(t, types["inquiry"])
}

func TestMarkNotificationRead(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.createAdmin(t, "admin@example.com")
	submitInquiry(t, ts, "buyer@example.com")

	list := listNotifications(t, ts, adminToken)
	require.Len(t, list.Notifications, 1)

	resp := ts.api.Put("/api/notifications/"+list.Notifications[0].ID+"/read", authHeader(adminToken))
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[NotificationResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Read)
}

func TestMarkNotificationRead_Unknown(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.createAdmin(t, "admin@example.com")

	resp := ts.api.Put("/api/notifications/notif_missing/read", authHeader(adminToken))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.createAdmin(t, "admin@example.com")
	submitInquiry(t, ts, "a@example.com")
	submitInquiry(t, ts, "b@example.com")

	resp := ts.api.Put("/api/notifications/read-all", authHeader(adminToken))
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[struct {
		Updated int `json:"updated"`
	}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, 2, envelope.Data.Updated)

	for _, n := range listNotifications(t, ts, adminToken).Notifications {
		assert.True(t, n.Read)
	}
}

func TestDeleteNotifications_Batch(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.createAdmin(t, "admin@example.com")
	submitInquiry(t, ts, "a@example.com")
	submitInquiry(t, ts, "b@example.com")

	list := listNotifications(t, ts, adminToken)
	require.Len(t, list.Notifications, 2)

	ids := []string{list.Notifications[0].ID, list.Notifications[1].ID}
	resp := ts.api.Post("/api/notifications/delete-multiple", authHeader(adminToken), map[string]any{
		"ids": ids,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	assert.Empty(t, listNotifications(t, ts, adminToken).Notifications)
}

func TestNotifications_AdminOnly(t *testing.T) {
	ts := setupTestServer(t)
	customerToken, _ := ts.createCustomer(t, "customer@example.com")

	resp := ts.api.Get("/api/notifications", authHeader(customerToken))
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestListNotifications_Search(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.createAdmin(t, "admin@example.com")

	ts.createCustomer(t, "newuser@example.com")
	submitInquiry(t, ts, "buyer@example.com")

	resp := ts.api.Get("/api/notifications?search=inquiry", authHeader(adminToken))
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[NotificationListResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Notifications, 1)
	assert.Equal(t, "inquiry", envelope.Data.Notifications[0].Type)

	resp = ts.api.Get("/api/notifications?search=nothing-here", authHeader(adminToken))
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Empty(t, envelope.Data.Notifications)
}
