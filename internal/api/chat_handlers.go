package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/suncrest/suncrest-server/internal/domain"
	domainerrors "github.com/suncrest/suncrest-server/internal/errors"
	"github.com/suncrest/suncrest-server/internal/service"
)

func (s *Server) registerChatRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getChatHistory",
		Method:      http.MethodGet,
		Path:        "/api/chat/messages",
		Summary:     "Get own chat history",
		Description: "Returns the caller's conversation with support, oldest first",
		Tags:        []string{"Chat"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleChatHistory)

	huma.Register(s.api, huma.Operation{
		OperationID: "getChatConversation",
		Method:      http.MethodGet,
		Path:        "/api/chat/messages/{userID}",
		Summary:     "Get a customer's conversation",
		Description: "Admin only. Returns the conversation with the given customer.",
		Tags:        []string{"Chat"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleChatConversation)

	huma.Register(s.api, huma.Operation{
		OperationID: "sendChatMessage",
		Method:      http.MethodPost,
		Path:        "/api/chat/messages",
		Summary:     "Send a chat message",
		Tags:        []string{"Chat"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSendChatMessage)
}

// === DTOs ===

// ChatMessageResponse contains one chat message in API responses.
type ChatMessageResponse struct {
	ID             string    `json:"id" doc:"Message ID"`
	ConversationID string    `json:"conversation_id" doc:"Conversation this message belongs to"`
	Sender         string    `json:"sender" doc:"Sending user ID, or admin"`
	Receiver       string    `json:"receiver" doc:"Receiving user ID, or admin"`
	Text           string    `json:"text" doc:"Message text"`
	SentAt         time.Time `json:"sent_at" doc:"Server receive time"`
}

func chatMessageToResponse(m *domain.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Sender:         m.Sender,
		Receiver:       m.Receiver,
		Text:           m.Text,
		SentAt:         m.SentAt,
	}
}

// ChatHistoryOutput wraps a conversation for Huma.
type ChatHistoryOutput struct {
	Body struct {
		Messages []ChatMessageResponse `json:"messages" doc:"Messages oldest first"`
	}
}

// ChatConversationInput identifies a customer conversation.
type ChatConversationInput struct {
	Authorization string `header:"Authorization"`
	UserID        string `path:"userID" doc:"Customer user ID"`
}

// SendChatMessageInput wraps an outgoing chat message.
type SendChatMessageInput struct {
	Authorization string `header:"Authorization"`
	Body          service.SendMessageRequest
}

// ChatMessageOutput wraps the persisted message for Huma.
type ChatMessageOutput struct {
	Body ChatMessageResponse
}

// === Handlers ===

func (s *Server) handleChatHistory(ctx context.Context, input *AdminActionInput) (*ChatHistoryOutput, error) {
	claims, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	messages, err := s.services.Chat.History(ctx, claims.UserID, claims.IsAdmin(), "")
	if err != nil {
		return nil, err
	}
	return chatHistoryOutput(messages), nil
}

func (s *Server) handleChatConversation(ctx context.Context, input *ChatConversationInput) (*ChatHistoryOutput, error) {
	claims, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	messages, err := s.services.Chat.History(ctx, claims.UserID, claims.IsAdmin(), input.UserID)
	if err != nil {
		return nil, err
	}
	return chatHistoryOutput(messages), nil
}

func (s *Server) handleSendChatMessage(ctx context.Context, input *SendChatMessageInput) (*ChatMessageOutput, error) {
	claims, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	msg, err := s.services.Chat.Send(ctx, claims.UserID, claims.IsAdmin(), input.Body)
	if err != nil {
		return nil, err
	}
	return &ChatMessageOutput{Body: chatMessageToResponse(msg)}, nil
}

func chatHistoryOutput(messages []*domain.ChatMessage) *ChatHistoryOutput {
	out := &ChatHistoryOutput{}
	out.Body.Messages = make([]ChatMessageResponse, len(messages))
	for i, m := range messages {
		out.Body.Messages[i] = chatMessageToResponse(m)
	}
	return out
}

// handleChatStream upgrades the connection to an SSE stream. EventSource
// cannot set request headers, so the access token may also arrive as a
// query parameter.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	tokenString, err := bearerToken(r.Header.Get("Authorization"))
	if err != nil {
		tokenString = r.URL.Query().Get("token")
	}
	if tokenString == "" {
		s.writeError(w, domainerrors.Unauthorized("Authentication required"))
		return
	}

	claims, err := s.services.Auth.VerifyAccessToken(tokenString)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.sseHandler.Serve(w, r, claims.UserID, claims.IsAdmin())
}
