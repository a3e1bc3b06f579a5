package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/suncrest/suncrest-server/internal/domain"
	domainerrors "github.com/suncrest/suncrest-server/internal/errors"
	"github.com/suncrest/suncrest-server/internal/id"
	"github.com/suncrest/suncrest-server/internal/sse"
	"github.com/suncrest/suncrest-server/internal/store"
)

// ChatService handles support chat between customers and admins. Each
// customer has one conversation, keyed by their user ID; every admin shares
// the admin side of all conversations.
type ChatService struct {
	store         *store.Store
	sse           *sse.Manager
	notifications *NotificationService
	logger        *slog.Logger
}

// NewChatService creates a new chat service.
func NewChatService(st *store.Store, manager *sse.Manager, notifications *NotificationService, logger *slog.Logger) *ChatService {
	return &ChatService{
		store:         st,
		sse:           manager,
		notifications: notifications,
		logger:        logger,
	}
}

// SendMessageRequest is an outgoing chat message. ID is optional: clients
// that generate their own message IDs can resend safely, the server treats
// a duplicate ID as already delivered. Receiver is only honored for admins;
// customer messages always go to the admin room.
type SendMessageRequest struct {
	ID       string `json:"id" required:"false" validate:"omitempty,max=64"`
	Receiver string `json:"receiver" required:"false" validate:"omitempty,max=64"`
	Text     string `json:"text" validate:"required,max=4000"`
}

// Send persists a message and pushes it to the conversation's rooms: the
// customer's own room and the shared admin room.
func (s *ChatService) Send(ctx context.Context, senderID string, isAdmin bool, req SendMessageRequest) (*domain.ChatMessage, error) {
	if err := requestValidator.Validate(req); err != nil {
		return nil, err
	}

	sender := senderID
	receiver := domain.AdminRoom
	if isAdmin {
		if req.Receiver == "" || req.Receiver == domain.AdminRoom {
			return nil, domainerrors.Validation("receiver is required for admin messages")
		}
		sender = domain.AdminRoom
		receiver = req.Receiver
		if _, err := s.store.GetUser(ctx, receiver); err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return nil, domainerrors.NotFound("receiver not found")
			}
			return nil, fmt.Errorf("lookup receiver: %w", err)
		}
	}

	messageID := req.ID
	if messageID == "" {
		generated, err := id.Generate("msg")
		if err != nil {
			return nil, fmt.Errorf("generate message ID: %w", err)
		}
		messageID = generated
	}

	msg := &domain.ChatMessage{
		ID:             messageID,
		ConversationID: domain.ConversationKey(sender, receiver),
		Sender:         sender,
		Receiver:       receiver,
		Text:           req.Text,
		SentAt:         time.Now().UTC(),
	}

	if err := s.store.AppendChatMessage(ctx, msg); err != nil {
		if errors.Is(err, store.ErrChatMessageExists) {
			// Client resend of a delivered message
			return msg, nil
		}
		return nil, fmt.Errorf("append chat message: %w", err)
	}

	s.sse.Emit(sse.NewChatMessageEvent(msg))

	if !isAdmin && !s.adminOnline() {
		s.notifications.Notify(ctx, domain.NotificationChat,
			"Chat message while offline", truncate(req.Text, 120), msg.ConversationID)
	}

	return msg, nil
}

// History returns a conversation oldest-first. Customers can only read
// their own conversation.
func (s *ChatService) History(ctx context.Context, requesterID string, isAdmin bool, conversationID string) ([]*domain.ChatMessage, error) {
	if conversationID == "" {
		conversationID = requesterID
	}
	if !isAdmin && conversationID != requesterID {
		return nil, domainerrors.Forbidden("cannot read another user's conversation")
	}

	messages, err := s.store.ListConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}
	return messages, nil
}

// ListChatUsers returns the customers with at least one message, for the
// admin console's conversation sidebar. Conversations whose account has
// been deleted resolve to a placeholder so history stays reachable.
func (s *ChatService) ListChatUsers(ctx context.Context) ([]*domain.User, error) {
	conversationIDs, err := s.store.ListConversationIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	users := make([]*domain.User, 0, len(conversationIDs))
	for _, userID := range conversationIDs {
		user, err := s.store.GetUser(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				users = append(users, &domain.User{
					Syncable: domain.Syncable{ID: userID},
					Name:     "Deleted account",
					Role:     domain.RoleCustomer,
				})
				continue
			}
			return nil, fmt.Errorf("resolve chat user %s: %w", userID, err)
		}
		users = append(users, sanitizeUser(user))
	}
	return users, nil
}

// adminOnline reports whether any admin has an open SSE stream.
func (s *ChatService) adminOnline() bool {
	for client := range s.sse.Clients() {
		if client.IsAdmin {
			return true
		}
	}
	return false
}
