package domain

import "time"

// AdminRoom is the shared room every admin joins. Customer messages are
// delivered to their own room and mirrored here so any connected admin
// sees them.
const AdminRoom = "admin"

// ChatMessage is one support chat message. A conversation is keyed by the
// customer's user ID regardless of direction: customer to admin messages
// and admin replies share the same conversation.
type ChatMessage struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Sender         string    `json:"sender"`   // user ID, or AdminRoom for admin replies
	Receiver       string    `json:"receiver"` // user ID, or AdminRoom
	Text           string    `json:"text"`
	SentAt         time.Time `json:"sent_at"`
}

// ConversationKey resolves the conversation a message belongs to: whichever
// side of the exchange is not the admin room.
func ConversationKey(sender, receiver string) string {
	if sender == AdminRoom {
		return receiver
	}
	return sender
}
