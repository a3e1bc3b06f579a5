package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/suncrest/suncrest-server/internal/domain"
)

// Chat messages are keyed by conversation and send time so a prefix scan
// yields a conversation in chronological order. A second key per message ID
// makes delivery idempotent: replaying the same message is a no-op.
const (
	chatPrefix     = "chat:"
	chatByIDPrefix = "idx:chat:id:"
)

// ErrChatMessageExists is returned when a message with the same ID has
// already been stored.
var ErrChatMessageExists = errors.New("chat message already exists")

func chatMessageKey(msg *domain.ChatMessage) []byte {
	return fmt.Appendf(nil, "%s%s:%020d:%s", chatPrefix, msg.ConversationID, msg.SentAt.UnixNano(), msg.ID)
}

// AppendChatMessage stores a chat message and broadcasts it.
// Returns ErrChatMessageExists if a message with this ID was already stored.
func (s *Store) AppendChatMessage(ctx context.Context, msg *domain.ChatMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal chat message: %w", err)
	}

	idKey := []byte(chatByIDPrefix + msg.ID)
	key := chatMessageKey(msg)

	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(idKey)
		if err == nil {
			return ErrChatMessageExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check chat message id: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(idKey, key)
	})
	if err != nil {
		if errors.Is(err, ErrChatMessageExists) {
			return err
		}
		return fmt.Errorf("append chat message: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("chat message stored",
			"id", msg.ID,
			"conversation", msg.ConversationID)
	}

	return nil
}

// ListConversation returns all messages of a conversation in send order.
func (s *Store) ListConversation(ctx context.Context, conversationID string) ([]*domain.ChatMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(chatPrefix + conversationID + ":")
	var messages []*domain.ChatMessage

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var msg domain.ChatMessage
				if err := json.Unmarshal(val, &msg); err != nil {
					return err
				}
				messages = append(messages, &msg)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}

	return messages, nil
}

// ListConversationIDs returns the distinct conversation IDs with at least
// one stored message. Used by the admin chat roster.
func (s *Store) ListConversationIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(chatPrefix)
	seen := make(map[string]bool)
	var ids []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false // Key-only scan

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			rest := key[len(chatPrefix):]
			convID, _, ok := strings.Cut(rest, ":")
			if !ok || seen[convID] {
				continue
			}
			seen[convID] = true
			ids = append(ids, convID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list conversation ids: %w", err)
	}

	return ids, nil
}
