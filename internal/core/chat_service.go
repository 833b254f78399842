package core

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"chathub/internal/store"
)

// titleMaxLen is the longest first message carried verbatim into a
// chat title; longer messages are truncated with an ellipsis marker.
const titleMaxLen = 20

// ChatService owns the chat sessions of each user: creation, lookup,
// deletion, and the send/reply exchange with the completion service.
type ChatService struct {
	history   *store.HistoryStore
	completer Completer
}

func NewChatService(history *store.HistoryStore, completer Completer) *ChatService {
	return &ChatService{
		history:   history,
		completer: completer,
	}
}

// CreateChat inserts an empty chat at the end of the user's history
// and returns its id. Ids are short; the collision probability is
// negligible and not re-checked.
func (s *ChatService) CreateChat(user string) (string, error) {
	chatID := uuid.NewString()[:8]
	chat := store.Chat{
		ID:       chatID,
		Title:    store.DefaultChatTitle,
		Messages: []store.MessagePair{},
	}
	if err := s.history.AppendChat(user, chat); err != nil {
		return "", fmt.Errorf("failed to create chat: %w", err)
	}
	return chatID, nil
}

// GetChat returns the chat with the given id, or store.ErrNotFound.
func (s *ChatService) GetChat(user, chatID string) (*store.Chat, error) {
	return s.history.GetChat(user, chatID)
}

// ListChats returns the user's full history, oldest chat first.
func (s *ChatService) ListChats(user string) ([]store.Chat, error) {
	return s.history.Chats(user)
}

// LatestChatID returns the id of the most recently created chat, or
// store.ErrNotFound when the history is empty.
func (s *ChatService) LatestChatID(user string) (string, error) {
	chats, err := s.history.Chats(user)
	if err != nil {
		return "", err
	}
	if len(chats) == 0 {
		return "", store.ErrNotFound
	}
	return chats[len(chats)-1].ID, nil
}

// SendMessage asks the completion service for a reply to text and
// appends the exchange to the chat. Upstream failures degrade into
// the conversation: the error text becomes the bot reply and the pair
// is still appended, never surfaced as an HTTP failure. The first
// exchange also derives the chat title from the user's message.
func (s *ChatService) SendMessage(ctx context.Context, user, chatID, text string) error {
	reply, err := s.completer.Complete(ctx, text)
	if err != nil {
		log.Printf("Completion failed for chat %s: %v", chatID, err)
		reply = fmt.Sprintf("⚠️ Error: %v", err)
	}

	return s.history.UpdateChat(user, chatID, func(chat *store.Chat) {
		chat.Messages = append(chat.Messages, store.MessagePair{User: text, Bot: reply})
		if chat.Title == store.DefaultChatTitle {
			chat.Title = deriveTitle(text)
		}
	})
}

// DeleteChat removes the chat from the user's history.
func (s *ChatService) DeleteChat(user, chatID string) error {
	return s.history.DeleteChat(user, chatID)
}

// deriveTitle truncates a first message to titleMaxLen characters,
// marking longer messages with an ellipsis.
func deriveTitle(msg string) string {
	runes := []rune(msg)
	if len(runes) > titleMaxLen {
		return string(runes[:titleMaxLen]) + "..."
	}
	return msg
}
