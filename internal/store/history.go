package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"chathub/internal/normalize"
)

// HistoryStore persists each user's chat sessions as one JSON array
// per normalized display name. Like UserStore, every operation is a
// whole-file read-modify-write guarded by the mutex.
type HistoryStore struct {
	dataDir string
	mu      sync.Mutex
}

func NewHistoryStore(dataDir string) *HistoryStore {
	return &HistoryStore{dataDir: dataDir}
}

// fileFor maps a display name to that user's history file. An empty
// name falls back to the shared guest file.
func (s *HistoryStore) fileFor(name string) string {
	username := normalize.Username(name)
	if username == "" {
		username = "guest"
	}
	return filepath.Join(s.dataDir, fmt.Sprintf("chat_history_%s.json", username))
}

func (s *HistoryStore) load(name string) ([]Chat, error) {
	data, err := os.ReadFile(s.fileFor(name))
	if err != nil {
		if os.IsNotExist(err) {
			return []Chat{}, nil
		}
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	var chats []Chat
	if err := json.Unmarshal(data, &chats); err != nil {
		return nil, fmt.Errorf("failed to decode history file: %w", err)
	}
	return chats, nil
}

func (s *HistoryStore) save(name string, chats []Chat) error {
	data, err := json.MarshalIndent(chats, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := os.WriteFile(s.fileFor(name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}

// Chats returns the user's full history, oldest chat first.
func (s *HistoryStore) Chats(name string) ([]Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(name)
}

// AppendChat adds a chat at the end of the user's history.
func (s *HistoryStore) AppendChat(name string, chat Chat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.load(name)
	if err != nil {
		return err
	}
	return s.save(name, append(chats, chat))
}

// GetChat returns the chat with the given id, or ErrNotFound.
func (s *HistoryStore) GetChat(name, chatID string) (*Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.load(name)
	if err != nil {
		return nil, err
	}
	for i := range chats {
		if chats[i].ID == chatID {
			return &chats[i], nil
		}
	}
	return nil, ErrNotFound
}

// UpdateChat applies mutate to the chat with the given id and persists
// the whole history. Returns ErrNotFound when the id is absent.
func (s *HistoryStore) UpdateChat(name, chatID string, mutate func(*Chat)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.load(name)
	if err != nil {
		return err
	}
	for i := range chats {
		if chats[i].ID == chatID {
			mutate(&chats[i])
			return s.save(name, chats)
		}
	}
	return ErrNotFound
}

// DeleteChat filters the chat out of the history and persists the
// remainder. Deleting an unknown id is not an error.
func (s *HistoryStore) DeleteChat(name, chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.load(name)
	if err != nil {
		return err
	}
	remaining := chats[:0]
	for _, chat := range chats {
		if chat.ID != chatID {
			remaining = append(remaining, chat)
		}
	}
	return s.save(name, remaining)
}
