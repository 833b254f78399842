package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const usersFileName = "users.json"

// UserStore persists the registered users as a single JSON array.
// Every operation reads and rewrites the whole file; the mutex makes
// each load-mutate-save cycle a critical section so concurrent
// requests cannot lose writes.
type UserStore struct {
	path string
	mu   sync.Mutex
}

func NewUserStore(dataDir string) *UserStore {
	return &UserStore{path: filepath.Join(dataDir, usersFileName)}
}

// load reads the backing file. A missing file is an empty store.
func (s *UserStore) load() ([]User, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []User{}, nil
		}
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}
	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users file: %w", err)
	}
	return users, nil
}

func (s *UserStore) save(users []User) error {
	data, err := json.MarshalIndent(users, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write users file: %w", err)
	}
	return nil
}

// All returns every registered user.
func (s *UserStore) All() ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// CreateUser appends a new user after checking for a duplicate email.
// The caller is expected to have lower-cased u.Email already; stored
// addresses are compared verbatim against it. That asymmetry (login
// lower-cases both sides) is inherited behavior, kept on purpose.
func (s *UserStore) CreateUser(u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}
	for _, existing := range users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	return s.save(append(users, u))
}
