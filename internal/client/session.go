package client

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mrlokans/library-catalog/internal/entities"
)

// Session is the durable client-side state: the bearer token and the user
// it belongs to. It survives restarts via the session file and is cleared
// on logout or whenever the server rejects the token.
type Session struct {
	Token string         `json:"token"`
	User  *entities.User `json:"user,omitempty"`
}

// SessionStore persists the session as a JSON file readable only by the
// owner.
type SessionStore struct {
	path string
}

// NewSessionStore creates a store backed by the given file path.
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// Load reads the stored session. A missing file means no session and is
// not an error.
func (s *SessionStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	if session.Token == "" {
		return nil, nil
	}
	return &session, nil
}

// Save writes the session with restricted permissions.
func (s *SessionStore) Save(session *Session) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing an absent session is a no-op.
func (s *SessionStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
