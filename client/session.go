// Package client is the consumer side of the quizbox lobby protocol: a
// JSON API client, a persisted per-device session, and a polling
// synchronizer that keeps a local view of the player directory fresh.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Session is the explicit identity object passed into every call. There
// is no server-side authentication; the display name is the identity.
type Session struct {
	Name     string `json:"name"`
	PlayerID string `json:"playerId,omitempty"`
	RoomID   string `json:"roomId,omitempty"`
	RoomCode string `json:"roomCode,omitempty"`
	IsHost   bool   `json:"isHost,omitempty"`
}

// ValidationError rejects malformed input before any request is issued.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	return nil
}

func validateCode(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) < 4 || len(code) > 8 {
		return &ValidationError{Field: "code", Reason: "must be 4 to 8 characters"}
	}
	for _, c := range code {
		if !strings.ContainsRune(codeAlphabet, c) {
			return &ValidationError{Field: "code", Reason: "contains characters outside the room-code alphabet"}
		}
	}

	return nil
}

// SessionStore persists a Session as JSON on disk, the moral equivalent
// of the browser's localStorage: it survives restarts on one device and
// is never synchronized anywhere.
type SessionStore struct {
	path string
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// Load returns the persisted session, or a zero session when none has
// been saved yet.
func (s *SessionStore) Load() (Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("parsing session file: %w", err)
	}

	return sess, nil
}

func (s *SessionStore) Save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the persisted session, e.g. after leaving a room.
// Clearing an absent session is not an error.
func (s *SessionStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}
