// Package session persists the signed-in identity (bearer token and user
// profile) between runs, mirroring the SPA's local-storage behavior: reads
// never fail, corrupt or missing state reads as signed-out.
package session

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

// Profile is the authenticated user as returned by the auth endpoints.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type state struct {
	Token string   `json:"token,omitempty"`
	User  *Profile `json:"user,omitempty"`
}

// FileStore keeps the session in a JSON file under the state directory.
// All reads degrade to the signed-out state on any error.
type FileStore struct {
	path string
}

// NewFileStore creates a store at dir/session.json.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, "session.json")}
}

// Token returns the persisted bearer token, or "" when signed out.
func (s *FileStore) Token() string {
	return s.read().Token
}

// User returns the persisted profile, or nil when signed out.
func (s *FileStore) User() *Profile {
	return s.read().User
}

// SetSession persists a token and profile. Write failures are logged and
// swallowed: losing persistence degrades to re-login, it must not fail the
// operation that produced the credentials.
func (s *FileStore) SetSession(token string, user *Profile) {
	if token == "" {
		return
	}
	s.write(state{Token: token, User: user})
}

// Clear removes the persisted session.
func (s *FileStore) Clear() {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to clear session file", "path", s.path, "error", err)
	}
}

func (s *FileStore) read() state {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return state{}
	}
	var st state
	if err := json.Unmarshal(raw, &st); err != nil {
		return state{}
	}
	return st
}

func (s *FileStore) write(st state) {
	raw, err := json.Marshal(st)
	if err != nil {
		slog.Warn("Failed to encode session", "error", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		slog.Warn("Failed to create session directory", "error", err)
		return
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		slog.Warn("Failed to write session file", "error", err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		slog.Warn("Failed to persist session file", "error", err)
	}
}
