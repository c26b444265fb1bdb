// Package session holds the logged-in generator on the client side.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// User is the logged-in generator record kept between commands.
type User struct {
	ID     uint    `json:"id"`
	Email  string  `json:"email"`
	Nome   string  `json:"nome"`
	Foto   *string `json:"foto"`
	Status string  `json:"status"`
}

// Backend persists a single user record.
type Backend interface {
	Load() (*User, error)
	Save(user User) error
	Delete() error
}

// Session is the explicit entry point for session reads and writes.
type Session struct {
	backend Backend
}

func New(backend Backend) *Session {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	return &Session{backend: backend}
}

// Read returns the current user or nil when nobody is logged in.
func (s *Session) Read() (*User, error) {
	return s.backend.Load()
}

func (s *Session) Write(user User) error {
	if user.ID == 0 || strings.TrimSpace(user.Email) == "" {
		return errors.New("session: user id and email are required")
	}
	return s.backend.Save(user)
}

func (s *Session) Clear() error {
	return s.backend.Delete()
}

func (s *Session) LoggedIn() bool {
	user, err := s.backend.Load()
	return err == nil && user != nil
}

// MemoryBackend keeps the record in process memory.
type MemoryBackend struct {
	mu   sync.Mutex
	user *User
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Load() (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil, nil
	}
	copied := *m.user
	return &copied, nil
}

func (m *MemoryBackend) Save(user User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = &user
	return nil
}

func (m *MemoryBackend) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = nil
	return nil
}

const fileMode os.FileMode = 0o600

// FileBackend stores the record as JSON in a single file.
type FileBackend struct {
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (f *FileBackend) Path() string {
	return f.path
}

func (f *FileBackend) Load() (*User, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &user, nil
}

func (f *FileBackend) Save(user User) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, fileMode); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}

func (f *FileBackend) Delete() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
