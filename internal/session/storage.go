package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"shopfront/internal/models"
)

// ErrNoSession is returned by Storage.Load when no session is persisted.
var ErrNoSession = errors.New("session: no stored session")

// Storage persists the two-key session record: the raw auth token and
// the JSON-serialized user identity. The two keys are written and
// cleared together; a record with only one of them is treated as absent.
type Storage interface {
	// Save persists token and user together.
	Save(token string, user models.User) error
	// Load returns the persisted token and user, or ErrNoSession.
	Load() (string, *models.User, error)
	// Clear removes both keys. Clearing an empty storage is not an error.
	Clear() error
}

const (
	tokenFile = "auth_token"
	userFile  = "current_user"
)

// FileStorage keeps the session record in two files under a state
// directory, the localStorage analog for a command-line client. Writes
// go through a temp file and rename; concurrent processes follow
// last-writer-wins.
type FileStorage struct {
	dir string
}

// NewFileStorage creates the state directory if needed.
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("session: create state dir: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

// Save implements Storage.
func (s *FileStorage) Save(token string, user models.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: encode user: %w", err)
	}
	if err := s.writeFile(tokenFile, []byte(token)); err != nil {
		return err
	}
	return s.writeFile(userFile, userJSON)
}

// Load implements Storage.
func (s *FileStorage) Load() (string, *models.User, error) {
	tokenBytes, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, ErrNoSession
		}
		return "", nil, fmt.Errorf("session: read token: %w", err)
	}

	userBytes, err := os.ReadFile(filepath.Join(s.dir, userFile))
	if err != nil {
		if os.IsNotExist(err) {
			// Half a session is no session.
			return "", nil, ErrNoSession
		}
		return "", nil, fmt.Errorf("session: read user: %w", err)
	}

	token := strings.TrimSpace(string(tokenBytes))
	if token == "" {
		return "", nil, ErrNoSession
	}

	var user models.User
	if err := json.Unmarshal(userBytes, &user); err != nil {
		return "", nil, fmt.Errorf("session: decode user: %w", err)
	}
	return token, &user, nil
}

// Clear implements Storage.
func (s *FileStorage) Clear() error {
	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("session: clear %s: %w", name, err)
		}
	}
	return nil
}

func (s *FileStorage) writeFile(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("session: write %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("session: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("session: write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("session: write %s: %w", name, err)
	}
	return nil
}

// MemStorage is an in-memory Storage for tests.
type MemStorage struct {
	mu    sync.Mutex
	token string
	user  *models.User
}

// Save implements Storage.
func (s *MemStorage) Save(token string, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.token = token
	s.user = &u
	return nil
}

// Load implements Storage.
func (s *MemStorage) Load() (string, *models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" || s.user == nil {
		return "", nil, ErrNoSession
	}
	u := *s.user
	return s.token, &u, nil
}

// Clear implements Storage.
func (s *MemStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	return nil
}
