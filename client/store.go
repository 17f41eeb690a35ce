package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Default role namespaces used by the event platform's surfaces.
const (
	// NamespaceDefault holds the attendee session token.
	NamespaceDefault = "token"
	// NamespaceOrganizer holds the organizer-scoped token.
	NamespaceOrganizer = "organizer_token"
)

// TokenStore persists at most one token per role namespace. Implementations
// must be safe for concurrent use. Get reports absence through its boolean;
// absence is the normal signed-out state, not a failure.
type TokenStore interface {
	Set(namespace, token string) error
	Get(namespace string) (string, bool)
	Clear(namespace string) error
}

// MemoryStore is a process-local TokenStore, mainly for tests and embedded use.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]string)}
}

func (s *MemoryStore) Set(namespace, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[namespace] = token
	return nil
}

func (s *MemoryStore) Get(namespace string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[namespace]
	return token, ok && token != ""
}

func (s *MemoryStore) Clear(namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, namespace)
	return nil
}

// FileStore persists namespaced tokens in a single JSON file — the Go analog
// of the browser storage the web front end uses. Every read hits the file,
// so separate processes sharing the path observe each other's writes; writes
// go through a temp file and rename so a crash never leaves a torn file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a FileStore at path. The parent directory must exist.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Set(namespace, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens := s.load()
	tokens[namespace] = token
	return s.save(tokens)
}

// Get returns the stored token for namespace. An unreadable or corrupt store
// file reads as signed-out rather than surfacing an error, matching the
// contract that absence is never a failure.
func (s *FileStore) Get(namespace string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.load()[namespace]
	return token, ok && token != ""
}

func (s *FileStore) Clear(namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens := s.load()
	if _, ok := tokens[namespace]; !ok {
		return nil
	}
	delete(tokens, namespace)
	return s.save(tokens)
}

func (s *FileStore) load() map[string]string {
	tokens := make(map[string]string)

	data, err := os.ReadFile(s.path)
	if err != nil {
		return tokens
	}
	if err := json.Unmarshal(data, &tokens); err != nil {
		return make(map[string]string)
	}
	return tokens
}

func (s *FileStore) save(tokens map[string]string) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// DefaultStorePath returns the conventional token file location under the
// user config directory.
func DefaultStorePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "eventauth", "tokens.json"), nil
}
