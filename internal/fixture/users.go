package fixture

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// userFile is the on-disk shape of a credential store: username to
// bcrypt hash.
type userFile struct {
	Users map[string]string `yaml:"users"`
}

// UserStore verifies credentials for the fixture site. It is safe for
// concurrent use; the gin handlers read it from multiple goroutines.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]string

	watcher *fsnotify.Watcher
}

// NewUserStore seeds a store with one plaintext credential pair.
func NewUserStore(username, password string) (*UserStore, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing seed password: %w", err)
	}
	return &UserStore{users: map[string]string{username: string(hash)}}, nil
}

// LoadUserStore reads a YAML credential file and watches it for
// changes, reloading in place. Close releases the watcher.
func LoadUserStore(path string) (*UserStore, error) {
	s := &UserStore{users: map[string]string{}}
	if err := s.loadFile(path); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}
	if err := watcher.Add(path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}
	s.watcher = watcher

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
					if err := s.loadFile(path); err != nil {
						log.Printf("[fixture] user store reload failed: %v", err)
					} else {
						log.Printf("[fixture] user store reloaded from %s", path)
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[fixture] user store watch error: %v", err)
			}
		}
	}()

	return s, nil
}

func (s *UserStore) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading user store: %w", err)
	}
	var f userFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parsing user store: %w", err)
	}
	if len(f.Users) == 0 {
		return fmt.Errorf("user store %s holds no users", path)
	}
	s.mu.Lock()
	s.users = f.Users
	s.mu.Unlock()
	return nil
}

// Verify checks a username/password pair against the store.
func (s *UserStore) Verify(username, password string) bool {
	s.mu.RLock()
	hash, ok := s.users[username]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Close stops the file watcher, if any.
func (s *UserStore) Close() {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
}
