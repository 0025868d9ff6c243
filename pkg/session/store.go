package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/harun/stargent/internal/observability"
	"github.com/harun/stargent/pkg/contexts"
)

const (
	userSuffix = ".user.json"
	planSuffix = ".plan.json"
)

// Store persists session state as JSON files under a base directory.
// Each session key owns two files: <key>.user.json for the user
// context and <key>.plan.json for the last plan execution.
type Store struct {
	dir    string
	logger zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore creates a store rooted at dir, creating it if needed
func NewStore(dir string, logger zerolog.Logger) (*Store, error) {
	observability.EnsureRegistered()

	if dir == "" {
		return nil, fmt.Errorf("session directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	return &Store{
		dir:    dir,
		logger: logger.With().Str("component", "session").Logger(),
		locks:  make(map[string]*sync.Mutex),
	}, nil
}

// SaveUserContext writes the user context for the session key
func (s *Store) SaveUserContext(key string, userCtx *contexts.UserContext) error {
	data, err := userCtx.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode user context: %w", err)
	}
	return s.save(key, userSuffix, data)
}

// LoadUserContext reads the user context for the session key. A
// missing file yields a fresh empty context, not an error.
func (s *Store) LoadUserContext(key string) (*contexts.UserContext, error) {
	data, err := s.load(key, userSuffix)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return contexts.NewUserContext(nil), nil
	}
	return contexts.DecodeUserContext(data)
}

// SaveAgentContext writes the plan execution record for the session key
func (s *Store) SaveAgentContext(key string, agentCtx *contexts.AgentContext) error {
	data, err := agentCtx.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode agent context: %w", err)
	}
	return s.save(key, planSuffix, data)
}

// LoadAgentContext reads the last plan execution record for the
// session key, or nil when none has been saved.
func (s *Store) LoadAgentContext(key string) (*contexts.AgentContext, error) {
	data, err := s.load(key, planSuffix)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	return contexts.DecodeAgentContext(data)
}

// List returns the sorted session keys that have a saved user context
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read session directory: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), userSuffix) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(entry.Name(), userSuffix))
	}
	sort.Strings(keys)

	observability.SetActiveSessions(len(keys))
	return keys, nil
}

// Delete removes both files of a session. Missing files are not errors.
func (s *Store) Delete(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	for _, suffix := range []string{userSuffix, planSuffix} {
		path := filepath.Join(s.dir, key+suffix)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete session file: %w", err)
		}
	}
	return nil
}

func (s *Store) save(key, suffix string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	path := filepath.Join(s.dir, key+suffix)

	// Write to a temp file first so readers never see a torn file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to finalize session file: %w", err)
	}

	observability.RecordSessionSave(time.Since(start))
	s.logger.Debug().Str("session", key).Str("file", filepath.Base(path)).Msg("Session state saved")
	return nil
}

// load returns nil data (and nil error) when the file does not exist
func (s *Store) load(key, suffix string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	data, err := os.ReadFile(filepath.Join(s.dir, key+suffix))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	observability.RecordSessionLoad(time.Since(start))
	return data, nil
}

func (s *Store) lockFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// validateKey rejects keys that could escape the session directory or
// produce unusable file names.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("session key cannot be empty")
	}
	if strings.Contains(key, "..") {
		return fmt.Errorf("session key cannot contain '..'")
	}
	if strings.ContainsAny(key, "/\\\x00") {
		return fmt.Errorf("session key contains invalid characters")
	}
	return nil
}
