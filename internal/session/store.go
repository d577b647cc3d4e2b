package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrNoSession is returned by Get when no credential is stored.
var ErrNoSession = errors.New("not logged in")

// ErrNotFound is returned by a Storage when the key holds nothing.
var ErrNotFound = errors.New("key not found")

// ParseError is returned by Get when the stored value can't be decoded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("stored session is unreadable: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Storage is a persistent key/value slot.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store reads and writes the session credential under a single key.
// It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	storage Storage
	key     string
	logger  *zap.Logger
}

// NewStore creates a Store over storage using key.
func NewStore(storage Storage, key string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{storage: storage, key: key, logger: logger}
}

// Get returns the stored credential, ErrNoSession if none is stored, or a
// *ParseError if the stored value is unreadable.
func (s *Store) Get(ctx context.Context) (Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.storage.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return Credential{}, ErrNoSession
	}
	if err != nil {
		return Credential{}, fmt.Errorf("read session: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return Credential{}, &ParseError{Err: err}
	}
	if !cred.Valid() {
		return Credential{}, &ParseError{Err: errors.New("missing token")}
	}
	return cred, nil
}

// Set persists cred, replacing any stored credential.
func (s *Store) Set(ctx context.Context, cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.storage.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	s.logger.Debug("session stored", zap.String("account_id", cred.AccountID))
	return nil
}

// Remove deletes the stored credential. Removing an absent credential is not
// an error.
func (s *Store) Remove(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.storage.Delete(ctx, s.key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("remove session: %w", err)
	}
	s.logger.Debug("session removed")
	return nil
}

// IsAuthenticated reports whether a readable credential is stored. An
// unreadable credential counts as absent. No expiry check is made.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	_, err := s.Get(ctx)
	if err == nil {
		return true
	}
	var perr *ParseError
	if errors.As(err, &perr) {
		s.logger.Warn("ignoring unreadable session", zap.Error(err))
	} else if !errors.Is(err, ErrNoSession) {
		s.logger.Warn("session lookup failed", zap.Error(err))
	}
	return false
}
