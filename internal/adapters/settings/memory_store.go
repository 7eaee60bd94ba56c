package settings

import (
	"context"
	"sync"

	"github.com/mikey/securelens/internal/core"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory implementation of core.SettingsRepository
type MemoryStore struct {
	values map[string]string
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewMemoryStore creates a new in-memory settings store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
		logger: logger,
	}
}

// Get retrieves a setting
func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return "", core.ErrSettingNotFound
	}
	return v, nil
}

// Set stores a setting
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	s.logger.Debug("Setting stored", zap.String("key", key))
	return nil
}

// Delete removes a setting
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Close is a no-op for the memory store
func (s *MemoryStore) Close() error {
	return nil
}
