// Package state holds the shared keyed store for one run: the immutable
// input record plus the write-once outputs of completed units.
package state

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/ports"
)

type Store struct {
	record domain.Record
	logger *slog.Logger

	mu      sync.RWMutex
	outputs map[string]interface{}
}

func NewStore(record domain.Record, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		record:  record,
		logger:  logger.With("component", "state"),
		outputs: make(map[string]interface{}),
	}
}

func (s *Store) Record() domain.Record {
	return s.record
}

func (s *Store) Get(name string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.outputs[name]
	return v, ok
}

// Put publishes a finalized output. Write-once is enforced here, at the API
// boundary: a second write to the same key fails and leaves the first value
// intact.
func (s *Store) Put(name string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.outputs[name]; exists {
		s.logger.Error("rejected rewrite of finalized output", "key", name)
		return fmt.Errorf("put %s: %w", name, domain.ErrKeyExists)
	}
	s.outputs[name] = value
	s.logger.Debug("output finalized", "key", name)
	return nil
}

func (s *Store) Outputs(names ...string) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]interface{}, len(names))
	for _, name := range names {
		v, ok := s.outputs[name]
		if !ok {
			return nil, fmt.Errorf("output %s not finalized", name)
		}
		out[name] = v
	}
	return out, nil
}

var _ ports.State = (*Store)(nil)
