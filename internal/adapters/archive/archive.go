// Package archive persists finished run results in a local badger store so
// outcomes and traces survive the process. The execution core never reads
// the archive during a run; it exists for the caller's bookkeeping.
package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/ports"
	"github.com/loomhq/loom/internal/xjson"
)

const (
	runPrefix   = "run:"
	indexPrefix = "idx:"
)

type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open archive at %s: %w", path, err)
	}
	return &Store{
		db:     db,
		logger: logger.With("component", "archive"),
	}, nil
}

func (s *Store) SaveRun(ctx context.Context, result *domain.RunResult) error {
	data, err := xjson.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode run %s: %w", result.RunID, err)
	}

	// The index key sorts by start time so listings walk newest-first with
	// a reverse iterator.
	indexKey := fmt.Sprintf("%s%020d:%s", indexPrefix, result.StartedAt.UnixNano(), result.RunID)

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(runPrefix+result.RunID), data); err != nil {
			return err
		}
		return txn.Set([]byte(indexKey), []byte(result.RunID))
	})
	if err != nil {
		return fmt.Errorf("persist run %s: %w", result.RunID, err)
	}

	s.logger.Info("run archived", "run_id", result.RunID, "bytes", len(data))
	return nil
}

func (s *Store) GetRun(ctx context.Context, runID string) (*domain.RunResult, error) {
	var result domain.RunResult
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(runPrefix + runID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", domain.ErrRunNotFound, runID)
			}
			return err
		}
		return item.Value(func(data []byte) error {
			return xjson.Unmarshal(data, &result)
		})
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Store) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts from the end of the prefix range.
		seek := []byte(indexPrefix + "\xff")
		for it.Seek(seek); it.ValidForPrefix([]byte(indexPrefix)); it.Next() {
			if limit > 0 && len(ids) >= limit {
				break
			}
			err := it.Item().Value(func(v []byte) error {
				ids = append(ids, string(v))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.RunSummary, 0, len(ids))
	for _, id := range ids {
		run, err := s.GetRun(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrRunNotFound) {
				continue
			}
			return nil, err
		}
		summaries = append(summaries, run.Summary())
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].StartedAt.After(summaries[j].StartedAt)
	})
	return summaries, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

var _ ports.Archive = (*Store)(nil)
