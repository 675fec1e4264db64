// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/index"
)

// Store is a BadgerDB-backed vector index.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ index.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used by the store and the underlying database.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens a BadgerDB-backed index at the specified path.
// Creates the directory if it doesn't exist. An empty path opens an
// in-memory database, useful for tests.
func Open(filePath string, opts ...Option) (*Store, error) {
	s := &Store{
		logger: slog.Default().With("component", "index"),
	}
	for _, opt := range opts {
		opt(s)
	}

	var badgerOpts badger.Options
	if filePath == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		badgerOpts = badger.DefaultOptions(filePath)
	}

	badgerOpts.Logger = &badgerLoggerAdapter{logger: s.logger}
	badgerOpts.Compression = options.None

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", index.ErrService, err)
	}
	s.db = db

	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx executes a function within a BadgerDB transaction.
// The transaction is discarded automatically if fn returns an error.
func (s *Store) withTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	if s.db.IsClosed() {
		return index.ErrClosed
	}
	tx := s.db.NewTransaction(isWrite)
	defer tx.Discard()
	if err := fn(tx); err != nil {
		return err
	}
	if isWrite {
		return tx.Commit()
	}
	return nil
}

// Upsert inserts or overwrites vectors by ID. Writes both the primary
// record and the per-file index entry in one transaction per vector, so
// a re-ingested chunk replaces its prior version atomically.
func (s *Store) Upsert(ctx context.Context, vectors ...core.IndexedVector) error {
	for i := range vectors {
		if err := ctx.Err(); err != nil {
			return err
		}
		v := &vectors[i]
		err := s.withTx(func(tx *badger.Txn) error {
			if err := tx.Set(makeRecordKey(v.ID), MarshalRecord(v)); err != nil {
				return err
			}
			return tx.Set(makeFileKey(v.Metadata.FileID, v.Metadata.Seq), []byte(v.ID))
		}, true)
		if err != nil {
			if errors.Is(err, index.ErrClosed) {
				return err
			}
			return fmt.Errorf("%w: upsert %s: %w", index.ErrService, v.ID, err)
		}
	}
	return nil
}

// Query scans all records, scores them against the query vector, and
// returns the top k by similarity descending. Records with equal scores
// keep their scan order so results are stable across calls.
func (s *Store) Query(ctx context.Context, vector []float32, k int, filter *index.Filter) ([]core.RetrievalMatch, error) {
	var results []core.RetrievalMatch

	err := s.withTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var record *core.IndexedVector
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = UnmarshalRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record == nil || len(record.Vector) == 0 {
				continue
			}
			if filter != nil && filter.FileID != "" && record.Metadata.FileID != filter.FileID {
				continue
			}

			// Cosine similarity reduces to dot product for normalized vectors.
			results = append(results, core.RetrievalMatch{
				ID:       record.ID,
				Score:    dotProduct(vector, record.Vector),
				Metadata: record.Metadata,
			})
		}
		return nil
	}, false)

	if err != nil {
		if errors.Is(err, index.ErrClosed) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: query: %w", index.ErrService, err)
	}

	slices.SortStableFunc(results, func(a, b core.RetrievalMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// ListByFile returns all stored chunks of one file in sequence order.
// The per-file index keys carry the sequence in BigEndian, so plain
// lexicographic iteration yields ascending sequence numbers.
func (s *Store) ListByFile(ctx context.Context, fileID string) ([]core.RetrievalMatch, error) {
	var results []core.RetrievalMatch

	err := s.withTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeFilePrefix(fileID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var recordID string
			if err := iter.Item().Value(func(val []byte) error {
				recordID = string(val)
				return nil
			}); err != nil {
				return err
			}

			item, err := tx.Get(makeRecordKey(recordID))
			if err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					// Dangling index entry from a partial delete; skip it.
					s.logger.Warn("file index entry without record", "id", recordID)
					continue
				}
				return err
			}

			var record *core.IndexedVector
			if err := item.Value(func(val []byte) error {
				var err error
				record, err = UnmarshalRecord(val)
				return err
			}); err != nil {
				return err
			}

			results = append(results, core.RetrievalMatch{
				ID:       record.ID,
				Metadata: record.Metadata,
			})
		}
		return nil
	}, false)

	if err != nil {
		if errors.Is(err, index.ErrClosed) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: list file %s: %w", index.ErrService, fileID, err)
	}
	return results, nil
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
