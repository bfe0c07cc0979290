package badger

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/reglet-dev/classlist/internal/domain/checking"
	"github.com/reglet-dev/classlist/internal/domain/repositories"
)

var _ repositories.CheckResultRepository = (*CheckResultRepository)(nil)

// Key layout:
//
//	result/<run id>                                  JSON encoded CheckResult
//	index/<class list path> 0x00 <start ns> <run id>  empty, ordered by start time
const (
	resultPrefix = "result/"
	indexPrefix  = "index/"
)

// CheckResultRepository persists check results in BadgerDB.
type CheckResultRepository struct {
	db *badger.DB
}

// OpenCheckResultRepository opens the database described by cfg.
func OpenCheckResultRepository(cfg Config) (*CheckResultRepository, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	return &CheckResultRepository{db: db}, nil
}

// Close closes the underlying database.
func (r *CheckResultRepository) Close() error {
	return r.db.Close()
}

// Save stores result and indexes it by class list and start time.
func (r *CheckResultRepository) Save(ctx context.Context, result *checking.CheckResult) error {
	if result == nil {
		return fmt.Errorf("cannot save nil check result")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode check result: %w", err)
	}

	id := result.RunID.UUID()
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(resultKey(id), data); err != nil {
			return err
		}
		return txn.Set(indexKey(result.ClassListPath, result.StartTime, id), nil)
	})
}

// FindByID retrieves a check result by its run ID.
func (r *CheckResultRepository) FindByID(_ context.Context, id uuid.UUID) (*checking.CheckResult, error) {
	var result *checking.CheckResult
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		result, err = loadResult(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FindByClassList retrieves recent check results for a class list, newest first.
func (r *CheckResultRepository) FindByClassList(ctx context.Context, path string, limit int) ([]*checking.CheckResult, error) {
	prefix := indexPathPrefix(path)
	// Largest possible key under prefix
	seek := append(append([]byte{}, prefix...), bytes.Repeat([]byte{0xff}, 8+16)...)

	return r.scan(ctx, prefix, seek, func(_ time.Time) (bool, bool) {
		return true, false
	}, limit)
}

// FindBetween retrieves results for a class list started within [start, end], newest first.
func (r *CheckResultRepository) FindBetween(ctx context.Context, path string, start, end time.Time) ([]*checking.CheckResult, error) {
	prefix := indexPathPrefix(path)
	var last uuid.UUID
	for i := range last {
		last[i] = 0xff
	}
	seek := indexKey(path, end, last)

	return r.scan(ctx, prefix, seek, func(t time.Time) (bool, bool) {
		if t.Before(start) {
			return false, true
		}
		return !t.After(end), false
	}, 0)
}

// scan walks index keys under prefix backwards from seek. match reports
// whether a key's start time is wanted and whether the walk should stop.
func (r *CheckResultRepository) scan(
	ctx context.Context,
	prefix, seek []byte,
	match func(time.Time) (want, stop bool),
	limit int,
) ([]*checking.CheckResult, error) {
	var results []*checking.CheckResult

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Reverse = true
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			started, id, err := parseIndexKey(it.Item().Key(), len(prefix))
			if err != nil {
				return err
			}
			want, stop := match(started)
			if stop {
				return nil
			}
			if !want {
				continue
			}

			result, err := loadResult(txn, id)
			if err != nil {
				return err
			}
			results = append(results, result)
			if limit > 0 && len(results) >= limit {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func loadResult(txn *badger.Txn, id uuid.UUID) (*checking.CheckResult, error) {
	item, err := txn.Get(resultKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", repositories.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var result checking.CheckResult
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &result)
	})
	if err != nil {
		return nil, fmt.Errorf("decode check result %s: %w", id, err)
	}
	return &result, nil
}

func resultKey(id uuid.UUID) []byte {
	return append([]byte(resultPrefix), id[:]...)
}

func indexPathPrefix(path string) []byte {
	key := make([]byte, 0, len(indexPrefix)+len(path)+1)
	key = append(key, indexPrefix...)
	key = append(key, path...)
	return append(key, 0)
}

func indexKey(path string, started time.Time, id uuid.UUID) []byte {
	key := indexPathPrefix(path)
	key = binary.BigEndian.AppendUint64(key, uint64(started.UnixNano()))
	return append(key, id[:]...)
}

func parseIndexKey(key []byte, prefixLen int) (time.Time, uuid.UUID, error) {
	rest := key[prefixLen:]
	if len(rest) != 8+16 {
		return time.Time{}, uuid.Nil, fmt.Errorf("malformed index key %q", key)
	}
	started := time.Unix(0, int64(binary.BigEndian.Uint64(rest[:8])))
	id, err := uuid.FromBytes(rest[8:])
	if err != nil {
		return time.Time{}, uuid.Nil, err
	}
	return started, id, nil
}
