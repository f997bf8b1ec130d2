// Package bunstore persists the console session snapshot in SQLite through
// bun. It is the durable counterpart to console.MemoryStorage: the same two
// keys, surviving process restarts.
package bunstore

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/operato/go-console"
)

type entry struct {
	bun.BaseModel `bun:"table:console_storage,alias:cst"`

	Key   string `bun:"key,pk"`
	Value string `bun:"value,notnull"`
}

// Store implements console.Storage on a single key/value table.
type Store struct {
	db     *bun.DB
	logger console.Logger
}

var _ console.Storage = (*Store)(nil)

// Open creates or opens the SQLite file at path and ensures the storage
// table exists.
func Open(path string) (*Store, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file:"+path+"?cache=shared")
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "unable to open session storage")
	}

	s := &Store{
		db:     bun.NewDB(sqldb, sqlitedialect.New()),
		logger: nopLogger{},
	}

	if _, err := s.db.NewCreateTable().
		Model((*entry)(nil)).
		IfNotExists().
		Exec(context.Background()); err != nil {
		_ = s.db.Close()
		return nil, errors.Wrap(err, errors.CategoryInternal, "unable to initialize session storage")
	}

	return s, nil
}

func (s *Store) WithLogger(logger console.Logger) *Store {
	s.logger = logger
	return s
}

func (s *Store) Get(key string) (string, bool) {
	e := new(entry)
	err := s.db.NewSelect().
		Model(e).
		Where("key = ?", key).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Warn("session storage read failed: %v", err)
		}
		return "", false
	}
	return e.Value, true
}

func (s *Store) Set(key, value string) error {
	e := &entry{Key: key, Value: value}
	_, err := s.db.NewInsert().
		Model(e).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(context.Background())
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "unable to persist session entry")
	}
	return nil
}

// Delete removes all keys in one statement so a session snapshot is never
// half-cleared.
func (s *Store) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.db.NewDelete().
		Model((*entry)(nil)).
		Where("key IN (?)", bun.In(keys)).
		Exec(context.Background())
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "unable to clear session entries")
	}
	return nil
}

func (s *Store) Clear() error {
	_, err := s.db.NewDelete().
		Model((*entry)(nil)).
		Where("1 = 1").
		Exec(context.Background())
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "unable to clear session storage")
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
