package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/dm"
	"github.com/stephenafamo/bob/dialect/sqlite/im"
	"github.com/stephenafamo/bob/dialect/sqlite/sm"
	"github.com/stephenafamo/scan"
	_ "modernc.org/sqlite"
)

const createTable = `CREATE TABLE IF NOT EXISTS cache_kv (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL
)`

// SQLiteStore keeps values in a single SQLite table.
type SQLiteStore struct {
	db   *sql.DB
	exec bob.Executor
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database file at path. Use
// ":memory:" for a throwaway store.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache_kv: %w", err)
	}

	return &SQLiteStore{db: db, exec: bob.NewDB(db)}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := sqlite.Select(
		sm.Columns("value"),
		sm.From("cache_kv"),
		sm.Where(sqlite.Quote("key").EQ(sqlite.Arg(key))),
	)

	value, err := bob.One(ctx, s.exec, query, scan.SingleColumnMapper[[]byte])
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	query := sqlite.Insert(
		im.Into("cache_kv", "key", "value"),
		im.Values(sqlite.Arg(key, value)),
		im.OnConflict("key").DoUpdate(im.SetExcluded("value")),
	)

	_, err := bob.Exec(ctx, s.exec, query)
	return err
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	query := sqlite.Delete(
		dm.From("cache_kv"),
		dm.Where(sqlite.Quote("key").EQ(sqlite.Arg(key))),
	)

	_, err := bob.Exec(ctx, s.exec, query)
	return err
}

func (s *SQLiteStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	query := sqlite.Select(
		sm.Columns("key"),
		sm.From("cache_kv"),
		sm.Where(sqlite.Raw("substr(key, 1, ?) = ?", len(prefix), prefix)),
		sm.OrderBy(sqlite.Quote("key")),
	)

	return bob.All(ctx, s.exec, query, scan.SingleColumnMapper[string])
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
