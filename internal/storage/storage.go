package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/carson-networks/ledger-sync/internal/config"
	"github.com/carson-networks/ledger-sync/internal/storage/memory"
	"github.com/carson-networks/ledger-sync/internal/storage/sqlconfig"
)

// Storage is the remote data service the ledger reads from and writes to.
type Storage struct {
	DB      *sql.DB
	Entries sqlconfig.ILedgerEntryTable
}

func NewStorage(env *config.Config) (*Storage, error) {
	connStr := "postgres://" + env.PostgresUsername + ":" +
		env.PostgresPassword + "@" + env.PostgresAddress + ":" +
		env.PostgresPort + "/" + env.PostgresDB + "?sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	return &Storage{
		DB:      db,
		Entries: sqlconfig.NewLedgerEntriesTable(db),
	}, nil
}

// NewMemoryStorage returns a Storage backed by an in-process table, for
// local runs without Postgres and for tests.
func NewMemoryStorage() (*Storage, *memory.LedgerEntriesTable) {
	table := memory.NewLedgerEntriesTable()
	return &Storage{Entries: table}, table
}

// Ping checks the remote database. An in-memory storage is always reachable.
func (s *Storage) Ping(ctx context.Context) error {
	if s.DB == nil {
		return nil
	}
	return s.DB.PingContext(ctx)
}

func (s *Storage) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
