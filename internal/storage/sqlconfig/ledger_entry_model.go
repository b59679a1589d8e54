package sqlconfig

import (
	"context"
	"errors"
	"time"

	"github.com/carson-networks/ledger-sync/internal/ledger"
)

var ErrEntryNotFound = errors.New("ledger entry not found")

// LedgerEntryFilter specifies filters for listing ledger entries.
// Rows come back sorted by (occurred_at DESC, id DESC).
type LedgerEntryFilter struct {
	From    *time.Time // inclusive
	To      *time.Time // inclusive
	Before  *time.Time // exclusive upper bound used by cursor pagination
	Scope   ledger.Scope
	Search  string
	Settled ledger.SettledFilter
	Limit   int // zero means no limit
}

// SettledUpdate selects rows for a bulk settle update, by ids or by an
// inclusive occurred_at range.
type SettledUpdate struct {
	Target  ledger.Selector
	Settled bool
}

// ILedgerEntryTable defines the interface for the remote ledger data service.
// This abstraction allows swapping the implementation (e.g. Bob) without changing callers.
//go:generate mockery --name ILedgerEntryTable --inpackage --with-expecter --filename mock_ILedgerEntryTable.go
type ILedgerEntryTable interface {
	List(ctx context.Context, filter *LedgerEntryFilter) ([]*ledger.Entry, error)
	FindByID(ctx context.Context, id string) (*ledger.Entry, error)
	Upsert(ctx context.Context, entry *ledger.Entry) (*ledger.Entry, error)
	UpdateSettled(ctx context.Context, id string, settled bool) error
	UpdateSettledWhere(ctx context.Context, update *SettledUpdate) (int64, error)
	Delete(ctx context.Context, id string) error
	DeleteWhere(ctx context.Context, target ledger.Selector) (int64, error)
}
