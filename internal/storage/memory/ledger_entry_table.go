package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/carson-networks/ledger-sync/internal/ledger"
	"github.com/carson-networks/ledger-sync/internal/storage/sqlconfig"
)

// LedgerEntriesTable is an in-memory implementation of sqlconfig.ILedgerEntryTable.
// It applies the same filter and ordering rules as the Postgres table.
type LedgerEntriesTable struct {
	mu      sync.Mutex
	entries map[string]ledger.Entry
	now     func() time.Time
}

// Compile-time check: ensure LedgerEntriesTable implements ILedgerEntryTable
var _ sqlconfig.ILedgerEntryTable = (*LedgerEntriesTable)(nil)

func NewLedgerEntriesTable() *LedgerEntriesTable {
	return &LedgerEntriesTable{
		entries: make(map[string]ledger.Entry),
		now:     time.Now,
	}
}

// Seed stores entries as-is, bypassing timestamps.
func (t *LedgerEntriesTable) Seed(entries ...ledger.Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, e := range entries {
		t.entries[e.ID] = e
	}
}

func (t *LedgerEntriesTable) List(ctx context.Context, filter *sqlconfig.LedgerEntryFilter) ([]*ledger.Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var result []*ledger.Entry
	for _, e := range t.entries {
		if filter != nil && !matches(filter, e) {
			continue
		}
		entry := e
		result = append(result, &entry)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].OccurredAt.Equal(result[j].OccurredAt) {
			return result[i].OccurredAt.After(result[j].OccurredAt)
		}
		return result[i].ID > result[j].ID
	})

	if filter != nil && filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (t *LedgerEntriesTable) FindByID(ctx context.Context, id string) (*ledger.Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[id]
	if !ok {
		return nil, sqlconfig.ErrEntryNotFound
	}
	return &e, nil
}

func (t *LedgerEntriesTable) Upsert(ctx context.Context, entry *ledger.Entry) (*ledger.Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now().UTC()
	stored := *entry
	stored.OccurredAt = stored.OccurredAt.UTC()
	if existing, ok := t.entries[entry.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	t.entries[stored.ID] = stored
	return &stored, nil
}

func (t *LedgerEntriesTable) UpdateSettled(ctx context.Context, id string, settled bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[id]
	if !ok {
		return sqlconfig.ErrEntryNotFound
	}
	e.Settled = settled
	e.UpdatedAt = t.now().UTC()
	t.entries[id] = e
	return nil
}

func (t *LedgerEntriesTable) UpdateSettledWhere(ctx context.Context, update *sqlconfig.SettledUpdate) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var affected int64
	for id, e := range t.entries {
		if update.Target.Matches(e) {
			e.Settled = update.Settled
			e.UpdatedAt = t.now().UTC()
			t.entries[id] = e
			affected++
		}
	}
	return affected, nil
}

func (t *LedgerEntriesTable) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.entries[id]; !ok {
		return sqlconfig.ErrEntryNotFound
	}
	delete(t.entries, id)
	return nil
}

func (t *LedgerEntriesTable) DeleteWhere(ctx context.Context, target ledger.Selector) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var affected int64
	for id, e := range t.entries {
		if target.Matches(e) {
			delete(t.entries, id)
			affected++
		}
	}
	return affected, nil
}

func matches(filter *sqlconfig.LedgerEntryFilter, e ledger.Entry) bool {
	if filter.From != nil && e.OccurredAt.Before(*filter.From) {
		return false
	}
	if filter.To != nil && e.OccurredAt.After(*filter.To) {
		return false
	}
	if filter.Before != nil && !e.OccurredAt.Before(*filter.Before) {
		return false
	}
	if filter.Scope != "" && filter.Scope != ledger.ScopeAll && e.Scope != filter.Scope {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(e.Note), needle) && !strings.Contains(strings.ToLower(e.Notes), needle) {
			return false
		}
	}
	switch filter.Settled {
	case ledger.SettledOnly:
		return e.Settled
	case ledger.UnsettledOnly:
		return !e.Settled
	}
	return true
}
