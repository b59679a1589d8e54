package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-sync/internal/ledger"
	"github.com/carson-networks/ledger-sync/internal/storage"
	"github.com/carson-networks/ledger-sync/internal/storage/sqlconfig"
	"github.com/carson-networks/ledger-sync/internal/timeboundary"
)

// EntryService is the query and mutation surface over the remote ledger.
type EntryService struct {
	storage       *storage.Storage
	pageLimit     int
	offsetMinutes int
	log           *logrus.Logger
}

// NewEntryService creates a new EntryService.
func NewEntryService(store *storage.Storage, opts Options) *EntryService {
	svc := &EntryService{
		storage:       store,
		pageLimit:     defaultLimit,
		offsetMinutes: defaultOffset,
		log:           opts.Logger,
	}
	if opts.PageLimit > 0 {
		svc.pageLimit = opts.PageLimit
	}
	if opts.CivilOffsetMinutes != nil {
		svc.offsetMinutes = *opts.CivilOffsetMinutes
	}
	if svc.log == nil {
		svc.log = logrus.StandardLogger()
	}
	return svc
}

func (s *EntryService) OffsetMinutes() int {
	return s.offsetMinutes
}

// ListEntries returns one page of entries in (occurredAt DESC, id DESC) order.
// One extra row is fetched to decide whether a next page exists; the next
// cursor resumes strictly before the last returned item's occurredAt.
func (s *EntryService) ListEntries(ctx context.Context, query ledger.Query) (*ledger.Page, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = s.pageLimit
	}

	filter := &sqlconfig.LedgerEntryFilter{
		From:    query.From,
		To:      query.To,
		Scope:   query.Scope,
		Search:  query.Search,
		Settled: query.Settled,
		Limit:   limit + 1,
	}

	if query.Cursor != "" {
		key, err := timeboundary.DecodeCursor(query.Cursor)
		if err != nil {
			return nil, err
		}
		filter.Before = &key.SortKey
	}

	rows, err := s.storage.Entries.List(ctx, filter)
	if err != nil {
		return nil, remoteError("list", err)
	}

	s.log.WithFields(logrus.Fields{
		"limit":   limit,
		"fetched": len(rows),
		"cursor":  query.Cursor != "",
	}).Debug("EntryService.ListEntries")

	page := &ledger.Page{}
	if len(rows) > limit {
		rows = rows[:limit]
		page.NextCursor = timeboundary.EncodeCursor(rows[limit-1].CursorKey())
	}

	page.Items = make([]ledger.Entry, len(rows))
	for i, row := range rows {
		page.Items[i] = *row
	}
	return page, nil
}

// FetchMonth returns every entry of the civil month, newest first, with no limit.
// The range is half-open at the next month's start so rows stored at any
// sub-millisecond precision land in exactly one month.
func (s *EntryService) FetchMonth(ctx context.Context, month timeboundary.MonthKey) ([]ledger.Entry, error) {
	from, _ := month.Bounds(s.offsetMinutes)
	next, _ := month.Next().Bounds(s.offsetMinutes)
	rows, err := s.storage.Entries.List(ctx, &sqlconfig.LedgerEntryFilter{
		From:   &from,
		Before: &next,
	})
	if err != nil {
		return nil, remoteError("fetch month", err)
	}

	entries := make([]ledger.Entry, len(rows))
	for i, row := range rows {
		entries[i] = *row
	}
	return entries, nil
}

// Search returns up to limit entries whose note or notes contain term.
func (s *EntryService) Search(ctx context.Context, term string, scope ledger.Scope, settled ledger.SettledFilter, limit int) ([]ledger.Entry, error) {
	page, err := s.ListEntries(ctx, ledger.Query{
		Search:  term,
		Scope:   scope,
		Settled: settled,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (s *EntryService) GetEntry(ctx context.Context, id string) (*ledger.Entry, error) {
	row, err := s.storage.Entries.FindByID(ctx, id)
	if err != nil {
		return nil, remoteError("get", err)
	}
	return row, nil
}

// UpsertEntry creates or replaces an entry. A missing id is generated.
func (s *EntryService) UpsertEntry(ctx context.Context, entry ledger.Entry) (*ledger.Entry, error) {
	if entry.ID == "" {
		id, err := uuid.NewV4()
		if err != nil {
			return nil, fmt.Errorf("uuid.NewV4: %w", err)
		}
		entry.ID = id.String()
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	entry.OccurredAt = entry.OccurredAt.UTC().Truncate(time.Millisecond)

	stored, err := s.storage.Entries.Upsert(ctx, &entry)
	if err != nil {
		return nil, remoteError("upsert", err)
	}
	return stored, nil
}

func (s *EntryService) SetSettled(ctx context.Context, id string, settled bool) error {
	return remoteError("set settled", s.storage.Entries.UpdateSettled(ctx, id, settled))
}

// SetSettledBulk applies settled to every selected entry and returns the
// number of rows changed.
func (s *EntryService) SetSettledBulk(ctx context.Context, target ledger.Selector, settled bool) (int64, error) {
	affected, err := s.storage.Entries.UpdateSettledWhere(ctx, &sqlconfig.SettledUpdate{
		Target:  target,
		Settled: settled,
	})
	if err != nil {
		return 0, remoteError("set settled bulk", err)
	}
	return affected, nil
}

func (s *EntryService) DeleteEntry(ctx context.Context, id string) error {
	return remoteError("delete", s.storage.Entries.Delete(ctx, id))
}

// DeleteEntries removes every selected entry and returns the number of rows
// deleted. An empty selector deletes nothing.
func (s *EntryService) DeleteEntries(ctx context.Context, target ledger.Selector) (int64, error) {
	affected, err := s.storage.Entries.DeleteWhere(ctx, target)
	if err != nil {
		return 0, remoteError("delete where", err)
	}
	return affected, nil
}

// MonthlySummary totals a civil month by scope.
func (s *EntryService) MonthlySummary(ctx context.Context, month timeboundary.MonthKey) (*Summary, error) {
	entries, err := s.FetchMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	return Summarize(month, entries), nil
}

// IsNotFound reports whether err means the entry does not exist remotely.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntryNotFound)
}

// Summary is the per-month total, split by scope. Amounts are summed as
// recorded; currency conversion is out of scope.
type Summary struct {
	Month     timeboundary.MonthKey `json:"month"`
	Total     decimal.Decimal       `json:"total"`
	Household decimal.Decimal       `json:"household"`
	Personal  decimal.Decimal       `json:"personal"`
	Count     int                   `json:"count"`
}

func Summarize(month timeboundary.MonthKey, entries []ledger.Entry) *Summary {
	sum := &Summary{Month: month}
	for _, e := range entries {
		sum.Total = sum.Total.Add(e.Amount)
		switch e.Scope {
		case ledger.ScopeHousehold:
			sum.Household = sum.Household.Add(e.Amount)
		case ledger.ScopePersonal:
			sum.Personal = sum.Personal.Add(e.Amount)
		}
	}
	sum.Count = len(entries)
	return sum
}
