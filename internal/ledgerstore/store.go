// Package ledgerstore holds the displayed ledger view: a deduplicated list
// of entries with optimistic settle toggles and cursor-driven paging.
package ledgerstore

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-sync/internal/ledger"
	"github.com/carson-networks/ledger-sync/internal/operator/actions"
	"github.com/carson-networks/ledger-sync/internal/timeboundary"
)

// Remote is the subset of the entry service the store drives.
type Remote interface {
	ListEntries(ctx context.Context, query ledger.Query) (*ledger.Page, error)
	SetSettled(ctx context.Context, id string, settled bool) error
	SetSettledBulk(ctx context.Context, target ledger.Selector, settled bool) (int64, error)
}

// MonthLoader serves month pages cache-first.
type MonthLoader interface {
	Load(ctx context.Context, month timeboundary.MonthKey) ([]ledger.Entry, error)
	Refetch(ctx context.Context, month timeboundary.MonthKey) ([]ledger.Entry, error)
}

// Reconciler keeps the month cache in step with single-entry changes.
type Reconciler interface {
	actions.PatchApplier
	actions.DeleteApplier
}

// Scheduler runs actions in the background.
type Scheduler interface {
	Submit(ctx context.Context, action actions.IAction)
}

// Snapshot is a copy of the store state.
type Snapshot struct {
	Items      []ledger.Entry
	NextCursor timeboundary.Cursor
	Loading    bool
	Err        error
	Query      *ledger.Query
}

type Deps struct {
	Remote        Remote
	Months        MonthLoader
	Reconciler    Reconciler
	Scheduler     Scheduler
	OffsetMinutes int
	Log           *logrus.Logger
	Now           func() time.Time
}

type Store struct {
	deps Deps

	mu         sync.Mutex
	items      []ledger.Entry
	nextCursor timeboundary.Cursor
	loading    int
	err        error
	lastQuery  *ledger.Query
}

func New(deps Deps) *Store {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}
	return &Store{deps: deps}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Items:      ledger.Clone(s.items),
		NextCursor: s.nextCursor,
		Loading:    s.loading > 0,
		Err:        s.err,
	}
	if s.lastQuery != nil {
		q := *s.lastQuery
		snap.Query = &q
	}
	return snap
}

// Load replaces the view with the first page of query. A failure is kept in
// the snapshot's Err rather than returned.
func (s *Store) Load(ctx context.Context, query ledger.Query) {
	s.mu.Lock()
	s.loading++
	s.err = nil
	q := query
	s.lastQuery = &q
	s.mu.Unlock()
	defer s.doneLoading()

	page, err := s.deps.Remote.ListEntries(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err
		s.deps.Log.WithError(err).Warn("LedgerStore.Load.Error")
		return
	}
	s.items = ledger.MergeByID(nil, page.Items)
	s.nextCursor = page.NextCursor
}

// LoadThisMonth loads the current civil month.
func (s *Store) LoadThisMonth(ctx context.Context) {
	from, to := timeboundary.CivilMonthKey(s.deps.Now(), s.deps.OffsetMinutes).Bounds(s.deps.OffsetMinutes)
	s.Load(ctx, ledger.Query{From: &from, To: &to})
}

// LoadMore appends the next page of the last query, merging by id. It does
// nothing without a last query or a next cursor.
func (s *Store) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	if s.lastQuery == nil || s.nextCursor == "" {
		s.mu.Unlock()
		return nil
	}
	query := s.lastQuery.WithCursor(s.nextCursor)
	s.loading++
	s.mu.Unlock()
	defer s.doneLoading()

	page, err := s.deps.Remote.ListEntries(ctx, query)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = ledger.MergeByID(s.items, page.Items)
	s.nextCursor = page.NextCursor
	return nil
}

// LoadMonth replaces the view with a cache-first read of month.
func (s *Store) LoadMonth(ctx context.Context, month timeboundary.MonthKey) {
	from, to := month.Bounds(s.deps.OffsetMinutes)

	s.mu.Lock()
	s.loading++
	s.err = nil
	s.lastQuery = &ledger.Query{From: &from, To: &to}
	s.mu.Unlock()
	defer s.doneLoading()

	items, err := s.deps.Months.Load(ctx, month)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err
		s.deps.Log.WithError(err).WithField("month", month).Warn("LedgerStore.LoadMonth.Error")
		return
	}
	s.items = ledger.MergeByID(nil, items)
	s.nextCursor = ""
}

// ForceRefetchMonth drops month from the cache, loads it again and merges
// the result into the view.
func (s *Store) ForceRefetchMonth(ctx context.Context, month timeboundary.MonthKey) {
	s.mu.Lock()
	s.loading++
	s.err = nil
	s.mu.Unlock()
	defer s.doneLoading()

	items, err := s.deps.Months.Refetch(ctx, month)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err
		s.deps.Log.WithError(err).WithField("month", month).Warn("LedgerStore.ForceRefetchMonth.Error")
		return
	}
	s.items = ledger.MergeByID(s.items, items)
}

// MarkSettled sets the settled flag locally, then remotely. If the remote
// update fails the previous value is restored and the error returned.
func (s *Store) MarkSettled(ctx context.Context, id string, settled bool) error {
	s.mu.Lock()
	prev, found := ledger.FindByID(s.items, id)
	if found {
		s.items = withSettled(s.items, ledger.Selector{IDs: []string{id}}, settled)
	}
	s.mu.Unlock()

	if err := s.deps.Remote.SetSettled(ctx, id, settled); err != nil {
		if found {
			s.mu.Lock()
			s.items = withSettled(s.items, ledger.Selector{IDs: []string{id}}, prev.Settled)
			s.mu.Unlock()
		}
		return err
	}

	if found {
		next := prev
		next.Settled = settled
		s.reconcile(ctx, &prev, next)
	}
	return nil
}

// MarkSettledBulk sets the settled flag on every selected entry locally,
// then remotely. If the remote update fails the last query is reloaded and
// the error returned.
func (s *Store) MarkSettledBulk(ctx context.Context, target ledger.Selector, settled bool) error {
	s.mu.Lock()
	var changed []ledger.Entry
	for _, item := range s.items {
		if target.Matches(item) {
			changed = append(changed, item)
		}
	}
	s.items = withSettled(s.items, target, settled)
	s.mu.Unlock()

	if _, err := s.deps.Remote.SetSettledBulk(ctx, target, settled); err != nil {
		s.mu.Lock()
		query := s.lastQuery
		s.mu.Unlock()
		if query != nil {
			s.Load(ctx, *query)
		}
		return err
	}

	for i := range changed {
		next := changed[i]
		next.Settled = settled
		s.reconcile(ctx, &changed[i], next)
	}
	return nil
}

// UpsertOne puts entry in the view and reconciles the month cache in the
// background, using the view's copy as the previous version.
func (s *Store) UpsertOne(ctx context.Context, entry ledger.Entry) {
	s.UpsertOneFrom(ctx, nil, entry)
}

// UpsertOneFrom is UpsertOne with an explicit previous version, for entries
// that may not be in the view.
func (s *Store) UpsertOneFrom(ctx context.Context, prev *ledger.Entry, entry ledger.Entry) {
	s.mu.Lock()
	if prev == nil {
		if existing, ok := ledger.FindByID(s.items, entry.ID); ok {
			prev = &existing
		}
	}
	s.items = ledger.UpsertFront(s.items, entry)
	s.mu.Unlock()

	s.reconcile(ctx, prev, entry)
}

// RemoveOne drops entry from the view and from its cached month.
func (s *Store) RemoveOne(ctx context.Context, entry ledger.Entry) {
	s.mu.Lock()
	s.items = ledger.RemoveByID(s.items, entry.ID)
	s.mu.Unlock()

	s.deps.Scheduler.Submit(ctx, &actions.ReconcileDelete{Entry: entry, Reconciler: s.deps.Reconciler})
}

// RemoveWhere drops every selected entry from the view and reconciles each
// removed entry out of its cached month. It returns the removed entries.
func (s *Store) RemoveWhere(ctx context.Context, target ledger.Selector) []ledger.Entry {
	s.mu.Lock()
	var removed []ledger.Entry
	kept := make([]ledger.Entry, 0, len(s.items))
	for _, item := range s.items {
		if target.Matches(item) {
			removed = append(removed, item)
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	s.mu.Unlock()

	for _, entry := range removed {
		s.deps.Scheduler.Submit(ctx, &actions.ReconcileDelete{Entry: entry, Reconciler: s.deps.Reconciler})
	}
	return removed
}

// Reset clears the view, cursor, error and last query.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.nextCursor = ""
	s.err = nil
	s.lastQuery = nil
}

func (s *Store) reconcile(ctx context.Context, prev *ledger.Entry, next ledger.Entry) {
	s.deps.Scheduler.Submit(ctx, &actions.ReconcilePatch{Old: prev, New: next, Reconciler: s.deps.Reconciler})
}

func (s *Store) doneLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading--
}

func withSettled(items []ledger.Entry, target ledger.Selector, settled bool) []ledger.Entry {
	out := make([]ledger.Entry, len(items))
	for i, item := range items {
		if target.Matches(item) {
			item.Settled = settled
		}
		out[i] = item
	}
	return out
}
