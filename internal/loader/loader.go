// Package loader serves month pages cache-first, revalidating stale months
// in the background.
package loader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-sync/internal/cache"
	"github.com/carson-networks/ledger-sync/internal/ledger"
	"github.com/carson-networks/ledger-sync/internal/operator/actions"
	"github.com/carson-networks/ledger-sync/internal/reconciler"
	"github.com/carson-networks/ledger-sync/internal/timeboundary"
)

// RevalidatePolicy decides what happens to patches applied while a month
// fetch is in flight.
type RevalidatePolicy string

const (
	// PolicyOverwrite stores the fetched page as-is; patches applied during
	// the fetch are lost until the next revalidation.
	PolicyOverwrite RevalidatePolicy = "overwrite"
	// PolicyReconcile replays those patches on the fetched page before storing it.
	PolicyReconcile RevalidatePolicy = "reconcile"
)

func ParsePolicy(s string) (RevalidatePolicy, error) {
	switch p := RevalidatePolicy(s); p {
	case PolicyOverwrite, PolicyReconcile:
		return p, nil
	case "":
		return PolicyOverwrite, nil
	}
	return "", fmt.Errorf("unknown revalidate policy %q", s)
}

// MonthFetcher reads a whole civil month from the remote store.
type MonthFetcher interface {
	FetchMonth(ctx context.Context, month timeboundary.MonthKey) ([]ledger.Entry, error)
}

// Scheduler runs actions in the background.
type Scheduler interface {
	Submit(ctx context.Context, action actions.IAction)
}

type flight struct {
	edits []reconciler.PageEdit
}

type Loader struct {
	cache     *cache.MonthlyCache
	remote    MonthFetcher
	scheduler Scheduler
	policy    RevalidatePolicy
	log       *logrus.Logger

	mu        sync.Mutex
	inflight  map[timeboundary.MonthKey]map[*flight]struct{}
	scheduled map[timeboundary.MonthKey]bool
}

var (
	_ actions.Revalidator      = (*Loader)(nil)
	_ reconciler.PatchObserver = (*Loader)(nil)
)

func New(monthly *cache.MonthlyCache, remote MonthFetcher, scheduler Scheduler, policy RevalidatePolicy, log *logrus.Logger) *Loader {
	return &Loader{
		cache:     monthly,
		remote:    remote,
		scheduler: scheduler,
		policy:    policy,
		log:       log,
		inflight:  make(map[timeboundary.MonthKey]map[*flight]struct{}),
		scheduled: make(map[timeboundary.MonthKey]bool),
	}
}

func (l *Loader) Policy() RevalidatePolicy {
	return l.policy
}

// Load returns the cached page for month when there is one, scheduling a
// background revalidation if it is stale. A cold month is fetched, stored
// and returned. Only a cold fetch can fail.
func (l *Loader) Load(ctx context.Context, month timeboundary.MonthKey) ([]ledger.Entry, error) {
	if items, ok := l.cache.Get(ctx, month); ok {
		if l.cache.IsStale(ctx, month) {
			l.scheduleRevalidate(ctx, month)
		}
		return items, nil
	}

	items, err := l.fetchAndStore(ctx, month)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Refetch drops month from both cache tiers and loads it again.
func (l *Loader) Refetch(ctx context.Context, month timeboundary.MonthKey) ([]ledger.Entry, error) {
	l.cache.ClearMonth(ctx, month)
	return l.Load(ctx, month)
}

// Revalidate fetches the whole month and replaces its cache entry.
func (l *Loader) Revalidate(ctx context.Context, month timeboundary.MonthKey) error {
	defer func() {
		l.mu.Lock()
		delete(l.scheduled, month)
		l.mu.Unlock()
	}()

	_, err := l.fetchAndStore(ctx, month)
	return err
}

// ObservePatch records edit against every fetch of month currently in flight.
func (l *Loader) ObservePatch(month timeboundary.MonthKey, edit reconciler.PageEdit) {
	if l.policy != PolicyReconcile {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for f := range l.inflight[month] {
		f.edits = append(f.edits, edit)
	}
}

func (l *Loader) scheduleRevalidate(ctx context.Context, month timeboundary.MonthKey) {
	l.mu.Lock()
	if l.scheduled[month] {
		l.mu.Unlock()
		return
	}
	l.scheduled[month] = true
	l.mu.Unlock()

	l.log.WithField("month", month).Debug("Loader.ScheduleRevalidate")
	l.scheduler.Submit(ctx, &actions.RevalidateMonth{Month: month, Loader: l})
}

func (l *Loader) fetchAndStore(ctx context.Context, month timeboundary.MonthKey) ([]ledger.Entry, error) {
	f := l.begin(month)
	start := time.Now()

	items, err := l.remote.FetchMonth(ctx, month)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.end(month, f)
	if err != nil {
		return nil, err
	}

	// Stored under the lock so an edit observed after this point sees the
	// fetched page in the cache.
	for _, edit := range f.edits {
		items = edit(items)
	}
	l.cache.Set(ctx, month, items)

	l.log.WithFields(logrus.Fields{
		"month":      month,
		"count":      len(items),
		"replayed":   len(f.edits),
		"durationMs": time.Since(start).Milliseconds(),
	}).Debug("Loader.FetchMonth")
	return ledger.Clone(items), nil
}

func (l *Loader) begin(month timeboundary.MonthKey) *flight {
	f := &flight{}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.inflight[month] == nil {
		l.inflight[month] = make(map[*flight]struct{})
	}
	l.inflight[month][f] = struct{}{}
	return f
}

// end must be called with l.mu held.
func (l *Loader) end(month timeboundary.MonthKey, f *flight) {
	delete(l.inflight[month], f)
	if len(l.inflight[month]) == 0 {
		delete(l.inflight, month)
	}
}
