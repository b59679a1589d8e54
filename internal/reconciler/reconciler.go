// Package reconciler folds single-entry mutations into the month cache
// without refetching the month.
package reconciler

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-sync/internal/cache"
	"github.com/carson-networks/ledger-sync/internal/ledger"
	"github.com/carson-networks/ledger-sync/internal/operator/actions"
	"github.com/carson-networks/ledger-sync/internal/timeboundary"
)

// PageEdit transforms a cached month page. Edits must not modify their input.
type PageEdit func(items []ledger.Entry) []ledger.Entry

// PatchObserver is told about every page edit before it is applied, so an
// in-flight revalidation can replay it on top of its result.
type PatchObserver interface {
	ObservePatch(month timeboundary.MonthKey, edit PageEdit)
}

type Reconciler struct {
	cache         *cache.MonthlyCache
	offsetMinutes int
	observer      PatchObserver
	log           *logrus.Logger
}

var (
	_ actions.PatchApplier  = (*Reconciler)(nil)
	_ actions.DeleteApplier = (*Reconciler)(nil)
)

func New(monthly *cache.MonthlyCache, offsetMinutes int, log *logrus.Logger) *Reconciler {
	return &Reconciler{
		cache:         monthly,
		offsetMinutes: offsetMinutes,
		log:           log,
	}
}

// SetObserver registers the observer notified of page edits.
func (r *Reconciler) SetObserver(observer PatchObserver) {
	r.observer = observer
}

// ApplyPatch moves or updates newEntry in the cached month pages. When the
// civil month changed, newEntry's id is removed from the old month first.
// Uncached months are left alone. Applying the same pair twice leaves the
// cache as applying it once.
func (r *Reconciler) ApplyPatch(ctx context.Context, oldEntry *ledger.Entry, newEntry ledger.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	newMonth := newEntry.MonthKey(r.offsetMinutes)
	if oldEntry != nil {
		if oldMonth := oldEntry.MonthKey(r.offsetMinutes); oldMonth != newMonth {
			r.edit(ctx, oldMonth, func(items []ledger.Entry) []ledger.Entry {
				return ledger.RemoveByID(items, newEntry.ID)
			})
		}
	}

	r.edit(ctx, newMonth, func(items []ledger.Entry) []ledger.Entry {
		return ledger.UpsertFront(items, newEntry)
	})
	return nil
}

// ApplyDelete removes entry from its cached month.
func (r *Reconciler) ApplyDelete(ctx context.Context, entry ledger.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.edit(ctx, entry.MonthKey(r.offsetMinutes), func(items []ledger.Entry) []ledger.Entry {
		return ledger.RemoveByID(items, entry.ID)
	})
	return nil
}

func (r *Reconciler) edit(ctx context.Context, month timeboundary.MonthKey, edit PageEdit) {
	if r.observer != nil {
		r.observer.ObservePatch(month, edit)
	}

	items, ok := r.cache.Get(ctx, month)
	if !ok {
		r.log.WithField("month", month).Debug("Reconciler.MonthNotCached")
		return
	}
	r.cache.Set(ctx, month, edit(items))
}
