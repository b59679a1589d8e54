// Package app wires the ledger sync layer into one explicitly owned context
// with a defined lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-sync/internal/cache"
	"github.com/carson-networks/ledger-sync/internal/config"
	"github.com/carson-networks/ledger-sync/internal/kvstore"
	"github.com/carson-networks/ledger-sync/internal/ledger"
	"github.com/carson-networks/ledger-sync/internal/ledgerstore"
	"github.com/carson-networks/ledger-sync/internal/loader"
	"github.com/carson-networks/ledger-sync/internal/logging"
	"github.com/carson-networks/ledger-sync/internal/operator"
	"github.com/carson-networks/ledger-sync/internal/operator/actions"
	"github.com/carson-networks/ledger-sync/internal/reconciler"
	"github.com/carson-networks/ledger-sync/internal/service"
	"github.com/carson-networks/ledger-sync/internal/storage"
	"github.com/carson-networks/ledger-sync/internal/timeboundary"
)

// Options overrides the collaborators New would otherwise build from config.
type Options struct {
	Storage *storage.Storage
	KV      kvstore.Store
	Now     func() time.Time
}

type App struct {
	Config     *config.Config
	Log        *logrus.Logger
	Storage    *storage.Storage
	Service    *service.Service
	KV         kvstore.Store
	Cache      *cache.MonthlyCache
	Operator   *operator.OperatorDelegator
	Reconciler *reconciler.Reconciler
	Loader     *loader.Loader
	Ledger     *ledgerstore.Store
}

func New(ctx context.Context, cfg *config.Config, log *logrus.Logger, opts Options) (*App, error) {
	policy, err := loader.ParsePolicy(cfg.RevalidatePolicy)
	if err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	store := opts.Storage
	if store == nil {
		store, err = storage.NewStorage(cfg)
		if err != nil {
			return nil, fmt.Errorf("storage.NewStorage: %w", err)
		}
	}

	kv := opts.KV
	if kv == nil {
		kv, err = kvstore.OpenSQLite(ctx, cfg.CachePath)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("kvstore.OpenSQLite: %w", err)
		}
	}

	offset := cfg.CivilOffsetMinutes
	svc := service.NewService(store, service.Options{
		PageLimit:          cfg.PageLimit,
		CivilOffsetMinutes: &offset,
		Logger:             log,
	})
	monthly := cache.New(kv, log, cache.WithClock(opts.Now), cache.WithStaleAfter(cfg.CacheStaleAfter))
	delegator := operator.NewOperatorDelegator(log, cfg.Workers)
	rec := reconciler.New(monthly, offset, log)
	months := loader.New(monthly, svc.Entry, delegator, policy, log)
	rec.SetObserver(months)

	return &App{
		Config:     cfg,
		Log:        log,
		Storage:    store,
		Service:    svc,
		KV:         kv,
		Cache:      monthly,
		Operator:   delegator,
		Reconciler: rec,
		Loader:     months,
		Ledger: ledgerstore.New(ledgerstore.Deps{
			Remote:        svc.Entry,
			Months:        months,
			Reconciler:    rec,
			Scheduler:     delegator,
			OffsetMinutes: offset,
			Log:           log,
			Now:           opts.Now,
		}),
	}, nil
}

// Start launches the background workers.
func (a *App) Start() {
	a.Operator.Start()
}

// Reset ends a session: the view is cleared and both cache tiers are emptied.
func (a *App) Reset(ctx context.Context) {
	a.Ledger.Reset()
	a.Cache.ResetMemory()
	removed := a.Cache.ClearAll(ctx)
	a.Log.WithField("removed", removed).Info("App.Reset")
}

// Close waits for background work and releases the stores.
func (a *App) Close() error {
	a.Operator.Stop()
	return errors.Join(a.KV.Close(), a.Storage.Close())
}

func (a *App) OffsetMinutes() int {
	return a.Config.CivilOffsetMinutes
}

// SaveEntry upserts entry remotely, then updates the view and reconciles the
// month cache against the previous remote version.
func (a *App) SaveEntry(ctx context.Context, entry ledger.Entry) (*ledger.Entry, error) {
	var prev *ledger.Entry
	if entry.ID != "" {
		stopTimer := remoteTimer(ctx)
		existing, err := a.Service.Entry.GetEntry(ctx, entry.ID)
		stopTimer()
		switch {
		case err == nil:
			prev = existing
		case !service.IsNotFound(err):
			return nil, err
		}
	}

	stopTimer := remoteTimer(ctx)
	stored, err := a.Service.Entry.UpsertEntry(ctx, entry)
	stopTimer()
	if err != nil {
		return nil, err
	}

	a.Ledger.UpsertOneFrom(ctx, prev, *stored)
	return stored, nil
}

// DeleteEntry removes the entry remotely, from the view and from its month.
func (a *App) DeleteEntry(ctx context.Context, id string) error {
	stopTimer := remoteTimer(ctx)
	defer stopTimer()

	existing, err := a.Service.Entry.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	if err := a.Service.Entry.DeleteEntry(ctx, id); err != nil {
		return err
	}

	a.Ledger.RemoveOne(ctx, *existing)
	return nil
}

// DeleteEntries removes the selected entries remotely, then from the view
// and from every cached month that holds one of them.
func (a *App) DeleteEntries(ctx context.Context, target ledger.Selector) (int64, error) {
	stopTimer := remoteTimer(ctx)
	deleted, err := a.Service.Entry.DeleteEntries(ctx, target)
	stopTimer()
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, nil
	}

	a.Ledger.RemoveWhere(ctx, target)
	for _, month := range a.Cache.Months(ctx) {
		items, ok := a.Cache.Get(ctx, month)
		if !ok {
			continue
		}
		for _, item := range items {
			if target.Matches(item) {
				a.Operator.Submit(ctx, &actions.ReconcileDelete{Entry: item, Reconciler: a.Reconciler})
			}
		}
	}

	a.Log.WithField("deleted", deleted).Info("App.DeleteEntries")
	return deleted, nil
}

func (a *App) SetSettled(ctx context.Context, id string, settled bool) error {
	return a.Ledger.MarkSettled(ctx, id, settled)
}

func (a *App) SetSettledBulk(ctx context.Context, target ledger.Selector, settled bool) error {
	return a.Ledger.MarkSettledBulk(ctx, target, settled)
}

// Month returns a cache-first read of month.
func (a *App) Month(ctx context.Context, month timeboundary.MonthKey) ([]ledger.Entry, error) {
	return a.Loader.Load(ctx, month)
}

// Summary totals month from its cache-first page.
func (a *App) Summary(ctx context.Context, month timeboundary.MonthKey) (*service.Summary, error) {
	items, err := a.Loader.Load(ctx, month)
	if err != nil {
		return nil, err
	}
	return service.Summarize(month, items), nil
}

// remoteTimer adds the time of a remote call to the request's remoteMs total.
func remoteTimer(ctx context.Context) func() {
	logData := logging.GetLogData(ctx)
	if logData == nil {
		return func() {}
	}
	return logData.AddToExistingTiming("remoteMs")
}
