package actions

import (
	"context"

	"github.com/carson-networks/ledger-sync/internal/ledger"
)

type PatchApplier interface {
	ApplyPatch(ctx context.Context, oldEntry *ledger.Entry, newEntry ledger.Entry) error
}

type DeleteApplier interface {
	ApplyDelete(ctx context.Context, entry ledger.Entry) error
}

// ReconcilePatch folds a created or updated entry into the month cache.
type ReconcilePatch struct {
	Old        *ledger.Entry
	New        ledger.Entry
	Reconciler PatchApplier

	IAction
}

func (r *ReconcilePatch) Name() string {
	return "ReconcilePatch:" + r.New.ID
}

func (r *ReconcilePatch) Perform(ctx context.Context) error {
	return r.Reconciler.ApplyPatch(ctx, r.Old, r.New)
}

// ReconcileDelete drops a deleted entry from its cached month.
type ReconcileDelete struct {
	Entry      ledger.Entry
	Reconciler DeleteApplier

	IAction
}

func (r *ReconcileDelete) Name() string {
	return "ReconcileDelete:" + r.Entry.ID
}

func (r *ReconcileDelete) Perform(ctx context.Context) error {
	return r.Reconciler.ApplyDelete(ctx, r.Entry)
}
