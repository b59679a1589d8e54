package actions

import (
	"context"

	"github.com/carson-networks/ledger-sync/internal/timeboundary"
)

type Revalidator interface {
	Revalidate(ctx context.Context, month timeboundary.MonthKey) error
}

// RevalidateMonth refetches one month and overwrites its cache entry.
type RevalidateMonth struct {
	Month  timeboundary.MonthKey
	Loader Revalidator

	IAction
}

func (r *RevalidateMonth) Name() string {
	return "RevalidateMonth:" + string(r.Month)
}

func (r *RevalidateMonth) Perform(ctx context.Context) error {
	return r.Loader.Revalidate(ctx, r.Month)
}
