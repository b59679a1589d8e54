package app

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-sync/internal/config"
	"github.com/carson-networks/ledger-sync/internal/kvstore"
	"github.com/carson-networks/ledger-sync/internal/ledger"
	"github.com/carson-networks/ledger-sync/internal/logging"
	"github.com/carson-networks/ledger-sync/internal/storage"
	"github.com/carson-networks/ledger-sync/internal/storage/memory"
)

var taipei = time.FixedZone("UTC+8", 8*60*60)

func testConfig() *config.Config {
	return &config.Config{
		CivilOffsetMinutes: 480,
		CacheStaleAfter:    5 * time.Minute,
		PageLimit:          50,
		RevalidatePolicy:   config.RevalidatePolicyOverwrite,
		Workers:            1,
	}
}

func newTestApp(t *testing.T) (*App, *memory.LedgerEntriesTable) {
	t.Helper()
	logger := logging.SetupLogging()
	logger.Out = io.Discard

	store, table := storage.NewMemoryStorage()
	a, err := New(context.Background(), testConfig(), logger, Options{
		Storage: store,
		KV:      kvstore.NewMemoryStore(),
		Now:     func() time.Time { return time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	a.Start()
	t.Cleanup(func() { a.Close() })
	return a, table
}

func newEntry(id string, occurredAt time.Time) ledger.Entry {
	return ledger.Entry{
		ID:         id,
		PayerID:    "payer@example.com",
		Amount:     decimal.NewFromInt(500),
		Currency:   ledger.CurrencyTWD,
		OccurredAt: occurredAt.UTC(),
		Scope:      ledger.ScopeHousehold,
	}
}

func ids(entries []ledger.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestSaveEntry_MovesCachedEntryBetweenMonths(t *testing.T) {
	ctx := context.Background()
	a, table := newTestApp(t)
	table.Seed(newEntry("E1", time.Date(2025, 10, 31, 23, 30, 0, 0, taipei)))

	october, err := a.Month(ctx, "2025-10")
	require.NoError(t, err)
	require.Equal(t, []string{"E1"}, ids(october))
	november, err := a.Month(ctx, "2025-11")
	require.NoError(t, err)
	require.Empty(t, november)

	moved := newEntry("E1", time.Date(2025, 11, 1, 0, 30, 0, 0, taipei))
	_, err = a.SaveEntry(ctx, moved)
	require.NoError(t, err)
	a.Operator.Wait()

	october, _ = a.Cache.Get(ctx, "2025-10")
	november, _ = a.Cache.Get(ctx, "2025-11")
	assert.Empty(t, october)
	assert.Equal(t, []string{"E1"}, ids(november))
	assert.Equal(t, []string{"E1"}, ids(a.Ledger.Snapshot().Items))
}

func TestDeleteEntry_RemovesFromCacheAndView(t *testing.T) {
	ctx := context.Background()
	a, table := newTestApp(t)
	table.Seed(
		newEntry("a", time.Date(2025, 10, 10, 9, 0, 0, 0, taipei)),
		newEntry("b", time.Date(2025, 10, 11, 9, 0, 0, 0, taipei)),
	)
	a.Ledger.LoadMonth(ctx, "2025-10")

	require.NoError(t, a.DeleteEntry(ctx, "a"))
	a.Operator.Wait()

	october, _ := a.Cache.Get(ctx, "2025-10")
	assert.Equal(t, []string{"b"}, ids(october))
	assert.Equal(t, []string{"b"}, ids(a.Ledger.Snapshot().Items))

	_, err := table.FindByID(ctx, "a")
	assert.Error(t, err)
}

func TestDeleteEntries_RemovesFromEveryCachedMonth(t *testing.T) {
	ctx := context.Background()
	a, table := newTestApp(t)
	table.Seed(
		newEntry("a", time.Date(2025, 10, 10, 9, 0, 0, 0, taipei)),
		newEntry("b", time.Date(2025, 10, 11, 9, 0, 0, 0, taipei)),
		newEntry("c", time.Date(2025, 11, 1, 9, 0, 0, 0, taipei)),
	)
	a.Ledger.LoadMonth(ctx, "2025-10")
	_, err := a.Month(ctx, "2025-11")
	require.NoError(t, err)

	deleted, err := a.DeleteEntries(ctx, ledger.Selector{IDs: []string{"a", "c"}})
	require.NoError(t, err)
	a.Operator.Wait()

	assert.Equal(t, int64(2), deleted)
	october, _ := a.Cache.Get(ctx, "2025-10")
	november, _ := a.Cache.Get(ctx, "2025-11")
	assert.Equal(t, []string{"b"}, ids(october))
	assert.Empty(t, november)
	assert.Equal(t, []string{"b"}, ids(a.Ledger.Snapshot().Items))
}

func TestDeleteEntries_EmptySelectorDeletesNothing(t *testing.T) {
	ctx := context.Background()
	a, table := newTestApp(t)
	table.Seed(newEntry("a", time.Date(2025, 10, 10, 9, 0, 0, 0, taipei)))

	deleted, err := a.DeleteEntries(ctx, ledger.Selector{IDs: []string{}})
	require.NoError(t, err)

	assert.Zero(t, deleted)
	_, err = table.FindByID(ctx, "a")
	assert.NoError(t, err)
}

func TestSaveEntry_RecordsRemoteTimeOnRequestLog(t *testing.T) {
	a, table := newTestApp(t)
	table.Seed(newEntry("a", time.Date(2025, 10, 10, 9, 0, 0, 0, taipei)))
	logData := logging.NewLogData(a.Log)
	ctx := logging.WithLogData(context.Background(), logData)

	_, err := a.SaveEntry(ctx, newEntry("a", time.Date(2025, 10, 12, 9, 0, 0, 0, taipei)))
	require.NoError(t, err)
	a.Operator.Wait()

	assert.Contains(t, logData.Log().Data, "remoteMs")
}

func TestSummary_UsesCachedMonth(t *testing.T) {
	ctx := context.Background()
	a, table := newTestApp(t)
	table.Seed(newEntry("a", time.Date(2025, 10, 10, 9, 0, 0, 0, taipei)))

	sum, err := a.Summary(ctx, "2025-10")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Count)
	assert.True(t, sum.Household.Equal(decimal.NewFromInt(500)))
}

func TestReset_ClearsBothCacheTiers(t *testing.T) {
	ctx := context.Background()
	a, table := newTestApp(t)
	table.Seed(newEntry("a", time.Date(2025, 10, 10, 9, 0, 0, 0, taipei)))
	a.Ledger.LoadMonth(ctx, "2025-10")

	a.Reset(ctx)

	_, ok := a.Cache.Get(ctx, "2025-10")
	assert.False(t, ok)
	assert.Empty(t, a.Ledger.Snapshot().Items)
}

func TestNew_RejectsUnknownPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.RevalidatePolicy = "merge"
	store, _ := storage.NewMemoryStorage()

	_, err := New(context.Background(), cfg, logging.SetupLogging(), Options{Storage: store, KV: kvstore.NewMemoryStore()})

	assert.Error(t, err)
}
