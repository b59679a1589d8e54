package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-sync/internal/ledger"
	"github.com/carson-networks/ledger-sync/internal/storage"
	"github.com/carson-networks/ledger-sync/internal/storage/memory"
	"github.com/carson-networks/ledger-sync/internal/storage/sqlconfig"
	"github.com/carson-networks/ledger-sync/internal/timeboundary"
)

func newTestService(t *testing.T) (*EntryService, *sqlconfig.MockILedgerEntryTable) {
	t.Helper()
	mockTable := sqlconfig.NewMockILedgerEntryTable(t)
	store := &storage.Storage{Entries: mockTable}
	return NewEntryService(store, Options{}), mockTable
}

func newMemoryService(entries ...ledger.Entry) (*EntryService, *memory.LedgerEntriesTable) {
	store, table := storage.NewMemoryStorage()
	table.Seed(entries...)
	return NewEntryService(store, Options{}), table
}

func entryAt(id string, occurredAt time.Time, amount int64, scope ledger.Scope) ledger.Entry {
	return ledger.Entry{
		ID:         id,
		PayerID:    "payer@example.com",
		Amount:     decimal.NewFromInt(amount),
		Currency:   ledger.CurrencyTWD,
		OccurredAt: occurredAt,
		Scope:      scope,
	}
}

func ids(entries []ledger.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

// -- ListEntries tests --

func TestListEntries_OverFetchesAndBuildsCursor(t *testing.T) {
	base := time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)
	svc, _ := newMemoryService(
		entryAt("a", base.Add(3*time.Hour), 1, ledger.ScopeHousehold),
		entryAt("b", base.Add(2*time.Hour), 1, ledger.ScopeHousehold),
		entryAt("c", base.Add(time.Hour), 1, ledger.ScopeHousehold),
	)

	page, err := svc.ListEntries(context.Background(), ledger.Query{Limit: 2})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(page.Items))
	require.True(t, page.HasNext())

	key, err := timeboundary.DecodeCursor(page.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, "b", key.ID)
	assert.True(t, key.SortKey.Equal(base.Add(2*time.Hour)))

	next, err := svc.ListEntries(context.Background(), ledger.Query{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids(next.Items))
	assert.False(t, next.HasNext())
}

func TestListEntries_ExactPageHasNoCursor(t *testing.T) {
	base := time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)
	svc, _ := newMemoryService(
		entryAt("a", base.Add(time.Hour), 1, ledger.ScopeHousehold),
		entryAt("b", base, 1, ledger.ScopeHousehold),
	)

	page, err := svc.ListEntries(context.Background(), ledger.Query{Limit: 2})

	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.False(t, page.HasNext())
}

func TestListEntries_TiedSortKeysAfterCursorAreSkipped(t *testing.T) {
	tie := time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)
	svc, _ := newMemoryService(
		entryAt("c", tie, 1, ledger.ScopeHousehold),
		entryAt("b", tie, 1, ledger.ScopeHousehold),
		entryAt("a", tie.Add(-time.Hour), 1, ledger.ScopeHousehold),
	)

	page, err := svc.ListEntries(context.Background(), ledger.Query{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids(page.Items))

	next, err := svc.ListEntries(context.Background(), ledger.Query{Limit: 1, Cursor: page.NextCursor})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(next.Items))
}

func TestListEntries_DefaultLimit(t *testing.T) {
	svc, mockTable := newTestService(t)

	mockTable.EXPECT().List(mock.Anything, mock.MatchedBy(func(f *sqlconfig.LedgerEntryFilter) bool {
		return f.Limit == defaultLimit+1 && f.Before == nil
	})).Return(nil, nil)

	page, err := svc.ListEntries(context.Background(), ledger.Query{})

	assert.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasNext())
}

func TestListEntries_PassesFilters(t *testing.T) {
	svc, mockTable := newTestService(t)
	from := time.Date(2025, 9, 30, 16, 0, 0, 0, time.UTC)
	to := time.Date(2025, 10, 31, 15, 59, 59, 999000000, time.UTC)

	mockTable.EXPECT().List(mock.Anything, mock.MatchedBy(func(f *sqlconfig.LedgerEntryFilter) bool {
		return f.From.Equal(from) && f.To.Equal(to) &&
			f.Scope == ledger.ScopePersonal &&
			f.Search == "coffee" &&
			f.Settled == ledger.UnsettledOnly &&
			f.Limit == 11
	})).Return(nil, nil)

	_, err := svc.ListEntries(context.Background(), ledger.Query{
		From:    &from,
		To:      &to,
		Scope:   ledger.ScopePersonal,
		Search:  "coffee",
		Settled: ledger.UnsettledOnly,
		Limit:   10,
	})

	assert.NoError(t, err)
}

func TestListEntries_MalformedCursor(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ListEntries(context.Background(), ledger.Query{Cursor: "not-a-cursor"})

	var malformed *timeboundary.MalformedCursorError
	assert.ErrorAs(t, err, &malformed)
	assert.False(t, IsRemoteQueryError(err))
}

func TestListEntries_StorageError(t *testing.T) {
	svc, mockTable := newTestService(t)

	mockTable.EXPECT().List(mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	page, err := svc.ListEntries(context.Background(), ledger.Query{})

	assert.Nil(t, page)
	assert.True(t, IsRemoteQueryError(err))
	assert.Contains(t, err.Error(), "connection refused")
}

// -- FetchMonth / MonthlySummary tests --

func TestFetchMonth_UsesCivilBoundsWithoutLimit(t *testing.T) {
	svc, mockTable := newTestService(t)
	wantFrom, _ := timeboundary.MonthKey("2025-10").Bounds(timeboundary.DefaultOffsetMinutes)
	wantBefore, _ := timeboundary.MonthKey("2025-11").Bounds(timeboundary.DefaultOffsetMinutes)

	mockTable.EXPECT().List(mock.Anything, mock.MatchedBy(func(f *sqlconfig.LedgerEntryFilter) bool {
		return f.Limit == 0 && f.From.Equal(wantFrom) && f.To == nil && f.Before.Equal(wantBefore)
	})).Return([]*ledger.Entry{{ID: "a"}}, nil)

	entries, err := svc.FetchMonth(context.Background(), "2025-10")

	assert.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(entries))
}

func TestFetchMonth_SubMillisecondRowsLandInOneMonth(t *testing.T) {
	// 23:59:59.9995 on 2025-10-31 in civil time.
	lastInstant := time.Date(2025, 10, 31, 15, 59, 59, 999500000, time.UTC)
	svc, _ := newMemoryService(
		entryAt("late", lastInstant, 1, ledger.ScopeHousehold),
		entryAt("first", lastInstant.Add(500*time.Microsecond), 1, ledger.ScopeHousehold),
	)
	ctx := context.Background()

	october, err := svc.FetchMonth(ctx, "2025-10")
	require.NoError(t, err)
	november, err := svc.FetchMonth(ctx, "2025-11")
	require.NoError(t, err)

	assert.Equal(t, []string{"late"}, ids(october))
	assert.Equal(t, []string{"first"}, ids(november))
}

func TestMonthlySummary(t *testing.T) {
	// 2025-10-31T23:30+08 is still October in civil time.
	lateOctober := time.Date(2025, 10, 31, 15, 30, 0, 0, time.UTC)
	svc, _ := newMemoryService(
		entryAt("a", lateOctober, 300, ledger.ScopeHousehold),
		entryAt("b", lateOctober.Add(-time.Hour), 120, ledger.ScopePersonal),
		entryAt("c", lateOctober.Add(time.Hour), 999, ledger.ScopePersonal),
	)

	sum, err := svc.MonthlySummary(context.Background(), "2025-10")

	require.NoError(t, err)
	assert.Equal(t, 2, sum.Count)
	assert.True(t, sum.Total.Equal(decimal.NewFromInt(420)))
	assert.True(t, sum.Household.Equal(decimal.NewFromInt(300)))
	assert.True(t, sum.Personal.Equal(decimal.NewFromInt(120)))
}

// -- Mutation tests --

func TestUpsertEntry_GeneratesIDAndTruncates(t *testing.T) {
	svc, _ := newMemoryService()
	occurredAt := time.Date(2025, 10, 10, 1, 2, 3, 456789000, time.FixedZone("", 8*3600))

	stored, err := svc.UpsertEntry(context.Background(), ledger.Entry{
		PayerID:    "payer@example.com",
		Amount:     decimal.NewFromInt(80),
		Currency:   ledger.CurrencyTWD,
		OccurredAt: occurredAt,
		Scope:      ledger.ScopePersonal,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, time.UTC, stored.OccurredAt.Location())
	assert.Equal(t, 456000000, stored.OccurredAt.Nanosecond())
}

func TestUpsertEntry_InvalidEntry(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpsertEntry(context.Background(), ledger.Entry{PayerID: "p"})

	assert.ErrorIs(t, err, ledger.ErrInvalidEntry)
}

func TestSetSettled_NotFound(t *testing.T) {
	svc, _ := newMemoryService()

	err := svc.SetSettled(context.Background(), "missing", true)

	assert.True(t, IsRemoteQueryError(err))
	assert.True(t, IsNotFound(err))
}

func TestSetSettledBulk(t *testing.T) {
	base := time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)
	svc, _ := newMemoryService(
		entryAt("a", base, 1, ledger.ScopeHousehold),
		entryAt("b", base, 1, ledger.ScopeHousehold),
	)

	affected, err := svc.SetSettledBulk(context.Background(), ledger.Selector{IDs: []string{"a"}}, true)

	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := svc.GetEntry(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, got.Settled)
}

func TestSetSettledBulk_StorageError(t *testing.T) {
	svc, mockTable := newTestService(t)

	mockTable.EXPECT().UpdateSettledWhere(mock.Anything, mock.Anything).Return(int64(0), errors.New("timeout"))

	_, err := svc.SetSettledBulk(context.Background(), ledger.Selector{IDs: []string{"a"}}, true)

	assert.True(t, IsRemoteQueryError(err))
}

func TestDeleteEntry(t *testing.T) {
	svc, _ := newMemoryService(entryAt("a", time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC), 1, ledger.ScopeHousehold))

	require.NoError(t, svc.DeleteEntry(context.Background(), "a"))
	assert.True(t, IsNotFound(svc.DeleteEntry(context.Background(), "a")))
}

func TestDeleteEntries(t *testing.T) {
	base := time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)
	svc, _ := newMemoryService(
		entryAt("a", base, 1, ledger.ScopeHousehold),
		entryAt("b", base.Add(time.Hour), 1, ledger.ScopeHousehold),
		entryAt("c", base.Add(48*time.Hour), 1, ledger.ScopePersonal),
	)
	ctx := context.Background()

	deleted, err := svc.DeleteEntries(ctx, ledger.Selector{})
	require.NoError(t, err)
	assert.Zero(t, deleted)

	to := base.Add(time.Hour)
	deleted, err = svc.DeleteEntries(ctx, ledger.Selector{To: &to})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	page, err := svc.ListEntries(ctx, ledger.Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids(page.Items))
}

func TestDeleteEntries_StorageError(t *testing.T) {
	svc, mockTable := newTestService(t)

	mockTable.EXPECT().DeleteWhere(mock.Anything, mock.Anything).Return(int64(0), errors.New("timeout"))

	_, err := svc.DeleteEntries(context.Background(), ledger.Selector{IDs: []string{"a"}})

	assert.True(t, IsRemoteQueryError(err))
}

func TestSearch_MatchesNoteOrNotes(t *testing.T) {
	base := time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)
	a := entryAt("a", base, 1, ledger.ScopeHousehold)
	a.Note = "Weekly groceries"
	b := entryAt("b", base.Add(time.Hour), 1, ledger.ScopePersonal)
	b.Notes = "groceries for the office"
	c := entryAt("c", base.Add(2*time.Hour), 1, ledger.ScopeHousehold)
	c.Note = "Rent"
	svc, _ := newMemoryService(a, b, c)

	found, err := svc.Search(context.Background(), "GROCERIES", ledger.ScopeAll, ledger.SettledAll, 0)

	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(found))
}
