package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func makeEntry(id string, occurredAt time.Time) Entry {
	return Entry{
		ID:         id,
		PayerID:    "payer@example.com",
		Note:       "Groceries",
		Amount:     decimal.NewFromInt(120),
		Currency:   CurrencyTWD,
		OccurredAt: occurredAt,
		Scope:      ScopeHousehold,
	}
}

func ids(items []Entry) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

var base = time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC)

func TestUpsertFront_PrependsNew(t *testing.T) {
	items := []Entry{makeEntry("a", base), makeEntry("b", base)}

	out := UpsertFront(items, makeEntry("c", base))

	assert.Equal(t, []string{"c", "a", "b"}, ids(out))
	assert.Equal(t, []string{"a", "b"}, ids(items), "input untouched")
}

func TestUpsertFront_ReplacesInPlace(t *testing.T) {
	items := []Entry{makeEntry("a", base), makeEntry("b", base)}
	updated := makeEntry("b", base)
	updated.Settled = true

	out := UpsertFront(items, updated)

	assert.Equal(t, []string{"a", "b"}, ids(out))
	assert.True(t, out[1].Settled)
	assert.False(t, items[1].Settled, "input untouched")
}

func TestUpsertFront_Idempotent(t *testing.T) {
	items := []Entry{makeEntry("a", base)}
	e := makeEntry("b", base)

	once := UpsertFront(items, e)
	twice := UpsertFront(once, e)

	assert.Equal(t, once, twice)
}

func TestRemoveByID(t *testing.T) {
	items := []Entry{makeEntry("a", base), makeEntry("b", base), makeEntry("c", base)}

	assert.Equal(t, []string{"a", "c"}, ids(RemoveByID(items, "b")))
	assert.Equal(t, []string{"a", "b", "c"}, ids(RemoveByID(items, "missing")))
}

func TestMergeByID_DuplicateIsUpdate(t *testing.T) {
	items := []Entry{makeEntry("a", base), makeEntry("b", base)}
	refreshed := makeEntry("a", base)
	refreshed.Note = "Refreshed"

	out := MergeByID(items, []Entry{refreshed, makeEntry("c", base)})

	assert.Equal(t, []string{"a", "b", "c"}, ids(out))
	assert.Equal(t, "Refreshed", out[0].Note)
}

func TestSelector_Matches(t *testing.T) {
	from := base.Add(-time.Hour)
	to := base.Add(time.Hour)

	byRange := Selector{From: &from, To: &to}
	assert.True(t, byRange.Matches(makeEntry("a", base)))
	assert.True(t, byRange.Matches(makeEntry("a", to)), "inclusive upper bound")
	assert.False(t, byRange.Matches(makeEntry("a", to.Add(time.Millisecond))))

	byIDs := Selector{IDs: []string{"a"}}
	assert.True(t, byIDs.Matches(makeEntry("a", base)))
	assert.False(t, byIDs.Matches(makeEntry("b", base)))

	none := Selector{IDs: []string{}}
	assert.True(t, none.IsEmpty())
	assert.False(t, none.Matches(makeEntry("a", base)))

	unbounded := Selector{}
	assert.True(t, unbounded.IsEmpty())
	assert.False(t, unbounded.Matches(makeEntry("a", base)))

	openEnded := Selector{From: &from}
	assert.True(t, openEnded.Matches(makeEntry("a", to.Add(time.Hour))))
}

func TestEntry_Validate(t *testing.T) {
	assert.NoError(t, makeEntry("a", base).Validate())

	bad := makeEntry("a", base)
	bad.Currency = "JPY"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidEntry)

	bad = makeEntry("a", base)
	bad.Scope = ScopeAll
	assert.ErrorIs(t, bad.Validate(), ErrInvalidEntry)

	bad = makeEntry("a", base)
	bad.OccurredAt = time.Time{}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidEntry)
}

func TestEntry_MonthKey(t *testing.T) {
	e := makeEntry("a", time.Date(2025, 10, 31, 16, 30, 0, 0, time.UTC))
	assert.Equal(t, "2025-11", e.MonthKey(480).String())
}
