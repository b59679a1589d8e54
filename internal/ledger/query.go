package ledger

import (
	"time"

	"github.com/carson-networks/ledger-sync/internal/timeboundary"
)

// SettledFilter restricts a query by settlement state.
type SettledFilter string

const (
	SettledAll    SettledFilter = "all"
	SettledOnly   SettledFilter = "only_settled"
	UnsettledOnly SettledFilter = "only_unsettled"
)

// Query is the filter/limit/cursor contract of a remote ledger read.
// From and To are inclusive.
type Query struct {
	From    *time.Time
	To      *time.Time
	Scope   Scope
	Search  string
	Settled SettledFilter
	Limit   int
	Cursor  timeboundary.Cursor
}

// WithCursor returns a copy of q resuming at cursor.
func (q Query) WithCursor(cursor timeboundary.Cursor) Query {
	q.Cursor = cursor
	return q
}

// Page is one page of a (occurredAt DESC, id DESC) scan. NextCursor is empty
// when the scan reached the end of the matching set.
type Page struct {
	Items      []Entry
	NextCursor timeboundary.Cursor
}

func (p *Page) HasNext() bool {
	return p.NextCursor != ""
}

// Selector picks entries for a bulk operation, either by id or by an
// inclusive occurredAt range.
type Selector struct {
	IDs  []string
	From *time.Time
	To   *time.Time
}

// ByIDs reports whether the selector lists explicit ids.
func (t Selector) ByIDs() bool {
	return t.IDs != nil
}

// IsEmpty reports whether the selector can match nothing: an empty id list,
// or a range with neither bound.
func (t Selector) IsEmpty() bool {
	if t.ByIDs() {
		return len(t.IDs) == 0
	}
	return t.From == nil && t.To == nil
}

// Matches reports whether e is selected.
func (t Selector) Matches(e Entry) bool {
	if t.IsEmpty() {
		return false
	}
	if t.ByIDs() {
		for _, id := range t.IDs {
			if id == e.ID {
				return true
			}
		}
		return false
	}
	if t.From != nil && e.OccurredAt.Before(*t.From) {
		return false
	}
	if t.To != nil && e.OccurredAt.After(*t.To) {
		return false
	}
	return true
}
