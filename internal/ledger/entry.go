package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-sync/internal/timeboundary"
)

var ErrInvalidEntry = errors.New("ledger: invalid entry")

// Scope says who an entry is shared with.
type Scope string

const (
	ScopeHousehold Scope = "household"
	ScopePersonal  Scope = "personal"
	// ScopeAll is only meaningful as a query filter.
	ScopeAll Scope = "all"
)

func (s Scope) Valid() bool {
	return s == ScopeHousehold || s == ScopePersonal
}

// Currency is an ISO 4217 code. Only the currencies the ledger was set up with are accepted.
type Currency string

const (
	CurrencyTWD Currency = "TWD"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyEUR Currency = "EUR"
)

func (c Currency) Valid() bool {
	switch c {
	case CurrencyTWD, CurrencyUSD, CurrencyGBP, CurrencyEUR:
		return money.GetCurrency(string(c)) != nil
	}
	return false
}

// Entry is a single ledger row. Entries are treated as values: every change
// produces a new Entry rather than mutating a shared one.
type Entry struct {
	ID         string                     `json:"id"`
	PayerID    string                     `json:"payerId"`
	Note       string                     `json:"note"`
	Notes      string                     `json:"notes,omitempty"`
	CategoryID string                     `json:"categoryId,omitempty"`
	Amount     decimal.Decimal            `json:"amount"`
	Currency   Currency                   `json:"currency"`
	OccurredAt time.Time                  `json:"occurredAt"`
	Scope      Scope                      `json:"scope"`
	Shares     map[string]decimal.Decimal `json:"shares"`
	Settled    bool                       `json:"settled"`
	CreatedAt  time.Time                  `json:"createdAt"`
	UpdatedAt  time.Time                  `json:"updatedAt"`
}

// MonthKey returns the civil month the entry belongs to.
func (e Entry) MonthKey(offsetMinutes int) timeboundary.MonthKey {
	return timeboundary.CivilMonthKey(e.OccurredAt, offsetMinutes)
}

// CursorKey returns the entry's position in the (occurredAt DESC, id DESC) order.
func (e Entry) CursorKey() timeboundary.CursorKey {
	return timeboundary.CursorKey{SortKey: e.OccurredAt, ID: e.ID}
}

// Validate checks the fields a caller must provide before an upsert.
func (e Entry) Validate() error {
	if e.PayerID == "" {
		return fmt.Errorf("%w: payer is required", ErrInvalidEntry)
	}
	if !e.Currency.Valid() {
		return fmt.Errorf("%w: unsupported currency %q", ErrInvalidEntry, e.Currency)
	}
	if !e.Scope.Valid() {
		return fmt.Errorf("%w: unsupported scope %q", ErrInvalidEntry, e.Scope)
	}
	if e.OccurredAt.IsZero() {
		return fmt.Errorf("%w: occurredAt is required", ErrInvalidEntry)
	}
	return nil
}
