package entry

import (
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-sync/internal/ledger"
	"github.com/carson-networks/ledger-sync/internal/logging"
	"github.com/carson-networks/ledger-sync/internal/service"
	"github.com/carson-networks/ledger-sync/internal/timeboundary"
)

// Entry is the API model for a ledger entry.
type Entry struct {
	ID         string            `json:"id" doc:"Entry id"`
	PayerID    string            `json:"payerId" doc:"Who paid"`
	Note       string            `json:"note" doc:"Short description"`
	Notes      string            `json:"notes,omitempty" doc:"Longer notes"`
	CategoryID string            `json:"categoryId,omitempty" doc:"Category id"`
	Amount     string            `json:"amount" doc:"Decimal amount"`
	Currency   string            `json:"currency" enum:"TWD,USD,GBP,EUR" doc:"ISO 4217 currency"`
	OccurredAt string            `json:"occurredAt" format:"date-time" doc:"RFC3339 instant the expense happened"`
	Month      string            `json:"month" doc:"Civil month (YYYY-MM) the entry belongs to"`
	Scope      string            `json:"scope" enum:"household,personal" doc:"Who the entry is shared with"`
	Shares     map[string]string `json:"shares,omitempty" doc:"Decimal share per participant"`
	Settled    bool              `json:"settled" doc:"Whether the entry is settled"`
	CreatedAt  string            `json:"createdAt,omitempty" format:"date-time" doc:"RFC3339 creation time"`
	UpdatedAt  string            `json:"updatedAt,omitempty" format:"date-time" doc:"RFC3339 last update time"`
}

func toEntry(e ledger.Entry, offsetMinutes int) Entry {
	out := Entry{
		ID:         e.ID,
		PayerID:    e.PayerID,
		Note:       e.Note,
		Notes:      e.Notes,
		CategoryID: e.CategoryID,
		Amount:     e.Amount.String(),
		Currency:   string(e.Currency),
		OccurredAt: e.OccurredAt.UTC().Format(time.RFC3339Nano),
		Month:      string(e.MonthKey(offsetMinutes)),
		Scope:      string(e.Scope),
		Settled:    e.Settled,
	}
	if len(e.Shares) > 0 {
		out.Shares = make(map[string]string, len(e.Shares))
		for k, v := range e.Shares {
			out.Shares[k] = v.String()
		}
	}
	if !e.CreatedAt.IsZero() {
		out.CreatedAt = e.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	if !e.UpdatedAt.IsZero() {
		out.UpdatedAt = e.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	return out
}

func toEntries(items []ledger.Entry, offsetMinutes int) []Entry {
	out := make([]Entry, len(items))
	for i, e := range items {
		out[i] = toEntry(e, offsetMinutes)
	}
	return out
}

func parseShares(shares map[string]string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(shares))
	for participant, raw := range shares {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid share for "+participant, err)
		}
		out[participant] = amount
	}
	return out, nil
}

// parseOptionalTime parses an RFC3339 value, returning nil for "".
func parseOptionalTime(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	t = t.UTC()
	return &t, nil
}

func parseMonth(value string) (timeboundary.MonthKey, error) {
	month, err := timeboundary.ParseMonthKey(value)
	if err != nil {
		return "", huma.NewError(http.StatusBadRequest, "invalid month", err)
	}
	return month, nil
}

// apiError maps a domain error to an HTTP status.
func apiError(msg string, err error) error {
	var malformed *timeboundary.MalformedCursorError
	switch {
	case errors.As(err, &malformed),
		errors.Is(err, ledger.ErrInvalidEntry),
		errors.Is(err, timeboundary.ErrInvalidMonthKey):
		return huma.NewError(http.StatusBadRequest, msg, err)
	case service.IsNotFound(err):
		return huma.NewError(http.StatusNotFound, msg, err)
	}
	return huma.NewError(http.StatusInternalServerError, msg, err)
}

// timed starts a timing on the request LogData, if there is one.
func timed(logData *logging.LogData, name string) func() {
	if logData == nil {
		return func() {}
	}
	return logData.AddTiming(name)
}
