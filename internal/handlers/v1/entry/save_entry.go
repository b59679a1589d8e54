package entry

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-sync/internal/ledger"
	"github.com/carson-networks/ledger-sync/internal/logging"
)

// SaveEntryBody is the request body for creating or replacing an entry.
type SaveEntryBody struct {
	ID         string            `json:"id,omitempty" doc:"Entry id, generated when absent"`
	PayerID    string            `json:"payerId" required:"true" minLength:"1" doc:"Who paid"`
	Note       string            `json:"note,omitempty" doc:"Short description"`
	Notes      string            `json:"notes,omitempty" doc:"Longer notes"`
	CategoryID string            `json:"categoryId,omitempty" doc:"Category id"`
	Amount     string            `json:"amount" required:"true" doc:"Decimal amount"`
	Currency   string            `json:"currency" required:"true" enum:"TWD,USD,GBP,EUR" doc:"ISO 4217 currency"`
	OccurredAt string            `json:"occurredAt,omitempty" format:"date-time" doc:"RFC3339 instant, defaults to now"`
	Scope      string            `json:"scope" required:"true" enum:"household,personal" doc:"Who the entry is shared with"`
	Shares     map[string]string `json:"shares,omitempty" doc:"Decimal share per participant"`
	Settled    bool              `json:"settled,omitempty" doc:"Whether the entry is settled"`
}

type SaveEntryInput struct {
	Body SaveEntryBody
}

type SaveEntryOutput struct {
	Body Entry
}

type entrySaver interface {
	SaveEntry(ctx context.Context, entry ledger.Entry) (*ledger.Entry, error)
	OffsetMinutes() int
}

// SaveEntryHandler handles PUT /v1/entry.
type SaveEntryHandler struct {
	App entrySaver
	now func() time.Time
}

func NewSaveEntryHandler(app entrySaver) *SaveEntryHandler {
	return &SaveEntryHandler{App: app, now: time.Now}
}

func (h *SaveEntryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "save-entry",
		Method:      http.MethodPut,
		Path:        "/v1/entry",
		Summary:     "Create or replace entry",
		Description: "Upserts an entry and updates the cached month pages it moves between.",
		Tags:        []string{"Entries"},
	}, h.handle)
}

func (h *SaveEntryHandler) parse(input *SaveEntryInput) (ledger.Entry, error) {
	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return ledger.Entry{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}
	shares, err := parseShares(input.Body.Shares)
	if err != nil {
		return ledger.Entry{}, err
	}

	occurredAt := h.now().UTC()
	if parsed, err := parseOptionalTime("occurredAt", input.Body.OccurredAt); err != nil {
		return ledger.Entry{}, err
	} else if parsed != nil {
		occurredAt = *parsed
	}

	return ledger.Entry{
		ID:         input.Body.ID,
		PayerID:    input.Body.PayerID,
		Note:       input.Body.Note,
		Notes:      input.Body.Notes,
		CategoryID: input.Body.CategoryID,
		Amount:     amount,
		Currency:   ledger.Currency(input.Body.Currency),
		OccurredAt: occurredAt,
		Scope:      ledger.Scope(input.Body.Scope),
		Shares:     shares,
		Settled:    input.Body.Settled,
	}, nil
}

func (h *SaveEntryHandler) handle(ctx context.Context, input *SaveEntryInput) (*SaveEntryOutput, error) {
	e, err := h.parse(input)
	if err != nil {
		return nil, err
	}

	stopTimer := timed(logging.GetLogData(ctx), "saveEntryMs")
	stored, err := h.App.SaveEntry(ctx, e)
	stopTimer()
	if err != nil {
		return nil, apiError("failed to save entry", err)
	}

	return &SaveEntryOutput{Body: toEntry(*stored, h.App.OffsetMinutes())}, nil
}
