package entry

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-sync/internal/ledger"
	"github.com/carson-networks/ledger-sync/internal/logging"
	"github.com/carson-networks/ledger-sync/internal/service"
	"github.com/carson-networks/ledger-sync/internal/timeboundary"
)

// MonthInput is the Huma input for month-scoped reads.
type MonthInput struct {
	Month string `path:"month" pattern:"^[0-9]{4}-[0-9]{2}$" doc:"Civil month, YYYY-MM"`
}

// GetMonthOutput is the Huma output for a month read.
type GetMonthOutput struct {
	Body struct {
		Month   string  `json:"month" doc:"Civil month"`
		Entries []Entry `json:"entries" doc:"Entries of the month"`
	}
}

// GetSummaryOutput is the Huma output for a month summary.
type GetSummaryOutput struct {
	Body struct {
		Month     string `json:"month" doc:"Civil month"`
		Total     string `json:"total" doc:"Sum of all amounts"`
		Household string `json:"household" doc:"Sum of household amounts"`
		Personal  string `json:"personal" doc:"Sum of personal amounts"`
		Count     int    `json:"count" doc:"Number of entries"`
	}
}

type monthReader interface {
	Month(ctx context.Context, month timeboundary.MonthKey) ([]ledger.Entry, error)
	Summary(ctx context.Context, month timeboundary.MonthKey) (*service.Summary, error)
	OffsetMinutes() int
}

// MonthHandler handles GET /v1/entry/month/{month} and its summary.
type MonthHandler struct {
	App monthReader
}

func NewMonthHandler(app monthReader) *MonthHandler {
	return &MonthHandler{App: app}
}

// Register registers the month endpoints with the Huma API.
func (h *MonthHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-month",
		Method:      http.MethodGet,
		Path:        "/v1/entry/month/{month}",
		Summary:     "Get month",
		Description: "Returns the entries of a civil month, served from the month cache when present.",
		Tags:        []string{"Entries"},
	}, h.handleMonth)

	huma.Register(api, huma.Operation{
		OperationID: "get-month-summary",
		Method:      http.MethodGet,
		Path:        "/v1/entry/month/{month}/summary",
		Summary:     "Get month summary",
		Description: "Returns totals for a civil month split by scope.",
		Tags:        []string{"Entries"},
	}, h.handleSummary)
}

func (h *MonthHandler) handleMonth(ctx context.Context, input *MonthInput) (*GetMonthOutput, error) {
	month, err := parseMonth(input.Month)
	if err != nil {
		return nil, err
	}

	logData := logging.GetLogData(ctx)
	stopTimer := timed(logData, "loadMonthMs")
	items, err := h.App.Month(ctx, month)
	stopTimer()
	if err != nil {
		return nil, apiError("failed to load month", err)
	}
	if logData != nil {
		logData.AddData("month", string(month))
		logData.AddData("entryCount", len(items))
	}

	out := &GetMonthOutput{}
	out.Body.Month = string(month)
	out.Body.Entries = toEntries(items, h.App.OffsetMinutes())
	return out, nil
}

func (h *MonthHandler) handleSummary(ctx context.Context, input *MonthInput) (*GetSummaryOutput, error) {
	month, err := parseMonth(input.Month)
	if err != nil {
		return nil, err
	}

	sum, err := h.App.Summary(ctx, month)
	if err != nil {
		return nil, apiError("failed to summarize month", err)
	}

	out := &GetSummaryOutput{}
	out.Body.Month = string(sum.Month)
	out.Body.Total = sum.Total.String()
	out.Body.Household = sum.Household.String()
	out.Body.Personal = sum.Personal.String()
	out.Body.Count = sum.Count
	return out, nil
}
