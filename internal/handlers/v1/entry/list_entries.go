package entry

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-sync/internal/ledger"
	"github.com/carson-networks/ledger-sync/internal/logging"
	"github.com/carson-networks/ledger-sync/internal/timeboundary"
)

// ListEntriesBody is the request body for listing entries. A cursor must be
// sent with the same filters that produced it.
type ListEntriesBody struct {
	From    string `json:"from,omitempty" format:"date-time" doc:"Inclusive lower bound on occurredAt"`
	To      string `json:"to,omitempty" format:"date-time" doc:"Inclusive upper bound on occurredAt"`
	Scope   string `json:"scope,omitempty" enum:"household,personal,all" doc:"Scope filter"`
	Search  string `json:"search,omitempty" maxLength:"200" doc:"Case-insensitive text matched against note and notes"`
	Settled string `json:"settled,omitempty" enum:"all,only_settled,only_unsettled" doc:"Settlement filter"`
	Limit   int    `json:"limit,omitempty" minimum:"0" maximum:"500" doc:"Page size, defaults to the configured page limit"`
	Cursor  string `json:"cursor,omitempty" doc:"Cursor from a previous response"`
}

// ListEntriesInput is the Huma input for listing entries.
type ListEntriesInput struct {
	Body ListEntriesBody
}

// ListEntriesResponseBody is the response body for listing entries.
type ListEntriesResponseBody struct {
	Entries    []Entry `json:"entries" doc:"Page of entries, newest first"`
	NextCursor string  `json:"nextCursor,omitempty" doc:"Cursor for the next page, absent on the last page"`
}

// ListEntriesOutput is the Huma output for listing entries.
type ListEntriesOutput struct {
	Body ListEntriesResponseBody
}

type entryLister interface {
	ListEntries(ctx context.Context, query ledger.Query) (*ledger.Page, error)
	OffsetMinutes() int
}

// ListEntriesHandler handles POST /v1/entry/list.
type ListEntriesHandler struct {
	EntryService entryLister
}

func NewListEntriesHandler(svc entryLister) *ListEntriesHandler {
	return &ListEntriesHandler{EntryService: svc}
}

// Register registers the list entries endpoint with the Huma API.
func (h *ListEntriesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-entries",
		Method:      http.MethodPost,
		Path:        "/v1/entry/list",
		Summary:     "List entries",
		Description: "Returns a page of entries ordered by occurredAt then id, newest first, using keyset pagination.",
		Tags:        []string{"Entries"},
	}, h.handle)
}

func parseListEntriesInput(input *ListEntriesInput) (ledger.Query, error) {
	from, err := parseOptionalTime("from", input.Body.From)
	if err != nil {
		return ledger.Query{}, err
	}
	to, err := parseOptionalTime("to", input.Body.To)
	if err != nil {
		return ledger.Query{}, err
	}

	return ledger.Query{
		From:    from,
		To:      to,
		Scope:   ledger.Scope(input.Body.Scope),
		Search:  input.Body.Search,
		Settled: ledger.SettledFilter(input.Body.Settled),
		Limit:   input.Body.Limit,
		Cursor:  timeboundary.Cursor(input.Body.Cursor),
	}, nil
}

func (h *ListEntriesHandler) handle(ctx context.Context, input *ListEntriesInput) (*ListEntriesOutput, error) {
	logData := logging.GetLogData(ctx)
	query, err := parseListEntriesInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := timed(logData, "listEntriesMs")
	page, err := h.EntryService.ListEntries(ctx, query)
	stopTimer()
	if err != nil {
		return nil, apiError("failed to list entries", err)
	}

	if logData != nil {
		logData.AddData("entryCount", len(page.Items))
	}

	return &ListEntriesOutput{Body: ListEntriesResponseBody{
		Entries:    toEntries(page.Items, h.EntryService.OffsetMinutes()),
		NextCursor: string(page.NextCursor),
	}}, nil
}
