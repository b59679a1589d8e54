package entry

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-sync/internal/ledger"
)

type SearchEntriesInput struct {
	Query   string `query:"q" required:"true" minLength:"1" maxLength:"200" doc:"Text matched against note and notes"`
	Scope   string `query:"scope" enum:"household,personal,all" default:"all" doc:"Scope filter"`
	Settled string `query:"settled" enum:"all,only_settled,only_unsettled" default:"all" doc:"Settlement filter"`
	Limit   int    `query:"limit" minimum:"0" maximum:"500" doc:"Maximum results, defaults to the configured page limit"`
}

type SearchEntriesOutput struct {
	Body struct {
		Entries []Entry `json:"entries" doc:"Matching entries, newest first"`
	}
}

type entrySearcher interface {
	Search(ctx context.Context, term string, scope ledger.Scope, settled ledger.SettledFilter, limit int) ([]ledger.Entry, error)
	OffsetMinutes() int
}

// SearchEntriesHandler handles GET /v1/entry/search.
type SearchEntriesHandler struct {
	EntryService entrySearcher
}

func NewSearchEntriesHandler(svc entrySearcher) *SearchEntriesHandler {
	return &SearchEntriesHandler{EntryService: svc}
}

func (h *SearchEntriesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "search-entries",
		Method:      http.MethodGet,
		Path:        "/v1/entry/search",
		Summary:     "Search entries",
		Tags:        []string{"Entries"},
	}, h.handle)
}

func (h *SearchEntriesHandler) handle(ctx context.Context, input *SearchEntriesInput) (*SearchEntriesOutput, error) {
	items, err := h.EntryService.Search(ctx, input.Query, ledger.Scope(input.Scope), ledger.SettledFilter(input.Settled), input.Limit)
	if err != nil {
		return nil, apiError("failed to search entries", err)
	}

	out := &SearchEntriesOutput{}
	out.Body.Entries = toEntries(items, h.EntryService.OffsetMinutes())
	return out, nil
}
