package entry

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-sync/internal/ledger"
)

type DeleteEntryInput struct {
	ID string `path:"id" doc:"Entry id"`
}

// DeleteEntriesBody selects entries by ids or by an inclusive occurredAt range.
type DeleteEntriesBody struct {
	IDs  []string `json:"ids,omitempty" doc:"Entry ids; when present the range is ignored"`
	From string   `json:"from,omitempty" format:"date-time" doc:"Inclusive lower bound on occurredAt"`
	To   string   `json:"to,omitempty" format:"date-time" doc:"Inclusive upper bound on occurredAt"`
}

type DeleteEntriesInput struct {
	Body DeleteEntriesBody
}

type DeleteEntriesOutput struct {
	Body struct {
		Deleted int64 `json:"deleted" doc:"Number of entries removed"`
	}
}

type entryDeleter interface {
	DeleteEntry(ctx context.Context, id string) error
	DeleteEntries(ctx context.Context, target ledger.Selector) (int64, error)
}

// DeleteEntryHandler handles single and bulk deletes.
type DeleteEntryHandler struct {
	App entryDeleter
}

func NewDeleteEntryHandler(app entryDeleter) *DeleteEntryHandler {
	return &DeleteEntryHandler{App: app}
}

func (h *DeleteEntryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "delete-entry",
		Method:        http.MethodDelete,
		Path:          "/v1/entry/{id}",
		Summary:       "Delete entry",
		Tags:          []string{"Entries"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)

	huma.Register(api, huma.Operation{
		OperationID: "delete-entries",
		Method:      http.MethodPost,
		Path:        "/v1/entry/delete",
		Summary:     "Delete entries in bulk",
		Description: "Deletes entries selected by ids or by an occurredAt range.",
		Tags:        []string{"Entries"},
	}, h.handleBulk)
}

func (h *DeleteEntryHandler) handle(ctx context.Context, input *DeleteEntryInput) (*struct{}, error) {
	if err := h.App.DeleteEntry(ctx, input.ID); err != nil {
		return nil, apiError("failed to delete entry", err)
	}
	return nil, nil
}

func (h *DeleteEntryHandler) handleBulk(ctx context.Context, input *DeleteEntriesInput) (*DeleteEntriesOutput, error) {
	target, err := parseSelector(input.Body.IDs, input.Body.From, input.Body.To)
	if err != nil {
		return nil, err
	}

	deleted, err := h.App.DeleteEntries(ctx, target)
	if err != nil {
		return nil, apiError("failed to delete entries", err)
	}

	resp := &DeleteEntriesOutput{}
	resp.Body.Deleted = deleted
	return resp, nil
}
