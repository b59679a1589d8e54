package entry

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-sync/internal/ledger"
)

type SetSettledInput struct {
	ID   string `path:"id" doc:"Entry id"`
	Body struct {
		Settled bool `json:"settled" doc:"New settled state"`
	}
}

// SetSettledBulkBody selects entries by ids or by an inclusive occurredAt range.
type SetSettledBulkBody struct {
	IDs     []string `json:"ids,omitempty" doc:"Entry ids; when present the range is ignored"`
	From    string   `json:"from,omitempty" format:"date-time" doc:"Inclusive lower bound on occurredAt"`
	To      string   `json:"to,omitempty" format:"date-time" doc:"Inclusive upper bound on occurredAt"`
	Settled bool     `json:"settled" doc:"New settled state"`
}

type SetSettledBulkInput struct {
	Body SetSettledBulkBody
}

type settler interface {
	SetSettled(ctx context.Context, id string, settled bool) error
	SetSettledBulk(ctx context.Context, target ledger.Selector, settled bool) error
}

// SettleHandler handles the settle toggles.
type SettleHandler struct {
	App settler
}

func NewSettleHandler(app settler) *SettleHandler {
	return &SettleHandler{App: app}
}

func (h *SettleHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "set-entry-settled",
		Method:        http.MethodPost,
		Path:          "/v1/entry/{id}/settled",
		Summary:       "Set settled",
		Tags:          []string{"Entries"},
		DefaultStatus: http.StatusNoContent,
	}, h.handleOne)

	huma.Register(api, huma.Operation{
		OperationID:   "set-entries-settled",
		Method:        http.MethodPost,
		Path:          "/v1/entry/settled",
		Summary:       "Set settled in bulk",
		Description:   "Sets the settled flag on entries selected by ids or by an occurredAt range.",
		Tags:          []string{"Entries"},
		DefaultStatus: http.StatusNoContent,
	}, h.handleBulk)
}

func (h *SettleHandler) handleOne(ctx context.Context, input *SetSettledInput) (*struct{}, error) {
	if err := h.App.SetSettled(ctx, input.ID, input.Body.Settled); err != nil {
		return nil, apiError("failed to set settled", err)
	}
	return nil, nil
}

func parseSelector(ids []string, fromValue, toValue string) (ledger.Selector, error) {
	if ids != nil {
		return ledger.Selector{IDs: ids}, nil
	}

	from, err := parseOptionalTime("from", fromValue)
	if err != nil {
		return ledger.Selector{}, err
	}
	to, err := parseOptionalTime("to", toValue)
	if err != nil {
		return ledger.Selector{}, err
	}
	target := ledger.Selector{From: from, To: to}
	if target.IsEmpty() {
		return ledger.Selector{}, huma.NewError(http.StatusBadRequest, "ids or a from/to range is required")
	}
	return target, nil
}

func (h *SettleHandler) handleBulk(ctx context.Context, input *SetSettledBulkInput) (*struct{}, error) {
	target, err := parseSelector(input.Body.IDs, input.Body.From, input.Body.To)
	if err != nil {
		return nil, err
	}
	if err := h.App.SetSettledBulk(ctx, target, input.Body.Settled); err != nil {
		return nil, apiError("failed to set settled", err)
	}
	return nil, nil
}
