package status

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/carson-networks/ledger-sync/internal/logging"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Remote pinger
}

func NewHandler(remote pinger) Handler {
	return Handler{Remote: remote}
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != "GET" {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("status: method not GET")
	}

	endTimer := logData.AddTiming("pingMs")
	err := h.Remote.Ping(req.Context())
	endTimer()
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return fmt.Errorf("status: remote unreachable: %w", err)
	}

	w.WriteHeader(http.StatusOK)
	return nil
}
