package operator

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-sync/internal/operator/actions"
)

// Operator is the worker that processes items from the queue.
type Operator struct {
	log   *logrus.Logger
	queue chan ActionItem
}

func NewOperator(log *logrus.Logger, queue chan ActionItem) *Operator {
	return &Operator{
		log:   log,
		queue: queue,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		o.processItem(item)
	}
}

func (o *Operator) processItem(item ActionItem) {
	start := time.Now()
	err := item.action.Perform(item.ctx)

	if item.response != nil {
		item.response <- ActionItemResponse{err: err}
		return
	}

	// Fire-and-forget items have nobody to report to.
	defer item.done()
	entry := o.log.WithFields(logrus.Fields{
		"action":     item.action.Name(),
		"durationMs": time.Since(start).Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Warn("Operator.Background.Error")
		return
	}
	entry.Debug("Operator.Background.Complete")
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
	done     func()
}

type ActionItemResponse struct {
	err error
}
