package operator

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-sync/internal/operator/actions"
)

var ErrStopped = errors.New("operator: stopped")

// OperatorDelegator manages the queue, starts/stops Operators (workers), and enqueues items.
type OperatorDelegator struct {
	log        *logrus.Logger
	queue      chan ActionItem
	numWorkers int
	wg         sync.WaitGroup
	pending    sync.WaitGroup
	stopOnce   sync.Once

	mu      sync.RWMutex
	stopped bool
}

func NewOperatorDelegator(log *logrus.Logger, numWorkers int) *OperatorDelegator {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &OperatorDelegator{
		log:        log,
		queue:      make(chan ActionItem, 1000),
		numWorkers: numWorkers,
	}
}

func (d *OperatorDelegator) Start() {
	for i := 0; i < d.numWorkers; i++ {
		d.wg.Add(1)
		op := NewOperator(d.log, d.queue)
		go func() {
			defer d.wg.Done()
			op.Run()
		}()
	}
}

// Stop drains the queue and waits for the workers to exit.
func (d *OperatorDelegator) Stop() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.stopped = true
		close(d.queue)
		d.mu.Unlock()
		d.wg.Wait()
	})
}

// Process enqueues action and waits for its result.
func (d *OperatorDelegator) Process(ctx context.Context, action actions.IAction) error {
	respCh := make(chan ActionItemResponse, 1)
	item := ActionItem{
		ctx:      ctx,
		action:   action,
		response: respCh,
	}

	if err := d.enqueue(item); err != nil {
		return err
	}

	select {
	case resp := <-respCh:
		return resp.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit enqueues action without waiting. The action runs detached from
// ctx cancellation; its error is logged by the worker.
func (d *OperatorDelegator) Submit(ctx context.Context, action actions.IAction) {
	d.pending.Add(1)
	item := ActionItem{
		ctx:    context.WithoutCancel(ctx),
		action: action,
		done:   d.pending.Done,
	}

	if err := d.enqueue(item); err != nil {
		d.pending.Done()
		d.log.WithError(err).WithField("action", action.Name()).Warn("Operator.Submit.Dropped")
	}
}

// Wait blocks until every submitted action has finished.
func (d *OperatorDelegator) Wait() {
	d.pending.Wait()
}

func (d *OperatorDelegator) enqueue(item ActionItem) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return ErrStopped
	}
	d.queue <- item
	return nil
}
