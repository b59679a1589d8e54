package operator

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carson-networks/ledger-sync/internal/logging"
)

type countingAction struct {
	calls atomic.Int32
	err   error
}

func (a *countingAction) Name() string { return "counting" }

func (a *countingAction) Perform(ctx context.Context) error {
	a.calls.Add(1)
	return a.err
}

func newTestDelegator(t *testing.T) (*OperatorDelegator, *bytes.Buffer) {
	t.Helper()
	logger := logging.SetupLogging()
	var out bytes.Buffer
	logger.Out = &out

	d := NewOperatorDelegator(logger, 2)
	d.Start()
	t.Cleanup(d.Stop)
	return d, &out
}

func TestProcess_ReturnsActionError(t *testing.T) {
	d, _ := newTestDelegator(t)
	action := &countingAction{err: errors.New("remote down")}

	err := d.Process(context.Background(), action)

	assert.EqualError(t, err, "remote down")
	assert.Equal(t, int32(1), action.calls.Load())
}

func TestSubmit_LogsErrorsAndWaitDrains(t *testing.T) {
	d, out := newTestDelegator(t)
	ok := &countingAction{}
	failing := &countingAction{err: errors.New("cache locked")}

	for i := 0; i < 5; i++ {
		d.Submit(context.Background(), ok)
	}
	d.Submit(context.Background(), failing)
	d.Wait()

	assert.Equal(t, int32(5), ok.calls.Load())
	assert.Equal(t, int32(1), failing.calls.Load())
	assert.Contains(t, out.String(), "Operator.Background.Error")
	assert.Contains(t, out.String(), "cache locked")
}

func TestSubmit_IgnoresCallerCancellation(t *testing.T) {
	d, _ := newTestDelegator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var seen error
	action := &ctxAction{perform: func(ctx context.Context) error {
		seen = ctx.Err()
		return nil
	}}
	d.Submit(ctx, action)
	d.Wait()

	assert.NoError(t, seen)
}

func TestStop_RejectsNewWork(t *testing.T) {
	d, out := newTestDelegator(t)
	d.Stop()

	action := &countingAction{}
	assert.ErrorIs(t, d.Process(context.Background(), action), ErrStopped)
	d.Submit(context.Background(), action)
	d.Wait()

	assert.Equal(t, int32(0), action.calls.Load())
	assert.Contains(t, out.String(), "Operator.Submit.Dropped")
}

type ctxAction struct {
	perform func(ctx context.Context) error
}

func (a *ctxAction) Name() string { return "ctx" }

func (a *ctxAction) Perform(ctx context.Context) error { return a.perform(ctx) }
