package checkout

import (
	"context"

	"cosmetics-storefront/cart"
	"cosmetics-storefront/models"
)

// Task is a submission running in the background. Callers wait on it
// before leaving the checkout so an order is neither lost nor sent twice.
type Task struct {
	done   chan struct{}
	cancel context.CancelFunc
	order  *models.Order
	err    error
}

// Start runs Submit in the background. onDone, when not nil, is called
// with the result before the task reports done.
func (s *Service) Start(ctx context.Context, sess *models.Session, c *cart.Store, req Request, onDone func(*models.Order, error)) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{done: make(chan struct{}), cancel: cancel}
	go func() {
		defer close(t.done)
		defer cancel()
		t.order, t.err = s.Submit(ctx, sess, c, req)
		if onDone != nil {
			onDone(t.order, t.err)
		}
	}()
	return t
}

// Done is closed when the submission finished
func (t *Task) Done() <-chan struct{} { return t.done }

// Cancel aborts the submission if the order has not been written yet
func (t *Task) Cancel() { t.cancel() }

// Wait blocks until the submission finishes or ctx is done. A ctx
// expiring does not cancel the task.
func (t *Task) Wait(ctx context.Context) (*models.Order, error) {
	select {
	case <-t.done:
		return t.order, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
