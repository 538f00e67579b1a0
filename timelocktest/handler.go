package timelocktest

import "github.com/iov-one/timelock"

// Calls counts how often each phase of a stub was run.
type Calls struct {
	Checks   int
	Delivers int
}

// CallCount returns the number of Check and Deliver calls together.
func (c *Calls) CallCount() int {
	return c.Checks + c.Delivers
}

// Handler is a handler stub that returns the configured results.
type Handler struct {
	Calls
	CheckResult   timelock.CheckResult
	CheckErr      error
	DeliverResult timelock.DeliverResult
	DeliverErr    error
}

var _ timelock.Handler = (*Handler)(nil)

func (h *Handler) Check(timelock.Context, timelock.KVStore, timelock.Tx) (*timelock.CheckResult, error) {
	h.Checks++
	res := h.CheckResult
	return &res, h.CheckErr
}

func (h *Handler) Deliver(timelock.Context, timelock.KVStore, timelock.Tx) (*timelock.DeliverResult, error) {
	h.Delivers++
	res := h.DeliverResult
	return &res, h.DeliverErr
}

// Decorator passes every call on to the next handler unless an error is
// configured for that phase, in which case the chain stops there.
type Decorator struct {
	Calls
	CheckErr   error
	DeliverErr error
}

var _ timelock.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Checker) (*timelock.CheckResult, error) {
	d.Checks++
	if d.CheckErr != nil {
		return &timelock.CheckResult{}, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (*timelock.DeliverResult, error) {
	d.Delivers++
	if d.DeliverErr != nil {
		return &timelock.DeliverResult{}, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// Decorate returns a handler that runs h behind d.
func Decorate(h timelock.Handler, d timelock.Decorator) timelock.Handler {
	return decorated{handler: h, decorator: d}
}

type decorated struct {
	handler   timelock.Handler
	decorator timelock.Decorator
}

func (d decorated) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	return d.decorator.Check(ctx, db, tx, d.handler)
}

func (d decorated) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	return d.decorator.Deliver(ctx, db, tx, d.handler)
}
