package timelock

// Handler processes the messages routed to it. Check estimates and
// rejects early without side effects that outlive the block, Deliver
// executes.
type Handler interface {
	Checker
	Deliverer
}

// Checker is the check half of a Handler.
type Checker interface {
	Check(ctx Context, db KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is the deliver half of a Handler.
type Deliverer interface {
	Deliver(ctx Context, db KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs before a Handler and decides whether and how to call it.
// Signature checks, savepoints and panic recovery are decorators.
type Decorator interface {
	Check(ctx Context, db KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, db KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds handlers to message paths.
type Registry interface {
	Handle(path string, h Handler)
}
