package app

import (
	"reflect"

	"github.com/iov-one/timelock"
)

// Decorators is an ordered list of decorators waiting for the handler they
// will wrap. The first decorator runs first.
//
//   app.ChainDecorators(
//     utils.NewRecovery(),
//     sigs.NewDecorator(),
//     utils.NewSavepoint().OnDeliver(),
//   ).WithHandler(router)
type Decorators struct {
	chain []timelock.Decorator
}

// ChainDecorators starts a chain. Nil decorators are dropped, so optional
// ones may be passed as typed nil pointers.
func ChainDecorators(ds ...timelock.Decorator) Decorators {
	return Decorators{}.Chain(ds...)
}

// Chain returns a new chain with ds appended. The receiver is unchanged.
func (d Decorators) Chain(ds ...timelock.Decorator) Decorators {
	chain := append([]timelock.Decorator(nil), d.chain...)
	for _, dec := range ds {
		if dec == nil {
			continue
		}
		if v := reflect.ValueOf(dec); v.Kind() == reflect.Ptr && v.IsNil() {
			continue
		}
		chain = append(chain, dec)
	}
	return Decorators{chain: chain}
}

// WithHandler closes the chain around h.
func (d Decorators) WithHandler(h timelock.Handler) timelock.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = decorated{dec: d.chain[i], next: h}
	}
	return h
}

// decorated is a handler made of one decorator and everything below it.
type decorated struct {
	dec  timelock.Decorator
	next timelock.Handler
}

func (h decorated) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	return h.dec.Check(ctx, db, tx, h.next)
}

func (h decorated) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	return h.dec.Deliver(ctx, db, tx, h.next)
}
