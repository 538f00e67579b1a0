package escrow

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// CashController is the part of the cash extension escrows need to move
// value around.
type CashController interface {
	Balance(timelock.KVStore, timelock.Address) (uint64, error)
	MoveCoins(db timelock.KVStore, src, dest timelock.Address, amount uint64) error
}

// Controller implements the escrow state transitions on top of a Store. It
// assumes all checks were already done by the caller.
type Controller struct {
	store Store
	cash  CashController
}

// NewController returns a controller using the given store and cash
// controller.
func NewController(store Store, cash CashController) Controller {
	return Controller{store: store, cash: cash}
}

// Open creates the record and charges the storage reserve to the depositor.
func (c Controller) Open(db timelock.KVStore, addr timelock.Address, e *Escrow, reserve uint64) error {
	if reserve > 0 {
		if err := c.cash.MoveCoins(db, e.Depositor, addr, reserve); err != nil {
			return errors.Wrap(err, "storage reserve")
		}
	}
	return c.store.Create(db, addr, e)
}

// Fund moves the amount from the depositor to the escrow address and marks
// the record as deposited.
func (c Controller) Fund(db timelock.KVStore, addr timelock.Address, e *Escrow, amount uint64) error {
	if err := c.cash.MoveCoins(db, e.Depositor, addr, amount); err != nil {
		return err
	}
	e.Amount = amount
	e.State = StateDeposited
	return c.store.Update(db, addr, e)
}

// Close moves the whole balance held at the escrow address, the escrowed
// amount and the storage reserve, to the closer and deletes the record. It
// returns the amount paid out.
func (c Controller) Close(db timelock.KVStore, addr timelock.Address, closer timelock.Address) (uint64, error) {
	balance, err := c.cash.Balance(db, addr)
	if err != nil {
		return 0, err
	}
	if balance > 0 {
		if err := c.cash.MoveCoins(db, addr, closer, balance); err != nil {
			return 0, err
		}
	}
	if err := c.store.Delete(db, addr); err != nil {
		return 0, err
	}
	return balance, nil
}
