package cash

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Controller is the functionality needed by other extensions to move value.
type Controller interface {
	// Balance returns the amount held by the address. An address that was
	// never funded holds nothing.
	Balance(timelock.KVStore, timelock.Address) (uint64, error)

	// MoveCoins moves the given amount from src to dest. It fails if src does
	// not hold enough.
	MoveCoins(db timelock.KVStore, src, dest timelock.Address, amount uint64) error

	// CoinMint adds the given amount to the destination address.
	CoinMint(timelock.KVStore, timelock.Address, uint64) error
}

// BaseController is a simple implementation of Controller over a Bucket.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller that uses the given bucket.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the amount held by the address.
func (c BaseController) Balance(db timelock.KVStore, addr timelock.Address) (uint64, error) {
	obj, err := c.bucket.Get(db, addr)
	if err != nil {
		return 0, err
	}
	if obj == nil {
		return 0, nil
	}
	return AsBalance(obj).Amount, nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db timelock.KVStore, src, dest timelock.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return err
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrInsufficientAmount, "empty account %s", src)
	}
	balance := AsBalance(sender)
	if err := balance.Subtract(amount); err != nil {
		return err
	}
	// A drained wallet is removed. Balance reads a missing wallet as zero.
	if balance.Amount == 0 {
		err = c.bucket.Delete(db, src)
	} else {
		err = c.bucket.Save(db, sender)
	}
	if err != nil {
		return err
	}

	// src and dest may be the same wallet, so read after the sender is saved
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := AsBalance(recipient).Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}

// CoinMint attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
func (c BaseController) CoinMint(db timelock.KVStore, dest timelock.Address, amount uint64) error {
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := AsBalance(recipient).Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}
