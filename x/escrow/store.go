package escrow

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

// Store keeps escrow records keyed by their derived address.
type Store struct {
	bucket orm.Bucket
}

// NewStore returns a store backed by the default escrow bucket.
func NewStore() Store {
	return Store{bucket: NewBucket()}
}

// Create saves a new record. It fails with ErrDuplicate if the address is
// already taken.
func (s Store) Create(db timelock.KVStore, addr timelock.Address, e *Escrow) error {
	has, err := s.bucket.Has(db, addr)
	if err != nil {
		return err
	}
	if has {
		return errors.Wrapf(errors.ErrDuplicate, "escrow %s", addr)
	}
	return s.bucket.Save(db, NewEscrow(addr, e))
}

// Read returns the record stored at the address, or nil if there is none.
func (s Store) Read(db timelock.ReadOnlyKVStore, addr timelock.Address) (*Escrow, error) {
	obj, err := s.bucket.Get(db, addr)
	if err != nil {
		return nil, err
	}
	return AsEscrow(obj), nil
}

// Load is like Read but fails with ErrAccountNotInitialized when nothing is
// stored at the address.
func (s Store) Load(db timelock.ReadOnlyKVStore, addr timelock.Address) (*Escrow, error) {
	e, err := s.Read(db, addr)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, errors.Wrapf(ErrAccountNotInitialized, "escrow %s", addr)
	}
	return e, nil
}

// Update overwrites an existing record.
func (s Store) Update(db timelock.KVStore, addr timelock.Address, e *Escrow) error {
	has, err := s.bucket.Has(db, addr)
	if err != nil {
		return err
	}
	if !has {
		return errors.Wrapf(ErrAccountNotInitialized, "escrow %s", addr)
	}
	return s.bucket.Save(db, NewEscrow(addr, e))
}

// Delete removes the record and its index entries.
func (s Store) Delete(db timelock.KVStore, addr timelock.Address) error {
	has, err := s.bucket.Has(db, addr)
	if err != nil {
		return err
	}
	if !has {
		return errors.Wrapf(ErrAccountNotInitialized, "escrow %s", addr)
	}
	return s.bucket.Delete(db, addr)
}

// ByDepositor returns all escrows funded by the address.
func (s Store) ByDepositor(db timelock.ReadOnlyKVStore, depositor timelock.Address) ([]*Escrow, error) {
	return s.byIndex(db, "depositor", depositor)
}

// ByBeneficiary returns all escrows payable to the address.
func (s Store) ByBeneficiary(db timelock.ReadOnlyKVStore, beneficiary timelock.Address) ([]*Escrow, error) {
	return s.byIndex(db, "beneficiary", beneficiary)
}

func (s Store) byIndex(db timelock.ReadOnlyKVStore, index string, key []byte) ([]*Escrow, error) {
	objs, err := s.bucket.GetIndexed(db, index, key)
	if err != nil {
		return nil, err
	}
	res := make([]*Escrow, 0, len(objs))
	for _, obj := range objs {
		if e := AsEscrow(obj); e != nil {
			res = append(res, e)
		}
	}
	return res, nil
}
