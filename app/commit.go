package app

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// CommitStore keeps two independent cache layers over the committed tree.
// Deliver writes reach the tree on Commit, check writes never do.
type CommitStore struct {
	committed timelock.CommitKVStore
	deliver   timelock.KVCacheWrap
	check     timelock.KVCacheWrap
}

// NewCommitStore opens the latest version of the tree. It panics when the
// tree cannot be loaded since no block can be processed without it.
func NewCommitStore(committed timelock.CommitKVStore) *CommitStore {
	if err := committed.LoadLatestVersion(); err != nil {
		panic(err)
	}
	cs := &CommitStore{committed: committed}
	cs.reset()
	return cs
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the version and hash of the last commit.
func (cs *CommitStore) CommitInfo() (timelock.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit flushes the deliver layer into the tree, saves a new version and
// starts fresh layers on top of it.
func (cs *CommitStore) Commit() (timelock.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return timelock.CommitID{}, errors.Wrap(err, "flush deliver state")
	}
	cs.check.Discard()
	id, err := cs.committed.Commit()
	if err != nil {
		return id, err
	}
	cs.reset()
	return id, nil
}

// CheckStore is the state CheckTx runs against.
func (cs *CommitStore) CheckStore() timelock.CacheableKVStore { return cs.check }

// DeliverStore is the state DeliverTx runs against.
func (cs *CommitStore) DeliverStore() timelock.CacheableKVStore { return cs.deliver }

// chainIDKey lives under the "_tl:" prefix reserved for application
// bookkeeping, outside of any bucket.
var chainIDKey = []byte("_tl:chainID")

// mustLoadChainID returns the stored chain id, or an empty string before
// genesis.
func mustLoadChainID(db timelock.ReadOnlyKVStore) string {
	raw, err := db.Get(chainIDKey)
	if err != nil {
		panic(err)
	}
	return string(raw)
}

// saveChainID writes the chain id once. A second write is rejected.
func saveChainID(db timelock.KVStore, chainID string) error {
	if !timelock.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	switch exists, err := db.Has(chainIDKey); {
	case err != nil:
		return errors.Wrap(err, "chain id lookup")
	case exists:
		return errors.Wrap(errors.ErrUnauthorized, "chain id is set at genesis only")
	}
	return errors.Wrap(db.Set(chainIDKey, []byte(chainID)), "chain id")
}
