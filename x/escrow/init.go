package escrow

import (
	"github.com/iov-one/timelock"
)

const optKey = "escrow"

// Initializer fulfils the Initializer interface to load the escrow
// configuration from the genesis file
type Initializer struct{}

var _ timelock.Initializer = Initializer{}

// FromGenesis stores the escrow configuration. A missing "escrow" key keeps
// the default storage reserve.
func (Initializer) FromGenesis(opts timelock.Options, db timelock.KVStore) error {
	conf := Config{StorageReserve: DefaultStorageReserve}
	if err := opts.ReadOptions(optKey, &conf); err != nil {
		return err
	}
	return SaveConfig(db, &conf)
}
