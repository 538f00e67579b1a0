package cash

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// genesisKey is the app_state section holding the initial balances.
const genesisKey = "cash"

// GenesisAccount is one initial balance. The address is hex encoded in the
// json.
type GenesisAccount struct {
	Address timelock.Address `json:"address"`
	Amount  uint64           `json:"amount"`
}

// Initializer mints the genesis balances.
type Initializer struct{}

var _ timelock.Initializer = Initializer{}

// FromGenesis reads the "cash" section and credits every account. An
// address listed twice receives both amounts.
func (Initializer) FromGenesis(opts timelock.Options, db timelock.KVStore) error {
	var accounts []GenesisAccount
	if err := opts.ReadOptions(genesisKey, &accounts); err != nil {
		return err
	}
	ctrl := NewController(NewBucket())
	for i, acc := range accounts {
		if err := acc.Address.Validate(); err != nil {
			return errors.Wrapf(err, "genesis account %d", i)
		}
		if err := ctrl.CoinMint(db, acc.Address, acc.Amount); err != nil {
			return errors.Wrapf(err, "genesis account %d", i)
		}
	}
	return nil
}
