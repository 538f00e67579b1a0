package app

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x/cash"
	"github.com/iov-one/timelock/x/escrow"
	"github.com/mr-tron/base58"
)

// DefaultGenesisAmount is minted to the genesis account when no amount is
// given.
const DefaultGenesisAmount uint64 = 1000000000000

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode.
//
// Optional arguments are the address of the account and the amount it holds.
// If no address is given, a new key is generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var addr timelock.Address
	if len(args) > 0 {
		a, err := timelock.ParseAddress(args[0])
		if err != nil {
			return nil, err
		}
		if err := a.Validate(); err != nil {
			return nil, errors.Wrap(err, "genesis account")
		}
		addr = a
	} else {
		// if no address provided, auto-generate one
		// and print out the private key
		a, secret, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		addr = a
		fmt.Println(secret)
	}

	amount := DefaultGenesisAmount
	if len(args) > 1 {
		n, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrAmount, "amount %q", args[1])
		}
		amount = n
	}

	type dict map[string]interface{}
	return json.MarshalIndent(dict{
		"cash": []cash.GenesisAccount{
			{Address: addr, Amount: amount},
		},
		"escrow": escrow.Config{
			StorageReserve: escrow.DefaultStorageReserve,
		},
	}, "", "  ")
}

// GenerateCoinKey returns the address of a new public key, along with the
// base58 encoded private key. You can give coins to this address and
// return the secret to the user to access them.
func GenerateCoinKey() (timelock.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	addr := privKey.PublicKey().Address()
	return addr, base58.Encode(privKey.Ed25519), nil
}
