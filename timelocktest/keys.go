/*
Package timelocktest provides stand-ins for the pieces a handler talks to,
so that extensions can be tested without a running chain: signing parties,
authenticators, transactions and handlers that record how often they were
called.
*/
package timelocktest

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/crypto"
)

// NewKey returns a fresh random signing key.
func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a fresh random key. Its
// address is what a depositor or beneficiary is known by.
func NewCondition() timelock.Condition {
	return NewKey().PublicKey().Condition()
}

// SeededKey returns a key derived from the given seed so that tests can
// refer to the same party across runs.
func SeededKey(seed byte) *crypto.PrivateKey {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = seed
	}
	return crypto.PrivKeyEd25519FromSeed(raw)
}
