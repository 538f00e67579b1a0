/*
Package escrow implements a time locked escrow between two parties.

A depositor locks value for a beneficiary until an unlock time. Every
depositor and beneficiary pair owns at most one escrow record, stored at an
address derived from both parties and a namespace tag. The record moves
through these states:

	(absent) --initialize--> Initialized --deposit--> Deposited

Before the unlock time the depositor may cancel from either state and gets
the whole balance back. From the unlock time on the beneficiary may withdraw
a deposited escrow. Both terminal operations delete the record, so any later
operation against the same pair reports ErrAccountNotInitialized.

The depositor pays a storage reserve when the record is created. The reserve
is held at the escrow address and goes to whoever closes the record.

Escrow addresses are truncated sha256 digests, so no private key can sign for
them. Derivation still skips bumps whose full digest is an ed25519 point. That
filter adds no safety here. It keeps the canonical bump, and with it the
address, the same as on chains where an account is an ed25519 key.
*/
package escrow
