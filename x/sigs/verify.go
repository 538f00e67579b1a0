package sigs

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Verify checks every signature of tx and advances the sequence of each
// signer, so the same signature is never accepted twice. It returns the
// signer conditions in signature order. A tx without signatures verifies
// with no signers.
func Verify(db timelock.KVStore, tx SignedTx, chainID string) ([]timelock.Condition, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	bucket := NewBucket()
	sigs := tx.GetSignatures()
	signers := make([]timelock.Condition, len(sigs))
	for i, sig := range sigs {
		signers[i], err = verifySignature(db, bucket, sig, payload, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
	}
	return signers, nil
}

func verifySignature(db timelock.KVStore, bucket Bucket, sig *StdSignature, payload []byte, chainID string) (timelock.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	msg, err := digest(payload, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !sig.Pubkey.Verify(msg, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}

	obj, err := bucket.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	user := AsUser(obj)
	if err := user.Increment(sig.Sequence); err != nil {
		return nil, err
	}
	if err := bucket.Save(db, obj); err != nil {
		return nil, err
	}
	return sig.Pubkey.Condition(), nil
}

// NextNonce returns the sequence the next signature of addr must carry.
// An address that never signed starts at zero.
func NextNonce(db timelock.ReadOnlyKVStore, addr timelock.Address) (int64, error) {
	obj, err := NewBucket().Get(db, addr)
	if err != nil {
		return 0, errors.Wrap(err, "load signer")
	}
	if user := AsUser(obj); user != nil {
		return user.Sequence, nil
	}
	return 0, nil
}
