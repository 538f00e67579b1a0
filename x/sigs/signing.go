package sigs

import (
	"bytes"
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
)

// signPrefix starts every signed message. Changing the layout below
// requires a new prefix.
var signPrefix = []byte{0, 0xCA, 0xFE, 0}

// SignBytes returns what a key signs to authorize tx on the given chain
// with the given sequence: the sha512 digest of
//
//   prefix (4) | len(chainID) (1) | chainID | sequence (8, big endian) | tx sign bytes
//
// The chain id and the sequence keep a signature from being replayed on
// another chain or twice on the same one.
func SignBytes(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	return digest(payload, chainID, seq)
}

func digest(payload []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrapf(ErrInvalidSequence, "negative sequence %d", seq)
	}
	if !timelock.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}

	var buf bytes.Buffer
	buf.Write(signPrefix)
	buf.WriteByte(byte(len(chainID)))
	buf.WriteString(chainID)
	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], uint64(seq))
	buf.Write(nonce[:])
	buf.Write(payload)

	sum := sha512.Sum512(buf.Bytes())
	return sum[:], nil
}

// SignTx signs tx with the key for the given chain and sequence.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	msg, err := SignBytes(tx, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(msg)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return &StdSignature{
		Sequence:  seq,
		Pubkey:    signer.PublicKey(),
		Signature: sig,
	}, nil
}
