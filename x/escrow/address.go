package escrow

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

const (
	// NamespaceTag is the first seed of every escrow address.
	NamespaceTag = "escrow"

	derivationMarker = "ProgramDerivedAddress"

	maxBump = 255
)

// ProgramID scopes derived addresses to this extension, so that the same
// seeds used by another extension never produce the same address.
var ProgramID = []byte("timelock/x/escrow")

// FindAddress returns the address of the escrow owned by the given pair,
// together with its canonical bump. Bumps are tried from 255 down to 0 and
// the first one that yields an off curve digest wins.
func FindAddress(depositor, beneficiary timelock.Address) (timelock.Address, uint8, error) {
	for bump := maxBump; bump >= 0; bump-- {
		addr, err := DeriveAddress(depositor, beneficiary, uint8(bump))
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !ErrInvalidSeeds.Is(err) {
			return nil, 0, err
		}
	}
	return nil, 0, errors.Wrap(ErrInvalidSeeds, "no viable bump")
}

// DeriveAddress computes the escrow address for the pair and the given bump.
// It fails with ErrInvalidSeeds if the full digest is a valid ed25519 point.
//
// The address is the first 20 bytes of the digest, so it can never be
// controlled by a key whatever the curve check says. The check only decides
// which bump is canonical. It is kept so that a pair derives the same bump,
// and so the same address, as it does on chains that key accounts by ed25519
// points.
func DeriveAddress(depositor, beneficiary timelock.Address, bump uint8) (timelock.Address, error) {
	if err := depositor.Validate(); err != nil {
		return nil, errors.Wrap(err, "depositor")
	}
	if err := beneficiary.Validate(); err != nil {
		return nil, errors.Wrap(err, "beneficiary")
	}

	h := sha256.New()
	h.Write([]byte(NamespaceTag))
	h.Write(depositor)
	h.Write(beneficiary)
	h.Write([]byte{bump})
	h.Write(ProgramID)
	h.Write([]byte(derivationMarker))
	digest := h.Sum(nil)

	if onCurve(digest) {
		return nil, errors.Wrapf(ErrInvalidSeeds, "bump %d is on curve", bump)
	}
	return timelock.Address(digest[:timelock.AddressLength]), nil
}

// onCurve reports whether the 32 byte digest decodes as an edwards25519
// point.
func onCurve(digest []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(digest)
	return err == nil
}
