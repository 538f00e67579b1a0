package crypto

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"golang.org/x/crypto/ed25519"
)

var _ Signer = (*PrivateKey)(nil)

// Verify reports whether sig is a valid signature of message by this key.
// Malformed keys and signatures never verify.
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	switch {
	case p == nil || len(p.Ed25519) != ed25519.PublicKeySize:
		return false
	case sig == nil || len(sig.Ed25519) != ed25519.SignatureSize:
		return false
	}
	return ed25519.Verify(p.Ed25519, message, sig.Ed25519)
}

// Condition is the "sigs/ed25519/<key>" condition of the key, or nil for an
// empty key.
func (p *PublicKey) Condition() timelock.Condition {
	if p == nil || len(p.Ed25519) == 0 {
		return nil
	}
	return timelock.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address is the address of the key's condition.
func (p *PublicKey) Address() timelock.Address {
	return p.Condition().Address()
}

// Sign signs message. Only a full 64 byte private key can sign.
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if p == nil || len(p.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInput, "invalid private key")
	}
	return &Signature{Ed25519: ed25519.Sign(p.Ed25519, message)}, nil
}

// PublicKey derives the public half of the key.
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// GenPrivKeyEd25519 creates a key from the system randomness.
func GenPrivKeyEd25519() *PrivateKey {
	_, key, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: key}
}

// PrivKeyEd25519FromSeed expands a 32 byte seed into a key. The same seed
// always gives the same key. Other seed sizes panic.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}
