/*
Package crypto holds the ed25519 keys and signatures used to authorize
transactions. A public key maps to the "sigs/ed25519/<key>" condition and
through it to an address.

Keys and signatures are protobuf messages with a single bytes field, so that
other implementations can decode them from the struct tags alone.
*/
package crypto

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock"
)

// ExtensionName is used for the Conditions we get from signatures
const ExtensionName = "sigs"

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

var (
	_ timelock.Persistent = (*PublicKey)(nil)
	_ proto.Message       = (*PublicKey)(nil)
)

func (p *PublicKey) Reset()         { *p = PublicKey{} }
func (p *PublicKey) String() string { return proto.CompactTextString(p) }
func (*PublicKey) ProtoMessage()    {}

func (p *PublicKey) Marshal() ([]byte, error) {
	return proto.Marshal((*pubKeyMsg)(p))
}

func (p *PublicKey) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*pubKeyMsg)(p))
}

// PrivateKey is an ed25519 private key, seed and public part.
type PrivateKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

func (p *PrivateKey) Reset()         { *p = PrivateKey{} }
func (p *PrivateKey) String() string { return "PrivateKey{...}" }
func (*PrivateKey) ProtoMessage()    {}

func (p *PrivateKey) Marshal() ([]byte, error) {
	return proto.Marshal((*privKeyMsg)(p))
}

func (p *PrivateKey) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*privKeyMsg)(p))
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

func (s *Signature) Reset()         { *s = Signature{} }
func (s *Signature) String() string { return proto.CompactTextString(s) }
func (*Signature) ProtoMessage()    {}

func (s *Signature) Marshal() ([]byte, error) {
	return proto.Marshal((*signatureMsg)(s))
}

func (s *Signature) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*signatureMsg)(s))
}

// The types below share the layout of the public ones but have no Marshal
// method, so proto encodes them from their struct tags. Calling proto.Marshal
// on a type with a Marshal method would call that method again.

type pubKeyMsg PublicKey

func (m *pubKeyMsg) Reset()         { *m = pubKeyMsg{} }
func (m *pubKeyMsg) String() string { return proto.CompactTextString(m) }
func (*pubKeyMsg) ProtoMessage()    {}

type privKeyMsg PrivateKey

func (m *privKeyMsg) Reset()         { *m = privKeyMsg{} }
func (m *privKeyMsg) String() string { return "privKeyMsg{...}" }
func (*privKeyMsg) ProtoMessage()    {}

type signatureMsg Signature

func (m *signatureMsg) Reset()         { *m = signatureMsg{} }
func (m *signatureMsg) String() string { return proto.CompactTextString(m) }
func (*signatureMsg) ProtoMessage()    {}
