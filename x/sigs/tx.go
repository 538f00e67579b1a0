package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the sigs.Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the Msg.
	//
	// Helpful to store original, unparsed bytes here, just in case.
	GetSignBytes() ([]byte, error)

	// Signatures returns the signature of signers who signed the Msg.
	GetSignatures() []*StdSignature
}

// StdSignature is one signature over a transaction, together with the key
// that produced it and the sequence it was signed with.
type StdSignature struct {
	Sequence  int64             `protobuf:"varint,1,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Pubkey    *crypto.PublicKey `protobuf:"bytes,2,opt,name=pubkey" json:"pubkey,omitempty"`
	Signature *crypto.Signature `protobuf:"bytes,3,opt,name=signature" json:"signature,omitempty"`
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.Pubkey == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if s.Signature == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

func (s *StdSignature) Reset()         { *s = StdSignature{} }
func (s *StdSignature) String() string { return proto.CompactTextString(s) }
func (*StdSignature) ProtoMessage()    {}

// Marshal encodes the sequence, public key and signature as fields 1 to 3.
func (s *StdSignature) Marshal() ([]byte, error) {
	return proto.Marshal((*stdSignatureMsg)(s))
}

// Unmarshal decodes the Marshal output.
func (s *StdSignature) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*stdSignatureMsg)(s))
}

type stdSignatureMsg StdSignature

func (m *stdSignatureMsg) Reset()         { *m = stdSignatureMsg{} }
func (m *stdSignatureMsg) String() string { return proto.CompactTextString(m) }
func (*stdSignatureMsg) ProtoMessage()    {}
