package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

// BucketName prefixes the signer records.
const BucketName = "sigs"

// UserData is the state kept for every signer: the public key that signed
// for the address and the next expected sequence.
type UserData struct {
	Pubkey   *crypto.PublicKey `protobuf:"bytes,1,opt,name=pubkey" json:"pubkey,omitempty"`
	Sequence int64             `protobuf:"varint,2,opt,name=sequence" json:"sequence"`
}

var _ orm.CloneableData = (*UserData)(nil)

// Validate requires a public key and a sequence that is not negative.
func (u *UserData) Validate() error {
	var errs error
	if u.Pubkey == nil {
		errs = errors.AppendField(errs, "Pubkey", errors.ErrEmpty)
	}
	if u.Sequence < 0 {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	}
	return errs
}

func (u *UserData) Copy() orm.CloneableData {
	cp := *u
	return &cp
}

func (u *UserData) Reset()         { *u = UserData{} }
func (u *UserData) String() string { return proto.CompactTextString(u) }
func (*UserData) ProtoMessage()    {}

// Marshal encodes the public key as field 1 and the sequence as field 2.
// The sequence is always written, so a record is never empty.
func (u *UserData) Marshal() ([]byte, error) {
	return proto.Marshal((*userDataMsg)(u))
}

// Unmarshal decodes the Marshal output.
func (u *UserData) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*userDataMsg)(u))
}

// userDataMsg is UserData without the codec methods, encoded by proto from
// the struct tags.
type userDataMsg UserData

func (m *userDataMsg) Reset()         { *m = userDataMsg{} }
func (m *userDataMsg) String() string { return proto.CompactTextString(m) }
func (*userDataMsg) ProtoMessage()    {}

// maxSequence is the largest sequence a javascript client can hold
// exactly, Number.MAX_SAFE_INTEGER.
const maxSequence = 1<<53 - 1

// Increment moves the sequence forward after a signature with sequence seq
// was verified. seq must equal the stored sequence.
func (u *UserData) Increment(seq int64) error {
	if seq != u.Sequence {
		return errors.Wrapf(ErrInvalidSequence, "got %d, want %d", seq, u.Sequence)
	}
	if u.Sequence >= maxSequence {
		return errors.Wrap(errors.ErrOverflow, "sequence")
	}
	u.Sequence++
	return nil
}

// AsUser returns the signer record held by obj, nil when obj is empty.
func AsUser(obj orm.Object) *UserData {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*UserData)
}

// NewUser returns a fresh record for the key, stored under its address. A
// nil key gives an empty template for the bucket.
func NewUser(pubkey *crypto.PublicKey) orm.Object {
	var addr timelock.Address
	if pubkey != nil {
		addr = pubkey.Address()
	}
	return orm.NewSimpleObj(addr, &UserData{Pubkey: pubkey})
}

// Bucket stores a UserData per signer address.
type Bucket struct {
	orm.Bucket
}

// NewBucket returns the signer bucket.
func NewBucket() Bucket {
	return Bucket{Bucket: orm.NewBucket(BucketName, NewUser(nil))}
}

// GetOrCreate loads the record of the key, or a new one at sequence zero
// if the key never signed. A new record is not saved.
func (b Bucket) GetOrCreate(db timelock.KVStore, pubkey *crypto.PublicKey) (orm.Object, error) {
	obj, err := b.Get(db, pubkey.Address())
	if err != nil || obj != nil {
		return obj, err
	}
	return NewUser(pubkey), nil
}
