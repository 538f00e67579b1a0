package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Balance is the amount held by a single wallet.
type Balance struct {
	Amount uint64 `protobuf:"varint,1,opt,name=amount" json:"amount"`
}

var _ orm.CloneableData = (*Balance)(nil)

// Validate accepts any balance, including an empty one.
func (b *Balance) Validate() error {
	return nil
}

// Copy makes a new balance with the same amount
func (b *Balance) Copy() orm.CloneableData {
	return &Balance{Amount: b.Amount}
}

// Add increases the balance, failing on overflow.
func (b *Balance) Add(amount uint64) error {
	sum := b.Amount + amount
	if sum < b.Amount {
		return errors.Wrap(errors.ErrOverflow, "balance")
	}
	b.Amount = sum
	return nil
}

// Subtract decreases the balance. It fails without modification if the
// balance is too low.
func (b *Balance) Subtract(amount uint64) error {
	if b.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "have %d, need %d", b.Amount, amount)
	}
	b.Amount -= amount
	return nil
}

func (b *Balance) Reset()         { *b = Balance{} }
func (b *Balance) String() string { return proto.CompactTextString(b) }
func (*Balance) ProtoMessage()    {}

// Marshal encodes the amount as field 1. A zero amount is still written.
func (b *Balance) Marshal() ([]byte, error) {
	return proto.Marshal((*balanceMsg)(b))
}

// Unmarshal decodes the Marshal output.
func (b *Balance) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*balanceMsg)(b))
}

// balanceMsg is Balance without the codec methods, encoded by proto from the
// struct tags.
type balanceMsg Balance

func (m *balanceMsg) Reset()         { *m = balanceMsg{} }
func (m *balanceMsg) String() string { return proto.CompactTextString(m) }
func (*balanceMsg) ProtoMessage()    {}

// NewWallet creates a wallet object for the address with the given amount.
func NewWallet(key timelock.Address, amount uint64) orm.Object {
	return orm.NewSimpleObj(key, &Balance{Amount: amount})
}

// AsBalance will safely type-cast any value from Bucket to a Balance
func AsBalance(obj orm.Object) *Balance {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Balance)
}

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewWallet(nil, 0)),
	}
}

// GetOrCreate will return the wallet if found, or create one
// if not.
func (b Bucket) GetOrCreate(db timelock.KVStore, key timelock.Address) (orm.Object, error) {
	obj, err := b.Get(db, key)
	if err == nil && obj == nil {
		obj = NewWallet(key, 0)
	}
	return obj, err
}
