package escrow

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

// BucketName is where escrow records are stored.
const BucketName = "escrow"

// State of an escrow record. Withdrawn and cancelled escrows are deleted, so
// they have no state.
type State int32

const (
	StateInitialized State = iota + 1
	StateDeposited
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "Initialized"
	case StateDeposited:
		return "Deposited"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Escrow is the record kept for a depositor and beneficiary pair.
type Escrow struct {
	Depositor       timelock.Address  `protobuf:"bytes,1,opt,name=depositor,proto3" json:"depositor,omitempty"`
	Beneficiary     timelock.Address  `protobuf:"bytes,2,opt,name=beneficiary,proto3" json:"beneficiary,omitempty"`
	Amount          uint64            `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
	UnlockTimestamp timelock.UnixTime `protobuf:"varint,4,opt,name=unlock_timestamp,proto3" json:"unlock_timestamp,omitempty"`
	State           State             `protobuf:"varint,5,opt,name=state,proto3" json:"state,omitempty"`
	// Bump is the seed that moved the derived address off the curve. It
	// fits in a byte.
	Bump uint32 `protobuf:"varint,6,opt,name=bump,proto3" json:"bump,omitempty"`
}

var _ orm.CloneableData = (*Escrow)(nil)

// Validate ensures the escrow is valid
func (e *Escrow) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Depositor", e.Depositor.Validate())
	errs = errors.AppendField(errs, "Beneficiary", e.Beneficiary.Validate())
	if e.UnlockTimestamp == 0 {
		errs = errors.Append(errs, errors.Field("UnlockTimestamp", errors.ErrEmpty, "required"))
	} else {
		errs = errors.AppendField(errs, "UnlockTimestamp", e.UnlockTimestamp.Validate())
	}
	if e.Bump > maxBump {
		errs = errors.Append(errs, errors.Field("Bump", errors.ErrInput, "%d does not fit a byte", e.Bump))
	}
	switch e.State {
	case StateInitialized:
		if e.Amount != 0 {
			errs = errors.Append(errs, errors.Field("Amount", errors.ErrState, "initialized escrow holds %d", e.Amount))
		}
	case StateDeposited:
		if e.Amount == 0 {
			errs = errors.Append(errs, errors.Field("Amount", errors.ErrState, "deposited escrow holds nothing"))
		}
	default:
		errs = errors.Append(errs, errors.Field("State", errors.ErrState, "unknown %s", e.State))
	}
	return errs
}

// Copy makes a new escrow with the same values
func (e *Escrow) Copy() orm.CloneableData {
	return &Escrow{
		Depositor:       e.Depositor.Clone(),
		Beneficiary:     e.Beneficiary.Clone(),
		Amount:          e.Amount,
		UnlockTimestamp: e.UnlockTimestamp,
		State:           e.State,
		Bump:            e.Bump,
	}
}

func (e *Escrow) Reset()         { *e = Escrow{} }
func (e *Escrow) String() string { return proto.CompactTextString(e) }
func (*Escrow) ProtoMessage()    {}

// Marshal encodes the escrow fields in declaration order.
func (e *Escrow) Marshal() ([]byte, error) {
	return proto.Marshal((*escrowMsg)(e))
}

// Unmarshal decodes the Marshal output.
func (e *Escrow) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*escrowMsg)(e))
}

// escrowMsg is Escrow without the codec methods. proto encodes it from the
// struct tags, while encoding an Escrow directly would call Escrow.Marshal
// again.
type escrowMsg Escrow

func (m *escrowMsg) Reset()         { *m = escrowMsg{} }
func (m *escrowMsg) String() string { return proto.CompactTextString(m) }
func (*escrowMsg) ProtoMessage()    {}

// AsEscrow extracts an *Escrow value or nil from the object
// Must be called on a Bucket result that is an *Escrow,
// will panic on bad type.
func AsEscrow(obj orm.Object) *Escrow {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Escrow)
}

// NewEscrow creates an escrow orm.Object stored under the given address.
func NewEscrow(addr timelock.Address, e *Escrow) orm.Object {
	return orm.NewSimpleObj(addr, e)
}

func toEscrow(obj orm.Object) (*Escrow, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "Cannot take index of nil")
	}
	esc, ok := obj.Value().(*Escrow)
	if !ok {
		return nil, errors.Wrap(errors.ErrHuman, "Can only take index of Escrow")
	}
	return esc, nil
}

func idxDepositor(obj orm.Object) ([]byte, error) {
	esc, err := toEscrow(obj)
	if err != nil {
		return nil, err
	}
	return esc.Depositor, nil
}

func idxBeneficiary(obj orm.Object) ([]byte, error) {
	esc, err := toEscrow(obj)
	if err != nil {
		return nil, err
	}
	return esc.Beneficiary, nil
}

// NewBucket returns the bucket escrows are stored in, indexed by both
// parties.
func NewBucket() orm.Bucket {
	return orm.NewBucket(BucketName, NewEscrow(nil, new(Escrow))).
		WithIndex("depositor", idxDepositor, false).
		WithIndex("beneficiary", idxBeneficiary, false)
}
