package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

const (
	pathInitializeMsg = "escrow/initialize"
	pathDepositMsg    = "escrow/deposit"
	pathWithdrawMsg   = "escrow/withdraw"
	pathCancelMsg     = "escrow/cancel"
)

// Parties name the escrow a message targets. Every message carries both
// parties so that the handler derives the escrow address itself. Escrow is
// optional. If set, it must be equal to the derived address.
type Parties struct {
	Depositor   timelock.Address `protobuf:"bytes,1,opt,name=depositor,proto3" json:"depositor,omitempty"`
	Beneficiary timelock.Address `protobuf:"bytes,2,opt,name=beneficiary,proto3" json:"beneficiary,omitempty"`
	Escrow      timelock.Address `protobuf:"bytes,3,opt,name=escrow,proto3" json:"escrow,omitempty"`
}

func (p Parties) validate() error {
	var errs error
	errs = errors.AppendField(errs, "Depositor", p.Depositor.Validate())
	errs = errors.AppendField(errs, "Beneficiary", p.Beneficiary.Validate())
	if len(p.Escrow) != 0 {
		errs = errors.AppendField(errs, "Escrow", p.Escrow.Validate())
	}
	return errs
}

// InitializeMsg creates the escrow record of the pair. It must be signed by
// the depositor.
type InitializeMsg struct {
	Parties         `protobuf:"bytes,1,opt,name=parties" json:"parties"`
	UnlockTimestamp timelock.UnixTime `protobuf:"varint,2,opt,name=unlock_timestamp,proto3" json:"unlock_timestamp,omitempty"`
	Bump            uint32            `protobuf:"varint,3,opt,name=bump,proto3" json:"bump,omitempty"`
}

var _ timelock.Msg = (*InitializeMsg)(nil)

// Path returns the routing path for this message
func (InitializeMsg) Path() string {
	return pathInitializeMsg
}

// Validate ensures both parties are set. Timing is checked by the handler.
func (m *InitializeMsg) Validate() error {
	errs := m.Parties.validate()
	if m.Bump > maxBump {
		errs = errors.Append(errs, errors.Field("Bump", errors.ErrInput, "%d does not fit a byte", m.Bump))
	}
	return errs
}

func (m *InitializeMsg) Reset()         { *m = InitializeMsg{} }
func (m *InitializeMsg) String() string { return proto.CompactTextString(m) }
func (*InitializeMsg) ProtoMessage()    {}

// Marshal encodes the message.
func (m *InitializeMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*initializeMsg)(m))
}

// Unmarshal decodes the Marshal output.
func (m *InitializeMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*initializeMsg)(m))
}

// DepositMsg funds an initialized escrow. It must be signed by the
// depositor. A zero amount passes validation and is rejected by the handler
// once the escrow state is known.
type DepositMsg struct {
	Parties `protobuf:"bytes,1,opt,name=parties" json:"parties"`
	Amount  uint64 `protobuf:"varint,2,opt,name=amount,proto3" json:"amount,omitempty"`
}

var _ timelock.Msg = (*DepositMsg)(nil)

// Path returns the routing path for this message
func (DepositMsg) Path() string {
	return pathDepositMsg
}

// Validate ensures both parties are set.
func (m *DepositMsg) Validate() error {
	return m.Parties.validate()
}

func (m *DepositMsg) Reset()         { *m = DepositMsg{} }
func (m *DepositMsg) String() string { return proto.CompactTextString(m) }
func (*DepositMsg) ProtoMessage()    {}

// Marshal encodes the message.
func (m *DepositMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*depositMsg)(m))
}

// Unmarshal decodes the Marshal output.
func (m *DepositMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*depositMsg)(m))
}

// WithdrawMsg releases a deposited escrow to the beneficiary. It must be
// signed by the beneficiary.
type WithdrawMsg struct {
	Parties `protobuf:"bytes,1,opt,name=parties" json:"parties"`
}

var _ timelock.Msg = (*WithdrawMsg)(nil)

// Path returns the routing path for this message
func (WithdrawMsg) Path() string {
	return pathWithdrawMsg
}

// Validate ensures both parties are set.
func (m *WithdrawMsg) Validate() error {
	return m.Parties.validate()
}

func (m *WithdrawMsg) Reset()         { *m = WithdrawMsg{} }
func (m *WithdrawMsg) String() string { return proto.CompactTextString(m) }
func (*WithdrawMsg) ProtoMessage()    {}

// Marshal encodes the message.
func (m *WithdrawMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*withdrawMsg)(m))
}

// Unmarshal decodes the Marshal output.
func (m *WithdrawMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*withdrawMsg)(m))
}

// CancelMsg returns the escrow balance to the depositor. It must be signed
// by the depositor.
type CancelMsg struct {
	Parties `protobuf:"bytes,1,opt,name=parties" json:"parties"`
}

var _ timelock.Msg = (*CancelMsg)(nil)

// Path returns the routing path for this message
func (CancelMsg) Path() string {
	return pathCancelMsg
}

// Validate ensures both parties are set.
func (m *CancelMsg) Validate() error {
	return m.Parties.validate()
}

func (m *CancelMsg) Reset()         { *m = CancelMsg{} }
func (m *CancelMsg) String() string { return proto.CompactTextString(m) }
func (*CancelMsg) ProtoMessage()    {}

// Marshal encodes the message.
func (m *CancelMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*cancelMsg)(m))
}

// Unmarshal decodes the Marshal output.
func (m *CancelMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*cancelMsg)(m))
}

// The types below share the layout of the messages without their Marshal
// and Unmarshal methods, so proto encodes them from the struct tags.

type initializeMsg InitializeMsg

func (m *initializeMsg) Reset()         { *m = initializeMsg{} }
func (m *initializeMsg) String() string { return proto.CompactTextString(m) }
func (*initializeMsg) ProtoMessage()    {}

type depositMsg DepositMsg

func (m *depositMsg) Reset()         { *m = depositMsg{} }
func (m *depositMsg) String() string { return proto.CompactTextString(m) }
func (*depositMsg) ProtoMessage()    {}

type withdrawMsg WithdrawMsg

func (m *withdrawMsg) Reset()         { *m = withdrawMsg{} }
func (m *withdrawMsg) String() string { return proto.CompactTextString(m) }
func (*withdrawMsg) ProtoMessage()    {}

type cancelMsg CancelMsg

func (m *cancelMsg) Reset()         { *m = cancelMsg{} }
func (m *cancelMsg) String() string { return proto.CompactTextString(m) }
func (*cancelMsg) ProtoMessage()    {}
