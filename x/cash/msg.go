package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

const (
	pathSendMsg = "cash/send"

	maxMemoSize = 128
)

// SendMsg moves Amount from Source to Destination.
type SendMsg struct {
	Source      timelock.Address `protobuf:"bytes,1,opt,name=source,proto3" json:"source,omitempty"`
	Destination timelock.Address `protobuf:"bytes,2,opt,name=destination,proto3" json:"destination,omitempty"`
	Amount      uint64           `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
	Memo        string           `protobuf:"bytes,4,opt,name=memo,proto3" json:"memo,omitempty"`
}

var _ timelock.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible
func (s *SendMsg) Validate() error {
	var errs error
	if s.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	errs = errors.AppendField(errs, "Source", s.Source.Validate())
	errs = errors.AppendField(errs, "Destination", s.Destination.Validate())
	if len(s.Memo) > maxMemoSize {
		errs = errors.Append(errs, errors.Field("Memo", errors.ErrInput, "memo too long"))
	}
	return errs
}

func (s *SendMsg) Reset()         { *s = SendMsg{} }
func (s *SendMsg) String() string { return proto.CompactTextString(s) }
func (*SendMsg) ProtoMessage()    {}

// Marshal encodes the message fields in declaration order.
func (s *SendMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*sendMsg)(s))
}

// Unmarshal decodes the Marshal output.
func (s *SendMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*sendMsg)(s))
}

type sendMsg SendMsg

func (m *sendMsg) Reset()         { *m = sendMsg{} }
func (m *sendMsg) String() string { return proto.CompactTextString(m) }
func (*sendMsg) ProtoMessage()    {}
