package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x/cash"
	"github.com/iov-one/timelock/x/escrow"
	"github.com/iov-one/timelock/x/sigs"
)

// Tx is the only transaction type accepted by the chain. It carries exactly
// one message and any number of signatures over it.
//
// Encoding: field 1 holds the repeated signatures, each message type has its
// own field starting at 2.
type Tx struct {
	Signatures []*sigs.StdSignature
	Msg        timelock.Msg
}

// make sure tx fulfills all interfaces
var _ timelock.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (timelock.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the single message of the transaction.
func (tx *Tx) GetMsg() (timelock.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrInput, "unable to decode")
	}
	return tx.Msg, nil
}

// GetSignatures returns all signatures attached to the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign. Signatures are not part of them.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	return tx.marshal(false)
}

// Marshal encodes the signatures and the message.
func (tx *Tx) Marshal() ([]byte, error) {
	return tx.marshal(true)
}

func (tx *Tx) marshal(withSigs bool) ([]byte, error) {
	var w txMsg
	if withSigs {
		w.Signatures = tx.Signatures
	}
	switch msg := tx.Msg.(type) {
	case nil:
	case *cash.SendMsg:
		w.SendMsg = msg
	case *escrow.InitializeMsg:
		w.InitializeMsg = msg
	case *escrow.DepositMsg:
		w.DepositMsg = msg
	case *escrow.WithdrawMsg:
		w.WithdrawMsg = msg
	case *escrow.CancelMsg:
		w.CancelMsg = msg
	default:
		return nil, errors.Wrapf(errors.ErrType, "unsupported message %T", msg)
	}
	raw, err := proto.Marshal(&w)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// Unmarshal decodes the Marshal output. A transaction carrying more than one
// message is rejected.
func (tx *Tx) Unmarshal(raw []byte) error {
	*tx = Tx{}
	var w txMsg
	if err := proto.Unmarshal(raw, &w); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	var found []timelock.Msg
	if w.SendMsg != nil {
		found = append(found, w.SendMsg)
	}
	if w.InitializeMsg != nil {
		found = append(found, w.InitializeMsg)
	}
	if w.DepositMsg != nil {
		found = append(found, w.DepositMsg)
	}
	if w.WithdrawMsg != nil {
		found = append(found, w.WithdrawMsg)
	}
	if w.CancelMsg != nil {
		found = append(found, w.CancelMsg)
	}
	if len(found) > 1 {
		return errors.Wrap(errors.ErrInput, "more than one message")
	}
	tx.Signatures = w.Signatures
	if len(found) == 1 {
		tx.Msg = found[0]
	}
	return nil
}

// txMsg is the wire layout of a Tx. Each message type has its own field and
// at most one of them is set.
type txMsg struct {
	Signatures    []*sigs.StdSignature  `protobuf:"bytes,1,rep,name=signatures"`
	SendMsg       *cash.SendMsg         `protobuf:"bytes,2,opt,name=send_msg"`
	InitializeMsg *escrow.InitializeMsg `protobuf:"bytes,3,opt,name=initialize_msg"`
	DepositMsg    *escrow.DepositMsg    `protobuf:"bytes,4,opt,name=deposit_msg"`
	WithdrawMsg   *escrow.WithdrawMsg   `protobuf:"bytes,5,opt,name=withdraw_msg"`
	CancelMsg     *escrow.CancelMsg     `protobuf:"bytes,6,opt,name=cancel_msg"`
}

func (m *txMsg) Reset()         { *m = txMsg{} }
func (m *txMsg) String() string { return proto.CompactTextString(m) }
func (*txMsg) ProtoMessage()    {}
