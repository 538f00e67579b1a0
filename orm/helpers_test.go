package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock/errors"
)

// note is a minimal CloneableData used across the orm tests.
type note struct {
	Owner []byte `protobuf:"bytes,1,opt,name=owner,proto3"`
	Text  string `protobuf:"bytes,2,opt,name=text,proto3"`
}

var _ CloneableData = (*note)(nil)

func newNote(key []byte, owner, text string) Object {
	return NewSimpleObj(key, &note{Owner: []byte(owner), Text: text})
}

func (n *note) Validate() error {
	if len(n.Owner) == 0 {
		return errors.Field("Owner", errors.ErrEmpty, "required")
	}
	return nil
}

func (n *note) Copy() CloneableData {
	return &note{Owner: append([]byte(nil), n.Owner...), Text: n.Text}
}

func (n *note) Reset()         { *n = note{} }
func (n *note) String() string { return proto.CompactTextString(n) }
func (*note) ProtoMessage()    {}

func (n *note) Marshal() ([]byte, error) {
	return proto.Marshal((*noteMsg)(n))
}

func (n *note) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*noteMsg)(n))
}

type noteMsg note

func (m *noteMsg) Reset()         { *m = noteMsg{} }
func (m *noteMsg) String() string { return proto.CompactTextString(m) }
func (*noteMsg) ProtoMessage()    {}

func noteOwner(obj Object) ([]byte, error) {
	n, ok := obj.Value().(*note)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return n.Owner, nil
}

func noteText(obj Object) ([]byte, error) {
	n, ok := obj.Value().(*note)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return []byte(n.Text), nil
}
