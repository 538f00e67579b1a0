package orm

import (
	"bytes"
	"sort"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock/errors"
)

// MultiRef is an ordered set of primary keys, the value of a non unique
// index entry.
type MultiRef struct {
	Refs [][]byte `protobuf:"bytes,1,rep,name=refs" json:"refs,omitempty"`
}

var _ CloneableData = (*MultiRef)(nil)

// NewMultiRef builds a set from refs, which may come in any order.
func NewMultiRef(refs ...[]byte) (*MultiRef, error) {
	m := &MultiRef{}
	for _, ref := range refs {
		if err := m.Add(ref); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// search returns the position of ref, or where it would be inserted.
func (m *MultiRef) search(ref []byte) (int, bool) {
	i := sort.Search(len(m.Refs), func(i int) bool {
		return bytes.Compare(m.Refs[i], ref) >= 0
	})
	return i, i < len(m.Refs) && bytes.Equal(m.Refs[i], ref)
}

// Add inserts ref in order. Adding a ref twice is ErrDuplicate.
func (m *MultiRef) Add(ref []byte) error {
	i, found := m.search(ref)
	if found {
		return errors.Wrap(errors.ErrDuplicate, "ref already in set")
	}
	m.Refs = append(m.Refs, nil)
	copy(m.Refs[i+1:], m.Refs[i:])
	m.Refs[i] = ref
	return nil
}

// Remove drops ref. Removing an absent ref is ErrNotFound.
func (m *MultiRef) Remove(ref []byte) error {
	i, found := m.search(ref)
	if !found {
		return errors.Wrap(errors.ErrNotFound, "ref not in set")
	}
	m.Refs = append(m.Refs[:i], m.Refs[i+1:]...)
	return nil
}

// Copy returns a set that can be changed without affecting m. The refs
// themselves are shared and must not be modified.
func (m *MultiRef) Copy() CloneableData {
	return &MultiRef{Refs: append([][]byte(nil), m.Refs...)}
}

// Validate rejects an empty set, which is never stored.
func (m *MultiRef) Validate() error {
	if len(m.Refs) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no references")
	}
	return nil
}

func (m *MultiRef) Reset()         { *m = MultiRef{} }
func (m *MultiRef) String() string { return proto.CompactTextString(m) }
func (*MultiRef) ProtoMessage()    {}

func (m *MultiRef) Marshal() ([]byte, error) {
	return proto.Marshal((*multiRefMsg)(m))
}

func (m *MultiRef) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*multiRefMsg)(m))
}

// multiRefMsg has no Marshal method, so proto encodes it from the struct
// tags.
type multiRefMsg MultiRef

func (m *multiRefMsg) Reset()         { *m = multiRefMsg{} }
func (m *multiRefMsg) String() string { return proto.CompactTextString(m) }
func (*multiRefMsg) ProtoMessage()    {}
