package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// ResultSet is the Key or Value of a query response: one entry per matched
// model, keys and values at the same positions.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results" json:"results,omitempty"`
}

var (
	_ timelock.Marshaller = (*ResultSet)(nil)
	_ proto.Message       = (*ResultSet)(nil)
)

func (r *ResultSet) Reset()         { *r = ResultSet{} }
func (r *ResultSet) String() string { return proto.CompactTextString(r) }
func (*ResultSet) ProtoMessage()    {}

// Marshal writes every result as a repeated field. Empty results are kept,
// so that keys and values always line up.
func (r *ResultSet) Marshal() ([]byte, error) {
	return proto.Marshal((*resultSetMsg)(r))
}

// Unmarshal decodes the Marshal output.
func (r *ResultSet) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*resultSetMsg)(r))
}

// resultSetMsg is encoded by proto from the struct tags.
type resultSetMsg ResultSet

func (m *resultSetMsg) Reset()         { *m = resultSetMsg{} }
func (m *resultSetMsg) String() string { return proto.CompactTextString(m) }
func (*resultSetMsg) ProtoMessage()    {}

// ResultsFromKeys collects the keys of models, in order.
func ResultsFromKeys(models []timelock.Model) *ResultSet {
	return collect(models, func(m timelock.Model) []byte { return m.Key })
}

// ResultsFromValues collects the values of models, in order.
func ResultsFromValues(models []timelock.Model) *ResultSet {
	return collect(models, func(m timelock.Model) []byte { return m.Value })
}

func collect(models []timelock.Model, field func(timelock.Model) []byte) *ResultSet {
	out := &ResultSet{Results: make([][]byte, 0, len(models))}
	for _, m := range models {
		out.Results = append(out.Results, field(m))
	}
	return out
}

// JoinResults pairs the keys and values of a query response back into
// models. Both sets must have the same length.
func JoinResults(keys, values *ResultSet) ([]timelock.Model, error) {
	if len(keys.Results) != len(values.Results) {
		return nil, errors.Wrapf(errors.ErrInput, "%d keys for %d values", len(keys.Results), len(values.Results))
	}
	models := make([]timelock.Model, len(keys.Results))
	for i, key := range keys.Results {
		models[i] = timelock.Pair(key, values.Results[i])
	}
	return models, nil
}

// UnmarshalOneResult decodes the first entry of an encoded ResultSet into
// dest. An empty set leaves dest untouched.
func UnmarshalOneResult(raw []byte, dest timelock.Persistent) error {
	var set ResultSet
	if err := set.Unmarshal(raw); err != nil {
		return err
	}
	if len(set.Results) == 0 {
		return nil
	}
	return dest.Unmarshal(set.Results[0])
}
