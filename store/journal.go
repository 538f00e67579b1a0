package store

import "github.com/iov-one/timelock/errors"

// Op is a single recorded write. Delete ops carry no value.
type Op struct {
	Key    []byte
	Value  []byte
	Delete bool
}

func (o Op) apply(out SetDeleter) error {
	if o.Delete {
		return out.Delete(o.Key)
	}
	return out.Set(o.Key, o.Value)
}

// Journal is a Batch that records writes in memory and replays them on its
// output when written. It is not atomic. A failed replay leaves the ops
// before the failure applied, so only use it in front of memory stores or
// caches.
type Journal struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*Journal)(nil)

// NewJournal returns an empty journal that replays on out.
func NewJournal(out SetDeleter) *Journal {
	return &Journal{out: out}
}

// Set records a write.
func (j *Journal) Set(key, value []byte) error {
	j.ops = append(j.ops, Op{Key: key, Value: value})
	return nil
}

// Delete records a delete.
func (j *Journal) Delete(key []byte) error {
	j.ops = append(j.ops, Op{Key: key, Delete: true})
	return nil
}

// Write replays the recorded ops and clears the journal.
func (j *Journal) Write() error {
	for i, op := range j.ops {
		if err := op.apply(j.out); err != nil {
			return errors.Wrapf(err, "op %d of %d", i+1, len(j.ops))
		}
	}
	j.ops = nil
	return nil
}

// Ops returns the writes recorded since the last Write.
func (j *Journal) Ops() []Op {
	return j.ops
}
