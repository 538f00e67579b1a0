package orm

import (
	"bytes"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Indexer computes the secondary key of an object.
type Indexer func(Object) ([]byte, error)

// Index maps a secondary key to the primary keys of the objects that
// produce it. A unique index stores a single primary key as the raw value,
// other indexes store a MultiRef.
type Index struct {
	name    string
	prefix  []byte
	unique  bool
	indexer Indexer
	// dbKey turns a primary key into the key its object is stored under.
	dbKey func([]byte) []byte
}

var _ timelock.QueryHandler = Index{}

// NewIndex creates an index stored under "_i.<name>:". dbKey resolves a
// primary key to the key of the object, for queries.
func NewIndex(name string, indexer Indexer, unique bool, dbKey func([]byte) []byte) Index {
	return Index{
		name:    name,
		prefix:  []byte("_i." + name + ":"),
		unique:  unique,
		indexer: indexer,
		dbKey:   dbKey,
	}
}

// IndexKey returns the store key of a secondary key. The result never
// shares memory with the index prefix.
func (i Index) IndexKey(key []byte) []byte {
	out := make([]byte, 0, len(i.prefix)+len(key))
	return append(append(out, i.prefix...), key...)
}

// Update moves the object from where prev was indexed to where save is
// indexed. A nil prev inserts, a nil save removes. Both objects must have
// the same primary key.
func (i Index) Update(db timelock.KVStore, prev, save Object) error {
	if prev == nil && save == nil {
		return errors.Wrap(errors.ErrHuman, "index update without objects")
	}
	if prev != nil && save != nil && !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrap(errors.ErrImmutable, "primary key cannot change")
	}
	var from, to []byte
	var err error
	if prev != nil {
		if from, err = i.indexer(prev); err != nil {
			return err
		}
	}
	if save != nil {
		if to, err = i.indexer(save); err != nil {
			return err
		}
	}
	if prev != nil && save != nil && bytes.Equal(from, to) {
		return nil
	}
	if prev != nil {
		if err := i.remove(db, from, prev.Key()); err != nil {
			return err
		}
	}
	if save != nil {
		return i.insert(db, to, save.Key())
	}
	return nil
}

// GetAt returns the primary keys indexed under key.
func (i Index) GetAt(db timelock.ReadOnlyKVStore, key []byte) ([][]byte, error) {
	raw, err := db.Get(i.IndexKey(key))
	if err != nil {
		return nil, err
	}
	return i.decode(raw)
}

// GetPrefix returns the primary keys of every secondary key starting with
// prefix.
func (i Index) GetPrefix(db timelock.ReadOnlyKVStore, prefix []byte) ([][]byte, error) {
	models, err := queryPrefix(db, i.IndexKey(prefix))
	if err != nil {
		return nil, err
	}
	var refs [][]byte
	for _, m := range models {
		got, err := i.decode(m.Value)
		if err != nil {
			return nil, err
		}
		refs = append(refs, got...)
	}
	return refs, nil
}

// Query resolves the matched primary keys and returns the objects with
// their store keys.
func (i Index) Query(db timelock.ReadOnlyKVStore, mod string, data []byte) ([]timelock.Model, error) {
	var refs [][]byte
	var err error
	switch mod {
	case timelock.KeyQueryMod:
		refs, err = i.GetAt(db, data)
	case timelock.PrefixQueryMod:
		refs, err = i.GetPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query modifier %q", mod)
	}
	if err != nil {
		return nil, err
	}
	var found []timelock.Model
	for _, ref := range refs {
		key := i.dbKey(ref)
		m, err := getOne(db, key, key)
		if err != nil {
			return nil, err
		}
		found = append(found, m...)
	}
	return found, nil
}

func (i Index) insert(db timelock.KVStore, key, pk []byte) error {
	refs, err := i.load(db, key)
	if err != nil {
		return err
	}
	if i.unique && len(refs.Refs) != 0 {
		return errors.Wrapf(errors.ErrDuplicate, "index %s already holds %X", i.name, key)
	}
	if err := refs.Add(pk); err != nil {
		return err
	}
	return i.store(db, key, refs)
}

func (i Index) remove(db timelock.KVStore, key, pk []byte) error {
	refs, err := i.load(db, key)
	if err != nil {
		return err
	}
	if len(refs.Refs) == 0 {
		return errors.Wrapf(errors.ErrNotFound, "index %s has no entry for %X", i.name, key)
	}
	if err := refs.Remove(pk); err != nil {
		return errors.Wrapf(err, "index %s", i.name)
	}
	return i.store(db, key, refs)
}

func (i Index) load(db timelock.ReadOnlyKVStore, key []byte) (*MultiRef, error) {
	raw, err := db.Get(i.IndexKey(key))
	if err != nil {
		return nil, err
	}
	refs, err := i.decode(raw)
	if err != nil {
		return nil, err
	}
	return &MultiRef{Refs: refs}, nil
}

// store writes the references back, deleting the entry once it is empty.
func (i Index) store(db timelock.KVStore, key []byte, refs *MultiRef) error {
	if len(refs.Refs) == 0 {
		return db.Delete(i.IndexKey(key))
	}
	if i.unique {
		return db.Set(i.IndexKey(key), refs.Refs[0])
	}
	raw, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(i.IndexKey(key), raw)
}

func (i Index) decode(raw []byte) ([][]byte, error) {
	switch {
	case raw == nil:
		return nil, nil
	case i.unique:
		return [][]byte{raw}, nil
	}
	var refs MultiRef
	if err := refs.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "index %s", i.name)
	}
	return refs.Refs, nil
}
