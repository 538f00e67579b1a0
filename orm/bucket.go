/*
Package orm stores typed records in a key value store.

A Bucket owns every key starting with its name and a colon, and holds one
kind of Object. Secondary indexes live under "_i.<bucket>_<index>:" and are
kept in sync on every Save and Delete. Buckets and indexes can be exposed to
ABCI queries through a timelock.QueryRouter.
*/
package orm

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

var validBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket is a prefixed part of the store holding objects cloned from a
// template. Wrap it in a typed bucket so callers never see another type.
type Bucket struct {
	name     string
	prefix   []byte
	template Object
	indexes  map[string]Index
}

var _ timelock.QueryHandler = Bucket{}

// NewBucket creates a bucket. The name must be 3 to 10 lowercase letters or
// underscores, anything else panics.
func NewBucket(name string, template Object) Bucket {
	if !validBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name %q", name))
	}
	return Bucket{name: name, prefix: []byte(name + ":"), template: template}
}

// WithIndex returns a copy of the bucket with one more index. Index names
// must be unique within the bucket.
func (b Bucket) WithIndex(name string, indexer Indexer, unique bool) Bucket {
	if _, dup := b.indexes[name]; dup {
		panic(fmt.Sprintf("index %q registered twice on %s", name, b.name))
	}
	indexes := make(map[string]Index, len(b.indexes)+1)
	for n, idx := range b.indexes {
		indexes[n] = idx
	}
	indexes[name] = NewIndex(b.name+"_"+name, indexer, unique, b.DBKey)
	b.indexes = indexes
	return b
}

// Register exposes the bucket under "/<path>" and each index under
// "/<path>/<index>". An empty path uses the bucket name.
func (b Bucket) Register(path string, r timelock.QueryRouter) {
	if path == "" {
		path = b.name
	}
	r.Register("/"+path, b)
	for name, idx := range b.indexes {
		r.Register("/"+path+"/"+name, idx)
	}
}

// Query looks up a key, or a key prefix with the "prefix" modifier. The
// returned keys include the bucket prefix.
func (b Bucket) Query(db timelock.ReadOnlyKVStore, mod string, data []byte) ([]timelock.Model, error) {
	switch mod {
	case timelock.KeyQueryMod:
		key := b.DBKey(data)
		return getOne(db, key, key)
	case timelock.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	}
	return nil, errors.Wrapf(errors.ErrInput, "unknown query modifier %q", mod)
}

// DBKey returns the store key of an object key. Every call returns a new
// slice.
func (b Bucket) DBKey(key []byte) []byte {
	out := make([]byte, 0, len(b.prefix)+len(key))
	return append(append(out, b.prefix...), key...)
}

// Has reports whether an object is stored under key.
func (b Bucket) Has(db timelock.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Get loads the object stored under key. A missing key gives nil and no
// error.
func (b Bucket) Get(db timelock.ReadOnlyKVStore, key []byte) (Object, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil || raw == nil {
		return nil, err
	}
	return b.Parse(key, raw)
}

// Parse decodes a stored value into a fresh object with the given key.
func (b Bucket) Parse(key, raw []byte) (Object, error) {
	obj := b.template.Clone()
	if err := obj.Value().Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "%s entry", b.name)
	}
	obj.SetKey(key)
	return obj, nil
}

// Save validates the object, updates the indexes and writes it.
func (b Bucket) Save(db timelock.KVStore, obj Object) error {
	if err := obj.Validate(); err != nil {
		return err
	}
	raw, err := obj.Value().Marshal()
	if err != nil {
		return err
	}
	if err := b.reindex(db, obj.Key(), obj); err != nil {
		return err
	}
	return db.Set(b.DBKey(obj.Key()), raw)
}

// Delete removes the object and its index entries.
func (b Bucket) Delete(db timelock.KVStore, key []byte) error {
	if err := b.reindex(db, key, nil); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

// GetIndexed loads every object the named index holds under key.
func (b Bucket) GetIndexed(db timelock.ReadOnlyKVStore, index string, key []byte) ([]Object, error) {
	idx, ok := b.indexes[index]
	if !ok {
		return nil, errors.Wrap(ErrInvalidIndex, index)
	}
	refs, err := idx.GetAt(db, key)
	if err != nil {
		return nil, err
	}
	var objs []Object
	for _, ref := range refs {
		obj, err := b.Get(db, ref)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

// reindex updates every index from the stored object to next, which is nil
// on delete. Indexes run in name order so the writes are deterministic.
func (b Bucket) reindex(db timelock.KVStore, key []byte, next Object) error {
	if len(b.indexes) == 0 {
		return nil
	}
	prev, err := b.Get(db, key)
	if err != nil {
		return err
	}
	if prev == nil && next == nil {
		return nil
	}
	names := make([]string, 0, len(b.indexes))
	for name := range b.indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := b.indexes[name].Update(db, prev, next); err != nil {
			return err
		}
	}
	return nil
}
