package orm

import (
	"testing"

	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/timelocktest/assert"
)

func TestIndexUpdate(t *testing.T) {
	refKey := func(k []byte) []byte { return append([]byte("notes:"), k...) }

	cases := map[string]struct {
		unique  bool
		prev    Object
		save    Object
		wantErr *errors.Error
		wantAt  map[string]int
	}{
		"insert": {
			save:   newNote([]byte("a"), "alice", "x"),
			wantAt: map[string]int{"alice": 1},
		},
		"remove": {
			prev:   newNote([]byte("z"), "zed", "x"),
			wantAt: map[string]int{"zed": 0},
		},
		"move": {
			prev:   newNote([]byte("z"), "zed", "x"),
			save:   newNote([]byte("z"), "alice", "x"),
			wantAt: map[string]int{"zed": 0, "alice": 1},
		},
		"primary key change": {
			prev:    newNote([]byte("z"), "zed", "x"),
			save:    newNote([]byte("y"), "zed", "x"),
			wantErr: errors.ErrImmutable,
		},
		"both nil": {
			wantErr: errors.ErrHuman,
		},
		"unique duplicate": {
			unique:  true,
			save:    newNote([]byte("q"), "zed", "x"),
			wantErr: errors.ErrDuplicate,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			idx := NewIndex("owner", noteOwner, tc.unique, refKey)
			// a pre-existing entry so removal and uniqueness have something to hit
			assert.Nil(t, idx.Update(db, nil, newNote([]byte("z"), "zed", "x")))

			err := idx.Update(db, tc.prev, tc.save)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			for owner, n := range tc.wantAt {
				refs, err := idx.GetAt(db, []byte(owner))
				assert.Nil(t, err)
				assert.Equal(t, n, len(refs))
			}
		})
	}
}

func TestIndexRemoveMissing(t *testing.T) {
	db := store.MemStore()
	idx := NewIndex("owner", noteOwner, false, nil)
	err := idx.Update(db, newNote([]byte("a"), "alice", "x"), nil)
	assert.IsErr(t, errors.ErrNotFound, err)
}
