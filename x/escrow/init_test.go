package escrow

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/timelocktest/assert"
)

func TestGenesis(t *testing.T) {
	cases := map[string]struct {
		genesis     string
		wantReserve uint64
		wantErr     *errors.Error
	}{
		"no escrow section": {
			genesis:     `{}`,
			wantReserve: DefaultStorageReserve,
		},
		"custom reserve": {
			genesis:     `{"escrow": {"storage_reserve": 42}}`,
			wantReserve: 42,
		},
		"free storage": {
			genesis:     `{"escrow": {"storage_reserve": 0}}`,
			wantReserve: 0,
		},
		"malformed": {
			genesis: `{"escrow": {"storage_reserve": "lots"}}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts timelock.Options
			if err := json.Unmarshal([]byte(tc.genesis), &opts); err != nil {
				t.Fatalf("cannot decode genesis: %s", err)
			}
			db := store.MemStore()
			err := Initializer{}.FromGenesis(opts, db)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				return
			}
			conf, err := LoadConfig(db)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantReserve, conf.StorageReserve)
		})
	}
}

func TestLoadConfigDefault(t *testing.T) {
	conf, err := LoadConfig(store.MemStore())
	assert.Nil(t, err)
	assert.Equal(t, DefaultStorageReserve, conf.StorageReserve)
}
