package app

import (
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultSetKeepsEmptyEntries(t *testing.T) {
	models := []timelock.Model{
		timelock.Pair([]byte("a"), []byte("1")),
		timelock.Pair([]byte("b"), nil),
		timelock.Pair([]byte("c"), []byte("3")),
	}
	keys, err := ResultsFromKeys(models).Marshal()
	require.NoError(t, err)
	values, err := ResultsFromValues(models).Marshal()
	require.NoError(t, err)

	var k, v ResultSet
	require.NoError(t, k.Unmarshal(keys))
	require.NoError(t, v.Unmarshal(values))
	got, err := JoinResults(&k, &v)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []byte("b"), got[1].Key)
	assert.Empty(t, got[1].Value)
	assert.Equal(t, []byte("3"), got[2].Value)
}

func TestJoinResultsSizeMismatch(t *testing.T) {
	_, err := JoinResults(
		&ResultSet{Results: [][]byte{[]byte("a")}},
		&ResultSet{},
	)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestUnmarshalOneResult(t *testing.T) {
	inner, err := (&ResultSet{Results: [][]byte{[]byte("x")}}).Marshal()
	require.NoError(t, err)
	raw, err := (&ResultSet{Results: [][]byte{inner, []byte("ignored")}}).Marshal()
	require.NoError(t, err)

	var got ResultSet
	require.NoError(t, UnmarshalOneResult(raw, &got))
	assert.Equal(t, [][]byte{[]byte("x")}, got.Results)

	empty, err := (&ResultSet{}).Marshal()
	require.NoError(t, err)
	var untouched ResultSet
	require.NoError(t, UnmarshalOneResult(empty, &untouched))
	assert.Nil(t, untouched.Results)
}
