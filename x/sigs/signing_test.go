package sigs

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/timelocktest"
)

// payloadTx is a signed transaction whose sign bytes are its payload.
type payloadTx struct {
	timelocktest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*payloadTx)(nil)
var _ timelock.Tx = (*payloadTx)(nil)

func newPayloadTx(payload string) *payloadTx {
	msg := &timelocktest.Msg{RoutePath: "test/payload", Serialized: []byte(payload)}
	return &payloadTx{Tx: timelocktest.Tx{Msg: msg}}
}

func (tx *payloadTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *payloadTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

func TestSignBytesLayout(t *testing.T) {
	got, err := SignBytes(newPayloadTx("hi"), "ab", 258)
	require.NoError(t, err)

	raw, err := hex.DecodeString("00cafe00" + "02" + "6162" + "0000000000000102" + "6869")
	require.NoError(t, err)
	want := sha512.Sum512(raw)
	assert.Equal(t, want[:], got)
}

func TestSignBytesVary(t *testing.T) {
	base, err := SignBytes(newPayloadTx("escrow"), "chain-a", 3)
	require.NoError(t, err)

	cases := map[string]struct {
		payload string
		chainID string
		seq     int64
	}{
		"payload":  {payload: "escrow2", chainID: "chain-a", seq: 3},
		"chain":    {payload: "escrow", chainID: "chain-b", seq: 3},
		"sequence": {payload: "escrow", chainID: "chain-a", seq: 4},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			other, err := SignBytes(newPayloadTx(tc.payload), tc.chainID, tc.seq)
			require.NoError(t, err)
			assert.NotEqual(t, base, other)
		})
	}
}

func TestSignBytesRejects(t *testing.T) {
	_, err := SignBytes(newPayloadTx("data"), "valid-chain", -1)
	assert.True(t, ErrInvalidSequence.Is(err))

	_, err = SignBytes(newPayloadTx("data"), "bad chain id!", 1)
	assert.True(t, errors.ErrInput.Is(err))

	broken := newPayloadTx("data")
	broken.Msg = nil
	broken.Err = errors.ErrMsg
	_, err = SignBytes(broken, "valid-chain", 1)
	assert.True(t, errors.ErrMsg.Is(err))
}

func TestSignTxIsDeterministic(t *testing.T) {
	key := timelocktest.SeededKey(3)
	tx := newPayloadTx("payload")

	sig, err := SignTx(key, tx, "enc-chain", 7)
	require.NoError(t, err)
	again, err := SignTx(key, tx, "enc-chain", 7)
	require.NoError(t, err)
	assert.Equal(t, sig, again)
	assert.Equal(t, int64(7), sig.Sequence)
	assert.Equal(t, key.PublicKey(), sig.Pubkey)

	raw, err := sig.Marshal()
	require.NoError(t, err)
	var decoded StdSignature
	require.NoError(t, decoded.Unmarshal(raw))
	assert.Equal(t, sig, &decoded)
}
