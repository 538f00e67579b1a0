package timelock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContextHeight(t *testing.T) {
	ctx := context.Background()
	_, ok := GetHeight(ctx)
	assert.False(t, ok)

	ctx = WithHeight(ctx, 7)
	h, ok := GetHeight(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(7), h)

	assert.Panics(t, func() { WithHeight(ctx, 8) })
}

func TestContextChainID(t *testing.T) {
	ctx := WithChainID(context.Background(), "test-chain")
	assert.Equal(t, "test-chain", GetChainID(ctx))

	assert.Panics(t, func() { WithChainID(ctx, "other-chain") })
	assert.Panics(t, func() { WithChainID(context.Background(), "no") })
	assert.Panics(t, func() { GetChainID(context.Background()) })
}

func TestContextHeaderAndBlockTime(t *testing.T) {
	now := time.Now()
	ctx := WithHeader(context.Background(), abci.Header{Height: 3, Time: now})
	hdr, ok := GetHeader(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(3), hdr.Height)

	_, ok = BlockTime(ctx)
	assert.False(t, ok)

	ctx = WithBlockTime(ctx, now)
	got, ok := BlockTime(ctx)
	require.True(t, ok)
	assert.True(t, now.Equal(got))

	_, ok = BlockTime(WithBlockTime(context.Background(), time.Time{}))
	assert.False(t, ok)
}

func TestContextLogger(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, DefaultLogger, GetLogger(ctx))

	logger := log.NewNopLogger()
	ctx = WithLogInfo(WithLogger(ctx, logger), "mod", "escrow")
	assert.NotNil(t, GetLogger(ctx))
}
