package timelock

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/timelock/errors"
	"github.com/stretchr/testify/assert"
)

func TestUnixTimeFromJSON(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    UnixTime
		wantErr *errors.Error
	}{
		"seconds":              {raw: `1554370540`, want: 1554370540},
		"epoch":                {raw: `0`, want: 0},
		"rfc3339":              {raw: `"2019-04-04T11:35:40.89181085+02:00"`, want: 1554370540},
		"epoch in a zone":      {raw: `"1970-01-01T01:00:00+01:00"`, want: 0},
		"negative seconds":     {raw: `-1`, wantErr: errors.ErrInput},
		"before epoch":         {raw: `"1950-01-01T01:00:00+01:00"`, wantErr: errors.ErrInput},
		"not a time":           {raw: `"next tuesday"`, wantErr: errors.ErrInput},
		"neither string nor n": {raw: `{}`, wantErr: errors.ErrInput},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var got UnixTime
			err := json.Unmarshal([]byte(tc.raw), &got)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %v", err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUnixTimeArithmetic(t *testing.T) {
	start := time.Unix(1700000000, 999)
	u := AsUnixTime(start)

	assert.Equal(t, start.Add(time.Hour+4*time.Second).Unix(), int64(u.Add(time.Hour+4*time.Second)))
	assert.Equal(t, u, u.Add(999*time.Millisecond))
	assert.True(t, u.Before(u+1))
	assert.False(t, u.Before(u))
	assert.True(t, UnixTime(0).IsZero())
	assert.True(t, errors.ErrState.Is(UnixTime(-1).Validate()))
	assert.NoError(t, u.Validate())
}

func TestIsExpired(t *testing.T) {
	now := time.Unix(1700000000, 0)
	ctx := WithBlockTime(context.Background(), now)

	assert.True(t, IsExpired(ctx, AsUnixTime(now)), "timeout equal to block time")
	assert.True(t, IsExpired(ctx, AsUnixTime(now).Add(-time.Second)))
	assert.False(t, IsExpired(ctx, AsUnixTime(now).Add(time.Second)))
	assert.Panics(t, func() { IsExpired(context.Background(), 1) })
}
