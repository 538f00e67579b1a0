package timelock

import (
	"encoding/json"
	"time"

	"github.com/iov-one/timelock/errors"
)

// UnixTime is a moment in whole seconds since the epoch. Escrow timeouts
// are stored with it as a plain varint, which every protobuf client can
// read without a well-known timestamp type.
type UnixTime int64

// AsUnixTime truncates t to whole seconds.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

func (t UnixTime) Time() time.Time { return time.Unix(int64(t), 0) }
func (t UnixTime) IsZero() bool { return t == 0 }
func (t UnixTime) Before(other UnixTime) bool { return t < other }
func (t UnixTime) String() string { return t.Time().String() }

// Add shifts the time by d. Fractions of a second are dropped.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

// Validate rejects times before the epoch.
func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrState, "negative value")
	}
	return nil
}

// UnmarshalJSON accepts either a number of seconds or an RFC 3339 string.
// The string form is easier to write by hand in a genesis file.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var seconds int64
	if err := json.Unmarshal(raw, &seconds); err != nil {
		var parsed time.Time
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return errors.Wrap(errors.ErrInput, "invalid time format")
		}
		seconds = parsed.Unix()
	}
	if seconds < 0 {
		return errors.Wrap(errors.ErrInput, "time before epoch")
	}
	*t = UnixTime(seconds)
	return nil
}
