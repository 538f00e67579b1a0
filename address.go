package timelock

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/timelock/errors"
	"github.com/mr-tron/base58"
)

// AddressLength is the size of every address. It may be changed in an init
// function, never after the first address was stored.
var AddressLength = 20

// Address is the truncated sha256 of a Condition. Balances, signer records
// and escrows are all keyed by it.
type Address []byte

// NewAddress hashes data into an address. Nil data has no address.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	sum := sha256.Sum256(data)
	return Address(sum[:AddressLength])
}

// Validate checks the length.
func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.ErrInput.Newf("address: %v", a)
	}
	return nil
}

func (a Address) Equals(o Address) bool {
	return bytes.Equal(a, o)
}

// Clone returns a copy with its own backing array.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	return append(Address(nil), a...)
}

// String is the upper case hex form, or "(nil)".
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Bech32String encodes the address with the human readable part hrp.
func (a Address) Bech32String(hrp string) (string, error) {
	data, err := bech32.ConvertBits(a, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	enc, err := bech32.Encode(hrp, data)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return enc, nil
}

// Base58String encodes the address in the bitcoin base58 alphabet.
func (a Address) Base58String() string {
	return base58.Encode(a)
}

// MarshalJSON writes upper case hex instead of the default base64.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToUpper(hex.EncodeToString(a)))
}

// UnmarshalJSON accepts every format ParseAddress does.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	addr, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

var addressDecoders = map[string]func(string) (Address, error){
	"hex": func(s string) (Address, error) {
		raw, err := hex.DecodeString(s)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, "cannot decode hex")
		}
		return raw, nil
	},
	"cond": func(s string) (Address, error) {
		cond, err := parseCondition(s)
		if err != nil {
			return nil, err
		}
		if err := cond.Validate(); err != nil {
			return nil, err
		}
		return cond.Address(), nil
	},
	"bech32": func(s string) (Address, error) {
		_, data, err := bech32.Decode(s)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "bech32: %s", err)
		}
		raw, err := bech32.ConvertBits(data, 5, 8, false)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "bech32 bits: %s", err)
		}
		return sized(raw)
	},
	"base58": func(s string) (Address, error) {
		raw, err := base58.Decode(s)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "base58: %s", err)
		}
		return sized(raw)
	},
}

func sized(raw []byte) (Address, error) {
	addr := Address(raw)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

// ParseAddress decodes "<format>:<value>" where format is hex, cond, bech32
// or base58. A value without a format is hex. An empty value is a nil
// address.
func ParseAddress(s string) (Address, error) {
	format, value := "hex", s
	if i := strings.IndexByte(s, ':'); i >= 0 {
		format, value = s[:i], s[i+1:]
	}
	decode, ok := addressDecoders[format]
	if !ok {
		return nil, errors.ErrType.Newf("unknown address format %q", format)
	}
	if value == "" {
		return nil, nil
	}
	return decode(value)
}
