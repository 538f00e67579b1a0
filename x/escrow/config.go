package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// DefaultStorageReserve is the reserve charged when no configuration is
// stored. It matches the rent exempt minimum of a 90 byte record.
const DefaultStorageReserve uint64 = 1517280

var configKey = []byte("_c:escrow")

// Config holds the chain wide escrow settings.
type Config struct {
	// StorageReserve is moved from the depositor to the escrow address on
	// creation and paid out to whoever closes the escrow.
	StorageReserve uint64 `protobuf:"varint,1,opt,name=storage_reserve" json:"storage_reserve"`
}

// Validate accepts any reserve, including zero.
func (c *Config) Validate() error {
	return nil
}

func (c *Config) Reset()         { *c = Config{} }
func (c *Config) String() string { return proto.CompactTextString(c) }
func (*Config) ProtoMessage()    {}

// Marshal encodes the reserve as field 1. A zero reserve is written
// explicitly, so that a stored configuration is never empty.
func (c *Config) Marshal() ([]byte, error) {
	return proto.Marshal((*configMsg)(c))
}

// Unmarshal decodes the Marshal output.
func (c *Config) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*configMsg)(c))
}

type configMsg Config

func (m *configMsg) Reset()         { *m = configMsg{} }
func (m *configMsg) String() string { return proto.CompactTextString(m) }
func (*configMsg) ProtoMessage()    {}

// LoadConfig returns the stored configuration, or the defaults if none was
// saved.
func LoadConfig(db timelock.ReadOnlyKVStore) (*Config, error) {
	raw, err := db.Get(configKey)
	if err != nil {
		return nil, errors.Wrap(err, "load escrow config")
	}
	if raw == nil {
		return &Config{StorageReserve: DefaultStorageReserve}, nil
	}
	var c Config
	if err := c.Unmarshal(raw); err != nil {
		return nil, errors.Wrap(err, "decode escrow config")
	}
	return &c, nil
}

// SaveConfig stores the configuration.
func SaveConfig(db timelock.KVStore, c *Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	raw, err := c.Marshal()
	if err != nil {
		return err
	}
	return db.Set(configKey, raw)
}
