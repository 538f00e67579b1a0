package orm

import "github.com/iov-one/timelock"

// Object is a record a Bucket stores. The bucket prefixes Key with its name
// and writes the encoded Value under it.
type Object interface {
	Key() []byte
	SetKey([]byte)
	Value() timelock.Persistent
	// Clone returns an independent copy that a load can decode into.
	Clone() Object
	// Validate is called before every save.
	Validate() error
}

// CloneableData is the value half of a SimpleObj.
type CloneableData interface {
	timelock.Persistent
	Validate() error
	Copy() CloneableData
}
