package escrow

import (
	"github.com/iov-one/timelock/errors"
)

// x/escrow reserves 1010 ~ 1020.
var (
	ErrAlreadyDeposited         = errors.Register(1010, "escrow already deposited")
	ErrUnlockTimeNotReached     = errors.Register(1011, "unlock time not reached")
	ErrUnlockTimeAlreadyReached = errors.Register(1012, "unlock time already reached")
	ErrAccountNotInitialized    = errors.Register(1013, "escrow account not initialized")
	ErrInvalidSeeds             = errors.Register(1014, "invalid escrow address seeds")
)
