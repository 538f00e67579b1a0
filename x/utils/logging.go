package utils

import (
	"time"

	"github.com/iov-one/timelock"
	"github.com/tendermint/tendermint/libs/log"
)

// Logging writes one line per transaction with its path and duration.
// Failures log at error level, delivered transactions at info and checks
// at debug.
type Logging struct{}

var _ timelock.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Checker) (*timelock.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	logger := txLogger(ctx, tx, start)
	switch {
	case err != nil:
		logger.Error("check failed", "err", err)
	default:
		logger.Debug("checked", "log", res.Log)
	}
	return res, err
}

func (Logging) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (*timelock.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	logger := txLogger(ctx, tx, start)
	switch {
	case err != nil:
		logger.Error("deliver failed", "err", err)
	default:
		logger.Info("delivered", "log", res.Log)
	}
	return res, err
}

func txLogger(ctx timelock.Context, tx timelock.Tx, start time.Time) log.Logger {
	return timelock.GetLogger(ctx).With(
		"path", timelock.GetPath(tx),
		"took_us", int64(time.Since(start)/time.Microsecond),
	)
}
