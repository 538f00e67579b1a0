package utils

import (
	"github.com/iov-one/timelock"
	common "github.com/tendermint/tendermint/libs/common"
)

// ActionKey is the tag every delivered transaction carries. Its value is
// the message path, so a client can subscribe to action='escrow/withdraw'.
const ActionKey = "action"

// ActionTagger tags delivered transactions with their message path.
type ActionTagger struct{}

var _ timelock.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check adds nothing, tags only matter for indexed blocks.
func (ActionTagger) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Checker) (*timelock.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (*timelock.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{Key: []byte(ActionKey), Value: []byte(msg.Path())})
	return res, nil
}
