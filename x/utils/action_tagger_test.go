package utils_test

import (
	"context"
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/timelocktest"
	"github.com/iov-one/timelock/x/utils"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tendermint/tendermint/libs/common"
)

func actionTag(path string) common.KVPair {
	return common.KVPair{Key: []byte(utils.ActionKey), Value: []byte(path)}
}

func TestActionTagger(t *testing.T) {
	ctx := context.Background()
	deposit := &timelocktest.Tx{Msg: &timelocktest.Msg{RoutePath: "escrow/deposit"}}

	Convey("Given a handler behind the action tagger", t, func() {
		db := store.MemStore()
		h := &timelocktest.Handler{}
		stack := timelocktest.Decorate(h, utils.NewActionTagger())

		Convey("a delivered message is tagged with its path", func() {
			res, err := stack.Deliver(ctx, db, deposit)
			So(err, ShouldBeNil)
			So(res.Tags, ShouldResemble, []common.KVPair{actionTag("escrow/deposit")})
		})

		Convey("tags set by the handler are kept in front", func() {
			h.DeliverResult = timelock.DeliverResult{Tags: []common.KVPair{actionTag("escrow/other")}}
			res, err := stack.Deliver(ctx, db, deposit)
			So(err, ShouldBeNil)
			So(res.Tags, ShouldResemble, []common.KVPair{actionTag("escrow/other"), actionTag("escrow/deposit")})
		})

		Convey("check results carry no tags", func() {
			res, err := stack.Check(ctx, db, deposit)
			So(err, ShouldBeNil)
			So(res, ShouldNotBeNil)
		})

		Convey("a handler error is returned without a result", func() {
			h.DeliverErr = errors.ErrHuman
			res, err := stack.Deliver(ctx, db, deposit)
			So(errors.ErrHuman.Is(err), ShouldBeTrue)
			So(res, ShouldBeNil)
		})

		Convey("a transaction without a message never reaches the handler", func() {
			_, err := stack.Deliver(ctx, db, &timelocktest.Tx{Err: errors.ErrInput})
			So(errors.ErrInput.Is(err), ShouldBeTrue)
			So(h.Delivers, ShouldEqual, 0)
		})
	})
}
