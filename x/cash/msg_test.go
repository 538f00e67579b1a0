package cash

import (
	"strings"
	"testing"

	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/timelocktest"
	"github.com/iov-one/timelock/timelocktest/assert"
)

func TestSendMsgValidate(t *testing.T) {
	src := timelocktest.NewCondition().Address()
	dst := timelocktest.NewCondition().Address()

	cases := map[string]struct {
		msg  SendMsg
		want map[string]*errors.Error
	}{
		"valid": {
			msg: SendMsg{Source: src, Destination: dst, Amount: 1, Memo: "ok"},
			want: map[string]*errors.Error{
				"Amount": nil, "Source": nil, "Destination": nil, "Memo": nil,
			},
		},
		"missing everything": {
			msg: SendMsg{},
			want: map[string]*errors.Error{
				"Amount": errors.ErrAmount, "Source": errors.ErrInput, "Destination": errors.ErrInput,
			},
		},
		"memo too long": {
			msg: SendMsg{Source: src, Destination: dst, Amount: 1, Memo: strings.Repeat("x", maxMemoSize+1)},
			want: map[string]*errors.Error{
				"Memo": errors.ErrInput,
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			for field, want := range tc.want {
				assert.FieldError(t, err, field, want)
			}
		})
	}
}

func TestSendMsgEncoding(t *testing.T) {
	msg := SendMsg{
		Source:      timelocktest.NewCondition().Address(),
		Destination: timelocktest.NewCondition().Address(),
		Amount:      12345,
		Memo:        "for the escrow",
	}
	raw, err := msg.Marshal()
	assert.Nil(t, err)

	var got SendMsg
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, msg, got)
}
