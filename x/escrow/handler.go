package escrow

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	initializeEscrowCost int64 = 300
	depositEscrowCost    int64 = 100
	withdrawEscrowCost   int64 = 0
	cancelEscrowCost     int64 = 0

	// TagKey is the key of the tag that carries the escrow address of a
	// delivered transaction.
	TagKey = "escrow"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r timelock.Registry, auth x.Authenticator, cashctrl CashController) {
	store := NewStore()
	ctrl := NewController(store, cashctrl)
	base := handler{auth: auth, store: store, ctrl: ctrl}

	r.Handle(pathInitializeMsg, InitializeHandler{base})
	r.Handle(pathDepositMsg, DepositHandler{base})
	r.Handle(pathWithdrawMsg, WithdrawHandler{base})
	r.Handle(pathCancelMsg, CancelHandler{base})
}

// RegisterQuery will register this bucket as "/escrows"
func RegisterQuery(qr timelock.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

// handler holds what all escrow handlers share.
type handler struct {
	auth  x.Authenticator
	store Store
	ctrl  Controller
}

// resolve derives the escrow address of the parties and loads the record
// stored there. The caller supplied address, if any, and the stored bump
// must both agree with the derivation.
func (h handler) resolve(db timelock.KVStore, p Parties) (timelock.Address, *Escrow, error) {
	addr, _, err := FindAddress(p.Depositor, p.Beneficiary)
	if err != nil {
		return nil, nil, err
	}
	if len(p.Escrow) != 0 && !p.Escrow.Equals(addr) {
		return nil, nil, errors.Wrapf(ErrInvalidSeeds, "escrow %s does not match parties", p.Escrow)
	}
	e, err := h.store.Load(db, addr)
	if err != nil {
		return nil, nil, err
	}
	derived, err := DeriveAddress(e.Depositor, e.Beneficiary, uint8(e.Bump))
	if err != nil {
		return nil, nil, err
	}
	if !derived.Equals(addr) {
		return nil, nil, errors.Wrap(ErrInvalidSeeds, "stored bump")
	}
	return addr, e, nil
}

func deliverResult(addr timelock.Address, log string) *timelock.DeliverResult {
	return &timelock.DeliverResult{
		Data: addr,
		Log:  log,
		Tags: []common.KVPair{{Key: []byte(TagKey), Value: []byte(addr.String())}},
	}
}

// InitializeHandler creates escrow records.
type InitializeHandler struct {
	handler
}

var _ timelock.Handler = InitializeHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h InitializeHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{GasAllocated: initializeEscrowCost}, nil
}

// Deliver creates the record and charges the storage reserve to the
// depositor.
func (h InitializeHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, addr, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	conf, err := LoadConfig(db)
	if err != nil {
		return nil, err
	}
	e := &Escrow{
		Depositor:       msg.Depositor,
		Beneficiary:     msg.Beneficiary,
		Amount:          0,
		UnlockTimestamp: msg.UnlockTimestamp,
		State:           StateInitialized,
		Bump:            msg.Bump,
	}
	if err := h.ctrl.Open(db, addr, e, conf.StorageReserve); err != nil {
		return nil, err
	}
	return deliverResult(addr, "escrow initialized"), nil
}

// validate does all common pre-processing between Check and Deliver.
func (h InitializeHandler) validate(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*InitializeMsg, timelock.Address, error) {
	var msg InitializeMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	addr, bump, err := FindAddress(msg.Depositor, msg.Beneficiary)
	if err != nil {
		return nil, nil, err
	}
	if msg.Bump != uint32(bump) {
		return nil, nil, errors.Wrapf(ErrInvalidSeeds, "bump %d is not canonical", msg.Bump)
	}
	if len(msg.Escrow) != 0 && !msg.Escrow.Equals(addr) {
		return nil, nil, errors.Wrapf(ErrInvalidSeeds, "escrow %s does not match parties", msg.Escrow)
	}

	existing, err := h.store.Read(db, addr)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, errors.Wrapf(errors.ErrDuplicate, "escrow %s", addr)
	}

	if err := x.RequireSigner(ctx, h.auth, msg.Depositor, "depositor"); err != nil {
		return nil, nil, err
	}

	if timelock.IsExpired(ctx, msg.UnlockTimestamp) {
		// Reported as an amount error for compatibility with existing
		// clients, although the unlock time is what is wrong.
		timelock.GetLogger(ctx).Debug("unlock time in the past reported as invalid amount",
			"unlock", msg.UnlockTimestamp, "escrow", addr)
		return nil, nil, errors.Wrapf(errors.ErrAmount, "unlock time %d is not in the future", msg.UnlockTimestamp)
	}
	return &msg, addr, nil
}

// DepositHandler funds initialized escrows.
type DepositHandler struct {
	handler
}

var _ timelock.Handler = DepositHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h DepositHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{GasAllocated: depositEscrowCost}, nil
}

// Deliver moves the amount from the depositor to the escrow.
func (h DepositHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, addr, e, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Fund(db, addr, e, msg.Amount); err != nil {
		return nil, err
	}
	return deliverResult(addr, "escrow deposited"), nil
}

// validate does all common pre-processing between Check and Deliver.
func (h DepositHandler) validate(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*DepositMsg, timelock.Address, *Escrow, error) {
	var msg DepositMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	addr, e, err := h.resolve(db, msg.Parties)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := x.RequireSigner(ctx, h.auth, e.Depositor, "depositor"); err != nil {
		return nil, nil, nil, err
	}
	if e.State != StateInitialized {
		return nil, nil, nil, errors.Wrapf(ErrAlreadyDeposited, "escrow %s", addr)
	}
	if msg.Amount == 0 {
		return nil, nil, nil, errors.Wrap(errors.ErrAmount, "deposit must be positive")
	}
	return &msg, addr, e, nil
}

// WithdrawHandler releases unlocked escrows to the beneficiary.
type WithdrawHandler struct {
	handler
}

var _ timelock.Handler = WithdrawHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h WithdrawHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{GasAllocated: withdrawEscrowCost}, nil
}

// Deliver pays the whole escrow balance to the beneficiary and deletes the
// record.
func (h WithdrawHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	addr, e, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.ctrl.Close(db, addr, e.Beneficiary); err != nil {
		return nil, err
	}
	return deliverResult(addr, "escrow withdrawn"), nil
}

// validate does all common pre-processing between Check and Deliver.
func (h WithdrawHandler) validate(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (timelock.Address, *Escrow, error) {
	var msg WithdrawMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	addr, e, err := h.resolve(db, msg.Parties)
	if err != nil {
		return nil, nil, err
	}
	if err := x.RequireSigner(ctx, h.auth, e.Beneficiary, "beneficiary"); err != nil {
		return nil, nil, err
	}
	if e.State != StateDeposited {
		return nil, nil, errors.Wrapf(errors.ErrState, "escrow is %s", e.State)
	}
	if !timelock.IsExpired(ctx, e.UnlockTimestamp) {
		return nil, nil, errors.Wrapf(ErrUnlockTimeNotReached, "unlocks at %d", e.UnlockTimestamp)
	}
	return addr, e, nil
}

// CancelHandler returns escrows to the depositor before they unlock.
type CancelHandler struct {
	handler
}

var _ timelock.Handler = CancelHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h CancelHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{GasAllocated: cancelEscrowCost}, nil
}

// Deliver refunds the whole escrow balance to the depositor and deletes the
// record.
func (h CancelHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	addr, e, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.ctrl.Close(db, addr, e.Depositor); err != nil {
		return nil, err
	}
	return deliverResult(addr, "escrow cancelled"), nil
}

// validate does all common pre-processing between Check and Deliver.
func (h CancelHandler) validate(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (timelock.Address, *Escrow, error) {
	var msg CancelMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	addr, e, err := h.resolve(db, msg.Parties)
	if err != nil {
		return nil, nil, err
	}
	if err := x.RequireSigner(ctx, h.auth, e.Depositor, "depositor"); err != nil {
		return nil, nil, err
	}
	if timelock.IsExpired(ctx, e.UnlockTimestamp) {
		return nil, nil, errors.Wrapf(ErrUnlockTimeAlreadyReached, "unlocked at %d", e.UnlockTimestamp)
	}
	return addr, e, nil
}
