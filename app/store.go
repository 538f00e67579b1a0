package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements the parts of abci.Application that do not touch
// transactions: genesis, block boundaries, commits and queries. Embed it
// and add CheckTx and DeliverTx to get a full application.
//
// The calls without user input (Info, InitChain, Commit) panic on failure.
// Tendermint offers no way to report an error from them.
type StoreApp struct {
	name        string
	logger      log.Logger
	store       *CommitStore
	initializer timelock.Initializer
	queries     timelock.QueryRouter

	// chainID is empty until genesis has been loaded.
	chainID string

	// baseContext lives as long as the app, blockContext is replaced on
	// every BeginBlock.
	baseContext  timelock.Context
	blockContext timelock.Context
}

// NewStoreApp loads the latest state from the store. It panics if the store
// cannot be read.
func NewStoreApp(name string, store timelock.CommitKVStore,
	queries timelock.QueryRouter, ctx timelock.Context) *StoreApp {
	s := &StoreApp{
		name:        name,
		store:       NewCommitStore(store),
		queries:     queries,
		baseContext: ctx,
	}
	s.WithLogger(log.NewNopLogger())

	if s.chainID = mustLoadChainID(s.DeliverStore()); s.chainID != "" {
		s.baseContext = timelock.WithChainID(s.baseContext, s.chainID)
	}
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.blockContext = timelock.WithHeight(s.baseContext, info.Version)
	return s
}

// WithInit sets the initializer InitChain hands the genesis state to.
func (s *StoreApp) WithInit(init timelock.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger sets the logger of the app and of every context it creates.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.baseContext = timelock.WithLogger(s.baseContext, logger)
	return s
}

// GetChainID returns the chain id set at genesis.
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// DeliverStore is the state transactions are delivered to.
func (s *StoreApp) DeliverStore() timelock.CacheableKVStore {
	return s.store.DeliverStore()
}

// CheckStore is the state transactions are checked against.
func (s *StoreApp) CheckStore() timelock.CacheableKVStore {
	return s.store.CheckStore()
}

// Info reports the last committed height and app hash.
func (s *StoreApp) Info(abci.RequestInfo) abci.ResponseInfo {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("info", "height", info.Version, "hash", fmt.Sprintf("%X", info.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		Version:          timelock.Version(),
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption is not supported.
func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "not supported"}
}

// InitChain stores the chain id and passes app_state to the initializer.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.loadGenesis(req.ChainId, req.AppStateBytes); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

func (s *StoreApp) loadGenesis(chainID string, appState []byte) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrImmutable, "genesis already loaded for %s", s.chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state missing from genesis")
	}
	var opts timelock.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.chainID = chainID
	s.baseContext = timelock.WithChainID(s.baseContext, chainID)
	if s.initializer == nil {
		return nil
	}
	return s.initializer.FromGenesis(opts, s.DeliverStore())
}

// BeginBlock puts the block header, height and time into the context every
// transaction of the block sees.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := timelock.WithHeader(s.baseContext, req.Header)
	ctx = timelock.WithHeight(ctx, req.Header.GetHeight())
	s.blockContext = timelock.WithBlockTime(ctx, req.Header.GetTime())
	return abci.ResponseBeginBlock{}
}

// EndBlock has nothing to do. Validator updates are not supported.
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

// Commit persists the delivered state and returns the new app hash.
func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("commit", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// Query reads from the last committed state. The path names a registered
// query handler, optionally followed by "?prefix" or another modifier.
// Height and proofs are ignored.
//
// Key and Value of the response are both encoded ResultSets with one entry
// per matched model.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(req.Path)
	handler := s.queries.Handler(path)
	if handler == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "query path %q", req.Path))
	}
	info, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err)
	}
	db := s.store.committed.CacheWrap()
	defer db.Discard()

	models, err := handler.Query(db, mod, req.Data)
	if err != nil {
		return queryError(err)
	}
	keys, err := ResultsFromKeys(models).Marshal()
	if err != nil {
		return queryError(err)
	}
	values, err := ResultsFromValues(models).Marshal()
	if err != nil {
		return queryError(err)
	}
	return abci.ResponseQuery{Height: info.Version, Key: keys, Value: values}
}

// splitPath separates "/path?mod" into its path and modifier.
func splitPath(full string) (path, mod string) {
	parts := strings.SplitN(full, "?", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return full, ""
}

func queryError(err error) abci.ResponseQuery {
	code, msg := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: msg}
}
