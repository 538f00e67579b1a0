package server

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

// ValidateGenesisCmd runs the app_state of each genesis file through the
// initializer without touching any node data.
func ValidateGenesisCmd(ini timelock.Initializer, logger log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <genesis.json>...",
		Short: "Validate the app state of genesis files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, files []string) error {
			if err := ValidateGenesis(ini, files); err != nil {
				return err
			}
			logger.Info("Genesis is valid", "files", len(files))
			return nil
		},
	}
}

// ValidateGenesis stops at the first file the initializer rejects.
func ValidateGenesis(ini timelock.Initializer, files []string) error {
	for _, name := range files {
		state, err := readAppState(name)
		if err == nil {
			err = ini.FromGenesis(state, store.MemStore())
		}
		if err != nil {
			return errors.Wrapf(err, "genesis %s", name)
		}
	}
	return nil
}

func readAppState(filename string) (timelock.Options, error) {
	raw, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var doc struct {
		AppState timelock.Options `json:"app_state"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrInput, "malformed genesis json")
	}
	if len(doc.AppState) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "app_state")
	}
	return doc.AppState, nil
}
