package server

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/iov-one/timelock/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cfg "github.com/tendermint/tendermint/config"
	"github.com/tendermint/tendermint/libs/cli"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/privval"
	tmtypes "github.com/tendermint/tendermint/types"
	tmtime "github.com/tendermint/tendermint/types/time"
)

const (
	appStateKey = "app_state"
	flagChainID = "chain-id"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd will initialize all files for tendermint,
// along with proper app_state.
// The application can pass in a function to generate
// proper options. A nil gen leaves the genesis file as
// tendermint creates it.
func InitCmd(gen GenOptions, logger log.Logger) *cobra.Command {
	c := initCmd{
		gen:    gen,
		logger: logger,
	}
	cmd := &cobra.Command{
		Use:   "init [address] [amount]",
		Short: "Initialize tendermint files and the genesis app state",
		RunE:  c.run,
	}
	cmd.Flags().String(flagChainID, "", "chain id of a new genesis file (random if empty)")
	if err := viper.BindPFlag(flagChainID, cmd.Flags().Lookup(flagChainID)); err != nil {
		panic(err)
	}
	return cmd
}

type initCmd struct {
	gen    GenOptions
	logger log.Logger
}

func (c initCmd) run(cmd *cobra.Command, args []string) error {
	home := viper.GetString(cli.HomeFlag)
	if home == "" {
		return errors.Wrap(errors.ErrInput, "missing home directory")
	}
	cfg.EnsureRoot(home)
	config := cfg.DefaultConfig()
	config.SetRoot(home)

	// Run the basic tendermint initialization,
	// set up a default genesis with no app_state
	if err := c.initTendermintFiles(config, viper.GetString(flagChainID)); err != nil {
		return err
	}

	if c.gen == nil {
		return nil
	}
	options, err := c.gen(args)
	if err != nil {
		return err
	}
	return addGenesisOptions(config.GenesisFile(), options)
}

// initTendermintFiles creates the private validator and a genesis
// file naming it as the only validator, unless they already exist.
func (c initCmd) initTendermintFiles(config *cfg.Config, chainID string) error {
	pv := privval.LoadOrGenFilePV(config.PrivValidatorKeyFile(), config.PrivValidatorStateFile())
	c.logger.Info("Private validator ready", "path", config.PrivValidatorKeyFile())

	genFile := config.GenesisFile()
	if cmn.FileExists(genFile) {
		c.logger.Info("Found genesis file", "path", genFile)
		return nil
	}

	if chainID == "" {
		chainID = fmt.Sprintf("test-chain-%v", cmn.RandStr(6))
	}
	pubKey := pv.GetPubKey()
	genDoc := tmtypes.GenesisDoc{
		ChainID:         chainID,
		GenesisTime:     tmtime.Now(),
		ConsensusParams: tmtypes.DefaultConsensusParams(),
		Validators: []tmtypes.GenesisValidator{{
			Address: pubKey.Address(),
			PubKey:  pubKey,
			Power:   10,
		}},
	}
	if err := genDoc.SaveAs(genFile); err != nil {
		return errors.Wrap(err, "cannot save genesis")
	}
	c.logger.Info("Generated genesis file", "path", genFile, "chain", chainID)
	return nil
}

// addGenesisOptions sets app_state of the genesis file and keeps every
// other field as tendermint wrote it.
func addGenesisOptions(filename string, options json.RawMessage) error {
	raw, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis %s: %s", filename, err)
	}
	fields[appStateKey] = options
	if raw, err = json.MarshalIndent(fields, "", "  "); err != nil {
		return err
	}
	return ioutil.WriteFile(filename, raw, os.FileMode(0600))
}
