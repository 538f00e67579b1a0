package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/cmd/escrowd/app"
	"github.com/iov-one/timelock/commands/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/cli"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	envPrefix = "ESCROWD"

	flagLogLevel    = "log_level"
	flagMetricsAddr = "metrics"
)

func main() {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
	logger, err := newLogger(viper.GetString(flagLogLevel))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:   "escrowd",
		Short: "Time-locked escrow ABCI application",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return serveMetrics(viper.GetString(flagMetricsAddr), logger)
		},
	}
	root.PersistentFlags().String(flagMetricsAddr, "", "address to expose prometheus metrics on, disabled if empty")
	if err := viper.BindPFlag(flagMetricsAddr, root.PersistentFlags().Lookup(flagMetricsAddr)); err != nil {
		panic(err)
	}

	root.AddCommand(
		server.InitCmd(app.GenInitOptions, logger),
		server.StartCmd(app.GenerateApp, logger),
		server.ValidateGenesisCmd(app.Initializers(), logger),
		versionCmd(),
	)

	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".escrowd")
	executor := cli.PrepareBaseCmd(root, envPrefix, defaultHome)
	if err := executor.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger returns a tendermint logger writing to stdout, filtered at the
// given level (info if empty).
func newLogger(level string) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "escrowd")
	if level == "" {
		level = "info"
	}
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewFilter(logger, opt), nil
}

// serveMetrics exposes the default prometheus registry over http.
func serveMetrics(addr string, logger log.Logger) error {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("Metrics server stopped", "err", err)
		}
	}()
	logger.Info("Serving metrics", "addr", addr)
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the app version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(timelock.Version())
		},
	}
}
