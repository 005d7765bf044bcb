// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/0xngmi/nft-collateral/api"
	"github.com/0xngmi/nft-collateral/cmd/nfc/solo"
	"github.com/0xngmi/nft-collateral/genesis"
	"github.com/0xngmi/nft-collateral/log"
	"github.com/0xngmi/nft-collateral/metrics"
	"github.com/0xngmi/nft-collateral/packer"
	"github.com/0xngmi/nft-collateral/txpool"
)

var (
	version   = "0.1.0"
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "nfc",
		Usage:   "Local chain for NFT collateral contracts development",
		Commands: []cli.Command{
			{
				Name:  "solo",
				Usage: "run a single node dev chain",
				Flags: []cli.Flag{
					genesisFlag,
					dataDirFlag,
					persistFlag,
					apiAddrFlag,
					apiCorsFlag,
					apiCallGasLimitFlag,
					apiBacktraceLimitFlag,
					apiLogsLimitFlag,
					enableAPILogsFlag,
					onDemandFlag,
					blockIntervalFlag,
					verbosityFlag,
					jsonLogsFlag,
					enableMetricsFlag,
					metricsAddrFlag,
				},
				Action: soloAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func soloAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	initLogger(ctx)

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	dbs, instanceDir, err := openDatabases(ctx, gene)
	if err != nil {
		return err
	}
	defer dbs.Close()

	repo, stater, err := initChain(gene, dbs.main)
	if err != nil {
		return err
	}

	clock := packer.NewClock()
	pk := packer.New(repo, stater, dbs.log, genesis.DevAccounts()[0].Address, clock)

	var pool txpool.Pool
	if ctx.Bool(onDemandFlag.Name) {
		pool = solo.NewOnDemandTxPool(repo, pk)
	} else {
		pool = txpool.New(repo, txpool.DefaultOptions)
	}
	defer func() { logger.Info("closing tx pool..."); pool.Close() }()

	handler, closeAPI := api.New(repo, stater, pool, dbs.log, clock, api.Options{
		AllowedOrigins:  strings.TrimSpace(ctx.String(apiCorsFlag.Name)),
		BacktraceLimit:  uint32(ctx.Uint64(apiBacktraceLimitFlag.Name)),
		CallGasLimit:    ctx.Uint64(apiCallGasLimitFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:       ctx.Uint64(apiLogsLimitFlag.Name),
		SoloMode:        true,
	})
	defer closeAPI()

	apiSrv, err := newServer(ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return err
	}

	var metricsSrv *server
	if ctx.Bool(enableMetricsFlag.Name) {
		if metricsSrv, err = newMetricsServer(ctx.String(metricsAddrFlag.Name)); err != nil {
			apiSrv.Close()
			return err
		}
	}

	printStartupMessage(gene, repo, instanceDir, apiSrv.URL(), metricsSrv)

	group, groupCtx := errgroup.WithContext(exitSignal)
	group.Go(func() error {
		return apiSrv.Serve(groupCtx)
	})
	if metricsSrv != nil {
		group.Go(func() error {
			return metricsSrv.Serve(groupCtx)
		})
	}
	group.Go(func() error {
		return solo.New(pool, pk, solo.Options{
			OnDemand:      ctx.Bool(onDemandFlag.Name),
			BlockInterval: ctx.Uint64(blockIntervalFlag.Name),
		}).Run(groupCtx)
	})
	return group.Wait()
}
