// Copyright (c) 2025 The Harvest developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/harvestlabs/harvest/api"
	"github.com/harvestlabs/harvest/genesis"
	"github.com/harvestlabs/harvest/hvs"
	"github.com/harvestlabs/harvest/log"
	"github.com/harvestlabs/harvest/lvldb"
	"github.com/harvestlabs/harvest/metrics"
	"github.com/harvestlabs/harvest/runtime"
)

// set by the linker
var (
	version   = "0.1.0"
	gitCommit string
	release   = "dev"
)

func fullVersion() string {
	versionMeta := release
	if gitCommit != "" {
		versionMeta += "-" + gitCommit
	}
	return fmt.Sprintf("%s-%s", version, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Harvest",
		Usage:     "Node of Harvest.Network",
		Copyright: "2025 The Harvest developers",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			masterFlag,
			apiAddrFlag,
			apiCorsFlag,
			verbosityFlag,
			enableMetricsFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "solo",
				Usage: "client runs in solo mode for test & dev",
				Flags: []cli.Flag{
					apiAddrFlag,
					apiCorsFlag,
					verbosityFlag,
					enableMetricsFlag,
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

func defaultAction(ctx *cli.Context) error {
	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := loadGenesis(ctx)
	if err != nil {
		return err
	}
	master, err := resolveMaster(ctx, gene)
	if err != nil {
		return err
	}

	db, err := openMainDB(ctx)
	if err != nil {
		return err
	}
	defer func() { log.Root().Info("exited") }()
	defer db.Close()

	rt, err := buildRuntime(db, gene, master, runtime.SystemClock{})
	if err != nil {
		return err
	}

	return serveAPI(ctx, rt, master, ctx.String(dataDirFlag.Name))
}

func soloAction(ctx *cli.Context) error {
	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene := genesis.Devnet()
	master, err := gene.MasterAddress()
	if err != nil {
		return err
	}

	db, err := lvldb.NewMem()
	if err != nil {
		return err
	}
	defer db.Close()

	rt, err := buildRuntime(db, gene, master, runtime.SystemClock{})
	if err != nil {
		return err
	}

	return serveAPI(ctx, rt, master, "(memory)")
}

func serveAPI(ctx *cli.Context, rt *runtime.Runtime, master hvs.Address, dataDir string) error {
	handler := api.New(rt, parseCorsOrigins(ctx))
	apiURL, srvCloser, err := startAPIServer(ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return err
	}
	defer srvCloser()

	printStartupMessage(apiURL, master, dataDir)

	exitCtx := handleExitSignal()
	<-exitCtx.Done()
	log.Root().Info("shutting down")
	return nil
}
