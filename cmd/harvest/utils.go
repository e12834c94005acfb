// Copyright (c) 2025 The Harvest developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/harvestlabs/harvest/co"
	"github.com/harvestlabs/harvest/farming"
	"github.com/harvestlabs/harvest/genesis"
	"github.com/harvestlabs/harvest/hvs"
	"github.com/harvestlabs/harvest/log"
	"github.com/harvestlabs/harvest/lvldb"
	"github.com/harvestlabs/harvest/runtime"
	"github.com/harvestlabs/harvest/state"
	"github.com/harvestlabs/harvest/token"
)

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".harvest")
	}
	return ""
}

func initLogger(ctx *cli.Context) {
	lvl := log.LevelFromVerbosity(ctx.Int(verbosityFlag.Name))
	output := os.Stdout
	if isatty.IsTerminal(output.Fd()) {
		log.SetOutput(output, lvl)
	} else {
		// piped output goes to a collector, emit JSON
		log.SetJSONOutput(output, lvl)
	}
}

// loadGenesis reads the genesis document, from file when given,
// otherwise the devnet preset.
func loadGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.Devnet(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return genesis.FromYAML(data)
}

// resolveMaster picks the master account: flag first, genesis second.
func resolveMaster(ctx *cli.Context, gene *genesis.Genesis) (hvs.Address, error) {
	if s := ctx.String(masterFlag.Name); s != "" {
		return hvs.ParseAddress(s)
	}
	return gene.MasterAddress()
}

func openMainDB(ctx *cli.Context) (*lvldb.LevelDB, error) {
	dir := ctx.String(dataDirFlag.Name)
	if dir == "" {
		return nil, errors.New("unable to resolve data-dir")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrap(err, "create data-dir")
	}
	db, err := lvldb.New(filepath.Join(dir, "main.db"), lvldb.Options{})
	if err != nil {
		return nil, errors.Wrap(err, "open main database")
	}
	return db, nil
}

// buildRuntime applies genesis onto fresh state and binds the runtime.
// Already-initialized state is left untouched.
func buildRuntime(db *lvldb.LevelDB, gene *genesis.Genesis, master hvs.Address, clock runtime.Clock) (*runtime.Runtime, error) {
	st := state.New(db)
	farm := farming.New(runtime.FarmingAddress, st, token.New(runtime.CustodyAddress, st))
	if !farm.Initialized() {
		if err := gene.Build(st); err != nil {
			return nil, errors.Wrap(err, "build genesis")
		}
		log.Root().Info("genesis applied", "master", master)
	}
	if err := st.Err(); err != nil {
		return nil, err
	}
	return runtime.New(state.New(db), master, clock), nil
}

// startAPIServer starts the API server in a goroutine and returns a
// closer draining in-flight requests.
func startAPIServer(addr string, handler http.Handler) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	srv := &http.Server{Handler: handler}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
		goes.Wait()
	}, nil
}

// handleExitSignal returns a context canceled on interrupt or terminate.
func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Root().Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func parseCorsOrigins(ctx *cli.Context) []string {
	s := ctx.String(apiCorsFlag.Name)
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

func printStartupMessage(apiURL string, master hvs.Address, dataDir string) {
	fmt.Printf(`Starting %v
    Master      [ %v ]
    Data dir    [ %v ]
    API portal  [ %v ]
`, "Harvest", master, dataDir, apiURL)
}
