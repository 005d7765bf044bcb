// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/0xngmi/nft-collateral/chain"
	"github.com/0xngmi/nft-collateral/genesis"
	"github.com/0xngmi/nft-collateral/log"
	"github.com/0xngmi/nft-collateral/logdb"
	"github.com/0xngmi/nft-collateral/lvldb"
	"github.com/0xngmi/nft-collateral/metrics"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/state"
)

func initLogger(ctx *cli.Context) {
	logLevel := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))
	lvl := &slog.LevelVar{}
	lvl.Set(logLevel)

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, lvl)
	} else {
		useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, lvl, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet(), nil
	}
	gene, err := genesis.FromFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load genesis file [%v]", path)
	}
	return gene, nil
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "io.nfc")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "io.nfc")
		}
		return filepath.Join(home, ".io.nfc")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

type databases struct {
	main *lvldb.LevelDB
	log  *logdb.LogDB
}

func (d *databases) Close() {
	logger.Info("closing log database...")
	if err := d.log.Close(); err != nil {
		logger.Warn("failed to close log database", "err", err)
	}
	logger.Info("closing main database...")
	if err := d.main.Close(); err != nil {
		logger.Warn("failed to close main database", "err", err)
	}
}

// openDatabases opens the chain and log databases, in memory unless persisting is asked.
func openDatabases(ctx *cli.Context, gene *genesis.Genesis) (*databases, string, error) {
	if !ctx.Bool(persistFlag.Name) {
		mainDB, err := lvldb.NewMem()
		if err != nil {
			return nil, "", errors.Wrap(err, "open chain database")
		}
		logDB, err := logdb.NewMem()
		if err != nil {
			mainDB.Close()
			return nil, "", errors.Wrap(err, "open log database")
		}
		return &databases{mainDB, logDB}, "Memory", nil
	}

	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return nil, "", fmt.Errorf("unable to infer default data dir, use -%s to specify one", dataDirFlag.Name)
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return nil, "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}

	mainDB, err := lvldb.New(filepath.Join(instanceDir, "main.db"), lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, "", errors.Wrap(err, "open chain database")
	}
	logDB, err := logdb.New(filepath.Join(instanceDir, "logs.db"))
	if err != nil {
		mainDB.Close()
		return nil, "", errors.Wrap(err, "open log database")
	}
	return &databases{mainDB, logDB}, instanceDir, nil
}

// initChain opens the repository. The genesis state is only written while no block
// is stacked on the genesis, so a persisted chain keeps its state.
func initChain(gene *genesis.Genesis, db *lvldb.LevelDB) (*chain.Repository, *state.Stater, error) {
	scratch, err := lvldb.NewMem()
	if err != nil {
		return nil, nil, err
	}
	defer scratch.Close()

	genesisBlock, err := gene.Build(state.NewStater(scratch))
	if err != nil {
		return nil, nil, errors.Wrap(err, "build genesis")
	}

	repo, err := chain.NewRepository(db, genesisBlock)
	if err != nil {
		return nil, nil, errors.Wrap(err, "initialize block chain")
	}

	stater := state.NewStater(db)
	if repo.BestBlock().Header().Number() == 0 {
		if _, err := gene.Build(stater); err != nil {
			return nil, nil, errors.Wrap(err, "commit genesis state")
		}
	}
	return repo, stater, nil
}

type server struct {
	srv      *http.Server
	listener net.Listener
	url      string
}

func newServer(addr string, handler http.Handler) (*server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	return &server{
		srv:      &http.Server{Handler: handler, ReadHeaderTimeout: time.Second},
		listener: listener,
		url:      "http://" + listener.Addr().String() + "/",
	}, nil
}

func newMetricsServer(addr string) (*server, error) {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())

	srv, err := newServer(addr, handlers.CompressHandler(router))
	if err != nil {
		return nil, errors.WithMessage(err, "metrics")
	}
	srv.url += "metrics"
	return srv, nil
}

func (s *server) URL() string {
	return s.url
}

// Serve serves until ctx is done, then shuts the server down.
func (s *server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(s.listener)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops a server whether it is serving or not.
func (s *server) Close() error {
	s.listener.Close()
	return s.srv.Close()
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	exitSignalCh := make(chan os.Signal, 1)
	signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func printStartupMessage(
	gene *genesis.Genesis,
	repo *chain.Repository,
	dataDir string,
	apiURL string,
	metricsSrv *server,
) {
	tableHead := `
┌────────────────────────────────────────────┬────────────────────────────────────────────────────────────────────┐
│                   Address                  │                             Private Key                            │`
	tableContent := `
├────────────────────────────────────────────┼────────────────────────────────────────────────────────────────────┤
│ %v │ %v │`
	tableEnd := `
└────────────────────────────────────────────┴────────────────────────────────────────────────────────────────────┘`

	bestBlock := repo.BestBlock()

	info := fmt.Sprintf(`Starting nfc solo %v
    Network     [ %v %v ]
    Best block  [ %v #%v @%v ]
    Data dir    [ %v ]
    API portal  [ %v ]`,
		fullVersion(),
		gene.ID(), gene.Name(),
		bestBlock.Header().ID(), bestBlock.Header().Number(), time.Unix(int64(bestBlock.Header().Timestamp()), 0),
		dataDir,
		apiURL)
	if metricsSrv != nil {
		info += fmt.Sprintf("\n    Metrics     [ %v ]", metricsSrv.URL())
	}

	info += tableHead
	for _, a := range genesis.DevAccounts() {
		info += fmt.Sprintf(tableContent,
			a.Address,
			nfc.BytesToBytes32(crypto.FromECDSA(a.PrivateKey)),
		)
	}
	info += tableEnd + "\r\n"

	fmt.Print(info)
}
