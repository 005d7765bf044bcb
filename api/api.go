// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/0xngmi/nft-collateral/api/accounts"
	"github.com/0xngmi/nft-collateral/api/blocks"
	"github.com/0xngmi/nft-collateral/api/debug"
	"github.com/0xngmi/nft-collateral/api/events"
	"github.com/0xngmi/nft-collateral/api/subscriptions"
	"github.com/0xngmi/nft-collateral/api/transactions"
	"github.com/0xngmi/nft-collateral/api/transfers"
	"github.com/0xngmi/nft-collateral/chain"
	"github.com/0xngmi/nft-collateral/log"
	"github.com/0xngmi/nft-collateral/logdb"
	"github.com/0xngmi/nft-collateral/metrics"
	"github.com/0xngmi/nft-collateral/packer"
	"github.com/0xngmi/nft-collateral/state"
	"github.com/0xngmi/nft-collateral/txpool"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	BacktraceLimit  uint32
	CallGasLimit    uint64
	EnableReqLogger bool
	EnableMetrics   bool
	LogsLimit       uint64
	SoloMode        bool
}

// New return api router
func New(
	repo *chain.Repository,
	stater *state.Stater,
	txPool txpool.Pool,
	logDB *logdb.LogDB,
	clock *packer.Clock,
	opts Options,
) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(repo, stater, clock, opts.CallGasLimit).
		Mount(router, "/accounts")
	events.New(logDB, opts.LogsLimit).
		Mount(router, "/logs/event")
	transfers.New(logDB, opts.LogsLimit).
		Mount(router, "/logs/transfer")
	blocks.New(repo).
		Mount(router, "/blocks")
	transactions.New(repo, txPool).
		Mount(router, "/transactions")
	if opts.SoloMode {
		debug.New(clock).
			Mount(router, "/debug")
	}
	subs := subscriptions.New(repo, origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.PathPrefix("/metrics").Name("metrics").Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", "x-genesis-id"}),
		handlers.ExposedHeaders([]string{"x-genesis-id"}),
	)(handler)
	handler = genesisIDHandler(handler, repo)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP, subs.Close // hijacked websocket conns are closed by subscriptions
}

// genesisIDHandler tags responses with the genesis id and rejects requests aimed at another chain.
func genesisIDHandler(next http.Handler, repo *chain.Repository) http.Handler {
	genesisID := repo.GenesisBlock().Header().ID().String()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-genesis-id", genesisID)
		if actual := r.Header.Get("x-genesis-id"); actual != "" && !strings.EqualFold(actual, genesisID) {
			http.Error(w, "genesis id mismatch", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
