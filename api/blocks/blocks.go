// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package blocks

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/0xngmi/nft-collateral/api/types"
	"github.com/0xngmi/nft-collateral/api/utils"
	"github.com/0xngmi/nft-collateral/block"
	"github.com/0xngmi/nft-collateral/chain"
)

type Blocks struct {
	repo *chain.Repository
}

func New(repo *chain.Repository) *Blocks {
	return &Blocks{
		repo,
	}
}

func (b *Blocks) handleGetBlock(w http.ResponseWriter, req *http.Request) error {
	revision, err := utils.ParseRevision(mux.Vars(req)["revision"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "revision"))
	}
	expanded := req.URL.Query().Get("expanded")
	if expanded != "" && expanded != "false" && expanded != "true" {
		return utils.BadRequest(errors.WithMessage(errors.New("should be boolean"), "expanded"))
	}

	blk, err := utils.GetBlock(revision, b.repo)
	if err != nil {
		if b.repo.IsNotFound(err) {
			return utils.WriteJSON(w, nil)
		}
		return err
	}

	if expanded == "true" {
		expandedBlock, err := b.expand(blk)
		if err != nil {
			return err
		}
		return utils.WriteJSON(w, expandedBlock)
	}
	return utils.WriteJSON(w, types.ConvertBlock(blk))
}

func (b *Blocks) expand(blk *block.Block) (*types.ExpandedBlock, error) {
	receipts, err := b.repo.GetBlockReceipts(blk.Header().ID())
	if err != nil {
		return nil, err
	}
	txs := blk.Transactions()
	expanded := &types.ExpandedBlock{
		Block:        types.ConvertBlock(blk),
		Transactions: make([]*types.ExpandedTransaction, 0, len(txs)),
	}
	for i, trx := range txs {
		converted, err := types.ConvertTransaction(trx, blk.Header())
		if err != nil {
			return nil, err
		}
		expanded.Transactions = append(expanded.Transactions, &types.ExpandedTransaction{
			Transaction: converted,
			Receipt:     types.ConvertReceipt(receipts[i], blk.Header(), trx),
		})
	}
	return expanded, nil
}

func (b *Blocks) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("/{revision}").Methods(http.MethodGet).Name("blocks_get_block").HandlerFunc(utils.WrapHandlerFunc(b.handleGetBlock))
}
