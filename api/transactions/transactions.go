// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/0xngmi/nft-collateral/api/types"
	"github.com/0xngmi/nft-collateral/api/utils"
	"github.com/0xngmi/nft-collateral/chain"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/tx"
	"github.com/0xngmi/nft-collateral/txpool"
)

type Transactions struct {
	repo *chain.Repository
	pool txpool.Pool
}

func New(repo *chain.Repository, pool txpool.Pool) *Transactions {
	return &Transactions{
		repo,
		pool,
	}
}

func (t *Transactions) getRawTransaction(txID nfc.Bytes32, allowPending bool) (*types.RawTx, error) {
	trx, _, err := t.repo.GetTransaction(txID)
	if err != nil {
		if !t.repo.IsNotFound(err) {
			return nil, err
		}
		if !allowPending {
			return nil, nil
		}
		if trx = t.pool.Get(txID); trx == nil {
			return nil, nil
		}
	}
	raw, err := trx.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return &types.RawTx{Raw: hexutil.Encode(raw)}, nil
}

func (t *Transactions) getTransactionByID(txID nfc.Bytes32, allowPending bool) (*types.Transaction, error) {
	trx, meta, err := t.repo.GetTransaction(txID)
	if err != nil {
		if !t.repo.IsNotFound(err) {
			return nil, err
		}
		if !allowPending {
			return nil, nil
		}
		if pending := t.pool.Get(txID); pending != nil {
			return types.ConvertTransaction(pending, nil)
		}
		return nil, nil
	}
	blk, err := t.repo.GetBlock(meta.BlockID)
	if err != nil {
		return nil, err
	}
	return types.ConvertTransaction(trx, blk.Header())
}

// getTransactionReceiptByID get tx's receipt
func (t *Transactions) getTransactionReceiptByID(txID nfc.Bytes32) (*types.Receipt, error) {
	trx, meta, err := t.repo.GetTransaction(txID)
	if err != nil {
		if t.repo.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	blk, err := t.repo.GetBlock(meta.BlockID)
	if err != nil {
		return nil, err
	}
	receipt, err := t.repo.GetReceipt(txID)
	if err != nil {
		return nil, err
	}
	return types.ConvertReceipt(receipt, blk.Header(), trx), nil
}

func (t *Transactions) sendTx(trx *tx.Transaction) (nfc.Bytes32, error) {
	if err := t.pool.AddLocal(trx); err != nil {
		return nfc.Bytes32{}, err
	}
	return trx.ID(), nil
}

func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	var raw types.RawTx
	if err := utils.ParseJSON(req.Body, &raw); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	trx, err := raw.Decode()
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "raw"))
	}

	txID, err := t.sendTx(trx)
	if err != nil {
		if txpool.IsBadTx(err) {
			return utils.BadRequest(err)
		}
		if txpool.IsTxRejected(err) {
			return utils.Forbidden(err)
		}
		return err
	}
	metricTxSendCount().Add(1)
	return utils.WriteJSON(w, &types.SendTxResult{ID: &txID})
}

func parseBool(req *http.Request, name string) (bool, error) {
	switch req.URL.Query().Get(name) {
	case "", "false":
		return false, nil
	case "true":
		return true, nil
	}
	return false, utils.BadRequest(errors.WithMessage(errors.New("should be boolean"), name))
}

func (t *Transactions) handleGetTransactionByID(w http.ResponseWriter, req *http.Request) error {
	txID, err := nfc.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	raw, err := parseBool(req, "raw")
	if err != nil {
		return err
	}
	pending, err := parseBool(req, "pending")
	if err != nil {
		return err
	}
	if raw {
		trx, err := t.getRawTransaction(txID, pending)
		if err != nil {
			return err
		}
		return utils.WriteJSON(w, trx)
	}
	trx, err := t.getTransactionByID(txID, pending)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, trx)
}

func (t *Transactions) handleGetTransactionReceiptByID(w http.ResponseWriter, req *http.Request) error {
	txID, err := nfc.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	receipt, err := t.getTransactionReceiptByID(txID)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, receipt)
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodPost).Name("transactions_send_tx").HandlerFunc(utils.WrapHandlerFunc(t.handleSendTransaction))
	sub.Path("/{id}").Methods(http.MethodGet).Name("transactions_get_tx").HandlerFunc(utils.WrapHandlerFunc(t.handleGetTransactionByID))
	sub.Path("/{id}/receipt").Methods(http.MethodGet).Name("transactions_get_receipt").HandlerFunc(utils.WrapHandlerFunc(t.handleGetTransactionReceiptByID))
}
