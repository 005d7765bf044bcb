// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"fmt"
	"math"

	"github.com/0xngmi/nft-collateral/block"
	"github.com/0xngmi/nft-collateral/chain"
	"github.com/0xngmi/nft-collateral/genesis"
	"github.com/0xngmi/nft-collateral/logdb"
	"github.com/0xngmi/nft-collateral/lvldb"
	"github.com/0xngmi/nft-collateral/nfc"
	"github.com/0xngmi/nft-collateral/packer"
	"github.com/0xngmi/nft-collateral/runtime"
	"github.com/0xngmi/nft-collateral/state"
	"github.com/0xngmi/nft-collateral/tx"
	"github.com/0xngmi/nft-collateral/xenv"
)

// Chain is an in-memory chain for tests. Blocks are minted synchronously with the
// transactions handed to it.
type Chain struct {
	db           *lvldb.LevelDB
	genesis      *genesis.Genesis
	repo         *chain.Repository
	stater       *state.Stater
	genesisBlock *block.Block
	logDB        *logdb.LogDB
	packer       *packer.Packer
}

// NewDefault creates a Chain on the devnet genesis, the first dev account is the beneficiary.
func NewDefault() (*Chain, error) {
	return NewWithGenesis(genesis.NewDevnet())
}

// NewWithGenesis creates a Chain with memory backed databases.
func NewWithGenesis(gene *genesis.Genesis) (*Chain, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, fmt.Errorf("unable to open db: %w", err)
	}
	stater := state.NewStater(db)
	genesisBlock, err := gene.Build(stater)
	if err != nil {
		return nil, fmt.Errorf("unable to build genesis: %w", err)
	}
	repo, err := chain.NewRepository(db, genesisBlock)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize repository: %w", err)
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		return nil, fmt.Errorf("unable to open logdb: %w", err)
	}

	return &Chain{
		db:           db,
		genesis:      gene,
		repo:         repo,
		stater:       stater,
		genesisBlock: genesisBlock,
		logDB:        logDB,
		packer:       packer.New(repo, stater, logDB, genesis.DevAccounts()[0].Address, packer.NewClock()),
	}, nil
}

// MintBlock packs the given transactions into a new block. It fails if any of them was not adopted.
func (c *Chain) MintBlock(transactions ...*tx.Transaction) error {
	blk, _, err := c.packer.Pack(transactions, c.packer.Clock().Now())
	if err != nil {
		return fmt.Errorf("unable to pack block: %w", err)
	}
	if len(blk.Transactions()) != len(transactions) {
		return fmt.Errorf("only %d of %d txs adopted", len(blk.Transactions()), len(transactions))
	}
	return nil
}

// IncreaseTime moves the clock of the chain forward.
func (c *Chain) IncreaseTime(seconds uint64) {
	c.packer.Clock().IncreaseTime(seconds)
}

// ClauseCall simulates the clause on the best state.
func (c *Chain) ClauseCall(caller nfc.Address, clause *tx.Clause) (*runtime.Output, error) {
	best := c.repo.BestBlock().Header()
	rt := runtime.New(c.stater.NewState(), &xenv.BlockContext{
		Number:   best.Number(),
		Time:     best.Timestamp(),
		GasLimit: best.GasLimit(),
	})
	return rt.Call(clause, caller, math.MaxUint32)
}

// GetTxReceipt returns the receipt of a minted tx.
func (c *Chain) GetTxReceipt(txID nfc.Bytes32) (*tx.Receipt, error) {
	return c.repo.GetReceipt(txID)
}

// GetTxBlock returns the block a tx was minted in.
func (c *Chain) GetTxBlock(txID nfc.Bytes32) (*block.Block, error) {
	meta, err := c.repo.GetTransactionMeta(txID)
	if err != nil {
		return nil, err
	}
	return c.repo.GetBlock(meta.BlockID)
}

// GetAllBlocks returns blocks from genesis to the best one.
func (c *Chain) GetAllBlocks() ([]*block.Block, error) {
	best := c.repo.BestBlock().Header().Number()
	blks := make([]*block.Block, 0, best+1)
	for n := range best + 1 {
		blk, err := c.repo.GetBlockByNumber(n)
		if err != nil {
			return nil, err
		}
		blks = append(blks, blk)
	}
	return blks, nil
}

// BestBlock returns the current best block.
func (c *Chain) BestBlock() *block.Block {
	return c.repo.BestBlock()
}

// ChainTag returns the chain tag of the genesis block.
func (c *Chain) ChainTag() byte {
	return c.repo.ChainTag()
}

// Database returns the underlying kv store.
func (c *Chain) Database() *lvldb.LevelDB {
	return c.db
}

// LogDB returns the current logdb.
func (c *Chain) LogDB() *logdb.LogDB {
	return c.logDB
}

// Genesis returns the genesis used to build the chain.
func (c *Chain) Genesis() *genesis.Genesis {
	return c.genesis
}

// GenesisBlock returns the genesis block.
func (c *Chain) GenesisBlock() *block.Block {
	return c.genesisBlock
}

// Repo returns the block repository.
func (c *Chain) Repo() *chain.Repository {
	return c.repo
}

// Stater returns the state manager.
func (c *Chain) Stater() *state.Stater {
	return c.stater
}

// Packer returns the packer minting blocks.
func (c *Chain) Packer() *packer.Packer {
	return c.packer
}

// Close releases the databases.
func (c *Chain) Close() error {
	if err := c.logDB.Close(); err != nil {
		return err
	}
	return c.db.Close()
}
