// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import "github.com/0xngmi/nft-collateral/metrics"

var (
	metricPackedBlocks   = metrics.LazyLoadCounter("packer_block_count")
	metricPackedTxs      = metrics.LazyLoadCounterVec("packer_tx_count", []string{"reverted"})
	metricBlockGasUsed   = metrics.LazyLoadHistogram("packer_block_gas_used", metrics.BucketGas)
	metricBlockPackingMs = metrics.LazyLoadHistogram("packer_block_packing_duration_ms", metrics.BucketHTTPReqs)
)
