// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import "github.com/0xngmi/nft-collateral/metrics"

var (
	metricRepositoryReads = metrics.LazyLoadCounterVec("repository_read_count", []string{"type", "target"})
	metricBestBlock       = metrics.LazyLoadGauge("repository_best_block_number")
)
