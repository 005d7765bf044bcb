// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import "github.com/0xngmi/nft-collateral/metrics"

var metricTxSendCount = metrics.LazyLoadCounter("api_tx_send_count")
