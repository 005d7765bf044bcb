// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import "github.com/0xngmi/nft-collateral/metrics"

var metricActiveSubscriptions = metrics.LazyLoadGauge("api_active_websocket_gauge")
