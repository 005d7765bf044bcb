// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package debug

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/0xngmi/nft-collateral/api/utils"
	"github.com/0xngmi/nft-collateral/packer"
)

// IncreaseTime is the body of a time travel request.
type IncreaseTime struct {
	Seconds uint64 `json:"seconds"`
}

// ClockResult reports the shifted clock.
type ClockResult struct {
	Offset uint64 `json:"offset"`
	Now    uint64 `json:"now"`
}

// maxIncrease keeps the clock far from overflowing block timestamps.
const maxIncrease = 100 * 365 * 24 * 3600

type Debug struct {
	clock *packer.Clock
}

func New(clock *packer.Clock) *Debug {
	return &Debug{clock}
}

func (d *Debug) handleIncreaseTime(w http.ResponseWriter, req *http.Request) error {
	var body IncreaseTime
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Seconds == 0 {
		return utils.BadRequest(errors.New("seconds: should be positive"))
	}
	if body.Seconds > maxIncrease || d.clock.Offset()+body.Seconds > maxIncrease {
		return utils.Forbidden(errors.New("seconds: exceeds limit"))
	}

	offset := d.clock.IncreaseTime(body.Seconds)
	return utils.WriteJSON(w, &ClockResult{
		Offset: offset,
		Now:    d.clock.Now(),
	})
}

func (d *Debug) handleGetClock(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, &ClockResult{
		Offset: d.clock.Offset(),
		Now:    d.clock.Now(),
	})
}

func (d *Debug) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/increase-time").Methods(http.MethodPost).Name("debug_increase_time").HandlerFunc(utils.WrapHandlerFunc(d.handleIncreaseTime))
	sub.Path("/clock").Methods(http.MethodGet).Name("debug_get_clock").HandlerFunc(utils.WrapHandlerFunc(d.handleGetClock))
}
