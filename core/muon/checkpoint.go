// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package muon

import (
	"bytes"
	"encoding/json"
	"sort"

	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"

	"github.com/ethereum/go-ethereum/common"
)

type checkpoint struct {
	AppID     *num.Uint     `json:"app_id"`
	PublicKey PublicKey     `json:"public_key"`
	Gateway   types.Address `json:"gateway"`
	Consumed  []common.Hash `json:"consumed"`
}

func (g *Gateway) Name() types.CheckpointName {
	return types.GatewayCheckpoint
}

func (g *Gateway) Checkpoint() ([]byte, error) {
	cp := checkpoint{
		AppID:     g.appID,
		PublicKey: g.publicKey,
		Gateway:   g.gwAddress,
		Consumed:  make([]common.Hash, 0, len(g.consumed)),
	}
	for id := range g.consumed {
		cp.Consumed = append(cp.Consumed, id)
	}
	sort.Slice(cp.Consumed, func(i, j int) bool {
		return bytes.Compare(cp.Consumed[i][:], cp.Consumed[j][:]) < 0
	})
	return json.Marshal(cp)
}

func (g *Gateway) Load(data []byte) error {
	cp := checkpoint{}
	if err := json.Unmarshal(data, &cp); err != nil {
		return err
	}
	if cp.AppID != nil {
		g.appID = cp.AppID
	}
	if cp.PublicKey.X != nil {
		g.publicKey = cp.PublicKey
	}
	g.gwAddress = cp.Gateway
	g.consumed = make(map[common.Hash]struct{}, len(cp.Consumed))
	for _, id := range cp.Consumed {
		g.consumed[id] = struct{}{}
	}
	return nil
}
