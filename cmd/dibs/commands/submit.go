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

package commands

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"os"

	"code.dibs.finance/dibs/api/rest"
	"code.dibs.finance/dibs/api/rest/client"
	vgjson "code.dibs.finance/dibs/libs/json"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/jessevdk/go-flags"
)

type SubmitCmd struct {
	NodeFlag

	Kind    string `long:"kind" required:"true" choice:"claim" choice:"claim-excess" choice:"round-winners" choice:"top-referrers" choice:"pair-top-referrers" choice:"register" choice:"local-claim" choice:"claim-prize" description:"Kind of attested result or signed user request"`
	File    string `long:"file" required:"true" description:"JSON file holding the request"`
	KeyFile string `long:"key-file" description:"File holding the hex private key signing the request on behalf of the caller"`

	ctx context.Context
}

var submitCmd SubmitCmd

func Submit(ctx context.Context, parser *flags.Parser) error {
	submitCmd = SubmitCmd{ctx: ctx}
	_, err := parser.AddCommand("submit", "Submit a result attested by the muon network", "", &submitCmd)
	return err
}

func (opts *SubmitCmd) Execute(_ []string) error {
	buf, err := os.ReadFile(opts.File)
	if err != nil {
		return fmt.Errorf("couldn't read the request: %w", err)
	}
	clt, err := client.New(opts.Node, opts.Retries)
	if err != nil {
		return err
	}

	var resp *rest.SubmitResponse
	switch opts.Kind {
	case "claim":
		req := &rest.ClaimRequest{}
		if err := json.Unmarshal(buf, req); err != nil {
			return err
		}
		if err := opts.sign(req.Sign); err != nil {
			return err
		}
		resp, err = clt.SubmitClaim(opts.ctx, req)
	case "claim-excess":
		req := &rest.ClaimExcessRequest{}
		if err := json.Unmarshal(buf, req); err != nil {
			return err
		}
		if err := opts.sign(req.Sign); err != nil {
			return err
		}
		resp, err = clt.SubmitClaimExcess(opts.ctx, req)
	case "round-winners":
		req := &rest.RoundWinnersRequest{}
		if err := json.Unmarshal(buf, req); err != nil {
			return err
		}
		resp, err = clt.SubmitRoundWinners(opts.ctx, req)
	case "top-referrers":
		req := &rest.TopReferrersRequest{}
		if err := json.Unmarshal(buf, req); err != nil {
			return err
		}
		resp, err = clt.SubmitTopReferrers(opts.ctx, req)
	case "pair-top-referrers":
		req := &rest.PairTopReferrersRequest{}
		if err := json.Unmarshal(buf, req); err != nil {
			return err
		}
		resp, err = clt.SubmitPairTopReferrers(opts.ctx, req)
	case "register":
		req := &rest.RegisterRequest{}
		if err := json.Unmarshal(buf, req); err != nil {
			return err
		}
		if err := opts.sign(req.Sign); err != nil {
			return err
		}
		resp, err = clt.Register(opts.ctx, req)
	case "local-claim":
		req := &rest.LocalClaimRequest{}
		if err := json.Unmarshal(buf, req); err != nil {
			return err
		}
		if err := opts.sign(req.Sign); err != nil {
			return err
		}
		resp, err = clt.ClaimLocal(opts.ctx, req)
	case "claim-prize":
		req := &rest.PrizeClaimRequest{}
		if err := json.Unmarshal(buf, req); err != nil {
			return err
		}
		if err := opts.sign(req.Sign); err != nil {
			return err
		}
		resp, err = clt.ClaimPrize(opts.ctx, req)
	}
	if err != nil {
		return err
	}
	return vgjson.PrettyPrint(resp)
}

// sign signs the request when a key file is given, the request is sent as is
// otherwise.
func (opts *SubmitCmd) sign(fn func(*ecdsa.PrivateKey) error) error {
	if opts.KeyFile == "" {
		return nil
	}
	key, err := crypto.LoadECDSA(opts.KeyFile)
	if err != nil {
		return fmt.Errorf("couldn't load the caller key: %w", err)
	}
	return fn(key)
}
