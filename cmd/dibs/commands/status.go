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

	"code.dibs.finance/dibs/api/rest/client"
	vgjson "code.dibs.finance/dibs/libs/json"

	"github.com/jessevdk/go-flags"
)

type StatusCmd struct {
	NodeFlag

	ctx context.Context
}

var statusCmd StatusCmd

func Status(ctx context.Context, parser *flags.Parser) error {
	statusCmd = StatusCmd{ctx: ctx}
	_, err := parser.AddCommand("status", "Show the status of a running node", "", &statusCmd)
	return err
}

func (opts *StatusCmd) Execute(_ []string) error {
	clt, err := client.New(opts.Node, opts.Retries)
	if err != nil {
		return err
	}
	status, err := clt.Status(opts.ctx)
	if err != nil {
		return err
	}
	return vgjson.PrettyPrint(status)
}
