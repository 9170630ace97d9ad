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
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
)

// Subcommand is the signature of a sub command that can be registered.
type Subcommand func(context.Context, *flags.Parser) error

// Register registers one or more subcommands.
func Register(ctx context.Context, parser *flags.Parser, cmds ...Subcommand) error {
	for _, fn := range cmds {
		if err := fn(ctx, parser); err != nil {
			return err
		}
	}
	return nil
}

type Empty struct{}

// HomeFlag points at the directory holding the configuration, the genesis
// file and the state of a node.
type HomeFlag struct {
	Home string `long:"home" env:"DIBS_HOME" default:"." description:"Path to the home directory of the node"`
}

// NodeFlag points at the REST API of a running node.
type NodeFlag struct {
	Node    string `long:"node" default:"http://127.0.0.1:3003" description:"Address of the node REST API"`
	Retries uint64 `long:"retries" default:"3" description:"Number of retries on network failures and server errors"`
}

func Main(ctx context.Context) error {
	parser := flags.NewParser(&Empty{}, flags.Default)

	if err := Register(ctx, parser,
		Init,
		Node,
		Status,
		Submit,
	); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return err
	}

	if _, err := parser.Parse(); err != nil {
		return err
	}
	return nil
}
