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

	"code.dibs.finance/dibs/config"
	"code.dibs.finance/dibs/core/processor"
	vgjson "code.dibs.finance/dibs/libs/json"
	"code.dibs.finance/dibs/logging"

	"github.com/jessevdk/go-flags"
)

type InitCmd struct {
	HomeFlag

	Force bool `short:"f" long:"force" description:"Erase the existing configuration and genesis files"`
}

var initCmd InitCmd

func Init(_ context.Context, parser *flags.Parser) error {
	initCmd = InitCmd{}
	_, err := parser.AddCommand("init", "Create the configuration and genesis files of a node", "", &initCmd)
	return err
}

func (opts *InitCmd) Execute(_ []string) error {
	log := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer log.AtExit()

	loader := config.NewLoader(opts.Home)
	exists, err := loader.ConfigExists()
	if err != nil {
		return err
	}
	if exists && !opts.Force {
		return fmt.Errorf("configuration already exists at %s, use --force to overwrite it", loader.ConfigFilePath())
	}

	cfg := config.NewDefaultConfig()
	if err := loader.Save(&cfg); err != nil {
		return fmt.Errorf("couldn't save the configuration: %w", err)
	}

	genesis := processor.DefaultGenesisState()
	buf, err := processor.Dump(&genesis)
	if err != nil {
		return err
	}
	genesisPath := loader.Resolve(cfg.Processor.GenesisFile)
	if err := os.WriteFile(genesisPath, []byte(buf), 0o600); err != nil {
		return fmt.Errorf("couldn't write the genesis file: %w", err)
	}

	log.Info("node initialised, the contracts, roles and muon keys of the genesis must be filled in before the first start")
	return vgjson.PrettyPrint(struct {
		ConfigFilePath  string `json:"configFilePath"`
		GenesisFilePath string `json:"genesisFilePath"`
	}{
		ConfigFilePath:  loader.ConfigFilePath(),
		GenesisFilePath: genesisPath,
	})
}
