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
	"os/signal"
	"syscall"
	"time"

	"code.dibs.finance/dibs/api/rest"
	"code.dibs.finance/dibs/config"
	"code.dibs.finance/dibs/core/broker"
	"code.dibs.finance/dibs/core/clock"
	"code.dibs.finance/dibs/core/processor"
	"code.dibs.finance/dibs/core/repository"
	"code.dibs.finance/dibs/core/storage"
	vgclose "code.dibs.finance/dibs/libs/close"
	vghttp "code.dibs.finance/dibs/libs/http"
	"code.dibs.finance/dibs/logging"
	"code.dibs.finance/dibs/metrics"

	"github.com/jessevdk/go-flags"
	"github.com/jonboulle/clockwork"
)

type NodeCmd struct {
	HomeFlag
	config.Config
}

var nodeCmd NodeCmd

func Node(_ context.Context, parser *flags.Parser) error {
	nodeCmd = NodeCmd{Config: config.NewDefaultConfig()}
	_, err := parser.AddCommand("node", "Run a node", "Run the engines and serve the REST API", &nodeCmd)
	return err
}

func (opts *NodeCmd) Execute(_ []string) error {
	loader := config.NewLoader(opts.Home)
	if err := loader.LoadEnv(); err != nil {
		return err
	}
	exists, err := loader.ConfigExists()
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("no configuration at %s, run the init command first", loader.ConfigFilePath())
	}
	cfg, err := loader.Get()
	if err != nil {
		return err
	}
	// the command line overrides the configuration file
	if _, err := flags.NewParser(cfg, flags.Default|flags.IgnoreUnknown).Parse(); err != nil {
		return err
	}

	log := logging.NewLoggerFromConfig(cfg.Logging)
	defer log.AtExit()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	closer := vgclose.NewCloser(log)
	defer closer.CloseAll()

	if err := run(ctx, cancel, log, loader, cfg, closer); err != nil {
		log.Error("node stopped", logging.Error(err))
		return err
	}
	return nil
}

func run(ctx context.Context, cancel context.CancelFunc, log *logging.Logger, loader *config.Loader, cfg *config.Config, closer *vgclose.Closer) error {
	genesis, err := processor.LoadGenesis(loader.Resolve(cfg.Processor.GenesisFile))
	if err != nil {
		return err
	}

	cfg.Storage.DBPath = loader.Resolve(cfg.Storage.DBPath)
	store, err := storage.New(log, cfg.Storage)
	if err != nil {
		return err
	}
	closer.Add("storage", store.Close)

	if cfg.Metrics.Enabled {
		if err := metrics.Setup(); err != nil {
			return err
		}
		go func() {
			if err := metrics.Start(ctx, cfg.Metrics); err != nil {
				log.Error("metrics server failed", logging.Error(err))
			}
		}()
	}

	b := broker.New(log, cfg.Broker)
	history := broker.NewHistory(cfg.Broker.HistorySize)
	b.Subscribe(history)

	proc, err := processor.New(ctx, log, cfg.Processor, b, clock.NewReal(), store, *genesis, repository.NewRandomSeeds(nil))
	if err != nil {
		return err
	}

	watcher, err := config.NewWatcher(ctx, log, loader)
	if err != nil {
		return err
	}
	watcher.OnConfigUpdate(func(c config.Config) {
		if c.Logging.Level == "" {
			return
		}
		if lvl, err := logging.ParseLevel(c.Logging.Level); err == nil {
			log.SetLevel(lvl)
		}
	})

	if !cfg.API.Enabled {
		log.Info("REST API disabled")
		waitSig(ctx, log)
		return nil
	}

	limiter, err := vghttp.NewRateLimit(ctx, cfg.API.RateLimit, clockwork.NewRealClock())
	if err != nil {
		return err
	}
	api := rest.New(log, cfg.API, proc, history, limiter).WithStreams(b)
	closer.Add("api", func() error {
		sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer scancel()
		return api.Stop(sctx)
	})
	go func() {
		defer cancel()
		if err := api.Start(); err != nil {
			log.Error("REST API failed", logging.Error(err))
		}
	}()

	waitSig(ctx, log)
	return nil
}

// waitSig will wait for a sigterm or sigint interrupt.
func waitSig(ctx context.Context, log *logging.Logger) {
	gracefulStop := make(chan os.Signal, 1)
	signal.Notify(gracefulStop, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-gracefulStop:
		log.Info("caught signal", logging.String("name", fmt.Sprintf("%+v", sig)))
	case <-ctx.Done():
	}
}
