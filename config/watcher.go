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

package config

import (
	"context"
	"sync"
	"time"

	"code.dibs.finance/dibs/logging"

	"github.com/fsnotify/fsnotify"
)

const namedLogger = "cfgwatcher"

// Watcher reloads the configuration file when it changes and notifies the
// listeners with the new configuration.
type Watcher struct {
	log  *logging.Logger
	path string

	mu        sync.Mutex
	cfg       Config
	listeners []func(Config)
}

func NewWatcher(ctx context.Context, log *logging.Logger, loader *Loader) (*Watcher, error) {
	wlog := log.Named(namedLogger)
	// configuration changes are always worth a line
	wlog.SetLevel(logging.DebugLevel)
	w := &Watcher{
		log:  wlog,
		path: loader.ConfigFilePath(),
		cfg:  NewDefaultConfig(),
	}
	if err := w.load(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(w.path); err != nil {
		watcher.Close()
		return nil, err
	}
	w.log.Info("config watcher started", logging.String("config", w.path))

	go w.watch(ctx, watcher)
	return w, nil
}

// Get returns the last loaded configuration.
func (w *Watcher) Get() Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cfg
}

// OnConfigUpdate registers functions called after every reload.
func (w *Watcher) OnConfigUpdate(fns ...func(Config)) {
	w.mu.Lock()
	w.listeners = append(w.listeners, fns...)
	w.mu.Unlock()
}

func (w *Watcher) load() error {
	cfg := NewDefaultConfig()
	if err := decodeFile(w.path, &cfg); err != nil {
		return err
	}
	w.mu.Lock()
	w.cfg = cfg
	w.mu.Unlock()
	return nil
}

func (w *Watcher) notify() {
	w.mu.Lock()
	cfg := w.cfg
	listeners := append([]func(Config){}, w.listeners...)
	w.mu.Unlock()
	for _, f := range listeners {
		f(cfg)
	}
}

func (w *Watcher) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Create) {
				continue
			}
			if event.Has(fsnotify.Rename) {
				// editors replace the file, wait for the new one and watch it
				time.Sleep(50 * time.Millisecond)
				if err := watcher.Add(w.path); err != nil {
					w.log.Error("unable to watch configuration", logging.Error(err))
					continue
				}
			}
			if err := w.load(); err != nil {
				w.log.Error("unable to load configuration", logging.Error(err))
				continue
			}
			w.log.Info("configuration updated", logging.String("event", event.Name))
			w.notify()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("config watcher received error event", logging.Error(err))
		case <-ctx.Done():
			return
		}
	}
}
