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
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Loader reads and writes the configuration of a node home.
type Loader struct {
	home string
}

func NewLoader(home string) *Loader {
	return &Loader{home: home}
}

func (l *Loader) Home() string {
	return l.home
}

func (l *Loader) ConfigFilePath() string {
	return filepath.Join(l.home, configFileName)
}

func (l *Loader) EnvFilePath() string {
	return filepath.Join(l.home, envFileName)
}

// Resolve returns p as is if absolute, relative to the home otherwise.
func (l *Loader) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.home, p)
}

func (l *Loader) ConfigExists() (bool, error) {
	_, err := os.Stat(l.ConfigFilePath())
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrap(err, "couldn't verify configuration presence")
}

// Get reads the configuration file on top of the defaults.
func (l *Loader) Get() (*Config, error) {
	cfg := NewDefaultConfig()
	if err := decodeFile(l.ConfigFilePath(), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (l *Loader) Save(cfg *Config) error {
	if err := os.MkdirAll(l.home, 0o700); err != nil {
		return errors.Wrapf(err, "couldn't create home %s", l.home)
	}
	buf := &bytes.Buffer{}
	if err := toml.NewEncoder(buf).Encode(cfg); err != nil {
		return errors.Wrap(err, "couldn't encode configuration")
	}
	if err := os.WriteFile(l.ConfigFilePath(), buf.Bytes(), 0o600); err != nil {
		return errors.Wrap(err, "couldn't write configuration")
	}
	return nil
}

// LoadEnv exports the variables of the home .env file that are not already
// set. A missing file is not an error.
func (l *Loader) LoadEnv() error {
	path := l.EnvFilePath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "couldn't load %s", path)
	}
	return nil
}

func decodeFile(path string, cfg *Config) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "couldn't read configuration")
	}
	if _, err := toml.Decode(string(buf), cfg); err != nil {
		return errors.Wrapf(err, "couldn't parse configuration %s", path)
	}
	return nil
}
