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
	"fmt"
	"os"

	"code.vegaprotocol.io/coresync/core/catchup"
	"code.vegaprotocol.io/coresync/core/protocol/supported"
	"code.vegaprotocol.io/coresync/core/snapshot"
	"code.vegaprotocol.io/coresync/core/storecopy"
	vgfs "code.vegaprotocol.io/coresync/libs/fs"
	"code.vegaprotocol.io/coresync/logging"
	"code.vegaprotocol.io/coresync/metrics"

	"github.com/BurntSushi/toml"
)

// Config ties together all other application configuration types.
type Config struct {
	Logging  logging.Config   `group:"Logging"  namespace:"logging"`
	Store    storecopy.Config `group:"Store"    namespace:"store"`
	Catchup  catchup.Config   `group:"Catchup"  namespace:"catchup"`
	Snapshot snapshot.Config  `group:"Snapshot" namespace:"snapshot"`
	Metrics  metrics.Config   `group:"Metrics"  namespace:"metrics"`
	Protocol supported.Config `group:"Protocol" namespace:"protocol"`

	Peers []string `description:"Catch-up addresses of the peers to download the core state from" long:"peer"`
}

// NewDefaultConfig returns a set of default configs for all packages, as
// specified at the per package config level.
func NewDefaultConfig() Config {
	return Config{
		Logging:  logging.NewDefaultConfig(),
		Store:    storecopy.NewDefaultConfig(),
		Catchup:  catchup.NewDefaultConfig(),
		Snapshot: snapshot.NewDefaultConfig(),
		Metrics:  metrics.NewDefaultConfig(),
		Protocol: supported.NewDefaultConfig(),
	}
}

// Validate checks the values in the config file are sensible.
func (c *Config) Validate() error {
	if len(c.Logging.Level) > 0 {
		if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
			return fmt.Errorf("invalid logging configuration: %w", err)
		}
	}
	if err := c.Snapshot.Validate(); err != nil {
		return fmt.Errorf("invalid snapshot configuration: %w", err)
	}
	if err := c.Protocol.Validate(); err != nil {
		return fmt.Errorf("invalid protocol configuration: %w", err)
	}
	if c.Catchup.PoolSize <= 0 {
		return fmt.Errorf("invalid catch-up configuration: pool size must be positive")
	}
	return nil
}

// Read loads the configuration file at path on top of the default
// configuration.
func Read(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func load(path string, cfg *Config) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("couldn't read configuration file at %s: %w", path, err)
	}
	if _, err := toml.Decode(string(buf), cfg); err != nil {
		return fmt.Errorf("couldn't decode configuration file at %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return nil
}

// Save writes the configuration to path, replacing any existing file.
func Save(path string, cfg *Config) error {
	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(cfg); err != nil {
		return fmt.Errorf("couldn't encode configuration: %w", err)
	}
	if err := vgfs.WriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("couldn't write configuration file at %s: %w", path, err)
	}
	return nil
}
