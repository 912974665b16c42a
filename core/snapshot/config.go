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

package snapshot

import (
	"errors"
	"time"

	"code.vegaprotocol.io/coresync/libs/config/encoding"
	"code.vegaprotocol.io/coresync/logging"
)

const namedLogger = "snapshot"

type Config struct {
	Level           encoding.LogLevel `choice:"debug"                                                                  choice:"info" choice:"warning" choice:"error" choice:"panic" choice:"fatal" description:"Logging level (default: info)" long:"log-level"`
	RetryLimit      int               `description:"Maximum number of times a failed download is attempted again"      long:"max-retries"`
	InitialInterval encoding.Duration `description:"Time waited before the first new attempt of a failed download"     long:"retry-initial-interval"`
	MaxInterval     encoding.Duration `description:"Maximum time waited between two attempts of a failed download"     long:"retry-max-interval"`
	MaxElapsed      encoding.Duration `description:"Time after which a failing download is given up, 0 means no limit" long:"retry-max-elapsed"`
}

// NewDefaultConfig creates an instance of the package specific configuration, given a
// pointer to a logger instance to be used for logging within the package.
func NewDefaultConfig() Config {
	return Config{
		Level:           encoding.LogLevel{Level: logging.InfoLevel},
		RetryLimit:      5,
		InitialInterval: encoding.Duration{Duration: time.Second},
		MaxInterval:     encoding.Duration{Duration: 30 * time.Second},
		MaxElapsed:      encoding.Duration{Duration: 15 * time.Minute},
	}
}

// NewTestConfig returns a configuration retrying quickly, for tests.
func NewTestConfig() Config {
	cfg := NewDefaultConfig()
	cfg.RetryLimit = 3
	cfg.InitialInterval = encoding.Duration{Duration: time.Millisecond}
	cfg.MaxInterval = encoding.Duration{Duration: 5 * time.Millisecond}
	cfg.MaxElapsed = encoding.Duration{Duration: 0}
	return cfg
}

// Validate checks the values in the config file are sensible.
func (c *Config) Validate() error {
	if c.RetryLimit < 0 {
		return errors.New("retry limit cannot be negative")
	}
	if c.InitialInterval.Get() <= 0 {
		return errors.New("retry initial interval must be positive")
	}
	if c.MaxInterval.Get() < c.InitialInterval.Get() {
		return errors.New("retry max interval cannot be lower than the initial interval")
	}
	if c.MaxElapsed.Get() < 0 {
		return errors.New("retry max elapsed time cannot be negative")
	}
	return nil
}
