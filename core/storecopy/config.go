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

package storecopy

import (
	"code.vegaprotocol.io/coresync/libs/config/encoding"
	"code.vegaprotocol.io/coresync/logging"
)

const namedLogger = "store"

// Config represents the configuration of the local store.
type Config struct {
	Level       encoding.LogLevel `choice:"debug" choice:"info" choice:"warning" choice:"error" choice:"panic" choice:"fatal" description:"Logging level (default: info)" long:"log-level"`
	Path        string            `description:"Path of the store, defaults to the store directory of the home"                        long:"path"`
	TxRetention uint64            `description:"Number of committed transactions kept in the history for peers to catch up, on stop" long:"tx-retention"`
}

func NewDefaultConfig() Config {
	return Config{
		Level:       encoding.LogLevel{Level: logging.InfoLevel},
		TxRetention: 10000,
	}
}
