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

package catchup

import (
	"time"

	"code.vegaprotocol.io/coresync/libs/config/encoding"
	"code.vegaprotocol.io/coresync/logging"
)

const namedLogger = "catchup"

// Config represents the configuration of the catch-up service, both the
// server exposing the local store and the client pulling from peers.
type Config struct {
	Level         encoding.LogLevel `choice:"debug" choice:"info" choice:"warning" choice:"error" choice:"panic" choice:"fatal" description:"Logging level (default: info)" long:"log-level"`
	IP            string            `description:"Bind to address <ip>"                                      long:"ip"`
	Port          int               `description:"Listen for connection on port <port>"                      long:"port"`
	Timeout       encoding.Duration `description:"Timeout of single request calls to a peer"                 long:"timeout"`
	StreamTimeout encoding.Duration `description:"Timeout of streaming calls (transaction pull, store copy)" long:"stream-timeout"`
	PoolSize      int               `description:"Maximum number of peer connections kept open"              long:"pool-size"`
	CopyChunkSize int               `description:"Number of store entries sent per store copy message"       long:"copy-chunk-size"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:         encoding.LogLevel{Level: logging.InfoLevel},
		IP:            "0.0.0.0",
		Port:          6000,
		Timeout:       encoding.Duration{Duration: 10 * time.Second},
		StreamTimeout: encoding.Duration{Duration: 5 * time.Minute},
		PoolSize:      8,
		CopyChunkSize: 512,
	}
}
