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

package metrics

import (
	"code.vegaprotocol.io/coresync/libs/config/encoding"
)

// Config represents the configuration of the metrics exporter.
type Config struct {
	Enabled encoding.Bool `description:"Expose the prometheus metrics"   long:"enabled"`
	IP      string        `description:"Bind to address <ip>"             long:"ip"`
	Port    int           `description:"Listen for connection on port <port>" long:"port"`
	Path    string        `description:"Path of the metrics endpoint"     long:"path"`
}

func NewDefaultConfig() Config {
	return Config{
		Enabled: false,
		IP:      "0.0.0.0",
		Port:    2112,
		Path:    "/metrics",
	}
}
