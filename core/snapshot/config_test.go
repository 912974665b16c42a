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

package snapshot_test

import (
	"testing"
	"time"

	"code.vegaprotocol.io/coresync/core/snapshot"
	"code.vegaprotocol.io/coresync/libs/config/encoding"

	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	t.Run("Default configuration is valid", testConfigDefaultConfigIsValid)
	t.Run("Invalid configuration fails", testConfigInvalidConfigFails)
}

func testConfigDefaultConfigIsValid(t *testing.T) {
	defaultConfig := snapshot.NewDefaultConfig()
	require.NoError(t, defaultConfig.Validate())

	testConfig := snapshot.NewTestConfig()
	require.NoError(t, testConfig.Validate())
}

func testConfigInvalidConfigFails(t *testing.T) {
	// RetryLimit
	defaultConfig := snapshot.NewDefaultConfig()
	defaultConfig.RetryLimit = -1
	require.Error(t, defaultConfig.Validate())

	// InitialInterval
	defaultConfig = snapshot.NewDefaultConfig()
	defaultConfig.InitialInterval = encoding.Duration{}
	require.Error(t, defaultConfig.Validate())

	// MaxInterval
	defaultConfig = snapshot.NewDefaultConfig()
	defaultConfig.MaxInterval = encoding.Duration{Duration: time.Millisecond}
	require.Error(t, defaultConfig.Validate())

	// MaxElapsed
	defaultConfig = snapshot.NewDefaultConfig()
	defaultConfig.MaxElapsed = encoding.Duration{Duration: -time.Second}
	require.Error(t, defaultConfig.Validate())
}
