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

package logging_test

import (
	"testing"

	"code.vegaprotocol.io/coresync/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	t.Run("Parsing known levels succeeds", testParsingKnownLevelsSucceeds)
	t.Run("Parsing unknown level fails", testParsingUnknownLevelFails)
	t.Run("Named loggers are dot separated", testNamedLoggersAreDotSeparated)
	t.Run("Setting the level on a child does not change the parent", testSettingLevelOnChildDoesNotChangeParent)
	t.Run("Configured level applies to the root logger", testConfiguredLevelApplies)
}

func testParsingKnownLevelsSucceeds(t *testing.T) {
	tcs := map[string]logging.Level{
		"debug":   logging.DebugLevel,
		"Info":    logging.InfoLevel,
		"warning": logging.WarnLevel,
		"WARN":    logging.WarnLevel,
		"error":   logging.ErrorLevel,
		"panic":   logging.PanicLevel,
		"fatal":   logging.FatalLevel,
	}

	for s, expected := range tcs {
		lvl, err := logging.ParseLevel(s)
		require.NoError(t, err, s)
		assert.Equal(t, expected, lvl, s)
	}
}

func testParsingUnknownLevelFails(t *testing.T) {
	_, err := logging.ParseLevel("verbose")
	require.Error(t, err)
}

func testNamedLoggersAreDotSeparated(t *testing.T) {
	log := logging.NewTestLogger()
	defer log.AtExit()

	child := log.Named("snapshot").Named("downloader")
	assert.Equal(t, "snapshot.downloader", child.GetName())
	assert.Equal(t, "", log.GetName())
}

func testSettingLevelOnChildDoesNotChangeParent(t *testing.T) {
	log := logging.NewTestLogger()
	defer log.AtExit()

	child := log.Named("store")
	child.SetLevel(logging.ErrorLevel)

	assert.Equal(t, logging.ErrorLevel, child.GetLevel())
	assert.Equal(t, logging.DebugLevel, log.GetLevel())
}

func testConfiguredLevelApplies(t *testing.T) {
	cfg := logging.NewDefaultConfig()
	assert.Equal(t, logging.InfoLevel, logging.NewLoggerFromConfig(cfg).GetLevel())

	cfg.Level = "error"
	log := logging.NewLoggerFromConfig(cfg)
	assert.Equal(t, logging.ErrorLevel, log.GetLevel())
	assert.Equal(t, logging.ErrorLevel, log.Named("store").GetLevel())

	cfg.Environment = "dev"
	cfg.Level = "verbose"
	assert.Equal(t, logging.DebugLevel, logging.NewLoggerFromConfig(cfg).GetLevel())
}
