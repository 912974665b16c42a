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

package supported_test

import (
	"testing"

	"code.vegaprotocol.io/coresync/core/catchup"
	"code.vegaprotocol.io/coresync/core/protocol/supported"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaftProtocol(t *testing.T) {
	t.Run("Raft protocol is returned", testRaftProtocolIsReturned)
	t.Run("No version is returned when none are configured", testNoRaftVersionWhenNoneConfigured)
	t.Run("Configured versions are returned in order", testConfiguredRaftVersionsAreReturned)
}

func testRaftProtocolIsReturned(t *testing.T) {
	creator := supported.NewCreator(supported.NewDefaultConfig())

	assert.Equal(t, supported.RaftIdentifier, creator.RaftProtocol().Identifier)
}

func testNoRaftVersionWhenNoneConfigured(t *testing.T) {
	creator := supported.NewCreator(supported.NewDefaultConfig())

	assert.Empty(t, creator.RaftProtocol().Versions)
}

func testConfiguredRaftVersionsAreReturned(t *testing.T) {
	cfg := supported.NewDefaultConfig()
	cfg.RaftVersions = []int{2, 3, 1}
	creator := supported.NewCreator(cfg)

	assert.Equal(t, []int{2, 3, 1}, creator.RaftProtocol().Versions)
}

func TestModifierProtocols(t *testing.T) {
	t.Run("No modifier is returned when no version is configured", testNoModifierWhenNoneConfigured)
	t.Run("Compression is returned when versions are configured", testCompressionIsReturned)
	t.Run("Configured compressions are returned in order", testConfiguredCompressionsAreReturned)
	t.Run("Unknown compressions are rejected", testUnknownCompressionsAreRejected)
}

func testNoModifierWhenNoneConfigured(t *testing.T) {
	creator := supported.NewCreator(supported.NewDefaultConfig())

	modifiers, err := creator.ModifierProtocols()
	require.NoError(t, err)
	assert.Empty(t, modifiers)

	compression, err := creator.Compression()
	require.NoError(t, err)
	assert.Empty(t, compression)
}

func testCompressionIsReturned(t *testing.T) {
	cfg := supported.NewDefaultConfig()
	cfg.Compression = []string{"snappy"}
	creator := supported.NewCreator(cfg)

	modifiers, err := creator.ModifierProtocols()
	require.NoError(t, err)
	require.Len(t, modifiers, 1)
	assert.Equal(t, supported.CompressionIdentifier, modifiers[0].Identifier)
	assert.Equal(t, []string{catchup.CompressionSnappy}, modifiers[0].Versions)
}

func testConfiguredCompressionsAreReturned(t *testing.T) {
	cfg := supported.NewDefaultConfig()
	cfg.Compression = []string{"GZIP", "snappy"}
	creator := supported.NewCreator(cfg)
	require.NoError(t, cfg.Validate())

	modifiers, err := creator.ModifierProtocols()
	require.NoError(t, err)
	require.Len(t, modifiers, 1)
	assert.Equal(t, []string{catchup.CompressionGzip, catchup.CompressionSnappy}, modifiers[0].Versions)

	compression, err := creator.Compression()
	require.NoError(t, err)
	assert.Equal(t, catchup.CompressionGzip, compression)
}

func testUnknownCompressionsAreRejected(t *testing.T) {
	cfg := supported.NewDefaultConfig()
	cfg.Compression = []string{"lz4"}
	creator := supported.NewCreator(cfg)

	_, err := creator.ModifierProtocols()
	require.ErrorIs(t, err, supported.ErrUnknownCompression)
	require.ErrorIs(t, cfg.Validate(), supported.ErrUnknownCompression)

	cfg = supported.NewDefaultConfig()
	cfg.RaftVersions = []int{0}
	require.ErrorIs(t, cfg.Validate(), supported.ErrInvalidVersion)
}
