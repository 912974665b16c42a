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

package commands

import (
	"context"
	"testing"

	"code.vegaprotocol.io/coresync/config"
	"code.vegaprotocol.io/coresync/core/storage"
	"code.vegaprotocol.io/coresync/paths"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Run("Initialising a home writes the configuration and creates a store", testInitialisingHome)
	t.Run("Initialising twice requires forcing it", testInitialisingTwiceRequiresForce)
}

func testInitialisingHome(t *testing.T) {
	home := t.TempDir()
	cmd := &InitCmd{
		HomeFlag: config.HomeFlag{Home: home},
		Peers:    []string{"10.0.0.1:6000"},
	}
	require.NoError(t, cmd.Execute(nil))

	corePaths := paths.New(home)
	cfg, err := config.Read(paths.ConfigFilePath(corePaths))
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1:6000"}, cfg.Peers)

	id, pos, err := storage.ReadMetadata(corePaths.StatePathFor(paths.StoreStateHome))
	require.NoError(t, err)
	assert.False(t, id.IsZero())
	assert.Zero(t, pos.TxID)
}

func testInitialisingTwiceRequiresForce(t *testing.T) {
	home := t.TempDir()
	cmd := &InitCmd{HomeFlag: config.HomeFlag{Home: home}}
	require.NoError(t, cmd.Execute(nil))

	storeDir := paths.New(home).StatePathFor(paths.StoreStateHome)
	before, _, err := storage.ReadMetadata(storeDir)
	require.NoError(t, err)

	require.Error(t, cmd.Execute(nil))

	cmd.Force = true
	require.NoError(t, cmd.Execute(nil))

	// the store is kept.
	after, _, err := storage.ReadMetadata(storeDir)
	require.NoError(t, err)
	assert.True(t, before.Equal(after))
}

func TestLoadingUninitialisedHomeFails(t *testing.T) {
	_, _, _, err := loadNode(context.Background(), t.TempDir())
	require.ErrorIs(t, err, ErrNotInitialised)
}
