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
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"code.vegaprotocol.io/coresync/config"
	"code.vegaprotocol.io/coresync/core/storage"
	"code.vegaprotocol.io/coresync/core/types"
	vgfs "code.vegaprotocol.io/coresync/libs/fs"
	"code.vegaprotocol.io/coresync/logging"
	"code.vegaprotocol.io/coresync/paths"

	"github.com/jessevdk/go-flags"
)

type InitCmd struct {
	config.HomeFlag

	Force bool     `description:"Erase the existing configuration"                    long:"force" short:"f"`
	Peers []string `description:"Catch-up addresses of the peers to download from"   long:"peer"`
}

var initCmd InitCmd

func (opts *InitCmd) Execute(_ []string) error {
	logger := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer logger.AtExit()

	corePaths := paths.New(opts.Home)
	configHome, err := corePaths.CreateConfigPathFor(paths.CoreSyncConfigHome)
	if err != nil {
		return err
	}
	configPath := filepath.Join(configHome, paths.ConfigFile)

	exists, err := vgfs.FileExists(configPath)
	if err != nil {
		return err
	}
	if exists && !opts.Force {
		return fmt.Errorf("configuration already exists at %s, use --force to erase it", configPath)
	}

	cfg := config.NewDefaultConfig()
	cfg.Peers = opts.Peers
	if err := config.Save(configPath, &cfg); err != nil {
		return err
	}
	logger.Info("configuration written", logging.String("path", configPath))

	storeDir, err := corePaths.CreateStatePathFor(paths.StoreStateHome)
	if err != nil {
		return err
	}
	store, err := storage.Create(storeDir, types.NewStoreID(time.Now()))
	if errors.Is(err, storage.ErrStoreAlreadyExists) {
		logger.Info("keeping existing store", logging.String("path", storeDir))
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("store created", logging.String("path", storeDir), logging.StoreID(store.StoreID()))
	return store.Close()
}

func Init(ctx context.Context, parser *flags.Parser) error {
	initCmd = InitCmd{}

	var (
		short = "Initialise a coresync home"
		long  = "Generate the default configuration and an empty store with a fresh identity"
	)
	_, err := parser.AddCommand("init", short, long, &initCmd)
	return err
}
