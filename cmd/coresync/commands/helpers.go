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
	"os"
	"os/signal"
	"syscall"

	"code.vegaprotocol.io/coresync/config"
	"code.vegaprotocol.io/coresync/core/protocol"
	vgfs "code.vegaprotocol.io/coresync/libs/fs"
	"code.vegaprotocol.io/coresync/logging"
	"code.vegaprotocol.io/coresync/paths"
)

var ErrNotInitialised = errors.New("coresync home is not initialised, run the init command first")

// loadNode reads the configuration of the home, and builds the node out of
// it. The configuration keeps being watched until ctx is done.
func loadNode(ctx context.Context, home string) (*protocol.Protocol, *config.Watcher, *logging.Logger, error) {
	corePaths := paths.New(home)
	configPath := paths.ConfigFilePath(corePaths)

	exists, err := vgfs.FileExists(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if !exists {
		return nil, nil, nil, ErrNotInitialised
	}

	cfg, err := config.Read(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	log := logging.NewLoggerFromConfig(cfg.Logging)

	watcher, err := config.NewWatcher(ctx, log, configPath)
	if err != nil {
		log.AtExit()
		return nil, nil, nil, fmt.Errorf("couldn't watch the configuration: %w", err)
	}
	watcher.OnConfigUpdate(func(cfg config.Config) {
		if lvl, err := logging.ParseLevel(cfg.Logging.Level); err == nil && lvl != log.GetLevel() {
			log.Info("updating root log level", logging.String("new", lvl.String()))
			log.SetLevel(lvl)
		}
	})

	node, err := protocol.New(ctx, watcher, log, corePaths)
	if err != nil {
		log.AtExit()
		return nil, nil, nil, err
	}
	return node, watcher, log, nil
}

// waitSig will wait for a sigterm or sigint interrupt.
func waitSig(ctx context.Context, log *logging.Logger) {
	gracefulStop := make(chan os.Signal, 1)
	signal.Notify(gracefulStop, syscall.SIGTERM)
	signal.Notify(gracefulStop, syscall.SIGINT)
	defer signal.Stop(gracefulStop)

	select {
	case sig := <-gracefulStop:
		log.Info("Caught signal", logging.String("name", fmt.Sprintf("%+v", sig)))
	case <-ctx.Done():
		// nothing to do
	}
}
