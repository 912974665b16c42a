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

package protocol

import (
	"context"
	"fmt"

	"code.vegaprotocol.io/coresync/config"
	"code.vegaprotocol.io/coresync/core/catchup"
	"code.vegaprotocol.io/coresync/core/lifecycle"
	"code.vegaprotocol.io/coresync/core/protocol/supported"
	"code.vegaprotocol.io/coresync/core/snapshot"
	"code.vegaprotocol.io/coresync/core/statemachines"
	"code.vegaprotocol.io/coresync/core/storecopy"
	"code.vegaprotocol.io/coresync/logging"
	"code.vegaprotocol.io/coresync/paths"

	"github.com/hashicorp/go-multierror"
)

type allServices struct {
	ctx         context.Context
	log         *logging.Logger
	confWatcher *config.Watcher
	conf        config.Config
	paths       paths.Paths

	confListenerIDs []int

	localDatabase     *storecopy.LocalDatabase
	commitStateHelper storecopy.CommitStateHelper
	stateMachines     *statemachines.CoreStateMachines
	snapshotService   *statemachines.SnapshotService

	connPool      *catchup.ConnPool
	catchupClient *catchup.Client
	catchupServer *catchup.Server

	remoteStore *storecopy.RemoteStore
	storeCopy   *storecopy.StoreCopyProcess

	lifecycle  *lifecycle.Group
	downloader *snapshot.CoreStateDownloader
	downloads  *snapshot.Service
}

func newServices(
	ctx context.Context,
	log *logging.Logger,
	conf *config.Watcher,
	corePaths paths.Paths,
) (_ *allServices, err error) {
	svcs := &allServices{
		ctx:         ctx,
		log:         log,
		confWatcher: conf,
		conf:        conf.Get(),
		paths:       corePaths,
	}

	storeDir := svcs.conf.Store.Path
	if len(storeDir) == 0 {
		storeDir, err = corePaths.CreateStatePathFor(paths.StoreStateHome)
		if err != nil {
			return nil, err
		}
	}

	compression, err := supported.NewCreator(svcs.conf.Protocol).Compression()
	if err != nil {
		return nil, fmt.Errorf("couldn't pick the catch-up compression: %w", err)
	}

	svcs.localDatabase = storecopy.NewLocalDatabase(svcs.log, svcs.conf.Store, storeDir)
	svcs.stateMachines = statemachines.NewCoreStateMachines(svcs.log)
	svcs.snapshotService = statemachines.NewSnapshotService(svcs.log, svcs.stateMachines)

	svcs.connPool, err = catchup.NewConnPool(svcs.conf.Catchup.PoolSize)
	if err != nil {
		return nil, err
	}
	svcs.catchupClient = catchup.NewClient(svcs.log, svcs.conf.Catchup, svcs.connPool, compression)
	svcs.catchupServer = catchup.NewServer(svcs.log, svcs.conf.Catchup, svcs.localDatabase, svcs.snapshotService)

	svcs.remoteStore = storecopy.NewRemoteStore(svcs.log, svcs.catchupClient)
	svcs.storeCopy = storecopy.NewStoreCopyProcess(svcs.log, svcs.catchupClient, svcs.localDatabase)

	// peers are turned away while the store is being replaced.
	svcs.lifecycle = lifecycle.NewGroup(svcs.log)
	svcs.lifecycle.Add("catch-up server", lifecycle.Funcs{
		StartFn: svcs.catchupServer.Resume,
		StopFn:  svcs.catchupServer.Suspend,
	})

	svcs.downloader = snapshot.NewCoreStateDownloader(
		svcs.log,
		svcs.conf.Snapshot,
		svcs.localDatabase,
		svcs.lifecycle,
		svcs.remoteStore,
		svcs.catchupClient,
		svcs.storeCopy,
		svcs.snapshotService,
		svcs.stateMachines,
		svcs.commitStateHelper,
	)
	svcs.downloads = snapshot.NewService(svcs.log, svcs.conf.Snapshot, svcs.downloader, svcs.stateMachines)

	svcs.registerConfigWatchers()

	return svcs, nil
}

func (svcs *allServices) registerConfigWatchers() {
	svcs.confListenerIDs = svcs.confWatcher.OnConfigUpdateWithID(
		func(cfg config.Config) { svcs.localDatabase.ReloadConf(cfg.Store) },
		func(cfg config.Config) { svcs.catchupServer.ReloadConf(cfg.Catchup) },
		func(cfg config.Config) { svcs.downloader.ReloadConf(cfg.Snapshot) },
		func(cfg config.Config) { svcs.downloads.ReloadConf(cfg.Snapshot) },
	)
}

func (svcs *allServices) Stop() error {
	svcs.confWatcher.Unregister(svcs.confListenerIDs)
	svcs.downloads.Stop()

	var errs *multierror.Error
	if err := svcs.lifecycle.Stop(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := svcs.localDatabase.Stop(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := svcs.connPool.Close(); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}
