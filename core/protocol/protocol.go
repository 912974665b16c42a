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
	"errors"
	"net"

	"code.vegaprotocol.io/coresync/config"
	"code.vegaprotocol.io/coresync/core/catchup"
	"code.vegaprotocol.io/coresync/core/snapshot"
	"code.vegaprotocol.io/coresync/logging"
	"code.vegaprotocol.io/coresync/paths"
)

var ErrNoPeers = errors.New("no peer to download the core state from")

// Protocol is a node: its local store, its core state machines, and the
// services keeping them in sync with the rest of the cluster.
type Protocol struct {
	log *logging.Logger

	services *allServices
}

func New(
	ctx context.Context,
	confWatcher *config.Watcher,
	log *logging.Logger,
	corePaths paths.Paths,
) (p *Protocol, err error) {
	defer func() {
		if err != nil {
			log.Error("unable to start protocol", logging.Error(err))
		}
	}()

	svcs, err := newServices(ctx, log, confWatcher, corePaths)
	if err != nil {
		return nil, err
	}

	return &Protocol{
		log:      log,
		services: svcs,
	}, nil
}

// Start starts the local store, wires the state machines to it, and starts
// the components stopped during downloads.
func (n *Protocol) Start() error {
	if err := n.services.localDatabase.Start(); err != nil {
		return err
	}
	cp, err := n.services.localDatabase.CommitProcess()
	if err != nil {
		return err
	}
	n.services.stateMachines.InstallCommitProcess(cp)
	return n.services.lifecycle.Start()
}

// Serve exposes the local store to peers until ctx is done.
func (n *Protocol) Serve(ctx context.Context, lis net.Listener) error {
	return n.services.catchupServer.Start(ctx, lis)
}

// ScheduleDownload starts a download of the core state from the given
// peers, trying the next one when an attempt fails.
func (n *Protocol) ScheduleDownload(ctx context.Context, peers []string) (*snapshot.Job, error) {
	if len(peers) == 0 {
		return nil, ErrNoPeers
	}
	return n.services.downloads.ScheduleDownload(ctx, catchup.NewStaticAddressProvider(peers...)), nil
}

func (n *Protocol) StoreDir() string {
	return n.services.localDatabase.StoreDir()
}

// Stop will stop all services of the protocol.
func (n *Protocol) Stop() error {
	n.log.Info("Stopping protocol services")
	return n.services.Stop()
}
