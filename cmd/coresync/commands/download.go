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

	"code.vegaprotocol.io/coresync/config"
	vgclose "code.vegaprotocol.io/coresync/libs/close"
	"code.vegaprotocol.io/coresync/logging"

	"github.com/jessevdk/go-flags"
)

type DownloadCmd struct {
	config.HomeFlag

	Peers []string `description:"Catch-up addresses of the peers to download from, instead of the configured ones" long:"peer"`
}

var downloadCmd DownloadCmd

func (opts *DownloadCmd) Execute(_ []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	node, watcher, log, err := loadNode(ctx, opts.Home)
	if err != nil {
		return err
	}
	defer log.AtExit()

	closer := vgclose.NewCloser()
	defer closer.CloseAll(log)
	closer.Add("protocol", node.Stop)

	if err := node.Start(); err != nil {
		return err
	}

	peers := opts.Peers
	if len(peers) == 0 {
		peers = watcher.Get().Peers
	}
	job, err := node.ScheduleDownload(ctx, peers)
	if err != nil {
		return err
	}

	go func() {
		waitSig(ctx, log)
		cancel()
	}()

	if err := job.Wait(ctx); err != nil {
		log.Error("core state download failed", logging.Error(err))
		return err
	}
	log.Info("core state downloaded", logging.String("store", node.StoreDir()))
	return nil
}

func Download(ctx context.Context, parser *flags.Parser) error {
	downloadCmd = DownloadCmd{}

	var (
		short = "Download the core state from a peer"
		long  = "Bring the local store and core state machines in line with the ones of a peer, usually the leader"
	)
	_, err := parser.AddCommand("download", short, long, &downloadCmd)
	return err
}
