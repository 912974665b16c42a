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
	"net"
	"net/http"
	"strconv"
	"time"

	"code.vegaprotocol.io/coresync/config"
	vgclose "code.vegaprotocol.io/coresync/libs/close"
	"code.vegaprotocol.io/coresync/logging"
	"code.vegaprotocol.io/coresync/metrics"

	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"
)

type ServeCmd struct {
	config.HomeFlag

	DownloadOnStart bool `description:"Download the core state from the configured peers before serving" long:"download-on-start"`
}

var serveCmd ServeCmd

func (opts *ServeCmd) Execute(_ []string) error {
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

	cfg := watcher.Get()
	if opts.DownloadOnStart {
		job, err := node.ScheduleDownload(ctx, cfg.Peers)
		if err != nil {
			return err
		}
		if err := job.Wait(ctx); err != nil {
			return err
		}
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return node.Serve(ctx, nil)
	})

	handler, err := metrics.Handler(cfg.Metrics)
	if err != nil {
		return err
	}
	if handler != nil {
		srv := &http.Server{
			Addr:              net.JoinHostPort(cfg.Metrics.IP, strconv.Itoa(cfg.Metrics.Port)),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		eg.Go(func() error {
			log.Info("Starting metrics server", logging.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		eg.Go(func() error {
			<-ctx.Done()
			return srv.Close()
		})
	}

	eg.Go(func() error {
		waitSig(ctx, log)
		cancel()
		return nil
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("coresync stopped with an error", logging.Error(err))
		return err
	}
	return nil
}

func Serve(ctx context.Context, parser *flags.Parser) error {
	serveCmd = ServeCmd{}

	var (
		short = "Serve the local store to peers"
		long  = "Start the local store and expose it to peers catching up, along with the metrics"
	)
	_, err := parser.AddCommand("serve", short, long, &serveCmd)
	return err
}
