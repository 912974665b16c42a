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

package catchup

import (
	"context"
	"errors"
	"io"

	"code.vegaprotocol.io/coresync/core/types"
	"code.vegaprotocol.io/coresync/logging"
	"code.vegaprotocol.io/coresync/metrics"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrNoSnapshot      = errors.New("peer sent no core snapshot")
	ErrStreamTruncated = errors.New("stream ended before its status")
	ErrCopyIncomplete  = errors.New("store copy is incomplete")
)

// Client pulls state from peers running a catch-up Server.
type Client struct {
	Config

	log      *logging.Logger
	pool     *ConnPool
	callOpts []grpc.CallOption
}

// NewClient returns a client using conns from pool. When compression is
// set, requests are compressed with it and peers answer the same way.
func NewClient(log *logging.Logger, config Config, pool *ConnPool, compression string) *Client {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())

	var callOpts []grpc.CallOption
	if compression != "" {
		callOpts = append(callOpts, grpc.UseCompressor(compression))
	}

	return &Client{
		Config:   config,
		log:      log,
		pool:     pool,
		callOpts: callOpts,
	}
}

func (c *Client) invoke(ctx context.Context, addr, method string, req, resp message) error {
	conn, err := c.pool.Get(addr)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout.Get())
	defer cancel()

	err = conn.Invoke(ctx, method, req, resp, c.callOpts...)
	c.dropOnUnavailable(addr, err)
	return err
}

func (c *Client) stream(ctx context.Context, addr string, desc *grpc.StreamDesc, method string, req message) (grpc.ClientStream, error) {
	conn, err := c.pool.Get(addr)
	if err != nil {
		return nil, err
	}

	stream, err := conn.NewStream(ctx, desc, method, c.callOpts...)
	if err != nil {
		c.dropOnUnavailable(addr, err)
		return nil, err
	}
	if err := stream.SendMsg(req); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return stream, nil
}

func (c *Client) dropOnUnavailable(addr string, err error) {
	if status.Code(err) == codes.Unavailable {
		c.pool.Remove(addr)
	}
}

// GetStoreID returns the identity of the store served at addr.
func (c *Client) GetStoreID(ctx context.Context, addr string) (types.StoreID, error) {
	resp := &GetStoreIDResponse{}
	if err := c.invoke(ctx, addr, getStoreIDMethod, &GetStoreIDRequest{}, resp); err != nil {
		return types.StoreID{}, err
	}
	return resp.StoreID, nil
}

// GetCoreSnapshot fetches the snapshot of the state machines of the peer at
// addr.
func (c *Client) GetCoreSnapshot(ctx context.Context, addr string) (*types.CoreSnapshot, error) {
	resp := &GetCoreSnapshotResponse{}
	if err := c.invoke(ctx, addr, getCoreSnapshotMethod, &GetCoreSnapshotRequest{}, resp); err != nil {
		return nil, err
	}
	if resp.Snapshot == nil {
		return nil, ErrNoSnapshot
	}
	return resp.Snapshot, nil
}

// PullTransactions streams the transactions of the store at addr, starting
// at fromTxID, into fn. It returns the status the peer ended the stream
// with. An error from fn aborts the stream and is returned as is.
func (c *Client) PullTransactions(ctx context.Context, addr string, id types.StoreID, fromTxID uint64, fn func(*types.Transaction) error) (Status, error) {
	ctx, cancel := context.WithTimeout(ctx, c.StreamTimeout.Get())
	defer cancel()

	stream, err := c.stream(ctx, addr, pullTransactionsStreamDesc, pullTransactionsMethod,
		&PullTransactionsRequest{StoreID: id, FromTxID: fromTxID})
	if err != nil {
		return StatusUnknown, err
	}

	applied := 0
	defer func() { metrics.TransactionsAppliedAdd(applied) }()

	for {
		resp := &PullTransactionsResponse{}
		if err := stream.RecvMsg(resp); err != nil {
			if errors.Is(err, io.EOF) {
				return StatusUnknown, ErrStreamTruncated
			}
			return StatusUnknown, err
		}

		if resp.Tx == nil {
			c.log.Debug("transaction pull ended",
				logging.String("status", resp.Status.String()),
				logging.Uint64("last-tx-id", resp.LastTxID),
				logging.Int("applied", applied))
			if resp.Status != StatusSuccessEndOfStream {
				return resp.Status, &StatusError{Status: resp.Status, Message: resp.Message}
			}
			return resp.Status, nil
		}

		if err := fn(resp.Tx); err != nil {
			return StatusUnknown, err
		}
		applied++
	}
}

// CopyStore streams every raw entry of the store at addr into fn, and
// returns the identity of the copied store.
func (c *Client) CopyStore(ctx context.Context, addr string, fn func(key, value []byte) error) (types.StoreID, error) {
	ctx, cancel := context.WithTimeout(ctx, c.StreamTimeout.Get())
	defer cancel()

	stream, err := c.stream(ctx, addr, copyStoreStreamDesc, copyStoreMethod, &CopyStoreRequest{})
	if err != nil {
		return types.StoreID{}, err
	}

	var received uint64
	for {
		resp := &CopyStoreResponse{}
		if err := stream.RecvMsg(resp); err != nil {
			if errors.Is(err, io.EOF) {
				return types.StoreID{}, ErrStreamTruncated
			}
			return types.StoreID{}, err
		}

		for _, e := range resp.Entries {
			if err := fn(e.Key, e.Value); err != nil {
				return types.StoreID{}, err
			}
			received++
		}

		if resp.Status == StatusUnknown {
			continue
		}
		if resp.Status != StatusSuccessEndOfStream {
			return types.StoreID{}, &StatusError{Status: resp.Status, Message: resp.Message}
		}
		if resp.Count != received {
			return types.StoreID{}, ErrCopyIncomplete
		}
		return resp.StoreID, nil
	}
}
