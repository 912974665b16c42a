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
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"code.vegaprotocol.io/coresync/core/types"
	"code.vegaprotocol.io/coresync/logging"
	"code.vegaprotocol.io/coresync/metrics"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// Store is the read side of a local store, as served to peers.
type Store interface {
	StoreID() types.StoreID
	Position() types.CommitPosition
	OldestTxID() (uint64, bool, error)
	TransactionsFrom(fromTxID uint64, fn func(*types.Transaction) error) error
	ForEach(fn func(key, value []byte) error) error
}

// StoreSource gives access to the local store while it is running.
type StoreSource interface {
	// Acquire returns the running store, and a func to call once done with
	// it. The store can't be stopped until every acquisition is released.
	Acquire() (Store, func(), error)
}

// ErrServingSuspended is returned to peers while the local store is being
// replaced.
var ErrServingSuspended = errors.New("serving suspended")

type SnapshotSource interface {
	Snapshot() (*types.CoreSnapshot, error)
}

// Server exposes the local store and state machines to peers catching up.
type Server struct {
	Config

	log       *logging.Logger
	srv       *grpc.Server
	store     StoreSource
	snapshots SnapshotSource
	suspended atomic.Bool
}

func NewServer(log *logging.Logger, config Config, store StoreSource, snapshots SnapshotSource) *Server {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())

	return &Server{
		Config:    config,
		log:       log,
		store:     store,
		snapshots: snapshots,
	}
}

func (s *Server) getTCPListener() (net.Listener, error) {
	ip := s.IP
	port := strconv.Itoa(s.Port)

	s.log.Info("Starting catch-up server", logging.String("addr", ip), logging.String("port", port))

	return net.Listen("tcp", net.JoinHostPort(ip, port))
}

// Start serves catch-up requests until ctx is cancelled. Uses the default
// TCP listener if none is provided.
func (s *Server) Start(ctx context.Context, lis net.Listener) error {
	if lis == nil {
		tcpLis, err := s.getTCPListener()
		if err != nil {
			return err
		}
		lis = tcpLis
	}

	s.srv = grpc.NewServer(
		grpc.ForceServerCodec(codec{}),
		grpc.UnaryInterceptor(unaryInterceptor(s.log)),
		grpc.StreamInterceptor(streamInterceptor(s.log)),
	)
	s.srv.RegisterService(&serviceDesc, &service{
		log:       s.log,
		chunkSize: s.CopyChunkSize,
		store:     s.store,
		snapshots: s.snapshots,
		suspended: &s.suspended,
	})

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		<-ctx.Done()
		s.stop()
		return ctx.Err()
	})

	eg.Go(func() error {
		return s.srv.Serve(lis)
	})

	return eg.Wait()
}

func (s *Server) stop() {
	if s.srv == nil {
		return
	}

	done := make(chan struct{})
	go func() {
		s.log.Info("Gracefully stopping catch-up server")
		s.srv.GracefulStop()
		done <- struct{}{}
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		s.log.Info("Force stopping catch-up server")
		s.srv.Stop()
	}
}

// ReloadConf updates the internal configuration of the server.
func (s *Server) ReloadConf(cfg Config) {
	s.log.Info("reloading configuration")
	if s.log.GetLevel() != cfg.Level.Get() {
		s.log.Info("updating log level",
			logging.String("old", s.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		s.log.SetLevel(cfg.Level.Get())
	}
}

// Suspend makes the server turn peers away until Resume is called.
func (s *Server) Suspend() error {
	if !s.suspended.Swap(true) {
		s.log.Info("catch-up serving suspended")
	}
	return nil
}

func (s *Server) Resume() error {
	if s.suspended.Swap(false) {
		s.log.Info("catch-up serving resumed")
	}
	return nil
}

func unaryInterceptor(log *logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		defer metrics.StartCatchupRequest(info.FullMethod)()
		if p, ok := peer.FromContext(ctx); ok && log.GetLevel() == logging.DebugLevel {
			log.Debug("catch-up request", logging.String("method", info.FullMethod), logging.String("peer", p.Addr.String()))
		}
		return handler(ctx, req)
	}
}

func streamInterceptor(log *logging.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		defer metrics.StartCatchupRequest(info.FullMethod)()
		if p, ok := peer.FromContext(ss.Context()); ok && log.GetLevel() == logging.DebugLevel {
			log.Debug("catch-up stream", logging.String("method", info.FullMethod), logging.String("peer", p.Addr.String()))
		}
		return handler(srv, ss)
	}
}

type service struct {
	log       *logging.Logger
	chunkSize int
	store     StoreSource
	snapshots SnapshotSource
	suspended *atomic.Bool
}

func (s *service) acquire() (Store, func(), error) {
	if s.suspended.Load() {
		return nil, nil, ErrServingSuspended
	}
	return s.store.Acquire()
}

func (s *service) GetStoreID(_ context.Context, _ *GetStoreIDRequest) (*GetStoreIDResponse, error) {
	store, release, err := s.acquire()
	if err != nil {
		return nil, status.Error(codes.Unavailable, err.Error())
	}
	defer release()

	return &GetStoreIDResponse{StoreID: store.StoreID()}, nil
}

func (s *service) GetCoreSnapshot(_ context.Context, _ *GetCoreSnapshotRequest) (*GetCoreSnapshotResponse, error) {
	if s.suspended.Load() {
		return nil, status.Error(codes.Unavailable, ErrServingSuspended.Error())
	}
	snap, err := s.snapshots.Snapshot()
	if err != nil {
		s.log.Error("couldn't take core snapshot", logging.Error(err))
		return nil, status.Error(codes.Unavailable, err.Error())
	}
	return &GetCoreSnapshotResponse{Snapshot: snap}, nil
}

func (s *service) PullTransactions(req *PullTransactionsRequest, stream grpc.ServerStream) error {
	end := func(st Status, msg string, last uint64) error {
		return stream.SendMsg(&PullTransactionsResponse{Status: st, Message: msg, LastTxID: last})
	}

	if req.StoreID.IsZero() || req.FromTxID == 0 {
		return end(StatusInvalidRequest, "store id and first transaction are required", 0)
	}

	store, release, err := s.acquire()
	if err != nil {
		return end(StatusStoreUnavailable, err.Error(), 0)
	}
	defer release()

	if !store.StoreID().Equal(req.StoreID) {
		return end(StatusStoreIDMismatch, "", 0)
	}

	last := store.Position().TxID
	if req.FromTxID > last+1 {
		return end(StatusInvalidRequest, "requested transactions are ahead of this store", last)
	}
	if req.FromTxID == last+1 {
		return end(StatusSuccessEndOfStream, "", last)
	}

	oldest, ok, err := store.OldestTxID()
	if err != nil {
		return end(StatusGeneralError, err.Error(), last)
	}
	if !ok || oldest > req.FromTxID {
		s.log.Info("requested transactions were pruned",
			logging.Uint64("from-tx-id", req.FromTxID),
			logging.Uint64("oldest-tx-id", oldest))
		return end(StatusTransactionPruned, "", last)
	}

	sent := 0
	err = store.TransactionsFrom(req.FromTxID, func(tx *types.Transaction) error {
		if err := stream.SendMsg(&PullTransactionsResponse{Tx: tx}); err != nil {
			return err
		}
		last = tx.ID
		sent++
		return nil
	})
	metrics.TransactionsSentAdd(sent)
	if err != nil {
		if stream.Context().Err() != nil {
			return err
		}
		return end(StatusGeneralError, err.Error(), last)
	}

	return end(StatusSuccessEndOfStream, "", last)
}

func (s *service) CopyStore(_ *CopyStoreRequest, stream grpc.ServerStream) error {
	store, release, err := s.acquire()
	if err != nil {
		return stream.SendMsg(&CopyStoreResponse{Status: StatusStoreUnavailable, Message: err.Error()})
	}
	defer release()

	var (
		chunk = make([]Entry, 0, s.chunkSize)
		count uint64
	)
	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		if err := stream.SendMsg(&CopyStoreResponse{Entries: chunk}); err != nil {
			return err
		}
		chunk = chunk[:0]
		return nil
	}

	err = store.ForEach(func(key, value []byte) error {
		chunk = append(chunk, Entry{
			Key:   append([]byte(nil), key...),
			Value: append([]byte(nil), value...),
		})
		count++
		if len(chunk) >= s.chunkSize {
			return flush()
		}
		return nil
	})
	if err == nil {
		err = flush()
	}
	if err != nil {
		if stream.Context().Err() != nil {
			return err
		}
		s.log.Error("couldn't copy store", logging.Error(err))
		return stream.SendMsg(&CopyStoreResponse{Status: StatusGeneralError, Message: err.Error()})
	}

	s.log.Info("store copied to peer", logging.Uint64("entries", count))
	return stream.SendMsg(&CopyStoreResponse{
		Status:  StatusSuccessEndOfStream,
		StoreID: store.StoreID(),
		Count:   count,
	})
}
