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

package storecopy

import (
	"context"
	"errors"
	"fmt"

	"code.vegaprotocol.io/coresync/core/catchup"
	"code.vegaprotocol.io/coresync/core/storage"
	"code.vegaprotocol.io/coresync/core/types"
	"code.vegaprotocol.io/coresync/logging"
)

var ErrStoreIDMismatch = errors.New("store identity doesn't match")

// CatchupClient pulls state from a peer.
type CatchupClient interface {
	GetStoreID(ctx context.Context, addr string) (types.StoreID, error)
	PullTransactions(ctx context.Context, addr string, id types.StoreID, fromTxID uint64, fn func(*types.Transaction) error) (catchup.Status, error)
	CopyStore(ctx context.Context, addr string, fn func(key, value []byte) error) (types.StoreID, error)
}

// RemoteStore brings a stopped local store up to date with a peer.
type RemoteStore struct {
	log    *logging.Logger
	client CatchupClient
}

func NewRemoteStore(log *logging.Logger, client CatchupClient) *RemoteStore {
	return &RemoteStore{
		log:    log.Named("remote"),
		client: client,
	}
}

func (r *RemoteStore) GetStoreID(ctx context.Context, addr string) (types.StoreID, error) {
	return r.client.GetStoreID(ctx, addr)
}

// TryCatchingUp pulls from addr every transaction missing from the store in
// storeDir, which must hold the identity expected. Unless keepTxLogs is set,
// the store is compacted once caught up so no journal is left behind.
func (r *RemoteStore) TryCatchingUp(ctx context.Context, addr string, expected types.StoreID, storeDir string, keepTxLogs bool) (types.CatchupResult, error) {
	store, err := storage.Open(storeDir)
	if err != nil {
		return types.CatchupFailed, err
	}
	defer func() {
		if err := store.Close(); err != nil {
			r.log.Warn("couldn't close store after catch-up", logging.Error(err))
		}
	}()

	if !store.StoreID().Equal(expected) {
		return types.CatchupFailed, fmt.Errorf("%w: expected %s, found %s", ErrStoreIDMismatch, expected, store.StoreID())
	}

	from := store.Position().TxID + 1
	r.log.Info("catching up with peer",
		logging.String("peer", addr),
		logging.Uint64("from-tx-id", from))

	status, err := r.client.PullTransactions(ctx, addr, expected, from, store.Apply)
	switch status {
	case catchup.StatusSuccessEndOfStream:
		r.log.Info("caught up with peer",
			logging.String("peer", addr),
			logging.String("position", store.Position().String()))
	case catchup.StatusTransactionPruned:
		return types.CatchupTransactionPruned, nil
	default:
		if err == nil {
			err = &catchup.StatusError{Status: status}
		}
		return types.CatchupFailed, err
	}

	if !keepTxLogs {
		if err := store.Compact(); err != nil {
			return types.CatchupFailed, err
		}
	}
	return types.CatchupSuccessEndOfStream, nil
}
