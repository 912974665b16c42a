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
	"os"

	"code.vegaprotocol.io/coresync/core/catchup"
	"code.vegaprotocol.io/coresync/core/storage"
	"code.vegaprotocol.io/coresync/core/types"
	vgfs "code.vegaprotocol.io/coresync/libs/fs"
	"code.vegaprotocol.io/coresync/logging"
	"code.vegaprotocol.io/coresync/metrics"
)

var ErrUnexpectedStoreID = errors.New("copied store doesn't hold the expected identity")

// StoreCopyProcess replaces the local store with a full copy of the store
// of a peer.
type StoreCopyProcess struct {
	log    *logging.Logger
	client CatchupClient
	db     *LocalDatabase
}

func NewStoreCopyProcess(log *logging.Logger, client CatchupClient, db *LocalDatabase) *StoreCopyProcess {
	return &StoreCopyProcess{
		log:    log.Named("copy"),
		client: client,
		db:     db,
	}
}

// ReplaceWithStoreFrom copies the store of the primary next to the local
// one, and swaps them once the copy is complete and holds the expected
// identity. The local store must not be running.
func (p *StoreCopyProcess) ReplaceWithStoreFrom(ctx context.Context, provider catchup.AddressProvider, expected types.StoreID) (err error) {
	defer func() {
		if err != nil {
			metrics.StoreCopyInc("failure")
		} else {
			metrics.StoreCopyInc("success")
		}
	}()

	if p.db.IsRunning() {
		return ErrStoreRunning
	}

	addr, err := provider.Primary(ctx)
	if err != nil {
		return fmt.Errorf("couldn't resolve primary: %w", err)
	}

	dir := p.db.StoreDir()
	tmp := dir + ".copy"
	if err := os.RemoveAll(tmp); err != nil {
		return err
	}

	p.log.Info("copying store from peer", logging.String("peer", addr), logging.StoreID(expected))
	w, err := storage.NewCopyWriter(tmp)
	if err != nil {
		return err
	}

	sentID, err := p.client.CopyStore(ctx, addr, w.Put)
	if err != nil {
		_ = w.Abort()
		return fmt.Errorf("couldn't copy store from %s: %w", addr, err)
	}

	id, pos, err := w.Finish()
	if err != nil {
		_ = os.RemoveAll(tmp)
		return err
	}
	if !id.Equal(sentID) || !id.Equal(expected) {
		_ = os.RemoveAll(tmp)
		return fmt.Errorf("%w: expected %s, got %s", ErrUnexpectedStoreID, expected, id)
	}

	if err := swapDirs(tmp, dir); err != nil {
		return err
	}

	p.log.Info("store replaced with copy from peer",
		logging.String("peer", addr),
		logging.String("position", pos.String()))
	return nil
}

// swapDirs moves src in place of dst, removing whatever dst held.
func swapDirs(src, dst string) error {
	old := dst + ".old"
	if err := os.RemoveAll(old); err != nil {
		return err
	}

	exists, err := vgfs.PathExists(dst)
	if err != nil {
		return err
	}
	if exists {
		if err := os.Rename(dst, old); err != nil {
			return err
		}
	}
	if err := os.Rename(src, dst); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
