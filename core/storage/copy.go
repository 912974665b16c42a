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

package storage

import (
	"os"

	"code.vegaprotocol.io/coresync/core/types"
	vgfs "code.vegaprotocol.io/coresync/libs/fs"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const copyBatchSize = 1024

// CopyWriter builds a store from the raw entries of another store, as
// produced by Store.ForEach on a peer.
type CopyWriter struct {
	dir   string
	db    *leveldb.DB
	batch *leveldb.Batch
}

func NewCopyWriter(dir string) (*CopyWriter, error) {
	exists, err := Exists(dir)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrStoreAlreadyExists
	}
	if err := vgfs.EnsureDir(dir); err != nil {
		return nil, err
	}

	db, err := leveldb.OpenFile(dir, options(&opt.Options{ErrorIfExist: true}))
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't create store copy at %s", dir)
	}

	return &CopyWriter{
		dir:   dir,
		db:    db,
		batch: new(leveldb.Batch),
	}, nil
}

func (w *CopyWriter) Put(key, value []byte) error {
	w.batch.Put(key, value)
	if w.batch.Len() >= copyBatchSize {
		return w.flush()
	}
	return nil
}

func (w *CopyWriter) flush() error {
	if w.batch.Len() == 0 {
		return nil
	}
	if err := w.db.Write(w.batch, nil); err != nil {
		return errors.Wrap(err, "couldn't write copied entries")
	}
	w.batch.Reset()
	return nil
}

// Finish persists the copy and returns the identity and position it holds.
func (w *CopyWriter) Finish() (types.StoreID, types.CommitPosition, error) {
	if err := w.flush(); err != nil {
		return types.StoreID{}, types.CommitPosition{}, err
	}
	if err := w.db.CompactRange(util.Range{}); err != nil {
		return types.StoreID{}, types.CommitPosition{}, errors.Wrap(err, "couldn't compact store copy")
	}
	if err := w.db.Close(); err != nil {
		return types.StoreID{}, types.CommitPosition{}, errors.Wrap(err, "couldn't close store copy")
	}
	return ReadMetadata(w.dir)
}

// Abort closes the copy and removes everything written so far.
func (w *CopyWriter) Abort() error {
	_ = w.db.Close()
	return errors.Wrap(os.RemoveAll(w.dir), "couldn't remove store copy")
}
