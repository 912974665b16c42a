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
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"

	"code.vegaprotocol.io/coresync/core/types"
	vgfs "code.vegaprotocol.io/coresync/libs/fs"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var (
	ErrStoreNotFound      = errors.New("store not found")
	ErrStoreAlreadyExists = errors.New("store already exists")
	ErrKeyNotFound        = errors.New("key not found")
	ErrTxOutOfOrder       = errors.New("transaction out of order")
	ErrMissingStoreID     = errors.New("store has no identity")
)

var (
	keyStoreID  = []byte("m/id")
	keyPosition = []byte("m/pos")
	prefixData  = []byte("d/")
	prefixTx    = []byte("t/")
)

// journalPattern matches the write-ahead journal files of the engine. They
// survive a close and are replayed by the next open.
const journalPattern = "*.log"

// Store is a durable key/value store which keeps the history of the
// transactions committed to it, so peers can catch up from it.
type Store struct {
	dir string
	db  *leveldb.DB

	mu  sync.RWMutex
	id  types.StoreID
	pos types.CommitPosition
}

// Exists reports whether a store lives in dir.
func Exists(dir string) (bool, error) {
	exists, err := vgfs.FileExists(filepath.Join(dir, "CURRENT"))
	if err != nil {
		return false, errors.Wrapf(err, "couldn't inspect store directory %s", dir)
	}
	return exists, nil
}

// HasTxLogs reports whether non empty journal files were left in dir by a
// previous run. Opening the store replays them. A store compacted before
// being closed leaves none.
func HasTxLogs(dir string) (bool, error) {
	files, err := vgfs.FilesMatching(dir, journalPattern)
	if err != nil {
		return false, errors.Wrapf(err, "couldn't list journal files in %s", dir)
	}
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return false, errors.Wrapf(err, "couldn't inspect journal file %s", f)
		}
		if info.Size() > 0 {
			return true, nil
		}
	}
	return false, nil
}

// Create initialises an empty store holding the given identity.
func Create(dir string, id types.StoreID) (*Store, error) {
	if id.IsZero() {
		return nil, ErrMissingStoreID
	}
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
		return nil, errors.Wrap(err, "couldn't create store")
	}

	rawID, _ := id.Marshal()
	rawPos, _ := types.InitialPosition().Marshal()

	batch := new(leveldb.Batch)
	batch.Put(keyStoreID, rawID)
	batch.Put(keyPosition, rawPos)
	if err := db.Write(batch, &opt.WriteOptions{Sync: true}); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "couldn't write store metadata")
	}

	return &Store{
		dir: dir,
		db:  db,
		id:  id,
		pos: types.InitialPosition(),
	}, nil
}

// Open opens an existing store. Journals left by a previous run are
// replayed.
func Open(dir string) (*Store, error) {
	return open(dir, false)
}

func open(dir string, readOnly bool) (*Store, error) {
	exists, err := Exists(dir)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrStoreNotFound
	}

	db, err := leveldb.OpenFile(dir, options(&opt.Options{
		ErrorIfMissing: true,
		ReadOnly:       readOnly,
	}))
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't open store at %s", dir)
	}

	s := &Store{dir: dir, db: db}
	if err := s.loadMetadata(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// ReadMetadata returns the identity and position of the store in dir
// without replaying its journals.
func ReadMetadata(dir string) (types.StoreID, types.CommitPosition, error) {
	s, err := open(dir, true)
	if err != nil {
		return types.StoreID{}, types.CommitPosition{}, err
	}
	defer s.Close()
	return s.id, s.pos, nil
}

func options(o *opt.Options) *opt.Options {
	o.Filter = filter.NewBloomFilter(10)
	return o
}

func (s *Store) loadMetadata() error {
	rawID, err := s.db.Get(keyStoreID, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return ErrMissingStoreID
		}
		return errors.Wrap(err, "couldn't read store identity")
	}
	if err := s.id.Unmarshal(rawID); err != nil {
		return errors.Wrap(err, "couldn't decode store identity")
	}

	rawPos, err := s.db.Get(keyPosition, nil)
	if err != nil {
		return errors.Wrap(err, "couldn't read commit position")
	}
	if err := s.pos.Unmarshal(rawPos); err != nil {
		return errors.Wrap(err, "couldn't decode commit position")
	}
	return nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) StoreID() types.StoreID {
	return s.id
}

// Position returns the position of the last committed transaction.
func (s *Store) Position() types.CommitPosition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pos
}

// Apply commits a transaction pulled from a peer. Its id must directly
// follow the current position.
func (s *Store) Apply(tx *types.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(tx)
}

// Commit commits a new transaction replicated at logIndex.
func (s *Store) Commit(logIndex int64, ops []types.Op) (types.CommitPosition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &types.Transaction{
		ID:       s.pos.TxID + 1,
		LogIndex: logIndex,
		Ops:      ops,
	}
	if err := s.apply(tx); err != nil {
		return types.CommitPosition{}, err
	}
	return s.pos, nil
}

func (s *Store) apply(tx *types.Transaction) error {
	if tx.ID != s.pos.TxID+1 {
		return errors.Wrapf(ErrTxOutOfOrder, "expected transaction %d, got %d", s.pos.TxID+1, tx.ID)
	}
	if tx.LogIndex < s.pos.LogIndex {
		return errors.Wrapf(ErrTxOutOfOrder, "transaction %d is at log index %d, behind %d", tx.ID, tx.LogIndex, s.pos.LogIndex)
	}

	rawTx, err := tx.Marshal()
	if err != nil {
		return errors.Wrap(err, "couldn't encode transaction")
	}
	pos := types.CommitPosition{TxID: tx.ID, LogIndex: tx.LogIndex}
	rawPos, _ := pos.Marshal()

	batch := new(leveldb.Batch)
	for _, op := range tx.Ops {
		if op.Delete {
			batch.Delete(dataKey(op.Key))
		} else {
			batch.Put(dataKey(op.Key), op.Value)
		}
	}
	batch.Put(txKey(tx.ID), rawTx)
	batch.Put(keyPosition, rawPos)

	if err := s.db.Write(batch, &opt.WriteOptions{Sync: true}); err != nil {
		return errors.Wrapf(err, "couldn't commit transaction %d", tx.ID)
	}
	s.pos = pos
	return nil
}

func (s *Store) Get(key []byte) ([]byte, error) {
	value, err := s.db.Get(dataKey(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, errors.Wrap(err, "couldn't read key")
	}
	return value, nil
}

// OldestTxID returns the id of the oldest transaction still held in the
// history. ok is false when the history is empty.
func (s *Store) OldestTxID() (id uint64, ok bool, err error) {
	iter := s.db.NewIterator(util.BytesPrefix(prefixTx), nil)
	defer iter.Release()

	if iter.First() {
		id = txIDFromKey(iter.Key())
		ok = true
	}
	return id, ok, errors.Wrap(iter.Error(), "couldn't iterate transactions")
}

// TransactionsFrom calls fn, in order, for each transaction of the history
// whose id is at least fromTxID. Iteration stops at the first error.
func (s *Store) TransactionsFrom(fromTxID uint64, fn func(*types.Transaction) error) error {
	iter := s.db.NewIterator(&util.Range{
		Start: txKey(fromTxID),
		Limit: util.BytesPrefix(prefixTx).Limit,
	}, nil)
	defer iter.Release()

	for iter.Next() {
		tx := &types.Transaction{}
		if err := tx.Unmarshal(iter.Value()); err != nil {
			return errors.Wrapf(err, "couldn't decode transaction %d", txIDFromKey(iter.Key()))
		}
		if err := fn(tx); err != nil {
			return err
		}
	}
	return errors.Wrap(iter.Error(), "couldn't iterate transactions")
}

// Prune removes from the history every transaction but the keep most
// recent ones, and returns how many were removed.
func (s *Store) Prune(keep uint64) (int, error) {
	s.mu.RLock()
	last := s.pos.TxID
	s.mu.RUnlock()

	if last <= keep {
		return 0, nil
	}
	limit := last - keep + 1

	iter := s.db.NewIterator(&util.Range{Start: txKey(0), Limit: txKey(limit)}, nil)
	batch := new(leveldb.Batch)
	for iter.Next() {
		batch.Delete(append([]byte(nil), iter.Key()...))
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return 0, errors.Wrap(err, "couldn't iterate transactions")
	}

	if batch.Len() == 0 {
		return 0, nil
	}
	if err := s.db.Write(batch, &opt.WriteOptions{Sync: true}); err != nil {
		return 0, errors.Wrap(err, "couldn't prune transactions")
	}
	return batch.Len(), nil
}

// ForEach calls fn with every raw entry of the store, as seen by a
// consistent snapshot taken when the call starts.
func (s *Store) ForEach(fn func(key, value []byte) error) error {
	snap, err := s.db.GetSnapshot()
	if err != nil {
		return errors.Wrap(err, "couldn't snapshot store")
	}
	defer snap.Release()

	iter := snap.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		if err := fn(iter.Key(), iter.Value()); err != nil {
			return err
		}
	}
	return errors.Wrap(iter.Error(), "couldn't iterate store")
}

func (s *Store) Compact() error {
	return errors.Wrap(s.db.CompactRange(util.Range{}), "couldn't compact store")
}

func (s *Store) Close() error {
	return errors.Wrap(s.db.Close(), "couldn't close store")
}

func dataKey(key []byte) []byte {
	return append(append([]byte(nil), prefixData...), key...)
}

func txKey(id uint64) []byte {
	k := make([]byte, len(prefixTx)+8)
	copy(k, prefixTx)
	binary.BigEndian.PutUint64(k[len(prefixTx):], id)
	return k
}

func txIDFromKey(k []byte) uint64 {
	return binary.BigEndian.Uint64(k[len(prefixTx):])
}
