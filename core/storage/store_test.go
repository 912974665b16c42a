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

package storage_test

import (
	"path/filepath"
	"testing"
	"time"

	"code.vegaprotocol.io/coresync/core/storage"
	"code.vegaprotocol.io/coresync/core/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	t.Run("A created store can be reopened with its identity", testCreatedStoreCanBeReopened)
	t.Run("Creating a store over an existing one fails", testCreatingOverExistingStoreFails)
	t.Run("Opening a missing store fails", testOpeningMissingStoreFails)
	t.Run("Committing advances the position", testCommittingAdvancesPosition)
	t.Run("Applying a transaction out of order fails", testApplyingOutOfOrderFails)
	t.Run("Transactions are listed in order from an id", testTransactionsAreListedInOrder)
	t.Run("Pruning keeps the most recent transactions", testPruningKeepsMostRecent)
	t.Run("Journals are left behind after a close", testJournalsAreLeftBehind)
	t.Run("A store can be copied entry by entry", testStoreCanBeCopied)
}

func newStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.Create(filepath.Join(t.TempDir(), "store"), types.NewStoreID(time.Now()))
	require.NoError(t, err)
	return s
}

func commitN(t *testing.T, s *storage.Store, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		pos := s.Position()
		_, err := s.Commit(pos.LogIndex+1, []types.Op{
			{Key: []byte{byte(i)}, Value: []byte{byte(i), byte(i)}},
		})
		require.NoError(t, err)
	}
}

func testCreatedStoreCanBeReopened(t *testing.T) {
	s := newStore(t)
	id := s.StoreID()
	commitN(t, s, 3)
	require.NoError(t, s.Close())

	reopened, err := storage.Open(s.Dir())
	require.NoError(t, err)
	defer reopened.Close()

	assert.True(t, id.Equal(reopened.StoreID()))
	assert.Equal(t, uint64(3), reopened.Position().TxID)

	readID, readPos, err := storage.ReadMetadata(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, storage.ErrStoreNotFound)
	assert.True(t, readID.IsZero())
	assert.Equal(t, types.CommitPosition{}, readPos)
}

func testCreatingOverExistingStoreFails(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Close())

	_, err := storage.Create(s.Dir(), types.NewStoreID(time.Now()))
	require.ErrorIs(t, err, storage.ErrStoreAlreadyExists)
}

func testOpeningMissingStoreFails(t *testing.T) {
	_, err := storage.Open(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, storage.ErrStoreNotFound)
}

func testCommittingAdvancesPosition(t *testing.T) {
	s := newStore(t)
	defer s.Close()
	assert.Equal(t, types.InitialPosition(), s.Position())

	pos, err := s.Commit(10, []types.Op{{Key: []byte("k"), Value: []byte("v")}})
	require.NoError(t, err)
	assert.Equal(t, types.CommitPosition{TxID: 1, LogIndex: 10}, pos)

	v, err := s.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	_, err = s.Commit(11, []types.Op{{Key: []byte("k"), Delete: true}})
	require.NoError(t, err)
	_, err = s.Get([]byte("k"))
	require.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func testApplyingOutOfOrderFails(t *testing.T) {
	s := newStore(t)
	defer s.Close()

	err := s.Apply(&types.Transaction{ID: 2, LogIndex: 1})
	require.ErrorIs(t, err, storage.ErrTxOutOfOrder)

	require.NoError(t, s.Apply(&types.Transaction{ID: 1, LogIndex: 5}))
	err = s.Apply(&types.Transaction{ID: 2, LogIndex: 4})
	require.ErrorIs(t, err, storage.ErrTxOutOfOrder)
}

func testTransactionsAreListedInOrder(t *testing.T) {
	s := newStore(t)
	defer s.Close()
	commitN(t, s, 5)

	var ids []uint64
	require.NoError(t, s.TransactionsFrom(3, func(tx *types.Transaction) error {
		ids = append(ids, tx.ID)
		return nil
	}))
	assert.Equal(t, []uint64{3, 4, 5}, ids)
}

func testPruningKeepsMostRecent(t *testing.T) {
	s := newStore(t)
	defer s.Close()

	_, ok, err := s.OldestTxID()
	require.NoError(t, err)
	assert.False(t, ok)

	commitN(t, s, 10)
	removed, err := s.Prune(4)
	require.NoError(t, err)
	assert.Equal(t, 6, removed)

	oldest, ok, err := s.OldestTxID()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(7), oldest)

	removed, err = s.Prune(4)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func testJournalsAreLeftBehind(t *testing.T) {
	hasLogs, err := storage.HasTxLogs(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.False(t, hasLogs)

	s := newStore(t)
	commitN(t, s, 2)
	require.NoError(t, s.Close())

	hasLogs, err = storage.HasTxLogs(s.Dir())
	require.NoError(t, err)
	assert.True(t, hasLogs)
}

func testStoreCanBeCopied(t *testing.T) {
	source := newStore(t)
	defer source.Close()
	commitN(t, source, 20)

	w, err := storage.NewCopyWriter(filepath.Join(t.TempDir(), "copy"))
	require.NoError(t, err)
	require.NoError(t, source.ForEach(w.Put))

	id, pos, err := w.Finish()
	require.NoError(t, err)
	assert.True(t, source.StoreID().Equal(id))
	assert.Equal(t, source.Position(), pos)
}
