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

package snapshot_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"code.vegaprotocol.io/coresync/core/catchup"
	"code.vegaprotocol.io/coresync/core/snapshot"
	"code.vegaprotocol.io/coresync/core/snapshot/mocks"
	"code.vegaprotocol.io/coresync/core/types"
	"code.vegaprotocol.io/coresync/logging"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	storeDir = "/var/lib/coresync/store"
	leader   = "leader:6000"
)

type commitProcess struct {
	pos types.CommitPosition
}

func (c *commitProcess) Commit(logIndex int64, _ []types.Op) (types.CommitPosition, error) {
	c.pos = types.CommitPosition{TxID: c.pos.TxID + 1, LogIndex: logIndex}
	return c.pos, nil
}

func (c *commitProcess) Position() types.CommitPosition {
	return c.pos
}

type testDownloader struct {
	*snapshot.CoreStateDownloader
	provider          *catchup.StaticAddressProvider
	localDatabase     *mocks.MockLocalDatabase
	lifecycle         *mocks.MockLifecycle
	remoteStore       *mocks.MockRemoteStore
	catchUpClient     *mocks.MockCatchUpClient
	storeCopyProcess  *mocks.MockStoreCopyProcess
	snapshotService   *mocks.MockSnapshotService
	stateMachines     *mocks.MockCoreStateMachines
	commitStateHelper *mocks.MockCommitStateHelper
}

func getTestDownloader(t *testing.T) *testDownloader {
	t.Helper()
	ctrl := gomock.NewController(t)

	td := &testDownloader{
		provider:          catchup.NewStaticAddressProvider(leader),
		localDatabase:     mocks.NewMockLocalDatabase(ctrl),
		lifecycle:         mocks.NewMockLifecycle(ctrl),
		remoteStore:       mocks.NewMockRemoteStore(ctrl),
		catchUpClient:     mocks.NewMockCatchUpClient(ctrl),
		storeCopyProcess:  mocks.NewMockStoreCopyProcess(ctrl),
		snapshotService:   mocks.NewMockSnapshotService(ctrl),
		stateMachines:     mocks.NewMockCoreStateMachines(ctrl),
		commitStateHelper: mocks.NewMockCommitStateHelper(ctrl),
	}
	td.CoreStateDownloader = snapshot.NewCoreStateDownloader(
		logging.NewTestLogger(),
		snapshot.NewDefaultConfig(),
		td.localDatabase,
		td.lifecycle,
		td.remoteStore,
		td.catchUpClient,
		td.storeCopyProcess,
		td.snapshotService,
		td.stateMachines,
		td.commitStateHelper,
	)
	td.localDatabase.EXPECT().StoreDir().Return(storeDir).AnyTimes()
	return td
}

func newCoreSnapshot() *types.CoreSnapshot {
	snap := types.NewCoreSnapshot(100, 4)
	snap.Add(types.CoreStateTokens, []byte("tokens"))
	snap.Add(types.CoreStateLockToken, []byte("lock"))
	return snap
}

// expectResume sets the expectations of a successful resumption, after the
// snapshot installation call given.
func (td *testDownloader) expectResume(after *gomock.Call) {
	cp := &commitProcess{}
	gomock.InOrder(
		after,
		td.localDatabase.EXPECT().Start().Return(nil),
		td.localDatabase.EXPECT().CommitProcess().Return(cp, nil),
		td.stateMachines.EXPECT().InstallCommitProcess(cp),
		td.lifecycle.EXPECT().Start().Return(nil),
	)
}

func TestDownloadSnapshot(t *testing.T) {
	t.Run("An empty store is replaced with the store of the peer", testEmptyStoreIsReplaced)
	t.Run("Journals left behind are recovered first", testJournalsAreRecoveredFirst)
	t.Run("A store of another lineage is rejected before anything stops", testStoreMismatchIsRejected)
	t.Run("A non empty store is caught up", testNonEmptyStoreIsCaughtUp)
	t.Run("A pruned history falls back to a copy keyed by the local identity", testPrunedHistoryFallsBackToCopy)
	t.Run("A failed catch-up fails the store copy", testFailedCatchupFailsStoreCopy)
	t.Run("A catch-up error fails the store copy whatever the result", testCatchupErrorFailsWhateverTheResult)
	t.Run("Journals of a running store are left alone", testJournalsOfRunningStoreAreLeftAlone)
	t.Run("A failed deletion after pruning fails the store copy", testFailedDeletionAfterPruning)
	t.Run("A failed snapshot fetch fails before the store is touched", testFailedSnapshotFetch)
	t.Run("A missing snapshot fails the fetch", testMissingSnapshotFailsFetch)
	t.Run("A failed store replacement fails the store copy", testFailedReplacementFailsStoreCopy)
	t.Run("A failed replacement after pruning fails the store copy", testFailedReplacementAfterPruning)
	t.Run("A store failing to restart fails the synchronization", testStoreFailingToRestart)
	t.Run("A commit process not available fails the synchronization", testCommitProcessNotAvailable)
	t.Run("Unexpected failures are wrapped with their cause", testUnexpectedFailuresAreWrapped)
	t.Run("A provider without peer fails the synchronization", testProviderWithoutPeer)
	t.Run("Panics are wrapped as synchronization failures", testPanicsAreWrapped)
}

func testEmptyStoreIsReplaced(t *testing.T) {
	td := getTestDownloader(t)
	ctx := context.Background()
	remoteID := types.NewStoreID(time.Now())
	snap := newCoreSnapshot()

	install := td.snapshotService.EXPECT().InstallSnapshot(snap).Return(nil).Times(1)
	gomock.InOrder(
		td.localDatabase.EXPECT().IsEmpty().Return(true, nil),
		td.commitStateHelper.EXPECT().HasTxLogs(storeDir).Return(false, nil),
		td.remoteStore.EXPECT().GetStoreID(gomock.Any(), leader).Return(remoteID, nil),
		td.lifecycle.EXPECT().Stop().Return(nil),
		td.localDatabase.EXPECT().StopForStoreCopy().Return(nil),
		td.catchUpClient.EXPECT().GetCoreSnapshot(gomock.Any(), leader).Return(snap, nil),
		td.storeCopyProcess.EXPECT().ReplaceWithStoreFrom(gomock.Any(), td.provider, remoteID).Return(nil).Times(1),
		install,
	)
	td.expectResume(install)

	// the identity of the local store is never looked at.
	td.localDatabase.EXPECT().StoreID().Times(0)

	require.NoError(t, td.DownloadSnapshot(ctx, td.provider))
}

func testJournalsAreRecoveredFirst(t *testing.T) {
	td := getTestDownloader(t)
	remoteID := types.NewStoreID(time.Now())
	snap := newCoreSnapshot()

	install := td.snapshotService.EXPECT().InstallSnapshot(snap).Return(nil)
	gomock.InOrder(
		td.localDatabase.EXPECT().IsEmpty().Return(true, nil),
		td.commitStateHelper.EXPECT().HasTxLogs(storeDir).Return(true, nil),
		td.localDatabase.EXPECT().IsRunning().Return(false),
		td.localDatabase.EXPECT().Start().Return(nil),
		td.localDatabase.EXPECT().Stop().Return(nil),
		td.remoteStore.EXPECT().GetStoreID(gomock.Any(), leader).Return(remoteID, nil),
		td.lifecycle.EXPECT().Stop().Return(nil),
		td.localDatabase.EXPECT().StopForStoreCopy().Return(nil),
		td.catchUpClient.EXPECT().GetCoreSnapshot(gomock.Any(), leader).Return(snap, nil),
		td.storeCopyProcess.EXPECT().ReplaceWithStoreFrom(gomock.Any(), td.provider, remoteID).Return(nil),
		install,
	)
	td.expectResume(install)

	require.NoError(t, td.DownloadSnapshot(context.Background(), td.provider))
}

func testStoreMismatchIsRejected(t *testing.T) {
	td := getTestDownloader(t)

	gomock.InOrder(
		td.localDatabase.EXPECT().IsEmpty().Return(false, nil),
		td.commitStateHelper.EXPECT().HasTxLogs(storeDir).Return(false, nil),
		td.remoteStore.EXPECT().GetStoreID(gomock.Any(), leader).Return(types.NewStoreID(time.Now()), nil),
		td.localDatabase.EXPECT().StoreID().Return(types.NewStoreID(time.Now()), nil),
	)
	td.lifecycle.EXPECT().Stop().Times(0)
	td.localDatabase.EXPECT().StopForStoreCopy().Times(0)
	td.catchUpClient.EXPECT().GetCoreSnapshot(gomock.Any(), gomock.Any()).Times(0)

	err := td.DownloadSnapshot(context.Background(), td.provider)
	require.ErrorIs(t, err, snapshot.ErrStoreMismatch)
	assert.Equal(t, snapshot.ErrStoreMismatch, snapshot.Kind(err))
}

func testNonEmptyStoreIsCaughtUp(t *testing.T) {
	td := getTestDownloader(t)
	id := types.NewStoreID(time.Now())
	snap := newCoreSnapshot()

	install := td.snapshotService.EXPECT().InstallSnapshot(snap).Return(nil)
	gomock.InOrder(
		td.localDatabase.EXPECT().IsEmpty().Return(false, nil),
		td.commitStateHelper.EXPECT().HasTxLogs(storeDir).Return(false, nil),
		td.remoteStore.EXPECT().GetStoreID(gomock.Any(), leader).Return(id, nil),
		td.localDatabase.EXPECT().StoreID().Return(id, nil),
		td.lifecycle.EXPECT().Stop().Return(nil),
		td.localDatabase.EXPECT().StopForStoreCopy().Return(nil),
		td.catchUpClient.EXPECT().GetCoreSnapshot(gomock.Any(), leader).Return(snap, nil),
		td.localDatabase.EXPECT().StoreID().Return(id, nil),
		td.remoteStore.EXPECT().TryCatchingUp(gomock.Any(), leader, id, storeDir, false).Return(types.CatchupSuccessEndOfStream, nil),
		install,
	)
	td.expectResume(install)
	td.storeCopyProcess.EXPECT().ReplaceWithStoreFrom(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	td.localDatabase.EXPECT().Delete().Times(0)

	require.NoError(t, td.DownloadSnapshot(context.Background(), td.provider))
}

func testPrunedHistoryFallsBackToCopy(t *testing.T) {
	td := getTestDownloader(t)
	localID := types.NewStoreID(time.Now())
	remoteID := localID
	snap := newCoreSnapshot()

	install := td.snapshotService.EXPECT().InstallSnapshot(snap).Return(nil)
	gomock.InOrder(
		td.localDatabase.EXPECT().IsEmpty().Return(false, nil),
		td.commitStateHelper.EXPECT().HasTxLogs(storeDir).Return(false, nil),
		td.remoteStore.EXPECT().GetStoreID(gomock.Any(), leader).Return(remoteID, nil),
		td.localDatabase.EXPECT().StoreID().Return(localID, nil),
		td.lifecycle.EXPECT().Stop().Return(nil),
		td.localDatabase.EXPECT().StopForStoreCopy().Return(nil),
		td.catchUpClient.EXPECT().GetCoreSnapshot(gomock.Any(), leader).Return(snap, nil),
		td.localDatabase.EXPECT().StoreID().Return(localID, nil),
		td.remoteStore.EXPECT().TryCatchingUp(gomock.Any(), leader, localID, storeDir, false).Return(types.CatchupTransactionPruned, nil),
		td.localDatabase.EXPECT().Delete().Return(nil).Times(1),
		td.storeCopyProcess.EXPECT().ReplaceWithStoreFrom(gomock.Any(), td.provider, localID).Return(nil).Times(1),
		install,
	)
	td.expectResume(install)

	require.NoError(t, td.DownloadSnapshot(context.Background(), td.provider))
}

func testFailedCatchupFailsStoreCopy(t *testing.T) {
	td := getTestDownloader(t)
	id := types.NewStoreID(time.Now())
	cause := &catchup.StatusError{Status: catchup.StatusStoreUnavailable}

	gomock.InOrder(
		td.localDatabase.EXPECT().IsEmpty().Return(false, nil),
		td.commitStateHelper.EXPECT().HasTxLogs(storeDir).Return(false, nil),
		td.remoteStore.EXPECT().GetStoreID(gomock.Any(), leader).Return(id, nil),
		td.localDatabase.EXPECT().StoreID().Return(id, nil),
		td.lifecycle.EXPECT().Stop().Return(nil),
		td.localDatabase.EXPECT().StopForStoreCopy().Return(nil),
		td.catchUpClient.EXPECT().GetCoreSnapshot(gomock.Any(), leader).Return(newCoreSnapshot(), nil),
		td.localDatabase.EXPECT().StoreID().Return(id, nil),
		td.remoteStore.EXPECT().TryCatchingUp(gomock.Any(), leader, id, storeDir, false).Return(types.CatchupFailed, cause),
	)
	td.snapshotService.EXPECT().InstallSnapshot(gomock.Any()).Times(0)
	td.localDatabase.EXPECT().Delete().Times(0)
	td.localDatabase.EXPECT().Start().Times(0)
	td.lifecycle.EXPECT().Start().Times(0)

	err := td.DownloadSnapshot(context.Background(), td.provider)
	require.ErrorIs(t, err, snapshot.ErrStoreCopyFailed)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), types.CatchupFailed.String())
}

func testCatchupErrorFailsWhateverTheResult(t *testing.T) {
	results := []types.CatchupResult{
		types.CatchupResult(0),
		types.CatchupSuccessEndOfStream,
		types.CatchupTransactionPruned,
	}
	for _, result := range results {
		t.Run(result.String(), func(t *testing.T) {
			td := getTestDownloader(t)
			id := types.NewStoreID(time.Now())
			cause := errors.New("stream reset")

			gomock.InOrder(
				td.localDatabase.EXPECT().IsEmpty().Return(false, nil),
				td.commitStateHelper.EXPECT().HasTxLogs(storeDir).Return(false, nil),
				td.remoteStore.EXPECT().GetStoreID(gomock.Any(), leader).Return(id, nil),
				td.localDatabase.EXPECT().StoreID().Return(id, nil),
				td.lifecycle.EXPECT().Stop().Return(nil),
				td.localDatabase.EXPECT().StopForStoreCopy().Return(nil),
				td.catchUpClient.EXPECT().GetCoreSnapshot(gomock.Any(), leader).Return(newCoreSnapshot(), nil),
				td.localDatabase.EXPECT().StoreID().Return(id, nil),
				td.remoteStore.EXPECT().TryCatchingUp(gomock.Any(), leader, id, storeDir, false).Return(result, cause),
			)
			td.snapshotService.EXPECT().InstallSnapshot(gomock.Any()).Times(0)
			td.localDatabase.EXPECT().Delete().Times(0)
			td.storeCopyProcess.EXPECT().ReplaceWithStoreFrom(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			td.localDatabase.EXPECT().Start().Times(0)
			td.lifecycle.EXPECT().Start().Times(0)

			err := td.DownloadSnapshot(context.Background(), td.provider)
			require.ErrorIs(t, err, snapshot.ErrStoreCopyFailed)
			assert.ErrorIs(t, err, cause)
			assert.Contains(t, err.Error(), types.CatchupFailed.String())
		})
	}
	assert.Equal(t, types.CatchupFailed, types.CatchupResult(0))
}

func testJournalsOfRunningStoreAreLeftAlone(t *testing.T) {
	td := getTestDownloader(t)
	localID := types.NewStoreID(time.Now())
	remoteID := types.NewStoreID(time.Now())

	gomock.InOrder(
		td.localDatabase.EXPECT().IsEmpty().Return(false, nil),
		td.commitStateHelper.EXPECT().HasTxLogs(storeDir).Return(true, nil),
		td.localDatabase.EXPECT().IsRunning().Return(true),
		td.remoteStore.EXPECT().GetStoreID(gomock.Any(), leader).Return(remoteID, nil),
		td.localDatabase.EXPECT().StoreID().Return(localID, nil),
	)
	td.localDatabase.EXPECT().Start().Times(0)
	td.localDatabase.EXPECT().Stop().Times(0)
	td.lifecycle.EXPECT().Stop().Times(0)

	err := td.DownloadSnapshot(context.Background(), td.provider)
	require.ErrorIs(t, err, snapshot.ErrStoreMismatch)
}

func testFailedDeletionAfterPruning(t *testing.T) {
	td := getTestDownloader(t)
	id := types.NewStoreID(time.Now())
	cause := errors.New("permission denied")

	gomock.InOrder(
		td.localDatabase.EXPECT().IsEmpty().Return(false, nil),
		td.commitStateHelper.EXPECT().HasTxLogs(storeDir).Return(false, nil),
		td.remoteStore.EXPECT().GetStoreID(gomock.Any(), leader).Return(id, nil),
		td.localDatabase.EXPECT().StoreID().Return(id, nil),
		td.lifecycle.EXPECT().Stop().Return(nil),
		td.localDatabase.EXPECT().StopForStoreCopy().Return(nil),
		td.catchUpClient.EXPECT().GetCoreSnapshot(gomock.Any(), leader).Return(newCoreSnapshot(), nil),
		td.localDatabase.EXPECT().StoreID().Return(id, nil),
		td.remoteStore.EXPECT().TryCatchingUp(gomock.Any(), leader, id, storeDir, false).Return(types.CatchupTransactionPruned, nil),
		td.localDatabase.EXPECT().Delete().Return(cause),
	)
	td.storeCopyProcess.EXPECT().ReplaceWithStoreFrom(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	td.snapshotService.EXPECT().InstallSnapshot(gomock.Any()).Times(0)

	err := td.DownloadSnapshot(context.Background(), td.provider)
	require.ErrorIs(t, err, snapshot.ErrStoreCopyFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, snapshot.ErrSynchronizationFailed)
}

func testFailedSnapshotFetch(t *testing.T) {
	td := getTestDownloader(t)
	remoteID := types.NewStoreID(time.Now())
	cause := context.DeadlineExceeded

	gomock.InOrder(
		td.localDatabase.EXPECT().IsEmpty().Return(true, nil),
		td.commitStateHelper.EXPECT().HasTxLogs(storeDir).Return(false, nil),
		td.remoteStore.EXPECT().GetStoreID(gomock.Any(), leader).Return(remoteID, nil),
		td.lifecycle.EXPECT().Stop().Return(nil),
		td.localDatabase.EXPECT().StopForStoreCopy().Return(nil),
		td.catchUpClient.EXPECT().GetCoreSnapshot(gomock.Any(), leader).Return(nil, cause),
	)
	td.storeCopyProcess.EXPECT().ReplaceWithStoreFrom(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	td.snapshotService.EXPECT().InstallSnapshot(gomock.Any()).Times(0)

	err := td.DownloadSnapshot(context.Background(), td.provider)
	require.ErrorIs(t, err, snapshot.ErrSnapshotFetchFailed)
	assert.ErrorIs(t, err, cause)
}

func testMissingSnapshotFailsFetch(t *testing.T) {
	td := getTestDownloader(t)

	gomock.InOrder(
		td.localDatabase.EXPECT().IsEmpty().Return(true, nil),
		td.commitStateHelper.EXPECT().HasTxLogs(storeDir).Return(false, nil),
		td.remoteStore.EXPECT().GetStoreID(gomock.Any(), leader).Return(types.NewStoreID(time.Now()), nil),
		td.lifecycle.EXPECT().Stop().Return(nil),
		td.localDatabase.EXPECT().StopForStoreCopy().Return(nil),
		td.catchUpClient.EXPECT().GetCoreSnapshot(gomock.Any(), leader).Return(nil, nil),
	)

	err := td.DownloadSnapshot(context.Background(), td.provider)
	require.ErrorIs(t, err, snapshot.ErrSnapshotFetchFailed)
}

func testFailedReplacementFailsStoreCopy(t *testing.T) {
	td := getTestDownloader(t)
	remoteID := types.NewStoreID(time.Now())
	cause := errors.New("connection reset by peer")

	gomock.InOrder(
		td.localDatabase.EXPECT().IsEmpty().Return(true, nil),
		td.commitStateHelper.EXPECT().HasTxLogs(storeDir).Return(false, nil),
		td.remoteStore.EXPECT().GetStoreID(gomock.Any(), leader).Return(remoteID, nil),
		td.lifecycle.EXPECT().Stop().Return(nil),
		td.localDatabase.EXPECT().StopForStoreCopy().Return(nil),
		td.catchUpClient.EXPECT().GetCoreSnapshot(gomock.Any(), leader).Return(newCoreSnapshot(), nil),
		td.storeCopyProcess.EXPECT().ReplaceWithStoreFrom(gomock.Any(), td.provider, remoteID).Return(cause),
	)
	td.snapshotService.EXPECT().InstallSnapshot(gomock.Any()).Times(0)
	td.lifecycle.EXPECT().Start().Times(0)

	err := td.DownloadSnapshot(context.Background(), td.provider)
	require.ErrorIs(t, err, snapshot.ErrStoreCopyFailed)
	assert.ErrorIs(t, err, cause)
}

func testFailedReplacementAfterPruning(t *testing.T) {
	td := getTestDownloader(t)
	id := types.NewStoreID(time.Now())
	cause := errors.New("disk full")

	gomock.InOrder(
		td.localDatabase.EXPECT().IsEmpty().Return(false, nil),
		td.commitStateHelper.EXPECT().HasTxLogs(storeDir).Return(false, nil),
		td.remoteStore.EXPECT().GetStoreID(gomock.Any(), leader).Return(id, nil),
		td.localDatabase.EXPECT().StoreID().Return(id, nil),
		td.lifecycle.EXPECT().Stop().Return(nil),
		td.localDatabase.EXPECT().StopForStoreCopy().Return(nil),
		td.catchUpClient.EXPECT().GetCoreSnapshot(gomock.Any(), leader).Return(newCoreSnapshot(), nil),
		td.localDatabase.EXPECT().StoreID().Return(id, nil),
		td.remoteStore.EXPECT().TryCatchingUp(gomock.Any(), leader, id, storeDir, false).Return(types.CatchupTransactionPruned, nil),
		td.localDatabase.EXPECT().Delete().Return(nil),
		td.storeCopyProcess.EXPECT().ReplaceWithStoreFrom(gomock.Any(), td.provider, id).Return(cause),
	)
	td.snapshotService.EXPECT().InstallSnapshot(gomock.Any()).Times(0)

	err := td.DownloadSnapshot(context.Background(), td.provider)
	require.ErrorIs(t, err, snapshot.ErrStoreCopyFailed)
	assert.ErrorIs(t, err, cause)
}

// expectSyncedEmptyStore sets the expectations of a download of an empty
// store, up to the installation of the snapshot.
func (td *testDownloader) expectSyncedEmptyStore() {
	remoteID := types.NewStoreID(time.Now())
	snap := newCoreSnapshot()
	gomock.InOrder(
		td.localDatabase.EXPECT().IsEmpty().Return(true, nil),
		td.commitStateHelper.EXPECT().HasTxLogs(storeDir).Return(false, nil),
		td.remoteStore.EXPECT().GetStoreID(gomock.Any(), leader).Return(remoteID, nil),
		td.lifecycle.EXPECT().Stop().Return(nil),
		td.localDatabase.EXPECT().StopForStoreCopy().Return(nil),
		td.catchUpClient.EXPECT().GetCoreSnapshot(gomock.Any(), leader).Return(snap, nil),
		td.storeCopyProcess.EXPECT().ReplaceWithStoreFrom(gomock.Any(), td.provider, remoteID).Return(nil),
		td.snapshotService.EXPECT().InstallSnapshot(snap).Return(nil),
	)
}

func testStoreFailingToRestart(t *testing.T) {
	td := getTestDownloader(t)
	td.expectSyncedEmptyStore()
	cause := errors.New("lock held by another process")

	td.localDatabase.EXPECT().Start().Return(cause)
	td.stateMachines.EXPECT().InstallCommitProcess(gomock.Any()).Times(0)
	td.lifecycle.EXPECT().Start().Times(0)

	err := td.DownloadSnapshot(context.Background(), td.provider)
	require.ErrorIs(t, err, snapshot.ErrSynchronizationFailed)
	assert.ErrorIs(t, err, cause)
}

func testCommitProcessNotAvailable(t *testing.T) {
	td := getTestDownloader(t)
	td.expectSyncedEmptyStore()
	cause := errors.New("store is not running")

	td.localDatabase.EXPECT().Start().Return(nil)
	td.localDatabase.EXPECT().CommitProcess().Return(nil, cause)
	td.stateMachines.EXPECT().InstallCommitProcess(gomock.Any()).Times(0)
	td.lifecycle.EXPECT().Start().Times(0)

	err := td.DownloadSnapshot(context.Background(), td.provider)
	require.ErrorIs(t, err, snapshot.ErrSynchronizationFailed)
	assert.ErrorIs(t, err, cause)
}

func testUnexpectedFailuresAreWrapped(t *testing.T) {
	td := getTestDownloader(t)
	cause := errors.New("peer unreachable")

	gomock.InOrder(
		td.localDatabase.EXPECT().IsEmpty().Return(false, nil),
		td.commitStateHelper.EXPECT().HasTxLogs(storeDir).Return(false, nil),
		td.remoteStore.EXPECT().GetStoreID(gomock.Any(), leader).Return(types.StoreID{}, cause),
	)
	td.lifecycle.EXPECT().Stop().Times(0)

	err := td.DownloadSnapshot(context.Background(), td.provider)
	require.ErrorIs(t, err, snapshot.ErrSynchronizationFailed)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, snapshot.ErrSynchronizationFailed, snapshot.Kind(err))

}

func testProviderWithoutPeer(t *testing.T) {
	td := getTestDownloader(t)
	td.localDatabase.EXPECT().IsEmpty().Return(true, nil)
	td.commitStateHelper.EXPECT().HasTxLogs(storeDir).Return(false, nil)
	td.remoteStore.EXPECT().GetStoreID(gomock.Any(), gomock.Any()).Times(0)

	err := td.DownloadSnapshot(context.Background(), catchup.NewStaticAddressProvider())
	require.ErrorIs(t, err, snapshot.ErrSynchronizationFailed)
	assert.ErrorIs(t, err, catchup.ErrNoUpstream)
}

func testPanicsAreWrapped(t *testing.T) {
	td := getTestDownloader(t)
	remoteID := types.NewStoreID(time.Now())
	snap := newCoreSnapshot()

	gomock.InOrder(
		td.localDatabase.EXPECT().IsEmpty().Return(true, nil),
		td.commitStateHelper.EXPECT().HasTxLogs(storeDir).Return(false, nil),
		td.remoteStore.EXPECT().GetStoreID(gomock.Any(), leader).Return(remoteID, nil),
		td.lifecycle.EXPECT().Stop().Return(nil),
		td.localDatabase.EXPECT().StopForStoreCopy().Return(nil),
		td.catchUpClient.EXPECT().GetCoreSnapshot(gomock.Any(), leader).Return(snap, nil),
		td.storeCopyProcess.EXPECT().ReplaceWithStoreFrom(gomock.Any(), td.provider, remoteID).Return(nil),
		td.snapshotService.EXPECT().InstallSnapshot(snap).DoAndReturn(func(*types.CoreSnapshot) error {
			panic("corrupted state machine")
		}),
	)

	err := td.DownloadSnapshot(context.Background(), td.provider)
	require.ErrorIs(t, err, snapshot.ErrSynchronizationFailed)
	assert.Contains(t, err.Error(), "corrupted state machine")
}
