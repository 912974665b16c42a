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

package snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"code.vegaprotocol.io/coresync/core/catchup"
	"code.vegaprotocol.io/coresync/core/types"
	"code.vegaprotocol.io/coresync/logging"
	"code.vegaprotocol.io/coresync/metrics"
)

// LocalDatabase is the local store, as seen by a download.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/local_database_mock.go -package mocks code.vegaprotocol.io/coresync/core/snapshot LocalDatabase
type LocalDatabase interface {
	IsEmpty() (bool, error)
	IsRunning() bool
	StoreID() (types.StoreID, error)
	StoreDir() string
	Start() error
	Stop() error
	StopForStoreCopy() error
	Delete() error
	CommitProcess() (types.CommitProcess, error)
}

// Lifecycle is the set of components stopped while the store is being
// replaced. It is owned by the caller.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/lifecycle_mock.go -package mocks code.vegaprotocol.io/coresync/core/snapshot Lifecycle
type Lifecycle interface {
	Start() error
	Stop() error
}

//go:generate go run github.com/golang/mock/mockgen -destination mocks/remote_store_mock.go -package mocks code.vegaprotocol.io/coresync/core/snapshot RemoteStore
type RemoteStore interface {
	GetStoreID(ctx context.Context, addr string) (types.StoreID, error)
	TryCatchingUp(ctx context.Context, addr string, expected types.StoreID, storeDir string, keepTxLogs bool) (types.CatchupResult, error)
}

//go:generate go run github.com/golang/mock/mockgen -destination mocks/catch_up_client_mock.go -package mocks code.vegaprotocol.io/coresync/core/snapshot CatchUpClient
type CatchUpClient interface {
	GetCoreSnapshot(ctx context.Context, addr string) (*types.CoreSnapshot, error)
}

//go:generate go run github.com/golang/mock/mockgen -destination mocks/store_copy_process_mock.go -package mocks code.vegaprotocol.io/coresync/core/snapshot StoreCopyProcess
type StoreCopyProcess interface {
	ReplaceWithStoreFrom(ctx context.Context, provider catchup.AddressProvider, expected types.StoreID) error
}

//go:generate go run github.com/golang/mock/mockgen -destination mocks/snapshot_service_mock.go -package mocks code.vegaprotocol.io/coresync/core/snapshot SnapshotService
type SnapshotService interface {
	InstallSnapshot(snap *types.CoreSnapshot) error
}

//go:generate go run github.com/golang/mock/mockgen -destination mocks/core_state_machines_mock.go -package mocks code.vegaprotocol.io/coresync/core/snapshot CoreStateMachines
type CoreStateMachines interface {
	InstallCommitProcess(cp types.CommitProcess)
}

//go:generate go run github.com/golang/mock/mockgen -destination mocks/commit_state_helper_mock.go -package mocks code.vegaprotocol.io/coresync/core/snapshot CommitStateHelper
type CommitStateHelper interface {
	HasTxLogs(dir string) (bool, error)
}

// CoreStateDownloader brings the local store and the core state machines
// in line with the ones of a peer, usually the leader.
type CoreStateDownloader struct {
	log *logging.Logger

	// one download at a time.
	mu sync.Mutex

	localDatabase     LocalDatabase
	lifecycle         Lifecycle
	remoteStore       RemoteStore
	catchUpClient     CatchUpClient
	storeCopyProcess  StoreCopyProcess
	snapshotService   SnapshotService
	stateMachines     CoreStateMachines
	commitStateHelper CommitStateHelper
}

func NewCoreStateDownloader(
	log *logging.Logger,
	config Config,
	localDatabase LocalDatabase,
	lifecycle Lifecycle,
	remoteStore RemoteStore,
	catchUpClient CatchUpClient,
	storeCopyProcess StoreCopyProcess,
	snapshotService SnapshotService,
	stateMachines CoreStateMachines,
	commitStateHelper CommitStateHelper,
) *CoreStateDownloader {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())

	return &CoreStateDownloader{
		log:               log,
		localDatabase:     localDatabase,
		lifecycle:         lifecycle,
		remoteStore:       remoteStore,
		catchUpClient:     catchUpClient,
		storeCopyProcess:  storeCopyProcess,
		snapshotService:   snapshotService,
		stateMachines:     stateMachines,
		commitStateHelper: commitStateHelper,
	}
}

// DownloadSnapshot runs one download attempt from the primary of provider.
// It is never retried internally, and a failure once the lifecycle has been
// stopped leaves it stopped: the caller decides what happens next.
func (d *CoreStateDownloader) DownloadSnapshot(ctx context.Context, provider catchup.AddressProvider) (err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fromPanic(r)
		}
		err = classify(err)
		metrics.DownloadObserve(kindLabel(err), started)
		if err != nil {
			d.log.Error("core state download failed", logging.Error(err))
		}
	}()

	// captured before anything touches the store.
	isEmptyStore, err := d.localDatabase.IsEmpty()
	if err != nil {
		return err
	}

	if err := d.recoverStore(); err != nil {
		return err
	}

	primary, err := provider.Primary(ctx)
	if err != nil {
		return err
	}
	remoteStoreID, err := d.remoteStore.GetStoreID(ctx, primary)
	if err != nil {
		return err
	}
	if !isEmptyStore {
		localStoreID, err := d.localDatabase.StoreID()
		if err != nil {
			return err
		}
		if !remoteStoreID.Equal(localStoreID) {
			return fmt.Errorf("%w: local store is %s, store of %s is %s",
				ErrStoreMismatch, localStoreID, primary, remoteStoreID)
		}
	}

	if err := d.lifecycle.Stop(); err != nil {
		return err
	}
	if err := d.localDatabase.StopForStoreCopy(); err != nil {
		return err
	}

	d.log.Info("downloading core snapshot", logging.String("peer", primary))

	// the core snapshot is fetched before the store is synchronized, so the
	// store ends up at or ahead of the state machines in the consensus log.
	// Commands replayed from there are ignored by the state machines when
	// the store already reflects them.
	snap, err := d.catchUpClient.GetCoreSnapshot(ctx, primary)
	if err != nil {
		return newError(ErrSnapshotFetchFailed, err)
	}
	if snap == nil {
		return ErrSnapshotFetchFailed
	}

	if err := d.syncStore(ctx, provider, primary, isEmptyStore, remoteStoreID); err != nil {
		return err
	}

	// installed once the store is synchronized, so the state machines are
	// never ahead of it.
	if err := d.snapshotService.InstallSnapshot(snap); err != nil {
		return err
	}
	d.log.Info("core snapshot installed", logging.String("snapshot", snap.String()))

	return d.resume()
}

// ReloadConf updates the log level of the downloader.
func (d *CoreStateDownloader) ReloadConf(cfg Config) {
	if d.log.GetLevel() != cfg.Level.Get() {
		d.log.Info("updating log level",
			logging.String("old", d.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		d.log.SetLevel(cfg.Level.Get())
	}
}

// recoverStore runs the recovery of the store engine when it was left with
// journals to replay, so the first transaction pulled from the peer doesn't
// land on top of them. The journals of a running store are live, and the
// store is left untouched.
func (d *CoreStateDownloader) recoverStore() error {
	hasTxLogs, err := d.commitStateHelper.HasTxLogs(d.localDatabase.StoreDir())
	if err != nil {
		return err
	}
	if !hasTxLogs || d.localDatabase.IsRunning() {
		return nil
	}

	d.log.Info("recovering local store")
	if err := d.localDatabase.Start(); err != nil {
		return err
	}
	return d.localDatabase.Stop()
}

func (d *CoreStateDownloader) syncStore(ctx context.Context, provider catchup.AddressProvider, primary string, isEmptyStore bool, remoteStoreID types.StoreID) error {
	if isEmptyStore {
		if err := d.storeCopyProcess.ReplaceWithStoreFrom(ctx, provider, remoteStoreID); err != nil {
			return newError(ErrStoreCopyFailed, err)
		}
		return nil
	}

	localStoreID, err := d.localDatabase.StoreID()
	if err != nil {
		return err
	}

	result, err := d.remoteStore.TryCatchingUp(ctx, primary, localStoreID, d.localDatabase.StoreDir(), false)
	if err != nil {
		d.log.Error("couldn't catch up with peer",
			logging.String("peer", primary),
			logging.String("result", result.String()),
			logging.Error(err))
		return newError(ErrStoreCopyFailed, &catchupError{result: types.CatchupFailed, err: err})
	}
	switch result {
	case types.CatchupSuccessEndOfStream:
		return nil
	case types.CatchupTransactionPruned:
		d.log.Info("couldn't pull transactions from peer, they may have been pruned away",
			logging.String("peer", primary))
		if err := d.localDatabase.Delete(); err != nil {
			return newError(ErrStoreCopyFailed, err)
		}
		if err := d.storeCopyProcess.ReplaceWithStoreFrom(ctx, provider, localStoreID); err != nil {
			return newError(ErrStoreCopyFailed, err)
		}
		return nil
	default:
		d.log.Error("couldn't catch up with peer",
			logging.String("peer", primary),
			logging.String("result", result.String()),
			logging.Error(err))
		return newError(ErrStoreCopyFailed, &catchupError{result: result, err: err})
	}
}

// resume restarts the store, then rewires the commit pipeline of the state
// machines to it, then restarts the lifecycle.
func (d *CoreStateDownloader) resume() error {
	d.log.Info("starting local store")
	if err := d.localDatabase.Start(); err != nil {
		return err
	}

	cp, err := d.localDatabase.CommitProcess()
	if err != nil {
		return err
	}
	d.stateMachines.InstallCommitProcess(cp)

	return d.lifecycle.Start()
}

type catchupError struct {
	result types.CatchupResult
	err    error
}

func (e *catchupError) Error() string {
	if e.err == nil {
		return "catch-up ended with " + e.result.String()
	}
	return "catch-up ended with " + e.result.String() + ": " + e.err.Error()
}

func (e *catchupError) Unwrap() error {
	return e.err
}
