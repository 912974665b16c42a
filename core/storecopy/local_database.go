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
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"code.vegaprotocol.io/coresync/core/catchup"
	"code.vegaprotocol.io/coresync/core/storage"
	"code.vegaprotocol.io/coresync/core/types"
	"code.vegaprotocol.io/coresync/logging"
)

var (
	ErrStoreNotRunning = errors.New("store is not running")
	ErrStoreRunning    = errors.New("store is running")
)

type dbState int

const (
	stateStopped dbState = iota
	stateRunning
	stateStoppedForCopy
)

func (s dbState) String() string {
	switch s {
	case stateRunning:
		return "running"
	case stateStoppedForCopy:
		return "stopped-for-copy"
	default:
		return "stopped"
	}
}

// LocalDatabase owns the lifecycle of the local store.
type LocalDatabase struct {
	log *logging.Logger
	cfg Config
	dir string

	// mu is held for reading by everyone using the running store, so it
	// can't be stopped under their feet.
	mu    sync.RWMutex
	state dbState
	store *storage.Store
}

func NewLocalDatabase(log *logging.Logger, cfg Config, dir string) *LocalDatabase {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &LocalDatabase{
		log: log,
		cfg: cfg,
		dir: dir,
	}
}

// ReloadConf updates the internal configuration of the database. The new
// retention applies at the next stop.
func (d *LocalDatabase) ReloadConf(cfg Config) {
	d.log.Info("reloading configuration")
	if d.log.GetLevel() != cfg.Level.Get() {
		d.log.Info("updating log level",
			logging.String("old", d.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		d.log.SetLevel(cfg.Level.Get())
	}

	d.mu.Lock()
	d.cfg = cfg
	d.mu.Unlock()
}

func (d *LocalDatabase) StoreDir() string {
	return d.dir
}

func (d *LocalDatabase) IsRunning() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state == stateRunning
}

// IsEmpty reports whether the store holds no transaction at all, which
// includes not existing.
func (d *LocalDatabase) IsEmpty() (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.state == stateRunning {
		return d.store.Position().TxID == 0, nil
	}

	_, pos, err := storage.ReadMetadata(d.dir)
	if err != nil {
		if errors.Is(err, storage.ErrStoreNotFound) {
			return true, nil
		}
		return false, err
	}
	return pos.TxID == 0, nil
}

// StoreID returns the identity of the store. It is read from disk when the
// store is not running.
func (d *LocalDatabase) StoreID() (types.StoreID, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.state == stateRunning {
		return d.store.StoreID(), nil
	}

	id, _, err := storage.ReadMetadata(d.dir)
	return id, err
}

// Start opens the store, creating it with a fresh identity when none
// exists.
func (d *LocalDatabase) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == stateRunning {
		return nil
	}

	store, err := storage.Open(d.dir)
	if errors.Is(err, storage.ErrStoreNotFound) {
		id := types.NewStoreID(time.Now())
		d.log.Info("creating new store", logging.String("path", d.dir), logging.StoreID(id))
		store, err = storage.Create(d.dir, id)
	}
	if err != nil {
		return fmt.Errorf("couldn't start store: %w", err)
	}

	d.store = store
	d.state = stateRunning
	d.log.Info("store started",
		logging.StoreID(store.StoreID()),
		logging.String("position", store.Position().String()))
	return nil
}

// Stop prunes the transaction history, compacts and closes the store.
func (d *LocalDatabase) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != stateRunning {
		d.state = stateStopped
		return nil
	}

	pruned, err := d.store.Prune(d.cfg.TxRetention)
	if err != nil {
		d.log.Warn("couldn't prune transaction history", logging.Error(err))
	} else if pruned > 0 {
		d.log.Debug("transaction history pruned", logging.Int("count", pruned))
	}
	if err := d.store.Compact(); err != nil {
		d.log.Warn("couldn't compact store", logging.Error(err))
	}

	return d.close(stateStopped)
}

// StopForStoreCopy closes the store without any of the finalization of
// Stop, as its files are about to be replaced or caught up.
func (d *LocalDatabase) StopForStoreCopy() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != stateRunning {
		d.state = stateStoppedForCopy
		return nil
	}
	return d.close(stateStoppedForCopy)
}

func (d *LocalDatabase) close(next dbState) error {
	err := d.store.Close()
	d.store = nil
	d.state = next
	if err != nil {
		return err
	}
	d.log.Info("store stopped", logging.String("state", next.String()))
	return nil
}

// Delete removes the store files. The store must not be running.
func (d *LocalDatabase) Delete() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == stateRunning {
		return ErrStoreRunning
	}
	d.log.Info("deleting store", logging.String("path", d.dir))
	if err := os.RemoveAll(d.dir); err != nil {
		return fmt.Errorf("couldn't delete store: %w", err)
	}
	return nil
}

// CommitProcess returns the commit process of the running store.
func (d *LocalDatabase) CommitProcess() (types.CommitProcess, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.state != stateRunning {
		return nil, ErrStoreNotRunning
	}
	return d.store, nil
}

// Acquire gives access to the running store to the catch-up server.
func (d *LocalDatabase) Acquire() (catchup.Store, func(), error) {
	d.mu.RLock()
	if d.state != stateRunning {
		d.mu.RUnlock()
		return nil, nil, ErrStoreNotRunning
	}
	return d.store, d.mu.RUnlock, nil
}

// CommitStateHelper inspects the files of a store on disk.
type CommitStateHelper struct{}

// HasTxLogs reports whether the store in dir was left with journals to
// replay.
func (CommitStateHelper) HasTxLogs(dir string) (bool, error) {
	return storage.HasTxLogs(dir)
}
