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

package config

import (
	"context"
	"sync"
	"time"

	"code.vegaprotocol.io/coresync/logging"

	"github.com/fsnotify/fsnotify"
)

const namedLogger = "cfgwatcher"

// Watcher is looking for updates in the configuration file.
type Watcher struct {
	log  *logging.Logger
	path string

	mu                 sync.Mutex
	cfg                Config
	cfgUpdateListeners map[int]func(Config)
	nextID             int
}

// NewWatcher loads the configuration file at path, and reloads it whenever
// it is updated until ctx is done.
func NewWatcher(ctx context.Context, log *logging.Logger, path string) (*Watcher, error) {
	watcherlog := log.Named(namedLogger)
	// set this logger to debug level as we want to be notified for any configuration changes at any time
	watcherlog.SetLevel(logging.DebugLevel)
	w := &Watcher{
		log:                watcherlog,
		path:               path,
		cfg:                NewDefaultConfig(),
		cfgUpdateListeners: map[int]func(Config){},
	}

	if err := w.load(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(w.path); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	w.log.Info("config watcher started successfully",
		logging.String("config", w.path))

	go w.watch(ctx, watcher)

	return w, nil
}

// Get return the last update of the configuration.
func (w *Watcher) Get() Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cfg
}

// OnConfigUpdate register a function to be called when the configuration is getting updated.
func (w *Watcher) OnConfigUpdate(fns ...func(Config)) {
	w.OnConfigUpdateWithID(fns...)
}

// OnConfigUpdateWithID register a function to be called when the configuration
// is getting updated, and returns the IDs to unregister them.
func (w *Watcher) OnConfigUpdateWithID(fns ...func(Config)) []int {
	w.mu.Lock()
	defer w.mu.Unlock()

	ids := make([]int, 0, len(fns))
	for _, f := range fns {
		w.cfgUpdateListeners[w.nextID] = f
		ids = append(ids, w.nextID)
		w.nextID++
	}
	return ids
}

func (w *Watcher) Unregister(ids []int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, id := range ids {
		delete(w.cfgUpdateListeners, id)
	}
}

func (w *Watcher) load() error {
	cfg := NewDefaultConfig()
	if err := load(w.path, &cfg); err != nil {
		return err
	}

	w.mu.Lock()
	w.cfg = cfg
	w.mu.Unlock()
	return nil
}

func (w *Watcher) notify() {
	w.mu.Lock()
	cfg := w.cfg
	listeners := make([]func(Config), 0, len(w.cfgUpdateListeners))
	for _, f := range w.cfgUpdateListeners {
		listeners = append(listeners, f)
	}
	w.mu.Unlock()

	for _, f := range listeners {
		f(cfg)
	}
}

func (w *Watcher) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Create) {
				continue
			}
			if event.Has(fsnotify.Rename) {
				// vi doesn't edit the file in place, it writes a temporary
				// file and renames it over the original one, which isn't
				// always there yet when the event is received.
				time.Sleep(50 * time.Millisecond)
				// the rename dropped the file from the watch list.
				if err := watcher.Add(w.path); err != nil {
					w.log.Error("unable to watch configuration again", logging.Error(err))
				}
			}
			w.log.Info("configuration updated", logging.String("event", event.Name))
			if err := w.load(); err != nil {
				w.log.Error("unable to load configuration", logging.Error(err))
				continue
			}
			w.notify()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("config watcher received error event", logging.Error(err))
		case <-ctx.Done():
			w.log.Debug("config watcher ctx done")
			return
		}
	}
}
