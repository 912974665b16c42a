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
	"errors"
	"fmt"
)

// The failures of a download attempt are always one of these kinds, which
// errors.Is reports along with the underlying cause.
var (
	// ErrStoreMismatch is returned when the local store isn't empty and
	// doesn't hold the identity of the store of the peer.
	ErrStoreMismatch = errors.New("store identity mismatch")
	// ErrSnapshotFetchFailed is returned when the core snapshot couldn't be
	// fetched from the peer.
	ErrSnapshotFetchFailed = errors.New("core snapshot fetch failed")
	// ErrStoreCopyFailed is returned when the local store couldn't be
	// caught up or replaced.
	ErrStoreCopyFailed = errors.New("store copy failed")
	// ErrSynchronizationFailed covers every other failure.
	ErrSynchronizationFailed = errors.New("core state synchronization failed")
)

var kinds = []error{
	ErrStoreMismatch,
	ErrSnapshotFetchFailed,
	ErrStoreCopyFailed,
	ErrSynchronizationFailed,
}

func newError(kind error, cause error) error {
	if cause == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, cause)
}

// Kind returns the kind of a download failure, nil if err is nil.
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrSynchronizationFailed
}

// classify leaves failures of a known kind untouched, and wraps anything
// else as a synchronization failure.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return err
		}
	}
	return newError(ErrSynchronizationFailed, err)
}

func fromPanic(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("%w: panic: %w", ErrSynchronizationFailed, err)
	}
	return fmt.Errorf("%w: panic: %v", ErrSynchronizationFailed, r)
}

func kindLabel(err error) string {
	switch Kind(err) {
	case nil:
		return "success"
	case ErrStoreMismatch:
		return "store_mismatch"
	case ErrSnapshotFetchFailed:
		return "snapshot_fetch_failed"
	case ErrStoreCopyFailed:
		return "store_copy_failed"
	default:
		return "synchronization_failed"
	}
}
