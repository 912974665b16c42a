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

package statemachines

import (
	"fmt"
	"sync"

	"code.vegaprotocol.io/coresync/core/types"
	"code.vegaprotocol.io/coresync/logging"
	"code.vegaprotocol.io/coresync/metrics"
)

const namedLogger = "statemachines"

// CoreStateMachines dispatches the commands of the consensus log to the
// state machine they are meant for. Commands at an index already applied
// are skipped.
type CoreStateMachines struct {
	log *logging.Logger

	mu          sync.Mutex
	paused      bool
	tokens      *TokenStateMachine
	lockToken   *LockTokenStateMachine
	txs         *TransactionStateMachine
	lastApplied int64
	lastTerm    int64
}

func NewCoreStateMachines(log *logging.Logger) *CoreStateMachines {
	return &CoreStateMachines{
		log:         log.Named(namedLogger),
		tokens:      NewTokenStateMachine(),
		lockToken:   NewLockTokenStateMachine(),
		txs:         &TransactionStateMachine{},
		lastApplied: -1,
	}
}

// ApplyCommand applies cmd, committed to the consensus log at index during
// term.
func (c *CoreStateMachines) ApplyCommand(index, term int64, cmd Command) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.paused {
		return Result{}, ErrPaused
	}
	if index <= c.lastApplied {
		return Result{Skipped: true}, nil
	}

	var (
		res Result
		err error
	)
	switch req := cmd.(type) {
	case TokenRequest:
		res, err = c.tokens.apply(index, req)
	case LockTokenRequest:
		res = c.lockToken.apply(index, req)
	case TransactionRequest:
		res, err = c.txs.apply(index, req, c.lockToken.Current())
	default:
		return Result{}, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
	if err != nil {
		return Result{}, err
	}

	c.lastApplied = index
	c.lastTerm = term
	return res, nil
}

// InstallCommitProcess makes transactions commit through cp from now on.
func (c *CoreStateMachines) InstallCommitProcess(cp types.CommitProcess) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.txs.installCommitProcess(cp)
	c.log.Info("commit process installed", logging.String("position", cp.Position().String()))
}

func (c *CoreStateMachines) LastApplied() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastApplied
}

// Pause makes every command fail with ErrPaused until Resume is called.
func (c *CoreStateMachines) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
}

func (c *CoreStateMachines) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
}

func (c *CoreStateMachines) LookupToken(typ TokenType, name string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens.Lookup(typ, name)
}

func (c *CoreStateMachines) LockToken() LockToken {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lockToken.Current()
}

// SnapshotService takes and installs snapshots of the core state machines.
type SnapshotService struct {
	log      *logging.Logger
	machines *CoreStateMachines
}

func NewSnapshotService(log *logging.Logger, machines *CoreStateMachines) *SnapshotService {
	return &SnapshotService{
		log:      log.Named(namedLogger),
		machines: machines,
	}
}

// Snapshot captures the state of every state machine at the last applied
// index.
func (s *SnapshotService) Snapshot() (*types.CoreSnapshot, error) {
	c := s.machines
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := types.NewCoreSnapshot(c.lastApplied, c.lastTerm)
	snap.Add(types.CoreStateTokens, c.tokens.marshal())
	snap.Add(types.CoreStateLockToken, c.lockToken.marshal())
	return snap, nil
}

// InstallSnapshot replaces the state of every state machine with the one
// held by snap. Nothing changes if any part of it can't be decoded.
func (s *SnapshotService) InstallSnapshot(snap *types.CoreSnapshot) error {
	rawTokens, ok := snap.Get(types.CoreStateTokens)
	if !ok {
		return fmt.Errorf("snapshot has no %s state", types.CoreStateTokens)
	}
	tokens, err := unmarshalTokens(rawTokens)
	if err != nil {
		return fmt.Errorf("couldn't decode %s state: %w", types.CoreStateTokens, err)
	}

	rawLock, ok := snap.Get(types.CoreStateLockToken)
	if !ok {
		return fmt.Errorf("snapshot has no %s state", types.CoreStateLockToken)
	}
	lockToken, err := unmarshalLockToken(rawLock)
	if err != nil {
		return fmt.Errorf("couldn't decode %s state: %w", types.CoreStateLockToken, err)
	}

	c := s.machines
	c.mu.Lock()
	c.tokens = tokens
	c.lockToken = lockToken
	c.lastApplied = snap.PrevIndex
	c.lastTerm = snap.PrevTerm
	c.mu.Unlock()

	metrics.SnapshotInstalledSet(snap.PrevIndex)
	s.log.Info("core snapshot installed",
		logging.Int64("prev-index", snap.PrevIndex),
		logging.Int64("prev-term", snap.PrevTerm))
	return nil
}
