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
	"code.vegaprotocol.io/coresync/core/types"
)

// TransactionStateMachine commits replicated transactions to the local
// store, through the commit process of the running store.
type TransactionStateMachine struct {
	commitProcess types.CommitProcess
}

func (m *TransactionStateMachine) installCommitProcess(cp types.CommitProcess) {
	m.commitProcess = cp
}

func (m *TransactionStateMachine) apply(index int64, req TransactionRequest, lock LockToken) (Result, error) {
	if m.commitProcess == nil {
		return Result{}, ErrNoCommitProcess
	}

	// the store is the state of this machine: whatever it already holds was
	// committed before, possibly by a peer we copied or caught up from.
	pos := m.commitProcess.Position()
	if index <= pos.LogIndex {
		return Result{Skipped: true, Position: pos}, nil
	}

	if req.LockTokenID != lock.ID {
		return Result{Accepted: false, Position: pos}, nil
	}

	pos, err := m.commitProcess.Commit(index, req.Ops)
	if err != nil {
		return Result{}, err
	}
	return Result{Accepted: true, Position: pos}, nil
}
