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
	"code.vegaprotocol.io/coresync/libs/wire"

	"google.golang.org/protobuf/encoding/protowire"
)

// LockToken is held by one member of the cluster at a time. Only
// transactions issued under the current token are committed.
type LockToken struct {
	Owner string
	ID    int64
}

// LockTokenStateMachine hands the lock token over in log order.
type LockTokenStateMachine struct {
	token       LockToken
	lastApplied int64
}

func NewLockTokenStateMachine() *LockTokenStateMachine {
	return &LockTokenStateMachine{lastApplied: -1}
}

func (m *LockTokenStateMachine) apply(index int64, req LockTokenRequest) Result {
	m.lastApplied = index
	if req.CandidateID != m.token.ID+1 {
		return Result{Accepted: false, TokenID: m.token.ID}
	}
	m.token = LockToken{Owner: req.Owner, ID: req.CandidateID}
	return Result{Accepted: true, TokenID: m.token.ID}
}

func (m *LockTokenStateMachine) Current() LockToken {
	return m.token
}

func (m *LockTokenStateMachine) marshal() []byte {
	b := wire.AppendSint64(nil, 1, m.lastApplied)
	b = wire.AppendString(b, 2, m.token.Owner)
	return wire.AppendSint64(b, 3, m.token.ID)
}

func unmarshalLockToken(b []byte) (*LockTokenStateMachine, error) {
	m := &LockTokenStateMachine{}
	err := wire.ConsumeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return wire.ConsumeSint64(typ, b, &m.lastApplied)
		case 2:
			return wire.ConsumeString(typ, b, &m.token.Owner)
		case 3:
			return wire.ConsumeSint64(typ, b, &m.token.ID)
		}
		return 0
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}
