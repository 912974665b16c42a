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

package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"code.vegaprotocol.io/coresync/libs/wire"

	"google.golang.org/protobuf/encoding/protowire"
)

var ErrUnknownCoreStateType = errors.New("unknown core state type")

// CoreStateType names a replicated state machine whose state is carried in
// a core snapshot.
type CoreStateType uint32

const (
	CoreStateTokens CoreStateType = iota + 1
	CoreStateLockToken
)

func (t CoreStateType) String() string {
	switch t {
	case CoreStateTokens:
		return "tokens"
	case CoreStateLockToken:
		return "lock-token"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(t))
	}
}

// CoreSnapshot is a point-in-time image of the replicated state machines,
// taken at PrevIndex/PrevTerm in the consensus log. Each state machine
// serialises its own state.
type CoreSnapshot struct {
	PrevIndex int64
	PrevTerm  int64
	States    map[CoreStateType][]byte
}

func NewCoreSnapshot(prevIndex, prevTerm int64) *CoreSnapshot {
	return &CoreSnapshot{
		PrevIndex: prevIndex,
		PrevTerm:  prevTerm,
		States:    map[CoreStateType][]byte{},
	}
}

// Add records the state of a state machine. It replaces any previous state
// recorded for that type.
func (s *CoreSnapshot) Add(typ CoreStateType, state []byte) {
	if s.States == nil {
		s.States = map[CoreStateType][]byte{}
	}
	s.States[typ] = state
}

func (s *CoreSnapshot) Get(typ CoreStateType) ([]byte, bool) {
	state, ok := s.States[typ]
	return state, ok
}

func (s *CoreSnapshot) types() []CoreStateType {
	typs := make([]CoreStateType, 0, len(s.States))
	for t := range s.States {
		typs = append(typs, t)
	}
	sort.Slice(typs, func(i, j int) bool { return typs[i] < typs[j] })
	return typs
}

func (s *CoreSnapshot) String() string {
	names := make([]string, 0, len(s.States))
	for _, t := range s.types() {
		names = append(names, t.String())
	}
	return fmt.Sprintf("CoreSnapshot{prevIndex=%d, prevTerm=%d, states=[%s]}",
		s.PrevIndex, s.PrevTerm, strings.Join(names, ","))
}

// Marshal encodes the snapshot. States are written in type order so equal
// snapshots encode to equal bytes.
func (s *CoreSnapshot) Marshal() ([]byte, error) {
	b := wire.AppendSint64(nil, 1, s.PrevIndex)
	b = wire.AppendSint64(b, 2, s.PrevTerm)
	for _, t := range s.types() {
		var sb []byte
		sb = wire.AppendVarint(sb, 1, uint64(t))
		sb = wire.AppendBytes(sb, 2, s.States[t])
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, sb)
	}
	return b, nil
}

func (s *CoreSnapshot) Unmarshal(b []byte) error {
	*s = CoreSnapshot{States: map[CoreStateType][]byte{}}
	var stateErr error
	err := wire.ConsumeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return wire.ConsumeSint64(typ, b, &s.PrevIndex)
		case 2:
			return wire.ConsumeSint64(typ, b, &s.PrevTerm)
		case 3:
			var raw []byte
			n := wire.ConsumeBytes(typ, b, &raw)
			if n <= 0 {
				return n
			}
			var (
				stateType uint64
				state     []byte
			)
			if err := wire.ConsumeMessage(raw, func(num protowire.Number, typ protowire.Type, b []byte) int {
				switch num {
				case 1:
					return wire.ConsumeUvarint(typ, b, &stateType)
				case 2:
					return wire.ConsumeBytes(typ, b, &state)
				}
				return 0
			}); err != nil {
				stateErr = err
				return -1
			}
			s.States[CoreStateType(stateType)] = state
			return n
		}
		return 0
	})
	if stateErr != nil {
		return fmt.Errorf("invalid core state: %w", stateErr)
	}
	return err
}
