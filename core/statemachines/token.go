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
	"sort"

	"code.vegaprotocol.io/coresync/libs/wire"

	"google.golang.org/protobuf/encoding/protowire"
)

type tokenKey struct {
	typ  TokenType
	name string
}

// TokenStateMachine allocates token ids, per token type, in log order.
type TokenStateMachine struct {
	ids         map[tokenKey]int64
	next        map[TokenType]int64
	lastApplied int64
}

func NewTokenStateMachine() *TokenStateMachine {
	return &TokenStateMachine{
		ids:         map[tokenKey]int64{},
		next:        map[TokenType]int64{},
		lastApplied: -1,
	}
}

func (m *TokenStateMachine) apply(index int64, req TokenRequest) (Result, error) {
	switch req.Type {
	case TokenLabel, TokenPropertyKey, TokenRelationshipType:
	default:
		return Result{}, ErrUnknownTokenType
	}

	key := tokenKey{typ: req.Type, name: req.Name}
	if id, ok := m.ids[key]; ok {
		m.lastApplied = max(m.lastApplied, index)
		return Result{TokenID: id, Accepted: true}, nil
	}

	id := m.next[req.Type]
	m.ids[key] = id
	m.next[req.Type] = id + 1
	m.lastApplied = index
	return Result{TokenID: id, Accepted: true}, nil
}

// Lookup returns the id allocated to a token.
func (m *TokenStateMachine) Lookup(typ TokenType, name string) (int64, bool) {
	id, ok := m.ids[tokenKey{typ: typ, name: name}]
	return id, ok
}

func (m *TokenStateMachine) Len() int {
	return len(m.ids)
}

func (m *TokenStateMachine) LastAppliedIndex() int64 {
	return m.lastApplied
}

func (m *TokenStateMachine) sortedKeys() []tokenKey {
	keys := make([]tokenKey, 0, len(m.ids))
	for k := range m.ids {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].typ != keys[j].typ {
			return keys[i].typ < keys[j].typ
		}
		return keys[i].name < keys[j].name
	})
	return keys
}

func (m *TokenStateMachine) marshal() []byte {
	b := wire.AppendSint64(nil, 1, m.lastApplied)
	for _, k := range m.sortedKeys() {
		eb := wire.AppendVarint(nil, 1, uint64(k.typ))
		eb = wire.AppendString(eb, 2, k.name)
		eb = wire.AppendVarint(eb, 3, uint64(m.ids[k]))
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, eb)
	}
	return b
}

func unmarshalTokens(b []byte) (*TokenStateMachine, error) {
	m := NewTokenStateMachine()
	m.lastApplied = 0

	var entryErr error
	err := wire.ConsumeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return wire.ConsumeSint64(typ, b, &m.lastApplied)
		case 2:
			var raw []byte
			n := wire.ConsumeBytes(typ, b, &raw)
			if n <= 0 {
				return n
			}
			var (
				tokenType, id uint64
				name          string
			)
			if err := wire.ConsumeMessage(raw, func(num protowire.Number, typ protowire.Type, b []byte) int {
				switch num {
				case 1:
					return wire.ConsumeUvarint(typ, b, &tokenType)
				case 2:
					return wire.ConsumeString(typ, b, &name)
				case 3:
					return wire.ConsumeUvarint(typ, b, &id)
				}
				return 0
			}); err != nil && entryErr == nil {
				entryErr = err
			}
			t := TokenType(tokenType)
			m.ids[tokenKey{typ: t, name: name}] = int64(id)
			if int64(id) >= m.next[t] {
				m.next[t] = int64(id) + 1
			}
			return n
		}
		return 0
	})
	if err != nil {
		return nil, err
	}
	if entryErr != nil {
		return nil, entryErr
	}
	return m, nil
}
