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
	"fmt"

	"code.vegaprotocol.io/coresync/libs/wire"

	"google.golang.org/protobuf/encoding/protowire"
)

// NoLogIndex is the log index of a store which has never committed a
// replicated transaction.
const NoLogIndex int64 = -1

// CommitPosition is the position of the last transaction committed to a
// store, and the consensus log index that transaction was replicated at.
type CommitPosition struct {
	TxID     uint64
	LogIndex int64
}

// InitialPosition is the position of a newly created store.
func InitialPosition() CommitPosition {
	return CommitPosition{TxID: 0, LogIndex: NoLogIndex}
}

func (p CommitPosition) String() string {
	return fmt.Sprintf("tx %d at log index %d", p.TxID, p.LogIndex)
}

func (p CommitPosition) Marshal() ([]byte, error) {
	b := wire.AppendVarint(nil, 1, p.TxID)
	b = wire.AppendSint64(b, 2, p.LogIndex)
	return b, nil
}

func (p *CommitPosition) Unmarshal(b []byte) error {
	*p = CommitPosition{}
	return wire.ConsumeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return wire.ConsumeUvarint(typ, b, &p.TxID)
		case 2:
			return wire.ConsumeSint64(typ, b, &p.LogIndex)
		}
		return 0
	})
}

// Op is a single write of a transaction. A delete carries no value.
type Op struct {
	Key    []byte
	Value  []byte
	Delete bool
}

// Transaction is a committed unit of writes, identified by a strictly
// increasing id within a store lineage.
type Transaction struct {
	ID       uint64
	LogIndex int64
	Ops      []Op
}

func (t *Transaction) Marshal() ([]byte, error) {
	b := wire.AppendVarint(nil, 1, t.ID)
	b = wire.AppendSint64(b, 2, t.LogIndex)
	for _, op := range t.Ops {
		var ob []byte
		ob = wire.AppendBytes(ob, 1, op.Key)
		ob = wire.AppendBytes(ob, 2, op.Value)
		if op.Delete {
			ob = wire.AppendVarint(ob, 3, 1)
		}
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, ob)
	}
	return b, nil
}

func (t *Transaction) Unmarshal(b []byte) error {
	*t = Transaction{}
	return wire.ConsumeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return wire.ConsumeUvarint(typ, b, &t.ID)
		case 2:
			return wire.ConsumeSint64(typ, b, &t.LogIndex)
		case 3:
			var raw []byte
			n := wire.ConsumeBytes(typ, b, &raw)
			if n <= 0 {
				return n
			}
			op := Op{}
			err := wire.ConsumeMessage(raw, func(num protowire.Number, typ protowire.Type, b []byte) int {
				switch num {
				case 1:
					return wire.ConsumeBytes(typ, b, &op.Key)
				case 2:
					return wire.ConsumeBytes(typ, b, &op.Value)
				case 3:
					return wire.ConsumeBool(typ, b, &op.Delete)
				}
				return 0
			})
			if err != nil {
				return -1
			}
			t.Ops = append(t.Ops, op)
			return n
		}
		return 0
	})
}
