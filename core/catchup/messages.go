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

package catchup

import (
	"code.vegaprotocol.io/coresync/core/types"
	"code.vegaprotocol.io/coresync/libs/wire"

	"google.golang.org/protobuf/encoding/protowire"
)

type GetStoreIDRequest struct{}

func (*GetStoreIDRequest) Marshal() ([]byte, error) { return nil, nil }

func (r *GetStoreIDRequest) Unmarshal(b []byte) error {
	return wire.ConsumeMessage(b, skipAll)
}

type GetStoreIDResponse struct {
	StoreID types.StoreID
}

func (r *GetStoreIDResponse) Marshal() ([]byte, error) {
	return appendStoreID(nil, 1, r.StoreID), nil
}

func (r *GetStoreIDResponse) Unmarshal(b []byte) error {
	*r = GetStoreIDResponse{}
	return consumeWithStoreID(b, 1, &r.StoreID, skipAll)
}

type GetCoreSnapshotRequest struct{}

func (*GetCoreSnapshotRequest) Marshal() ([]byte, error) { return nil, nil }

func (r *GetCoreSnapshotRequest) Unmarshal(b []byte) error {
	return wire.ConsumeMessage(b, skipAll)
}

// GetCoreSnapshotResponse carries the snapshot of the server's state
// machines. An empty snapshot is still sent, so a nil Snapshot means the
// server had none to give.
type GetCoreSnapshotResponse struct {
	Snapshot *types.CoreSnapshot
}

func (r *GetCoreSnapshotResponse) Marshal() ([]byte, error) {
	if r.Snapshot == nil {
		return nil, nil
	}
	raw, err := r.Snapshot.Marshal()
	if err != nil {
		return nil, err
	}
	b := protowire.AppendTag(nil, 1, protowire.BytesType)
	return protowire.AppendBytes(b, raw), nil
}

func (r *GetCoreSnapshotResponse) Unmarshal(b []byte) error {
	*r = GetCoreSnapshotResponse{}
	var raw []byte
	found := false
	err := wire.ConsumeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num != 1 {
			return 0
		}
		n := wire.ConsumeBytes(typ, b, &raw)
		found = n > 0
		return n
	})
	if err != nil || !found {
		return err
	}
	r.Snapshot = &types.CoreSnapshot{}
	return r.Snapshot.Unmarshal(raw)
}

type PullTransactionsRequest struct {
	StoreID  types.StoreID
	FromTxID uint64
}

func (r *PullTransactionsRequest) Marshal() ([]byte, error) {
	b := appendStoreID(nil, 1, r.StoreID)
	return wire.AppendVarint(b, 2, r.FromTxID), nil
}

func (r *PullTransactionsRequest) Unmarshal(b []byte) error {
	*r = PullTransactionsRequest{}
	return consumeWithStoreID(b, 1, &r.StoreID, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 2 {
			return wire.ConsumeUvarint(typ, b, &r.FromTxID)
		}
		return 0
	})
}

// PullTransactionsResponse holds either one transaction, or the status
// ending the stream.
type PullTransactionsResponse struct {
	Tx       *types.Transaction
	Status   Status
	Message  string
	LastTxID uint64
}

func (r *PullTransactionsResponse) Marshal() ([]byte, error) {
	var b []byte
	if r.Tx != nil {
		raw, err := r.Tx.Marshal()
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, raw)
	}
	b = wire.AppendVarint(b, 2, uint64(r.Status))
	b = wire.AppendString(b, 3, r.Message)
	b = wire.AppendVarint(b, 4, r.LastTxID)
	return b, nil
}

func (r *PullTransactionsResponse) Unmarshal(b []byte) error {
	*r = PullTransactionsResponse{}
	var (
		rawTx  []byte
		status uint64
	)
	err := wire.ConsumeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			n := wire.ConsumeBytes(typ, b, &rawTx)
			if n > 0 {
				r.Tx = &types.Transaction{}
			}
			return n
		case 2:
			return wire.ConsumeUvarint(typ, b, &status)
		case 3:
			return wire.ConsumeString(typ, b, &r.Message)
		case 4:
			return wire.ConsumeUvarint(typ, b, &r.LastTxID)
		}
		return 0
	})
	if err != nil {
		return err
	}
	r.Status = Status(status)
	if r.Tx != nil {
		return r.Tx.Unmarshal(rawTx)
	}
	return nil
}

type CopyStoreRequest struct{}

func (*CopyStoreRequest) Marshal() ([]byte, error) { return nil, nil }

func (r *CopyStoreRequest) Unmarshal(b []byte) error {
	return wire.ConsumeMessage(b, skipAll)
}

type Entry struct {
	Key   []byte
	Value []byte
}

// CopyStoreResponse holds a chunk of raw store entries. The last message of
// the stream carries the status instead, along with the identity of the
// copied store and the number of entries sent.
type CopyStoreResponse struct {
	Entries []Entry
	Status  Status
	Message string
	StoreID types.StoreID
	Count   uint64
}

func (r *CopyStoreResponse) Marshal() ([]byte, error) {
	var b []byte
	for _, e := range r.Entries {
		eb := wire.AppendBytes(nil, 1, e.Key)
		eb = wire.AppendBytes(eb, 2, e.Value)
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, eb)
	}
	b = wire.AppendVarint(b, 2, uint64(r.Status))
	b = wire.AppendString(b, 3, r.Message)
	b = appendStoreID(b, 4, r.StoreID)
	b = wire.AppendVarint(b, 5, r.Count)
	return b, nil
}

func (r *CopyStoreResponse) Unmarshal(b []byte) error {
	*r = CopyStoreResponse{}
	var (
		status   uint64
		entryErr error
	)
	err := consumeWithStoreID(b, 4, &r.StoreID, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			var raw []byte
			n := wire.ConsumeBytes(typ, b, &raw)
			if n <= 0 {
				return n
			}
			e := Entry{}
			err := wire.ConsumeMessage(raw, func(num protowire.Number, typ protowire.Type, b []byte) int {
				switch num {
				case 1:
					return wire.ConsumeBytes(typ, b, &e.Key)
				case 2:
					return wire.ConsumeBytes(typ, b, &e.Value)
				}
				return 0
			})
			if err != nil && entryErr == nil {
				entryErr = err
			}
			r.Entries = append(r.Entries, e)
			return n
		case 2:
			return wire.ConsumeUvarint(typ, b, &status)
		case 3:
			return wire.ConsumeString(typ, b, &r.Message)
		case 5:
			return wire.ConsumeUvarint(typ, b, &r.Count)
		}
		return 0
	})
	if err != nil {
		return err
	}
	r.Status = Status(status)
	return entryErr
}

func skipAll(protowire.Number, protowire.Type, []byte) int {
	return 0
}

func appendStoreID(b []byte, num protowire.Number, id types.StoreID) []byte {
	if id.IsZero() {
		return b
	}
	raw, _ := id.Marshal()
	return wire.AppendBytes(b, num, raw)
}

// consumeWithStoreID decodes the store identity held in field num, and hands
// every other field to fn.
func consumeWithStoreID(b []byte, num protowire.Number, id *types.StoreID, fn wire.FieldFunc) error {
	var raw []byte
	err := wire.ConsumeMessage(b, func(n protowire.Number, typ protowire.Type, b []byte) int {
		if n == num {
			return wire.ConsumeBytes(typ, b, &raw)
		}
		return fn(n, typ, b)
	})
	if err != nil {
		return err
	}
	return id.Unmarshal(raw)
}
