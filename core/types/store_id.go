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
	"time"

	"code.vegaprotocol.io/coresync/libs/wire"

	uuid "github.com/satori/go.uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

// StoreID identifies the lineage of a store. It is created once, when the
// store is created, and never changes afterwards. Two stores holding
// different identities never exchange transactions.
type StoreID struct {
	CreationTime int64
	RandomID     string
	UpgradeTime  int64
	UpgradeID    string
}

// NewStoreID creates a fresh identity for a store created at the given time.
func NewStoreID(now time.Time) StoreID {
	return StoreID{
		CreationTime: now.UnixMilli(),
		RandomID:     uuid.NewV4().String(),
		UpgradeTime:  now.UnixMilli(),
		UpgradeID:    uuid.NewV4().String(),
	}
}

func (s StoreID) IsZero() bool {
	return s == StoreID{}
}

func (s StoreID) Equal(other StoreID) bool {
	return s == other
}

func (s StoreID) String() string {
	return fmt.Sprintf("Store{creationTime:%d, randomId:%s, upgradeTime:%d, upgradeId:%s}",
		s.CreationTime, s.RandomID, s.UpgradeTime, s.UpgradeID)
}

func (s StoreID) Marshal() ([]byte, error) {
	return s.appendTo(nil), nil
}

func (s StoreID) appendTo(b []byte) []byte {
	b = wire.AppendSint64(b, 1, s.CreationTime)
	b = wire.AppendString(b, 2, s.RandomID)
	b = wire.AppendSint64(b, 3, s.UpgradeTime)
	b = wire.AppendString(b, 4, s.UpgradeID)
	return b
}

func (s *StoreID) Unmarshal(b []byte) error {
	*s = StoreID{}
	return wire.ConsumeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return wire.ConsumeSint64(typ, b, &s.CreationTime)
		case 2:
			return wire.ConsumeString(typ, b, &s.RandomID)
		case 3:
			return wire.ConsumeSint64(typ, b, &s.UpgradeTime)
		case 4:
			return wire.ConsumeString(typ, b, &s.UpgradeID)
		}
		return 0
	})
}
