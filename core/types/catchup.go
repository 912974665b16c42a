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

// CatchupResult is the outcome of pulling transactions from a remote store.
// It has three cases only: the details of a failure travel in the error
// returned alongside CatchupFailed. The zero value is a failure.
type CatchupResult uint8

const (
	// CatchupFailed covers every outcome but the two below.
	CatchupFailed CatchupResult = iota
	// CatchupSuccessEndOfStream means all transactions up to the remote's
	// latest were applied.
	CatchupSuccessEndOfStream
	// CatchupTransactionPruned means the remote no longer holds transactions
	// the local store needs.
	CatchupTransactionPruned
)

func (r CatchupResult) String() string {
	switch r {
	case CatchupSuccessEndOfStream:
		return "SUCCESS_END_OF_STREAM"
	case CatchupTransactionPruned:
		return "E_TRANSACTION_PRUNED"
	default:
		return "E_FAILED"
	}
}

// CommitProcess commits replicated transactions to a started store.
type CommitProcess interface {
	// Commit appends a transaction made of the given ops, replicated at
	// logIndex, and returns the new position.
	Commit(logIndex int64, ops []Op) (CommitPosition, error)
	Position() CommitPosition
}
