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
	"errors"

	"code.vegaprotocol.io/coresync/core/types"
)

var (
	ErrPaused           = errors.New("state machines are paused")
	ErrNoCommitProcess  = errors.New("no commit process installed")
	ErrUnknownCommand   = errors.New("unknown command")
	ErrUnknownTokenType = errors.New("unknown token type")
)

// TokenType names a table of tokens, each mapping names to ids.
type TokenType uint8

const (
	TokenLabel TokenType = iota + 1
	TokenPropertyKey
	TokenRelationshipType
)

func (t TokenType) String() string {
	switch t {
	case TokenLabel:
		return "label"
	case TokenPropertyKey:
		return "property-key"
	case TokenRelationshipType:
		return "relationship-type"
	default:
		return "unknown"
	}
}

// Command is a replicated command, applied to the state machines once the
// consensus log commits it.
type Command interface {
	isCommand()
}

// TokenRequest asks for the id of a token, allocating it if needed.
type TokenRequest struct {
	Type TokenType
	Name string
}

// LockTokenRequest asks for the cluster wide lock token to move to Owner.
// It is only granted if CandidateID follows the current token id.
type LockTokenRequest struct {
	Owner       string
	CandidateID int64
}

// TransactionRequest commits Ops to the local store. It is rejected unless
// issued under the current lock token.
type TransactionRequest struct {
	LockTokenID int64
	Ops         []types.Op
}

func (TokenRequest) isCommand()       {}
func (LockTokenRequest) isCommand()   {}
func (TransactionRequest) isCommand() {}

// Result is the outcome of an applied command.
type Result struct {
	// Skipped is set when the command was already reflected in the state.
	Skipped bool
	// Accepted tells whether a lock token or transaction request was granted.
	Accepted bool
	TokenID  int64
	Position types.CommitPosition
}
