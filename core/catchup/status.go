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
	"fmt"
)

// Status is the outcome of a streaming catch-up call, sent by the server in
// the last message of the stream.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusSuccessEndOfStream
	StatusStoreIDMismatch
	StatusStoreUnavailable
	StatusTransactionPruned
	StatusInvalidRequest
	StatusGeneralError
)

func (s Status) String() string {
	switch s {
	case StatusSuccessEndOfStream:
		return "SUCCESS_END_OF_STREAM"
	case StatusStoreIDMismatch:
		return "E_STORE_ID_MISMATCH"
	case StatusStoreUnavailable:
		return "E_STORE_UNAVAILABLE"
	case StatusTransactionPruned:
		return "E_TRANSACTION_PRUNED"
	case StatusInvalidRequest:
		return "E_INVALID_REQUEST"
	case StatusGeneralError:
		return "E_GENERAL_ERROR"
	default:
		return "UNKNOWN"
	}
}

// StatusError is returned when a stream ends with anything but
// StatusSuccessEndOfStream.
type StatusError struct {
	Status  Status
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("catch-up ended with %s", e.Status)
	}
	return fmt.Sprintf("catch-up ended with %s: %s", e.Status, e.Message)
}
