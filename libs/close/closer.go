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

package close

import (
	"code.vegaprotocol.io/coresync/logging"
)

type closeFn struct {
	name string
	fn   func() error
}

type Closer struct {
	closeFns []closeFn
}

// Add adds a function to call during call to CloseAll.
func (c *Closer) Add(name string, fn func() error) {
	c.closeFns = append(c.closeFns, closeFn{name: name, fn: fn})
}

// CloseAll calls all close functions in reverse order, and logs the ones
// failing. It returns the number of failures.
// Higher level-components should be closed first, but are usually instantiated
// last (and, thus, added later to the closer), hence the reverse order.
func (c *Closer) CloseAll(log *logging.Logger) int {
	failed := 0
	for i := len(c.closeFns) - 1; i >= 0; i-- {
		if err := c.closeFns[i].fn(); err != nil {
			failed++
			log.Error("couldn't close "+c.closeFns[i].name, logging.Error(err))
		}
	}

	c.closeFns = []closeFn{}
	return failed
}

func NewCloser() *Closer {
	return &Closer{
		closeFns: []closeFn{},
	}
}
