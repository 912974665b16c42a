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

package lifecycle

import (
	"fmt"
	"sync"

	"code.vegaprotocol.io/coresync/logging"

	"github.com/hashicorp/go-multierror"
)

const namedLogger = "lifecycle"

// Component is started and stopped along with the other components of its
// group.
type Component interface {
	Start() error
	Stop() error
}

// Funcs adapts a pair of functions to a Component. A nil function is a
// no-op.
type Funcs struct {
	StartFn func() error
	StopFn  func() error
}

func (f Funcs) Start() error {
	if f.StartFn == nil {
		return nil
	}
	return f.StartFn()
}

func (f Funcs) Stop() error {
	if f.StopFn == nil {
		return nil
	}
	return f.StopFn()
}

type namedComponent struct {
	name string
	Component
}

// Group starts its components in the order they were added, and stops them
// in reverse order. Starting a started group, or stopping a stopped one,
// does nothing.
type Group struct {
	log *logging.Logger

	mu         sync.Mutex
	components []namedComponent
	running    bool
}

func NewGroup(log *logging.Logger) *Group {
	return &Group{
		log: log.Named(namedLogger),
	}
}

// Add adds a component to the group. A component added to a running group
// is started once the group is stopped and started again.
func (g *Group) Add(name string, c Component) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.components = append(g.components, namedComponent{name: name, Component: c})
}

func (g *Group) IsRunning() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}

// Start starts every component. When one fails, the ones already started
// are stopped again and the group stays stopped.
func (g *Group) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running {
		return nil
	}

	for i, c := range g.components {
		g.log.Debug("starting component", logging.String("component", c.name))
		if err := c.Start(); err != nil {
			var errs *multierror.Error
			errs = multierror.Append(errs, fmt.Errorf("couldn't start %s: %w", c.name, err))
			if stopErr := stopAll(g.log, g.components[:i]); stopErr != nil {
				errs = multierror.Append(errs, stopErr)
			}
			return errs.ErrorOrNil()
		}
	}

	g.running = true
	g.log.Info("components started", logging.Int("count", len(g.components)))
	return nil
}

// Stop stops every component, even when some fail to.
func (g *Group) Stop() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.running {
		return nil
	}
	g.running = false

	if err := stopAll(g.log, g.components); err != nil {
		return err
	}
	g.log.Info("components stopped", logging.Int("count", len(g.components)))
	return nil
}

// stopAll calls all stop functions in reverse order.
// Higher level-components should be stopped first, but are usually added
// last, hence the reverse order.
func stopAll(log *logging.Logger, components []namedComponent) error {
	var errs *multierror.Error
	for i := len(components) - 1; i >= 0; i-- {
		c := components[i]
		log.Debug("stopping component", logging.String("component", c.name))
		if err := c.Stop(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("couldn't stop %s: %w", c.name, err))
		}
	}
	return errs.ErrorOrNil()
}
