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
	"context"
	"errors"
	"sync"
)

var ErrNoUpstream = errors.New("no upstream address available")

// AddressProvider resolves the address of the peer to pull state from.
type AddressProvider interface {
	Primary(ctx context.Context) (string, error)
}

// StaticAddressProvider hands out a fixed list of upstream addresses. The
// primary is the first one until Next is called.
type StaticAddressProvider struct {
	mu    sync.Mutex
	addrs []string
	idx   int
}

func NewStaticAddressProvider(addrs ...string) *StaticAddressProvider {
	return &StaticAddressProvider{
		addrs: append([]string(nil), addrs...),
	}
}

func (p *StaticAddressProvider) Primary(_ context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.addrs) == 0 {
		return "", ErrNoUpstream
	}
	return p.addrs[p.idx], nil
}

// Next makes the following address of the list the primary.
func (p *StaticAddressProvider) Next() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.addrs) > 0 {
		p.idx = (p.idx + 1) % len(p.addrs)
	}
}

// LeaderAddressProvider resolves the primary through a lookup, typically
// asking the consensus layer for the current leader.
type LeaderAddressProvider struct {
	lookup func(ctx context.Context) (string, error)
}

func NewLeaderAddressProvider(lookup func(ctx context.Context) (string, error)) *LeaderAddressProvider {
	return &LeaderAddressProvider{lookup: lookup}
}

func (p *LeaderAddressProvider) Primary(ctx context.Context) (string, error) {
	addr, err := p.lookup(ctx)
	if err != nil {
		return "", err
	}
	if addr == "" {
		return "", ErrNoUpstream
	}
	return addr, nil
}
