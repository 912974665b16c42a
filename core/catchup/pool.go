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
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ConnPool keeps the most recently used peer connections open. Evicted
// connections are closed.
type ConnPool struct {
	mu       sync.Mutex
	conns    *lru.Cache[string, *grpc.ClientConn]
	dialOpts []grpc.DialOption
}

func NewConnPool(size int, opts ...grpc.DialOption) (*ConnPool, error) {
	conns, err := lru.NewWithEvict[string, *grpc.ClientConn](size, func(_ string, conn *grpc.ClientConn) {
		_ = conn.Close()
	})
	if err != nil {
		return nil, err
	}

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(codec{})),
	}

	return &ConnPool{
		conns:    conns,
		dialOpts: append(dialOpts, opts...),
	}, nil
}

// Get returns the connection to addr, creating it when needed.
func (p *ConnPool) Get(addr string) (*grpc.ClientConn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if conn, ok := p.conns.Get(addr); ok {
		return conn, nil
	}

	conn, err := grpc.NewClient(addr, p.dialOpts...)
	if err != nil {
		return nil, err
	}
	p.conns.Add(addr, conn)
	return conn, nil
}

// Remove closes the connection to addr, if any.
func (p *ConnPool) Remove(addr string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conns.Remove(addr)
}

func (p *ConnPool) Len() int {
	return p.conns.Len()
}

// Close closes every connection of the pool.
func (p *ConnPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conns.Purge()
	return nil
}
