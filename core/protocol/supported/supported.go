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

package supported

import (
	"errors"
	"fmt"
	"strings"

	"code.vegaprotocol.io/coresync/core/catchup"
)

const (
	// RaftIdentifier identifies the consensus application protocol.
	RaftIdentifier = "raft"
	// CompressionIdentifier identifies the compression modifier protocol.
	CompressionIdentifier = "compression"
)

var (
	ErrUnknownCompression = errors.New("unknown compression")
	ErrInvalidVersion     = errors.New("protocol versions must be positive")
)

// Config lists the protocol versions the node accepts to speak, in order of
// preference.
type Config struct {
	RaftVersions []int    `description:"Versions of the raft protocol supported, in order of preference (none means all)" long:"raft-version"`
	Compression  []string `description:"Compressions supported on the catch-up transport, in order of preference"          long:"compression"`
}

func NewDefaultConfig() Config {
	return Config{}
}

// Validate checks every configured version is known.
func (c Config) Validate() error {
	for _, v := range c.RaftVersions {
		if v <= 0 {
			return fmt.Errorf("%w: raft version %d", ErrInvalidVersion, v)
		}
	}
	for _, name := range c.Compression {
		if !catchup.IsSupportedCompression(strings.ToLower(name)) {
			return fmt.Errorf("%w: %q", ErrUnknownCompression, name)
		}
	}
	return nil
}

// Protocols is a protocol and the versions of it supported, in order of
// preference. An empty list of versions means any.
type Protocols[V comparable] struct {
	Identifier string
	Versions   []V
}

// Creator builds the list of supported protocols out of the configuration.
type Creator struct {
	cfg Config
}

func NewCreator(cfg Config) *Creator {
	return &Creator{cfg: cfg}
}

func (c *Creator) RaftProtocol() Protocols[int] {
	return Protocols[int]{
		Identifier: RaftIdentifier,
		Versions:   append([]int{}, c.cfg.RaftVersions...),
	}
}

// ModifierProtocols returns the modifier protocols with at least one
// version configured.
func (c *Creator) ModifierProtocols() ([]Protocols[string], error) {
	if len(c.cfg.Compression) == 0 {
		return nil, nil
	}

	versions := make([]string, 0, len(c.cfg.Compression))
	for _, name := range c.cfg.Compression {
		name = strings.ToLower(strings.TrimSpace(name))
		if !catchup.IsSupportedCompression(name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCompression, name)
		}
		versions = append(versions, name)
	}

	return []Protocols[string]{{
		Identifier: CompressionIdentifier,
		Versions:   versions,
	}}, nil
}

// Compression returns the preferred compression of the catch-up transport,
// empty for none.
func (c *Creator) Compression() (string, error) {
	modifiers, err := c.ModifierProtocols()
	if err != nil {
		return "", err
	}
	for _, m := range modifiers {
		if m.Identifier == CompressionIdentifier && len(m.Versions) > 0 {
			return m.Versions[0], nil
		}
	}
	return "", nil
}
