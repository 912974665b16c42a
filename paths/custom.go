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

package paths

import (
	"fmt"
	"path/filepath"

	vgfs "code.vegaprotocol.io/coresync/libs/fs"
)

// CustomPaths puts everything under a single home folder.
type CustomPaths struct {
	CustomHome string
}

func (p *CustomPaths) ConfigPathFor(path ConfigPath) string {
	return filepath.Join(p.CustomHome, "config", string(path))
}

func (p *CustomPaths) CreateConfigPathFor(path ConfigPath) (string, error) {
	full := p.ConfigPathFor(path)
	if err := vgfs.EnsureDir(full); err != nil {
		return "", fmt.Errorf("couldn't create config path for %s: %w", path, err)
	}
	return full, nil
}

func (p *CustomPaths) StatePathFor(path StatePath) string {
	return filepath.Join(p.CustomHome, "state", string(path))
}

func (p *CustomPaths) CreateStatePathFor(path StatePath) (string, error) {
	full := p.StatePathFor(path)
	if err := vgfs.EnsureDir(full); err != nil {
		return "", fmt.Errorf("couldn't create state path for %s: %w", path, err)
	}
	return full, nil
}
