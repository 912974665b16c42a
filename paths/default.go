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

	"github.com/adrg/xdg"
)

// DefaultPaths follows the XDG base directory specification.
type DefaultPaths struct{}

func (p *DefaultPaths) ConfigPathFor(path ConfigPath) string {
	return filepath.Join(xdg.ConfigHome, string(path))
}

// CreateConfigPathFor builds the path and creates its parent directories.
func (p *DefaultPaths) CreateConfigPathFor(path ConfigPath) (string, error) {
	// xdg only creates the parents, a placeholder keeps the folder itself.
	file, err := xdg.ConfigFile(filepath.Join(string(path), ".keep"))
	if err != nil {
		return "", fmt.Errorf("couldn't create config path for %s: %w", path, err)
	}
	return filepath.Dir(file), nil
}

func (p *DefaultPaths) StatePathFor(path StatePath) string {
	return filepath.Join(xdg.DataHome, string(path))
}

// CreateStatePathFor builds the path and creates its parent directories.
func (p *DefaultPaths) CreateStatePathFor(path StatePath) (string, error) {
	file, err := xdg.DataFile(filepath.Join(string(path), ".keep"))
	if err != nil {
		return "", fmt.Errorf("couldn't create state path for %s: %w", path, err)
	}
	return filepath.Dir(file), nil
}
