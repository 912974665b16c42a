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
	"path/filepath"
)

// ConfigPath is a path, relative to the configuration home, holding files
// edited by operators.
type ConfigPath string

// StatePath is a path, relative to the state home, holding files managed by
// the node itself.
type StatePath string

const (
	// CoreSyncConfigHome is the folder of the configuration of the node.
	CoreSyncConfigHome ConfigPath = "coresync"
	// StoreStateHome is the folder of the local store.
	StoreStateHome StatePath = "coresync/store"

	// ConfigFile is the file name of the configuration, in CoreSyncConfigHome.
	ConfigFile = "config.toml"
)

// JoinConfigPath joins any number of path elements with a root config path.
func JoinConfigPath(p ConfigPath, elem ...string) ConfigPath {
	return ConfigPath(filepath.Join(append([]string{string(p)}, elem...)...))
}

// JoinStatePath joins any number of path elements with a root state path.
func JoinStatePath(p StatePath, elem ...string) StatePath {
	return StatePath(filepath.Join(append([]string{string(p)}, elem...)...))
}

// ConfigFilePath returns the path of the configuration file of the node.
func ConfigFilePath(p Paths) string {
	return filepath.Join(p.ConfigPathFor(CoreSyncConfigHome), ConfigFile)
}
