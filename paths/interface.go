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

// Paths abstracts the location of the files of the node, so the layout can
// be relocated under a custom home.
type Paths interface {
	ConfigPathFor(ConfigPath) string
	CreateConfigPathFor(ConfigPath) (string, error)
	StatePathFor(StatePath) string
	CreateStatePathFor(StatePath) (string, error)
}

// New instantiates the specific implementation of the Paths interface based on
// the value of the customHome. If a customHome is specified the custom
// implementation CustomPaths is returned, the standard DefaultPaths otherwise.
func New(customHome string) Paths {
	if len(customHome) != 0 {
		return &CustomPaths{
			CustomHome: customHome,
		}
	}

	return &DefaultPaths{}
}
