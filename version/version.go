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

// Package version reports the coresync release and the revision it was built from.
package version

import "runtime/debug"

const release = "v0.1.0+dev"

var commitHash = readCommitHash()

func readCommitHash() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}

	var hash string
	modified := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			hash = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if modified && hash != "" {
		hash += "-modified"
	}
	return hash
}

// Get returns the coresync release.
func Get() string {
	return release
}

// GetCommitHash returns the VCS revision, empty when the binary was built
// outside of a repository.
func GetCommitHash() string {
	return commitHash
}
