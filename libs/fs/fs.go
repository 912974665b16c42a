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

package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrIsADirectory = errors.New("is a directory")

// EnsureDir creates the directory and its parents with owner-only access,
// if missing.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, os.ModeDir|0o700); err != nil {
		return fmt.Errorf("couldn't create directory %s: %w", path, err)
	}
	return nil
}

// PathExists reports whether something lives at the given path.
func PathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// FileExists reports whether a regular file lives at the given path. It
// fails if the path is a directory.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("%s: %w", path, ErrIsADirectory)
	}
	return true, nil
}

// DirEmpty reports whether the directory holds no entry at all. A missing
// directory is empty.
func DirEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return false, err
	}
	return len(entries) == 0, nil
}

// FilesMatching returns the regular files of dir matching the glob pattern.
func FilesMatching(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return nil, err
		}
		if info.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	return files, nil
}

// WriteFile writes the data with owner-only access, truncating any previous content.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("couldn't write file %s: %w", path, err)
	}
	return nil
}

func ReadFile(path string) ([]byte, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read file %s: %w", path, err)
	}
	return buf, nil
}
