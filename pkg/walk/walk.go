// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package walk

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/kraklabs/zstags/pkg/pathnorm"
)

// ErrNotDir is returned when the walk root is not a directory.
var ErrNotDir = errors.New("not a directory")

// Func is called for every visited entry with its absolute path.
// Returning filepath.SkipDir from a directory prunes it; any other
// non-nil error stops the walk and is returned by NonHidden.
type Func func(path string, d fs.DirEntry) error

// NonHidden walks root depth-first in lexical order and calls fn for
// the root itself and every entry whose name does not start with a
// dot. Hidden directories are pruned with everything below them.
// Entries whose names are not valid UTF-8 are skipped the same way.
//
// Relative paths are resolved against cwd. Unreadable entries are
// logged as walk.error and skipped.
func NonHidden(root, cwd string, logger *slog.Logger, fn Func) error {
	if logger == nil {
		logger = slog.Default()
	}
	absRoot := pathnorm.Absolute(root, cwd)

	info, err := os.Stat(absRoot)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &fs.PathError{Op: "walk", Path: root, Err: ErrNotDir}
	}

	return filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("walk.error", "path", path, "err", err)
			if d != nil && d.IsDir() && path != absRoot {
				return filepath.SkipDir
			}
			return nil
		}

		if path != absRoot && !Visible(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		return fn(filepath.Clean(path), d)
	})
}

// Paths collects the absolute paths NonHidden visits, root first.
func Paths(root, cwd string, logger *slog.Logger) ([]string, error) {
	var out []string
	err := NonHidden(root, cwd, logger, func(path string, _ fs.DirEntry) error {
		out = append(out, path)
		return nil
	})
	return out, err
}

// Visible reports whether an entry name takes part in a walk.
func Visible(name string) bool {
	return utf8.ValidString(name) && !strings.HasPrefix(name, ".")
}
