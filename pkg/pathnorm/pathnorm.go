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

package pathnorm

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CurrentDir is the marker RelativeTo returns for identical paths.
const CurrentDir = "."

// Absolute returns path as a cleaned absolute path. A relative path is
// joined onto currentDir first.
func Absolute(path, currentDir string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(currentDir, path))
}

// RelativeTo returns the lexical path leading from base to path.
//
// Both arguments must be absolute; passing a relative path is a
// programming error and panics.
func RelativeTo(path, base string) string {
	mustBeAbs(path)
	mustBeAbs(base)

	rel, err := filepath.Rel(filepath.Clean(base), filepath.Clean(path))
	if err != nil {
		// no common root, e.g. C:\ and D:\
		return filepath.Clean(path)
	}
	return rel
}

// HasHomePrefix reports whether path is "~" or starts with "~/".
func HasHomePrefix(path string) bool {
	return path == "~" || strings.HasPrefix(path, "~"+string(filepath.Separator))
}

// ExpandHome replaces a leading "~" component of path with home. Other
// paths, including "~user/...", are returned unchanged.
func ExpandHome(path, home string) string {
	if !HasHomePrefix(path) {
		return path
	}
	return filepath.Join(home, path[1:])
}

// Join resolves a path produced by RelativeTo back onto base.
// Absolute fallbacks are returned as-is.
func Join(base, rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(base, rel)
}

func mustBeAbs(p string) {
	if !filepath.IsAbs(p) {
		panic(fmt.Sprintf("pathnorm: %q is not absolute", p))
	}
}
