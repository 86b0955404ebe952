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

// Package pathnorm converts caller-supplied filesystem paths into the
// canonical form used as tag storage keys.
//
// All functions are lexical: they never touch the filesystem and never
// resolve symlinks. The process working directory is never read here;
// callers pass it in explicitly, which keeps key derivation reproducible
// in tests.
//
// # Absolute paths
//
//	pathnorm.Absolute("docs/../a.txt", "/home/u") // "/home/u/a.txt"
//	pathnorm.Absolute("/tmp//x/./y", "/ignored")   // "/tmp/x/y"
//
// # Relative paths
//
// RelativeTo computes the path from base to target by counting the
// shared leading components, emitting ".." for each remaining base
// component and then the remaining target components:
//
//	pathnorm.RelativeTo("/a/b/c", "/a")     // "b/c"
//	pathnorm.RelativeTo("/a", "/a/b/c")     // "../.."
//	pathnorm.RelativeTo("/a/b", "/a/b")     // "."
//
// When no relative path exists (different volumes on Windows) the
// absolute target is returned unchanged.
package pathnorm
