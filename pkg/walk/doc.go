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

// Package walk iterates directory trees the way the zstags tools see
// them: hidden entries are left out and every path is made absolute.
//
// An entry is hidden when its name starts with '.' or is not valid
// UTF-8. Hidden directories are pruned with everything below them. The
// root itself is always visited, even when its own name is hidden.
//
// Entries that cannot be read are logged as "walk.error" and skipped;
// the walk only fails when the root is missing or not a directory
// (ErrNotDir) or when the callback returns an error.
//
//	paths, err := walk.Paths("photos", cwd, logger)
package walk
