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

// Package testing provides test helpers for zstags packages and commands.
//
// # Quick Start
//
// Use SetupTestBackend to create an in-memory embedded backend rooted at
// a temporary base directory:
//
//	func TestMyFeature(t *testing.T) {
//	    backend, base := testing.SetupTestBackend(t)
//	    path := testing.TempFile(t, base, "a.jpg", "")
//
//	    testing.SeedTags(t, backend, path, "beach", "summer")
//	    require.Equal(t, []string{"beach", "summer"}, testing.QueryTags(t, backend, path))
//	}
//
// Commands that open their backend from a spec string use
// SetupOnDiskBackend, which leaves an initialized database on disk and
// returns the spec that reopens it.
//
// # Extended Attributes
//
// Tests that exercise the xattr backend call RequireXattr first. It
// skips the test when the filesystem holding the temporary directory
// (tmpfs on some systems, overlayfs in containers) rejects user
// attributes.
package testing
