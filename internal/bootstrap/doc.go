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

// Package bootstrap creates zstags tag databases.
//
// The embedded backend refuses to open a directory that holds no
// database, so every database is created once, explicitly:
//
//	info, err := bootstrap.InitDatabase(bootstrap.DatabaseConfig{
//	    DataDir: "/home/u/.zstags/db",
//	    BaseDir: "/home/u",
//	}, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(info.Spec) // persy:/home/u/.zstags/db:/home/u
//
// InitFromSpec does the same from a backend spec string, which is what
// `zstags init -b persy:<db>:<base>` calls.
//
// # Defaults
//
//   - DataDir: ~/.zstags/db
//   - BaseDir: the user's home directory
//
// Unlike the rest of the CLI, initialization is not idempotent: running
// it against an existing database fails with storage.ErrAlreadyInitialized.
package bootstrap
