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

// Package storage provides the tag storage abstraction for zstags.
//
// This package defines the Backend interface that lets the zstags tools
// read and replace the tag set of a file without knowing where tags are
// kept. Two backends are available:
//
//   - XattrBackend: tags live in the user.zstags extended attribute of
//     the file itself
//   - EmbeddedBackend: tags live in a local BadgerDB database, keyed by
//     the file's path relative to a normalization base directory
//
// # Quick Start
//
// Select a backend with a specification string and read or write tags:
//
//	backend, err := storage.New("persy:/home/u/.zstags/db:/home/u", storage.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	if _, err := storage.AddTag(backend, "photos/cat.jpg", "cute"); err != nil {
//	    log.Fatal(err)
//	}
//	tags, err := backend.Tags("photos/cat.jpg")
//
// # Specification Strings
//
// A specification has the form "schema[:arg1[:arg2...]]":
//
//	xattr                              extended attributes, no arguments
//	persy:<database>:<base>            open an existing database
//	persy:<database>:<base>:init       create a new database
//
// "badger" is accepted as an alias of "persy". Unknown schemas and wrong
// argument counts fail with *ConfigError.
//
// # Extended Attribute Format
//
// XattrBackend writes the tags joined by '|' as UTF-8, without a trailing
// separator. On read both '|' and NUL separate tags.
//
// # Index Layout
//
// EmbeddedBackend keeps one cluster index named "zstags": every tag of a
// file is its own row under the file's key, so replacing a set is a
// delete-by-key followed by one insert per tag, all in one transaction.
//
// # Convenience Operations
//
// AddTag and DeleteTag are built on Tags and SetTags. A backend may
// provide an atomic single-row variant by implementing TagAdder and
// TagDeleter; EmbeddedBackend does.
//
// # Errors
//
// Construction problems are *ConfigError. Failures of individual
// operations are *StorageError carrying the backend name, the operation
// and the path. Both wrap sentinel errors such as ErrArgCount or
// ErrInvalidUTF8 for errors.Is.
//
// # Thread Safety
//
// Calls through one backend value are serialized. EmbeddedBackend allows
// concurrent reads. Neither backend coordinates with other processes
// beyond what the storage itself does: BadgerDB refuses to open a
// database locked by another process, and extended attribute updates
// from two processes can overwrite each other.
//
// # Metrics
//
// Instrument wraps a backend and records per-operation counters and
// latencies in MetricsRegistry; WriteMetricsFile exports them in the
// node_exporter textfile format.
package storage
