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

// Package contract provides validation constants and utilities for zstags.
//
// The CLI checks user-supplied tags here before they reach a backend, so
// a bad modifier is reported as input error rather than a storage failure.
//
// # Tag Rules
//
//	result := contract.ValidateTag("holiday")
//	if !result.OK {
//	    log.Printf("invalid tag: %s", result.Message)
//	}
//
// A tag must be non-empty valid UTF-8 of at most TagMaxBytes bytes, free
// of the separators '|' and NUL and of surrounding whitespace.
//
// # Set Size Limits
//
// The encoded tag set of one file (tags joined with '|') is kept under a
// soft limit so it fits into a single extended attribute value:
//
//	limit := contract.SoftLimitBytes() // 64 KiB by default
//
// The limit can be adjusted via the ZSTAGS_SOFT_LIMIT_BYTES environment
// variable, e.g. for filesystems with smaller attribute limits:
//
//	export ZSTAGS_SOFT_LIMIT_BYTES=4000  # ext4 with 4 KiB blocks
//
// If the environment variable is not set or invalid, DefaultSoftLimitBytes
// is used.
package contract
