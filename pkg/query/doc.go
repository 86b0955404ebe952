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

// Package query decides whether a file's stored tags satisfy a tag query.
//
// A query is a set of tags and a fold operation. The operation compares
// the number of queried tags a file carries, n, against the query size:
//
//	&  (And)  n == len(query)
//	|  (Or)   n > 0
//	^  (Xor)  n == 1
//
// An empty query therefore matches every file under And and none under
// Or or Xor.
//
// # Usage
//
//	op, err := query.ParseFoldOp("|")
//	m := query.New(op, "beach", "sunset")
//	if m.Matches(path, backend) {
//		// link it
//	}
//
// Matches never fails: a file whose tags cannot be read is logged as
// "query.match.error" and treated as not matching.
package query
