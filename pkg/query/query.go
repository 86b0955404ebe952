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

package query

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kraklabs/zstags/pkg/storage"
)

// FoldOp is the rule combining the query tags against a file's tags.
type FoldOp int

const (
	// And matches files carrying every queried tag.
	And FoldOp = iota
	// Or matches files carrying at least one queried tag.
	Or
	// Xor matches files carrying exactly one of the queried tags.
	Xor
)

// String returns the canonical operator symbol.
func (op FoldOp) String() string {
	switch op {
	case And:
		return "&"
	case Or:
		return "|"
	case Xor:
		return "^"
	default:
		return fmt.Sprintf("FoldOp(%d)", int(op))
	}
}

// ParseFoldOp parses an operator as accepted on the command line.
func ParseFoldOp(s string) (FoldOp, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "&", "&&", "and":
		return And, nil
	case "|", "||", "or":
		return Or, nil
	case "^", "^^", "xor":
		return Xor, nil
	}
	return And, fmt.Errorf("invalid fold operation %q (want one of & | ^)", s)
}

// Matcher holds a fold operation and a fixed query set.
type Matcher struct {
	Op     FoldOp
	Tags   storage.TagSet
	Logger *slog.Logger
}

// New returns a Matcher for tags combined with op.
func New(op FoldOp, tags ...string) *Matcher {
	return &Matcher{Op: op, Tags: storage.NewTagSet(tags...)}
}

// Matches reports whether the tags stored for path satisfy the query.
// A file whose tags cannot be read never matches; the failure is logged
// and the caller carries on with the next candidate.
func (m *Matcher) Matches(path string, b storage.Backend) bool {
	tags, err := b.Tags(path)
	if err != nil {
		m.logger().Warn("query.match.error", "path", path, "err", err)
		return false
	}
	return m.Eval(tags)
}

// Eval applies the fold to an already loaded tag set.
func (m *Matcher) Eval(fileTags storage.TagSet) bool {
	n := m.Tags.IntersectCount(fileTags)
	switch m.Op {
	case And:
		return n == m.Tags.Len()
	case Or:
		return n != 0
	case Xor:
		return n == 1
	}
	return false
}

func (m *Matcher) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}
