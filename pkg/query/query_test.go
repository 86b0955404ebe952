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
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/zstags/pkg/storage"
)

type fixedBackend struct {
	tags storage.TagSet
	err  error
}

func (f fixedBackend) Name() string { return "fixed" }
func (f fixedBackend) Tags(string) (storage.TagSet, error) {
	return f.tags, f.err
}
func (f fixedBackend) SetTags(string, storage.TagSet) error { return nil }
func (f fixedBackend) Close() error                         { return nil }

func TestParseFoldOp(t *testing.T) {
	tests := []struct {
		in   string
		want FoldOp
	}{
		{"&", And}, {"&&", And}, {"and", And},
		{"|", Or}, {"||", Or}, {"OR", Or},
		{"^", Xor}, {"^^", Xor}, {"xor", Xor},
	}
	for _, tt := range tests {
		got, err := ParseFoldOp(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "+", "nand", "&|"} {
		_, err := ParseFoldOp(bad)
		assert.Error(t, err, bad)
	}
}

func TestFoldOpString(t *testing.T) {
	assert.Equal(t, "&", And.String())
	assert.Equal(t, "|", Or.String())
	assert.Equal(t, "^", Xor.String())
	assert.Equal(t, "FoldOp(7)", FoldOp(7).String())
}

func TestMatcher_Matches(t *testing.T) {
	tests := []struct {
		name     string
		fileTags storage.TagSet
		and      bool
		or       bool
		xor      bool
	}{
		{"one of two", storage.NewTagSet("x"), false, true, true},
		{"both", storage.NewTagSet("x", "y"), true, true, false},
		{"both plus extra", storage.NewTagSet("x", "y", "z"), true, true, false},
		{"unrelated", storage.NewTagSet("z"), false, false, false},
		{"untagged", storage.NewTagSet(), false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := fixedBackend{tags: tt.fileTags}
			assert.Equal(t, tt.and, New(And, "x", "y").Matches("f", b), "and")
			assert.Equal(t, tt.or, New(Or, "x", "y").Matches("f", b), "or")
			assert.Equal(t, tt.xor, New(Xor, "x", "y").Matches("f", b), "xor")
		})
	}
}

func TestMatcher_EmptyQuery(t *testing.T) {
	b := fixedBackend{tags: storage.NewTagSet("x")}
	assert.True(t, New(And).Matches("f", b), "empty AND query matches everything")
	assert.False(t, New(Or).Matches("f", b))
	assert.False(t, New(Xor).Matches("f", b))
}

func TestMatcher_ReadErrorNeverMatches(t *testing.T) {
	var buf bytes.Buffer
	m := New(Or, "x")
	m.Logger = slog.New(slog.NewTextHandler(&buf, nil))

	b := fixedBackend{err: errors.New("permission denied")}
	assert.False(t, m.Matches("/data/secret", b))
	assert.Contains(t, buf.String(), "query.match.error")
	assert.Contains(t, buf.String(), "/data/secret")
}
