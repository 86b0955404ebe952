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

package storage

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/pkg/xattr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// xattrFile creates a temp file and skips the test when the filesystem
// under t.TempDir() does not support user extended attributes.
func xattrFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tagged.txt")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o600))

	if err := xattr.Set(path, "user.zstags_probe", []byte("1")); err != nil {
		t.Skipf("user xattrs not supported here: %v", err)
	}
	_ = xattr.Remove(path, "user.zstags_probe")
	return path
}

func TestDecodeTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want TagSet
	}{
		{"pipe separated", "red|blue", NewTagSet("red", "blue")},
		{"nul separated", "red\x00blue", NewTagSet("red", "blue")},
		{"mixed separators", "a|b\x00c", NewTagSet("a", "b", "c")},
		{"trailing separator", "a|", NewTagSet("a")},
		{"duplicates", "a|a|b", NewTagSet("a", "b")},
		{"empty payload", "", NewTagSet()},
		{"utf8", "ünï|日本", NewTagSet("ünï", "日本")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeTags([]byte(tt.raw))
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v got %v", tt.want, got)
		})
	}
}

func TestDecodeTags_InvalidUTF8(t *testing.T) {
	_, err := decodeTags([]byte("ok|\xff\xfe"))
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestEncodeTags(t *testing.T) {
	raw, err := encodeTags(NewTagSet("red", "blue"))
	require.NoError(t, err)
	assert.Equal(t, "blue|red", string(raw))

	for _, bad := range []string{"a|b", "a\x00b", ""} {
		_, err := encodeTags(NewTagSet(bad))
		assert.Error(t, err, "tag %q must be rejected", bad)
	}
}

func TestXattrBackend_RoundTrip(t *testing.T) {
	path := xattrFile(t)
	b := NewXattrBackend()
	defer func() { _ = b.Close() }()

	tags, err := b.Tags(path)
	require.NoError(t, err)
	assert.Equal(t, 0, tags.Len(), "untagged file has no tags")

	for _, want := range []TagSet{NewTagSet("a"), NewTagSet("x", "y", "z"), NewTagSet()} {
		require.NoError(t, b.SetTags(path, want))
		got, err := b.Tags(path)
		require.NoError(t, err)
		assert.True(t, want.Equal(got), "want %v got %v", want, got)
	}
}

func TestXattrBackend_WireFormat(t *testing.T) {
	path := xattrFile(t)
	b := NewXattrBackend()

	require.NoError(t, b.SetTags(path, NewTagSet("red", "blue")))

	raw, err := xattr.Get(path, AttrName)
	require.NoError(t, err)
	parts := strings.Split(string(raw), "|")
	sort.Strings(parts)
	assert.Equal(t, []string{"blue", "red"}, parts)
	assert.False(t, strings.HasSuffix(string(raw), "|"))
}

func TestXattrBackend_EmptySetRemovesAttribute(t *testing.T) {
	path := xattrFile(t)
	b := NewXattrBackend()

	require.NoError(t, b.SetTags(path, NewTagSet("a")))
	require.NoError(t, b.SetTags(path, NewTagSet()))

	names, err := xattr.List(path)
	require.NoError(t, err)
	assert.NotContains(t, names, AttrName)

	// clearing an already clear file is benign
	require.NoError(t, b.SetTags(path, NewTagSet()))
}

func TestXattrBackend_ReadsLegacyNulPayload(t *testing.T) {
	path := xattrFile(t)
	require.NoError(t, xattr.Set(path, AttrName, []byte("old\x00style")))

	tags, err := NewXattrBackend().Tags(path)
	require.NoError(t, err)
	assert.True(t, tags.Equal(NewTagSet("old", "style")))
}

func TestXattrBackend_InvalidPayload(t *testing.T) {
	path := xattrFile(t)
	require.NoError(t, xattr.Set(path, AttrName, []byte{0xff, '|', 'o', 'k'}))

	_, err := NewXattrBackend().Tags(path)
	require.Error(t, err)

	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, XattrSchema, se.Backend)
	assert.Equal(t, path, se.Path)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestXattrBackend_AddDeleteTag(t *testing.T) {
	path := xattrFile(t)
	b := NewXattrBackend()

	for i := 0; i < 2; i++ {
		_, err := AddTag(b, path, "once")
		require.NoError(t, err)
	}
	tags, err := b.Tags(path)
	require.NoError(t, err)
	assert.True(t, tags.Equal(NewTagSet("once")))

	changed, err := DeleteTag(b, path, "missing")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = DeleteTag(b, path, "once")
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestXattrBackend_MissingFile(t *testing.T) {
	b := NewXattrBackend()
	missing := filepath.Join(t.TempDir(), "nope")

	_, err := b.Tags(missing)
	require.Error(t, err)
	assert.True(t, IsStorageError(err))

	err = b.SetTags(missing, NewTagSet("a"))
	assert.True(t, IsStorageError(err))
}

func TestXattrBackend_AfterClose(t *testing.T) {
	b := NewXattrBackend()
	require.NoError(t, b.Close())

	_, err := b.Tags("whatever")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, b.SetTags("whatever", NewTagSet()), ErrClosed)
}
