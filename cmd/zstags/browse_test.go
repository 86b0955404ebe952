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

package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/zstags/internal/errors"
	"github.com/kraklabs/zstags/internal/output"
	zstest "github.com/kraklabs/zstags/internal/testing"
)

func TestLinkName(t *testing.T) {
	tests := []struct {
		i, width int
		path     string
		want     string
	}{
		{0, 1, "/a/photo.jpg", "0.jpg"},
		{7, 2, "/a/photo.jpg", "07.jpg"},
		{12, 3, "/a/archive.tar.gz", "012.gz"},
		{3, 1, "/a/README", "3"},
		{4, 1, "/a/dir.d", "4.d"},
		{5, 1, "/a/trailing.", "5"},
		{6, 1, "/a/.profile", "6"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, linkName(tt.i, tt.width, tt.path), tt.path)
	}
}

func TestPrepareTarget(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "view")
	zstest.TempFile(t, target, "stale/link", "")

	require.NoError(t, prepareTarget(target, filepath.Join(root, "src")))
	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	assert.Empty(t, entries, "target is recreated empty")

	err = prepareTarget(root, filepath.Join(root, "src"))
	assert.Equal(t, errors.ExitInput, exitCode(err), "target containing source")

	err = prepareTarget(root, root)
	assert.Equal(t, errors.ExitInput, exitCode(err), "target equals source")

	require.NoError(t, prepareTarget(filepath.Join(root, "src", "view"), filepath.Join(root, "src")),
		"target inside source is allowed")
}

func TestCreateLinks(t *testing.T) {
	root := t.TempDir()
	a := zstest.TempFile(t, root, "src/a.jpg", "")
	b := zstest.TempFile(t, root, "src/sub/b.png", "")
	target := filepath.Join(root, "view")
	require.NoError(t, os.MkdirAll(target, 0o750))
	// occupy the second link name so its creation fails
	require.NoError(t, os.WriteFile(filepath.Join(target, "1.png"), nil, 0o600))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	entries := createLinks(target, []string{a, b}, logger)
	require.Len(t, entries, 2)

	assert.Equal(t, output.LinkEntry{Name: "0.jpg", Target: "../src/a.jpg"}, entries[0])
	link, err := os.Readlink(filepath.Join(target, "0.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "../src/a.jpg", link)

	data, err := os.ReadFile(filepath.Join(target, "0.jpg"))
	require.NoError(t, err, "link resolves")
	assert.Empty(t, data)

	assert.Equal(t, "1.png", entries[1].Name)
	assert.NotEmpty(t, entries[1].Error)
}

func TestRunBrowse(t *testing.T) {
	spec, base := zstest.SetupOnDiskBackend(t)
	zstest.TempFile(t, base, "src/a.jpg", "")
	zstest.TempFile(t, base, "src/b.jpg", "")
	zstest.TempFile(t, base, "src/c.txt", "")
	zstest.TempFile(t, base, "src/.d.jpg", "")

	a := newTestApp(t, base, GlobalFlags{Backend: spec})
	require.NoError(t, a.dispatch("edit", []string{"-f", "src/a.jpg", "+x"}))
	require.NoError(t, a.dispatch("edit", []string{"-f", "src/b.jpg", "+x", "+y"}))
	require.NoError(t, a.dispatch("edit", []string{"-f", "src/c.txt", "+y"}))
	require.NoError(t, a.dispatch("edit", []string{"-f", "src/.d.jpg", "+x"}))

	tests := []struct {
		name    string
		op      string
		want    []string
		targets []string
	}{
		{"and", "&", []string{"0.jpg"}, []string{"../src/b.jpg"}},
		{"or", "|", []string{"0.jpg", "1.jpg", "2.txt"}, []string{"../src/a.jpg", "../src/b.jpg", "../src/c.txt"}},
		{"xor", "^", []string{"0.jpg", "1.txt"}, []string{"../src/a.jpg", "../src/c.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t, base, GlobalFlags{Backend: spec, JSON: true})
			require.NoError(t, a.dispatch("browse", []string{
				"--source", "src", "--target", "view", "-o", tt.op, "x", "y",
			}))

			var entries []output.LinkEntry
			require.NoError(t, json.Unmarshal(a.out.Bytes(), &entries))
			var names, targets []string
			for _, e := range entries {
				assert.Empty(t, e.Error)
				names = append(names, e.Name)
				targets = append(targets, e.Target)
			}
			assert.Equal(t, tt.want, names)
			assert.Equal(t, tt.targets, targets)

			dirEntries, err := os.ReadDir(filepath.Join(base, "view"))
			require.NoError(t, err)
			assert.Len(t, dirEntries, len(tt.want), "old links are gone")
		})
	}
}

func TestRunBrowse_TextOutputAndDefaultOp(t *testing.T) {
	spec, base := zstest.SetupOnDiskBackend(t)
	zstest.TempFile(t, base, "src/a.jpg", "")

	a := newTestApp(t, base, GlobalFlags{Backend: spec})
	require.NoError(t, a.dispatch("edit", []string{"-f", "src/a.jpg", "+x"}))
	require.NoError(t, a.dispatch("browse", []string{"--source", "src", "--target", "view", "x"}))

	assert.Equal(t, "0.jpg -> ../src/a.jpg", strings.TrimSpace(a.out.String()))
}

func TestRunBrowse_Errors(t *testing.T) {
	base := t.TempDir()
	file := zstest.TempFile(t, base, "f", "")

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no query", []string{"--source", ".", "--target", "/tmp/v"}, errors.ExitInput},
		{"no target", []string{"--source", ".", "x"}, errors.ExitInput},
		{"bad op", []string{"--source", ".", "--target", "v", "-o", "!", "x"}, errors.ExitInput},
		{"source is file", []string{"--source", file, "--target", "v", "x"}, errors.ExitInput},
		{"target holds source", []string{"--source", ".", "--target", "..", "x"}, errors.ExitInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t, base, GlobalFlags{Backend: "xattr"})
			err := a.dispatch("browse", tt.args)
			require.Error(t, err)
			assert.Equal(t, tt.code, exitCode(err))
		})
	}
}
