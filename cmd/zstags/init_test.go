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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/zstags/internal/errors"
	"github.com/kraklabs/zstags/internal/output"
	"github.com/kraklabs/zstags/pkg/storage"
)

func TestRunInit_SpecWritesConfig(t *testing.T) {
	cwd := t.TempDir()
	spec := "persy:db:."

	a := newTestApp(t, cwd, GlobalFlags{Backend: spec, JSON: true})
	require.NoError(t, a.dispatch("init", nil))

	var st output.Status
	require.NoError(t, json.Unmarshal(a.out.Bytes(), &st))
	assert.Equal(t, filepath.Join(cwd, "db"), st.DataDir)
	assert.Equal(t, cwd, st.BaseDir)
	assert.Equal(t, filepath.Join(cwd, ConfigDir, ConfigFile), st.ConfigFile)

	cfg, found, err := LoadConfig(st.ConfigFile)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, st.Backend, cfg.Backend)

	// later commands pick the database up from the config file
	note := filepath.Join(cwd, "note.txt")
	require.NoError(t, os.WriteFile(note, nil, 0o600))
	a = newTestApp(t, cwd, GlobalFlags{})
	require.NoError(t, a.dispatch("edit", []string{"-f", "note.txt", "+todo"}))

	a = newTestApp(t, cwd, GlobalFlags{JSON: true})
	require.NoError(t, a.dispatch("status", nil))
	require.NoError(t, json.Unmarshal(a.out.Bytes(), &st))
	assert.Equal(t, 1, st.Keys)
	assert.Equal(t, 1, st.Rows)
}

func TestRunInit_TildeSpec(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cwd := t.TempDir()

	a := newTestApp(t, cwd, GlobalFlags{Backend: "persy:~/.zstags/db:~", JSON: true})
	require.NoError(t, a.dispatch("init", []string{"--no-config"}))

	var st output.Status
	require.NoError(t, json.Unmarshal(a.out.Bytes(), &st))
	assert.Equal(t, filepath.Join(home, ".zstags", "db"), st.DataDir)
	assert.Equal(t, home, st.BaseDir)
	assert.NoDirExists(t, filepath.Join(cwd, "~"))
}

func TestRunInit_ExistingConfig(t *testing.T) {
	cwd := t.TempDir()

	a := newTestApp(t, cwd, GlobalFlags{Backend: "persy:db:.", Quiet: true})
	require.NoError(t, a.dispatch("init", nil))
	assert.Empty(t, a.out.String())

	a = newTestApp(t, cwd, GlobalFlags{Backend: "persy:db2:."})
	err := a.dispatch("init", nil)
	assert.Equal(t, errors.ExitConfig, exitCode(err))
	assert.NoDirExists(t, filepath.Join(cwd, "db2"))

	a = newTestApp(t, cwd, GlobalFlags{Backend: "persy:db2:."})
	require.NoError(t, a.dispatch("init", []string{"--force"}))
	assert.Contains(t, a.out.String(), "✓ Created tag database in "+filepath.Join(cwd, "db2"))

	cfg, _, err := LoadConfig(filepath.Join(cwd, ConfigDir, ConfigFile))
	require.NoError(t, err)
	assert.Equal(t, storage.PersySchema+":"+filepath.Join(cwd, "db2")+":"+cwd, cfg.Backend)
}

func TestRunInit_NoConfig(t *testing.T) {
	cwd := t.TempDir()
	db := filepath.Join(cwd, "store")

	a := newTestApp(t, cwd, GlobalFlags{JSON: true})
	require.NoError(t, a.dispatch("init", []string{"--db", db, "--base", cwd, "--no-config"}))

	var st output.Status
	require.NoError(t, json.Unmarshal(a.out.Bytes(), &st))
	assert.Empty(t, st.ConfigFile)
	assert.Equal(t, db, st.DataDir)
	assert.DirExists(t, db)
	assert.NoFileExists(t, filepath.Join(cwd, ConfigDir, ConfigFile))

	// the database already exists
	a = newTestApp(t, cwd, GlobalFlags{})
	err := a.dispatch("init", []string{"--db", db, "--base", cwd, "--no-config"})
	assert.Equal(t, errors.ExitDatabase, exitCode(err))
}

func TestRunInit_Errors(t *testing.T) {
	tests := []struct {
		name    string
		globals GlobalFlags
		args    []string
		code    int
	}{
		{"spec with --db", GlobalFlags{Backend: "persy:db:."}, []string{"--db", "x"}, errors.ExitInput},
		{"xattr spec", GlobalFlags{Backend: "xattr"}, nil, errors.ExitConfig},
		{"spec missing base", GlobalFlags{Backend: "persy:db"}, nil, errors.ExitConfig},
		{"colon in --db", GlobalFlags{}, []string{"--db", "a:b", "--base", "."}, errors.ExitConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t, t.TempDir(), tt.globals)
			err := a.dispatch("init", tt.args)
			require.Error(t, err)
			assert.Equal(t, tt.code, exitCode(err))
		})
	}
}
