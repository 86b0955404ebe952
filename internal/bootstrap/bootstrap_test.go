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

package bootstrap

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/zstags/pkg/storage"
)

func TestInitDatabase(t *testing.T) {
	root := t.TempDir()

	info, err := InitDatabase(DatabaseConfig{
		DataDir:    "db",
		BaseDir:    ".",
		CurrentDir: root,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "db"), info.DataDir)
	assert.Equal(t, root, info.BaseDir)
	assert.Equal(t, "persy:"+filepath.Join(root, "db")+":"+root, info.Spec)

	backend, err := storage.New(info.Spec, storage.Options{CurrentDir: root})
	require.NoError(t, err)
	require.NoError(t, backend.Close())
}

func TestInitDatabase_Twice(t *testing.T) {
	root := t.TempDir()
	cfg := DatabaseConfig{DataDir: "db", BaseDir: ".", CurrentDir: root}

	_, err := InitDatabase(cfg, nil)
	require.NoError(t, err)

	_, err = InitDatabase(cfg, nil)
	assert.ErrorIs(t, err, storage.ErrAlreadyInitialized)
}

func TestInitDatabase_ColonInPath(t *testing.T) {
	_, err := InitDatabase(DatabaseConfig{
		DataDir:    "/tmp/a:b",
		BaseDir:    "/tmp",
		CurrentDir: "/",
	}, nil)
	assert.True(t, storage.IsConfigError(err))
}

func TestInitFromSpec(t *testing.T) {
	tests := []struct {
		name string
		spec string
	}{
		{"plain", "persy:db:."},
		{"explicit init", "persy:db:.:init"},
		{"badger alias", "badger:db:."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			info, err := InitFromSpec(tt.spec, root, nil)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(root, "db"), info.DataDir)
		})
	}
}

func TestInitFromSpec_Rejects(t *testing.T) {
	for _, spec := range []string{"xattr", "persy:db", "persy:db:.:bogus", ""} {
		_, err := InitFromSpec(spec, t.TempDir(), nil)
		assert.True(t, storage.IsConfigError(err), "spec %q: %v", spec, err)
	}
}
