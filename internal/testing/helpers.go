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

package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/xattr"

	"github.com/kraklabs/zstags/pkg/storage"
)

// SetupTestBackend creates an in-memory embedded backend for testing.
// The backend is automatically closed when the test finishes.
//
// This helper:
//   - Creates a temporary directory used as the normalization base
//   - Initializes an in-memory database with the zstags index
//   - Registers cleanup to close the backend
//
// Relative paths passed to the backend resolve against the base
// directory, which is returned alongside it.
//
// Example:
//
//	func TestMyFeature(t *testing.T) {
//	    backend, base := testing.SetupTestBackend(t)
//	    testing.SeedTags(t, backend, filepath.Join(base, "a.jpg"), "beach")
//	    // Run your tests...
//	}
func SetupTestBackend(t *testing.T) (*storage.EmbeddedBackend, string) {
	t.Helper()

	base := t.TempDir()
	backend, err := storage.NewEmbeddedBackend(storage.EmbeddedConfig{
		BaseDir:    base,
		CurrentDir: base,
		InMemory:   true,
		Init:       true,
	})
	if err != nil {
		t.Fatalf("failed to create test backend: %v", err)
	}

	t.Cleanup(func() {
		_ = backend.Close()
	})

	return backend, base
}

// SetupOnDiskBackend initializes a database under a temporary directory
// and returns the backend spec string that reopens it, without the init
// modifier. The database is closed again before returning so the caller
// can open it through storage.New.
//
// Example:
//
//	spec, base := testing.SetupOnDiskBackend(t)
//	backend, err := storage.New(spec, storage.Options{CurrentDir: base})
func SetupOnDiskBackend(t *testing.T) (spec, base string) {
	t.Helper()

	root := t.TempDir()
	base = filepath.Join(root, "files")
	db := filepath.Join(root, "db")
	if err := os.MkdirAll(base, 0o750); err != nil {
		t.Fatalf("failed to create base dir: %v", err)
	}

	backend, err := storage.NewEmbeddedBackend(storage.EmbeddedConfig{
		DataDir:    db,
		BaseDir:    base,
		CurrentDir: base,
		Init:       true,
	})
	if err != nil {
		t.Fatalf("failed to init database: %v", err)
	}
	if err := backend.Close(); err != nil {
		t.Fatalf("failed to close database: %v", err)
	}

	return storage.PersySchema + ":" + db + ":" + base, base
}

// TempFile writes content to dir/name, creating parent directories, and
// returns the absolute path.
//
// Example:
//
//	path := testing.TempFile(t, base, "photos/a.jpg", "jpeg")
func TempFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		t.Fatalf("failed to resolve %s: %v", path, err)
	}
	return abs
}

// SeedTags replaces the tags stored for path.
func SeedTags(t *testing.T, backend storage.Backend, path string, tags ...string) {
	t.Helper()

	if err := backend.SetTags(path, storage.NewTagSet(tags...)); err != nil {
		t.Fatalf("failed to seed tags for %s: %v", path, err)
	}
}

// QueryTags returns the tags stored for path in sorted order.
func QueryTags(t *testing.T, backend storage.Backend, path string) []string {
	t.Helper()

	tags, err := backend.Tags(path)
	if err != nil {
		t.Fatalf("failed to read tags for %s: %v", path, err)
	}
	return tags.Sorted()
}

// RequireXattr skips the test unless user extended attributes can be
// written to files under dir.
//
// Example:
//
//	dir := t.TempDir()
//	testing.RequireXattr(t, dir)
func RequireXattr(t *testing.T, dir string) {
	t.Helper()

	probe := filepath.Join(dir, ".zstags-xattr-probe")
	if err := os.WriteFile(probe, nil, 0o600); err != nil {
		t.Fatalf("failed to create probe file: %v", err)
	}
	defer func() { _ = os.Remove(probe) }()

	if err := xattr.Set(probe, "user.zstags_probe", []byte("1")); err != nil {
		t.Skipf("user xattrs not supported in %s: %v", dir, err)
	}
}
