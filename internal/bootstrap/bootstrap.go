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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kraklabs/zstags/pkg/storage"
)

// DatabaseConfig holds configuration for creating a tag database.
type DatabaseConfig struct {
	// DataDir is the directory the database lives in.
	// Defaults to ~/.zstags/db
	DataDir string

	// BaseDir is the normalization base for stored paths.
	// Defaults to the user's home directory.
	BaseDir string

	// CurrentDir resolves relative DataDir and BaseDir.
	// Defaults to the process working directory.
	CurrentDir string
}

// DatabaseInfo describes an initialized database.
type DatabaseInfo struct {
	// Spec reopens the database; it never carries the init modifier.
	Spec    string
	DataDir string
	BaseDir string
}

// DefaultDataDir returns ~/.zstags/db.
func DefaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, ".zstags", "db"), nil
}

// InitDatabase creates a new embedded tag database and registers its
// index. It fails if a database already exists at DataDir.
//
// After successful initialization the database is closed again and the
// returned Spec opens it with storage.New.
func InitDatabase(config DatabaseConfig, logger *slog.Logger) (*DatabaseInfo, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if config.CurrentDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		config.CurrentDir = cwd
	}
	if config.DataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, err
		}
		config.DataDir = dir
	}
	if config.BaseDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		config.BaseDir = homeDir
	}

	for _, p := range []string{config.DataDir, config.BaseDir} {
		if strings.Contains(p, ":") {
			return nil, &storage.ConfigError{
				Msg: fmt.Sprintf("path %q contains ':' and cannot be written to a backend spec", p),
				Err: storage.ErrArgCount,
			}
		}
	}

	logger.Info("bootstrap.database.init.start",
		"data_dir", config.DataDir,
		"base_dir", config.BaseDir,
	)

	backend, err := storage.NewEmbeddedBackend(storage.EmbeddedConfig{
		DataDir:    config.DataDir,
		BaseDir:    config.BaseDir,
		CurrentDir: config.CurrentDir,
		Init:       true,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	info := &DatabaseInfo{
		DataDir: backend.DataDir(),
		BaseDir: backend.BaseDir(),
	}
	info.Spec = storage.PersySchema + ":" + info.DataDir + ":" + info.BaseDir

	if err := backend.Close(); err != nil {
		return nil, fmt.Errorf("close database: %w", err)
	}

	logger.Info("bootstrap.database.init.success",
		"data_dir", info.DataDir,
		"base_dir", info.BaseDir,
	)
	return info, nil
}

// InitFromSpec creates the database named by a persy spec string such
// as "persy:db:." or "persy:db:.:init". The init modifier is implied.
func InitFromSpec(raw, currentDir string, logger *slog.Logger) (*DatabaseInfo, error) {
	spec, err := storage.ParseSpec(raw)
	if err != nil {
		return nil, err
	}
	if spec.Schema != storage.PersySchema && spec.Schema != storage.BadgerSchema {
		return nil, &storage.ConfigError{
			Spec: raw,
			Msg:  fmt.Sprintf("only %s databases need initialization", storage.PersySchema),
			Err:  storage.ErrUnknownSchema,
		}
	}
	args := spec.Args
	if len(args) == 3 && args[2] == storage.ModifierInit {
		args = args[:2]
	}
	if len(args) != 2 {
		return nil, &storage.ConfigError{
			Spec: raw,
			Msg:  fmt.Sprintf("expects %s:<database>:<base>", spec.Schema),
			Err:  storage.ErrArgCount,
		}
	}
	return InitDatabase(DatabaseConfig{
		DataDir:    args[0],
		BaseDir:    args[1],
		CurrentDir: currentDir,
	}, logger)
}
