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
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/zstags/internal/errors"
	"github.com/kraklabs/zstags/pkg/query"
	"github.com/kraklabs/zstags/pkg/storage"
)

const (
	// ConfigDir is the per-directory configuration folder.
	ConfigDir = ".zstags"

	// ConfigFile is the configuration file name inside ConfigDir.
	ConfigFile = "config.yaml"

	configVersion = 1

	envConfig  = "ZSTAGS_CONFIG"
	envBackend = "ZSTAGS_BACKEND"
)

// Config is the content of .zstags/config.yaml.
type Config struct {
	Version int          `yaml:"version"`
	Backend string       `yaml:"backend,omitempty"`
	Browse  BrowseConfig `yaml:"browse"`
	Log     LogConfig    `yaml:"log"`
}

// BrowseConfig holds defaults for the browse command.
type BrowseConfig struct {
	// FoldOp is the default query operation: "&", "|" or "^".
	FoldOp string `yaml:"foldop,omitempty"`
}

// LogConfig holds logging defaults.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Version: configVersion,
		Browse:  BrowseConfig{FoldOp: query.And.String()},
		Log:     LogConfig{Level: "warn"},
	}
}

// ConfigPath resolves the config file location: the --config flag, then
// ZSTAGS_CONFIG, then ./.zstags/config.yaml below cwd.
func ConfigPath(flagPath, cwd string) string {
	p := flagPath
	if p == "" {
		p = os.Getenv(envConfig)
	}
	if p == "" {
		return filepath.Join(cwd, ConfigDir, ConfigFile)
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(cwd, p)
	}
	return filepath.Clean(p)
}

// LoadConfig reads the config file at path. A missing file yields the
// defaults and found == false; an unreadable or malformed file is a
// config error.
func LoadConfig(path string) (cfg *Config, found bool, err error) {
	cfg = DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from flag or env
	if stderrors.Is(err, fs.ErrNotExist) {
		return cfg, false, nil
	}
	if err != nil {
		return nil, false, errors.NewConfigError(
			"Cannot read config file",
			err.Error(),
			"Check the permissions of "+path,
			err,
		)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, true, errors.NewConfigError(
			"Cannot parse config file",
			fmt.Sprintf("%s is not valid YAML: %v", path, err),
			"Fix the file or remove it to use the defaults",
			err,
		)
	}
	if err := cfg.validate(); err != nil {
		return nil, true, errors.NewConfigError(
			"Invalid config file",
			fmt.Sprintf("%s: %v", path, err),
			"Fix the file or remove it to use the defaults",
			err,
		)
	}
	return cfg, true, nil
}

// SaveConfig writes cfg to path, creating the parent directory.
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Version != configVersion {
		return fmt.Errorf("unsupported version %d (want %d)", c.Version, configVersion)
	}
	if c.Backend != "" {
		if _, err := storage.ParseSpec(c.Backend); err != nil {
			return err
		}
	}
	if c.Browse.FoldOp != "" {
		if _, err := query.ParseFoldOp(c.Browse.FoldOp); err != nil {
			return fmt.Errorf("browse.foldop: %w", err)
		}
	}
	if c.Log.Level != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}
	return nil
}

// ResolveBackend picks the backend spec: flag, then ZSTAGS_BACKEND,
// then the config file, then xattr.
func ResolveBackend(flagSpec string, cfg *Config) string {
	for _, s := range []string{flagSpec, os.Getenv(envBackend), cfg.Backend} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return storage.XattrSchema
}
