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
	"io"
	"log/slog"

	"github.com/kraklabs/zstags/internal/errors"
	"github.com/kraklabs/zstags/pkg/storage"
)

// session is the state shared by commands that touch a backend.
type session struct {
	cfg        *Config
	configPath string
	found      bool
	spec       string
	logger     *slog.Logger
	backend    storage.Backend

	metricsFile string
}

// newLogger builds the stderr logger. The config level applies unless
// -v/-vv or -q override it.
func newLogger(w io.Writer, globals GlobalFlags, cfg *Config) *slog.Logger {
	level := slog.LevelWarn
	if cfg != nil && cfg.Log.Level != "" {
		_ = level.UnmarshalText([]byte(cfg.Log.Level))
	}
	switch {
	case globals.Verbose >= 2:
		level = slog.LevelDebug
	case globals.Verbose == 1:
		level = slog.LevelInfo
	case globals.Quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// loadSession reads the config and sets up logging without opening a
// backend.
func (a *app) loadSession() (*session, error) {
	path := ConfigPath(a.globals.ConfigPath, a.cwd)
	cfg, found, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	logger := newLogger(a.stderr, a.globals, cfg)
	slog.SetDefault(logger)

	return &session{
		cfg:         cfg,
		configPath:  path,
		found:       found,
		spec:        ResolveBackend(a.globals.Backend, cfg),
		logger:      logger,
		metricsFile: a.globals.MetricsFile,
	}, nil
}

// openSession loads the config and opens the resolved backend. When
// --metrics-file is set the backend is instrumented. Callers must Close
// the session on every path.
func (a *app) openSession() (*session, error) {
	s, err := a.loadSession()
	if err != nil {
		return nil, err
	}

	backend, err := storage.New(s.spec, storage.Options{
		CurrentDir: a.cwd,
		Logger:     s.logger,
	})
	if err != nil {
		return nil, errors.FromStorage("Cannot open tag backend", err)
	}
	if s.metricsFile != "" {
		backend = storage.Instrument(backend)
	}
	s.backend = backend
	return s, nil
}

// Close releases the backend and writes the metrics file if requested.
func (s *session) Close() error {
	var errs []error
	if s.backend != nil {
		if err := s.backend.Close(); err != nil {
			errs = append(errs, errors.FromStorage("Cannot close tag backend", err))
		}
	}
	if s.metricsFile != "" {
		if err := storage.WriteMetricsFile(s.metricsFile); err != nil {
			errs = append(errs, errors.NewPermissionError(
				"Cannot write metrics file",
				err.Error(),
				fmt.Sprintf("Check that %s is writable", s.metricsFile),
				err,
			))
		}
	}
	return stderrors.Join(errs...)
}

// closeSession closes s and folds its error into err, keeping the
// command's own error first.
func closeSession(s *session, err *error) {
	if cerr := s.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}
