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
	"errors"
	"fmt"
)

// Sentinel errors wrapped by ConfigError and StorageError. Test for them
// with errors.Is.
var (
	ErrUnknownSchema      = errors.New("unknown backend schema")
	ErrArgCount           = errors.New("wrong number of backend arguments")
	ErrUnknownModifier    = errors.New("unknown backend modifier")
	ErrClosed             = errors.New("backend is closed")
	ErrNotInitialized     = errors.New("database not initialized")
	ErrAlreadyInitialized = errors.New("database already exists")
	ErrInvalidUTF8        = errors.New("tag payload is not valid UTF-8")
	ErrInvalidTag         = errors.New("tag contains a reserved byte")
	ErrEmptyTag           = errors.New("tag is empty")
)

// ConfigError reports a malformed backend specification or invalid
// construction arguments. It is fatal at startup.
type ConfigError struct {
	// Spec is the specification string as given by the caller.
	Spec string
	Msg  string
	Err  error
}

func (e *ConfigError) Error() string {
	msg := "backend: " + e.Msg
	if e.Spec != "" {
		msg = fmt.Sprintf("backend %q: %s", e.Spec, e.Msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// StorageError reports an I/O, decode or transaction failure of a
// single backend operation.
type StorageError struct {
	// Backend is the schema name of the failing backend ("xattr", "persy").
	Backend string
	// Op names the failing step, e.g. "tags", "set_tags", "open", "commit".
	Op string
	// Path is the caller-facing file path, empty for whole-database ops.
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s backend: %s: %v", e.Backend, e.Op, e.Err)
	}
	return fmt.Sprintf("%s backend: %s %s: %v", e.Backend, e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsConfigError reports whether err carries a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsStorageError reports whether err carries a *StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
