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
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// Spec is a parsed backend specification string of the form
// "schema[:arg1[:arg2[:...]]]".
type Spec struct {
	Raw    string
	Schema string
	Args   []string
}

// String returns the specification in its textual form.
func (s Spec) String() string {
	if len(s.Args) == 0 {
		return s.Schema
	}
	return s.Schema + ":" + strings.Join(s.Args, ":")
}

// ParseSpec splits a backend specification into schema and arguments.
// It does not check whether the schema is known; New does.
func ParseSpec(raw string) (Spec, error) {
	if strings.TrimSpace(raw) == "" {
		return Spec{}, &ConfigError{Spec: raw, Msg: "empty specification", Err: ErrUnknownSchema}
	}
	parts := strings.Split(raw, ":")
	return Spec{Raw: raw, Schema: parts[0], Args: parts[1:]}, nil
}

// Options carries the process state backends need at construction.
type Options struct {
	// CurrentDir resolves relative paths in arguments and in later calls.
	// Defaults to the process working directory.
	CurrentDir string

	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() (Options, error) {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.CurrentDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return o, fmt.Errorf("get working directory: %w", err)
		}
		o.CurrentDir = cwd
	}
	return o, nil
}

// factory builds a backend from the arguments following the schema.
type factory func(spec Spec, opts Options) (Backend, error)

var factories = map[string]factory{
	XattrSchema:  newXattrFromSpec,
	PersySchema:  newEmbeddedFromSpec,
	BadgerSchema: newEmbeddedFromSpec,
}

// Schemas returns the recognized schema names in sorted order.
func Schemas() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New constructs the backend selected by spec.
//
// Recognized forms:
//
//	xattr
//	persy:<databasePath>:<normalizationBaseDir>[:init]
//
// Unknown schemas and wrong argument counts fail with *ConfigError.
func New(raw string, opts Options) (Backend, error) {
	spec, err := ParseSpec(raw)
	if err != nil {
		return nil, err
	}
	f, ok := factories[spec.Schema]
	if !ok {
		return nil, &ConfigError{
			Spec: raw,
			Msg:  fmt.Sprintf("schema %q is not one of %s", spec.Schema, strings.Join(Schemas(), ", ")),
			Err:  ErrUnknownSchema,
		}
	}
	opts, err = opts.withDefaults()
	if err != nil {
		return nil, &ConfigError{Spec: raw, Msg: "resolve options", Err: err}
	}
	b, err := f(spec, opts)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("backend.open", "backend", b.Name(), "spec", raw)
	return b, nil
}
