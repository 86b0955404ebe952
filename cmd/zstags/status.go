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
	"fmt"

	"github.com/kraklabs/zstags/internal/errors"
	"github.com/kraklabs/zstags/internal/output"
	"github.com/kraklabs/zstags/internal/ui"
	"github.com/kraklabs/zstags/pkg/storage"
)

const statusUsage = `Usage: zstags status [options]

Shows the backend in use, where its configuration comes from and, for
the embedded database, how many files and tags it holds.

Options:
`

// collectStatus describes the session's backend.
func collectStatus(s *session) (output.Status, error) {
	st := output.Status{Backend: s.spec}
	if s.found {
		st.ConfigFile = s.configPath
	}

	if eb, ok := storage.Unwrap(s.backend).(*storage.EmbeddedBackend); ok {
		stats, err := eb.Stats()
		if err != nil {
			return st, err
		}
		st.DataDir = eb.DataDir()
		st.BaseDir = eb.BaseDir()
		st.Keys = stats.Keys
		st.Rows = stats.Rows
	}
	return st, nil
}

// runStatus executes the 'status' CLI command.
//
// Examples:
//
//	zstags status           Display formatted status
//	zstags --json status    Output as JSON for programmatic use
func (a *app) runStatus(args []string) (err error) {
	fs := a.newFlagSet("status", statusUsage)
	if stop, perr := parseFlags(fs, args); stop {
		return perr
	}

	s, err := a.openSession()
	if err != nil {
		return err
	}
	defer closeSession(s, &err)

	st, err := collectStatus(s)
	if err != nil {
		return errors.FromStorage("Cannot read database statistics", err)
	}

	if a.globals.JSON {
		return output.JSONTo(a.stdout, st)
	}
	printStatus(a, st)
	return nil
}

func printStatus(a *app, st output.Status) {
	w := a.stdout
	ui.Header(w, "zstags Status")
	fmt.Fprintf(w, "%s     %s\n", ui.Label("Backend:"), st.Backend)
	if st.ConfigFile != "" {
		fmt.Fprintf(w, "%s      %s\n", ui.Label("Config:"), ui.DimText(st.ConfigFile))
	} else {
		fmt.Fprintf(w, "%s      %s\n", ui.Label("Config:"), ui.DimText("(none, using defaults)"))
	}

	if st.DataDir == "" {
		return
	}
	fmt.Fprintf(w, "%s    %s\n", ui.Label("Data Dir:"), ui.DimText(st.DataDir))
	fmt.Fprintf(w, "%s    %s\n", ui.Label("Base Dir:"), ui.DimText(st.BaseDir))
	fmt.Fprintln(w)
	ui.SubHeader(w, "Index:")
	fmt.Fprintf(w, "  Tagged files:  %s\n", ui.CountText(st.Keys))
	fmt.Fprintf(w, "  Tag rows:      %s\n", ui.CountText(st.Rows))
}
