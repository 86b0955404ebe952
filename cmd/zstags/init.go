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

	"github.com/kraklabs/zstags/internal/bootstrap"
	"github.com/kraklabs/zstags/internal/errors"
	"github.com/kraklabs/zstags/internal/output"
	"github.com/kraklabs/zstags/internal/ui"
)

const initUsage = `Usage: zstags [-b persy:DB:BASE] init [options]

Creates an embedded tag database and records its backend spec in the
config file, so later commands pick it up without -b.

Without -b the database is created at --db (default ~/.zstags/db) with
paths stored relative to --base (default: your home directory).

Options:
`

// runInit executes the 'init' CLI command.
//
// Examples:
//
//	zstags init                              Database in ~/.zstags/db
//	zstags -b persy:.zstags/db:. init        Database local to this directory
//	zstags init --db /srv/tags --base /srv --no-config
func (a *app) runInit(args []string) (err error) {
	fs := a.newFlagSet("init", initUsage)
	dbDir := fs.String("db", "", "Database directory (default ~/.zstags/db)")
	baseDir := fs.String("base", "", "Normalization base directory (default: home directory)")
	force := fs.Bool("force", false, "Overwrite the backend recorded in an existing config file")
	noConfig := fs.Bool("no-config", false, "Only create the database, do not write the config file")
	if stop, perr := parseFlags(fs, args); stop {
		return perr
	}

	s, err := a.loadSession()
	if err != nil {
		return err
	}
	defer closeSession(s, &err)

	if s.found && s.cfg.Backend != "" && !*force && !*noConfig {
		return errors.NewConfigError(
			"Config already names a backend",
			fmt.Sprintf("%s uses %s", s.configPath, s.cfg.Backend),
			"Use --force to replace it or --no-config to only create the database",
			nil,
		)
	}

	var info *bootstrap.DatabaseInfo
	if a.globals.Backend != "" {
		if *dbDir != "" || *baseDir != "" {
			return errors.NewInputError(
				"Conflicting arguments",
				"--db and --base cannot be combined with -b",
				"Pass either -b persy:DB:BASE or --db/--base",
			)
		}
		info, err = bootstrap.InitFromSpec(a.globals.Backend, a.cwd, s.logger)
	} else {
		info, err = bootstrap.InitDatabase(bootstrap.DatabaseConfig{
			DataDir:    *dbDir,
			BaseDir:    *baseDir,
			CurrentDir: a.cwd,
		}, s.logger)
	}
	if err != nil {
		return errors.FromStorage("Cannot create tag database", err)
	}

	if !*noConfig {
		s.cfg.Backend = info.Spec
		if err := SaveConfig(s.configPath, s.cfg); err != nil {
			return errors.NewPermissionError(
				"Cannot write config file",
				err.Error(),
				"Check the permissions of "+s.configPath,
				err,
			)
		}
	}

	if a.globals.JSON {
		st := output.Status{Backend: info.Spec, DataDir: info.DataDir, BaseDir: info.BaseDir}
		if !*noConfig {
			st.ConfigFile = s.configPath
		}
		return output.JSONTo(a.stdout, st)
	}
	if a.globals.Quiet {
		return nil
	}

	ui.Successf(a.stdout, "Created tag database in %s", info.DataDir)
	fmt.Fprintf(a.stdout, "%s %s\n", ui.Label("Backend:"), info.Spec)
	if !*noConfig {
		fmt.Fprintf(a.stdout, "%s %s\n", ui.Label("Config:"), ui.DimText(s.configPath))
	}
	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, "Next steps:")
	fmt.Fprintln(a.stdout, "  zstags edit -f FILE +tag   Tag a file")
	fmt.Fprintln(a.stdout, "  zstags status              Check the database")
	return nil
}
