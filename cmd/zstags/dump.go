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
	"io/fs"

	"github.com/schollz/progressbar/v3"

	"github.com/kraklabs/zstags/internal/errors"
	"github.com/kraklabs/zstags/internal/output"
	"github.com/kraklabs/zstags/internal/ui"
	"github.com/kraklabs/zstags/pkg/pathnorm"
	"github.com/kraklabs/zstags/pkg/storage"
	"github.com/kraklabs/zstags/pkg/walk"
)

// dumpResult summarizes one dump run.
type dumpResult struct {
	Entries []output.TagEntry
	Scanned int
	Failed  int
}

// dumpTags reads the tags of every path. Tagged paths are printed as
// "path: tag tag" to out unless out is nil; read failures go to errw as
// "path: ERROR: err" and the scan continues.
func dumpTags(b storage.Backend, paths []string, out, errw io.Writer, bar *progressbar.ProgressBar) dumpResult {
	var res dumpResult
	for _, p := range paths {
		res.Scanned++
		tags, err := b.Tags(p)
		progressAdd(bar)
		if err != nil {
			res.Failed++
			res.Entries = append(res.Entries, output.TagEntry{Path: p, Tags: []string{}, Error: err.Error()})
			fmt.Fprintf(errw, "%s: ERROR: %v\n", p, err)
			continue
		}
		if tags.Len() == 0 {
			continue
		}
		entry := output.TagEntry{Path: p, Tags: tags.Sorted()}
		res.Entries = append(res.Entries, entry)
		if out != nil {
			fmt.Fprintln(out, ui.PathTags(entry.Path, entry.Tags))
		}
	}
	return res
}

// scanPaths walks source and returns every non-hidden path below it,
// root included.
func scanPaths(source, cwd string, s *session, progress ProgressConfig) ([]string, error) {
	spinner := NewSpinner(progress, "Scanning")
	defer progressDone(spinner)

	var paths []string
	err := walk.NonHidden(source, cwd, s.logger, func(path string, _ fs.DirEntry) error {
		paths = append(paths, path)
		progressAdd(spinner)
		return nil
	})
	if err != nil {
		return nil, sourceError(source, err)
	}
	return paths, nil
}

func sourceError(source string, err error) error {
	if stderrors.Is(err, walk.ErrNotDir) {
		return errors.NewInputError(
			"Source is not a directory",
			fmt.Sprintf("%s is not a directory", source),
			"Pass a directory with --source",
		)
	}
	return errors.FromStorage("Cannot scan "+source, err)
}

const dumpUsage = `Usage: zstags dump (--source DIR | --all) [options]

Prints "path: tag tag..." for every tagged, non-hidden file below DIR.
Files whose tags cannot be read are reported as "path: ERROR: ..." on
stderr and the scan continues.

With --all the embedded database lists every tagged path it knows,
without walking the filesystem. The xattr backend does not support it.

Options:
`

// runDump executes the 'dump' CLI command.
//
// Examples:
//
//	zstags dump --source ~/photos
//	zstags --json dump --source .
//	zstags -b persy:db:. dump --all
func (a *app) runDump(args []string) (err error) {
	fs := a.newFlagSet("dump", dumpUsage)
	source := fs.StringP("source", "s", "", "Directory to scan")
	all := fs.Bool("all", false, "List every path stored in the database instead of scanning")
	if stop, perr := parseFlags(fs, args); stop {
		return perr
	}
	if (*source == "") == !*all {
		return errors.NewInputError(
			"Invalid arguments",
			"dump needs exactly one of --source DIR or --all",
			"Run 'zstags dump --source DIR'",
		)
	}

	s, err := a.openSession()
	if err != nil {
		return err
	}
	defer closeSession(s, &err)

	progress := NewProgressConfig(a.globals)

	var paths []string
	if *all {
		lister, ok := storage.Unwrap(s.backend).(storage.PathLister)
		if !ok {
			return errors.NewInputError(
				"Backend cannot list tagged files",
				fmt.Sprintf("The %s backend stores tags on the files themselves", s.backend.Name()),
				"Use --source DIR to scan a directory instead",
			)
		}
		if paths, err = lister.TaggedPaths(); err != nil {
			return errors.FromStorage("Cannot list tagged files", err)
		}
	} else {
		a.infof("Scanning %s", pathnorm.Absolute(*source, a.cwd))
		if paths, err = scanPaths(*source, a.cwd, s, progress); err != nil {
			return err
		}
	}

	var out io.Writer = a.stdout
	if a.globals.JSON {
		out = nil
	}
	bar := NewProgressBar(progress, int64(len(paths)), "Reading tags")
	res := dumpTags(s.backend, paths, out, a.stderr, bar)
	progressDone(bar)

	s.logger.Info("dump.done",
		"scanned", res.Scanned,
		"tagged", len(res.Entries)-res.Failed,
		"failed", res.Failed,
	)

	if res.Failed > 0 && !a.globals.Quiet && !a.globals.JSON {
		ui.Warningf(a.stderr, "%d of %d files could not be read", res.Failed, res.Scanned)
	}

	if a.globals.JSON {
		if res.Entries == nil {
			res.Entries = []output.TagEntry{}
		}
		return output.JSONTo(a.stdout, res.Entries)
	}
	return nil
}
