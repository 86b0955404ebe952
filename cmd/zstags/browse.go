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
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kraklabs/zstags/internal/errors"
	"github.com/kraklabs/zstags/internal/output"
	"github.com/kraklabs/zstags/internal/ui"
	"github.com/kraklabs/zstags/pkg/pathnorm"
	"github.com/kraklabs/zstags/pkg/query"
	"github.com/kraklabs/zstags/pkg/storage"
	"github.com/kraklabs/zstags/pkg/walk"
)

// linkName returns the name of the i-th link: the index zero-padded to
// width, followed by the extension of path if it has one.
func linkName(i, width int, path string) string {
	name := fmt.Sprintf("%0*d", width, i)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "." || ext == base {
		ext = ""
	}
	return name + ext
}

// prepareTarget removes target with everything below it and creates it
// again, empty. It refuses targets that contain source.
func prepareTarget(target, source string) error {
	if target == source || strings.HasPrefix(source, target+string(filepath.Separator)) {
		return errors.NewInputError(
			"Refusing to clear target",
			fmt.Sprintf("%s contains the source tree %s", target, source),
			"Choose a --target outside the --source directory",
		)
	}
	if err := os.RemoveAll(target); err != nil {
		return errors.NewPermissionError(
			"Cannot clear target directory",
			err.Error(),
			"Check the permissions of "+target,
			err,
		)
	}
	if err := os.MkdirAll(target, 0o750); err != nil {
		return errors.NewPermissionError(
			"Cannot create target directory",
			err.Error(),
			"Check the permissions of "+filepath.Dir(target),
			err,
		)
	}
	return nil
}

// selectMatches walks source and returns the paths m accepts, in walk
// order.
func selectMatches(source, cwd string, b storage.Backend, m *query.Matcher, s *session, progress ProgressConfig) ([]string, error) {
	spinner := NewSpinner(progress, "Matching")
	defer progressDone(spinner)

	var selected []string
	err := walk.NonHidden(source, cwd, s.logger, func(path string, _ fs.DirEntry) error {
		progressAdd(spinner)
		if m.Matches(path, b) {
			selected = append(selected, path)
		}
		return nil
	})
	if err != nil {
		return nil, sourceError(source, err)
	}
	return selected, nil
}

// createLinks creates one numbered symlink in target per selected path.
// Link targets are relative to target. A failed link is reported in its
// entry and logged; the remaining links are still attempted.
func createLinks(target string, selected []string, logger *slog.Logger) []output.LinkEntry {
	width := len(strconv.Itoa(len(selected)))
	entries := make([]output.LinkEntry, 0, len(selected))

	for i, path := range selected {
		entry := output.LinkEntry{
			Name:   linkName(i, width, path),
			Target: pathnorm.RelativeTo(path, target),
		}
		if err := os.Symlink(entry.Target, filepath.Join(target, entry.Name)); err != nil {
			entry.Error = err.Error()
			logger.Warn("browse.symlink.error", "link", entry.Name, "target", entry.Target, "err", err)
		}
		entries = append(entries, entry)
	}
	return entries
}

const browseUsage = `Usage: zstags browse --source DIR --target DIR [-o OP] TAG...

Selects the non-hidden files below --source whose tags match the query
and links them into --target as 0.ext, 1.ext, ... The target directory
is deleted and recreated first.

Fold operations:
  &, &&, and   files carrying every queried tag (default)
  |, ||, or    files carrying at least one queried tag
  ^, ^^, xor   files carrying exactly one of the queried tags

Options:
`

// runBrowse executes the 'browse' CLI command.
//
// Examples:
//
//	zstags browse --source ~/photos --target /tmp/beach beach
//	zstags browse -o '|' --source . --target ../view red blue
func (a *app) runBrowse(args []string) (err error) {
	fs := a.newFlagSet("browse", browseUsage)
	source := fs.StringP("source", "s", "", "Source tree to select files from")
	target := fs.StringP("target", "t", "", "Directory receiving the links (recreated)")
	foldop := fs.StringP("foldop", "o", "", "Query fold operation: & | ^ (default from config, else &)")
	if stop, perr := parseFlags(fs, args); stop {
		return perr
	}

	if *source == "" || *target == "" {
		return errors.NewInputError(
			"Missing directories",
			"browse needs both --source and --target",
			"Run 'zstags browse --source DIR --target DIR TAG...'",
		)
	}
	if fs.NArg() == 0 {
		return errors.NewInputError(
			"No query given",
			"browse needs at least one tag to match",
			"Append the tags to match, e.g. 'zstags browse ... beach'",
		)
	}

	s, err := a.openSession()
	if err != nil {
		return err
	}
	defer closeSession(s, &err)

	opText := *foldop
	if opText == "" {
		opText = s.cfg.Browse.FoldOp
	}
	op, perr := query.ParseFoldOp(opText)
	if perr != nil {
		return errors.NewInputError("Invalid fold operation", perr.Error(), "Use one of & | ^")
	}
	matcher := query.New(op, fs.Args()...)
	matcher.Logger = s.logger

	srcAbs := pathnorm.Absolute(*source, a.cwd)
	info, serr := os.Stat(srcAbs)
	if serr != nil || !info.IsDir() {
		return errors.NewInputError(
			"Source is not a directory",
			fmt.Sprintf("%s is not a directory", *source),
			"Pass an existing directory with --source",
		)
	}

	trgAbs := pathnorm.Absolute(*target, a.cwd)
	if err := prepareTarget(trgAbs, srcAbs); err != nil {
		return err
	}

	a.infof("Matching %s %s below %s", op, matcher.Tags.String(), srcAbs)
	progress := NewProgressConfig(a.globals)
	selected, err := selectMatches(srcAbs, a.cwd, s.backend, matcher, s, progress)
	if err != nil {
		return err
	}

	entries := createLinks(trgAbs, selected, s.logger)
	s.logger.Info("browse.done", "query", matcher.Tags.String(), "op", op.String(), "links", len(entries))

	if a.globals.JSON {
		return output.JSONTo(a.stdout, entries)
	}
	failed := 0
	for _, e := range entries {
		line := ui.LinkText(e.Name, e.Target)
		if e.Error != "" {
			failed++
			line += ": " + ui.Red.Sprintf("failed to create symlink: %s", e.Error)
		}
		fmt.Fprintln(a.stdout, line)
	}
	if failed > 0 {
		ui.Errorf(a.stderr, "%d of %d symlinks could not be created", failed, len(entries))
	}
	return nil
}
