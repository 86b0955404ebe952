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
	"strings"

	"github.com/kraklabs/zstags/internal/contract"
	"github.com/kraklabs/zstags/internal/errors"
	"github.com/kraklabs/zstags/internal/output"
	"github.com/kraklabs/zstags/internal/ui"
	"github.com/kraklabs/zstags/pkg/pathnorm"
	"github.com/kraklabs/zstags/pkg/storage"
)

// modifier is one parsed +tag or -tag argument.
type modifier struct {
	add bool
	tag string
}

func (m modifier) String() string {
	if m.add {
		return "+" + m.tag
	}
	return "-" + m.tag
}

// invalidModifier is an argument that was rejected, with the reason.
type invalidModifier struct {
	arg    string
	reason string
}

// parseModifiers splits arguments into valid modifiers and rejected
// ones. An argument must be at least two characters, start with '+' or
// '-', and name a valid tag.
func parseModifiers(args []string) ([]modifier, []invalidModifier) {
	var mods []modifier
	var bad []invalidModifier
	for _, arg := range args {
		if len(arg) < 2 {
			bad = append(bad, invalidModifier{arg, "too short"})
			continue
		}
		var m modifier
		switch arg[0] {
		case '+':
			m.add = true
		case '-':
		default:
			bad = append(bad, invalidModifier{arg, "must start with '+' or '-'"})
			continue
		}
		m.tag = arg[1:]
		if res := contract.ValidateTag(m.tag); !res.OK {
			bad = append(bad, invalidModifier{arg, res.Message})
			continue
		}
		mods = append(mods, m)
	}
	return mods, bad
}

// applyModifiers applies mods to tags in order.
func applyModifiers(tags storage.TagSet, mods []modifier) {
	for _, m := range mods {
		if m.add {
			tags.Add(m.tag)
		} else {
			tags.Remove(m.tag)
		}
	}
}

// editTags applies mods to the tags stored for path and writes them back
// when the result differs. A change of a single tag goes through the
// backend's single-tag operation when it has one; any larger change is
// written with one SetTags call so that it is applied as a whole.
// tagDiff returns the tags only in after and the tags only in before,
// both sorted.
func tagDiff(before, after storage.TagSet) (added, removed []string) {
	for _, t := range after.Sorted() {
		if !before.Has(t) {
			added = append(added, t)
		}
	}
	for _, t := range before.Sorted() {
		if !after.Has(t) {
			removed = append(removed, t)
		}
	}
	return added, removed
}

func editTags(b storage.Backend, path string, mods []modifier) (output.EditResult, error) {
	res := output.EditResult{Path: path}

	before, err := b.Tags(path)
	if err != nil {
		return res, err
	}
	after := before.Clone()
	applyModifiers(after, mods)

	res.Before = before.Sorted()
	res.After = after.Sorted()
	if before.Equal(after) {
		return res, nil
	}

	if v := contract.ValidateTagSet(res.After); !v.OK {
		return res, errors.NewInputError(
			"Too many tags",
			fmt.Sprintf("%s: %s", path, v.Message),
			"Remove some tags or raise ZSTAGS_SOFT_LIMIT_BYTES",
		)
	}

	added, removed := tagDiff(before, after)
	_, singleOps := storage.Unwrap(b).(storage.TagAdder)
	switch {
	case singleOps && len(added) == 1 && len(removed) == 0:
		_, err = storage.AddTag(b, path, added[0])
	case singleOps && len(removed) == 1 && len(added) == 0:
		_, err = storage.DeleteTag(b, path, removed[0])
	default:
		err = b.SetTags(path, after)
	}
	if err != nil {
		return res, err
	}

	res.Changed = true
	return res, nil
}

const editUsage = `Usage: zstags edit -f FILE [-f FILE...] [--] (+TAG|-TAG)...

Adds (+TAG) and removes (-TAG) tags on each FILE. Modifiers apply left
to right, so '+a -a' leaves 'a' absent. Tags are written only when the
set actually changes. Invalid modifiers are reported and skipped.

Use '--' before the modifiers when the first one is a removal.

Options:
`

// runEdit executes the 'edit' CLI command.
//
// Examples:
//
//	zstags edit -f photo.jpg +beach +summer
//	zstags -v edit -f photo.jpg -- -todo +done
func (a *app) runEdit(args []string) (err error) {
	fs := a.newFlagSet("edit", editUsage)
	fs.SetInterspersed(false)
	files := fs.StringArrayP("file", "f", nil, "File whose tags are edited (repeatable)")
	if stop, perr := parseFlags(fs, args); stop {
		return perr
	}

	if len(*files) == 0 {
		return errors.NewInputError(
			"No file given",
			"The edit command needs at least one -f FILE",
			"Run 'zstags edit -f FILE +tag'",
		)
	}
	if fs.NArg() == 0 {
		return errors.NewInputError(
			"No tag modifiers given",
			"Nothing to apply",
			"Pass modifiers like +tag or -tag after the options",
		)
	}

	mods, bad := parseModifiers(fs.Args())
	for _, b := range bad {
		ui.Warningf(a.stderr, "invalid tag modifier '%s': %s", b.arg, b.reason)
	}

	s, err := a.openSession()
	if err != nil {
		return err
	}
	defer closeSession(s, &err)
	s.logger.Debug("edit.start", "backend", s.backend.Name(), "mods", modifierList(mods))

	var results []output.EditResult
	for _, f := range *files {
		path := pathnorm.Absolute(f, a.cwd)
		res, eerr := editTags(s.backend, path, mods)
		if eerr != nil {
			return errors.FromStorage("Cannot update tags of "+f, eerr)
		}
		for _, b := range bad {
			res.Invalid = append(res.Invalid, b.arg)
		}
		s.logger.Info("edit.done", "path", path, "changed", res.Changed, "tags", len(res.After))
		results = append(results, res)

		if a.globals.JSON {
			continue
		}
		if a.globals.Verbose > 0 {
			printEditResult(a, res)
		}
	}

	if a.globals.JSON {
		return output.JSONTo(a.stdout, results)
	}
	return nil
}

func printEditResult(a *app, res output.EditResult) {
	fmt.Fprintf(a.stdout, "%s\n", res.Path)
	fmt.Fprintf(a.stdout, "  old tags: %s\n", ui.TagList(res.Before))
	if !res.Changed {
		fmt.Fprintln(a.stdout, "  no tags changed")
		return
	}
	fmt.Fprintf(a.stdout, "  new tags: %s\n", ui.TagList(res.After))
}

// modifierList renders mods for log output.
func modifierList(mods []modifier) string {
	parts := make([]string, len(mods))
	for i, m := range mods {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}
