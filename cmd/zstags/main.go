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

// Package main implements the zstags CLI for tagging files and browsing
// them by tag.
//
// Usage:
//
//	zstags edit -f FILE +tag -tag ...     Add and remove tags on a file
//	zstags dump --source DIR [--json]     Print the tags of every file below DIR
//	zstags browse --source DIR --target DIR [-o OP] TAG...
//	                                      Link matching files into DIR
//	zstags init [-b persy:DB:BASE]        Create a tag database
//	zstags status [--json]                Show backend and database status
package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/zstags/internal/errors"
	"github.com/kraklabs/zstags/internal/ui"
)

// Version information (set via ldflags during build)
var (
	version = "dev"     // Version string
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// GlobalFlags holds the flags accepted before the command name.
type GlobalFlags struct {
	ConfigPath  string
	Backend     string
	JSON        bool
	NoColor     bool
	Quiet       bool
	Verbose     int
	MetricsFile string
}

// app carries what every command needs: global flags, the process
// working directory and the output streams.
type app struct {
	globals GlobalFlags
	cwd     string
	stdout  io.Writer
	stderr  io.Writer
}

const usageText = `zstags - file tagging

zstags stores a set of free-text tags per file, either in the file's
extended attributes or in an embedded database, and builds symlink
views of the files matching a tag query.

Usage:
  zstags [global options] <command> [options]

Commands:
  edit          Add (+tag) or remove (-tag) tags on files
  dump          Print the tags of every file below a directory
  browse        Link files matching a tag query into a directory
  init          Create a tag database and record it in the config
  status        Show the configured backend and database statistics
  completion    Generate shell completion script (bash|zsh|fish)

Global Options:
`

const usageFooter = `
Backends:
  xattr                      Tags in the user.zstags extended attribute (default)
  persy:<db>:<base>[:init]   Tags in an embedded database at <db>, paths stored
                             relative to <base>; ':init' creates the database.
                             A leading '~' in <db> or <base> is your home directory

Examples:
  zstags edit -f photo.jpg +beach +2024 -todo
  zstags dump --source ~/photos
  zstags -b persy:$HOME/.zstags/db:$HOME browse --source ~/photos --target /tmp/view beach
  zstags browse -o '|' --source . --target ../view red blue

Environment Variables:
  ZSTAGS_BACKEND           Backend spec used when --backend is not given
  ZSTAGS_CONFIG            Path of the config file
  ZSTAGS_SOFT_LIMIT_BYTES  Maximum encoded size of one file's tag set
  NO_COLOR                 Disable colored output

For detailed command help: zstags <command> --help
`

// main is the entry point for the zstags CLI.
//
// It parses global flags, dispatches to a command handler and turns the
// returned error into the process exit code.
func main() {
	fs := flag.NewFlagSet("zstags", flag.ExitOnError)
	fs.SetInterspersed(false)

	var globals GlobalFlags
	showVersion := fs.Bool("version", false, "Show version and exit")
	fs.StringVar(&globals.ConfigPath, "config", "", "Path to config file (default: ./.zstags/config.yaml)")
	fs.StringVarP(&globals.Backend, "backend", "b", "", "Backend spec, e.g. 'xattr' or 'persy:<db>:<base>'")
	fs.BoolVar(&globals.JSON, "json", false, "Machine-readable JSON output")
	fs.BoolVar(&globals.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVarP(&globals.Quiet, "quiet", "q", false, "Suppress progress and informational output")
	fs.CountVarP(&globals.Verbose, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	fs.StringVar(&globals.MetricsFile, "metrics-file", "", "Write backend metrics to this file on exit (Prometheus textfile format)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usageText)
		fs.PrintDefaults()
		fmt.Fprint(os.Stderr, usageFooter)
	}

	_ = fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("zstags version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	if globals.JSON {
		globals.Quiet = true
	}
	ui.InitColors(globals.NoColor || os.Getenv("NO_COLOR") != "")

	args := fs.Args()
	if len(args) == 0 {
		fs.Usage()
		os.Exit(errors.ExitInput)
	}

	cwd, err := os.Getwd()
	if err != nil {
		errors.FatalError(errors.NewInternalError(
			"Cannot determine working directory",
			err.Error(),
			"",
			err,
		), globals.JSON)
	}

	a := &app{
		globals: globals,
		cwd:     cwd,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	if err := a.dispatch(args[0], args[1:]); err != nil {
		errors.FatalError(err, globals.JSON)
	}
}

// dispatch runs the named command.
func (a *app) dispatch(command string, args []string) error {
	switch command {
	case "edit":
		return a.runEdit(args)
	case "dump":
		return a.runDump(args)
	case "browse":
		return a.runBrowse(args)
	case "init":
		return a.runInit(args)
	case "status":
		return a.runStatus(args)
	case "completion":
		return a.runCompletion(args)
	default:
		return errors.NewInputError(
			"Unknown command",
			fmt.Sprintf("'%s' is not a zstags command", command),
			"Run 'zstags --help' to list the commands",
		)
	}
}

// parseFlags parses a command's flags. It reports stop when the command
// must not run: after --help (with a nil error) or on a parse failure.
func parseFlags(fs *flag.FlagSet, args []string) (stop bool, err error) {
	err = fs.Parse(args)
	if stderrors.Is(err, flag.ErrHelp) {
		return true, nil
	}
	if err != nil {
		return true, errors.NewInputError(
			"Invalid arguments",
			err.Error(),
			fmt.Sprintf("Run 'zstags %s --help' for usage", fs.Name()),
		)
	}
	return false, nil
}

// newFlagSet returns a command flag set that reports errors instead of
// exiting, with its usage text written to the app's stderr.
func (a *app) newFlagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprint(a.stderr, usage)
		fs.PrintDefaults()
	}
	return fs
}

// infof writes a progress note to stderr unless output is quiet or JSON.
func (a *app) infof(format string, args ...any) {
	if a.globals.Quiet || a.globals.JSON {
		return
	}
	ui.Infof(a.stderr, format, args...)
}
