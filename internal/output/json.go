// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package output provides the machine-readable side of the zstags CLI.
//
// Every command that accepts --json writes one of the types below with
// JSON or JSONTo. Human-readable output lives in the ui package and
// errors are rendered by the errors package.
//
//	entries := []output.TagEntry{{Path: "/srv/a.jpg", Tags: []string{"beach"}}}
//	if err := output.JSON(entries); err != nil {
//	    errors.FatalError(err, true)
//	}
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// TagEntry is one tagged file as reported by dump.
type TagEntry struct {
	Path  string   `json:"path"`
	Tags  []string `json:"tags"`
	Error string   `json:"error,omitempty"`
}

// LinkEntry is one symlink created (or attempted) by browse.
type LinkEntry struct {
	Name   string `json:"name"`
	Target string `json:"target"`
	Error  string `json:"error,omitempty"`
}

// EditResult describes the outcome of applying tag modifiers to a file.
type EditResult struct {
	Path    string   `json:"path"`
	Before  []string `json:"before"`
	After   []string `json:"after"`
	Changed bool     `json:"changed"`
	Invalid []string `json:"invalid,omitempty"`
}

// Status is the report printed by the status command.
type Status struct {
	Backend    string `json:"backend"`
	ConfigFile string `json:"config_file,omitempty"`
	DataDir    string `json:"data_dir,omitempty"`
	BaseDir    string `json:"base_dir,omitempty"`
	Keys       int    `json:"keys,omitempty"`
	Rows       int    `json:"rows,omitempty"`
}

// JSON writes data as pretty-printed JSON to stdout.
func JSON(data any) error {
	return JSONTo(os.Stdout, data)
}

// JSONTo writes data as pretty-printed JSON (2-space indent) to w.
func JSONTo(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("JSON encoding failed: %w", err)
	}
	return nil
}
