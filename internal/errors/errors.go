// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package errors provides structured error handling for the zstags CLI.
//
// This package defines UserError, a type that carries structured error information
// including what went wrong, why it happened, and how to fix it. It also defines
// consistent exit codes for different error categories.
//
// # Usage Example
//
//	err := errors.NewDatabaseError(
//	    "Cannot open tag database",
//	    "The database directory is locked by another process",
//	    "Close other zstags invocations using the same database",
//	    underlyingErr,
//	)
//	errors.FatalError(err, false)
//
// Errors coming out of pkg/storage are mapped with FromStorage, which
// picks the category from the storage error type:
//
//	if err := backend.SetTags(path, tags); err != nil {
//	    return errors.FromStorage("Cannot write tags", err)
//	}
//
// # Formatted Output
//
//	Error: Cannot open tag database
//	Cause: The database directory is locked by another process
//	Fix:   Close other zstags invocations using the same database
//
// With --json the same information is written as an object with the
// keys error, cause, fix and exit_code.
//
// # Exit Codes
//
//   - ExitSuccess (0): Successful execution
//   - ExitConfig (1): Configuration errors (bad backend spec, malformed config file)
//   - ExitDatabase (2): Storage errors (xattr I/O, locked or missing database)
//   - ExitInput (4): Invalid user input (bad arguments, bad modifiers)
//   - ExitPermission (5): Permission denied (file access, etc.)
//   - ExitNotFound (6): Resource not found (source directory, file)
//   - ExitInternal (10): Internal errors (bugs, panics)
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/kraklabs/zstags/pkg/storage"
)

// Exit codes for different error categories.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitConfig indicates configuration errors.
	ExitConfig = 1

	// ExitDatabase indicates tag storage errors.
	ExitDatabase = 2

	// ExitInput indicates invalid user input (bad arguments, validation errors).
	ExitInput = 4

	// ExitPermission indicates permission denied errors.
	ExitPermission = 5

	// ExitNotFound indicates resource not found errors.
	ExitNotFound = 6

	// ExitInternal indicates internal errors (bugs, unexpected panics).
	// Exit code 10 signals "this is a bug that should be reported".
	ExitInternal = 10
)

// UserError represents an error with structured context for end users.
//
// It provides three levels of information:
//   - Message: What went wrong (user-facing error description)
//   - Cause: Why it happened (diagnostic information)
//   - Fix: How to fix it (actionable suggestion)
type UserError struct {
	// Message describes what went wrong in user-friendly language.
	Message string

	// Cause explains why the error occurred.
	Cause string

	// Fix provides an actionable suggestion on how to resolve the error.
	Fix string

	// ExitCode is the exit code used when exiting due to this error.
	ExitCode int

	// Err is the underlying error, kept for errors.Is/As.
	Err error
}

// Error implements the error interface.
func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *UserError) Unwrap() error {
	return e.Err
}

func newUserError(code int, msg, cause, fix string, err error) *UserError {
	return &UserError{
		Message:  msg,
		Cause:    cause,
		Fix:      fix,
		ExitCode: code,
		Err:      err,
	}
}

// NewConfigError creates a configuration error with exit code ExitConfig.
//
// Use this for unknown backend schemas, wrong argument counts and
// malformed config files.
func NewConfigError(msg, cause, fix string, err error) *UserError {
	return newUserError(ExitConfig, msg, cause, fix, err)
}

// NewDatabaseError creates a storage error with exit code ExitDatabase.
func NewDatabaseError(msg, cause, fix string, err error) *UserError {
	return newUserError(ExitDatabase, msg, cause, fix, err)
}

// NewInputError creates an input validation error with exit code ExitInput.
// Input errors do not wrap an underlying error.
func NewInputError(msg, cause, fix string) *UserError {
	return newUserError(ExitInput, msg, cause, fix, nil)
}

// NewPermissionError creates a permission denied error with exit code ExitPermission.
func NewPermissionError(msg, cause, fix string, err error) *UserError {
	return newUserError(ExitPermission, msg, cause, fix, err)
}

// NewNotFoundError creates a resource not found error with exit code ExitNotFound.
func NewNotFoundError(msg, cause, fix string, err error) *UserError {
	return newUserError(ExitNotFound, msg, cause, fix, err)
}

// NewInternalError creates an internal error with exit code ExitInternal.
//
// Internal errors indicate bugs and should be reported to the maintainers.
func NewInternalError(msg, cause, fix string, err error) *UserError {
	return newUserError(ExitInternal, msg, cause, fix, err)
}

// FromStorage wraps an error returned by pkg/storage into a UserError.
// The category follows the error chain:
//
//   - *UserError is returned unchanged
//   - *storage.ConfigError becomes a config error
//   - permission and not-exist filesystem errors keep their own codes,
//     also when wrapped in a *storage.StorageError
//   - any other *storage.StorageError becomes a database error
//   - anything else is internal
func FromStorage(msg string, err error) *UserError {
	if err == nil {
		return nil
	}

	var ue *UserError
	if stderrors.As(err, &ue) {
		return ue
	}

	var cfgErr *storage.ConfigError
	if stderrors.As(err, &cfgErr) {
		return NewConfigError(msg, cfgErr.Error(),
			"Use a backend spec like 'xattr' or 'persy:<db>:<base>[:init]'", err)
	}

	switch {
	case stderrors.Is(err, fs.ErrPermission):
		return NewPermissionError(msg, err.Error(), "Check the file permissions", err)
	case stderrors.Is(err, storage.ErrNotInitialized):
		return NewDatabaseError(msg, err.Error(),
			"Run 'zstags init -b persy:<db>:<base>' to create the database", err)
	case stderrors.Is(err, storage.ErrAlreadyInitialized):
		return NewDatabaseError(msg, err.Error(),
			"Drop the ':init' suffix to open the existing database", err)
	case stderrors.Is(err, fs.ErrNotExist):
		return NewNotFoundError(msg, err.Error(), "Check that the path exists", err)
	}

	var stErr *storage.StorageError
	if stderrors.As(err, &stErr) {
		return NewDatabaseError(msg, stErr.Error(), storageFix(stErr), err)
	}

	return NewInternalError(msg, err.Error(),
		"This is a bug. Please report it with the command that triggered it", err)
}

func storageFix(err *storage.StorageError) string {
	if err.Backend == storage.XattrSchema {
		return "Make sure the filesystem supports user extended attributes"
	}
	if stderrors.Is(err, storage.ErrClosed) {
		return ""
	}
	return "Close other zstags invocations using the same database and retry"
}

// Color definitions for error formatting.
var (
	colorError = color.New(color.FgRed, color.Bold)
	colorCause = color.New(color.FgYellow)
	colorFix   = color.New(color.FgGreen)
)

// Format returns a formatted error message for terminal display.
//
// The output includes colored sections for Error (red/bold), Cause (yellow),
// and Fix (green). Color output respects the NO_COLOR environment variable
// and can be explicitly disabled with the noColor parameter. Empty Cause
// or Fix fields are omitted.
//
// Note: This method temporarily modifies the global color.NoColor state
// and restores it after formatting.
func (e *UserError) Format(noColor bool) string {
	originalNoColor := color.NoColor
	defer func() { color.NoColor = originalNoColor }()

	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	var out strings.Builder
	out.WriteString(colorError.Sprint("Error: "))
	out.WriteString(e.Message)
	out.WriteString("\n")

	if e.Cause != "" {
		out.WriteString(colorCause.Sprint("Cause: "))
		out.WriteString(e.Cause)
		out.WriteString("\n")
	}

	if e.Fix != "" {
		out.WriteString(colorFix.Sprint("Fix:   "))
		out.WriteString(e.Fix)
		out.WriteString("\n")
	}

	return out.String()
}

// ErrorJSON represents error information in JSON format.
type ErrorJSON struct {
	Error    string `json:"error"`
	Cause    string `json:"cause,omitempty"`
	Fix      string `json:"fix,omitempty"`
	ExitCode int    `json:"exit_code"`
}

// ToJSON converts the UserError to a JSON-serializable structure.
func (e *UserError) ToJSON() ErrorJSON {
	return ErrorJSON{
		Error:    e.Message,
		Cause:    e.Cause,
		Fix:      e.Fix,
		ExitCode: e.ExitCode,
	}
}

// Report writes err to w and returns the exit code the process should
// use. UserErrors are rendered with Format or, in JSON mode, ToJSON;
// other errors get a plain line and ExitInternal.
func Report(w io.Writer, err error, jsonOutput bool) int {
	if err == nil {
		return ExitSuccess
	}

	var ue *UserError
	if !stderrors.As(err, &ue) {
		_, _ = fmt.Fprintf(w, "Error: %v\n", err)
		return ExitInternal
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		// Encode error is ignored since the caller is about to exit.
		_ = enc.Encode(ue.ToJSON())
	} else {
		_, _ = fmt.Fprint(w, ue.Format(false))
	}
	return ue.ExitCode
}

// FatalError prints the error to stderr and exits with the appropriate
// code. It does nothing when err is nil.
func FatalError(err error, jsonOutput bool) {
	if err == nil {
		return
	}
	os.Exit(Report(os.Stderr, err, jsonOutput))
}
