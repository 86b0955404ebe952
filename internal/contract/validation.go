// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-or-later

package contract

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultSoftLimitBytes is the baseline soft limit for one file's
	// encoded tag set. It matches the Linux limit for a single xattr value.
	DefaultSoftLimitBytes = 64 << 10 // 64 KiB

	// TagMaxBytes is the maximum length of a single tag.
	TagMaxBytes = 255
)

// SoftLimitBytes returns the effective soft limit for an encoded tag set.
// Controlled via env ZSTAGS_SOFT_LIMIT_BYTES; falls back to DefaultSoftLimitBytes.
func SoftLimitBytes() int {
	if v := os.Getenv("ZSTAGS_SOFT_LIMIT_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return DefaultSoftLimitBytes
}

// ValidationResult represents the result of a validation check.
type ValidationResult struct {
	OK      bool
	Message string
}

func fail(format string, args ...any) *ValidationResult {
	return &ValidationResult{Message: fmt.Sprintf(format, args...)}
}

// ValidateTag checks a single tag as typed by a user.
func ValidateTag(tag string) *ValidationResult {
	switch {
	case tag == "":
		return fail("tag is empty")
	case !utf8.ValidString(tag):
		return fail("tag %q is not valid UTF-8", tag)
	case len(tag) > TagMaxBytes:
		return fail("tag exceeds %d bytes", TagMaxBytes)
	case strings.ContainsAny(tag, "\x00|"):
		return fail("tag %q contains a reserved character ('|' or NUL)", tag)
	case strings.TrimSpace(tag) != tag:
		return fail("tag %q has leading or trailing whitespace", tag)
	}
	return &ValidationResult{OK: true}
}

// ValidateTagSet checks the size of a tag set once encoded with '|'
// separators.
func ValidateTagSet(tags []string) *ValidationResult {
	size := 0
	for i, t := range tags {
		if i > 0 {
			size++
		}
		size += len(t)
	}
	if limit := SoftLimitBytes(); size > limit {
		return fail("tag set of %d bytes exceeds soft limit of %d bytes", size, limit)
	}
	return &ValidationResult{OK: true}
}
