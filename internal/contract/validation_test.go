// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-or-later

package contract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSoftLimitBytes(t *testing.T) {
	tests := []struct {
		env  string
		want int
	}{
		{"", DefaultSoftLimitBytes},
		{"4000", 4000},
		{"-1", DefaultSoftLimitBytes},
		{"lots", DefaultSoftLimitBytes},
	}
	for _, tt := range tests {
		t.Setenv("ZSTAGS_SOFT_LIMIT_BYTES", tt.env)
		assert.Equal(t, tt.want, SoftLimitBytes(), "env %q", tt.env)
	}
}

func TestValidateTag(t *testing.T) {
	tests := []struct {
		tag string
		ok  bool
	}{
		{"holiday", true},
		{"ünïcode", true},
		{"with space", true},
		{"", false},
		{"a|b", false},
		{"a\x00b", false},
		{" padded", false},
		{"\xff", false},
		{strings.Repeat("x", TagMaxBytes), true},
		{strings.Repeat("x", TagMaxBytes+1), false},
	}
	for _, tt := range tests {
		res := ValidateTag(tt.tag)
		assert.Equal(t, tt.ok, res.OK, "tag %q: %s", tt.tag, res.Message)
		if !tt.ok {
			assert.NotEmpty(t, res.Message)
		}
	}
}

func TestValidateTagSet(t *testing.T) {
	t.Setenv("ZSTAGS_SOFT_LIMIT_BYTES", "7")

	assert.True(t, ValidateTagSet([]string{"abc", "def"}).OK, "3+1+3 bytes fits")
	assert.False(t, ValidateTagSet([]string{"abcd", "def"}).OK)
	assert.True(t, ValidateTagSet(nil).OK)
}
