// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// TestJSON verifies that JSONTo produces pretty-printed output with 2-space indentation.
func TestJSON(t *testing.T) {
	var buf bytes.Buffer

	entries := []TagEntry{{Path: "/srv/a.jpg", Tags: []string{"beach", "summer"}}}
	if err := JSONTo(&buf, entries); err != nil {
		t.Fatalf("JSONTo failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "    \"path\": \"/srv/a.jpg\"") {
		t.Errorf("Expected 2-space indentation, got: %s", output)
	}
	if !strings.HasSuffix(output, "]\n") {
		t.Errorf("Expected trailing newline, got: %q", output)
	}
}

// TestTagEntry_OmitsEmptyError verifies that successful entries carry no error key.
func TestTagEntry_OmitsEmptyError(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONTo(&buf, TagEntry{Path: "/f", Tags: []string{"x"}}); err != nil {
		t.Fatalf("JSONTo failed: %v", err)
	}
	if strings.Contains(buf.String(), `"error"`) {
		t.Errorf("Expected error to be omitted, got: %s", buf.String())
	}

	buf.Reset()
	if err := JSONTo(&buf, TagEntry{Path: "/f", Error: "permission denied"}); err != nil {
		t.Fatalf("JSONTo failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"error": "permission denied"`) {
		t.Errorf("Expected error field, got: %s", buf.String())
	}
}

// TestEditResult_RoundTrip checks the field names consumers rely on.
func TestEditResult_Fields(t *testing.T) {
	var buf bytes.Buffer
	res := EditResult{
		Path:    "/f",
		Before:  []string{"a"},
		After:   []string{"a", "b"},
		Changed: true,
		Invalid: []string{"x"},
	}
	if err := JSONTo(&buf, res); err != nil {
		t.Fatalf("JSONTo failed: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"path", "before", "after", "changed", "invalid"} {
		if _, ok := got[key]; !ok {
			t.Errorf("missing key %q in %s", key, buf.String())
		}
	}
}

// TestStatus_XattrOmitsIndexFields verifies that xattr status has no index fields.
func TestStatus_XattrOmitsIndexFields(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONTo(&buf, Status{Backend: "xattr"}); err != nil {
		t.Fatalf("JSONTo failed: %v", err)
	}
	for _, key := range []string{"data_dir", "base_dir", "keys", "rows"} {
		if strings.Contains(buf.String(), key) {
			t.Errorf("unexpected %q in %s", key, buf.String())
		}
	}
}

// TestJSONSpecialCharacters verifies proper handling of special characters.
func TestJSONSpecialCharacters(t *testing.T) {
	var buf bytes.Buffer

	entry := LinkEntry{Name: "0.txt", Target: "../a \"quoted\"\tname.txt"}
	if err := JSONTo(&buf, entry); err != nil {
		t.Fatalf("JSONTo failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, `\"quoted\"`) {
		t.Errorf("Expected escaped quotes, got: %s", output)
	}
	if !strings.Contains(output, `\t`) {
		t.Errorf("Expected escaped tab, got: %s", output)
	}
}

// TestJSONUnencodable verifies that encoding failures are reported.
func TestJSONUnencodable(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONTo(&buf, make(chan int)); err == nil {
		t.Error("expected an error for an unencodable value")
	}
}
