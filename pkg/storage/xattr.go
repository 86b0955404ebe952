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

package storage

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkg/xattr"
)

const (
	// XattrSchema selects XattrBackend in a backend specification.
	XattrSchema = "xattr"

	// AttrName is the extended attribute holding a file's tags.
	AttrName = "user.zstags"

	// attrSeparator joins tags in the attribute value. Null bytes are
	// accepted on read but never written: several file managers cannot
	// round-trip them through extended attributes.
	attrSeparator = "|"
)

// XattrBackend stores tags in the user.zstags extended attribute of each
// file. Tags follow the inode, so renames and hard links keep them.
//
// Operations are serialized within one XattrBackend, but the read and the
// write of an update are separate syscalls: two processes editing the same
// file can lose an update.
type XattrBackend struct {
	mu     sync.Mutex
	closed bool
}

// NewXattrBackend returns a ready to use extended attribute backend.
func NewXattrBackend() *XattrBackend {
	return &XattrBackend{}
}

func newXattrFromSpec(spec Spec, _ Options) (Backend, error) {
	if len(spec.Args) != 0 {
		return nil, &ConfigError{Spec: spec.Raw, Msg: "xattr backend takes no arguments", Err: ErrArgCount}
	}
	return NewXattrBackend(), nil
}

// Name implements Backend.
func (b *XattrBackend) Name() string { return XattrSchema }

// Tags implements Backend.
func (b *XattrBackend) Tags(path string) (TagSet, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, b.fail("tags", path, ErrClosed)
	}
	return b.read(path)
}

// SetTags implements Backend.
func (b *XattrBackend) SetTags(path string, tags TagSet) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return b.fail("set_tags", path, ErrClosed)
	}

	if tags.Len() == 0 {
		rmErr := xattr.Remove(path, AttrName)
		if rmErr == nil {
			return nil
		}
		// removing an attribute that is already gone fails on most
		// filesystems; that is still the requested state
		left, err := b.read(path)
		if err != nil {
			return err
		}
		if left.Len() == 0 {
			return nil
		}
		return b.fail("set_tags", path, rmErr)
	}

	value, err := encodeTags(tags)
	if err != nil {
		return b.fail("set_tags", path, err)
	}
	if err := xattr.Set(path, AttrName, value); err != nil {
		return b.fail("set_tags", path, err)
	}
	return nil
}

// Close implements Backend. Extended attributes hold no handle, so Close
// only stops further use.
func (b *XattrBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

func (b *XattrBackend) read(path string) (TagSet, error) {
	raw, err := xattr.Get(path, AttrName)
	if err != nil {
		if errors.Is(err, xattr.ENOATTR) {
			return NewTagSet(), nil
		}
		return nil, b.fail("tags", path, err)
	}
	tags, err := decodeTags(raw)
	if err != nil {
		return nil, b.fail("tags", path, err)
	}
	return tags, nil
}

func (b *XattrBackend) fail(op, path string, err error) error {
	return &StorageError{Backend: XattrSchema, Op: op, Path: path, Err: err}
}

// decodeTags splits an attribute payload on '|' or NUL. Both separators
// are accepted to read values written by older encoders.
func decodeTags(raw []byte) (TagSet, error) {
	tags := NewTagSet()
	fields := bytes.FieldsFunc(raw, func(r rune) bool { return r == 0 || r == '|' })
	for _, f := range fields {
		if !utf8.Valid(f) {
			return nil, ErrInvalidUTF8
		}
		tags.Add(string(f))
	}
	return tags, nil
}

func encodeTags(tags TagSet) ([]byte, error) {
	sorted := tags.Sorted()
	for _, t := range sorted {
		if err := checkTag(t, "\x00"+attrSeparator); err != nil {
			return nil, err
		}
	}
	return []byte(strings.Join(sorted, attrSeparator)), nil
}

// checkTag validates a tag against the bytes a backend reserves.
func checkTag(tag, reserved string) error {
	switch {
	case tag == "":
		return ErrEmptyTag
	case !utf8.ValidString(tag):
		return ErrInvalidUTF8
	case strings.ContainsAny(tag, reserved):
		return ErrInvalidTag
	}
	return nil
}
