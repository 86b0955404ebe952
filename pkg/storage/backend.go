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

// Backend is the interface that all tag storage backends must implement.
// It reads and replaces the complete tag set of one file at a time.
//
// Calls through a single Backend value are serialized by the
// implementation. Nothing is promised across processes beyond what the
// underlying storage guarantees.
type Backend interface {
	// Name returns the schema name the backend was selected with.
	Name() string

	// Tags returns the tags stored for path. A path that was never
	// tagged yields an empty set and a nil error.
	Tags(path string) (TagSet, error)

	// SetTags replaces the stored set for path. An empty set removes
	// every trace of path from storage.
	SetTags(path string, tags TagSet) error

	// Close releases any resources held by the backend.
	Close() error
}

// TagAdder is implemented by backends that can add a single tag in one
// atomic step instead of a read-modify-write of the whole set.
type TagAdder interface {
	AddTag(path, tag string) (bool, error)
}

// TagDeleter is implemented by backends that can delete a single tag in
// one atomic step.
type TagDeleter interface {
	DeleteTag(path, tag string) (bool, error)
}

// PathLister is implemented by backends that can enumerate every tagged
// path without walking the filesystem.
type PathLister interface {
	TaggedPaths() ([]string, error)
}

// Wrapper is implemented by decorators such as InstrumentedBackend.
type Wrapper interface {
	Unwrap() Backend
}

// Unwrap strips decorators until it reaches a backend that does not
// implement Wrapper.
func Unwrap(b Backend) Backend {
	for {
		w, ok := b.(Wrapper)
		if !ok {
			return b
		}
		b = w.Unwrap()
	}
}

// AddTag adds tag to the set stored for path and reports whether the
// set changed. Backends implementing TagAdder handle it directly;
// otherwise the whole set is read, modified and written back, which is
// not atomic against other processes.
func AddTag(b Backend, path, tag string) (bool, error) {
	if tag == "" {
		return false, ErrEmptyTag
	}
	if a, ok := b.(TagAdder); ok {
		return a.AddTag(path, tag)
	}
	tags, err := b.Tags(path)
	if err != nil {
		return false, err
	}
	if tags == nil {
		tags = NewTagSet()
	}
	changed := tags.Add(tag)
	if !changed {
		return false, nil
	}
	return true, b.SetTags(path, tags)
}

// DeleteTag removes tag from the set stored for path and reports
// whether it was present. Deleting an absent tag is not an error.
func DeleteTag(b Backend, path, tag string) (bool, error) {
	if tag == "" {
		return false, ErrEmptyTag
	}
	if d, ok := b.(TagDeleter); ok {
		return d.DeleteTag(path, tag)
	}
	tags, err := b.Tags(path)
	if err != nil {
		return false, err
	}
	if !tags.Remove(tag) {
		return false, nil
	}
	return true, b.SetTags(path, tags)
}
