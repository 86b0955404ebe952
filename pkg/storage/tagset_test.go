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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagSet_AddRemove(t *testing.T) {
	s := NewTagSet("a", "b", "a")
	assert.Equal(t, 2, s.Len())

	assert.True(t, s.Add("c"))
	assert.False(t, s.Add("c"), "second add must report no change")
	assert.True(t, s.Has("c"))

	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))
	assert.False(t, s.Has("a"))
}

func TestTagSet_NilIsEmpty(t *testing.T) {
	var s TagSet
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Has("x"))
	assert.False(t, s.Remove("x"))
	assert.Empty(t, s.Sorted())
	assert.True(t, s.Equal(NewTagSet()))
}

func TestTagSet_IntersectCount(t *testing.T) {
	tests := []struct {
		name string
		a, b TagSet
		want int
	}{
		{"disjoint", NewTagSet("x"), NewTagSet("y"), 0},
		{"partial", NewTagSet("x", "y"), NewTagSet("y", "z", "w"), 1},
		{"full", NewTagSet("x", "y"), NewTagSet("y", "x"), 2},
		{"empty", NewTagSet(), NewTagSet("x"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.IntersectCount(tt.b))
			assert.Equal(t, tt.want, tt.b.IntersectCount(tt.a))
		})
	}
}

func TestTagSet_EqualAndClone(t *testing.T) {
	a := NewTagSet("red", "blue")
	c := a.Clone()
	assert.True(t, a.Equal(c))

	c.Add("green")
	assert.False(t, a.Equal(c))
	assert.Equal(t, 2, a.Len(), "clone must not share storage")
}

func TestTagSet_Sorted(t *testing.T) {
	s := NewTagSet("pear", "apple", "fig")
	assert.Equal(t, []string{"apple", "fig", "pear"}, s.Sorted())
	assert.Equal(t, "apple fig pear", s.String())
}
