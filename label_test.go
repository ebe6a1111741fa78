// seehuhn.de/go/labelstack - rasterise contour annotations into label stacks
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package labelstack

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignLabelsOrder(t *testing.T) {
	// Sections are deliberately out of order in the document; label
	// assignment must traverse them by ascending index.
	doc := &Document{
		Sections: []*Section{
			identitySection(5, rectObject("late", 0, 0, 1, 1)),
			identitySection(1,
				rectObject("first", 0, 0, 1, 1),
				rectObject("second", 0, 0, 1, 1)),
			identitySection(3,
				rectObject("second", 0, 0, 1, 1), // repeat keeps its label
				rectObject("third", 0, 0, 1, 1)),
		},
	}

	reg := AssignLabels(doc)
	require.Equal(t, 4, reg.Len())
	assert.Equal(t, uint32(1), reg.Label("first"))
	assert.Equal(t, uint32(2), reg.Label("second"))
	assert.Equal(t, uint32(3), reg.Label("third"))
	assert.Equal(t, uint32(4), reg.Label("late"))

	assert.Equal(t, []string{"first", "second", "third", "late"}, reg.Names())
	assert.Equal(t, "second", reg.Name(2))
	assert.Equal(t, "", reg.Name(0))
	assert.Equal(t, "", reg.Name(99))
	assert.Equal(t, uint32(0), reg.Label("unknown"))
	assert.Equal(t, 2, reg.Count("second"))
}

func TestAssignLabelsStable(t *testing.T) {
	doc, err := Parse([]byte(sampleJSER))
	require.NoError(t, err)

	a := AssignLabels(doc)
	b := AssignLabels(doc)

	if diff := cmp.Diff(a.Names(), b.Names()); diff != "" {
		t.Errorf("label assignment not stable (-first +second):\n%s", diff)
	}
	for _, name := range a.Names() {
		assert.Equal(t, a.Label(name), b.Label(name))
	}
}

func TestAssignLabelsEmpty(t *testing.T) {
	reg := AssignLabels(&Document{})
	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, reg.Names())
	assert.Equal(t, uint32(0), reg.Label("anything"))
}

func TestAssignLabelsExactNames(t *testing.T) {
	// No normalisation: names differing in case or whitespace are
	// distinct objects.
	doc := &Document{
		Sections: []*Section{
			identitySection(0,
				rectObject("Mito", 0, 0, 1, 1),
				rectObject("mito", 0, 0, 1, 1),
				rectObject("mito ", 0, 0, 1, 1)),
		},
	}
	reg := AssignLabels(doc)
	assert.Equal(t, 3, reg.Len())
}
