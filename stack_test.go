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

func TestAssembleShape(t *testing.T) {
	// Sparse, unsorted section indices collapse to a dense stack in
	// ascending order.
	doc := &Document{
		Sections: []*Section{
			identitySection(10, rectObject("a", 1, 1, 4, 4)),
			identitySection(2),
			identitySection(7, rectObject("b", 2, 2, 6, 6)),
		},
	}
	reg := AssignLabels(doc)

	stack, err := Assemble(doc, reg, Size{Width: 16, Height: 12}, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 7, 10}, stack.Indices)
	require.Equal(t, 3, stack.Len())
	for _, r := range stack.Rasters {
		assert.Equal(t, 16, r.Width)
		assert.Equal(t, 12, r.Height)
		assert.Len(t, r.Pix, 16*12)
	}

	// Section 2 has no objects: all background.
	assert.Equal(t, 0, countLabel(stack.Rasters[0], reg.Label("a"))+
		countLabel(stack.Rasters[0], reg.Label("b")))
	assert.NotZero(t, countLabel(stack.Rasters[2], reg.Label("a")))
	assert.NotZero(t, countLabel(stack.Rasters[1], reg.Label("b")))
}

func TestAssembleEmptyDocument(t *testing.T) {
	stack, err := Assemble(&Document{}, AssignLabels(&Document{}), Size{Width: 8, Height: 8}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stack.Len())
	assert.Equal(t, 8, stack.Width)
	assert.Equal(t, 8, stack.Height)
}

func TestAssembleDuplicateIndex(t *testing.T) {
	doc := &Document{
		Sections: []*Section{
			identitySection(3, rectObject("a", 0, 0, 2, 2)),
			identitySection(3, rectObject("b", 0, 0, 2, 2)),
		},
	}
	stack, err := Assemble(doc, AssignLabels(doc), Size{Width: 8, Height: 8}, nil)
	require.ErrorIs(t, err, ErrDuplicateSection)
	assert.Nil(t, stack, "no partial stack on failure")
}

func TestAssembleTransformFailure(t *testing.T) {
	doc := &Document{
		Sections: []*Section{
			identitySection(0, rectObject("a", 0, 0, 2, 2)),
			{Index: 1, Mag: 1}, // no transform
		},
	}
	stack, err := Assemble(doc, AssignLabels(doc), Size{Width: 8, Height: 8}, nil)
	require.ErrorIs(t, err, ErrTransform)
	assert.Nil(t, stack, "no partial stack on failure")
}

func TestAssembleParallelDeterministic(t *testing.T) {
	// Many sections, rasterised with different worker counts, must give
	// identical stacks: output slots are index-addressed, not
	// completion-ordered.
	doc := &Document{}
	for i := 20; i > 0; i-- {
		doc.Sections = append(doc.Sections, identitySection(i,
			rectObject("a", 1, 1, 10, 10),
			rectObject("b", 5, 5, 14, 14)))
	}
	reg := AssignLabels(doc)

	serial, err := Assemble(doc, reg, Size{Width: 16, Height: 16}, &Options{Workers: 1})
	require.NoError(t, err)
	parallel, err := Assemble(doc, reg, Size{Width: 16, Height: 16}, &Options{Workers: 8})
	require.NoError(t, err)

	require.Equal(t, serial.Indices, parallel.Indices)
	for i := range serial.Rasters {
		if diff := cmp.Diff(serial.Rasters[i].Pix, parallel.Rasters[i].Pix); diff != "" {
			t.Fatalf("section %d differs (-serial +parallel):\n%s", serial.Indices[i], diff)
		}
	}
}

func TestAssembleOverlapOrder(t *testing.T) {
	// Objects are painted in document order, so the later object owns
	// the overlap on every run.
	doc := &Document{
		Sections: []*Section{
			identitySection(0,
				rectObject("under", 0, 0, 10, 10),
				rectObject("over", 4, 4, 14, 14)),
		},
	}
	reg := AssignLabels(doc)

	for range 5 {
		stack, err := Assemble(doc, reg, Size{Width: 16, Height: 16}, nil)
		require.NoError(t, err)
		assert.Equal(t, reg.Label("over"), stack.Rasters[0].At(6, 6))
		assert.Equal(t, reg.Label("under"), stack.Rasters[0].At(2, 2))
	}
}
