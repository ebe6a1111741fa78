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
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// rectRing builds a closed rectangular ring.
func rectRing(x0, y0, x1, y1 float64) *Contour {
	return &Contour{
		Points: []vec.Vec2{
			{X: x0, Y: y0},
			{X: x1, Y: y0},
			{X: x1, Y: y1},
			{X: x0, Y: y1},
		},
		Closed: true,
	}
}

// rectObject builds an object with a single rectangular ring.
func rectObject(name string, x0, y0, x1, y1 float64) *Object {
	return &Object{
		Name:     name,
		Contours: []*Contour{rectRing(x0, y0, x1, y1)},
	}
}

// identitySection builds a section with an identity transform and the
// given objects.
func identitySection(index int, objects ...*Object) *Section {
	ident := matrix.Identity
	return &Section{
		Index:   index,
		Mag:     1,
		Tform:   &ident,
		Objects: objects,
	}
}

// clipRect builds the device clip for a raster of the given size.
func clipRect(width, height int) rect.Rect {
	return rect.Rect{LLx: 0, LLy: 0, URx: float64(width), URy: float64(height)}
}

// countLabel counts the pixels of a raster carrying the given label.
func countLabel(r *Raster, label uint32) int {
	n := 0
	for _, v := range r.Pix {
		if v == label {
			n++
		}
	}
	return n
}
