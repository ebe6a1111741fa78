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
	"slices"
	"strings"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Document is a parsed contour annotation export.  It is immutable after
// parsing; the conversion pipeline never modifies it.
type Document struct {
	// Series is the series name, taken from the prefix of the document's
	// top-level keys.  Empty if the document has no sections and no
	// series record.
	Series string

	// Sections holds the sections in document order.  Section indices are
	// unique but need not be sorted or contiguous.
	Sections []*Section
}

// Section is one physical slice of the serial-section volume.
type Section struct {
	// Index is the section's position along the cutting axis.  Indices
	// define the stack order; gaps are legal.
	Index int

	// Mag is the calibration factor (physical units per trace unit).
	// Contour coordinates are divided by Mag before the transform is
	// applied.  Always positive.
	Mag float64

	// Tform maps calibrated contour coordinates to the common pixel
	// frame.  Nil if the section record carries no transform.
	Tform *matrix.Matrix

	// Objects holds the named contour objects of this section, in
	// document order.  Document order determines both label assignment
	// and the overwrite order of overlapping objects.
	Objects []*Object
}

// Object is a named annotation entity on one section.  Objects with the
// same name on different sections denote the same semantic structure and
// receive the same label.
type Object struct {
	Name     string
	Contours []*Contour
}

// Contour is one closed ring of an object's outline.  Rings of the same
// object combine with even-odd semantics, so a ring inside another ring
// cuts a hole.
type Contour struct {
	// Points is the ring's vertex sequence in trace coordinates.  The
	// last point connects implicitly back to the first.
	Points []vec.Vec2

	// Closed records the exporting tool's closed flag.  Open traces are
	// still filled as if closed.
	Closed bool

	// Hidden marks contours the annotator switched invisible.  Hidden
	// contours are dropped before rasterisation unless requested.
	Hidden bool

	// Negative marks explicit hole contours.  With even-odd filling a
	// negative ring inside its parent cuts a hole with no special
	// handling, so the flag is informational.
	Negative bool

	// Color is the trace colour as stored in the document, if any.
	Color []float64

	// Tags holds the contour's free-form tags.
	Tags []string
}

// SectionIndices returns the distinct section indices in ascending order.
func (d *Document) SectionIndices() []int {
	idx := make([]int, len(d.Sections))
	for i, sec := range d.Sections {
		idx[i] = sec.Index
	}
	slices.Sort(idx)
	return idx
}

// filtered returns a view of the document with the option-level filters
// applied: hidden contours dropped (unless included), excluded object
// names removed, and sections restricted to the requested index subset.
// The returned document shares contours with the original.
func (d *Document) filtered(o *Options) *Document {
	if o.IncludeHidden && len(o.Exclude) == 0 && len(o.Sections) == 0 {
		return d
	}

	out := &Document{Series: d.Series}
	for _, sec := range d.Sections {
		if len(o.Sections) > 0 && !slices.Contains(o.Sections, sec.Index) {
			continue
		}
		fs := &Section{
			Index: sec.Index,
			Mag:   sec.Mag,
			Tform: sec.Tform,
		}
		for _, obj := range sec.Objects {
			if excludeName(obj.Name, o.Exclude) {
				continue
			}
			contours := obj.Contours
			if !o.IncludeHidden {
				contours = slices.DeleteFunc(slices.Clone(contours),
					func(c *Contour) bool { return c.Hidden })
			}
			if len(contours) == 0 {
				continue
			}
			fs.Objects = append(fs.Objects, &Object{Name: obj.Name, Contours: contours})
		}
		out.Sections = append(out.Sections, fs)
	}
	return out
}

// excludeName reports whether name contains any of the given substrings.
// Matching is case-insensitive.
func excludeName(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	lower := strings.ToLower(name)
	for _, p := range patterns {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
