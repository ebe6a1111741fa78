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
	"cmp"
	"fmt"
	"slices"

	"github.com/unixpickle/essentials"
	"go.uber.org/zap"
)

// Stack is the ordered sequence of per-section label rasters forming the
// output volume.  Rasters are ordered by ascending section index; all
// rasters have the same size.
type Stack struct {
	Width  int
	Height int

	// Indices holds the original section indices, ascending.  Sparse
	// source indices collapse to a dense stack; Indices preserves the
	// mapping back to the source.
	Indices []int

	// Rasters holds one label raster per entry of Indices.
	Rasters []*Raster
}

// Len returns the number of sections in the stack.
func (s *Stack) Len() int {
	return len(s.Rasters)
}

// MaxLabel returns the largest label value occurring anywhere in the
// stack, or 0 for an all-background stack.
func (s *Stack) MaxLabel() uint32 {
	var maxLabel uint32
	for _, r := range s.Rasters {
		for _, v := range r.Pix {
			if v > maxLabel {
				maxLabel = v
			}
		}
	}
	return maxLabel
}

// Assemble rasterises every section of a document into a label stack.
//
// Sections are ordered by ascending index; a section without objects
// still occupies a slot as an all-background raster.  Two sections with
// the same index fail with ErrDuplicateSection.  An empty document yields
// a zero-length stack.
//
// Sections are independent once the registry is built, so they are
// rasterised concurrently into pre-sized, index-addressed output slots;
// the stack order never depends on completion order.  A failure in any
// section aborts the whole run with no partial stack.
func Assemble(doc *Document, reg *Registry, size Size, opts *Options) (*Stack, error) {
	o := opts
	if o == nil {
		o = &Options{}
	}
	logger := o.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sections := slices.Clone(doc.Sections)
	slices.SortFunc(sections, func(a, b *Section) int {
		return cmp.Compare(a.Index, b.Index)
	})
	for i := 1; i < len(sections); i++ {
		if sections[i].Index == sections[i-1].Index {
			return nil, fmt.Errorf("%w: index %d", ErrDuplicateSection, sections[i].Index)
		}
	}

	stack := &Stack{
		Width:   size.Width,
		Height:  size.Height,
		Indices: make([]int, len(sections)),
		Rasters: make([]*Raster, len(sections)),
	}
	errs := make([]error, len(sections))

	essentials.ConcurrentMap(o.Workers, len(sections), func(i int) {
		sec := sections[i]
		stack.Indices[i] = sec.Index

		ctm, clip, err := ResolveTransform(sec, size, o)
		if err != nil {
			errs[i] = err
			return
		}

		dst := NewRaster(size.Width, size.Height)
		r := NewRasteriser(clip)
		r.CTM = ctm
		r.Logger = logger.With(zap.Int("section", sec.Index))
		for _, obj := range sec.Objects {
			// Later objects overwrite earlier ones at overlapping
			// pixels; the order is the document order.
			r.FillObject(dst, obj, reg.Label(obj.Name))
		}
		stack.Rasters[i] = dst

		logger.Debug("rasterised section",
			zap.Int("section", sec.Index),
			zap.Int("objects", len(sec.Objects)))
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return stack, nil
}
