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
	"fmt"
	"os"

	"go.uber.org/zap"
	"seehuhn.de/go/geom/matrix"
)

// Size is the target raster size in pixels, applied uniformly to every
// section of the output stack.
type Size struct {
	Width  int
	Height int
}

// Options control the conversion pipeline.  The zero value is a valid
// configuration; a nil *Options behaves like the zero value.
type Options struct {
	// Scale is the output scale in pixels per transformed unit.
	// Zero means 1 (the transformed coordinates are already pixels).
	Scale float64

	// DefaultTransform is used for sections without a stored transform.
	// With DefaultTransform nil, such sections fail with ErrTransform.
	DefaultTransform *matrix.Matrix

	// IncludeHidden rasterises contours marked hidden in the document.
	// By default hidden contours are dropped.
	IncludeHidden bool

	// Exclude drops objects whose name contains any of these substrings
	// (case-insensitive).  Excluded names receive no label.
	Exclude []string

	// Sections restricts the run to the given section indices.
	// Empty means all sections.
	Sections []int

	// Workers is the maximum number of concurrent section workers.
	// Zero means one per CPU.
	Workers int

	// Logger receives per-section progress and degenerate-contour
	// warnings.  Nil means no logging.
	Logger *zap.Logger
}

// Convert parses a contour annotation export and rasterises it into an
// in-memory label stack.  This is the array-mode entry point.
//
// The target size must have positive width and height; otherwise Convert
// fails with ErrInvalidTargetSize.  Component errors (ErrMalformedDocument,
// ErrDuplicateSection, ErrTransform) propagate unchanged.
func Convert(data []byte, size Size, opts *Options) (*Stack, *Registry, error) {
	o := opts
	if o == nil {
		o = &Options{}
	}
	if size.Width <= 0 || size.Height <= 0 {
		return nil, nil, fmt.Errorf("%w: %dx%d", ErrInvalidTargetSize, size.Width, size.Height)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, nil, err
	}
	doc = doc.filtered(o)

	reg := AssignLabels(doc)
	stack, err := Assemble(doc, reg, size, o)
	if err != nil {
		return nil, nil, err
	}
	return stack, reg, nil
}

// ConvertFile is Convert reading the document from a file.  Read failures
// are wrapped as ErrIO.
func ConvertFile(path string, size Size, opts *Options) (*Stack, *Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, ioErr("reading "+path, err)
	}
	return Convert(data, size, opts)
}

// ConvertToDir converts a document file and writes the resulting stack as
// one label image per section into dir (file mode).  The directory is
// created if absent.
func ConvertToDir(path, dir string, size Size, format Format, opts *Options) error {
	stack, _, err := ConvertFile(path, size, opts)
	if err != nil {
		return err
	}
	return WriteStack(stack, dir, format)
}
