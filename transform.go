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
)

// ResolveTransform computes the transform from a section's trace
// coordinates to the pixel grid of the target raster, together with the
// device clip rectangle for that raster.
//
// The result composes three steps: division by the section's calibration
// factor, the section's stored affine transform, and the uniform
// pixels-per-unit output scale from the options.  The transform maps trace
// coordinates to real-valued pixel coordinates; rounding to pixels is
// deferred to the rasteriser so that composed transforms do not accumulate
// rounding error.
//
// If the section has no stored transform, Options.DefaultTransform is
// used; with neither present, or with a singular matrix, ResolveTransform
// fails with ErrTransform.
func ResolveTransform(sec *Section, size Size, o *Options) (matrix.Matrix, rect.Rect, error) {
	tf := sec.Tform
	if tf == nil {
		tf = o.DefaultTransform
	}
	if tf == nil {
		return matrix.Matrix{}, rect.Rect{},
			transformErrf("section %d has no transform and no default is configured", sec.Index)
	}

	scale := o.Scale
	if scale == 0 {
		scale = 1
	}

	// pixel = S(scale) ∘ T ∘ S(1/mag) applied to a trace point:
	// pre-scaling by 1/mag multiplies the linear part, post-scaling by
	// the output scale multiplies everything.
	m := matrix.Matrix{
		tf[0] / sec.Mag * scale,
		tf[1] / sec.Mag * scale,
		tf[2] / sec.Mag * scale,
		tf[3] / sec.Mag * scale,
		tf[4] * scale,
		tf[5] * scale,
	}

	det := m[0]*m[3] - m[1]*m[2]
	if det > -singularTolerance && det < singularTolerance {
		return matrix.Matrix{}, rect.Rect{},
			transformErrf("section %d has a singular transform", sec.Index)
	}

	clip := rect.Rect{
		LLx: 0,
		LLy: 0,
		URx: float64(size.Width),
		URy: float64(size.Height),
	}
	return m, clip, nil
}

// singularTolerance is the minimum absolute determinant for a transform to
// count as usable.  Below this the transform collapses the plane and no
// pixel mapping exists.
const singularTolerance = 1e-12
