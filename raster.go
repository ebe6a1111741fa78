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
	"math"
	"slices"

	"go.uber.org/zap"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Raster is a 2D integer label image in row-major order (height rows of
// width pixels).  Pixel value 0 is background.
type Raster struct {
	Width  int
	Height int
	Pix    []uint32
}

// NewRaster returns an all-background raster of the given size.
func NewRaster(width, height int) *Raster {
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]uint32, width*height),
	}
}

// At returns the label at pixel (x, y).
func (r *Raster) At(x, y int) uint32 {
	return r.Pix[y*r.Width+x]
}

// edge represents one polygon edge in device coordinates.
type edge struct {
	x0, y0 float64 // start point
	x1, y1 float64 // end point
	dxdy   float64 // (x1-x0)/(y1-y0), precomputed for x-intercept calculation
}

// hseg is a horizontal edge in device coordinates.  Horizontal edges never
// produce scanline crossings; they are kept separately so that pixel
// centers lying exactly on them are still filled (closed-fill policy).
type hseg struct {
	y      float64
	x0, x1 float64 // x0 <= x1
}

// Rasteriser fills contour objects into label rasters using a scanline
// fill.  Create one instance per goroutine and reuse it for multiple
// objects; internal buffers grow as needed but never shrink.
//
// A Rasteriser is not safe for concurrent use.
type Rasteriser struct {
	// CTM transforms trace coordinates to device (pixel) coordinates.
	CTM matrix.Matrix

	// Clip bounds output to this device-coordinate rectangle.
	// Coordinates must be integer-aligned.
	Clip rect.Rect

	// Logger receives warnings about skipped degenerate contours.
	// Must not be nil; NewRasteriser installs a no-op logger.
	Logger *zap.Logger

	// Internal buffers (reused across calls)
	edges []edge    // edge list for the current object (device coordinates)
	hsegs []hseg    // horizontal segments, kept for boundary inclusion
	xs    []float64 // scanline crossing buffer

	// Edge collection state (used by FillObject/addEdge)
	edgeBBoxFirst bool    // true if no edges added yet
	edgeDevYMin   float64 // vertical bounding box in device space
	edgeDevYMax   float64
}

// NewRasteriser returns a Rasteriser with the given clip rectangle, an
// identity transform, and a no-op logger.
func NewRasteriser(clip rect.Rect) *Rasteriser {
	return &Rasteriser{
		CTM:    matrix.Identity,
		Clip:   clip,
		Logger: zap.NewNop(),
	}
}

// FillObject paints all rings of an object into dst with the given label.
//
// The fill samples pixel centers: pixel (x, y) is inside if the point
// (x+0.5, y+0.5) is inside the object's outline under the even-odd rule
// applied across all of the object's rings together, so an inner ring cuts
// a hole in an outer ring.  Pixels whose center lies exactly on an edge
// are included (closed fill).  Pixels outside the clip rectangle are never
// written; an object entirely outside the clip contributes nothing.
//
// Rings with fewer than 3 points cannot enclose area; they are skipped
// with a warning and the remaining rings are filled normally.
func (r *Rasteriser) FillObject(dst *Raster, obj *Object, label uint32) {
	r.edges = r.edges[:0]
	r.hsegs = r.hsegs[:0]
	r.edgeBBoxFirst = true

	for _, c := range obj.Contours {
		if len(c.Points) < 3 {
			r.Logger.Warn("skipping degenerate contour",
				zap.String("object", obj.Name),
				zap.Int("points", len(c.Points)))
			continue
		}
		prev := c.Points[len(c.Points)-1] // ring closes implicitly
		for _, pt := range c.Points {
			r.addEdge(prev, pt)
			prev = pt
		}
	}
	if len(r.edges) == 0 && len(r.hsegs) == 0 {
		return
	}

	// Scanline range: centers y+0.5 within both the edge bounding box
	// and the clip rectangle.
	yLo := max(int(math.Floor(r.edgeDevYMin-0.5)), int(r.Clip.LLy), 0)
	yHi := min(int(math.Ceil(r.edgeDevYMax+0.5)), int(r.Clip.URy), dst.Height)

	clipXMin := max(int(r.Clip.LLx), 0)
	clipXMax := min(int(r.Clip.URx), dst.Width)

	for y := yLo; y < yHi; y++ {
		yc := float64(y) + 0.5

		// Collect edge crossings at the sample line.  The half-open
		// test counts each vertex once regardless of edge direction.
		r.xs = r.xs[:0]
		for i := range r.edges {
			e := &r.edges[i]
			if (e.y0 <= yc && yc < e.y1) || (e.y1 <= yc && yc < e.y0) {
				r.xs = append(r.xs, e.x0+e.dxdy*(yc-e.y0))
			}
		}
		slices.Sort(r.xs)

		// Even-odd: consecutive crossing pairs delimit interior spans.
		row := dst.Pix[y*dst.Width : (y+1)*dst.Width]
		for i := 0; i+1 < len(r.xs); i += 2 {
			fillSpan(row, r.xs[i], r.xs[i+1], clipXMin, clipXMax, label)
		}

		// Horizontal edges lying exactly on the sample line: their
		// pixels sit on the outline and count as inside.
		for i := range r.hsegs {
			s := &r.hsegs[i]
			if s.y >= yc-boundaryEps && s.y <= yc+boundaryEps {
				fillSpan(row, s.x0, s.x1, clipXMin, clipXMax, label)
			}
		}
	}
}

// fillSpan paints the pixels whose center x+0.5 lies in [xa, xb], clamped
// to the clip range.  The boundary epsilon keeps centers exactly on a span
// boundary inside regardless of floating-point jitter direction.
func fillSpan(row []uint32, xa, xb float64, clipXMin, clipXMax int, label uint32) {
	left := max(int(math.Ceil(xa-0.5-boundaryEps)), clipXMin)
	right := min(int(math.Floor(xb-0.5+boundaryEps)), clipXMax-1)
	for x := left; x <= right; x++ {
		row[x] = label
	}
}

// addEdge adds an edge from trace coordinates, transforming to device
// space.  Horizontal edges produce no crossings and go to the separate
// hseg list.
func (r *Rasteriser) addEdge(p0, p1 vec.Vec2) {
	dx0 := r.CTM[0]*p0.X + r.CTM[2]*p0.Y + r.CTM[4]
	dy0 := r.CTM[1]*p0.X + r.CTM[3]*p0.Y + r.CTM[5]
	dx1 := r.CTM[0]*p1.X + r.CTM[2]*p1.Y + r.CTM[4]
	dy1 := r.CTM[1]*p1.X + r.CTM[3]*p1.Y + r.CTM[5]

	dy := dy1 - dy0
	if dy > -horizontalEdgeThreshold && dy < horizontalEdgeThreshold {
		r.hsegs = append(r.hsegs, hseg{
			y:  (dy0 + dy1) / 2,
			x0: min(dx0, dx1),
			x1: max(dx0, dx1),
		})
	} else {
		r.edges = append(r.edges, edge{
			x0: dx0, y0: dy0,
			x1: dx1, y1: dy1,
			dxdy: (dx1 - dx0) / dy,
		})
	}

	if r.edgeBBoxFirst {
		r.edgeDevYMin = min(dy0, dy1)
		r.edgeDevYMax = max(dy0, dy1)
		r.edgeBBoxFirst = false
	} else {
		r.edgeDevYMin = min(r.edgeDevYMin, min(dy0, dy1))
		r.edgeDevYMax = max(r.edgeDevYMax, max(dy0, dy1))
	}
}

// Numerical tolerances for the rasteriser.
const (
	// horizontalEdgeThreshold is the minimum vertical extent for an edge
	// to contribute crossings.  Edges with |y1 - y0| below this
	// threshold are treated as horizontal.
	horizontalEdgeThreshold = 1e-10

	// boundaryEps widens interior spans by a small amount so that pixel
	// centers lying exactly on a polygon edge are filled.
	boundaryEps = 1e-9
)
