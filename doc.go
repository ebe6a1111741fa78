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

// Package labelstack converts contour annotations from serial-section
// connectomics datasets into rasterised label volumes.
//
// The input is a Reconstruct/PyReconstruct ".jser" export: a JSON document
// holding, per section, an affine transform, a calibration factor, and a set
// of named contour objects.  The output is a stack of integer label images,
// one per section, where pixel value 0 is background and every distinct
// object name is assigned a stable positive label.  The stack can be kept
// in memory or written as one lossless PNG or TIFF image per section.
//
// The field layout of the input document is described in FORMAT.md.
package labelstack
