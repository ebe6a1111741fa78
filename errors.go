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
	"errors"
	"fmt"
)

// Sentinel errors returned by the conversion pipeline.  All errors are
// wrapped with enough context (section index, object name, field name) to
// locate the offending record; callers should test them with errors.Is.
var (
	// ErrMalformedDocument indicates a structurally invalid input document:
	// a missing or mistyped field, a non-numeric coordinate, mismatched
	// coordinate arrays, or a top-level value that is not a JSON object.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrDuplicateSection indicates that two sections claim the same
	// section index.
	ErrDuplicateSection = errors.New("duplicate section index")

	// ErrTransform indicates that a section has no usable transform: the
	// transform is absent and no fallback is configured, or the transform
	// matrix is singular.
	ErrTransform = errors.New("unusable section transform")

	// ErrInvalidTargetSize indicates a target raster size with a
	// non-positive width or height.
	ErrInvalidTargetSize = errors.New("invalid target size")

	// ErrIO wraps failures of the environment rather than the data:
	// an unreadable source file or an unwritable destination.
	ErrIO = errors.New("i/o failure")
)

// malformedf wraps ErrMalformedDocument with positional context.
func malformedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedDocument, fmt.Sprintf(format, args...))
}

// transformErrf wraps ErrTransform with positional context.
func transformErrf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrTransform, fmt.Sprintf(format, args...))
}

// ioErr wraps an underlying I/O error so that callers can distinguish
// "bad environment" from "bad data".  The underlying error remains
// reachable through errors.Is/errors.As.
func ioErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
