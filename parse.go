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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Parse decodes a contour annotation export into a Document.
//
// The document is a JSON object whose keys have the form "<series>.<z>",
// one per section, plus an optional "<series>.ser" series record.  Keys are
// processed with a streaming decoder so that the per-section object order
// of the output matches the document order; this order later determines
// label assignment and the overwrite order of overlapping objects.
//
// Unknown fields are ignored.  Structural violations (a non-object
// document, a non-numeric coordinate, mismatched coordinate arrays, a bad
// transform) fail with ErrMalformedDocument; two sections with the same
// index fail with ErrDuplicateSection.
func Parse(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, malformedf("reading document: %v", err)
	}
	if tok != json.Delim('{') {
		return nil, malformedf("document root is not a JSON object")
	}

	doc := &Document{}
	seen := make(map[int]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformedf("reading document key: %v", err)
		}
		key := tok.(string)

		if strings.HasSuffix(key, ".ser") {
			// Series record: only the name is used; the payload is
			// skipped for forward compatibility.
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, malformedf("series record %q: %v", key, err)
			}
			doc.Series = strings.TrimSuffix(key, ".ser")
			continue
		}

		dot := strings.LastIndex(key, ".")
		if dot < 0 {
			return nil, malformedf("key %q has no section index suffix", key)
		}
		index, err := strconv.Atoi(key[dot+1:])
		if err != nil {
			return nil, malformedf("key %q has a non-numeric section index", key)
		}
		if seen[index] {
			return nil, &duplicateSectionError{index}
		}
		seen[index] = true
		if doc.Series == "" {
			doc.Series = key[:dot]
		}

		sec, err := parseSection(dec, index)
		if err != nil {
			return nil, err
		}
		doc.Sections = append(doc.Sections, sec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, malformedf("reading end of document: %v", err)
	}

	return doc, nil
}

// duplicateSectionError carries the offending index and unwraps to
// ErrDuplicateSection.
type duplicateSectionError struct {
	index int
}

func (e *duplicateSectionError) Error() string {
	return "duplicate section index " + strconv.Itoa(e.index)
}

func (e *duplicateSectionError) Unwrap() error {
	return ErrDuplicateSection
}

// rawSection mirrors the on-disk section record.  Contours are kept raw so
// that they can be re-decoded with their document order preserved.
type rawSection struct {
	Mag      *float64             `json:"mag"`
	Tforms   map[string][]float64 `json:"tforms"`
	Contours json.RawMessage      `json:"contours"`
}

// rawContour mirrors one on-disk contour record.  Coordinates come either
// as parallel "x"/"y" arrays or as a "points" array of pairs.
type rawContour struct {
	X        []float64   `json:"x"`
	Y        []float64   `json:"y"`
	Points   [][]float64 `json:"points"`
	Closed   *bool       `json:"closed"`
	Hidden   bool        `json:"hidden"`
	Negative bool        `json:"negative"`
	Color    []float64   `json:"color"`
	Tags     []string    `json:"tags"`
}

func parseSection(dec *json.Decoder, index int) (*Section, error) {
	var raw rawSection
	if err := dec.Decode(&raw); err != nil {
		return nil, malformedf("section %d: %v", index, err)
	}

	sec := &Section{Index: index, Mag: 1}
	if raw.Mag != nil {
		if *raw.Mag <= 0 {
			return nil, malformedf("section %d: mag must be positive, got %g", index, *raw.Mag)
		}
		sec.Mag = *raw.Mag
	}

	if coeffs, ok := raw.Tforms["default"]; ok {
		if len(coeffs) != 6 {
			return nil, malformedf("section %d: transform has %d coefficients, want 6", index, len(coeffs))
		}
		m := matrix.Matrix(coeffs)
		sec.Tform = &m
	}

	if len(raw.Contours) > 0 && !bytes.Equal(raw.Contours, []byte("null")) {
		objects, err := parseContours(raw.Contours, index)
		if err != nil {
			return nil, err
		}
		sec.Objects = objects
	}
	return sec, nil
}

// parseContours decodes the "contours" member of a section.  The member is
// a JSON object mapping object names to contour lists; a streaming decoder
// preserves the name order.
func parseContours(data json.RawMessage, index int) ([]*Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, malformedf("section %d: contours: %v", index, err)
	}
	if tok != json.Delim('{') {
		return nil, malformedf("section %d: contours is not a JSON object", index)
	}

	var objects []*Object
	byName := make(map[string]*Object)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformedf("section %d: contours: %v", index, err)
		}
		name := tok.(string)

		var raws []rawContour
		if err := dec.Decode(&raws); err != nil {
			return nil, malformedf("section %d: object %q: %v", index, name, err)
		}

		obj := byName[name]
		if obj == nil {
			obj = &Object{Name: name}
			byName[name] = obj
			objects = append(objects, obj)
		}
		for i := range raws {
			c, err := raws[i].contour()
			if err != nil {
				return nil, malformedf("section %d: object %q: %v", index, name, err)
			}
			obj.Contours = append(obj.Contours, c)
		}
	}
	return objects, nil
}

func (rc *rawContour) contour() (*Contour, error) {
	var points []vec.Vec2
	switch {
	case len(rc.Points) > 0:
		points = make([]vec.Vec2, len(rc.Points))
		for i, p := range rc.Points {
			if len(p) != 2 {
				return nil, fmt.Errorf("point %d has %d coordinates, want 2", i, len(p))
			}
			points[i] = vec.Vec2{X: p[0], Y: p[1]}
		}
	case len(rc.X) > 0 || len(rc.Y) > 0:
		if len(rc.X) != len(rc.Y) {
			return nil, fmt.Errorf("mismatched coordinate arrays (%d x, %d y)", len(rc.X), len(rc.Y))
		}
		points = make([]vec.Vec2, len(rc.X))
		for i := range rc.X {
			points[i] = vec.Vec2{X: rc.X[i], Y: rc.Y[i]}
		}
	default:
		return nil, errors.New("contour has no points")
	}

	closed := true
	if rc.Closed != nil {
		closed = *rc.Closed
	}
	return &Contour{
		Points:   points,
		Closed:   closed,
		Hidden:   rc.Hidden,
		Negative: rc.Negative,
		Color:    rc.Color,
		Tags:     rc.Tags,
	}, nil
}
