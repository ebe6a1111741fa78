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
	"slices"
)

// Registry maps object names to pixel labels.  Labels are contiguous
// positive integers starting at 1; 0 is reserved for background.  A
// Registry is built once per run and is read-only afterwards, so it can be
// shared between concurrent section workers.
type Registry struct {
	labels map[string]uint32
	names  []string // names[label-1] is the name of a label
	counts map[string]int
}

// AssignLabels builds the label registry for a document.
//
// Names are assigned in a deterministic traversal: sections in ascending
// index order, objects within a section in document order, first seen name
// gets the next label.  Repeated runs on the same document therefore yield
// identical mappings.  Names are compared by exact string equality.
//
// An empty document yields an empty registry; this is not an error.
func AssignLabels(doc *Document) *Registry {
	reg := &Registry{
		labels: make(map[string]uint32),
		counts: make(map[string]int),
	}

	sections := slices.Clone(doc.Sections)
	slices.SortFunc(sections, func(a, b *Section) int {
		return cmp.Compare(a.Index, b.Index)
	})

	for _, sec := range sections {
		for _, obj := range sec.Objects {
			if _, ok := reg.labels[obj.Name]; !ok {
				reg.names = append(reg.names, obj.Name)
				reg.labels[obj.Name] = uint32(len(reg.names))
			}
			reg.counts[obj.Name] += len(obj.Contours)
		}
	}
	return reg
}

// Label returns the label assigned to name, or 0 if the name does not
// occur in the document.
func (r *Registry) Label(name string) uint32 {
	return r.labels[name]
}

// Name returns the object name of a label, or "" for background and
// unknown labels.
func (r *Registry) Name(label uint32) string {
	if label == 0 || int(label) > len(r.names) {
		return ""
	}
	return r.names[label-1]
}

// Names returns all registered names in label order.  The returned slice
// must not be modified.
func (r *Registry) Names() []string {
	return r.names
}

// Count returns the number of contours recorded for name across the whole
// document.
func (r *Registry) Count(name string) int {
	return r.counts[name]
}

// Len returns the number of registered names.  The largest assigned label
// equals Len.
func (r *Registry) Len() int {
	return len(r.names)
}
