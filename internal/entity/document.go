/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package entity

import "civildraft/internal/geom"

// Layer groups entities for paint order, styling defaults and the
// visibility/lock cascade.
type Layer struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	LineType   string  `json:"lineType"`
	LineWeight float64 `json:"lineWeight"`
	Order      int     `json:"order"`
	Visible    bool    `json:"visible"`
	Locked     bool    `json:"locked"`
	Frozen     bool    `json:"frozen"`
}

// DefaultLayer is the fallback for entities whose layer reference does not
// resolve. An unresolvable layer is never an error.
func DefaultLayer() Layer {
	return Layer{
		ID:         "0",
		Name:       "0",
		Color:      "#FFFFFF",
		LineType:   "CONTINUOUS",
		LineWeight: 0.25,
		Visible:    true,
	}
}

// Table is the ordered layer list of a document.
type Table []Layer

// Find returns the layer with the given id.
func (t Table) Find(id string) (Layer, bool) {
	for _, l := range t {
		if l.ID == id {
			return l, true
		}
	}
	return Layer{}, false
}

// Get resolves a layer reference, falling back to the default layer when the
// id is unknown.
func (t Table) Get(id string) Layer {
	if l, ok := t.Find(id); ok {
		return l
	}
	return DefaultLayer()
}

// Viewport is read-side coordinate-conversion state carried in the document
// for the presentation layer; no kernel logic consumes it.
type Viewport struct {
	OffsetX  float64   `json:"offsetX"`
	OffsetY  float64   `json:"offsetY"`
	Zoom     float64   `json:"zoom"`
	Rotation float64   `json:"rotation"`
	Bounds   geom.BBox `json:"bounds"`
}

// BlockDef is a named, reusable entity group. Sub-entities own independent
// ids; insertion transforms are applied relative to BasePoint.
type BlockDef struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	BasePoint geom.Point `json:"basePoint"`
	Entities  []Entity   `json:"-"`
}

// Document is the caller-owned project state the kernel computes over. The
// kernel itself holds no state; every edit produces new values the caller
// swaps in.
type Document struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Layers    Table             `json:"layers"`
	Entities  []Entity          `json:"-"`
	Blocks    []*BlockDef       `json:"-"`
	Viewports []Viewport        `json:"viewports,omitempty"`
	Units     string            `json:"units"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// NewDocument returns an empty document with the default layer and meter
// units.
func NewDocument(name string) *Document {
	return &Document{
		Name:   name,
		Layers: Table{DefaultLayer()},
		Units:  "m",
	}
}

// Entity returns the entity with the given id.
func (d *Document) Entity(id string) (Entity, bool) {
	for _, e := range d.Entities {
		if e.Common().ID == id {
			return e, true
		}
	}
	return nil, false
}

// IndexOf returns the position of the entity with the given id, or -1.
func (d *Document) IndexOf(id string) int {
	for i, e := range d.Entities {
		if e.Common().ID == id {
			return i
		}
	}
	return -1
}

// Block returns the block definition with the given name.
func (d *Document) Block(name string) (*BlockDef, bool) {
	for _, b := range d.Blocks {
		if b.Name == name {
			return b, true
		}
	}
	return nil, false
}

// Extents returns the union of all entity bounds, and false when the document
// has no entities.
func (d *Document) Extents() (geom.BBox, bool) {
	if len(d.Entities) == 0 {
		return geom.BBox{}, false
	}
	b := d.Entities[0].Bounds()
	for _, e := range d.Entities[1:] {
		b = b.Union(e.Bounds())
	}
	return b, true
}
