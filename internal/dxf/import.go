/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dxf

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"civildraft/internal/entity"
	"civildraft/internal/geom"
	"civildraft/internal/log"
)

// pairReader yields group-code/value pairs from the alternating-line format.
type pairReader struct {
	sc *bufio.Scanner
}

func newPairReader(r io.Reader) *pairReader {
	return &pairReader{sc: bufio.NewScanner(r)}
}

// next returns the next pair; io.EOF when the input is exhausted.
func (pr *pairReader) next() (int, string, error) {
	if !pr.sc.Scan() {
		if err := pr.sc.Err(); err != nil {
			return 0, "", err
		}
		return 0, "", io.EOF
	}
	code, err := strconv.Atoi(strings.TrimSpace(pr.sc.Text()))
	if err != nil {
		return 0, "", fmt.Errorf("malformed group code %q: %w", pr.sc.Text(), err)
	}
	if !pr.sc.Scan() {
		if err := pr.sc.Err(); err != nil {
			return 0, "", err
		}
		return 0, "", fmt.Errorf("group code %d without value", code)
	}
	return code, strings.TrimRight(pr.sc.Text(), "\r"), nil
}

// record accumulates the fields of one entity record.
type record struct {
	kind     string
	layer    string
	aci      int
	hasACI   bool
	first    geom.Point
	second   geom.Point
	third    geom.Point
	extra    geom.Point
	hasExtra bool
	radius   float64
	hasRad   bool
	startDeg float64
	endDeg   float64
	height   float64
	text     string
	blockRef string
	scale    float64
	rotDeg   float64
	flags    int
	verts    []geom.Point
	bulges   []float64
}

// Import reads a drawing in the exchange format. A forward-only scan locates
// the ENTITIES section; everything before it is skipped. Unknown record
// types are dropped silently, missing fields take defaults (radius 1, the
// factory's layer, by-layer color). The factory assigns fresh entity ids and
// the fallback layer; nil selects a default factory.
func Import(r io.Reader, f *entity.Factory) (*entity.Document, error) {
	doc := entity.NewDocument("imported")
	if f == nil {
		f = entity.NewFactory(nil)
	}
	pr := newPairReader(r)

	if err := seekEntities(pr); err != nil {
		if err == io.EOF {
			return doc, nil
		}
		return nil, err
	}

	logger := log.WithComponent("dxf")
	var rec *record
	for {
		code, value, err := pr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading entities: %w", err)
		}
		if code == 0 {
			if rec != nil {
				if e := rec.build(f); e != nil {
					doc.Entities = append(doc.Entities, e)
				} else if rec.kind != "" {
					logger.Debug("dropping unknown record", "type", rec.kind)
				}
			}
			if value == "ENDSEC" || value == "EOF" {
				break
			}
			rec = &record{kind: value, scale: 1}
			continue
		}
		if rec == nil {
			continue
		}
		rec.field(code, value)
	}
	return doc, nil
}

func seekEntities(pr *pairReader) error {
	inSection := false
	for {
		code, value, err := pr.next()
		if err != nil {
			return err
		}
		switch {
		case code == 0 && value == "SECTION":
			inSection = true
		case code == 2 && inSection:
			if value == "ENTITIES" {
				return nil
			}
			inSection = false
		}
	}
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

// field routes one group code into the record. For LWPOLYLINE a code 10
// starts a new vertex and 42 attaches a bulge to the current one; for every
// other type 10/20 is the first point.
func (r *record) field(code int, value string) {
	if r.kind == "LWPOLYLINE" {
		switch code {
		case 10:
			r.verts = append(r.verts, geom.P(parseFloat(value), 0))
			r.bulges = append(r.bulges, 0)
			return
		case 20:
			if n := len(r.verts); n > 0 {
				r.verts[n-1].Y = parseFloat(value)
			}
			return
		case 42:
			if n := len(r.bulges); n > 0 {
				r.bulges[n-1] = parseFloat(value)
			}
			return
		}
	}
	switch code {
	case 8:
		r.layer = value
	case 62:
		r.aci = parseInt(value)
		r.hasACI = true
	case 10:
		r.first.X = parseFloat(value)
	case 20:
		r.first.Y = parseFloat(value)
	case 11:
		r.second.X = parseFloat(value)
	case 21:
		r.second.Y = parseFloat(value)
	case 13:
		r.third.X = parseFloat(value)
	case 23:
		r.third.Y = parseFloat(value)
	case 15:
		r.extra.X = parseFloat(value)
		r.hasExtra = true
	case 25:
		r.extra.Y = parseFloat(value)
		r.hasExtra = true
	case 40:
		r.radius = parseFloat(value)
		r.hasRad = true
		r.height = r.radius
	case 50:
		r.rotDeg = parseFloat(value)
		r.startDeg = r.rotDeg
	case 51:
		r.endDeg = parseFloat(value)
	case 41:
		r.scale = parseFloat(value)
	case 1:
		r.text = value
	case 2:
		r.blockRef = value
	case 70:
		r.flags = parseInt(value)
	}
}

// build turns the accumulated record into an entity, or nil for unknown
// types.
func (r *record) build(f *entity.Factory) entity.Entity {
	var e entity.Entity
	switch r.kind {
	case "LINE":
		e = f.Line(r.first, r.second)
	case "LWPOLYLINE", "POLYLINE":
		if len(r.verts) == 0 {
			return nil
		}
		e = f.Polyline(r.verts, r.flags&1 != 0)
	case "CIRCLE":
		radius := r.radius
		if !r.hasRad || radius <= 0 {
			radius = 1
		}
		e = f.Circle(r.first, radius)
	case "ARC":
		radius := r.radius
		if !r.hasRad || radius <= 0 {
			radius = 1
		}
		e = f.Arc(r.first, radius, radians(r.startDeg), radians(r.endDeg))
	case "TEXT", "MTEXT":
		height := r.height
		if height <= 0 {
			height = 2.5
		}
		t := f.Text(r.first, r.text, height)
		t.Rotation = radians(r.rotDeg)
		e = t
	case "DIMENSION":
		d := f.Dimension(r.first, r.third, r.second, entity.DimType(r.flags))
		if r.hasExtra {
			v := r.extra
			d.Vertex = &v
		}
		e = d
	case "INSERT":
		ins := &entity.Insert{
			Base:     entity.Base{ID: f.IDs.NextID(), Layer: f.Layer, Visible: true, Style: entity.DefaultStyle()},
			Block:    r.blockRef,
			Pos:      r.first,
			Scale:    r.scale,
			Rotation: radians(r.rotDeg),
		}
		if ins.Scale == 0 {
			ins.Scale = 1
		}
		e = ins
	case "POINT":
		e = f.Point(r.first)
	default:
		return nil
	}

	c := e.Common()
	if r.layer != "" {
		c.Layer = r.layer
	} else {
		c.Layer = f.Layer
	}
	if r.hasACI {
		switch r.aci {
		case aciByLayer:
			c.Style.Stroke = entity.ByLayer
		case aciByBlock:
			c.Style.Stroke = entity.ByBlock
		default:
			c.Style.Stroke = hexFromACI(r.aci)
		}
	} else {
		c.Style.Stroke = entity.ByLayer
	}
	return e
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
