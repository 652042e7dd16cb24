/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package dxf implements the text exchange codec: newline-delimited
// group-code/value pairs in the four fixed sections HEADER, TABLES, BLOCKS
// and ENTITIES. Round-trip fidelity is geometric, not bit-identical; the
// palette approximation is lossy on purpose.
package dxf

import (
	"math"
	"strconv"
	"strings"

	"civildraft/internal/entity"
	"civildraft/internal/geom"
	"civildraft/internal/log"
)

// Options control export output.
type Options struct {
	// Precision is the number of decimals for coordinate values; zero
	// selects the default of 6.
	Precision int
}

const (
	ellipseSegments = 32
	splineSegments  = 16
)

type writer struct {
	sb   strings.Builder
	prec int
}

func (w *writer) pair(code int, value string) {
	w.sb.WriteString(strconv.Itoa(code))
	w.sb.WriteByte('\n')
	w.sb.WriteString(value)
	w.sb.WriteByte('\n')
}

func (w *writer) num(code int, v float64) {
	w.pair(code, strconv.FormatFloat(v, 'f', w.prec, 64))
}

func (w *writer) intp(code, v int) {
	w.pair(code, strconv.Itoa(v))
}

func (w *writer) point(xCode, yCode int, p geom.Point) {
	w.num(xCode, p.X)
	w.num(yCode, p.Y)
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Export serializes the document. Invisible entities (own flag or layer
// state) are left out; hatches that carry only a boundary reference are
// skipped with a debug log, never an error.
func Export(doc *entity.Document, opts Options) []byte {
	prec := opts.Precision
	if prec <= 0 {
		prec = 6
	}
	w := &writer{prec: prec}
	writeHeader(w, doc)
	writeTables(w, doc)
	writeBlocks(w, doc)
	writeEntities(w, doc)
	w.pair(0, "EOF")
	return []byte(w.sb.String())
}

func writeHeader(w *writer, doc *entity.Document) {
	w.pair(0, "SECTION")
	w.pair(2, "HEADER")
	w.pair(9, "$ACADVER")
	w.pair(1, "AC1015")
	w.pair(9, "$INSUNITS")
	w.intp(70, unitsCode(doc.Units))
	min, max := geom.Point{}, geom.Point{}
	if ext, ok := doc.Extents(); ok {
		min = geom.P(ext.MinX, ext.MinY)
		max = geom.P(ext.MaxX, ext.MaxY)
	}
	w.pair(9, "$EXTMIN")
	w.point(10, 20, min)
	w.pair(9, "$EXTMAX")
	w.point(10, 20, max)
	w.pair(0, "ENDSEC")
}

func unitsCode(units string) int {
	switch units {
	case "mm":
		return 4
	case "cm":
		return 5
	case "ft":
		return 2
	case "in":
		return 1
	default:
		return 6 // meters
	}
}

type lineType struct {
	name, desc string
	dashes     []float64
}

var lineTypes = []lineType{
	{name: "CONTINUOUS", desc: "Solid line"},
	{name: "DASHED", desc: "Dashed __ __ __", dashes: []float64{0.5, -0.25}},
	{name: "CENTER", desc: "Center ____ _ ____ _", dashes: []float64{1.25, -0.25, 0.25, -0.25}},
}

func writeTables(w *writer, doc *entity.Document) {
	w.pair(0, "SECTION")
	w.pair(2, "TABLES")

	w.pair(0, "TABLE")
	w.pair(2, "LTYPE")
	w.intp(70, len(lineTypes))
	for _, lt := range lineTypes {
		w.pair(0, "LTYPE")
		w.pair(2, lt.name)
		w.intp(70, 0)
		w.pair(3, lt.desc)
		w.intp(72, 65)
		w.intp(73, len(lt.dashes))
		total := 0.0
		for _, d := range lt.dashes {
			total += math.Abs(d)
		}
		w.num(40, total)
		for _, d := range lt.dashes {
			w.num(49, d)
		}
	}
	w.pair(0, "ENDTAB")

	w.pair(0, "TABLE")
	w.pair(2, "LAYER")
	w.intp(70, len(doc.Layers))
	for _, l := range doc.Layers {
		w.pair(0, "LAYER")
		w.pair(2, l.Name)
		flags := 0
		if l.Locked {
			flags |= 4
		}
		if l.Frozen {
			flags |= 1
		}
		w.intp(70, flags)
		aci := hexToACI(l.Color)
		if !l.Visible {
			aci = -aci
		}
		w.intp(62, aci)
		lt := l.LineType
		if lt == "" {
			lt = "CONTINUOUS"
		}
		w.pair(6, lt)
	}
	w.pair(0, "ENDTAB")

	w.pair(0, "TABLE")
	w.pair(2, "STYLE")
	w.intp(70, 1)
	w.pair(0, "STYLE")
	w.pair(2, "Standard")
	w.intp(70, 0)
	w.num(40, 0)
	w.num(41, 1)
	w.num(50, 0)
	w.intp(71, 0)
	w.pair(3, "txt")
	w.pair(0, "ENDTAB")

	w.pair(0, "ENDSEC")
}

func writeBlocks(w *writer, doc *entity.Document) {
	w.pair(0, "SECTION")
	w.pair(2, "BLOCKS")
	for _, name := range []string{"*Model_Space", "*Paper_Space"} {
		w.pair(0, "BLOCK")
		w.pair(8, "0")
		w.pair(2, name)
		w.intp(70, 0)
		w.point(10, 20, geom.Point{})
		w.pair(3, name)
		w.pair(0, "ENDBLK")
	}
	for _, def := range doc.Blocks {
		w.pair(0, "BLOCK")
		w.pair(8, "0")
		w.pair(2, def.Name)
		w.intp(70, 0)
		w.point(10, 20, def.BasePoint)
		w.pair(3, def.Name)
		for _, e := range def.Entities {
			writeEntity(w, e)
		}
		w.pair(0, "ENDBLK")
	}
	w.pair(0, "ENDSEC")
}

func writeEntities(w *writer, doc *entity.Document) {
	w.pair(0, "SECTION")
	w.pair(2, "ENTITIES")
	for _, e := range doc.Entities {
		if !entity.IsVisible(e, doc.Layers) {
			continue
		}
		writeEntity(w, e)
	}
	w.pair(0, "ENDSEC")
}

// aciOf maps an entity's stroke to the palette index, keeping the by-layer
// and by-block sentinels as their reserved indices.
func aciOf(e entity.Entity) int {
	switch e.Common().Style.Stroke {
	case entity.ByLayer, "":
		return aciByLayer
	case entity.ByBlock:
		return aciByBlock
	default:
		return hexToACI(e.Common().Style.Stroke)
	}
}

func writeCommon(w *writer, kind string, e entity.Entity) {
	w.pair(0, kind)
	layer := e.Common().Layer
	if layer == "" {
		layer = "0"
	}
	w.pair(8, layer)
	w.intp(62, aciOf(e))
}

func writeEntity(w *writer, e entity.Entity) {
	switch v := e.(type) {
	case *entity.Line:
		writeCommon(w, "LINE", e)
		w.point(10, 20, v.Start)
		w.point(11, 21, v.End)
	case *entity.Polyline:
		writePolyline(w, e, v.Points, v.Closed)
	case *entity.Circle:
		writeCommon(w, "CIRCLE", e)
		w.point(10, 20, v.Center)
		w.num(40, v.Radius)
	case *entity.Arc:
		writeCommon(w, "ARC", e)
		w.point(10, 20, v.Center)
		w.num(40, v.Radius)
		w.num(50, degrees(v.StartAngle))
		w.num(51, degrees(v.EndAngle))
	case *entity.Rect:
		corners := v.Corners()
		writePolyline(w, e, corners[:], true)
	case *entity.Text:
		writeCommon(w, "TEXT", e)
		w.point(10, 20, v.Pos)
		w.num(40, v.Height)
		w.pair(1, v.Content)
		w.num(50, degrees(v.Rotation))
	case *entity.Dimension:
		writeCommon(w, "DIMENSION", e)
		w.point(10, 20, v.Def1)
		w.point(11, 21, v.TextMid)
		w.point(13, 23, v.Def2)
		w.intp(70, int(v.DimType))
		if v.Vertex != nil {
			w.point(15, 25, *v.Vertex)
		}
	case *entity.Hatch:
		if len(v.Boundary) == 0 {
			// legacy records may hold only a boundary reference; there is
			// no resolution path, so the record is skipped
			log.WithComponent("dxf").Debug("skipping hatch without boundary points",
				"id", v.ID, "boundaryRef", v.BoundaryRef)
			return
		}
		writePolyline(w, e, v.Boundary, true)
	case *entity.Insert:
		writeCommon(w, "INSERT", e)
		w.pair(2, v.Block)
		w.point(10, 20, v.Pos)
		w.num(41, v.Scale)
		w.num(42, v.Scale)
		w.num(50, degrees(v.Rotation))
	case *entity.Point:
		writeCommon(w, "POINT", e)
		w.point(10, 20, v.Pos)
	case *entity.Ellipse:
		writePolyline(w, e, v.Sample(ellipseSegments), true)
	case *entity.Spline:
		writePolyline(w, e, v.Flatten(splineSegments), v.Closed)
	}
}

func writePolyline(w *writer, e entity.Entity, points []geom.Point, closed bool) {
	writeCommon(w, "LWPOLYLINE", e)
	w.intp(90, len(points))
	flags := 0
	if closed {
		flags = 1
	}
	w.intp(70, flags)
	for _, p := range points {
		w.point(10, 20, p)
	}
}
