/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package entity defines the drawable object model of the drafting kernel: a
// closed sum of geometric kinds behind the Entity interface, the shared
// header every kind carries, layers, block definitions and the project
// document that owns them. Entities are never mutated in place; operations
// produce a new value sharing the id and the caller swaps it in.
package entity

import (
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"civildraft/internal/geom"
)

// Kind tags the geometric variant of an entity.
type Kind string

const (
	KindLine      Kind = "line"
	KindPolyline  Kind = "polyline"
	KindCircle    Kind = "circle"
	KindArc       Kind = "arc"
	KindRect      Kind = "rect"
	KindText      Kind = "text"
	KindDimension Kind = "dimension"
	KindHatch     Kind = "hatch"
	KindInsert    Kind = "insert"
	KindPoint     Kind = "point"
	KindEllipse   Kind = "ellipse"
	KindSpline    Kind = "spline"
)

// Color sentinels. Anything else in Style.Stroke/Fill is an explicit
// "#rrggbb" value.
const (
	ByLayer = "BYLAYER"
	ByBlock = "BYBLOCK"
)

// Style carries the paint attributes shared by all kinds.
type Style struct {
	Stroke   string  `json:"stroke"`
	Width    float64 `json:"width"`
	Fill     string  `json:"fill,omitempty"`
	Opacity  float64 `json:"opacity"`
	LineType string  `json:"lineType"`
}

// DefaultStyle is what factories assign when the caller does not override.
func DefaultStyle() Style {
	return Style{Stroke: ByLayer, Width: 1, Opacity: 1, LineType: "CONTINUOUS"}
}

// Base is the header embedded in every entity kind: identity, layer binding,
// visibility/lock flags, style and opaque metadata the kernel never
// interprets.
type Base struct {
	ID      string            `json:"id"`
	Layer   string            `json:"layer"`
	Visible bool              `json:"visible"`
	Locked  bool              `json:"locked"`
	Style   Style             `json:"style"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// Common exposes the shared header through the Entity interface.
func (b *Base) Common() *Base { return b }

func (b *Base) isEntity() {}

func (b *Base) cloneBase() Base {
	nb := *b
	if b.Meta != nil {
		nb.Meta = make(map[string]string, len(b.Meta))
		for k, v := range b.Meta {
			nb.Meta[k] = v
		}
	}
	return nb
}

// Entity is the closed sum over all drawable kinds. Operations over entities
// (transform, hit-test, snap, codec) type-switch over the concrete kinds; the
// switch lists every kind so a new variant forces review of every consumer.
type Entity interface {
	Kind() Kind
	Common() *Base
	Bounds() geom.BBox
	Clone() Entity
	isEntity()
}

// Line is a straight segment between two points.
type Line struct {
	Base
	Start geom.Point `json:"start"`
	End   geom.Point `json:"end"`
}

func (l *Line) Kind() Kind { return KindLine }

func (l *Line) Bounds() geom.BBox { return geom.NewBBox(l.Start, l.End) }

func (l *Line) Clone() Entity {
	n := *l
	n.Base = l.cloneBase()
	return &n
}

// Polyline is an open or closed chain of vertices.
type Polyline struct {
	Base
	Points []geom.Point `json:"points"`
	Closed bool         `json:"closed"`
}

func (p *Polyline) Kind() Kind { return KindPolyline }

func (p *Polyline) Bounds() geom.BBox { return geom.NewBBox(p.Points...) }

func (p *Polyline) Clone() Entity {
	n := *p
	n.Base = p.cloneBase()
	n.Points = append([]geom.Point(nil), p.Points...)
	return &n
}

// Edges returns the vertex pairs of the polyline, including the closing edge
// when the polyline is closed.
func (p *Polyline) Edges() [][2]geom.Point {
	if len(p.Points) < 2 {
		return nil
	}
	var edges [][2]geom.Point
	for i := 0; i+1 < len(p.Points); i++ {
		edges = append(edges, [2]geom.Point{p.Points[i], p.Points[i+1]})
	}
	if p.Closed && len(p.Points) > 2 {
		edges = append(edges, [2]geom.Point{p.Points[len(p.Points)-1], p.Points[0]})
	}
	return edges
}

// Circle is a full circle.
type Circle struct {
	Base
	Center geom.Point `json:"center"`
	Radius float64    `json:"radius"`
}

func (c *Circle) Kind() Kind { return KindCircle }

func (c *Circle) Bounds() geom.BBox {
	return geom.BBox{
		MinX: c.Center.X - c.Radius, MinY: c.Center.Y - c.Radius,
		MaxX: c.Center.X + c.Radius, MaxY: c.Center.Y + c.Radius,
	}
}

func (c *Circle) Clone() Entity {
	n := *c
	n.Base = c.cloneBase()
	return &n
}

// Arc is a circular arc; angles are radians, counter-clockwise from +X.
type Arc struct {
	Base
	Center     geom.Point `json:"center"`
	Radius     float64    `json:"radius"`
	StartAngle float64    `json:"startAngle"`
	EndAngle   float64    `json:"endAngle"`
}

func (a *Arc) Kind() Kind { return KindArc }

// Bounds is conservative: the full circle box. Exact arc extents are not
// needed by any consumer; the two-stage hit test refines afterwards.
func (a *Arc) Bounds() geom.BBox {
	return geom.BBox{
		MinX: a.Center.X - a.Radius, MinY: a.Center.Y - a.Radius,
		MaxX: a.Center.X + a.Radius, MaxY: a.Center.Y + a.Radius,
	}
}

func (a *Arc) Clone() Entity {
	n := *a
	n.Base = a.cloneBase()
	return &n
}

// Endpoints returns the two terminal points of the arc.
func (a *Arc) Endpoints() (geom.Point, geom.Point) {
	s := geom.Point{X: a.Center.X + a.Radius*math.Cos(a.StartAngle), Y: a.Center.Y + a.Radius*math.Sin(a.StartAngle)}
	e := geom.Point{X: a.Center.X + a.Radius*math.Cos(a.EndAngle), Y: a.Center.Y + a.Radius*math.Sin(a.EndAngle)}
	return s, e
}

// Rect is an axis-aligned rectangle. Rotation promotes it to a polyline, so a
// stored Rect is always axis-aligned.
type Rect struct {
	Base
	Pos geom.Point `json:"pos"` // min corner
	W   float64    `json:"w"`
	H   float64    `json:"h"`
}

func (r *Rect) Kind() Kind { return KindRect }

func (r *Rect) Bounds() geom.BBox {
	return geom.NewBBox(r.Pos, geom.Point{X: r.Pos.X + r.W, Y: r.Pos.Y + r.H})
}

func (r *Rect) Clone() Entity {
	n := *r
	n.Base = r.cloneBase()
	return &n
}

// Corners returns the four corners counter-clockwise from Pos.
func (r *Rect) Corners() [4]geom.Point {
	return [4]geom.Point{
		r.Pos,
		{X: r.Pos.X + r.W, Y: r.Pos.Y},
		{X: r.Pos.X + r.W, Y: r.Pos.Y + r.H},
		{X: r.Pos.X, Y: r.Pos.Y + r.H},
	}
}

// Text is a single-line annotation anchored at Pos (baseline-left).
type Text struct {
	Base
	Pos      geom.Point `json:"pos"`
	Content  string     `json:"content"`
	Height   float64    `json:"height"`
	Rotation float64    `json:"rotation"` // radians
}

func (t *Text) Kind() Kind { return KindText }

// Bounds measures the content with the bundled bitmap face and scales the
// advance to the text height; the box is rotated with the text.
func (t *Text) Bounds() geom.BBox {
	w := MeasureText(t.Content, t.Height)
	corners := []geom.Point{
		t.Pos,
		{X: t.Pos.X + w, Y: t.Pos.Y},
		{X: t.Pos.X + w, Y: t.Pos.Y + t.Height},
		{X: t.Pos.X, Y: t.Pos.Y + t.Height},
	}
	if t.Rotation != 0 {
		for i, c := range corners {
			corners[i] = c.Rotate(t.Pos, t.Rotation)
		}
	}
	return geom.NewBBox(corners...)
}

func (t *Text) Clone() Entity {
	n := *t
	n.Base = t.cloneBase()
	return &n
}

// MeasureText estimates the horizontal extent of s rendered at the given
// height, using the fixed 7x13 face as the metric reference.
func MeasureText(s string, height float64) float64 {
	if s == "" || height <= 0 {
		return 0
	}
	adv := float64(font.MeasureString(basicfont.Face7x13, s)) / 64.0
	return adv * height / float64(basicfont.Face7x13.Height)
}

// DimType is the numeric dimension type code, 0-4.
type DimType int

const (
	DimLinear   DimType = 0
	DimAligned  DimType = 1
	DimAngular  DimType = 2
	DimRadius   DimType = 3
	DimDiameter DimType = 4
)

// Dimension measures between two definition points with the label at TextMid.
// Vertex is only set for angular (the apex) and radial (the center) types.
type Dimension struct {
	Base
	Def1    geom.Point  `json:"def1"`
	Def2    geom.Point  `json:"def2"`
	TextMid geom.Point  `json:"textMid"`
	DimType DimType     `json:"dimType"`
	Vertex  *geom.Point `json:"vertex,omitempty"`
}

func (d *Dimension) Kind() Kind { return KindDimension }

func (d *Dimension) Bounds() geom.BBox {
	pts := []geom.Point{d.Def1, d.Def2, d.TextMid}
	if d.Vertex != nil {
		pts = append(pts, *d.Vertex)
	}
	return geom.NewBBox(pts...)
}

func (d *Dimension) Clone() Entity {
	n := *d
	n.Base = d.cloneBase()
	if d.Vertex != nil {
		v := *d.Vertex
		n.Vertex = &v
	}
	return &n
}

// Hatch fills a closed boundary. Legacy records may carry only a reference to
// a boundary entity instead of explicit points; such hatches are skipped on
// export.
type Hatch struct {
	Base
	Boundary    []geom.Point `json:"boundary,omitempty"`
	BoundaryRef string       `json:"boundaryRef,omitempty"`
	Pattern     string       `json:"pattern"`
}

func (h *Hatch) Kind() Kind { return KindHatch }

func (h *Hatch) Bounds() geom.BBox { return geom.NewBBox(h.Boundary...) }

func (h *Hatch) Clone() Entity {
	n := *h
	n.Base = h.cloneBase()
	n.Boundary = append([]geom.Point(nil), h.Boundary...)
	return &n
}

// Insert places a block definition at a position with uniform scale and
// rotation. Entities is the materialized transformed copy of the definition;
// it is regenerated wholesale whenever the insertion parameters change, never
// patched.
type Insert struct {
	Base
	Block    string     `json:"block"`
	Pos      geom.Point `json:"pos"`
	Scale    float64    `json:"scale"`
	Rotation float64    `json:"rotation"`
	Entities []Entity   `json:"-"`
}

func (i *Insert) Kind() Kind { return KindInsert }

func (i *Insert) Bounds() geom.BBox {
	if len(i.Entities) == 0 {
		return geom.NewBBox(i.Pos)
	}
	b := i.Entities[0].Bounds()
	for _, e := range i.Entities[1:] {
		b = b.Union(e.Bounds())
	}
	return b
}

func (i *Insert) Clone() Entity {
	n := *i
	n.Base = i.cloneBase()
	n.Entities = make([]Entity, len(i.Entities))
	for k, e := range i.Entities {
		n.Entities[k] = e.Clone()
	}
	return &n
}

// Point is a zero-dimensional marker.
type Point struct {
	Base
	Pos geom.Point `json:"pos"`
}

func (p *Point) Kind() Kind { return KindPoint }

func (p *Point) Bounds() geom.BBox { return geom.NewBBox(p.Pos) }

func (p *Point) Clone() Entity {
	n := *p
	n.Base = p.cloneBase()
	return &n
}

// Ellipse is a full ellipse with semi-axes RX/RY rotated by Rotation.
type Ellipse struct {
	Base
	Center   geom.Point `json:"center"`
	RX       float64    `json:"rx"`
	RY       float64    `json:"ry"`
	Rotation float64    `json:"rotation"`
}

func (e *Ellipse) Kind() Kind { return KindEllipse }

func (e *Ellipse) Bounds() geom.BBox {
	c, s := math.Cos(e.Rotation), math.Sin(e.Rotation)
	ex := math.Sqrt(e.RX*e.RX*c*c + e.RY*e.RY*s*s)
	ey := math.Sqrt(e.RX*e.RX*s*s + e.RY*e.RY*c*c)
	return geom.BBox{
		MinX: e.Center.X - ex, MinY: e.Center.Y - ey,
		MaxX: e.Center.X + ex, MaxY: e.Center.Y + ey,
	}
}

func (e *Ellipse) Clone() Entity {
	n := *e
	n.Base = e.cloneBase()
	return &n
}

// Sample returns n points around the ellipse perimeter, closed (first point
// repeated semantics left to the caller).
func (e *Ellipse) Sample(n int) []geom.Point {
	if n < 3 {
		n = 16
	}
	out := make([]geom.Point, 0, n)
	c, s := math.Cos(e.Rotation), math.Sin(e.Rotation)
	for i := 0; i < n; i++ {
		t := 2 * math.Pi * float64(i) / float64(n)
		x := e.RX * math.Cos(t)
		y := e.RY * math.Sin(t)
		out = append(out, geom.Point{
			X: e.Center.X + x*c - y*s,
			Y: e.Center.Y + x*s + y*c,
		})
	}
	return out
}

// Spline stores raw control points; the drawable approximation is produced on
// demand by Flatten and is never stored back.
type Spline struct {
	Base
	Points  []geom.Point `json:"points"`
	Closed  bool         `json:"closed"`
	Tension float64      `json:"tension"`
}

func (s *Spline) Kind() Kind { return KindSpline }

// Bounds uses the control hull; Catmull-Rom stays close enough to it for the
// coarse prefilter this feeds.
func (s *Spline) Bounds() geom.BBox { return geom.NewBBox(s.Points...) }

func (s *Spline) Clone() Entity {
	n := *s
	n.Base = s.cloneBase()
	n.Points = append([]geom.Point(nil), s.Points...)
	return &n
}
