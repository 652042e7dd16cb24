/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package geom provides the pure 2-D primitives the drafting kernel is built
// on: points, bounding boxes, clamped projections and the intersection
// routines shared by trim/extend, snapping and hit-testing. All functions are
// deterministic and allocation-light; degenerate inputs resolve to a
// well-defined "no result" instead of an error.
package geom

import "math"

// Epsilon is the determinant cutoff below which two directions are treated as
// parallel and three points as collinear.
const Epsilon = 1e-4

// Point is a 2D point in project length units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point3 carries an optional elevation; the kernel itself is strictly 2-D.
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func P(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

func Dot(p, q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Dist returns the Euclidean distance between two points.
func Dist(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Dist3 returns the Euclidean distance between two 3-D points.
func Dist3(a, b Point3) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Len returns the vector length of p.
func (p Point) Len() float64 { return math.Sqrt(p.X*p.X + p.Y*p.Y) }

// Unit returns the unit vector of p, or the zero vector when p is zero-length.
func (p Point) Unit() Point {
	l := p.Len()
	if l == 0 {
		return Point{}
	}
	return Point{p.X / l, p.Y / l}
}

// Rotate rotates p around center by angle (radians, counter-clockwise).
func (p Point) Rotate(center Point, angle float64) Point {
	s, c := math.Sin(angle), math.Cos(angle)
	dx := p.X - center.X
	dy := p.Y - center.Y
	return Point{
		X: center.X + dx*c - dy*s,
		Y: center.Y + dx*s + dy*c,
	}
}

// Mid returns the midpoint of a and b.
func Mid(a, b Point) Point { return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2} }

// BBox is an axis-aligned bounding box.
type BBox struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// NewBBox returns the minimal box containing all pts. With no points it
// returns the zero box.
func NewBBox(pts ...Point) BBox {
	if len(pts) == 0 {
		return BBox{}
	}
	b := BBox{MinX: pts[0].X, MinY: pts[0].Y, MaxX: pts[0].X, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}

func (b BBox) Width() float64  { return b.MaxX - b.MinX }
func (b BBox) Height() float64 { return b.MaxY - b.MinY }

func (b BBox) Center() Point { return Point{(b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2} }

// Contains reports whether p lies inside or on the boundary of b.
func (b BBox) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// ContainsBox reports whether o lies entirely inside b.
func (b BBox) ContainsBox(o BBox) bool {
	return o.MinX >= b.MinX && o.MaxX <= b.MaxX && o.MinY >= b.MinY && o.MaxY <= b.MaxY
}

// Expand grows the box by d on every side (negative shrinks).
func (b BBox) Expand(d float64) BBox {
	return BBox{MinX: b.MinX - d, MinY: b.MinY - d, MaxX: b.MaxX + d, MaxY: b.MaxY + d}
}

// Union returns the minimal box containing both.
func (b BBox) Union(o BBox) BBox {
	return BBox{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

// segmentParam returns the projection parameter of p onto segment a-b,
// clamped to [0,1]. A zero-length segment projects to t=0.
func segmentParam(p, a, b Point) float64 {
	d := b.Sub(a)
	l2 := d.X*d.X + d.Y*d.Y
	if l2 == 0 {
		return 0
	}
	t := Dot(p.Sub(a), d) / l2
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// ClosestOnSegment returns the point on segment a-b nearest to p. Never fails;
// a zero-length segment yields a.
func ClosestOnSegment(p, a, b Point) Point {
	t := segmentParam(p, a, b)
	return Point{a.X + t*(b.X-a.X), a.Y + t*(b.Y-a.Y)}
}

// PointSegmentDist is the distance from p to the segment a-b, using the
// clamped projection.
func PointSegmentDist(p, a, b Point) float64 {
	return Dist(p, ClosestOnSegment(p, a, b))
}

// PerpendicularFoot drops a perpendicular from p onto segment a-b. ok is false
// when the foot falls outside the segment (or the segment is degenerate).
func PerpendicularFoot(p, a, b Point) (Point, bool) {
	d := b.Sub(a)
	l2 := d.X*d.X + d.Y*d.Y
	if l2 == 0 {
		return Point{}, false
	}
	t := Dot(p.Sub(a), d) / l2
	if t < 0 || t > 1 {
		return Point{}, false
	}
	return Point{a.X + t*d.X, a.Y + t*d.Y}, true
}

// SegmentIntersection intersects segments a1-a2 and b1-b2 using Cramer's rule.
// ok is false when the segments are parallel (|det| < Epsilon) or the
// intersection parameter falls outside either segment.
func SegmentIntersection(a1, a2, b1, b2 Point) (Point, bool) {
	p, t, u, ok := lineParams(a1, a2, b1, b2)
	if !ok {
		return Point{}, false
	}
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, false
	}
	return p, true
}

// LineIntersection intersects the infinite lines through a1-a2 and b1-b2. Used
// by extend, where the target has been artificially lengthened. ok is false
// only for parallel or coincident lines.
func LineIntersection(a1, a2, b1, b2 Point) (Point, bool) {
	p, _, _, ok := lineParams(a1, a2, b1, b2)
	return p, ok
}

func lineParams(a1, a2, b1, b2 Point) (Point, float64, float64, bool) {
	d1 := a2.Sub(a1)
	d2 := b2.Sub(b1)
	det := d1.X*d2.Y - d1.Y*d2.X
	if math.Abs(det) < Epsilon {
		return Point{}, 0, 0, false
	}
	w := b1.Sub(a1)
	t := (w.X*d2.Y - w.Y*d2.X) / det
	u := (w.X*d1.Y - w.Y*d1.X) / det
	return Point{a1.X + t*d1.X, a1.Y + t*d1.Y}, t, u, true
}

// LineCircleIntersection intersects segment a-b with the circle at center with
// radius r. The quadratic is solved in the segment parameter; roots outside
// [0,1] are discarded and near-equal roots (tangency) are deduplicated.
// Returns 0, 1 or 2 points.
func LineCircleIntersection(a, b, center Point, r float64) []Point {
	d := b.Sub(a)
	f := a.Sub(center)
	qa := Dot(d, d)
	if qa == 0 {
		return nil
	}
	qb := 2 * Dot(f, d)
	qc := Dot(f, f) - r*r
	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)
	var out []Point
	for _, t := range []float64{(-qb - sq) / (2 * qa), (-qb + sq) / (2 * qa)} {
		if t < 0 || t > 1 {
			continue
		}
		p := Point{a.X + t*d.X, a.Y + t*d.Y}
		dup := false
		for _, q := range out {
			if Dist(p, q) < Epsilon {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}
