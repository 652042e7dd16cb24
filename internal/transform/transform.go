/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package transform implements the per-kind geometric edits of the kernel:
// translate, rotate, scale, mirror, offset, trim and extend. Every function
// returns a new entity sharing the input's id; inputs are never mutated.
package transform

import (
	"math"

	"civildraft/internal/entity"
	"civildraft/internal/geom"
)

// Translate shifts an entity by (dx, dy).
func Translate(e entity.Entity, dx, dy float64) entity.Entity {
	return mapPoints(e, func(p geom.Point) geom.Point {
		return geom.Point{X: p.X + dx, Y: p.Y + dy}
	}, 1, 0)
}

// Rotate rotates an entity around center by angle (radians). Rectangles are
// promoted to closed polylines: an axis-aligned rect cannot represent its own
// rotation losslessly.
func Rotate(e entity.Entity, center geom.Point, angle float64) entity.Entity {
	if r, ok := e.(*entity.Rect); ok {
		corners := r.Corners()
		pts := make([]geom.Point, 0, 4)
		for _, c := range corners {
			pts = append(pts, c.Rotate(center, angle))
		}
		p := &entity.Polyline{Base: *r.Clone().Common(), Points: pts, Closed: true}
		return p
	}
	return mapPoints(e, func(p geom.Point) geom.Point {
		return p.Rotate(center, angle)
	}, 1, angle)
}

// Scale scales an entity uniformly about center by factor.
func Scale(e entity.Entity, center geom.Point, factor float64) entity.Entity {
	return mapPoints(e, func(p geom.Point) geom.Point {
		return geom.Point{
			X: center.X + (p.X-center.X)*factor,
			Y: center.Y + (p.Y-center.Y)*factor,
		}
	}, factor, 0)
}

// Mirror reflects an entity across the infinite line through a and b. A
// degenerate mirror line leaves the entity geometry unchanged. Like rotation,
// rectangles are promoted to polylines.
func Mirror(e entity.Entity, a, b geom.Point) entity.Entity {
	d := b.Sub(a)
	if d.Len() == 0 {
		return e.Clone()
	}
	axis := math.Atan2(d.Y, d.X)
	reflect := func(p geom.Point) geom.Point {
		t := geom.Dot(p.Sub(a), d) / (d.X*d.X + d.Y*d.Y)
		foot := geom.Point{X: a.X + t*d.X, Y: a.Y + t*d.Y}
		return geom.Point{X: 2*foot.X - p.X, Y: 2*foot.Y - p.Y}
	}
	switch v := e.(type) {
	case *entity.Rect:
		corners := v.Corners()
		pts := make([]geom.Point, 0, 4)
		for _, c := range corners {
			pts = append(pts, reflect(c))
		}
		return &entity.Polyline{Base: *v.Clone().Common(), Points: pts, Closed: true}
	case *entity.Arc:
		n := v.Clone().(*entity.Arc)
		n.Center = reflect(v.Center)
		// reflection reverses orientation; swap the angles to keep the
		// counter-clockwise sweep convention
		n.StartAngle = 2*axis - v.EndAngle
		n.EndAngle = 2*axis - v.StartAngle
		return n
	case *entity.Text:
		n := v.Clone().(*entity.Text)
		n.Pos = reflect(v.Pos)
		n.Rotation = 2*axis - v.Rotation
		return n
	case *entity.Ellipse:
		n := v.Clone().(*entity.Ellipse)
		n.Center = reflect(v.Center)
		n.Rotation = 2*axis - v.Rotation
		return n
	case *entity.Insert:
		n := v.Clone().(*entity.Insert)
		n.Pos = reflect(v.Pos)
		n.Rotation = 2*axis - v.Rotation
		for i, child := range v.Entities {
			n.Entities[i] = Mirror(child, a, b)
		}
		return n
	default:
		return mapPoints(e, reflect, 1, 0)
	}
}

// Offset produces a parallel copy at signed distance d. Lines shift along
// their perpendicular unit normal, circles grow or shrink their radius
// (non-positive results are rejected), and polylines offset per-vertex along
// the averaged normal of the adjacent edges. The polyline result is an
// approximation, not a true parallel curve; callers depend on its exact
// shape, so it is left uncorrected. Other kinds report false.
func Offset(e entity.Entity, d float64) (entity.Entity, bool) {
	switch v := e.(type) {
	case *entity.Line:
		n, ok := normalOf(v.Start, v.End)
		if !ok {
			return nil, false
		}
		out := v.Clone().(*entity.Line)
		out.Start = v.Start.Add(n.Scale(d))
		out.End = v.End.Add(n.Scale(d))
		return out, true
	case *entity.Circle:
		r := v.Radius + d
		if r <= 0 {
			return nil, false
		}
		out := v.Clone().(*entity.Circle)
		out.Radius = r
		return out, true
	case *entity.Polyline:
		if len(v.Points) < 2 {
			return nil, false
		}
		out := v.Clone().(*entity.Polyline)
		out.Points = offsetVertices(v.Points, v.Closed, d)
		return out, true
	default:
		return nil, false
	}
}

// offsetVertices shifts each vertex along the averaged unit normal of its two
// adjacent edges; terminal vertices of open polylines use their single edge
// normal.
func offsetVertices(pts []geom.Point, closed bool, d float64) []geom.Point {
	n := len(pts)
	out := make([]geom.Point, n)
	edgeNormal := func(i int) (geom.Point, bool) {
		return normalOf(pts[i], pts[(i+1)%n])
	}
	for i := range pts {
		var normals []geom.Point
		prev := i - 1
		if prev < 0 {
			if closed {
				prev = n - 1
			} else {
				prev = -1
			}
		}
		if prev >= 0 {
			if nv, ok := edgeNormal(prev); ok {
				normals = append(normals, nv)
			}
		}
		if i < n-1 || closed {
			if nv, ok := edgeNormal(i % n); ok {
				normals = append(normals, nv)
			}
		}
		var avg geom.Point
		for _, nv := range normals {
			avg = avg.Add(nv)
		}
		avg = avg.Unit()
		out[i] = pts[i].Add(avg.Scale(d))
	}
	return out
}

func normalOf(a, b geom.Point) (geom.Point, bool) {
	d := b.Sub(a)
	l := d.Len()
	if l == 0 {
		return geom.Point{}, false
	}
	return geom.Point{X: -d.Y / l, Y: d.X / l}, true
}

// Trim cuts the target line at its intersection with the cutting edge,
// keeping whichever piece ends nearer the pick point. Both edges are
// segment-bounded; no intersection reports false.
func Trim(target, cutter *entity.Line, pick geom.Point) (*entity.Line, bool) {
	inter, ok := geom.SegmentIntersection(target.Start, target.End, cutter.Start, cutter.End)
	if !ok {
		return nil, false
	}
	out := target.Clone().(*entity.Line)
	if geom.Dist(pick, target.Start) <= geom.Dist(pick, target.End) {
		out.End = inter
	} else {
		out.Start = inter
	}
	return out, true
}

// Extend lengthens the target line so that the end nearer the pick point
// reaches the boundary edge. The intersection is taken against an
// artificially lengthened copy of the target (±1000 units), which stands in
// for the infinite line through it; the boundary stays segment-bounded. No
// intersection reports false.
func Extend(target, boundary *entity.Line, pick geom.Point) (*entity.Line, bool) {
	u := target.End.Sub(target.Start).Unit()
	if u.Len() == 0 {
		return nil, false
	}
	longStart := target.Start.Sub(u.Scale(1000))
	longEnd := target.End.Add(u.Scale(1000))
	inter, ok := geom.SegmentIntersection(longStart, longEnd, boundary.Start, boundary.End)
	if !ok {
		return nil, false
	}
	out := target.Clone().(*entity.Line)
	if geom.Dist(pick, target.Start) <= geom.Dist(pick, target.End) {
		out.Start = inter
	} else {
		out.End = inter
	}
	return out, true
}

// mapPoints applies fn to every point of the entity, scaling scalar lengths
// by factor and adding dAngle to stored rotations. It is the single exhaustive
// switch behind Translate, Rotate and Scale; a new entity kind must be added
// here.
func mapPoints(e entity.Entity, fn func(geom.Point) geom.Point, factor, dAngle float64) entity.Entity {
	switch v := e.(type) {
	case *entity.Line:
		n := v.Clone().(*entity.Line)
		n.Start = fn(v.Start)
		n.End = fn(v.End)
		return n
	case *entity.Polyline:
		n := v.Clone().(*entity.Polyline)
		for i, p := range v.Points {
			n.Points[i] = fn(p)
		}
		return n
	case *entity.Circle:
		n := v.Clone().(*entity.Circle)
		n.Center = fn(v.Center)
		n.Radius = v.Radius * math.Abs(factor)
		return n
	case *entity.Arc:
		n := v.Clone().(*entity.Arc)
		n.Center = fn(v.Center)
		n.Radius = v.Radius * math.Abs(factor)
		n.StartAngle = v.StartAngle + dAngle
		n.EndAngle = v.EndAngle + dAngle
		return n
	case *entity.Rect:
		// axis-aligned transforms only reach here (rotation promotes first)
		n := v.Clone().(*entity.Rect)
		n.Pos = fn(v.Pos)
		n.W = v.W * math.Abs(factor)
		n.H = v.H * math.Abs(factor)
		return n
	case *entity.Text:
		n := v.Clone().(*entity.Text)
		n.Pos = fn(v.Pos)
		n.Height = v.Height * math.Abs(factor)
		n.Rotation = v.Rotation + dAngle
		return n
	case *entity.Dimension:
		n := v.Clone().(*entity.Dimension)
		n.Def1 = fn(v.Def1)
		n.Def2 = fn(v.Def2)
		n.TextMid = fn(v.TextMid)
		if v.Vertex != nil {
			p := fn(*v.Vertex)
			n.Vertex = &p
		}
		return n
	case *entity.Hatch:
		n := v.Clone().(*entity.Hatch)
		for i, p := range v.Boundary {
			n.Boundary[i] = fn(p)
		}
		return n
	case *entity.Insert:
		n := v.Clone().(*entity.Insert)
		n.Pos = fn(v.Pos)
		n.Scale = v.Scale * math.Abs(factor)
		n.Rotation = v.Rotation + dAngle
		for i, child := range v.Entities {
			n.Entities[i] = mapPoints(child, fn, factor, dAngle)
		}
		return n
	case *entity.Point:
		n := v.Clone().(*entity.Point)
		n.Pos = fn(v.Pos)
		return n
	case *entity.Ellipse:
		n := v.Clone().(*entity.Ellipse)
		n.Center = fn(v.Center)
		n.RX = v.RX * math.Abs(factor)
		n.RY = v.RY * math.Abs(factor)
		n.Rotation = v.Rotation + dAngle
		return n
	case *entity.Spline:
		n := v.Clone().(*entity.Spline)
		for i, p := range v.Points {
			n.Points[i] = fn(p)
		}
		return n
	default:
		return e.Clone()
	}
}
