/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package snap extracts alignment candidate points from the entity list:
// endpoints, midpoints, centers, intersections, perpendicular feet, tangent
// points and nearest-on-entity points. All queries are stateless; a Settings
// value gates each category.
package snap

import (
	"math"

	"civildraft/internal/config"
	"civildraft/internal/entity"
	"civildraft/internal/geom"
)

// Settings enables snap categories and bounds the intersection search.
type Settings struct {
	Endpoint      bool
	Midpoint      bool
	Center        bool
	Intersection  bool
	Perpendicular bool
	Tangent       bool
	Nearest       bool
	// Radius bounds the intersection search around the cursor.
	Radius float64
}

// SettingsFromConfig builds snap settings from the user configuration. A
// non-positive radius falls back to the configured default.
func SettingsFromConfig(c config.SnapConfig) Settings {
	radius := c.Radius
	if radius <= 0 {
		radius = config.Defaults().Snap.Radius
	}
	return Settings{
		Endpoint:      c.Endpoint,
		Midpoint:      c.Midpoint,
		Center:        c.Center,
		Intersection:  c.Intersection,
		Perpendicular: c.Perpendicular,
		Tangent:       c.Tangent,
		Nearest:       c.Nearest,
		Radius:        radius,
	}
}

// PointKind labels the snap category a candidate came from.
type PointKind string

const (
	SnapEndpoint      PointKind = "endpoint"
	SnapMidpoint      PointKind = "midpoint"
	SnapCenter        PointKind = "center"
	SnapIntersection  PointKind = "intersection"
	SnapPerpendicular PointKind = "perpendicular"
	SnapTangent       PointKind = "tangent"
	SnapNearest       PointKind = "nearest"
)

// Point is a snap candidate.
type Point struct {
	P    geom.Point
	Kind PointKind
}

// Candidates collects the enabled snap points of all entities around the
// cursor. Cursor-independent categories (endpoints, midpoints, centers) are
// collected for every entity; cursor-relative categories use the cursor.
func Candidates(entities []entity.Entity, cursor geom.Point, s Settings) []Point {
	var out []Point
	add := func(kind PointKind, pts ...geom.Point) {
		for _, p := range pts {
			out = append(out, Point{P: p, Kind: kind})
		}
	}
	for _, e := range entities {
		if s.Endpoint {
			add(SnapEndpoint, Endpoints(e)...)
		}
		if s.Midpoint {
			add(SnapMidpoint, Midpoints(e)...)
		}
		if s.Center {
			add(SnapCenter, Centers(e)...)
		}
		if s.Perpendicular {
			if p, ok := Perpendicular(e, cursor); ok {
				add(SnapPerpendicular, p)
			}
		}
		if s.Tangent {
			if c, ok := e.(*entity.Circle); ok {
				add(SnapTangent, TangentPoints(cursor, c)...)
			}
		}
		if s.Nearest {
			if p, ok := NearestOn(e, cursor); ok {
				add(SnapNearest, p)
			}
		}
	}
	if s.Intersection {
		add(SnapIntersection, Intersections(entities, cursor, s.Radius)...)
	}
	return out
}

// Endpoints returns the terminal points of an entity. Circles contribute
// their four quadrant points.
func Endpoints(e entity.Entity) []geom.Point {
	switch v := e.(type) {
	case *entity.Line:
		return []geom.Point{v.Start, v.End}
	case *entity.Polyline:
		return append([]geom.Point(nil), v.Points...)
	case *entity.Circle:
		return []geom.Point{
			{X: v.Center.X + v.Radius, Y: v.Center.Y},
			{X: v.Center.X - v.Radius, Y: v.Center.Y},
			{X: v.Center.X, Y: v.Center.Y + v.Radius},
			{X: v.Center.X, Y: v.Center.Y - v.Radius},
		}
	case *entity.Arc:
		s, en := v.Endpoints()
		return []geom.Point{s, en}
	case *entity.Rect:
		c := v.Corners()
		return c[:]
	case *entity.Point:
		return []geom.Point{v.Pos}
	case *entity.Spline:
		if n := len(v.Points); n > 0 {
			return []geom.Point{v.Points[0], v.Points[n-1]}
		}
	}
	return nil
}

// Midpoints returns segment midpoints for linear entities.
func Midpoints(e entity.Entity) []geom.Point {
	switch v := e.(type) {
	case *entity.Line:
		return []geom.Point{geom.Mid(v.Start, v.End)}
	case *entity.Polyline:
		var out []geom.Point
		for _, edge := range v.Edges() {
			out = append(out, geom.Mid(edge[0], edge[1]))
		}
		return out
	case *entity.Rect:
		c := v.Corners()
		var out []geom.Point
		for i := range c {
			out = append(out, geom.Mid(c[i], c[(i+1)%4]))
		}
		return out
	}
	return nil
}

// Centers returns circle/arc/rectangle/ellipse centers.
func Centers(e entity.Entity) []geom.Point {
	switch v := e.(type) {
	case *entity.Circle:
		return []geom.Point{v.Center}
	case *entity.Arc:
		return []geom.Point{v.Center}
	case *entity.Rect:
		return []geom.Point{v.Bounds().Center()}
	case *entity.Ellipse:
		return []geom.Point{v.Center}
	}
	return nil
}

// segmentsOf flattens an entity into snap-relevant segments: explicit lines
// plus the implicit edges of polylines and rectangles.
func segmentsOf(e entity.Entity) [][2]geom.Point {
	switch v := e.(type) {
	case *entity.Line:
		return [][2]geom.Point{{v.Start, v.End}}
	case *entity.Polyline:
		return v.Edges()
	case *entity.Rect:
		c := v.Corners()
		return [][2]geom.Point{
			{c[0], c[1]}, {c[1], c[2]}, {c[2], c[3]}, {c[3], c[0]},
		}
	}
	return nil
}

// Intersections collects all pairwise segment/segment and segment/circle
// intersection points within radius of the cursor.
func Intersections(entities []entity.Entity, cursor geom.Point, radius float64) []geom.Point {
	type circ struct {
		center geom.Point
		r      float64
	}
	var segs [][2]geom.Point
	var circles []circ
	for _, e := range entities {
		segs = append(segs, segmentsOf(e)...)
		if c, ok := e.(*entity.Circle); ok {
			circles = append(circles, circ{c.Center, c.Radius})
		}
	}
	var out []geom.Point
	keep := func(p geom.Point) {
		if radius > 0 && geom.Dist(p, cursor) > radius {
			return
		}
		out = append(out, p)
	}
	for i := 0; i < len(segs); i++ {
		for j := i + 1; j < len(segs); j++ {
			if p, ok := geom.SegmentIntersection(segs[i][0], segs[i][1], segs[j][0], segs[j][1]); ok {
				keep(p)
			}
		}
		for _, c := range circles {
			for _, p := range geom.LineCircleIntersection(segs[i][0], segs[i][1], c.center, c.r) {
				keep(p)
			}
		}
	}
	return out
}

// Perpendicular returns the foot of the perpendicular from the cursor to a
// line or to the nearest polyline edge, clamped to the segment.
func Perpendicular(e entity.Entity, cursor geom.Point) (geom.Point, bool) {
	switch v := e.(type) {
	case *entity.Line:
		return geom.PerpendicularFoot(cursor, v.Start, v.End)
	case *entity.Polyline:
		best := geom.Point{}
		bestDist := math.MaxFloat64
		found := false
		for _, edge := range v.Edges() {
			if p, ok := geom.PerpendicularFoot(cursor, edge[0], edge[1]); ok {
				if d := geom.Dist(p, cursor); d < bestDist {
					best, bestDist, found = p, d, true
				}
			}
		}
		return best, found
	}
	return geom.Point{}, false
}

// TangentPoints returns the two tangent points from an external point to a
// circle. A point inside (or on) the circle has no tangents and yields an
// empty list.
func TangentPoints(from geom.Point, c *entity.Circle) []geom.Point {
	d := geom.Dist(from, c.Center)
	if d <= c.Radius {
		return nil
	}
	a := math.Acos(c.Radius / d)
	b := math.Atan2(from.Y-c.Center.Y, from.X-c.Center.X)
	return []geom.Point{
		{X: c.Center.X + c.Radius*math.Cos(b+a), Y: c.Center.Y + c.Radius*math.Sin(b+a)},
		{X: c.Center.X + c.Radius*math.Cos(b-a), Y: c.Center.Y + c.Radius*math.Sin(b-a)},
	}
}

// NearestOn returns the closest point on the entity to the cursor, clamped
// for linear entities.
func NearestOn(e entity.Entity, cursor geom.Point) (geom.Point, bool) {
	switch v := e.(type) {
	case *entity.Line:
		return geom.ClosestOnSegment(cursor, v.Start, v.End), true
	case *entity.Circle:
		u := cursor.Sub(v.Center).Unit()
		if u.Len() == 0 {
			return geom.Point{X: v.Center.X + v.Radius, Y: v.Center.Y}, true
		}
		return v.Center.Add(u.Scale(v.Radius)), true
	case *entity.Polyline:
		best := geom.Point{}
		bestDist := math.MaxFloat64
		found := false
		for _, edge := range v.Edges() {
			p := geom.ClosestOnSegment(cursor, edge[0], edge[1])
			if d := geom.Dist(p, cursor); d < bestDist {
				best, bestDist, found = p, d, true
			}
		}
		return best, found
	}
	return geom.Point{}, false
}

// Nearest scans candidates linearly and returns the one closest to the
// cursor, provided it lies strictly under maxDist. ok is false for an empty
// candidate list or when everything is too far away.
func Nearest(candidates []geom.Point, cursor geom.Point, maxDist float64) (geom.Point, bool) {
	best := geom.Point{}
	bestDist := math.MaxFloat64
	found := false
	for _, p := range candidates {
		if d := geom.Dist(p, cursor); d < bestDist {
			best, bestDist, found = p, d, true
		}
	}
	if !found || bestDist >= maxDist {
		return geom.Point{}, false
	}
	return best, true
}
