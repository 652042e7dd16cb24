/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package sel answers tolerance-based point and box selection queries over
// the entity list. Hit tests run in two stages: a cheap reject against the
// entity bounding box expanded by the tolerance, then an exact per-kind
// distance test.
package sel

import (
	"math"

	"civildraft/internal/entity"
	"civildraft/internal/geom"
)

// HitTest reports whether p lies on the entity within tol.
func HitTest(e entity.Entity, p geom.Point, tol float64) bool {
	if !e.Bounds().Expand(tol).Contains(p) {
		return false
	}
	switch v := e.(type) {
	case *entity.Line:
		return geom.PointSegmentDist(p, v.Start, v.End) <= tol
	case *entity.Polyline:
		for _, edge := range v.Edges() {
			if geom.PointSegmentDist(p, edge[0], edge[1]) <= tol {
				return true
			}
		}
		return false
	case *entity.Circle:
		return math.Abs(geom.Dist(p, v.Center)-v.Radius) <= tol
	case *entity.Arc:
		if math.Abs(geom.Dist(p, v.Center)-v.Radius) > tol {
			return false
		}
		return angleOnArc(math.Atan2(p.Y-v.Center.Y, p.X-v.Center.X), v.StartAngle, v.EndAngle)
	case *entity.Rect:
		corners := v.Corners()
		for i := range corners {
			a, b := corners[i], corners[(i+1)%4]
			if geom.PointSegmentDist(p, a, b) <= tol {
				return true
			}
		}
		return false
	case *entity.Point:
		return geom.Dist(p, v.Pos) <= tol
	case *entity.Ellipse:
		// normalize into the unit-circle space of the ellipse and compare the
		// radial error scaled back by the smaller semi-axis
		if v.RX == 0 || v.RY == 0 {
			return false
		}
		q := p.Sub(v.Center).Rotate(geom.Point{}, -v.Rotation)
		r := math.Sqrt((q.X/v.RX)*(q.X/v.RX) + (q.Y/v.RY)*(q.Y/v.RY))
		return math.Abs(r-1)*math.Min(v.RX, v.RY) <= tol
	case *entity.Spline:
		pts := v.Flatten(0)
		for i := 0; i+1 < len(pts); i++ {
			if geom.PointSegmentDist(p, pts[i], pts[i+1]) <= tol {
				return true
			}
		}
		return false
	case *entity.Text, *entity.Dimension, *entity.Hatch, *entity.Insert:
		// opaque entities select by their expanded box
		return true
	default:
		return false
	}
}

func angleOnArc(theta, start, end float64) bool {
	norm := func(a float64) float64 {
		for a < 0 {
			a += 2 * math.Pi
		}
		return math.Mod(a, 2*math.Pi)
	}
	t, s, e := norm(theta), norm(start), norm(end)
	if s <= e {
		return t >= s && t <= e
	}
	return t >= s || t <= e
}

// PickAt returns the selectable entities hit at p within tol, in list order.
func PickAt(entities []entity.Entity, layers entity.Table, p geom.Point, tol float64) []entity.Entity {
	var out []entity.Entity
	for _, e := range entities {
		if !entity.IsSelectable(e, layers) {
			continue
		}
		if HitTest(e, p, tol) {
			out = append(out, e)
		}
	}
	return out
}

// InBox reports whether the entity's bounding box lies entirely inside box.
// Partial overlap does not select.
func InBox(e entity.Entity, box geom.BBox) bool {
	return box.ContainsBox(e.Bounds())
}

// BoxSelect returns the selectable entities fully contained in box.
func BoxSelect(entities []entity.Entity, layers entity.Table, box geom.BBox) []entity.Entity {
	var out []entity.Entity
	for _, e := range entities {
		if !entity.IsSelectable(e, layers) {
			continue
		}
		if InBox(e, box) {
			out = append(out, e)
		}
	}
	return out
}
