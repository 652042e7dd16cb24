/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func nearPt(p, q Point) bool { return near(p.X, q.X) && near(p.Y, q.Y) }

func TestDist(t *testing.T) {
	if d := Dist(P(0, 0), P(3, 4)); !near(d, 5) {
		t.Fatalf("dist = %v, want 5", d)
	}
	if d := Dist3(Point3{}, Point3{X: 2, Y: 3, Z: 6}); !near(d, 7) {
		t.Fatalf("dist3 = %v, want 7", d)
	}
}

func TestBBox(t *testing.T) {
	b := NewBBox(P(4, 1), P(-2, 7), P(0, 0))
	if b.MinX != -2 || b.MinY != 0 || b.MaxX != 4 || b.MaxY != 7 {
		t.Fatalf("bbox = %+v", b)
	}
	if !b.Contains(P(0, 3)) || b.Contains(P(5, 3)) {
		t.Fatalf("contains misbehaves: %+v", b)
	}
	e := b.Expand(1)
	if e.MinX != -3 || e.MaxY != 8 {
		t.Fatalf("expand = %+v", e)
	}
	inner := NewBBox(P(0, 1), P(1, 2))
	if !b.ContainsBox(inner) {
		t.Fatalf("inner box should be contained")
	}
	crossing := NewBBox(P(3, 3), P(6, 4))
	if b.ContainsBox(crossing) {
		t.Fatalf("partially overlapping box must not count as contained")
	}
}

func TestClosestOnSegment(t *testing.T) {
	a, b := P(0, 0), P(10, 0)
	if p := ClosestOnSegment(P(4, 3), a, b); !nearPt(p, P(4, 0)) {
		t.Fatalf("closest = %+v", p)
	}
	// beyond the end: clamped
	if p := ClosestOnSegment(P(15, 2), a, b); !nearPt(p, P(10, 0)) {
		t.Fatalf("clamped closest = %+v", p)
	}
	// zero-length segment falls back to the start point
	if p := ClosestOnSegment(P(5, 5), a, a); !nearPt(p, a) {
		t.Fatalf("degenerate closest = %+v", p)
	}
	if d := PointSegmentDist(P(4, 3), a, b); !near(d, 3) {
		t.Fatalf("segment dist = %v", d)
	}
}

func TestPerpendicularFoot(t *testing.T) {
	a, b := P(0, 0), P(10, 0)
	p, ok := PerpendicularFoot(P(6, 4), a, b)
	if !ok || !nearPt(p, P(6, 0)) {
		t.Fatalf("foot = %+v ok=%v", p, ok)
	}
	if _, ok := PerpendicularFoot(P(-3, 4), a, b); ok {
		t.Fatalf("foot outside segment must report false")
	}
	if _, ok := PerpendicularFoot(P(1, 1), a, a); ok {
		t.Fatalf("zero-length segment must report false")
	}
}

func TestSegmentIntersection(t *testing.T) {
	p, ok := SegmentIntersection(P(0, 0), P(10, 0), P(5, -5), P(5, 5))
	if !ok || !nearPt(p, P(5, 0)) {
		t.Fatalf("intersection = %+v ok=%v", p, ok)
	}
	// parallel
	if _, ok := SegmentIntersection(P(0, 0), P(10, 0), P(0, 1), P(10, 1)); ok {
		t.Fatalf("parallel segments must not intersect")
	}
	// crossing lines but outside the segment bounds
	if _, ok := SegmentIntersection(P(0, 0), P(10, 0), P(20, -5), P(20, 5)); ok {
		t.Fatalf("out-of-range parameter must not intersect")
	}
	// coincident
	if _, ok := SegmentIntersection(P(0, 0), P(10, 0), P(2, 0), P(8, 0)); ok {
		t.Fatalf("coincident segments must not intersect")
	}
}

func TestLineIntersectionUnclamped(t *testing.T) {
	p, ok := LineIntersection(P(0, 0), P(1, 0), P(20, -5), P(20, 5))
	if !ok || !nearPt(p, P(20, 0)) {
		t.Fatalf("line intersection = %+v ok=%v", p, ok)
	}
	if _, ok := LineIntersection(P(0, 0), P(1, 0), P(0, 1), P(1, 1)); ok {
		t.Fatalf("parallel lines must not intersect")
	}
}

func TestLineCircleIntersection(t *testing.T) {
	c := P(0, 0)
	pts := LineCircleIntersection(P(-10, 0), P(10, 0), c, 5)
	if len(pts) != 2 {
		t.Fatalf("want 2 intersections, got %d", len(pts))
	}
	for _, p := range pts {
		if d := Dist(p, c); !near(d, 5) {
			t.Fatalf("intersection %+v at distance %v, want radius 5", p, d)
		}
	}
	// tangent line: the two roots collapse to one point
	pts = LineCircleIntersection(P(-10, 5), P(10, 5), c, 5)
	if len(pts) != 1 {
		t.Fatalf("tangent line should yield 1 point, got %d", len(pts))
	}
	// miss
	if pts := LineCircleIntersection(P(-10, 9), P(10, 9), c, 5); len(pts) != 0 {
		t.Fatalf("miss should yield no points, got %d", len(pts))
	}
	// segment stops short of the circle
	if pts := LineCircleIntersection(P(-10, 0), P(-6, 0), c, 5); len(pts) != 0 {
		t.Fatalf("segment outside circle should yield no points, got %d", len(pts))
	}
}

func TestPointRotate(t *testing.T) {
	p := P(1, 0).Rotate(P(0, 0), math.Pi/2)
	if !nearPt(p, P(0, 1)) {
		t.Fatalf("rotate = %+v", p)
	}
	q := P(3, 4).Rotate(P(3, 4), 1.234)
	if !nearPt(q, P(3, 4)) {
		t.Fatalf("rotating about itself moved the point: %+v", q)
	}
}
