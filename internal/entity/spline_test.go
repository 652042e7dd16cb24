/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package entity

import (
	"testing"

	"civildraft/internal/geom"
)

func TestFlattenOpenPassesThroughControlPoints(t *testing.T) {
	f := testFactory()
	ctrl := []geom.Point{geom.P(0, 0), geom.P(10, 10), geom.P(20, 0), geom.P(30, 10)}
	s := f.Spline(ctrl, false, 0)
	out := s.Flatten(4)
	if want := (len(ctrl)-1)*4 + 1; len(out) != want {
		t.Fatalf("flatten produced %d points, want %d", len(out), want)
	}
	if out[0] != ctrl[0] || out[len(out)-1] != ctrl[len(ctrl)-1] {
		t.Fatalf("open spline must start and end on the control points")
	}
	// every control point appears at a span boundary
	for i, c := range ctrl {
		if got := out[i*4]; geom.Dist(got, c) > 1e-9 {
			t.Fatalf("control %d not interpolated: %+v vs %+v", i, got, c)
		}
	}
}

func TestFlattenClosedWrapsAround(t *testing.T) {
	f := testFactory()
	ctrl := []geom.Point{geom.P(0, 0), geom.P(10, 0), geom.P(10, 10), geom.P(0, 10)}
	s := f.Spline(ctrl, true, 0)
	out := s.Flatten(6)
	if want := len(ctrl)*6 + 1; len(out) != want {
		t.Fatalf("flatten produced %d points, want %d", len(out), want)
	}
	if geom.Dist(out[0], out[len(out)-1]) > 1e-9 {
		t.Fatalf("closed spline should return to its start: %+v vs %+v", out[0], out[len(out)-1])
	}
}

func TestFlattenIsRepeatable(t *testing.T) {
	f := testFactory()
	s := f.Spline([]geom.Point{geom.P(0, 0), geom.P(5, 8), geom.P(12, 1)}, false, 0.5)
	a := s.Flatten(8)
	b := s.Flatten(8)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expansion not repeatable at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
	if len(s.Points) != 3 {
		t.Fatalf("flatten must not mutate control points")
	}
}

func TestFlattenDegenerate(t *testing.T) {
	f := testFactory()
	if out := f.Spline(nil, false, 0).Flatten(8); out != nil {
		t.Fatalf("empty spline should flatten to nil, got %d points", len(out))
	}
	one := f.Spline([]geom.Point{geom.P(3, 4)}, false, 0)
	if out := one.Flatten(8); len(out) != 1 || out[0] != geom.P(3, 4) {
		t.Fatalf("single-point spline flatten = %+v", out)
	}
}

func TestFlattenFullTensionIsPolyline(t *testing.T) {
	f := testFactory()
	ctrl := []geom.Point{geom.P(0, 0), geom.P(10, 0), geom.P(10, 10)}
	s := f.Spline(ctrl, false, 1)
	// tension 1 zeroes the tangents, so every sample lies on a chord
	for _, p := range s.Flatten(4) {
		onChord := geom.PointSegmentDist(p, ctrl[0], ctrl[1]) < 1e-9 ||
			geom.PointSegmentDist(p, ctrl[1], ctrl[2]) < 1e-9
		if !onChord {
			t.Fatalf("sample %+v off the chords at full tension", p)
		}
	}
}
