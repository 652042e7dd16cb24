/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package entity

import "civildraft/internal/geom"

// Flatten expands the spline into a renderable polyline approximation using
// per-segment Catmull-Rom (cardinal) interpolation. segments is the sample
// count per control span (<=0 uses 8). Closed splines wrap around; open ends
// clamp the phantom neighbors. The expansion is pure and repeatable; it never
// mutates the spline.
func (s *Spline) Flatten(segments int) []geom.Point {
	n := len(s.Points)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []geom.Point{s.Points[0]}
	}
	if segments <= 0 {
		segments = 8
	}

	at := func(i int) geom.Point {
		if s.Closed {
			return s.Points[((i%n)+n)%n]
		}
		if i < 0 {
			return s.Points[0]
		}
		if i >= n {
			return s.Points[n-1]
		}
		return s.Points[i]
	}

	spans := n - 1
	if s.Closed {
		spans = n
	}
	// Tension 0 is standard Catmull-Rom; 1 collapses to straight chords.
	k := (1 - s.Tension) / 2

	out := make([]geom.Point, 0, spans*segments+1)
	out = append(out, at(0))
	for i := 0; i < spans; i++ {
		p0, p1, p2, p3 := at(i-1), at(i), at(i+1), at(i+2)
		m1 := geom.Point{X: k * (p2.X - p0.X), Y: k * (p2.Y - p0.Y)}
		m2 := geom.Point{X: k * (p3.X - p1.X), Y: k * (p3.Y - p1.Y)}
		for j := 1; j <= segments; j++ {
			u := float64(j) / float64(segments)
			u2 := u * u
			u3 := u2 * u
			h00 := 2*u3 - 3*u2 + 1
			h10 := u3 - 2*u2 + u
			h01 := -2*u3 + 3*u2
			h11 := u3 - u2
			out = append(out, geom.Point{
				X: h00*p1.X + h10*m1.X + h01*p2.X + h11*m2.X,
				Y: h00*p1.Y + h10*m1.Y + h01*p2.Y + h11*m2.Y,
			})
		}
	}
	return out
}
