/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package entity

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"civildraft/internal/geom"
)

// IDSource hands out entity and command identifiers. Injecting it keeps the
// kernel deterministic under test.
type IDSource interface {
	NextID() string
}

type uuidSource struct{}

func (uuidSource) NextID() string { return uuid.NewString() }

// UUIDs returns the production id source backed by random UUIDv4.
func UUIDs() IDSource { return uuidSource{} }

// Seq is a monotonic id source for tests and import runs that need
// reproducible ids.
type Seq struct {
	Prefix string
	n      int
}

func (s *Seq) NextID() string {
	s.n++
	return fmt.Sprintf("%s%d", s.Prefix, s.n)
}

// Factory creates entities with fresh ids, the default style and the factory
// layer unless the caller adjusts the result.
type Factory struct {
	IDs   IDSource
	Layer string
}

// NewFactory returns a factory over ids; nil falls back to UUIDs. The default
// layer is "0".
func NewFactory(ids IDSource) *Factory {
	if ids == nil {
		ids = UUIDs()
	}
	return &Factory{IDs: ids, Layer: "0"}
}

func (f *Factory) newBase() Base {
	return Base{
		ID:      f.IDs.NextID(),
		Layer:   f.Layer,
		Visible: true,
		Style:   DefaultStyle(),
	}
}

func (f *Factory) Line(start, end geom.Point) *Line {
	return &Line{Base: f.newBase(), Start: start, End: end}
}

func (f *Factory) Polyline(points []geom.Point, closed bool) *Polyline {
	return &Polyline{Base: f.newBase(), Points: append([]geom.Point(nil), points...), Closed: closed}
}

func (f *Factory) Circle(center geom.Point, radius float64) *Circle {
	return &Circle{Base: f.newBase(), Center: center, Radius: radius}
}

func (f *Factory) Arc(center geom.Point, radius, startAngle, endAngle float64) *Arc {
	return &Arc{Base: f.newBase(), Center: center, Radius: radius, StartAngle: startAngle, EndAngle: endAngle}
}

func (f *Factory) Rect(pos geom.Point, w, h float64) *Rect {
	return &Rect{Base: f.newBase(), Pos: pos, W: w, H: h}
}

func (f *Factory) Text(pos geom.Point, content string, height float64) *Text {
	if height <= 0 {
		height = 2.5
	}
	return &Text{Base: f.newBase(), Pos: pos, Content: content, Height: height}
}

func (f *Factory) Dimension(def1, def2, textMid geom.Point, dimType DimType) *Dimension {
	return &Dimension{Base: f.newBase(), Def1: def1, Def2: def2, TextMid: textMid, DimType: dimType}
}

func (f *Factory) Hatch(boundary []geom.Point, pattern string) *Hatch {
	return &Hatch{Base: f.newBase(), Boundary: append([]geom.Point(nil), boundary...), Pattern: pattern}
}

func (f *Factory) Point(pos geom.Point) *Point {
	return &Point{Base: f.newBase(), Pos: pos}
}

func (f *Factory) Ellipse(center geom.Point, rx, ry float64) *Ellipse {
	return &Ellipse{Base: f.newBase(), Center: center, RX: rx, RY: ry}
}

func (f *Factory) Spline(points []geom.Point, closed bool, tension float64) *Spline {
	return &Spline{Base: f.newBase(), Points: append([]geom.Point(nil), points...), Closed: closed, Tension: tension}
}

// ArcFrom3Points constructs the arc through p1, p2, p3 via the circumscribed
// circle. When the points are collinear (|determinant| < geom.Epsilon) it
// degrades to a straight line from p1 to p3. Downstream drafting workflows
// rely on this fallback; do not turn it into an error.
func (f *Factory) ArcFrom3Points(p1, p2, p3 geom.Point) Entity {
	d := 2 * (p1.X*(p2.Y-p3.Y) + p2.X*(p3.Y-p1.Y) + p3.X*(p1.Y-p2.Y))
	if math.Abs(d) < geom.Epsilon {
		return f.Line(p1, p3)
	}
	s1 := p1.X*p1.X + p1.Y*p1.Y
	s2 := p2.X*p2.X + p2.Y*p2.Y
	s3 := p3.X*p3.X + p3.Y*p3.Y
	center := geom.Point{
		X: (s1*(p2.Y-p3.Y) + s2*(p3.Y-p1.Y) + s3*(p1.Y-p2.Y)) / d,
		Y: (s1*(p3.X-p2.X) + s2*(p1.X-p3.X) + s3*(p2.X-p1.X)) / d,
	}
	radius := geom.Dist(center, p1)
	start := math.Atan2(p1.Y-center.Y, p1.X-center.X)
	end := math.Atan2(p3.Y-center.Y, p3.X-center.X)
	return &Arc{Base: f.newBase(), Center: center, Radius: radius, StartAngle: start, EndAngle: end}
}
