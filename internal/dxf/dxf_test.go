/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dxf

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"civildraft/internal/entity"
	"civildraft/internal/geom"
)

const eps = 1e-5

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func exportImport(t *testing.T, doc *entity.Document) *entity.Document {
	t.Helper()
	out := Export(doc, Options{})
	back, err := Import(bytes.NewReader(out), entity.NewFactory(&entity.Seq{Prefix: "in"}))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	return back
}

func TestLineCircleRoundTrip(t *testing.T) {
	f := entity.NewFactory(&entity.Seq{Prefix: "e"})
	doc := entity.NewDocument("site")
	doc.Entities = append(doc.Entities,
		f.Line(geom.P(1.5, 2.25), geom.P(40, -3)),
		f.Circle(geom.P(10, 10), 7.125),
	)

	back := exportImport(t, doc)
	if len(back.Entities) != 2 {
		t.Fatalf("round trip produced %d entities, want 2", len(back.Entities))
	}
	l, ok := back.Entities[0].(*entity.Line)
	if !ok {
		t.Fatalf("first entity is %T, want line", back.Entities[0])
	}
	if !near(l.Start.X, 1.5) || !near(l.Start.Y, 2.25) || !near(l.End.X, 40) || !near(l.End.Y, -3) {
		t.Fatalf("line coordinates drifted: %+v", l)
	}
	c, ok := back.Entities[1].(*entity.Circle)
	if !ok {
		t.Fatalf("second entity is %T, want circle", back.Entities[1])
	}
	if !near(c.Center.X, 10) || !near(c.Center.Y, 10) || !near(c.Radius, 7.125) {
		t.Fatalf("circle drifted: %+v", c)
	}
}

func TestArcAnglesRoundTripThroughDegrees(t *testing.T) {
	f := entity.NewFactory(&entity.Seq{Prefix: "e"})
	doc := entity.NewDocument("site")
	doc.Entities = append(doc.Entities, f.Arc(geom.P(0, 0), 5, math.Pi/6, math.Pi))

	back := exportImport(t, doc)
	a, ok := back.Entities[0].(*entity.Arc)
	if !ok {
		t.Fatalf("entity is %T, want arc", back.Entities[0])
	}
	if !near(a.StartAngle, math.Pi/6) || !near(a.EndAngle, math.Pi) {
		t.Fatalf("angles drifted: start=%v end=%v", a.StartAngle, a.EndAngle)
	}
}

func TestInvisibleEntitiesNotExported(t *testing.T) {
	f := entity.NewFactory(&entity.Seq{Prefix: "e"})
	doc := entity.NewDocument("site")
	hidden := f.Line(geom.P(0, 0), geom.P(1, 1))
	hidden.Visible = false
	doc.Entities = append(doc.Entities, hidden, f.Circle(geom.P(0, 0), 1))

	back := exportImport(t, doc)
	if len(back.Entities) != 1 {
		t.Fatalf("expected only the visible entity, got %d", len(back.Entities))
	}
	if back.Entities[0].Kind() != entity.KindCircle {
		t.Fatalf("wrong survivor: %v", back.Entities[0].Kind())
	}
}

func TestHatchWithoutBoundarySkipped(t *testing.T) {
	f := entity.NewFactory(&entity.Seq{Prefix: "e"})
	doc := entity.NewDocument("site")
	h := f.Hatch(nil, "ANSI31")
	h.BoundaryRef = "legacy-7"
	doc.Entities = append(doc.Entities, h, f.Hatch([]geom.Point{geom.P(0, 0), geom.P(4, 0), geom.P(4, 4)}, "ANSI31"))

	out := string(Export(doc, Options{}))
	if got := strings.Count(out, "LWPOLYLINE"); got != 1 {
		t.Fatalf("expected exactly one boundary polyline, got %d", got)
	}
}

func TestRectExportsAsClosedPolyline(t *testing.T) {
	f := entity.NewFactory(&entity.Seq{Prefix: "e"})
	doc := entity.NewDocument("site")
	doc.Entities = append(doc.Entities, f.Rect(geom.P(2, 3), 4, 2))

	back := exportImport(t, doc)
	p, ok := back.Entities[0].(*entity.Polyline)
	if !ok {
		t.Fatalf("entity is %T, want polyline", back.Entities[0])
	}
	if !p.Closed || len(p.Points) != 4 {
		t.Fatalf("rect did not become a closed 4-point polyline: %+v", p)
	}
	if !near(p.Points[2].X, 6) || !near(p.Points[2].Y, 5) {
		t.Fatalf("corner drifted: %+v", p.Points[2])
	}
}

func TestUnknownRecordsDropped(t *testing.T) {
	input := strings.Join([]string{
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "SOLID",
		"10", "0", "20", "0",
		"0", "LINE",
		"8", "roads",
		"10", "1", "20", "2",
		"11", "3", "21", "4",
		"0", "ENDSEC",
		"0", "EOF",
	}, "\n")
	doc, err := Import(strings.NewReader(input), entity.NewFactory(&entity.Seq{Prefix: "in"}))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(doc.Entities) != 1 {
		t.Fatalf("unknown record not dropped, got %d entities", len(doc.Entities))
	}
	if doc.Entities[0].Common().Layer != "roads" {
		t.Fatalf("layer lost: %q", doc.Entities[0].Common().Layer)
	}
}

func TestImportDefaults(t *testing.T) {
	input := strings.Join([]string{
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "CIRCLE",
		"10", "5", "20", "5",
		"0", "ENDSEC",
		"0", "EOF",
	}, "\n")
	doc, err := Import(strings.NewReader(input), entity.NewFactory(&entity.Seq{Prefix: "in"}))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	c := doc.Entities[0].(*entity.Circle)
	if c.Radius != 1 {
		t.Fatalf("missing radius must default to 1, got %v", c.Radius)
	}
	if c.Layer != "0" {
		t.Fatalf("missing layer must default to 0, got %q", c.Layer)
	}
	if c.Style.Stroke != entity.ByLayer {
		t.Fatalf("missing color must default to by-layer, got %q", c.Style.Stroke)
	}
}

func TestImportUsesFactoryLayerAsFallback(t *testing.T) {
	input := strings.Join([]string{
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "POINT",
		"10", "1", "20", "2",
		"0", "ENDSEC",
	}, "\n")
	f := entity.NewFactory(&entity.Seq{Prefix: "in"})
	f.Layer = "survey"
	doc, err := Import(strings.NewReader(input), f)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if got := doc.Entities[0].Common().Layer; got != "survey" {
		t.Fatalf("layerless record must take the factory layer, got %q", got)
	}
}

func TestLWPolylineVertexParsing(t *testing.T) {
	input := strings.Join([]string{
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "LWPOLYLINE",
		"90", "3",
		"70", "1",
		"10", "0", "20", "0",
		"42", "0.5",
		"10", "10", "20", "0",
		"10", "10", "20", "8",
		"0", "ENDSEC",
	}, "\n")
	doc, err := Import(strings.NewReader(input), entity.NewFactory(&entity.Seq{Prefix: "in"}))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	p := doc.Entities[0].(*entity.Polyline)
	if len(p.Points) != 3 || !p.Closed {
		t.Fatalf("vertex parse failed: %+v", p)
	}
	if !near(p.Points[2].X, 10) || !near(p.Points[2].Y, 8) {
		t.Fatalf("last vertex wrong: %+v", p.Points[2])
	}
}

func TestEmptyInputYieldsEmptyDocument(t *testing.T) {
	doc, err := Import(strings.NewReader(""), entity.NewFactory(&entity.Seq{Prefix: "in"}))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(doc.Entities) != 0 {
		t.Fatalf("expected no entities")
	}
}

func TestColorApproximationIsLossyButStable(t *testing.T) {
	cases := []struct {
		hex  string
		aci  int
		back string
	}{
		{"#FF0000", 1, "#FF0000"},
		{"#FF3020", 1, "#FF0000"}, // collapses into the red bucket
		{"#FFFF00", 2, "#FFFF00"},
		{"#00FF00", 3, "#00FF00"},
		{"#00FFFF", 4, "#00FFFF"},
		{"#0000FF", 5, "#0000FF"},
		{"#FF00FF", 6, "#FF00FF"},
		{"#FFFFFF", 7, "#FFFFFF"},
		{"#000000", 7, "#FFFFFF"},
	}
	for _, c := range cases {
		if got := hexToACI(c.hex); got != c.aci {
			t.Fatalf("hexToACI(%s) = %d, want %d", c.hex, got, c.aci)
		}
		if got := hexFromACI(c.aci); got != c.back {
			t.Fatalf("hexFromACI(%d) = %s, want %s", c.aci, got, c.back)
		}
	}
	if hexFromACI(42) != "#FFFFFF" {
		t.Fatalf("out-of-table index must fall back to white")
	}
}

func TestExplicitColorRoundTrip(t *testing.T) {
	f := entity.NewFactory(&entity.Seq{Prefix: "e"})
	doc := entity.NewDocument("site")
	l := f.Line(geom.P(0, 0), geom.P(1, 0))
	l.Style.Stroke = "#FF3020"
	doc.Entities = append(doc.Entities, l)

	back := exportImport(t, doc)
	if got := back.Entities[0].Common().Style.Stroke; got != "#FF0000" {
		t.Fatalf("explicit color must collapse to the palette entry, got %q", got)
	}
}

func TestLayerTableEncodesVisibilityAndLock(t *testing.T) {
	doc := entity.NewDocument("site")
	doc.Layers = append(doc.Layers, entity.Layer{
		ID: "hidden", Name: "hidden", Color: "#FF0000", Visible: false, Locked: true,
	})
	out := string(Export(doc, Options{}))
	if !strings.Contains(out, "\nhidden\n") {
		t.Fatalf("layer entry missing")
	}
	if !strings.Contains(out, "\n-1\n") {
		t.Fatalf("hidden layer must carry a negated color index")
	}
}

func TestBlocksSectionListsDefinitions(t *testing.T) {
	f := entity.NewFactory(&entity.Seq{Prefix: "e"})
	doc := entity.NewDocument("site")
	doc.Blocks = append(doc.Blocks, &entity.BlockDef{
		ID: "b1", Name: "manhole", BasePoint: geom.P(0, 0),
		Entities: []entity.Entity{f.Circle(geom.P(0, 0), 1)},
	})
	out := string(Export(doc, Options{}))
	for _, want := range []string{"*Model_Space", "*Paper_Space", "manhole"} {
		if !strings.Contains(out, want) {
			t.Fatalf("blocks section missing %q", want)
		}
	}
}
