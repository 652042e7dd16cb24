/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"civildraft/internal/config"
	"civildraft/internal/crash"
	"civildraft/internal/dxf"
	"civildraft/internal/entity"
	"civildraft/internal/geom"
	"civildraft/internal/history"
	applog "civildraft/internal/log"
	"civildraft/internal/snap"
	"civildraft/internal/transform"
	"civildraft/internal/version"
)

func usage() {
	fmt.Println("CivilDraft — 2-D drafting kernel")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  civildraft version|-v|--version                Show version")
	fmt.Println("  civildraft inspect <file.dxf>                   Import a drawing and print a summary")
	fmt.Println("  civildraft convert <in.dxf> <out.dxf>           Round-trip a drawing through the codec")
	fmt.Println("  civildraft snap <file.dxf> <x> <y>              Print the best snap point near a cursor")
	fmt.Println("  civildraft move <in.dxf> <id> <dx> <dy> <out>   Translate one entity as an undoable edit")
}

func main() {
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		cfg = config.Defaults()
	}
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", cfgErr))
	}
	var drawing string
	defer func() { crash.Recover(drawing) }()

	factory := entity.NewFactory(nil)
	if cfg.Drawing.DefaultLayer != "" {
		factory.Layer = cfg.Drawing.DefaultLayer
	}

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("CivilDraft — 2-D drafting kernel")
			fmt.Println(version.String())
			return
		case "inspect":
			if len(args) < 3 {
				fmt.Println("inspect requires <file.dxf>")
				usage()
				os.Exit(2)
			}
			drawing, _ = filepath.Abs(args[2])
			l.Info("inspect drawing", slog.String("path", drawing))
			doc, err := importFile(drawing, factory)
			if err != nil {
				l.Error("inspect failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			printSummary(doc)
			return
		case "convert":
			if len(args) < 4 {
				fmt.Println("convert requires <in.dxf> and <out.dxf>")
				usage()
				os.Exit(2)
			}
			drawing, _ = filepath.Abs(args[2])
			out, _ := filepath.Abs(args[3])
			l.Info("convert drawing", slog.String("in", drawing), slog.String("out", out))
			doc, err := importFile(drawing, factory)
			if err != nil {
				l.Error("import failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			if err := writeFile(out, doc, cfg); err != nil {
				l.Error("write failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("Wrote %d entities to %s\n", len(doc.Entities), out)
			return
		case "snap":
			if len(args) < 5 {
				fmt.Println("snap requires <file.dxf> <x> <y>")
				usage()
				os.Exit(2)
			}
			drawing, _ = filepath.Abs(args[2])
			cursor, err := parsePoint(args[3], args[4])
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(2)
			}
			doc, err := importFile(drawing, factory)
			if err != nil {
				l.Error("import failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			settings := snap.SettingsFromConfig(cfg.Snap)
			candidates := snap.Candidates(doc.Entities, cursor, settings)
			best, ok := snap.Nearest(pointsOf(candidates), cursor, settings.Radius)
			if !ok {
				fmt.Printf("No snap point within %.3f of (%.3f, %.3f)\n", settings.Radius, cursor.X, cursor.Y)
				return
			}
			fmt.Printf("Snap: (%.3f, %.3f) from %d candidates\n", best.X, best.Y, len(candidates))
			return
		case "move":
			if len(args) < 7 {
				fmt.Println("move requires <in.dxf> <id> <dx> <dy> <out.dxf>")
				usage()
				os.Exit(2)
			}
			drawing, _ = filepath.Abs(args[2])
			id := args[3]
			delta, err := parsePoint(args[4], args[5])
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(2)
			}
			out, _ := filepath.Abs(args[6])
			doc, err := importFile(drawing, factory)
			if err != nil {
				l.Error("import failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			target, ok := doc.Entity(id)
			if !ok {
				fmt.Printf("Error: no entity with id %q\n", id)
				os.Exit(1)
			}
			h := history.New(cfg.Drawing.HistoryDepth)
			cmd, err := history.Modify(factory.IDs, "move", doc.Entities, transform.Translate(target, delta.X, delta.Y))
			if err != nil {
				l.Error("move failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			doc.Entities = h.Execute(cmd, doc.Entities)
			l.Info("moved entity", slog.String("id", id), slog.Float64("dx", delta.X), slog.Float64("dy", delta.Y))
			if err := writeFile(out, doc, cfg); err != nil {
				l.Error("write failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("Moved %s by (%.3f, %.3f), wrote %s\n", id, delta.X, delta.Y, out)
			return
		}
	}

	usage()
}

func importFile(path string, factory *entity.Factory) (*entity.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open drawing: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			applog.WithComponent("cli").Error("failed to close drawing", slog.Any("err", err))
		}
	}()
	doc, err := dxf.Import(f, factory)
	if err != nil {
		return nil, fmt.Errorf("import drawing: %w", err)
	}
	return doc, nil
}

func writeFile(path string, doc *entity.Document, cfg config.AppConfig) error {
	data := dxf.Export(doc, dxf.Options{Precision: cfg.Codec.Precision})
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write drawing: %w", err)
	}
	return nil
}

func parsePoint(xs, ys string) (geom.Point, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("bad coordinate %q: %w", xs, err)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("bad coordinate %q: %w", ys, err)
	}
	return geom.Point{X: x, Y: y}, nil
}

func pointsOf(candidates []snap.Point) []geom.Point {
	out := make([]geom.Point, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.P)
	}
	return out
}

func printSummary(doc *entity.Document) {
	fmt.Printf("Entities: %d\n", len(doc.Entities))
	counts := map[entity.Kind]int{}
	for _, e := range doc.Entities {
		counts[e.Kind()]++
	}
	for kind, n := range counts {
		fmt.Printf("  %s: %d\n", kind, n)
	}
	if ext, ok := doc.Extents(); ok {
		fmt.Printf("Extents: (%.3f, %.3f) to (%.3f, %.3f)\n", ext.MinX, ext.MinY, ext.MaxX, ext.MaxY)
	}
}
