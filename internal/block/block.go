/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package block manages named reusable entity groups and their insertion.
// An insert carries a materialized transformed copy of the definition's
// entities; the copy is a derived projection of (definition, parameters) and
// is regenerated wholesale on every parameter change, never patched.
package block

import (
	"fmt"

	"civildraft/internal/entity"
	"civildraft/internal/geom"
	"civildraft/internal/transform"
)

// Registry indexes block definitions by name.
type Registry struct {
	defs map[string]*entity.BlockDef
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*entity.BlockDef)}
}

// Add registers a definition. Redefining an existing name is an error;
// callers must remove the old definition first.
func (r *Registry) Add(def *entity.BlockDef) error {
	if def == nil || def.Name == "" {
		return fmt.Errorf("block definition requires a name")
	}
	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("block %q already defined", def.Name)
	}
	r.defs[def.Name] = def
	return nil
}

// Lookup resolves a definition by name. An unknown name is a hard failure:
// it signals a caller indexing bug, unlike a dangling layer reference.
func (r *Registry) Lookup(name string) (*entity.BlockDef, error) {
	def, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("unknown block %q", name)
	}
	return def, nil
}

// Names returns the registered block names.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.defs))
	for n := range r.defs {
		out = append(out, n)
	}
	return out
}

// Materialize produces the transformed copy of the definition's entities for
// one insertion: translate to origin relative to the base point, scale
// uniformly, rotate, then translate to the insertion position. Per-kind rules
// (text height scaling, summed rotations) live in the transform package.
// Every copy gets fresh ids from ids.
func Materialize(def *entity.BlockDef, ids entity.IDSource, pos geom.Point, scale, rotation float64) []entity.Entity {
	if scale == 0 {
		scale = 1
	}
	out := make([]entity.Entity, 0, len(def.Entities))
	for _, src := range def.Entities {
		e := transform.Translate(src, -def.BasePoint.X, -def.BasePoint.Y)
		e = transform.Scale(e, geom.Point{}, scale)
		e = transform.Rotate(e, geom.Point{}, rotation)
		e = transform.Translate(e, pos.X, pos.Y)
		e.Common().ID = ids.NextID()
		out = append(out, e)
	}
	return out
}

// NewInsert creates a block-instance entity over a registered definition.
func NewInsert(f *entity.Factory, reg *Registry, name string, pos geom.Point, scale, rotation float64) (*entity.Insert, error) {
	def, err := reg.Lookup(name)
	if err != nil {
		return nil, err
	}
	if scale == 0 {
		scale = 1
	}
	ins := &entity.Insert{
		Base:     entity.Base{ID: f.IDs.NextID(), Layer: f.Layer, Visible: true, Style: entity.DefaultStyle()},
		Block:    name,
		Pos:      pos,
		Scale:    scale,
		Rotation: rotation,
	}
	ins.Entities = Materialize(def, f.IDs, pos, scale, rotation)
	return ins, nil
}

// Reinsert returns a copy of the insert with updated parameters and a fully
// regenerated materialized copy.
func Reinsert(reg *Registry, ids entity.IDSource, ins *entity.Insert, pos geom.Point, scale, rotation float64) (*entity.Insert, error) {
	def, err := reg.Lookup(ins.Block)
	if err != nil {
		return nil, err
	}
	if scale == 0 {
		scale = 1
	}
	out := ins.Clone().(*entity.Insert)
	out.Pos = pos
	out.Scale = scale
	out.Rotation = rotation
	out.Entities = Materialize(def, ids, pos, scale, rotation)
	return out, nil
}
