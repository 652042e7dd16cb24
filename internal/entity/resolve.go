/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package entity

import "sort"

// EffectiveColor resolves the stroke color of an entity. Explicit colors win;
// the ByBlock sentinel defers to the enclosing block instance's context color
// and ByLayer to the owning layer, which is also the final fallback.
// blockColor is empty outside any block context.
func EffectiveColor(e Entity, layers Table, blockColor string) string {
	s := e.Common().Style.Stroke
	switch s {
	case ByBlock:
		if blockColor != "" && blockColor != ByBlock && blockColor != ByLayer {
			return blockColor
		}
	case ByLayer, "":
	default:
		return s
	}
	return layers.Get(e.Common().Layer).Color
}

// IsVisible reports whether the entity should be painted: its own flag and
// the layer's visibility/non-frozen state must all hold.
func IsVisible(e Entity, layers Table) bool {
	if !e.Common().Visible {
		return false
	}
	l := layers.Get(e.Common().Layer)
	return l.Visible && !l.Frozen
}

// IsSelectable additionally requires both the entity and layer locks open.
func IsSelectable(e Entity, layers Table) bool {
	if !IsVisible(e, layers) {
		return false
	}
	if e.Common().Locked {
		return false
	}
	return !layers.Get(e.Common().Layer).Locked
}

// SortForRender returns the entities ordered by their layer's paint order.
// The sort is stable so entities on the same layer keep insertion order.
func SortForRender(entities []Entity, layers Table) []Entity {
	out := append([]Entity(nil), entities...)
	sort.SliceStable(out, func(i, j int) bool {
		return layers.Get(out[i].Common().Layer).Order < layers.Get(out[j].Common().Layer).Order
	})
	return out
}
