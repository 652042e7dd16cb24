/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package history provides a bounded undo/redo stack over entity edits.
// Commands carry value snapshots of the touched entities, so undo and redo
// are pure functions of stored state and stay valid even if the caller
// reorganizes its entity storage between edits.
package history

import (
	"fmt"
	"time"

	"civildraft/internal/entity"
)

// DefaultLimit is the undo-stack capacity when none is given.
const DefaultLimit = 100

// Change records one entity's before and after snapshot. A nil Before marks
// a creation, a nil After a deletion. Index is the entity's position in the
// pre-command list, so undoing a deletion restores it in place; -1 marks a
// creation, which has no prior position.
type Change struct {
	ID     string
	Index  int
	Before entity.Entity
	After  entity.Entity
}

// Command is one undoable edit: the snapshots needed to move the entity list
// between its pre- and post-edit states, in either direction.
type Command struct {
	ID        string
	Type      string
	Timestamp time.Time
	Payload   map[string]any
	Changes   []Change
}

func newCommand(ids entity.IDSource, typ string) *Command {
	return &Command{ID: ids.NextID(), Type: typ, Timestamp: time.Now()}
}

func findByID(list []entity.Entity, id string) (entity.Entity, int) {
	for i, e := range list {
		if e.Common().ID == id {
			return e, i
		}
	}
	return nil, -1
}

// Modify builds a command replacing existing entities with the given
// after-states. Every after entity must share its id with an entity in list;
// a missing id is a hard failure since it signals a caller indexing bug.
func Modify(ids entity.IDSource, typ string, list []entity.Entity, after ...entity.Entity) (*Command, error) {
	cmd := newCommand(ids, typ)
	for _, a := range after {
		id := a.Common().ID
		before, idx := findByID(list, id)
		if before == nil {
			return nil, fmt.Errorf("history: modify references unknown entity %q", id)
		}
		cmd.Changes = append(cmd.Changes, Change{ID: id, Index: idx, Before: before.Clone(), After: a.Clone()})
	}
	return cmd, nil
}

// Create builds a command adding new entities to the list.
func Create(ids entity.IDSource, typ string, created ...entity.Entity) *Command {
	cmd := newCommand(ids, typ)
	for _, e := range created {
		cmd.Changes = append(cmd.Changes, Change{ID: e.Common().ID, Index: -1, After: e.Clone()})
	}
	return cmd
}

// Delete builds a command removing entities by id. A missing id is a hard
// failure, as for Modify.
func Delete(ids entity.IDSource, typ string, list []entity.Entity, removed ...string) (*Command, error) {
	cmd := newCommand(ids, typ)
	for _, id := range removed {
		before, idx := findByID(list, id)
		if before == nil {
			return nil, fmt.Errorf("history: delete references unknown entity %q", id)
		}
		cmd.Changes = append(cmd.Changes, Change{ID: id, Index: idx, Before: before.Clone()})
	}
	return cmd, nil
}

// apply produces a new entity list with the command's changes applied in the
// given direction. The input list is not mutated; replacement keeps list
// position, creations append, and an undone deletion reinserts the snapshot
// at its recorded pre-command index.
func (c *Command) apply(list []entity.Entity, forward bool) []entity.Entity {
	out := make([]entity.Entity, 0, len(list)+len(c.Changes))
	out = append(out, list...)
	for _, ch := range c.Changes {
		target := ch.After
		if !forward {
			target = ch.Before
		}
		_, idx := findByID(out, ch.ID)
		switch {
		case target == nil && idx >= 0:
			out = append(out[:idx], out[idx+1:]...)
		case target != nil && idx >= 0:
			out[idx] = target.Clone()
		case target != nil:
			at := ch.Index
			if at < 0 || at > len(out) {
				at = len(out)
			}
			out = append(out, nil)
			copy(out[at+1:], out[at:])
			out[at] = target.Clone()
		}
	}
	return out
}

// History is a bounded LIFO undo stack with a companion redo stack. It is
// not safe for concurrent use; callers serialize their own dispatch.
type History struct {
	limit int
	undo  []*Command
	redo  []*Command
}

// New returns a history with the given undo capacity; limit <= 0 selects
// DefaultLimit.
func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{limit: limit}
}

// Execute applies the command's forward edit to list, pushes it on the undo
// stack and clears the redo stack. When the stack is full the oldest entry
// is evicted.
func (h *History) Execute(cmd *Command, list []entity.Entity) []entity.Entity {
	out := cmd.apply(list, true)
	h.undo = append(h.undo, cmd)
	if len(h.undo) > h.limit {
		h.undo = h.undo[1:]
	}
	h.redo = h.redo[:0]
	return out
}

// Undo reverts the most recent command. It reports false, with the list
// unchanged, when the undo stack is empty.
func (h *History) Undo(list []entity.Entity) ([]entity.Entity, bool) {
	if len(h.undo) == 0 {
		return list, false
	}
	cmd := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, cmd)
	return cmd.apply(list, false), true
}

// Redo re-applies the most recently undone command. It reports false, with
// the list unchanged, when the redo stack is empty.
func (h *History) Redo(list []entity.Entity) ([]entity.Entity, bool) {
	if len(h.redo) == 0 {
		return list, false
	}
	cmd := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, cmd)
	return cmd.apply(list, true), true
}

// CanUndo reports whether an undoable command is on the stack.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether an undone command can be re-applied.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }
