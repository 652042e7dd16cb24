/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package history

import (
	"fmt"
	"reflect"
	"testing"

	"civildraft/internal/entity"
	"civildraft/internal/geom"
	"civildraft/internal/transform"
)

func fixture() (*entity.Factory, []entity.Entity) {
	f := entity.NewFactory(&entity.Seq{Prefix: "e"})
	list := []entity.Entity{
		f.Line(geom.P(0, 0), geom.P(10, 0)),
		f.Circle(geom.P(5, 5), 2),
	}
	return f, list
}

func TestUndoRestoresStructuralEquality(t *testing.T) {
	_, list := fixture()
	ids := &entity.Seq{Prefix: "cmd"}

	moved := transform.Translate(list[0], 3, 4)
	cmd, err := Modify(ids, "move", list, moved)
	if err != nil {
		t.Fatalf("modify: %v", err)
	}

	h := New(0)
	after := h.Execute(cmd, list)
	if reflect.DeepEqual(after, list) {
		t.Fatalf("execute did not change the list")
	}
	if after[0].(*entity.Line).Start != (geom.P(3, 4)) {
		t.Fatalf("execute did not apply the edit: %+v", after[0])
	}

	restored, ok := h.Undo(after)
	if !ok {
		t.Fatalf("undo reported failure")
	}
	if !reflect.DeepEqual(restored, list) {
		t.Fatalf("undo did not restore the original list:\n got %+v\nwant %+v", restored, list)
	}

	redone, ok := h.Redo(restored)
	if !ok {
		t.Fatalf("redo reported failure")
	}
	if !reflect.DeepEqual(redone, after) {
		t.Fatalf("redo did not restore the post-command list")
	}
}

func TestEmptyStacksReportFalse(t *testing.T) {
	_, list := fixture()
	h := New(0)
	if out, ok := h.Undo(list); ok || !reflect.DeepEqual(out, list) {
		t.Fatalf("undo on empty stack must report false and leave the list alone")
	}
	if out, ok := h.Redo(list); ok || !reflect.DeepEqual(out, list) {
		t.Fatalf("redo on empty stack must report false and leave the list alone")
	}
}

func TestExecuteClearsRedo(t *testing.T) {
	f, list := fixture()
	ids := &entity.Seq{Prefix: "cmd"}
	h := New(0)

	cmd1, err := Modify(ids, "move", list, transform.Translate(list[0], 1, 0))
	if err != nil {
		t.Fatalf("modify: %v", err)
	}
	list = h.Execute(cmd1, list)
	list, _ = h.Undo(list)
	if !h.CanRedo() {
		t.Fatalf("expected a redoable command")
	}

	list = h.Execute(Create(ids, "draw", f.Point(geom.P(1, 1))), list)
	if h.CanRedo() {
		t.Fatalf("execute must clear the redo stack")
	}
}

func TestCapacityEvictsOldest(t *testing.T) {
	_, list := fixture()
	ids := &entity.Seq{Prefix: "cmd"}
	h := New(3)

	for i := 0; i < 5; i++ {
		cmd, err := Modify(ids, "move", list, transform.Translate(list[0], 1, 0))
		if err != nil {
			t.Fatalf("modify: %v", err)
		}
		list = h.Execute(cmd, list)
	}
	undone := 0
	for {
		var ok bool
		if list, ok = h.Undo(list); !ok {
			break
		}
		undone++
	}
	if undone != 3 {
		t.Fatalf("undid %d commands, want capacity 3", undone)
	}
}

func TestModifyUnknownIDIsError(t *testing.T) {
	f, list := fixture()
	ids := &entity.Seq{Prefix: "cmd"}
	ghost := f.Line(geom.P(0, 0), geom.P(1, 1))
	if _, err := Modify(ids, "move", list, ghost); err == nil {
		t.Fatalf("modify against an id missing from the list must fail")
	}
	if _, err := Delete(ids, "erase", list, "no-such-id"); err == nil {
		t.Fatalf("delete against a missing id must fail")
	}
}

func TestCreateAndDeleteRoundTrip(t *testing.T) {
	f, list := fixture()
	ids := &entity.Seq{Prefix: "cmd"}
	h := New(0)

	p := f.Point(geom.P(7, 7))
	list2 := h.Execute(Create(ids, "draw", p), list)
	if len(list2) != len(list)+1 {
		t.Fatalf("create did not append")
	}

	del, err := Delete(ids, "erase", list2, list2[0].Common().ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	list3 := h.Execute(del, list2)
	if len(list3) != len(list2)-1 {
		t.Fatalf("delete did not remove")
	}

	back, ok := h.Undo(list3)
	if !ok || !reflect.DeepEqual(back, list2) {
		t.Fatalf("undo of delete did not restore the entity at its position")
	}
}

func TestUndoDeleteRestoresListPosition(t *testing.T) {
	f := entity.NewFactory(&entity.Seq{Prefix: "e"})
	list := []entity.Entity{
		f.Line(geom.P(0, 0), geom.P(10, 0)),
		f.Circle(geom.P(5, 5), 2),
		f.Point(geom.P(7, 7)),
	}
	ids := &entity.Seq{Prefix: "cmd"}
	h := New(0)

	del, err := Delete(ids, "erase", list, list[0].Common().ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	shrunk := h.Execute(del, list)
	if len(shrunk) != 2 || shrunk[0].Kind() != entity.KindCircle {
		t.Fatalf("delete did not remove the first entity: %+v", shrunk)
	}

	restored, ok := h.Undo(shrunk)
	if !ok {
		t.Fatalf("undo reported failure")
	}
	if !reflect.DeepEqual(restored, list) {
		t.Fatalf("undo must reinsert at the original position:\n got %+v\nwant %+v", restored, list)
	}

	// the middle entity restores in place too
	del2, err := Delete(ids, "erase", list, list[1].Common().ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	shrunk = h.Execute(del2, list)
	restored, ok = h.Undo(shrunk)
	if !ok || !reflect.DeepEqual(restored, list) {
		t.Fatalf("middle deletion did not restore in place: %+v", restored)
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	_, list := fixture()
	ids := &entity.Seq{Prefix: "cmd"}
	h := New(0)

	moved := transform.Translate(list[0], 1, 1).(*entity.Line)
	cmd, err := Modify(ids, "move", list, moved)
	if err != nil {
		t.Fatalf("modify: %v", err)
	}
	out := h.Execute(cmd, list)

	// mutating the caller's copy after the fact must not leak into replay
	moved.Start = geom.P(99, 99)
	out, _ = h.Undo(out)
	out, _ = h.Redo(out)
	got := out[0].(*entity.Line).Start
	if got != (geom.P(1, 1)) {
		t.Fatalf("redo replayed a mutated snapshot: %v", got)
	}
}

func TestCommandMetadata(t *testing.T) {
	_, list := fixture()
	ids := &entity.Seq{Prefix: "cmd"}
	cmd, err := Modify(ids, "move", list, transform.Translate(list[0], 1, 0))
	if err != nil {
		t.Fatalf("modify: %v", err)
	}
	if cmd.ID == "" || cmd.Type != "move" || cmd.Timestamp.IsZero() {
		t.Fatalf("command metadata incomplete: %+v", cmd)
	}
	cmd.Payload = map[string]any{"dx": 1.0}
	if fmt.Sprint(cmd.Payload["dx"]) != "1" {
		t.Fatalf("payload must be opaque caller data")
	}
}
