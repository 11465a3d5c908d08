package profile

import "testing"

func TestCharacterSelectionToggle(t *testing.T) {
	t.Parallel()

	var s CharacterSelection
	s = s.Toggle("c1").Toggle("c2")
	if !s.Has("c1") || !s.Has("c2") {
		t.Fatalf("selection = %v", s)
	}
	s = s.Toggle("c1")
	if s.Has("c1") || len(s) != 1 {
		t.Fatalf("selection after untoggle = %v", s)
	}
}

func TestTaskProgressToggles(t *testing.T) {
	t.Parallel()

	var p TaskProgress
	p = p.ToggleTask("t1", "r1")
	if !p.TaskFinished("t1") {
		t.Fatal("first toggle should finish the task")
	}
	p = p.ToggleTask("t1", "r2")
	if p.TaskFinished("t1") || p[0].RegionID != "r2" {
		t.Fatalf("second toggle = %+v", p)
	}

	p = p.TogglePart("t2", "chest", "r1")
	if !p.PartFinished("t2", "chest") || p.TaskFinished("t2") {
		t.Fatalf("part toggle = %+v", p)
	}
	before := p
	p = p.TogglePart("t2", "chest", "r1")
	if p.PartFinished("t2", "chest") {
		t.Fatal("second part toggle should unfinish")
	}
	if !before.PartFinished("t2", "chest") {
		t.Fatal("toggle mutated previous progress")
	}
	p = p.TogglePart("t2", "boss", "r1")
	if !p.PartFinished("t2", "boss") || p.PartFinished("t2", "chest") {
		t.Fatalf("parts = %+v", p)
	}
	if p.PartFinished("nope", "boss") {
		t.Fatal("unknown task part should be unfinished")
	}
}
