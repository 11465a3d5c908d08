// Package profile holds a user's own offline state: which characters they
// own and how far they are through the task tracker.
package profile

// CharacterSelection is the set of owned character ids, in selection order.
type CharacterSelection []string

// Has reports whether id is selected.
func (s CharacterSelection) Has(id string) bool {
	for _, selected := range s {
		if selected == id {
			return true
		}
	}
	return false
}

// Toggle adds id when missing and removes it otherwise.
func (s CharacterSelection) Toggle(id string) CharacterSelection {
	out := make(CharacterSelection, 0, len(s)+1)
	found := false
	for _, selected := range s {
		if selected == id {
			found = true
			continue
		}
		out = append(out, selected)
	}
	if !found {
		out = append(out, id)
	}
	return out
}

// Part is a finishable sub-step of a task.
type Part struct {
	Name     string `json:"name"`
	Finished bool   `json:"finished"`
}

// Task is the user's progress on one tracker task.
type Task struct {
	ID       string `json:"id"`
	RegionID string `json:"regionId"`
	Finished bool   `json:"finished,omitempty"`
	Parts    []Part `json:"parts,omitempty"`
}

// TaskProgress is the user's progress across tasks.
type TaskProgress []Task

// ToggleTask flips a task's finished flag, recording it as finished the
// first time it is seen.
func (p TaskProgress) ToggleTask(taskID, regionID string) TaskProgress {
	out := p.clone()
	for i := range out {
		if out[i].ID == taskID {
			out[i].Finished = !out[i].Finished
			out[i].RegionID = regionID
			return out
		}
	}
	return append(out, Task{ID: taskID, RegionID: regionID, Finished: true})
}

// TogglePart flips one part of a task, recording it as finished the first
// time it is seen.
func (p TaskProgress) TogglePart(taskID, partName, regionID string) TaskProgress {
	out := p.clone()
	for i := range out {
		if out[i].ID != taskID {
			continue
		}
		out[i].RegionID = regionID
		for j := range out[i].Parts {
			if out[i].Parts[j].Name == partName {
				out[i].Parts[j].Finished = !out[i].Parts[j].Finished
				return out
			}
		}
		out[i].Parts = append(out[i].Parts, Part{Name: partName, Finished: true})
		return out
	}
	return append(out, Task{ID: taskID, RegionID: regionID, Parts: []Part{{Name: partName, Finished: true}}})
}

// TaskFinished reports whether the task is finished.
func (p TaskProgress) TaskFinished(taskID string) bool {
	for _, task := range p {
		if task.ID == taskID {
			return task.Finished
		}
	}
	return false
}

// PartFinished reports whether a task part is finished.
func (p TaskProgress) PartFinished(taskID, partName string) bool {
	for _, task := range p {
		if task.ID != taskID {
			continue
		}
		for _, part := range task.Parts {
			if part.Name == partName {
				return part.Finished
			}
		}
	}
	return false
}

func (p TaskProgress) clone() TaskProgress {
	out := make(TaskProgress, len(p))
	for i, task := range p {
		out[i] = task
		out[i].Parts = append([]Part(nil), task.Parts...)
	}
	return out
}
