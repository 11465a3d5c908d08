package catalog

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/theater.planner/internal/platform/errors"
)

// minTaskNameLength is the shortest accepted task name.
const minTaskNameLength = 2

// Region groups tracker tasks.
type Region struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Validate checks the region name.
func (r Region) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apperrors.New(apperrors.CodeNameEmpty, "region name is required")
	}
	return nil
}

// TaskPart is one quest of a task series.
type TaskPart struct {
	Name string `json:"name"`
}

// Task is an admin-authored tracker entry. Only series tasks carry parts.
type Task struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	RegionID    string     `json:"regionId"`
	Achievement string     `json:"achievement,omitempty"`
	VideoLink   string     `json:"youtubeLink,omitempty"`
	Series      bool       `json:"taskSeries"`
	Parts       []TaskPart `json:"parts"`
}

// Normalize trims text fields and drops parts from non-series tasks.
func (t Task) Normalize() Task {
	t.ID = strings.TrimSpace(t.ID)
	t.Name = strings.TrimSpace(t.Name)
	t.RegionID = strings.TrimSpace(t.RegionID)
	t.Achievement = strings.TrimSpace(t.Achievement)
	t.VideoLink = strings.TrimSpace(t.VideoLink)
	parts := make([]TaskPart, 0, len(t.Parts))
	if t.Series {
		for _, part := range t.Parts {
			parts = append(parts, TaskPart{Name: strings.TrimSpace(part.Name)})
		}
	}
	t.Parts = parts
	return t
}

// Validate checks name, region and part names of a normalized task.
func (t Task) Validate() error {
	if len([]rune(t.Name)) < minTaskNameLength {
		return apperrors.WithMetadata(apperrors.CodeNameEmpty,
			fmt.Sprintf("task name must have at least %d characters", minTaskNameLength),
			map[string]string{"name": t.Name})
	}
	if t.RegionID == "" {
		return apperrors.New(apperrors.CodeRegionNotFound, "task region is required")
	}
	seen := make(map[string]struct{}, len(t.Parts))
	for _, part := range t.Parts {
		if part.Name == "" {
			return apperrors.New(apperrors.CodeInvalidRequest, "task part name is required")
		}
		if _, dup := seen[part.Name]; dup {
			return apperrors.WithMetadata(apperrors.CodeInvalidRequest,
				fmt.Sprintf("duplicate task part %q", part.Name),
				map[string]string{"part": part.Name})
		}
		seen[part.Name] = struct{}{}
	}
	return nil
}

// HasPart reports whether the task lists a part named name.
func (t Task) HasPart(name string) bool {
	for _, part := range t.Parts {
		if part.Name == name {
			return true
		}
	}
	return false
}
