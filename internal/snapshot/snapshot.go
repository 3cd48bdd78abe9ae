// Package snapshot serializes the full application state to and from the
// versioned export document.
package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/models"
)

// FormatVersion is stamped into every export.
const FormatVersion = 1

// State is the persisted unit: the full task list plus the learned rules.
type State struct {
	Tasks       []models.Task                `json:"tasks"`
	CustomRules map[string]models.CustomRule `json:"customRules"`
	Version     int                          `json:"version"`
}

// Encode serializes tasks and rules into the versioned export document.
func Encode(tasks []models.Task, customRules map[string]models.CustomRule) ([]byte, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	if customRules == nil {
		customRules = map[string]models.CustomRule{}
	}
	st := State{Tasks: tasks, CustomRules: customRules, Version: FormatVersion}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode: %w", err)
	}
	return data, nil
}

// Decode parses an export document. It fails closed: the document must parse
// and must hold a JSON array under "tasks", otherwise ErrBadSnapshot is
// returned and the caller keeps its prior state. Missing customRules default
// to an empty store. Import is all-or-nothing.
func Decode(data []byte) (*State, error) {
	var raw struct {
		Tasks       json.RawMessage              `json:"tasks"`
		CustomRules map[string]models.CustomRule `json:"customRules"`
		Version     int                          `json:"version"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("snapshot: %w: %v", apperr.ErrBadSnapshot, err)
	}
	if len(raw.Tasks) == 0 {
		return nil, fmt.Errorf("snapshot: %w: missing tasks", apperr.ErrBadSnapshot)
	}
	var tasks []models.Task
	if err := json.Unmarshal(raw.Tasks, &tasks); err != nil {
		return nil, fmt.Errorf("snapshot: %w: tasks is not an array", apperr.ErrBadSnapshot)
	}
	if tasks == nil {
		return nil, fmt.Errorf("snapshot: %w: tasks is not an array", apperr.ErrBadSnapshot)
	}
	rulesMap := raw.CustomRules
	if rulesMap == nil {
		rulesMap = map[string]models.CustomRule{}
	}
	return &State{Tasks: tasks, CustomRules: rulesMap, Version: raw.Version}, nil
}
