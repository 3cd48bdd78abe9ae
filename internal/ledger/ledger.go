// Package ledger holds the ordered task collection and orchestrates
// classification, manual-override detection, and learning.
package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starford/fehu/internal/classifier"
	"github.com/starford/fehu/internal/models"
	"github.com/starford/fehu/internal/rules"
)

// Overrides carries the user's per-axis corrections to a classification.
// A nil field means "accept the suggestion for this axis".
type Overrides struct {
	Energy *models.EnergySide
	Money  *models.MoneySide
}

// Updates carries a partial task edit. Nil fields are left unchanged.
type Updates struct {
	Title  *string
	Notes  *string
	Energy *models.EnergySide
	Money  *models.MoneySide
}

// Ledger owns the ordered task list and the rule store it learns into.
// Not safe for concurrent use; the owning service serializes access.
type Ledger struct {
	tasks []models.Task
	rules *rules.Store

	now   func() int64
	newID func() string
}

// New creates an empty ledger learning into store.
func New(store *rules.Store) *Ledger {
	return &Ledger{
		rules: store,
		now:   func() int64 { return time.Now().UnixMilli() },
		newID: func() string { return uuid.NewString() },
	}
}

// Add classifies title, applies any overrides, and appends the task.
// When a supplied override disagrees with the suggestion on its axis the task
// is marked manual and exactly one learn event fires for the final pair.
// Empty or whitespace-only titles are rejected with no state change.
func (l *Ledger) Add(title, notes string, ov Overrides) (*models.Task, bool) {
	if strings.TrimSpace(title) == "" {
		return nil, false
	}

	suggestion := classifier.Classify(title, l.rules)

	energy := suggestion.SuggestedEnergy
	if ov.Energy != nil {
		energy = *ov.Energy
	}
	money := suggestion.SuggestedMoney
	if ov.Money != nil {
		money = *ov.Money
	}

	// Manual iff a supplied override differs from what was suggested for that
	// axis. Overrides that merely confirm the suggestion do not count.
	manual := (ov.Energy != nil && *ov.Energy != suggestion.SuggestedEnergy) ||
		(ov.Money != nil && *ov.Money != suggestion.SuggestedMoney)

	source := models.SourceSuggested
	switch {
	case manual:
		source = models.SourceManual
	case suggestion.UsedLearnedRule:
		source = models.SourceLearned
	}

	now := l.now()
	snap := suggestion
	task := models.Task{
		ID:          l.newID(),
		Title:       title,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
		EnergySide:  energy,
		MoneySide:   money,
		EnergyScore: suggestion.EnergyScoreRaw,
		MoneyScore:  suggestion.MoneyScoreRaw,
		Source:      source,
		Suggestion:  &snap,
	}
	l.tasks = append(l.tasks, task)

	if manual {
		l.rules.Learn(title, energy, money)
	}

	return &task, true
}

// Update merges updates into the task with the given id and refreshes
// UpdatedAt. Direct energy/money edits force source to manual. Editing never
// triggers learning. An unknown id is a harmless miss.
func (l *Ledger) Update(id string, u Updates) (*models.Task, bool) {
	for i := range l.tasks {
		if l.tasks[i].ID != id {
			continue
		}
		t := &l.tasks[i]
		if u.Title != nil {
			t.Title = *u.Title
		}
		if u.Notes != nil {
			t.Notes = *u.Notes
		}
		if u.Energy != nil {
			t.EnergySide = *u.Energy
			t.Source = models.SourceManual
		}
		if u.Money != nil {
			t.MoneySide = *u.Money
			t.Source = models.SourceManual
		}
		t.UpdatedAt = l.now()
		out := *t
		return &out, true
	}
	return nil, false
}

// Delete removes the task with the given id. Deleting a missing id is a
// no-op.
func (l *Ledger) Delete(id string) bool {
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns a copy of the task with the given id.
func (l *Ledger) Get(id string) (*models.Task, bool) {
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			out := l.tasks[i]
			return &out, true
		}
	}
	return nil, false
}

// Tasks returns a copy of all tasks in insertion order.
func (l *Ledger) Tasks() []models.Task {
	out := make([]models.Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Replace swaps the full task list wholesale, as happens on import.
func (l *Ledger) Replace(tasks []models.Task) {
	l.tasks = make([]models.Task, len(tasks))
	copy(l.tasks, tasks)
}

// Len returns the number of tasks.
func (l *Ledger) Len() int {
	return len(l.tasks)
}
