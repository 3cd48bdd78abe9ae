package ledger

import (
	"strings"

	"github.com/starford/fehu/internal/models"
)

// Filter axis sentinels. Each filter axis is a closed set: the ALL sentinel
// or one of the axis values.
const (
	QuadrantAll models.Quadrant   = "ALL"
	EnergyAll   models.EnergySide = "ALL"
	MoneyAll    models.MoneySide  = "ALL"
)

// Filter narrows a task listing. The zero value matches nothing useful;
// construct with NewFilter to get the ALL sentinels.
type Filter struct {
	Quadrant models.Quadrant
	Energy   models.EnergySide
	Money    models.MoneySide
	Query    string
}

// NewFilter returns a filter that matches every task.
func NewFilter() Filter {
	return Filter{Quadrant: QuadrantAll, Energy: EnergyAll, Money: MoneyAll}
}

func (f Filter) matches(t *models.Task) bool {
	if f.Quadrant != QuadrantAll && t.Quadrant() != f.Quadrant {
		return false
	}
	if f.Energy != EnergyAll && t.EnergySide != f.Energy {
		return false
	}
	if f.Money != MoneyAll && t.MoneySide != f.Money {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Notes), q) {
			return false
		}
	}
	return true
}

// List returns the tasks matching f, in insertion order.
func (l *Ledger) List(f Filter) []models.Task {
	out := []models.Task{}
	for i := range l.tasks {
		if f.matches(&l.tasks[i]) {
			out = append(out, l.tasks[i])
		}
	}
	return out
}
