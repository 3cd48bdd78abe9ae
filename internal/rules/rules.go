// Package rules holds the learned classifications: a mapping from normalized
// task titles to user-confirmed energy/money verdicts.
package rules

import (
	"github.com/starford/fehu/internal/models"
	"github.com/starford/fehu/internal/textnorm"
)

// Store maps normalized titles to learned rules. It is not safe for
// concurrent use; the owning service serializes access.
type Store struct {
	entries map[string]models.CustomRule
}

// NewStore creates an empty rule store.
func NewStore() *Store {
	return &Store{entries: make(map[string]models.CustomRule)}
}

// Learn records a confirmed classification for title. Repeat confirmations of
// the same normalized title increment the observation count; the stored sides
// are last-write-wins, not a majority vote.
func (s *Store) Learn(title string, energy models.EnergySide, money models.MoneySide) {
	key := textnorm.Normalize(title)
	if key == "" {
		return
	}
	rule := models.CustomRule{EnergySide: energy, MoneySide: money, Count: 1}
	if existing, ok := s.entries[key]; ok {
		rule.Count = existing.Count + 1
	}
	s.entries[key] = rule
}

// Lookup returns the rule for an already-normalized key.
func (s *Store) Lookup(key string) (models.CustomRule, bool) {
	rule, ok := s.entries[key]
	return rule, ok
}

// Keys returns every rule key. Order is unspecified.
func (s *Store) Keys() []string {
	out := make([]string, 0, len(s.entries))
	for k := range s.entries {
		out = append(out, k)
	}
	return out
}

// Len returns the number of learned rules.
func (s *Store) Len() int {
	return len(s.entries)
}

// Snapshot returns a copy of all entries for export.
func (s *Store) Snapshot() map[string]models.CustomRule {
	out := make(map[string]models.CustomRule, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Replace swaps the full rule set wholesale, as happens on import. A nil map
// leaves the store empty.
func (s *Store) Replace(entries map[string]models.CustomRule) {
	s.entries = make(map[string]models.CustomRule, len(entries))
	for k, v := range entries {
		s.entries[k] = v
	}
}

// Reset removes every learned rule. Irreversible; confirmation is the
// caller's concern.
func (s *Store) Reset() {
	s.entries = make(map[string]models.CustomRule)
}
