// Package taskservice coordinates the task ledger, rule store, and durable
// state store behind a single lock, preserving the single-writer discipline
// of the core.
package taskservice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/checksum"
	"github.com/starford/fehu/internal/classifier"
	"github.com/starford/fehu/internal/ledger"
	"github.com/starford/fehu/internal/models"
	"github.com/starford/fehu/internal/rules"
	"github.com/starford/fehu/internal/snapshot"
	"github.com/starford/fehu/internal/store"
	"github.com/starford/fehu/internal/textnorm"
)

// stateKey is the blob-store key the snapshot lives under.
const stateKey = "state"

// EventFunc is called after a successful state mutation. kind is one of
// "task.created", "task.updated", "task.deleted", "rules.learned",
// "rules.reset", "state.imported"; id is the task id when one applies.
type EventFunc func(kind, id string)

// Service owns the state aggregate. All mutation is routed through its
// methods; nothing else touches the ledger or rule store.
type Service struct {
	mu      sync.Mutex
	rules   *rules.Store
	ledger  *ledger.Ledger
	db      *store.DB
	notify  EventFunc
	lastSum string
}

// NewService builds a service and rehydrates state from the blob store.
// A missing blob starts empty; a corrupt blob is logged and discarded rather
// than blocking startup.
func NewService(db *store.DB, notify EventFunc) (*Service, error) {
	ruleStore := rules.NewStore()
	s := &Service{
		rules:  ruleStore,
		ledger: ledger.New(ruleStore),
		db:     db,
		notify: notify,
	}

	blob, err := db.Load(stateKey)
	if err != nil {
		return nil, fmt.Errorf("taskservice: rehydrate: %w", err)
	}
	if blob != nil {
		st, err := snapshot.Decode(blob)
		if err != nil {
			slog.Warn("stored state is unreadable, starting empty",
				slog.String("error", err.Error()))
		} else {
			s.ledger.Replace(st.Tasks)
			s.rules.Replace(st.CustomRules)
			s.lastSum = checksum.Sum(blob)
		}
	}
	return s, nil
}

// AddTask classifies title, applies overrides, appends the task, and
// persists. Empty or whitespace-only titles are rejected with no state
// change.
func (s *Service) AddTask(_ context.Context, title, notes string, ov ledger.Overrides) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.ledger.Add(title, notes, ov)
	if !ok {
		return nil, apperr.ErrEmptyTitle
	}
	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	s.publish("task.created", task.ID)
	return task, nil
}

// GetTask returns the task with the given id.
func (s *Service) GetTask(_ context.Context, id string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.ledger.Get(id)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return task, nil
}

// UpdateTask merges updates into the task and persists. Editing the sides
// marks the task manual but never learns.
func (s *Service) UpdateTask(_ context.Context, id string, u ledger.Updates) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.ledger.Update(id, u)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	s.publish("task.updated", task.ID)
	return task, nil
}

// DeleteTask removes the task with the given id. A missing id is a harmless
// miss: deleted reports whether anything changed.
func (s *Service) DeleteTask(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ledger.Delete(id) {
		return false, nil
	}
	if err := s.persistLocked(); err != nil {
		return true, err
	}
	s.publish("task.deleted", id)
	return true, nil
}

// ListTasks returns the tasks matching the filter in insertion order.
func (s *Service) ListTasks(_ context.Context, f ledger.Filter) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.List(f)
}

// Classify previews the classifier's verdict for text without mutating
// anything.
func (s *Service) Classify(_ context.Context, text string) models.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return classifier.Classify(text, s.rules)
}

// LearnRule records a confirmed classification and persists.
func (s *Service) LearnRule(_ context.Context, title string, energy models.EnergySide, money models.MoneySide) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if textnorm.Normalize(title) == "" {
		return apperr.ErrEmptyTitle
	}
	s.rules.Learn(title, energy, money)
	if err := s.persistLocked(); err != nil {
		return err
	}
	s.publish("rules.learned", "")
	return nil
}

// Rules returns a copy of all learned rules.
func (s *Service) Rules(_ context.Context) map[string]models.CustomRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rules.Snapshot()
}

// ResetRules clears every learned rule and persists.
func (s *Service) ResetRules(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rules.Reset()
	if err := s.persistLocked(); err != nil {
		return err
	}
	s.publish("rules.reset", "")
	return nil
}

// ExportState serializes the current state as the versioned document.
func (s *Service) ExportState(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot.Encode(s.ledger.Tasks(), s.rules.Snapshot())
}

// ImportState replaces tasks and rules wholesale from an export document.
// It fails closed: a document that does not decode leaves prior state
// untouched.
func (s *Service) ImportState(_ context.Context, blob []byte) error {
	st, err := snapshot.Decode(blob)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.Replace(st.Tasks)
	s.rules.Replace(st.CustomRules)
	if err := s.persistLocked(); err != nil {
		return err
	}
	s.publish("state.imported", "")
	return nil
}

// persistLocked snapshots the state into the blob store. Callers hold s.mu.
// A byte-identical snapshot is skipped.
func (s *Service) persistLocked() error {
	blob, err := snapshot.Encode(s.ledger.Tasks(), s.rules.Snapshot())
	if err != nil {
		return err
	}
	sum := checksum.Sum(blob)
	if sum == s.lastSum {
		return nil
	}
	if err := s.db.Save(stateKey, blob); err != nil {
		return err
	}
	s.lastSum = sum
	return nil
}

func (s *Service) publish(kind, id string) {
	if s.notify != nil {
		s.notify(kind, id)
	}
}
