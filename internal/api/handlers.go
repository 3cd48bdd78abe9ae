package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/ledger"
	"github.com/starford/fehu/internal/models"
	"github.com/starford/fehu/internal/taskservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *taskservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *taskservice.Service) *Handler {
	return &Handler{svc: svc}
}

func parseEnergy(v string) (*models.EnergySide, error) {
	switch v {
	case "":
		return nil, nil
	case string(models.EnergyGives), string(models.EnergyTakes):
		side := models.EnergySide(v)
		return &side, nil
	default:
		return nil, fmt.Errorf("energy must be %q or %q", models.EnergyGives, models.EnergyTakes)
	}
}

func parseMoney(v string) (*models.MoneySide, error) {
	switch v {
	case "":
		return nil, nil
	case string(models.MoneyMakes), string(models.MoneyTakes):
		side := models.MoneySide(v)
		return &side, nil
	default:
		return nil, fmt.Errorf("money must be %q or %q", models.MoneyMakes, models.MoneyTakes)
	}
}

func parseFilter(r *http.Request) (ledger.Filter, error) {
	q := r.URL.Query()
	f := ledger.NewFilter()
	f.Query = q.Get("q")

	if v := q.Get("quadrant"); v != "" {
		switch models.Quadrant(v) {
		case models.QuadrantProtect, models.QuadrantPrioritize,
			models.QuadrantDelete, models.QuadrantDelegate:
			f.Quadrant = models.Quadrant(v)
		default:
			return f, fmt.Errorf("unknown quadrant %q", v)
		}
	}
	if v := q.Get("energy"); v != "" {
		side, err := parseEnergy(v)
		if err != nil {
			return f, err
		}
		f.Energy = *side
	}
	if v := q.Get("money"); v != "" {
		side, err := parseMoney(v)
		if err != nil {
			return f, err
		}
		f.Money = *side
	}
	return f, nil
}

// ListTasks handles GET /api/tasks.
//
//	@Summary		List tasks with optional quadrant/axis filters and search
//	@Tags			tasks
//	@Produce		json
//	@Param			quadrant	query		string	false	"Quadrant filter"	Enums(PROTECT, PRIORITIZE, DELETE, DELEGATE)
//	@Param			energy		query		string	false	"Energy filter"		Enums(gives, takes)
//	@Param			money		query		string	false	"Money filter"		Enums(makes, takes)
//	@Param			q			query		string	false	"Substring search over title and notes"
//	@Success		200			{object}	TaskListResponse
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tasks [get]
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	tasks := h.svc.ListTasks(r.Context(), f)
	items := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		items[i] = toTaskResponse(t)
	}
	writeJSON(w, http.StatusOK, TaskListResponse{Tasks: items, Total: len(items)})
}

// GetTask handles GET /api/tasks/{id}.
//
//	@Summary		Get a single task by id
//	@Tags			tasks
//	@Produce		json
//	@Param			id	path		string	true	"Task id"
//	@Success		200	{object}	TaskResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tasks/{id} [get]
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	task, err := h.svc.GetTask(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get task failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(*task))
}

// CreateTask handles POST /api/tasks.
//
//	@Summary		Create a task (classification runs first; overrides teach the classifier)
//	@Tags			tasks
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateTaskRequest	true	"Task to create"
//	@Success		201		{object}	TaskResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tasks [post]
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	energy, err := parseEnergy(req.Energy)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	money, err := parseMoney(req.Money)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	task, err := h.svc.AddTask(r.Context(), req.Title, req.Notes, ledger.Overrides{Energy: energy, Money: money})
	if err != nil {
		if errors.Is(err, apperr.ErrEmptyTitle) {
			writeJSON(w, http.StatusBadRequest, errorBody("title is required"))
		} else {
			slog.Error("create task failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, toTaskResponse(*task))
}

// UpdateTask handles PATCH /api/tasks/{id}.
//
//	@Summary		Partially update a task; side edits mark it manual but never learn
//	@Tags			tasks
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Task id"
//	@Param			body	body		UpdateTaskRequest	true	"Fields to change"
//	@Success		200		{object}	TaskResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tasks/{id} [patch]
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id := chi.URLParam(r, "id")

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	energy, err := parseEnergy(req.Energy)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	money, err := parseMoney(req.Money)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	task, err := h.svc.UpdateTask(r.Context(), id, ledger.Updates{
		Title:  req.Title,
		Notes:  req.Notes,
		Energy: energy,
		Money:  money,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("update task failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(*task))
}

// DeleteTask handles DELETE /api/tasks/{id}. Deleting an unknown id is a
// harmless miss and still answers 204.
//
//	@Summary		Delete a task
//	@Tags			tasks
//	@Param			id	path	string	true	"Task id"
//	@Success		204	"Task deleted (or id was already gone)"
//	@Security		BearerAuth
//	@Router			/tasks/{id} [delete]
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.svc.DeleteTask(r.Context(), id); err != nil {
		slog.Error("delete task failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Classify handles POST /api/classify.
//
//	@Summary		Preview the classifier's verdict for a text without creating a task
//	@Tags			classify
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ClassifyRequest	true	"Text to classify"
//	@Success		200		{object}	models.Suggestion
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/classify [post]
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Classify(r.Context(), req.Text))
}

// ListRules handles GET /api/rules.
//
//	@Summary		List learned rules
//	@Tags			rules
//	@Produce		json
//	@Success		200	{object}	RuleListResponse
//	@Security		BearerAuth
//	@Router			/rules [get]
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	rulesMap := h.svc.Rules(r.Context())
	writeJSON(w, http.StatusOK, RuleListResponse{Rules: rulesMap, Total: len(rulesMap)})
}

// LearnRule handles POST /api/rules.
//
//	@Summary		Record a confirmed classification for a title
//	@Tags			rules
//	@Accept			json
//	@Param			body	body	LearnRuleRequest	true	"Rule to learn"
//	@Success		204		"Rule learned"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/rules [post]
func (h *Handler) LearnRule(w http.ResponseWriter, r *http.Request) {
	var req LearnRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	energy, err := parseEnergy(req.Energy)
	if err != nil || energy == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("energy is required"))
		return
	}
	money, err := parseMoney(req.Money)
	if err != nil || money == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("money is required"))
		return
	}
	if err := h.svc.LearnRule(r.Context(), req.Title, *energy, *money); err != nil {
		if errors.Is(err, apperr.ErrEmptyTitle) {
			writeJSON(w, http.StatusBadRequest, errorBody("title is required"))
		} else {
			slog.Error("learn rule failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetRules handles DELETE /api/rules.
//
//	@Summary		Clear every learned rule
//	@Tags			rules
//	@Success		204	"Rules cleared"
//	@Security		BearerAuth
//	@Router			/rules [delete]
func (h *Handler) ResetRules(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ResetRules(r.Context()); err != nil {
		slog.Error("reset rules failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/export.
//
//	@Summary		Export the full state as the versioned document
//	@Tags			state
//	@Produce		json
//	@Success		200	{object}	snapshot.State
//	@Security		BearerAuth
//	@Router			/export [get]
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	blob, err := h.svc.ExportState(r.Context())
	if err != nil {
		slog.Error("export failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="fehu-export.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob)
}

// Import handles POST /api/import. The body is the raw export document;
// import replaces prior state wholesale and fails closed on a bad document.
//
//	@Summary		Import a state document, replacing tasks and rules wholesale
//	@Tags			state
//	@Accept			json
//	@Success		204	"State imported"
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/import [post]
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	if err := h.svc.ImportState(r.Context(), blob); err != nil {
		if errors.Is(err, apperr.ErrBadSnapshot) {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid state document"))
		} else {
			slog.Error("import failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
