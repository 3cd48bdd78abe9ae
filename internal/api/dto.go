package api

import "github.com/starford/fehu/internal/models"

// CreateTaskRequest is the request body for creating a task. Energy and
// Money, when present, override the classifier's suggestion for that axis.
type CreateTaskRequest struct {
	Title  string `json:"title" example:"File taxes" validate:"required"`
	Notes  string `json:"notes" example:"before the deadline"`
	Energy string `json:"energy" example:"takes" enums:"gives,takes"`
	Money  string `json:"money" example:"takes" enums:"makes,takes"`
}

// UpdateTaskRequest is the request body for a partial task edit. Nil/empty
// fields are left unchanged.
type UpdateTaskRequest struct {
	Title  *string `json:"title"`
	Notes  *string `json:"notes"`
	Energy string  `json:"energy" enums:"gives,takes"`
	Money  string  `json:"money" enums:"makes,takes"`
}

// ClassifyRequest asks for a classification preview without creating a task.
type ClassifyRequest struct {
	Text string `json:"text" example:"go to gym" validate:"required"`
}

// LearnRuleRequest records a confirmed classification for a title.
type LearnRuleRequest struct {
	Title  string `json:"title" validate:"required"`
	Energy string `json:"energy" enums:"gives,takes" validate:"required"`
	Money  string `json:"money" enums:"makes,takes" validate:"required"`
}

// TaskResponse is a task plus its derived quadrant. The quadrant is computed
// on the wire and never stored.
type TaskResponse struct {
	models.Task
	Quadrant models.Quadrant `json:"quadrant"`
}

func toTaskResponse(t models.Task) TaskResponse {
	return TaskResponse{Task: t, Quadrant: t.Quadrant()}
}

// TaskListResponse wraps a filtered task listing.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks" validate:"required"`
	Total int            `json:"total" example:"4" validate:"required"`
}

// RuleListResponse wraps the learned rules.
type RuleListResponse struct {
	Rules map[string]models.CustomRule `json:"rules" validate:"required"`
	Total int                          `json:"total" example:"2" validate:"required"`
}
