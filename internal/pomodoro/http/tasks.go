package http

import (
	"net/http"

	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/domain"
	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/service"
	"github.com/aussiebroadwan/pomodoro/pkg/httpx"
	"github.com/aussiebroadwan/pomodoro/pkg/pomodorosdk"
)

type TasksHandler struct {
	TaskService *service.TaskService
}

func toTask(t domain.Task) pomodorosdk.Task {
	return pomodorosdk.Task{
		ID:          t.ID,
		Description: t.Description,
		Status:      pomodorosdk.TaskStatus(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// HandleList returns the caller's tasks.
//
//	@Summary	List tasks
//	@Tags		Tasks
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}		pomodorosdk.Task
//	@Failure	401	{object}	pomodorosdk.ErrorResponse
//	@Failure	403	{object}	pomodorosdk.ErrorResponse
//	@Router		/tasks [get].
func (h *TasksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	tasks, err := h.TaskService.List(r.Context(), id.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]pomodorosdk.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTask(t))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreate adds a task.
//
//	@Summary	Create task
//	@Tags		Tasks
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		pomodorosdk.CreateTaskRequest	true	"Task"
//	@Success	201		{object}	pomodorosdk.Task
//	@Failure	400		{object}	pomodorosdk.ErrorResponse	"Missing fields or invalid status"
//	@Failure	401		{object}	pomodorosdk.ErrorResponse
//	@Failure	403		{object}	pomodorosdk.ErrorResponse
//	@Router		/tasks [post].
func (h *TasksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var req pomodorosdk.CreateTaskRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		writeBadRequest(w, err)
		return
	}

	t, err := h.TaskService.Create(r.Context(), id.UserID, req.Description, domain.TaskStatus(req.Status))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toTask(t))
}

// HandleUpdateStatus moves a task to another column.
//
//	@Summary	Update task status
//	@Tags		Tasks
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	plain
//	@Param		id		path		string								true	"Task ID"
//	@Param		request	body		pomodorosdk.UpdateTaskStatusRequest	true	"New status"
//	@Success	200		{string}	string								"Task updated"
//	@Failure	400		{object}	pomodorosdk.ErrorResponse			"Missing or invalid status"
//	@Failure	404		{object}	pomodorosdk.ErrorResponse			"Task not found"
//	@Router		/tasks/{id} [patch].
func (h *TasksHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var req pomodorosdk.UpdateTaskStatusRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		writeBadRequest(w, err)
		return
	}

	err := h.TaskService.UpdateStatus(r.Context(), r.PathValue("id"), id.UserID, domain.TaskStatus(req.Status))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteText(w, http.StatusOK, "Task updated")
}

// HandleDelete removes a task.
//
//	@Summary	Delete task
//	@Tags		Tasks
//	@Security	BearerAuth
//	@Produce	plain
//	@Param		id	path		string						true	"Task ID"
//	@Success	200	{string}	string						"Task deleted"
//	@Failure	404	{object}	pomodorosdk.ErrorResponse	"Task not found"
//	@Router		/tasks/{id} [delete].
func (h *TasksHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	if err := h.TaskService.Delete(r.Context(), r.PathValue("id"), id.UserID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteText(w, http.StatusOK, "Task deleted")
}
