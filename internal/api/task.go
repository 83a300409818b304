package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/cache"
	"github.com/taskhive/taskhive/internal/realtime"
	"github.com/taskhive/taskhive/internal/task"
)

const defaultListLimit = 100

// taskHandler serves the /api/tasks endpoints.
type taskHandler struct {
	store  TaskStore
	cache  *cache.Cache
	hub    *realtime.Hub
	logger *slog.Logger
}

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    string     `json:"priority"`
	Tags        []string   `json:"tags"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Completed   *bool      `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *string    `json:"priority"`
	Tags        []string   `json:"tags"`
}

type reorderRequest struct {
	TaskIDs []uuid.UUID `json:"task_ids"`
}

type taskListResponse struct {
	Tasks  []task.Task `json:"tasks"`
	Total  int64       `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// list returns one page of the user's tasks, cache-aside when Redis is
// configured.
func (h *taskHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	limit, err := queryInt(r, "limit", defaultListLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	if payload, hit := h.cache.GetTaskList(r.Context(), userID, limit, offset); hit {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "hit")
		w.WriteHeader(http.StatusOK)
		w.Write(payload)
		return
	}

	tasks, total, err := h.store.List(r.Context(), userID, limit, offset)
	if err != nil {
		h.writeTaskError(w, err)
		return
	}

	resp := taskListResponse{Tasks: tasks, Total: total, Limit: limit, Offset: offset}
	if payload, err := json.Marshal(resp); err == nil {
		h.cache.SetTaskList(r.Context(), userID, limit, offset, payload)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *taskHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	var req createTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	created, err := h.store.Create(r.Context(), userID, task.CreateParams{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    task.Priority(req.Priority),
		Tags:        req.Tags,
	})
	if err != nil {
		h.writeTaskError(w, err)
		return
	}

	h.cache.InvalidateUser(r.Context(), userID)
	h.hub.Broadcast(r.Context(), userID, realtime.Event{Type: realtime.EventCreated, Task: &created})
	writeJSON(w, http.StatusCreated, created)
}

func (h *taskHandler) get(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	found, err := h.store.Get(r.Context(), userID, taskID)
	if err != nil {
		h.writeTaskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (h *taskHandler) update(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	var priority *task.Priority
	if req.Priority != nil {
		p := task.Priority(*req.Priority)
		priority = &p
	}

	updated, err := h.store.Update(r.Context(), userID, taskID, task.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
		Priority:    priority,
		Tags:        req.Tags,
	})
	if err != nil {
		h.writeTaskError(w, err)
		return
	}

	h.cache.InvalidateUser(r.Context(), userID)
	h.hub.Broadcast(r.Context(), userID, realtime.Event{Type: realtime.EventUpdated, Task: &updated})
	writeJSON(w, http.StatusOK, updated)
}

func (h *taskHandler) delete(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), userID, taskID); err != nil {
		h.writeTaskError(w, err)
		return
	}

	h.cache.InvalidateUser(r.Context(), userID)
	h.hub.Broadcast(r.Context(), userID, realtime.Event{Type: realtime.EventDeleted, TaskID: &taskID})
	w.WriteHeader(http.StatusNoContent)
}

// reorder renumbers the given tasks to match the request order exactly,
// first ID becoming position 1.
func (h *taskHandler) reorder(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	var req reorderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	if err := h.store.Reorder(r.Context(), userID, req.TaskIDs); err != nil {
		h.writeTaskError(w, err)
		return
	}

	h.cache.InvalidateUser(r.Context(), userID)
	h.hub.Broadcast(r.Context(), userID, realtime.Event{Type: realtime.EventReordered})
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "count": len(req.TaskIDs)})
}

// requestIDs extracts the authenticated user and the {id} path value.
func (h *taskHandler) requestIDs(w http.ResponseWriter, r *http.Request) (userID, taskID uuid.UUID, ok bool) {
	userID, ok = userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	taskID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid task ID")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, taskID, true
}

// writeTaskError maps store errors onto HTTP status codes.
func (h *taskHandler) writeTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, task.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "task not found")
	case errors.Is(err, task.ErrEmptyTitle),
		errors.Is(err, task.ErrInvalidPriority),
		errors.Is(err, task.ErrEmptyReorder),
		errors.Is(err, task.ErrDuplicateID),
		errors.Is(err, task.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	default:
		h.logger.Error("task operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("invalid " + name + " parameter")
	}
	return n, nil
}
