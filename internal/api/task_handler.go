package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck/internal/api/shared"
	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/platform/logger"
	"github.com/taskdeck/taskdeck/internal/redact"
	"github.com/taskdeck/taskdeck/internal/store"
)

// TaskHandler serves the task surface (tasks, their comments, and their
// attachments) from local stores in standalone mode.
type TaskHandler struct {
	tasks    store.TaskStore
	comments store.CommentStore
	logger   *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks store.TaskStore, comments store.CommentStore, log *slog.Logger) *TaskHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		tasks:    tasks,
		comments: comments,
		logger:   log.With(slog.String("component", "task_handler")),
	}
}

// CreateTaskRequest represents the request body for creating a task.
type CreateTaskRequest struct {
	Name        string  `json:"name"        validate:"required,max=200"`
	Description string  `json:"description"`
	AssigneeID  *string `json:"assignee_id" validate:"omitempty,uuid"`
}

// UpdateTaskRequest represents the request body for updating a task.
type UpdateTaskRequest struct {
	Name        string  `json:"name"        validate:"required,max=200"`
	Description string  `json:"description"`
	Status      string  `json:"status"      validate:"required,oneof=todo inprogress done"`
	AssigneeID  *string `json:"assignee_id" validate:"omitempty,uuid"`
}

// CreateCommentRequest represents the request body for commenting on a task.
type CreateCommentRequest struct {
	AuthorID string `json:"author_id" validate:"required,uuid"`
	Body     string `json:"body"      validate:"required,max=10000"`
}

// ListTasks handles GET /tasks requests, optionally filtered with ?status=.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var filter *domain.TaskStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.TaskStatus(raw)
		if !status.IsValid() {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid status filter")
			return
		}
		filter = &status
	}

	tasks, err := h.tasks.List(r.Context(), filter)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("listed tasks", slog.Int("count", len(tasks)))
	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// CreateTask handles POST /tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Validation error", err)
		return
	}

	task, err := domain.NewTask(req.Name, req.Description)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid entity data", err)
		return
	}

	if req.AssigneeID != nil {
		assigneeID, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid assignee ID format")
			return
		}
		task.AssigneeID = &assigneeID
	}

	if err := h.tasks.Create(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("created task", slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// GetTask handles GET /tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.taskIDFromPath(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.GetByID(r.Context(), taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// UpdateTask handles PUT /tasks/{id} requests.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	taskID, ok := h.taskIDFromPath(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Validation error", err)
		return
	}

	task, err := h.tasks.GetByID(r.Context(), taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	task.Name = req.Name
	task.Description = req.Description
	task.Status = domain.TaskStatus(req.Status)
	task.AssigneeID = nil
	if req.AssigneeID != nil {
		assigneeID, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid assignee ID format")
			return
		}
		task.AssigneeID = &assigneeID
	}

	if err := h.tasks.Update(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("updated task",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/{id} requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.taskIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.tasks.Delete(r.Context(), taskID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListComments handles GET /tasks/{id}/comments requests.
func (h *TaskHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.taskIDFromPath(w, r)
	if !ok {
		return
	}

	comments, err := h.comments.ListByTask(r.Context(), taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, comments)
}

// CreateComment handles POST /tasks/{id}/comments requests.
func (h *TaskHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	taskID, ok := h.taskIDFromPath(w, r)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Validation error", err)
		return
	}

	authorID, err := uuid.Parse(req.AuthorID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid author ID format")
		return
	}

	comment, err := domain.NewComment(taskID, authorID, req.Body)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid entity data", err)
		return
	}

	if err := h.comments.Create(r.Context(), comment); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("created comment",
		slog.String("task_id", taskID.String()),
		slog.String("comment_id", comment.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, comment)
}

// UploadAttachment handles POST /tasks/{id}/attachments requests. Standalone
// mode has nowhere to keep file bytes, so the upload is parsed, validated,
// and acknowledged with its metadata only.
func (h *TaskHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	taskID, ok := h.taskIDFromPath(w, r)
	if !ok {
		return
	}

	if _, err := h.tasks.GetByID(r.Context(), taskID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing file upload")
		return
	}
	defer func() { _ = file.Close() }()

	attachment, err := domain.NewAttachment(taskID, header.Filename, header.Header.Get("Content-Type"), header.Size)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid entity data", err)
		return
	}

	log.Debug("accepted attachment",
		slog.String("task_id", taskID.String()),
		slog.String("file_name", attachment.FileName),
		slog.Int64("size", attachment.Size))
	shared.RespondWithJSON(w, r, http.StatusCreated, attachment)
}

// taskIDFromPath extracts and parses the {id} URL parameter, writing the
// error response itself when the ID is missing or malformed.
func (h *TaskHandler) taskIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Task ID is required")
		return uuid.Nil, false
	}

	taskID, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID format")
		return uuid.Nil, false
	}

	return taskID, true
}
