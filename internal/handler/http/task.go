package http

import (
	"log/slog"
	"net/http"

	"github.com/rakmedia/hr-backend-go/internal/domain/task"
	"github.com/rakmedia/hr-backend-go/internal/handler/http/response"
)

type TaskHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Patch(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	ListManagerTasks(w http.ResponseWriter, r *http.Request)
	CreateManagerTask(w http.ResponseWriter, r *http.Request)

	ListFiles(w http.ResponseWriter, r *http.Request)
	UploadFile(w http.ResponseWriter, r *http.Request)
	DeleteFile(w http.ResponseWriter, r *http.Request)
}

type taskHandlerImpl struct {
	taskService task.TaskService
}

func NewTaskHandler(taskService task.TaskService) TaskHandler {
	return &taskHandlerImpl{taskService: taskService}
}

// List handles GET /tasks
func (h *taskHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.taskService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Create handles POST /tasks
func (h *taskHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req task.CreateTaskRequest
	if !decodeJSON(w, r, &req, "Create task") {
		return
	}

	result, err := h.taskService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Task created successfully", result)
}

// Get handles GET /tasks/{taskID}
func (h *taskHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "taskID")
	if !ok {
		return
	}

	result, err := h.taskService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Update handles PUT /tasks/{taskID}
func (h *taskHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// Patch handles PATCH /tasks/{taskID}
func (h *taskHandlerImpl) Patch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *taskHandlerImpl) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := pathID(w, r, "taskID")
	if !ok {
		return
	}

	var req task.UpdateTaskRequest
	if !decodeJSON(w, r, &req, "Update task") {
		return
	}

	result, err := h.taskService.Update(r.Context(), id, req, partial)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Task updated successfully", result)
}

// Delete handles DELETE /tasks/{taskID}
func (h *taskHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "taskID")
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.NoContent(w)
}

// ListManagerTasks handles GET /manager-tasks
func (h *taskHandlerImpl) ListManagerTasks(w http.ResponseWriter, r *http.Request) {
	result, err := h.taskService.ListAssignedByMe(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// CreateManagerTask handles POST /manager-tasks
func (h *taskHandlerImpl) CreateManagerTask(w http.ResponseWriter, r *http.Request) {
	var req task.CreateTaskRequest
	if !decodeJSON(w, r, &req, "Create manager task") {
		return
	}

	result, err := h.taskService.CreateAsManager(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Task created successfully", result)
}

// ListFiles handles GET /tasks/{taskID}/files
func (h *taskHandlerImpl) ListFiles(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "taskID")
	if !ok {
		return
	}

	result, err := h.taskService.ListFiles(r.Context(), taskID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// UploadFile handles POST /tasks/{taskID}/upload-file
func (h *taskHandlerImpl) UploadFile(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "taskID")
	if !ok {
		return
	}

	// Parse multipart form (max 32MB in memory)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	req := task.UploadTaskFileRequest{
		TaskID:      taskID,
		Description: r.FormValue("description"),
	}
	file, fileHeader, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		req.File = file
		req.FileHeader = fileHeader
	case err != http.ErrMissingFile:
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}

	result, err := h.taskService.UploadFile(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "File uploaded successfully", result)
}

// DeleteFile handles DELETE /tasks/{taskID}/files/{fileID}
func (h *taskHandlerImpl) DeleteFile(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "taskID")
	if !ok {
		return
	}
	fileID, ok := pathID(w, r, "fileID")
	if !ok {
		return
	}

	if err := h.taskService.DeleteFile(r.Context(), taskID, fileID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.NoContent(w)
}
