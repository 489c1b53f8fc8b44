package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rakmedia/hr-backend-go/internal/domain/access"
	"github.com/rakmedia/hr-backend-go/internal/domain/employee"
	"github.com/rakmedia/hr-backend-go/internal/domain/task"
	"github.com/rakmedia/hr-backend-go/internal/domain/user"
	"github.com/rakmedia/hr-backend-go/internal/pkg/cache"
	"github.com/rakmedia/hr-backend-go/internal/pkg/validator"
	"github.com/rakmedia/hr-backend-go/internal/service/file"
)

type TaskServiceImpl struct {
	taskRepo     task.TaskRepository
	taskFileRepo task.TaskFileRepository
	employeeRepo employee.EmployeeRepository
	resolver     access.Resolver
	fileService  file.FileService
	invalidator  cache.Invalidator
}

func NewTaskService(
	taskRepo task.TaskRepository,
	taskFileRepo task.TaskFileRepository,
	employeeRepo employee.EmployeeRepository,
	resolver access.Resolver,
	fileService file.FileService,
	invalidator cache.Invalidator,
) task.TaskService {
	return &TaskServiceImpl{
		taskRepo:     taskRepo,
		taskFileRepo: taskFileRepo,
		employeeRepo: employeeRepo,
		resolver:     resolver,
		fileService:  fileService,
		invalidator:  invalidator,
	}
}

func (s *TaskServiceImpl) mapFile(f task.TaskFile) task.TaskFileResponse {
	uploader := task.UnknownUploader
	if f.UploaderName != nil {
		uploader = *f.UploaderName
	}
	return task.TaskFileResponse{
		ID:             f.ID,
		File:           s.fileService.URL(f.File),
		Description:    f.Description,
		UploadedAt:     f.UploadedAt,
		UploadedByName: uploader,
	}
}

func mapTask(t task.Task, files []task.TaskFileResponse) task.TaskResponse {
	var due *string
	if t.DueDate != nil {
		d := t.DueDate.Format(time.DateOnly)
		due = &d
	}
	if files == nil {
		files = []task.TaskFileResponse{}
	}
	return task.TaskResponse{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Files:          files,
		AssignedTo:     t.AssignedTo,
		AssignedToName: t.AssignedToName,
		AssignedBy:     t.AssignedBy,
		AssignedByName: t.AssignedByName,
		DueDate:        due,
		Completed:      t.Completed,
		CreatedAt:      t.CreatedAt,
	}
}

// withFiles loads the attachments of every task in one query.
func (s *TaskServiceImpl) withFiles(ctx context.Context, tasks []task.Task) ([]task.TaskResponse, error) {
	resp := make([]task.TaskResponse, 0, len(tasks))
	if len(tasks) == 0 {
		return resp, nil
	}

	ids := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	files, err := s.taskFileRepo.ListByTasks(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list task files: %w", err)
	}

	byTask := make(map[int64][]task.TaskFileResponse, len(tasks))
	for _, f := range files {
		byTask[f.TaskID] = append(byTask[f.TaskID], s.mapFile(f))
	}
	for _, t := range tasks {
		resp = append(resp, mapTask(t, byTask[t.ID]))
	}
	return resp, nil
}

func (s *TaskServiceImpl) one(ctx context.Context, t task.Task) (task.TaskResponse, error) {
	resp, err := s.withFiles(ctx, []task.Task{t})
	if err != nil {
		return task.TaskResponse{}, err
	}
	return resp[0], nil
}

func canAccess(subject access.Subject, t task.Task) bool {
	if subject.IsAdmin() {
		return true
	}
	return subject.HasEmployee() && t.Involves(subject.EmployeeID)
}

func canAssign(subject access.Subject, assignee int64) bool {
	return assignee == subject.EmployeeID || subject.IsAdmin() || subject.Can(user.PermissionTaskAssignOthers)
}

// List implements task.TaskService. Staff see every task, everyone else
// the tasks assigned to them.
func (s *TaskServiceImpl) List(ctx context.Context) ([]task.TaskResponse, error) {
	subject, err := s.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	var filter task.ListFilter
	switch {
	case subject.IsAdmin():
	case subject.HasEmployee():
		filter.AssignedTo = &subject.EmployeeID
	default:
		return []task.TaskResponse{}, nil
	}

	tasks, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return s.withFiles(ctx, tasks)
}

// ListAssignedByMe implements task.TaskService.
func (s *TaskServiceImpl) ListAssignedByMe(ctx context.Context) ([]task.TaskResponse, error) {
	subject, err := s.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if !subject.HasEmployee() {
		return []task.TaskResponse{}, nil
	}

	tasks, err := s.taskRepo.List(ctx, task.ListFilter{AssignedBy: &subject.EmployeeID})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return s.withFiles(ctx, tasks)
}

// Create implements task.TaskService.
func (s *TaskServiceImpl) Create(ctx context.Context, req task.CreateTaskRequest) (task.TaskResponse, error) {
	subject, err := s.resolver.Resolve(ctx)
	if err != nil {
		return task.TaskResponse{}, err
	}
	return s.create(ctx, subject, req)
}

// CreateAsManager implements task.TaskService.
func (s *TaskServiceImpl) CreateAsManager(ctx context.Context, req task.CreateTaskRequest) (task.TaskResponse, error) {
	subject, err := s.resolver.Resolve(ctx)
	if err != nil {
		return task.TaskResponse{}, err
	}
	if !subject.IsManagerTier() {
		return task.TaskResponse{}, user.ErrManagerAccessRequired
	}
	return s.create(ctx, subject, req)
}

func (s *TaskServiceImpl) create(ctx context.Context, subject access.Subject, req task.CreateTaskRequest) (task.TaskResponse, error) {
	if !subject.HasEmployee() {
		return task.TaskResponse{}, employee.ErrEmployeeNotFound
	}
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}
	if !canAssign(subject, *req.AssignedTo) {
		return task.TaskResponse{}, task.ErrAssignOthersDenied
	}
	if err := s.checkAssignee(ctx, *req.AssignedTo); err != nil {
		return task.TaskResponse{}, err
	}

	assignedBy := subject.EmployeeID
	created, err := s.taskRepo.Create(ctx, task.Task{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		AssignedTo:  *req.AssignedTo,
		AssignedBy:  &assignedBy,
		DueDate:     task.ParseDueDate(req.DueDate),
		Completed:   req.Completed,
	})
	if err != nil {
		return task.TaskResponse{}, assigneeError(err, *req.AssignedTo)
	}

	slog.InfoContext(ctx, "task created", "task_id", created.ID, "assigned_to", created.AssignedTo, "assigned_by", assignedBy)
	s.invalidator.Invalidate(ctx, cache.ModelTask)
	return mapTask(created, nil), nil
}

func (s *TaskServiceImpl) checkAssignee(ctx context.Context, id int64) error {
	if _, err := s.employeeRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return invalidAssignee(id)
		}
		return fmt.Errorf("failed to get assignee: %w", err)
	}
	return nil
}

func invalidAssignee(id int64) error {
	var errs validator.ValidationErrors
	errs.Add("assigned_to", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
	return errs
}

// assigneeError covers an assignee deleted between the check and the write.
func assigneeError(err error, id int64) error {
	if errors.Is(err, task.ErrAssigneeNotFound) {
		return invalidAssignee(id)
	}
	return err
}

// authorized loads a task the caller may act on.
func (s *TaskServiceImpl) authorized(ctx context.Context, id int64) (access.Subject, task.Task, error) {
	subject, err := s.resolver.Resolve(ctx)
	if err != nil {
		return access.Subject{}, task.Task{}, err
	}
	t, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return access.Subject{}, task.Task{}, err
	}
	if !canAccess(subject, t) {
		return access.Subject{}, task.Task{}, task.ErrTaskAccessDenied
	}
	return subject, t, nil
}

// Get implements task.TaskService.
func (s *TaskServiceImpl) Get(ctx context.Context, id int64) (task.TaskResponse, error) {
	_, t, err := s.authorized(ctx, id)
	if err != nil {
		return task.TaskResponse{}, err
	}
	return s.one(ctx, t)
}

// Update implements task.TaskService.
func (s *TaskServiceImpl) Update(ctx context.Context, id int64, req task.UpdateTaskRequest, partial bool) (task.TaskResponse, error) {
	if err := req.Validate(partial); err != nil {
		return task.TaskResponse{}, err
	}
	subject, t, err := s.authorized(ctx, id)
	if err != nil {
		return task.TaskResponse{}, err
	}

	if req.AssignedTo != nil && *req.AssignedTo != t.AssignedTo {
		if !canAssign(subject, *req.AssignedTo) {
			return task.TaskResponse{}, task.ErrAssignOthersDenied
		}
		if err := s.checkAssignee(ctx, *req.AssignedTo); err != nil {
			return task.TaskResponse{}, err
		}
		t.AssignedTo = *req.AssignedTo
	}
	if req.Title != nil {
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.DueDate != nil {
		t.DueDate = task.ParseDueDate(req.DueDate)
	}
	if req.Completed != nil {
		t.Completed = *req.Completed
	}

	updated, err := s.taskRepo.Update(ctx, t)
	if err != nil {
		return task.TaskResponse{}, assigneeError(err, t.AssignedTo)
	}

	s.invalidator.Invalidate(ctx, cache.ModelTask)
	return s.one(ctx, updated)
}

// Delete implements task.TaskService. Attachments go with the task.
func (s *TaskServiceImpl) Delete(ctx context.Context, id int64) error {
	_, t, err := s.authorized(ctx, id)
	if err != nil {
		return err
	}

	files, err := s.taskFileRepo.ListByTask(ctx, t.ID)
	if err != nil {
		return fmt.Errorf("failed to list task files: %w", err)
	}
	if err := s.taskRepo.Delete(ctx, t.ID); err != nil {
		return err
	}
	for _, f := range files {
		if err := s.fileService.DeleteFile(ctx, f.File); err != nil {
			slog.WarnContext(ctx, "failed to delete task file", "task_id", t.ID, "path", f.File, "error", err)
		}
	}

	s.invalidator.Invalidate(ctx, cache.ModelTask)
	if len(files) > 0 {
		s.invalidator.Invalidate(ctx, cache.ModelTaskFile)
	}
	return nil
}

// ListFiles implements task.TaskService.
func (s *TaskServiceImpl) ListFiles(ctx context.Context, taskID int64) ([]task.TaskFileResponse, error) {
	if _, _, err := s.authorized(ctx, taskID); err != nil {
		return nil, err
	}

	files, err := s.taskFileRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list task files: %w", err)
	}

	resp := make([]task.TaskFileResponse, 0, len(files))
	for _, f := range files {
		resp = append(resp, s.mapFile(f))
	}
	return resp, nil
}

// UploadFile implements task.TaskService.
func (s *TaskServiceImpl) UploadFile(ctx context.Context, req task.UploadTaskFileRequest) (task.TaskFileResponse, error) {
	if err := req.Validate(); err != nil {
		return task.TaskFileResponse{}, err
	}
	subject, _, err := s.authorized(ctx, req.TaskID)
	if err != nil {
		return task.TaskFileResponse{}, err
	}
	if !subject.HasEmployee() {
		return task.TaskFileResponse{}, employee.ErrEmployeeNotFound
	}

	path, err := s.fileService.UploadTaskFile(ctx, req.TaskID, req.File, req.FileHeader.Filename)
	if err != nil {
		return task.TaskFileResponse{}, err
	}

	uploader := subject.EmployeeID
	created, err := s.taskFileRepo.Create(ctx, task.TaskFile{
		TaskID:      req.TaskID,
		UploadedBy:  &uploader,
		File:        path,
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		if delErr := s.fileService.DeleteFile(ctx, path); delErr != nil {
			slog.WarnContext(ctx, "failed to remove orphaned task file", "path", path, "error", delErr)
		}
		return task.TaskFileResponse{}, err
	}

	s.invalidator.Invalidate(ctx, cache.ModelTaskFile)
	return s.mapFile(created), nil
}

// DeleteFile implements task.TaskService. The uploader and manager-tier
// employees may remove a file.
func (s *TaskServiceImpl) DeleteFile(ctx context.Context, taskID, fileID int64) error {
	subject, err := s.resolver.Resolve(ctx)
	if err != nil {
		return err
	}
	if !subject.HasEmployee() {
		return employee.ErrEmployeeNotFound
	}

	f, err := s.taskFileRepo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if f.TaskID != taskID {
		return task.ErrTaskFileNotFound
	}

	isUploader := f.UploadedBy != nil && *f.UploadedBy == subject.EmployeeID
	if !isUploader && !subject.Can(user.PermissionTaskFileDeleteAny) {
		return task.ErrTaskFileDeleteDenied
	}

	if err := s.taskFileRepo.Delete(ctx, f.ID); err != nil {
		return err
	}
	if err := s.fileService.DeleteFile(ctx, f.File); err != nil {
		slog.WarnContext(ctx, "failed to delete stored task file", "file_id", f.ID, "path", f.File, "error", err)
	}

	s.invalidator.Invalidate(ctx, cache.ModelTaskFile)
	return nil
}
