package task

import "context"

type TaskService interface {
	List(ctx context.Context) ([]TaskResponse, error)
	ListAssignedByMe(ctx context.Context) ([]TaskResponse, error)
	Create(ctx context.Context, req CreateTaskRequest) (TaskResponse, error)
	// CreateAsManager is Create restricted to manager-tier callers.
	CreateAsManager(ctx context.Context, req CreateTaskRequest) (TaskResponse, error)
	Get(ctx context.Context, id int64) (TaskResponse, error)
	Update(ctx context.Context, id int64, req UpdateTaskRequest, partial bool) (TaskResponse, error)
	Delete(ctx context.Context, id int64) error

	ListFiles(ctx context.Context, taskID int64) ([]TaskFileResponse, error)
	UploadFile(ctx context.Context, req UploadTaskFileRequest) (TaskFileResponse, error)
	DeleteFile(ctx context.Context, taskID, fileID int64) error
}
