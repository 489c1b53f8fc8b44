package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rakmedia/hr-backend-go/internal/domain/task"
	"github.com/rakmedia/hr-backend-go/internal/pkg/database"
)

type taskRepositoryImpl struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) task.TaskRepository {
	return &taskRepositoryImpl{db: db}
}

// Assignee names prefer the linked username and fall back to the full name.
const taskSelect = `
	SELECT t.id, t.title, t.description, t.assigned_to, t.assigned_by, t.due_date, t.completed, t.created_at,
		COALESCE(tu.username, te.first_name || ' ' || te.last_name),
		CASE WHEN be.id IS NULL THEN NULL ELSE COALESCE(bu.username, be.first_name || ' ' || be.last_name) END
	FROM tasks t
	JOIN employees te ON te.id = t.assigned_to
	LEFT JOIN users tu ON tu.id = te.user_id
	LEFT JOIN employees be ON be.id = t.assigned_by
	LEFT JOIN users bu ON bu.id = be.user_id`

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.AssignedTo, &t.AssignedBy, &t.DueDate, &t.Completed, &t.CreatedAt,
		&t.AssignedToName, &t.AssignedByName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return task.Task{}, task.ErrTaskNotFound
	}
	return t, err
}

func taskWriteError(err error) error {
	if database.IsForeignKeyViolation(err, "") {
		return task.ErrAssigneeNotFound
	}
	return err
}

func (r *taskRepositoryImpl) Create(ctx context.Context, t task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO tasks (title, description, assigned_to, assigned_by, due_date, completed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, t.Title, t.Description, t.AssignedTo, t.AssignedBy, t.DueDate, t.Completed).Scan(&id)
	if err != nil {
		return task.Task{}, taskWriteError(err)
	}
	return r.GetByID(ctx, id)
}

func (r *taskRepositoryImpl) GetByID(ctx context.Context, id int64) (task.Task, error) {
	q := GetQuerier(ctx, r.db)
	return scanTask(q.QueryRow(ctx, taskSelect+` WHERE t.id = $1`, id))
}

func (r *taskRepositoryImpl) List(ctx context.Context, filter task.ListFilter) ([]task.Task, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	var args []interface{}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		conditions = append(conditions, fmt.Sprintf("t.assigned_to = $%d", len(args)))
	}
	if filter.AssignedBy != nil {
		args = append(args, *filter.AssignedBy)
		conditions = append(conditions, fmt.Sprintf("t.assigned_by = $%d", len(args)))
	}

	rows, err := q.Query(ctx, taskSelect+" WHERE "+strings.Join(conditions, " AND ")+" ORDER BY t.created_at DESC, t.id DESC", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *taskRepositoryImpl) Update(ctx context.Context, t task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE tasks SET title = $1, description = $2, assigned_to = $3, due_date = $4, completed = $5
		WHERE id = $6
	`, t.Title, t.Description, t.AssignedTo, t.DueDate, t.Completed, t.ID)
	if err != nil {
		return task.Task{}, taskWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return task.Task{}, task.ErrTaskNotFound
	}
	return r.GetByID(ctx, t.ID)
}

func (r *taskRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

type taskFileRepositoryImpl struct {
	db *database.DB
}

func NewTaskFileRepository(db *database.DB) task.TaskFileRepository {
	return &taskFileRepositoryImpl{db: db}
}

const taskFileSelect = `
	SELECT f.id, f.task_id, f.uploaded_by, f.file, f.description, f.uploaded_at,
		CASE WHEN e.id IS NULL THEN NULL ELSE e.first_name || ' ' || e.last_name END
	FROM task_files f
	LEFT JOIN employees e ON e.id = f.uploaded_by`

func scanTaskFile(row pgx.Row) (task.TaskFile, error) {
	var f task.TaskFile
	err := row.Scan(&f.ID, &f.TaskID, &f.UploadedBy, &f.File, &f.Description, &f.UploadedAt, &f.UploaderName)
	if errors.Is(err, pgx.ErrNoRows) {
		return task.TaskFile{}, task.ErrTaskFileNotFound
	}
	return f, err
}

func (r *taskFileRepositoryImpl) Create(ctx context.Context, f task.TaskFile) (task.TaskFile, error) {
	q := GetQuerier(ctx, r.db)

	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO task_files (task_id, uploaded_by, file, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, f.TaskID, f.UploadedBy, f.File, f.Description).Scan(&id)
	if err != nil {
		if database.IsForeignKeyViolation(err, "") {
			return task.TaskFile{}, task.ErrTaskNotFound
		}
		return task.TaskFile{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *taskFileRepositoryImpl) GetByID(ctx context.Context, id int64) (task.TaskFile, error) {
	q := GetQuerier(ctx, r.db)
	return scanTaskFile(q.QueryRow(ctx, taskFileSelect+` WHERE f.id = $1`, id))
}

func (r *taskFileRepositoryImpl) list(ctx context.Context, where string, args ...interface{}) ([]task.TaskFile, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, taskFileSelect+" WHERE "+where+" ORDER BY f.uploaded_at DESC, f.id DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := []task.TaskFile{}
	for rows.Next() {
		f, err := scanTaskFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (r *taskFileRepositoryImpl) ListByTask(ctx context.Context, taskID int64) ([]task.TaskFile, error) {
	return r.list(ctx, "f.task_id = $1", taskID)
}

func (r *taskFileRepositoryImpl) ListByTasks(ctx context.Context, taskIDs []int64) ([]task.TaskFile, error) {
	if len(taskIDs) == 0 {
		return []task.TaskFile{}, nil
	}
	return r.list(ctx, "f.task_id = ANY($1)", taskIDs)
}

func (r *taskFileRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM task_files WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return task.ErrTaskFileNotFound
	}
	return nil
}
