package task

import "time"

type Task struct {
	ID          int64
	Title       string
	Description string
	AssignedTo  int64
	AssignedBy  *int64
	DueDate     *time.Time
	Completed   bool
	CreatedAt   time.Time

	// Join
	AssignedToName string
	AssignedByName *string
}

type TaskFile struct {
	ID          int64
	TaskID      int64
	UploadedBy  *int64
	File        string
	Description string
	UploadedAt  time.Time

	// Join
	UploaderName *string
}

// Involves reports whether employeeID is the assignee or the assigner.
func (t *Task) Involves(employeeID int64) bool {
	if t.AssignedTo == employeeID {
		return true
	}
	return t.AssignedBy != nil && *t.AssignedBy == employeeID
}
