package task

import "errors"

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskFileNotFound     = errors.New("task file not found")
	ErrAssigneeNotFound     = errors.New("assigned employee not found")
	ErrAssignOthersDenied   = errors.New("only managers can assign tasks to other employees")
	ErrTaskAccessDenied     = errors.New("you do not have access to this task")
	ErrTaskFileDeleteDenied = errors.New("only the uploader or a manager can delete this file")
)
