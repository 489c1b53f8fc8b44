package task

import (
	"io"
	"mime/multipart"
	"time"

	"github.com/rakmedia/hr-backend-go/internal/pkg/validator"
)

const (
	MaxTaskFileSize      = 20 << 20 // 20MB
	UnknownUploader      = "Unknown"
	maxTitleLength       = 200
	maxDescriptionLength = 255
)

type TaskFileResponse struct {
	ID             int64     `json:"id"`
	File           string    `json:"file"`
	Description    string    `json:"description"`
	UploadedAt     time.Time `json:"uploaded_at"`
	UploadedByName string    `json:"uploaded_by_name"`
}

type TaskResponse struct {
	ID             int64              `json:"id"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Files          []TaskFileResponse `json:"files"`
	AssignedTo     int64              `json:"assigned_to"`
	AssignedToName string             `json:"assigned_to_name"`
	AssignedBy     *int64             `json:"assigned_by"`
	AssignedByName *string            `json:"assigned_by_name"`
	DueDate        *string            `json:"due_date"`
	Completed      bool               `json:"completed"`
	CreatedAt      time.Time          `json:"created_at"`
}

type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	AssignedTo  *int64  `json:"assigned_to"`
	DueDate     *string `json:"due_date"`
	Completed   bool    `json:"completed"`
}

func (r *CreateTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs.Add("title", "This field may not be blank.")
	} else if validator.ExceedsLength(r.Title, maxTitleLength) {
		errs.Add("title", "Ensure this field has no more than 200 characters.")
	}
	if r.AssignedTo == nil {
		errs.Add("assigned_to", "This field is required.")
	}
	validateDueDate(&errs, r.DueDate)

	return errs.Err()
}

type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	AssignedTo  *int64  `json:"assigned_to,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

func (r *UpdateTaskRequest) Validate(partial bool) error {
	var errs validator.ValidationErrors

	if !partial {
		if r.Title == nil {
			errs.Add("title", "This field is required.")
		}
		if r.AssignedTo == nil {
			errs.Add("assigned_to", "This field is required.")
		}
	}
	if r.Title != nil {
		if validator.IsEmpty(*r.Title) {
			errs.Add("title", "This field may not be blank.")
		} else if validator.ExceedsLength(*r.Title, maxTitleLength) {
			errs.Add("title", "Ensure this field has no more than 200 characters.")
		}
	}
	validateDueDate(&errs, r.DueDate)

	return errs.Err()
}

type UploadTaskFileRequest struct {
	TaskID      int64                 `json:"-"`
	Description string                `json:"description"`
	File        io.Reader             `json:"-"`
	FileHeader  *multipart.FileHeader `json:"-"`
}

func (r *UploadTaskFileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FileHeader == nil {
		errs.Add("file", "No file was submitted.")
	} else if r.FileHeader.Size > MaxTaskFileSize {
		errs.Add("file", "file size must not exceed 20MB")
	}
	if validator.ExceedsLength(r.Description, maxDescriptionLength) {
		errs.Add("description", "Ensure this field has no more than 255 characters.")
	}

	return errs.Err()
}

func validateDueDate(errs *validator.ValidationErrors, dueDate *string) {
	if dueDate == nil || *dueDate == "" {
		return
	}
	if _, ok := validator.IsValidDate(*dueDate); !ok {
		errs.Add("due_date", "Date has wrong format. Use YYYY-MM-DD.")
	}
}

// ParseDueDate converts an optional YYYY-MM-DD string. Call after Validate.
func ParseDueDate(dueDate *string) *time.Time {
	if dueDate == nil || *dueDate == "" {
		return nil
	}
	t, ok := validator.IsValidDate(*dueDate)
	if !ok {
		return nil
	}
	return &t
}
