package position

import (
	"errors"
	"fmt"
)

var (
	ErrPositionNotFound   = errors.New("position not found")
	ErrPositionPairExists = errors.New("this job role and employee type pairing already exists")
	ErrIncompatibleType   = errors.New("job role is not compatible with employee type")
)

// IncompatibleError carries the offending names for the response message.
type IncompatibleError struct {
	JobRole      string
	EmployeeType string
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("Job role %q is not compatible with employee type %q", e.JobRole, e.EmployeeType)
}

func (e *IncompatibleError) Unwrap() error {
	return ErrIncompatibleType
}
