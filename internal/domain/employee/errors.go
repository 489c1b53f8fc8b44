package employee

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrUserAlreadyLinked   = errors.New("user already has an employee profile")
	ErrEmployeeCodeExists  = errors.New("employee code already exists")
	ErrEmployeeEmailExists = errors.New("employee email already exists")
	ErrInvalidPage         = errors.New("Invalid page.")
)

// Field messages returned inside validation errors.
const (
	MsgCodeRange       = "Employee code must consist of exactly 3 digits"
	MsgCodeExists      = "An employee with that code already exists"
	MsgEmailRequired   = "Email address is required."
	MsgEmailExists     = "An employee with that email already exists"
	MsgSalaryRequired  = "Salary cannot be empty"
	MsgSalaryPositive  = "Salary cannot be less than, or equal to zero"
	MsgPositionMissing = "This field is required."
)
