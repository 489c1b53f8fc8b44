package employeetype

import "errors"

var (
	ErrEmployeeTypeNotFound   = errors.New("employee type not found")
	ErrEmployeeTypeNameExists = errors.New("an employee type with this name already exists")
)
