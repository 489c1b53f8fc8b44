package company

import "errors"

var (
	ErrCompanyNotFound   = errors.New("company not found")
	ErrCompanyNameExists = errors.New("a company with this name already exists")
	ErrNoCompany         = errors.New("no company has been configured")
)
