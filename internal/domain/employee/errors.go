package employee

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrEmployeeCodeExists  = errors.New("employee code already exists")
	ErrEmployeeInactive    = errors.New("employee is inactive")
	ErrEmployeeNotFlex     = errors.New("employee is not a flex employee")
	ErrEmployeeAlreadyGone = errors.New("employee is already inactive")
)
