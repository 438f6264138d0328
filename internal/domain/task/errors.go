package task

import "errors"

var (
	ErrNoScheduledEmployees = errors.New("schedule has no scheduled employees")
	ErrTaskNotAllowed       = errors.New("tasks can only be set on scheduled assignments")
)
