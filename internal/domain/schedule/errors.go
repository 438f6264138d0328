package schedule

import "errors"

var (
	ErrScheduleNotFound        = errors.New("schedule not found")
	ErrScheduleExists          = errors.New("a schedule already exists for this date")
	ErrInvalidStatusTransition = errors.New("invalid schedule status transition")
	ErrShiftNotFound           = errors.New("shift not found")
	ErrScheduleCompleted       = errors.New("schedule is completed")
	ErrCompletedCountExceeded  = errors.New("completed package count exceeds total package count")

	// Assignment errors
	ErrAssignmentNotFound = errors.New("employee is not assigned to this schedule")
	ErrAlreadyAssigned    = errors.New("employee already assigned to this schedule")
)
