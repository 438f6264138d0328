package window

import "errors"

var (
	// VET
	ErrVETNotFound  = errors.New("vet not found for this schedule")
	ErrVETExists    = errors.New("schedule already has a vet")
	ErrVETNotOpen   = errors.New("vet is not open")
	ErrVETNotClosed = errors.New("vet is not closed")

	// VTO
	ErrVTONotFound  = errors.New("vto not found for this schedule")
	ErrVTOExists    = errors.New("schedule already has a vto")
	ErrVTONotOpen   = errors.New("vto is not open")
	ErrVTONotClosed = errors.New("only a closed vto can be reopened")

	ErrAssignmentReleased = errors.New("employee has already been released")
)
