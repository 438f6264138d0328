package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/comment"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/document"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/performance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/window"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth and organization
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, jwt.ErrMissingClaims):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, auth.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, auth.ErrOwnerRequired):
		Forbidden(w, "Owner role required")
	case errors.Is(err, auth.ErrManagerRequired):
		Forbidden(w, "Manager or owner role required")
	case errors.Is(err, auth.ErrOrganizationNeeded), errors.Is(err, jwt.ErrOrganizationMissing):
		Forbidden(w, "Create or join an organization first")
	case errors.Is(err, organization.ErrOrganizationNotFound):
		NotFound(w, "Organization not found")
	case errors.Is(err, organization.ErrAlreadyMember):
		Conflict(w, "User already belongs to an organization")

	// Employee
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrEmployeeInactive):
		BadRequest(w, "Employee is inactive", nil)
	case errors.Is(err, employee.ErrEmployeeNotFlex):
		BadRequest(w, "Only flex employees can confirm extra time", nil)
	case errors.Is(err, employee.ErrEmployeeAlreadyGone):
		Conflict(w, "Employee is already inactive")

	// Schedule and assignments
	case errors.Is(err, schedule.ErrScheduleNotFound):
		NotFound(w, "Schedule not found")
	case errors.Is(err, schedule.ErrScheduleExists):
		Conflict(w, "A schedule already exists for this date")
	case errors.Is(err, schedule.ErrInvalidStatusTransition):
		BadRequest(w, "Invalid schedule status transition", nil)
	case errors.Is(err, schedule.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, schedule.ErrScheduleCompleted):
		Conflict(w, "Schedule is completed")
	case errors.Is(err, schedule.ErrCompletedCountExceeded):
		BadRequest(w, "Completed package count exceeds total package count", nil)
	case errors.Is(err, schedule.ErrAssignmentNotFound):
		NotFound(w, "Employee is not assigned to this schedule")
	case errors.Is(err, schedule.ErrAlreadyAssigned):
		Conflict(w, "Employee already assigned to this schedule")

	// Tasks
	case errors.Is(err, task.ErrNoScheduledEmployees):
		BadRequest(w, "Schedule has no scheduled employees", nil)
	case errors.Is(err, task.ErrTaskNotAllowed):
		BadRequest(w, "Tasks can only be set on scheduled assignments", nil)

	// VET / VTO
	case errors.Is(err, window.ErrVETNotFound):
		NotFound(w, "VET not found for this schedule")
	case errors.Is(err, window.ErrVTONotFound):
		NotFound(w, "VTO not found for this schedule")
	case errors.Is(err, window.ErrVETExists):
		Conflict(w, "Schedule already has a VET")
	case errors.Is(err, window.ErrVTOExists):
		Conflict(w, "Schedule already has a VTO")
	case errors.Is(err, window.ErrVETNotOpen):
		Conflict(w, "VET is not open")
	case errors.Is(err, window.ErrVETNotClosed):
		Conflict(w, "VET is not closed")
	case errors.Is(err, window.ErrVTONotOpen):
		Conflict(w, "VTO is not open")
	case errors.Is(err, window.ErrVTONotClosed):
		Conflict(w, "Only a closed VTO can be reopened")
	case errors.Is(err, window.ErrAssignmentReleased):
		Conflict(w, "Employee has already been released")

	// Performance import
	case errors.Is(err, performance.ErrEmptyFile),
		errors.Is(err, performance.ErrInvalidCSV),
		errors.Is(err, performance.ErrMissingColumns),
		errors.Is(err, performance.ErrFileRequired):
		BadRequest(w, err.Error(), nil)

	// Comments and documents
	case errors.Is(err, comment.ErrCommentNotFound):
		NotFound(w, "Comment not found")
	case errors.Is(err, comment.ErrNotCommentOwner):
		Forbidden(w, "Only the author or a manager can delete this comment")
	case errors.Is(err, document.ErrDocumentNotFound):
		NotFound(w, "Document not found")
	case errors.Is(err, document.ErrFileRequired):
		BadRequest(w, "File is required", nil)
	case errors.Is(err, document.ErrFileTooLarge):
		BadRequest(w, "File exceeds the maximum size", nil)
	case errors.Is(err, document.ErrFileTypeNotAllowed):
		BadRequest(w, "File type is not allowed", nil)

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
