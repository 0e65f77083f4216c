package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/face"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/validator"
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
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid username or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token revoked")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, auth.ErrAuthDisabled):
		NotFound(w, "Authentication is not configured")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmailExists):
		BadRequest(w, "Employee already exists", nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrDuplicateCheckIn):
		BadRequest(w, "Already checked in today", nil)
	case errors.Is(err, attendance.ErrNoCheckInFound):
		BadRequest(w, "No check-in found for today", nil)
	case errors.Is(err, attendance.ErrDuplicateCheckOut):
		BadRequest(w, "Already checked out today", nil)
	case errors.Is(err, attendance.ErrLocationRequired):
		BadRequest(w, "Location is required", nil)
	case errors.Is(err, attendance.ErrOutsideAllowedRadius):
		BadRequest(w, "You are outside the allowed attendance area", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Face domain errors
	case errors.Is(err, face.ErrNoMatch):
		NotFound(w, "Face not recognized")
	case errors.Is(err, face.ErrDimensionMismatch), errors.Is(err, face.ErrMalformedEmbedding):
		BadRequest(w, "Invalid face descriptor", nil)
	case errors.Is(err, face.ErrRosterUnavailable):
		ServiceUnavailable(w, "Face roster is not available")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
