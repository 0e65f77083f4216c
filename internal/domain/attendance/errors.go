package attendance

import "errors"

// Attendance domain errors
var (
	// Ledger transitions
	ErrDuplicateCheckIn  = errors.New("already checked in today")
	ErrNoCheckInFound    = errors.New("no check-in found for today")
	ErrDuplicateCheckOut = errors.New("already checked out today")

	ErrOutsideAllowedRadius = errors.New("you are outside the allowed radius")
	ErrLocationRequired     = errors.New("latitude and longitude are required")

	ErrAttendanceNotFound = errors.New("attendance record not found")
)
