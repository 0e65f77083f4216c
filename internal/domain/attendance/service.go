package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// Mark records a check-in or check-out for a known employee id
	Mark(ctx context.Context, req MarkAttendanceRequest) (MarkAttendanceResponse, error)

	// Scan identifies the employee from a face descriptor, then marks
	Scan(ctx context.Context, req ScanAttendanceRequest) (MarkAttendanceResponse, error)

	// ListForEmployee returns one employee's history, optionally bounded by dates
	ListForEmployee(ctx context.Context, filter EmployeeAttendanceFilter) ([]AttendanceResponse, error)

	// ListForDay returns all records of a calendar day with employee names
	ListForDay(ctx context.Context, filter DayAttendanceFilter) ([]AttendanceResponse, error)

	// TopPerformers computes the leaderboards over the full ledger
	TopPerformers(ctx context.Context) (Leaderboards, error)

	// DeleteAttendance hard deletes a record
	DeleteAttendance(ctx context.Context, id string) error
}
