package attendance

import (
	"context"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// CreateIfAbsent inserts rec unless a record already exists for the same
	// employee and work date, in which case it returns ErrDuplicateCheckIn.
	// The check and the insert are a single atomic write.
	CreateIfAbsent(ctx context.Context, rec Attendance) (Attendance, error)

	// CompleteCheckOut sets the check-out on the open record for the employee
	// and work date. Returns ErrNoCheckInFound when there is no record and
	// ErrDuplicateCheckOut when it is already completed.
	CompleteCheckOut(ctx context.Context, out CheckOut) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// ListForEmployee returns the employee's records, newest check-in first.
	ListForEmployee(ctx context.Context, employeeID string, r Range) ([]Attendance, error)

	// ListInRange returns every record in r joined with the employee name,
	// newest check-in first.
	ListInRange(ctx context.Context, r Range) ([]Attendance, error)

	// ListAll returns the whole ledger.
	ListAll(ctx context.Context) ([]Attendance, error)

	// Delete removes a record permanently.
	Delete(ctx context.Context, id string) error
}
