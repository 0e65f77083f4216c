package attendance

import (
	"time"
)

type Attendance struct {
	ID                string
	EmployeeID        string
	WorkDate          time.Time
	CheckIn           time.Time
	CheckOut          *time.Time
	Status            Status
	TimeStatus        TimeStatus
	CheckInLatitude   *float64
	CheckInLongitude  *float64
	CheckOutLatitude  *float64
	CheckOutLongitude *float64
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// DTO
	EmployeeName *string
}

type Status string

const (
	StatusPresent   Status = "present"
	StatusCompleted Status = "completed"
)

type TimeStatus string

const (
	TimeStatusEarly TimeStatus = "Early"
	TimeStatusGood  TimeStatus = "Good"
	TimeStatusLate  TimeStatus = "Late"
)

type MarkType string

const (
	MarkCheckIn  MarkType = "check-in"
	MarkCheckOut MarkType = "check-out"
)

// UnknownEmployeeName is shown for records whose employee id no longer resolves.
const UnknownEmployeeName = "Unknown"

// Range selects records by check-in instant. From is inclusive, Before is
// exclusive; nil leaves that side open.
type Range struct {
	From   *time.Time
	Before *time.Time
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.Before != nil && !t.Before(*r.Before) {
		return false
	}
	return true
}

// CheckOut carries the data written by a check-out.
type CheckOut struct {
	EmployeeID string
	WorkDate   time.Time
	At         time.Time
	Latitude   *float64
	Longitude  *float64
}
