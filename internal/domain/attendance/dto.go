package attendance

import (
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/face"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/validator"
)

var validMarkTypes = []string{string(MarkCheckIn), string(MarkCheckOut)}

// Location is an optional coordinate pair sent with a mark.
type Location struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Present reports whether both coordinates were given.
func (l Location) Present() bool {
	return l.Latitude != nil && l.Longitude != nil
}

func (l Location) validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if (l.Latitude == nil) != (l.Longitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "latitude and longitude must be sent together",
		})
	}

	if l.Latitude != nil && !validator.IsValidLatitude(*l.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if l.Longitude != nil && !validator.IsValidLongitude(*l.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	return errs
}

type MarkAttendanceRequest struct {
	EmployeeID string `json:"employeeId"`
	Type       string `json:"type"`
	Location
}

func (r *MarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employeeId",
			Message: "employeeId is required",
		})
	}

	errs = append(errs, validateMarkType(r.Type)...)
	errs = append(errs, r.Location.validate()...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ScanAttendanceRequest struct {
	FaceDescriptor face.Embedding `json:"faceDescriptor"`
	Type           string         `json:"type"`
	Location
}

func (r *ScanAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if err := face.ValidateDescriptor(r.FaceDescriptor); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "faceDescriptor",
			Message: err.Error(),
		})
	}

	errs = append(errs, validateMarkType(r.Type)...)
	errs = append(errs, r.Location.validate()...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateMarkType(t string) validator.ValidationErrors {
	if validator.IsEmpty(t) {
		return validator.ValidationErrors{{Field: "type", Message: "type is required"}}
	}
	if !validator.IsInSlice(t, validMarkTypes) {
		return validator.ValidationErrors{{Field: "type", Message: "type must be one of: check-in, check-out"}}
	}
	return nil
}

type MarkAttendanceResponse struct {
	Message      string             `json:"message"`
	Type         MarkType           `json:"type"`
	EmployeeName string             `json:"employeeName,omitempty"`
	Distance     *float64           `json:"distance,omitempty"`
	Record       AttendanceResponse `json:"record"`
}

type AttendanceResponse struct {
	ID                string   `json:"id"`
	EmployeeID        string   `json:"employeeId"`
	EmployeeName      *string  `json:"employeeName,omitempty"`
	Date              string   `json:"date"`
	CheckIn           string   `json:"checkIn"`
	CheckOut          *string  `json:"checkOut"`
	Status            string   `json:"status"`
	TimeStatus        string   `json:"timeStatus"`
	CheckInLatitude   *float64 `json:"checkInLatitude,omitempty"`
	CheckInLongitude  *float64 `json:"checkInLongitude,omitempty"`
	CheckOutLatitude  *float64 `json:"checkOutLatitude,omitempty"`
	CheckOutLongitude *float64 `json:"checkOutLongitude,omitempty"`
	CreatedAt         string   `json:"createdAt"`
	UpdatedAt         string   `json:"updatedAt"`
}

type EmployeeAttendanceFilter struct {
	EmployeeID string  `json:"employeeId"`
	StartDate  *string `json:"startDate,omitempty"` // YYYY-MM-DD or ISO-8601
	EndDate    *string `json:"endDate,omitempty"`   // YYYY-MM-DD (whole day) or ISO-8601
}

func (f *EmployeeAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employeeId",
			Message: "employeeId is required",
		})
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, _, ok := validator.IsValidDateOrDateTime(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "startDate",
				Message: "startDate must be YYYY-MM-DD or an ISO-8601 timestamp",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, _, ok := validator.IsValidDateOrDateTime(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "endDate",
				Message: "endDate must be YYYY-MM-DD or an ISO-8601 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DayAttendanceFilter struct {
	Date *string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
}

func (f *DayAttendanceFilter) Validate() error {
	if f.Date != nil && *f.Date != "" {
		if _, ok := validator.IsValidDate(*f.Date); !ok {
			return validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
		}
	}
	return nil
}

// LeaderboardEntry is one employee's totals over the whole ledger.
type LeaderboardEntry struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	LateCount       int     `json:"lateCount"`
	EarlyCount      int     `json:"earlyCount"`
	AttendanceCount int     `json:"attendanceCount"`
	OvertimeHours   float64 `json:"overtimeHours"`
}

type Leaderboards struct {
	TopLate       []LeaderboardEntry `json:"topLate"`
	TopEarly      []LeaderboardEntry `json:"topEarly"`
	TopAttendance []LeaderboardEntry `json:"topAttendance"`
	TopOvertime   []LeaderboardEntry `json:"topOvertime"`
}
