package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/face"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/utils"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/validator"
	"github.com/google/uuid"
)

// StreamTopic is the SSE topic ledger changes are published on.
const StreamTopic = "attendance"

// Geofence restricts marking to a circle around the office.
type Geofence struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

type Options struct {
	Location        *time.Location
	StandardWorkday time.Duration
	// Geofence is optional; nil accepts marks from anywhere.
	Geofence *Geofence
	// Hub is optional; nil disables live events.
	Hub *sse.Hub
}

type AttendanceServiceImpl struct {
	attendanceRepo  attendance.AttendanceRepository
	employeeRepo    employee.EmployeeRepository
	faceService     face.Service
	classifier      Classifier
	loc             *time.Location
	standardWorkday time.Duration
	geofence        *Geofence
	hub             *sse.Hub
	now             func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	faceService face.Service,
	opts Options,
) attendance.AttendanceService {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	workday := opts.StandardWorkday
	if workday <= 0 {
		workday = 8 * time.Hour
	}
	return &AttendanceServiceImpl{
		attendanceRepo:  attendanceRepo,
		employeeRepo:    employeeRepo,
		faceService:     faceService,
		classifier:      NewClassifier(loc),
		loc:             loc,
		standardWorkday: workday,
		geofence:        opts.Geofence,
		hub:             opts.Hub,
		now:             time.Now,
	}
}

// Mark implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Mark(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.MarkAttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.MarkAttendanceResponse{}, err
	}
	if err := s.checkGeofence(req.Location); err != nil {
		return attendance.MarkAttendanceResponse{}, err
	}

	name := s.employeeName(ctx, req.EmployeeID)
	return s.mark(ctx, req.EmployeeID, name, attendance.MarkType(req.Type), req.Location)
}

// Scan implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Scan(ctx context.Context, req attendance.ScanAttendanceRequest) (attendance.MarkAttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.MarkAttendanceResponse{}, err
	}
	if err := s.checkGeofence(req.Location); err != nil {
		return attendance.MarkAttendanceResponse{}, err
	}

	match, err := s.faceService.Resolve(ctx, req.FaceDescriptor)
	if err != nil {
		return attendance.MarkAttendanceResponse{}, err
	}

	res, err := s.mark(ctx, match.EmployeeID, match.Name, attendance.MarkType(req.Type), req.Location)
	if err != nil {
		return attendance.MarkAttendanceResponse{}, err
	}
	distance := match.Distance
	res.Distance = &distance
	return res, nil
}

func (s *AttendanceServiceImpl) mark(ctx context.Context, employeeID, name string, markType attendance.MarkType, loc attendance.Location) (attendance.MarkAttendanceResponse, error) {
	now := s.now()
	workDate := utils.CalendarDate(now, s.loc)

	var (
		rec     attendance.Attendance
		err     error
		message string
	)

	switch markType {
	case attendance.MarkCheckIn:
		id, idErr := uuid.NewV7()
		if idErr != nil {
			return attendance.MarkAttendanceResponse{}, fmt.Errorf("failed to generate attendance id: %w", idErr)
		}
		rec, err = s.attendanceRepo.CreateIfAbsent(ctx, attendance.Attendance{
			ID:               id.String(),
			EmployeeID:       employeeID,
			WorkDate:         workDate,
			CheckIn:          now,
			Status:           attendance.StatusPresent,
			TimeStatus:       s.classifier.Classify(now),
			CheckInLatitude:  loc.Latitude,
			CheckInLongitude: loc.Longitude,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
		message = "Check-in recorded successfully"
	case attendance.MarkCheckOut:
		rec, err = s.attendanceRepo.CompleteCheckOut(ctx, attendance.CheckOut{
			EmployeeID: employeeID,
			WorkDate:   workDate,
			At:         now,
			Latitude:   loc.Latitude,
			Longitude:  loc.Longitude,
		})
		message = "Check-out recorded successfully"
	default:
		return attendance.MarkAttendanceResponse{}, fmt.Errorf("unsupported mark type %q", markType)
	}
	if err != nil {
		return attendance.MarkAttendanceResponse{}, err
	}

	rec.EmployeeName = &name
	record := mapAttendanceToResponse(rec)
	s.publish(string(markType), record)

	slog.Info("Attendance marked",
		"employee_id", employeeID,
		"type", markType,
		"time_status", rec.TimeStatus,
		"work_date", workDate.Format(utils.DateLayout),
	)

	return attendance.MarkAttendanceResponse{
		Message:      message,
		Type:         markType,
		EmployeeName: name,
		Record:       record,
	}, nil
}

// ListForEmployee implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListForEmployee(ctx context.Context, filter attendance.EmployeeAttendanceFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var r attendance.Range
	if filter.StartDate != nil && *filter.StartDate != "" {
		from := s.rangeBound(*filter.StartDate, false)
		r.From = &from
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		before := s.rangeBound(*filter.EndDate, true)
		r.Before = &before
	}

	records, err := s.attendanceRepo.ListForEmployee(ctx, filter.EmployeeID, r)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for employee: %w", err)
	}

	return mapAttendances(records), nil
}

// rangeBound converts a validated startDate/endDate value into an instant.
// A calendar date as an upper bound covers that whole day.
func (s *AttendanceServiceImpl) rangeBound(value string, upper bool) time.Time {
	t, dateOnly, _ := validator.IsValidDateOrDateTime(value)
	if !dateOnly {
		if upper {
			// inclusive upper bound at storage precision
			return t.Add(time.Microsecond)
		}
		return t
	}

	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
	if upper {
		return start.AddDate(0, 0, 1)
	}
	return start
}

// ListForDay implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListForDay(ctx context.Context, filter attendance.DayAttendanceFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	start := utils.StartOfDay(s.now(), s.loc)
	if filter.Date != nil && *filter.Date != "" {
		d, _, _ := validator.IsValidDateOrDateTime(*filter.Date)
		start = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.loc)
	}
	end := start.AddDate(0, 0, 1)

	records, err := s.attendanceRepo.ListInRange(ctx, attendance.Range{From: &start, Before: &end})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for day: %w", err)
	}

	for i := range records {
		if records[i].EmployeeName == nil {
			unknown := attendance.UnknownEmployeeName
			records[i].EmployeeName = &unknown
		}
	}

	return mapAttendances(records), nil
}

// TopPerformers implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) TopPerformers(ctx context.Context) (attendance.Leaderboards, error) {
	records, err := s.attendanceRepo.ListAll(ctx)
	if err != nil {
		return attendance.Leaderboards{}, fmt.Errorf("failed to load attendance ledger: %w", err)
	}

	names, err := s.employeeRepo.ListNames(ctx)
	if err != nil {
		return attendance.Leaderboards{}, fmt.Errorf("failed to load employee names: %w", err)
	}

	return ComputeLeaderboards(records, names, s.standardWorkday), nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	if err := s.attendanceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish("deleted", map[string]string{"id": id})
	return nil
}

func (s *AttendanceServiceImpl) checkGeofence(loc attendance.Location) error {
	if s.geofence == nil {
		return nil
	}
	if !loc.Present() {
		return attendance.ErrLocationRequired
	}

	ok, distance := utils.WithinRadius(
		s.geofence.Latitude, s.geofence.Longitude,
		*loc.Latitude, *loc.Longitude,
		s.geofence.RadiusMeters,
	)
	if !ok {
		slog.Debug("Mark rejected by geofence", "distance_m", distance, "radius_m", s.geofence.RadiusMeters)
		return attendance.ErrOutsideAllowedRadius
	}
	return nil
}

// employeeName resolves a display name for event payloads. Unknown ids are
// still allowed to mark.
func (s *AttendanceServiceImpl) employeeName(ctx context.Context, employeeID string) string {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if !errors.Is(err, employee.ErrEmployeeNotFound) {
			slog.Warn("Failed to resolve employee name", "employee_id", employeeID, "error", err)
		}
		return attendance.UnknownEmployeeName
	}
	return emp.Name
}

func (s *AttendanceServiceImpl) publish(event string, data interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(sse.Event{Topic: StreamTopic, Event: event, Data: data})
}

func mapAttendances(records []attendance.Attendance) []attendance.AttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, mapAttendanceToResponse(rec))
	}
	return responses
}

func mapAttendanceToResponse(rec attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:                rec.ID,
		EmployeeID:        rec.EmployeeID,
		EmployeeName:      rec.EmployeeName,
		Date:              rec.WorkDate.Format(utils.DateLayout),
		CheckIn:           utils.FormatTimestamp(rec.CheckIn),
		CheckOut:          utils.FormatTimestampPtr(rec.CheckOut),
		Status:            string(rec.Status),
		TimeStatus:        string(rec.TimeStatus),
		CheckInLatitude:   rec.CheckInLatitude,
		CheckInLongitude:  rec.CheckInLongitude,
		CheckOutLatitude:  rec.CheckOutLatitude,
		CheckOutLongitude: rec.CheckOutLongitude,
		CreatedAt:         utils.FormatTimestamp(rec.CreatedAt),
		UpdatedAt:         utils.FormatTimestamp(rec.UpdatedAt),
	}
}
