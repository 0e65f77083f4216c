package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `
	a.id, a.employee_id, a.work_date, a.check_in, a.check_out, a.status, a.time_status,
	a.check_in_latitude, a.check_in_longitude, a.check_out_latitude, a.check_out_longitude,
	a.created_at, a.updated_at`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanAttendance(row pgx.Row, extra ...any) (attendance.Attendance, error) {
	var (
		att        attendance.Attendance
		status     string
		timeStatus string
	)
	dest := []any{
		&att.ID, &att.EmployeeID, &att.WorkDate, &att.CheckIn, &att.CheckOut, &status, &timeStatus,
		&att.CheckInLatitude, &att.CheckInLongitude, &att.CheckOutLatitude, &att.CheckOutLongitude,
		&att.CreatedAt, &att.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return attendance.Attendance{}, err
	}
	att.Status = attendance.Status(status)
	att.TimeStatus = attendance.TimeStatus(timeStatus)
	return att, nil
}

// CreateIfAbsent implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CreateIfAbsent(ctx context.Context, rec attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance AS a (
			id, employee_id, work_date, check_in, status, time_status,
			check_in_latitude, check_in_longitude, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT ON CONSTRAINT attendance_employee_day_key DO NOTHING
		RETURNING` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		rec.ID,
		rec.EmployeeID,
		rec.WorkDate,
		rec.CheckIn,
		string(rec.Status),
		string(rec.TimeStatus),
		rec.CheckInLatitude,
		rec.CheckInLongitude,
		rec.CreatedAt,
		rec.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrDuplicateCheckIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return created, nil
}

// CompleteCheckOut implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CompleteCheckOut(ctx context.Context, out attendance.CheckOut) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance AS a SET
			check_out = $3,
			status = $4,
			check_out_latitude = $5,
			check_out_longitude = $6,
			updated_at = $3
		WHERE a.employee_id = $1
		  AND a.work_date = $2
		  AND a.check_out IS NULL
		RETURNING` + attendanceColumns

	updated, err := scanAttendance(q.QueryRow(ctx, query,
		out.EmployeeID,
		out.WorkDate,
		out.At,
		string(attendance.StatusCompleted),
		out.Latitude,
		out.Longitude,
	))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.Attendance{}, fmt.Errorf("failed to record check-out: %w", err)
	}

	// Nothing open: tell a missing check-in apart from a finished day.
	var exists bool
	err = q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM attendance WHERE employee_id = $1 AND work_date = $2)`,
		out.EmployeeID, out.WorkDate,
	).Scan(&exists)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to look up attendance for check-out: %w", err)
	}
	if exists {
		return attendance.Attendance{}, attendance.ErrDuplicateCheckOut
	}
	return attendance.Attendance{}, attendance.ErrNoCheckInFound
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + attendanceColumns + ` FROM attendance a WHERE a.id = $1`

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}
	return att, nil
}

// rangeClause appends the check-in bounds of rng to conditions and args.
func rangeClause(rng attendance.Range, conditions []string, args []any) ([]string, []any) {
	if rng.From != nil {
		args = append(args, *rng.From)
		conditions = append(conditions, fmt.Sprintf("a.check_in >= $%d", len(args)))
	}
	if rng.Before != nil {
		args = append(args, *rng.Before)
		conditions = append(conditions, fmt.Sprintf("a.check_in < $%d", len(args)))
	}
	return conditions, args
}

func whereClause(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conditions, " AND ")
}

// ListForEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListForEmployee(ctx context.Context, employeeID string, rng attendance.Range) ([]attendance.Attendance, error) {
	conditions, args := rangeClause(rng, []string{"a.employee_id = $1"}, []any{employeeID})

	query := `SELECT` + attendanceColumns + ` FROM attendance a` +
		whereClause(conditions) +
		` ORDER BY a.check_in DESC, a.id`

	records, err := r.list(ctx, query, false, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for employee: %w", err)
	}
	return records, nil
}

// ListInRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListInRange(ctx context.Context, rng attendance.Range) ([]attendance.Attendance, error) {
	conditions, args := rangeClause(rng, nil, nil)

	query := `SELECT` + attendanceColumns + `, e.name
		FROM attendance a
		LEFT JOIN employees e ON e.id = a.employee_id` +
		whereClause(conditions) +
		` ORDER BY a.check_in DESC, a.id`

	records, err := r.list(ctx, query, true, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance in range: %w", err)
	}
	return records, nil
}

// ListAll implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListAll(ctx context.Context) ([]attendance.Attendance, error) {
	query := `SELECT` + attendanceColumns + ` FROM attendance a ORDER BY a.check_in, a.id`

	records, err := r.list(ctx, query, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

func (r *attendanceRepositoryImpl) list(ctx context.Context, query string, withName bool, args ...any) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []attendance.Attendance{}
	for rows.Next() {
		var (
			att  attendance.Attendance
			name *string
		)
		if withName {
			att, err = scanAttendance(rows, &name)
		} else {
			att, err = scanAttendance(rows)
		}
		if err != nil {
			return nil, err
		}
		att.EmployeeName = name
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}
