package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/face"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"
)

const uniqueViolation = "23505"

const employeeColumns = `
	id, name, email, department, face_descriptor, dob, start_working_date,
	sex, status, registered_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		emp    employee.Employee
		vec    pgvector.Vector
		sex    *string
		status string
	)
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.Department, &vec, &emp.DOB, &emp.StartWorkingDate,
		&sex, &status, &emp.RegisteredAt, &emp.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}

	emp.FaceDescriptor = face.Embedding(vec.Slice())
	emp.Status = employee.Status(status)
	if sex != nil {
		s := employee.Sex(*sex)
		emp.Sex = &s
	}
	return emp, nil
}

func sexValue(s *employee.Sex) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			id, name, email, department, face_descriptor, dob, start_working_date,
			sex, status, registered_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.ID,
		newEmployee.Name,
		newEmployee.Email,
		newEmployee.Department,
		pgvector.NewVector(newEmployee.FaceDescriptor),
		newEmployee.DOB,
		newEmployee.StartWorkingDate,
		sexValue(newEmployee.Sex),
		string(newEmployee.Status),
		newEmployee.RegisteredAt,
		newEmployee.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.getByID(ctx, id, "")
}

// GetByIDForUpdate implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (employee.Employee, error) {
	return r.getByID(ctx, id, " FOR UPDATE")
}

func (r *employeeRepositoryImpl) getByID(ctx context.Context, id string, lock string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + employeeColumns + ` FROM employees WHERE id = $1` + lock

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}
	return emp, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees SET
			name = $2,
			email = $3,
			department = $4,
			face_descriptor = $5,
			dob = $6,
			start_working_date = $7,
			sex = $8,
			status = $9,
			updated_at = $10
		WHERE id = $1
		RETURNING` + employeeColumns

	updated, err := scanEmployee(q.QueryRow(ctx, query,
		emp.ID,
		emp.Name,
		emp.Email,
		emp.Department,
		pgvector.NewVector(emp.FaceDescriptor),
		emp.DOB,
		emp.StartWorkingDate,
		sexValue(emp.Sex),
		string(emp.Status),
		emp.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}
	return updated, nil
}

// SetStatus implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SetStatus(ctx context.Context, id string, status employee.Status) error {
	q := GetQuerier(ctx, r.db)

	// updated_at only moves when the status actually changes
	query := `
		UPDATE employees
		SET status = $2,
			updated_at = CASE WHEN status = $2 THEN updated_at ELSE $3 END
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, string(status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set employee status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// ListActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + employeeColumns + `
		FROM employees
		WHERE status = 'active'
		ORDER BY registered_at, id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// ListNames implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListNames(ctx context.Context) (map[string]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, name FROM employees`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan employee name: %w", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employee names: %w", err)
	}

	return names, nil
}

// ListActiveEmbeddings implements face.RosterSource.
func (r *employeeRepositoryImpl) ListActiveEmbeddings(ctx context.Context) ([]face.RosterEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, face_descriptor
		FROM employees
		WHERE status = 'active'
		ORDER BY registered_at, id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list face descriptors: %w", err)
	}
	defer rows.Close()

	entries := []face.RosterEntry{}
	for rows.Next() {
		var (
			entry face.RosterEntry
			vec   pgvector.Vector
		)
		if err := rows.Scan(&entry.EmployeeID, &entry.Name, &vec); err != nil {
			return nil, fmt.Errorf("failed to scan face descriptor: %w", err)
		}
		entry.Embedding = face.Embedding(vec.Slice())
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate face descriptors: %w", err)
	}

	return entries, nil
}
