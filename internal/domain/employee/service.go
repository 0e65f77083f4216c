package employee

import "context"

// EmployeeService defines business logic for the employee directory
type EmployeeService interface {
	// RegisterEmployee enrolls a new employee with a face descriptor
	RegisterEmployee(ctx context.Context, req RegisterEmployeeRequest) (EmployeeResponse, error)

	// ListEmployees lists active employees, optionally filtered by a search term
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, error)

	// GetEmployee retrieves a single employee by ID regardless of status
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// UpdateEmployee applies a partial update
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee marks an employee inactive. Attendance history is kept.
	DeleteEmployee(ctx context.Context, id string) error
}
