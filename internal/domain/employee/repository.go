package employee

import (
	"context"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/face"
)

type EmployeeRepository interface {
	// Create inserts a new employee. Returns ErrEmailExists when the email is
	// already registered, whatever that employee's status.
	Create(ctx context.Context, newEmployee Employee) (Employee, error)

	// GetByID returns an employee of any status.
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByIDForUpdate is GetByID with a row lock; call it inside a transaction.
	GetByIDForUpdate(ctx context.Context, id string) (Employee, error)

	// Update overwrites the mutable fields of an existing employee.
	Update(ctx context.Context, emp Employee) (Employee, error)

	// SetStatus flips the employee status. Setting the current status again is not an error.
	SetStatus(ctx context.Context, id string, status Status) error

	ListActive(ctx context.Context) ([]Employee, error)

	// ListNames maps every employee id, active or not, to its display name.
	ListNames(ctx context.Context) (map[string]string, error)

	face.RosterSource
}
