package employee

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/face"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/utils"
	"github.com/google/uuid"
)

type EmployeeServiceImpl struct {
	tx           database.Transactor
	employeeRepo employee.EmployeeRepository
	roster       face.RosterRefresher
	now          func() time.Time
}

// NewEmployeeService wires the directory. roster may be nil; when set, every
// successful write refreshes the face roster snapshot.
func NewEmployeeService(
	tx database.Transactor,
	employeeRepo employee.EmployeeRepository,
	roster face.RosterRefresher,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:           tx,
		employeeRepo: employeeRepo,
		roster:       roster,
		now:          time.Now,
	}
}

// RegisterEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) RegisterEmployee(ctx context.Context, req employee.RegisterEmployeeRequest) (employee.EmployeeResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to generate employee id: %w", err)
	}

	now := s.now().UTC()
	newEmployee := employee.Employee{
		ID:             id.String(),
		Name:           req.Name,
		Email:          req.Email,
		Department:     req.Department,
		FaceDescriptor: req.FaceDescriptor,
		Status:         employee.StatusActive,
		RegisteredAt:   now,
		UpdatedAt:      now,
	}
	newEmployee.DOB = parseOptionalDate(req.DOB)
	newEmployee.StartWorkingDate = parseOptionalDate(req.StartWorkingDate)
	if req.Sex != nil {
		sex := employee.Sex(*req.Sex)
		newEmployee.Sex = &sex
	}

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	s.refreshRoster(ctx)
	return mapEmployeeToResponse(created), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		if !utils.ContainsFolded(filter.Query, emp.Name, emp.Email, emp.Department) {
			continue
		}
		responses = append(responses, mapEmployeeToResponse(emp))
	}
	return responses, nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapEmployeeToResponse(emp), nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var updated employee.Employee
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.employeeRepo.GetByIDForUpdate(txCtx, req.ID)
		if err != nil {
			return err
		}

		applyUpdate(&current, req)
		current.UpdatedAt = s.now().UTC()

		updated, err = s.employeeRepo.Update(txCtx, current)
		return err
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	s.refreshRoster(ctx)
	return mapEmployeeToResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	if err := s.employeeRepo.SetStatus(ctx, id, employee.StatusInactive); err != nil {
		return err
	}
	s.refreshRoster(ctx)
	return nil
}

// refreshRoster keeps identification in step with the directory. Failure is
// logged only; the next scheduled refresh catches up.
func (s *EmployeeServiceImpl) refreshRoster(ctx context.Context) {
	if s.roster == nil {
		return
	}
	if _, err := s.roster.Refresh(ctx); err != nil {
		slog.Warn("Roster refresh after directory change failed", "error", err)
	}
}

func applyUpdate(emp *employee.Employee, req employee.UpdateEmployeeRequest) {
	if req.Name != nil {
		emp.Name = *req.Name
	}
	if req.Email != nil {
		emp.Email = *req.Email
	}
	if req.Department != nil {
		emp.Department = *req.Department
	}
	if req.FaceDescriptor != nil {
		emp.FaceDescriptor = *req.FaceDescriptor
	}
	if req.DOB != nil {
		emp.DOB = parseOptionalDate(req.DOB)
	}
	if req.StartWorkingDate != nil {
		emp.StartWorkingDate = parseOptionalDate(req.StartWorkingDate)
	}
	if req.Sex != nil {
		if *req.Sex == "" {
			emp.Sex = nil
		} else {
			sex := employee.Sex(*req.Sex)
			emp.Sex = &sex
		}
	}
	if req.Status != nil {
		emp.Status = employee.Status(*req.Status)
	}
}

// parseOptionalDate expects an already validated YYYY-MM-DD string.
func parseOptionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(utils.DateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}

func mapEmployeeToResponse(emp employee.Employee) employee.EmployeeResponse {
	var sex *string
	if emp.Sex != nil {
		s := string(*emp.Sex)
		sex = &s
	}

	descriptor := emp.FaceDescriptor
	if descriptor == nil {
		descriptor = face.Embedding{}
	}

	return employee.EmployeeResponse{
		ID:               emp.ID,
		Name:             emp.Name,
		Email:            emp.Email,
		Department:       emp.Department,
		FaceDescriptor:   descriptor,
		DOB:              utils.FormatDatePtr(emp.DOB),
		StartWorkingDate: utils.FormatDatePtr(emp.StartWorkingDate),
		Sex:              sex,
		Status:           string(emp.Status),
		RegisteredAt:     utils.FormatTimestamp(emp.RegisteredAt),
		UpdatedAt:        utils.FormatTimestamp(emp.UpdatedAt),
	}
}
