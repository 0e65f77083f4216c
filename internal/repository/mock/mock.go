// Package mock provides in-memory implementations of the repository interfaces for testing.
package mock

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/face"
)

// MockEmployeeRepository is an in-memory employee.EmployeeRepository
type MockEmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
	order     []string

	// Error injection
	CreateError     error
	GetError        error
	UpdateError     error
	SetStatusError  error
	ListError       error
	ListNamesError  error
	EmbeddingsError error
}

func NewMockEmployeeRepository() *MockEmployeeRepository {
	return &MockEmployeeRepository{
		employees: make(map[string]employee.Employee),
	}
}

// AddEmployee stores emp directly, bypassing uniqueness checks
func (m *MockEmployeeRepository) AddEmployee(emp employee.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[emp.ID]; !ok {
		m.order = append(m.order, emp.ID)
	}
	m.employees[emp.ID] = emp
}

// Create implements employee.EmployeeRepository.
func (m *MockEmployeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	if m.CreateError != nil {
		return employee.Employee{}, m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.emailTakenLocked(newEmployee.Email, "") {
		return employee.Employee{}, employee.ErrEmailExists
	}
	m.employees[newEmployee.ID] = newEmployee
	m.order = append(m.order, newEmployee.ID)
	return newEmployee, nil
}

func (m *MockEmployeeRepository) emailTakenLocked(email, exceptID string) bool {
	for id, emp := range m.employees {
		if id != exceptID && strings.EqualFold(emp.Email, email) {
			return true
		}
	}
	return false
}

// GetByID implements employee.EmployeeRepository.
func (m *MockEmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if m.GetError != nil {
		return employee.Employee{}, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	emp, ok := m.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

// GetByIDForUpdate implements employee.EmployeeRepository.
func (m *MockEmployeeRepository) GetByIDForUpdate(ctx context.Context, id string) (employee.Employee, error) {
	return m.GetByID(ctx, id)
}

// Update implements employee.EmployeeRepository.
func (m *MockEmployeeRepository) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	if m.UpdateError != nil {
		return employee.Employee{}, m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employees[emp.ID]; !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if m.emailTakenLocked(emp.Email, emp.ID) {
		return employee.Employee{}, employee.ErrEmailExists
	}
	m.employees[emp.ID] = emp
	return emp, nil
}

// SetStatus implements employee.EmployeeRepository.
func (m *MockEmployeeRepository) SetStatus(ctx context.Context, id string, status employee.Status) error {
	if m.SetStatusError != nil {
		return m.SetStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	emp, ok := m.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	if emp.Status != status {
		emp.Status = status
		emp.UpdatedAt = time.Now().UTC()
		m.employees[id] = emp
	}
	return nil
}

// ListActive implements employee.EmployeeRepository.
func (m *MockEmployeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []employee.Employee
	for _, id := range m.order {
		if emp := m.employees[id]; emp.Status == employee.StatusActive {
			result = append(result, emp)
		}
	}
	return result, nil
}

// ListNames implements employee.EmployeeRepository.
func (m *MockEmployeeRepository) ListNames(ctx context.Context) (map[string]string, error) {
	if m.ListNamesError != nil {
		return nil, m.ListNamesError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make(map[string]string, len(m.employees))
	for id, emp := range m.employees {
		names[id] = emp.Name
	}
	return names, nil
}

// ListActiveEmbeddings implements face.RosterSource.
func (m *MockEmployeeRepository) ListActiveEmbeddings(ctx context.Context) ([]face.RosterEntry, error) {
	if m.EmbeddingsError != nil {
		return nil, m.EmbeddingsError
	}
	active, err := m.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]face.RosterEntry, 0, len(active))
	for _, emp := range active {
		entries = append(entries, face.RosterEntry{
			EmployeeID: emp.ID,
			Name:       emp.Name,
			Embedding:  emp.FaceDescriptor,
		})
	}
	return entries, nil
}

// MockAttendanceRepository is an in-memory attendance.AttendanceRepository.
// The per-day uniqueness and check-out transition are applied under one lock,
// matching the atomicity of the SQL implementation.
type MockAttendanceRepository struct {
	mu      sync.Mutex
	records map[string]attendance.Attendance
	// Names joins employee names into ListInRange, like the SQL join.
	Names func() map[string]string

	// Error injection
	CreateError   error
	CheckOutError error
	ListError     error
	DeleteError   error
}

func NewMockAttendanceRepository() *MockAttendanceRepository {
	return &MockAttendanceRepository{
		records: make(map[string]attendance.Attendance),
	}
}

// AddRecord stores rec directly, bypassing the ledger rules
func (m *MockAttendanceRepository) AddRecord(rec attendance.Attendance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = rec
}

// Count returns the number of stored records
func (m *MockAttendanceRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func (m *MockAttendanceRepository) findLocked(employeeID string, workDate time.Time) (attendance.Attendance, bool) {
	for _, rec := range m.records {
		if rec.EmployeeID == employeeID && sameDay(rec.WorkDate, workDate) {
			return rec, true
		}
	}
	return attendance.Attendance{}, false
}

// CreateIfAbsent implements attendance.AttendanceRepository.
func (m *MockAttendanceRepository) CreateIfAbsent(ctx context.Context, rec attendance.Attendance) (attendance.Attendance, error) {
	if m.CreateError != nil {
		return attendance.Attendance{}, m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.findLocked(rec.EmployeeID, rec.WorkDate); exists {
		return attendance.Attendance{}, attendance.ErrDuplicateCheckIn
	}
	m.records[rec.ID] = rec
	return rec, nil
}

// CompleteCheckOut implements attendance.AttendanceRepository.
func (m *MockAttendanceRepository) CompleteCheckOut(ctx context.Context, out attendance.CheckOut) (attendance.Attendance, error) {
	if m.CheckOutError != nil {
		return attendance.Attendance{}, m.CheckOutError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, exists := m.findLocked(out.EmployeeID, out.WorkDate)
	if !exists {
		return attendance.Attendance{}, attendance.ErrNoCheckInFound
	}
	if rec.CheckOut != nil {
		return attendance.Attendance{}, attendance.ErrDuplicateCheckOut
	}

	at := out.At
	rec.CheckOut = &at
	rec.Status = attendance.StatusCompleted
	rec.CheckOutLatitude = out.Latitude
	rec.CheckOutLongitude = out.Longitude
	rec.UpdatedAt = at
	m.records[rec.ID] = rec
	return rec, nil
}

// GetByID implements attendance.AttendanceRepository.
func (m *MockAttendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return rec, nil
}

func (m *MockAttendanceRepository) filter(keep func(attendance.Attendance) bool, newestFirst bool) []attendance.Attendance {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []attendance.Attendance
	for _, rec := range m.records {
		if keep(rec) {
			result = append(result, rec)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CheckIn.Equal(result[j].CheckIn) {
			if newestFirst {
				return result[i].CheckIn.After(result[j].CheckIn)
			}
			return result[i].CheckIn.Before(result[j].CheckIn)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// ListForEmployee implements attendance.AttendanceRepository.
func (m *MockAttendanceRepository) ListForEmployee(ctx context.Context, employeeID string, r attendance.Range) ([]attendance.Attendance, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.filter(func(rec attendance.Attendance) bool {
		return rec.EmployeeID == employeeID && r.Contains(rec.CheckIn)
	}, true), nil
}

// ListInRange implements attendance.AttendanceRepository.
func (m *MockAttendanceRepository) ListInRange(ctx context.Context, r attendance.Range) ([]attendance.Attendance, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	result := m.filter(func(rec attendance.Attendance) bool {
		return r.Contains(rec.CheckIn)
	}, true)

	if m.Names != nil {
		names := m.Names()
		for i := range result {
			if name, ok := names[result[i].EmployeeID]; ok {
				n := name
				result[i].EmployeeName = &n
			}
		}
	}
	return result, nil
}

// ListAll implements attendance.AttendanceRepository.
func (m *MockAttendanceRepository) ListAll(ctx context.Context) ([]attendance.Attendance, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.filter(func(attendance.Attendance) bool { return true }, false), nil
}

// Delete implements attendance.AttendanceRepository.
func (m *MockAttendanceRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	delete(m.records, id)
	return nil
}

// MockTransactor runs the function directly. Calls counts invocations.
type MockTransactor struct {
	mu    sync.Mutex
	Calls int
}

// WithinTransaction implements database.Transactor.
func (t *MockTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.Calls++
	t.mu.Unlock()
	return fn(ctx)
}
