package employee

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/face"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/face-attendance-go/internal/repository/mock"
	faceservice "github.com/cmlabs-hris/face-attendance-go/internal/service/face"
)

func strPtr(s string) *string { return &s }

func descriptor(v float32) face.Embedding {
	e := make(face.Embedding, face.DescriptorDimension)
	for i := range e {
		e[i] = v
	}
	return e
}

func setup() (*EmployeeServiceImpl, *mock.MockEmployeeRepository, *mock.MockTransactor, *faceservice.RosterCache) {
	repo := mock.NewMockEmployeeRepository()
	tx := &mock.MockTransactor{}
	roster := faceservice.NewRosterCache(repo)
	svc := NewEmployeeService(tx, repo, roster).(*EmployeeServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	return svc, repo, tx, roster
}

func validRegister() employee.RegisterEmployeeRequest {
	return employee.RegisterEmployeeRequest{
		Name:           "  Alice Martin ",
		Email:          "alice@example.com",
		FaceDescriptor: descriptor(0.1),
	}
}

func TestRegisterEmployee(t *testing.T) {
	svc, _, _, roster := setup()
	ctx := context.Background()

	req := validRegister()
	req.DOB = strPtr("1990-05-17")
	req.Sex = strPtr("Female")

	resp, err := svc.RegisterEmployee(ctx, req)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Alice Martin", resp.Name)
	assert.Equal(t, employee.DefaultDepartment, resp.Department)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, "2024-03-01T09:00:00.000Z", resp.RegisteredAt)
	require.NotNil(t, resp.DOB)
	assert.Equal(t, "1990-05-17", *resp.DOB)
	require.NotNil(t, resp.Sex)
	assert.Equal(t, "female", *resp.Sex)
	assert.Nil(t, resp.StartWorkingDate)
	assert.Len(t, resp.FaceDescriptor, face.DescriptorDimension)

	current := roster.Current()
	require.NotNil(t, current, "registration refreshes the roster")
	assert.Equal(t, 1, current.Size())
}

func TestRegisterEmployee_Validation(t *testing.T) {
	svc, repo, _, _ := setup()

	tests := []struct {
		name   string
		mutate func(*employee.RegisterEmployeeRequest)
		field  string
	}{
		{"missing name", func(r *employee.RegisterEmployeeRequest) { r.Name = " " }, "name"},
		{"missing email", func(r *employee.RegisterEmployeeRequest) { r.Email = "" }, "email"},
		{"bad email", func(r *employee.RegisterEmployeeRequest) { r.Email = "alice" }, "email"},
		{"no descriptor", func(r *employee.RegisterEmployeeRequest) { r.FaceDescriptor = nil }, "faceDescriptor"},
		{"short descriptor", func(r *employee.RegisterEmployeeRequest) { r.FaceDescriptor = face.Embedding{1, 2} }, "faceDescriptor"},
		{"bad dob", func(r *employee.RegisterEmployeeRequest) { r.DOB = strPtr("17/05/1990") }, "dob"},
		{"bad sex", func(r *employee.RegisterEmployeeRequest) { r.Sex = strPtr("x") }, "sex"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegister()
			tt.mutate(&req)

			_, err := svc.RegisterEmployee(context.Background(), req)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}

	list, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRegisterEmployee_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := setup()
	ctx := context.Background()

	_, err := svc.RegisterEmployee(ctx, validRegister())
	require.NoError(t, err)

	again := validRegister()
	again.Email = "ALICE@example.com"
	_, err = svc.RegisterEmployee(ctx, again)
	assert.ErrorIs(t, err, employee.ErrEmailExists)
}

func TestRegisterEmployee_RosterFailureDoesNotFailWrite(t *testing.T) {
	svc, repo, _, _ := setup()
	repo.EmbeddingsError = errors.New("roster down")

	resp, err := svc.RegisterEmployee(context.Background(), validRegister())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
}

func TestListEmployees(t *testing.T) {
	svc, repo, _, _ := setup()
	ctx := context.Background()

	repo.AddEmployee(employee.Employee{ID: "1", Name: "José Álvarez", Email: "jose@example.com", Department: "Engineering", Status: employee.StatusActive})
	repo.AddEmployee(employee.Employee{ID: "2", Name: "Mai Tran", Email: "mai@example.com", Department: "Finance", Status: employee.StatusActive})
	repo.AddEmployee(employee.Employee{ID: "3", Name: "Jose Former", Email: "former@example.com", Department: "Engineering", Status: employee.StatusInactive})

	all, err := svc.ListEmployees(ctx, employee.EmployeeFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.NotNil(t, all[0].FaceDescriptor, "descriptor serializes as an empty array")

	found, err := svc.ListEmployees(ctx, employee.EmployeeFilter{Query: "jose"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "1", found[0].ID)

	byDept, err := svc.ListEmployees(ctx, employee.EmployeeFilter{Query: "FIN"})
	require.NoError(t, err)
	require.Len(t, byDept, 1)
	assert.Equal(t, "2", byDept[0].ID)
}

func TestGetEmployee(t *testing.T) {
	svc, repo, _, _ := setup()
	repo.AddEmployee(employee.Employee{ID: "gone", Name: "Old", Email: "old@example.com", Status: employee.StatusInactive})

	resp, err := svc.GetEmployee(context.Background(), "gone")
	require.NoError(t, err)
	assert.Equal(t, "inactive", resp.Status)

	_, err = svc.GetEmployee(context.Background(), "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestUpdateEmployee(t *testing.T) {
	svc, repo, tx, roster := setup()
	ctx := context.Background()

	dob := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	sex := employee.SexMale
	repo.AddEmployee(employee.Employee{
		ID: "e1", Name: "Tom", Email: "tom@example.com", Department: "Ops",
		FaceDescriptor: descriptor(0.2), DOB: &dob, Sex: &sex, Status: employee.StatusActive,
	})

	newDescriptor := descriptor(0.3)
	resp, err := svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{
		ID:             "e1",
		Department:     strPtr(" Sales "),
		FaceDescriptor: &newDescriptor,
		DOB:            strPtr(""),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, tx.Calls)
	assert.Equal(t, "Tom", resp.Name)
	assert.Equal(t, "Sales", resp.Department)
	assert.Nil(t, resp.DOB, "empty string clears dob")
	require.NotNil(t, resp.Sex)
	assert.Equal(t, "male", *resp.Sex)
	assert.Equal(t, float32(0.3), resp.FaceDescriptor[0])

	current := roster.Current()
	require.NotNil(t, current)
	assert.Equal(t, float32(0.3), current.Entries[0].Embedding[0])
}

func TestUpdateEmployee_Errors(t *testing.T) {
	svc, repo, _, _ := setup()
	ctx := context.Background()
	repo.AddEmployee(employee.Employee{ID: "a", Name: "A", Email: "a@example.com", Status: employee.StatusActive})
	repo.AddEmployee(employee.Employee{ID: "b", Name: "B", Email: "b@example.com", Status: employee.StatusActive})

	_, err := svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: "missing", Name: strPtr("X")})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: "a", Email: strPtr("B@example.com")})
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	_, err = svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: "a", Status: strPtr("fired")})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestDeleteEmployee(t *testing.T) {
	svc, repo, _, roster := setup()
	ctx := context.Background()
	repo.AddEmployee(employee.Employee{ID: "e1", Name: "Tom", Email: "tom@example.com", FaceDescriptor: descriptor(0.2), Status: employee.StatusActive})

	require.NoError(t, svc.DeleteEmployee(ctx, "e1"))
	require.NoError(t, svc.DeleteEmployee(ctx, "e1"), "soft delete is idempotent")

	got, err := repo.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, employee.StatusInactive, got.Status)

	list, err := svc.ListEmployees(ctx, employee.EmployeeFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NotNil(t, roster.Current())
	assert.Zero(t, roster.Current().Size())

	assert.ErrorIs(t, svc.DeleteEmployee(ctx, "missing"), employee.ErrEmployeeNotFound)

	resp, err := svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: "e1", Status: strPtr("active")})
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, 1, roster.Current().Size())
}
