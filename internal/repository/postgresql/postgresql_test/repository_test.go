//go:build integration

package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/face"
	"github.com/cmlabs-hris/face-attendance-go/internal/repository/postgresql"
)

func newEmployee(id, email string, status employee.Status) employee.Employee {
	desc := make(face.Embedding, face.DescriptorDimension)
	for i := range desc {
		desc[i] = float32(i) / 1000
	}
	now := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)
	return employee.Employee{
		ID:             id,
		Name:           "Employee " + id,
		Email:          email,
		Department:     employee.DefaultDepartment,
		FaceDescriptor: desc,
		Status:         status,
		RegisteredAt:   now,
		UpdatedAt:      now,
	}
}

func checkIn(id, employeeID string, at time.Time) attendance.Attendance {
	return attendance.Attendance{
		ID:         id,
		EmployeeID: employeeID,
		WorkDate:   time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC),
		CheckIn:    at,
		Status:     attendance.StatusPresent,
		TimeStatus: attendance.TimeStatusGood,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
}

func TestPostgresRepositories(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	empRepo := postgresql.NewEmployeeRepository(setup.DB)
	attRepo := postgresql.NewAttendanceRepository(setup.DB)
	transactor := postgresql.NewTransactor(setup.DB)

	reset := func(t *testing.T) {
		require.NoError(t, setup.TruncateAllTables(ctx))
	}

	t.Run("employee round trip keeps descriptor and optional fields", func(t *testing.T) {
		reset(t)
		emp := newEmployee("e1", "ann@example.com", employee.StatusActive)
		dob := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
		sex := employee.SexFemale
		emp.DOB = &dob
		emp.Sex = &sex

		_, err := empRepo.Create(ctx, emp)
		require.NoError(t, err)

		got, err := empRepo.GetByID(ctx, "e1")
		require.NoError(t, err)
		assert.Equal(t, emp.FaceDescriptor, got.FaceDescriptor)
		require.NotNil(t, got.DOB)
		assert.Equal(t, "1990-05-17", got.DOB.Format("2006-01-02"))
		require.NotNil(t, got.Sex)
		assert.Equal(t, employee.SexFemale, *got.Sex)
		assert.Nil(t, got.StartWorkingDate)

		_, err = empRepo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})

	t.Run("email is unique case-insensitively across statuses", func(t *testing.T) {
		reset(t)
		_, err := empRepo.Create(ctx, newEmployee("e1", "bob@example.com", employee.StatusInactive))
		require.NoError(t, err)

		_, err = empRepo.Create(ctx, newEmployee("e2", "BOB@example.com", employee.StatusActive))
		assert.ErrorIs(t, err, employee.ErrEmailExists)
	})

	t.Run("update inside a transaction and soft delete", func(t *testing.T) {
		reset(t)
		_, err := empRepo.Create(ctx, newEmployee("e1", "cat@example.com", employee.StatusActive))
		require.NoError(t, err)
		_, err = empRepo.Create(ctx, newEmployee("e2", "dan@example.com", employee.StatusActive))
		require.NoError(t, err)

		err = transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
			emp, err := empRepo.GetByIDForUpdate(txCtx, "e1")
			if err != nil {
				return err
			}
			emp.Department = "Finance"
			_, err = empRepo.Update(txCtx, emp)
			return err
		})
		require.NoError(t, err)

		got, err := empRepo.GetByID(ctx, "e1")
		require.NoError(t, err)
		assert.Equal(t, "Finance", got.Department)

		clash, err := empRepo.GetByID(ctx, "e2")
		require.NoError(t, err)
		clash.Email = "CAT@example.com"
		_, err = empRepo.Update(ctx, clash)
		assert.ErrorIs(t, err, employee.ErrEmailExists)

		require.NoError(t, empRepo.SetStatus(ctx, "e1", employee.StatusInactive))
		require.NoError(t, empRepo.SetStatus(ctx, "e1", employee.StatusInactive))
		assert.ErrorIs(t, empRepo.SetStatus(ctx, "missing", employee.StatusInactive), employee.ErrEmployeeNotFound)

		active, err := empRepo.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "e2", active[0].ID)

		entries, err := empRepo.ListActiveEmbeddings(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Len(t, entries[0].Embedding, face.DescriptorDimension)

		names, err := empRepo.ListNames(ctx)
		require.NoError(t, err)
		assert.Len(t, names, 2)
	})

	t.Run("one record per employee and work date under concurrency", func(t *testing.T) {
		reset(t)
		at := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)

		var wg sync.WaitGroup
		errs := make(chan error, 10)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := attRepo.CreateIfAbsent(ctx, checkIn(string(rune('a'+i)), "e1", at))
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)

		var ok, dup int
		for err := range errs {
			switch err {
			case nil:
				ok++
			case attendance.ErrDuplicateCheckIn:
				dup++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, ok)
		assert.Equal(t, 9, dup)
	})

	t.Run("check-out transitions", func(t *testing.T) {
		reset(t)
		at := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)
		out := attendance.CheckOut{EmployeeID: "e1", WorkDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), At: at.Add(9 * time.Hour)}

		_, err := attRepo.CompleteCheckOut(ctx, out)
		assert.ErrorIs(t, err, attendance.ErrNoCheckInFound)

		_, err = attRepo.CreateIfAbsent(ctx, checkIn("r1", "e1", at))
		require.NoError(t, err)

		done, err := attRepo.CompleteCheckOut(ctx, out)
		require.NoError(t, err)
		assert.Equal(t, attendance.StatusCompleted, done.Status)
		require.NotNil(t, done.CheckOut)
		assert.True(t, done.CheckOut.Equal(out.At))

		_, err = attRepo.CompleteCheckOut(ctx, out)
		assert.ErrorIs(t, err, attendance.ErrDuplicateCheckOut)
	})

	t.Run("range queries, joined names and delete", func(t *testing.T) {
		reset(t)
		_, err := empRepo.Create(ctx, newEmployee("e1", "eve@example.com", employee.StatusActive))
		require.NoError(t, err)

		day1 := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)
		day2 := day1.AddDate(0, 0, 1)
		for _, rec := range []attendance.Attendance{
			checkIn("r1", "e1", day1),
			checkIn("r2", "e1", day2),
			checkIn("r3", "ghost", day2.Add(time.Hour)),
		} {
			_, err := attRepo.CreateIfAbsent(ctx, rec)
			require.NoError(t, err)
		}

		mine, err := attRepo.ListForEmployee(ctx, "e1", attendance.Range{})
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Equal(t, "r2", mine[0].ID)

		from := day2.Add(-time.Minute)
		before := day2.Add(24 * time.Hour)
		onDay2, err := attRepo.ListInRange(ctx, attendance.Range{From: &from, Before: &before})
		require.NoError(t, err)
		require.Len(t, onDay2, 2)
		assert.Equal(t, "r3", onDay2[0].ID)
		assert.Nil(t, onDay2[0].EmployeeName)
		require.NotNil(t, onDay2[1].EmployeeName)
		assert.Equal(t, "Employee e1", *onDay2[1].EmployeeName)

		all, err := attRepo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "r1", all[0].ID)

		require.NoError(t, attRepo.Delete(ctx, "r1"))
		assert.ErrorIs(t, attRepo.Delete(ctx, "r1"), attendance.ErrAttendanceNotFound)
		_, err = attRepo.GetByID(ctx, "r1")
		assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	})
}
