package employee

import (
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/face"
)

// DefaultDepartment is assigned when registration omits a department.
const DefaultDepartment = "General"

type Employee struct {
	ID               string
	Name             string
	Email            string
	Department       string
	FaceDescriptor   face.Embedding
	DOB              *time.Time
	StartWorkingDate *time.Time
	Sex              *Sex
	Status           Status
	RegisteredAt     time.Time
	UpdatedAt        time.Time
}

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)
