package employee

import (
	"strings"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/face"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/validator"
)

var validSexes = []string{string(SexMale), string(SexFemale), string(SexOther)}

type RegisterEmployeeRequest struct {
	Name             string         `json:"name"`
	Email            string         `json:"email"`
	Department       string         `json:"department"`
	FaceDescriptor   face.Embedding `json:"faceDescriptor"`
	DOB              *string        `json:"dob,omitempty"`
	StartWorkingDate *string        `json:"startWorkingDate,omitempty"`
	Sex              *string        `json:"sex,omitempty"`
}

// Normalize trims input and applies defaults. Call before Validate.
func (r *RegisterEmployeeRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Department = strings.TrimSpace(r.Department)
	if r.Department == "" {
		r.Department = DefaultDepartment
	}
	r.DOB = trimOptional(r.DOB)
	r.StartWorkingDate = trimOptional(r.StartWorkingDate)
	if r.Sex = trimOptional(r.Sex); r.Sex != nil {
		lower := strings.ToLower(*r.Sex)
		r.Sex = &lower
	}
}

func (r *RegisterEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if err := face.ValidateDescriptor(r.FaceDescriptor); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "faceDescriptor",
			Message: err.Error(),
		})
	}

	errs = append(errs, validateOptionalFields(r.DOB, r.StartWorkingDate, r.Sex)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateEmployeeRequest is a partial update: nil fields are left unchanged.
// An empty string clears dob, startWorkingDate or sex.
type UpdateEmployeeRequest struct {
	ID               string          `json:"-"`
	Name             *string         `json:"name,omitempty"`
	Email            *string         `json:"email,omitempty"`
	Department       *string         `json:"department,omitempty"`
	FaceDescriptor   *face.Embedding `json:"faceDescriptor,omitempty"`
	DOB              *string         `json:"dob,omitempty"`
	StartWorkingDate *string         `json:"startWorkingDate,omitempty"`
	Sex              *string         `json:"sex,omitempty"`
	Status           *string         `json:"status,omitempty"`
}

func (r *UpdateEmployeeRequest) Normalize() {
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
	if r.Email != nil {
		v := strings.TrimSpace(*r.Email)
		r.Email = &v
	}
	if r.Department != nil {
		v := strings.TrimSpace(*r.Department)
		r.Department = &v
	}
	if r.DOB != nil {
		v := strings.TrimSpace(*r.DOB)
		r.DOB = &v
	}
	if r.StartWorkingDate != nil {
		v := strings.TrimSpace(*r.StartWorkingDate)
		r.StartWorkingDate = &v
	}
	if r.Sex != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Sex))
		r.Sex = &v
	}
	if r.Status != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Status))
		r.Status = &v
	}
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name cannot be empty",
		})
	}

	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if r.Department != nil && validator.IsEmpty(*r.Department) {
		errs = append(errs, validator.ValidationError{
			Field:   "department",
			Message: "department cannot be empty",
		})
	}

	if r.FaceDescriptor != nil {
		if err := face.ValidateDescriptor(*r.FaceDescriptor); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "faceDescriptor",
				Message: err.Error(),
			})
		}
	}

	errs = append(errs, validateOptionalFields(nonEmpty(r.DOB), nonEmpty(r.StartWorkingDate), nonEmpty(r.Sex))...)

	if r.Status != nil && !validator.IsInSlice(*r.Status, []string{string(StatusActive), string(StatusInactive)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: active, inactive",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeFilter struct {
	Query string `json:"q,omitempty"`
}

type EmployeeResponse struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Email            string         `json:"email"`
	Department       string         `json:"department"`
	FaceDescriptor   face.Embedding `json:"faceDescriptor"`
	DOB              *string        `json:"dob"`
	StartWorkingDate *string        `json:"startWorkingDate"`
	Sex              *string        `json:"sex"`
	Status           string         `json:"status"`
	RegisteredAt     string         `json:"registeredAt"`
	UpdatedAt        string         `json:"updatedAt"`
}

func validateOptionalFields(dob, startWorkingDate, sex *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if dob != nil {
		if _, ok := validator.IsValidDate(*dob); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "dob",
				Message: "dob must be in YYYY-MM-DD format",
			})
		}
	}

	if startWorkingDate != nil {
		if _, ok := validator.IsValidDate(*startWorkingDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "startWorkingDate",
				Message: "startWorkingDate must be in YYYY-MM-DD format",
			})
		}
	}

	if sex != nil && !validator.IsInSlice(*sex, validSexes) {
		errs = append(errs, validator.ValidationError{
			Field:   "sex",
			Message: "sex must be one of: male, female, other",
		})
	}

	return errs
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
