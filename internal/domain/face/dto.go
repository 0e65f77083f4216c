package face

import (
	"fmt"

	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/validator"
)

type IdentifyRequest struct {
	FaceDescriptor Embedding `json:"faceDescriptor"`
}

func (r *IdentifyRequest) Validate() error {
	if err := ValidateDescriptor(r.FaceDescriptor); err != nil {
		return validator.ValidationErrors{{Field: "faceDescriptor", Message: err.Error()}}
	}
	return nil
}

// ValidateDescriptor checks that e is a complete descriptor.
func ValidateDescriptor(e Embedding) error {
	if len(e) == 0 {
		return fmt.Errorf("faceDescriptor is required")
	}
	if len(e) != DescriptorDimension {
		return fmt.Errorf("faceDescriptor must contain exactly %d values", DescriptorDimension)
	}
	return nil
}

type IdentifyResponse struct {
	Matched    bool   `json:"matched"`
	EmployeeID string `json:"employeeId,omitempty"`
	Name       string `json:"name,omitempty"`
	// Distance is set whenever Matched is, including 0 for an exact match.
	Distance      *float64 `json:"distance,omitempty"`
	RosterVersion uint64   `json:"rosterVersion"`
}

type RosterResponse struct {
	Version uint64 `json:"version"`
	Entries int    `json:"entries"`
	TakenAt string `json:"takenAt"`
}
