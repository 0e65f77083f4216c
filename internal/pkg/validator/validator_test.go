package validator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty(" \t\n"))
	assert.False(t, IsEmpty(" Ann "))
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"ann@example.com", true},
		{"ann.lee+kiosk@office.co.id", true},
		{"ANN@EXAMPLE.COM", true},
		{"ann@", false},
		{"@example.com", false},
		{"ann@example", false},
		{"ann example@example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidEmail(tt.email), tt.email)
	}
}

func TestIsValidDateOrDateTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		ok       bool
		dateOnly bool
	}{
		{"calendar date", "1990-05-17", true, true},
		{"utc timestamp", "2024-03-01T01:05:00Z", true, false},
		{"timestamp with millis", "2024-03-01T01:05:00.123Z", true, false},
		{"timestamp with offset", "2024-03-01T08:05:00+07:00", true, false},
		{"month out of range", "2024-13-01", false, false},
		{"day out of range", "2024-02-30", false, false},
		{"slashes", "2024/03/01", false, false},
		{"words", "yesterday", false, false},
		{"empty", "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, dateOnly, ok := IsValidDateOrDateTime(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.dateOnly, dateOnly)
		})
	}

	ts, _, ok := IsValidDateOrDateTime("2024-03-01T01:05:00.123Z")
	assert.True(t, ok)
	assert.Equal(t, 123000000, ts.Nanosecond())
}

func TestIsInSlice(t *testing.T) {
	sexes := []string{"male", "female", "other"}
	assert.True(t, IsInSlice("female", sexes))
	assert.False(t, IsInSlice("Female", sexes))
	assert.False(t, IsInSlice("", sexes))
}

func TestCoordinates(t *testing.T) {
	assert.True(t, IsValidLatitude(13.332962))
	assert.True(t, IsValidLongitude(103.974389))
	assert.True(t, IsValidLatitude(-90))
	assert.True(t, IsValidLongitude(180))

	assert.False(t, IsValidLatitude(90.0001))
	assert.False(t, IsValidLongitude(-181))
	assert.False(t, IsValidLatitude(math.NaN()))
	assert.False(t, IsValidLongitude(math.Inf(-1)))
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "email is required"},
		{Field: "faceDescriptor", Message: "faceDescriptor must have 128 values"},
	}

	assert.Equal(t, "email: email is required; faceDescriptor: faceDescriptor must have 128 values", errs.Error())
	assert.Equal(t, map[string]string{
		"email":          "email is required",
		"faceDescriptor": "faceDescriptor must have 128 values",
	}, errs.ToMap())
}
