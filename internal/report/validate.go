package report

import (
	"errors"
	"fmt"
	"strings"
)

// Coordinate bounds accepted for report locations. The bounds are
// inclusive: a report pinned exactly on a pole or the antimeridian is valid.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// ValidationError describes a rejected report field. It is a distinct type
// so callers can tell user mistakes apart from storage failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err is (or wraps) a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateInput checks user-supplied report content before anything is
// persisted. Checks run in a fixed order (title, description, coordinates)
// and the first violation wins.
func ValidateInput(title, description string, latitude, longitude float64) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Message: "title cannot be blank"}
	}

	if strings.TrimSpace(description) == "" {
		return &ValidationError{Field: "description", Message: "description cannot be blank"}
	}

	if latitude < MinLatitude || latitude > MaxLatitude {
		return &ValidationError{
			Field:   "latitude",
			Message: fmt.Sprintf("latitude %v out of range [%v, %v]", latitude, MinLatitude, MaxLatitude),
		}
	}

	if longitude < MinLongitude || longitude > MaxLongitude {
		return &ValidationError{
			Field:   "longitude",
			Message: fmt.Sprintf("longitude %v out of range [%v, %v]", longitude, MinLongitude, MaxLongitude),
		}
	}

	return nil
}
