package usecase

import (
	"errors"
	"fmt"
	"strings"

	"cookmyshow/pkg/utils"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state")
)

// ValidationError carries per-field messages keyed by json name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func validationError(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// validate runs struct tags on req and returns a *ValidationError on failure.
func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// Seat conflict reasons.
const (
	ReasonBooked = "booked"
	ReasonHeld   = "held"
)

// SeatConflictError reports seats a request could not get.
type SeatConflictError struct {
	Seats  []string
	Reason string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seat(s) already %s: %s", e.Reason, strings.Join(e.Seats, ", "))
}

func (e *SeatConflictError) Is(target error) bool {
	return target == ErrConflict
}
