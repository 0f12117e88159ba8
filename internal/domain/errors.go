package domain

import (
	"errors"
	"strings"
)

// Sentinel errors shared by repositories and services.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrAlreadyBooked  = errors.New("you have already booked this slot")
	ErrSlotFull       = errors.New("this slot is already fully booked")
	ErrDuplicateSlot  = errors.New("duplicate time slot")
	ErrDuplicateEmail = errors.New("email already in use")
)

// SlotError describes why a single proposed slot time was rejected.
// swagger:model SlotError
type SlotError struct {
	Time  string `json:"time"`
	Error string `json:"error"`
}

// ValidationError carries a top-level message and, for slot batches, every
// per-slot problem found in one pass. errors.Is(err, ErrInvalidInput) holds.
type ValidationError struct {
	Message string
	Slots   []SlotError
}

// NewValidationError returns a ValidationError with only a message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	if len(e.Slots) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Slots))
	for _, s := range e.Slots {
		parts = append(parts, s.Time+": "+s.Error)
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
