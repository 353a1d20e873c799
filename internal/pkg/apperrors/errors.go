package apperrors

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers translate these to HTTP statuses.
var (
	ErrResourceNotFound  = errors.New("resource not found")
	ErrProcessingFailure = errors.New("avatar processing failed")
	ErrValidationFailed  = errors.New("validation failed")
)

// Entity names a kind of record that can be looked up by id.
type Entity string

const (
	EntityStudent Entity = "student"
	EntityFaculty Entity = "faculty"
	EntityAvatar  Entity = "avatar"
)

// notFoundMessages are part of the public wire contract and must not change.
var notFoundMessages = map[Entity]string{
	EntityStudent: "Студент с id = %d не найден",
	EntityFaculty: "Факультет с id = %d не найден",
	EntityAvatar:  "Аватар с id = %d не найден",
}

// NotFoundError is returned when a lookup by id yields no row.
type NotFoundError struct {
	Entity Entity
	ID     int64
}

// Error implements error interface
func (e *NotFoundError) Error() string {
	if format, ok := notFoundMessages[e.Entity]; ok {
		return fmt.Sprintf(format, e.ID)
	}
	return fmt.Sprintf("%s with id = %d not found", e.Entity, e.ID)
}

// Unwrap implements errors.Unwrap interface
func (e *NotFoundError) Unwrap() error {
	return ErrResourceNotFound
}

func NewStudentNotFound(id int64) error {
	return &NotFoundError{Entity: EntityStudent, ID: id}
}

func NewFacultyNotFound(id int64) error {
	return &NotFoundError{Entity: EntityFaculty, ID: id}
}

func NewAvatarNotFound(id int64) error {
	return &NotFoundError{Entity: EntityAvatar, ID: id}
}

// ProcessingError wraps an I/O failure while handling avatar files.
// The cause is only ever logged, never sent to clients.
type ProcessingError struct {
	Op  string
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Is makes errors.Is(err, ErrProcessingFailure) match.
func (e *ProcessingError) Is(target error) bool {
	return target == ErrProcessingFailure
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// NewProcessingError creates a ProcessingError for the given operation.
func NewProcessingError(op string, err error) error {
	return &ProcessingError{Op: op, Err: err}
}

// NewValidationError creates a validation failure with a message.
func NewValidationError(message string) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, message)
}
