package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"go-pos-ws/pkg/validator"

	"gorm.io/gorm"
)

// Error kinds surfaced to handlers. Concrete errors wrap one of these with
// fmt.Errorf("%w: ...") so callers can classify them with errors.Is.
var (
	ErrValidation  = errors.New("validation failed")
	ErrConflict    = errors.New("conflict")
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence failure")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// persistence logs the storage failure and hides driver details from the caller.
// Errors that already carry a kind pass through untouched so a rollback
// triggered by a validation failure keeps its 4xx meaning.
func persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(op)
	}
	log.Printf("[ERROR] %s: %v", op, err)
	return fmt.Errorf("%w: %s", ErrPersistence, op)
}

// structError validates req and turns the first failing field into an ErrValidation.
func structError(req any) error {
	errs := validator.ValidateStruct(req)
	if len(errs) == 0 {
		return nil
	}
	first := errs[0]
	return validationError("field '%s' failed on tag '%s'", first.FailedField, first.Tag)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
