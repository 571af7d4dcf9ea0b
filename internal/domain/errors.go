package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrConflict         = errors.New("conflict")
	ErrValidation       = errors.New("validation error")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
)

// PermissionError reports an ownership violation on a layout item.
type PermissionError struct {
	Project string
	Owner   string
	Actor   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: this item is owned by '%s'", e.Owner)
}

func (e *PermissionError) Is(target error) bool {
	return target == ErrPermissionDenied
}

// Validationf returns an error matching ErrValidation with a caller facing message.
func Validationf(format string, args ...any) error {
	return &categoryError{category: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// NotFoundf returns an error matching ErrNotFound with a caller facing message.
func NotFoundf(format string, args ...any) error {
	return &categoryError{category: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

// Conflictf returns an error matching ErrConflict with a caller facing message.
func Conflictf(format string, args ...any) error {
	return &categoryError{category: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

// Unauthorizedf returns an error matching ErrUnauthorized.
func Unauthorizedf(format string, args ...any) error {
	return &categoryError{category: ErrUnauthorized, msg: fmt.Sprintf(format, args...)}
}

// Forbiddenf returns an error matching ErrPermissionDenied for checks that
// are not about layout ownership.
func Forbiddenf(format string, args ...any) error {
	return &categoryError{category: ErrPermissionDenied, msg: fmt.Sprintf(format, args...)}
}

type categoryError struct {
	category error
	msg      string
}

func (e *categoryError) Error() string { return e.msg }

func (e *categoryError) Is(target error) bool { return target == e.category }
