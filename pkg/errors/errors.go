// Package errors provides common, reusable error values and helpers.
package errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Entity lookup errors
	ErrPurchaseOrderNotFound = errors.New("purchase order not found")
	ErrCompanyNotFound       = errors.New("company not found")
	ErrProductNotFound       = errors.New("product not found")
	ErrHSCodeNotFound        = errors.New("hs code not found")

	// Template errors
	ErrTemplateNotFound = errors.New("compliance template not found")
	ErrTemplateInactive = errors.New("compliance template is not active")

	// Report errors
	ErrReportNotFound      = errors.New("compliance report not found")
	ErrReportAlreadyExists = errors.New("compliance report already exists")

	// Reference data errors
	ErrRegulationNotSupported = errors.New("regulation type not supported")
)

// New creates a new error with the given message
func New(message string) error {
	return errors.New(message)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
