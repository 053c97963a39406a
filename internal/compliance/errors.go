package compliance

import (
	"errors"
	"fmt"
)

// Kind tags a compliance error with its failure class. Handlers use the
// kind, not the concrete message, to decide how a failure surfaces.
type Kind string

const (
	KindPurchaseOrderNotFound Kind = "purchase_order_not_found"
	KindCompanyNotFound       Kind = "company_not_found"
	KindProductNotFound       Kind = "product_not_found"
	KindTemplateNotFound      Kind = "template_not_found"
	KindValidation            Kind = "validation"
	KindRiskAssessment        Kind = "risk_assessment"
	KindMassBalance           Kind = "mass_balance"
	// KindComplianceData is the catch-all for infrastructure, rendering and
	// persistence failures. It always carries the original cause.
	KindComplianceData Kind = "compliance_data"
)

// Error is the tagged error carried through every layer of the report
// engine. Field is set for validation failures, Cause for wrapped ones.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s (field %s)", msg, e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func newValidationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

func wrapError(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// wrapData wraps an infrastructure failure as the catch-all kind, keeping
// the original cause for diagnostics.
func wrapData(cause error, message string) *Error {
	return wrapError(KindComplianceData, cause, message)
}

// KindOf extracts the compliance error kind from an error chain. Errors
// from outside the engine report KindComplianceData.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindComplianceData
}

// IsClientError reports whether the failure is recoverable by the caller
// (missing entities, rejected input) as opposed to an engine-side failure.
func IsClientError(err error) bool {
	switch KindOf(err) {
	case KindPurchaseOrderNotFound, KindCompanyNotFound, KindProductNotFound,
		KindTemplateNotFound, KindValidation:
		return true
	default:
		return false
	}
}
