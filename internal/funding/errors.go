package funding

import (
	"errors"
	"fmt"

	"github.com/koleka/koleka/internal/momo"
)

// Kind classifies a funding failure for the HTTP boundary.
type Kind string

const (
	KindValidation           Kind = "validation"
	KindNotFound             Kind = "not_found"
	KindPaymentNotSuccessful Kind = "payment_not_successful"
	KindStorage              Kind = "storage"
)

// Error is the single failure type Fund returns. Exactly one human-readable
// message per kind; the raw provider payload never leaks into it.
type Error struct {
	Kind     Kind
	Outcome  momo.Outcome // set for payment failures
	TimedOut bool
	Detail   string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from an error returned by Fund.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}

func validationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Detail: fmt.Sprintf(format, args...)}
}

func notFoundError() *Error {
	return &Error{Kind: KindNotFound, Detail: "Campaign not found"}
}

func paymentError(outcome momo.Outcome, timedOut bool) *Error {
	return &Error{
		Kind:     KindPaymentNotSuccessful,
		Outcome:  outcome,
		TimedOut: timedOut,
		Detail:   fmt.Sprintf("Payment not successful: %s", outcome),
	}
}

func storageError(err error) *Error {
	return &Error{Kind: KindStorage, Detail: "Transaction failed", Err: err}
}
