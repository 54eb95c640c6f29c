package errors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrInvalidTerms         = errors.New("invalid loan terms")
	ErrLockState            = errors.New("invalid payment lock state")
	ErrOverpayment          = errors.New("payment exceeds payoff amount")
	ErrMinimumNotMet        = errors.New("minimum payment was not made")
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")
	ErrEmptyLoanSet         = errors.New("list of loans cannot be empty")
	ErrNoFundsScheduled     = errors.New("no scheduled payment exists for this pay cycle")
	ErrInsufficientFunds    = errors.New("scheduled payment does not cover minimum payments")
	ErrInvalidRequest       = errors.New("invalid simulation request")
	ErrRunNotFound          = errors.New("simulation run not found")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeInvalidTerms         = "INVALID_TERMS"
	ErrCodeLockState            = "LOCK_STATE"
	ErrCodeOverpayment          = "OVERPAYMENT"
	ErrCodeMinimumNotMet        = "MINIMUM_NOT_MET"
	ErrCodeInvalidPaymentAmount = "INVALID_PAYMENT_AMOUNT"
	ErrCodeEmptyLoanSet         = "EMPTY_LOAN_SET"
	ErrCodeNoFundsScheduled     = "NO_FUNDS_SCHEDULED"
	ErrCodeInsufficientFunds    = "INSUFFICIENT_FUNDS"
	ErrCodeInvalidRequest       = "INVALID_REQUEST"
	ErrCodeRunNotFound          = "RUN_NOT_FOUND"
	ErrCodeDatabaseError        = "DATABASE_ERROR"
	ErrCodeCacheError           = "CACHE_ERROR"
)

// Code returns the business error code carried by err, or "" if there is none.
func Code(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

func WrapInvalidTerms(message string) *BusinessError {
	return NewBusinessError(ErrCodeInvalidTerms, message, ErrInvalidTerms)
}

func WrapLockState(loanKey, message string) *BusinessError {
	return NewBusinessError(
		ErrCodeLockState,
		fmt.Sprintf("Loan %s: %s", loanKey, message),
		ErrLockState,
	)
}

func WrapOverpayment(loanKey string, payment, payoff decimal.Decimal) *BusinessError {
	return NewBusinessError(
		ErrCodeOverpayment,
		fmt.Sprintf("Payment %s to loan %s exceeds payoff amount %s", payment.StringFixed(2), loanKey, payoff.StringFixed(2)),
		ErrOverpayment,
	)
}

func WrapMinimumNotMet(loanKey string, paid, minimum decimal.Decimal) *BusinessError {
	return NewBusinessError(
		ErrCodeMinimumNotMet,
		fmt.Sprintf("Loan %s received %s this pay cycle, minimum payment is %s", loanKey, paid.StringFixed(2), minimum.StringFixed(2)),
		ErrMinimumNotMet,
	)
}

func WrapInvalidPaymentAmount(amount decimal.Decimal) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPaymentAmount,
		fmt.Sprintf("Invalid payment amount: %s", amount.StringFixed(2)),
		ErrInvalidPaymentAmount,
	)
}

func WrapEmptyLoanSet() *BusinessError {
	return NewBusinessError(ErrCodeEmptyLoanSet, "a schedule needs at least one loan", ErrEmptyLoanSet)
}

func WrapNoFundsScheduled(date string) *BusinessError {
	return NewBusinessError(
		ErrCodeNoFundsScheduled,
		fmt.Sprintf("No scheduled payment for pay date %s", date),
		ErrNoFundsScheduled,
	)
}

func WrapInsufficientFunds(date string, moneypot, required decimal.Decimal) *BusinessError {
	return NewBusinessError(
		ErrCodeInsufficientFunds,
		fmt.Sprintf("Pay date %s has %s scheduled but minimum payments total %s", date, moneypot.StringFixed(2), required.StringFixed(2)),
		ErrInsufficientFunds,
	)
}

func WrapInvalidRequest(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidRequest,
		"simulation request failed validation",
		fmt.Errorf("%w: %v", ErrInvalidRequest, err),
	)
}

func WrapRunNotFound(runID string) *BusinessError {
	return NewBusinessError(
		ErrCodeRunNotFound,
		fmt.Sprintf("Simulation run %s not found", runID),
		ErrRunNotFound,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
