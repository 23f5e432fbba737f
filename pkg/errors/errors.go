package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrLoanNotFound         = errors.New("loan not found")
	ErrLoanClosed           = errors.New("loan is closed")
	ErrNoScheduleData       = errors.New("loan has no installment schedule")
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")
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
	ErrCodeLoanNotFound         = "LOAN_NOT_FOUND"
	ErrCodeLoanClosed           = "LOAN_CLOSED"
	ErrCodeNoScheduleData       = "NO_SCHEDULE_DATA"
	ErrCodeInvalidPaymentAmount = "INVALID_PAYMENT_AMOUNT"
	ErrCodeDataAccess           = "DATA_ACCESS_ERROR"
	ErrCodeCollectionSync       = "COLLECTION_SYNC_ERROR"
	ErrCodeCache                = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapLoanClosed(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanClosed,
		fmt.Sprintf("Loan with ID %s is closed", loanID),
		ErrLoanClosed,
	)
}

func WrapNoScheduleData(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNoScheduleData,
		fmt.Sprintf("Loan with ID %s has no installment schedule", loanID),
		ErrNoScheduleData,
	)
}

func WrapInvalidPaymentAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPaymentAmount,
		fmt.Sprintf("Invalid payment amount: %s", amount),
		ErrInvalidPaymentAmount,
	)
}

func WrapDataAccessError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDataAccess,
		"data access operation failed",
		err,
	)
}

func WrapCollectionSyncError(loanID string, err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCollectionSync,
		fmt.Sprintf("Collection record sync failed for loan %s", loanID),
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCache,
		"Cache operation failed",
		err,
	)
}
