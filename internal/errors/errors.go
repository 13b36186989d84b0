// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidSensitivity = errors.New("sensitivity out of range")
	ErrSeriesTooShort     = errors.New("series too short")
	ErrSymbolNotFound     = errors.New("symbol not found")
	ErrDataNotFound       = errors.New("data not found")
	ErrDatabaseError      = errors.New("database error")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrPositionNotFound   = errors.New("position not found")
	ErrAccountNotFound    = errors.New("account not found")
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrConnectionFailed   = errors.New("connection failed")
	ErrRateLimited        = errors.New("rate limited")
	ErrTimeout            = errors.New("operation timed out")
	ErrInputValidation    = errors.New("input validation failed")
)

// DataError represents a data-related error.
type DataError struct {
	DataType string
	Symbol   string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.DataType, e.Symbol, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.DataType, e.Symbol, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, symbol, message string, err error) *DataError {
	return &DataError{
		DataType: dataType,
		Symbol:   symbol,
		Message:  message,
		Err:      err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// LedgerError represents a failure while recording a trade against the
// account ledger.
type LedgerError struct {
	Account string
	Symbol  string
	Action  string
	Reason  string
	Err     error
}

func (e *LedgerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ledger error [%s] %s %s: %s: %v", e.Account, e.Action, e.Symbol, e.Reason, e.Err)
	}
	return fmt.Sprintf("ledger error [%s] %s %s: %s", e.Account, e.Action, e.Symbol, e.Reason)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

// NewLedgerError creates a new LedgerError.
func NewLedgerError(account, symbol, action, reason string, err error) *LedgerError {
	return &LedgerError{
		Account: account,
		Symbol:  symbol,
		Action:  action,
		Reason:  reason,
		Err:     err,
	}
}

// FetchError represents an error from a market data provider.
type FetchError struct {
	Provider string
	Symbol   string
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch error [%s] %s (status %d): %v", e.Provider, e.Symbol, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch error [%s] %s (status %d)", e.Provider, e.Symbol, e.Status)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError.
func NewFetchError(provider, symbol string, status int, err error) *FetchError {
	return &FetchError{
		Provider: provider,
		Symbol:   symbol,
		Status:   status,
		Err:      err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
