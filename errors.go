package contagiongo

import "fmt"

const (
	// IntKeyNotFoundError is the message for "Integer key not found" errors
	IntKeyNotFoundError = "key %d not found"

	// IntKeyExists is the message printed when a given key already exists
	IntKeyExists = "key %d already exists"

	InvalidFloatParameterError  = "invalid %s %f, %s"
	InvalidIntParameterError    = "invalid %s %d, %s"
	InvalidStringParameterError = "invalid %s %s, %s"
	FileDoesNotExistError       = "file %s does not exist"
	EmptyPathError              = "%s path is empty"
)

const (
	UnequalFloatParameterError  = "expected %s %f, instead got %f"
	UnequalIntParameterError    = "expected %s %d, instead got %d"
	UnequalStringParameterError = "expected %s %s, instead got %s"
	UnexpectedErrorWhileError   = "encountered error while %s: %s"
	ExpectedErrorWhileError     = "expected an error while %s, instead got none"
)

// InvalidArgumentError signals a caller-supplied value outside its valid
// domain (e.g. a non-positive transmission rate passed to EstimateR0).
type InvalidArgumentError struct {
	msg string
}

func NewInvalidArgumentError(format string, args ...interface{}) *InvalidArgumentError {
	return &InvalidArgumentError{msg: fmt.Sprintf(format, args...)}
}

func (e *InvalidArgumentError) Error() string { return e.msg }

// PreconditionViolationError signals an attempt to perform a state
// transition on a node that is not in the state the transition requires.
// Treated as a programming error: returned, never silently corrected.
type PreconditionViolationError struct {
	msg string
}

func NewPreconditionViolationError(format string, args ...interface{}) *PreconditionViolationError {
	return &PreconditionViolationError{msg: fmt.Sprintf(format, args...)}
}

func (e *PreconditionViolationError) Error() string { return e.msg }

// UnsupportedError signals a call to an operation that is not meaningful
// for the receiver (e.g. EstimateR0 on a QSProcess).
type UnsupportedError struct {
	msg string
}

func NewUnsupportedError(format string, args ...interface{}) *UnsupportedError {
	return &UnsupportedError{msg: fmt.Sprintf(format, args...)}
}

func (e *UnsupportedError) Error() string { return e.msg }
