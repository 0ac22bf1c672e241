package calculator

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDenominations is returned when no denominations are supplied.
	ErrEmptyDenominations = errors.New("denominations must be a non-empty list")
	// ErrTooManyDenominations is returned when the set exceeds a positive Limits.MaxDenominations.
	ErrTooManyDenominations = errors.New("too many denominations")
	// ErrInvalidDenomination is returned for non-numeric or out-of-range denominations.
	ErrInvalidDenomination = errors.New("denominations must contain only positive integers within the supported range")
	// ErrDuplicateDenomination is returned when two denominations share a value.
	ErrDuplicateDenomination = errors.New("denominations cannot contain duplicate values")
	// ErrMissingUnit is returned when the smallest denomination is not 1.
	ErrMissingUnit = errors.New("denominations must include 1 as the lowest value")
	// ErrInvalidTotal is returned when a total is non-numeric, negative, or above Limits.MaxTotal.
	ErrInvalidTotal = errors.New("total must be a non-negative integer within the supported range")
)

// ErrorKind identifies which validation rule rejected an input.
type ErrorKind int

const (
	KindEmpty ErrorKind = iota + 1
	KindTooManyDenominations
	KindInvalidDenomination
	KindDuplicateDenomination
	KindMissingUnit
	KindInvalidTotal
)

// Category groups error kinds by the call that produces them.
type Category int

const (
	// CategoryConstruction covers failures building an Engine.
	CategoryConstruction Category = iota + 1
	// CategorySolve covers failures of a Solve call on a valid Engine.
	CategorySolve
)

var kindNames = map[ErrorKind]string{
	KindEmpty:                 "empty",
	KindTooManyDenominations:  "too_many_denominations",
	KindInvalidDenomination:   "invalid_denomination",
	KindDuplicateDenomination: "duplicate_denomination",
	KindMissingUnit:           "missing_unit",
	KindInvalidTotal:          "invalid_total",
}

var kindSentinels = map[ErrorKind]error{
	KindEmpty:                 ErrEmptyDenominations,
	KindTooManyDenominations:  ErrTooManyDenominations,
	KindInvalidDenomination:   ErrInvalidDenomination,
	KindDuplicateDenomination: ErrDuplicateDenomination,
	KindMissingUnit:           ErrMissingUnit,
	KindInvalidTotal:          ErrInvalidTotal,
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Category reports whether the kind is raised by construction or by solving.
func (k ErrorKind) Category() Category {
	if k == KindInvalidTotal {
		return CategorySolve
	}
	return CategoryConstruction
}

// ValidationError describes a rejected denomination set or total.
type ValidationError struct {
	Kind ErrorKind
	// Value is the offending input as supplied, when a single value is at fault.
	Value string
	// Detail is appended to the message, e.g. the active limit.
	Detail string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Unwrap().Error()
	if e.Detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Detail)
	}
	if e.Value != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Value)
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	if sentinel, ok := kindSentinels[e.Kind]; ok {
		return sentinel
	}
	return errors.New("validation failed")
}

// KindOf extracts the ErrorKind from err, reporting false when err is not a ValidationError.
func KindOf(err error) (ErrorKind, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Kind, true
	}
	return 0, false
}

func newError(kind ErrorKind, value, detail string) error {
	return &ValidationError{Kind: kind, Value: value, Detail: detail}
}
