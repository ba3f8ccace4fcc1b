package controller

import (
	"strconv"

	"github.com/pkg/errors"
)

// RangeError reports a value outside the range it must lie in. It is the only
// error kind the procedures raise on their own.
type RangeError struct {
	Name  string
	Value string
}

func newRangeError(name string, v int) *RangeError {
	return &RangeError{Name: name, Value: strconv.Itoa(v)}
}

func (e *RangeError) Error() string {
	return "the " + e.Name + " value of " + e.Value + " is out of range"
}

// Message is the console line reported for the error.
func (e *RangeError) Message() string {
	return "ERROR: The " + e.Name + " value of " + e.Value + " is out of range."
}

// IsRangeError reports whether err, or anything it wraps, is a *RangeError.
func IsRangeError(err error) bool {
	var re *RangeError
	return errors.As(err, &re)
}
