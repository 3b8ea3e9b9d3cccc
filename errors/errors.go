// seehuhn.de/go/fpdamage - synthetic damage for fingerprint images
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package errors defines the coded errors reported by the damage
// generators and the command line tool.
//
// Every failure which reaches a caller carries a machine-readable [Code].
// Retry loops inside the generators never surface an error unless their
// attempt bound is exhausted.
//
//	err := errors.New(errors.ErrCodeGeometryInfeasible, "no endpoints after %d attempts", n)
//	if errors.Is(err, errors.ErrCodeGeometryInfeasible) {
//	    // skip this image
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

// Error codes.
const (
	// ErrCodeInputUnavailable means no usable raster was supplied.
	ErrCodeInputUnavailable Code = "INPUT_UNAVAILABLE"

	// ErrCodeGeometryInfeasible means a bounded search for a valid curve
	// placement ran out of attempts.
	ErrCodeGeometryInfeasible Code = "GEOMETRY_INFEASIBLE"

	// ErrCodeUnsupportedCombination means the requested parameters cannot
	// be combined, for example distortion of a thick scar.
	ErrCodeUnsupportedCombination Code = "UNSUPPORTED_COMBINATION"

	// ErrCodeDegenerateMask means no fingerprint region was found.
	ErrCodeDegenerateMask Code = "DEGENERATE_MASK"

	// ErrCodeInvalidConfig marks invalid configuration values.
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// ErrCodeIO marks failures reading or writing files.
	ErrCodeIO Code = "IO_FAILURE"
)

// Error is an error with a code and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates an Error which wraps cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether some error in the chain of err has the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the code of the first *Error in the chain of err,
// or the empty string if there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of err without the code prefix.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
