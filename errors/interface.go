/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package errors

import (
	"errors"
	"fmt"
)

const (
	defaultPattern      = "[%d] %s"
	defaultPatternTrace = "[%d] %s (%s)"
)

// FuncMap iterates an error hierarchy; returning false stops the walk.
type FuncMap func(e error) bool

// Error extends the standard error with a numeric code, parent chaining,
// and call-site trace information. It is the type every internal driver
// failure path returns.
//
// Methods that read state are safe for concurrent use; Add/SetParent are not.
type Error interface {
	error

	// IsCode reports whether this error's own code equals code (parents not checked).
	IsCode(code CodeError) bool
	// HasCode reports whether this error or any parent has code.
	HasCode(code CodeError) bool
	// GetCode returns this error's own code.
	GetCode() CodeError
	// GetParentCode returns the codes of this error and all of its parents, deduplicated.
	GetParentCode() []CodeError

	// Is implements compatibility with the standard errors.Is.
	Is(e error) bool
	// IsError reports whether e has the same message as this error (no code match).
	IsError(e error) bool
	// HasError reports whether err's message appears anywhere in the parent chain.
	HasError(err error) bool
	// HasParent reports whether this error has at least one parent.
	HasParent() bool
	// GetParent returns the flattened parent chain, optionally including this error.
	GetParent(withMainError bool) []error
	// Map visits this error then each parent depth-first until fct returns false.
	Map(fct FuncMap) bool
	// ContainsString reports whether s appears in this error's message or any parent's.
	ContainsString(s string) bool

	// Add appends non-nil errors as parents of this error.
	Add(parent ...error)
	// SetParent replaces the parent list wholesale.
	SetParent(parent ...error)

	// Code returns the numeric code as a plain uint16.
	Code() uint16
	// CodeSlice returns the codes of this error and its direct parents as uint16.
	CodeSlice() []uint16

	// CodeError renders "[code] message" using pattern (or the default pattern if empty).
	CodeError(pattern string) string
	// CodeErrorSlice renders CodeError for this error and each parent.
	CodeErrorSlice(pattern string) []string
	// CodeErrorTrace renders "[code] message (trace)" using pattern.
	CodeErrorTrace(pattern string) string
	// CodeErrorTraceSlice renders CodeErrorTrace for this error and each parent.
	CodeErrorTraceSlice(pattern string) []string

	// Error implements the standard error interface.
	Error() string
	// StringError returns this error's own message, ignoring parents.
	StringError() string
	// StringErrorSlice returns this error's own message followed by Error() of each direct parent.
	StringErrorSlice() []string

	// GetError returns a plain error carrying this error's message (no code, no parent).
	GetError() error
	// GetErrorSlice flattens this error and its parents into plain errors.
	GetErrorSlice() []error
	// Unwrap returns the direct parents, for the standard errors.Is / errors.As (errors.Unwrap ignores this []error form).
	Unwrap() []error

	// GetTrace returns "file#line" (or "function#line") for the call site that created this error.
	GetTrace() string
	// GetTraceSlice returns GetTrace for this error and each parent.
	GetTraceSlice() []string
}

// Is reports whether e can be asserted to Error.
func Is(e error) bool {
	var err Error
	return errors.As(e, &err)
}

// Get returns e as an Error if it is one, else nil.
func Get(e error) Error {
	var err Error
	if errors.As(e, &err) {
		return err
	}
	return nil
}

// Has reports whether e is (or wraps) an Error carrying code.
func Has(e error, code CodeError) bool {
	if err := Get(e); err == nil {
		return false
	} else {
		return err.HasCode(code)
	}
}

// IsCode reports whether e's own code equals code.
func IsCode(e error, code CodeError) bool {
	if err := Get(e); err == nil {
		return false
	} else {
		return err.IsCode(code)
	}
}

// Make wraps e as an Error, reusing it unchanged if it already is one.
func Make(e error) Error {
	if e == nil {
		return nil
	}

	var err Error
	if errors.As(e, &err) {
		return err
	}

	return &ers{
		c: 0,
		e: e.Error(),
		p: nil,
		t: getNilFrame(),
	}
}

// MakeIfError folds a list of errors (possibly all nil) into a single Error, or nil.
func MakeIfError(err ...error) Error {
	var e Error

	for _, p := range err {
		if p == nil {
			continue
		} else if e == nil {
			e = Make(p)
		} else {
			e.Add(p)
		}
	}

	return e
}

// New creates an Error with code, message, and optional parents, capturing the caller's frame.
func New(code CodeError, message string, parent ...error) Error {
	p := make([]Error, 0, len(parent))
	for _, e := range parent {
		if er := Make(e); er != nil {
			p = append(p, er)
		}
	}

	return &ers{
		c: code.Uint16(),
		e: message,
		p: p,
		t: getFrame(),
	}
}

// Newf is New with an fmt.Sprintf-formatted message.
func Newf(code CodeError, pattern string, args ...any) Error {
	return &ers{
		c: code.Uint16(),
		e: fmt.Sprintf(pattern, args...),
		p: make([]Error, 0),
		t: getFrame(),
	}
}

// Wrap is New followed by Add(parent...), as a single expression for call
// sites that need to attach a cause without a separate statement.
func Wrap(code CodeError, message string, parent ...error) Error {
	e := New(code, message)
	e.Add(parent...)
	return e
}
