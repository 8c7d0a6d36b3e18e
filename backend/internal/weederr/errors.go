// Package weederr provides the typed errors shared by the filtering engine,
// the storage layer and the interactive session.
package weederr

import (
	"errors"
	"fmt"
)

// Kind is the category of an error.
type Kind string

const (
	// KindConfig marks an invalid answer or option: bad enum choice, column out of range.
	// The session re-asks the same question.
	KindConfig Kind = "config"
	// KindParse marks cell text that does not fit the configured date layout or integer shape.
	KindParse Kind = "parse"
	// KindArithmetic marks an age that cannot be computed (zero or negative elapsed years).
	KindArithmetic Kind = "arithmetic"
	// KindIO marks a read or write failure on a table file.
	KindIO Kind = "io"
)

// Error is a structured error carrying the offending field and value.
type Error struct {
	Kind    Kind
	Field   string
	Value   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Field != "" {
		msg += ": " + e.Field
	}
	msg += ": " + e.Message
	if e.Value != "" {
		msg += fmt.Sprintf(" (%q)", e.Value)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Config returns a configuration error for field.
func Config(field, value, message string) *Error {
	return &Error{Kind: KindConfig, Field: field, Value: value, Message: message}
}

// Parse returns a parse error for the offending text.
func Parse(field, value string, cause error) *Error {
	return &Error{Kind: KindParse, Field: field, Value: value, Message: "cannot parse value", Cause: cause}
}

// Degenerate returns an arithmetic error for an age that cannot be computed.
func Degenerate(field, value, message string) *Error {
	return &Error{Kind: KindArithmetic, Field: field, Value: value, Message: message}
}

// IO wraps a file failure on path.
func IO(path string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindIO, Field: "path", Value: path, Message: "file operation failed", Cause: err}
}

// Wrap attaches a kind and message to err. If err already is an *Error its
// field and value are kept.
func Wrap(err error, kind Kind, message string) *Error {
	if err == nil {
		return nil
	}
	wrapped := &Error{Kind: kind, Message: message, Cause: err}
	var existing *Error
	if errors.As(err, &existing) {
		wrapped.Field = existing.Field
		wrapped.Value = existing.Value
	}
	return wrapped
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}
