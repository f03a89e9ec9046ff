package forms

import (
	"errors"
	"strings"
)

// FieldError is a validation failure on one input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every field that failed, in form order. It is
// returned before any request is made.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

var errInvalidForm = errors.New("form is invalid")

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Err.Error()
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return e.Err.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// UserMessage is the first field's message.
func (e *ValidationError) UserMessage() string {
	if len(e.Fields) == 0 {
		return e.Err.Error()
	}
	return e.Fields[0].Message
}

// For returns the message for field, if it failed.
func (e *ValidationError) For(field string) (string, bool) {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message, true
		}
	}
	return "", false
}
