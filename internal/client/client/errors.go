package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	ErrUnavailable        = errors.New("server unavailable")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// GenericFailure is shown when nothing more specific is known.
const GenericFailure = "Something went wrong"

// FieldError is one field-keyed message from a backend rejection.
type FieldError struct {
	Field   string
	Message string
}

// APIError is a non-2xx response.
type APIError struct {
	Status int
	// Fields keeps the order in which the backend listed them.
	Fields []FieldError
	// Detail is a general (non-field) message, if any.
	Detail string
}

func (e *APIError) Error() string {
	switch {
	case len(e.Fields) > 0:
		return fmt.Sprintf("api error %d: %s: %s", e.Status, e.Fields[0].Field, e.Fields[0].Message)
	case e.Detail != "":
		return fmt.Sprintf("api error %d: %s", e.Status, e.Detail)
	default:
		return fmt.Sprintf("api error %d", e.Status)
	}
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// UserMessage is the first field error if any, else the general detail,
// else GenericFailure.
func (e *APIError) UserMessage() string {
	if len(e.Fields) > 0 {
		f := e.Fields[0]
		if f.Field == "" {
			return f.Message
		}
		return f.Field + ": " + f.Message
	}
	if e.Detail != "" {
		return e.Detail
	}
	return GenericFailure
}

// generalKeys carry messages that are not bound to an input field.
var generalKeys = map[string]bool{
	"detail":           true,
	"message":          true,
	"error":            true,
	"non_field_errors": true,
}

// newAPIError builds an APIError from a response, reading at most 64KiB of
// its body. Keys are walked in document order so "first field error" means
// the first one the backend wrote.
func newAPIError(status int, body io.Reader) *APIError {
	e := &APIError{Status: status}
	raw, _ := io.ReadAll(io.LimitReader(body, 64<<10))
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return e
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return e
	}
	switch tok {
	case json.Delim('{'):
	case json.Delim('['):
		var msgs []json.RawMessage
		if json.Unmarshal(raw, &msgs) == nil && len(msgs) > 0 {
			e.Detail = firstMessage(msgs[0])
		}
		return e
	default:
		if s, ok := tok.(string); ok {
			e.Detail = s
		}
		return e
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return e
		}
		key, _ := keyTok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return e
		}
		msg := firstMessage(value)
		if msg == "" {
			continue
		}
		if generalKeys[key] {
			if e.Detail == "" {
				e.Detail = msg
			}
			continue
		}
		e.Fields = append(e.Fields, FieldError{Field: key, Message: msg})
	}
	return e
}

// firstMessage digs the first string out of a string, list or object value.
func firstMessage(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	var list []json.RawMessage
	if json.Unmarshal(raw, &list) == nil {
		for _, item := range list {
			if m := firstMessage(item); m != "" {
				return m
			}
		}
		return ""
	}
	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) == nil {
		for _, k := range []string{"detail", "message"} {
			if v, ok := obj[k]; ok {
				return firstMessage(v)
			}
		}
	}
	return ""
}

// Message turns any error returned by the console's services into the text
// shown to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, ErrInvalidCredentials) {
		return "Login failed: check your phone number and password."
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status == http.StatusUnauthorized {
			return "Your session has expired. Please log in again."
		}
		return apiErr.UserMessage()
	}

	var um interface{ UserMessage() string }
	switch {
	case errors.As(err, &um):
		return um.UserMessage()
	case errors.Is(err, context.DeadlineExceeded):
		return "The server took too long to answer."
	case errors.Is(err, ErrUnavailable):
		return "Server is unreachable. Check your connection."
	case errors.Is(err, ErrUnauthorized):
		return "Your session has expired. Please log in again."
	case errors.Is(err, ErrForbidden):
		return "You do not have permission to do that."
	case errors.Is(err, ErrNotFound):
		return "Not found."
	}
	return GenericFailure
}
