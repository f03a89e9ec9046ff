package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is one list response. The backend answers list endpoints either
// with a bare JSON array or with a paginated envelope
// {"count": n, "next": url, "previous": url, "results": [...]}; Page
// accepts both.
type Page[T any] struct {
	Results []T
	// Count is the server-side total; for bare arrays it equals len(Results).
	Count    int
	Next     string
	Previous string
}

type pageEnvelope[T any] struct {
	Count    *int    `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  *[]T    `json:"results"`
}

func (p *Page[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*p = Page[T]{Results: []T{}}
		return nil
	}

	switch b[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*p = Page[T]{Results: items, Count: len(items)}
		return nil
	case '{':
		var env pageEnvelope[T]
		if err := json.Unmarshal(b, &env); err != nil {
			return err
		}
		if env.Results == nil {
			return fmt.Errorf("list response has no results field")
		}
		out := Page[T]{Results: *env.Results, Count: len(*env.Results)}
		if env.Count != nil {
			out.Count = *env.Count
		}
		if env.Next != nil {
			out.Next = *env.Next
		}
		if env.Previous != nil {
			out.Previous = *env.Previous
		}
		if out.Results == nil {
			out.Results = []T{}
		}
		*p = out
		return nil
	default:
		return fmt.Errorf("unexpected list response starting with %q", b[0])
	}
}
