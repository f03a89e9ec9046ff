package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Phone is a phone number as a digit string. The backend stores phone
// numbers as integers, so it may send either a JSON number or a string.
type Phone string

func (p *Phone) UnmarshalJSON(b []byte) error {
	s, err := numericText(b)
	if err != nil {
		return fmt.Errorf("phone: %w", err)
	}
	*p = Phone(s)
	return nil
}

// NumericID is an integer id the backend may send as a JSON number or as a
// numeric string.
type NumericID int64

func (id *NumericID) UnmarshalJSON(b []byte) error {
	s, err := numericText(b)
	if err != nil {
		return fmt.Errorf("id: %w", err)
	}
	if s == "" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("id: %q is not an integer", s)
	}
	*id = NumericID(n)
	return nil
}

// Decimal is a money or percentage amount kept in its textual form
// ("150000.00") to avoid float rounding.
type Decimal string

func (d *Decimal) UnmarshalJSON(b []byte) error {
	s, err := numericText(b)
	if err != nil {
		return fmt.Errorf("decimal: %w", err)
	}
	*d = Decimal(s)
	return nil
}

func numericText(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return "", nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// DigitsOnly strips everything but ASCII digits, turning "+998 (90) 123-45-67"
// into "998901234567".
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
