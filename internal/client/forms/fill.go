package forms

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Asker prompts for one field. current is the field's present value; an
// empty answer keeps it and "-" clears it.
type Asker func(label, current string) (string, error)

const clearValue = "-"

// Fill prompts for every field of the struct pointed to by form that has a
// form label, in declaration order. Fields keep their values on an empty
// answer, so a form left over from a failed submit is a ready draft.
func Fill(form any, ask Asker) error {
	v := reflect.ValueOf(form)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("fill: want pointer to struct, got %T", form)
	}
	v = v.Elem()
	t := v.Type()

	var failed []FieldError
	for i := range t.NumField() {
		sf := t.Field(i)
		label := sf.Tag.Get("form")
		if label == "" || label == "-" || !sf.IsExported() {
			continue
		}

		fv := v.Field(i)
		answer, err := ask(label, display(fv))
		if err != nil {
			return err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			continue
		}

		name := jsonName(sf)
		if err := assign(fv, answer); err != nil {
			failed = append(failed, FieldError{Field: name, Message: fmt.Sprintf("%s %s", name, err)})
			continue
		}
		if name == "phone_number" && fv.Kind() == reflect.String {
			fv.SetString(NormalizePhone(fv.String()))
		}
	}

	if len(failed) > 0 {
		return &ValidationError{Err: errInvalidForm, Fields: failed}
	}
	return nil
}

func display(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return ""
		}
		return display(v.Elem())
	case reflect.Bool:
		if v.Bool() {
			return "yes"
		}
		return "no"
	case reflect.Int, reflect.Int64:
		if v.Int() == 0 {
			return ""
		}
		return strconv.FormatInt(v.Int(), 10)
	case reflect.String:
		return v.String()
	default:
		return fmt.Sprint(v.Interface())
	}
}

func assign(v reflect.Value, answer string) error {
	if answer == clearValue {
		v.SetZero()
		return nil
	}

	switch v.Kind() {
	case reflect.String:
		v.SetString(answer)
	case reflect.Bool:
		b, err := parseBool(answer)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(answer, 10, 64)
		if err != nil {
			return fmt.Errorf("must be a whole number")
		}
		v.SetInt(n)
	case reflect.Pointer:
		elem := reflect.New(v.Type().Elem())
		if err := assign(elem.Elem(), answer); err != nil {
			return err
		}
		v.Set(elem)
	default:
		return fmt.Errorf("cannot be set from the console")
	}
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "y", "yes", "true", "1", "on":
		return true, nil
	case "n", "no", "false", "0", "off":
		return false, nil
	}
	return false, fmt.Errorf("must be yes or no")
}
