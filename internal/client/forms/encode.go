package forms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/eduadmin/internal/client/client"
	"github.com/dmitrijs2005/eduadmin/internal/client/models"
)

// Upload attaches a local file to a form field.
type Upload struct {
	Field string
	Path  string
}

// Encode returns the request body for form: the form itself (sent as JSON)
// when there are no uploads, otherwise a multipart body with the form's
// fields in declaration order followed by the files.
func Encode(form any, uploads ...Upload) (any, error) {
	if len(uploads) == 0 {
		return form, nil
	}

	raw, err := json.Marshal(form)
	if err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}

	mp := &client.Multipart{}
	for _, name := range jsonNames(form) {
		v, ok := values[name]
		if !ok || v == nil {
			continue
		}
		mp.AddField(name, fmt.Sprint(v))
	}

	for _, u := range uploads {
		data, err := os.ReadFile(u.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", u.Field, err)
		}
		mp.AddFile(u.Field, filepath.Base(u.Path), bytes.NewReader(data))
	}
	return mp, nil
}

// jsonNames lists the json field names of a struct in declaration order.
func jsonNames(form any) []string {
	t := reflect.TypeOf(form)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	names := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		if name := jsonName(t.Field(i)); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func jsonName(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// NormalizePhone reduces input to digits and adds the 998 country code to
// a bare 9-digit local number.
func NormalizePhone(s string) string {
	d := models.DigitsOnly(s)
	if len(d) == 9 {
		return "998" + d
	}
	return d
}
