// Package forms holds the create/edit forms of every resource, their client
// side validation and the encoding of their request bodies.
package forms

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var (
	notBlankTag  = "notblank"
	phoneTag     = "phone"
	moneyTag     = "money"
	weekdaysTag  = "weekdays"
	dateTag      = "date"
	clockTag     = "clock"
	afterDateTag = "date_not_before_start"
	afterTimeTag = "time_after_start"
	payXorTag    = "salary_xor_percentage"
	anyRoleTag   = "one_role"
	requiredTag  = "required"

	phoneRegex = regexp.MustCompile(`^998[0-9]{9}$`)
	moneyRegex = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,2})?$`)

	customTexts = map[string]string{
		notBlankTag:  "{0} cannot be blank",
		phoneTag:     "{0} must be 12 digits starting with 998",
		moneyTag:     "{0} must be a non-negative amount",
		weekdaysTag:  "{0} must be distinct digits from 1 to 7",
		dateTag:      "{0} must be a date like 2025-01-31",
		clockTag:     "{0} must be a time like 14:30",
		afterDateTag: "{0} cannot be earlier than start_date",
		afterTimeTag: "{0} must be later than course_start_time",
		payXorTag:    "set either salary or percentage, not both",
		anyRoleTag:   "select at least one role",
		requiredTag:  "{0} is required",
	}
)

// Validator checks forms and renders failures in English.
type Validator struct {
	v  *validator.Validate
	tr ut.Translator
}

func NewValidator() *Validator {
	validate := validator.New()

	english := en.New()
	uni := ut.New(english, english)
	tr, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, tr)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = validate.RegisterValidation(phoneTag, regexValidation(phoneRegex))
	_ = validate.RegisterValidation(moneyTag, regexValidation(moneyRegex))
	_ = validate.RegisterValidation(weekdaysTag, weekdaysValidation)
	_ = validate.RegisterValidation(dateTag, layoutValidation(dateLayout))
	_ = validate.RegisterValidation(clockTag, layoutValidation(timeLayout))

	validate.RegisterStructValidation(groupStructValidation, GroupForm{})
	validate.RegisterStructValidation(teacherStructValidation, TeacherForm{})
	validate.RegisterStructValidation(staffStructValidation, StaffForm{})

	for tag, text := range customTexts {
		registerCustomTranslation(validate, tr, tag, text)
	}

	return &Validator{v: validate, tr: tr}
}

// registerCustomTranslation sets the message for tag, replacing the default
// English one where there is any.
func registerCustomTranslation(validate *validator.Validate, tr ut.Translator, tag, text string) {
	_ = validate.RegisterTranslation(
		tag, tr,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Validate checks form and returns a *ValidationError listing every failed
// field, or nil.
func (v *Validator) Validate(form any) error {
	err := v.v.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Err: err}
	}

	out := &ValidationError{Err: errInvalidForm}
	seen := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		if seen[fe.Field()] {
			continue
		}
		seen[fe.Field()] = true
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: fe.Translate(v.tr)})
	}
	return out
}

// Custom validators

func notBlankValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func regexValidation(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func layoutValidation(layout string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, err := time.Parse(layout, fl.Field().String())
		return err == nil
	}
}

// weekdaysValidation accepts a non-empty string of distinct digits 1..7,
// e.g. "135".
func weekdaysValidation(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return false
	}
	var seen [8]bool
	for _, r := range s {
		if r < '1' || r > '7' {
			return false
		}
		d := r - '0'
		if seen[d] {
			return false
		}
		seen[d] = true
	}
	return true
}

// Struct level validations

func groupStructValidation(sl validator.StructLevel) {
	g, ok := sl.Current().Interface().(GroupForm)
	if !ok {
		return
	}
	if g.Create && g.Price == "" {
		sl.ReportError(g.Price, "price", "Price", requiredTag, "")
	}

	start, err1 := time.Parse(dateLayout, g.StartDate)
	end, err2 := time.Parse(dateLayout, g.EndDate)
	if err1 == nil && err2 == nil && end.Before(start) {
		sl.ReportError(g.EndDate, "end_date", "EndDate", afterDateTag, "")
	}

	from, err1 := time.Parse(timeLayout, g.CourseStartTime)
	to, err2 := time.Parse(timeLayout, g.CourseEndTime)
	if err1 == nil && err2 == nil && !to.After(from) {
		sl.ReportError(g.CourseEndTime, "course_end_time", "CourseEndTime", afterTimeTag, "")
	}
}

// reportPayXor rejects a form that sets both pay fields. Setting neither is
// allowed and leaves the default to the form or the backend.
func reportPayXor(sl validator.StructLevel, salary, percentage string) {
	if salary != "" && percentage != "" {
		sl.ReportError(salary, "salary", "Salary", payXorTag, "")
	}
}

func teacherStructValidation(sl validator.StructLevel) {
	t, ok := sl.Current().Interface().(TeacherForm)
	if !ok {
		return
	}
	if t.Create && t.Password == "" {
		sl.ReportError(t.Password, "password", "Password", requiredTag, "")
	}
	reportPayXor(sl, t.Salary, t.Percentage)
}

func staffStructValidation(sl validator.StructLevel) {
	s, ok := sl.Current().Interface().(StaffForm)
	if !ok {
		return
	}
	if s.Create && s.Password == "" {
		sl.ReportError(s.Password, "password", "Password", requiredTag, "")
	}
	if !s.IsCEO && !s.IsAdmin && !s.IsTeacher {
		sl.ReportError(s.IsCEO, "roles", "Roles", anyRoleTag, "")
	}
	reportPayXor(sl, s.Salary, s.Percentage)
}
