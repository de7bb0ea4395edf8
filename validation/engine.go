package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"technuob.com/atomlift/atomlift/v1/common"
)

// Form fields describe themselves with struct tags:
//
//	validate     go-playground rules, plus the custom tags registered below
//	label        the name shown to the user
//	msg_required message when the field is blank
//	msg_invalid  message when the field is filled in but wrong
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})
	// A dropdown selection is "filled in" when it carries an id.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if s, ok := field.Interface().(common.Selection); ok {
			return s.ID
		}
		return nil
	}, common.Selection{})

	custom := map[string]validator.Func{
		"notblank":   notBlank,
		"mobile":     func(fl validator.FieldLevel) bool { return ValidateMobileNumber(fl.Field().String()) },
		"mobile10":   func(fl validator.FieldLevel) bool { return tenDigits(fl.Field().String()) },
		"emailshape": func(fl validator.FieldLevel) bool { return ValidateEmail(fl.Field().String()) },
		"posnum":     positiveNumber,
		"posint":     positiveInteger,
		"isodate":    isoDate,
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register validation %s: %v", tag, err))
		}
	}
	return v
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() == reflect.String {
		return strings.TrimSpace(field.String()) != ""
	}
	return field.IsValid() && !field.IsZero()
}

// positiveNumber accepts plain decimals only, so exponents, hex floats and "Inf" are out.
func positiveNumber(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if strings.Trim(s, "0123456789.") != "" {
		return false
	}
	n, err := strconv.ParseFloat(s, 64)
	return err == nil && n > 0 && !math.IsInf(n, 0) && !math.IsNaN(n)
}

func positiveInteger(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
	return err == nil && n > 0
}

func isoDate(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}

func tenDigits(s string) bool {
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits == 10
}

// FieldError is one rejected form field.
type FieldError struct {
	Field   string
	Label   string
	Tag     string
	Message string
}

// ValidationError is returned before any request is sent. Error gives the message a user should
// see: the first failing field, or for forms that report missing fields together, the list of them.
type ValidationError struct {
	Fields   []FieldError
	Combined bool
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	if e.Combined {
		var missing []string
		for _, f := range e.Fields {
			if f.Tag == "required" {
				missing = append(missing, f.Label)
			}
		}
		if len(missing) > 0 {
			return "Please fill in the following required fields: " + strings.Join(missing, ", ")
		}
	}
	return e.Fields[0].Message
}

// Field returns the error recorded for the named struct field, if any.
func (e *ValidationError) Field(name string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldError{}, false
}

// check validates form and merges in errors the caller computed itself (cross-field rules).
// The result is ordered like the form's fields so the first error is the topmost one.
func check(form any, combined bool, extra ...FieldError) error {
	t := reflect.TypeOf(form)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	var fields []FieldError
	if err := validate.Struct(form); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			return err
		}
		for _, fe := range ves {
			fields = append(fields, formatFieldError(t, fe))
		}
	}
	for _, x := range extra {
		if !hasField(fields, x.Field) {
			fields = append(fields, x)
		}
	}
	if len(fields) == 0 {
		return nil
	}

	sort.SliceStable(fields, func(i, j int) bool {
		return fieldIndex(t, fields[i].Field) < fieldIndex(t, fields[j].Field)
	})
	return &ValidationError{Fields: fields, Combined: combined}
}

func formatFieldError(t reflect.Type, fe validator.FieldError) FieldError {
	sf, _ := t.FieldByName(fe.StructField())
	label := fe.Field()
	value, _ := fe.Value().(string)

	out := FieldError{Field: fe.StructField(), Label: label, Tag: fe.Tag()}
	switch fe.Tag() {
	case "notblank", "required":
		out.Tag = "required"
		out.Message = sf.Tag.Get("msg_required")
		if out.Message == "" {
			out.Message = fmt.Sprintf("Please enter %s", strings.ToLower(label))
		}
		return out
	}

	out.Message = sf.Tag.Get("msg_invalid")
	if out.Message != "" {
		return out
	}
	switch fe.Tag() {
	case "mobile":
		out.Message = GetMobileNumberError(value)
	case "emailshape":
		out.Message = GetEmailError(value)
	case "isodate":
		out.Message = fmt.Sprintf("%s must be a date (YYYY-MM-DD)", label)
	default:
		out.Message = fmt.Sprintf("Please enter a valid %s", strings.ToLower(label))
	}
	return out
}

// invalid builds a cross-field error with the same label lookup as struct tag errors.
func invalid(form any, field, message string) FieldError {
	t := reflect.TypeOf(form)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	sf, _ := t.FieldByName(field)
	label := sf.Tag.Get("label")
	if label == "" {
		label = field
	}
	return FieldError{Field: field, Label: label, Tag: "invalid", Message: message}
}

func required(form any, field string) FieldError {
	fe := invalid(form, field, "")
	t := reflect.TypeOf(form)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	sf, _ := t.FieldByName(field)
	fe.Tag = "required"
	fe.Message = sf.Tag.Get("msg_required")
	if fe.Message == "" {
		fe.Message = fmt.Sprintf("Please enter %s", strings.ToLower(fe.Label))
	}
	return fe
}

func hasField(fields []FieldError, name string) bool {
	for _, f := range fields {
		if f.Field == name {
			return true
		}
	}
	return false
}

func fieldIndex(t reflect.Type, name string) int {
	if sf, ok := t.FieldByName(name); ok && len(sf.Index) > 0 {
		return sf.Index[0]
	}
	return t.NumField()
}
