// Package validator wraps go-playground/validator with json field names and
// the money rules used by house payloads.
package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// yuanPattern matches a non-negative amount of at most eight integer digits
// and two decimals, the precision that survives conversion to fen.
var yuanPattern = regexp.MustCompile(`^\d{1,8}(\.\d{1,2})?$`)

var engine = sync.OnceValue(newEngine)

// ValidationError is one failed rule on one field, named by its json key.
type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param"`
}

func (e ValidationError) String() string {
	if e.Param == "" {
		return e.Field + " failed on " + e.Tag
	}
	return e.Field + " failed on " + e.Tag + "=" + e.Param
}

// ValidationErrors collects every failed rule of one struct.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(v))
	for i, failure := range v {
		parts[i] = failure.String()
	}
	return strings.Join(parts, "; ")
}

// Has reports whether any failure concerns field.
func (v ValidationErrors) Has(field string) bool {
	for _, failure := range v {
		if failure.Field == field {
			return true
		}
	}
	return false
}

// ValidateStruct runs the validate tags of s. Rule failures come back as
// ValidationErrors; anything else, such as a non-struct argument, is returned
// unchanged.
func ValidateStruct(s any) error {
	err := engine().Struct(s)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	failures := make(ValidationErrors, len(fieldErrs))
	for i, fe := range fieldErrs {
		failures[i] = ValidationError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()}
	}
	return failures
}

// IsYuan reports whether value is a valid yuan amount.
func IsYuan(value string) bool {
	return yuanPattern.MatchString(strings.TrimSpace(value))
}

// RegisterValidation adds a custom rule to the shared engine.
func RegisterValidation(tag string, fn validator.Func) error {
	return engine().RegisterValidation(tag, fn)
}

func newEngine() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	// yuan only accepts string kinds, so json.Number amounts keep their text.
	_ = v.RegisterValidation("yuan", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		return field.Kind() == reflect.String && IsYuan(field.String())
	})
	return v
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}
