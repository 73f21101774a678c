// Package validation wires go-playground/validator as the echo request
// validator. Unlike the default setup it collects every failing field into a
// map so a response can report all problems at once, and it reads the
// human-readable message for each field from a `msg` struct tag.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "blogapi/internal/errors"
)

var httpURLPattern = regexp.MustCompile(`^https?://.+`)

// Validator implements echo.Validator.
type Validator struct {
	validate *validator.Validate
}

// New builds the request validator with the custom rules registered.
func New() *Validator {
	v := validator.New()

	// trimmed-length bounds; request bodies are validated before any
	// normalization, so the rules trim for themselves
	_ = v.RegisterValidation("trimmin", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(strings.TrimSpace(fl.Field().String())) >= n
	})
	_ = v.RegisterValidation("trimmax", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(strings.TrimSpace(fl.Field().String())) <= n
	})

	// optional http(s) URL: empty after trimming is fine
	_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		if s == "" {
			return true
		}
		return httpURLPattern.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Validate implements the echo.Validator interface. On failure it returns a
// *ValidationError mapping json field names to their messages.
func (cv *Validator) Validate(i interface{}) error {
	err := cv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	t := reflect.TypeOf(i)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		message := fe.Error()
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			if j := strings.Split(sf.Tag.Get("json"), ",")[0]; j != "" && j != "-" {
				name = j
			}
			if m := sf.Tag.Get("msg"); m != "" {
				message = m
			}
		}
		fields[name] = message
	}

	return &apperrors.ValidationError{Fields: fields}
}
