package services

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
)

var validate = validator.New()

// fieldChecks collects field errors so a request reports every problem at once.
type fieldChecks struct {
	errs []apierr.FieldError
}

func (f *fieldChecks) add(field, message string) {
	f.errs = append(f.errs, apierr.FieldError{Field: field, Message: message})
}

func (f *fieldChecks) required(field, value, message string) bool {
	if strings.TrimSpace(value) == "" {
		f.add(field, message)
		return false
	}
	return true
}

func (f *fieldChecks) maxLen(field, value string, max int, message string) {
	if utf8.RuneCountInString(value) > max {
		f.add(field, message)
	}
}

func (f *fieldChecks) email(field, value, message string) {
	if err := validate.Var(value, "required,email"); err != nil {
		f.add(field, message)
	}
}

// nonNegative reports whether v is a finite number >= 0. NaN fails the comparison.
func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

func (f *fieldChecks) err() error {
	if len(f.errs) == 0 {
		return nil
	}
	return apierr.Validation(f.errs...)
}
