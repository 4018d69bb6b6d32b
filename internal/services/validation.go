package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/go-calendar-backend/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidateAppointment checks field formats and the date/startTime agreement.
// It does not look at other appointments.
func ValidateAppointment(a domain.Appointment) error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAppointment, describe(err))
	}
	if domain.DateFromStart(a.StartTime) != a.Date {
		return fmt.Errorf("%w: date %s, startTime %s", ErrDateMismatch, a.Date, a.StartTime)
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "gt":
			parts = append(parts, fe.Field()+" must be greater than "+fe.Param())
		case "datetime":
			parts = append(parts, fmt.Sprintf("%s must match %s", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// normalizeTitle composes to NFC, trims, and collapses runs of whitespace.
func normalizeTitle(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(norm.NFC.String(s)), " ")
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)

// clip truncates s to max runes and drops whitespace left at the cut;
// max <= 0 disables clipping.
func clip(s string, max int) string {
	if max > 0 && utf8.RuneCountInString(s) > max {
		return strings.TrimSpace(string([]rune(s)[:max]))
	}
	return s
}
