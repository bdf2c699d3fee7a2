package models

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

// Canonical textual UUID: version nibble 1-5, variant nibble 8/9/a/b
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[1-5][0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Messages that replace the generic per-tag wording for specific fields
var fieldMessages = map[string]string{
	"rating": "Rating must be 1–5",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON names so clients see the keys they sent
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("canonical_uuid", func(fl validator.FieldLevel) bool {
		return IsUUID(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register canonical_uuid validation: %v", err))
	}

	return v
}

// IsUUID reports whether value is a canonical version 1-5 UUID string
func IsUUID(value string) bool {
	return uuidRegex.MatchString(value)
}

// ParseRating converts a loosely typed JSON value into a 1-5 star rating.
// It returns 0 for anything that is not an integer in range.
func ParseRating(value interface{}) int {
	switch value.(type) {
	case nil, bool:
		return 0
	}

	f, err := cast.ToFloat64E(value)
	if err != nil {
		if s, ok := value.(string); ok {
			f, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		}
		if err != nil {
			return 0
		}
	}

	if f != math.Trunc(f) || f < 1 || f > 5 {
		return 0
	}
	return int(f)
}

// TruncateRunes caps s at max characters without splitting a multi-byte rune
func TruncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// SanitizeString removes extra whitespace and trims the string
func SanitizeString(s string) string {
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(s), " ")
}

// NormalizePostcode upper-cases a postcode and collapses internal whitespace
func NormalizePostcode(postcode string) string {
	return strings.ToUpper(SanitizeString(postcode))
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// OptionalText trims s and caps it at max characters; blank input yields nil
func OptionalText(s string, max int) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if max > 0 {
		s = TruncateRunes(s, max)
	}
	return &s
}

// ValidateStruct runs the struct tag rules and converts failures into a *ValidationError.
// All missing required fields are reported together; otherwise the first failing field wins.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err
	}

	var missing []string
	for _, fe := range validationErrors {
		if isMissing(fe) {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return &ValidationError{
			Field:   strings.Join(missing, ","),
			Message: "Missing: " + strings.Join(missing, ", "),
		}
	}

	return formatFieldError(validationErrors[0])
}

// isMissing treats an empty list with a lower bound like an absent field
func isMissing(fe validator.FieldError) bool {
	if fe.Tag() == "required" {
		return true
	}
	return fe.Tag() == "min" && fe.Kind() == reflect.Slice
}

func formatFieldError(fe validator.FieldError) *ValidationError {
	field := fe.Field()
	ve := &ValidationError{Field: field, Value: fe.Value()}

	if msg, ok := fieldMessages[field]; ok {
		ve.Message = msg
		return ve
	}

	switch fe.Tag() {
	case "canonical_uuid":
		ve.Message = fmt.Sprintf("Invalid %s (not a UUID)", field)
	case "min":
		ve.Message = fmt.Sprintf("%s must be at least %s characters.", capitalize(field), fe.Param())
	case "max":
		ve.Message = fmt.Sprintf("%s cannot exceed %s characters", capitalize(field), fe.Param())
	case "oneof":
		ve.Message = fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		ve.Message = fmt.Sprintf("Invalid %s", field)
	}

	// Never echo secrets back to the caller
	if field == "password" {
		ve.Value = nil
	}
	return ve
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
