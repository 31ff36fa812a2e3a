package schema

import (
	"fmt"
	"math"
	"regexp"
	"unicode/utf8"

	"github.com/google/jsonschema-go/jsonschema"
)

// Built-in refinements. Each narrows a schema with a predicate, a default
// failure message, and a JSON Schema fragment picked up by the JSON
// Schema interpreter. Extra annotations overlay the defaults.

// MinLength requires at least n characters (by rune count).
func MinLength(s Schema[string], n int, anns ...Annotation) Schema[string] {
	return filterWith(s,
		func(v string) bool { return utf8.RuneCountInString(v) >= n },
		&jsonschema.Schema{MinLength: jsonschema.Ptr(n)},
		func(actual any) string {
			return fmt.Sprintf("Expected a string at least %d character(s) long, actual %v", n, actual)
		},
		anns)
}

// MaxLength requires at most n characters (by rune count).
func MaxLength(s Schema[string], n int, anns ...Annotation) Schema[string] {
	return filterWith(s,
		func(v string) bool { return utf8.RuneCountInString(v) <= n },
		&jsonschema.Schema{MaxLength: jsonschema.Ptr(n)},
		func(actual any) string {
			return fmt.Sprintf("Expected a string at most %d character(s) long, actual %v", n, actual)
		},
		anns)
}

// Pattern requires the string to match re.
func Pattern(s Schema[string], re *regexp.Regexp, anns ...Annotation) Schema[string] {
	return filterWith(s,
		re.MatchString,
		&jsonschema.Schema{Pattern: re.String()},
		func(actual any) string {
			return fmt.Sprintf("Expected a string matching %s, actual %v", re, actual)
		},
		anns)
}

// GreaterThan requires the number to exceed min.
func GreaterThan(s Schema[float64], min float64, anns ...Annotation) Schema[float64] {
	return filterWith(s,
		func(v float64) bool { return v > min },
		&jsonschema.Schema{ExclusiveMinimum: jsonschema.Ptr(min)},
		func(actual any) string {
			return fmt.Sprintf("Expected a number greater than %v, actual %v", min, actual)
		},
		anns)
}

// GreaterThanOrEqualTo requires the number to be at least min.
func GreaterThanOrEqualTo(s Schema[float64], min float64, anns ...Annotation) Schema[float64] {
	return filterWith(s,
		func(v float64) bool { return v >= min },
		&jsonschema.Schema{Minimum: jsonschema.Ptr(min)},
		func(actual any) string {
			return fmt.Sprintf("Expected a number at least %v, actual %v", min, actual)
		},
		anns)
}

// LessThan requires the number to be below max.
func LessThan(s Schema[float64], max float64, anns ...Annotation) Schema[float64] {
	return filterWith(s,
		func(v float64) bool { return v < max },
		&jsonschema.Schema{ExclusiveMaximum: jsonschema.Ptr(max)},
		func(actual any) string {
			return fmt.Sprintf("Expected a number less than %v, actual %v", max, actual)
		},
		anns)
}

// LessThanOrEqualTo requires the number to be at most max.
func LessThanOrEqualTo(s Schema[float64], max float64, anns ...Annotation) Schema[float64] {
	return filterWith(s,
		func(v float64) bool { return v <= max },
		&jsonschema.Schema{Maximum: jsonschema.Ptr(max)},
		func(actual any) string {
			return fmt.Sprintf("Expected a number at most %v, actual %v", max, actual)
		},
		anns)
}

// Int requires the number to be a finite integer.
func Int(s Schema[float64], anns ...Annotation) Schema[float64] {
	return filterWith(s,
		func(v float64) bool { return !math.IsInf(v, 0) && !math.IsNaN(v) && v == math.Trunc(v) },
		&jsonschema.Schema{Type: "integer"},
		func(actual any) string {
			return fmt.Sprintf("Expected an integer, actual %v", actual)
		},
		anns)
}

// MinItems requires at least n elements.
func MinItems(s Schema[[]any], n int, anns ...Annotation) Schema[[]any] {
	return filterWith(s,
		func(v []any) bool { return len(v) >= n },
		&jsonschema.Schema{MinItems: jsonschema.Ptr(n)},
		func(actual any) string {
			return fmt.Sprintf("Expected an array with at least %d element(s), actual %v", n, actual)
		},
		anns)
}

// MaxItems requires at most n elements.
func MaxItems(s Schema[[]any], n int, anns ...Annotation) Schema[[]any] {
	return filterWith(s,
		func(v []any) bool { return len(v) <= n },
		&jsonschema.Schema{MaxItems: jsonschema.Ptr(n)},
		func(actual any) string {
			return fmt.Sprintf("Expected an array with at most %d element(s), actual %v", n, actual)
		},
		anns)
}

func filterWith[A any](s Schema[A], pred func(A) bool, fragment *jsonschema.Schema, msg func(any) string, anns []Annotation) Schema[A] {
	defaults := []Annotation{JSONSchema(fragment), Message(msg)}

	return Filter(s, pred, append(defaults, anns...)...)
}
