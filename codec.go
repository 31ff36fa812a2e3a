package schema

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"

	"go.jacobcolvin.com/schema/parse"
)

// Sentinel errors returned by the codec helpers.
var (
	// ErrInvalidJSON indicates the input is not valid JSON syntax.
	ErrInvalidJSON = errors.New("invalid json")
	// ErrInvalidYAML indicates the input is not valid YAML syntax.
	ErrInvalidYAML = errors.New("invalid yaml")
)

// Decode validates input against s and returns the decoded value. On
// failure the error is a *[parse.ParseError] carrying the failure tree.
//
// Decode compiles s on every call; hot paths should compile once with
// [parse.Compile] and reuse the parser.
func Decode[A any](s Schema[A], input any, opts ...parse.Option) (A, error) {
	return unwrapAs[A](parse.Compile(s.AST()).Decode(input, opts...))
}

// Encode maps a decoded value back to the schema's input domain.
func Encode[A any](s Schema[A], value A, opts ...parse.Option) (any, error) {
	return parse.Compile(s.AST()).Encode(value, opts...).Unwrap()
}

// Is returns a structural predicate for s. For schemas containing a
// transform the predicate is defined against the raw input domain.
func Is[A any](s Schema[A]) func(any) bool {
	return parse.Is(s.AST())
}

// Asserts validates input against s, returning the failure as an error
// and nil on success.
func Asserts[A any](s Schema[A], input any, opts ...parse.Option) error {
	_, err := Decode(s, input, opts...)

	return err
}

// MustDecode is like [Decode] but panics on failure, with the formatted
// failure tree as the message.
func MustDecode[A any](s Schema[A], input any, opts ...parse.Option) A {
	v, err := Decode(s, input, opts...)
	if err != nil {
		panic(fmt.Errorf("schema: decode: %w", err))
	}

	return v
}

// MustEncode is like [Encode] but panics on failure.
func MustEncode[A any](s Schema[A], value A, opts ...parse.Option) any {
	v, err := Encode(s, value, opts...)
	if err != nil {
		panic(fmt.Errorf("schema: encode: %w", err))
	}

	return v
}

// UnmarshalJSON parses JSON bytes and decodes the result against s.
// JSON objects arrive as map[string]any and numbers as float64, matching
// the decoder's host value domain.
func UnmarshalJSON[A any](s Schema[A], data []byte, opts ...parse.Option) (A, error) {
	var raw any

	if err := json.Unmarshal(data, &raw); err != nil {
		var zero A

		return zero, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	return Decode(s, raw, opts...)
}

// MarshalJSON encodes value through s and marshals the result to JSON.
func MarshalJSON[A any](s Schema[A], value A, opts ...parse.Option) ([]byte, error) {
	encoded, err := Encode(s, value, opts...)
	if err != nil {
		return nil, err
	}

	return json.Marshal(encoded)
}

// UnmarshalYAML parses YAML bytes and decodes the result against s.
// Mappings arrive as map[string]any; integer scalars normalize into the
// number domain during decode.
func UnmarshalYAML[A any](s Schema[A], data []byte, opts ...parse.Option) (A, error) {
	var raw any

	if err := yaml.Unmarshal(data, &raw); err != nil {
		var zero A

		return zero, fmt.Errorf("%w: %w", ErrInvalidYAML, err)
	}

	return Decode(s, raw, opts...)
}

// unwrapAs converts a parse result to (A, error).
func unwrapAs[A any](r parse.Result) (A, error) {
	v, err := r.Unwrap()
	if err != nil {
		var zero A

		return zero, err
	}

	return assertTo[A](v)
}
