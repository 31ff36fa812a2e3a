package schema

import (
	"go.jacobcolvin.com/schema/ast"
)

// Filter narrows s by a predicate without changing the decoded type.
// Annotations attach to the refinement site; a [Message] annotation
// replaces the default failure message there.
func Filter[A any](s Schema[A], predicate func(A) bool, anns ...Annotation) Schema[A] {
	pred := func(v any) bool {
		a, err := assertTo[A](v)
		if err != nil {
			return false
		}

		return predicate(a)
	}

	return Schema[A]{node: ast.NewRefinement(s.AST(), pred, buildAnnotations(anns))}
}

// Transform maps between two schemas with mappings that cannot fail.
// Decoding runs from's decoder then decode; encoding runs encode then
// from's encoder.
func Transform[A, B any](from Schema[A], to Schema[B], decode func(A) B, encode func(B) A) Schema[B] {
	return TransformOrFail(from, to,
		func(a A) (B, error) { return decode(a), nil },
		func(b B) (A, error) { return encode(b), nil },
	)
}

// Alias wraps s in a transparent named wrapper: decoding delegates to s,
// while the alias annotations (typically an [Identifier]) feed failure
// messages and interpreter extension lookups.
func Alias[A any](s Schema[A], anns ...Annotation) Schema[A] {
	return Schema[A]{node: ast.NewTypeAlias(nil, s.AST(), buildAnnotations(anns))}
}

// TransformOrFail maps between two schemas with fallible mappings. A
// returned error fails the decode (or encode) at the transform site; an
// error produced by [parse.Result.Unwrap] keeps its structured failure
// tree.
func TransformOrFail[A, B any](from Schema[A], to Schema[B], decode func(A) (B, error), encode func(B) (A, error)) Schema[B] {
	dec := func(v any) (any, error) {
		a, err := assertTo[A](v)
		if err != nil {
			return nil, err
		}

		return decode(a)
	}

	enc := func(v any) (any, error) {
		b, err := assertTo[B](v)
		if err != nil {
			return nil, err
		}

		return encode(b)
	}

	return Schema[B]{node: ast.NewTransform(from.AST(), to.AST(), dec, enc)}
}
