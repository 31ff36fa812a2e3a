package schema

import (
	"fmt"
	"math/big"

	"go.jacobcolvin.com/schema/ast"
)

// Schema describes a data shape. The type parameter A is the decoded Go
// type: exact for leaves, refinements, and transforms, and the runtime
// representation ([]any, map[string]any) for containers. A Schema is an
// immutable value wrapping an [ast.Node]; combinators return new schemas.
type Schema[A any] struct {
	node ast.Node
}

// AST returns the underlying node.
func (s Schema[A]) AST() ast.Node {
	return s.node
}

// Any forgets the decoded type. Useful when a container's runtime
// representation diverges from its declared parameter, such as structs
// with symbol-keyed fields.
func (s Schema[A]) Any() Schema[any] {
	return Schema[any]{node: s.node}
}

// AnySchema is the untyped view of a schema, implemented by every
// [Schema] instantiation.
type AnySchema interface {
	AST() ast.Node
}

// Make wraps a node in a typed schema. The caller asserts that the node
// decodes to A; the library's own constructors maintain this by design,
// and [Decode] re-checks at the boundary.
func Make[A any](n ast.Node) Schema[A] {
	return Schema[A]{node: n}
}

// mustNode unwraps a constructor result. Construction failures are
// programmer errors and panic with a descriptive message.
func mustNode[N ast.Node](n N, err error) N {
	if err != nil {
		panic(fmt.Errorf("schema: %w", err))
	}

	return n
}

// Never accepts no value.
func Never() Schema[any] { return Schema[any]{node: ast.NeverKeyword} }

// Unknown accepts every value.
func Unknown() Schema[any] { return Schema[any]{node: ast.UnknownKeyword} }

// Any accepts every value.
func Any() Schema[any] { return Schema[any]{node: ast.AnyKeyword} }

// Void accepts only nil.
func Void() Schema[any] { return Schema[any]{node: ast.VoidKeyword} }

// Undefined accepts only nil.
func Undefined() Schema[any] { return Schema[any]{node: ast.UndefinedKeyword} }

// String accepts strings.
func String() Schema[string] { return Schema[string]{node: ast.StringKeyword} }

// Number accepts numbers. Integer inputs normalize to float64.
func Number() Schema[float64] { return Schema[float64]{node: ast.NumberKeyword} }

// Boolean accepts booleans.
func Boolean() Schema[bool] { return Schema[bool]{node: ast.BooleanKeyword} }

// BigInt accepts [*big.Int] values.
func BigInt() Schema[*big.Int] { return Schema[*big.Int]{node: ast.BigIntKeyword} }

// Symbol accepts [*ast.Symbol] values.
func Symbol() Schema[*ast.Symbol] { return Schema[*ast.Symbol]{node: ast.SymbolKeyword} }

// Object accepts any map or slice value.
func Object() Schema[any] { return Schema[any]{node: ast.ObjectKeyword} }

// Null accepts only null (nil).
func Null() Schema[any] {
	return Schema[any]{node: mustNode(ast.NewLiteral(nil))}
}

// Literal accepts exactly the given primitive constants (string, number,
// boolean, nil, or *big.Int); several values form a union. Invalid
// constant types panic.
func Literal(values ...any) Schema[any] {
	if len(values) == 0 {
		return Never()
	}

	members := make([]ast.Node, 0, len(values))

	for _, v := range values {
		members = append(members, mustNode(ast.NewLiteral(v)))
	}

	return Schema[any]{node: ast.NewUnion(members...)}
}

// EnumMember is one (name, value) pair of an enum.
type EnumMember = ast.EnumMember

// Enums accepts exactly the declared member values.
func Enums(members ...EnumMember) Schema[any] {
	return Schema[any]{node: ast.NewEnums(members)}
}

// UniqueSymbol accepts exactly one symbol identity.
func UniqueSymbol(sym *ast.Symbol) Schema[*ast.Symbol] {
	return Schema[*ast.Symbol]{node: ast.NewUniqueSymbol(sym)}
}

// TemplateLiteral accepts strings matching the concatenation of its
// parts: string parts match themselves, schema parts must be the string
// or number schema (possibly refined) and match that span's alphabet.
//
//	schema.TemplateLiteral("id-", schema.Number())
//
// accepts "id-1", "id-42", and so on. Invalid span schemas panic.
func TemplateLiteral(parts ...any) Schema[string] {
	var (
		head    string
		spans   []ast.TemplateLiteralSpan
		started bool
	)

	for _, part := range parts {
		switch p := part.(type) {
		case string:
			if !started {
				head += p
			} else {
				spans[len(spans)-1].Literal += p
			}

		case AnySchema:
			spans = append(spans, ast.TemplateLiteralSpan{Type: p.AST()})
			started = true

		default:
			panic(fmt.Errorf("schema: template literal part must be string or schema, got %T", part))
		}
	}

	return Schema[string]{node: mustNode(ast.NewTemplateLiteral(head, spans))}
}
