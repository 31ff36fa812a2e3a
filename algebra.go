package schema

import (
	"fmt"

	"go.jacobcolvin.com/schema/ast"
)

// Union accepts values matching any member, tried in declared order.
// The union is normalized: nested unions flatten, never members drop,
// structural duplicates collapse, and an unknown or any member absorbs
// the rest.
func Union(members ...AnySchema) Schema[any] {
	nodes := make([]ast.Node, 0, len(members))

	for _, m := range members {
		nodes = append(nodes, m.AST())
	}

	return Schema[any]{node: ast.NewUnion(nodes...)}
}

// Nullable accepts null or a value matching s.
func Nullable(s AnySchema) Schema[any] {
	return Union(Null(), s)
}

// Keyof accepts the property names of a struct-like schema: a union of
// string literals and unique symbols. For unions it is the intersection
// of the member key sets. Unsupported schemas panic.
func Keyof(s AnySchema) Schema[any] {
	return Schema[any]{node: mustNode(ast.Keyof(s.AST()))}
}

// Pick keeps only the named keys of a struct-like schema, distributing
// over unions. Unknown keys panic.
func Pick(s AnySchema, keys ...string) Schema[map[string]any] {
	return Schema[map[string]any]{node: mustNode(ast.Pick(s.AST(), stringKeys(keys)...))}
}

// Omit removes the named keys of a struct-like schema, distributing over
// unions.
func Omit(s AnySchema, keys ...string) Schema[map[string]any] {
	return Schema[map[string]any]{node: mustNode(ast.Omit(s.AST(), stringKeys(keys)...))}
}

// Partial makes every field of a struct-like schema optional (every
// element, for tuples), distributing over unions.
func Partial(s AnySchema) Schema[map[string]any] {
	return Schema[map[string]any]{node: mustNode(ast.Partial(s.AST()))}
}

// Extend merges the fields of two struct-like schemas, distributing over
// unions on either side. Conflicting duplicate keys panic; identical
// duplicate signatures collapse to one.
func Extend(a, b AnySchema) Schema[map[string]any] {
	return Schema[map[string]any]{node: mustNode(ast.Extend(a.AST(), b.AST()))}
}

func stringKeys(keys []string) []ast.PropertyKey {
	out := make([]ast.PropertyKey, 0, len(keys))

	for _, k := range keys {
		out = append(out, ast.StringKey(k))
	}

	return out
}

// Lazy defers schema construction until first use, enabling recursive
// definitions:
//
//	var tree schema.Schema[map[string]any]
//	tree = schema.Lazy(func() schema.Schema[map[string]any] {
//		return schema.Struct(
//			schema.Field("value", schema.Number()),
//			schema.Field("next", schema.Nullable(tree)),
//		)
//	})
//
// Interpreters force the thunk once per compilation.
func Lazy[A any](thunk func() Schema[A]) Schema[A] {
	return Schema[A]{node: ast.NewLazy(func() ast.Node {
		return thunk().AST()
	})}
}

// assertTo converts an interpreter-produced value to A at a transform or
// filter boundary.
func assertTo[A any](v any) (A, error) {
	a, ok := v.(A)
	if !ok && v != nil {
		var zero A

		return zero, fmt.Errorf("schema: value %T does not fit %T", v, zero)
	}

	return a, nil
}
