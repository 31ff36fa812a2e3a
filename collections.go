package schema

import (
	"fmt"

	"go.jacobcolvin.com/schema/ast"
)

// StructField describes one property of a [Struct]: a key, a schema, and
// optional/readonly markers. Fields are value objects; the marker methods
// return modified copies.
type StructField struct {
	key      ast.PropertyKey
	schema   AnySchema
	optional bool
	readOnly bool
}

// Field creates a required string-keyed field.
func Field(name string, s AnySchema) StructField {
	return StructField{key: ast.StringKey(name), schema: s}
}

// SymbolField creates a required symbol-keyed field.
func SymbolField(sym *ast.Symbol, s AnySchema) StructField {
	return StructField{key: ast.SymbolKey(sym), schema: s}
}

// Optional marks the field optional: an absent key decodes successfully
// and is omitted from the output.
func (f StructField) Optional() StructField {
	f.optional = true

	return f
}

// ReadOnly marks the field read-only at the type level.
func (f StructField) ReadOnly() StructField {
	f.readOnly = true

	return f
}

// Struct accepts objects with the declared fields, in declared order.
// Unrecognized keys follow the excess property policy of the decode call.
// The decoded value is a fresh map[string]any; structs with symbol-keyed
// fields decode to map[any]any instead (retype with [Schema.Any]).
// Duplicate field keys panic.
func Struct(fields ...StructField) Schema[map[string]any] {
	props := make([]ast.PropertySignature, 0, len(fields))

	for _, f := range fields {
		props = append(props, ast.PropertySignature{
			Key:      f.key,
			Type:     f.schema.AST(),
			Optional: f.optional,
			ReadOnly: f.readOnly,
		})
	}

	return Schema[map[string]any]{node: mustNode(ast.NewTypeLiteral(props, nil))}
}

// TupleElement describes one fixed element of a [Tuple].
type TupleElement struct {
	schema   AnySchema
	optional bool
}

// Element creates a required tuple element.
func Element(s AnySchema) TupleElement {
	return TupleElement{schema: s}
}

// OptionalElement creates an optional tuple element. Optional elements
// must follow all required ones.
func OptionalElement(s AnySchema) TupleElement {
	return TupleElement{schema: s, optional: true}
}

// Tuple accepts arrays with the declared elements in order. The decoded
// value is a fresh []any. Malformed element order panics.
func Tuple(elements ...TupleElement) Schema[[]any] {
	els := make([]ast.TupleElement, 0, len(elements))

	for _, e := range elements {
		els = append(els, ast.TupleElement{Type: e.schema.AST(), Optional: e.optional})
	}

	return Schema[[]any]{node: mustNode(ast.NewTuple(els, nil, false))}
}

// Rest extends a tuple with a rest segment: any number of rest values
// after the fixed elements, then the trailing elements at the very end.
// The receiver must be a plain tuple without an existing rest segment.
func Rest(t Schema[[]any], rest AnySchema, trailing ...AnySchema) Schema[[]any] {
	tup, ok := t.AST().(*ast.Tuple)
	if !ok {
		panic(fmt.Errorf("schema: rest requires a tuple, got %s", t.AST().Kind()))
	}

	if len(tup.Rest) > 0 {
		panic(fmt.Errorf("schema: %w: tuple already has a rest segment", ast.ErrMalformedTuple))
	}

	restNodes := make([]ast.Node, 0, 1+len(trailing))
	restNodes = append(restNodes, rest.AST())

	for _, tr := range trailing {
		restNodes = append(restNodes, tr.AST())
	}

	out := mustNode(ast.NewTuple(tup.Elements, restNodes, tup.ReadOnly))

	return Schema[[]any]{node: ast.MergeAnnotations(out, tup.Annotations())}
}

// Array accepts arrays of any length whose elements all match item.
func Array(item AnySchema) Schema[[]any] {
	return Schema[[]any]{node: mustNode(ast.NewTuple(nil, []ast.Node{item.AST()}, false))}
}

// NonEmptyArray accepts arrays with at least one element matching item.
func NonEmptyArray(item AnySchema) Schema[[]any] {
	elements := []ast.TupleElement{{Type: item.AST()}}

	return Schema[[]any]{node: mustNode(ast.NewTuple(elements, []ast.Node{item.AST()}, false))}
}

// Record accepts objects whose keys match key and whose values match
// value. Literal and unique symbol keys become property signatures;
// string, symbol, template literal, and refined keys become index
// signatures. Unions of keys distribute across both. Unsupported key
// schemas panic.
func Record(key, value AnySchema) Schema[map[string]any] {
	var (
		props   []ast.PropertySignature
		indexes []ast.IndexSignature
	)

	valueNode := value.AST()

	add := func(k ast.Node) {
		switch kn := k.(type) {
		case *ast.Literal:
			name, ok := kn.Value.(string)
			if !ok {
				panic(fmt.Errorf("schema: %w: record key literal %s", ast.ErrInvalidParameter, kn.Value))
			}

			props = append(props, ast.PropertySignature{Key: ast.StringKey(name), Type: valueNode})

		case *ast.UniqueSymbol:
			props = append(props, ast.PropertySignature{Key: ast.SymbolKey(kn.Symbol), Type: valueNode})

		default:
			indexes = append(indexes, ast.IndexSignature{Parameter: k, Type: valueNode})
		}
	}

	if u, ok := key.AST().(*ast.Union); ok {
		for _, m := range u.Members {
			add(m)
		}
	} else {
		add(key.AST())
	}

	return Schema[map[string]any]{node: mustNode(ast.NewTypeLiteral(props, indexes))}
}
