// Package pretty interprets a schema node as a printer: a function from
// decoded values to a compact, deterministic string rendering shaped by
// the schema rather than by reflection.
//
// A Pretty annotation on a node replaces the structural printer for that
// subtree. Transforms print their decoded (to) side; refinements print
// their refined schema. Struct output follows declared property order.
package pretty

import (
	"fmt"
	"math/big"
	"slices"
	"strconv"
	"strings"

	"go.jacobcolvin.com/schema/ast"
)

// Pretty is a compiled printer. It is immutable and safe for concurrent
// use.
type Pretty struct {
	node ast.Node
	fn   printFunc
}

type printFunc func(value any, depth int) string

const maxDepth = 32

// New compiles the node into a printer.
func New(n ast.Node) *Pretty {
	c := &compiler{lazy: make(map[*ast.Lazy]*printFunc)}

	return &Pretty{node: n, fn: c.compile(n)}
}

// Format renders a decoded value.
func (p *Pretty) Format(value any) string {
	return p.fn(value, 0)
}

type compiler struct {
	lazy map[*ast.Lazy]*printFunc
}

func (c *compiler) compile(n ast.Node) printFunc {
	if custom, ok := n.Annotations().Get(ast.PrettyAnnotation); ok {
		if f, isFunc := custom.(func(any) string); isFunc {
			return func(value any, _ int) string { return f(value) }
		}
	}

	switch v := n.(type) {
	case *ast.Keyword, *ast.Literal, *ast.Enums, *ast.TemplateLiteral, *ast.UniqueSymbol:
		return func(value any, _ int) string { return Scalar(value) }

	case *ast.Refinement:
		return c.compile(v.From)

	case *ast.Transform:
		return c.compile(v.To)

	case *ast.Tuple:
		return c.compileTuple(v)

	case *ast.TypeLiteral:
		return c.compileTypeLiteral(v)

	case *ast.Union:
		return c.compileUnion(v)

	case *ast.Lazy:
		if entry, ok := c.lazy[v]; ok {
			return deferred(entry)
		}

		entry := new(printFunc)
		c.lazy[v] = entry
		*entry = c.compile(v.Thunk())

		return deferred(entry)

	case *ast.TypeAlias:
		return c.compile(v.Type)
	}

	return func(value any, _ int) string { return Scalar(value) }
}

func deferred(entry *printFunc) printFunc {
	return func(value any, depth int) string {
		if depth > maxDepth {
			return "..."
		}

		return (*entry)(value, depth)
	}
}

func (c *compiler) compileTuple(v *ast.Tuple) printFunc {
	elements := make([]printFunc, len(v.Elements))

	for i, el := range v.Elements {
		elements[i] = c.compile(el.Type)
	}

	rest := make([]printFunc, len(v.Rest))

	for i, r := range v.Rest {
		rest[i] = c.compile(r)
	}

	return func(value any, depth int) string {
		arr, ok := value.([]any)
		if !ok {
			return Scalar(value)
		}

		parts := make([]string, 0, len(arr))

		for i, item := range arr {
			parts = append(parts, c.elementPrinter(v, elements, rest, i, len(arr))(item, depth+1))
		}

		return "[" + strings.Join(parts, ", ") + "]"
	}
}

// elementPrinter selects the printer governing index i of an array with
// the given length.
func (c *compiler) elementPrinter(v *ast.Tuple, elements, rest []printFunc, i, length int) printFunc {
	if i < len(elements) {
		return elements[i]
	}

	if len(rest) == 0 {
		return func(value any, _ int) string { return Scalar(value) }
	}

	trailing := rest[1:]

	middleEnd := max(length-len(trailing), len(elements))
	if i < middleEnd {
		return rest[0]
	}

	return trailing[i-middleEnd]
}

func (c *compiler) compileTypeLiteral(v *ast.TypeLiteral) printFunc {
	props := make([]printFunc, len(v.PropertySignatures))

	for i, p := range v.PropertySignatures {
		props[i] = c.compile(p.Type)
	}

	indexes := make([]printFunc, len(v.IndexSignatures))

	for i, idx := range v.IndexSignatures {
		indexes[i] = c.compile(idx.Type)
	}

	return func(value any, depth int) string {
		get, keys, ok := objectView(value)
		if !ok {
			return Scalar(value)
		}

		var parts []string

		seen := make(map[ast.PropertyKey]struct{}, len(v.PropertySignatures))

		for i, p := range v.PropertySignatures {
			item, present := get(p.Key)
			if !present {
				continue
			}

			seen[p.Key] = struct{}{}
			parts = append(parts, p.Key.String()+": "+props[i](item, depth+1))
		}

		for _, key := range keys {
			if _, done := seen[key]; done {
				continue
			}

			item, _ := get(key)

			printer := Scalar
			for i, idx := range v.IndexSignatures {
				if ast.IndexParameterAccepts(idx.Parameter, key) {
					p := indexes[i]
					printer = func(v any) string { return p(v, depth+1) }

					break
				}
			}

			parts = append(parts, key.String()+": "+printer(item))
		}

		return "{ " + strings.Join(parts, ", ") + " }"
	}
}

func (c *compiler) compileUnion(v *ast.Union) printFunc {
	type member struct {
		guard func(any) bool
		print printFunc
	}

	members := make([]member, len(v.Members))

	for i, m := range v.Members {
		members[i] = member{guard: guardFor(m), print: c.compile(m)}
	}

	return func(value any, depth int) string {
		for _, m := range members {
			if m.guard(value) {
				return m.print(value, depth)
			}
		}

		return Scalar(value)
	}
}

// guardFor builds a shallow membership test good enough to route a value
// to the union member that decoded it.
func guardFor(n ast.Node) func(any) bool {
	switch v := n.(type) {
	case *ast.Literal:
		value := v.Value

		return func(input any) bool {
			if b, ok := value.(*big.Int); ok {
				ib, iok := input.(*big.Int)

				return iok && b.Cmp(ib) == 0
			}

			return input == value
		}

	case *ast.Refinement:
		return guardFor(v.From)

	case *ast.Transform:
		return guardFor(v.To)

	case *ast.TypeAlias:
		return guardFor(v.Type)

	case *ast.Tuple:
		return func(input any) bool { _, ok := input.([]any); return ok }

	case *ast.TypeLiteral:
		return func(input any) bool {
			switch input.(type) {
			case map[string]any, map[any]any:
				return true
			}

			return false
		}

	case *ast.Keyword:
		kind := v.Kind()

		return func(input any) bool {
			switch kind {
			case ast.KindString:
				_, ok := input.(string)

				return ok
			case ast.KindNumber:
				_, ok := input.(float64)

				return ok
			case ast.KindBoolean:
				_, ok := input.(bool)

				return ok
			case ast.KindBigInt:
				_, ok := input.(*big.Int)

				return ok
			case ast.KindVoid, ast.KindUndefined:
				return input == nil
			}

			return true
		}
	}

	return func(any) bool { return true }
}

// objectView adapts both accepted object shapes to a uniform accessor and
// key list. Key order is not significant here; declared properties are
// printed first regardless.
func objectView(value any) (func(ast.PropertyKey) (any, bool), []ast.PropertyKey, bool) {
	switch m := value.(type) {
	case map[string]any:
		keys := make([]ast.PropertyKey, 0, len(m))

		for k := range m {
			keys = append(keys, ast.StringKey(k))
		}

		sortKeys(keys)

		return func(k ast.PropertyKey) (any, bool) {
			if k.IsSymbol() {
				return nil, false
			}

			v, ok := m[k.Name()]

			return v, ok
		}, keys, true

	case map[any]any:
		keys := make([]ast.PropertyKey, 0, len(m))

		for k := range m {
			switch key := k.(type) {
			case string:
				keys = append(keys, ast.StringKey(key))
			case *ast.Symbol:
				keys = append(keys, ast.SymbolKey(key))
			}
		}

		sortKeys(keys)

		return func(k ast.PropertyKey) (any, bool) {
			v, ok := m[k.Value()]

			return v, ok
		}, keys, true
	}

	return nil, nil, false
}

func sortKeys(keys []ast.PropertyKey) {
	slices.SortFunc(keys, func(a, b ast.PropertyKey) int {
		return strings.Compare(a.String(), b.String())
	})
}

// Scalar renders a host primitive the way failure messages do: strings
// quoted, null spelled out, numbers in their shortest form.
func Scalar(v any) string {
	switch s := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(s)
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case *big.Int:
		return s.String() + "n"
	case *ast.Symbol:
		return s.String()
	case []any:
		parts := make([]string, len(s))

		for i, item := range s {
			parts[i] = Scalar(item)
		}

		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(s))

		for k := range s {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		parts := make([]string, 0, len(keys))

		for _, k := range keys {
			parts = append(parts, strconv.Quote(k)+": "+Scalar(s[k]))
		}

		return "{ " + strings.Join(parts, ", ") + " }"
	}

	return fmt.Sprintf("%v", v)
}
