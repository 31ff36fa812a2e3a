package parse

import (
	"math/big"

	"go.jacobcolvin.com/schema/ast"
)

// Is derives a structural predicate from the node: a boolean mirror of
// Decode under default options that skips error and output construction.
// For schemas containing a transform, the predicate is defined against the
// from side (the raw input domain).
func Is(n ast.Node) func(any) bool {
	g := &guardCompiler{lazy: make(map[*ast.Lazy]*func(any) bool)}

	return g.compile(n)
}

type guardCompiler struct {
	lazy map[*ast.Lazy]*func(any) bool
}

func (g *guardCompiler) compile(n ast.Node) func(any) bool {
	switch v := n.(type) {
	case *ast.Keyword:
		return keywordGuard(v)

	case *ast.Literal:
		return func(input any) bool { return valueEqual(v.Value, input) }

	case *ast.UniqueSymbol:
		return func(input any) bool {
			sym, ok := input.(*ast.Symbol)

			return ok && sym == v.Symbol
		}

	case *ast.TemplateLiteral:
		re := v.Regexp()

		return func(input any) bool {
			s, ok := input.(string)

			return ok && re.MatchString(s)
		}

	case *ast.Enums:
		return func(input any) bool {
			norm, _ := ast.NormalizeValue(input)

			for _, m := range v.Members {
				if valueEqual(m.Value, norm) {
					return true
				}
			}

			return false
		}

	case *ast.Refinement:
		from := g.compile(v.From)

		return func(input any) bool {
			return from(input) && v.Predicate(input)
		}

	case *ast.Transform:
		return g.compile(v.From)

	case *ast.Tuple:
		return g.compileTuple(v)

	case *ast.TypeLiteral:
		return g.compileTypeLiteral(v)

	case *ast.Union:
		members := make([]func(any) bool, len(v.Members))

		for i, m := range v.Members {
			members[i] = g.compile(m)
		}

		return func(input any) bool {
			for _, m := range members {
				if m(input) {
					return true
				}
			}

			return false
		}

	case *ast.Lazy:
		if entry, ok := g.lazy[v]; ok {
			return func(input any) bool { return (*entry)(input) }
		}

		entry := new(func(any) bool)
		g.lazy[v] = entry
		*entry = g.compile(v.Thunk())

		return func(input any) bool { return (*entry)(input) }

	case *ast.TypeAlias:
		return g.compile(v.Type)
	}

	return func(any) bool { return false }
}

func keywordGuard(k *ast.Keyword) func(any) bool {
	switch k.Kind() {
	case ast.KindNever:
		return func(any) bool { return false }
	case ast.KindUnknown, ast.KindAny:
		return func(any) bool { return true }
	case ast.KindVoid, ast.KindUndefined:
		return func(input any) bool { return input == nil }
	case ast.KindString:
		return func(input any) bool { _, ok := input.(string); return ok }
	case ast.KindNumber:
		return func(input any) bool { _, ok := toNumber(input); return ok }
	case ast.KindBoolean:
		return func(input any) bool { _, ok := input.(bool); return ok }
	case ast.KindBigInt:
		return func(input any) bool { _, ok := input.(*big.Int); return ok }
	case ast.KindSymbol:
		return func(input any) bool { _, ok := input.(*ast.Symbol); return ok }
	case ast.KindObject:
		return func(input any) bool {
			switch input.(type) {
			case map[string]any, map[any]any, []any:
				return true
			}

			return false
		}
	}

	return func(any) bool { return false }
}

func (g *guardCompiler) compileTuple(v *ast.Tuple) func(any) bool {
	elements := make([]func(any) bool, len(v.Elements))

	for i, el := range v.Elements {
		elements[i] = g.compile(el.Type)
	}

	rest := make([]func(any) bool, len(v.Rest))

	for i, r := range v.Rest {
		rest[i] = g.compile(r)
	}

	return func(input any) bool {
		arr, ok := input.([]any)
		if !ok {
			return false
		}

		for i, el := range v.Elements {
			if i >= len(arr) {
				if !el.Optional {
					return false
				}

				continue
			}

			if !elements[i](arr[i]) {
				return false
			}
		}

		if len(v.Rest) == 0 {
			return true
		}

		trailing := rest[1:]

		middleEnd := max(len(arr)-len(trailing), len(v.Elements))

		for i := len(v.Elements); i < middleEnd && i < len(arr); i++ {
			if !rest[0](arr[i]) {
				return false
			}
		}

		for j := range trailing {
			pos := middleEnd + j
			if pos >= len(arr) || !trailing[j](arr[pos]) {
				return false
			}
		}

		return true
	}
}

func (g *guardCompiler) compileTypeLiteral(v *ast.TypeLiteral) func(any) bool {
	props := make([]func(any) bool, len(v.PropertySignatures))

	for i, p := range v.PropertySignatures {
		props[i] = g.compile(p.Type)
	}

	indexes := make([]func(any) bool, len(v.IndexSignatures))

	for i, idx := range v.IndexSignatures {
		indexes[i] = g.compile(idx.Type)
	}

	declared := make(map[ast.PropertyKey]struct{}, len(v.PropertySignatures))

	for _, p := range v.PropertySignatures {
		declared[p.Key] = struct{}{}
	}

	return func(input any) bool {
		obj, ok := asObject(input)
		if !ok {
			return false
		}

		for i, p := range v.PropertySignatures {
			value, present := obj.get(p.Key)
			if !present {
				if p.Optional {
					continue
				}

				return false
			}

			if !props[i](value) {
				return false
			}
		}

		for _, key := range obj.excessKeys(declared) {
			value, _ := obj.get(key)

			for i, idx := range v.IndexSignatures {
				if !ast.IndexParameterAccepts(idx.Parameter, key) {
					continue
				}

				if !indexes[i](value) {
					return false
				}

				break
			}
		}

		return true
	}
}
