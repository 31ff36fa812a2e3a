package parse

import (
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strings"

	"go.jacobcolvin.com/schema/ast"
)

// Parser is a compiled schema. Compile once, then Decode or Encode any
// number of inputs; a Parser is immutable and safe for concurrent use.
type Parser struct {
	node ast.Node
	fns  compiled
}

// Compile folds the node into a parser. The traversal produces both
// directions at once; lazy nodes are memoized by identity for the
// duration of this call, so recursive schemas compile in finite time.
func Compile(n ast.Node) *Parser {
	c := &compiler{lazy: make(map[*ast.Lazy]*compiled)}

	return &Parser{node: n, fns: c.compile(n)}
}

// Node returns the compiled node.
func (p *Parser) Node() ast.Node {
	return p.node
}

// Decode validates input against the schema and returns the decoded value.
func (p *Parser) Decode(input any, opts ...Option) Result {
	return p.fns.dec(input, buildOptions(opts))
}

// Encode maps a decoded value back to the schema's input domain.
func (p *Parser) Encode(value any, opts ...Option) Result {
	return p.fns.enc(value, buildOptions(opts))
}

// parseFunc runs one direction of a compiled node.
type parseFunc func(input any, opts Options) Result

type compiled struct {
	dec parseFunc
	enc parseFunc
}

// direction selects which half of a compiled child a container invokes.
type direction int

const (
	dirDecode direction = iota
	dirEncode
)

func (c compiled) in(dir direction) parseFunc {
	if dir == dirDecode {
		return c.dec
	}

	return c.enc
}

type compiler struct {
	lazy map[*ast.Lazy]*compiled
}

func (c *compiler) compile(n ast.Node) compiled {
	switch v := n.(type) {
	case *ast.Keyword:
		f := keywordFunc(v)

		return compiled{dec: f, enc: f}

	case *ast.Literal:
		f := func(input any, _ Options) Result {
			if valueEqual(v.Value, input) {
				return Success(v.Value)
			}

			return Failure(TypeError{Expected: v, Actual: input})
		}

		return compiled{dec: f, enc: f}

	case *ast.UniqueSymbol:
		f := func(input any, _ Options) Result {
			if sym, ok := input.(*ast.Symbol); ok && sym == v.Symbol {
				return Success(sym)
			}

			return Failure(TypeError{Expected: v, Actual: input})
		}

		return compiled{dec: f, enc: f}

	case *ast.TemplateLiteral:
		re := v.Regexp()
		f := func(input any, _ Options) Result {
			if s, ok := input.(string); ok && re.MatchString(s) {
				return Success(s)
			}

			return Failure(TypeError{Expected: v, Actual: input})
		}

		return compiled{dec: f, enc: f}

	case *ast.Enums:
		f := func(input any, _ Options) Result {
			norm, _ := ast.NormalizeValue(input)

			for _, m := range v.Members {
				if valueEqual(m.Value, norm) {
					return Success(m.Value)
				}
			}

			return Failure(TypeError{Expected: v, Actual: input})
		}

		return compiled{dec: f, enc: f}

	case *ast.Refinement:
		return c.compileRefinement(v)

	case *ast.Transform:
		return c.compileTransform(v)

	case *ast.Tuple:
		return c.compileTuple(v)

	case *ast.TypeLiteral:
		return c.compileTypeLiteral(v)

	case *ast.Union:
		return c.compileUnion(v)

	case *ast.Lazy:
		if entry, ok := c.lazy[v]; ok {
			return indirect(entry)
		}

		entry := &compiled{}
		c.lazy[v] = entry
		*entry = c.compile(v.Thunk())

		return indirect(entry)

	case *ast.TypeAlias:
		return c.compileTypeAlias(v)
	}

	// Unreachable: the variant set is closed.
	panic(fmt.Sprintf("parse: unknown node kind %s", n.Kind()))
}

// compileTypeAlias delegates to the aliased type. A top-level shape
// mismatch is re-anchored on the alias so its annotations (identifier,
// message) drive the failure rendering; deeper failures keep their own
// context.
func (c *compiler) compileTypeAlias(v *ast.TypeAlias) compiled {
	inner := c.compile(v.Type)

	wrap := func(f parseFunc) parseFunc {
		return func(input any, opts Options) Result {
			r := f(input, opts)
			if r.IsSuccess() {
				return r
			}

			errs := r.Errors()
			if len(errs) == 1 {
				if te, ok := errs[0].(TypeError); ok {
					return Failure(TypeError{Expected: v, Actual: te.Actual})
				}
			}

			return r
		}
	}

	return compiled{dec: wrap(inner.dec), enc: wrap(inner.enc)}
}

// indirect defers resolution of a lazy entry to call time, so mutually
// recursive references observe the finished compilation.
func indirect(entry *compiled) compiled {
	return compiled{
		dec: func(input any, opts Options) Result { return entry.dec(input, opts) },
		enc: func(input any, opts Options) Result { return entry.enc(input, opts) },
	}
}

func keywordFunc(k *ast.Keyword) parseFunc {
	return func(input any, _ Options) Result {
		switch k.Kind() {
		case ast.KindNever:
			return Failure(TypeError{Expected: k, Actual: input})

		case ast.KindUnknown, ast.KindAny:
			return Success(input)

		case ast.KindVoid, ast.KindUndefined:
			if input == nil {
				return Success(nil)
			}

		case ast.KindString:
			if s, ok := input.(string); ok {
				return Success(s)
			}

		case ast.KindNumber:
			if f, ok := toNumber(input); ok {
				return Success(f)
			}

		case ast.KindBoolean:
			if b, ok := input.(bool); ok {
				return Success(b)
			}

		case ast.KindBigInt:
			if b, ok := input.(*big.Int); ok {
				return Success(b)
			}

		case ast.KindSymbol:
			if s, ok := input.(*ast.Symbol); ok {
				return Success(s)
			}

		case ast.KindObject:
			switch input.(type) {
			case map[string]any, map[any]any, []any:
				return Success(input)
			}
		}

		return Failure(TypeError{Expected: k, Actual: input})
	}
}

func (c *compiler) compileRefinement(v *ast.Refinement) compiled {
	inner := c.compile(v.From)

	return compiled{
		dec: func(input any, opts Options) Result {
			r := inner.dec(input, opts)
			if !r.IsSuccess() {
				return Failure(RefinementError{Node: v, Actual: input, Kind: RefinementFrom, Errors: r.Errors()})
			}

			if !v.Predicate(r.Value()) {
				return Failure(RefinementError{Node: v, Actual: r.Value(), Kind: RefinementPredicate})
			}

			return r
		},
		enc: func(input any, opts Options) Result {
			// The predicate is defined over the refined (decoded) domain,
			// so it runs before the inner encoder.
			if !v.Predicate(input) {
				return Failure(RefinementError{Node: v, Actual: input, Kind: RefinementPredicate})
			}

			r := inner.enc(input, opts)
			if !r.IsSuccess() {
				return Failure(RefinementError{Node: v, Actual: input, Kind: RefinementFrom, Errors: r.Errors()})
			}

			return r
		},
	}
}

func (c *compiler) compileTransform(v *ast.Transform) compiled {
	from := c.compile(v.From)
	to := c.compile(v.To)

	return compiled{
		dec: func(input any, opts Options) Result {
			r := from.dec(input, opts)
			if !r.IsSuccess() {
				return Failure(TransformError{Node: v, Actual: input, Kind: TransformFrom, Errors: r.Errors()})
			}

			out, err := v.Decode(r.Value())
			if err != nil {
				return transformFailure(v, r.Value(), err)
			}

			return Success(out, r.Warnings()...)
		},
		enc: func(input any, opts Options) Result {
			r := to.enc(input, opts)
			if !r.IsSuccess() {
				return Failure(TransformError{Node: v, Actual: input, Kind: TransformTo, Errors: r.Errors()})
			}

			back, err := v.Encode(r.Value())
			if err != nil {
				return transformFailure(v, r.Value(), err)
			}

			rf := from.enc(back, opts)
			if !rf.IsSuccess() {
				return Failure(TransformError{Node: v, Actual: back, Kind: TransformFrom, Errors: rf.Errors()})
			}

			return Success(rf.Value(), append(r.Warnings(), rf.Warnings()...)...)
		},
	}
}

// transformFailure converts a mapping function's error into a failure,
// preserving a structured tree when the error carries one.
func transformFailure(v *ast.Transform, actual any, err error) Result {
	var pe *ParseError
	if errors.As(err, &pe) {
		return Failure(TransformError{Node: v, Actual: actual, Kind: TransformTransformation, Errors: pe.Errs})
	}

	return Failure(TransformError{Node: v, Actual: actual, Kind: TransformTransformation, Message: err.Error()})
}

func (c *compiler) compileTuple(v *ast.Tuple) compiled {
	elements := make([]compiled, len(v.Elements))

	for i, el := range v.Elements {
		elements[i] = c.compile(el.Type)
	}

	rest := make([]compiled, len(v.Rest))

	for i, r := range v.Rest {
		rest[i] = c.compile(r)
	}

	mk := func(dir direction) parseFunc {
		return func(input any, opts Options) Result {
			arr, ok := input.([]any)
			if !ok {
				return Failure(TypeError{Expected: v, Actual: input})
			}

			var (
				errs     []Error
				warnings []Warning
				output   = make([]any, 0, len(arr))
			)

			fail := func(e Error) (stop bool) {
				errs = append(errs, e)

				return !opts.AllErrors
			}

			// Fixed elements.
			for i, el := range v.Elements {
				if i >= len(arr) {
					if !el.Optional {
						if fail(IndexError{Index: i, Errors: []Error{MissingError{}}}) {
							return Failure(errs...)
						}
					}

					continue
				}

				r := elements[i].in(dir)(arr[i], opts)
				if !r.IsSuccess() {
					if fail(IndexError{Index: i, Errors: r.Errors()}) {
						return Failure(errs...)
					}

					continue
				}

				output = append(output, r.Value())
				warnings = append(warnings, prefixWarnings(r.Warnings(), i)...)
			}

			switch {
			case len(v.Rest) > 0:
				restType := rest[0]
				trailing := rest[1:]

				middleEnd := max(len(arr)-len(trailing), len(v.Elements))

				for i := len(v.Elements); i < middleEnd && i < len(arr); i++ {
					r := restType.in(dir)(arr[i], opts)
					if !r.IsSuccess() {
						if fail(IndexError{Index: i, Errors: r.Errors()}) {
							return Failure(errs...)
						}

						continue
					}

					output = append(output, r.Value())
					warnings = append(warnings, prefixWarnings(r.Warnings(), i)...)
				}

				for j := range trailing {
					pos := middleEnd + j
					if pos >= len(arr) {
						if fail(IndexError{Index: pos, Errors: []Error{MissingError{}}}) {
							return Failure(errs...)
						}

						continue
					}

					r := trailing[j].in(dir)(arr[pos], opts)
					if !r.IsSuccess() {
						if fail(IndexError{Index: pos, Errors: r.Errors()}) {
							return Failure(errs...)
						}

						continue
					}

					output = append(output, r.Value())
					warnings = append(warnings, prefixWarnings(r.Warnings(), pos)...)
				}

			case len(arr) > len(v.Elements):
				// Excess indexes.
				for i := len(v.Elements); i < len(arr); i++ {
					switch {
					case opts.OnExcessProperty != ExcessPropertyError:
					case opts.IsUnexpectedAllowed:
						warnings = append(warnings, Warning{
							Path:    Path{i},
							Message: "unexpected element",
						})
					default:
						if fail(IndexError{Index: i, Errors: []Error{UnexpectedError{Actual: arr[i]}}}) {
							return Failure(errs...)
						}
					}
				}
			}

			if len(errs) > 0 {
				return Failure(errs...)
			}

			return Success(output, warnings...)
		}
	}

	return compiled{dec: mk(dirDecode), enc: mk(dirEncode)}
}

func (c *compiler) compileTypeLiteral(v *ast.TypeLiteral) compiled {
	props := make([]compiled, len(v.PropertySignatures))

	for i, p := range v.PropertySignatures {
		props[i] = c.compile(p.Type)
	}

	indexes := make([]compiled, len(v.IndexSignatures))

	for i, idx := range v.IndexSignatures {
		indexes[i] = c.compile(idx.Type)
	}

	declared := make(map[ast.PropertyKey]struct{}, len(v.PropertySignatures))

	for _, p := range v.PropertySignatures {
		declared[p.Key] = struct{}{}
	}

	symbolKeyed := false

	for _, p := range v.PropertySignatures {
		if p.Key.IsSymbol() {
			symbolKeyed = true
		}
	}

	mk := func(dir direction) parseFunc {
		return func(input any, opts Options) Result {
			obj, ok := asObject(input)
			if !ok {
				return Failure(TypeError{Expected: v, Actual: input})
			}

			var (
				errs     []Error
				warnings []Warning
				entries  []objectEntry
			)

			fail := func(e Error) (stop bool) {
				errs = append(errs, e)

				return !opts.AllErrors
			}

			for i, p := range v.PropertySignatures {
				value, present := obj.get(p.Key)
				if !present {
					if !p.Optional {
						if fail(KeyError{Key: p.Key, Errors: []Error{MissingError{}}}) {
							return Failure(errs...)
						}
					}

					continue
				}

				r := props[i].in(dir)(value, opts)
				if !r.IsSuccess() {
					if fail(KeyError{Key: p.Key, Errors: r.Errors()}) {
						return Failure(errs...)
					}

					continue
				}

				entries = append(entries, objectEntry{key: p.Key, value: r.Value()})
				warnings = append(warnings, prefixWarnings(r.Warnings(), p.Key.Value())...)
			}

			// Unrecognized own keys, in sorted order for determinism.
			for _, key := range obj.excessKeys(declared) {
				value, _ := obj.get(key)

				matched := false

				for i, idx := range v.IndexSignatures {
					if !ast.IndexParameterAccepts(idx.Parameter, key) {
						continue
					}

					matched = true

					r := indexes[i].in(dir)(value, opts)
					if !r.IsSuccess() {
						if fail(KeyError{Key: key, Errors: r.Errors()}) {
							return Failure(errs...)
						}

						break
					}

					entries = append(entries, objectEntry{key: key, value: r.Value()})
					warnings = append(warnings, prefixWarnings(r.Warnings(), key.Value())...)

					break
				}

				if matched {
					continue
				}

				switch {
				case opts.OnExcessProperty != ExcessPropertyError:
				case opts.IsUnexpectedAllowed:
					warnings = append(warnings, Warning{
						Path:    Path{key.Value()},
						Message: "unexpected key",
					})
				default:
					if fail(KeyError{Key: key, Errors: []Error{UnexpectedError{Actual: value}}}) {
						return Failure(errs...)
					}
				}
			}

			if len(errs) > 0 {
				return Failure(errs...)
			}

			return Success(buildObject(entries, symbolKeyed), warnings...)
		}
	}

	return compiled{dec: mk(dirDecode), enc: mk(dirEncode)}
}

func (c *compiler) compileUnion(v *ast.Union) compiled {
	members := make([]compiled, len(v.Members))

	for i, m := range v.Members {
		members[i] = c.compile(m)
	}

	disc := discriminator(v)

	mk := func(dir direction) parseFunc {
		return func(input any, opts Options) Result {
			// Fast path: route by the shared discriminant key. A miss falls
			// back to the full trial so refinement and transform members
			// still get their chance.
			if disc != nil {
				if obj, ok := asObject(input); ok {
					if value, present := obj.get(disc.key); present {
						norm, _ := ast.NormalizeValue(value)
						if idx, hit := disc.route[norm]; hit {
							r := members[idx].in(dir)(input, opts)
							if r.IsSuccess() {
								return r
							}
						}
					}
				}
			}

			branchErrs := make([]MemberError, 0, len(v.Members))

			for i := range v.Members {
				r := members[i].in(dir)(input, opts)
				if r.IsSuccess() {
					return r
				}

				branchErrs = append(branchErrs, MemberError{Index: i, Errors: r.Errors()})
			}

			return Failure(UnionMemberError{Members: branchErrs})
		}
	}

	return compiled{dec: mk(dirDecode), enc: mk(dirEncode)}
}

// unionDiscriminator routes an object input to a union member in constant
// time by the value of a shared literal-typed key.
type unionDiscriminator struct {
	key   ast.PropertyKey
	route map[any]int
}

// discriminator detects the fast-path shape: every member is a type
// literal sharing a required property whose type is a literal, with
// pairwise distinct comparable values.
func discriminator(v *ast.Union) *unionDiscriminator {
	first, ok := v.Members[0].(*ast.TypeLiteral)
	if !ok {
		return nil
	}

candidates:
	for _, p := range first.PropertySignatures {
		if p.Optional || !ast.IsLiteral(p.Type) {
			continue
		}

		route := make(map[any]int, len(v.Members))

		for i, m := range v.Members {
			tl, isTL := m.(*ast.TypeLiteral)
			if !isTL {
				return nil
			}

			lit, found := literalAt(tl, p.Key)
			if !found {
				continue candidates
			}

			if _, isBig := lit.Value.(*big.Int); isBig {
				continue candidates
			}

			if _, dup := route[lit.Value]; dup {
				continue candidates
			}

			route[lit.Value] = i
		}

		return &unionDiscriminator{key: p.Key, route: route}
	}

	return nil
}

func literalAt(tl *ast.TypeLiteral, key ast.PropertyKey) (*ast.Literal, bool) {
	for _, p := range tl.PropertySignatures {
		if p.Key != key {
			continue
		}

		lit, ok := p.Type.(*ast.Literal)
		if !ok || p.Optional {
			return nil, false
		}

		return lit, true
	}

	return nil, false
}

// Host value helpers.

func toNumber(v any) (float64, bool) {
	n, _ := ast.NormalizeValue(v)
	f, ok := n.(float64)

	return f, ok
}

// valueEqual compares host primitives: big integers by value, numbers
// after normalization, everything else by interface equality.
func valueEqual(want, got any) bool {
	if wb, ok := want.(*big.Int); ok {
		gb, gok := got.(*big.Int)

		return gok && wb.Cmp(gb) == 0
	}

	norm, _ := ast.NormalizeValue(got)

	return want == norm
}

// object is a uniform view over the accepted input object shapes.
type object struct {
	str map[string]any
	gen map[any]any
}

func asObject(input any) (object, bool) {
	switch m := input.(type) {
	case map[string]any:
		return object{str: m}, true
	case map[any]any:
		return object{gen: m}, true
	}

	return object{}, false
}

func (o object) get(key ast.PropertyKey) (any, bool) {
	if o.str != nil {
		if key.IsSymbol() {
			return nil, false
		}

		v, ok := o.str[key.Name()]

		return v, ok
	}

	v, ok := o.gen[key.Value()]

	return v, ok
}

// excessKeys returns the input's own keys that are not declared, string
// keys first in lexical order, then symbol keys ordered by description.
func (o object) excessKeys(declared map[ast.PropertyKey]struct{}) []ast.PropertyKey {
	var strs []string

	var syms []*ast.Symbol

	add := func(k any) {
		switch key := k.(type) {
		case string:
			if _, ok := declared[ast.StringKey(key)]; !ok {
				strs = append(strs, key)
			}
		case *ast.Symbol:
			if _, ok := declared[ast.SymbolKey(key)]; !ok {
				syms = append(syms, key)
			}
		default:
			strs = append(strs, fmt.Sprint(k))
		}
	}

	if o.str != nil {
		for k := range o.str {
			add(k)
		}
	} else {
		for k := range o.gen {
			add(k)
		}
	}

	slices.Sort(strs)
	slices.SortFunc(syms, func(a, b *ast.Symbol) int {
		return strings.Compare(a.Description(), b.Description())
	})

	out := make([]ast.PropertyKey, 0, len(strs)+len(syms))

	for _, s := range strs {
		out = append(out, ast.StringKey(s))
	}

	for _, s := range syms {
		out = append(out, ast.SymbolKey(s))
	}

	return out
}

type objectEntry struct {
	key   ast.PropertyKey
	value any
}

// buildObject materializes decode output: map[string]any when every key is
// a string, map[any]any as soon as symbols participate.
func buildObject(entries []objectEntry, symbolKeyed bool) any {
	if !symbolKeyed {
		for _, e := range entries {
			if e.key.IsSymbol() {
				symbolKeyed = true

				break
			}
		}
	}

	if symbolKeyed {
		out := make(map[any]any, len(entries))

		for _, e := range entries {
			out[e.key.Value()] = e.value
		}

		return out
	}

	out := make(map[string]any, len(entries))

	for _, e := range entries {
		out[e.key.Name()] = e.value
	}

	return out
}

func prefixWarnings(ws []Warning, seg any) []Warning {
	if len(ws) == 0 {
		return nil
	}

	out := make([]Warning, len(ws))

	for i, w := range ws {
		out[i] = Warning{Path: append(Path{seg}, w.Path...), Message: w.Message}
	}

	return out
}
