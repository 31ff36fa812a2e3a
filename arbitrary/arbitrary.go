// Package arbitrary interprets a schema node as a random value generator.
//
// [New] folds an [ast.Node] into an [Arbitrary] whose Generate method
// produces host-native values accepted by the schema's guard. Refinements
// generate from the refined schema and filter by the predicate with a
// bounded retry budget; transforms generate on the from side and run the
// forward mapping; lazy nodes recurse with a depth budget that biases
// unions toward their cheapest member as the budget runs out.
package arbitrary

import (
	"errors"
	"fmt"
	"math/big"
	"math/rand/v2"
	"strings"

	"go.jacobcolvin.com/schema/ast"
)

// Sentinel errors.
var (
	// ErrNotGeneratable indicates the schema admits no values, such as the
	// never keyword or an enum with no members.
	ErrNotGeneratable = errors.New("schema admits no values")
	// ErrFilterExhausted indicates a refinement predicate rejected every
	// candidate within the retry budget.
	ErrFilterExhausted = errors.New("refinement filter exhausted retry budget")
)

const (
	// filterRetries bounds candidate generation per refinement.
	filterRetries = 100
	// maxDepth bounds recursion through lazy nodes and containers.
	maxDepth = 8
	// maxSize bounds generated container and string sizes.
	maxSize = 5
)

// Arbitrary is a compiled random value generator. It is immutable; each
// Generate call draws from the supplied source only.
type Arbitrary struct {
	node ast.Node
	gen  genFunc
}

type genFunc func(r *rand.Rand, depth int) (any, error)

// Option configures generation.
type Option func(*compiler)

// WithFilterRetries sets the retry budget per refinement predicate.
func WithFilterRetries(n int) Option {
	return func(c *compiler) {
		if n > 0 {
			c.retries = n
		}
	}
}

// New compiles the node into a generator. A node that admits no values at
// all returns [ErrNotGeneratable].
func New(n ast.Node, opts ...Option) (*Arbitrary, error) {
	c := &compiler{
		retries: filterRetries,
		lazy:    make(map[*ast.Lazy]*genFunc),
	}

	for _, opt := range opts {
		opt(c)
	}

	gen, err := c.compile(n)
	if err != nil {
		return nil, err
	}

	return &Arbitrary{node: n, gen: gen}, nil
}

// Generate draws one value. An exhausted refinement budget returns
// [ErrFilterExhausted]; recursion through a lazy node past the depth budget
// returns [ErrNotGeneratable]; a transform whose decode mapping fails
// returns that error.
func (a *Arbitrary) Generate(r *rand.Rand) (any, error) {
	return a.gen(r, 0)
}

type compiler struct {
	retries int
	lazy    map[*ast.Lazy]*genFunc
}

func (c *compiler) compile(n ast.Node) (genFunc, error) {
	switch v := n.(type) {
	case *ast.Keyword:
		return c.compileKeyword(v)

	case *ast.Literal:
		return constant(v.Value), nil

	case *ast.UniqueSymbol:
		return constant(v.Symbol), nil

	case *ast.TemplateLiteral:
		return c.compileTemplateLiteral(v), nil

	case *ast.Enums:
		if len(v.Members) == 0 {
			return nil, fmt.Errorf("%w: empty enums", ErrNotGeneratable)
		}

		return func(r *rand.Rand, _ int) (any, error) {
			return v.Members[r.IntN(len(v.Members))].Value, nil
		}, nil

	case *ast.Refinement:
		from, err := c.compile(v.From)
		if err != nil {
			return nil, err
		}

		retries := c.retries

		return func(r *rand.Rand, depth int) (any, error) {
			for range retries {
				candidate, genErr := from(r, depth)
				if genErr != nil {
					return nil, genErr
				}

				if v.Predicate(candidate) {
					return candidate, nil
				}
			}

			return nil, ErrFilterExhausted
		}, nil

	case *ast.Transform:
		from, err := c.compile(v.From)
		if err != nil {
			return nil, err
		}

		return func(r *rand.Rand, depth int) (any, error) {
			raw, genErr := from(r, depth)
			if genErr != nil {
				return nil, genErr
			}

			return v.Decode(raw)
		}, nil

	case *ast.Tuple:
		return c.compileTuple(v)

	case *ast.TypeLiteral:
		return c.compileTypeLiteral(v)

	case *ast.Union:
		return c.compileUnion(v)

	case *ast.Lazy:
		if entry, ok := c.lazy[v]; ok {
			return deferred(entry), nil
		}

		entry := new(genFunc)
		c.lazy[v] = entry

		inner, err := c.compile(v.Thunk())
		if err != nil {
			return nil, err
		}

		*entry = inner

		return deferred(entry), nil

	case *ast.TypeAlias:
		return c.compile(v.Type)
	}

	return nil, fmt.Errorf("%w: kind %s", ErrNotGeneratable, n.Kind())
}

func constant(v any) genFunc {
	return func(*rand.Rand, int) (any, error) { return v, nil }
}

func deferred(entry *genFunc) genFunc {
	return func(r *rand.Rand, depth int) (any, error) {
		if depth > maxDepth {
			return nil, fmt.Errorf("%w: recursion depth budget exceeded", ErrNotGeneratable)
		}

		return (*entry)(r, depth+1)
	}
}

func (c *compiler) compileKeyword(k *ast.Keyword) (genFunc, error) {
	switch k.Kind() {
	case ast.KindNever:
		return nil, fmt.Errorf("%w: never", ErrNotGeneratable)

	case ast.KindUnknown, ast.KindAny:
		// A small universe of representative values.
		universe := []any{nil, true, float64(0), "", []any{}, map[string]any{}}

		return func(r *rand.Rand, _ int) (any, error) {
			return universe[r.IntN(len(universe))], nil
		}, nil

	case ast.KindVoid, ast.KindUndefined:
		return constant(nil), nil

	case ast.KindString:
		return func(r *rand.Rand, _ int) (any, error) {
			return randomString(r), nil
		}, nil

	case ast.KindNumber:
		return func(r *rand.Rand, _ int) (any, error) {
			return randomNumber(r), nil
		}, nil

	case ast.KindBoolean:
		return func(r *rand.Rand, _ int) (any, error) {
			return r.IntN(2) == 0, nil
		}, nil

	case ast.KindBigInt:
		return func(r *rand.Rand, _ int) (any, error) {
			return big.NewInt(r.Int64N(1<<62) - 1<<61), nil
		}, nil

	case ast.KindSymbol:
		return func(r *rand.Rand, _ int) (any, error) {
			return ast.NewSymbol(randomString(r)), nil
		}, nil

	case ast.KindObject:
		return func(r *rand.Rand, _ int) (any, error) {
			if r.IntN(2) == 0 {
				return map[string]any{}, nil
			}

			return []any{}, nil
		}, nil
	}

	return nil, fmt.Errorf("%w: kind %s", ErrNotGeneratable, k.Kind())
}

func (c *compiler) compileTemplateLiteral(v *ast.TemplateLiteral) genFunc {
	return func(r *rand.Rand, _ int) (any, error) {
		var sb strings.Builder

		sb.WriteString(v.Head)

		for _, span := range v.Spans {
			if ast.IsNumberKeyword(spanBase(span.Type)) {
				sb.WriteString(fmt.Sprintf("%d", r.IntN(1000)))
			} else {
				sb.WriteString(randomString(r))
			}

			sb.WriteString(span.Literal)
		}

		return sb.String(), nil
	}
}

func spanBase(n ast.Node) ast.Node {
	for {
		r, ok := n.(*ast.Refinement)
		if !ok {
			return n
		}

		n = r.From
	}
}

func (c *compiler) compileTuple(v *ast.Tuple) (genFunc, error) {
	elements := make([]genFunc, len(v.Elements))

	for i, el := range v.Elements {
		gen, err := c.compile(el.Type)
		if err != nil {
			return nil, err
		}

		elements[i] = gen
	}

	rest := make([]genFunc, len(v.Rest))

	for i, rn := range v.Rest {
		gen, err := c.compile(rn)
		if err != nil {
			return nil, err
		}

		rest[i] = gen
	}

	return func(r *rand.Rand, depth int) (any, error) {
		out := make([]any, 0, len(elements))

		for i, el := range v.Elements {
			if el.Optional && r.IntN(2) == 0 {
				break
			}

			value, err := elements[i](r, depth+1)
			if err != nil {
				return nil, err
			}

			out = append(out, value)
		}

		if len(rest) > 0 {
			count := 0
			if depth < maxDepth {
				count = r.IntN(maxSize)
			}

			for range count {
				value, err := rest[0](r, depth+1)
				if err != nil {
					return nil, err
				}

				out = append(out, value)
			}

			for _, tr := range rest[1:] {
				value, err := tr(r, depth+1)
				if err != nil {
					return nil, err
				}

				out = append(out, value)
			}
		}

		return out, nil
	}, nil
}

func (c *compiler) compileTypeLiteral(v *ast.TypeLiteral) (genFunc, error) {
	props := make([]genFunc, len(v.PropertySignatures))

	for i, p := range v.PropertySignatures {
		gen, err := c.compile(p.Type)
		if err != nil {
			return nil, err
		}

		props[i] = gen
	}

	symbolKeyed := false

	for _, p := range v.PropertySignatures {
		if p.Key.IsSymbol() {
			symbolKeyed = true
		}
	}

	return func(r *rand.Rand, depth int) (any, error) {
		set := func(m map[string]any, g map[any]any, key ast.PropertyKey, value any) {
			if g != nil {
				g[key.Value()] = value
			} else {
				m[key.Name()] = value
			}
		}

		var (
			strMap map[string]any
			genMap map[any]any
		)

		if symbolKeyed {
			genMap = make(map[any]any, len(props))
		} else {
			strMap = make(map[string]any, len(props))
		}

		for i, p := range v.PropertySignatures {
			if p.Optional && r.IntN(2) == 0 {
				continue
			}

			value, err := props[i](r, depth+1)
			if err != nil {
				return nil, err
			}

			set(strMap, genMap, p.Key, value)
		}

		if genMap != nil {
			return genMap, nil
		}

		return strMap, nil
	}, nil
}

func (c *compiler) compileUnion(v *ast.Union) (genFunc, error) {
	members := make([]genFunc, 0, len(v.Members))
	terminating := make([]int, 0, len(v.Members))

	for _, m := range v.Members {
		gen, err := c.compile(m)
		if err != nil {
			// A member that admits no values is simply never drawn.
			continue
		}

		if !ast.IsLazy(m) {
			terminating = append(terminating, len(members))
		}

		members = append(members, gen)
	}

	if len(members) == 0 {
		return nil, fmt.Errorf("%w: all union members", ErrNotGeneratable)
	}

	return func(r *rand.Rand, depth int) (any, error) {
		// Near the depth budget, prefer members that do not recurse.
		if depth >= maxDepth-1 && len(terminating) > 0 && len(terminating) < len(members) {
			return members[terminating[r.IntN(len(terminating))]](r, depth)
		}

		return members[r.IntN(len(members))](r, depth)
	}, nil
}

const alphabet = "abcdefghijklmnopqrstuvwxyz"

func randomString(r *rand.Rand) string {
	n := r.IntN(maxSize + 1)
	b := make([]byte, n)

	for i := range b {
		b[i] = alphabet[r.IntN(len(alphabet))]
	}

	return string(b)
}

func randomNumber(r *rand.Rand) float64 {
	if r.IntN(2) == 0 {
		return float64(r.IntN(201) - 100)
	}

	return (r.Float64() - 0.5) * 200
}
