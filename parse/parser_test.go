package parse_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schema "go.jacobcolvin.com/schema"
	"go.jacobcolvin.com/schema/ast"
	"go.jacobcolvin.com/schema/parse"
)

func TestDecodeKeywords(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		node    ast.Node
		input   any
		want    any
		wantErr bool
	}{
		"string accepts string": {
			node:  ast.StringKeyword,
			input: "x",
			want:  "x",
		},
		"string rejects number": {
			node:    ast.StringKeyword,
			input:   1.0,
			wantErr: true,
		},
		"number accepts float": {
			node:  ast.NumberKeyword,
			input: 1.5,
			want:  1.5,
		},
		"number normalizes int": {
			node:  ast.NumberKeyword,
			input: 3,
			want:  float64(3),
		},
		"boolean": {
			node:  ast.BooleanKeyword,
			input: true,
			want:  true,
		},
		"never rejects everything": {
			node:    ast.NeverKeyword,
			input:   "x",
			wantErr: true,
		},
		"unknown accepts anything": {
			node:  ast.UnknownKeyword,
			input: []any{1},
			want:  []any{1},
		},
		"undefined accepts nil": {
			node:  ast.UndefinedKeyword,
			input: nil,
			want:  nil,
		},
		"undefined rejects values": {
			node:    ast.UndefinedKeyword,
			input:   0.0,
			wantErr: true,
		},
		"object accepts maps": {
			node:  ast.ObjectKeyword,
			input: map[string]any{},
			want:  map[string]any{},
		},
		"object accepts arrays": {
			node:  ast.ObjectKeyword,
			input: []any{},
			want:  []any{},
		},
		"object rejects scalars": {
			node:    ast.ObjectKeyword,
			input:   "x",
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r := parse.Compile(tc.node).Decode(tc.input)
			if tc.wantErr {
				require.False(t, r.IsSuccess())

				return
			}

			require.True(t, r.IsSuccess(), "errors: %v", parse.Format(r.Errors()...))
			assert.Empty(t, cmp.Diff(tc.want, r.Value()))
		})
	}
}

func TestDecodeStruct(t *testing.T) {
	t.Parallel()

	s := schema.Struct(
		schema.Field("a", schema.String()),
		schema.Field("b", schema.Number()).Optional(),
	)

	p := parse.Compile(s.AST())

	t.Run("required only", func(t *testing.T) {
		t.Parallel()

		r := p.Decode(map[string]any{"a": "x"})
		require.True(t, r.IsSuccess())
		assert.Equal(t, map[string]any{"a": "x"}, r.Value())
	})

	t.Run("with optional", func(t *testing.T) {
		t.Parallel()

		r := p.Decode(map[string]any{"a": "x", "b": 1.0})
		require.True(t, r.IsSuccess())
		assert.Equal(t, map[string]any{"a": "x", "b": 1.0}, r.Value())
	})

	t.Run("wrong property type", func(t *testing.T) {
		t.Parallel()

		r := p.Decode(map[string]any{"a": 1.0})
		require.False(t, r.IsSuccess())
		require.Len(t, r.Errors(), 1)

		keyErr, ok := r.Errors()[0].(parse.KeyError)
		require.True(t, ok)
		assert.Equal(t, ast.StringKey("a"), keyErr.Key)
		require.Len(t, keyErr.Errors, 1)

		typeErr, ok := keyErr.Errors[0].(parse.TypeError)
		require.True(t, ok)
		assert.Equal(t, 1.0, typeErr.Actual)
	})

	t.Run("missing required with all errors", func(t *testing.T) {
		t.Parallel()

		r := p.Decode(map[string]any{}, parse.WithAllErrors())
		require.False(t, r.IsSuccess())
		require.Len(t, r.Errors(), 1)

		keyErr, ok := r.Errors()[0].(parse.KeyError)
		require.True(t, ok)
		assert.Equal(t, ast.StringKey("a"), keyErr.Key)
		require.Len(t, keyErr.Errors, 1)
		assert.IsType(t, parse.MissingError{}, keyErr.Errors[0])
	})

	t.Run("not an object", func(t *testing.T) {
		t.Parallel()

		r := p.Decode([]any{"a"})
		require.False(t, r.IsSuccess())
		assert.IsType(t, parse.TypeError{}, r.Errors()[0])
	})

	t.Run("output is a fresh map", func(t *testing.T) {
		t.Parallel()

		input := map[string]any{"a": "x", "ignored": true}

		r := p.Decode(input)
		require.True(t, r.IsSuccess())
		assert.Equal(t, map[string]any{"a": "x"}, r.Value())
		assert.Contains(t, input, "ignored")
	})
}

func TestDecodeExcessProperties(t *testing.T) {
	t.Parallel()

	s := schema.Struct(schema.Field("a", schema.String()))
	p := parse.Compile(s.AST())

	input := map[string]any{"a": "x", "extra": 1.0}

	t.Run("ignored by default", func(t *testing.T) {
		t.Parallel()

		r := p.Decode(input)
		require.True(t, r.IsSuccess())
		assert.Equal(t, map[string]any{"a": "x"}, r.Value())
		assert.Empty(t, r.Warnings())
	})

	t.Run("error policy fails", func(t *testing.T) {
		t.Parallel()

		r := p.Decode(input, parse.WithExcessProperty(parse.ExcessPropertyError))
		require.False(t, r.IsSuccess())

		keyErr, ok := r.Errors()[0].(parse.KeyError)
		require.True(t, ok)
		assert.Equal(t, ast.StringKey("extra"), keyErr.Key)
		assert.IsType(t, parse.UnexpectedError{}, keyErr.Errors[0])
	})

	t.Run("error policy with unexpected allowed warns", func(t *testing.T) {
		t.Parallel()

		r := p.Decode(input,
			parse.WithExcessProperty(parse.ExcessPropertyError),
			parse.WithUnexpectedAllowed())
		require.True(t, r.IsSuccess())
		assert.Equal(t, map[string]any{"a": "x"}, r.Value())
		require.Len(t, r.Warnings(), 1)
		assert.Equal(t, parse.Path{"extra"}, r.Warnings()[0].Path)
	})
}

func TestDecodeIndexSignatures(t *testing.T) {
	t.Parallel()

	t.Run("string record decodes matching keys", func(t *testing.T) {
		t.Parallel()

		s := schema.Record(schema.String(), schema.Number())
		p := parse.Compile(s.AST())

		r := p.Decode(map[string]any{"x": 1.0, "y": 2.0})
		require.True(t, r.IsSuccess())
		assert.Equal(t, map[string]any{"x": 1.0, "y": 2.0}, r.Value())
	})

	t.Run("index value failures carry the key path", func(t *testing.T) {
		t.Parallel()

		s := schema.Record(schema.String(), schema.Number())
		p := parse.Compile(s.AST())

		r := p.Decode(map[string]any{"x": "no"})
		require.False(t, r.IsSuccess())

		keyErr, ok := r.Errors()[0].(parse.KeyError)
		require.True(t, ok)
		assert.Equal(t, ast.StringKey("x"), keyErr.Key)
	})

	t.Run("template literal parameter filters keys", func(t *testing.T) {
		t.Parallel()

		s := schema.Record(schema.TemplateLiteral("k-", schema.Number()), schema.Boolean())
		p := parse.Compile(s.AST())

		r := p.Decode(map[string]any{"k-1": true, "other": "dropped"})
		require.True(t, r.IsSuccess())
		assert.Equal(t, map[string]any{"k-1": true}, r.Value())
	})
}

func TestDecodeTuple(t *testing.T) {
	t.Parallel()

	t.Run("fixed then rest", func(t *testing.T) {
		t.Parallel()

		s := schema.Rest(schema.Tuple(schema.Element(schema.String())), schema.Number())
		p := parse.Compile(s.AST())

		r := p.Decode([]any{"a", 1.0, 2.0})
		require.True(t, r.IsSuccess())
		assert.Equal(t, []any{"a", 1.0, 2.0}, r.Value())

		r = p.Decode([]any{"a", "b"})
		require.False(t, r.IsSuccess())

		idxErr, ok := r.Errors()[0].(parse.IndexError)
		require.True(t, ok)
		assert.Equal(t, 1, idxErr.Index)
		assert.IsType(t, parse.TypeError{}, idxErr.Errors[0])
	})

	t.Run("missing required element", func(t *testing.T) {
		t.Parallel()

		s := schema.Tuple(schema.Element(schema.String()), schema.Element(schema.Number()))
		p := parse.Compile(s.AST())

		r := p.Decode([]any{"a"})
		require.False(t, r.IsSuccess())

		idxErr, ok := r.Errors()[0].(parse.IndexError)
		require.True(t, ok)
		assert.Equal(t, 1, idxErr.Index)
		assert.IsType(t, parse.MissingError{}, idxErr.Errors[0])
	})

	t.Run("optional element may be absent", func(t *testing.T) {
		t.Parallel()

		s := schema.Tuple(schema.Element(schema.String()), schema.OptionalElement(schema.Number()))
		p := parse.Compile(s.AST())

		r := p.Decode([]any{"a"})
		require.True(t, r.IsSuccess())
		assert.Equal(t, []any{"a"}, r.Value())
	})

	t.Run("excess element under error policy", func(t *testing.T) {
		t.Parallel()

		s := schema.Tuple(schema.Element(schema.String()))
		p := parse.Compile(s.AST())

		r := p.Decode([]any{"a", "b"}, parse.WithExcessProperty(parse.ExcessPropertyError))
		require.False(t, r.IsSuccess())

		idxErr, ok := r.Errors()[0].(parse.IndexError)
		require.True(t, ok)
		assert.Equal(t, 1, idxErr.Index)
		assert.IsType(t, parse.UnexpectedError{}, idxErr.Errors[0])
	})

	t.Run("trailing elements after rest", func(t *testing.T) {
		t.Parallel()

		s := schema.Rest(schema.Tuple(), schema.Number(), schema.String())
		p := parse.Compile(s.AST())

		r := p.Decode([]any{1.0, 2.0, "end"})
		require.True(t, r.IsSuccess())
		assert.Equal(t, []any{1.0, 2.0, "end"}, r.Value())

		r = p.Decode([]any{"end"})
		require.True(t, r.IsSuccess())
		assert.Equal(t, []any{"end"}, r.Value())

		r = p.Decode([]any{})
		require.False(t, r.IsSuccess())
	})

	t.Run("all errors accumulates per index", func(t *testing.T) {
		t.Parallel()

		s := schema.Array(schema.Number())
		p := parse.Compile(s.AST())

		r := p.Decode([]any{"a", 1.0, "b"}, parse.WithAllErrors())
		require.False(t, r.IsSuccess())
		assert.Len(t, r.Errors(), 2)
	})
}

func TestDecodeUnion(t *testing.T) {
	t.Parallel()

	tagged := schema.Union(
		schema.Struct(
			schema.Field("tag", schema.Literal("a")),
			schema.Field("x", schema.Number()),
		),
		schema.Struct(
			schema.Field("tag", schema.Literal("b")),
			schema.Field("y", schema.String()),
		),
	)

	p := parse.Compile(tagged.AST())

	t.Run("routes by discriminant", func(t *testing.T) {
		t.Parallel()

		r := p.Decode(map[string]any{"tag": "a", "x": 1.0})
		require.True(t, r.IsSuccess())
		assert.Equal(t, map[string]any{"tag": "a", "x": 1.0}, r.Value())

		r = p.Decode(map[string]any{"tag": "b", "y": "s"})
		require.True(t, r.IsSuccess())
	})

	t.Run("unknown discriminant aggregates branch failures", func(t *testing.T) {
		t.Parallel()

		r := p.Decode(map[string]any{"tag": "c"})
		require.False(t, r.IsSuccess())
		require.Len(t, r.Errors(), 1)

		unionErr, ok := r.Errors()[0].(parse.UnionMemberError)
		require.True(t, ok)
		assert.Len(t, unionErr.Members, 2)
	})

	t.Run("members are tried in declared order", func(t *testing.T) {
		t.Parallel()

		u := schema.Union(schema.Number(), schema.Literal(1.0))
		up := parse.Compile(u.AST())

		r := up.Decode(1.0)
		require.True(t, r.IsSuccess())
		assert.Equal(t, 1.0, r.Value())
	})
}

func TestDecodeRecursive(t *testing.T) {
	t.Parallel()

	var node schema.Schema[map[string]any]

	node = schema.Lazy(func() schema.Schema[map[string]any] {
		return schema.Struct(
			schema.Field("v", schema.Number()),
			schema.Field("next", schema.Nullable(node)),
		)
	})

	p := parse.Compile(node.AST())

	r := p.Decode(map[string]any{
		"v": 1.0,
		"next": map[string]any{
			"v":    2.0,
			"next": nil,
		},
	})
	require.True(t, r.IsSuccess(), "errors: %v", parse.Format(r.Errors()...))

	want := map[string]any{
		"v": 1.0,
		"next": map[string]any{
			"v":    2.0,
			"next": nil,
		},
	}
	assert.Empty(t, cmp.Diff(want, r.Value()))

	r = p.Decode(map[string]any{"v": 1.0, "next": map[string]any{"v": "bad", "next": nil}})
	require.False(t, r.IsSuccess())
}

func TestDecodeRefinement(t *testing.T) {
	t.Parallel()

	positive := schema.Filter(schema.Number(),
		func(v float64) bool { return v > 0 },
		schema.Message(func(actual any) string {
			return fmt.Sprintf("%v must be positive", actual)
		}))

	p := parse.Compile(positive.AST())

	t.Run("accepts matching values", func(t *testing.T) {
		t.Parallel()

		r := p.Decode(2.0)
		require.True(t, r.IsSuccess())
		assert.Equal(t, 2.0, r.Value())
	})

	t.Run("predicate failure renders the message", func(t *testing.T) {
		t.Parallel()

		r := p.Decode(-1.0)
		require.False(t, r.IsSuccess())

		refErr, ok := r.Errors()[0].(parse.RefinementError)
		require.True(t, ok)
		assert.Equal(t, parse.RefinementPredicate, refErr.Kind)
		assert.Equal(t, "-1 must be positive", parse.Format(r.Errors()...))
	})

	t.Run("inner failure keeps its own rendering", func(t *testing.T) {
		t.Parallel()

		r := p.Decode("nope")
		require.False(t, r.IsSuccess())

		refErr, ok := r.Errors()[0].(parse.RefinementError)
		require.True(t, ok)
		assert.Equal(t, parse.RefinementFrom, refErr.Kind)
	})
}

func TestTransform(t *testing.T) {
	t.Parallel()

	dateSchema := schema.TransformOrFail(
		schema.String(),
		schema.Make[time.Time](ast.AnyKeyword),
		func(s string) (time.Time, error) {
			return time.Parse(time.RFC3339, s)
		},
		func(d time.Time) (string, error) {
			return d.UTC().Format(time.RFC3339), nil
		},
	)

	p := parse.Compile(dateSchema.AST())

	t.Run("round-trips a valid timestamp", func(t *testing.T) {
		t.Parallel()

		const iso = "2023-01-02T03:04:05Z"

		r := p.Decode(iso)
		require.True(t, r.IsSuccess())

		d, ok := r.Value().(time.Time)
		require.True(t, ok)
		assert.Equal(t, 2023, d.Year())

		back := p.Encode(d)
		require.True(t, back.IsSuccess())
		assert.Equal(t, iso, back.Value())
	})

	t.Run("mapping failure is a transformation error", func(t *testing.T) {
		t.Parallel()

		r := p.Decode("not a date")
		require.False(t, r.IsSuccess())

		trErr, ok := r.Errors()[0].(parse.TransformError)
		require.True(t, ok)
		assert.Equal(t, parse.TransformTransformation, trErr.Kind)
	})

	t.Run("from-side failure is a from error", func(t *testing.T) {
		t.Parallel()

		r := p.Decode(1.0)
		require.False(t, r.IsSuccess())

		trErr, ok := r.Errors()[0].(parse.TransformError)
		require.True(t, ok)
		assert.Equal(t, parse.TransformFrom, trErr.Kind)
	})
}

func TestEncode(t *testing.T) {
	t.Parallel()

	t.Run("identity schemas encode to decode input", func(t *testing.T) {
		t.Parallel()

		s := schema.Struct(
			schema.Field("a", schema.String()),
			schema.Field("n", schema.Array(schema.Number())),
		)
		p := parse.Compile(s.AST())

		input := map[string]any{"a": "x", "n": []any{1.0, 2.0}}

		decoded := p.Decode(input)
		require.True(t, decoded.IsSuccess())

		encoded := p.Encode(decoded.Value())
		require.True(t, encoded.IsSuccess())
		assert.Empty(t, cmp.Diff(input, encoded.Value()))
	})

	t.Run("encode re-verifies refinements", func(t *testing.T) {
		t.Parallel()

		positive := schema.Filter(schema.Number(), func(v float64) bool { return v > 0 })
		p := parse.Compile(positive.AST())

		r := p.Encode(-5.0)
		require.False(t, r.IsSuccess())

		refErr, ok := r.Errors()[0].(parse.RefinementError)
		require.True(t, ok)
		assert.Equal(t, parse.RefinementPredicate, refErr.Kind)
	})
}

func TestDecodeDeterminism(t *testing.T) {
	t.Parallel()

	s := schema.Struct(
		schema.Field("a", schema.String()),
		schema.Field("b", schema.Number()).Optional(),
	)
	p := parse.Compile(s.AST())

	input := map[string]any{"a": "x", "b": 2.0, "zz": true, "aa": false}

	first := p.Decode(input, parse.WithAllErrors())
	second := p.Decode(input, parse.WithAllErrors())

	assert.Empty(t, cmp.Diff(first.Value(), second.Value()))
	assert.Equal(t, first.IsSuccess(), second.IsSuccess())
}

func TestDecodeAlias(t *testing.T) {
	t.Parallel()

	named := schema.Alias(schema.String(), schema.Identifier("Name"))
	p := parse.Compile(named.AST())

	r := p.Decode("x")
	require.True(t, r.IsSuccess())
	assert.Equal(t, "x", r.Value())

	r = p.Decode(1.0)
	require.False(t, r.IsSuccess())
	assert.Equal(t, "Expected Name, actual 1", parse.Format(r.Errors()...))
}

func TestDecodeSymbolKeys(t *testing.T) {
	t.Parallel()

	sym := ast.NewSymbol("meta")

	s := schema.Struct(
		schema.Field("a", schema.String()),
		schema.SymbolField(sym, schema.Number()),
	)

	p := parse.Compile(s.AST())

	t.Run("symbol-keyed structs decode to generic maps", func(t *testing.T) {
		t.Parallel()

		r := p.Decode(map[any]any{"a": "x", sym: 2.0})
		require.True(t, r.IsSuccess(), "errors: %v", parse.Format(r.Errors()...))

		out, ok := r.Value().(map[any]any)
		require.True(t, ok)
		assert.Equal(t, "x", out["a"])
		assert.Equal(t, 2.0, out[sym])
	})

	t.Run("string maps cannot satisfy symbol keys", func(t *testing.T) {
		t.Parallel()

		r := p.Decode(map[string]any{"a": "x"})
		require.False(t, r.IsSuccess())

		keyErr, ok := r.Errors()[0].(parse.KeyError)
		require.True(t, ok)
		assert.Equal(t, ast.SymbolKey(sym), keyErr.Key)
		assert.IsType(t, parse.MissingError{}, keyErr.Errors[0])
	})

	t.Run("unique symbol matches by identity", func(t *testing.T) {
		t.Parallel()

		us := parse.Compile(schema.UniqueSymbol(sym).AST())

		require.True(t, us.Decode(sym).IsSuccess())
		require.False(t, us.Decode(ast.NewSymbol("meta")).IsSuccess())
	})
}
