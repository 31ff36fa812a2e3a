package pretty_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	schema "go.jacobcolvin.com/schema"
	"go.jacobcolvin.com/schema/pretty"
)

func TestFormatScalars(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		s     schema.AnySchema
		input any
		want  string
	}{
		"string": {
			s:     schema.String(),
			input: "x",
			want:  `"x"`,
		},
		"number": {
			s:     schema.Number(),
			input: 1.5,
			want:  "1.5",
		},
		"whole number": {
			s:     schema.Number(),
			input: 2.0,
			want:  "2",
		},
		"boolean": {
			s:     schema.Boolean(),
			input: true,
			want:  "true",
		},
		"null": {
			s:     schema.Null(),
			input: nil,
			want:  "null",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := pretty.New(tc.s.AST()).Format(tc.input)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatStruct(t *testing.T) {
	t.Parallel()

	s := schema.Struct(
		schema.Field("b", schema.Number()),
		schema.Field("a", schema.String()),
	)

	got := pretty.New(s.AST()).Format(map[string]any{"a": "x", "b": 1.0})

	// Declared order wins over key order.
	assert.Equal(t, `{ "b": 1, "a": "x" }`, got)
}

func TestFormatArray(t *testing.T) {
	t.Parallel()

	s := schema.Array(schema.Number())

	got := pretty.New(s.AST()).Format([]any{1.0, 2.5})
	assert.Equal(t, "[1, 2.5]", got)
}

func TestFormatUnionRoutesByMember(t *testing.T) {
	t.Parallel()

	s := schema.Union(schema.String(), schema.Number())

	p := pretty.New(s.AST())
	assert.Equal(t, `"x"`, p.Format("x"))
	assert.Equal(t, "3", p.Format(3.0))
}

func TestFormatTransformUsesToSide(t *testing.T) {
	t.Parallel()

	s := schema.Transform(
		schema.Number(),
		schema.String(),
		func(v float64) string { return fmt.Sprintf("%v", v) },
		func(string) float64 { return 0 },
	)

	got := pretty.New(s.AST()).Format("42")
	assert.Equal(t, `"42"`, got)
}

func TestFormatAnnotationOverride(t *testing.T) {
	t.Parallel()

	s := schema.WithAnnotations(schema.Number(), schema.Pretty(func(v any) string {
		return fmt.Sprintf("<%v>", v)
	}))

	got := pretty.New(s.AST()).Format(7.0)
	assert.Equal(t, "<7>", got)
}

func TestFormatRecursive(t *testing.T) {
	t.Parallel()

	var node schema.Schema[map[string]any]

	node = schema.Lazy(func() schema.Schema[map[string]any] {
		return schema.Struct(
			schema.Field("v", schema.Number()),
			schema.Field("next", schema.Nullable(node)),
		)
	})

	got := pretty.New(node.AST()).Format(map[string]any{
		"v":    1.0,
		"next": map[string]any{"v": 2.0, "next": nil},
	})

	assert.Equal(t, `{ "v": 1, "next": { "v": 2, "next": null } }`, got)
}
