package jsonschema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schema "go.jacobcolvin.com/schema"
	"go.jacobcolvin.com/schema/jsonschema"
)

func TestGenerateStruct(t *testing.T) {
	t.Parallel()

	s := schema.Struct(
		schema.Field("name", schema.String()),
		schema.Field("age", schema.Number()).Optional(),
	)

	out, err := jsonschema.NewGenerator().Generate(s.AST())
	require.NoError(t, err)

	assert.Equal(t, "http://json-schema.org/draft-07/schema#", out.Schema)
	assert.Equal(t, "object", out.Type)
	require.Contains(t, out.Properties, "name")
	require.Contains(t, out.Properties, "age")
	assert.Equal(t, "string", out.Properties["name"].Type)
	assert.Equal(t, "number", out.Properties["age"].Type)
	assert.Equal(t, []string{"name"}, out.Required)
	assert.Equal(t, []string{"name", "age"}, out.PropertyOrder)

	// Fail open by default.
	require.NotNil(t, out.AdditionalProperties)
	assert.Nil(t, out.AdditionalProperties.Not)
}

func TestGenerateStrict(t *testing.T) {
	t.Parallel()

	s := schema.Struct(schema.Field("a", schema.String()))

	out, err := jsonschema.NewGenerator(jsonschema.WithStrict(true)).Generate(s.AST())
	require.NoError(t, err)

	require.NotNil(t, out.AdditionalProperties)
	assert.NotNil(t, out.AdditionalProperties.Not, "strict mode denies additional properties")
}

func TestGenerateScalars(t *testing.T) {
	t.Parallel()

	t.Run("literal union becomes an enum", func(t *testing.T) {
		t.Parallel()

		out, err := jsonschema.NewGenerator().Generate(schema.Literal("a", "b").AST())
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "b"}, out.Enum)
	})

	t.Run("mixed union becomes anyOf", func(t *testing.T) {
		t.Parallel()

		out, err := jsonschema.NewGenerator().Generate(schema.Union(schema.String(), schema.Number()).AST())
		require.NoError(t, err)
		require.Len(t, out.AnyOf, 2)
		assert.Equal(t, "string", out.AnyOf[0].Type)
		assert.Equal(t, "number", out.AnyOf[1].Type)
	})

	t.Run("template literal becomes a pattern", func(t *testing.T) {
		t.Parallel()

		out, err := jsonschema.NewGenerator().Generate(schema.TemplateLiteral("id-", schema.Number()).AST())
		require.NoError(t, err)
		assert.Equal(t, "string", out.Type)
		assert.NotEmpty(t, out.Pattern)
	})

	t.Run("never is the false schema", func(t *testing.T) {
		t.Parallel()

		out, err := jsonschema.NewGenerator().Generate(schema.Never().AST())
		require.NoError(t, err)
		assert.NotNil(t, out.Not)
	})
}

func TestGenerateRefinementFragments(t *testing.T) {
	t.Parallel()

	t.Run("min length", func(t *testing.T) {
		t.Parallel()

		out, err := jsonschema.NewGenerator().Generate(schema.MinLength(schema.String(), 3).AST())
		require.NoError(t, err)

		assert.Equal(t, "string", out.Type)
		require.NotNil(t, out.MinLength)
		assert.Equal(t, 3, *out.MinLength)
	})

	t.Run("int overrides the number type", func(t *testing.T) {
		t.Parallel()

		out, err := jsonschema.NewGenerator().Generate(schema.Int(schema.Number()).AST())
		require.NoError(t, err)
		assert.Equal(t, "integer", out.Type)
	})

	t.Run("bounds stack across refinements", func(t *testing.T) {
		t.Parallel()

		s := schema.LessThan(schema.GreaterThanOrEqualTo(schema.Number(), 0), 10)

		out, err := jsonschema.NewGenerator().Generate(s.AST())
		require.NoError(t, err)

		require.NotNil(t, out.Minimum)
		require.NotNil(t, out.ExclusiveMaximum)
		assert.Equal(t, 0.0, *out.Minimum)
		assert.Equal(t, 10.0, *out.ExclusiveMaximum)
	})
}

func TestGenerateArrays(t *testing.T) {
	t.Parallel()

	t.Run("array items", func(t *testing.T) {
		t.Parallel()

		out, err := jsonschema.NewGenerator().Generate(schema.Array(schema.Number()).AST())
		require.NoError(t, err)

		assert.Equal(t, "array", out.Type)
		require.NotNil(t, out.Items)
		assert.Equal(t, "number", out.Items.Type)
	})

	t.Run("fixed tuple carries length bounds", func(t *testing.T) {
		t.Parallel()

		s := schema.Tuple(schema.Element(schema.String()), schema.Element(schema.Number()))

		out, err := jsonschema.NewGenerator().Generate(s.AST())
		require.NoError(t, err)

		require.NotNil(t, out.MinItems)
		require.NotNil(t, out.MaxItems)
		assert.Equal(t, 2, *out.MinItems)
		assert.Equal(t, 2, *out.MaxItems)
	})
}

func TestGenerateRecord(t *testing.T) {
	t.Parallel()

	out, err := jsonschema.NewGenerator().Generate(schema.Record(schema.String(), schema.Number()).AST())
	require.NoError(t, err)

	assert.Equal(t, "object", out.Type)
	require.NotNil(t, out.AdditionalProperties)
	assert.Equal(t, "number", out.AdditionalProperties.Type)
}

func TestGenerateAnnotations(t *testing.T) {
	t.Parallel()

	s := schema.WithAnnotations(schema.String(),
		schema.Title("Name"),
		schema.Description("a name"),
		schema.Examples("ada"),
	)

	out, err := jsonschema.NewGenerator().Generate(s.AST())
	require.NoError(t, err)

	assert.Equal(t, "Name", out.Title)
	assert.Equal(t, "a name", out.Description)
	assert.Equal(t, []any{"ada"}, out.Examples)
}

func TestGenerateRootOverrides(t *testing.T) {
	t.Parallel()

	gen := jsonschema.NewGenerator(
		jsonschema.WithTitle("Root"),
		jsonschema.WithDescription("root schema"),
		jsonschema.WithID("https://example.com/root.json"),
	)

	out, err := gen.Generate(schema.String().AST())
	require.NoError(t, err)

	assert.Equal(t, "Root", out.Title)
	assert.Equal(t, "root schema", out.Description)
	assert.Equal(t, "https://example.com/root.json", out.ID)
}

func TestGenerateRecursive(t *testing.T) {
	t.Parallel()

	t.Run("identified recursion hoists into defs", func(t *testing.T) {
		t.Parallel()

		var node schema.Schema[map[string]any]

		node = schema.WithAnnotations(
			schema.Lazy(func() schema.Schema[map[string]any] {
				return schema.Struct(
					schema.Field("v", schema.Number()),
					schema.Field("next", schema.Nullable(node)),
				)
			}),
			schema.Identifier("LinkedList"),
		)

		out, err := jsonschema.NewGenerator().Generate(node.AST())
		require.NoError(t, err)

		assert.Equal(t, "#/$defs/LinkedList", out.Ref)
		require.Contains(t, out.Defs, "LinkedList")

		def := out.Defs["LinkedList"]
		require.Contains(t, def.Properties, "next")
	})

	t.Run("anonymous recursion fails", func(t *testing.T) {
		t.Parallel()

		var node schema.Schema[map[string]any]

		node = schema.Lazy(func() schema.Schema[map[string]any] {
			return schema.Struct(schema.Field("next", schema.Nullable(node)))
		})

		_, err := jsonschema.NewGenerator().Generate(node.AST())
		require.ErrorIs(t, err, jsonschema.ErrUnsupportedRecursion)
	})
}
