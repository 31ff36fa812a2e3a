package schema

import (
	"github.com/google/jsonschema-go/jsonschema"

	"go.jacobcolvin.com/schema/ast"
)

// Annotation is one (key, value) pair to overlay onto a schema's node.
type Annotation struct {
	Key   *ast.Symbol
	Value any
}

// WithAnnotations overlays annotations onto s, newer keys winning.
// Unknown keys are preserved for user extensions.
func WithAnnotations[A any](s Schema[A], anns ...Annotation) Schema[A] {
	return Schema[A]{node: ast.MergeAnnotations(s.AST(), buildAnnotations(anns))}
}

func buildAnnotations(anns []Annotation) ast.Annotations {
	var out ast.Annotations

	for _, a := range anns {
		out = out.Set(a.Key, a.Value)
	}

	return out
}

// Identifier annotates a stable name, used in failure messages and as the
// $defs key by the JSON Schema interpreter.
func Identifier(id string) Annotation {
	return Annotation{Key: ast.IdentifierAnnotation, Value: id}
}

// Title annotates a short human title.
func Title(title string) Annotation {
	return Annotation{Key: ast.TitleAnnotation, Value: title}
}

// Description annotates a human description.
func Description(description string) Annotation {
	return Annotation{Key: ast.DescriptionAnnotation, Value: description}
}

// Documentation annotates free-form documentation text.
func Documentation(docs string) Annotation {
	return Annotation{Key: ast.DocumentationAnnotation, Value: docs}
}

// Examples annotates an ordered list of sample values.
func Examples(values ...any) Annotation {
	return Annotation{Key: ast.ExamplesAnnotation, Value: values}
}

// Message annotates a failure message function, called with the offending
// value. It must be side-effect-free.
func Message(f func(actual any) string) Annotation {
	return Annotation{Key: ast.MessageAnnotation, Value: ast.MessageFunc(f)}
}

// JSONSchema annotates a JSON Schema fragment merged into the output of
// the JSON Schema interpreter at this site.
func JSONSchema(fragment *jsonschema.Schema) Annotation {
	return Annotation{Key: ast.JSONSchemaAnnotation, Value: fragment}
}

// Pretty annotates a printer used by the pretty interpreter in place of
// the structural one.
func Pretty(f func(value any) string) Annotation {
	return Annotation{Key: ast.PrettyAnnotation, Value: f}
}

// Custom annotates an opaque user extension value.
func Custom(value any) Annotation {
	return Annotation{Key: ast.CustomAnnotation, Value: value}
}
