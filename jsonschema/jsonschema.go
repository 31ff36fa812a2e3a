// Package jsonschema interprets a schema node as a JSON Schema (Draft 7)
// document on a best-effort basis.
//
// The generated schemas fail open: a node with no JSON Schema
// representation (symbols, bigints) widens to the "true" schema rather
// than failing, so the output guides document authors without rejecting
// values the decoder would accept. A JSONSchema annotation on a node
// overlays the structural output, which is how the built-in refinements
// surface minLength, minimum, pattern, and friends.
//
// Transforms emit the from side: JSON Schema describes wire documents,
// and the wire domain of a transform is its input. Recursive schemas
// require an Identifier annotation on the lazy node; they are hoisted
// into $defs and referenced via $ref.
package jsonschema

import (
	"errors"
	"fmt"
	"math/big"

	js "github.com/google/jsonschema-go/jsonschema"

	"go.jacobcolvin.com/schema/ast"
)

// Sentinel errors returned by the generator.
var (
	// ErrUnsupportedRecursion indicates a lazy node without an Identifier
	// annotation, which cannot be expressed as a $ref.
	ErrUnsupportedRecursion = errors.New("recursive schema requires an identifier annotation")
)

const draft7 = "http://json-schema.org/draft-07/schema#"

// Generator produces JSON Schema from schema nodes.
type Generator struct {
	title       string
	description string
	id          string
	strict      bool
}

// Option configures a Generator.
type Option func(*Generator)

// NewGenerator creates a Generator with the given options.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// WithTitle sets the root schema title, overriding annotations.
func WithTitle(title string) Option {
	return func(g *Generator) {
		g.title = title
	}
}

// WithDescription sets the root schema description, overriding
// annotations.
func WithDescription(desc string) Option {
	return func(g *Generator) {
		g.description = desc
	}
}

// WithID sets the root schema $id.
func WithID(id string) Option {
	return func(g *Generator) {
		g.id = id
	}
}

// WithStrict sets additionalProperties to false on objects without index
// signatures.
func WithStrict(strict bool) Option {
	return func(g *Generator) {
		g.strict = strict
	}
}

// Generate produces a JSON Schema document for the node.
func (g *Generator) Generate(n ast.Node) (*js.Schema, error) {
	w := &walker{gen: g, defs: make(map[string]*js.Schema), named: make(map[*ast.Lazy]string)}

	root, err := w.walk(n)
	if err != nil {
		return nil, err
	}

	root.Schema = draft7

	if len(w.defs) > 0 {
		root.Defs = w.defs
	}

	if g.title != "" {
		root.Title = g.title
	}

	if g.description != "" {
		root.Description = g.description
	}

	if g.id != "" {
		root.ID = g.id
	}

	return root, nil
}

// TrueSchema returns a schema that validates everything (marshals to JSON
// true).
func TrueSchema() *js.Schema {
	return &js.Schema{}
}

// FalseSchema returns a schema that validates nothing (marshals to JSON
// false).
func FalseSchema() *js.Schema {
	return &js.Schema{Not: &js.Schema{}}
}

type walker struct {
	gen   *Generator
	defs  map[string]*js.Schema
	named map[*ast.Lazy]string
}

func (w *walker) walk(n ast.Node) (*js.Schema, error) {
	out, err := w.walkStructural(n)
	if err != nil {
		return nil, err
	}

	applyAnnotations(out, n.Annotations())

	return out, nil
}

func (w *walker) walkStructural(n ast.Node) (*js.Schema, error) {
	switch v := n.(type) {
	case *ast.Keyword:
		return keywordSchema(v), nil

	case *ast.Literal:
		return literalSchema(v.Value), nil

	case *ast.UniqueSymbol:
		// Symbols have no JSON representation; fail open.
		return TrueSchema(), nil

	case *ast.TemplateLiteral:
		return &js.Schema{Type: "string", Pattern: v.Regexp().String()}, nil

	case *ast.Enums:
		values := make([]any, 0, len(v.Members))

		for _, m := range v.Members {
			values = append(values, m.Value)
		}

		return &js.Schema{Enum: values}, nil

	case *ast.Refinement:
		return w.walk(v.From)

	case *ast.Transform:
		return w.walk(v.From)

	case *ast.Tuple:
		return w.walkTuple(v)

	case *ast.TypeLiteral:
		return w.walkTypeLiteral(v)

	case *ast.Union:
		return w.walkUnion(v)

	case *ast.Lazy:
		return w.walkLazy(v)

	case *ast.TypeAlias:
		return w.walk(v.Type)
	}

	return TrueSchema(), nil
}

func keywordSchema(k *ast.Keyword) *js.Schema {
	switch k.Kind() {
	case ast.KindNever:
		return FalseSchema()
	case ast.KindString:
		return &js.Schema{Type: "string"}
	case ast.KindNumber:
		return &js.Schema{Type: "number"}
	case ast.KindBoolean:
		return &js.Schema{Type: "boolean"}
	case ast.KindObject:
		return &js.Schema{Types: []string{"object", "array"}}
	case ast.KindVoid, ast.KindUndefined:
		return &js.Schema{Type: "null"}
	}

	// unknown, any, bigint, symbol: fail open.
	return TrueSchema()
}

func literalSchema(value any) *js.Schema {
	switch value.(type) {
	case nil:
		return &js.Schema{Type: "null"}
	case string:
		return &js.Schema{Type: "string", Const: js.Ptr(value)}
	case float64:
		return &js.Schema{Type: "number", Const: js.Ptr(value)}
	case bool:
		return &js.Schema{Type: "boolean", Const: js.Ptr(value)}
	}

	// Bigint literals have no JSON representation; fail open.
	return TrueSchema()
}

func (w *walker) walkTuple(v *ast.Tuple) (*js.Schema, error) {
	out := &js.Schema{Type: "array"}

	// Plain array: no fixed elements, a single repeated rest type.
	if len(v.Elements) == 0 && len(v.Rest) == 1 {
		items, err := w.walk(v.Rest[0])
		if err != nil {
			return nil, err
		}

		out.Items = items

		return out, nil
	}

	// Mixed tuples widen to an item union with length bounds. Draft 7
	// positional items are deliberately avoided to keep the output
	// permissive across validators.
	var members []*js.Schema

	required := 0

	for _, el := range v.Elements {
		s, err := w.walk(el.Type)
		if err != nil {
			return nil, err
		}

		members = append(members, s)

		if !el.Optional {
			required++
		}
	}

	for _, r := range v.Rest {
		s, err := w.walk(r)
		if err != nil {
			return nil, err
		}

		members = append(members, s)
	}

	switch len(members) {
	case 0:
	case 1:
		out.Items = members[0]
	default:
		out.Items = &js.Schema{AnyOf: members}
	}

	if required > 0 {
		out.MinItems = js.Ptr(required + max(len(v.Rest)-1, 0))
	}

	if len(v.Rest) == 0 {
		out.MaxItems = js.Ptr(len(v.Elements))
	}

	return out, nil
}

func (w *walker) walkTypeLiteral(v *ast.TypeLiteral) (*js.Schema, error) {
	out := &js.Schema{Type: "object"}

	var (
		order    []string
		required []string
	)

	for _, p := range v.PropertySignatures {
		if p.Key.IsSymbol() {
			// Symbol keys have no JSON representation.
			continue
		}

		s, err := w.walk(p.Type)
		if err != nil {
			return nil, err
		}

		if out.Properties == nil {
			out.Properties = make(map[string]*js.Schema, len(v.PropertySignatures))
		}

		out.Properties[p.Key.Name()] = s
		order = append(order, p.Key.Name())

		if !p.Optional {
			required = append(required, p.Key.Name())
		}
	}

	out.PropertyOrder = order
	out.Required = required

	for _, idx := range v.IndexSignatures {
		s, err := w.walk(idx.Type)
		if err != nil {
			return nil, err
		}

		param := indexParameterBase(idx.Parameter)

		switch p := param.(type) {
		case *ast.TemplateLiteral:
			if out.PatternProperties == nil {
				out.PatternProperties = make(map[string]*js.Schema)
			}

			out.PatternProperties[p.Regexp().String()] = s

		case *ast.Keyword:
			if p.Kind() == ast.KindString {
				out.AdditionalProperties = s
			}
			// Symbol parameters have no JSON representation.
		}
	}

	if out.AdditionalProperties == nil {
		if w.gen.strict {
			out.AdditionalProperties = FalseSchema()
		} else {
			out.AdditionalProperties = TrueSchema()
		}
	}

	return out, nil
}

func indexParameterBase(n ast.Node) ast.Node {
	for {
		r, ok := n.(*ast.Refinement)
		if !ok {
			return n
		}

		n = r.From
	}
}

func (w *walker) walkUnion(v *ast.Union) (*js.Schema, error) {
	// A union of scalar literals is an enum.
	values := make([]any, 0, len(v.Members))
	allLiterals := true

	for _, m := range v.Members {
		lit, ok := m.(*ast.Literal)
		if !ok {
			allLiterals = false

			break
		}

		if _, isBig := lit.Value.(*big.Int); isBig {
			allLiterals = false

			break
		}

		values = append(values, lit.Value)
	}

	if allLiterals {
		return &js.Schema{Enum: values}, nil
	}

	members := make([]*js.Schema, 0, len(v.Members))

	for _, m := range v.Members {
		s, err := w.walk(m)
		if err != nil {
			return nil, err
		}

		members = append(members, s)
	}

	return &js.Schema{AnyOf: members}, nil
}

func (w *walker) walkLazy(v *ast.Lazy) (*js.Schema, error) {
	if name, ok := w.named[v]; ok {
		return &js.Schema{Ref: "#/$defs/" + name}, nil
	}

	name, ok := ast.IdentifierOf(v)
	if !ok {
		return nil, fmt.Errorf("%w", ErrUnsupportedRecursion)
	}

	w.named[v] = name
	// Reserve the slot before forcing the thunk so self-references
	// resolve to the $ref.
	w.defs[name] = TrueSchema()

	inner, err := w.walk(v.Thunk())
	if err != nil {
		return nil, err
	}

	w.defs[name] = inner

	return &js.Schema{Ref: "#/$defs/" + name}, nil
}

// applyAnnotations overlays node annotations onto the structural schema:
// title, description, examples, and the JSONSchema fragment, which wins
// field-by-field over the structural output.
func applyAnnotations(out *js.Schema, anns ast.Annotations) {
	if v, ok := anns.Get(ast.TitleAnnotation); ok {
		if s, isStr := v.(string); isStr {
			out.Title = s
		}
	}

	if v, ok := anns.Get(ast.DescriptionAnnotation); ok {
		if s, isStr := v.(string); isStr {
			out.Description = s
		}
	}

	if v, ok := anns.Get(ast.ExamplesAnnotation); ok {
		if xs, isList := v.([]any); isList {
			out.Examples = xs
		}
	}

	if v, ok := anns.Get(ast.JSONSchemaAnnotation); ok {
		if fragment, isSchema := v.(*js.Schema); isSchema && fragment != nil {
			overlayFragment(out, fragment)
		}
	}
}

// overlayFragment copies the set fields of src onto dst. Src wins; dst
// keeps only the fields src leaves at their zero value.
func overlayFragment(dst, src *js.Schema) {
	if src.Type != "" || len(src.Types) > 0 {
		dst.Type = src.Type
		dst.Types = src.Types
	}

	if src.Title != "" {
		dst.Title = src.Title
	}

	if src.Description != "" {
		dst.Description = src.Description
	}

	if src.Default != nil {
		dst.Default = src.Default
	}

	if src.Enum != nil {
		dst.Enum = src.Enum
	}

	if src.Const != nil {
		dst.Const = src.Const
	}

	if src.Pattern != "" {
		dst.Pattern = src.Pattern
	}

	if src.Format != "" {
		dst.Format = src.Format
	}

	if src.Minimum != nil {
		dst.Minimum = src.Minimum
	}

	if src.Maximum != nil {
		dst.Maximum = src.Maximum
	}

	if src.ExclusiveMinimum != nil {
		dst.ExclusiveMinimum = src.ExclusiveMinimum
	}

	if src.ExclusiveMaximum != nil {
		dst.ExclusiveMaximum = src.ExclusiveMaximum
	}

	if src.MultipleOf != nil {
		dst.MultipleOf = src.MultipleOf
	}

	if src.MinLength != nil {
		dst.MinLength = src.MinLength
	}

	if src.MaxLength != nil {
		dst.MaxLength = src.MaxLength
	}

	if src.MinItems != nil {
		dst.MinItems = src.MinItems
	}

	if src.MaxItems != nil {
		dst.MaxItems = src.MaxItems
	}

	if src.UniqueItems {
		dst.UniqueItems = src.UniqueItems
	}

	if src.Items != nil {
		dst.Items = src.Items
	}

	if src.Properties != nil {
		dst.Properties = src.Properties
	}

	if src.Required != nil {
		dst.Required = src.Required
	}

	if src.AdditionalProperties != nil {
		dst.AdditionalProperties = src.AdditionalProperties
	}

	if src.PatternProperties != nil {
		dst.PatternProperties = src.PatternProperties
	}

	if src.AnyOf != nil {
		dst.AnyOf = src.AnyOf
	}

	if src.OneOf != nil {
		dst.OneOf = src.OneOf
	}

	if src.AllOf != nil {
		dst.AllOf = src.AllOf
	}

	if src.Not != nil {
		dst.Not = src.Not
	}

	if src.Ref != "" {
		dst.Ref = src.Ref
	}

	if src.Examples != nil {
		dst.Examples = src.Examples
	}

	if src.Extra != nil {
		if dst.Extra == nil {
			dst.Extra = make(map[string]any, len(src.Extra))
		}

		for k, v := range src.Extra {
			dst.Extra[k] = v
		}
	}
}
