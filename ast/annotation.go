package ast

// Well-known annotation keys. Accessor combinators in the root package set
// these; interpreters read them. Unknown keys are preserved and passed
// through untouched, so user extensions can ride alongside.
var (
	// IdentifierAnnotation carries a stable string name for the node, used
	// in failure messages and as the $defs key by the JSON Schema
	// interpreter. Value type: string.
	IdentifierAnnotation = NewSymbol("schema/annotation/Identifier")

	// TitleAnnotation carries a short human title. Value type: string.
	TitleAnnotation = NewSymbol("schema/annotation/Title")

	// DescriptionAnnotation carries a human description. Value type: string.
	DescriptionAnnotation = NewSymbol("schema/annotation/Description")

	// DocumentationAnnotation carries free-form documentation text.
	// Value type: string.
	DocumentationAnnotation = NewSymbol("schema/annotation/Documentation")

	// ExamplesAnnotation carries an ordered list of sample values.
	// Value type: []any.
	ExamplesAnnotation = NewSymbol("schema/annotation/Examples")

	// MessageAnnotation carries a [MessageFunc] that overrides the default
	// failure message at this node.
	MessageAnnotation = NewSymbol("schema/annotation/Message")

	// JSONSchemaAnnotation carries a *jsonschema.Schema fragment injected
	// by refinement combinators and consumed by the JSON Schema
	// interpreter. The value is opaque to this package.
	JSONSchemaAnnotation = NewSymbol("schema/annotation/JSONSchema")

	// PrettyAnnotation carries a func(any) string used by the pretty
	// interpreter in place of the structural printer.
	PrettyAnnotation = NewSymbol("schema/annotation/Pretty")

	// CustomAnnotation carries an opaque user extension value.
	CustomAnnotation = NewSymbol("schema/annotation/Custom")
)

// MessageFunc produces a failure message for the offending value. It must
// be side-effect-free; the formatter may call it zero or more times.
type MessageFunc func(actual any) string

// Annotations is an insertion-ordered mapping from symbolic key to opaque
// value. The zero value is an empty, usable map. Annotations values are
// treated as immutable; [Annotations.Set] and [Annotations.Merge] return
// copies.
type Annotations struct {
	keys   []*Symbol
	values map[*Symbol]any
}

// Get returns the value for key, and whether it is present.
func (a Annotations) Get(key *Symbol) (any, bool) {
	v, ok := a.values[key]

	return v, ok
}

// Len returns the number of annotation entries.
func (a Annotations) Len() int {
	return len(a.keys)
}

// Keys returns the annotation keys in insertion order. The caller must not
// modify the returned slice.
func (a Annotations) Keys() []*Symbol {
	return a.keys
}

// Set returns a copy of a with key bound to value. An existing key keeps
// its position; a new key is appended.
func (a Annotations) Set(key *Symbol, value any) Annotations {
	out := a.clone()
	if _, ok := out.values[key]; !ok {
		out.keys = append(out.keys, key)
	}

	out.values[key] = value

	return out
}

// Merge returns a copy of a overlaid with b. Keys present in both take b's
// value (newer wins) while keeping their original position; keys only in b
// are appended in b's order.
func (a Annotations) Merge(b Annotations) Annotations {
	out := a.clone()

	for _, key := range b.keys {
		if _, ok := out.values[key]; !ok {
			out.keys = append(out.keys, key)
		}

		out.values[key] = b.values[key]
	}

	return out
}

func (a Annotations) clone() Annotations {
	out := Annotations{
		keys:   make([]*Symbol, len(a.keys)),
		values: make(map[*Symbol]any, len(a.values)),
	}

	copy(out.keys, a.keys)

	for k, v := range a.values {
		out.values[k] = v
	}

	return out
}

// IdentifierOf returns the Identifier annotation of n, if set.
func IdentifierOf(n Node) (string, bool) {
	v, ok := n.Annotations().Get(IdentifierAnnotation)
	if !ok {
		return "", false
	}

	s, ok := v.(string)

	return s, ok
}

// MessageOf returns the Message annotation of n, if set.
func MessageOf(n Node) (MessageFunc, bool) {
	v, ok := n.Annotations().Get(MessageAnnotation)
	if !ok {
		return nil, false
	}

	f, ok := v.(MessageFunc)

	return f, ok
}

// MergeAnnotations returns a node of the same variant as n with anns
// overlaid onto its annotations, newer keys winning. n is not modified.
func MergeAnnotations(n Node, anns Annotations) Node {
	merged := n.Annotations().Merge(anns)

	switch v := n.(type) {
	case *Keyword:
		c := *v
		c.annotations = merged

		return &c
	case *Literal:
		c := *v
		c.annotations = merged

		return &c
	case *UniqueSymbol:
		c := *v
		c.annotations = merged

		return &c
	case *TemplateLiteral:
		c := *v
		c.annotations = merged

		return &c
	case *Enums:
		c := *v
		c.annotations = merged

		return &c
	case *Tuple:
		c := *v
		c.annotations = merged

		return &c
	case *TypeLiteral:
		c := *v
		c.annotations = merged

		return &c
	case *Union:
		c := *v
		c.annotations = merged

		return &c
	case *Refinement:
		c := *v
		c.annotations = merged

		return &c
	case *Transform:
		c := *v
		c.annotations = merged

		return &c
	case *Lazy:
		c := *v
		c.annotations = merged

		return &c
	case *TypeAlias:
		c := *v
		c.annotations = merged

		return &c
	}

	return n
}
