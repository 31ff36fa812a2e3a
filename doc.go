// Package schema is a composable schema library: a small algebra of
// combinators builds a value describing a data shape, and a family of
// interpreters derives artifacts from that description -- a validating
// decoder, an encoder, a structural guard, a pretty-printer, a random
// value generator, and a JSON Schema emitter.
//
// A schema is built from combinators and carries its decoded Go type:
//
//	user := schema.Struct(
//		schema.Field("name", schema.String()),
//		schema.Field("age", schema.Int(schema.Number())).Optional(),
//	)
//
//	v, err := schema.Decode(user, map[string]any{"name": "ada"})
//
// Decoding consumes host-native values (nil, bool, string, float64,
// *big.Int, *ast.Symbol, []any, map[string]any) and produces freshly
// constructed host-native values. Failures are returned as values: a tree
// of typed failure nodes with precise path context, rendered by
// [go.jacobcolvin.com/schema/parse.Format]. Byte-level glue is provided
// for JSON ([UnmarshalJSON]) and YAML ([UnmarshalYAML]).
//
// # Design Principles
//
//  1. Schemas are immutable values. Every combinator returns a new
//     schema; the wrapped syntax tree is never mutated after
//     construction.
//
//  2. Failures are values. The decoder never panics and never returns a
//     bare Go error from inside the interpretation; [MustDecode] and
//     [MustEncode] opt into panics at the edge.
//
//  3. Construction errors are programmer errors. Duplicate struct keys,
//     malformed tuple element order, and invalid template literal spans
//     panic eagerly at build time with a descriptive message, the same
//     way a malformed regular expression does.
//
//  4. Interpreters are pure and deterministic. Union members are tried
//     in declared order, struct properties in declared order, and two
//     decodes of equal inputs against the same compiled schema produce
//     equal results.
//
// # Transformations and Refinements
//
// [Filter] narrows a schema by a predicate without changing its type.
// [Transform] and [TransformOrFail] map between two schemas in both
// directions; decoding runs the forward mapping, encoding the reverse.
// Refinements re-verify on encode, so encoded output always passes the
// full chain.
//
// # Recursion
//
// [Lazy] defers schema construction, enabling self-referential
// definitions. Interpreters force each lazy node exactly once per
// compilation, memoized by node identity.
//
// # Structural Operations
//
// [Pick], [Omit], [Partial], [Extend], and [Keyof] rewrite struct-like
// schemas algebraically, distributing over unions. [Union] construction
// normalizes: nested unions flatten, never members drop, duplicates
// collapse, and unknown or any absorbs the rest.
//
// # Interpreters
//
// Beyond decode and encode, sibling packages interpret the same syntax
// tree: [go.jacobcolvin.com/schema/parse] (the core parser and guard),
// [go.jacobcolvin.com/schema/pretty] (schema-directed printing),
// [go.jacobcolvin.com/schema/arbitrary] (random value generation), and
// [go.jacobcolvin.com/schema/jsonschema] (JSON Schema emission).
//
// # CLI Integration
//
// [Config] bridges CLI flags to decode options, following the
// RegisterFlags / RegisterCompletions pattern:
//
//	cfg := schema.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	_ = cfg.RegisterCompletions(rootCmd)
//
//	opts, err := cfg.ParseOptions()
//	v, err := schema.Decode(s, input, opts...)
package schema
