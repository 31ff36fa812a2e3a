// Package ast defines the internal representation of schemas: a closed set
// of immutable node variants, constructors that enforce structural
// invariants, and algebraic operations that rewrite nodes without mutating
// them.
//
// A schema is described by a [Node]. Leaf variants cover the primitive
// keywords ([Keyword]), constants ([Literal], [UniqueSymbol], [Enums]), and
// string domains ([TemplateLiteral]). Composite variants cover ordered
// sequences ([Tuple]), keyed structures ([TypeLiteral]), alternatives
// ([Union]), domain narrowing ([Refinement]), bidirectional mappings
// ([Transform]), recursion ([Lazy]), and named wrappers ([TypeAlias]).
//
// Nodes are value objects: once constructed they must not be modified.
// Operations such as [MergeAnnotations], [Pick], and [Partial] return new
// nodes and leave their inputs untouched. Interpreters (the parser, guard,
// pretty-printer, and generator packages) fold a node tree into an artifact
// and rely on this immutability for memoization.
//
// Constructors validate their inputs eagerly. A malformed construction --
// duplicate property names, optional tuple elements before required ones,
// an unsupported index signature parameter -- is a programmer error and is
// reported immediately via a sentinel error such as [ErrDuplicateProperty],
// never deferred to decode time.
package ast
