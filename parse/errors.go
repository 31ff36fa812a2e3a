package parse

import "go.jacobcolvin.com/schema/ast"

// Error is one node of a failure tree. The concrete variants are
// [TypeError], [RefinementError], [TransformError], [KeyError],
// [IndexError], [MemberError], [UnionMemberError], [MissingError], and
// [UnexpectedError].
type Error interface {
	parseError()
}

// TypeError reports a value outside the domain of the expected node.
type TypeError struct {
	Expected ast.Node
	Actual   any
}

func (TypeError) parseError() {}

// RefinementKind locates a refinement failure.
type RefinementKind int

const (
	// RefinementFrom marks a failure inside the refined node.
	RefinementFrom RefinementKind = iota
	// RefinementPredicate marks a predicate returning false.
	RefinementPredicate
)

// RefinementError reports a refinement failure.
type RefinementError struct {
	Node   *ast.Refinement
	Actual any
	Kind   RefinementKind
	// Errors carries the inner failure when Kind is [RefinementFrom].
	Errors []Error
}

func (RefinementError) parseError() {}

// TransformKind locates a transform failure.
type TransformKind int

const (
	// TransformFrom marks a failure on the from side.
	TransformFrom TransformKind = iota
	// TransformTo marks a failure on the to side.
	TransformTo
	// TransformTransformation marks a failing mapping function.
	TransformTransformation
)

// TransformError reports a transform failure.
type TransformError struct {
	Node   *ast.Transform
	Actual any
	Kind   TransformKind
	// Errors carries the inner failure tree when one exists.
	Errors []Error
	// Message carries the mapping function's error text when Kind is
	// [TransformTransformation] and no structured tree was provided.
	Message string
}

func (TransformError) parseError() {}

// KeyError wraps failures under one object key.
type KeyError struct {
	Key    ast.PropertyKey
	Errors []Error
}

func (KeyError) parseError() {}

// IndexError wraps failures under one sequence index.
type IndexError struct {
	Index  int
	Errors []Error
}

func (IndexError) parseError() {}

// MissingError reports a required property or element that is absent.
type MissingError struct{}

func (MissingError) parseError() {}

// UnexpectedError reports an excess property or element under the error
// policy.
type UnexpectedError struct {
	Actual any
}

func (UnexpectedError) parseError() {}

// MemberError is the failure list of one union branch.
type MemberError struct {
	// Index is the declared position of the branch.
	Index  int
	Errors []Error
}

func (MemberError) parseError() {}

// UnionMemberError groups the branch failures of a union in which no
// member accepted the input.
type UnionMemberError struct {
	Members []MemberError
}

func (UnionMemberError) parseError() {}
