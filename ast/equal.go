package ast

import "math/big"

// Equal reports structural equality of two nodes, ignoring annotations.
// Refinement, transform, and lazy nodes compare by identity: their behavior
// lives in opaque functions, so two distinct nodes are never assumed
// interchangeable. This keeps union deduplication conservative.
func Equal(a, b Node) bool {
	if a == b {
		return true
	}

	if a.Kind() != b.Kind() {
		return false
	}

	switch av := a.(type) {
	case *Keyword:
		return true // same kind
	case *Literal:
		return literalEqual(av.Value, b.(*Literal).Value)
	case *UniqueSymbol:
		return av.Symbol == b.(*UniqueSymbol).Symbol
	case *TemplateLiteral:
		return templateLiteralEqual(av, b.(*TemplateLiteral))
	case *Enums:
		return enumsEqual(av, b.(*Enums))
	case *Tuple:
		return tupleEqual(av, b.(*Tuple))
	case *TypeLiteral:
		return typeLiteralEqual(av, b.(*TypeLiteral))
	case *Union:
		return unionEqual(av, b.(*Union))
	case *TypeAlias:
		return Equal(av.Type, b.(*TypeAlias).Type)
	}

	// Refinement, Transform, Lazy: identity only, handled by a == b above.
	return false
}

func literalEqual(a, b any) bool {
	ab, aBig := a.(*big.Int)

	bb, bBig := b.(*big.Int)
	if aBig != bBig {
		return false
	}

	if aBig {
		return ab.Cmp(bb) == 0
	}

	return a == b
}

func templateLiteralEqual(a, b *TemplateLiteral) bool {
	if a.Head != b.Head || len(a.Spans) != len(b.Spans) {
		return false
	}

	for i := range a.Spans {
		if a.Spans[i].Literal != b.Spans[i].Literal {
			return false
		}

		if !Equal(a.Spans[i].Type, b.Spans[i].Type) {
			return false
		}
	}

	return true
}

func enumsEqual(a, b *Enums) bool {
	if len(a.Members) != len(b.Members) {
		return false
	}

	for i := range a.Members {
		if a.Members[i].Name != b.Members[i].Name {
			return false
		}

		if !literalEqual(a.Members[i].Value, b.Members[i].Value) {
			return false
		}
	}

	return true
}

func tupleEqual(a, b *Tuple) bool {
	if a.ReadOnly != b.ReadOnly || len(a.Elements) != len(b.Elements) || len(a.Rest) != len(b.Rest) {
		return false
	}

	for i := range a.Elements {
		if a.Elements[i].Optional != b.Elements[i].Optional {
			return false
		}

		if !Equal(a.Elements[i].Type, b.Elements[i].Type) {
			return false
		}
	}

	for i := range a.Rest {
		if !Equal(a.Rest[i], b.Rest[i]) {
			return false
		}
	}

	return true
}

func typeLiteralEqual(a, b *TypeLiteral) bool {
	if len(a.PropertySignatures) != len(b.PropertySignatures) {
		return false
	}

	if len(a.IndexSignatures) != len(b.IndexSignatures) {
		return false
	}

	for i := range a.PropertySignatures {
		pa, pb := a.PropertySignatures[i], b.PropertySignatures[i]
		if pa.Key != pb.Key || pa.Optional != pb.Optional || pa.ReadOnly != pb.ReadOnly {
			return false
		}

		if !Equal(pa.Type, pb.Type) {
			return false
		}
	}

	for i := range a.IndexSignatures {
		ia, ib := a.IndexSignatures[i], b.IndexSignatures[i]
		if ia.ReadOnly != ib.ReadOnly || !Equal(ia.Parameter, ib.Parameter) || !Equal(ia.Type, ib.Type) {
			return false
		}
	}

	return true
}

func unionEqual(a, b *Union) bool {
	if len(a.Members) != len(b.Members) {
		return false
	}

	for i := range a.Members {
		if !Equal(a.Members[i], b.Members[i]) {
			return false
		}
	}

	return true
}
