package ast

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by algebraic operations.
var (
	ErrUnsupportedNode = errors.New("unsupported node")
	ErrUnknownKey      = errors.New("unknown key")
)

// Keyof returns the union of the member names of n: a union of string
// literal and unique symbol nodes for a [TypeLiteral], the intersection of
// member key sets for a [Union]. Refinements, transforms, type aliases,
// and lazy nodes are looked through.
func Keyof(n Node) (Node, error) {
	keys, err := keySet(n)
	if err != nil {
		return nil, err
	}

	members := make([]Node, 0, len(keys))

	for _, k := range keys {
		members = append(members, keyNode(k))
	}

	return NewUnion(members...), nil
}

func keyNode(k PropertyKey) Node {
	if k.IsSymbol() {
		return NewUniqueSymbol(k.Symbol())
	}

	lit, err := NewLiteral(k.Name())
	if err != nil {
		// Unreachable: string literals are always valid.
		panic(err)
	}

	return lit
}

// keySet returns the ordered property keys of a struct-like node.
func keySet(n Node) ([]PropertyKey, error) {
	switch v := n.(type) {
	case *TypeLiteral:
		keys := make([]PropertyKey, 0, len(v.PropertySignatures))

		for _, p := range v.PropertySignatures {
			keys = append(keys, p.Key)
		}

		return keys, nil

	case *Union:
		keys, err := keySet(v.Members[0])
		if err != nil {
			return nil, err
		}

		for _, m := range v.Members[1:] {
			mk, mErr := keySet(m)
			if mErr != nil {
				return nil, mErr
			}

			keys = intersectKeys(keys, mk)
		}

		return keys, nil

	case *Refinement:
		return keySet(v.From)
	case *Transform:
		return keySet(v.To)
	case *TypeAlias:
		return keySet(v.Type)
	case *Lazy:
		return keySet(v.Thunk())
	}

	return nil, fmt.Errorf("keyof: %w: %s", ErrUnsupportedNode, n.Kind())
}

func intersectKeys(a, b []PropertyKey) []PropertyKey {
	present := make(map[PropertyKey]struct{}, len(b))

	for _, k := range b {
		present[k] = struct{}{}
	}

	out := a[:0:0]

	for _, k := range a {
		if _, ok := present[k]; ok {
			out = append(out, k)
		}
	}

	return out
}

// Pick returns a node accepting only the requested keys of n. On a
// [TypeLiteral] the property signatures are filtered in request order;
// a requested key with no property signature is synthesized from a
// matching index signature, and [ErrUnknownKey] is returned when nothing
// matches. Index signatures survive only when every requested key still
// satisfies their parameter. On a [Union] the operation distributes over
// the members. Container annotations are preserved.
func Pick(n Node, keys ...PropertyKey) (Node, error) {
	return rewriteStructLike(n, "pick", func(tl *TypeLiteral) (Node, error) {
		props := make([]PropertySignature, 0, len(keys))

		for _, key := range keys {
			sig, ok := findSignature(tl, key)
			if !ok {
				return nil, fmt.Errorf("pick: %w: %s", ErrUnknownKey, key)
			}

			props = append(props, sig)
		}

		indexes := make([]IndexSignature, 0, len(tl.IndexSignatures))

		for _, idx := range tl.IndexSignatures {
			if indexParameterAcceptsAll(idx.Parameter, keys) {
				indexes = append(indexes, idx)
			}
		}

		out, err := NewTypeLiteral(props, indexes)
		if err != nil {
			return nil, err
		}

		return MergeAnnotations(out, tl.Annotations()), nil
	})
}

func indexParameterAcceptsAll(parameter Node, keys []PropertyKey) bool {
	for _, key := range keys {
		if !IndexParameterAccepts(parameter, key) {
			return false
		}
	}

	return true
}

// findSignature locates the property signature for key, falling back to a
// signature synthesized from the first index signature whose parameter
// accepts the key.
func findSignature(tl *TypeLiteral, key PropertyKey) (PropertySignature, bool) {
	for _, p := range tl.PropertySignatures {
		if p.Key == key {
			return p, true
		}
	}

	for _, idx := range tl.IndexSignatures {
		if IndexParameterAccepts(idx.Parameter, key) {
			return PropertySignature{Key: key, Type: idx.Type, ReadOnly: idx.ReadOnly}, true
		}
	}

	return PropertySignature{}, false
}

// Omit returns a node accepting every key of n except the given ones. The
// dual of [Pick]; index signatures are preserved.
func Omit(n Node, keys ...PropertyKey) (Node, error) {
	drop := make(map[PropertyKey]struct{}, len(keys))

	for _, k := range keys {
		drop[k] = struct{}{}
	}

	return rewriteStructLike(n, "omit", func(tl *TypeLiteral) (Node, error) {
		props := make([]PropertySignature, 0, len(tl.PropertySignatures))

		for _, p := range tl.PropertySignatures {
			if _, skip := drop[p.Key]; skip {
				continue
			}

			props = append(props, p)
		}

		out, err := NewTypeLiteral(props, tl.IndexSignatures)
		if err != nil {
			return nil, err
		}

		return MergeAnnotations(out, tl.Annotations()), nil
	})
}

// Partial returns a node in which every member of n is optional: all
// property signatures of a [TypeLiteral], all elements of a [Tuple] (whose
// rest segment additionally admits undefined), distributing over [Union]
// members. Type aliases are looked through.
func Partial(n Node) (Node, error) {
	switch v := n.(type) {
	case *TypeLiteral:
		props := make([]PropertySignature, len(v.PropertySignatures))

		for i, p := range v.PropertySignatures {
			p.Optional = true
			props[i] = p
		}

		out, err := NewTypeLiteral(props, v.IndexSignatures)
		if err != nil {
			return nil, err
		}

		return MergeAnnotations(out, v.Annotations()), nil

	case *Tuple:
		elements := make([]TupleElement, len(v.Elements))

		for i, el := range v.Elements {
			el.Optional = true
			elements[i] = el
		}

		rest := make([]Node, len(v.Rest))

		for i, r := range v.Rest {
			rest[i] = NewUnion(r, UndefinedKeyword)
		}

		out, err := NewTuple(elements, rest, v.ReadOnly)
		if err != nil {
			return nil, err
		}

		return MergeAnnotations(out, v.Annotations()), nil

	case *Union:
		members := make([]Node, len(v.Members))

		for i, m := range v.Members {
			pm, err := Partial(m)
			if err != nil {
				return nil, err
			}

			members[i] = pm
		}

		return MergeAnnotations(NewUnion(members...), v.Annotations()), nil

	case *TypeAlias:
		return Partial(v.Type)
	}

	return nil, fmt.Errorf("partial: %w: %s", ErrUnsupportedNode, n.Kind())
}

// Extend merges the members of two struct-like nodes. Both sides must be
// type literals, unions of type literals, or type aliases thereof; the
// operation distributes over unions on either side. A key present on both
// sides is an error ([ErrDuplicateProperty]) unless the two signatures are
// structurally identical, in which case one copy is kept.
func Extend(a, b Node) (Node, error) {
	as, err := structMembers(a)
	if err != nil {
		return nil, err
	}

	bs, err := structMembers(b)
	if err != nil {
		return nil, err
	}

	products := make([]Node, 0, len(as)*len(bs))

	for _, am := range as {
		for _, bm := range bs {
			merged, mErr := mergeTypeLiterals(am, bm)
			if mErr != nil {
				return nil, mErr
			}

			products = append(products, merged)
		}
	}

	if len(products) == 1 {
		return products[0], nil
	}

	return NewUnion(products...), nil
}

func mergeTypeLiterals(a, b *TypeLiteral) (*TypeLiteral, error) {
	props := append([]PropertySignature(nil), a.PropertySignatures...)

	for _, p := range b.PropertySignatures {
		existing, found := -1, false

		for i, ap := range props {
			if ap.Key == p.Key {
				existing, found = i, true

				break
			}
		}

		if !found {
			props = append(props, p)

			continue
		}

		prev := props[existing]
		if prev.Optional != p.Optional || prev.ReadOnly != p.ReadOnly || !Equal(prev.Type, p.Type) {
			return nil, fmt.Errorf("extend: %w: %s", ErrDuplicateProperty, p.Key)
		}
	}

	indexes := append([]IndexSignature(nil), a.IndexSignatures...)
	indexes = append(indexes, b.IndexSignatures...)

	return NewTypeLiteral(props, indexes)
}

// structMembers resolves n to its type literal members, distributing over
// unions and looking through type aliases.
func structMembers(n Node) ([]*TypeLiteral, error) {
	switch v := n.(type) {
	case *TypeLiteral:
		return []*TypeLiteral{v}, nil
	case *TypeAlias:
		return structMembers(v.Type)
	case *Union:
		var out []*TypeLiteral

		for _, m := range v.Members {
			ms, err := structMembers(m)
			if err != nil {
				return nil, err
			}

			out = append(out, ms...)
		}

		return out, nil
	}

	return nil, fmt.Errorf("extend: %w: %s", ErrUnsupportedNode, n.Kind())
}

// rewriteStructLike applies rewrite to the type literal under n,
// distributing over union members and looking through type aliases.
func rewriteStructLike(n Node, op string, rewrite func(*TypeLiteral) (Node, error)) (Node, error) {
	switch v := n.(type) {
	case *TypeLiteral:
		return rewrite(v)

	case *TypeAlias:
		return rewriteStructLike(v.Type, op, rewrite)

	case *Union:
		members := make([]Node, len(v.Members))

		for i, m := range v.Members {
			rm, err := rewriteStructLike(m, op, rewrite)
			if err != nil {
				return nil, err
			}

			members[i] = rm
		}

		return MergeAnnotations(NewUnion(members...), v.Annotations()), nil
	}

	return nil, fmt.Errorf("%s: %w: %s", op, ErrUnsupportedNode, n.Kind())
}
